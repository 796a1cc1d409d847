package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mrops-br/crm-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusFor(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{domain.ValidatePhone("abc"), http.StatusBadRequest},
		{domain.ValidateStock(-1), http.StatusBadRequest},
		{domain.ConflictError("email", "a@example.com", "email already exists"), http.StatusConflict},
		{domain.NotFoundError("customer_id", "x", "invalid customer ID"), http.StatusNotFound},
		{domain.PartialNotFoundError("product_ids", "x", "some products not found"), http.StatusUnprocessableEntity},
		{fmt.Errorf("store: %w", domain.ErrConflict), http.StatusConflict},
		{errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, StatusFor(tc.err), tc.err.Error())
	}
}

func TestFromErrorCarriesFieldContext(t *testing.T) {
	rec := httptest.NewRecorder()

	FromError(rec, domain.ConflictError("email", "a@example.com", "email already exists"))

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "conflict", body.Error)
	assert.Equal(t, "CONFLICT", body.Code)
	assert.Equal(t, "email", body.Field)
	assert.Equal(t, "a@example.com", body.Value)
	assert.Equal(t, "email already exists", body.Message)
}
