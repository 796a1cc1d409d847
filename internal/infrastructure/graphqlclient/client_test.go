package graphqlclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serve(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req request
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.NotEmpty(t, req.Query)

		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(ts.Close)
	return ts
}

func TestHello(t *testing.T) {
	ts := serve(t, http.StatusOK, `{"data":{"hello":"Hello, GraphQL!"}}`)

	greeting, err := New(ts.URL).Hello(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Hello, GraphQL!", greeting)
}

func TestHelloMissingField(t *testing.T) {
	ts := serve(t, http.StatusOK, `{"data":{}}`)

	greeting, err := New(ts.URL).Hello(context.Background())
	require.NoError(t, err)
	assert.Equal(t, NoResponse, greeting)
}

func TestExecuteGraphQLErrors(t *testing.T) {
	ts := serve(t, http.StatusOK, `{"data":null,"errors":[{"message":"boom","extensions":{"code":"INTERNAL"}}]}`)

	err := New(ts.URL).Execute(context.Background(), "{ hello }", nil, nil)
	require.Error(t, err)
	assert.True(t, IsGraphQLError(err))
	assert.Equal(t, "graphql: boom", err.Error())
}

func TestExecuteBadStatus(t *testing.T) {
	ts := serve(t, http.StatusBadGateway, `upstream down`)

	err := New(ts.URL).Execute(context.Background(), "{ hello }", nil, nil)
	require.Error(t, err)
	assert.False(t, IsGraphQLError(err))
	assert.Contains(t, err.Error(), "502")
}

func TestExecuteHonoursDeadline(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	t.Cleanup(ts.Close)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := New(ts.URL).Hello(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestExecuteDecodesData(t *testing.T) {
	ts := serve(t, http.StatusOK, `{"data":{"customers":[{"id":"1"},{"id":"2"}]}}`)

	var out struct {
		Customers []struct {
			ID string `json:"id"`
		} `json:"customers"`
	}
	require.NoError(t, New(ts.URL).Execute(context.Background(), "{ customers { id } }", nil, &out))
	assert.Len(t, out.Customers, 2)
}
