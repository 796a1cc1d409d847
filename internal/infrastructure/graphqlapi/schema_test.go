package graphqlapi

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mrops-br/crm-api/internal/app/service"
	"github.com/mrops-br/crm-api/internal/infrastructure/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

type gqlResponse struct {
	Data   map[string]any `json:"data"`
	Errors []struct {
		Message    string         `json:"message"`
		Extensions map[string]any `json:"extensions"`
	} `json:"errors"`
}

func newTestHandler(t *testing.T) *Handler {
	t.Helper()

	tracer := tracenoop.NewTracerProvider().Tracer("test")
	meter := metricnoop.NewMeterProvider().Meter("test")
	logger := slog.New(slog.DiscardHandler)
	store := memory.NewStore(tracer, logger)

	schema, err := NewSchema(Services{
		Customers: service.NewCustomerService(store, tracer, meter, logger),
		Products:  service.NewProductService(store, tracer, meter, logger),
		Orders:    service.NewOrderService(store, tracer, meter, logger),
	})
	require.NoError(t, err)

	return NewHandler(schema, logger)
}

func do(t *testing.T, h *Handler, query string, variables map[string]any) gqlResponse {
	t.Helper()

	body, err := json.Marshal(Request{Query: query, Variables: variables})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/graphql", bytes.NewReader(body)))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp gqlResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp
}

func field(t *testing.T, v any, path ...string) any {
	t.Helper()
	for _, key := range path {
		m, ok := v.(map[string]any)
		require.True(t, ok, "expected object at %q", key)
		v = m[key]
	}
	return v
}

func TestHello(t *testing.T) {
	h := newTestHandler(t)

	resp := do(t, h, `{ hello }`, nil)
	assert.Empty(t, resp.Errors)
	assert.Equal(t, "Hello, GraphQL!", resp.Data["hello"])

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/graphql?query=%7Bhello%7D", nil))
	assert.Contains(t, rec.Body.String(), "Hello, GraphQL!")
}

func TestCreateCustomerAndConflict(t *testing.T) {
	h := newTestHandler(t)
	const mutation = `mutation($name: String!, $email: String!, $phone: String) {
		createCustomer(name: $name, email: $email, phone: $phone) {
			customer { id name email phone }
			message
		}
	}`
	vars := map[string]any{"name": "Alice", "email": "alice@example.com", "phone": "+1-555-1234"}

	resp := do(t, h, mutation, vars)
	require.Empty(t, resp.Errors)
	assert.Equal(t, "Customer created successfully", field(t, resp.Data, "createCustomer", "message"))
	assert.Equal(t, "alice@example.com", field(t, resp.Data, "createCustomer", "customer", "email"))

	resp = do(t, h, mutation, vars)
	require.Len(t, resp.Errors, 1)
	assert.Equal(t, "CONFLICT", resp.Errors[0].Extensions["code"])
	assert.Equal(t, "email", resp.Errors[0].Extensions["field"])
	assert.Equal(t, "alice@example.com", resp.Errors[0].Extensions["value"])

	resp = do(t, h, `{ customers { email } }`, nil)
	assert.Len(t, resp.Data["customers"], 1)
}

func TestInvalidPhoneExtension(t *testing.T) {
	h := newTestHandler(t)

	resp := do(t, h, `mutation { createCustomer(name: "Bob", email: "bob@example.com", phone: "abc") { message } }`, nil)
	require.Len(t, resp.Errors, 1)
	assert.Equal(t, "INVALID_FORMAT", resp.Errors[0].Extensions["code"])
	assert.Equal(t, "phone", resp.Errors[0].Extensions["field"])
}

func TestBulkCreateCustomers(t *testing.T) {
	h := newTestHandler(t)

	resp := do(t, h, `mutation {
		bulkCreateCustomers(input: [
			{name: "A", email: "a@example.com"},
			{name: "X", email: "not-an-email"},
			{name: "B", email: "b@example.com"}
		]) {
			customers { name }
			errors
		}
	}`, nil)
	require.Empty(t, resp.Errors)

	customers := field(t, resp.Data, "bulkCreateCustomers", "customers").([]any)
	require.Len(t, customers, 2)
	assert.Equal(t, "A", field(t, customers[0], "name"))
	assert.Equal(t, "B", field(t, customers[1], "name"))

	errs := field(t, resp.Data, "bulkCreateCustomers", "errors").([]any)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "input[1]")
}

func TestCreateProductDefaultsAndBounds(t *testing.T) {
	h := newTestHandler(t)

	resp := do(t, h, `mutation { createProduct(name: "Laptop", price: 999.99) { product { name price stock } } }`, nil)
	require.Empty(t, resp.Errors)
	assert.Equal(t, 999.99, field(t, resp.Data, "createProduct", "product", "price"))
	assert.EqualValues(t, 0, field(t, resp.Data, "createProduct", "product", "stock"))

	resp = do(t, h, `mutation { createProduct(name: "Free", price: 0) { product { id } } }`, nil)
	require.Len(t, resp.Errors, 1)
	assert.Equal(t, "OUT_OF_RANGE", resp.Errors[0].Extensions["code"])
}

func TestCreateOrder(t *testing.T) {
	h := newTestHandler(t)

	customer := do(t, h, `mutation { createCustomer(name: "Alice", email: "alice@example.com") { customer { id } } }`, nil)
	customerID := field(t, customer.Data, "createCustomer", "customer", "id")

	p1 := do(t, h, `mutation { createProduct(name: "P1", price: 10) { product { id } } }`, nil)
	p2 := do(t, h, `mutation { createProduct(name: "P2", price: 15) { product { id } } }`, nil)
	ids := []any{
		field(t, p1.Data, "createProduct", "product", "id"),
		field(t, p2.Data, "createProduct", "product", "id"),
	}

	const mutation = `mutation($customerId: ID!, $productIds: [ID!]!, $orderDate: DateTime) {
		createOrder(customerId: $customerId, productIds: $productIds, orderDate: $orderDate) {
			order { totalAmount orderDate customer { email } products { name } }
		}
	}`

	resp := do(t, h, mutation, map[string]any{
		"customerId": customerID,
		"productIds": ids,
		"orderDate":  "2024-03-01T10:00:00Z",
	})
	require.Empty(t, resp.Errors)
	assert.Equal(t, 25.0, field(t, resp.Data, "createOrder", "order", "totalAmount"))
	assert.Equal(t, "2024-03-01T10:00:00Z", field(t, resp.Data, "createOrder", "order", "orderDate"))
	assert.Equal(t, "alice@example.com", field(t, resp.Data, "createOrder", "order", "customer", "email"))
	assert.Len(t, field(t, resp.Data, "createOrder", "order", "products"), 2)

	resp = do(t, h, mutation, map[string]any{
		"customerId": customerID,
		"productIds": append(ids, "missing"),
	})
	require.Len(t, resp.Errors, 1)
	assert.Equal(t, "PARTIAL_NOT_FOUND", resp.Errors[0].Extensions["code"])

	resp = do(t, h, mutation, map[string]any{
		"customerId": "nobody",
		"productIds": ids,
	})
	require.Len(t, resp.Errors, 1)
	assert.Equal(t, "NOT_FOUND", resp.Errors[0].Extensions["code"])

	resp = do(t, h, `{ orders { totalAmount } }`, nil)
	assert.Len(t, resp.Data["orders"], 1)
}
