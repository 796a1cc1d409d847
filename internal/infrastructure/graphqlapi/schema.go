package graphqlapi

import (
	"errors"
	"fmt"
	"time"

	"github.com/graphql-go/graphql"
	"github.com/mrops-br/crm-api/internal/app/dto"
	"github.com/mrops-br/crm-api/internal/app/service"
	"github.com/mrops-br/crm-api/internal/domain"
	"github.com/shopspring/decimal"
)

// Services are the use cases exposed through the schema
type Services struct {
	Customers *service.CustomerService
	Products  *service.ProductService
	Orders    *service.OrderService
}

type resolver struct {
	services Services
}

// NewSchema builds the CRM GraphQL schema over the given services
func NewSchema(services Services) (graphql.Schema, error) {
	r := &resolver{services: services}

	customerType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Customer",
		Fields: graphql.Fields{
			"id":        &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
			"name":      &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"email":     &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"phone":     &graphql.Field{Type: graphql.String},
			"createdAt": &graphql.Field{Type: graphql.DateTime},
		},
	})

	productType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Product",
		Fields: graphql.Fields{
			"id":   &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
			"name": &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"price": &graphql.Field{
				Type: graphql.NewNonNull(graphql.Float),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					product, _ := p.Source.(*dto.ProductResponse)
					if product == nil {
						return nil, nil
					}
					return product.Price.InexactFloat64(), nil
				},
			},
			"stock":     &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
			"createdAt": &graphql.Field{Type: graphql.DateTime},
		},
	})

	orderType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Order",
		Fields: graphql.Fields{
			"id":       &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
			"customer": &graphql.Field{Type: customerType},
			"products": &graphql.Field{Type: graphql.NewList(productType)},
			"totalAmount": &graphql.Field{
				Type: graphql.NewNonNull(graphql.Float),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					order, _ := p.Source.(*dto.OrderResponse)
					if order == nil {
						return nil, nil
					}
					return order.TotalAmount.InexactFloat64(), nil
				},
			},
			"orderDate": &graphql.Field{Type: graphql.DateTime},
			"createdAt": &graphql.Field{Type: graphql.DateTime},
		},
	})

	customerInput := graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "CustomerInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"name":  &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
			"email": &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
			"phone": &graphql.InputObjectFieldConfig{Type: graphql.String},
		},
	})

	query := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"hello": &graphql.Field{
				Type: graphql.String,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return service.HelloGreeting, nil
				},
			},
			"customers": &graphql.Field{Type: graphql.NewList(customerType), Resolve: r.customers},
			"products":  &graphql.Field{Type: graphql.NewList(productType), Resolve: r.products},
			"orders":    &graphql.Field{Type: graphql.NewList(orderType), Resolve: r.orders},
		},
	})

	createCustomerPayload := graphql.NewObject(graphql.ObjectConfig{
		Name: "CreateCustomerPayload",
		Fields: graphql.Fields{
			"customer": &graphql.Field{Type: customerType},
			"message":  &graphql.Field{Type: graphql.String},
		},
	})

	bulkPayload := graphql.NewObject(graphql.ObjectConfig{
		Name: "BulkCreateCustomersPayload",
		Fields: graphql.Fields{
			"customers": &graphql.Field{Type: graphql.NewList(customerType)},
			"errors":    &graphql.Field{Type: graphql.NewList(graphql.String)},
		},
	})

	createProductPayload := graphql.NewObject(graphql.ObjectConfig{
		Name: "CreateProductPayload",
		Fields: graphql.Fields{
			"product": &graphql.Field{Type: productType},
		},
	})

	createOrderPayload := graphql.NewObject(graphql.ObjectConfig{
		Name: "CreateOrderPayload",
		Fields: graphql.Fields{
			"order": &graphql.Field{Type: orderType},
		},
	})

	mutation := graphql.NewObject(graphql.ObjectConfig{
		Name: "Mutation",
		Fields: graphql.Fields{
			"createCustomer": &graphql.Field{
				Type: createCustomerPayload,
				Args: graphql.FieldConfigArgument{
					"name":  &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"email": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"phone": &graphql.ArgumentConfig{Type: graphql.String},
				},
				Resolve: r.createCustomer,
			},
			"bulkCreateCustomers": &graphql.Field{
				Type: bulkPayload,
				Args: graphql.FieldConfigArgument{
					"input": &graphql.ArgumentConfig{
						Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(customerInput))),
					},
				},
				Resolve: r.bulkCreateCustomers,
			},
			"createProduct": &graphql.Field{
				Type: createProductPayload,
				Args: graphql.FieldConfigArgument{
					"name":  &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"price": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"stock": &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 0},
				},
				Resolve: r.createProduct,
			},
			"createOrder": &graphql.Field{
				Type: createOrderPayload,
				Args: graphql.FieldConfigArgument{
					"customerId": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
					"productIds": &graphql.ArgumentConfig{
						Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(graphql.ID))),
					},
					"orderDate": &graphql.ArgumentConfig{Type: graphql.DateTime},
				},
				Resolve: r.createOrder,
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query:    query,
		Mutation: mutation,
	})
}

func (r *resolver) customers(p graphql.ResolveParams) (interface{}, error) {
	customers, err := r.services.Customers.ListCustomers(p.Context)
	if err != nil {
		return nil, resolveError(err)
	}
	return customers, nil
}

func (r *resolver) products(p graphql.ResolveParams) (interface{}, error) {
	products, err := r.services.Products.ListProducts(p.Context)
	if err != nil {
		return nil, resolveError(err)
	}
	return products, nil
}

func (r *resolver) orders(p graphql.ResolveParams) (interface{}, error) {
	orders, err := r.services.Orders.ListOrders(p.Context)
	if err != nil {
		return nil, resolveError(err)
	}
	return orders, nil
}

func (r *resolver) createCustomer(p graphql.ResolveParams) (interface{}, error) {
	result, err := r.services.Customers.CreateCustomer(p.Context, customerRequest(p.Args))
	if err != nil {
		return nil, resolveError(err)
	}
	return result, nil
}

func (r *resolver) bulkCreateCustomers(p graphql.ResolveParams) (interface{}, error) {
	raw, _ := p.Args["input"].([]interface{})

	req := &dto.BulkCreateCustomersRequest{Input: make([]dto.CreateCustomerRequest, 0, len(raw))}
	for _, item := range raw {
		fields, _ := item.(map[string]interface{})
		req.Input = append(req.Input, *customerRequest(fields))
	}

	result, err := r.services.Customers.BulkCreateCustomers(p.Context, req)
	if err != nil {
		return nil, resolveError(err)
	}
	return result, nil
}

func (r *resolver) createProduct(p graphql.ResolveParams) (interface{}, error) {
	price, _ := p.Args["price"].(float64)
	req := &dto.CreateProductRequest{
		Name:  stringArg(p.Args, "name"),
		Price: decimal.NewFromFloat(price),
	}
	if stock, ok := p.Args["stock"].(int); ok {
		req.Stock = &stock
	}

	product, err := r.services.Products.CreateProduct(p.Context, req)
	if err != nil {
		return nil, resolveError(err)
	}
	return map[string]interface{}{"product": product}, nil
}

func (r *resolver) createOrder(p graphql.ResolveParams) (interface{}, error) {
	req := &dto.CreateOrderRequest{
		CustomerID: stringArg(p.Args, "customerId"),
	}

	rawIDs, _ := p.Args["productIds"].([]interface{})
	for _, id := range rawIDs {
		req.ProductIDs = append(req.ProductIDs, fmt.Sprint(id))
	}

	switch date := p.Args["orderDate"].(type) {
	case time.Time:
		req.OrderDate = &date
	case *time.Time:
		req.OrderDate = date
	}

	order, err := r.services.Orders.CreateOrder(p.Context, req)
	if err != nil {
		return nil, resolveError(err)
	}
	return map[string]interface{}{"order": order}, nil
}

func customerRequest(args map[string]interface{}) *dto.CreateCustomerRequest {
	return &dto.CreateCustomerRequest{
		Name:  stringArg(args, "name"),
		Email: stringArg(args, "email"),
		Phone: stringArg(args, "phone"),
	}
}

func stringArg(args map[string]interface{}, key string) string {
	s, _ := args[key].(string)
	return s
}

// resolveError unwraps to the ValidationError so its extensions reach the response
func resolveError(err error) error {
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		return verr
	}
	return err
}
