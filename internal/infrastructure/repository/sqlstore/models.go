package sqlstore

import (
	"time"

	"github.com/mrops-br/crm-api/internal/domain"
	"github.com/shopspring/decimal"
)

type customerModel struct {
	ID        string    `gorm:"primaryKey;size:36"`
	Name      string    `gorm:"size:255;not null"`
	Email     string    `gorm:"size:255;not null;uniqueIndex"`
	Phone     string    `gorm:"size:32;not null;default:''"`
	CreatedAt time.Time `gorm:"not null"`
}

func (customerModel) TableName() string { return "customers" }

type productModel struct {
	ID        string          `gorm:"primaryKey;size:36"`
	Name      string          `gorm:"size:255;not null"`
	Price     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Stock     int             `gorm:"not null;default:0"`
	CreatedAt time.Time       `gorm:"not null"`
}

func (productModel) TableName() string { return "products" }

type orderModel struct {
	ID          string          `gorm:"primaryKey;size:36"`
	CustomerID  string          `gorm:"size:36;not null;index"`
	Customer    customerModel   `gorm:"foreignKey:CustomerID"`
	Products    []productModel  `gorm:"many2many:order_products;joinForeignKey:OrderID;joinReferences:ProductID"`
	TotalAmount decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	OrderDate   time.Time       `gorm:"not null"`
	CreatedAt   time.Time       `gorm:"not null"`
}

func (orderModel) TableName() string { return "orders" }

func toCustomerModel(c *domain.Customer) *customerModel {
	return &customerModel{
		ID:        c.ID,
		Name:      c.Name,
		Email:     c.Email,
		Phone:     c.Phone,
		CreatedAt: c.CreatedAt,
	}
}

func (m *customerModel) toDomain() *domain.Customer {
	return &domain.Customer{
		ID:        m.ID,
		Name:      m.Name,
		Email:     m.Email,
		Phone:     m.Phone,
		CreatedAt: m.CreatedAt,
	}
}

func toProductModel(p *domain.Product) *productModel {
	return &productModel{
		ID:        p.ID,
		Name:      p.Name,
		Price:     p.Price,
		Stock:     p.Stock,
		CreatedAt: p.CreatedAt,
	}
}

func (m *productModel) toDomain() *domain.Product {
	return &domain.Product{
		ID:        m.ID,
		Name:      m.Name,
		Price:     m.Price,
		Stock:     m.Stock,
		CreatedAt: m.CreatedAt,
	}
}

func toOrderModel(o *domain.Order) *orderModel {
	return &orderModel{
		ID:          o.ID,
		CustomerID:  o.CustomerID,
		TotalAmount: o.TotalAmount,
		OrderDate:   o.OrderDate,
		CreatedAt:   o.CreatedAt,
	}
}

func (m *orderModel) toDomain() *domain.Order {
	order := &domain.Order{
		ID:          m.ID,
		CustomerID:  m.CustomerID,
		TotalAmount: m.TotalAmount,
		OrderDate:   m.OrderDate,
		CreatedAt:   m.CreatedAt,
		Products:    make([]*domain.Product, len(m.Products)),
	}
	if m.Customer.ID != "" {
		order.Customer = m.Customer.toDomain()
	}
	for i := range m.Products {
		order.Products[i] = m.Products[i].toDomain()
	}
	return order
}
