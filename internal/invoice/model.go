package invoice

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"storefront-be/internal/order"

	"github.com/shopspring/decimal"
)

// Invoice is a frozen billing snapshot of one order. Nothing in it is
// re-derived from the live order or company settings after creation.
type Invoice struct {
	ID             string        `json:"id"`
	OrderID        string        `json:"orderId"`
	InvoiceNumber  string        `json:"invoiceNumber"`
	UserID         string        `json:"userId"`
	CustomerName   string        `json:"customerName"`
	CustomerEmail  string        `json:"customerEmail"`
	CustomerPhone  string        `json:"customerPhone"`
	BillingAddress order.Address `json:"billingAddress"`
	OrderItems     LineItems     `json:"orderItems"`

	Subtotal     decimal.Decimal `json:"subtotal"`
	Discount     decimal.Decimal `json:"discount"`
	TaxAmount    decimal.Decimal `json:"taxAmount"`
	ShippingCost decimal.Decimal `json:"shippingCost"`
	TotalAmount  decimal.Decimal `json:"totalAmount"`

	PaymentMethod order.PaymentMethod `json:"paymentMethod"`
	PaymentStatus order.PaymentStatus `json:"paymentStatus"`

	InvoiceDate    time.Time      `json:"invoiceDate"`
	DueDate        time.Time      `json:"dueDate"`
	CompanyDetails CompanyDetails `json:"companyDetails"`
	CreatedAt      time.Time      `json:"createdAt"`
}

type LineItem struct {
	ProductRef string          `json:"productRef"`
	Name       string          `json:"name"`
	UnitPrice  decimal.Decimal `json:"unitPrice"`
	Quantity   int             `json:"quantity"`
	Subtotal   decimal.Decimal `json:"subtotal"`
	Image      string          `json:"image,omitempty"`
	Size       string          `json:"size,omitempty"`
	Color      string          `json:"color,omitempty"`
	SKU        string          `json:"sku,omitempty"`
}

type CompanyDetails struct {
	Logo      string `json:"logo"`
	Name      string `json:"name"`
	GSTNumber string `json:"gstNumber"`
	Address   string `json:"address"`
	Phone     string `json:"phone"`
	Email     string `json:"email"`
	Website   string `json:"website"`
}

// -- jsonb columns --

type LineItems []LineItem

func (v LineItems) Value() (driver.Value, error) { return json.Marshal(v) }
func (v *LineItems) Scan(src any) error          { return scanJSON(src, v) }

func (v CompanyDetails) Value() (driver.Value, error) { return json.Marshal(v) }
func (v *CompanyDetails) Scan(src any) error          { return scanJSON(src, v) }

func scanJSON(src any, dest any) error {
	switch s := src.(type) {
	case nil:
		return nil
	case []byte:
		return json.Unmarshal(s, dest)
	case string:
		return json.Unmarshal([]byte(s), dest)
	default:
		return fmt.Errorf("unsupported jsonb source %T", src)
	}
}
