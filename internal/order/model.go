package order

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusShipped   Status = "shipped"
	StatusDelivered Status = "delivered"
	StatusCancelled Status = "cancelled"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusShipped, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// TrackingStatus is the shipment-progress vocabulary of tracking entries.
// It is finer grained than Status and never derived from it.
type TrackingStatus string

const (
	TrackingConfirmed      TrackingStatus = "confirmed"
	TrackingProcessing     TrackingStatus = "processing"
	TrackingShipped        TrackingStatus = "shipped"
	TrackingInTransit      TrackingStatus = "in_transit"
	TrackingOutForDelivery TrackingStatus = "out_for_delivery"
	TrackingDelivered      TrackingStatus = "delivered"
)

func (s TrackingStatus) Valid() bool {
	switch s {
	case TrackingConfirmed, TrackingProcessing, TrackingShipped,
		TrackingInTransit, TrackingOutForDelivery, TrackingDelivered:
		return true
	}
	return false
}

type PaymentMethod string

const (
	PaymentCreditCard PaymentMethod = "credit_card"
	PaymentDebitCard  PaymentMethod = "debit_card"
	PaymentUPI        PaymentMethod = "upi"
	PaymentWallet     PaymentMethod = "wallet"
	PaymentCOD        PaymentMethod = "cod"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCreditCard, PaymentDebitCard, PaymentUPI, PaymentWallet, PaymentCOD:
		return true
	}
	return false
}

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
)

func (s PaymentStatus) Valid() bool {
	return s == PaymentPending || s == PaymentCompleted || s == PaymentFailed
}

type Order struct {
	ID              string          `json:"id"`
	BuyerID         string          `json:"buyerId"`
	Items           Items           `json:"items"`
	TotalAmount     decimal.Decimal `json:"totalAmount"`
	Status          Status          `json:"status"`
	ShippingAddress Address         `json:"shippingAddress"`
	PaymentMethod   PaymentMethod   `json:"paymentMethod"`
	PaymentDetails  PaymentDetails  `json:"paymentDetails"`
	TrackingID      *string         `json:"trackingId"`
	TrackingUpdates TrackingUpdates `json:"trackingUpdates"`
	ShippingCost    decimal.Decimal `json:"shippingCost"`
	TaxAmount       decimal.Decimal `json:"taxAmount"`
	Discount        decimal.Decimal `json:"discount"`
	CouponCode      *string         `json:"couponCode,omitempty"`
	Notes           string          `json:"notes,omitempty"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

type Item struct {
	ProductRef string          `json:"productRef"`
	Name       string          `json:"name"`
	UnitPrice  decimal.Decimal `json:"unitPrice"`
	Quantity   int             `json:"quantity"`
	Image      string          `json:"image,omitempty"`
	Size       string          `json:"size,omitempty"`
	Color      string          `json:"color,omitempty"`
	SKU        string          `json:"sku,omitempty"`
}

// Subtotal is unitPrice * quantity.
func (i Item) Subtotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Address is the delivery address as it was at checkout.
type Address struct {
	FullName     string `json:"fullName"`
	Phone        string `json:"phone"`
	AddressLine1 string `json:"addressLine1"`
	AddressLine2 string `json:"addressLine2,omitempty"`
	City         string `json:"city"`
	State        string `json:"state"`
	PostalCode   string `json:"postalCode"`
	Country      string `json:"country"`
}

type PaymentDetails struct {
	TransactionID string        `json:"transactionId,omitempty"`
	PaymentStatus PaymentStatus `json:"paymentStatus"`
}

type TrackingUpdate struct {
	Status    TrackingStatus `json:"status"`
	Message   string         `json:"message"`
	Location  string         `json:"location,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}

// Summary is the public view served by tracking-id lookups.
type Summary struct {
	ID              string          `json:"id"`
	Status          Status          `json:"status"`
	TrackingID      *string         `json:"trackingId"`
	TrackingUpdates TrackingUpdates `json:"trackingUpdates"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

func (o *Order) Summary() *Summary {
	return &Summary{
		ID:              o.ID,
		Status:          o.Status,
		TrackingID:      o.TrackingID,
		TrackingUpdates: o.TrackingUpdates,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
	}
}

// MoneyScale is the number of decimal places kept for money columns.
const MoneyScale = 2

// CreateInput is the checkout payload. BuyerID comes from the auth
// context, never from the body.
type CreateInput struct {
	Items           []Item          `json:"items"`
	TotalAmount     decimal.Decimal `json:"totalAmount"`
	ShippingAddress Address         `json:"shippingAddress"`
	PaymentMethod   PaymentMethod   `json:"paymentMethod"`
	PaymentDetails  *PaymentDetails `json:"paymentDetails"`
	ShippingCost    decimal.Decimal `json:"shippingCost"`
	TaxAmount       decimal.Decimal `json:"taxAmount"`
	Discount        decimal.Decimal `json:"discount"`
	CouponCode      string          `json:"couponCode"`
	CouponID        string          `json:"couponId"`
	Notes           string          `json:"notes"`
}

type TrackingInput struct {
	TrackingID *string        `json:"trackingId"`
	Status     TrackingStatus `json:"status"`
	Message    string         `json:"message"`
	Location   string         `json:"location"`
}

type Filter struct {
	Statuses []Status
}

// -- jsonb columns --

type Items []Item

func (v Items) Value() (driver.Value, error) { return jsonValue(v) }
func (v *Items) Scan(src any) error          { return jsonScan(src, v) }

type TrackingUpdates []TrackingUpdate

func (v TrackingUpdates) Value() (driver.Value, error) {
	if v == nil {
		return []byte("[]"), nil
	}
	return jsonValue(v)
}
func (v *TrackingUpdates) Scan(src any) error { return jsonScan(src, v) }

func (v Address) Value() (driver.Value, error) { return jsonValue(v) }
func (v *Address) Scan(src any) error          { return jsonScan(src, v) }

func (v PaymentDetails) Value() (driver.Value, error) { return jsonValue(v) }
func (v *PaymentDetails) Scan(src any) error          { return jsonScan(src, v) }

func jsonValue(v any) (driver.Value, error) {
	return json.Marshal(v)
}

func jsonScan(src any, dest any) error {
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
