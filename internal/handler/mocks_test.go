package handler

import (
	"context"

	"storefront-be/internal/coupon"
	"storefront-be/internal/invoice"
	"storefront-be/internal/order"
	"storefront-be/internal/settings"
	"storefront-be/internal/utils"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

type MockOrderService struct {
	mock.Mock
}

func (m *MockOrderService) CreateOrder(ctx context.Context, buyerID string, input order.CreateInput) (*order.Order, error) {
	args := m.Called(ctx, buyerID, input)
	o, _ := args.Get(0).(*order.Order)
	return o, args.Error(1)
}

func (m *MockOrderService) TransitionStatus(ctx context.Context, orderID string, status order.Status, actor utils.Requester) (*order.Order, error) {
	args := m.Called(ctx, orderID, status, actor)
	o, _ := args.Get(0).(*order.Order)
	return o, args.Error(1)
}

func (m *MockOrderService) AppendTracking(ctx context.Context, orderID string, input order.TrackingInput, actor utils.Requester) (*order.Order, error) {
	args := m.Called(ctx, orderID, input, actor)
	o, _ := args.Get(0).(*order.Order)
	return o, args.Error(1)
}

func (m *MockOrderService) CheckTrackingID(ctx context.Context, orderID, trackingID string) error {
	return m.Called(ctx, orderID, trackingID).Error(0)
}

func (m *MockOrderService) GetOrder(ctx context.Context, orderID string, requester utils.Requester) (*order.Order, error) {
	args := m.Called(ctx, orderID, requester)
	o, _ := args.Get(0).(*order.Order)
	return o, args.Error(1)
}

func (m *MockOrderService) DeleteOrder(ctx context.Context, orderID string, requester utils.Requester) error {
	return m.Called(ctx, orderID, requester).Error(0)
}

func (m *MockOrderService) CancelOrder(ctx context.Context, orderID string, requester utils.Requester) (*order.Order, error) {
	args := m.Called(ctx, orderID, requester)
	o, _ := args.Get(0).(*order.Order)
	return o, args.Error(1)
}

func (m *MockOrderService) ListMyOrders(ctx context.Context, requester utils.Requester, limit, page int) ([]*order.Order, error) {
	args := m.Called(ctx, requester, limit, page)
	orders, _ := args.Get(0).([]*order.Order)
	return orders, args.Error(1)
}

func (m *MockOrderService) ListOrders(ctx context.Context, filter order.Filter, limit, page int, requester utils.Requester) ([]*order.Order, error) {
	args := m.Called(ctx, filter, limit, page, requester)
	orders, _ := args.Get(0).([]*order.Order)
	return orders, args.Error(1)
}

func (m *MockOrderService) FindByTrackingID(ctx context.Context, trackingID string) (*order.Summary, error) {
	args := m.Called(ctx, trackingID)
	s, _ := args.Get(0).(*order.Summary)
	return s, args.Error(1)
}

type MockCouponService struct {
	mock.Mock
}

func (m *MockCouponService) Validate(ctx context.Context, code string, orderAmount decimal.Decimal) (*coupon.Validation, error) {
	args := m.Called(ctx, code, orderAmount)
	v, _ := args.Get(0).(*coupon.Validation)
	return v, args.Error(1)
}

func (m *MockCouponService) RecordUsage(ctx context.Context, couponID string) error {
	return m.Called(ctx, couponID).Error(0)
}

func (m *MockCouponService) Create(ctx context.Context, input coupon.Input) (*coupon.Coupon, error) {
	args := m.Called(ctx, input)
	c, _ := args.Get(0).(*coupon.Coupon)
	return c, args.Error(1)
}

func (m *MockCouponService) Update(ctx context.Context, id string, input coupon.Input) (*coupon.Coupon, error) {
	args := m.Called(ctx, id, input)
	c, _ := args.Get(0).(*coupon.Coupon)
	return c, args.Error(1)
}

func (m *MockCouponService) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockCouponService) Get(ctx context.Context, id string) (*coupon.Coupon, error) {
	args := m.Called(ctx, id)
	c, _ := args.Get(0).(*coupon.Coupon)
	return c, args.Error(1)
}

func (m *MockCouponService) List(ctx context.Context, limit, page int) ([]*coupon.Coupon, error) {
	args := m.Called(ctx, limit, page)
	c, _ := args.Get(0).([]*coupon.Coupon)
	return c, args.Error(1)
}

type MockInvoiceService struct {
	mock.Mock
}

func (m *MockInvoiceService) GetOrCreateInvoice(ctx context.Context, orderID string, requester utils.Requester) (*invoice.Invoice, error) {
	args := m.Called(ctx, orderID, requester)
	inv, _ := args.Get(0).(*invoice.Invoice)
	return inv, args.Error(1)
}

func (m *MockInvoiceService) GetByOrder(ctx context.Context, orderID string, requester utils.Requester) (*invoice.Invoice, error) {
	args := m.Called(ctx, orderID, requester)
	inv, _ := args.Get(0).(*invoice.Invoice)
	return inv, args.Error(1)
}

type MockSettingsService struct {
	mock.Mock
}

func (m *MockSettingsService) GetBillingProfile(ctx context.Context) (*settings.BillingProfile, error) {
	args := m.Called(ctx)
	p, _ := args.Get(0).(*settings.BillingProfile)
	return p, args.Error(1)
}

func (m *MockSettingsService) UpdateBillingProfile(ctx context.Context, p settings.BillingProfile) (*settings.BillingProfile, error) {
	args := m.Called(ctx, p)
	out, _ := args.Get(0).(*settings.BillingProfile)
	return out, args.Error(1)
}

func (m *MockSettingsService) EnsureDefault(ctx context.Context, p settings.BillingProfile) error {
	return m.Called(ctx, p).Error(0)
}

type MockPinger struct {
	mock.Mock
}

func (m *MockPinger) PingContext(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}
