package order

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"storefront-be/internal/logger"
	"storefront-be/internal/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Event names an order notification.
type Event string

const (
	EventPlaced    Event = "placed"
	EventConfirmed Event = "confirmed"
	EventShipped   Event = "shipped"
	EventDelivered Event = "delivered"
)

// statusEvents lists the transitions that notify the buyer.
var statusEvents = map[Status]Event{
	StatusConfirmed: EventConfirmed,
	StatusShipped:   EventShipped,
	StatusDelivered: EventDelivered,
}

// Notifier delivers buyer notifications. Errors are reported to the
// caller, which logs them and carries on.
type Notifier interface {
	Notify(ctx context.Context, event Event, o *Order) error
}

// CouponRedeemer consumes one use of a coupon after checkout.
type CouponRedeemer interface {
	RecordUsage(ctx context.Context, couponID string) error
}

type Service interface {
	CreateOrder(ctx context.Context, buyerID string, input CreateInput) (*Order, error)
	TransitionStatus(ctx context.Context, orderID string, status Status, actor utils.Requester) (*Order, error)
	AppendTracking(ctx context.Context, orderID string, input TrackingInput, actor utils.Requester) (*Order, error)
	CheckTrackingID(ctx context.Context, orderID, trackingID string) error
	GetOrder(ctx context.Context, orderID string, requester utils.Requester) (*Order, error)
	DeleteOrder(ctx context.Context, orderID string, requester utils.Requester) error
	CancelOrder(ctx context.Context, orderID string, requester utils.Requester) (*Order, error)
	ListMyOrders(ctx context.Context, requester utils.Requester, limit, page int) ([]*Order, error)
	ListOrders(ctx context.Context, filter Filter, limit, page int, requester utils.Requester) ([]*Order, error)
	FindByTrackingID(ctx context.Context, trackingID string) (*Summary, error)
}

type service struct {
	repo     Repository
	coupons  CouponRedeemer
	notifier Notifier
	policy   TransitionPolicy
	now      func() time.Time
}

func NewService(repo Repository, coupons CouponRedeemer, notifier Notifier, policy TransitionPolicy) Service {
	if policy == nil {
		policy = Permissive{}
	}
	return &service{
		repo:     repo,
		coupons:  coupons,
		notifier: notifier,
		policy:   policy,
		now:      time.Now,
	}
}

func (s *service) CreateOrder(ctx context.Context, buyerID string, input CreateInput) (*Order, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "CreateOrder"),
		zap.String("buyer_id", buyerID),
	)

	if buyerID == "" {
		return nil, ErrForbidden
	}
	if _, err := uuid.Parse(buyerID); err != nil {
		log.Warn("order rejected, buyer id is not an account id")
		return nil, ErrUnknownBuyer
	}

	input = roundAmounts(input)

	// 1. Validate checkout payload
	if err := validateCreate(input); err != nil {
		log.Info("order rejected", zap.Error(err))
		return nil, err
	}

	details := PaymentDetails{PaymentStatus: PaymentPending}
	if input.PaymentDetails != nil {
		details.TransactionID = strings.TrimSpace(input.PaymentDetails.TransactionID)
		if input.PaymentDetails.PaymentStatus != "" {
			details.PaymentStatus = input.PaymentDetails.PaymentStatus
		}
	}

	var couponCode *string
	if code := utils.NormalizeCode(input.CouponCode); code != "" {
		couponCode = &code
	}

	// 2. Build order. Orders start confirmed; pending is never assigned here.
	o := &Order{
		ID:              uuid.NewString(),
		BuyerID:         buyerID,
		Items:           Items(input.Items),
		TotalAmount:     input.TotalAmount,
		Status:          StatusConfirmed,
		ShippingAddress: input.ShippingAddress,
		PaymentMethod:   input.PaymentMethod,
		PaymentDetails:  details,
		TrackingUpdates: TrackingUpdates{},
		ShippingCost:    input.ShippingCost,
		TaxAmount:       input.TaxAmount,
		Discount:        input.Discount,
		CouponCode:      couponCode,
		Notes:           strings.TrimSpace(input.Notes),
	}

	// 3. Persist
	if err := s.repo.Create(ctx, o); err != nil {
		return nil, err
	}

	log.Info("order created",
		zap.String("order_id", o.ID),
		zap.String("total_amount", o.TotalAmount.String()),
	)

	// 4. Redeem coupon, best effort
	if input.CouponID != "" && s.coupons != nil {
		if err := s.coupons.RecordUsage(ctx, input.CouponID); err != nil {
			log.Warn("failed to record coupon usage",
				zap.String("order_id", o.ID),
				zap.String("coupon_id", input.CouponID),
				zap.Error(err),
			)
		}
	}

	// 5. Notify buyer
	s.notify(ctx, EventPlaced, o)

	return o, nil
}

// roundAmounts brings every money field to the two decimal places the
// orders table stores, so the created order matches later reads.
func roundAmounts(input CreateInput) CreateInput {
	items := make([]Item, len(input.Items))
	for i, item := range input.Items {
		item.UnitPrice = item.UnitPrice.Round(MoneyScale)
		items[i] = item
	}
	input.Items = items
	input.TotalAmount = input.TotalAmount.Round(MoneyScale)
	input.ShippingCost = input.ShippingCost.Round(MoneyScale)
	input.TaxAmount = input.TaxAmount.Round(MoneyScale)
	input.Discount = input.Discount.Round(MoneyScale)
	return input
}

func validateCreate(input CreateInput) error {
	var problems []string

	if len(input.Items) == 0 {
		problems = append(problems, "items must not be empty")
	}
	for i, item := range input.Items {
		if strings.TrimSpace(item.ProductRef) == "" {
			problems = append(problems, fmt.Sprintf("items[%d].productRef is required", i))
		}
		if strings.TrimSpace(item.Name) == "" {
			problems = append(problems, fmt.Sprintf("items[%d].name is required", i))
		}
		if item.Quantity < 1 {
			problems = append(problems, fmt.Sprintf("items[%d].quantity must be at least 1", i))
		}
		if item.UnitPrice.IsNegative() {
			problems = append(problems, fmt.Sprintf("items[%d].unitPrice must not be negative", i))
		}
	}

	if !input.TotalAmount.IsPositive() {
		problems = append(problems, "totalAmount must be greater than 0")
	}
	if input.PaymentMethod == "" {
		problems = append(problems, "paymentMethod is required")
	} else if !input.PaymentMethod.Valid() {
		problems = append(problems, "paymentMethod is not supported")
	}

	if pd := input.PaymentDetails; pd != nil && pd.PaymentStatus != "" {
		switch {
		case !pd.PaymentStatus.Valid():
			problems = append(problems, "paymentDetails.paymentStatus is not supported")
		case pd.PaymentStatus == PaymentCompleted && input.PaymentMethod == PaymentCOD:
			problems = append(problems, "cash on delivery orders cannot be paid at checkout")
		}
	}

	if input.ShippingCost.IsNegative() || input.TaxAmount.IsNegative() || input.Discount.IsNegative() {
		problems = append(problems, "shippingCost, taxAmount and discount must not be negative")
	}

	addr := input.ShippingAddress
	if strings.TrimSpace(addr.AddressLine1) == "" || strings.TrimSpace(addr.City) == "" {
		problems = append(problems, "shippingAddress.addressLine1 and shippingAddress.city are required")
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidOrderInput, strings.Join(problems, "; "))
	}
	return nil
}

func (s *service) TransitionStatus(ctx context.Context, orderID string, status Status, actor utils.Requester) (*Order, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "TransitionStatus"),
		zap.String("order_id", orderID),
		zap.String("status", string(status)),
	)

	if !actor.IsAdmin() {
		return nil, ErrForbidden
	}
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}
	if err := validateID(orderID); err != nil {
		return nil, err
	}

	current, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	return s.applyStatus(ctx, log, current, status)
}

func (s *service) applyStatus(ctx context.Context, log *zap.Logger, current *Order, status Status) (*Order, error) {
	if !s.policy.Allow(current.Status, status) {
		log.Info("status transition rejected", zap.String("from", string(current.Status)))
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, current.Status, status)
	}

	updated, err := s.repo.UpdateStatus(ctx, current.ID, status)
	if err != nil {
		return nil, err
	}

	log.Info("order status updated", zap.String("from", string(current.Status)))

	if event, ok := statusEvents[status]; ok && current.Status != status {
		s.notify(ctx, event, updated)
	}

	return updated, nil
}

func (s *service) AppendTracking(ctx context.Context, orderID string, input TrackingInput, actor utils.Requester) (*Order, error) {
	if !actor.IsAdmin() {
		return nil, ErrForbidden
	}
	if err := validateID(orderID); err != nil {
		return nil, err
	}
	if !input.Status.Valid() {
		return nil, ErrInvalidTrackingStatus
	}

	var trackingID *string
	if input.TrackingID != nil {
		if id := strings.TrimSpace(*input.TrackingID); id != "" {
			trackingID = &id
		}
	}
	if trackingID != nil {
		if err := s.CheckTrackingID(ctx, orderID, *trackingID); err != nil {
			return nil, err
		}
	}

	update := &TrackingUpdate{
		Status:    input.Status,
		Message:   strings.TrimSpace(input.Message),
		Location:  strings.TrimSpace(input.Location),
		Timestamp: s.now().UTC(),
	}

	o, err := s.repo.AppendTracking(ctx, orderID, trackingID, update)
	if err != nil {
		return nil, err
	}

	logger.FromCtx(ctx).Info("tracking update appended",
		zap.String("order_id", orderID),
		zap.String("tracking_status", string(input.Status)),
		zap.Int("updates", len(o.TrackingUpdates)),
	)
	return o, nil
}

// CheckTrackingID reports ErrTrackingIDInUse when trackingID is already
// assigned to an order other than orderID. A blank id is always free.
func (s *service) CheckTrackingID(ctx context.Context, orderID, trackingID string) error {
	trackingID = strings.TrimSpace(trackingID)
	if trackingID == "" {
		return nil
	}

	holder, err := s.repo.GetByTrackingID(ctx, trackingID)
	switch {
	case errors.Is(err, ErrOrderNotFound):
		return nil
	case err != nil:
		return err
	case holder.ID != orderID:
		logger.FromCtx(ctx).Info("tracking id already assigned",
			zap.String("order_id", orderID),
			zap.String("holder_id", holder.ID),
		)
		return fmt.Errorf("%w: %s", ErrTrackingIDInUse, trackingID)
	}
	return nil
}

func (s *service) GetOrder(ctx context.Context, orderID string, requester utils.Requester) (*Order, error) {
	if err := validateID(orderID); err != nil {
		return nil, err
	}

	o, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !requester.CanAccess(o.BuyerID) {
		return nil, ErrForbidden
	}
	return o, nil
}

func (s *service) DeleteOrder(ctx context.Context, orderID string, requester utils.Requester) error {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "DeleteOrder"),
		zap.String("order_id", orderID),
	)

	o, err := s.GetOrder(ctx, orderID, requester)
	if err != nil {
		return err
	}

	hasInvoice, err := s.repo.HasInvoice(ctx, o.ID)
	if err != nil {
		return err
	}
	if hasInvoice {
		log.Info("order delete blocked by invoice")
		return ErrOrderHasInvoice
	}

	if err := s.repo.Delete(ctx, o.ID); err != nil {
		return err
	}

	log.Info("order deleted")
	return nil
}

// cancellableByBuyer lists the statuses a buyer may still cancel from.
var cancellableByBuyer = map[Status]bool{
	StatusPending:   true,
	StatusConfirmed: true,
}

func (s *service) CancelOrder(ctx context.Context, orderID string, requester utils.Requester) (*Order, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "CancelOrder"),
		zap.String("order_id", orderID),
	)

	o, err := s.GetOrder(ctx, orderID, requester)
	if err != nil {
		return nil, err
	}
	if o.Status == StatusCancelled {
		return o, nil
	}
	if !requester.IsAdmin() && !cancellableByBuyer[o.Status] {
		return nil, fmt.Errorf("%w: order already %s", ErrInvalidTransition, o.Status)
	}

	return s.applyStatus(ctx, log, o, StatusCancelled)
}

func (s *service) ListMyOrders(ctx context.Context, requester utils.Requester, limit, page int) ([]*Order, error) {
	if requester.AccountID == "" {
		return nil, ErrForbidden
	}
	limit, offset := utils.Paginate(limit, page)
	return s.repo.ListByBuyer(ctx, requester.AccountID, limit, offset)
}

func (s *service) ListOrders(ctx context.Context, filter Filter, limit, page int, requester utils.Requester) ([]*Order, error) {
	if !requester.IsAdmin() {
		return nil, ErrForbidden
	}
	for _, st := range filter.Statuses {
		if !st.Valid() {
			return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, st)
		}
	}
	limit, offset := utils.Paginate(limit, page)
	return s.repo.List(ctx, filter, limit, offset)
}

func (s *service) FindByTrackingID(ctx context.Context, trackingID string) (*Summary, error) {
	trackingID = strings.TrimSpace(trackingID)
	if trackingID == "" {
		return nil, ErrOrderNotFound
	}

	o, err := s.repo.GetByTrackingID(ctx, trackingID)
	if err != nil {
		return nil, err
	}
	return o.Summary(), nil
}

func (s *service) notify(ctx context.Context, event Event, o *Order) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Notify(ctx, event, o); err != nil {
		logger.FromCtx(ctx).Warn("order notification failed",
			zap.String("order_id", o.ID),
			zap.String("event", string(event)),
			zap.Error(err),
		)
	}
}

func validateID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%w: malformed order id", ErrInvalidOrderInput)
	}
	return nil
}
