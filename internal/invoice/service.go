package invoice

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"storefront-be/internal/account"
	"storefront-be/internal/logger"
	"storefront-be/internal/order"
	"storefront-be/internal/settings"
	"storefront-be/internal/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PaymentTermDays is the fixed due-date policy.
const PaymentTermDays = 30

type OrderReader interface {
	GetByID(ctx context.Context, id string) (*order.Order, error)
}

type BillingProfileReader interface {
	GetBillingProfile(ctx context.Context) (*settings.BillingProfile, error)
}

type ContactReader interface {
	GetContact(ctx context.Context, accountID string) (*account.Contact, error)
}

type Service interface {
	// GetOrCreateInvoice returns the order's invoice, issuing it on first
	// request. An existing invoice is never modified.
	GetOrCreateInvoice(ctx context.Context, orderID string, requester utils.Requester) (*Invoice, error)
	GetByOrder(ctx context.Context, orderID string, requester utils.Requester) (*Invoice, error)
}

type service struct {
	repo     Repository
	orders   OrderReader
	settings BillingProfileReader
	contacts ContactReader
	now      func() time.Time
}

func NewService(repo Repository, orders OrderReader, profiles BillingProfileReader, contacts ContactReader) Service {
	return &service{
		repo:     repo,
		orders:   orders,
		settings: profiles,
		contacts: contacts,
		now:      time.Now,
	}
}

func (s *service) GetOrCreateInvoice(ctx context.Context, orderID string, requester utils.Requester) (*Invoice, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "GetOrCreateInvoice"),
		zap.String("order_id", orderID),
	)

	if _, err := uuid.Parse(orderID); err != nil {
		return nil, ErrInvalidOrderID
	}

	// 1. Existing invoice wins
	existing, err := s.repo.GetByOrderID(ctx, orderID)
	switch {
	case err == nil:
		if !requester.CanAccess(existing.UserID) {
			return nil, ErrForbidden
		}
		return existing, nil
	case !errors.Is(err, ErrInvoiceNotFound):
		return nil, err
	}

	// 2. Order and authorization
	o, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !requester.CanAccess(o.BuyerID) {
		return nil, ErrForbidden
	}

	// 3. Company snapshot
	profile, err := s.settings.GetBillingProfile(ctx)
	if errors.Is(err, settings.ErrBillingProfileNotFound) {
		log.Error("billing profile missing, cannot issue invoice")
		return nil, fmt.Errorf("%w: %v", ErrBillingNotConfigured, err)
	}
	if err != nil {
		log.Error("billing profile unavailable", zap.Error(err))
		return nil, err
	}

	// 4. Customer contact
	contact, err := s.contacts.GetContact(ctx, o.BuyerID)
	if err != nil {
		if !errors.Is(err, account.ErrAccountNotFound) {
			return nil, err
		}
		log.Warn("buyer account missing, using shipping contact", zap.String("buyer_id", o.BuyerID))
		contact = &account.Contact{ID: o.BuyerID}
	}

	inv := build(o, profile, contact, s.now())

	// 5. Insert if absent
	stored, created, err := s.repo.CreateIfAbsent(ctx, inv)
	if err != nil {
		return nil, err
	}
	if created {
		log.Info("invoice issued", zap.String("invoice_number", stored.InvoiceNumber))
	}
	return stored, nil
}

func (s *service) GetByOrder(ctx context.Context, orderID string, requester utils.Requester) (*Invoice, error) {
	if _, err := uuid.Parse(orderID); err != nil {
		return nil, ErrInvalidOrderID
	}

	inv, err := s.repo.GetByOrderID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !requester.CanAccess(inv.UserID) {
		return nil, ErrForbidden
	}
	return inv, nil
}

func build(o *order.Order, profile *settings.BillingProfile, contact *account.Contact, now time.Time) *Invoice {
	now = now.UTC()

	items := make(LineItems, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, LineItem{
			ProductRef: it.ProductRef,
			Name:       it.Name,
			UnitPrice:  it.UnitPrice,
			Quantity:   it.Quantity,
			Subtotal:   it.Subtotal(),
			Image:      it.Image,
			Size:       it.Size,
			Color:      it.Color,
			SKU:        it.SKU,
		})
	}

	name := contact.Name
	if strings.TrimSpace(name) == "" {
		name = o.ShippingAddress.FullName
	}
	phone := contact.Phone
	if strings.TrimSpace(phone) == "" {
		phone = o.ShippingAddress.Phone
	}

	return &Invoice{
		ID:             uuid.NewString(),
		OrderID:        o.ID,
		InvoiceNumber:  utils.GenerateInvoiceNumber(now, o.ID),
		UserID:         o.BuyerID,
		CustomerName:   name,
		CustomerEmail:  contact.Email,
		CustomerPhone:  phone,
		BillingAddress: o.ShippingAddress,
		OrderItems:     items,

		// The order keeps no pre-shipping subtotal, so derive it.
		Subtotal:     o.TotalAmount.Sub(o.ShippingCost),
		Discount:     o.Discount,
		TaxAmount:    o.TaxAmount,
		ShippingCost: o.ShippingCost,
		TotalAmount:  o.TotalAmount,

		PaymentMethod: o.PaymentMethod,
		PaymentStatus: o.PaymentDetails.PaymentStatus,

		InvoiceDate: now,
		DueDate:     now.AddDate(0, 0, PaymentTermDays),
		CompanyDetails: CompanyDetails{
			Logo:      profile.Logo,
			Name:      profile.Name,
			GSTNumber: profile.GSTNumber,
			Address:   profile.Address,
			Phone:     profile.Phone,
			Email:     profile.Email,
			Website:   profile.Website,
		},
	}
}
