package settings

import (
	"context"
	"fmt"
	"strings"

	"storefront-be/internal/logger"

	"go.uber.org/zap"
)

type Service interface {
	GetBillingProfile(ctx context.Context) (*BillingProfile, error)
	UpdateBillingProfile(ctx context.Context, p BillingProfile) (*BillingProfile, error)

	// EnsureDefault seeds the billing profile when none is stored. An
	// existing profile is left untouched.
	EnsureDefault(ctx context.Context, p BillingProfile) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) GetBillingProfile(ctx context.Context) (*BillingProfile, error) {
	return s.repo.GetBillingProfile(ctx)
}

func (s *service) UpdateBillingProfile(ctx context.Context, p BillingProfile) (*BillingProfile, error) {
	p = trimProfile(p)
	if p.Name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidBillingProfile)
	}

	saved, err := s.repo.SaveBillingProfile(ctx, p)
	if err != nil {
		return nil, err
	}

	logger.FromCtx(ctx).Info("billing profile updated", zap.String("company", saved.Name))
	return saved, nil
}

func (s *service) EnsureDefault(ctx context.Context, p BillingProfile) error {
	log := logger.FromCtx(ctx).With(zap.String("method", "EnsureDefault"))

	p = trimProfile(p)
	if p.Name == "" {
		log.Warn("no default billing profile configured")
		return nil
	}

	created, err := s.repo.InsertBillingProfileIfAbsent(ctx, p)
	if err != nil {
		log.Error("failed to seed billing profile", zap.Error(err))
		return err
	}
	if created {
		log.Info("billing profile seeded", zap.String("company", p.Name))
	}
	return nil
}

func trimProfile(p BillingProfile) BillingProfile {
	p.Logo = strings.TrimSpace(p.Logo)
	p.Name = strings.TrimSpace(p.Name)
	p.GSTNumber = strings.ToUpper(strings.TrimSpace(p.GSTNumber))
	p.Address = strings.TrimSpace(p.Address)
	p.Phone = strings.TrimSpace(p.Phone)
	p.Email = strings.TrimSpace(p.Email)
	p.Website = strings.TrimSpace(p.Website)
	return p
}
