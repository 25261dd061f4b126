package account

import (
	"context"
	"database/sql"
	"errors"

	"storefront-be/internal/logger"

	"go.uber.org/zap"
)

// Repository reads the account directory. Accounts are owned by the
// identity service; this module never writes them.
type Repository interface {
	GetContact(ctx context.Context, accountID string) (*Contact, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetContact(ctx context.Context, accountID string) (*Contact, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "GetContact"),
		zap.String("account_id", accountID),
	)

	var (
		c     Contact
		name  sql.NullString
		phone sql.NullString
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, email, phone FROM users WHERE id = $1`,
		accountID,
	).Scan(&c.ID, &name, &c.Email, &phone)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Info("account not found")
			return nil, ErrAccountNotFound
		}
		log.Error("failed to scan account contact", zap.Error(err))
		return nil, err
	}

	c.Name = name.String
	c.Phone = phone.String
	return &c, nil
}
