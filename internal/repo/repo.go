package repo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/kindones/storefront/internal/domain"
)

const uniqueViolation = "23505"

type GormRepo struct {
	DB *gorm.DB
}

// InTx runs fn against a repo bound to a single transaction.
func (r *GormRepo) InTx(ctx context.Context, fn func(tx *GormRepo) error) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormRepo{DB: tx})
	})
}

func (r *GormRepo) isPostgres() bool {
	return r.DB.Dialector != nil && r.DB.Dialector.Name() == "postgres"
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return true
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func translate(err error, what string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%s: %w", what, domain.ErrNotFound)
	case isUniqueViolation(err):
		return fmt.Errorf("%s: %w", what, domain.ErrDuplicate)
	default:
		return fmt.Errorf("%s: %w", what, err)
	}
}
