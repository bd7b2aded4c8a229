package db

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestIsUniqueViolation(t *testing.T) {
	t.Run("pgx unique code", func(t *testing.T) {
		err := &pgconn.PgError{Code: "23505", ConstraintName: "idx_products_sku"}
		assert.True(t, IsUniqueViolation(err, ""))
		assert.True(t, IsUniqueViolation(err, "idx_products_sku"))
		assert.False(t, IsUniqueViolation(err, "idx_users_email"))
	})

	t.Run("pq unique code", func(t *testing.T) {
		err := &pq.Error{Code: "23505", Constraint: "idx_users_email"}
		assert.True(t, IsUniqueViolation(err, "idx_users_email"))
	})

	t.Run("wrapped", func(t *testing.T) {
		err := fmt.Errorf("creating product: %w", &pgconn.PgError{Code: "23505"})
		assert.True(t, IsUniqueViolation(err, ""))
	})

	t.Run("gorm sentinel", func(t *testing.T) {
		assert.True(t, IsUniqueViolation(gorm.ErrDuplicatedKey, ""))
	})

	t.Run("message text alone is not enough", func(t *testing.T) {
		err := errors.New(`duplicate key value violates unique constraint "idx_products_sku"`)
		assert.False(t, IsUniqueViolation(err, ""))
	})

	t.Run("other pg code", func(t *testing.T) {
		err := &pgconn.PgError{Code: "23503"}
		assert.False(t, IsUniqueViolation(err, ""))
		assert.True(t, IsForeignKeyViolation(err))
	})

	t.Run("nil", func(t *testing.T) {
		assert.False(t, IsUniqueViolation(nil, ""))
		assert.False(t, IsForeignKeyViolation(nil))
	})
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, IsNotFound(gorm.ErrRecordNotFound))
	assert.True(t, IsNotFound(fmt.Errorf("loading order: %w", gorm.ErrRecordNotFound)))
	assert.False(t, IsNotFound(errors.New("record not found")))
}
