package scheduling

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// Engine owns the guard assignment and schedule core. Every public
// operation runs as a single storage transaction: either all of its
// writes land or none do.
type Engine struct {
	db  *gorm.DB
	log zerolog.Logger
}

func New(db *gorm.DB, log zerolog.Logger) *Engine {
	return &Engine{db: db, log: log}
}

// inTx runs fn in a transaction, retrying once when a concurrent
// writer on the same slot/guard key wins the race. If the retry loses
// again the caller gets ErrConflict.
func (e *Engine) inTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	err := e.db.WithContext(ctx).Transaction(fn)
	if !isSerializationFailure(err) {
		return err
	}
	e.log.Warn().Err(err).Msg("transaction lost a concurrent race, retrying once")
	err = e.db.WithContext(ctx).Transaction(fn)
	if isSerializationFailure(err) {
		return fmt.Errorf("%w: %v", ErrConflict, err)
	}
	return err
}

func isSerializationFailure(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLSTATE 40001") || strings.Contains(msg, "deadlock detected")
}

// firstScoped loads a record by primary key within the tenant,
// translating gorm's not-found into the engine taxonomy.
func firstScoped[T any](tx *gorm.DB, tenantID uint, id uint, what string) (*T, error) {
	var out T
	err := tx.Where("tenant_id = ?", tenantID).First(&out, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %s %d", ErrNotFound, what, id)
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}
