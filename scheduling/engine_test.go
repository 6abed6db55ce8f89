package scheduling

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestInTxRetriesOnceAfterLostRace(t *testing.T) {
	engine, _ := newTestEngine(t)

	attempts := 0
	err := engine.inTx(context.Background(), func(tx *gorm.DB) error {
		attempts++
		if attempts == 1 {
			return gorm.ErrDuplicatedKey
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2, attempts, "first loss is retried, second attempt wins")
}

func TestInTxSurfacesConflictWhenRetryLosesToo(t *testing.T) {
	engine, _ := newTestEngine(t)

	attempts := 0
	err := engine.inTx(context.Background(), func(tx *gorm.DB) error {
		attempts++
		return gorm.ErrDuplicatedKey
	})
	require.ErrorIs(t, err, ErrConflict)
	assert.Equal(t, 2, attempts, "one retry, not a loop")
}

func TestInTxDoesNotRetryOtherErrors(t *testing.T) {
	engine, _ := newTestEngine(t)

	boom := errors.New("storage exploded")
	attempts := 0
	err := engine.inTx(context.Background(), func(tx *gorm.DB) error {
		attempts++
		return boom
	})
	require.ErrorIs(t, err, boom)
	assert.Equal(t, 1, attempts)
}

func TestIsSerializationFailure(t *testing.T) {
	for name, tc := range map[string]struct {
		err  error
		want bool
	}{
		"nil":                    {nil, false},
		"duplicate key":          {gorm.ErrDuplicatedKey, true},
		"wrapped duplicate":      {fmt.Errorf("create assignment: %w", gorm.ErrDuplicatedKey), true},
		"serialization sqlstate": {errors.New("ERROR: could not serialize access (SQLSTATE 40001)"), true},
		"deadlock":               {errors.New("ERROR: deadlock detected (SQLSTATE 40P01)"), true},
		"not found":              {gorm.ErrRecordNotFound, false},
		"arbitrary":              {errors.New("connection refused"), false},
	} {
		assert.Equal(t, tc.want, isSerializationFailure(tc.err), name)
	}
}
