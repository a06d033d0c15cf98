package sqlite

import (
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"storepos/internal/infrastructure/storage"
)

func TestNormalizeArgs(t *testing.T) {
	zone := time.FixedZone("UTC+3", 3*3600)
	local := time.Date(2024, 8, 5, 2, 0, 0, 0, zone)
	var nilTime *time.Time

	args := normalizeArgs([]any{local, &local, nilTime, int64(4), "x"})

	assert.Equal(t, time.UTC, args[0].(time.Time).Location())
	assert.Equal(t, 4, args[1].(time.Time).Day())
	assert.Nil(t, args[2])
	assert.Equal(t, int64(4), args[3])
	assert.Equal(t, "x", args[4])
}

func TestTranslateError_NoRows(t *testing.T) {
	err := translateError(sql.ErrNoRows)
	assert.ErrorIs(t, err, storage.ErrNoRows)
	assert.ErrorIs(t, err, sql.ErrNoRows)

	other := errors.New("database is locked")
	assert.Same(t, other, translateError(other))
}
