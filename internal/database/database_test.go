package database

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"hostcalendar/internal/pkg/clock"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type widget struct {
	ID        int64  `gorm:"primaryKey"`
	Code      string `gorm:"uniqueIndex;size:20"`
	CreatedAt time.Time
}

func TestConnect_SQLiteUsesClock(t *testing.T) {
	at := time.Date(2024, 12, 3, 9, 0, 0, 0, time.UTC)
	db, err := Connect(fmt.Sprintf("file:db_%s?mode=memory&cache=shared", t.Name()), clock.Fixed(at))
	require.NoError(t, err)
	require.NoError(t, Migrate(db, &widget{}))

	w := widget{Code: "a"}
	require.NoError(t, db.Create(&w).Error)
	assert.True(t, w.CreatedAt.Equal(at))
}

func TestIsUniqueViolation_SQLite(t *testing.T) {
	db, err := Connect(fmt.Sprintf("file:db_%s?mode=memory&cache=shared", t.Name()), nil)
	require.NoError(t, err)
	require.NoError(t, Migrate(db, &widget{}))

	require.NoError(t, db.Create(&widget{Code: "dup"}).Error)
	err = db.Create(&widget{Code: "dup"}).Error
	require.Error(t, err)
	assert.True(t, IsUniqueViolation(err))
}

func TestIsUniqueViolation(t *testing.T) {
	assert.False(t, IsUniqueViolation(nil))
	assert.False(t, IsUniqueViolation(errors.New("boom")))
	assert.True(t, IsUniqueViolation(gorm.ErrDuplicatedKey))
	assert.True(t, IsUniqueViolation(fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"})))
	assert.False(t, IsUniqueViolation(&pgconn.PgError{Code: "23503"}))
}

func TestIsPostgres(t *testing.T) {
	assert.True(t, IsPostgres("postgres://u:p@localhost/db"))
	assert.True(t, IsPostgres("postgresql://localhost/db"))
	assert.False(t, IsPostgres("hostcal.db"))
	assert.False(t, IsPostgres(":memory:"))
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, IsNotFound(fmt.Errorf("x: %w", gorm.ErrRecordNotFound)))
	assert.False(t, IsNotFound(errors.New("x")))
}
