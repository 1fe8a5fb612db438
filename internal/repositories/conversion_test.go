package repositories

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })
	return sqlx.NewDb(mockDB, "sqlmock"), mock
}

func TestConversionRepository_Append(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewConversionRepository(db)

	mock.ExpectExec("INSERT INTO conversions").
		WithArgs(int64(42), 100.0, "USD", "UAH", 4000.0).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := repo.Append(context.Background(), 42, 100, "USD", "UAH", 4000)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConversionRepository_Append_Error(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewConversionRepository(db)

	mock.ExpectExec("INSERT INTO conversions").
		WillReturnError(errors.New("connection reset"))

	err := repo.Append(context.Background(), 42, 100, "USD", "UAH", 4000)
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConversionRepository_Recent(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewConversionRepository(db)

	newer := time.Date(2024, 3, 2, 10, 0, 0, 0, time.UTC)
	older := newer.Add(-time.Hour)
	rows := sqlmock.NewRows([]string{"id", "chat_id", "amount", "from_currency", "to_currency", "converted_amount", "created_at"}).
		AddRow(int64(2), int64(42), 50.0, "UAH", "USD", 1.23, newer).
		AddRow(int64(1), int64(42), 100.0, "USD", "UAH", 4000.0, older)

	mock.ExpectQuery("SELECT id, chat_id, amount").
		WithArgs(int64(42), 10).
		WillReturnRows(rows)

	records, err := repo.Recent(context.Background(), 42, 10)
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, int64(2), records[0].ID)
	assert.Equal(t, "UAH", records[0].FromCurrency)
	assert.Equal(t, newer, records[0].CreatedAt)
	assert.Equal(t, int64(1), records[1].ID)
	assert.Equal(t, 4000.0, records[1].ConvertedAmount)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConversionRepository_Recent_Error(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewConversionRepository(db)

	mock.ExpectQuery("SELECT id, chat_id, amount").WillReturnError(errors.New("timeout"))

	records, err := repo.Recent(context.Background(), 42, 10)
	assert.Error(t, err)
	assert.Nil(t, records)
}

func TestConversionMemoryRepository_Recent(t *testing.T) {
	ctx := context.Background()
	repo := NewConversionMemoryRepository()

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	tick := 0
	repo.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Minute)
	}

	for i := 1; i <= 15; i++ {
		require.NoError(t, repo.Append(ctx, 1, float64(i), "USD", "UAH", float64(i)*40))
		require.NoError(t, repo.Append(ctx, 2, float64(i)*1000, "EUR", "UAH", 1))
	}

	records, err := repo.Recent(ctx, 1, 10)
	require.NoError(t, err)
	require.Len(t, records, 10)
	for i, rec := range records {
		assert.Equal(t, int64(1), rec.ConversationID)
		assert.Equal(t, float64(15-i), rec.Amount, fmt.Sprintf("record %d", i))
	}
	for i := 1; i < len(records); i++ {
		assert.True(t, records[i-1].CreatedAt.After(records[i].CreatedAt))
	}

	none, err := repo.Recent(ctx, 3, 10)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestConversionRepository_Postgres(t *testing.T) {
	db := setupPostgres(t)
	ctx := context.Background()
	repo := NewConversionRepository(db)

	for i := 1; i <= 15; i++ {
		require.NoError(t, repo.Append(ctx, 100, float64(i), "USD", "UAH", float64(i)*40))
	}
	require.NoError(t, repo.Append(ctx, 200, 5, "EUR", "UAH", 220))

	records, err := repo.Recent(ctx, 100, 10)
	require.NoError(t, err)
	require.Len(t, records, 10)
	assert.Equal(t, 15.0, records[0].Amount)
	assert.Equal(t, 6.0, records[9].Amount)

	other, err := repo.Recent(ctx, 200, 10)
	require.NoError(t, err)
	require.Len(t, other, 1)
	assert.Equal(t, "EUR", other[0].FromCurrency)

	// Running migrations twice is a no-op.
	assert.NoError(t, Migrate(db))
}
