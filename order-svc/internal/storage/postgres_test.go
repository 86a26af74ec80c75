package storage_test

import (
	"context"
	"errors"
	"testing"

	"homecafe/order-svc/internal/domain"
	"homecafe/order-svc/internal/storage"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var orderRowColumns = []string{
	"order_id", "order_date", "order_time", "customer_name", "customer_handle",
	"customer_id", "items_summary", "total", "status",
}

// helper to install a sqlmock-backed store.
func setupPostgresStore(t *testing.T) (*storage.PostgresOrderStore, sqlmock.Sqlmock) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })
	return storage.NewPostgresOrderStore(mockDB), mock
}

func TestPostgresOrderStore_EnsureSchema(t *testing.T) {
	store, mock := setupPostgresStore(t)

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS cafe_orders").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("CREATE INDEX IF NOT EXISTS cafe_orders_status_idx").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("CREATE INDEX IF NOT EXISTS cafe_orders_date_idx").WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, store.EnsureSchema(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresOrderStore_Append(t *testing.T) {
	store, mock := setupPostgresStore(t)
	rec := sampleRecord("kristy_101", "2026-10-17", domain.StatusPending, "5.5")

	mock.ExpectExec("INSERT INTO cafe_orders").
		WithArgs("kristy_101", "2026-10-17", "09:15:00", "Kristy", "@kristy", int64(4242), rec.ItemsSummary, "5.50", "pending").
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, store.Append(context.Background(), rec))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresOrderStore_AppendError(t *testing.T) {
	store, mock := setupPostgresStore(t)

	mock.ExpectExec("INSERT INTO cafe_orders").WillReturnError(errors.New("connection reset"))

	err := store.Append(context.Background(), sampleRecord("kristy_101", "2026-10-17", domain.StatusPending, "5.50"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insert order")
}

func TestPostgresOrderStore_MarkStatus(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(mock sqlmock.Sqlmock)
		wantErr error
		want    domain.OrderStatus
	}{
		{
			name: "pending order becomes ready",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("UPDATE cafe_orders SET status").
					WithArgs("ready", "KRISTY_101", "pending").
					WillReturnRows(sqlmock.NewRows(orderRowColumns).
						AddRow("kristy_101", "2026-10-17", "09:15:00", "Kristy", "@kristy", int64(4242), "Iced Black (Iced) - Add-ons: None", "4.50", "ready"))
			},
			want: domain.StatusReady,
		},
		{
			name: "no pending row",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("UPDATE cafe_orders SET status").
					WithArgs("ready", "KRISTY_101", "pending").
					WillReturnRows(sqlmock.NewRows(orderRowColumns))
			},
			wantErr: domain.ErrOrderNotFound,
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			store, mock := setupPostgresStore(t)
			testCase.setup(mock)

			rec, err := store.MarkStatus(context.Background(), "KRISTY_101", domain.StatusPending, domain.StatusReady)
			if testCase.wantErr != nil {
				assert.ErrorIs(t, err, testCase.wantErr)
			} else {
				require.NoError(t, err)
				assert.Equal(t, testCase.want, rec.Status)
				assert.Equal(t, "kristy_101", rec.OrderID)
				assert.Equal(t, "$4.50", domain.FormatPrice(rec.Total))
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestPostgresOrderStore_Queries(t *testing.T) {
	store, mock := setupPostgresStore(t)
	ctx := context.Background()

	mock.ExpectQuery("ORDER BY id DESC").
		WithArgs(2).
		WillReturnRows(sqlmock.NewRows(orderRowColumns).
			AddRow("b_2", "2026-10-17", "10:00:00", "Alex", "N/A", int64(7), "Banana Bread (N/A) - Add-ons: None", "4.00", "pending").
			AddRow("a_1", "2026-10-17", "09:00:00", "Kristy", "@kristy", int64(4242), "Iced Matcha (Iced) - Add-ons: None", "7.00", "ready"))

	recent, err := store.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "b_2", recent[0].OrderID)
	assert.Equal(t, domain.StatusReady, recent[1].Status)

	mock.ExpectQuery("WHERE order_date = \\$1").
		WithArgs("2026-10-16").
		WillReturnRows(sqlmock.NewRows(orderRowColumns))

	byDate, err := store.ByDate(ctx, "2026-10-16")
	require.NoError(t, err)
	assert.Empty(t, byDate)

	mock.ExpectQuery("WHERE status = \\$1").
		WithArgs("pending").
		WillReturnRows(sqlmock.NewRows(orderRowColumns).
			AddRow("b_2", "2026-10-17", "10:00:00", "Alex", "N/A", int64(7), "Banana Bread (N/A) - Add-ons: None", "4.00", "pending"))

	pending, err := store.ByStatus(ctx, domain.StatusPending)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, int64(7), pending[0].CustomerID)

	mock.ExpectQuery("SELECT EXISTS").
		WithArgs("b_2").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	exists, err := store.Exists(ctx, "b_2")
	require.NoError(t, err)
	assert.True(t, exists)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresOrderStore_RecentWithoutLimit(t *testing.T) {
	tests := []struct {
		name string
		n    int
	}{
		{name: "zero", n: 0},
		{name: "negative", n: -1},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			store, mock := setupPostgresStore(t)

			mock.ExpectQuery("ORDER BY id DESC").
				WithArgs(nil).
				WillReturnRows(sqlmock.NewRows(orderRowColumns).
					AddRow("b_2", "2026-10-17", "10:00:00", "Alex", "N/A", int64(7), "Banana Bread (N/A) - Add-ons: None", "4.00", "pending").
					AddRow("a_1", "2026-10-17", "09:00:00", "Kristy", "@kristy", int64(4242), "Iced Matcha (Iced) - Add-ons: None", "7.00", "ready"))

			recent, err := store.Recent(context.Background(), testCase.n)
			require.NoError(t, err)
			assert.Len(t, recent, 2)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
