package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"storefront/internal/model"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(mysql.New(mysql.Config{Conn: sqlDB, SkipInitializeWithVersion: true}), &gorm.Config{
		SkipDefaultTransaction: true,
		TranslateError:         true,
		Logger:                 gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	return db, mock
}

func TestUserRepository_FindByID_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db, time.Second)

	mock.ExpectQuery("SELECT \\* FROM `users` WHERE id = \\?").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.FindByID(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_Create_DuplicateEmail(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db, time.Second)

	mock.ExpectExec("INSERT INTO `users`").
		WillReturnError(&mysqldriver.MySQLError{Number: 1062, Message: "Duplicate entry"})

	err := repo.Create(context.Background(), &model.User{Email: "ada@shop.test"})
	assert.ErrorIs(t, err, ErrDuplicateKey)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_IncrementOrderCount(t *testing.T) {
	tests := []struct {
		name     string
		affected int64
		wantErr  error
	}{
		{name: "existing user", affected: 1},
		{name: "missing user", affected: 0, wantErr: ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := newMockDB(t)
			repo := NewUserRepository(db, time.Second)

			mock.ExpectExec("UPDATE `users` SET `order_count`=order_count \\+ \\? WHERE id = \\?").
				WithArgs(1, "u1").
				WillReturnResult(sqlmock.NewResult(0, tt.affected))

			err := repo.IncrementOrderCount(context.Background(), "u1", 1)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestUserRepository_Timeout(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db, 10*time.Millisecond)

	mock.ExpectQuery("SELECT \\* FROM `users`").
		WillDelayFor(200 * time.Millisecond).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("u1"))

	_, err := repo.FindByEmail(context.Background(), "ada@shop.test")
	assert.ErrorIs(t, err, ErrTimeout)
}

func TestOrderRepository_ListByUser_NewestFirst(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewOrderRepository(db, time.Second)

	rows := sqlmock.NewRows([]string{"id", "user_id", "date", "status", "total_amount"}).
		AddRow("o2", "u1", "2024-03-01T00:00:00Z", "Pending", "3.00").
		AddRow("o1", "u1", "2024-01-01T00:00:00Z", "Shipped", "10.50")
	mock.ExpectQuery("SELECT \\* FROM `orders` WHERE user_id = \\? ORDER BY date desc").
		WithArgs("u1").
		WillReturnRows(rows)

	orders, err := repo.ListByUser(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, "o2", orders[0].ID)
	assert.Equal(t, "10.5", orders[1].TotalAmount.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepository_ListByUser_Empty(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewOrderRepository(db, time.Second)

	mock.ExpectQuery("SELECT \\* FROM `orders`").WillReturnRows(sqlmock.NewRows([]string{"id"}))

	orders, err := repo.ListByUser(context.Background(), "u1")
	require.NoError(t, err)
	assert.NotNil(t, orders)
	assert.Empty(t, orders)
}

func TestOrderRepository_UpdateStatus(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewOrderRepository(db, time.Second)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT \\* FROM `orders` WHERE id = \\? AND user_id = \\?").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "status"}).AddRow("o1", "u1", "Pending"))
	mock.ExpectExec("UPDATE `orders` SET").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	order, err := repo.UpdateStatus(context.Background(), "o1", "u1", model.StatusChange{
		Status:       model.OrderStatusCancelled,
		Cancellation: &model.Cancellation{Reason: "late", CancelledAt: at},
		UpdatedAt:    at,
	})
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusCancelled, order.Status)
	require.NotNil(t, order.Cancellation)
	assert.Equal(t, "late", order.Cancellation.Reason)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepository_UpdateStatus_ForeignOrder(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewOrderRepository(db, time.Second)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT \\* FROM `orders` WHERE id = \\? AND user_id = \\?").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectRollback()

	_, err := repo.UpdateStatus(context.Background(), "o1", "intruder", model.StatusChange{Status: model.OrderStatusShipped})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepository_CountByUser(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewOrderRepository(db, time.Second)

	mock.ExpectQuery("SELECT user_id, count\\(\\*\\) as total FROM `orders`").
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "total"}).AddRow("u1", 2).AddRow("u2", 5))

	counts, err := repo.CountByUser(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"u1": 2, "u2": 5}, counts)
}

func TestProductRepository_ListExpress(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewProductRepository(db, time.Second)

	mock.ExpectQuery("SELECT \\* FROM `products` WHERE category = \\? OR delivery_time = \\?").
		WithArgs(model.ExpressDelivery, model.ExpressDelivery).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "delivery_time"}).AddRow("p1", "Tea", "7m"))

	products, err := repo.ListExpress(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "Tea", products[0].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStore_WithTransaction_RollsBack(t *testing.T) {
	db, mock := newMockDB(t)
	store := NewGormStore(db, time.Second)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `orders`").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE `users` SET `order_count`").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := store.WithTransaction(context.Background(), func(ctx context.Context, tx Store) error {
		if err := tx.Orders().Create(ctx, &model.Order{UserID: "ghost"}); err != nil {
			return err
		}
		return tx.Users().IncrementOrderCount(ctx, "ghost", 1)
	})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
