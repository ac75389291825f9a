package repository_test

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/Mapachitomamalon/CosmoFood/repository"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestOrderNumberExists(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewGormOrderRepository(gormDB)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "orders"`)).
		WithArgs("1234567890").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	exists, err := repo.NumberExists(context.Background(), "1234567890")
	assert.NoError(t, err)
	assert.True(t, exists)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "orders"`)).
		WithArgs("0000000000").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	exists, err = repo.NumberExists(context.Background(), "0000000000")
	assert.NoError(t, err)
	assert.False(t, exists)
}

func TestOrderFindByNumber_NotFound(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewGormOrderRepository(gormDB)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "orders"`)).
		WithArgs("9999999999", 1).
		WillReturnRows(sqlmock.NewRows([]string{}))

	order, err := repo.FindByNumber(context.Background(), "9999999999")
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.Nil(t, order)
}

func TestCheckoutCart_EmptyCartRollsBack(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewGormOrderRepository(gormDB)

	cartID := uuid.New()
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "cart_items" WHERE cart_id = $1`)).
		WithArgs(cartID).
		WillReturnRows(sqlmock.NewRows([]string{}))
	mock.ExpectRollback()

	err := repo.CheckoutCart(context.Background(), nil, cartID)
	assert.ErrorIs(t, err, repository.ErrEmptyCart)
	assert.NoError(t, mock.ExpectationsWereMet())
}
