package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/spicedepot/backend/internal/domain/catalog"
	"github.com/spicedepot/backend/internal/domain/shared"
	"github.com/spicedepot/backend/internal/domain/shared/valueobject"
)

func newMockRepo(t *testing.T) (*GormProductRepository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 db,
		PreferSimpleProtocol: true,
	}), &gorm.Config{})
	require.NoError(t, err)

	return NewGormProductRepository(gormDB), mock
}

func productRows(id uuid.UUID, name string) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{
		"id", "created_at", "updated_at", "version",
		"name", "category", "unit", "rate_per_kg", "gst_percentage", "status", "description",
	}).AddRow(id, now, now, 1, name, "ground", "kg", "200", "5", "active", "")
}

func TestGormProductRepositoryFindByID(t *testing.T) {
	t.Run("maps a row to the domain product", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		id := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "products" WHERE id = .+`).
			WithArgs(id, 1).
			WillReturnRows(productRows(id, "Turmeric"))

		product, err := repo.FindByID(context.Background(), id)
		require.NoError(t, err)
		assert.Equal(t, id, product.ID)
		assert.Equal(t, "Turmeric", product.Name)
		assert.Equal(t, valueobject.UnitKG, product.Unit)
		assert.True(t, product.RatePerKg.Equal(decimal.NewFromInt(200)))
		assert.Equal(t, catalog.ProductStatusActive, product.Status)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing rows map to not found", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		id := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "products" WHERE id = .+`).
			WithArgs(id, 1).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		_, err := repo.FindByID(context.Background(), id)
		assert.ErrorIs(t, err, shared.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormProductRepositoryFindByName(t *testing.T) {
	repo, mock := newMockRepo(t)
	id := uuid.New()

	mock.ExpectQuery(`SELECT \* FROM "products" WHERE name = .+`).
		WithArgs("Turmeric", 1).
		WillReturnRows(productRows(id, "Turmeric"))

	product, err := repo.FindByName(context.Background(), "Turmeric")
	require.NoError(t, err)
	assert.Equal(t, id, product.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormProductRepositoryCount(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "products"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	count, err := repo.Count(context.Background(), shared.DefaultFilter())
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormProductRepositoryDelete(t *testing.T) {
	t.Run("deleting an unknown product is not found", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		id := uuid.New()

		mock.ExpectBegin()
		mock.ExpectExec(`DELETE FROM "products" WHERE id = .+`).
			WithArgs(id).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectCommit()

		err := repo.Delete(context.Background(), id)
		assert.ErrorIs(t, err, shared.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("deletes by ID", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		id := uuid.New()

		mock.ExpectBegin()
		mock.ExpectExec(`DELETE FROM "products" WHERE id = .+`).
			WithArgs(id).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		require.NoError(t, repo.Delete(context.Background(), id))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
