package services

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPositionPagination(t *testing.T) {
	db := newTestDB(t)
	svc := NewPositionService(db)

	for i := 0; i < 5; i++ {
		seedPosition(t, db, fmt.Sprintf("place %d", i))
	}

	page, err := svc.GetAll(2, 2)
	require.NoError(t, err)
	assert.Len(t, page.Data, 2)
	assert.Equal(t, 2, page.Pagination.Page)
	assert.Equal(t, int64(5), page.Pagination.Total)
	assert.Equal(t, 3, page.Pagination.TotalPage)

	last, err := svc.GetAll(3, 2)
	require.NoError(t, err)
	assert.Len(t, last.Data, 1)
}

func TestPositionGetByIDMissing(t *testing.T) {
	db := newTestDB(t)
	svc := NewPositionService(db)

	_, err := svc.GetByID(uuid.NewString())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPositionDeleteMissing(t *testing.T) {
	db := newTestDB(t)
	svc := NewPositionService(db)

	tx := db.Begin()
	_, err := svc.Delete(uuid.NewString(), tx)
	tx.Rollback()
	assert.ErrorIs(t, err, ErrNotFound)
}
