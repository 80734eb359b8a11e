package repository

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"newsteps/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShoeRepository_CRUD(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	repo := NewShoeRepository(pool, zerolog.Nop())

	shoe := seedShoe(t, repo, 101, model.ShoeAvailable, 1)

	t.Run("GetByID", func(t *testing.T) {
		got, err := repo.GetByID(ctx, shoe.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, int64(101), got.ShoeID)
		assert.Equal(t, "Pegasus", got.ModelName)
		assert.Equal(t, model.ShoeAvailable, got.Status)
		assert.Nil(t, got.DonationID)
	})

	t.Run("GetByID missing", func(t *testing.T) {
		got, err := repo.GetByID(ctx, uuid.New())
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("GetByIDs skips missing", func(t *testing.T) {
		got, err := repo.GetByIDs(ctx, []uuid.UUID{shoe.ID, uuid.New()})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, shoe.ID, got[0].ID)
	})

	t.Run("Update", func(t *testing.T) {
		count := 4
		condition := "like new"

		got, err := repo.Update(ctx, shoe.ID, &model.ShoePatch{InventoryCount: &count, Condition: &condition}, time.Now().UTC())
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, 4, got.InventoryCount)
		assert.Equal(t, "like new", got.Condition)
		assert.Equal(t, "Pegasus", got.ModelName, "omitted fields keep their value")
		assert.Equal(t, model.ShoeAvailable, got.Status)
	})

	t.Run("Update missing", func(t *testing.T) {
		brand := "X"
		got, err := repo.Update(ctx, uuid.New(), &model.ShoePatch{Brand: &brand}, time.Now().UTC())
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("Delete", func(t *testing.T) {
		found, err := repo.Delete(ctx, shoe.ID)
		require.NoError(t, err)
		assert.True(t, found)

		found, err = repo.Delete(ctx, shoe.ID)
		require.NoError(t, err)
		assert.False(t, found)
	})
}

func TestShoeRepository_List(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	repo := NewShoeRepository(pool, zerolog.Nop())

	for i := int64(0); i < 5; i++ {
		seedShoe(t, repo, 101+i, model.ShoeAvailable, 1)
	}
	seedShoe(t, repo, 200, model.ShoeRequested, 0)

	tests := []struct {
		name     string
		filter   model.ShoeFilter
		expected []int64
	}{
		{"Available only", model.ShoeFilter{Status: model.ShoeAvailable, Limit: 10}, []int64{101, 102, 103, 104, 105}},
		{"Requested only", model.ShoeFilter{Status: model.ShoeRequested, Limit: 10}, []int64{200}},
		{"Everything", model.ShoeFilter{Limit: 10}, []int64{101, 102, 103, 104, 105, 200}},
		{"Paged", model.ShoeFilter{Status: model.ShoeAvailable, Limit: 2, Offset: 2}, []int64{103, 104}},
		{"Size mismatch", model.ShoeFilter{Size: "12", Limit: 10}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			shoes, err := repo.List(ctx, tt.filter)
			require.NoError(t, err)

			var got []int64
			for _, s := range shoes {
				got = append(got, s.ShoeID)
			}
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestShoeRepository_Allocate(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	repo := NewShoeRepository(pool, zerolog.Nop())

	allocate := func(id uuid.UUID) bool {
		tx, err := pool.Begin(ctx)
		require.NoError(t, err)
		ok, err := repo.Allocate(ctx, tx, id)
		require.NoError(t, err)
		require.NoError(t, tx.Commit(ctx))
		return ok
	}

	t.Run("Available record is decremented and marked requested", func(t *testing.T) {
		shoe := seedShoe(t, repo, 101, model.ShoeAvailable, 1)

		assert.True(t, allocate(shoe.ID))

		got, err := repo.GetByID(ctx, shoe.ID)
		require.NoError(t, err)
		assert.Equal(t, 0, got.InventoryCount)
		assert.Equal(t, model.ShoeRequested, got.Status)

		assert.False(t, allocate(shoe.ID), "a requested record cannot be allocated again")
	})

	t.Run("Zero count is not allocatable", func(t *testing.T) {
		shoe := seedShoe(t, repo, 102, model.ShoeAvailable, 0)
		assert.False(t, allocate(shoe.ID))
	})

	t.Run("Missing record", func(t *testing.T) {
		assert.False(t, allocate(uuid.New()))
	})

	t.Run("Rolled back allocation leaves inventory untouched", func(t *testing.T) {
		shoe := seedShoe(t, repo, 103, model.ShoeAvailable, 1)

		tx, err := pool.Begin(ctx)
		require.NoError(t, err)
		ok, err := repo.Allocate(ctx, tx, shoe.ID)
		require.NoError(t, err)
		require.True(t, ok)
		require.NoError(t, tx.Rollback(ctx))

		got, err := repo.GetByID(ctx, shoe.ID)
		require.NoError(t, err)
		assert.True(t, got.Allocatable())
	})
}

func TestShoeRepository_UpdateAfterAllocate(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	repo := NewShoeRepository(pool, zerolog.Nop())
	shoe := seedShoe(t, repo, 101, model.ShoeAvailable, 1)

	// An admin reads the record before a requester claims it.
	before, err := repo.GetByID(ctx, shoe.ID)
	require.NoError(t, err)
	require.True(t, before.Allocatable())

	tx, err := pool.Begin(ctx)
	require.NoError(t, err)
	ok, err := repo.Allocate(ctx, tx, shoe.ID)
	require.NoError(t, err)
	require.True(t, ok)
	require.NoError(t, tx.Commit(ctx))

	brand := "Adidas"
	got, err := repo.Update(ctx, shoe.ID, &model.ShoePatch{Brand: &brand}, time.Now().UTC())
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Adidas", got.Brand)
	assert.Equal(t, model.ShoeRequested, got.Status)
	assert.Equal(t, 0, got.InventoryCount)

	tx, err = pool.Begin(ctx)
	require.NoError(t, err)
	ok, err = repo.Allocate(ctx, tx, shoe.ID)
	require.NoError(t, err)
	require.NoError(t, tx.Commit(ctx))
	assert.False(t, ok, "an edit must not reopen a claimed record")
}

func TestShoeRepository_Allocate_NoOversell(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	repo := NewShoeRepository(pool, zerolog.Nop())
	shoe := seedShoe(t, repo, 101, model.ShoeAvailable, 1)

	const requesters = 10

	var (
		wg      sync.WaitGroup
		winners atomic.Int32
		failed  atomic.Int32
	)

	for i := 0; i < requesters; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			tx, err := pool.Begin(ctx)
			if err != nil {
				failed.Add(1)
				return
			}
			ok, err := repo.Allocate(ctx, tx, shoe.ID)
			if err != nil {
				_ = tx.Rollback(ctx)
				failed.Add(1)
				return
			}
			if err := tx.Commit(ctx); err != nil {
				failed.Add(1)
				return
			}
			if ok {
				winners.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Zero(t, failed.Load())
	assert.Equal(t, int32(1), winners.Load())

	got, err := repo.GetByID(ctx, shoe.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.InventoryCount)
	assert.Equal(t, model.ShoeRequested, got.Status)
}
