package repository

import (
	"context"
	"testing"
	"time"

	"newsteps/internal/database"
	"newsteps/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// setupTestDB creates a PostgreSQL testcontainer with the schema applied.
func setupTestDB(t *testing.T) (*pgxpool.Pool, func()) {
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("postgres"),
		postgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err)

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	poolConfig, err := pgxpool.ParseConfig(connStr)
	require.NoError(t, err)
	poolConfig.MaxConns = 20

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	require.NoError(t, err)

	require.NoError(t, database.Migrate(ctx, pool, zerolog.Nop()))

	cleanup := func() {
		pool.Close()
		_ = pgContainer.Terminate(ctx)
	}

	return pool, cleanup
}

// seedShoe inserts an inventory record with the given availability.
func seedShoe(t *testing.T, repo ShoeRepository, shoeID int64, status model.ShoeStatus, count int) *model.Shoe {
	t.Helper()

	now := time.Now().UTC()
	shoe := &model.Shoe{
		ID:             uuid.New(),
		ShoeID:         shoeID,
		Brand:          "Nike",
		ModelName:      "Pegasus",
		Size:           "9",
		Gender:         "women",
		Sport:          "running",
		Condition:      "good",
		Status:         status,
		InventoryCount: count,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	require.NoError(t, repo.Create(context.Background(), shoe))
	return shoe
}

// seedUser inserts a requester.
func seedUser(t *testing.T, repo UserRepository) *model.User {
	t.Helper()

	user := &model.User{
		ID:        uuid.New(),
		Email:     uuid.NewString() + "@example.com",
		FirstName: "Ada",
		LastName:  "Lovelace",
		Phone:     "555-0100",
		Role:      "user",
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, repo.Create(context.Background(), user))
	return user
}
