package integration

import (
	"context"
	"testing"
	"time"

	"newsteps/internal/database"
	"newsteps/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestDB represents a test database instance.
type TestDB struct {
	Container *postgres.PostgresContainer
	Pool      *pgxpool.Pool
	ConnStr   string
}

// SetupTestDB creates a PostgreSQL test container, a connection pool and the schema.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	ctx := context.Background()

	postgresContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	connStr, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get connection string: %v", err)
	}

	poolConfig, err := pgxpool.ParseConfig(connStr)
	if err != nil {
		t.Fatalf("failed to parse connection string: %v", err)
	}
	poolConfig.MaxConns = 10

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		t.Fatalf("failed to create connection pool: %v", err)
	}

	if err := pool.Ping(ctx); err != nil {
		t.Fatalf("failed to ping database: %v", err)
	}

	if err := database.Migrate(ctx, pool, zerolog.Nop()); err != nil {
		t.Fatalf("failed to apply schema: %v", err)
	}

	t.Cleanup(func() {
		pool.Close()
		if err := postgresContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	return &TestDB{
		Container: postgresContainer,
		Pool:      pool,
		ConnStr:   connStr,
	}
}

// SeedUser inserts a user with the given role.
func SeedUser(t *testing.T, pool *pgxpool.Pool, role string, bayArea bool) *model.User {
	t.Helper()

	user := &model.User{
		ID:        uuid.New(),
		Email:     uuid.NewString() + "@example.com",
		FirstName: "Test",
		LastName:  "User",
		Phone:     "555-0100",
		BayArea:   bayArea,
		Role:      role,
		CreatedAt: time.Now().UTC(),
	}

	_, err := pool.Exec(context.Background(), `
		INSERT INTO users (id, email, first_name, last_name, phone, bay_area, role, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		user.ID, user.Email, user.FirstName, user.LastName, user.Phone, user.BayArea, user.Role, user.CreatedAt,
	)
	if err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}
	return user
}

// SeedShoes inserts available inventory records numbered from 101.
func SeedShoes(t *testing.T, pool *pgxpool.Pool, n int) []uuid.UUID {
	t.Helper()
	return SeedShoesFrom(t, pool, 101, n)
}

// SeedShoesFrom inserts n available inventory records numbered from first.
func SeedShoesFrom(t *testing.T, pool *pgxpool.Pool, first int64, n int) []uuid.UUID {
	t.Helper()

	ctx := context.Background()
	brands := []string{"Nike", "Adidas", "Brooks", "Hoka", "Saucony"}

	ids := make([]uuid.UUID, 0, n)
	for i := 0; i < n; i++ {
		id := uuid.New()
		_, err := pool.Exec(ctx, `
			INSERT INTO shoes (id, shoe_id, brand, model_name, size, gender, sport, condition, status, inventory_count)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 'available', 1)`,
			id, first+int64(i), brands[i%len(brands)], "Trainer", "9", "unisex", "running", "good",
		)
		if err != nil {
			t.Fatalf("failed to seed shoe %d: %v", first+int64(i), err)
		}
		ids = append(ids, id)
	}
	return ids
}

// CleanupDB clears all data and rewinds the counters to their seeded values.
func CleanupDB(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	ctx := context.Background()

	_, err := pool.Exec(ctx, `
		TRUNCATE status_history, request_items, requests, donation_items, donations, shoes, users;
		UPDATE counters SET sequence = CASE name WHEN 'shoeId' THEN 100 ELSE 0 END;
	`)
	if err != nil {
		t.Fatalf("failed to clean database: %v", err)
	}
}
