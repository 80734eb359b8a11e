package main

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"newsteps/internal/auth"
	"newsteps/internal/config"
	"newsteps/internal/database"
	"newsteps/internal/model"
	"newsteps/internal/repository"
	"newsteps/internal/settings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	adminEmail := flag.String("admin-email", "", "create an admin user with this email and print a session token")
	adminName := flag.String("admin-name", "Admin User", "first and last name for the admin user")
	settingsOut := flag.String("write-settings", "", "write a default settings document to this path (.gz to compress)")
	flag.Parse()

	if *settingsOut != "" {
		if err := writeSettings(*settingsOut); err != nil {
			return err
		}
		fmt.Printf("Wrote default settings to %s\n", *settingsOut)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger := config.NewLogger(cfg.Logger)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer pool.Close()

	var dbName string
	if err := pool.QueryRow(ctx, "SELECT current_database()").Scan(&dbName); err != nil {
		return fmt.Errorf("failed to query database name: %w", err)
	}
	logger.Info().Str("database", dbName).Msg("connected")

	if err := database.Migrate(ctx, pool, logger); err != nil {
		return err
	}

	if *adminEmail == "" {
		return nil
	}
	return seedAdmin(ctx, repository.NewUserRepository(pool, logger), cfg.Auth.JWTSecret, *adminEmail, *adminName, logger)
}

func seedAdmin(ctx context.Context, users repository.UserRepository, secret, email, name string, logger zerolog.Logger) error {
	first, last, _ := strings.Cut(strings.TrimSpace(name), " ")

	user := &model.User{
		ID:        uuid.New(),
		Email:     email,
		FirstName: first,
		LastName:  last,
		Role:      model.RoleAdmin,
		CreatedAt: time.Now().UTC(),
	}
	if err := users.Create(ctx, user); err != nil {
		return err
	}

	token, err := auth.GenerateToken(secret, model.Identity{UserID: user.ID, Email: user.Email, Role: user.Role})
	if err != nil {
		return fmt.Errorf("failed to issue admin token: %w", err)
	}

	logger.Info().Str("user_id", user.ID.String()).Str("email", email).Msg("admin user created")
	fmt.Printf("Admin user %s\nSession token: %s\n", user.ID, token)
	return nil
}

func writeSettings(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer file.Close()

	var w io.Writer = file
	if strings.HasSuffix(path, ".gz") {
		gz := gzip.NewWriter(file)
		defer gz.Close()
		w = gz
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(settings.Defaults()); err != nil {
		return fmt.Errorf("failed to write settings: %w", err)
	}
	return nil
}
