package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"github.com/riskibarqy/darts-tournament/internal/platform/dburl"
)

func withMigrator(fn func(m *migrate.Migrate, source string) error) error {
	dbURL, err := resolveDBURL()
	if err != nil {
		return err
	}
	dir, err := resolveMigrationsDir(aMigrationsDir)
	if err != nil {
		return err
	}

	source := "file://" + filepath.ToSlash(dir)
	m, err := migrate.New(source, dbURL)
	if err != nil {
		return fmt.Errorf("create migrator for %s: %w", dburl.Redact(dbURL), err)
	}
	defer func() {
		srcErr, dbErr := m.Close()
		if srcErr != nil {
			log.Printf("close migration source: %v", srcErr)
		}
		if dbErr != nil {
			log.Printf("close migration db: %v", dbErr)
		}
	}()

	return fn(m, source)
}

func resolveDBURL() (string, error) {
	raw := strings.TrimSpace(aDBURL)
	if raw == "" {
		raw = strings.TrimSpace(os.Getenv("DB_URL"))
	}
	if raw == "" {
		return "", fmt.Errorf("DB_URL is required")
	}

	disable := aDisablePrepBinary
	if !disable {
		disable, _ = strconv.ParseBool(strings.TrimSpace(os.Getenv("DB_DISABLE_PREPARED_BINARY_RESULT")))
	}
	return dburl.Normalize(raw, disable), nil
}

func resolveMigrationsDir(explicit string) (string, error) {
	candidates := []string{
		strings.TrimSpace(explicit),
		strings.TrimSpace(os.Getenv("MIGRATIONS_DIR")),
		"./db/migrations",
		"/app/db/migrations",
	}

	for _, candidate := range candidates {
		if candidate == "" {
			continue
		}
		abs, err := filepath.Abs(candidate)
		if err != nil {
			continue
		}
		if info, err := os.Stat(abs); err == nil && info.IsDir() {
			return abs, nil
		}
	}

	return "", fmt.Errorf("migration directory not found (checked --dir, MIGRATIONS_DIR, ./db/migrations, /app/db/migrations)")
}
