// Package test holds shared helpers for suites that need a real database.
package test

import (
	"database/sql"
	"log"
	"os"
	"path/filepath"
	"runtime"

	"taskdeck/internal/store/sqlite"

	_ "github.com/mattn/go-sqlite3"
)

// findProjectRoot walks up from this file until it hits go.mod.
func findProjectRoot() string {
	_, filename, _, _ := runtime.Caller(0)
	dir := filepath.Dir(filename)

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}

		dir = parent
	}

	if wd, err := os.Getwd(); err == nil {
		return wd
	}

	log.Fatal("Could not find project root directory")
	return ""
}

// InitTestDB opens an in-memory sqlite database with the full schema
// applied.
func InitTestDB() *sql.DB {
	db, err := sql.Open("sqlite3", ":memory:")

	if err != nil {
		log.Fatal(err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		log.Fatal(err)
	}

	migrationsPath := filepath.Join(findProjectRoot(), "db", "migrations")

	if err := sqlite.RunMigrations(db, migrationsPath); err != nil {
		log.Fatal(err)
	}

	return db
}
