package driver

import (
	"database/sql"
	"fmt"
	"os"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/mysql"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/go-sql-driver/mysql"
	"github.com/sirupsen/logrus"
)

// ConnectDB opens the MySQL pool from the environment, applies any pending
// migrations and returns the handle. Failures here are fatal: the API
// cannot serve anything without its schema in place.
func ConnectDB() *sql.DB {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=false&multiStatements=true",
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		envOr("DB_HOST", "127.0.0.1"),
		envOr("DB_PORT", "3306"),
		os.Getenv("DB_NAME"),
	)

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		logrus.WithError(err).Fatal("could not open database")
	}
	if err := db.Ping(); err != nil {
		logrus.WithError(err).Fatal("could not reach database")
	}

	if err := runMigrations(db); err != nil {
		logrus.WithError(err).Fatal("could not run migrations")
	}
	return db
}

func runMigrations(db *sql.DB) error {
	d, err := mysql.WithInstance(db, &mysql.Config{})
	if err != nil {
		return err
	}
	m, err := migrate.NewWithDatabaseInstance("file://"+envOr("MIGRATIONS_DIR", "migrations"), "mysql", d)
	if err != nil {
		return err
	}
	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return err
	}
	return nil
}

func envOr(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}
