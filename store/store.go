// Package store is the data access layer: small repository types over a
// *sql.DB handle, one per table group. Business rules that must hold under
// concurrent requests (duplicate registrations, event capacity) are enforced
// here with database constraints and conditional updates, never with
// check-then-act reads alone.
package store

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
)

const timeLayout = "2006-01-02 15:04:05"

func now() string {
	return time.Now().Format(timeLayout)
}

// isDuplicate recognizes a unique-constraint violation from MySQL (error
// 1062) or from sqlite, which the tests run against.
func isDuplicate(err error) bool {
	if err == nil {
		return false
	}
	var mysqlErr *mysql.MySQLError
	if ok := asMySQLError(err, &mysqlErr); ok && mysqlErr.Number == 1062 {
		return true
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed") ||
		strings.Contains(err.Error(), "Duplicate entry")
}

// isForeignKeyViolation recognizes a blocked delete on a referenced row
// (MySQL 1451, sqlite foreign key constraint).
func isForeignKeyViolation(err error) bool {
	if err == nil {
		return false
	}
	var mysqlErr *mysql.MySQLError
	if ok := asMySQLError(err, &mysqlErr); ok && mysqlErr.Number == 1451 {
		return true
	}
	return strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}

func asMySQLError(err error, target **mysql.MySQLError) bool {
	e, ok := err.(*mysql.MySQLError)
	if ok {
		*target = e
	}
	return ok
}

// marshalJSON encodes a value for a JSON text column; nil slices become "[]"
// so the column never holds SQL NULL.
func marshalJSON(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	s := string(b)
	if s == "null" {
		s = "[]"
	}
	return s, nil
}

func unmarshalStringList(raw string) []string {
	if raw == "" {
		return []string{}
	}
	var out []string
	if err := json.Unmarshal([]byte(raw), &out); err != nil || out == nil {
		return []string{}
	}
	return out
}
