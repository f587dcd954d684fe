package database

import (
	"errors"
	"fmt"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
)

func TestIsUniqueViolation(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"Nil", nil, false},
		{"MySQLDuplicate", &mysql.MySQLError{Number: 1062, Message: "Duplicate entry 'flour-g'"}, true},
		{"MySQLOther", &mysql.MySQLError{Number: 1146, Message: "Table doesn't exist"}, false},
		{"PostgresUnique", fmt.Errorf("insert: %w", &pq.Error{Code: "23505"}), true},
		{"PostgresOther", &pq.Error{Code: "23502"}, false},
		{"SQLite", errors.New("UNIQUE constraint failed: ingredients.name, ingredients.measurement_unit"), true},
		{"Other", errors.New("connection refused"), false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := IsUniqueViolation(c.err); got != c.want {
				t.Errorf("IsUniqueViolation(%v) = %v, want %v", c.err, got, c.want)
			}
		})
	}
}
