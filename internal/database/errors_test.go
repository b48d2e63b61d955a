package database

import (
	"errors"
	"fmt"
	"testing"

	"github.com/go-sql-driver/mysql"
)

func TestIsSQLErrorMySQLCodes(t *testing.T) {
	tests := []struct {
		number uint16
		want   SQLError
	}{
		{1062, DuplicateKeyErr},
		{1048, NotNullViolationErr},
		{1216, ForeignKeyViolationErr},
		{1452, ForeignKeyViolationErr},
		{3819, CheckConstraintViolationErr},
		{1054, NoColumnErr},
		{1091, NoIndexErr},
		{1265, DataTruncatedErr},
		{9999, UnknownErr},
	}

	for _, tt := range tests {
		err := &mysql.MySQLError{Number: tt.number, Message: "driver failure"}
		is, kind := IsSQLError(err)
		if !is {
			t.Errorf("IsSQLError(mysql %d) = false, want true", tt.number)
		}
		if kind != tt.want {
			t.Errorf("IsSQLError(mysql %d) kind = %d, want %d", tt.number, kind, tt.want)
		}
	}
}

func TestIsSQLErrorMessages(t *testing.T) {
	tests := []struct {
		name string
		msg  string
		want SQLError
	}{
		{"pg duplicate", "ERROR: duplicate key value violates unique constraint (SQLSTATE 23505)", DuplicateKeyErr},
		{"sqlite duplicate", "UNIQUE constraint failed: categories.name", DuplicateKeyErr},
		{"pg foreign key", "ERROR: insert or update violates foreign key constraint (SQLSTATE 23503)", ForeignKeyViolationErr},
		{"sqlite foreign key", "FOREIGN KEY constraint failed", ForeignKeyViolationErr},
		{"pg not null", "ERROR: null value violates not-null constraint (SQLSTATE 23502)", NotNullViolationErr},
		{"sqlite not null", "NOT NULL constraint failed: products.name", NotNullViolationErr},
		{"sqlite missing table", "no such table: products", NoTableErr},
		{"pg missing column", "ERROR: column does not exist (SQLSTATE 42703)", NoColumnErr},
		{"sqlite check", "CHECK constraint failed: price", CheckConstraintViolationErr},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			is, kind := IsSQLError(errors.New(tt.msg))
			if !is {
				t.Fatalf("IsSQLError(%q) = false, want true", tt.msg)
			}
			if kind != tt.want {
				t.Errorf("IsSQLError(%q) kind = %d, want %d", tt.msg, kind, tt.want)
			}
		})
	}
}

func TestIsSQLErrorWrapped(t *testing.T) {
	inner := &mysql.MySQLError{Number: 1062, Message: "duplicate"}
	wrapped := fmt.Errorf("insert product: %w", inner)

	is, kind := IsSQLError(wrapped)
	if !is || kind != DuplicateKeyErr {
		t.Errorf("IsSQLError(wrapped) = (%v, %d), want (true, DuplicateKeyErr)", is, kind)
	}
}

func TestIsSQLErrorUnclassified(t *testing.T) {
	is, kind := IsSQLError(errors.New("connection refused"))
	if is || kind != UnknownErr {
		t.Errorf("IsSQLError(unrelated) = (%v, %d), want (false, UnknownErr)", is, kind)
	}

	if is, _ := IsSQLError(nil); is {
		t.Error("IsSQLError(nil) = true, want false")
	}
}

func TestSQLErrorIsConstraintViolation(t *testing.T) {
	constraintKinds := []SQLError{DuplicateKeyErr, NotNullViolationErr, ForeignKeyViolationErr, CheckConstraintViolationErr}
	for _, kind := range constraintKinds {
		if !kind.IsConstraintViolation() {
			t.Errorf("SQLError(%d).IsConstraintViolation() = false, want true", kind)
		}
	}

	otherKinds := []SQLError{UnknownErr, NoTableErr, NoColumnErr, DataTruncatedErr}
	for _, kind := range otherKinds {
		if kind.IsConstraintViolation() {
			t.Errorf("SQLError(%d).IsConstraintViolation() = true, want false", kind)
		}
	}
}
