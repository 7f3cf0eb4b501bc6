package database

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
)

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		class     ErrorClass
		retryable bool
	}{
		{"serialization", &pq.Error{Code: "40001"}, ErrorClassSerialization, true},
		{"deadlock", &pq.Error{Code: "40P01"}, ErrorClassDeadlock, true},
		{"lock timeout", &pq.Error{Code: "55P03"}, ErrorClassTransient, true},
		{"wrapped serialization", fmt.Errorf("insert: %w", &pq.Error{Code: "40001"}), ErrorClassSerialization, true},
		{"unique", &pq.Error{Code: "23505"}, ErrorClassPermanent, false},
		{"no rows", sql.ErrNoRows, ErrorClassPermanent, false},
		{"plain", errors.New("boom"), ErrorClassPermanent, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClassifyError(tt.err); got != tt.class {
				t.Errorf("ClassifyError = %v, want %v", got, tt.class)
			}
			if got := IsRetryable(tt.err); got != tt.retryable {
				t.Errorf("IsRetryable = %v, want %v", got, tt.retryable)
			}
		})
	}
}

func TestConstraintHelpers(t *testing.T) {
	unique := fmt.Errorf("create user: %w", &pq.Error{Code: "23505", Constraint: "users_username_key"})
	fk := &pq.Error{Code: "23503", Constraint: "cart_items_product_id_fkey"}
	check := &pq.Error{Code: "23514"}

	if !IsUniqueViolation(unique) || IsUniqueViolation(fk) {
		t.Error("IsUniqueViolation mismatch")
	}
	if !IsForeignKeyViolation(fk) || IsForeignKeyViolation(unique) {
		t.Error("IsForeignKeyViolation mismatch")
	}
	if !IsCheckViolation(check) || IsCheckViolation(unique) {
		t.Error("IsCheckViolation mismatch")
	}
	if !IsCheckViolation(&pq.Error{Code: "22003"}) || !IsCheckViolation(&pq.Error{Code: "23502"}) {
		t.Error("IsCheckViolation should cover numeric range and not-null errors")
	}
	if got := ConstraintName(unique); got != "users_username_key" {
		t.Errorf("ConstraintName = %q", got)
	}
	if got := ConstraintName(errors.New("x")); got != "" {
		t.Errorf("ConstraintName = %q, want empty", got)
	}
}
