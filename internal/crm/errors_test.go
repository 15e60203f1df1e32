package crm

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{
			name: "unique violation",
			err:  &pgconn.PgError{Code: "23505", ConstraintName: "customers_email_key"},
			want: ErrConstraintViolation,
		},
		{
			name: "check violation",
			err:  &pgconn.PgError{Code: "23514", ConstraintName: "valid_price"},
			want: ErrConstraintViolation,
		},
		{
			name: "not null violation",
			err:  &pgconn.PgError{Code: "23502"},
			want: ErrConstraintViolation,
		},
		{
			name: "foreign key violation",
			err:  &pgconn.PgError{Code: "23503", ConstraintName: "fk_customer"},
			want: ErrReferenceNotFound,
		},
		{
			name: "deadline",
			err:  fmt.Errorf("query: %w", context.DeadlineExceeded),
			want: ErrStoreUnavailable,
		},
		{
			name: "connectivity",
			err:  errors.New("dial tcp: connection refused"),
			want: ErrStoreUnavailable,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classify(tt.err)
			assert.ErrorIs(t, got, tt.want)
		})
	}
}

func TestClassifyKeepsConstraintName(t *testing.T) {
	got := classify(&pgconn.PgError{Code: "23505", ConstraintName: "customers_email_key"})
	assert.Contains(t, got.Error(), "customers_email_key")
}
