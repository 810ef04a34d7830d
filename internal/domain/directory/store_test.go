package directory

import (
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type stubRow struct {
	scanFn func(dest ...any) error
}

func (s stubRow) Scan(dest ...any) error {
	return s.scanFn(dest...)
}

func TestScanEmployeeNoRows(t *testing.T) {
	row := stubRow{scanFn: func(dest ...any) error {
		return pgx.ErrNoRows
	}}

	_, err := scanEmployee(row)
	if !errors.Is(err, ErrEmployeeNotFound) {
		t.Fatalf("expected ErrEmployeeNotFound, got %v", err)
	}
}

func TestTranslatePgError(t *testing.T) {
	unique := &pgconn.PgError{Code: uniqueViolationCode}
	if !errors.Is(translatePgError(unique), ErrDuplicateEmail) {
		t.Fatalf("expected unique violation to map to ErrDuplicateEmail")
	}

	other := errors.New("other")
	if translatePgError(other) != other {
		t.Fatalf("unexpected translation for generic error")
	}
}

func TestValidStatus(t *testing.T) {
	for _, status := range []string{StatusActive, StatusInactive, StatusTerminated} {
		if !ValidStatus(status) {
			t.Fatalf("expected %q to be valid", status)
		}
	}
	if ValidStatus("retired") {
		t.Fatalf("expected unknown status to be invalid")
	}
}
