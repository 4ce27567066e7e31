package library

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/mattn/go-sqlite3"
)

// ErrNotFound is returned by single-row finders when no row matches.
var ErrNotFound = errors.New("record not found")

// Sentinels matched by errors.Is against a classified *Error.
var (
	ErrUniqueViolation     = errors.New("unique constraint violated")
	ErrForeignKeyViolation = errors.New("foreign key constraint violated")
	ErrNotNullViolation    = errors.New("not null constraint violated")
	ErrCheckViolation      = errors.New("check constraint violated")
)

// Code classifies a failed statement.
type Code int

const (
	Other Code = iota
	UniqueViolation
	ForeignKeyViolation
	NotNullViolation
	CheckViolation
)

func (c Code) String() string {
	switch c {
	case UniqueViolation:
		return "unique_violation"
	case ForeignKeyViolation:
		return "foreign_key_violation"
	case NotNullViolation:
		return "not_null_violation"
	case CheckViolation:
		return "check_violation"
	}
	return "other"
}

func (c Code) sentinel() error {
	switch c {
	case UniqueViolation:
		return ErrUniqueViolation
	case ForeignKeyViolation:
		return ErrForeignKeyViolation
	case NotNullViolation:
		return ErrNotNullViolation
	case CheckViolation:
		return ErrCheckViolation
	}
	return nil
}

// Error is a failed repository statement.
type Error struct {
	Code  Code
	Table string
	Op    string
	Err   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Table, e.Op, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches the constraint sentinel of e's Code.
func (e *Error) Is(target error) bool {
	s := e.Code.sentinel()
	return s != nil && target == s
}

// ErrCode returns the Code of the first *Error in err's chain, or Other.
func ErrCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return Other
}

// mapCode inspects the sqlite3 extended result code.
func mapCode(err error) Code {
	var se sqlite3.Error
	if !errors.As(err, &se) {
		return Other
	}
	switch se.ExtendedCode {
	case sqlite3.ErrConstraintUnique, sqlite3.ErrConstraintPrimaryKey:
		return UniqueViolation
	case sqlite3.ErrConstraintForeignKey:
		return ForeignKeyViolation
	case sqlite3.ErrConstraintTrigger:
		// ON DELETE RESTRICT reports through the trigger code; the schema
		// defines no triggers of its own.
		return ForeignKeyViolation
	case sqlite3.ErrConstraintNotNull:
		return NotNullViolation
	case sqlite3.ErrConstraintCheck:
		return CheckViolation
	}
	return Other
}

func newError(table, op string, err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s: %s: %w", table, op, ErrNotFound)
	}
	return &Error{Code: mapCode(err), Table: table, Op: op, Err: err}
}
