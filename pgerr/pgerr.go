// Package pgerr defines pagoda's exception hierarchy (spec §7).
//
// Every error kind wraps a github.com/pkg/errors-produced cause so stack
// traces survive, while still exposing Unwrap so the standard errors
// package's Is/As keep working against the chain.
package pgerr

//go:generate go run github.com/dmarkham/enumer -type=Kind -trimprefix=Kind

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind is one tag of pagoda's closed exception taxonomy.
type Kind int

const (
	// KindPagoda is the supertype: anything internal that doesn't fit a
	// more specific kind below.
	KindPagoda Kind = iota
	KindCommand
	KindRange
	KindShapeMismatch
	KindDataType
	KindDimensionMismatch
	KindNotImplemented
	KindIO
)

// Error is the concrete type for every error pagoda raises. Op names the
// collective or command that failed, matching the original's convention of
// prefixing thrown messages with the failing call's name.
type Error struct {
	Kind Kind
	Op   string
	err  error
}

func (e *Error) Error() string {
	if e.Op == "" {
		return fmt.Sprintf("%s: %s", e.Kind, e.err)
	}
	return fmt.Sprintf("%s: %s: %s", e.Kind, e.Op, e.err)
}

func (e *Error) Unwrap() error { return e.err }

// New creates a Kind-tagged error with a message, stack trace attached via
// pkg/errors.
func New(kind Kind, op, msg string) error {
	return &Error{Kind: kind, Op: op, err: errors.New(msg)}
}

// Errorf is New with fmt.Sprintf-style formatting.
func Errorf(kind Kind, op, format string, args ...any) error {
	return &Error{Kind: kind, Op: op, err: errors.Errorf(format, args...)}
}

// Wrap attaches kind/op context to an existing error without losing it.
func Wrap(kind Kind, op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Op: op, err: errors.WithStack(err)}
}

// Wrapf is Wrap with a formatted message prefixed to the cause.
func Wrapf(kind Kind, op string, err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Op: op, err: errors.Wrapf(err, format, args...)}
}

// Is reports whether err (or any error in its chain) carries the given Kind.
func Is(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}

func Command(op, format string, args ...any) error {
	return Errorf(KindCommand, op, format, args...)
}

func Range(op, format string, args ...any) error {
	return Errorf(KindRange, op, format, args...)
}

func ShapeMismatch(op, format string, args ...any) error {
	return Errorf(KindShapeMismatch, op, format, args...)
}

func DataTypeErr(op, format string, args ...any) error {
	return Errorf(KindDataType, op, format, args...)
}

func DimensionMismatch(op, format string, args ...any) error {
	return Errorf(KindDimensionMismatch, op, format, args...)
}

func NotImplemented(op, format string, args ...any) error {
	return Errorf(KindNotImplemented, op, format, args...)
}

func IO(op string, cause error) error {
	return Wrap(KindIO, op, cause)
}
