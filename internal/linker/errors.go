package linker

import (
	"fmt"
	"strings"

	"github.com/jgyselov/dynamic-cim/api/v1beta1"
	"github.com/jgyselov/dynamic-cim/internal/reservation"
)

// ErrorKind classifies a failed linker operation.
type ErrorKind string

const (
	// CreationFailure means a create call was rejected.
	CreationFailure ErrorKind = "CreationFailure"
	// PatchFailure means a patch call was rejected.
	PatchFailure ErrorKind = "PatchFailure"
	// PartialReservationFailure means some agent patches failed while
	// others succeeded.
	PartialReservationFailure ErrorKind = "PartialReservationFailure"
)

// Operations reported in errors.
const (
	OpCreate  = "create"
	OpPatch   = "patch"
	OpReserve = "reserve hosts for"
)

// Error carries the failing record and operation of a linker call.
type Error struct {
	Kind   ErrorKind
	Record v1beta1.Kind
	Name   string
	Op     string
	Err    error
	// Hosts lists the failed agent patches of a PartialReservationFailure.
	Hosts []reservation.Outcome
}

func (e *Error) Error() string {
	if e.Kind == PartialReservationFailure {
		parts := make([]string, 0, len(e.Hosts))
		for _, h := range e.Hosts {
			parts = append(parts, fmt.Sprintf("%s (%s): %v", h.Agent, h.Action, h.Err))
		}
		return fmt.Sprintf("failed to %s %s %s: %d agent(s) failed: %s",
			e.Op, e.Record, e.Name, len(e.Hosts), strings.Join(parts, "; "))
	}
	return fmt.Sprintf("failed to %s %s %s: %v", e.Op, e.Record, e.Name, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func creationError(kind v1beta1.Kind, name string, err error) *Error {
	return &Error{Kind: CreationFailure, Record: kind, Name: name, Op: OpCreate, Err: err}
}

func patchError(kind v1beta1.Kind, name string, err error) *Error {
	return &Error{Kind: PatchFailure, Record: kind, Name: name, Op: OpPatch, Err: err}
}
