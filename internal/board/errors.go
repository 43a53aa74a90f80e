package board

import (
	"errors"
	"fmt"
)

var (
	ErrContainerIDsExhausted = errors.New("container ids exhausted (A-Z)")
	ErrIDCollision           = errors.New("generated id already in use")
)

type NotFoundError struct {
	Kind string
	ID   string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Kind, e.ID)
}

// ProtocolViolation means the presentation side broke the one-gesture-at-a-time contract.
type ProtocolViolation struct {
	Op     string
	Reason string
}

func (e ProtocolViolation) Error() string {
	return fmt.Sprintf("gesture protocol violation in %s: %s", e.Op, e.Reason)
}

func IsProtocolViolation(err error) bool {
	var pv ProtocolViolation
	return errors.As(err, &pv)
}

func IsNotFound(err error) bool {
	var nf NotFoundError
	return errors.As(err, &nf)
}
