package warns

import (
	"errors"
	"fmt"
)

var (
	// ErrUnauthorized is returned when the actor lacks the moderation capability
	ErrUnauthorized = errors.New("actor is not allowed to moderate")
	// ErrInvalidAmount is returned when a removal amount is not positive
	ErrInvalidAmount = errors.New("amount must be greater than zero")
	// ErrInsufficientRecords is returned when a removal asks for more warns than are live
	ErrInsufficientRecords = errors.New("amount exceeds live warn count")

	// ErrStorage matches every *StorageError
	ErrStorage = errors.New("warn storage failure")
	// ErrExecutor matches every *ExecutorError
	ErrExecutor = errors.New("moderation action failed")
)

// StorageError wraps a backend failure. The operation may be retried by the caller.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("warn storage %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrStorage) true for any StorageError
func (e *StorageError) Is(target error) bool { return target == ErrStorage }

// ExecutorError wraps a failed timeout or ban. The warn that triggered it stays recorded.
type ExecutorError struct {
	Action Action
	Err    error
}

func (e *ExecutorError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Action, e.Err)
}

func (e *ExecutorError) Unwrap() error { return e.Err }

func (e *ExecutorError) Is(target error) bool { return target == ErrExecutor }

func storageErr(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StorageError{Op: op, Err: err}
}
