// Package repository implements the durable message store behind the relay.
package repository

import (
	"errors"
	"fmt"
)

// ErrStorage marks backing-medium I/O failures. Callers match it with
// errors.Is; the ingress path logs it and still acknowledges the webhook.
var ErrStorage = errors.New("storage failure")

// StorageError wraps a backend failure with the operation that hit it.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage failure in %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

func (e *StorageError) Is(target error) bool { return target == ErrStorage }

func storageErr(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StorageError{Op: op, Err: err}
}
