package store

import (
	"errors"
	"fmt"
)

// ErrNetwork is the single failure kind reported by the store: the request
// was rejected, timed out, returned an error status or could not be decoded.
var ErrNetwork = errors.New("network failure")

// NetworkError describes a failed store request.
type NetworkError struct {
	Op     string // list, update, delete, create
	Status int    // HTTP status, 0 when no response was received
	Err    error
}

func (e *NetworkError) Error() string {
	if e.Status != 0 {
		if e.Err != nil {
			return fmt.Sprintf("store %s: status %d: %v", e.Op, e.Status, e.Err)
		}
		return fmt.Sprintf("store %s: status %d", e.Op, e.Status)
	}
	return fmt.Sprintf("store %s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// Is makes every NetworkError match ErrNetwork.
func (e *NetworkError) Is(target error) bool { return target == ErrNetwork }
