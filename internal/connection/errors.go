package connection

import "fmt"

// The types below realize spec.md §7's error taxonomy as typed errors,
// checkable with errors.As. Kinds 2/3 (wire-format violation, protocol
// state violation) and kind 7 (invalid argument) are raised directly by
// internal/wireformat and internal/consumer respectively; this package
// covers the remaining connection-level kinds.

// TransportBrokenError is spec.md §7 kind 1: the connection is unusable
// until reconnect.
type TransportBrokenError struct {
	Cause error
}

func (e *TransportBrokenError) Error() string {
	return fmt.Sprintf("connection: transport broken: %v", e.Cause)
}

func (e *TransportBrokenError) Unwrap() error { return e.Cause }

// BrokerError wraps an ExceptionResponse surfaced to the caller of the
// matching syncRequest (spec.md §7 kind 4).
type BrokerError struct {
	Message    string
	StackTrace string
}

func (e *BrokerError) Error() string {
	return fmt.Sprintf("connection: broker error: %s", e.Message)
}

// TimeoutError is spec.md §7 kind 5: receive, sync request, or close
// exceeded its deadline.
type TimeoutError struct {
	Operation string
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("connection: %s timed out", e.Operation)
}

// DestinationInUseError is spec.md §7 kind 6: destroyDestination failed
// because consumers are still attached.
type DestinationInUseError struct {
	Name string
}

func (e *DestinationInUseError) Error() string {
	return fmt.Sprintf("connection: destination %q is in use", e.Name)
}

// AlreadyClosedError is spec.md §7 kind 8: a double-close or a
// post-close operation.
type AlreadyClosedError struct {
	What string
}

func (e *AlreadyClosedError) Error() string {
	return fmt.Sprintf("connection: %s is already closed", e.What)
}
