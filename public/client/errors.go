package client

import "github.com/tenzoki/gowire/internal/connection"

// These aliases re-export spec.md §7's error taxonomy at the public
// facade boundary, so callers of this package never need to import
// internal/connection themselves to type-switch or errors.As on them.
type (
	TransportBrokenError  = connection.TransportBrokenError
	BrokerError           = connection.BrokerError
	TimeoutError          = connection.TimeoutError
	DestinationInUseError = connection.DestinationInUseError
	AlreadyClosedError    = connection.AlreadyClosedError
)
