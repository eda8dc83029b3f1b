// internal/database/errors.go
//
// Typed failures surfaced by the pool bootstrap.
//
// Both error types carry the derived endpoint string ("host:port" or
// "host"), never credentials.  Callers unwrap with errors.As; every
// failure is also logged at the point of detection.

package database

import "fmt"

// InvalidEndpointError reports that a connection descriptor could not
// be built from the configuration: the address, username, password, or
// TLS material cannot be encoded into a valid DSN.  Raised before any
// network attempt.
type InvalidEndpointError struct {
	Endpoint string
	Reason   string
}

func (e *InvalidEndpointError) Error() string {
	return fmt.Sprintf("invalid endpoint %q: %s", e.Endpoint, e.Reason)
}

// EstablishmentError reports that the network or authentication
// handshake with the database failed.  No retries are performed here;
// retry and backoff policy belongs to the caller.
type EstablishmentError struct {
	Endpoint string
	Err      error
}

func (e *EstablishmentError) Error() string {
	return fmt.Sprintf("connect to %q failed: %v", e.Endpoint, e.Err)
}

func (e *EstablishmentError) Unwrap() error { return e.Err }
