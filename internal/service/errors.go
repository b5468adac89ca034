package service

import "errors"

// Error classes returned by RelayService.Handle. A single call may return
// several of them joined.
var (
	// ErrMalformedPayload: the message was dropped, nothing stored or sent.
	ErrMalformedPayload = errors.New("malformed telemetry payload")
	// ErrStorage: the store failed; an insert failure means the reading is lost.
	ErrStorage = errors.New("measurement store failure")
	// ErrRelay: the single attempt to publish to the cloud failed.
	ErrRelay = errors.New("cloud relay failure")
)

// ErrInvalidTimeRange is returned by Monitoring.List for from > to.
var ErrInvalidTimeRange = errors.New("invalid time range: from must be <= to")
