// Package resolver implements the operation handlers behind the GraphQL
// surface. Every operation returns the uniform Envelope {success, msg, data};
// expected business conditions soft-fail with a specific message, while
// unexpected storage faults are logged and collapsed to a generic failure so
// internals never leak to the transport boundary.
package resolver

import "log/slog"

// Envelope is the uniform response shape shared by every operation.
type Envelope struct {
	Success bool   `json:"success"`
	Msg     string `json:"msg"`
	Data    any    `json:"data,omitempty"`
}

// ok builds a success envelope. Each call returns a fresh value; envelopes
// are never shared between call sites.
func ok(msg string, data any) Envelope {
	return Envelope{Success: true, Msg: msg, Data: data}
}

// fail builds a soft-failure envelope carrying a caller-facing message.
func fail(msg string) Envelope {
	return Envelope{Success: false, Msg: msg}
}

// catchErr logs an unexpected fault with its operation name and collapses it
// to the generic failure envelope. The real cause stays in the logs only.
func catchErr(op string, err error) Envelope {
	slog.Error("resolver fault", "op", op, "error", err)
	return Envelope{Success: false, Msg: "error"}
}
