// Package notifications publishes run notices to ntfy.
//
// NewService returns a no-op implementation when no topic is configured, so
// callers can notify unconditionally. Delivery failures are returned to the
// caller, which logs them; a failed notice never fails a run.
package notifications
