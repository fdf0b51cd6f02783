// Package api contains the HTTP handlers: request decoding and validation,
// calls into the service layer, and translation of service errors into
// status codes with sanitized messages.
package api
