// Package middleware provides the HTTP middleware wrapped around the relay
// function: request IDs, access logging and panic recovery.
//
// The server applies them outermost first:
//
//	handler = RecoveryMiddleware(LoggingMiddleware(RequestIDMiddleware(handler)))
package middleware
