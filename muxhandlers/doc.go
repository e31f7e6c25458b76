// Package muxhandlers provides HTTP middleware for mux routers and
// handlers.
//
// # Request ID Middleware
//
// RequestIDMiddleware assigns every request an ID, stores it in the request
// context and echoes it in the response header. With TrustIncoming set, an
// ID sent by the client is reused: the query parameters named by
// QueryNames are searched first, then the configured headers.
//
//	router.Use(muxhandlers.RequestIDMiddleware(muxhandlers.RequestIDConfig{
//	    TrustIncoming:  true,
//	    AltHeaderNames: []string{"RequestId"},
//	}))
//
// LoggerFromContext tags a logrus logger with the ID.
//
// # Recovery Middleware
//
// RecoveryMiddleware turns a panic in a downstream handler or action into
// a JSON 500 response and an error log entry.
//
// # Access Log Middleware
//
// AccessLogMiddleware writes one logrus entry per request with the method,
// URI, status, response size and duration in milliseconds.
package muxhandlers
