// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package logging is the reshaping pass's structured-logging facade:
// a NoOp-by-default, zap-backed-for-real shape, against a small
// self-contained Logger interface rather than the external
// github.com/luxfi/log.Logger contract, whose exact method set is not
// available to implement against here (see DESIGN.md).
package logging

// Logger is the structured logger the pass writes to: one line when an
// Apply invocation starts and one when it finishes or fails, each
// tagged with the invocation id. No line is written per candidate
// rewrite. kv pairs are
// alternating key/value fields, in a Geth-style variadic field
// convention.
type Logger interface {
	Debug(msg string, kv ...any)
	Info(msg string, kv ...any)
	Warn(msg string, kv ...any)
	Error(msg string, kv ...any)
}

// noop discards everything; it is the default Logger when none is
// configured via reshape.WithLogger.
type noop struct{}

// NewNoOp returns a Logger that does nothing.
func NewNoOp() Logger { return noop{} }

func (noop) Debug(string, ...any) {}
func (noop) Info(string, ...any)  {}
func (noop) Warn(string, ...any)  {}
func (noop) Error(string, ...any) {}
