// Package events declares the payloads published on the process event bus
// while queries execute. Subscribers correlate Start/Finish pairs through the
// execution ID carried in the context.
package events

import "time"

// ExecutionStart is emitted before an operation begins resolving.
type ExecutionStart struct {
	OperationName string
	OperationType string
}

// ExecutionFinish is emitted after an operation's result tree is assembled.
type ExecutionFinish struct {
	OperationName string
	OperationType string
	ErrorCount    int
	Duration      time.Duration
}

// FieldResolveStart is emitted before one field resolver is invoked.
type FieldResolveStart struct {
	TypeName string
	Field    string
	Path     string
	Async    bool
}

// FieldResolveFinish is emitted after one field resolver returns.
type FieldResolveFinish struct {
	TypeName string
	Field    string
	Path     string
	Failed   bool
	Duration time.Duration
}
