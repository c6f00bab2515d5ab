// Package bridgeerr defines the error taxonomy shared by every layer of
// the bridge SDK: chain adapters, engines, route adapters, the monitor,
// and the client. Callers inspect Code/Outcome to decide whether to
// retry, fix their request, or give up.
package bridgeerr

import (
	"errors"
	"fmt"
)

// Code identifies the category of failure.
type Code string

const (
	UnsupportedRoute   Code = "unsupported_route"
	UnsupportedAction  Code = "unsupported_action"
	UnsupportedStep    Code = "unsupported_step"
	ConfigError        Code = "config_error"
	RpcError           Code = "rpc_error"
	Timeout            Code = "timeout"
	NotFinal           Code = "not_final"
	ProofNotAvailable  Code = "proof_not_available"
	AlreadyProven      Code = "already_proven"
	NotProven          Code = "not_proven"
	AlreadyExecuted    Code = "already_executed"
	ExecutionReverted  Code = "execution_reverted"
	MessageFailed      Code = "message_failed"
	InvariantViolation Code = "invariant_violation"
)

// Outcome tells the caller what to do about an error.
type Outcome string

const (
	Retry   Outcome = "retry"
	UserFix Outcome = "user_fix"
	Fatal   Outcome = "fatal"
)

// Stage identifies which phase of the message lifecycle raised the error.
type Stage string

const (
	StageInitiate Stage = "initiate"
	StageProve    Stage = "prove"
	StageExecute  Stage = "execute"
	StageMonitor  Stage = "monitor"
)

var defaultOutcomes = map[Code]Outcome{
	UnsupportedRoute:   UserFix,
	UnsupportedAction:  UserFix,
	UnsupportedStep:    UserFix,
	ConfigError:        UserFix,
	RpcError:           Retry,
	Timeout:            Retry,
	NotFinal:           Retry,
	ProofNotAvailable:  UserFix,
	AlreadyProven:      Retry,
	NotProven:          UserFix,
	AlreadyExecuted:    Retry,
	ExecutionReverted:  Fatal,
	MessageFailed:      Fatal,
	InvariantViolation: Fatal,
}

// Error is the single error type surfaced by the bridge SDK.
type Error struct {
	Code    Code
	Outcome Outcome
	Stage   Stage
	Route   string // optional "src->dst" context
	Chain   string // optional chain id context
	Message string
	cause   error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Code, e.Message)
	if e.Route != "" {
		msg = fmt.Sprintf("%s (route=%s)", msg, e.Route)
	}
	if e.Chain != "" {
		msg = fmt.Sprintf("%s (chain=%s)", msg, e.Chain)
	}
	if e.cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.cause)
	}
	return msg
}

func (e *Error) Unwrap() error { return e.cause }

// Is lets errors.Is(err, bridgeerr.New(code, "", "")) match purely on Code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// New constructs a taxonomy error with the code's default outcome.
func New(code Code, stage Stage, message string) *Error {
	return &Error{Code: code, Outcome: defaultOutcomes[code], Stage: stage, Message: message}
}

// Newf is New with fmt.Sprintf-style formatting.
func Newf(code Code, stage Stage, format string, args ...interface{}) *Error {
	return New(code, stage, fmt.Sprintf(format, args...))
}

// Wrap attaches taxonomy to an underlying cause, matching the teacher's
// fmt.Errorf("...: %w", err) idiom but keeping Code/Outcome queryable.
func Wrap(code Code, stage Stage, message string, cause error) *Error {
	e := New(code, stage, message)
	e.cause = cause
	return e
}

// WithRoute returns a copy of e annotated with route context.
func (e *Error) WithRoute(route string) *Error {
	c := *e
	c.Route = route
	return &c
}

// WithChain returns a copy of e annotated with chain context.
func (e *Error) WithChain(chain string) *Error {
	c := *e
	c.Chain = chain
	return &c
}

// CodeOf extracts the Code from err if it is (or wraps) a *Error.
func CodeOf(err error) (Code, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Code, true
	}
	return "", false
}

// Has reports whether err is (or wraps) a *Error with the given code.
func Has(err error, code Code) bool {
	c, ok := CodeOf(err)
	return ok && c == code
}
