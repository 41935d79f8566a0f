package tools

import (
	"fmt"

	"wms-ops-agent/pkg/agent/state"
)

// Result is what every tool hands back to the reasoning engine. Failures are
// data: a handler never returns a Go error to the loop.
type Result struct {
	OK                   bool        `json:"ok"`
	Error                string      `json:"error,omitempty"`
	Warning              string      `json:"warning,omitempty"`
	Blocked              bool        `json:"blocked,omitempty"`
	RequiresConfirmation bool        `json:"requires_confirmation,omitempty"`
	MultipleMatches      bool        `json:"multiple_matches,omitempty"`
	Message              string      `json:"message,omitempty"`
	Data                 interface{} `json:"data,omitempty"`

	patch state.Patch
}

// Outcome is a short label for logs, metrics and the audit trail.
func (r Result) Outcome() string {
	switch {
	case r.Blocked:
		return "blocked"
	case r.Error != "":
		return "error"
	case r.Warning != "" && !r.OK:
		return "warning"
	case r.MultipleMatches:
		return "multiple_matches"
	case r.RequiresConfirmation:
		return "requires_confirmation"
	}
	return "ok"
}

// Patch is the session state change the call wants recorded.
func (r Result) Patch() state.Patch {
	return r.patch
}

func (r Result) withPatch(p state.Patch) Result {
	r.patch = r.patch.Merge(p)
	return r
}

func ok(message string, data interface{}) Result {
	return Result{OK: true, Message: message, Data: data}
}

func fail(format string, args ...interface{}) Result {
	return Result{OK: false, Error: fmt.Sprintf(format, args...)}
}

func blocked(reason string, data interface{}) Result {
	return Result{OK: false, Blocked: true, Error: reason, Data: data}
}

func warn(warning, message string, data interface{}) Result {
	return Result{OK: false, Warning: warning, Message: message, Data: data}
}

// internalError hides repository details from the model but keeps the call
// recoverable.
func internalError(action string, err error) Result {
	return Result{OK: false, Error: fmt.Sprintf("could not %s: %v", action, err)}
}
