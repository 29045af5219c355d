package diagnostic

import (
	"errors"
	"fmt"
	"strings"

	"transmuter/internal/common"
)

// Diagnostics holds every diagnostic produced by one compilation.
type Diagnostics struct {
	Errors   []Diagnostic
	Warnings []Diagnostic
}

// Diagnostic represents a single diagnostic message.
type Diagnostic struct {
	// Severity of the diagnostic.
	Severity Severity
	// Code is a stable identifier for this kind of problem.
	Code string
	// Message is the human-readable description.
	Message string
	// Section names the specification table the problem was found in
	// (e.g. "mapping", "group_by", "aggregations").
	Section string
	// Target identifies the target field (or position) involved, if any.
	Target string
}

// Severity represents the severity level of a diagnostic.
type Severity int

const (
	SeverityWarning Severity = iota
	SeverityError
)

// String returns a human-readable severity name.
func (s Severity) String() string {
	switch s {
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return common.UnknownStr
	}
}

// AddError adds an error diagnostic.
func (d *Diagnostics) AddError(code, message, section, target string) {
	d.Errors = append(d.Errors, Diagnostic{
		Severity: SeverityError,
		Code:     code,
		Message:  message,
		Section:  section,
		Target:   target,
	})
}

// AddErrorf adds an error diagnostic with a formatted message.
func (d *Diagnostics) AddErrorf(code, section, target, format string, args ...any) {
	d.AddError(code, fmt.Sprintf(format, args...), section, target)
}

// AddWarning adds a warning diagnostic.
func (d *Diagnostics) AddWarning(code, message, section, target string) {
	d.Warnings = append(d.Warnings, Diagnostic{
		Severity: SeverityWarning,
		Code:     code,
		Message:  message,
		Section:  section,
		Target:   target,
	})
}

// HasErrors returns true if there are any error diagnostics.
func (d *Diagnostics) HasErrors() bool {
	return len(d.Errors) > 0
}

// Messages returns the formatted error diagnostics.
func (d *Diagnostics) Messages() []string {
	out := make([]string, 0, len(d.Errors))
	for _, e := range d.Errors {
		out = append(out, e.String())
	}

	return out
}

// WarningMessages returns the formatted warning diagnostics.
func (d *Diagnostics) WarningMessages() []string {
	out := make([]string, 0, len(d.Warnings))
	for _, w := range d.Warnings {
		out = append(out, w.String())
	}

	return out
}

// Err returns a combined error from all error diagnostics, or nil if there are none.
func (d *Diagnostics) Err() error {
	if !d.HasErrors() {
		return nil
	}

	return errors.New(strings.Join(d.Messages(), "; "))
}

// String returns a formatted diagnostic string.
func (d Diagnostic) String() string {
	var prefix []string
	if d.Section != "" {
		prefix = append(prefix, "["+d.Section+"]")
	}

	if d.Target != "" {
		prefix = append(prefix, d.Target)
	}

	msg := d.Message
	if d.Code != "" {
		msg = fmt.Sprintf("[%s] %s", d.Code, msg)
	}

	if len(prefix) > 0 {
		return strings.Join(prefix, " ") + ": " + msg
	}

	return msg
}
