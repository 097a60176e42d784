package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrDecode matches every DecodeError via errors.Is
	ErrDecode = errors.New("log record could not be decoded")

	// ErrInferenceFailed reports that no topology could be recognized.
	// It is distinct from a successful inference of an empty topology.
	ErrInferenceFailed = errors.New("topology inference failed")

	// ErrNoInferrer is returned when topology is requested from a group
	// that was built without an inferrer
	ErrNoInferrer = errors.New("no topology inferrer configured")
)

// DecodeError describes a non-framing log line that is not a valid record
type DecodeError struct {
	Path string `json:"path,omitempty"`
	Line int    `json:"line"`
	Raw  string `json:"raw"`
	Err  error  `json:"-"`
}

func (e *DecodeError) Error() string {
	raw := e.Raw
	if len(raw) > 120 {
		raw = raw[:120] + "..."
	}
	if e.Path != "" {
		return fmt.Sprintf("%s:%d: cannot decode record %q: %v", e.Path, e.Line, raw, e.Err)
	}
	return fmt.Sprintf("line %d: cannot decode record %q: %v", e.Line, raw, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrDecode) hold for any DecodeError
func (e *DecodeError) Is(target error) bool {
	return target == ErrDecode
}
