package config

import (
	"errors"
	"fmt"
	"strings"
)

// ValidationError represents a configuration validation error with helpful suggestions
type ValidationError struct {
	Field        string      `json:"field"`
	Message      string      `json:"message"`
	Suggestion   string      `json:"suggestion"`
	Warning      bool        `json:"warning,omitempty"`
	CurrentValue interface{} `json:"current_value,omitempty"`
	ValidValues  []string    `json:"valid_values,omitempty"`
}

func (e ValidationError) Error() string {
	msg := fmt.Sprintf("config validation error in field '%s': %s", e.Field, e.Message)
	if e.CurrentValue != nil {
		msg += fmt.Sprintf(" (got %v)", e.CurrentValue)
	}
	if len(e.ValidValues) > 0 {
		msg += fmt.Sprintf(" (valid: %s)", strings.Join(e.ValidValues, ", "))
	}
	return msg
}

// NewValidationError creates a new validation error with suggestion
func NewValidationError(field, message, suggestion string) ValidationError {
	return ValidationError{
		Field:      field,
		Message:    message,
		Suggestion: suggestion,
	}
}

// NewValidationWarning creates a validation warning (non-blocking)
func NewValidationWarning(field, message, suggestion string) ValidationError {
	return ValidationError{
		Field:      field,
		Message:    message,
		Suggestion: suggestion,
		Warning:    true,
	}
}

// ValidationErrors represents multiple validation errors
type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func (e ValidationErrors) Error() string {
	if len(e.Errors) == 0 {
		return "no validation errors"
	}

	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}

	var messages []string
	for _, err := range e.Errors {
		messages = append(messages, err.Error())
	}

	return fmt.Sprintf("multiple validation errors:\n  - %s", strings.Join(messages, "\n  - "))
}

// NewValidationErrors creates a ValidationErrors from a slice of ValidationError
func NewValidationErrors(errors []ValidationError) ValidationErrors {
	return ValidationErrors{Errors: errors}
}

// HasBlocking reports whether any entry is an error rather than a warning
func (e ValidationErrors) HasBlocking() bool {
	for _, err := range e.Errors {
		if !err.Warning {
			return true
		}
	}
	return false
}

// GetFixSuggestions returns a formatted list of fix suggestions
func (e ValidationErrors) GetFixSuggestions() []string {
	var suggestions []string
	for _, err := range e.Errors {
		if err.Suggestion != "" {
			suggestions = append(suggestions, fmt.Sprintf("%s: %s", err.Field, err.Suggestion))
		}
	}
	return suggestions
}

// ConfigError represents configuration loading/processing errors
type ConfigError struct {
	Type       string `json:"type"`
	File       string `json:"file,omitempty"`
	Message    string `json:"message"`
	Suggestion string `json:"suggestion"`
	Cause      error  `json:"-"`
}

func (e ConfigError) Error() string {
	if e.File != "" {
		return fmt.Sprintf("config %s error in '%s': %s", e.Type, e.File, e.Message)
	}
	return fmt.Sprintf("config %s error: %s", e.Type, e.Message)
}

func (e ConfigError) Unwrap() error {
	return e.Cause
}

// NewConfigError creates a new configuration error
func NewConfigError(errorType, message, suggestion string) ConfigError {
	return ConfigError{
		Type:       errorType,
		Message:    message,
		Suggestion: suggestion,
	}
}

// WithCause adds a cause to the error
func (e ConfigError) WithCause(cause error) ConfigError {
	e.Cause = cause
	return e
}

// FixSuggestions returns the suggestions carried by a Load error
func FixSuggestions(err error) []string {
	var verrs ValidationErrors
	if errors.As(err, &verrs) {
		return verrs.GetFixSuggestions()
	}
	var cerr ConfigError
	if errors.As(err, &cerr) && cerr.Suggestion != "" {
		return []string{cerr.Suggestion}
	}
	return nil
}
