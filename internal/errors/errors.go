package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Error types for common failure scenarios.
var (
	ErrPlaylistNotFound  = errors.New("playlist not found")
	ErrEmptyPlaylist     = errors.New("playlist has no tracks")
	ErrInvalidPlaylist   = errors.New("invalid playlist")
	ErrIndexOutOfRange   = errors.New("track index out of range")
	ErrNoSource          = errors.New("no audio source loaded")
	ErrUnsupportedFormat = errors.New("unsupported audio format")
	ErrNoOutput          = errors.New("audio output unavailable")
	ErrNotRunning        = errors.New("no running player")
	ErrConfigNotFound    = errors.New("config file not found")
	ErrInvalidConfig     = errors.New("invalid configuration")
)

// TapedeckError wraps an error with a user-friendly suggestion.
type TapedeckError struct {
	Err        error
	Suggestion string
}

func (e *TapedeckError) Error() string {
	return e.Err.Error()
}

func (e *TapedeckError) Unwrap() error {
	return e.Err
}

// WithSuggestion wraps an error with a helpful suggestion.
func WithSuggestion(err error, suggestion string) error {
	return &TapedeckError{
		Err:        err,
		Suggestion: suggestion,
	}
}

// GetSuggestion returns a suggestion for the given error.
func GetSuggestion(err error) string {
	if err == nil {
		return ""
	}

	var tdErr *TapedeckError
	if errors.As(err, &tdErr) && tdErr.Suggestion != "" {
		return tdErr.Suggestion
	}

	errStr := strings.ToLower(err.Error())

	if errors.Is(err, ErrPlaylistNotFound) || strings.Contains(errStr, "no such file") {
		return "Pass a playlist file, or set playlist.path in your config"
	}

	if errors.Is(err, ErrEmptyPlaylist) || errors.Is(err, ErrInvalidPlaylist) {
		return "Each [[track]] entry needs an audio path"
	}

	if errors.Is(err, ErrUnsupportedFormat) {
		return "Supported formats are mp3, wav, flac and ogg"
	}

	if errors.Is(err, ErrNoOutput) {
		return "Check that an audio output device is available"
	}

	if errors.Is(err, ErrNotRunning) || strings.Contains(errStr, "connection refused") {
		return "Start a player with 'tapedeck play --remote' first"
	}

	if errors.Is(err, ErrIndexOutOfRange) {
		return "Run 'tapedeck list' to see valid track numbers"
	}

	if errors.Is(err, ErrConfigNotFound) || errors.Is(err, ErrInvalidConfig) {
		return "Run 'tapedeck config init' to create a configuration file"
	}

	return ""
}

// Format returns a formatted error message with suggestion if available.
func Format(err error) string {
	if err == nil {
		return ""
	}

	suggestion := GetSuggestion(err)
	if suggestion != "" {
		return fmt.Sprintf("Error: %s\n\nSuggestion: %s", err.Error(), suggestion)
	}

	return fmt.Sprintf("Error: %s", err.Error())
}

// PartialResult represents a result that may have partial failures.
type PartialResult[T any] struct {
	Data   T
	Errors []error
}

// HasErrors returns true if there were any errors.
func (p *PartialResult[T]) HasErrors() bool {
	return len(p.Errors) > 0
}

// AddError adds an error to the partial result.
func (p *PartialResult[T]) AddError(err error) {
	if err != nil {
		p.Errors = append(p.Errors, err)
	}
}

// ErrorSummary returns a summary of all errors.
func (p *PartialResult[T]) ErrorSummary() string {
	if len(p.Errors) == 0 {
		return ""
	}
	if len(p.Errors) == 1 {
		return p.Errors[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d errors occurred:\n", len(p.Errors)))
	for i, err := range p.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}
