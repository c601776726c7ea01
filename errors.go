package complaints

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for common error conditions
var (
	// ErrEmptyCorpus is returned when no usable rows remain after loading
	ErrEmptyCorpus = errors.New("corpus is empty")

	// ErrEmptyVocabulary is returned when fitting produces no terms
	ErrEmptyVocabulary = errors.New("empty vocabulary; the documents may contain only stop words")

	// ErrNotFitted is returned when a vectorizer or model is used before Fit
	ErrNotFitted = errors.New("not fitted")

	// ErrMissingColumn is returned when a required input column is absent
	ErrMissingColumn = errors.New("missing column")

	// ErrDimensionMismatch is returned when a feature width differs from the fitted width
	ErrDimensionMismatch = errors.New("feature dimension mismatch")

	// ErrResourceUnavailable is returned when a language resource cannot be loaded
	ErrResourceUnavailable = errors.New("language resource unavailable")

	// ErrInvalidConfig is returned when configuration validation fails
	ErrInvalidConfig = errors.New("invalid configuration")
)

// MissingColumnError names the column that could not be found in the input header.
type MissingColumnError struct {
	Column    string
	Available []string
}

func (e *MissingColumnError) Error() string {
	if len(e.Available) == 0 {
		return fmt.Sprintf("column '%s' not found", e.Column)
	}
	return fmt.Sprintf("column '%s' not found (available: %s)", e.Column, strings.Join(e.Available, ", "))
}

func (e *MissingColumnError) Is(target error) bool {
	return target == ErrMissingColumn
}

// NewMissingColumnError creates a new MissingColumnError
func NewMissingColumnError(column string, available []string) *MissingColumnError {
	return &MissingColumnError{Column: column, Available: available}
}

// DimensionMismatchError reports a feature vector whose width does not match
// the vocabulary the model was fitted with.
type DimensionMismatchError struct {
	Got            int
	VocabularySize int
}

func (e *DimensionMismatchError) Error() string {
	return fmt.Sprintf("feature vector has %d columns but the model was fitted on a vocabulary of size %d",
		e.Got, e.VocabularySize)
}

func (e *DimensionMismatchError) Is(target error) bool {
	return target == ErrDimensionMismatch
}

// NewDimensionMismatchError creates a new DimensionMismatchError
func NewDimensionMismatchError(got, vocabularySize int) *DimensionMismatchError {
	return &DimensionMismatchError{Got: got, VocabularySize: vocabularySize}
}

// ResourceError represents a language resource that failed to load
type ResourceError struct {
	Resource string
	Language Language
	Err      error
}

func (e *ResourceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s resource for language '%s' unavailable: %v", e.Resource, e.Language, e.Err)
	}
	return fmt.Sprintf("%s resource for language '%s' unavailable", e.Resource, e.Language)
}

func (e *ResourceError) Is(target error) bool {
	return target == ErrResourceUnavailable
}

func (e *ResourceError) Unwrap() error {
	return e.Err
}

// NewResourceError creates a new ResourceError
func NewResourceError(resource string, lang Language, err error) *ResourceError {
	return &ResourceError{Resource: resource, Language: lang, Err: err}
}

// ConfigError represents a configuration field with an unusable value
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config field '%s': %s", e.Field, e.Reason)
}

func (e *ConfigError) Is(target error) bool {
	return target == ErrInvalidConfig
}

// NewConfigError creates a new ConfigError
func NewConfigError(field, reason string) *ConfigError {
	return &ConfigError{Field: field, Reason: reason}
}
