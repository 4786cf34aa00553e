// Package services holds the business logic of the development server.
package services

import (
	"sort"
	"strings"

	"github.com/dmitrijs2005/physiokeeper/internal/common"
)

// ValidationError reports rejected input. Fields maps request fields to
// their problems; Message describes a problem with the request as a whole.
type ValidationError struct {
	Fields  map[string][]string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+strings.Join(e.Fields[k], " "))
	}
	return strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error { return common.ErrValidation }

func (e *ValidationError) add(field, msg string) {
	if e.Fields == nil {
		e.Fields = make(map[string][]string)
	}
	e.Fields[field] = append(e.Fields[field], msg)
}

// orNil returns e when it holds a complaint.
func (e *ValidationError) orNil() error {
	if e.Message == "" && len(e.Fields) == 0 {
		return nil
	}
	return e
}

func invalid(msg string) error {
	return &ValidationError{Message: msg}
}

const msgRequired = "This field is required."
