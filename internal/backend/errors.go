// Tripwise - Travel Package Point-of-Interest Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tripwise

package backend

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrConfiguration matches every ConfigurationError.
	ErrConfiguration = errors.New("inference backend misconfigured")

	// ErrModelArtifactMissing matches every ModelArtifactWarning.
	ErrModelArtifactMissing = errors.New("model artifacts missing")
)

// ConfigurationError is a fatal startup problem: no usable executable, a
// missing entry point, or (in production) missing model artifacts.
type ConfigurationError struct {
	Reason string
	Path   string
	Err    error
}

func (e *ConfigurationError) Error() string {
	var b strings.Builder
	b.WriteString("inference backend: ")
	b.WriteString(e.Reason)
	if e.Path != "" {
		fmt.Fprintf(&b, " (%s)", e.Path)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

// Is lets errors.Is(err, ErrConfiguration) match.
func (e *ConfigurationError) Is(target error) bool { return target == ErrConfiguration }

// ModelArtifactWarning lists model artifacts that were not found. It is only
// logged in development; production promotes it to a ConfigurationError.
type ModelArtifactWarning struct {
	Missing []string
}

func (w *ModelArtifactWarning) Error() string {
	return "model artifacts missing: " + strings.Join(w.Missing, ", ")
}

// Is lets errors.Is(err, ErrModelArtifactMissing) match.
func (w *ModelArtifactWarning) Is(target error) bool { return target == ErrModelArtifactMissing }
