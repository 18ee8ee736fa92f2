// Tripwise - Travel Package Point-of-Interest Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tripwise

package inference

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tomtom215/tripwise/internal/metrics"
)

// Sentinels for errors.Is. Each typed error below matches exactly one.
var (
	ErrSpawn              = errors.New("inference process could not be started")
	ErrTimeout            = errors.New("inference process timed out")
	ErrNonZeroExit        = errors.New("inference process exited with non-zero status")
	ErrInvalidOutput      = errors.New("inference output invalid")
	ErrBackendUnavailable = errors.New("inference backend unavailable")
	ErrCanceled           = errors.New("inference canceled")
)

// maxDiagnosticLen bounds the diagnostic text carried on errors.
const maxDiagnosticLen = 4096

// ProcessSpawnError reports that the backend process never ran.
type ProcessSpawnError struct {
	Executable string
	Err        error
}

func (e *ProcessSpawnError) Error() string {
	return fmt.Sprintf("spawn %s: %v", e.Executable, e.Err)
}

func (e *ProcessSpawnError) Unwrap() error { return e.Err }

// Is matches ErrSpawn.
func (e *ProcessSpawnError) Is(target error) bool { return target == ErrSpawn }

// ProcessTimeoutError reports that the process outlived its budget and was killed.
type ProcessTimeoutError struct {
	Timeout time.Duration
	Stderr  string
}

func (e *ProcessTimeoutError) Error() string {
	msg := fmt.Sprintf("inference process killed after %s", e.Timeout)
	if e.Stderr != "" {
		msg += ": " + e.Stderr
	}
	return msg
}

// Is matches ErrTimeout.
func (e *ProcessTimeoutError) Is(target error) bool { return target == ErrTimeout }

// NonZeroExitError carries the exit status and captured stderr.
type NonZeroExitError struct {
	ExitCode int
	Stderr   string
	Err      error
}

func (e *NonZeroExitError) Error() string {
	msg := fmt.Sprintf("inference process exited with code %d", e.ExitCode)
	if e.Stderr != "" {
		msg += ": " + e.Stderr
	}
	return msg
}

func (e *NonZeroExitError) Unwrap() error { return e.Err }

// Is matches ErrNonZeroExit.
func (e *NonZeroExitError) Is(target error) bool { return target == ErrNonZeroExit }

// InvalidOutputError reports stdout that held no usable score array.
type InvalidOutputError struct {
	Reason string
	Output string
	Err    error
}

func (e *InvalidOutputError) Error() string {
	msg := "invalid inference output: " + e.Reason
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *InvalidOutputError) Unwrap() error { return e.Err }

// Is matches ErrInvalidOutput.
func (e *InvalidOutputError) Is(target error) bool { return target == ErrInvalidOutput }

// Outcome maps an error from a Scorer to a metrics outcome label.
func Outcome(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeSuccess
	case errors.Is(err, ErrTimeout):
		return metrics.OutcomeTimeout
	case errors.Is(err, ErrCanceled), errors.Is(err, context.Canceled):
		return metrics.OutcomeCanceled
	case errors.Is(err, ErrSpawn):
		return metrics.OutcomeSpawnError
	case errors.Is(err, ErrNonZeroExit):
		return metrics.OutcomeNonZeroExit
	case errors.Is(err, ErrInvalidOutput):
		return metrics.OutcomeInvalidOutput
	default:
		return metrics.OutcomeUnavailable
	}
}

func truncate(s string) string {
	if len(s) <= maxDiagnosticLen {
		return s
	}
	return s[:maxDiagnosticLen] + "...(truncated)"
}
