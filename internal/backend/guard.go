// Tripwise - Travel Package Point-of-Interest Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tripwise

// Package backend resolves the external inference runtime once at startup.
//
// The guard probes an ordered list of candidate executables, verifies the
// inference entry point, and checks the model artifacts. Its result is an
// immutable Resolved value that is injected into the subprocess scorer; the
// probing never happens per request.
package backend

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
)

// DefaultCandidates is the interpreter probe order.
var DefaultCandidates = []string{"python.exe", "python3.exe", "python", "python3"}

// DefaultModelArtifacts are the files predict.py loads, relative to the base dir.
var DefaultModelArtifacts = []string{
	"ml/trained_model/recommender.joblib",
	"ml/trained_model/multi_label_binarizer.joblib",
	"ml/trained_model/feature_columns.json",
}

// Config describes what the guard must find.
type Config struct {
	// Candidates are executable names or paths, probed in order.
	Candidates []string

	// EntryPoint is the inference script handed to the executable.
	EntryPoint string

	// ModelArtifacts are files the entry point loads at run time.
	ModelArtifacts []string

	// BaseDir resolves relative EntryPoint and ModelArtifacts paths.
	// Empty means the working directory.
	BaseDir string

	// Production makes missing model artifacts fatal.
	Production bool
}

// Resolved is the read-only result of a successful guard run.
type Resolved struct {
	Executable string
	EntryPoint string

	// Warning is non-nil when model artifacts were missing in development mode.
	Warning *ModelArtifactWarning
}

// Guard performs the startup availability check.
type Guard struct {
	cfg      Config
	logger   zerolog.Logger
	lookPath func(string) (string, error)
	stat     func(string) (fs.FileInfo, error)
}

// NewGuard creates a guard for cfg.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewGuard(cfg Config, logger zerolog.Logger) *Guard {
	if len(cfg.Candidates) == 0 {
		cfg.Candidates = DefaultCandidates
	}
	return &Guard{
		cfg:      cfg,
		logger:   logger.With().Str("component", "backend_guard").Logger(),
		lookPath: exec.LookPath,
		stat:     os.Stat,
	}
}

// Resolve runs the probe. A missing executable or entry point is always a
// ConfigurationError. Missing model artifacts are a ConfigurationError in
// production and a warning carried on Resolved otherwise.
func (g *Guard) Resolve() (*Resolved, error) {
	executable, err := g.resolveExecutable()
	if err != nil {
		return nil, err
	}

	entryPoint, err := g.resolveEntryPoint()
	if err != nil {
		return nil, err
	}

	resolved := &Resolved{Executable: executable, EntryPoint: entryPoint}

	if missing := g.missingArtifacts(); len(missing) > 0 {
		warning := &ModelArtifactWarning{Missing: missing}
		if g.cfg.Production {
			return nil, &ConfigurationError{
				Reason: "model artifacts missing in production",
				Err:    warning,
			}
		}
		g.logger.Warn().
			Strs("missing", missing).
			Msg("model artifacts missing, external scores may be unavailable")
		resolved.Warning = warning
	}

	g.logger.Info().
		Str("executable", executable).
		Str("entry_point", entryPoint).
		Bool("production", g.cfg.Production).
		Msg("inference backend resolved")

	return resolved, nil
}

func (g *Guard) resolveExecutable() (string, error) {
	var lastErr error
	for _, candidate := range g.cfg.Candidates {
		candidate = strings.TrimSpace(candidate)
		if candidate == "" {
			continue
		}
		path, err := g.lookPath(candidate)
		if err == nil {
			abs, absErr := filepath.Abs(path)
			if absErr == nil {
				path = abs
			}
			return path, nil
		}
		g.logger.Debug().Str("candidate", candidate).Err(err).Msg("executable candidate not found")
		lastErr = err
	}

	return "", &ConfigurationError{
		Reason: "no executable found among candidates",
		Path:   strings.Join(g.cfg.Candidates, ", "),
		Err:    lastErr,
	}
}

func (g *Guard) resolveEntryPoint() (string, error) {
	if strings.TrimSpace(g.cfg.EntryPoint) == "" {
		return "", &ConfigurationError{Reason: "entry point not configured"}
	}

	path := g.resolvePath(g.cfg.EntryPoint)
	info, err := g.stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", &ConfigurationError{Reason: "entry point not found", Path: path}
		}
		return "", &ConfigurationError{Reason: "entry point not readable", Path: path, Err: err}
	}
	if info.IsDir() {
		return "", &ConfigurationError{Reason: "entry point is a directory", Path: path}
	}
	return path, nil
}

func (g *Guard) missingArtifacts() []string {
	var missing []string
	for _, artifact := range g.cfg.ModelArtifacts {
		if strings.TrimSpace(artifact) == "" {
			continue
		}
		path := g.resolvePath(artifact)
		if _, err := g.stat(path); err != nil {
			missing = append(missing, path)
		}
	}
	return missing
}

func (g *Guard) resolvePath(p string) string {
	if !filepath.IsAbs(p) && g.cfg.BaseDir != "" {
		p = filepath.Join(g.cfg.BaseDir, p)
	}
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return p
}

// String renders the resolved invocation for logs and health output.
func (r *Resolved) String() string {
	if r == nil {
		return "<unresolved>"
	}
	return fmt.Sprintf("%s %s", r.Executable, r.EntryPoint)
}
