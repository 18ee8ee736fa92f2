// Tripwise - Travel Package Point-of-Interest Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tripwise

// Package api provides the HTTP surface of the tripwise server.
//
// Handler methods are split across files:
//   - handlers.go: Handler struct and constructor (this file)
//   - handlers_helpers.go: JSON envelope, decoding, error mapping
//   - handlers_health.go: liveness and readiness probes
//   - handlers_packages.go: tour package catalog and customization
//   - handlers_recommend.go: ad-hoc recommendations for caller-supplied places
//   - chi_router.go: route table and middleware stack
package api

import (
	"errors"
	"time"

	"github.com/tomtom215/tripwise/internal/catalog"
	"github.com/tomtom215/tripwise/internal/recommend"
)

// BreakerStatus reports the circuit breaker state around the inference
// backend. *inference.BreakerScorer satisfies it.
type BreakerStatus interface {
	State() string
}

// HandlerDeps are the collaborators a Handler needs.
type HandlerDeps struct {
	Engine *recommend.Engine
	Store  catalog.Store

	// Backend describes the resolved inference runtime for readiness
	// reports. Empty when running on rules or the mock scorer.
	Backend string

	// Breaker is optional.
	Breaker BreakerStatus

	Version string
}

// Handler contains dependencies for API handlers
type Handler struct {
	engine    *recommend.Engine
	store     catalog.Store
	backend   string
	breaker   BreakerStatus
	version   string
	startTime time.Time
}

// NewHandler creates the API handler. Engine and Store are required.
func NewHandler(deps HandlerDeps) (*Handler, error) {
	if deps.Engine == nil {
		return nil, errors.New("api: engine is required")
	}
	if deps.Store == nil {
		return nil, errors.New("api: catalog store is required")
	}
	return &Handler{
		engine:    deps.Engine,
		store:     deps.Store,
		backend:   deps.Backend,
		breaker:   deps.Breaker,
		version:   deps.Version,
		startTime: time.Now(),
	}, nil
}
