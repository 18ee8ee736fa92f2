// Tripwise - Travel Package Point-of-Interest Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tripwise

// Package recommend ranks the places of a tour package for a traveler.
//
// # Architecture
//
// A request flows through four stages:
//
//   - BuildProfile validates raw traveler input into an immutable Profile.
//   - ScoreRules computes a deterministic 0..100 suitability score per place
//     from six weighted factors (age, gender, place type, hobby, climate,
//     health). It performs no I/O.
//   - ExtractFeatures and BuildRequest project places into the flat schema
//     the external scorer consumes (see package inference).
//   - Rank merges rule and external scores into one ordered list with
//     human-readable reasons.
//
// Engine ties the stages together. Rule scoring runs on the calling
// goroutine while the external scorer runs concurrently; the engine waits
// for both before ranking.
//
// # Failure handling
//
// An external failure is never hidden. Config.FallbackPolicy decides whether
// the engine degrades to rule-only ranking (FallbackRuleOnly) or returns the
// error (FallbackStrict). A place missing from an otherwise successful
// external response is handled per Config.UnscoredPolicy and never fails
// the batch.
//
// # Usage
//
//	engine, err := recommend.NewEngine(recommend.DefaultConfig(), scorer, logger)
//	profile, err := recommend.BuildProfile(recommend.ProfileInput{Age: 30, PlaceTypes: []string{"Beach"}})
//	result, err := engine.Recommend(ctx, profile, pkg.Places)
//
// # Thread Safety
//
// Profile, Place and the scoring functions are safe for concurrent use.
// Engine holds no per-request state and may serve many requests at once.
package recommend
