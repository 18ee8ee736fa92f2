// Tripwise - Travel Package Point-of-Interest Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tripwise

package inference

import (
	"bytes"
	"fmt"
	"math"

	"github.com/goccy/go-json"
)

// rawScore keeps pointers so absent fields can be told apart from zero values.
type rawScore struct {
	PlaceID *string  `json:"placeId"`
	Score   *float64 `json:"score"`
}

// ParseOutput extracts the score array from backend stdout. The payload is
// the text between the first '[' and the last ']'; anything around it is
// treated as diagnostics and ignored.
func ParseOutput(out []byte) (Response, error) {
	start := bytes.IndexByte(out, '[')
	end := bytes.LastIndexByte(out, ']')
	if start < 0 || end < start {
		return nil, &InvalidOutputError{
			Reason: "no JSON array found",
			Output: truncate(string(out)),
		}
	}

	payload := out[start : end+1]

	var raw []rawScore
	if err := json.Unmarshal(payload, &raw); err != nil {
		return nil, &InvalidOutputError{
			Reason: "payload is not an array of scores",
			Output: truncate(string(payload)),
			Err:    err,
		}
	}

	resp := make(Response, 0, len(raw))
	for i, r := range raw {
		if r.PlaceID == nil || *r.PlaceID == "" {
			return nil, &InvalidOutputError{
				Reason: fmt.Sprintf("element %d has no placeId", i),
				Output: truncate(string(payload)),
			}
		}
		if r.Score == nil || math.IsNaN(*r.Score) || math.IsInf(*r.Score, 0) {
			return nil, &InvalidOutputError{
				Reason: fmt.Sprintf("element %d (%s) has no numeric score", i, *r.PlaceID),
				Output: truncate(string(payload)),
			}
		}
		resp = append(resp, Score{PlaceID: *r.PlaceID, Score: *r.Score})
	}

	return resp, nil
}
