// Tripwise - Travel Package Point-of-Interest Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tripwise

package catalog

import (
	"context"
	"fmt"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// SeedFile is the document layout accepted by LoadSeed. YAML and JSON are
// both accepted.
type SeedFile struct {
	Packages []TourPackage `json:"packages"`
}

// ReadSeed parses a seed file without storing anything.
func ReadSeed(path string) ([]TourPackage, error) {
	k := koanf.New("::")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("load seed file %s: %w", path, err)
	}

	var seed SeedFile
	if err := k.UnmarshalWithConf("", &seed, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, fmt.Errorf("decode seed file %s: %w", path, err)
	}
	return seed.Packages, nil
}

// LoadSeed reads path and stores every package in it. Existing packages
// with the same ID are replaced. It returns the number stored.
func LoadSeed(ctx context.Context, store Store, path string) (int, error) {
	packages, err := ReadSeed(path)
	if err != nil {
		return 0, err
	}

	for i := range packages {
		if err := ctx.Err(); err != nil {
			return i, err
		}
		if err := store.Put(ctx, &packages[i]); err != nil {
			return i, fmt.Errorf("seed package %q: %w", packages[i].ID, err)
		}
	}
	return len(packages), nil
}
