// Tripwise - Travel Package Point-of-Interest Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tripwise

//go:build !unix

package inference

import "os/exec"

// configureProcessGroup keeps the exec default of killing only the child.
func configureProcessGroup(_ *exec.Cmd) {}
