// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package grouping

import "errors"

var (
	// ErrIncompatibleKind is returned when a numeric-only grouping
	// is applied to a Nominal column.
	ErrIncompatibleKind = errors.New("incompatible column kind")

	// ErrInvalidWindow is returned by NewWindow for negative grab
	// counts other than -1.
	ErrInvalidWindow = errors.New("invalid aggregation window")

	// ErrInvalidBins is returned for bin counts less than 1.
	ErrInvalidBins = errors.New("bin count must be at least 1")

	// ErrUnknownColumn is returned by Model when the Source has no
	// column with the grouping's column name.
	ErrUnknownColumn = errors.New("unknown column")
)
