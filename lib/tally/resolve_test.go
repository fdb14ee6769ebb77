//
// Copyright (C) 2016-2022 the ORF-RATER authors
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://www.mozilla.org/MPL/2.0/.
//

package tally

import (
	"testing"

	qt "github.com/frankban/quicktest"
)

func TestCorrelateFull(t *testing.T) {
	c := qt.New(t)
	// Reference values from numpy.correlate(a, v, 'full')
	got := correlateFull([]float64{1, 2, 3}, []float64{0, 1, 0.5})
	c.Assert(got, qt.DeepEquals, []float64{0.5, 2, 3.5, 3, 0})
}

func TestCorrelateFullZero(t *testing.T) {
	c := qt.New(t)
	got := correlateFull([]float64{0, 0, 0}, []float64{1, 2, 3})
	c.Assert(got, qt.DeepEquals, []float64{0, 0, 0, 0, 0})
}

func TestArgmaxFirstTie(t *testing.T) {
	c := qt.New(t)
	c.Assert(argmax([]float64{1, 3, 3, 2}), qt.Equals, 1)
	c.Assert(argmax([]float64{0, 0, 0}), qt.Equals, 0)
}

func newTestMatrix(minLen, maxLen int, rows ...[]uint32) *Matrix {
	m := NewMatrix(minLen, maxLen)
	for i, row := range rows {
		copy(m.Counts[i*m.NCols():], row)
	}
	return m
}

func TestResolveIdentical(t *testing.T) {
	c := qt.New(t)
	// A row identical to the master row resolves to the master offset: the
	// self-correlation peak is at lag maxLen-1, a net shift of zero.
	m := newTestMatrix(4, 5,
		[]uint32{0, 0, 5, 5, 0},
		[]uint32{0, 0, 5, 5, 0},
	)
	c.Assert(Resolve(m), qt.DeepEquals, []Offset{
		{ReadLength: 4, Offset: 2},
		{ReadLength: 5, Offset: 2},
	})
}

func TestResolveShifted(t *testing.T) {
	c := qt.New(t)
	// The second row is the master row shifted right by one
	m := newTestMatrix(4, 5,
		[]uint32{0, 0, 9, 9, 0},
		[]uint32{0, 0, 0, 9, 9},
	)
	c.Assert(Resolve(m), qt.DeepEquals, []Offset{
		{ReadLength: 4, Offset: 2},
		{ReadLength: 5, Offset: 3},
	})
}

func TestResolveAnchorsToMasterRow(t *testing.T) {
	c := qt.New(t)
	// The last row carries most of the reads and becomes the master; the
	// sparse first row aligns to it instead of its own naive maximum.
	m := newTestMatrix(30, 32,
		[]uint32{0, 1, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0},
		[]uint32{0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 50, 100, 40, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0},
		[]uint32{0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0},
	)
	offsets := Resolve(m)
	c.Assert(offsets[1], qt.DeepEquals, Offset{ReadLength: 31, Offset: 12})
	// Single count at column 1: correlation peaks where it meets the master
	// peak, lag (maxLen-1)+(1-12)
	c.Assert(offsets[0], qt.DeepEquals, Offset{ReadLength: 30, Offset: 1})
}

func TestResolveZeroRow(t *testing.T) {
	c := qt.New(t)
	// A (chromosome, strand) unit with no qualifying read yields a zero row;
	// its correlation is all zero and the first lag wins.
	m := newTestMatrix(4, 5,
		[]uint32{0, 0, 0, 0, 0},
		[]uint32{0, 0, 7, 0, 0},
	)
	c.Assert(Resolve(m), qt.DeepEquals, []Offset{
		{ReadLength: 4, Offset: -2},
		{ReadLength: 5, Offset: 2},
	})
}
