//
// Copyright (C) 2016-2022 the ORF-RATER authors
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://www.mozilla.org/MPL/2.0/.
//

package tally

import "fmt"

// Matrix tallies reads by trimmed read length and mismatch-adjusted offset.
// Rows cover read lengths from MinLen to MaxLen inclusive, columns cover
// offsets from 0 to MaxLen-1.
type Matrix struct {
	MinLen, MaxLen int
	Counts         []uint32
}

func NewMatrix(minLen, maxLen int) *Matrix {
	return &Matrix{MinLen: minLen, MaxLen: maxLen, Counts: make([]uint32, (maxLen-minLen+1)*maxLen)}
}

// NRows returns the number of read lengths.
func (m *Matrix) NRows() int {
	return m.MaxLen - m.MinLen + 1
}

// NCols returns the number of offset columns.
func (m *Matrix) NCols() int {
	return m.MaxLen
}

// Incr adds one read of the given trimmed length at the given
// mismatch-adjusted offset.
func (m *Matrix) Incr(rdlen, offset int) {
	m.Counts[(rdlen-m.MinLen)*m.MaxLen+offset]++
}

// At returns the count for one read length and offset.
func (m *Matrix) At(rdlen, offset int) uint32 {
	return m.Counts[(rdlen-m.MinLen)*m.MaxLen+offset]
}

// Row returns the counts for one read length.
func (m *Matrix) Row(rdlen int) []uint32 {
	i := (rdlen - m.MinLen) * m.MaxLen
	return m.Counts[i : i+m.MaxLen]
}

// Add accumulates other into m element-wise.
func (m *Matrix) Add(other *Matrix) error {
	if m.MinLen != other.MinLen || m.MaxLen != other.MaxLen {
		return fmt.Errorf("tally: adding matrix of lengths %d-%d to matrix of lengths %d-%d", other.MinLen, other.MaxLen, m.MinLen, m.MaxLen)
	}
	for i, c := range other.Counts {
		m.Counts[i] += c
	}
	return nil
}
