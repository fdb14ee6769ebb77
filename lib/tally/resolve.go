//
// Copyright (C) 2016-2022 the ORF-RATER authors
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://www.mozilla.org/MPL/2.0/.
//

package tally

// Offset is the resolved P-site offset for one read length.
type Offset struct {
	ReadLength int
	Offset     int
}

// argmax returns the index of the first maximum value.
func argmax(v []float64) int {
	best := 0
	for i := 1; i < len(v); i++ {
		if v[i] > v[best] {
			best = i
		}
	}
	return best
}

// correlateFull computes the full cross-correlation of a against v: lag k
// holds the sum over i of a[i]*v[i-k+len(v)-1], for k from 0 to
// len(a)+len(v)-2.
func correlateFull(a, v []float64) []float64 {
	c := make([]float64, len(a)+len(v)-1)
	for k := range c {
		shift := k - (len(v) - 1)
		for i := 0; i < len(a); i++ {
			if j := i - shift; j >= 0 && j < len(v) {
				c[k] += a[i] * v[j]
			}
		}
	}
	return c
}

// Resolve computes the final P-site offset for every read length. The
// offset of the most-observed read length (the master row) is its column of
// maximum count; every row is then aligned to the master row by full
// cross-correlation, so a single shift model applies to all read lengths.
// Picking each row's maximum independently can jump by several nucleotides
// between adjacent read lengths when counts are low.
func Resolve(m *Matrix) []Offset {
	rows := make([][]float64, m.NRows())
	sums := make([]float64, m.NRows())
	for i := range rows {
		row := make([]float64, m.NCols())
		for j, c := range m.Counts[i*m.NCols() : (i+1)*m.NCols()] {
			row[j] = float64(c)
			sums[i] += row[j]
		}
		rows[i] = row
	}
	master := argmax(sums)
	masterOffset := argmax(rows[master])
	offsets := make([]Offset, len(rows))
	for i, row := range rows {
		bestLag := argmax(correlateFull(row, rows[master]))
		offsets[i] = Offset{
			ReadLength: m.MinLen + i,
			Offset:     masterOffset + bestLag + 1 - m.MaxLen,
		}
	}
	return offsets
}
