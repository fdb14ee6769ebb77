//
// Copyright (C) 2016-2022 the ORF-RATER authors
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://www.mozilla.org/MPL/2.0/.
//

package tally

import (
	"github.com/biogo/hts/sam"

	"github.com/boboppie/ORF-RATER/lib/annot"
	"github.com/boboppie/ORF-RATER/lib/ebam"
)

// Config holds the read selection parameters.
type Config struct {
	MinReadLength int
	MaxReadLength int
	MaxMismatch5  int
}

// ReadSource yields the reads overlapping a genomic interval. Sources are
// queried afresh for every interval.
type ReadSource interface {
	Fetch(chrom string, start, end int) ([]*sam.Record, error)
}

// Tally counts the qualifying reads at every start-codon coordinate of one
// (chromosome, strand) key into a fresh matrix. Reads are drawn from all
// sources in order and kept when on the requested strand, within length and
// 5' mismatch bounds, and covering the start codon.
func Tally(sources []ReadSource, k annot.Key, coords []int, cfg Config) (*Matrix, error) {
	m := NewMatrix(cfg.MinReadLength, cfg.MaxReadLength)
	for _, gcoord := range coords {
		for _, src := range sources {
			records, err := src.Fetch(k.Chrom, gcoord, gcoord+1)
			if err != nil {
				return nil, err
			}
			for _, r := range records {
				if r.Strand() != k.Strand {
					continue
				}
				rdlen, nmis, err := ebam.ReadLengthNmis(r)
				if err != nil {
					// Unparseable alignment, treat like an unmatched read
					continue
				}
				if rdlen < cfg.MinReadLength || rdlen > cfg.MaxReadLength || nmis > cfg.MaxMismatch5 {
					continue
				}
				offset, ok := ebam.ReadOffset(r, gcoord)
				if !ok || offset < nmis {
					continue
				}
				m.Incr(rdlen, offset-nmis)
			}
		}
	}
	return m, nil
}
