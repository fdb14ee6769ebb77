//
// Copyright (C) 2016-2022 the ORF-RATER authors
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://www.mozilla.org/MPL/2.0/.
//

package main

import (
	"fmt"
	"time"

	"github.com/boboppie/ORF-RATER/lib/annot"
	"github.com/boboppie/ORF-RATER/lib/ebam"
	"github.com/boboppie/ORF-RATER/lib/tally"
)

// EstimateOffsets tallies reads around every indexed start codon, resolves
// one P-site offset per read length and writes the outputs. Nothing is
// written when any part of the computation fails.
func EstimateOffsets(pathBAMs []string, index annot.Index, cfg tally.Config, pathOffset, pathTally, tallyFormat string, nWorker int, timeStart time.Time, verboseLevel int) error {
	// Each worker opens its own BAM handles
	open := func() ([]tally.ReadSource, func() error, error) {
		var sources []tally.ReadSource
		var opened []*ebam.Source
		closer := func() error {
			var err error
			for _, s := range opened {
				if cerr := s.Close(); err == nil {
					err = cerr
				}
			}
			return err
		}
		for _, p := range pathBAMs {
			s, err := ebam.OpenSource(p)
			if err != nil {
				closer()
				return nil, nil, err
			}
			opened = append(opened, s)
			sources = append(sources, s)
		}
		return sources, closer, nil
	}

	total, err := tally.Pool(index, open, cfg, nWorker)
	if err != nil {
		return err
	}
	if verboseLevel > 0 {
		var nRead uint64
		for _, c := range total.Counts {
			nRead += uint64(c)
		}
		timeNow := time.Now()
		fmt.Printf("%.1fmin - Tallied %d read(s)\n", timeNow.Sub(timeStart).Minutes(), nRead)
	}

	// Output: Tally
	if pathTally != "" {
		if verboseLevel > 0 {
			timeNow := time.Now()
			fmt.Printf("%.1fmin - Writing %s output in %s\n", timeNow.Sub(timeStart).Minutes(), tallyFormat, pathTally)
		}
		if err := tally.WriteTally(total, pathTally, tallyFormat); err != nil {
			return err
		}
	}
	// Output: Offsets
	offsets := tally.Resolve(total)
	return tally.WriteOffsets(offsets, pathOffset, "tab")
}
