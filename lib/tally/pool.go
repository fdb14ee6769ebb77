//
// Copyright (C) 2016-2022 the ORF-RATER authors
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://www.mozilla.org/MPL/2.0/.
//

package tally

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/boboppie/ORF-RATER/lib/annot"
)

// SourceOpener opens a fresh set of read sources for one worker, together
// with a function releasing them. BAM readers are not safe for concurrent
// use, so every worker gets its own handles.
type SourceOpener func() (sources []ReadSource, closer func() error, err error)

// Pool tallies every (chromosome, strand) key of the index on nWorker
// parallel workers and reduces the per-key matrices into one aggregate.
// Matrix addition is commutative, so completion order does not matter. Any
// worker error aborts the whole run.
func Pool(index annot.Index, open SourceOpener, cfg Config, nWorker int) (*Matrix, error) {
	if nWorker < 1 {
		nWorker = 1
	}
	total := NewMatrix(cfg.MinReadLength, cfg.MaxReadLength)

	g, gctx := errgroup.WithContext(context.Background())

	chKey := make(chan annot.Key, nWorker)
	chMatrix := make(chan *Matrix, nWorker)

	g.Go(func() error {
		defer close(chKey)
		for _, k := range index.Keys() {
			select {
			case <-gctx.Done():
				return gctx.Err()
			case chKey <- k:
			}
		}
		return nil
	})

	// Spawn worker goroutine(s)
	g.Go(func() error {
		defer close(chMatrix)
		wg, wgctx := errgroup.WithContext(gctx)
		for i := 0; i < nWorker; i++ {
			wg.Go(func() error {
				sources, closeSources, err := open()
				if err != nil {
					return err
				}
				defer closeSources()
				for k := range chKey {
					m, err := Tally(sources, k, index.Coords(k), cfg)
					if err != nil {
						return err
					}
					select {
					case <-wgctx.Done():
						return wgctx.Err()
					case chMatrix <- m:
					}
				}
				return nil
			})
		}
		return wg.Wait()
	})

	// Reduce in completion order
	var addErr error
	for m := range chMatrix {
		if addErr == nil {
			addErr = total.Add(m)
		}
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if addErr != nil {
		return nil, addErr
	}
	return total, nil
}
