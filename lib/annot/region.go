//
// Copyright (C) 2016-2022 the ORF-RATER authors
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://www.mozilla.org/MPL/2.0/.
//

package annot

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/biogo/store/interval"

	"gopkg.in/fatih/set.v0"
)

// OpenRegionsBED parses a 6-column BED file into per-(chromosome, strand)
// interval trees of regions of interest.
func OpenRegionsBED(bpath string) (map[Key]*interval.IntTree, error) {
	bfos, err := os.Open(bpath)
	if err != nil {
		return nil, err
	}
	defer bfos.Close()

	trees := make(map[Key]*interval.IntTree)
	iline := 0
	bscanner := bufio.NewScanner(bfos)
	for bscanner.Scan() {
		iline++
		fields := strings.Fields(bscanner.Text())
		if len(fields) < 6 {
			return nil, fmt.Errorf("annot: %s:%d: expected at least 6 columns, got %d", bpath, iline, len(fields))
		}
		strand := ParseStrand(fields[5])
		if strand == 0 {
			return nil, fmt.Errorf("annot: %s:%d: unknown strand %q", bpath, iline, fields[5])
		}
		start, err := strconv.Atoi(fields[1])
		if err != nil {
			return nil, fmt.Errorf("annot: %s:%d: start: %v", bpath, iline, err)
		}
		end, err := strconv.Atoi(fields[2])
		if err != nil {
			return nil, fmt.Errorf("annot: %s:%d: end: %v", bpath, iline, err)
		}
		k := Key{Chrom: fields[0], Strand: strand}
		// New tree for unseen chromosome/strand
		if _, ok := trees[k]; !ok {
			trees[k] = &interval.IntTree{}
		}
		// Inserting interval
		iv := IntInterval{Start: start, End: end, UID: uintptr(iline)}
		if err := trees[k].Insert(iv, false); err != nil {
			return nil, err
		}
	}
	if err := bscanner.Err(); err != nil {
		return nil, err
	}
	for k := range trees {
		trees[k].AdjustRanges()
	}
	return trees, nil
}

// FilterRegions returns a new Index keeping only the start codons located
// within at least one region on the same chromosome and strand.
func (index Index) FilterRegions(trees map[Key]*interval.IntTree) Index {
	filtered := make(Index)
	for k, s := range index {
		tree, ok := trees[k]
		if !ok {
			continue
		}
		fs := set.New(set.ThreadSafe)
		for _, c := range s.List() {
			coord := c.(int)
			if len(tree.Get(IntInterval{Start: coord, End: coord + 1})) > 0 {
				fs.Add(coord)
			}
		}
		if fs.Size() > 0 {
			filtered[k] = fs
		}
	}
	return filtered
}
