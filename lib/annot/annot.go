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

	"gopkg.in/fatih/set.v0"
)

// Key identifies one unit of work: a chromosome and a strand.
type Key struct {
	Chrom  string
	Strand int8
}

// Index maps each (chromosome, strand) to the set of unique start-codon
// genomic coordinates found in the annotation. Multiple transcripts sharing
// a start codon contribute a single coordinate. An Index is built once and
// only read afterwards.
type Index map[Key]set.Interface

// ParseStrand converts a strand field to +1/-1, or 0 if unknown.
func ParseStrand(strandRaw string) int8 {
	if strandRaw == "+" || strandRaw == "1" || strandRaw == "+1" {
		return 1
	}
	if strandRaw == "-" || strandRaw == "-1" {
		return -1
	}
	return 0
}

// Add inserts one start-codon coordinate.
func (index Index) Add(k Key, coord int) {
	s, ok := index[k]
	if !ok {
		s = set.New(set.ThreadSafe)
		index[k] = s
	}
	s.Add(coord)
}

// Keys returns all (chromosome, strand) keys with at least one coordinate.
func (index Index) Keys() []Key {
	keys := make([]Key, 0, len(index))
	for k := range index {
		keys = append(keys, k)
	}
	return keys
}

// Coords returns the start-codon coordinates for one key. Iteration order
// is unspecified.
func (index Index) Coords(k Key) []int {
	s, ok := index[k]
	if !ok {
		return nil
	}
	coords := make([]int, 0, s.Size())
	for _, c := range s.List() {
		coords = append(coords, c.(int))
	}
	return coords
}

// Size returns the total number of unique start-codon coordinates.
func (index Index) Size() int {
	var n int
	for _, s := range index {
		n += s.Size()
	}
	return n
}

// OpenBED parses a tab-delimited CDS annotation and returns the index of
// start-codon coordinates. Expected columns are 0 for chromosome, 5 for
// strand and 6/7 for thickStart/thickEnd. The start codon is thickStart on
// the forward strand and thickEnd-1 on the reverse strand. Records with an
// empty thick region (thickStart == thickEnd) are skipped.
func OpenBED(bpath string) (Index, error) {
	bfos, err := os.Open(bpath)
	if err != nil {
		return nil, err
	}
	defer bfos.Close()

	index := make(Index)
	iline := 0
	bscanner := bufio.NewScanner(bfos)
	for bscanner.Scan() {
		iline++
		fields := strings.Fields(bscanner.Text())
		if len(fields) < 8 {
			return nil, fmt.Errorf("annot: %s:%d: expected at least 8 columns, got %d", bpath, iline, len(fields))
		}
		strand := ParseStrand(fields[5])
		if strand == 0 {
			return nil, fmt.Errorf("annot: %s:%d: unknown strand %q", bpath, iline, fields[5])
		}
		thickStart, err := strconv.Atoi(fields[6])
		if err != nil {
			return nil, fmt.Errorf("annot: %s:%d: thickStart: %v", bpath, iline, err)
		}
		thickEnd, err := strconv.Atoi(fields[7])
		if err != nil {
			return nil, fmt.Errorf("annot: %s:%d: thickEnd: %v", bpath, iline, err)
		}
		// Empty coding region
		if thickStart == thickEnd {
			continue
		}
		k := Key{Chrom: fields[0], Strand: strand}
		if strand == 1 {
			index.Add(k, thickStart)
		} else {
			index.Add(k, thickEnd-1)
		}
	}
	if err := bscanner.Err(); err != nil {
		return nil, err
	}
	return index, nil
}
