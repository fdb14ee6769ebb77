//
// Copyright (C) 2016-2022 the ORF-RATER authors
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://www.mozilla.org/MPL/2.0/.
//

package ebam

import (
	"fmt"
	"os"

	"github.com/biogo/hts/bam"
	"github.com/biogo/hts/sam"
)

// Source is a read-only handle to a coordinate-sorted and indexed BAM file.
// A Source is not safe for concurrent use: each worker must open its own.
type Source struct {
	f    *os.File
	r    *bam.Reader
	idx  *bam.Index
	refs map[string]*sam.Reference
}

// OpenSource opens a BAM file and its index. The index is looked for at
// path + ".bai".
func OpenSource(bpath string) (*Source, error) {
	f, err := os.Open(bpath)
	if err != nil {
		return nil, err
	}
	r, err := bam.NewReader(f, 1)
	if err != nil {
		f.Close()
		return nil, err
	}
	fidx, err := os.Open(bpath + ".bai")
	if err != nil {
		r.Close()
		f.Close()
		return nil, err
	}
	defer fidx.Close()
	idx, err := bam.ReadIndex(fidx)
	if err != nil {
		r.Close()
		f.Close()
		return nil, fmt.Errorf("ebam: %s.bai: %v", bpath, err)
	}
	refs := make(map[string]*sam.Reference)
	for _, ref := range r.Header().Refs() {
		refs[ref.Name()] = ref
	}
	return &Source{f: f, r: r, idx: idx, refs: refs}, nil
}

// Close releases the BAM reader and the underlying file.
func (s *Source) Close() error {
	err := s.r.Close()
	if cerr := s.f.Close(); err == nil {
		err = cerr
	}
	return err
}

// Fetch returns the reads overlapping [start, end) on chrom. A chromosome
// absent from the BAM header yields an empty result.
func (s *Source) Fetch(chrom string, start, end int) ([]*sam.Record, error) {
	ref, ok := s.refs[chrom]
	if !ok {
		return nil, nil
	}
	chunks, err := s.idx.Chunks(ref, start, end)
	if err != nil {
		return nil, nil
	}
	it, err := bam.NewIterator(s.r, chunks)
	if err != nil {
		return nil, err
	}
	var records []*sam.Record
	for it.Next() {
		r := it.Record()
		// Chunks are block-aligned, keep truly overlapping reads only
		if r.Start() < end && r.End() > start {
			records = append(records, r)
		}
	}
	if err := it.Close(); err != nil {
		return nil, err
	}
	return records, nil
}

// Positions returns the genomic positions covered by the aligned bases of
// the read, one per reference-consuming read base, in read order. Inserted
// and clipped bases cover no position; deleted and skipped reference bases
// are absent from the result.
func Positions(r *sam.Record) []int {
	var positions []int
	pos := r.Pos
	for _, co := range r.Cigar {
		con := co.Type().Consumes()
		if con.Query == 1 && con.Reference == 1 {
			for i := 0; i < co.Len(); i++ {
				positions = append(positions, pos+i)
			}
		}
		pos += co.Len() * con.Reference
	}
	return positions
}

// ReadOffset returns the offset of gcoord from the 5' end of the read, i.e.
// from the alignment end for a reverse-strand read. The second return value
// is false when no aligned base covers gcoord, which happens around indels.
func ReadOffset(r *sam.Record, gcoord int) (int, bool) {
	positions := Positions(r)
	for idx, pos := range positions {
		if pos == gcoord {
			if r.Strand() == -1 {
				return len(positions) - idx - 1, true
			}
			return idx, true
		}
	}
	return 0, false
}
