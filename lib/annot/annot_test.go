//
// Copyright (C) 2016-2022 the ORF-RATER authors
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://www.mozilla.org/MPL/2.0/.
//

package annot

import (
	"os"
	"path/filepath"
	"sort"
	"testing"

	qt "github.com/frankban/quicktest"
)

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(p, []byte(content), 0666); err != nil {
		t.Fatal(err)
	}
	return p
}

func sortedCoords(index Index, k Key) []int {
	coords := index.Coords(k)
	sort.Ints(coords)
	return coords
}

func TestOpenBED(t *testing.T) {
	c := qt.New(t)
	bed := "" +
		"chr1\t100\t500\ttx1\t0\t+\t150\t450\n" +
		"chr1\t100\t600\ttx2\t0\t+\t150\t480\n" +
		"chr1\t700\t900\ttx3\t0\t-\t720\t870\n" +
		"chr2\t10\t90\ttx4\t0\t+\t20\t80\n"
	index, err := OpenBED(writeTemp(t, "cds.bed", bed))
	c.Assert(err, qt.IsNil)
	c.Assert(index.Size(), qt.Equals, 4)
	// tx1 and tx2 share a chromosome and strand but not a start codon
	c.Assert(sortedCoords(index, Key{Chrom: "chr1", Strand: 1}), qt.DeepEquals, []int{150})
	// Reverse-strand start codon is the last base of the thick region
	c.Assert(sortedCoords(index, Key{Chrom: "chr1", Strand: -1}), qt.DeepEquals, []int{869})
	c.Assert(sortedCoords(index, Key{Chrom: "chr2", Strand: 1}), qt.DeepEquals, []int{20})
	c.Assert(index.Coords(Key{Chrom: "chr3", Strand: 1}), qt.IsNil)
}

func TestOpenBEDDedup(t *testing.T) {
	c := qt.New(t)
	bed := "" +
		"chr1\t100\t500\ttx1\t0\t+\t150\t450\n" +
		"chr1\t100\t500\ttx1b\t0\t+\t150\t480\n" +
		"chr1\t100\t500\ttx1c\t0\t+\t150\t450\n"
	index, err := OpenBED(writeTemp(t, "cds.bed", bed))
	c.Assert(err, qt.IsNil)
	c.Assert(index.Size(), qt.Equals, 1)
	c.Assert(sortedCoords(index, Key{Chrom: "chr1", Strand: 1}), qt.DeepEquals, []int{150})
}

func TestOpenBEDEmptyThick(t *testing.T) {
	c := qt.New(t)
	bed := "" +
		"chr1\t100\t500\ttx1\t0\t+\t100\t100\n" +
		"chr1\t700\t900\ttx2\t0\t-\t900\t900\n"
	index, err := OpenBED(writeTemp(t, "cds.bed", bed))
	c.Assert(err, qt.IsNil)
	c.Assert(index.Size(), qt.Equals, 0)
}

func TestOpenBEDMalformed(t *testing.T) {
	c := qt.New(t)
	for _, bed := range []string{
		"chr1\t100\t500\ttx1\t0\t+\t150\n",
		"chr1\t100\t500\ttx1\t0\t*\t150\t450\n",
		"chr1\t100\t500\ttx1\t0\t+\tabc\t450\n",
		"chr1\t100\t500\ttx1\t0\t+\t150\tabc\n",
	} {
		_, err := OpenBED(writeTemp(t, "cds.bed", bed))
		c.Assert(err, qt.IsNotNil)
	}
}

func TestParseStrand(t *testing.T) {
	c := qt.New(t)
	c.Assert(ParseStrand("+"), qt.Equals, int8(1))
	c.Assert(ParseStrand("+1"), qt.Equals, int8(1))
	c.Assert(ParseStrand("-"), qt.Equals, int8(-1))
	c.Assert(ParseStrand("-1"), qt.Equals, int8(-1))
	c.Assert(ParseStrand("."), qt.Equals, int8(0))
}

func TestFilterRegions(t *testing.T) {
	c := qt.New(t)
	bed := "" +
		"chr1\t100\t500\ttx1\t0\t+\t150\t450\n" +
		"chr1\t600\t900\ttx2\t0\t+\t650\t880\n" +
		"chr1\t700\t900\ttx3\t0\t-\t720\t870\n" +
		"chr2\t10\t90\ttx4\t0\t+\t20\t80\n"
	index, err := OpenBED(writeTemp(t, "cds.bed", bed))
	c.Assert(err, qt.IsNil)

	regions := "" +
		"chr1\t100\t200\tr1\t0\t+\n" +
		"chr1\t800\t900\tr2\t0\t-\n"
	trees, err := OpenRegionsBED(writeTemp(t, "regions.bed", regions))
	c.Assert(err, qt.IsNil)

	filtered := index.FilterRegions(trees)
	// tx1 at 150 is inside r1, tx2 at 650 is not
	c.Assert(sortedCoords(filtered, Key{Chrom: "chr1", Strand: 1}), qt.DeepEquals, []int{150})
	// tx3 at 869 is inside r2 on the reverse strand
	c.Assert(sortedCoords(filtered, Key{Chrom: "chr1", Strand: -1}), qt.DeepEquals, []int{869})
	// chr2 has no region at all
	c.Assert(filtered.Coords(Key{Chrom: "chr2", Strand: 1}), qt.IsNil)
	c.Assert(filtered.Size(), qt.Equals, 2)
}

func TestOpenRegionsBEDMalformed(t *testing.T) {
	c := qt.New(t)
	for _, bed := range []string{
		"chr1\t100\t200\tr1\t0\n",
		"chr1\tabc\t200\tr1\t0\t+\n",
		"chr1\t100\tabc\tr1\t0\t+\n",
		"chr1\t100\t200\tr1\t0\t*\n",
	} {
		_, err := OpenRegionsBED(writeTemp(t, "regions.bed", bed))
		c.Assert(err, qt.IsNotNil)
	}
}
