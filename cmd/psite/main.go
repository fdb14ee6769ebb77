//
// Copyright (C) 2016-2022 the ORF-RATER authors
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://www.mozilla.org/MPL/2.0/.
//

package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/boboppie/ORF-RATER/lib/annot"
	"github.com/boboppie/ORF-RATER/lib/tally"
)

var version = "DEV"

func main() {
	// Arguments: General
	var nWorker, verboseLevel int
	var verbose, printVersion bool
	flag.IntVar(&nWorker, "num_worker", 1, "Number of worker(s)")
	flag.IntVar(&verboseLevel, "verbose_level", 0, "Verbose level")
	flag.BoolVar(&verbose, "verbose", false, "Verbose")
	flag.BoolVar(&printVersion, "version", false, "Print version and quit")
	// Arguments: Input
	var pathBAMsRaw, pathCDS, pathRegions string
	flag.StringVar(&pathBAMsRaw, "path_bam", "", "Path to coordinate-sorted and indexed BAM file(s) (comma separated)")
	flag.StringVar(&pathCDS, "path_cds", "", "Path to tab-delimited CDS annotation with thickStart/thickEnd columns")
	flag.StringVar(&pathRegions, "path_regions", "", "Path to BED file restricting start codons to regions of interest")
	// Arguments: Read selection
	var minReadLength, maxReadLength, maxMismatch5 int
	flag.IntVar(&minReadLength, "read_min_length", 27, "Minimum read length after 5' mismatch trimming")
	flag.IntVar(&maxReadLength, "read_max_length", 34, "Maximum read length after 5' mismatch trimming, inclusive")
	flag.IntVar(&maxMismatch5, "read_max_mismatch5", 1, "Maximum number of 5' mismatches to trim; reads with more are excluded")
	// Arguments: Output
	var pathOffset, pathTally, tallyFormat string
	flag.StringVar(&pathOffset, "path_offset", "offsets.tab", "Path to offset table output: one read length and its offset per line")
	flag.StringVar(&pathTally, "path_tally", "", "Path to tally output: one read length and its counts per offset per line")
	flag.StringVar(&tallyFormat, "tally_format", "tab", "Tally output format: 'tab', 'tab+lz4', 'tab+lz4hc' or 'tab+zst'")
	// Arguments: Parse
	flag.Parse()

	// Version
	if printVersion {
		fmt.Println(version)
		os.Exit(0)
	}

	// Verbose
	if verbose && verboseLevel == 0 {
		verboseLevel = 1
	}

	// Max CPU
	runtime.GOMAXPROCS(nWorker * 2)

	// Time start
	var timeStart time.Time
	if verboseLevel > 0 {
		timeStart = time.Now()
	}

	// Check arguments
	if len(pathCDS) == 0 {
		log.Fatal("No CDS annotation input")
	} else if _, err := os.Stat(pathCDS); os.IsNotExist(err) {
		log.Fatalln(pathCDS, "not found")
	}
	if minReadLength > maxReadLength {
		log.Fatalf("Minimum read length %d greater than maximum %d", minReadLength, maxReadLength)
	}
	var pathBAMs []string
	for _, p := range strings.Split(pathBAMsRaw, ",") {
		if p == "" {
			continue
		}
		if _, err := os.Stat(p); os.IsNotExist(err) {
			log.Fatalln(p, "not found")
		}
		pathBAMs = append(pathBAMs, p)
	}
	if len(pathBAMs) == 0 {
		log.Fatal("No BAM input")
	}

	// Index start codons
	index, err := annot.OpenBED(pathCDS)
	if err != nil {
		log.Fatal(err)
	}
	if pathRegions != "" {
		trees, err := annot.OpenRegionsBED(pathRegions)
		if err != nil {
			log.Fatal(err)
		}
		index = index.FilterRegions(trees)
	}
	if verboseLevel > 0 {
		timeNow := time.Now()
		fmt.Printf("%.1fmin - Indexed %d start codon(s) on %d chromosome-strand(s)\n", timeNow.Sub(timeStart).Minutes(), index.Size(), len(index))
	}

	cfg := tally.Config{MinReadLength: minReadLength, MaxReadLength: maxReadLength, MaxMismatch5: maxMismatch5}
	err = EstimateOffsets(pathBAMs, index, cfg, pathOffset, pathTally, tallyFormat, nWorker, timeStart, verboseLevel)
	if err != nil {
		log.Fatal(err)
	}

	// Verbose
	if verboseLevel > 0 {
		timeEnd := time.Now()
		fmt.Printf("%.1fmin - Done\n", timeEnd.Sub(timeStart).Minutes())
	}
}
