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
	"strconv"
	"unicode"

	"github.com/biogo/hts/sam"
)

const (
	mdDeletion = iota
	mdMismatch
	mdSkip
)

type mdOp struct {
	op     int
	length int
	seq    []byte
}

// parseTagMD parses the MD attribute to blocks.
func parseTagMD(rawTag string) (blocks []mdOp, err error) {
	var block []byte
	i := 0
	for i < len(rawTag) {
		l := rawTag[i]
		if l == '^' {
			block = []byte("")
			i++ // Skipping "^"
			for i < len(rawTag) {
				l = rawTag[i]
				if unicode.IsLetter(rune(l)) {
					block = append(block, l)
					i++
				} else {
					break
				}
			}
			blocks = append(blocks, mdOp{op: mdDeletion, length: len(block), seq: block})
		} else if unicode.IsLetter(rune(l)) {
			blocks = append(blocks, mdOp{op: mdMismatch, length: 1, seq: []byte{l}})
			i++
		} else {
			block = []byte("")
			for i < len(rawTag) {
				l = rawTag[i]
				if unicode.IsNumber(rune(l)) {
					block = append(block, l)
					i++
				} else {
					break
				}
			}
			step, err := strconv.Atoi(string(block))
			if err != nil {
				return blocks, err
			}
			blocks = append(blocks, mdOp{op: mdSkip, length: step})
		}
	}
	return blocks, nil
}

// Alignment column symbols: '|' match, 'X' mismatch, '.' indel or skipped
// reference, ' ' soft-clipped read base.
const (
	symMatch    = '|'
	symMismatch = 'X'
	symIndel    = '.'
	symClip     = ' '
)

// Alignment column kinds, one per CIGAR-consumed base.
const (
	kindAligned  = 'a'
	kindDeletion = 'd'
	kindRefSkip  = 'n'
	kindInsert   = 'i'
	kindClip     = 's'
)

// alnSymbols reconstitutes the per-column alignment symbols of a read from
// its CIGAR string. Mismatches from the MD tag are marked if the tag is
// present.
func alnSymbols(r *sam.Record) (symbol []byte, err error) {
	kind := make([]byte, 0, r.Seq.Length)
	for _, co := range r.Cigar {
		con := co.Type().Consumes()
		var s, k byte
		switch {
		case con.Query == 1 && con.Reference == 1:
			k = kindAligned
			if co.Type() == sam.CigarMismatch {
				s = symMismatch
			} else {
				s = symMatch
			}
		case con.Query == 0 && con.Reference == 1:
			s = symIndel
			if co.Type() == sam.CigarSkipped {
				k = kindRefSkip
			} else {
				k = kindDeletion
			}
		case con.Query == 1 && con.Reference == 0:
			if co.Type() == sam.CigarSoftClipped {
				s, k = symClip, kindClip
			} else {
				s, k = symIndel, kindInsert
			}
		default:
			continue
		}
		for i := 0; i < co.Len(); i++ {
			symbol = append(symbol, s)
			kind = append(kind, k)
		}
	}
	// Mark mismatches from the MD tag
	tag, found := r.Tag([]byte("MD"))
	if !found {
		return symbol, nil
	}
	rawTag, ok := tag.Value().(string)
	if !ok {
		return symbol, fmt.Errorf("ebam: %s: MD tag is not a string", r.Name)
	}
	blocks, err := parseTagMD(rawTag)
	if err != nil {
		return symbol, fmt.Errorf("ebam: %s: MD tag: %v", r.Name, err)
	}
	iCol := 0
	for _, b := range blocks {
		switch b.op {
		case mdDeletion:
			for i := 0; i < b.length && iCol < len(symbol); iCol++ {
				if kind[iCol] == kindDeletion {
					i++
				}
			}
		case mdMismatch:
			// Inserted, clipped and deleted bases do not consume MD matches
			for iCol < len(symbol) && kind[iCol] != kindAligned {
				iCol++
			}
			if iCol < len(symbol) {
				symbol[iCol] = symMismatch
				iCol++
			}
		case mdSkip:
			for i := 0; i < b.length && iCol < len(symbol); iCol++ {
				if kind[iCol] == kindAligned {
					i++
				}
			}
		}
	}
	return symbol, nil
}

// ReadLengthNmis returns the read length after trimming 5' mismatches and
// the number of mismatches at the 5' end. The mismatch run is counted on
// the alignment reconstituted from the CIGAR string and the MD tag,
// starting from the read 5' end, i.e. from the alignment end for a
// reverse-strand read.
func ReadLengthNmis(r *sam.Record) (rdlen, nmis int, err error) {
	symbol, err := alnSymbols(r)
	if err != nil {
		return 0, 0, err
	}
	if r.Strand() == -1 {
		for i := len(symbol) - 1; i >= 0; i-- {
			if symbol[i] == symIndel || symbol[i] == symClip {
				continue
			}
			if symbol[i] != symMismatch {
				break
			}
			nmis++
		}
	} else {
		for i := 0; i < len(symbol); i++ {
			if symbol[i] == symIndel || symbol[i] == symClip {
				continue
			}
			if symbol[i] != symMismatch {
				break
			}
			nmis++
		}
	}
	return r.Seq.Length - nmis, nmis, nil
}
