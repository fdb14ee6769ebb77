//
// Copyright (C) 2016-2022 the ORF-RATER authors
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://www.mozilla.org/MPL/2.0/.
//

package tally

import (
	"fmt"
	"os"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4"
)

type genericWriter interface {
	Write(buf []byte) (n int, err error)
	Close() error
}

type fileWriter struct {
	*os.File
}

func (w fileWriter) Close() error {
	return nil
}

// openWriter creates the output file for a "format" or "format+zip" format
// string. Supported zips are "lz4", "lz4hc" and "zst".
func openWriter(opath, format string) (*os.File, genericWriter, error) {
	var formatZip string
	if strings.Contains(format, "+") {
		doubleFormat := strings.Split(format, "+")
		format, formatZip = doubleFormat[0], doubleFormat[1]
	}
	if format != "tab" {
		return nil, nil, fmt.Errorf("tally: unknown output format %q", format)
	}
	f, err := os.OpenFile(opath, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0666)
	if err != nil {
		return nil, nil, err
	}
	var writer genericWriter
	switch formatZip {
	case "lz4":
		writer = lz4.NewWriter(f)
	case "lz4hc":
		lzWriter := lz4.NewWriter(f)
		lzWriter.Header = lz4.Header{CompressionLevel: 9}
		writer = lzWriter
	case "zst":
		zWriter, err := zstd.NewWriter(f)
		if err != nil {
			f.Close()
			return nil, nil, err
		}
		writer = zWriter
	case "":
		writer = fileWriter{f}
	default:
		f.Close()
		return nil, nil, fmt.Errorf("tally: unknown compression %q", formatZip)
	}
	return f, writer, nil
}

// WriteOffsets writes the offset table, one "readLength<TAB>offset" line
// per read length.
func WriteOffsets(offsets []Offset, opath, format string) error {
	f, writer, err := openWriter(opath, format)
	if err != nil {
		return err
	}
	for _, o := range offsets {
		if _, err := fmt.Fprintf(writer, "%d\t%d\n", o.ReadLength, o.Offset); err != nil {
			writer.Close()
			f.Close()
			return err
		}
	}
	if err := writer.Close(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// WriteTally writes one line per read length: the read length followed by
// the count at every mismatch-adjusted offset from 0 to MaxLen-1.
func WriteTally(m *Matrix, tpath, format string) error {
	f, writer, err := openWriter(tpath, format)
	if err != nil {
		return err
	}
	for rdlen := m.MinLen; rdlen <= m.MaxLen; rdlen++ {
		if _, err := fmt.Fprintf(writer, "%d", rdlen); err != nil {
			writer.Close()
			f.Close()
			return err
		}
		for _, c := range m.Row(rdlen) {
			if _, err := fmt.Fprintf(writer, "\t%d", c); err != nil {
				writer.Close()
				f.Close()
				return err
			}
		}
		if _, err := fmt.Fprint(writer, "\n"); err != nil {
			writer.Close()
			f.Close()
			return err
		}
	}
	if err := writer.Close(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
