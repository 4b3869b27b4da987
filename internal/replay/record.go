// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package replay reads and writes the textual operation log used to
// reconstruct and evaluate a benchmark run after the fact: one line per
// push or extract, including extract attempts that found nothing, in the
// format
//
//	i thread_id tick key insert_thread_id elem_id
//	d thread_id tick key insert_thread_id elem_id
//	f thread_id tick
//
// Both "i" and "d" lines share the same five fields. For an "i" line,
// insert_thread_id always equals thread_id and elem_id is the sequential
// index of this push among every push thread_id has made so far (its
// position within that thread's own insertion history). For a "d" line,
// insert_thread_id and elem_id instead identify which earlier push this
// extraction resolves — the thread that pushed it and that push's
// elem_id — which need not be the extracting thread_id, since any thread
// may extract a value any other thread pushed. Together
// {insert_thread_id, elem_id} is the identity the quality evaluator
// joins insertions to deletions on. An "f" line records an extract
// attempt by thread_id that returned nothing; the quality evaluator
// counts these as failed extractions.
//
// This package is never imported by the core queue package; it exists
// purely to drive and analyze benchmark runs (see
// code.hybscloud.com/mq/internal/quality and code.hybscloud.com/mq/cmd/mqbench).
package replay

import (
	"bufio"
	"fmt"
	"io"
)

// Op identifies which kind of operation a Record describes.
type Op byte

const (
	OpInsert Op = 'i'
	OpDelete Op = 'd'
	OpFlush  Op = 'f'
)

// Record is one line of the operation log.
type Record struct {
	Op             Op
	ThreadID       uint32
	Tick           uint64
	Key            uint64
	InsertThreadID uint32 // thread that originally pushed this value
	ElemID         uint32 // that push's sequential index within InsertThreadID's own history
}

// Writer appends Records to the log in the textual format described in
// the package doc.
type Writer struct {
	w *bufio.Writer
}

func NewWriter(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriter(w)}
}

// WriteInsert appends an "i" record. elemID is the sequential index of
// this push among threadID's own pushes (0, 1, 2, ... in push order).
func (wr *Writer) WriteInsert(threadID uint32, tick, key uint64, elemID uint32) error {
	_, err := fmt.Fprintf(wr.w, "%c %d %d %d %d %d\n", OpInsert, threadID, tick, key, threadID, elemID)
	return err
}

// WriteDelete appends a "d" record. insThreadID and elemID identify the
// push this extraction resolves, not the extracting thread.
func (wr *Writer) WriteDelete(threadID uint32, tick, key uint64, insThreadID uint32, elemID uint32) error {
	_, err := fmt.Fprintf(wr.w, "%c %d %d %d %d %d\n", OpDelete, threadID, tick, key, insThreadID, elemID)
	return err
}

// WriteFlush appends an "f" record: an extract attempt by threadID that
// found nothing.
func (wr *Writer) WriteFlush(threadID uint32, tick uint64) error {
	_, err := fmt.Fprintf(wr.w, "%c %d %d\n", OpFlush, threadID, tick)
	return err
}

// Flush flushes any buffered log data to the underlying writer.
func (wr *Writer) Flush() error {
	return wr.w.Flush()
}

// Reader reads Records back out of the textual log format.
type Reader struct {
	s *bufio.Scanner
}

func NewReader(r io.Reader) *Reader {
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	return &Reader{s: s}
}

// Next reads the next Record. It returns io.EOF once the log is
// exhausted.
func (rd *Reader) Next() (Record, error) {
	if !rd.s.Scan() {
		if err := rd.s.Err(); err != nil {
			return Record{}, err
		}
		return Record{}, io.EOF
	}
	line := rd.s.Text()
	var rec Record
	var op byte
	switch {
	case len(line) > 0 && line[0] == byte(OpInsert):
		n, err := fmt.Sscanf(line, "%c %d %d %d %d %d", &op, &rec.ThreadID, &rec.Tick, &rec.Key, &rec.InsertThreadID, &rec.ElemID)
		if err != nil || n != 6 {
			return Record{}, fmt.Errorf("replay: malformed insert record %q: %w", line, err)
		}
		rec.Op = OpInsert
	case len(line) > 0 && line[0] == byte(OpDelete):
		n, err := fmt.Sscanf(line, "%c %d %d %d %d %d", &op, &rec.ThreadID, &rec.Tick, &rec.Key, &rec.InsertThreadID, &rec.ElemID)
		if err != nil || n != 6 {
			return Record{}, fmt.Errorf("replay: malformed delete record %q: %w", line, err)
		}
		rec.Op = OpDelete
	case len(line) > 0 && line[0] == byte(OpFlush):
		n, err := fmt.Sscanf(line, "%c %d %d", &op, &rec.ThreadID, &rec.Tick)
		if err != nil || n != 3 {
			return Record{}, fmt.Errorf("replay: malformed flush record %q: %w", line, err)
		}
		rec.Op = OpFlush
	default:
		return Record{}, fmt.Errorf("replay: unrecognized record %q", line)
	}
	return rec, nil
}

// ReadAll drains the reader, returning every record in order.
func (rd *Reader) ReadAll() ([]Record, error) {
	var recs []Record
	for {
		rec, err := rd.Next()
		if err == io.EOF {
			return recs, nil
		}
		if err != nil {
			return recs, err
		}
		recs = append(recs, rec)
	}
}
