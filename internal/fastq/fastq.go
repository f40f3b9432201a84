// Package fastq reads and writes four-line FASTQ records.
package fastq

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Record is one read: the identifier without the leading @, the bases, and
// the quality string, which always has the same length as Seq.
type Record struct {
	ID   string
	Seq  string
	Qual string
}

// Reader yields records from a FASTQ stream.
type Reader struct {
	s    *bufio.Scanner
	line int
}

func NewReader(r io.Reader) *Reader {
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 0, 64*1024), 8*1024*1024)
	return &Reader{s: s}
}

// Read returns the next record, or io.EOF when the stream is exhausted.
// A record truncated mid-way or with mismatched framing is an error.
func (r *Reader) Read() (Record, error) {
	var lines [4]string
	for i := 0; i < 4; i++ {
		if !r.s.Scan() {
			if err := r.s.Err(); err != nil {
				return Record{}, err
			}
			if i == 0 {
				return Record{}, io.EOF
			}
			return Record{}, fmt.Errorf("truncated fastq record after line %d", r.line)
		}
		r.line++
		lines[i] = r.s.Text()
	}
	if !strings.HasPrefix(lines[0], "@") {
		return Record{}, fmt.Errorf("line %d: fastq header must start with @, got %q", r.line-3, lines[0])
	}
	if !strings.HasPrefix(lines[2], "+") {
		return Record{}, fmt.Errorf("line %d: fastq separator must start with +, got %q", r.line-1, lines[2])
	}
	rec := Record{
		ID:   lines[0][1:],
		Seq:  lines[1],
		Qual: lines[3],
	}
	if len(rec.Seq) != len(rec.Qual) {
		return Record{}, fmt.Errorf("line %d: sequence and quality lengths differ (%d != %d)",
			r.line, len(rec.Seq), len(rec.Qual))
	}
	return rec, nil
}

// Write writes rec in four-line form.
func Write(w io.Writer, rec Record) error {
	_, err := fmt.Fprintf(w, "@%s\n%s\n+\n%s\n", rec.ID, rec.Seq, rec.Qual)
	return err
}
