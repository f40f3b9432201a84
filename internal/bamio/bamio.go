// Package bamio wraps BAM input for the density tools. It narrows each
// alignment down to the handful of fields the tools bin on.
package bamio

import (
	"fmt"
	"io"

	"github.com/biogo/hts/bam"
	"github.com/biogo/hts/sam"

	"github.com/wresch/gosr/internal/fileio"
)

// Read is one alignment. Start and End are 0-based with End exclusive;
// SeqLen is the read length as stored in the record.
type Read struct {
	Chrom   string
	RefID   int
	Start   int
	End     int
	SeqLen  int
	Reverse bool
	Aligned bool
}

// Reader streams alignments from a BAM file, "-" for stdin.
type Reader struct {
	rc io.ReadCloser
	br *bam.Reader
}

func Open(path string) (*Reader, error) {
	rc, err := fileio.Open(path)
	if err != nil {
		return nil, err
	}
	br, err := bam.NewReader(rc, 0)
	if err != nil {
		rc.Close()
		return nil, fmt.Errorf("opening bam %s: %w", path, err)
	}
	return &Reader{rc: rc, br: br}, nil
}

// ChromLens returns the reference names and lengths from the BAM header.
func (r *Reader) ChromLens() map[string]int64 {
	refs := r.br.Header().Refs()
	out := make(map[string]int64, len(refs))
	for _, ref := range refs {
		out[ref.Name()] = int64(ref.Len())
	}
	return out
}

// Read returns the next alignment or io.EOF.
func (r *Reader) Read() (Read, error) {
	rec, err := r.br.Read()
	if err != nil {
		if err == io.EOF {
			return Read{}, io.EOF
		}
		return Read{}, fmt.Errorf("reading bam: %w", err)
	}
	rd := Read{
		RefID:   rec.RefID(),
		SeqLen:  rec.Seq.Length,
		Reverse: rec.Flags&sam.Reverse != 0,
		Aligned: rec.Flags&sam.Unmapped == 0 && rec.Ref != nil,
	}
	if rd.Aligned {
		rd.Chrom = rec.Ref.Name()
		rd.Start = rec.Pos
		rd.End = rec.End()
	}
	return rd, nil
}

func (r *Reader) Close() error {
	berr := r.br.Close()
	cerr := r.rc.Close()
	if berr != nil {
		return berr
	}
	return cerr
}
