package tssd

import (
	"io"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/wresch/gosr/internal/bamio"
)

func discardLog() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return logrus.NewEntry(l)
}

func TestWindowSet(t *testing.T) {
	ws := newWindowSet()
	a := window{chrom: "chr1", start: 10, end: 20, plus: true, tss: 15}
	b := window{chrom: "chr1", start: 20, end: 30, plus: false, tss: 25}

	if ws.overlaps(a) {
		t.Error("empty set must not overlap anything")
	}
	ws.insert(a)
	ws.insert(b)

	if ws.overlaps(window{chrom: "chr1", start: 15, end: 25}) != true {
		t.Error("window spanning a and b must overlap")
	}
	if ws.overlaps(window{chrom: "chr1", start: 30, end: 40}) {
		t.Error("adjacent window must not overlap")
	}
	if ws.overlaps(window{chrom: "chr2", start: 10, end: 20}) {
		t.Error("other chromosome must not overlap")
	}

	if w, ok := ws.at("chr1", 19); !ok || w.tss != 15 {
		t.Errorf("at(19) = %v, %v; want window a", w, ok)
	}
	if w, ok := ws.at("chr1", 20); !ok || w.tss != 25 {
		t.Errorf("at(20) = %v, %v; want window b", w, ok)
	}
	if _, ok := ws.at("chr1", 9); ok {
		t.Error("at(9) must miss")
	}
	if _, ok := ws.at("chr1", 30); ok {
		t.Error("at(30) must miss")
	}
}

func TestWindowSet_InsertKeepsOrder(t *testing.T) {
	ws := newWindowSet()
	ws.insert(window{chrom: "chr1", start: 100, end: 110})
	ws.insert(window{chrom: "chr1", start: 10, end: 20})
	ws.insert(window{chrom: "chr1", start: 50, end: 60})
	wins := ws.byChrom["chr1"]
	for i := 1; i < len(wins); i++ {
		if wins[i-1].start >= wins[i].start {
			t.Fatalf("windows not sorted by start: %v", wins)
		}
	}
}

const sampleGTF = `chr1	test	exon	1001	1200	.	+	.	gene_id "g1"; exon_number "1";
chr1	test	exon	1301	1400	.	+	.	gene_id "g1"; exon_number "2";
chr1	test	CDS	1001	1200	.	+	.	gene_id "g1"; exon_number "1";
chr1	test	exon	2001	2200	.	-	.	gene_id "g2"; exon_number "1";
chr1	test	exon	1005	1210	.	+	.	gene_id "g3"; exon_number "1";
`

func TestCollectTSS(t *testing.T) {
	ws, nTSS, err := collectTSS(strings.NewReader(sampleGTF), 10, 10, discardLog())
	if err != nil {
		t.Fatal(err)
	}
	// g3's window overlaps g1's and is dropped.
	if nTSS != 2 {
		t.Fatalf("nTSS = %d, want 2", nTSS)
	}

	// g1: plus strand, TSS at 0-based 1000.
	if w, ok := ws.at("chr1", 1000); !ok || w.tss != 1000 || !w.plus || w.start != 990 || w.end != 1011 {
		t.Errorf("g1 window = %+v, %v", w, ok)
	}
	// g2: minus strand, TSS at the last base, 0-based 2199.
	if w, ok := ws.at("chr1", 2199); !ok || w.tss != 2199 || w.plus || w.start != 2189 || w.end != 2210 {
		t.Errorf("g2 window = %+v, %v", w, ok)
	}
}

func TestCollectTSS_NoTSS(t *testing.T) {
	gtf := "chr1\ttest\tCDS\t1001\t1200\t.\t+\t.\tgene_id \"g1\";\n"
	if _, _, err := collectTSS(strings.NewReader(gtf), 10, 10, discardLog()); err == nil {
		t.Error("expected error when the GTF holds no first exons")
	}
}

// fakeSource replays a fixed list of alignments.
type fakeSource struct {
	reads []bamio.Read
	i     int
}

func (s *fakeSource) Read() (bamio.Read, error) {
	if s.i >= len(s.reads) {
		return bamio.Read{}, io.EOF
	}
	r := s.reads[s.i]
	s.i++
	return r, nil
}

func TestMakeDensity(t *testing.T) {
	ws := newWindowSet()
	ws.insert(window{chrom: "chr1", start: 90, end: 111, plus: true, tss: 100})

	src := &fakeSource{reads: []bamio.Read{
		// forward read starting 5 nt upstream of the TSS: left side
		{Chrom: "chr1", Start: 95, End: 145, SeqLen: 50, Aligned: true},
		// reverse read ending 5 nt downstream: right side
		{Chrom: "chr1", Start: 56, End: 106, SeqLen: 50, Reverse: true, Aligned: true},
		// aligned but off-window
		{Chrom: "chr1", Start: 300, End: 350, SeqLen: 50, Aligned: true},
		// unmapped
		{Aligned: false},
	}}

	d, nReads, err := makeDensity(ws, src, 21, discardLog())
	if err != nil {
		t.Fatal(err)
	}
	if nReads != 3 {
		t.Errorf("nReads = %d, want 3", nReads)
	}
	if d.left[5] != 1 {
		t.Errorf("left[5] = %v, want 1", d.left[5])
	}
	if d.right[5] != 1 {
		t.Errorf("right[5] = %v, want 1", d.right[5])
	}
	var total float64
	for i := range d.left {
		total += d.left[i] + d.right[i]
	}
	if total != 2 {
		t.Errorf("total counted reads = %v, want 2", total)
	}
}

func TestMakeDensity_MinusStrandWindowSwapsSides(t *testing.T) {
	ws := newWindowSet()
	ws.insert(window{chrom: "chr1", start: 90, end: 111, plus: false, tss: 100})

	src := &fakeSource{reads: []bamio.Read{
		// a reverse read is the left fragment side of a minus strand feature
		{Chrom: "chr1", Start: 56, End: 106, SeqLen: 50, Reverse: true, Aligned: true},
	}}
	d, _, err := makeDensity(ws, src, 21, discardLog())
	if err != nil {
		t.Fatal(err)
	}
	if d.left[5] != 1 || d.right[5] != 0 {
		t.Errorf("left[5] = %v, right[5] = %v; want 1, 0", d.left[5], d.right[5])
	}
}

func TestMakeDensity_NoReads(t *testing.T) {
	ws := newWindowSet()
	if _, _, err := makeDensity(ws, &fakeSource{}, 21, discardLog()); err == nil {
		t.Error("expected error for empty bam stream")
	}
}

func TestEstimateFragSize(t *testing.T) {
	const extra = 5
	const n = 10
	size := 2*extra + n + 1
	d := &density{
		left:  make([]float64, size),
		right: make([]float64, size),
	}
	pattern := []float64{1, 2, 3, 4, 5, 4, 3, 2, 1}
	for k, v := range pattern {
		d.left[4+k] = v
		d.right[8+k] = v // right density shifted by 4
	}
	if got := estimateFragSize(d, extra, discardLog()); got != 4 {
		t.Errorf("estimateFragSize = %d, want 4", got)
	}
}

func TestEstimateFragSize_NoShift(t *testing.T) {
	const extra = 5
	const n = 10
	size := 2*extra + n + 1
	d := &density{
		left:  make([]float64, size),
		right: make([]float64, size),
	}
	for i := 6; i < 6+n; i++ {
		d.left[i] = float64(i % 3)
		d.right[i] = float64(i % 3)
	}
	if got := estimateFragSize(d, extra, discardLog()); got != 0 {
		t.Errorf("estimateFragSize = %d, want 0", got)
	}
}

func TestCheckFragSize(t *testing.T) {
	if err := checkFragSize(2 * margin); err != nil {
		t.Errorf("fragment size at the limit must pass: %v", err)
	}
	err := checkFragSize(2*margin + 2)
	if err == nil {
		t.Fatal("expected error above the limit")
	}
	if !strings.Contains(err.Error(), "twice the window margin (400)") {
		t.Errorf("unexpected message: %v", err)
	}
}

func TestWriteDensity(t *testing.T) {
	const n = 10
	size := 2*margin + n + 1
	d := &density{
		left:  make([]float64, size),
		right: make([]float64, size),
	}
	d.left[margin+3] = 4
	d.right[margin+7] = 2

	var sb strings.Builder
	if err := writeDensity(&sb, d, 5, 0, 2, 1000); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(sb.String()), "\n")
	if len(lines) != 3*n {
		t.Fatalf("got %d lines, want %d", len(lines), 3*n)
	}
	if !strings.HasPrefix(lines[0], "-5|") || !strings.HasSuffix(lines[0], "|left") {
		t.Errorf("first line = %q", lines[0])
	}
	if !strings.HasSuffix(lines[n], "|right") {
		t.Errorf("line %d = %q, want right side", n, lines[n])
	}
	if !strings.HasSuffix(lines[2*n], "|combined") {
		t.Errorf("line %d = %q, want combined side", 2*n, lines[2*n])
	}
	// scale: 1e9 / nReads / nTSS = 1e9/1000/2 = 5e5; left[margin+3] is 4 reads.
	if want := "-2|2e+06|"; !strings.HasPrefix(lines[3], want) {
		t.Errorf("line 3 = %q, want prefix %q", lines[3], want)
	}
}
