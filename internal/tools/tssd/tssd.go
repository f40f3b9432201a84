// Package tssd calculates read density around transcription start sites.
// TSSs are taken from first exons in a GTF file; overlapping TSS windows
// are dropped. The density is kept separately for reads that represent
// the left and right side of a fragment, which allows estimating the
// fragment size by finding the shift that best superimposes the two
// densities. Note that this tool counts read starts, not coverage.
package tssd

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/biogo/biogo/io/featio/gff"
	"github.com/biogo/biogo/seq"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/wresch/gosr/internal/bamio"
	"github.com/wresch/gosr/internal/dsp"
	"github.com/wresch/gosr/internal/fileio"
	"github.com/wresch/gosr/internal/registry"
)

// margin is the number of extra nucleotides kept on each side of the
// requested window so the left and right densities can be shifted onto
// each other for the fragment size estimate. It is not used when matching
// reads to windows for output.
const margin = 200

// smoothWindow is the width of the order 4 Savitzky-Golay filter applied
// to the output densities.
const smoothWindow = 101

func init() {
	registry.Register(registry.Tool{
		Name:    "tssd",
		Short:   "Calculate read density around TSSs",
		Command: command,
	})
}

type options struct {
	upstream   int
	downstream int
	fragSize   int
}

func command(log *logrus.Entry) *cobra.Command {
	var opts options
	cmd := &cobra.Command{
		Use:   "tssd <bam> <gtf>",
		Short: "Calculate read density around TSSs",
		Long: `Given reads from a bam file, calculate read density around the TSSs
listed in a GTF file (first exons, via the exon_number attribute). The
bam file does not have to be ordered or indexed. Overlapping TSS windows
are dropped. Also estimates the fragment size by calculating the density
separately for the left and right fragment sides and finding the shift
that leads to optimal overlap. Output are pos|density|smoothed|side
lines for the left, right, and combined densities.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, a := range args {
				if err := fileio.CheckInput(a); err != nil {
					return err
				}
			}
			return run(cmd.OutOrStdout(), log, args[0], args[1], opts)
		},
	}
	cmd.Flags().IntVarP(&opts.upstream, "upstream", "u", 2000,
		"nts upstream of the TSS to include")
	cmd.Flags().IntVarP(&opts.downstream, "downstream", "d", 2000,
		"nts downstream of the TSS to include")
	cmd.Flags().IntVarP(&opts.fragSize, "frag-size", "s", -1,
		"pre-determined fragment size; -1 estimates it from the data")
	return cmd
}

func run(w io.Writer, log *logrus.Entry, bamPath, gtfPath string, opts options) error {
	up := opts.upstream + margin
	down := opts.downstream + margin
	log.Infof("Window: <-- %d --TSS-- %d -->", opts.upstream, opts.downstream)

	log.Infof("Parsing GTF file [%s]", gtfPath)
	gtf, err := fileio.Open(gtfPath)
	if err != nil {
		return err
	}
	defer gtf.Close()
	windows, nTSS, err := collectTSS(gtf, up, down, log)
	if err != nil {
		return err
	}

	br, err := bamio.Open(bamPath)
	if err != nil {
		return err
	}
	defer br.Close()
	d, nReads, err := makeDensity(windows, br, up+down+1, log)
	if err != nil {
		return err
	}

	fragSize := opts.fragSize
	if fragSize == -1 {
		fragSize = estimateFragSize(d, margin, log)
	}
	if err := checkFragSize(fragSize); err != nil {
		return err
	}
	return writeDensity(w, d, opts.upstream, fragSize, nTSS, nReads)
}

// checkFragSize rejects fragment sizes whose half-shift would reach
// outside the extra margin kept on each side of the window.
func checkFragSize(fragSize int) error {
	if fragSize/2 > margin {
		return fmt.Errorf("fragment size %d exceeds twice the window margin (%d)", fragSize, 2*margin)
	}
	return nil
}

// window is a TSS region [start, end) on a chromosome; tss is the
// position of the transcription start itself.
type window struct {
	chrom string
	start int
	end   int
	plus  bool
	tss   int
}

// windowSet keeps non-overlapping windows per chromosome, sorted by
// start, and answers point queries.
type windowSet struct {
	byChrom map[string][]window
}

func newWindowSet() *windowSet {
	return &windowSet{byChrom: make(map[string][]window)}
}

func (ws *windowSet) overlaps(w window) bool {
	wins := ws.byChrom[w.chrom]
	i := sort.Search(len(wins), func(i int) bool { return wins[i].end > w.start })
	return i < len(wins) && wins[i].start < w.end
}

func (ws *windowSet) insert(w window) {
	wins := ws.byChrom[w.chrom]
	i := sort.Search(len(wins), func(i int) bool { return wins[i].start >= w.start })
	wins = append(wins, window{})
	copy(wins[i+1:], wins[i:])
	wins[i] = w
	ws.byChrom[w.chrom] = wins
}

// at returns the window containing pos.
func (ws *windowSet) at(chrom string, pos int) (window, bool) {
	wins := ws.byChrom[chrom]
	i := sort.Search(len(wins), func(i int) bool { return wins[i].end > pos })
	if i < len(wins) && wins[i].start <= pos {
		return wins[i], true
	}
	return window{}, false
}

// collectTSS extracts TSSs from first exons in the GTF stream and builds
// the set of non-overlapping TSS windows, extended upstream and
// downstream as requested.
func collectTSS(r io.Reader, up, down int, log *logrus.Entry) (*windowSet, int, error) {
	ws := newWindowSet()
	in := gff.NewReader(r)
	nFeat := 0
	nTSS := 0
	nUsed := 0
	for {
		f, err := in.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, 0, fmt.Errorf("reading gtf: %w", err)
		}
		gf, ok := f.(*gff.Feature)
		if !ok {
			continue
		}
		nFeat++
		if gf.Feature != "exon" || attrValue(gf.FeatAttributes, "exon_number") != "1" {
			continue
		}
		nTSS++
		var w window
		switch gf.FeatStrand {
		case seq.Plus:
			tss := gf.FeatStart
			w = window{chrom: gf.SeqName, start: tss - up, end: tss + down + 1, plus: true, tss: tss}
		case seq.Minus:
			tss := gf.FeatEnd - 1
			w = window{chrom: gf.SeqName, start: tss - down, end: tss + up + 1, plus: false, tss: tss}
		default:
			return nil, 0, fmt.Errorf("bad strand found in GTF file: %v [feature %d]", gf.FeatStrand, nFeat)
		}
		if !ws.overlaps(w) {
			ws.insert(w)
			nUsed++
		}
	}
	log.Infof("found %d TSSs", nTSS)
	log.Infof(" of which %d were used (i.e. non-overlapping)", nUsed)
	if nUsed == 0 {
		return nil, 0, fmt.Errorf("no usable TSSs found in GTF file")
	}
	return ws, nUsed, nil
}

func attrValue(attrs gff.Attributes, tag string) string {
	for _, a := range attrs {
		if a.Tag == tag {
			return strings.Trim(a.Value, `" ;`)
		}
	}
	return ""
}

// density holds read start counts by position in the TSS window,
// separated by the fragment side the read represents: for a plus strand
// feature a plus strand read is a left side, a minus strand read a right
// side, and vice versa for minus strand features.
type density struct {
	left  []float64
	right []float64
}

// alignmentSource is the part of bamio.Reader the density counter needs.
type alignmentSource interface {
	Read() (bamio.Read, error)
}

func makeDensity(ws *windowSet, src alignmentSource, size int, log *logrus.Entry) (*density, int, error) {
	d := &density{
		left:  make([]float64, size),
		right: make([]float64, size),
	}
	nReads := 0
	nOnTSS := 0
	for {
		rd, err := src.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, 0, err
		}
		if !rd.Aligned {
			continue
		}
		nReads++
		pos := rd.Start
		if rd.Reverse {
			pos = rd.End - 1
		}
		w, ok := ws.at(rd.Chrom, pos)
		if !ok {
			continue
		}
		nOnTSS++
		posInWindow := pos - w.tss
		if posInWindow < 0 {
			posInWindow = -posInWindow
		}
		if posInWindow >= size {
			return nil, 0, fmt.Errorf("read position %s:%d is %d nts from TSS at %d, outside the %d nt window",
				rd.Chrom, pos, posInWindow, w.tss, size)
		}
		if w.plus == !rd.Reverse {
			d.left[posInWindow]++
		} else {
			d.right[posInWindow]++
		}
	}
	log.Infof("Reads processed: %9d", nReads)
	log.Infof("Reads on tss:    %9d", nOnTSS)
	if nReads == 0 {
		return nil, 0, fmt.Errorf("no aligned reads found")
	}
	return d, nReads, nil
}

func dist(x, y []float64) float64 {
	var s float64
	for i := range x {
		diff := x[i] - y[i]
		s += diff * diff
	}
	return math.Sqrt(s)
}

// estimateFragSize shifts the right density onto the left one until the
// two peaks reach maximal similarity; the optimal shift times two is the
// fragment size estimate.
func estimateFragSize(d *density, extra int, log *logrus.Entry) int {
	n := len(d.left) - 2*extra - 1
	bestShift := 0
	bestDist := math.Inf(1)
	nTies := 0
	for i := 0; i <= extra; i++ {
		b1 := extra - i + 1
		b2 := extra + i + 1
		dd := dist(d.left[b1:b1+n], d.right[b2:b2+n])
		switch {
		case dd < bestDist:
			bestDist = dd
			bestShift = i
			nTies = 0
		case dd == bestDist:
			nTies++
		}
	}
	if nTies > 0 {
		log.Warnf("more than one possible shift size near %d", bestShift)
	}
	log.Infof("Inferred fragment size estimate: %d", bestShift*2)
	return bestShift * 2
}

// writeDensity normalizes the densities to reads per TSS per billion
// mapped reads, smooths them, and writes pos|density|smoothed|side lines
// for the left, right, and combined densities.
func writeDensity(w io.Writer, d *density, up, fragSize, nTSS, nReads int) error {
	n := len(d.left) - 2*margin - 1

	scale := func(counts []float64) []float64 {
		out := make([]float64, len(counts))
		f := 1e9 / float64(nReads) / float64(nTSS)
		for i, c := range counts {
			out[i] = c * f
		}
		return out
	}
	emit := func(vals []float64, from int, side string) error {
		smooth, err := dsp.SavitzkyGolay(vals, smoothWindow, 4)
		if err != nil {
			return err
		}
		for i := 0; i < n; i++ {
			pos := -up + i
			if _, err := fmt.Fprintf(w, "%d|%s|%s|%s\n",
				pos,
				strconv.FormatFloat(vals[from+i], 'g', -1, 64),
				strconv.FormatFloat(smooth[from+i], 'g', -1, 64),
				side); err != nil {
				return err
			}
		}
		return nil
	}

	left := scale(d.left)
	if err := emit(left, margin, "left"); err != nil {
		return err
	}
	right := scale(d.right)
	if err := emit(right, margin, "right"); err != nil {
		return err
	}

	combined := make([]float64, len(left))
	cs := margin + 1
	ls := margin - fragSize/2 + 1
	rs := margin + fragSize/2 + 1
	for i := 0; i < n; i++ {
		combined[cs+i] = left[ls+i] + right[rs+i]
	}
	return emit(combined, margin, "combined")
}
