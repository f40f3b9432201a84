// Package binbam calculates the density of reads in fixed-size bins
// across the genome from a bam file. Output units are RPKM, written as
// 1-based variableStep wiggle tracks on stdout.
//
// The input must be coordinate sorted: redundancy removal groups
// consecutive alignments that share a start position. chrM and gapped or
// local alignments (aligned length differing from the read length) are
// ignored.
package binbam

import (
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/wresch/gosr/internal/bamio"
	"github.com/wresch/gosr/internal/dsp"
	"github.com/wresch/gosr/internal/fileio"
	"github.com/wresch/gosr/internal/registry"
)

func init() {
	registry.Register(registry.Tool{
		Name:    "binbam",
		Short:   "Create a density track of reads in bins from a bam file",
		Command: command,
	})
}

type options struct {
	fragSize    int
	nRedundancy int
	sgWindow    int
	byStrand    bool
	trackLine   string
}

func command(log *logrus.Entry) *cobra.Command {
	var opts options
	cmd := &cobra.Command{
		Use:   "binbam <bam> <binsize> <name>",
		Short: "Create a density track of reads in bins from a bam file",
		Long: `Calculate density of reads in bins across the genome from a bam file.
Output units are RPKM in 1-based variableStep wiggle format on stdout.
The bam file has to be coordinate sorted; use '-' to read from stdin.
chrM and gapped or local alignments are ignored.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := fileio.CheckInput(args[0]); err != nil {
				return err
			}
			binsize, err := strconv.Atoi(args[1])
			if err != nil || binsize <= 0 {
				return fmt.Errorf("binsize must be a positive integer, got %q", args[1])
			}
			return run(cmd.OutOrStdout(), log, args[0], binsize, args[2], opts)
		},
	}
	cmd.Flags().IntVarP(&opts.fragSize, "frag-size", "f", 0,
		"size of fragments; reads are shifted by half the fragment size")
	cmd.Flags().IntVarP(&opts.nRedundancy, "n-redundancy", "n", 3,
		"number of identical alignments allowed per position and strand")
	cmd.Flags().IntVar(&opts.sgWindow, "sg", 0,
		"if greater than 0, smooth with an order 2 Savitzky-Golay filter of this window size (in bins)")
	cmd.Flags().BoolVarP(&opts.byStrand, "by-strand", "s", false,
		"output separate densities by strand")
	cmd.Flags().StringVarP(&opts.trackLine, "track-line", "t", "",
		"extra options appended to the always-included track line")
	return cmd
}

func run(w io.Writer, log *logrus.Entry, bamPath string, binsize int, name string, opts options) error {
	br, err := bamio.Open(bamPath)
	if err != nil {
		return err
	}
	defer br.Close()

	log.Info("Start binning process")
	log.Infof(" allowing up to %d redundant reads", opts.nRedundancy)
	if opts.byStrand {
		log.Info("Reporting separate densities for each strand")
	}
	log.Infof("Track name: %s", name)
	log.Infof("Track line extra options: %q", opts.trackLine)
	if opts.sgWindow > 0 {
		log.Infof("Smoothing output with savitzky-golay filter, order 2, width %d bins", opts.sgWindow)
	}

	b := newBinner(br.ChromLens(), binsize, opts.fragSize, opts.nRedundancy, opts.byStrand, log)
	for {
		rd, err := br.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		b.add(rd)
	}
	factor, err := b.finish()
	if err != nil {
		return err
	}
	log.Info("DONE")

	if opts.sgWindow > 0 {
		if err := b.smooth(opts.sgWindow); err != nil {
			return err
		}
	}
	return b.writeWiggle(w, factor, name, opts.trackLine)
}

// binner accumulates per-chromosome bin counts. Alignments arrive in
// coordinate order and are buffered per (reference, position) group so
// redundant alignments beyond the cap can be dropped per strand.
type binner struct {
	binsize     int
	shift       int
	nRedundancy int
	byStrand    bool
	log         *logrus.Entry

	// bins holds the single track, or the plus strand track when
	// byStrand is set; minusBins is only used with byStrand.
	bins      map[string][]float64
	minusBins map[string][]float64

	group    []bamio.Read
	groupRef int
	groupPos int

	nAln   int64
	nRmred int64
	nIgno  int64
}

func newBinner(chromLens map[string]int64, binsize, fragSize, nRedundancy int, byStrand bool, log *logrus.Entry) *binner {
	b := &binner{
		binsize:     binsize,
		shift:       fragSize / 2,
		nRedundancy: nRedundancy,
		byStrand:    byStrand,
		log:         log,
		bins:        make(map[string][]float64, len(chromLens)),
		groupRef:    -1,
	}
	if byStrand {
		b.minusBins = make(map[string][]float64, len(chromLens))
	}
	for chrom, l := range chromLens {
		n := l / int64(binsize) // reads in a trailing partial bin are discarded
		b.bins[chrom] = make([]float64, n)
		if byStrand {
			b.minusBins[chrom] = make([]float64, n)
		}
	}
	return b
}

func (b *binner) add(r bamio.Read) {
	if !r.Aligned {
		return
	}
	b.nAln++
	if r.RefID != b.groupRef || r.Start != b.groupPos {
		b.flush()
		b.groupRef = r.RefID
		b.groupPos = r.Start
	}
	b.group = append(b.group, r)
}

// flush applies the redundancy cap to the buffered position group and
// counts the survivors into bins.
func (b *binner) flush() {
	var nPlus, nMinus int
	for _, r := range b.group {
		if r.Reverse {
			nMinus++
			if nMinus > b.nRedundancy {
				continue
			}
		} else {
			nPlus++
			if nPlus > b.nRedundancy {
				continue
			}
		}
		b.count(r)
	}
	b.group = b.group[:0]
}

func (b *binner) count(r bamio.Read) {
	if r.Chrom == "chrM" {
		b.nIgno++
		return
	}
	// Gapped alignments are not binned, but they do count toward the
	// normalization divisor.
	b.nRmred++
	if r.End-r.Start != r.SeqLen {
		b.log.Debug("Not an end-to-end alignment, or alignment gapped")
		b.log.Debugf("%s:%d-%d (len %d)", r.Chrom, r.Start, r.End, r.SeqLen)
		b.nIgno++
		return
	}
	var binNr int
	if !r.Reverse {
		binNr = (r.Start + b.shift) / b.binsize
	} else {
		binNr = (r.End - 1 - b.shift) / b.binsize
	}
	bins := b.bins[r.Chrom]
	if b.byStrand && r.Reverse {
		bins = b.minusBins[r.Chrom]
	}
	if binNr < 0 || binNr >= len(bins) {
		b.log.Debugf("BIN OUT OF RANGE: %s: pos[%d] -> bin[%d]", r.Chrom, r.Start, binNr)
		return
	}
	bins[binNr]++
}

// finish flushes the last group and returns the RPKM normalization factor.
func (b *binner) finish() (float64, error) {
	b.flush()
	if b.nRmred == 0 {
		return 0, fmt.Errorf("no usable alignments found")
	}
	factor := (1e6 / float64(b.nRmred)) * (1000.0 / float64(b.binsize))
	b.log.Infof("Aligned reads:                %8d", b.nAln)
	b.log.Infof(" after removing redundancy:   %8d", b.nRmred)
	b.log.Infof(" normalization factor:        %f", factor)
	b.log.Infof("Ignored reads:                %8d", b.nIgno)
	return factor, nil
}

func (b *binner) smooth(window int) error {
	for chrom := range b.bins {
		s, err := dsp.SavitzkyGolay(b.bins[chrom], window, 2)
		if err != nil {
			return fmt.Errorf("smoothing %s: %w", chrom, err)
		}
		b.bins[chrom] = s
		if b.byStrand {
			s, err = dsp.SavitzkyGolay(b.minusBins[chrom], window, 2)
			if err != nil {
				return fmt.Errorf("smoothing %s: %w", chrom, err)
			}
			b.minusBins[chrom] = s
		}
	}
	return nil
}

// writeWiggle writes all non-empty bins in 1-based variableStep wiggle
// format, one track per strand when byStrand is set; the minus strand
// track is negated.
func (b *binner) writeWiggle(w io.Writer, factor float64, name, extra string) error {
	if !b.byStrand {
		return writeTrack(w, b.bins, b.binsize, factor, name, extra)
	}
	if err := writeTrack(w, b.bins, b.binsize, factor, name+"[+]", extra); err != nil {
		return err
	}
	return writeTrack(w, b.minusBins, b.binsize, -factor, name+"[-]", extra)
}

func writeTrack(w io.Writer, bins map[string][]float64, binsize int, factor float64, name, extra string) error {
	if extra != "" {
		extra = " " + extra
	}
	if _, err := fmt.Fprintf(w,
		"track type=wiggle_0 alwaysZero=on visibility=full maxHeightPixels=100:80:50 name='%s'%s\n",
		name, extra); err != nil {
		return err
	}
	chroms := make([]string, 0, len(bins))
	for chrom := range bins {
		chroms = append(chroms, chrom)
	}
	sort.Strings(chroms)
	for _, chrom := range chroms {
		if _, err := fmt.Fprintf(w, "variableStep chrom=%s span=%d\n", chrom, binsize); err != nil {
			return err
		}
		for i, v := range bins[chrom] {
			if v > 0 {
				if _, err := fmt.Fprintf(w, "%d\t%.8f\n", i*binsize+1, v*factor); err != nil {
					return err
				}
			}
		}
	}
	return nil
}
