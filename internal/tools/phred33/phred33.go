// Package phred33 converts fastq quality scores from old solexa or
// phred64 encodings to phred33.
//
// For solexa scores the conversion is
//
//	Qp = Qs + 10*log10(1 + 10^(Qs/-10))
//
// phred64 is a simple shift. The phred33+ mode caps quality values at 40,
// as recent illumina output exceeds it; input up to Q45 is handled.
package phred33

import (
	"bufio"
	"fmt"
	"io"
	"math"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/wresch/gosr/internal/fastq"
	"github.com/wresch/gosr/internal/fileio"
	"github.com/wresch/gosr/internal/registry"
)

func init() {
	registry.Register(registry.Tool{
		Name:    "fastq-to-phred33",
		Short:   "Convert solexa or phred64 quality scores to phred33",
		Command: command,
	})
}

var tables = map[string][256]byte{
	"phred64":  phred64Table(),
	"solexa":   solexaTable(),
	"phred33+": phred33PlusTable(),
}

func command(log *logrus.Entry) *cobra.Command {
	return &cobra.Command{
		Use:       "fastq-to-phred33 <score-type> <fastq>",
		Short:     "Convert solexa or phred64 quality scores to phred33",
		Long: `Read fastq and convert quality scores from old solexa scores or phred64
to phred33. The score-type argument names the current encoding: phred64,
solexa, or phred33+ (caps quality values at 40). The fastq file can be
gzip'ed; use '-' to read from stdin. Output goes to stdout.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			table, ok := tables[args[0]]
			if !ok {
				return fmt.Errorf("unknown score type %q (choose phred64, solexa, or phred33+)", args[0])
			}
			if err := fileio.CheckInput(args[1]); err != nil {
				return err
			}
			rc, err := fileio.Open(args[1])
			if err != nil {
				return err
			}
			defer rc.Close()
			log.Infof("Converting %s quality scores to phred33", args[0])
			return run(cmd.OutOrStdout(), rc, &table)
		},
	}
}

func run(w io.Writer, r io.Reader, table *[256]byte) error {
	out := bufio.NewWriter(w)
	fr := fastq.NewReader(r)
	for {
		rec, err := fr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		rec.Qual = translate(rec.Qual, table)
		if err := fastq.Write(out, rec); err != nil {
			return err
		}
	}
	return out.Flush()
}

func translate(qual string, table *[256]byte) string {
	b := make([]byte, len(qual))
	for i := 0; i < len(qual); i++ {
		b[i] = table[qual[i]]
	}
	return string(b)
}

func identity() [256]byte {
	var t [256]byte
	for i := range t {
		t[i] = byte(i)
	}
	return t
}

// phred64Table shifts the phred64 letters '@'..'~' down to phred33.
func phred64Table() [256]byte {
	t := identity()
	for c := '@'; c <= '~'; c++ {
		t[c] = byte(c - 31)
	}
	return t
}

// solexaTable maps the solexa letters ';'..'~' to phred33 using the
// solexa-to-phred conversion formula.
func solexaTable() [256]byte {
	t := identity()
	for c := ';'; c <= '~'; c++ {
		qs := float64(c - 64)
		qp := qs + 10*math.Log10(1+math.Pow(10, qs/-10))
		t[c] = byte(33 + int(math.Round(qp)))
	}
	return t
}

// phred33PlusTable caps 'J'..'N' (Q41..Q45) at 'I' (Q40).
func phred33PlusTable() [256]byte {
	t := identity()
	for c := 'J'; c <= 'N'; c++ {
		t[c] = 'I'
	}
	return t
}
