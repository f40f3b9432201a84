// Package scoretype determines the quality score type of a fastq file
// from the first few thousand sequences.
package scoretype

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/wresch/gosr/internal/fastq"
	"github.com/wresch/gosr/internal/fileio"
	"github.com/wresch/gosr/internal/registry"
)

// sampleSize is the number of reads inspected before guessing.
const sampleSize = 5000

func init() {
	registry.Register(registry.Tool{
		Name:    "fastq-score-type",
		Short:   "Determine score type for fastq file",
		Command: command,
	})
}

func command(log *logrus.Entry) *cobra.Command {
	return &cobra.Command{
		Use:   "fastq-score-type <fastq>",
		Short: "Determine score type for fastq file",
		Long: `Determine the quality score type of a fastq file based on the first few
thousand sequences. The file can be gzip'ed; use '-' to read from stdin.
Prints a single word on stdout: phred33, phred64, or solexa.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := fileio.CheckInput(args[0]); err != nil {
				return err
			}
			rc, err := fileio.Open(args[0])
			if err != nil {
				return err
			}
			defer rc.Close()
			return run(cmd.OutOrStdout(), log, rc)
		},
	}
}

func run(w io.Writer, log *logrus.Entry, r io.Reader) error {
	var freq [256]int64
	fr := fastq.NewReader(r)
	for n := 0; n < sampleSize; n++ {
		rec, err := fr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		for i := 0; i < len(rec.Qual); i++ {
			freq[rec.Qual[i]]++
		}
	}
	t, err := guess(&freq, log)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, t)
	return err
}

// guess maps the observed quality letter range to a score type:
// minimum below 59 means phred33 (and caps the maximum at 73), below 64
// solexa, anything else phred64. Values above 104 are out of range for
// every known encoding.
func guess(freq *[256]int64, log *logrus.Entry) (string, error) {
	var total int64
	min, max := -1, -1
	for b, n := range freq {
		if n == 0 {
			continue
		}
		total += n
		if min == -1 {
			min = b
		}
		max = b
	}
	if total == 0 {
		return "", fmt.Errorf("no quality values found")
	}
	log.Infof("Processed %d quality letters", total)
	log.Infof("Score range: %3d - %3d", min, max)
	if max > 104 {
		return "", fmt.Errorf("quality letter %d is out of range for any known score type", max)
	}
	if min < 59 {
		if max > 73 {
			return "", fmt.Errorf("score range %d - %d matches no known score type", min, max)
		}
		log.Info("Score type: phred33")
		return "phred33", nil
	}
	if min < 64 {
		log.Info("Score type: solexa")
		return "solexa", nil
	}
	log.Info("Score type: phred64")
	return "phred64", nil
}
