// Package bedsort sorts bed-like files by chromosome and position, with
// the chromosome order given by a genome table. Column 1 is taken to be
// the chromosome and column 2 a position; strand is ignored.
package bedsort

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/wresch/gosr/internal/fileio"
	"github.com/wresch/gosr/internal/genome"
	"github.com/wresch/gosr/internal/registry"
)

func init() {
	registry.Register(registry.Tool{
		Name:    "bed-sort",
		Short:   "Sort bed file",
		Command: command,
	})
}

func command(log *logrus.Entry) *cobra.Command {
	return &cobra.Command{
		Use:   "bed-sort <infile> <genome>",
		Short: "Sort bed file",
		Long: `Sort a bed-like file by chromosome and position, with the chromosome
sort order given by the genome table. Column 1 has to be the chromosome
and column 2 a position. The input can be gzip'ed; output goes to stdout.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := fileio.CheckInput(args[0]); err != nil {
				return err
			}
			g, ok := genome.Lookup(args[1])
			if !ok {
				return fmt.Errorf("genome %s not available (have: %s)",
					args[1], strings.Join(genome.Names(), ", "))
			}
			rc, err := fileio.Open(args[0])
			if err != nil {
				return err
			}
			defer rc.Close()
			return run(cmd.OutOrStdout(), log, g, rc)
		},
	}
}

func run(w io.Writer, log *logrus.Entry, g *genome.Genome, r io.Reader) error {
	type keyed struct {
		key  int64
		text string
	}
	var lines []keyed

	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 0, 64*1024), 8*1024*1024)
	n := 0
	for s.Scan() {
		n++
		line := s.Text()
		if line == "" {
			continue
		}
		fields := strings.SplitN(line, "\t", 3)
		if len(fields) < 2 {
			return fmt.Errorf("line %d: expected at least 2 tab-separated columns", n)
		}
		pos, err := strconv.ParseInt(fields[1], 10, 64)
		if err != nil {
			return fmt.Errorf("line %d: bad position %q: %w", n, fields[1], err)
		}
		key, err := g.CPos(fields[0], pos)
		if err != nil {
			return fmt.Errorf("line %d: %w", n, err)
		}
		lines = append(lines, keyed{key: key, text: line})
	}
	if err := s.Err(); err != nil {
		return err
	}
	log.Infof("Sorting %d lines", len(lines))

	sort.SliceStable(lines, func(i, j int) bool { return lines[i].key < lines[j].key })

	out := bufio.NewWriter(w)
	for _, l := range lines {
		out.WriteString(l.text)
		out.WriteByte('\n')
	}
	return out.Flush()
}
