// Package fastqcreport summarizes the zip file output of fastqc on the
// terminal and extracts the data file for later storage in an archive.
package fastqcreport

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/wresch/gosr/internal/fileio"
	"github.com/wresch/gosr/internal/registry"
	"github.com/wresch/gosr/internal/styles"
)

func init() {
	registry.Register(registry.Tool{
		Name:    "fastqc-report",
		Short:   "Summarize a fastqc zip file",
		Command: command,
	})
}

func command(log *logrus.Entry) *cobra.Command {
	var outDir string
	cmd := &cobra.Command{
		Use:   "fastqc-report <fastqc-zip> <out-prefix>",
		Short: "Summarize a fastqc zip file",
		Long: `Based on the zip file output of fastqc, print a summary of the module
results and extract the fastqc_data.txt file for later storage in the
archive. The data file is written to <dir>/<out-prefix>.fastqc_data.txt.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := fileio.CheckInput(args[0]); err != nil {
				return err
			}
			return run(cmd.OutOrStdout(), log, args[0], args[1], outDir)
		},
	}
	cmd.Flags().StringVarP(&outDir, "dir", "d", ".",
		"output directory for the extracted data file; created if missing")
	return cmd
}

func run(w io.Writer, log *logrus.Entry, zipPath, prefix, outDir string) error {
	data, err := extractData(zipPath)
	if err != nil {
		return err
	}

	mods := parseModules(data)
	if len(mods) == 0 {
		return fmt.Errorf("%s contains no fastqc modules", zipPath)
	}
	render(w, prefix, mods, log)

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	outPath := filepath.Join(outDir, prefix+".fastqc_data.txt")
	if err := os.WriteFile(outPath, []byte(data), 0o644); err != nil {
		return fmt.Errorf("writing data file: %w", err)
	}
	log.Infof("Wrote %s", outPath)
	return nil
}

// extractData returns the contents of the fastqc_data.txt member of the
// fastqc zip archive.
func extractData(zipPath string) (string, error) {
	zr, err := zip.OpenReader(zipPath)
	if err != nil {
		return "", fmt.Errorf("opening %s: %w", zipPath, err)
	}
	defer zr.Close()
	for _, member := range zr.File {
		if !strings.HasSuffix(member.Name, "fastqc_data.txt") {
			continue
		}
		rc, err := member.Open()
		if err != nil {
			return "", err
		}
		defer rc.Close()
		data, err := io.ReadAll(rc)
		if err != nil {
			return "", err
		}
		return string(data), nil
	}
	return "", fmt.Errorf("zip file did not contain a fastqc_data.txt file")
}

// module is one fastqc analysis module: name, pass/warn/fail status, and
// the raw tab-separated data block.
type module struct {
	Name   string
	Status string
	Data   string
}

var moduleRe = regexp.MustCompile(`(?s)>>(.+?)\s+(pass|fail|warn)\n(.*?)>>END_MODULE`)

func parseModules(data string) []module {
	var mods []module
	for _, m := range moduleRe.FindAllStringSubmatch(data, -1) {
		mods = append(mods, module{Name: m[1], Status: m[2], Data: m[3]})
	}
	return mods
}

func render(w io.Writer, prefix string, mods []module, log *logrus.Entry) {
	fmt.Fprintln(w, styles.Title.Render("FastQC summary: "+prefix))
	fmt.Fprintln(w)
	fmt.Fprintln(w, styles.Subtitle.Render("Module results"))
	for _, m := range mods {
		fmt.Fprintf(w, "  %s  %s\n", renderStatus(m.Status), m.Name)
	}
	for _, m := range mods {
		switch m.Name {
		case "Basic Statistics":
			fmt.Fprintln(w)
			fmt.Fprintln(w, styles.Subtitle.Render(m.Name))
			renderTable(w, tableRows(m.Data), 0)
		case "Overrepresented sequences":
			rows := tableRows(m.Data)
			if len(rows) == 0 {
				continue
			}
			fmt.Fprintln(w)
			fmt.Fprintln(w, styles.Subtitle.Render(m.Name))
			renderTable(w, rows, 10)
		default:
			log.Debugf("No renderer for module %s", m.Name)
		}
	}
}

func renderStatus(status string) string {
	s := strings.ToUpper(status)
	switch status {
	case "pass":
		return styles.Success.Render(s)
	case "warn":
		return styles.Warn.Render(s + " ")
	default:
		return styles.Err.Render(s + " ")
	}
}

// tableRows splits a module data block into rows, dropping blank lines
// and the leading # of any header line.
func tableRows(data string) [][]string {
	var rows [][]string
	for _, line := range strings.Split(data, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		line = strings.TrimPrefix(line, "#")
		rows = append(rows, strings.Split(line, "\t"))
	}
	return rows
}

func renderTable(w io.Writer, rows [][]string, limit int) {
	widths := make(map[int]int)
	for _, row := range rows {
		for i, cell := range row {
			if len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}
	for n, row := range rows {
		if limit > 0 && n == limit+1 {
			fmt.Fprintf(w, "  %s\n", styles.Dimmed.Render(fmt.Sprintf("... %d more rows", len(rows)-limit-1)))
			break
		}
		cells := make([]string, len(row))
		for i, cell := range row {
			cells[i] = fmt.Sprintf("%-*s", widths[i], cell)
		}
		line := strings.TrimRight(strings.Join(cells, "  "), " ")
		if n == 0 {
			line = styles.Dimmed.Render(line)
		}
		fmt.Fprintf(w, "  %s\n", line)
	}
}
