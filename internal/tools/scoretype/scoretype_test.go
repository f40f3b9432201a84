package scoretype

import (
	"io"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

func discardLog() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return logrus.NewEntry(l)
}

func freqOf(qual string) *[256]int64 {
	var freq [256]int64
	for i := 0; i < len(qual); i++ {
		freq[qual[i]]++
	}
	return &freq
}

func TestGuess(t *testing.T) {
	tests := []struct {
		name string
		qual string
		want string
	}{
		{"phred33 typical", "!#5AI", "phred33"},
		{"phred33 upper bound", "!I", "phred33"},
		{"solexa", ";?ABh", "solexa"},
		{"solexa lower bound only", ";", "solexa"},
		{"phred64", "@Zh", "phred64"},
		{"phred64 max", "@h", "phred64"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := guess(freqOf(tt.qual), discardLog())
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("guess(%q) = %q, want %q", tt.qual, got, tt.want)
			}
		})
	}
}

func TestGuess_Errors(t *testing.T) {
	tests := []struct {
		name string
		qual string
	}{
		{"empty", ""},
		{"above any encoding", "!~"},
		{"phred33 min with phred64 max", "!h"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := guess(freqOf(tt.qual), discardLog()); err == nil {
				t.Errorf("guess(%q): expected error", tt.qual)
			}
		})
	}
}

func TestRun(t *testing.T) {
	in := "@r1\nACGT\n+\n!#5A\n"
	var sb strings.Builder
	if err := run(&sb, discardLog(), strings.NewReader(in)); err != nil {
		t.Fatal(err)
	}
	if got := strings.TrimSpace(sb.String()); got != "phred33" {
		t.Errorf("run output = %q, want phred33", got)
	}
}

func TestRun_BadFastq(t *testing.T) {
	in := "not a fastq file\n"
	var sb strings.Builder
	if err := run(&sb, discardLog(), strings.NewReader(in)); err == nil {
		t.Error("expected error for malformed input")
	}
}
