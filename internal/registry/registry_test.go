package registry

import (
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func testTool(name string) Tool {
	return Tool{
		Name:  name,
		Short: "short help for " + name,
		Command: func(log *logrus.Entry) *cobra.Command {
			return &cobra.Command{Use: name}
		},
	}
}

// The registry map is shared by all tests in this package, so every
// test registers under its own name prefix and filters on it.
func TestAll_SortedByName(t *testing.T) {
	Register(testTool("sorted-zeta"))
	Register(testTool("sorted-alpha"))
	Register(testTool("sorted-mid"))

	all := All()
	for i := 1; i < len(all); i++ {
		if all[i-1].Name >= all[i].Name {
			t.Fatalf("All() not sorted: %q before %q", all[i-1].Name, all[i].Name)
		}
	}

	var got []string
	for _, tl := range all {
		if strings.HasPrefix(tl.Name, "sorted-") {
			got = append(got, tl.Name)
		}
	}
	want := []string{"sorted-alpha", "sorted-mid", "sorted-zeta"}
	if len(got) != len(want) {
		t.Fatalf("expected %d registered tools, got %v", len(want), got)
	}
	for i, name := range want {
		if got[i] != name {
			t.Errorf("tool %d: expected %s, got %s", i, name, got[i])
		}
	}
}

func TestGet(t *testing.T) {
	Register(testTool("lookup-me"))

	tool, ok := Get("lookup-me")
	if !ok {
		t.Fatal("expected tool to be found")
	}
	if tool.Name != "lookup-me" {
		t.Errorf("expected name 'lookup-me', got %q", tool.Name)
	}

	if _, ok := Get("no-such-tool"); ok {
		t.Error("expected lookup of unknown tool to fail")
	}
}

func TestRegister_DuplicatePanics(t *testing.T) {
	Register(testTool("dup"))

	defer func() {
		if recover() == nil {
			t.Error("expected duplicate registration to panic")
		}
	}()
	Register(testTool("dup"))
}
