// Package registry is the table of short read tools known to the gosr
// command. Tool packages register themselves from an init function and the
// command entrypoint attaches every registered tool to the root command, so
// the dispatcher never has to know individual tool names.
package registry

import (
	"fmt"
	"sort"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// Tool describes one registered subcommand. Command builds the cobra
// command for the tool; the logger handle it receives is the one the
// tool's handler should log through.
type Tool struct {
	Name    string
	Short   string
	Command func(log *logrus.Entry) *cobra.Command
}

var tools = make(map[string]Tool)

// Register adds a tool to the registry. It panics if the name is already
// taken, so a duplicate registration aborts at startup instead of silently
// shadowing an existing tool.
func Register(t Tool) {
	if _, exists := tools[t.Name]; exists {
		panic(fmt.Sprintf("tool %s already registered", t.Name))
	}
	tools[t.Name] = t
}

// All returns the registered tools sorted by name. Help text and the
// interactive browser rely on this order being stable between runs.
func All() []Tool {
	out := make([]Tool, 0, len(tools))
	for _, t := range tools {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Get returns the tool registered under name.
func Get(name string) (Tool, bool) {
	t, ok := tools[name]
	return t, ok
}
