package messages

// BackMsg is sent by screens when they want to return to the tool list.
type BackMsg struct{}

// ToolSelectedMsg is sent by the tool list when a tool is selected.
type ToolSelectedMsg struct {
	Name string
}
