package mcp

// EmptyInput is the input for tools that take no arguments.
type EmptyInput struct{}

// SnapshotInput is the input for the snapshot tool.
type SnapshotInput struct {
	Path string `json:"path,omitempty" jsonschema:"Absolute path of the PNG to write (default: deskfx-snapshot.png in the runtime directory)"`
}
