package types

import (
	"io"
	"os"
)

// DefaultVersion is the fallback version when AppContext is nil
const DefaultVersion = "dev"

// AppContext holds application-wide context information passed to commands
type AppContext struct {
	Version string
	Out     io.Writer
	Err     io.Writer
}

// VersionOrDefault returns the version, tolerating a nil context.
func (c *AppContext) VersionOrDefault() string {
	if c == nil || c.Version == "" {
		return DefaultVersion
	}
	return c.Version
}

// Stdout returns the command output writer, tolerating a nil context.
func (c *AppContext) Stdout() io.Writer {
	if c == nil || c.Out == nil {
		return os.Stdout
	}
	return c.Out
}

// Stderr returns the log and progress writer, tolerating a nil context.
func (c *AppContext) Stderr() io.Writer {
	if c == nil || c.Err == nil {
		return os.Stderr
	}
	return c.Err
}
