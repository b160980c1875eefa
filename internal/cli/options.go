package cli

import (
	"io"
	"os"
)

// RunOptions contains all the configuration for the run command.
type RunOptions struct {
	// Path is a grammar file or a directory of grammar documents.
	Path string
	// Example runs a bundled grammar instead of Path.
	Example string
	Debug   bool
	Watch   bool
	// RedisAddr shares built geometry through Redis when set.
	RedisAddr string
	// Out writes the snapshot as JSON or YAML, by extension.
	Out string
	// Preview writes a PNG of the result.
	Preview string
	View    string
	// Seed makes the run repeatable when HasSeed is set.
	Seed    uint64
	HasSeed bool
	// Quiet suppresses the summary.
	Quiet bool

	Stdout io.Writer
}

func (o RunOptions) stdout() io.Writer {
	if o.Stdout == nil {
		return os.Stdout
	}
	return o.Stdout
}
