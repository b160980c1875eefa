package algorist

import (
	_ "embed"
	"strings"
)

//go:embed VERSION
var version string

// Version is the release of the library and the algorist binary.
var Version = strings.TrimSpace(version)
