package gonext

import _ "embed"

// Version is the release of the library and the gonext command.
//
//go:embed VERSION
var Version string
