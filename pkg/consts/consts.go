package consts

import "os"

const (
	// ModeDir is the standard file mode for creating directories
	ModeDir = os.FileMode(0o755)

	// ModeFile is the standard file mode for creating files
	ModeFile = os.FileMode(0o644)
)

const (
	// ConfigFile is the name of the project configuration file
	ConfigFile = "mecha.yaml"

	// SourceExt is the file extension of schema sources
	SourceExt = ".mecha"

	// DefaultSourceDir is where schema sources live when no sources are configured
	DefaultSourceDir = "schema"

	// DefaultEntrypoint is the schema file created for new projects
	DefaultEntrypoint = "main" + SourceExt

	// DefaultOutputDir is where compiled documents are written
	DefaultOutputDir = "build"

	// DefaultOutputFormat is the encoding of compiled documents
	DefaultOutputFormat = "json"

	// DefaultIndentSize is the number of spaces per indent level when formatting
	DefaultIndentSize = 4

	// DefaultAlignTypes controls whether column types are aligned when formatting
	DefaultAlignTypes = true
)
