// Package cmd provides CLI commands for the mecha tool.
//
// Commands are built by constructor functions returning a *cli.Command and
// registered with the application through an fx value group, so each one
// receives only the dependencies it needs (a logger, the configured
// formatter).
//
// # Available Commands
//
//   - init: Create mecha.yaml and a starter schema
//   - check: Parse and check schema files, printing diagnostics
//   - compile: Check schema files and write JSON or YAML documents
//   - fmt: Rewrite schema files in canonical layout
//
// # Global Options
//
//   - --dir, -d: Project directory (defaults to current directory)
//   - --verbose, -v: Log per-file progress (also MECHA_VERBOSE)
//   - --help, -h: Display command help
//   - --version: Display version information
//
// # Example Usage
//
//	mecha init
//	mecha check
//	mecha compile --format yaml --out docs
//	mecha fmt -w schema/
//
// check and compile exit with status 1 when any file has a problem. The
// diagnostics for every failing file are written to stderr first.
package cmd
