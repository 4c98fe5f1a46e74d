// Package project manages the on-disk layout of a mecha project.
//
// # Project Structure
//
// A mecha project follows this standard layout:
//
//	project-root/
//	├── mecha.yaml          # Sources, output and formatting settings
//	├── schema/
//	│   └── main.mecha      # Starter schema
//	└── build/              # Compiled documents (created on compile)
//
// Initialize is idempotent: it only creates what is missing and never
// overwrites existing files. The starter schema is laid out with the
// project's formatter so it matches what `mecha fmt` would produce.
//
// # Sources
//
// Sources turns a mix of files and directories (or, with no arguments, the
// configured sources) into a sorted list of schema files. Directories are
// searched recursively for *.mecha files.
//
//	proj := project.New(project.ProjectParams{Dir: "."})
//	if err := proj.Load(); err != nil {
//		return err
//	}
//
//	files, err := proj.Sources()
//	for _, file := range files {
//		out := proj.OutputPath(file, proj.Config().DocumentFormat())
//		// ...
//	}
package project
