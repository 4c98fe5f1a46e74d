package project

import (
	_ "embed"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing/fstest"

	"github.com/pkg/errors"
	"github.com/pseudomuto/mecha/pkg/config"
	"github.com/pseudomuto/mecha/pkg/consts"
	"github.com/pseudomuto/mecha/pkg/document"
	"github.com/pseudomuto/mecha/pkg/format"
	"gopkg.in/yaml.v3"
)

var (
	//go:embed embed/main.mecha
	defaultMain []byte

	//go:embed embed/mecha.yaml
	defaultConfig []byte

	image = fstest.MapFS{
		consts.DefaultSourceDir: {Mode: os.ModeDir | consts.ModeDir},
		consts.DefaultSourceDir + "/" + consts.DefaultEntrypoint: {Data: defaultMain},
		consts.ConfigFile: {Data: defaultConfig},
	}
)

type (
	// InitOptions contains options for project initialization
	InitOptions struct {
		// Format overrides the output format written to mecha.yaml. If empty,
		// the default format is kept.
		Format string
	}

	// ProjectParams holds what a Project needs.
	ProjectParams struct {
		// Dir is the project root
		Dir string

		// Formatter lays out the schema files written by Initialize. If nil,
		// the default formatter is used.
		Formatter *format.Formatter
	}

	Project struct {
		root      string
		formatter *format.Formatter
		config    *config.Config
	}
)

// New creates a new Project instance rooted at params.Dir.
//
// Example:
//
//	proj := project.New(project.ProjectParams{Dir: "/path/to/project"})
//	if err := proj.Initialize(project.InitOptions{}); err != nil {
//		log.Fatal(err)
//	}
//
//	sources, err := proj.Sources()
//	if err != nil {
//		log.Fatal(err)
//	}
func New(params ProjectParams) *Project {
	f := params.Formatter
	if f == nil {
		f = format.New(format.Defaults)
	}

	return &Project{root: params.Dir, formatter: f}
}

// Root returns the project directory.
func (p *Project) Root() string {
	return p.root
}

// Config returns the loaded configuration, or nil before Initialize or Load.
func (p *Project) Config() *config.Config {
	return p.config
}

// Initialize sets up the project directory structure and loads the
// configuration. It is idempotent: only missing files and directories are
// created, existing content is preserved.
func (p *Project) Initialize(options InitOptions) error {
	if err := p.ensureDirectory(); err != nil {
		return err
	}

	for path, entry := range image {
		fullPath := filepath.Join(p.root, filepath.FromSlash(path))

		if _, err := os.Stat(fullPath); err == nil {
			continue
		} else if !os.IsNotExist(err) {
			return errors.Wrapf(err, "failed to stat %s", fullPath)
		}

		if entry.Mode.IsDir() {
			if err := os.MkdirAll(fullPath, entry.Mode.Perm()); err != nil {
				return errors.Wrapf(err, "failed to create directory %s", fullPath)
			}

			continue
		}

		parentDir := filepath.Dir(fullPath)
		if err := os.MkdirAll(parentDir, consts.ModeDir); err != nil {
			return errors.Wrapf(err, "failed to create parent directory %s", parentDir)
		}

		data, err := p.render(path, entry.Data)
		if err != nil {
			return err
		}

		if err := os.WriteFile(fullPath, data, consts.ModeFile); err != nil {
			return errors.Wrapf(err, "failed to write file %s", fullPath)
		}
	}

	if err := p.Load(); err != nil {
		return err
	}

	if options.Format != "" {
		f, err := document.ParseFormat(options.Format)
		if err != nil {
			return err
		}

		p.config.Output.Format = string(f)
		if err := p.writeConfig(); err != nil {
			return err
		}
	}

	return nil
}

// Load reads mecha.yaml from the project root.
func (p *Project) Load() error {
	cfg, err := config.LoadConfigFile(filepath.Join(p.root, consts.ConfigFile))
	if err != nil {
		return errors.Wrapf(err, "failed to load %s", consts.ConfigFile)
	}

	p.config = cfg
	return nil
}

// OutputPath returns where the compiled document for source is written: the
// configured output directory, the source's base name and the extension of
// the document format.
func (p *Project) OutputPath(source string, f document.Format) string {
	dir := consts.DefaultOutputDir
	if p.config != nil {
		dir = p.config.Output.Dir
	}

	if !filepath.IsAbs(dir) {
		dir = filepath.Join(p.root, dir)
	}

	stem := strings.TrimSuffix(filepath.Base(source), filepath.Ext(source))
	return filepath.Join(dir, stem+f.Ext())
}

// Sources resolves paths to the schema files they hold. Files are taken as
// is, directories are searched recursively for *.mecha files. Relative paths
// are resolved against the project root. With no paths, the configured
// sources are used.
//
// The result is sorted and free of duplicates.
func (p *Project) Sources(paths ...string) ([]string, error) {
	if len(paths) == 0 {
		if p.config != nil {
			paths = p.config.Sources
		} else {
			paths = []string{consts.DefaultSourceDir}
		}
	}

	var files []string
	for _, path := range paths {
		if !filepath.IsAbs(path) {
			path = filepath.Join(p.root, path)
		}

		info, err := os.Stat(path)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to access path: %s", path)
		}

		if !info.IsDir() {
			files = append(files, path)
			continue
		}

		err = filepath.WalkDir(path, func(file string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}

			if !d.IsDir() && filepath.Ext(file) == consts.SourceExt {
				files = append(files, file)
			}

			return nil
		})
		if err != nil {
			return nil, errors.Wrapf(err, "failed to walk directory: %s", path)
		}
	}

	if len(files) == 0 {
		return nil, errors.Errorf("no %s files found", consts.SourceExt)
	}

	slices.Sort(files)
	return slices.Compact(files), nil
}

// render formats schema templates with the project's formatter.
func (p *Project) render(path string, data []byte) ([]byte, error) {
	if filepath.Ext(path) != consts.SourceExt {
		return data, nil
	}

	out, err := p.formatter.Source(path, string(data))
	if err != nil {
		return nil, errors.Wrapf(err, "failed to format %s", path)
	}

	return []byte(out), nil
}

func (p *Project) writeConfig() error {
	path := filepath.Join(p.root, consts.ConfigFile)

	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "failed to open config file for writing: %s", path)
	}
	defer func() { _ = f.Close() }()

	enc := yaml.NewEncoder(f)
	enc.SetIndent(2)
	if err := enc.Encode(p.config); err != nil {
		return errors.Wrap(err, "failed to write updated config")
	}

	return errors.Wrap(enc.Close(), "failed to close yaml encoder")
}

func (p *Project) ensureDirectory() error {
	dir, err := os.Stat(p.root)
	if err != nil {
		return errors.Wrapf(err, "failed to stat dir: %s", p.root)
	}

	if !dir.IsDir() {
		return errors.Errorf("%s is not a directory", p.root)
	}

	return nil
}
