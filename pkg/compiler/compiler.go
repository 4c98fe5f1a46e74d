package compiler

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/pkg/errors"
	"github.com/pseudomuto/mecha/pkg/ast"
	"github.com/pseudomuto/mecha/pkg/checker"
	"github.com/pseudomuto/mecha/pkg/consts"
	"github.com/pseudomuto/mecha/pkg/diagnostic"
	"github.com/pseudomuto/mecha/pkg/document"
	"github.com/pseudomuto/mecha/pkg/parser"
	"golang.org/x/sync/errgroup"
)

type (
	// Options configures a Compiler.
	Options struct {
		// Logger receives per-file progress. Defaults to slog.Default().
		Logger *slog.Logger

		// Concurrency bounds how many files are processed at once. Defaults to
		// the number of CPUs.
		Concurrency int
	}

	// Compiler parses and checks schema files and writes their documents.
	Compiler struct {
		logger      *slog.Logger
		concurrency int
	}

	// Result is the outcome for a single source file.
	Result struct {
		// Path is the source file.
		Path string
		// Source is the file contents, kept for rendering diagnostics.
		Source string
		// Schema and Analysis are set when the file is valid.
		Schema   *ast.Schema
		Analysis *checker.Analysis
		// Output is the document written for the file, if any.
		Output string
		// Err is a diagnostic.List for invalid schemas, or any I/O error.
		Err error
	}

	// OutputFunc maps a source path to the path its document is written to.
	OutputFunc func(source string) string
)

// New creates a Compiler.
func New(opts Options) *Compiler {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	concurrency := opts.Concurrency
	if concurrency <= 0 {
		concurrency = runtime.NumCPU()
	}

	return &Compiler{logger: logger, concurrency: concurrency}
}

// Check parses and checks every file concurrently. Results are returned in the
// order of paths. The error is only non-nil when ctx is done before every file
// was processed; problems with individual files are reported on their Result.
func (c *Compiler) Check(ctx context.Context, paths []string) ([]Result, error) {
	return c.each(ctx, paths, func(r *Result) {
		c.check(r)
	})
}

// Compile checks every file and writes a document in the given format for
// each valid one, to the path returned by out.
//
// Sources that map to the same output path all fail without being read, so
// no document is ever overwritten by another source's.
func (c *Compiler) Compile(ctx context.Context, paths []string, f document.Format, out OutputFunc) ([]Result, error) {
	dests := make([]string, len(paths))
	owners := make(map[string][]string, len(paths))
	for i, path := range paths {
		dests[i] = filepath.Clean(out(path))
		owners[dests[i]] = append(owners[dests[i]], path)
	}

	return c.eachIndexed(ctx, paths, func(i int, r *Result) {
		dest := dests[i]
		if shared := owners[dest]; len(shared) > 1 {
			r.Err = errors.Errorf("output path %s is shared by %s", dest, strings.Join(shared, ", "))
			c.logger.Error("Conflicting output path", "path", r.Path, "output", dest)
			return
		}

		if !c.check(r) {
			return
		}

		if err := writeDocument(dest, r.Schema, f); err != nil {
			r.Err = err
			c.logger.Error("Failed to write document", "path", r.Path, "output", dest, "err", err)
			return
		}

		r.Output = dest
		c.logger.Debug("Wrote document", "path", r.Path, "output", dest)
	})
}

func (c *Compiler) each(ctx context.Context, paths []string, fn func(*Result)) ([]Result, error) {
	return c.eachIndexed(ctx, paths, func(_ int, r *Result) { fn(r) })
}

func (c *Compiler) eachIndexed(ctx context.Context, paths []string, fn func(int, *Result)) ([]Result, error) {
	results := make([]Result, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)

	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			results[i].Path = path
			fn(i, &results[i])
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return results, errors.Wrap(err, "compilation interrupted")
	}

	return results, nil
}

// check fills in the parse and check outcome, reporting whether the file is
// valid.
func (c *Compiler) check(r *Result) bool {
	data, err := os.ReadFile(r.Path)
	if err != nil {
		r.Err = errors.Wrapf(err, "failed to read file: %s", r.Path)
		c.logger.Error("Failed to read source", "path", r.Path, "err", err)
		return false
	}
	r.Source = string(data)

	schema, err := parser.Parse(r.Path, r.Source)
	if err == nil {
		r.Schema = schema
		r.Analysis, err = checker.Analyze(schema)
	}

	if err != nil {
		r.Err = err
		c.logger.Debug("Invalid schema", "path", r.Path, "problems", problems(err))
		return false
	}

	c.logger.Debug("Checked schema", "path", r.Path, "tables", len(schema.Tables))
	return true
}

func writeDocument(path string, schema *ast.Schema, f document.Format) error {
	if err := os.MkdirAll(filepath.Dir(path), consts.ModeDir); err != nil {
		return errors.Wrapf(err, "failed to create output directory: %s", filepath.Dir(path))
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, consts.ModeFile)
	if err != nil {
		return errors.Wrapf(err, "failed to create file: %s", path)
	}
	defer func() { _ = file.Close() }()

	if err := document.Encode(file, document.FromSchema(schema), f); err != nil {
		return err
	}

	return errors.Wrapf(file.Close(), "failed to write file: %s", path)
}

// Failed counts the results that carry an error.
func Failed(results []Result) int {
	n := 0
	for _, r := range results {
		if r.Err != nil {
			n++
		}
	}

	return n
}

// Report writes every failure in results to w. Diagnostics are rendered
// against the file's source, other errors are printed as is.
func Report(w io.Writer, results []Result) error {
	first := true
	for _, r := range results {
		if r.Err == nil {
			continue
		}

		if !first {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		first = false

		var diags diagnostic.List
		if errors.As(r.Err, &diags) {
			if err := diagnostic.Fprint(w, r.Source, diags); err != nil {
				return err
			}
			continue
		}

		if _, err := fmt.Fprintf(w, "error: %v\n", r.Err); err != nil {
			return err
		}
	}

	return nil
}

func problems(err error) int {
	var diags diagnostic.List
	if errors.As(err, &diags) {
		return len(diags)
	}

	return 1
}
