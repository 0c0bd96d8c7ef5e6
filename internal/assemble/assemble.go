// Package assemble stages Markdown fragments and boilerplate in document order
// and converts them to HTML and PDF.
package assemble

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"go.uber.org/zap"

	"github.com/jonathan/academic-cv/internal/config"
)

// Source is one entry of the document order: either a generated section or a
// boilerplate Markdown file passed through unchanged.
type Source struct {
	Section string
	Path    string
}

// Name returns the section name or the boilerplate path.
func (s Source) Name() string {
	if s.Section != "" {
		return s.Section
	}
	return s.Path
}

// ParseOrder maps configured order entries to sources. Known section names
// become sections; everything else is treated as a boilerplate path.
func ParseOrder(order []string) []Source {
	sources := make([]Source, 0, len(order))
	for _, item := range order {
		if config.IsSection(item) {
			sources = append(sources, Source{Section: item})
		} else {
			sources = append(sources, Source{Path: item})
		}
	}
	return sources
}

// Job is what a converter receives. All paths are absolute.
type Job struct {
	Inputs     []string
	Stylesheet string
	Title      string
	HTMLPath   string
	PDFPath    string
}

// Converter turns staged Markdown into HTML, then that HTML into PDF.
type Converter interface {
	HTML(ctx context.Context, job Job) error
	PDF(ctx context.Context, job Job) error
}

// Outputs are the files produced by Assemble.
type Outputs struct {
	HTML string
	PDF  string
	// Skipped lists sections with no fragment on disk.
	Skipped []string
}

// Options configures an Assembler.
type Options struct {
	WorkDir    string
	OutputDir  string
	OutputName string
	Stylesheet string
	Title      string
	Converter  Converter
	Logger     *zap.Logger
}

// Assembler writes fragments and drives a converter.
type Assembler struct {
	opts Options
}

// New creates an assembler. OutputName defaults to "cv".
func New(opts Options) *Assembler {
	if opts.OutputName == "" {
		opts.OutputName = "cv"
	}
	if opts.OutputDir == "" {
		opts.OutputDir = opts.WorkDir
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Assembler{opts: opts}
}

// FragmentPath is where a section fragment lives inside dir.
func FragmentPath(dir, section string) string {
	return filepath.Join(dir, section+".md")
}

// WriteFragments writes each fragment as {dir}/{name}.md and returns the paths
// in name order.
func (a *Assembler) WriteFragments(dir string, fragments map[string]string) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, &SourceError{Path: dir, Message: "failed to create work directory", Cause: err}
	}

	names := make([]string, 0, len(fragments))
	for name := range fragments {
		names = append(names, name)
	}
	sort.Strings(names)

	paths := make([]string, 0, len(names))
	for _, name := range names {
		path := FragmentPath(dir, name)
		if err := os.WriteFile(path, []byte(fragments[name]), 0o644); err != nil {
			return nil, &SourceError{Path: path, Message: "failed to write fragment", Cause: err}
		}
		a.opts.Logger.Debug("wrote fragment", zap.String("section", name), zap.String("path", path))
		paths = append(paths, path)
	}
	return paths, nil
}

// Assemble stages every source into the work directory in order and runs the
// converter once for HTML and once for PDF. A section without a fragment is
// skipped and reported in Outputs.Skipped; a missing boilerplate file fails.
func (a *Assembler) Assemble(ctx context.Context, order []Source) (*Outputs, error) {
	if a.opts.Converter == nil {
		return nil, errors.New("no converter configured")
	}
	workDir, err := filepath.Abs(a.opts.WorkDir)
	if err != nil {
		return nil, &SourceError{Path: a.opts.WorkDir, Message: "invalid work directory", Cause: err}
	}
	outDir, err := filepath.Abs(a.opts.OutputDir)
	if err != nil {
		return nil, &SourceError{Path: a.opts.OutputDir, Message: "invalid output directory", Cause: err}
	}
	for _, dir := range []string{workDir, outDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, &SourceError{Path: dir, Message: "failed to create directory", Cause: err}
		}
	}

	outputs := &Outputs{
		HTML: filepath.Join(outDir, a.opts.OutputName+".html"),
		PDF:  filepath.Join(outDir, a.opts.OutputName+".pdf"),
	}
	job := Job{
		Title:    a.opts.Title,
		HTMLPath: outputs.HTML,
		PDFPath:  outputs.PDF,
	}
	if job.Title == "" {
		job.Title = a.opts.OutputName
	}

	for i, src := range order {
		if src.Section != "" {
			path := FragmentPath(workDir, src.Section)
			if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
				a.opts.Logger.Warn("section fragment missing, skipping", zap.String("section", src.Section))
				outputs.Skipped = append(outputs.Skipped, src.Section)
				continue
			}
			job.Inputs = append(job.Inputs, path)
			continue
		}
		staged := filepath.Join(workDir, fmt.Sprintf("%02d-%s", i, filepath.Base(src.Path)))
		if err := copyFile(src.Path, staged); err != nil {
			return nil, &SourceError{Path: src.Path, Message: "failed to stage boilerplate", Cause: err}
		}
		job.Inputs = append(job.Inputs, staged)
	}

	if a.opts.Stylesheet != "" {
		css := filepath.Join(outDir, filepath.Base(a.opts.Stylesheet))
		if err := copyFile(a.opts.Stylesheet, css); err != nil {
			return nil, &SourceError{Path: a.opts.Stylesheet, Message: "failed to stage stylesheet", Cause: err}
		}
		job.Stylesheet = css
	}

	a.opts.Logger.Info("converting to HTML", zap.Int("inputs", len(job.Inputs)), zap.String("output", job.HTMLPath))
	if err := a.opts.Converter.HTML(ctx, job); err != nil {
		return nil, err
	}
	a.opts.Logger.Info("converting to PDF", zap.String("output", job.PDFPath))
	if err := a.opts.Converter.PDF(ctx, job); err != nil {
		return nil, err
	}
	return outputs, nil
}

func copyFile(src, dst string) error {
	if same, err := samePath(src, dst); err == nil && same {
		return nil
	}
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}

func samePath(a, b string) (bool, error) {
	absA, err := filepath.Abs(a)
	if err != nil {
		return false, err
	}
	absB, err := filepath.Abs(b)
	if err != nil {
		return false, err
	}
	return absA == absB, nil
}
