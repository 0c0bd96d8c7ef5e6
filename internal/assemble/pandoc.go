package assemble

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// PandocConverter shells out to pandoc for HTML and to an HTML-to-PDF engine
// (wkhtmltopdf by default) for PDF.
type PandocConverter struct {
	Pandoc    string
	PDFEngine string
	Logger    *zap.Logger
}

// NewPandocConverter fills in default executable names.
func NewPandocConverter(pandoc, pdfEngine string, logger *zap.Logger) *PandocConverter {
	if pandoc == "" {
		pandoc = "pandoc"
	}
	if pdfEngine == "" {
		pdfEngine = "wkhtmltopdf"
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PandocConverter{Pandoc: pandoc, PDFEngine: pdfEngine, Logger: logger}
}

// HTML runs pandoc -s -c <stylesheet> --metadata pagetitle=<title> -o <html> <inputs...>.
// It runs in the output directory so the stylesheet link stays relative.
func (p *PandocConverter) HTML(ctx context.Context, job Job) error {
	args := []string{"-s"}
	if job.Stylesheet != "" {
		args = append(args, "-c", filepath.Base(job.Stylesheet))
	}
	args = append(args, "--metadata", "pagetitle="+job.Title, "-o", filepath.Base(job.HTMLPath))
	args = append(args, job.Inputs...)
	return p.run(ctx, "html", p.Pandoc, filepath.Dir(job.HTMLPath), args)
}

// PDF runs wkhtmltopdf --enable-local-file-access <html> <pdf>.
func (p *PandocConverter) PDF(ctx context.Context, job Job) error {
	args := []string{"--enable-local-file-access", job.HTMLPath, job.PDFPath}
	return p.run(ctx, "pdf", p.PDFEngine, filepath.Dir(job.PDFPath), args)
}

func (p *PandocConverter) run(ctx context.Context, stage, tool, dir string, args []string) error {
	path, err := exec.LookPath(tool)
	if err != nil {
		return &ConversionError{Tool: tool, Stage: stage, Message: "executable not found", Cause: err}
	}

	cmd := exec.CommandContext(ctx, path, args...)
	cmd.Dir = dir
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	p.Logger.Debug("running converter", zap.String("tool", path), zap.Strings("args", args))
	if err := cmd.Run(); err != nil {
		convErr := &ConversionError{
			Tool:    tool,
			Stage:   stage,
			Message: "converter failed",
			Stderr:  strings.TrimSpace(stderr.String()),
			Cause:   err,
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			convErr.ExitCode = exitErr.ExitCode()
			convErr.Message = "converter exited with non-zero status"
		}
		return convErr
	}
	return nil
}
