package assemble

import (
	"bytes"
	"context"
	"fmt"
	"html"
	"os"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	gmhtml "github.com/yuin/goldmark/renderer/html"
	"go.uber.org/zap"
)

// DefaultPrintTimeout bounds the headless browser session used for PDF output.
const DefaultPrintTimeout = 60 * time.Second

// NativeConverter renders Markdown in-process with goldmark and prints the
// result to PDF with headless Chrome. Requires Chrome or Chromium for PDF.
type NativeConverter struct {
	Timeout time.Duration
	Logger  *zap.Logger
}

// NewNativeConverter returns a converter with the default print timeout.
func NewNativeConverter(logger *zap.Logger) *NativeConverter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NativeConverter{Timeout: DefaultPrintTimeout, Logger: logger}
}

var markdown = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithRendererOptions(gmhtml.WithUnsafe()),
)

// HTML concatenates the inputs, renders them as one document and inlines the stylesheet.
func (n *NativeConverter) HTML(ctx context.Context, job Job) error {
	var source bytes.Buffer
	for _, input := range job.Inputs {
		content, err := os.ReadFile(input)
		if err != nil {
			return &ConversionError{Tool: "goldmark", Stage: "html", Message: "failed to read input", Cause: err}
		}
		source.Write(content)
		source.WriteString("\n\n")
	}

	var body bytes.Buffer
	if err := markdown.Convert(source.Bytes(), &body); err != nil {
		return &ConversionError{Tool: "goldmark", Stage: "html", Message: "failed to render markdown", Cause: err}
	}

	var css []byte
	if job.Stylesheet != "" {
		var err error
		css, err = os.ReadFile(job.Stylesheet)
		if err != nil {
			return &ConversionError{Tool: "goldmark", Stage: "html", Message: "failed to read stylesheet", Cause: err}
		}
	}

	var doc bytes.Buffer
	fmt.Fprintf(&doc, "<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n<title>%s</title>\n", html.EscapeString(job.Title))
	if len(css) > 0 {
		fmt.Fprintf(&doc, "<style>\n%s\n</style>\n", css)
	}
	doc.WriteString("</head>\n<body>\n")
	doc.Write(body.Bytes())
	doc.WriteString("</body>\n</html>\n")

	if err := os.WriteFile(job.HTMLPath, doc.Bytes(), 0o644); err != nil {
		return &ConversionError{Tool: "goldmark", Stage: "html", Message: "failed to write html", Cause: err}
	}
	n.Logger.Debug("rendered html", zap.String("path", job.HTMLPath), zap.Int("bytes", doc.Len()))
	return nil
}

// PDF loads the HTML file in headless Chrome and prints it.
func (n *NativeConverter) PDF(ctx context.Context, job Job) error {
	timeout := n.Timeout
	if timeout <= 0 {
		timeout = DefaultPrintTimeout
	}

	allocCtx, cancel := chromedp.NewExecAllocator(ctx,
		append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", true),
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("no-sandbox", true),
			chromedp.Flag("disable-dev-shm-usage", true),
		)...,
	)
	defer cancel()

	browserCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	browserCtx, cancel = context.WithTimeout(browserCtx, timeout)
	defer cancel()

	var pdf []byte
	err := chromedp.Run(browserCtx,
		chromedp.Navigate("file://"+job.HTMLPath),
		chromedp.WaitReady("body"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			buf, _, err := page.PrintToPDF().WithPrintBackground(true).Do(ctx)
			if err != nil {
				return err
			}
			pdf = buf
			return nil
		}),
	)
	if err != nil {
		return &ConversionError{Tool: "chromedp", Stage: "pdf", Message: "browser printing failed", Cause: err}
	}

	if err := os.WriteFile(job.PDFPath, pdf, 0o644); err != nil {
		return &ConversionError{Tool: "chromedp", Stage: "pdf", Message: "failed to write pdf", Cause: err}
	}
	n.Logger.Debug("printed pdf", zap.String("path", job.PDFPath), zap.Int("bytes", len(pdf)))
	return nil
}

// NewConverter picks a converter by name: "native" or anything else for pandoc.
func NewConverter(name, pandoc, pdfEngine string, logger *zap.Logger) Converter {
	if name == "native" {
		return NewNativeConverter(logger)
	}
	return NewPandocConverter(pandoc, pdfEngine, logger)
}
