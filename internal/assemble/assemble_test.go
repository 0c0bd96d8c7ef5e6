package assemble

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeConverter struct {
	jobs    []Job
	calls   []string
	htmlErr error
	pdfErr  error
}

func (f *fakeConverter) HTML(_ context.Context, job Job) error {
	f.calls = append(f.calls, "html")
	f.jobs = append(f.jobs, job)
	return f.htmlErr
}

func (f *fakeConverter) PDF(_ context.Context, job Job) error {
	f.calls = append(f.calls, "pdf")
	return f.pdfErr
}

func TestParseOrder(t *testing.T) {
	got := ParseOrder([]string{"boilerplate/header.md", "summary", "people", "boilerplate/teaching.md"})
	want := []Source{
		{Path: "boilerplate/header.md"},
		{Section: "summary"},
		{Section: "people"},
		{Path: "boilerplate/teaching.md"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ParseOrder() mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, "summary", got[1].Name())
	assert.Equal(t, "boilerplate/header.md", got[0].Name())
}

func TestWriteFragments(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "build")
	a := New(Options{WorkDir: dir})

	paths, err := a.WriteFragments(dir, map[string]string{
		"summary":   "## Summary\n",
		"education": "## Education\n",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{FragmentPath(dir, "education"), FragmentPath(dir, "summary")}, paths)

	content, err := os.ReadFile(filepath.Join(dir, "summary.md"))
	require.NoError(t, err)
	assert.Equal(t, "## Summary\n", string(content))
}

func TestAssemble_StagesSourcesInOrder(t *testing.T) {
	root := t.TempDir()
	work := filepath.Join(root, "build")
	out := filepath.Join(root, "out")
	header := filepath.Join(root, "header.md")
	css := filepath.Join(root, "cv.css")
	require.NoError(t, os.WriteFile(header, []byte("# Josiah Carberry\n"), 0o644))
	require.NoError(t, os.WriteFile(css, []byte("body { font-family: serif; }"), 0o644))

	conv := &fakeConverter{}
	a := New(Options{WorkDir: work, OutputDir: out, OutputName: "carberry", Stylesheet: css, Title: "Josiah Carberry", Converter: conv})
	_, err := a.WriteFragments(work, map[string]string{"summary": "## Summary\n", "people": "## People\n"})
	require.NoError(t, err)

	outputs, err := a.Assemble(context.Background(), ParseOrder([]string{header, "summary", "funding", "people"}))
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(out, "carberry.html"), outputs.HTML)
	assert.Equal(t, filepath.Join(out, "carberry.pdf"), outputs.PDF)
	assert.Equal(t, []string{"funding"}, outputs.Skipped)
	assert.Equal(t, []string{"html", "pdf"}, conv.calls)

	require.Len(t, conv.jobs, 1)
	job := conv.jobs[0]
	assert.Equal(t, []string{
		filepath.Join(work, "00-header.md"),
		filepath.Join(work, "summary.md"),
		filepath.Join(work, "people.md"),
	}, job.Inputs)
	assert.Equal(t, filepath.Join(out, "cv.css"), job.Stylesheet)
	assert.Equal(t, "Josiah Carberry", job.Title)

	staged, err := os.ReadFile(job.Inputs[0])
	require.NoError(t, err)
	assert.Equal(t, "# Josiah Carberry\n", string(staged), "boilerplate passes through unchanged")
}

func TestAssemble_MissingBoilerplate(t *testing.T) {
	root := t.TempDir()
	conv := &fakeConverter{}
	a := New(Options{WorkDir: root, Converter: conv})

	_, err := a.Assemble(context.Background(), ParseOrder([]string{filepath.Join(root, "missing.md")}))

	var srcErr *SourceError
	require.ErrorAs(t, err, &srcErr)
	assert.Empty(t, conv.calls)
}

func TestAssemble_HTMLFailureStopsBeforePDF(t *testing.T) {
	conv := &fakeConverter{htmlErr: &ConversionError{Tool: "pandoc", Stage: "html", Message: "boom"}}
	a := New(Options{WorkDir: t.TempDir(), Converter: conv})

	_, err := a.Assemble(context.Background(), nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrConversion))
	assert.Equal(t, []string{"html"}, conv.calls)
}

func TestAssemble_NoConverter(t *testing.T) {
	_, err := New(Options{WorkDir: t.TempDir()}).Assemble(context.Background(), nil)
	assert.Error(t, err)
}

func TestNewConverter(t *testing.T) {
	_, native := NewConverter("native", "", "", nil).(*NativeConverter)
	assert.True(t, native)

	pandoc, ok := NewConverter("pandoc", "", "", nil).(*PandocConverter)
	require.True(t, ok)
	assert.Equal(t, "pandoc", pandoc.Pandoc)
	assert.Equal(t, "wkhtmltopdf", pandoc.PDFEngine)
}
