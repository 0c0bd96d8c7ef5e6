// Package pipeline provides the high-level orchestration for the CV build:
// fetch, enrich, render, write fragments, assemble.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/academic-cv/internal/assemble"
	"github.com/jonathan/academic-cv/internal/bibliography"
	"github.com/jonathan/academic-cv/internal/config"
	"github.com/jonathan/academic-cv/internal/enrich"
	"github.com/jonathan/academic-cv/internal/fetch"
	"github.com/jonathan/academic-cv/internal/observability"
	"github.com/jonathan/academic-cv/internal/orcid"
	"github.com/jonathan/academic-cv/internal/pipeline/steps"
	"github.com/jonathan/academic-cv/internal/rendering"
	"github.com/jonathan/academic-cv/internal/tables"
	"github.com/jonathan/academic-cv/internal/types"
)

// FragmentDir is the subdirectory of the output directory that holds section fragments.
const FragmentDir = "fragments"

// ProgressEvent represents a progress update during pipeline execution
type ProgressEvent struct {
	Step    string `json:"step"`
	Message string `json:"message"`
	RunID   string `json:"run_id,omitempty"`
	Content any    `json:"content,omitempty"`
}

// ProgressCallback is called when pipeline progress occurs
type ProgressCallback func(event ProgressEvent)

// RunOptions holds configuration for running the pipeline
type RunOptions struct {
	Config *config.Config
	// Sections limits rendering to these sections; nil means every section in the fragment order.
	Sections []string
	// SkipAssemble stops after fragments are written.
	SkipAssemble bool
	// Converter overrides the converter chosen by Config.Converter.
	Converter  assemble.Converter
	Logger     *zap.Logger
	Out        io.Writer
	OnProgress ProgressCallback
}

// Result is everything a run produced.
type Result struct {
	RunID       uuid.UUID
	Profile     *types.ProfileRecord
	Scholar     types.Outcome[types.ScholarMetrics]
	Impact      types.Outcome[types.ImpactProfile]
	Fragments   map[string]string
	Rendered    []string
	Skipped     map[string]error
	ParseErrors []error
	Outputs     *assemble.Outputs
}

// runner carries per-run state
type runner struct {
	opts    RunOptions
	cfg     *config.Config
	logger  *zap.Logger
	out     io.Writer
	printer *observability.Printer
	runID   uuid.UUID
	total   int
	step    int
}

func (r *runner) stepf(format string, args ...any) {
	r.step++
	fmt.Fprintf(r.out, "Step %d/%d: %s\n", r.step, r.total, fmt.Sprintf(format, args...))
}

func (r *runner) emit(step, message string, content any) {
	if r.opts.OnProgress != nil {
		r.opts.OnProgress(ProgressEvent{Step: step, Message: message, RunID: r.runID.String(), Content: content})
	}
}

// Run executes the pipeline. A profile fetch failure or a conversion failure
// aborts the run; enrichment failures and malformed tables only degrade or skip
// the affected sections.
func Run(ctx context.Context, opts RunOptions) (*Result, error) {
	if opts.Config == nil {
		return nil, errors.New("pipeline: config is required")
	}
	r := &runner{
		opts:   opts,
		cfg:    opts.Config,
		logger: opts.Logger,
		out:    opts.Out,
		runID:  uuid.New(),
		total:  5,
	}
	if r.logger == nil {
		r.logger = zap.NewNop()
	}
	if r.out == nil {
		r.out = os.Stdout
	}
	if r.cfg.Verbose {
		r.printer = observability.NewPrinter(r.out)
	}
	if opts.SkipAssemble {
		r.total = 4
	}
	r.logger = r.logger.With(zap.String("run_id", r.runID.String()))

	sections := opts.Sections
	if sections == nil {
		for _, item := range r.cfg.FragmentOrder {
			if config.IsSection(item) {
				sections = append(sections, item)
			}
		}
	}

	result := &Result{
		RunID:     r.runID,
		Fragments: make(map[string]string),
		Skipped:   make(map[string]error),
	}
	available := make(map[steps.Input]bool)

	// Step 1: ORCID profile
	if steps.Needs(sections, steps.InputProfile) {
		r.stepf("Fetching ORCID profile %s...", r.cfg.ORCIDID)
		profile, err := FetchProfile(ctx, r.cfg, r.logger)
		if err != nil {
			r.logger.Error("profile fetch failed", zap.Error(err))
			return nil, fmt.Errorf("failed to fetch profile: %w", err)
		}
		result.Profile = profile
		available[steps.InputProfile] = true
		r.emit("profile", "Fetched ORCID profile", profile)
		if r.printer != nil {
			r.printer.PrintProfile(profile)
		}
	} else {
		r.stepf("Skipping ORCID profile (not needed)")
	}

	// Step 2: optional metrics
	r.stepf("Looking up citation metrics...")
	result.Scholar, result.Impact = r.lookupMetrics(ctx, sections)
	available[steps.InputScholar] = result.Scholar.Available()
	available[steps.InputImpactStory] = result.Impact.Available()
	r.emit("metrics", "Looked up citation metrics", nil)
	if r.printer != nil {
		r.printer.PrintEnrichment(result.Scholar, result.Impact)
	}

	// Step 3: sections
	r.stepf("Rendering %d sections...", len(sections))
	if err := r.renderSections(sections, available, result); err != nil {
		return nil, err
	}
	if r.printer != nil {
		r.printer.PrintSections(result.Rendered, result.Skipped)
	}

	// Step 4: fragments
	workDir := filepath.Join(r.cfg.OutputDir, FragmentDir)
	r.stepf("Writing %d fragments to %s...", len(result.Fragments), workDir)
	asm := assemble.New(assemble.Options{
		WorkDir:    workDir,
		OutputDir:  r.cfg.OutputDir,
		OutputName: r.cfg.OutputName,
		Stylesheet: r.cfg.Stylesheet,
		Converter:  r.converter(),
		Logger:     r.logger,
	})
	if _, err := asm.WriteFragments(workDir, result.Fragments); err != nil {
		return nil, fmt.Errorf("failed to write fragments: %w", err)
	}
	// a fragment left by an earlier run must not stand in for a skipped section
	for section := range result.Skipped {
		if err := os.Remove(assemble.FragmentPath(workDir, section)); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to remove stale fragment: %w", err)
		}
	}
	r.emit("fragments", "Wrote section fragments", result.Rendered)

	if opts.SkipAssemble {
		return result, nil
	}

	// Step 5: documents
	r.stepf("Converting to HTML and PDF...")
	outputs, err := asm.Assemble(ctx, assemble.ParseOrder(r.cfg.FragmentOrder))
	if err != nil {
		r.logger.Error("conversion failed", zap.Error(err))
		return result, fmt.Errorf("failed to assemble documents: %w", err)
	}
	result.Outputs = outputs
	r.emit("assemble", "Wrote documents", outputs)
	if r.printer != nil {
		r.printer.PrintOutputs(outputs.HTML, outputs.PDF)
	}
	r.logger.Info("build complete",
		zap.String("html", outputs.HTML),
		zap.String("pdf", outputs.PDF),
		zap.Int("skipped_sections", len(result.Skipped)))
	return result, nil
}

func (r *runner) converter() assemble.Converter {
	if r.opts.Converter != nil {
		return r.opts.Converter
	}
	return assemble.NewConverter(r.cfg.Converter, r.cfg.PandocPath, r.cfg.PDFEngine, r.logger)
}

func (r *runner) lookupMetrics(ctx context.Context, sections []string) (types.Outcome[types.ScholarMetrics], types.Outcome[types.ImpactProfile]) {
	scholar := types.Absent[types.ScholarMetrics]("not needed")
	impact := types.Absent[types.ImpactProfile]("not needed")
	if r.cfg.OfflineMetrics {
		scholar = types.Absent[types.ScholarMetrics]("offline")
		impact = types.Absent[types.ImpactProfile]("offline")
	} else {
		if steps.Needs(sections, steps.InputScholar) {
			scholar = LookupScholar(ctx, r.cfg, r.logger)
		}
		if steps.Needs(sections, steps.InputImpactStory) {
			impact = LookupImpactStory(ctx, r.cfg, r.logger)
		}
	}
	logOutcome(r.logger, "scholar", scholar.Status, scholar.Reason, scholar.Err)
	logOutcome(r.logger, "impactstory", impact.Status, impact.Reason, impact.Err)
	return scholar, impact
}

// logOutcome logs success, absence and failure at distinct levels so that a
// degraded build is visible in the log.
func logOutcome(logger *zap.Logger, service string, status types.Status, reason string, err error) {
	switch status {
	case types.StatusOK:
		logger.Info("enrichment ok", zap.String("service", service))
	case types.StatusAbsent:
		logger.Info("enrichment absent", zap.String("service", service), zap.String("reason", reason))
	default:
		logger.Warn("enrichment unavailable, omitting metrics", zap.String("service", service), zap.Error(err))
	}
}

func (r *runner) renderSections(sections []string, available map[steps.Input]bool, result *Result) error {
	inputErrs := make(map[steps.Input]error)

	var people []types.PersonRecord
	if steps.Needs(sections, steps.InputPeople) {
		var err error
		if people, err = tables.ReadPeople(r.cfg.PeopleFile); err != nil {
			r.logger.Error("people table unusable", zap.String("path", r.cfg.PeopleFile), zap.Error(err))
			inputErrs[steps.InputPeople] = err
		} else {
			available[steps.InputPeople] = true
		}
	}
	var service []types.ServiceEntry
	if steps.Needs(sections, steps.InputService) {
		var err error
		if service, err = tables.ReadService(r.cfg.ServiceFile); err != nil {
			r.logger.Error("service table unusable", zap.String("path", r.cfg.ServiceFile), zap.Error(err))
			inputErrs[steps.InputService] = err
		} else {
			available[steps.InputService] = true
		}
	}

	var refs references
	if result.Profile != nil {
		refs = prepareReferences(result.Profile, r.cfg)
		result.ParseErrors = refs.errs
		for _, err := range refs.errs {
			r.logger.Warn("citation skipped", zap.Error(err))
		}
	}

	for _, section := range sections {
		if err := steps.ValidateDependencies(section, available); err != nil {
			err = withInputCause(err, inputErrs)
			result.Skipped[section] = err
			r.logger.Error("section skipped", zap.String("section", section), zap.Error(err))
			continue
		}
		text, err := r.renderSection(section, result, refs, people, service)
		if err != nil {
			return fmt.Errorf("failed to render %s: %w", section, err)
		}
		result.Fragments[section] = text
		result.Rendered = append(result.Rendered, section)
		r.logger.Debug("rendered section", zap.String("section", section), zap.Int("bytes", len(text)))
	}
	return nil
}

// withInputCause attaches the load error of the first missing input, so callers
// can test a skipped section with errors.Is(err, tables.ErrMalformedTable).
func withInputCause(err error, inputErrs map[steps.Input]error) error {
	var depErr *steps.DependencyError
	if !errors.As(err, &depErr) {
		return err
	}
	for _, in := range depErr.MissingDependencies {
		if cause, ok := inputErrs[in]; ok {
			return fmt.Errorf("%w: %w", err, cause)
		}
	}
	return err
}

func (r *runner) renderSection(section string, result *Result, refs references, people []types.PersonRecord, service []types.ServiceEntry) (string, error) {
	cfg := r.cfg
	switch section {
	case config.SectionSummary:
		return rendering.RenderSummary(rendering.SummaryInput{
			Profile:           result.Profile,
			Journals:          refs.journals,
			Books:             refs.books,
			Scholar:           result.Scholar,
			People:            people,
			PublicationOffset: cfg.PublicationOffset,
			Highlight:         cfg.HighlightName,
			TeachingBlurb:     cfg.TeachingBlurb,
			ServiceBlurb:      cfg.ServiceBlurb,
		})
	case config.SectionEducation:
		return rendering.RenderEducation(result.Profile.Education)
	case config.SectionEmployment:
		return rendering.RenderEmployment(result.Profile.Employment)
	case config.SectionFunding:
		return rendering.RenderFunding(result.Profile.Funding, rendering.NewFunderNames(cfg.FunderAliases))
	case config.SectionPublications:
		return rendering.RenderPublications(rendering.PublicationsInput{
			Scholar:        result.Scholar,
			Impact:         result.Impact,
			BadgeAllowList: cfg.BadgeAllowList,
			Papers:         refs.journals,
			Books:          refs.books,
			Style:          rendering.NewReferenceStyle(cfg.HighlightName, cfg.HiddenFields),
		})
	case config.SectionPeople:
		return rendering.RenderPeople(people)
	case config.SectionService:
		return rendering.RenderService(service, cfg.ServiceMarker)
	default:
		return "", fmt.Errorf("unknown section: %s", section)
	}
}

type references struct {
	journals []bibliography.Entry
	books    []bibliography.Entry
	errs     []error
}

// NewNormalizer builds the citation normalizer with the configured name fixes appended.
func NewNormalizer(cfg *config.Config) *bibliography.Normalizer {
	fixes := make([]bibliography.Substitution, 0, len(cfg.NameFixes))
	for _, fix := range cfg.NameFixes {
		fixes = append(fixes, bibliography.Literal("name fix: "+fix.Pattern, fix.Pattern, fix.Replacement))
	}
	return bibliography.NewNormalizer(fixes...)
}

func prepareReferences(profile *types.ProfileRecord, cfg *config.Config) references {
	n := NewNormalizer(cfg)
	journals, journalErrs := bibliography.Prepare(n, citationTexts(profile.Journals))
	books, bookErrs := bibliography.Prepare(n, citationTexts(profile.Books))
	return references{
		journals: journals,
		books:    books,
		errs:     append(journalErrs, bookErrs...),
	}
}

func citationTexts(citations []types.Citation) []string {
	texts := make([]string, len(citations))
	for i, c := range citations {
		texts[i] = c.Text
	}
	return texts
}

func fetchOptions(cfg *config.Config) *fetch.Options {
	return fetch.DefaultOptions().WithTimeout(cfg.TimeoutDuration())
}

// FetchProfile retrieves the configured researcher's ORCID record.
func FetchProfile(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*types.ProfileRecord, error) {
	opts := []orcid.Option{
		orcid.WithFetchOptions(fetchOptions(cfg)),
		orcid.WithLogger(logger),
	}
	if cfg.ORCIDBaseURL != "" {
		opts = append(opts, orcid.WithBaseURL(cfg.ORCIDBaseURL))
	}
	return orcid.New(opts...).Fetch(ctx, cfg.ORCIDID)
}

// LookupScholar runs the Google Scholar lookup for the configured user id.
func LookupScholar(ctx context.Context, cfg *config.Config, logger *zap.Logger) types.Outcome[types.ScholarMetrics] {
	return enrich.NewScholarClient(cfg.ScholarBaseURL, fetchOptions(cfg), logger).Lookup(ctx, cfg.ScholarID)
}

// LookupImpactStory runs the ImpactStory lookup for the configured person id.
func LookupImpactStory(ctx context.Context, cfg *config.Config, logger *zap.Logger) types.Outcome[types.ImpactProfile] {
	return enrich.NewImpactStoryClient(cfg.ImpactStoryBaseURL, fetchOptions(cfg), logger).Lookup(ctx, cfg.ImpactStoryID)
}
