package tailor

import (
	"context"
	"strings"

	"github.com/nikogura/tex-tailor/pkg/checker"
	"github.com/nikogura/tex-tailor/pkg/latex"
	"github.com/nikogura/tex-tailor/pkg/llm"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// Editor rewrites one resume section. Implementations must return the section
// text only, and may fail or return junk; the pipeline falls back to the
// original text when they do.
type Editor interface {
	Edit(ctx context.Context, req llm.EditRequest) (edited string, err error)
}

// EditorFunc adapts a plain function to Editor.
type EditorFunc func(ctx context.Context, req llm.EditRequest) (edited string, err error)

// Edit calls f.
func (f EditorFunc) Edit(ctx context.Context, req llm.EditRequest) (edited string, err error) {
	edited, err = f(ctx, req)
	return edited, err
}

// Options controls how sections are edited.
type Options struct {
	JobDescription string
	// Stateful replays earlier exchanges into every call. Forces sequential editing.
	Stateful bool
	// Concurrency bounds parallel stateless edits. Values below 1 mean 1.
	Concurrency int
	// OnSection, if set, is called as each section finishes. With Concurrency
	// above 1 it may be called from several goroutines at once.
	OnSection func(result SectionResult)
}

// SectionResult is the outcome of editing one section.
type SectionResult struct {
	Index    int            `json:"index"`
	Title    string         `json:"title"`
	Original string         `json:"original"`
	Text     string         `json:"text"`
	FellBack bool           `json:"fell_back"`
	Err      error          `json:"-"`
	Error    string         `json:"error,omitempty"`
	Check    checker.Result `json:"check"`
}

// Result is the full outcome of a run.
type Result struct {
	Intro    string          `json:"intro"`
	Sections []SectionResult `json:"sections"`
	Output   string          `json:"-"`
}

// Edited returns the accepted text of every section, in document order.
func (r Result) Edited() (sections []string) {
	sections = make([]string, len(r.Sections))
	for i, s := range r.Sections {
		sections[i] = s.Text
	}
	return sections
}

// FallbackCount returns how many sections kept their original text because the
// edit failed.
func (r Result) FallbackCount() (count int) {
	for _, s := range r.Sections {
		if s.FellBack {
			count++
		}
	}
	return count
}

// Tailor runs the segment, edit, assemble pipeline.
type Tailor struct {
	editor  Editor
	checker *checker.Checker
	opts    Options
}

// New creates a pipeline around an editor.
func New(editor Editor, opts Options) (t *Tailor) {
	if opts.Concurrency < 1 {
		opts.Concurrency = 1
	}
	t = &Tailor{
		editor:  editor,
		checker: checker.NewChecker(),
		opts:    opts,
	}
	return t
}

// Run segments source, edits every section and assembles the result. Structural
// errors abort before any editing; per-section failures never do.
func (t *Tailor) Run(ctx context.Context, source string) (result Result, err error) {
	var doc latex.Document
	doc, err = latex.Parse(source)
	if err != nil {
		err = errors.Wrap(err, "failed to segment resume")
		return result, err
	}

	result = t.RunDocument(ctx, doc)
	return result, err
}

// RunDocument edits every section of an already segmented resume and
// assembles the result.
func (t *Tailor) RunDocument(ctx context.Context, doc latex.Document) (result Result) {
	result.Intro = doc.Intro
	result.Sections = t.EditSections(ctx, doc.Sections)
	result.Output = doc.Assemble(result.Edited())
	return result
}

// EditSections edits every section and returns one result per input, in input
// order.
func (t *Tailor) EditSections(ctx context.Context, sections []string) (results []SectionResult) {
	if t.opts.Stateful || t.opts.Concurrency == 1 {
		results = t.editSequential(ctx, sections)
		return results
	}

	results = t.editParallel(ctx, sections)
	return results
}

func (t *Tailor) editSequential(ctx context.Context, sections []string) (results []SectionResult) {
	results = make([]SectionResult, len(sections))

	var history []llm.Exchange
	for i, section := range sections {
		req := llm.EditRequest{
			JobDescription: t.opts.JobDescription,
			Section:        section,
		}
		if t.opts.Stateful {
			req.History = history
		}

		results[i] = t.editOne(ctx, i, req)
		t.report(results[i])

		if t.opts.Stateful {
			history = append(history, llm.Exchange{Section: section, Edited: results[i].Text})
		}
	}

	return results
}

func (t *Tailor) editParallel(ctx context.Context, sections []string) (results []SectionResult) {
	results = make([]SectionResult, len(sections))

	var group errgroup.Group
	group.SetLimit(t.opts.Concurrency)

	for i, section := range sections {
		group.Go(func() (err error) {
			results[i] = t.editOne(ctx, i, llm.EditRequest{
				JobDescription: t.opts.JobDescription,
				Section:        section,
			})
			t.report(results[i])
			return err
		})
	}

	// Failures are recorded per section, never returned.
	_ = group.Wait()

	return results
}

// editOne calls the editor and applies the fallback policy.
func (t *Tailor) editOne(ctx context.Context, index int, req llm.EditRequest) (result SectionResult) {
	result = SectionResult{
		Index:    index,
		Title:    latex.SectionTitle(req.Section),
		Original: req.Section,
		Text:     req.Section,
	}

	edited, err := t.editor.Edit(ctx, req)
	if err != nil {
		result.FellBack = true
		result.Err = errors.Wrapf(err, "section %d (%s)", index+1, result.Title)
		result.Error = result.Err.Error()
		return result
	}

	edited = strings.TrimSpace(edited)
	result.Check = t.checker.Check(req.Section, edited)
	if result.Check.Critical() {
		result.FellBack = true
		result.Err = errors.Errorf("section %d (%s): edit rejected: %s", index+1, result.Title, describe(result.Check))
		result.Error = result.Err.Error()
		return result
	}

	result.Text = edited
	return result
}

func (t *Tailor) report(result SectionResult) {
	if t.opts.OnSection != nil {
		t.opts.OnSection(result)
	}
}

func describe(check checker.Result) (summary string) {
	parts := make([]string, 0, len(check.Violations))
	for _, v := range check.Violations {
		if v.Severity == checker.SeverityCritical {
			parts = append(parts, v.Rule)
		}
	}
	summary = strings.Join(parts, ", ")
	return summary
}
