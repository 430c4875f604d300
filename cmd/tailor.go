package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/nikogura/tex-tailor/pkg/config"
	"github.com/nikogura/tex-tailor/pkg/jd"
	"github.com/nikogura/tex-tailor/pkg/latex"
	"github.com/nikogura/tex-tailor/pkg/llm"
	"github.com/nikogura/tex-tailor/pkg/renderer"
	"github.com/nikogura/tex-tailor/pkg/tailor"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals // Cobra boilerplate
var jdInput string

//nolint:gochecknoglobals // Cobra boilerplate
var company string

//nolint:gochecknoglobals // Cobra boilerplate
var outputDir string

//nolint:gochecknoglobals // Cobra boilerplate
var providerName string

//nolint:gochecknoglobals // Cobra boilerplate
var modelName string

//nolint:gochecknoglobals // Cobra boilerplate
var stateful bool

//nolint:gochecknoglobals // Cobra boilerplate
var concurrency int

//nolint:gochecknoglobals // Cobra boilerplate
var skipPDF bool

//nolint:gochecknoglobals // Cobra boilerplate
var keepArtifacts bool

//nolint:gochecknoglobals // Cobra boilerplate
var writeReport bool

//nolint:gochecknoglobals // Cobra boilerplate
var tailorCmd = &cobra.Command{
	Use:   "tailor <resume.tex>",
	Short: "Tailor a LaTeX resume to a job description",
	Long: `Tailor rewrites every \section of a LaTeX resume for a job description and
writes the result to <output-dir>/<company>/<name>-<company>.tex, then builds a PDF.

The job description can be provided as:
- A file path (e.g., --jd jd.txt)
- A URL (e.g., --jd https://example.com/jobs/123)
- Standard input (e.g., pbpaste | tex-tailor tailor resume.tex)

Without any job description the sections are polished without a target role.

Example:
  tex-tailor tailor resume.tex --jd jd.txt --company "Acme Corp"
  tex-tailor tailor resume.tex --jd https://example.com/jobs/123 --company Acme --provider openai
  tex-tailor tailor resume.tex --jd jd.txt --stateful --skip-pdf`,
	Args: cobra.ExactArgs(1),
	RunE: runTailor,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(tailorCmd)
	tailorCmd.Flags().StringVar(&jdInput, "jd", "", "Job description file or URL (read from stdin if omitted and piped)")
	tailorCmd.Flags().StringVar(&company, "company", "", "Company name used to label the output")
	tailorCmd.Flags().StringVar(&outputDir, "output-dir", "", "Output directory (default from config)")
	tailorCmd.Flags().StringVar(&providerName, "provider", "", "Model provider: claude, openai, or gemini (default from config)")
	tailorCmd.Flags().StringVar(&modelName, "model", "", "Model name (default from config)")
	tailorCmd.Flags().BoolVar(&stateful, "stateful", false, "Keep one conversation per resume so later sections see earlier edits")
	tailorCmd.Flags().IntVar(&concurrency, "concurrency", 0, "Sections edited in parallel when not stateful (default from config)")
	tailorCmd.Flags().BoolVar(&skipPDF, "skip-pdf", false, "Write the .tex file only")
	tailorCmd.Flags().BoolVar(&keepArtifacts, "keep-artifacts", false, "Keep LaTeX build artifacts (.aux, .log, ...)")
	tailorCmd.Flags().BoolVar(&writeReport, "report", false, "Write a JSON report of every section edit next to the output")
}

func runTailor(cmd *cobra.Command, args []string) (err error) {
	ctx := context.Background()
	ctx, cancel := context.WithTimeout(ctx, 15*time.Minute)
	defer cancel()

	var cfg config.Config
	cfg, err = config.Load(getConfigFile(), providerName)
	if err != nil {
		err = errors.Wrap(err, "failed to load config")
		return err
	}
	applyFlags(cmd, &cfg)

	var resume latex.Resume
	resume, err = latex.Load(args[0])
	if err != nil {
		return err
	}

	// Fail on structure before spending any API calls
	var doc latex.Document
	doc, err = latex.Parse(resume.Content)
	if err != nil {
		err = errors.Wrapf(err, "cannot tailor %s", resume.Path)
		return err
	}

	if getVerbose() {
		fmt.Printf("Loaded %s: %d sections\n", resume.Path, len(doc.Sections))
	}

	var jobDescription string
	jobDescription, err = loadJobDescription(jdInput)
	if err != nil {
		return err
	}

	var editor tailor.Editor
	var closeEditor func() error
	editor, closeEditor, err = newEditor(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		_ = closeEditor()
	}()

	reporter := &sectionReporter{total: len(doc.Sections)}
	pipeline := tailor.New(editor, tailor.Options{
		JobDescription: jobDescription,
		Stateful:       cfg.Editing.Stateful,
		Concurrency:    cfg.Editing.Concurrency,
		OnSection:      reporter.report,
	})

	var result tailor.Result
	message := fmt.Sprintf("Tailoring %d sections with %s (%s)...", len(doc.Sections), cfg.Provider, cfg.Model())
	withSpinner(message, func(s *spinner) {
		reporter.out = s
		result = pipeline.RunDocument(ctx, doc)
	})

	outPath := tailor.OutputPath(cfg.Defaults.OutputDir, company, resume.Path)
	err = renderer.WriteTeX(result.Output, outPath, resume.Path)
	if err != nil {
		return err
	}

	printSummary(result, outPath)

	if writeReport {
		err = writeJSONReport(result, strings.TrimSuffix(outPath, ".tex")+".json")
		if err != nil {
			return err
		}
	}

	if skipPDF {
		return err
	}

	err = buildPDF(cfg, outPath)
	return err
}

// applyFlags lets command-line flags override config values.
func applyFlags(cmd *cobra.Command, cfg *config.Config) {
	if outputDir != "" {
		cfg.Defaults.OutputDir = outputDir
	}

	if modelName != "" {
		switch cfg.Provider {
		case config.ProviderOpenAI:
			cfg.Models.OpenAI = modelName
		case config.ProviderGemini:
			cfg.Models.Gemini = modelName
		default:
			cfg.Models.Claude = modelName
		}
	}

	if cmd.Flags().Changed("stateful") {
		cfg.Editing.Stateful = stateful
	}

	if cmd.Flags().Changed("concurrency") && concurrency > 0 {
		cfg.Editing.Concurrency = concurrency
	}

	if cfg.Editing.Stateful && cfg.Editing.Concurrency > 1 && getVerbose() {
		fmt.Println("Stateful editing is sequential; ignoring concurrency")
	}
}

// loadJobDescription reads the job description from a file or URL, or from
// stdin when nothing is given and input is piped. A failed URL fetch falls
// back to pasting the text.
func loadJobDescription(input string) (jobDescription string, err error) {
	if input == "" {
		if !stdinPiped() {
			if getVerbose() {
				fmt.Println("No job description given; polishing without a target role")
			}
			return jobDescription, err
		}

		jobDescription, err = jd.Read(os.Stdin)
		if err != nil {
			return jobDescription, err
		}

		if getVerbose() {
			fmt.Printf("Job description read from stdin (%d characters)\n", len(jobDescription))
		}
		return jobDescription, err
	}

	if getVerbose() {
		fmt.Printf("Loading job description from: %s\n", input)
	}

	jobDescription, err = jd.Fetch(input)
	if err == nil {
		if getVerbose() {
			fmt.Printf("Job description loaded (%d characters)\n", len(jobDescription))
		}
		return jobDescription, err
	}

	if !jd.IsURL(input) {
		return jobDescription, err
	}

	// If fetching failed, offer to accept manual input
	_, _ = warnColor.Printf("\nWarning: Failed to fetch job description from URL: %v\n", err)
	fmt.Println("This often happens with JavaScript-rendered pages (Lever, Workable, etc.)")
	fmt.Println("\nPlease paste the job description text below.")
	fmt.Println("When finished, press Ctrl+D (Unix/Mac) or Ctrl+Z then Enter (Windows):")
	fmt.Println()

	jobDescription, err = jd.Read(os.Stdin)
	if err != nil {
		return jobDescription, err
	}

	if jobDescription == "" {
		err = errors.New("no job description provided")
		return jobDescription, err
	}

	fmt.Printf("\nJob description received (%d characters)\n", len(jobDescription))
	return jobDescription, err
}

func stdinPiped() (piped bool) {
	info, err := os.Stdin.Stat()
	if err != nil {
		return piped
	}
	piped = info.Mode()&os.ModeCharDevice == 0
	return piped
}

// newEditor builds the editor for the configured provider. The returned close
// function is always safe to call.
func newEditor(ctx context.Context, cfg config.Config) (editor tailor.Editor, closeEditor func() error, err error) {
	closeEditor = func() (closeErr error) { return closeErr }

	opts := llm.Options{
		APIKey:     cfg.APIKey(),
		Model:      cfg.Model(),
		MaxTokens:  cfg.Editing.MaxTokens,
		MaxRetries: cfg.Editing.MaxRetries,
		Timeout:    cfg.Timeout(),
	}

	switch cfg.Provider {
	case config.ProviderOpenAI:
		editor = llm.NewOpenAIEditor(opts)
	case config.ProviderGemini:
		var gemini *llm.GeminiEditor
		gemini, err = llm.NewGeminiEditor(ctx, opts)
		if err != nil {
			return editor, closeEditor, err
		}
		editor = gemini
		closeEditor = gemini.Close
	default:
		editor = llm.NewClaudeEditor(opts)
	}

	return editor, closeEditor, err
}

func printSummary(result tailor.Result, outPath string) {
	edited := len(result.Sections) - result.FallbackCount()
	_, _ = okColor.Printf("✓ Tailored %d of %d sections\n", edited, len(result.Sections))
	if result.FallbackCount() > 0 {
		_, _ = warnColor.Printf("⚠ %d sections kept their original text\n", result.FallbackCount())
	}
	fmt.Printf("  Resume: %s\n", outPath)
}

func writeJSONReport(result tailor.Result, path string) (err error) {
	var data []byte
	data, err = json.MarshalIndent(result, "", "  ")
	if err != nil {
		err = errors.Wrap(err, "failed to marshal report")
		return err
	}

	err = os.WriteFile(path, data, 0600)
	if err != nil {
		err = errors.Wrapf(err, "failed to write report: %s", path)
		return err
	}

	fmt.Printf("  Report: %s\n", path)
	return err
}

// buildPDF compiles the tailored resume. A failed build is an error but the
// .tex file stays on disk.
func buildPDF(cfg config.Config, texPath string) (err error) {
	builder := renderer.NewBuilder(cfg.LaTeX.Engine, cfg.LaTeX.Args)

	var pdfPath string
	withSpinner(fmt.Sprintf("Building PDF with %s...", builder.Engine), func(_ *spinner) {
		pdfPath, err = builder.RenderPDF(texPath)
	})
	if err != nil {
		err = errors.Wrapf(err, "tailored resume written to %s but PDF build failed", texPath)
		return err
	}

	fmt.Printf("  PDF: %s\n", pdfPath)

	if keepArtifacts {
		return err
	}

	err = builder.Cleanup(texPath)
	if err != nil {
		// The PDF is already built
		_, _ = warnColor.Printf("Warning: failed to clean build artifacts: %v\n", err)
		err = nil
	}

	return err
}
