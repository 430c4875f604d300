package cmd

import (
	"fmt"
	"strings"

	"github.com/nikogura/tex-tailor/pkg/latex"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals // Cobra boilerplate
var sectionsCmd = &cobra.Command{
	Use:   "sections <resume.tex>",
	Short: "List the sections a resume is split into",
	Long: `Sections shows how tailor will split a resume: the intro block before the
first \section and every section in document order. No model is called.

Example:
  tex-tailor sections resume.tex
  tex-tailor sections resume.tex -v`,
	Args: cobra.ExactArgs(1),
	RunE: runSections,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(sectionsCmd)
}

func runSections(cmd *cobra.Command, args []string) (err error) {
	var resume latex.Resume
	resume, err = latex.Load(args[0])
	if err != nil {
		return err
	}

	var doc latex.Document
	doc, err = latex.Parse(resume.Content)
	if err != nil {
		err = errors.Wrapf(err, "cannot segment %s", resume.Path)
		return err
	}

	_, _ = headColor.Println("Intro")
	fmt.Printf("  %d lines\n", lineCount(doc.Intro))
	if getVerbose() && doc.Intro != "" {
		_, _ = dimColor.Println(indent(doc.Intro))
	}

	_, _ = headColor.Printf("Sections (%d)\n", len(doc.Sections))
	for i, section := range doc.Sections {
		fmt.Printf("  %2d. %s", i+1, displayTitle(latex.SectionTitle(section)))
		_, _ = dimColor.Printf(" (%d lines)\n", lineCount(section))
		if getVerbose() {
			_, _ = dimColor.Println(indent(section))
		}
	}

	return err
}

func lineCount(text string) (count int) {
	if text == "" {
		return count
	}
	count = strings.Count(text, "\n") + 1
	return count
}

func indent(text string) (indented string) {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = "      " + line
	}
	indented = strings.Join(lines, "\n")
	return indented
}
