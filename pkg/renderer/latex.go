package renderer

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// DefaultEngine is the build tool used when none is configured.
const DefaultEngine = "latexmk"

//nolint:gochecknoglobals // Intermediate files left next to the PDF
var artifactExtensions = []string{".aux", ".log", ".out", ".fls", ".fdb_latexmk", ".synctex.gz", ".toc", ".xdv"}

// Builder compiles LaTeX sources with an external engine.
type Builder struct {
	Engine string
	Args   []string
}

// NewBuilder creates a builder. An empty engine means latexmk.
func NewBuilder(engine string, args []string) (builder *Builder) {
	if engine == "" {
		engine = DefaultEngine
	}
	builder = &Builder{
		Engine: engine,
		Args:   args,
	}
	return builder
}

// RenderPDF compiles texPath into a PDF next to it and returns the PDF path.
// A non-zero exit from the engine is an error carrying its output; the .tex
// file is left in place either way.
func (b *Builder) RenderPDF(texPath string) (pdfPath string, err error) {
	err = checkEngineExists(b.Engine)
	if err != nil {
		return pdfPath, err
	}

	err = validateFiles(texPath)
	if err != nil {
		return pdfPath, err
	}

	outputDir := filepath.Dir(texPath)
	pdfPath = filepath.Join(outputDir, baseName(texPath)+".pdf")

	//nolint:noctx // Context not available for exec.Command - LaTeX builds are a long-running subprocess
	cmd := exec.Command(b.Engine, b.buildArgs(texPath)...)

	// Run next to the resume so \input, custom .cls files and the PDF all
	// resolve in its directory
	cmd.Dir = outputDir

	var output []byte
	output, err = cmd.CombinedOutput()
	if err != nil {
		err = errors.Wrapf(err, "%s failed: %s", b.Engine, tail(string(output), 20))
		return pdfPath, err
	}

	_, err = os.Stat(pdfPath)
	if os.IsNotExist(err) {
		err = errors.Errorf("expected PDF not found at %s", pdfPath)
		return pdfPath, err
	}

	return pdfPath, err
}

// Cleanup removes intermediate build artifacts for texPath. With latexmk this
// is `latexmk -c`; other engines get their known artifact files removed.
func (b *Builder) Cleanup(texPath string) (err error) {
	outputDir := filepath.Dir(texPath)

	if b.isLatexmk() {
		//nolint:noctx // Context not available for exec.Command
		cmd := exec.Command(b.Engine, "-c", filepath.Base(texPath))
		cmd.Dir = outputDir

		var output []byte
		output, err = cmd.CombinedOutput()
		if err != nil {
			err = errors.Wrapf(err, "%s -c failed: %s", b.Engine, tail(string(output), 20))
			return err
		}
		return err
	}

	base := filepath.Join(outputDir, baseName(texPath))
	for _, ext := range artifactExtensions {
		path := base + ext
		err = os.Remove(path)
		if err != nil && !os.IsNotExist(err) {
			err = errors.Wrapf(err, "failed to remove build artifact: %s", path)
			return err
		}
	}
	err = nil

	return err
}

func (b *Builder) isLatexmk() (ok bool) {
	ok = filepath.Base(b.Engine) == "latexmk"
	return ok
}

func (b *Builder) buildArgs(texPath string) (args []string) {
	if b.isLatexmk() {
		args = append(args, "-pdf")
	}
	args = append(args, "-interaction=nonstopmode", "-halt-on-error")
	args = append(args, b.Args...)
	args = append(args, filepath.Base(texPath))
	return args
}

// checkEngineExists verifies the build engine is installed.
func checkEngineExists(engine string) (err error) {
	_, err = exec.LookPath(engine)
	if err != nil {
		err = errors.Errorf("%s not found in PATH (install a TeX distribution to generate PDFs)", engine)
		return err
	}
	return err
}

// validateFiles checks that required files exist.
func validateFiles(paths ...string) (err error) {
	for _, path := range paths {
		_, err = os.Stat(path)
		if os.IsNotExist(err) {
			err = errors.Errorf("file not found: %s", path)
			return err
		}
	}
	return err
}

// WriteTeX writes the tailored resume, refusing to overwrite the source.
func WriteTeX(content, outputPath, sourcePath string) (err error) {
	var same bool
	same, err = samePath(outputPath, sourcePath)
	if err != nil {
		return err
	}
	if same {
		err = errors.Errorf("refusing to overwrite source resume: %s", sourcePath)
		return err
	}

	// Ensure output directory exists
	outputDir := filepath.Dir(outputPath)
	err = os.MkdirAll(outputDir, 0750)
	if err != nil {
		err = errors.Wrapf(err, "failed to create output directory: %s", outputDir)
		return err
	}

	err = os.WriteFile(outputPath, []byte(content), 0600)
	if err != nil {
		err = errors.Wrapf(err, "failed to write tex file: %s", outputPath)
		return err
	}

	return err
}

func samePath(a, b string) (same bool, err error) {
	var absA, absB string
	absA, err = filepath.Abs(a)
	if err != nil {
		err = errors.Wrapf(err, "failed to resolve path: %s", a)
		return same, err
	}
	absB, err = filepath.Abs(b)
	if err != nil {
		err = errors.Wrapf(err, "failed to resolve path: %s", b)
		return same, err
	}
	same = absA == absB
	return same, err
}

func baseName(path string) (base string) {
	base = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return base
}

// tail returns the last n lines of build output; LaTeX errors are at the end.
func tail(output string, n int) (last string) {
	lines := strings.Split(strings.TrimRight(output, "\n"), "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	last = strings.Join(lines, "\n")
	return last
}
