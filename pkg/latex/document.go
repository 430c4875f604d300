package latex

import (
	"os"

	"github.com/pkg/errors"
)

// ErrFileNotFound is returned when the resume source does not exist.
var ErrFileNotFound = errors.New("file not found")

// Resume is a LaTeX resume read from disk. Content is never modified.
type Resume struct {
	Path    string
	Content string
}

// Document is a segmented resume.
type Document struct {
	Source   string
	Intro    string
	Sections []string
}

// Load reads a resume file fully into memory.
func Load(path string) (resume Resume, err error) {
	var data []byte
	data, err = os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			err = errors.Wrapf(ErrFileNotFound, "resume %s", path)
			return resume, err
		}
		err = errors.Wrapf(err, "failed to read resume: %s", path)
		return resume, err
	}

	resume = Resume{
		Path:    path,
		Content: string(data),
	}

	return resume, err
}

// Parse segments source into a Document.
func Parse(source string) (doc Document, err error) {
	doc.Source = source
	doc.Intro, doc.Sections, err = Segment(source)
	return doc, err
}

// Assemble rebuilds the document with sections in place of the original ones.
func (d Document) Assemble(sections []string) (document string) {
	document = Assemble(d.Source, d.Intro, sections)
	return document
}
