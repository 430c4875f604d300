package latex

import (
	"strings"
)

// Assemble rebuilds a document from the original source, the intro and a
// (possibly edited) list of sections.
//
// The preamble is whatever precedes the first \begin{document} in original, or
// nothing if the marker is absent. The closing part is the last \end{document}
// and everything after it; when original has none, a bare \end{document} is
// synthesized. Parts are joined with blank lines.
func Assemble(original, intro string, sections []string) (document string) {
	preamble := ""
	if idx := strings.Index(original, BeginDocument); idx != -1 {
		preamble = original[:idx]
	}

	closing := EndDocument
	if idx := strings.LastIndex(original, EndDocument); idx != -1 {
		closing = original[idx:]
	}

	var builder strings.Builder
	builder.Grow(len(original) + 64)
	builder.WriteString(preamble)
	builder.WriteString(BeginDocument)
	builder.WriteString("\n\n")
	builder.WriteString(intro)
	builder.WriteString("\n\n")
	builder.WriteString(strings.Join(sections, "\n\n"))
	builder.WriteString("\n\n")
	builder.WriteString(closing)

	document = builder.String()
	return document
}
