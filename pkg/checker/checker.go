package checker

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/nikogura/tex-tailor/pkg/latex"
)

//nolint:gochecknoglobals // Compiled once
var environmentPattern = regexp.MustCompile(`\\(begin|end)\s*\{([^{}]*)\}`)

// Violation is a single rule broken by an edited section.
type Violation struct {
	Rule     string `json:"rule"`
	Severity string `json:"severity"`
	Detail   string `json:"detail"`
}

// Result holds the violations found for one edit and the resulting score.
type Result struct {
	Violations []Violation `json:"violations"`
	Score      int         `json:"score"`
}

// Critical reports whether any violation is critical. A critical result means
// the edit must be discarded in favor of the original section.
func (r Result) Critical() (critical bool) {
	for _, v := range r.Violations {
		if v.Severity == SeverityCritical {
			critical = true
			return critical
		}
	}
	return critical
}

// Checker validates edited sections against the section they replace.
type Checker struct {
	rules map[string]Rule
}

// NewChecker creates a checker with the default rule set.
func NewChecker() (checker *Checker) {
	checker = &Checker{
		rules: Rules,
	}
	return checker
}

// Check compares an edited section with its original and scores it.
func (c *Checker) Check(original, edited string) (result Result) {
	result.Violations = []Violation{}

	edited = strings.TrimSpace(edited)
	if edited == "" {
		result.Violations = append(result.Violations, c.violation(RuleEmptyEdit, "model returned no text"))
		result.Score = c.score(result.Violations)
		return result
	}

	if !latex.StartsWithSectionMarker(edited) {
		result.Violations = append(result.Violations, c.violation(RuleMissingSectionMarker, firstLine(edited)))
	}

	originalMarkers := latex.CountSectionMarkers(original)
	editedMarkers := latex.CountSectionMarkers(edited)
	if editedMarkers > originalMarkers {
		result.Violations = append(result.Violations, c.violation(RuleExtraSectionMarker,
			fmt.Sprintf("%d markers, expected %d", editedMarkers, originalMarkers)))
	}

	if strings.Contains(edited, latex.BeginDocument) || strings.Contains(edited, latex.EndDocument) {
		result.Violations = append(result.Violations, c.violation(RuleDocumentMarker, "document markers inside a section"))
	}

	// Balance is relative to the original, which may close an environment
	// opened in the intro.
	stripped := stripComments(edited)
	strippedOriginal := stripComments(original)

	depth, low := braceDepth(stripped)
	originalDepth, originalLow := braceDepth(strippedOriginal)
	if depth != originalDepth || low != originalLow {
		result.Violations = append(result.Violations, c.violation(RuleUnbalancedBraces,
			fmt.Sprintf("brace depth %+d at end of section, original %+d", depth, originalDepth)))
	}

	if detail := environmentChange(environmentResidue(strippedOriginal), environmentResidue(stripped)); detail != "" {
		result.Violations = append(result.Violations, c.violation(RuleUnbalancedEnvironment, detail))
	}

	originalTitle := latex.SectionTitle(original)
	editedTitle := latex.SectionTitle(edited)
	if originalTitle != editedTitle {
		result.Violations = append(result.Violations, c.violation(RuleHeadingChanged,
			fmt.Sprintf("%q became %q", originalTitle, editedTitle)))
	}

	if len(original) > 0 && len(edited) > 3*len(original) {
		result.Violations = append(result.Violations, c.violation(RuleLengthBlowup,
			fmt.Sprintf("%d bytes, original %d", len(edited), len(original))))
	}

	result.Score = c.score(result.Violations)

	return result
}

func (c *Checker) violation(name, detail string) (v Violation) {
	rule := c.rules[name]
	v = Violation{
		Rule:     rule.Name,
		Severity: rule.Severity,
		Detail:   detail,
	}
	return v
}

func (c *Checker) score(violations []Violation) (score int) {
	score = 100
	for _, v := range violations {
		score -= c.rules[v.Rule].Weight
	}
	if score < 0 {
		score = 0
	}
	return score
}

// stripComments removes unescaped % comments up to the end of each line.
func stripComments(text string) (stripped string) {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		for j := 0; j < len(line); j++ {
			if line[j] == '%' && !escaped(line, j) {
				lines[i] = line[:j]
				break
			}
		}
	}
	stripped = strings.Join(lines, "\n")
	return stripped
}

// braceDepth returns the net count of unescaped { minus } and the lowest
// running depth reached.
func braceDepth(text string) (depth, low int) {
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '{':
			if !escaped(text, i) {
				depth++
			}
		case '}':
			if !escaped(text, i) {
				depth--
				if depth < low {
					low = depth
				}
			}
		}
	}
	return depth, low
}

// escaped reports whether the byte at i is preceded by an odd run of backslashes.
func escaped(text string, i int) (ok bool) {
	count := 0
	for j := i - 1; j >= 0 && text[j] == '\\'; j-- {
		count++
	}
	ok = count%2 == 1
	return ok
}

// environmentResidue lists the environment markers that fail to pair up, in
// document order, with environments never closed last.
func environmentResidue(text string) (residue []string) {
	residue = []string{}
	stack := []string{}
	for _, match := range environmentPattern.FindAllStringSubmatch(text, -1) {
		name := strings.TrimSpace(match[2])
		if match[1] == "begin" {
			stack = append(stack, name)
			continue
		}

		if len(stack) == 0 {
			residue = append(residue, fmt.Sprintf("\\end{%s} without \\begin", name))
			continue
		}

		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if top != name {
			residue = append(residue, fmt.Sprintf("\\begin{%s} closed by \\end{%s}", top, name))
		}
	}

	for i := len(stack) - 1; i >= 0; i-- {
		residue = append(residue, fmt.Sprintf("\\begin{%s} never closed", stack[i]))
	}

	return residue
}

// environmentChange describes how the edited residue differs from the
// original's, or returns "" if they match.
func environmentChange(original, edited []string) (detail string) {
	for i := 0; i < len(original) || i < len(edited); i++ {
		switch {
		case i >= len(edited):
			detail = "no longer matches original: " + original[i]
			return detail
		case i >= len(original), original[i] != edited[i]:
			detail = edited[i]
			return detail
		}
	}
	return detail
}

func firstLine(text string) (line string) {
	line, _, _ = strings.Cut(text, "\n")
	return line
}
