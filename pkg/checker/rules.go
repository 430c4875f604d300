package checker

// Severity levels. Any critical violation rejects an edit.
const (
	SeverityCritical = "critical"
	SeverityMajor    = "major"
	SeverityMinor    = "minor"
)

// Rule names.
const (
	RuleEmptyEdit             = "EMPTY_EDIT"
	RuleMissingSectionMarker  = "MISSING_SECTION_MARKER"
	RuleExtraSectionMarker    = "EXTRA_SECTION_MARKER"
	RuleDocumentMarker        = "DOCUMENT_MARKER"
	RuleUnbalancedBraces      = "UNBALANCED_BRACES"
	RuleUnbalancedEnvironment = "UNBALANCED_ENVIRONMENT"
	RuleHeadingChanged        = "HEADING_CHANGED"
	RuleLengthBlowup          = "LENGTH_BLOWUP"
)

// Rule represents a validation rule for an edited section.
type Rule struct {
	Name        string
	Category    string // structure, content
	Severity    string // critical, major, minor
	Description string
	Weight      int // Points deducted for violation
}

//nolint:gochecknoglobals // Rule configuration constants
var Rules = map[string]Rule{
	// Structure rules (Critical)
	RuleEmptyEdit: {
		Name:        RuleEmptyEdit,
		Category:    "structure",
		Severity:    SeverityCritical,
		Description: "Edited section is empty",
		Weight:      100,
	},
	RuleMissingSectionMarker: {
		Name:        RuleMissingSectionMarker,
		Category:    "structure",
		Severity:    SeverityCritical,
		Description: "Edited section does not start with \\section or \\section*",
		Weight:      40,
	},
	RuleExtraSectionMarker: {
		Name:        RuleExtraSectionMarker,
		Category:    "structure",
		Severity:    SeverityCritical,
		Description: "Edited section contains more section markers than the original",
		Weight:      40,
	},
	RuleDocumentMarker: {
		Name:        RuleDocumentMarker,
		Category:    "structure",
		Severity:    SeverityCritical,
		Description: "Edited section contains \\begin{document} or \\end{document}",
		Weight:      40,
	},
	RuleUnbalancedBraces: {
		Name:        RuleUnbalancedBraces,
		Category:    "structure",
		Severity:    SeverityCritical,
		Description: "Unescaped braces do not balance",
		Weight:      30,
	},
	RuleUnbalancedEnvironment: {
		Name:        RuleUnbalancedEnvironment,
		Category:    "structure",
		Severity:    SeverityCritical,
		Description: "\\begin{...} and \\end{...} environments do not pair up",
		Weight:      30,
	},

	// Content rules
	RuleHeadingChanged: {
		Name:        RuleHeadingChanged,
		Category:    "content",
		Severity:    SeverityMinor,
		Description: "Section heading differs from the original",
		Weight:      5,
	},
	RuleLengthBlowup: {
		Name:        RuleLengthBlowup,
		Category:    "content",
		Severity:    SeverityMajor,
		Description: "Edited section is more than three times the original length",
		Weight:      15,
	},
}
