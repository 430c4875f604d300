package tailor

import (
	"path/filepath"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// DefaultLabel names the output when no company label is given.
const DefaultLabel = "tailored"

//nolint:gochecknoglobals // Suffix table
var companySuffixes = []string{
	", LLC", ", Inc.", ", Inc",
	" LLC", " Inc.", " Inc",
	" Corporation", " Corp.", " Corp",
	" Limited", " Ltd.", " Ltd",
	" GmbH", " S.A.", " Co.", " Co",
}

// SanitizeLabel turns a company name into a filename-safe slug. Accents are
// folded ("Société Générale" becomes "societe-generale") and common legal
// suffixes dropped.
func SanitizeLabel(name string) (sanitized string) {
	sanitized = strings.TrimSpace(name)
	for _, suffix := range companySuffixes {
		if len(sanitized) > len(suffix) && strings.EqualFold(sanitized[len(sanitized)-len(suffix):], suffix) {
			sanitized = sanitized[:len(sanitized)-len(suffix)]
		}
	}

	folder := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(folder, sanitized)
	if err == nil {
		sanitized = folded
	}

	sanitized = strings.ToLower(sanitized)

	// Replace spaces and special chars with hyphens
	sanitized = strings.Map(func(r rune) (result rune) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			result = r
			return result
		}
		result = '-'
		return result
	}, sanitized)

	for strings.Contains(sanitized, "--") {
		sanitized = strings.ReplaceAll(sanitized, "--", "-")
	}

	sanitized = strings.Trim(sanitized, "-")

	return sanitized
}

// OutputPath derives where the tailored resume is written:
// <outDir>/<label>/<source-base>-<label>.tex.
func OutputPath(outDir, label, sourcePath string) (path string) {
	slug := SanitizeLabel(label)
	if slug == "" {
		slug = DefaultLabel
	}

	base := strings.TrimSuffix(filepath.Base(sourcePath), filepath.Ext(sourcePath))
	path = filepath.Join(outDir, slug, base+"-"+slug+".tex")

	return path
}
