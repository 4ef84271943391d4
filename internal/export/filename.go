package export

import (
	"regexp"
	"slices"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/rajesharjun-oss/Remittance-Schedule-Tool/internal/classify"
)

const (
	UnknownCompany  = "Unknown_Company"
	NoTaxCodesToken = "Remittance"
)

var (
	reUnsafe     = regexp.MustCompile(`[^A-Za-z0-9\s]`)
	reWhitespace = regexp.MustCompile(`\s+`)
)

// StandardFilename builds {company}_{codes}_Schedule from the whole ledger.
func StandardFilename(rows []classify.Row) string {
	company := UnknownCompany
	if name, ok := dominantCompany(rows); ok {
		if s := SanitizeCompany(name); s != "" {
			company = s
		}
	}

	var codes []string
	for _, r := range rows {
		c := string(r.CanonicalTaxType)
		if c != "" && !slices.Contains(codes, c) {
			codes = append(codes, c)
		}
	}
	slices.Sort(codes)
	token := NoTaxCodesToken
	if len(codes) > 0 {
		token = strings.Join(codes, "_")
	}

	return company + "_" + token + "_Schedule"
}

// SanitizeCompany keeps letters, digits and whitespace, then joins words with "_".
// Accented letters are folded to their ASCII base first (é -> e).
func SanitizeCompany(name string) string {
	s := foldAccents(name)
	s = reUnsafe.ReplaceAllString(s, "")
	s = strings.TrimSpace(s)
	return reWhitespace.ReplaceAllString(s, "_")
}

func foldAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}
