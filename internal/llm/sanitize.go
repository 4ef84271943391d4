package llm

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"maps"
	"strconv"
	"strings"
)

// synonyms maps keys services commonly emit onto the contract's names.
// Earlier entries win when several synonyms of one field are present.
var synonyms = [][2]string{
	{"company_name", "companyName"},
	{"company", "companyName"},
	{"taxpayer", "companyName"},
	{"payment_date", "paymentDate"},
	{"date", "paymentDate"},
	{"payment_period", "paymentPeriod"},
	{"period", "paymentPeriod"},
	{"transaction_number", "receiptNumber"},
	{"receipt_number", "receiptNumber"},
	{"tax_type", "taxType"},
	{"total", "amount"},
	{"amount_paid", "amount"},
}

// SanitizeExtractionJSON
// - Strips code fences and surrounding prose
// - Renames known synonyms (company_name -> companyName)
// - Drops null/empty fields
// - Coerces amount strings ("NGN 1,250.00") to numbers and numeric ids to strings
// - Removes unknown keys
func SanitizeExtractionJSON(raw []byte, logger *slog.Logger) ([]byte, []string, error) {
	if logger == nil {
		logger = slog.Default()
	}

	var m map[string]any
	if err := json.Unmarshal([]byte(CleanModelJSON(string(raw))), &m); err != nil {
		return nil, nil, fmt.Errorf("sanitize: decode: %w", err)
	}
	if m == nil {
		return nil, nil, fmt.Errorf("sanitize: response is not an object")
	}

	dropped := make([]string, 0, 4)

	// 1) rename synonyms, never overwriting a canonical key
	for _, syn := range synonyms {
		from, to := syn[0], syn[1]
		if v, ok := m[from]; ok {
			if _, exists := m[to]; !exists {
				m[to] = v
			}
			delete(m, from)
			dropped = append(dropped, from+"->"+to)
		}
	}

	// 2) remove unknown keys
	allowed := map[string]struct{}{}
	for _, f := range ExtractionFields {
		allowed[f.Name] = struct{}{}
	}
	for k := range maps.Clone(m) {
		if _, ok := allowed[k]; !ok {
			delete(m, k)
			dropped = append(dropped, k+"(unknown)")
		}
	}

	// 3) amount: numbers pass, money strings are parsed, anything else goes
	if v, ok := m["amount"]; ok {
		switch t := v.(type) {
		case float64:
		case string:
			if f, ok := ParseAmount(t); ok {
				m["amount"] = f
			} else {
				delete(m, "amount")
				dropped = append(dropped, "amount(unparsable)")
			}
		case nil:
			delete(m, "amount")
			dropped = append(dropped, "amount(null)")
		default:
			delete(m, "amount")
			dropped = append(dropped, "amount(type)")
		}
	}

	// 4) string fields: trim, drop empties, stringify bare numbers; leave
	// objects and arrays for the schema to reject
	for _, f := range ExtractionFields {
		if f.Type != "string" {
			continue
		}
		switch t := m[f.Name].(type) {
		case string:
			s := strings.TrimSpace(t)
			if s == "" || strings.EqualFold(s, "null") {
				delete(m, f.Name)
				dropped = append(dropped, f.Name+"(empty)")
			} else {
				m[f.Name] = s
			}
		case float64:
			m[f.Name] = strconv.FormatFloat(t, 'f', -1, 64)
		case nil:
			if _, present := m[f.Name]; present {
				delete(m, f.Name)
				dropped = append(dropped, f.Name+"(null)")
			}
		}
	}

	out, err := json.Marshal(m)
	if err != nil {
		return nil, dropped, fmt.Errorf("sanitize: encode: %w", err)
	}
	if len(dropped) > 0 {
		logger.Warn("llm.extract.normalize_sanitize", "dropped", dropped)
	}
	return out, dropped, nil
}

// CleanModelJSON removes markdown fences and keeps the outermost JSON object.
func CleanModelJSON(raw string) string {
	s := strings.TrimSpace(raw)

	if strings.HasPrefix(s, "```") {
		if idx := strings.Index(s, "\n"); idx != -1 {
			s = s[idx+1:]
		} else {
			return s
		}
		s = strings.TrimSpace(s)
	}
	if idx := strings.LastIndex(s, "```"); idx != -1 {
		s = s[:idx]
	}
	s = strings.TrimSpace(s)

	if start := strings.Index(s, "{"); start != -1 {
		if end := strings.LastIndex(s, "}"); end != -1 && end > start {
			s = strings.TrimSpace(s[start : end+1])
		}
	}
	return s
}

// ParseAmount reads a money string such as "₦1,234.50", "NGN 5000" or "(250.00)".
// The sign is discarded; normalization keeps amounts non-negative anyway.
func ParseAmount(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(strings.TrimPrefix(s, "("), "-")
	s = strings.TrimSuffix(s, ")")
	s = strings.Map(func(r rune) rune {
		switch {
		case r >= '0' && r <= '9', r == '.', r == '-':
			return r
		default:
			return -1
		}
	}, s)
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}
