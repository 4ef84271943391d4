package llm

// Field describes one property of the extraction contract.
type Field struct {
	Name        string
	Type        string // "string" | "number"
	Description string
}

// ExtractionFields is the fixed field set requested from every provider, in order.
var ExtractionFields = []Field{
	{Name: "companyName", Type: "string", Description: "Taxpayer or company name"},
	{Name: "paymentDate", Type: "string", Description: "Payment date, YYYY-MM-DD"},
	{Name: "paymentPeriod", Type: "string", Description: "Tax period, Mon-YY"},
	{Name: "receiptNumber", Type: "string", Description: "Transaction or receipt number"},
	{Name: "taxType", Type: "string", Description: "Tax type as printed"},
	{Name: "amount", Type: "number", Description: "Total amount paid"},
}

// FieldNames returns the contract's property names in order.
func FieldNames() []string {
	names := make([]string, len(ExtractionFields))
	for i, f := range ExtractionFields {
		names[i] = f.Name
	}
	return names
}

// BuildExtractionSchema returns the request-side JSON Schema: every field required,
// nothing else allowed.
func BuildExtractionSchema() map[string]any {
	props := map[string]any{}
	for _, f := range ExtractionFields {
		props[f.Name] = map[string]any{"type": f.Type, "description": f.Description}
	}
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties":           props,
		"required":             FieldNames(),
	}
}

// BuildResponseSchema is what a sanitized response is validated against locally.
// Services omit fields in practice, so only types are enforced; absence is
// handled by normalization.
func BuildResponseSchema() map[string]any {
	props := map[string]any{}
	for _, f := range ExtractionFields {
		props[f.Name] = map[string]any{"type": f.Type}
	}
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties":           props,
	}
}
