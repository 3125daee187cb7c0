package passenger

// FieldConstraint describes the accepted values of one input field, for
// rendering input guidelines in the presentation layer.
type FieldConstraint struct {
	Field      string   `json:"field"`
	Type       string   `json:"type"`
	Categories []string `json:"categories,omitempty"`
	Min        *float64 `json:"min,omitempty"`
	Max        *float64 `json:"max,omitempty"`
}

// Constraints returns the static constraint table, one entry per field in
// feature-vector order.
func Constraints() []FieldConstraint {
	minAge, maxAge := MinAge, MaxAge
	zero := 0.0
	return []FieldConstraint{
		{Field: "class", Type: "category", Categories: categoryNames(Classes())},
		{Field: "sex", Type: "category", Categories: categoryNames(Sexes())},
		{Field: "age", Type: "number", Min: &minAge, Max: &maxAge},
		{Field: "siblings_spouses", Type: "integer", Min: &zero},
		{Field: "parents_children", Type: "integer", Min: &zero},
		{Field: "fare", Type: "number", Min: &zero},
		{Field: "embark_port", Type: "category", Categories: categoryNames(Ports())},
	}
}

func categoryNames[T ~string](values []T) []string {
	names := make([]string, len(values))
	for i, v := range values {
		names[i] = string(v)
	}
	return names
}
