package stoplight

// Rule declares how one field of a record type is anonymized.
type Rule struct {
	Field    string   // Go field name or column name
	Strategy Strategy // Transform to apply
	Args     []any    // Strategy arguments, passed through unchanged
}

// Mapping is the ordered list of rules for one record type.
// Rules are applied in declaration order.
type Mapping []Rule

// SuppressRule replaces field with SuppressedValue.
func SuppressRule(field string) Rule {
	return Rule{Field: field, Strategy: StrategySuppress}
}

// PartialSuppressRule masks field against pattern.
func PartialSuppressRule(field, pattern string) Rule {
	return Rule{Field: field, Strategy: StrategyPartialSuppress, Args: []any{pattern}}
}

// MockRule replaces field with generated data of the given kind.
func MockRule(field string, kind MockKind) Rule {
	return Rule{Field: field, Strategy: StrategyMock, Args: []any{kind}}
}

// VaryRule perturbs field with Gaussian noise of standard deviation sigma.
func VaryRule(field string, sigma float64) Rule {
	return Rule{Field: field, Strategy: StrategyVary, Args: []any{sigma}}
}

// Anonymous lets a record type carry its own mapping.
// Explicit declarations on an Anonymizer take precedence.
type Anonymous interface {
	Anonymities() Mapping
}

// PrimaryKeyer lets a record type name its primary-key field.
type PrimaryKeyer interface {
	PrimaryKey() string
}

// clone copies the mapping and each rule's arguments.
func (m Mapping) clone() Mapping {
	out := make(Mapping, len(m))
	for i, r := range m {
		out[i] = Rule{Field: r.Field, Strategy: r.Strategy}
		if r.Args != nil {
			out[i].Args = append([]any(nil), r.Args...)
		}
	}
	return out
}
