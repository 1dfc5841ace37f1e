package store

import (
	"fmt"
	"strconv"
	"strings"

	entsql "entgo.io/ent/dialect/sql"
)

// FilterField enumerates the entry fields that can be filtered on.
type FilterField int

const (
	FieldID FilterField = iota
	FieldLexeme
	FieldDefinition
	FieldCategory
	FieldCollocate
	FieldTestCount
	FieldWasTested
	FieldForPractice
	FieldLabel
)

var filterFieldNames = map[FilterField]string{
	FieldID:          "id",
	FieldLexeme:      "lexeme",
	FieldDefinition:  "definition",
	FieldCategory:    "category",
	FieldCollocate:   "collocate",
	FieldTestCount:   "test_count",
	FieldWasTested:   "was_tested",
	FieldForPractice: "for_practice",
	FieldLabel:       "labels",
}

func (f FilterField) String() string {
	if n, ok := filterFieldNames[f]; ok {
		return n
	}
	return fmt.Sprintf("field(%d)", int(f))
}

// kind returns the value kind the field compares against.
func (f FilterField) kind() ValueKind {
	switch f {
	case FieldID, FieldTestCount:
		return KindInt
	case FieldWasTested, FieldForPractice:
		return KindBool
	default:
		return KindString
	}
}

func (f FilterField) column() string {
	if f == FieldLabel {
		return colLabels
	}
	return filterFieldNames[f]
}

// Operator is a comparison operator.
type Operator string

const (
	OpGT   Operator = ">"
	OpGTE  Operator = ">="
	OpLT   Operator = "<"
	OpLTE  Operator = "<="
	OpEQ   Operator = "=="
	OpNEQ  Operator = "!="
	OpLike Operator = "LIKE"
)

// operators is ordered so that longer tokens are matched first.
var operators = []Operator{OpGTE, OpLTE, OpEQ, OpNEQ, OpGT, OpLT, OpLike}

// ValueKind tags the active member of FilterValue.
type ValueKind int

const (
	KindString ValueKind = iota
	KindInt
	KindBool
)

// FilterValue is a typed comparison operand.
type FilterValue struct {
	Kind ValueKind
	Str  string
	Int  int
	Bool bool
}

func StringValue(s string) FilterValue { return FilterValue{Kind: KindString, Str: s} }
func IntValue(n int) FilterValue       { return FilterValue{Kind: KindInt, Int: n} }
func BoolValue(b bool) FilterValue     { return FilterValue{Kind: KindBool, Bool: b} }

func (v FilterValue) any() any {
	switch v.Kind {
	case KindInt:
		return v.Int
	case KindBool:
		return v.Bool
	default:
		return v.Str
	}
}

// Filter restricts List to entries whose Field compares true against Value.
type Filter struct {
	Field FilterField
	Op    Operator
	Value FilterValue
}

// Validate rejects operator/value combinations that make no sense for the field.
func (f Filter) Validate() error {
	if _, ok := filterFieldNames[f.Field]; !ok {
		return fmt.Errorf("unknown filter field %d", int(f.Field))
	}
	if f.Value.Kind != f.Field.kind() {
		return fmt.Errorf("filter %s: value has wrong type", f.Field)
	}
	switch f.Op {
	case OpEQ, OpNEQ:
	case OpGT, OpGTE, OpLT, OpLTE:
		if f.Field.kind() == KindBool || f.Field == FieldLabel {
			return fmt.Errorf("filter %s: operator %s not supported", f.Field, f.Op)
		}
	case OpLike:
		if f.Field.kind() != KindString {
			return fmt.Errorf("filter %s: LIKE requires a text field", f.Field)
		}
	default:
		return fmt.Errorf("unknown operator %q", f.Op)
	}
	return nil
}

func (f Filter) predicate() (*entsql.Predicate, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	col := f.Field.column()
	v := f.Value.any()

	// Labels are stored comma-joined, so equality means membership.
	if f.Field == FieldLabel && f.Op != OpLike {
		p := entsql.P(func(b *entsql.Builder) {
			b.WriteString("(',' || ").Ident(col).WriteString(" || ',') LIKE ")
			b.Arg("%," + f.Value.Str + ",%")
		})
		if f.Op == OpNEQ {
			return entsql.Not(p), nil
		}
		return p, nil
	}

	switch f.Op {
	case OpGT:
		return entsql.GT(col, v), nil
	case OpGTE:
		return entsql.GTE(col, v), nil
	case OpLT:
		return entsql.LT(col, v), nil
	case OpLTE:
		return entsql.LTE(col, v), nil
	case OpEQ:
		return entsql.EQ(col, v), nil
	case OpNEQ:
		return entsql.NEQ(col, v), nil
	default:
		return entsql.Like(col, f.Value.Str), nil
	}
}

// ParseFilter parses the "<field> <operator> <value>" form used on the
// command line, e.g. `test_count >= 3` or `lexeme LIKE "%ate"`.
func ParseFilter(expr string) (Filter, error) {
	expr = strings.TrimSpace(expr)
	for _, op := range operators {
		idx := strings.Index(expr, " "+string(op)+" ")
		if idx < 0 {
			continue
		}
		name := strings.TrimSpace(expr[:idx])
		raw := strings.TrimSpace(expr[idx+len(op)+2:])

		field, err := parseFilterField(name)
		if err != nil {
			return Filter{}, err
		}
		value, err := parseFilterValue(field, raw)
		if err != nil {
			return Filter{}, err
		}
		f := Filter{Field: field, Op: op, Value: value}
		return f, f.Validate()
	}
	return Filter{}, fmt.Errorf("invalid filter %q: expected \"<field> <operator> <value>\"", expr)
}

func parseFilterField(name string) (FilterField, error) {
	name = strings.ToLower(name)
	if name == "label" {
		return FieldLabel, nil
	}
	for f, n := range filterFieldNames {
		if n == name {
			return f, nil
		}
	}
	return 0, fmt.Errorf("unknown filter field %q", name)
}

func parseFilterValue(field FilterField, raw string) (FilterValue, error) {
	switch field.kind() {
	case KindInt:
		n, err := strconv.Atoi(raw)
		if err != nil {
			return FilterValue{}, fmt.Errorf("filter %s: %q is not an integer", field, raw)
		}
		return IntValue(n), nil
	case KindBool:
		b, err := strconv.ParseBool(strings.ToLower(raw))
		if err != nil {
			return FilterValue{}, fmt.Errorf("filter %s: %q is not a boolean", field, raw)
		}
		return BoolValue(b), nil
	default:
		if len(raw) >= 2 && raw[0] == '"' && raw[len(raw)-1] == '"' {
			raw = raw[1 : len(raw)-1]
		}
		if field == FieldCategory {
			if c, err := ParseCategory(raw); err == nil {
				raw = string(c)
			}
		}
		return StringValue(raw), nil
	}
}
