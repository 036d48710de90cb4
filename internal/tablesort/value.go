package tablesort

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/collate"
)

// ValueType selects how a column's cell text is coerced and compared.
type ValueType string

const (
	TypeNumber   ValueType = "number"
	TypeCurrency ValueType = "currency"
	TypeDate     ValueType = "date"
	TypeText     ValueType = "text"
)

// DateLayout is the month/day/year format date cells are rendered in.
const DateLayout = "1/2/2006"

// ParseValueType converts a header's sort type attribute to a ValueType.
func ParseValueType(s string) (ValueType, error) {
	switch t := ValueType(strings.ToLower(strings.TrimSpace(s))); t {
	case TypeNumber, TypeCurrency, TypeDate, TypeText:
		return t, nil
	default:
		return "", fmt.Errorf("unknown sort type %q", s)
	}
}

// Value is a coerced cell. Valid is false when number, currency or date
// coercion failed; such values have no position relative to valid ones.
type Value struct {
	Type  ValueType
	Num   decimal.Decimal
	Time  time.Time
	Text  string
	Valid bool
}

// separators are invisible characters the renderer may put inside numbers.
var separators = strings.NewReplacer(
	"\u200b", "",
	"\u200c", "",
	"\u200d", "",
	"\u2060", "",
	"\ufeff", "",
	"\u00a0", "",
	"\u202f", "",
)

// Coerce converts trimmed cell text to a Value of type t.
func Coerce(cell string, t ValueType) Value {
	cell = strings.TrimSpace(cell)
	switch t {
	case TypeNumber:
		return numberValue(t, separators.Replace(cell))
	case TypeCurrency:
		return numberValue(t, currencyDigits(cell))
	case TypeDate:
		ts, err := time.Parse(DateLayout, cell)
		if err != nil {
			return Value{Type: t}
		}
		return Value{Type: t, Time: ts, Valid: true}
	default:
		return Value{Type: TypeText, Text: cell, Valid: true}
	}
}

// currencyDigits keeps only digits, '.' and '-'.
func currencyDigits(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' || r == '.' || r == '-' {
			return r
		}
		return -1
	}, s)
}

func numberValue(t ValueType, s string) Value {
	s = strings.TrimSpace(s)
	// An empty cell counts as zero, the same as the rendered table's own number conversion.
	if s == "" {
		return Value{Type: t, Num: decimal.Zero, Valid: true}
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Value{Type: t}
	}
	return Value{Type: t, Num: d, Valid: true}
}

// compare orders two valid values of the same type.
func compare(a, b Value, coll *collate.Collator) int {
	switch a.Type {
	case TypeNumber, TypeCurrency:
		return a.Num.Cmp(b.Num)
	case TypeDate:
		return a.Time.Compare(b.Time)
	default:
		return coll.CompareString(a.Text, b.Text)
	}
}
