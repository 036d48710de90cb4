// Package suggest narrows recorded batch payments down to the ones worth
// suggesting for a bank statement line.
//
// A candidate is only ever considered when it shares the statement line's
// journal. Its own two review flags then pick the rule it is judged by:
//
//   - amount and transaction type: direction must match and the batch's
//     filter amount must not exceed the line's magnitude
//   - amount only: the filter amount must not exceed the line's magnitude
//   - transaction type only: direction must match
//   - neither: never suggested
//
// When no candidate survives, the full candidate list is returned so a strict
// rule set never hides every suggestion.
package suggest

import (
	"github.com/cleared-dev/recon/internal/model"
)

// Rule identifies which branch a candidate's flags select.
type Rule int

const (
	RuleNone Rule = iota
	RuleBoth
	RuleAmountOnly
	RuleTypeOnly
)

func (r Rule) String() string {
	switch r {
	case RuleBoth:
		return "amount+type"
	case RuleAmountOnly:
		return "amount"
	case RuleTypeOnly:
		return "type"
	default:
		return "none"
	}
}

// Result is the outcome of one filtering pass.
type Result struct {
	Payments []model.BatchPayment
	// FellBack is set when nothing matched and Payments is the unfiltered input.
	FellBack bool
}

// RuleFor returns the rule selected by the payment's review flags.
func RuleFor(p model.BatchPayment) Rule {
	switch {
	case p.AmountFilterEnabled && p.TransactionTypeFilterEnabled:
		return RuleBoth
	case p.AmountFilterEnabled:
		return RuleAmountOnly
	case p.TransactionTypeFilterEnabled:
		return RuleTypeOnly
	default:
		return RuleNone
	}
}

// Matches reports whether p is an eligible suggestion for line.
func Matches(line model.StatementLine, p model.BatchPayment) bool {
	if p.JournalID != line.JournalID {
		return false
	}

	magnitude := line.Amount.Abs()
	directionOK := p.Type == line.Direction()
	amountOK := p.FilterAmount.LessThanOrEqual(magnitude)

	switch RuleFor(p) {
	case RuleBoth:
		return directionOK && amountOK
	case RuleAmountOnly:
		return amountOK
	case RuleTypeOnly:
		return directionOK
	default:
		return false
	}
}

// Apply filters candidates for line and reports whether the fallback fired.
func Apply(line *model.StatementLine, candidates []model.BatchPayment) Result {
	if line == nil || len(candidates) == 0 {
		return Result{Payments: candidates}
	}

	var filtered []model.BatchPayment
	for _, p := range candidates {
		if Matches(*line, p) {
			filtered = append(filtered, p)
		}
	}

	if len(filtered) == 0 {
		return Result{Payments: candidates, FellBack: true}
	}
	return Result{Payments: filtered}
}

// Filter returns the suggestions for line. See the package doc for the rules.
func Filter(line *model.StatementLine, candidates []model.BatchPayment) []model.BatchPayment {
	return Apply(line, candidates).Payments
}
