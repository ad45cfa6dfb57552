// Package insight derives budget advisories from the current transaction
// list and budget configuration. Evaluation is pure recomputation: no state
// is kept between calls and nothing is persisted.
package insight

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"kharcha/internal/core"
)

// warnFraction is the share of the monthly limit below which the remaining
// budget counts as tight.
var warnFraction = decimal.NewFromFloat(0.15)

// savingsFraction of the remaining budget is suggested for savings when on
// track.
var savingsFraction = decimal.NewFromFloat(0.3)

// nearDailyFraction of the daily limit triggers the near-limit warning.
var nearDailyFraction = decimal.NewFromFloat(0.8)

// Engine evaluates budget rules. The clock is injectable so the daily rule
// can be tested against a fixed calendar day.
type Engine struct {
	now func() time.Time
}

func NewEngine() *Engine {
	return &Engine{now: time.Now}
}

func NewEngineWithClock(now func() time.Time) *Engine {
	return &Engine{now: now}
}

// Evaluate recomputes insights from scratch. The monthly rule always emits
// exactly one insight; the daily rule emits at most one more and only when
// a daily limit is configured. The monthly insight always comes first.
// Limits are not validated here; the profile layer owns that.
func (e *Engine) Evaluate(txs []core.Transaction, cfg core.BudgetConfig) []core.Insight {
	out := []core.Insight{e.monthlyRule(txs, cfg)}
	if cfg.DailyLimit.IsPositive() {
		if ins, ok := e.dailyRule(txs, cfg); ok {
			out = append(out, ins)
		}
	}
	return out
}

func (e *Engine) monthlyRule(txs []core.Transaction, cfg core.BudgetConfig) core.Insight {
	totalExpense := decimal.Zero
	for _, tx := range txs {
		if tx.Direction == core.Expense {
			totalExpense = totalExpense.Add(tx.Amount)
		}
	}
	remaining := cfg.MonthlyLimit.Sub(totalExpense)

	switch {
	case remaining.IsNegative():
		top := topExpenseCategory(txs)
		return core.Insight{
			Severity: core.SeverityDanger,
			Message: fmt.Sprintf("Over Budget: You've exceeded your limit by ₹%s.",
				core.FormatAmount(remaining.Abs())),
			Suggestion: fmt.Sprintf("Your highest spend is on %s. Try to pause all non-essential %s purchases.",
				top, top),
		}
	case remaining.LessThan(cfg.MonthlyLimit.Mul(warnFraction)):
		return core.Insight{
			Severity: core.SeverityWarning,
			Message: fmt.Sprintf("Tight Budget: Only ₹%s left for the month.",
				core.FormatAmount(remaining)),
			Suggestion: "Avoid eating out. Cooking at home could save you approx ₹300/day.",
		}
	default:
		savings := remaining.Mul(savingsFraction).Round(0)
		return core.Insight{
			Severity: core.SeveritySuccess,
			Message: fmt.Sprintf("On Track: You have ₹%s remaining.",
				core.FormatAmount(remaining)),
			Suggestion: fmt.Sprintf("Consider moving ₹%s to savings.",
				core.FormatAmount(savings)),
		}
	}
}

func (e *Engine) dailyRule(txs []core.Transaction, cfg core.BudgetConfig) (core.Insight, bool) {
	today := e.now()
	y, m, d := today.Date()

	todaySpent := decimal.Zero
	for _, tx := range txs {
		if tx.Direction != core.Expense {
			continue
		}
		// Local calendar-day comparison, not a rolling 24h window.
		ty, tm, td := tx.CreatedAt.Date()
		if ty == y && tm == m && td == d {
			todaySpent = todaySpent.Add(tx.Amount)
		}
	}

	switch {
	case todaySpent.GreaterThan(cfg.DailyLimit):
		return core.Insight{
			Severity: core.SeverityDanger,
			Message: fmt.Sprintf("Daily Limit Exceeded: ₹%s spent today.",
				core.FormatAmount(todaySpent)),
			Suggestion: "Try a 'No Spend Day' tomorrow.",
		}, true
	case todaySpent.GreaterThan(cfg.DailyLimit.Mul(nearDailyFraction)):
		pct := todaySpent.Div(cfg.DailyLimit).Mul(decimal.NewFromInt(100)).Round(0)
		return core.Insight{
			Severity: core.SeverityWarning,
			Message: fmt.Sprintf("Near Daily Limit: Used %s%% of today's limit.",
				pct),
			Suggestion: "Put away the wallet for the evening.",
		}, true
	default:
		return core.Insight{}, false
	}
}

// topExpenseCategory returns the expense category with the highest total.
// Ties resolve to the category seen first in transaction order; with no
// expenses at all it falls back to General.
func topExpenseCategory(txs []core.Transaction) core.Category {
	totals := make(map[core.Category]decimal.Decimal)
	var order []core.Category
	for _, tx := range txs {
		if tx.Direction != core.Expense {
			continue
		}
		if _, seen := totals[tx.Category]; !seen {
			order = append(order, tx.Category)
		}
		totals[tx.Category] = totals[tx.Category].Add(tx.Amount)
	}
	if len(order) == 0 {
		return core.CategoryGeneral
	}
	top := order[0]
	for _, c := range order[1:] {
		if totals[c].GreaterThan(totals[top]) {
			top = c
		}
	}
	return top
}
