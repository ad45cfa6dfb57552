package core

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	Income  Direction = "income"
	Expense Direction = "expense"
)

// Category labels form a closed set; General and Income act as sentinels
// when no keyword rule applies.
const (
	CategoryTransport     Category = "Transport"
	CategoryFood          Category = "Food"
	CategoryGroceries     Category = "Groceries"
	CategoryEntertainment Category = "Entertainment"
	CategoryHealth        Category = "Health"
	CategoryIncome        Category = "Income"
	CategoryGeneral       Category = "General"
)

// UnknownMerchant is the sentinel used when merchant extraction yields nothing.
const UnknownMerchant = "Unknown Merchant"

type (
	Direction string

	Category string

	// Transaction is an immutable money movement record. OriginalText is
	// set only when the record was derived from an SMS parse; manual
	// entries leave it empty. ID is assigned by the store on create.
	Transaction struct {
		ID           string
		Amount       decimal.Decimal
		Merchant     string
		Category     Category
		Direction    Direction
		OriginalText string
		CreatedAt    time.Time
	}

	// BudgetConfig is owned and persisted by the store; the core only
	// reads it. DailyLimit of zero means the daily rule is disabled.
	BudgetConfig struct {
		MonthlyLimit decimal.Decimal
		DailyLimit   decimal.Decimal
	}

	// Insight is a derived advisory about budget status. It is recomputed
	// on every evaluation and never persisted.
	Insight struct {
		Severity   Severity
		Message    string
		Suggestion string
	}

	Severity string
)

const (
	SeverityDanger  Severity = "danger"
	SeverityWarning Severity = "warning"
	SeveritySuccess Severity = "success"
)

var (
	ErrNoAmount         = errors.New("no recognizable amount in text")
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrEmptyMerchant    = errors.New("empty merchant")
	ErrInvalidCategory  = errors.New("invalid category")
	ErrInvalidDirection = errors.New("invalid direction")
)

// Categories lists every valid category label.
func Categories() []Category {
	return []Category{
		CategoryTransport,
		CategoryFood,
		CategoryGroceries,
		CategoryEntertainment,
		CategoryHealth,
		CategoryIncome,
		CategoryGeneral,
	}
}

// IsValid returns true if c is one of the closed label set.
func (c Category) IsValid() bool {
	switch c {
	case CategoryTransport, CategoryFood, CategoryGroceries,
		CategoryEntertainment, CategoryHealth, CategoryIncome, CategoryGeneral:
		return true
	default:
		return false
	}
}

// IsValid returns true if d is income or expense.
func (d Direction) IsValid() bool {
	return d == Income || d == Expense
}

func (t Transaction) Validate() error {
	if !t.Amount.IsPositive() {
		return ErrInvalidAmount
	}
	if strings.TrimSpace(t.Merchant) == "" {
		return ErrEmptyMerchant
	}
	if len(t.Merchant) > 200 {
		return errors.New("merchant too long (max 200 characters)")
	}
	if !t.Category.IsValid() {
		return ErrInvalidCategory
	}
	if !t.Direction.IsValid() {
		return ErrInvalidDirection
	}
	return nil
}

func (b BudgetConfig) Validate() error {
	if b.MonthlyLimit.IsNegative() {
		return errors.New("monthly limit cannot be negative")
	}
	if b.DailyLimit.IsNegative() {
		return errors.New("daily limit cannot be negative")
	}
	return nil
}

// DefaultBudget mirrors the defaults a fresh profile starts with.
func DefaultBudget() BudgetConfig {
	return BudgetConfig{
		MonthlyLimit: decimal.NewFromInt(30000),
		DailyLimit:   decimal.Zero,
	}
}
