// Package sms turns free-form bank notification text into structured
// transactions. Extraction runs as three independent stages: amount,
// direction, merchant. Only the amount stage can fail the parse; the other
// stages degrade to defaults so a partial record is still produced.
package sms

import (
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"kharcha/internal/category"
	"kharcha/internal/core"
)

var (
	// Currency marker followed by optional spaces/colons and a numeric
	// literal with comma thousands separators and an optional 1-2 digit
	// decimal part. Only the first occurrence in the text counts.
	amountRe = regexp.MustCompile(`(?i)(?:Rs\.?|INR|₹|\$|GBP|USD|EUR)[\s:]*([\d,]+(?:\.\d{1,2})?)`)

	// Merchant name follows a preposition anchor and runs until one of the
	// terminator words banks append (date, reference, balance) or the end
	// of the message.
	merchantRe = regexp.MustCompile(`(?i)\b(?:at|to|info|vp|by)\s+([A-Za-z0-9\s.*]+?)(?:\s+(?:on|ref|bal|avbl)\b|$)`)

	// Masked card suffixes like "ending with 1234" are noise, not merchant.
	endingRe = regexp.MustCompile(`(?i)\s*\bending with\b.*$`)
)

// Parser extracts transactions from SMS text. The clock is injectable so
// tests can pin timestamps.
type Parser struct {
	now func() time.Time
}

func New() *Parser {
	return &Parser{now: time.Now}
}

func NewWithClock(now func() time.Time) *Parser {
	return &Parser{now: now}
}

// Parse extracts a transaction from text. It returns core.ErrNoAmount when
// no currency-prefixed amount is present; that is the only failure mode.
// The timestamp is always the parse time, never a date found in the text.
func (p *Parser) Parse(text string) (core.Transaction, error) {
	amount, ok := extractAmount(text)
	if !ok {
		return core.Transaction{}, core.ErrNoAmount
	}

	merchant := extractMerchant(text)

	return core.Transaction{
		Amount:       amount,
		Merchant:     merchant,
		Category:     category.Categorize(merchant),
		Direction:    classifyDirection(text),
		OriginalText: text,
		CreatedAt:    p.now(),
	}, nil
}

// extractAmount returns the first currency-marked amount in the text,
// thousands separators stripped.
func extractAmount(text string) (decimal.Decimal, bool) {
	m := amountRe.FindStringSubmatch(text)
	if m == nil {
		return decimal.Decimal{}, false
	}
	raw := strings.ReplaceAll(m[1], ",", "")
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Decimal{}, false
	}
	return d, true
}

// classifyDirection treats "credited" and "received" as income signals.
// Everything else is an expense: debit wording is common but not required,
// so an outgoing transaction is the closed-world default.
func classifyDirection(text string) core.Direction {
	lower := strings.ToLower(text)
	if strings.Contains(lower, "credited") || strings.Contains(lower, "received") {
		return core.Income
	}
	return core.Expense
}

// extractMerchant returns the merchant name after the first anchor word, or
// the sentinel when no anchor is present. Failure here never fails the
// whole parse.
func extractMerchant(text string) string {
	m := merchantRe.FindStringSubmatch(text)
	if m == nil {
		return core.UnknownMerchant
	}
	merchant := strings.TrimSpace(m[1])
	merchant = strings.TrimSpace(endingRe.ReplaceAllString(merchant, ""))
	if merchant == "" {
		return core.UnknownMerchant
	}
	return merchant
}
