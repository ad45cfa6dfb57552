package sms

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"kharcha/internal/category"
	"kharcha/internal/core"
)

var fixedTime = time.Date(2025, 6, 15, 10, 30, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedTime }

func TestParseAmounts(t *testing.T) {
	p := NewWithClock(fixedClock)
	cases := []struct {
		text string
		want string
	}{
		{"Rs. 1,850.00 debited from A/c XX1234 at Swiggy Foods on 12-Dec", "1850"},
		{"INR:500 debited for purchase", "500"},
		{"₹45 spent at Corner Cafe", "45"},
		{"Your account is credited with Rs 12,00,000 salary", "1200000"},
		{"USD 99.5 paid to Netflix.com", "99.5"},
		{"Paid $20 to Uber", "20"},
		{"GBP 15 spent", "15"},
		{"EUR 7.25 paid at cafe", "7.25"},
		{"rs 300 sent to John", "300"},
	}
	for _, tc := range cases {
		tx, err := p.Parse(tc.text)
		if err != nil {
			t.Fatalf("Parse(%q): %v", tc.text, err)
		}
		want, _ := decimal.NewFromString(tc.want)
		if !tx.Amount.Equal(want) {
			t.Fatalf("Parse(%q) amount = %s, want %s", tc.text, tx.Amount, want)
		}
	}
}

func TestParseFirstAmountWins(t *testing.T) {
	p := NewWithClock(fixedClock)
	tx, err := p.Parse("Rs 100 debited, available balance Rs 5,000")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !tx.Amount.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("amount = %s, want 100", tx.Amount)
	}
}

func TestParseNoAmount(t *testing.T) {
	p := NewWithClock(fixedClock)
	for _, text := range []string{
		"Hello, how are you?",
		"Your OTP is 482913",
		"",
		"500 debited from your account", // bare number, no currency marker
	} {
		_, err := p.Parse(text)
		if !errors.Is(err, core.ErrNoAmount) {
			t.Fatalf("Parse(%q) error = %v, want ErrNoAmount", text, err)
		}
	}
}

func TestParseDirection(t *testing.T) {
	p := NewWithClock(fixedClock)
	cases := []struct {
		text string
		want core.Direction
	}{
		{"Rs 5000 CREDITED to your account by Acme Corp", core.Income},
		{"You have received Rs 300 from John", core.Income},
		{"Rs 300 debited at DMart", core.Expense},
		{"Rs 300 spent at DMart", core.Expense},
		// no debit keyword at all still defaults to expense
		{"Rs 300 at DMart", core.Expense},
	}
	for _, tc := range cases {
		tx, err := p.Parse(tc.text)
		if err != nil {
			t.Fatalf("Parse(%q): %v", tc.text, err)
		}
		if tx.Direction != tc.want {
			t.Fatalf("Parse(%q) direction = %q, want %q", tc.text, tx.Direction, tc.want)
		}
	}
}

func TestParseMerchant(t *testing.T) {
	p := NewWithClock(fixedClock)
	cases := []struct {
		text string
		want string
	}{
		{"Rs. 1,850.00 debited at Swiggy Foods on 12-Dec", "Swiggy Foods"},
		{"INR 200 paid to Uber India Ref 99812", "Uber India"},
		{"Rs 450 debited AT Apollo Pharmacy Bal Rs 1,200", "Apollo Pharmacy"},
		{"₹99 debited by Netflix.com Avbl bal 500", "Netflix.com"},
		{"Rs 120 spent at AMZN*Marketplace on 01-Jan", "AMZN*Marketplace"},
		{"Rs 500 debited at HDFC Card ending with 4421 on 3-Mar", "HDFC Card"},
		{"Rs 500 debited from your account", "Unknown Merchant"},
	}
	for _, tc := range cases {
		tx, err := p.Parse(tc.text)
		if err != nil {
			t.Fatalf("Parse(%q): %v", tc.text, err)
		}
		if tx.Merchant != tc.want {
			t.Fatalf("Parse(%q) merchant = %q, want %q", tc.text, tx.Merchant, tc.want)
		}
	}
}

func TestParseAssembly(t *testing.T) {
	p := NewWithClock(fixedClock)
	text := "Rs. 1,850.00 debited from A/c XX1234 at Swiggy Foods on 12-Dec"
	tx, err := p.Parse(text)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tx.Category != core.CategoryFood {
		t.Fatalf("category = %q, want Food", tx.Category)
	}
	if tx.OriginalText != text {
		t.Fatalf("original text not preserved")
	}
	if !tx.CreatedAt.Equal(fixedTime) {
		t.Fatalf("timestamp = %v, want injected clock time", tx.CreatedAt)
	}
	// category round-trips through the categorizer
	if got := category.Categorize(tx.Merchant); got != tx.Category {
		t.Fatalf("categorize(%q) = %q, stored %q", tx.Merchant, got, tx.Category)
	}
	if err := tx.Validate(); err != nil {
		t.Fatalf("parsed transaction should validate: %v", err)
	}
}

func TestParseDeterminism(t *testing.T) {
	p := NewWithClock(fixedClock)
	text := "INR 750 paid to Big Basket on 2-Feb"
	a, err := p.Parse(text)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := p.Parse(text)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !a.Amount.Equal(b.Amount) || a.Merchant != b.Merchant ||
		a.Category != b.Category || a.Direction != b.Direction {
		t.Fatalf("identical input produced different output: %+v vs %+v", a, b)
	}
}
