package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"kharcha/internal/core"
	"kharcha/internal/store/memory"
)

func newTestServer(t *testing.T) (*Server, *memory.Store, *httptest.Server) {
	t.Helper()
	st := memory.New()
	srv := NewServer(":0", st, Options{RateLimitPerMinute: 10000, InsightCacheTTL: time.Minute})
	ts := httptest.NewServer(srv.Handler)
	t.Cleanup(func() {
		ts.Close()
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	})
	return srv, st, ts
}

func doJSON(t *testing.T, client *http.Client, method, url string, body any) (*http.Response, []byte) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req, err := http.NewRequest(method, url, &buf)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	defer resp.Body.Close()
	var out bytes.Buffer
	if _, err := out.ReadFrom(resp.Body); err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp, out.Bytes()
}

func TestHealth(t *testing.T) {
	_, _, ts := newTestServer(t)
	resp, body := doJSON(t, ts.Client(), http.MethodGet, ts.URL+"/healthz", nil)
	if resp.StatusCode != http.StatusOK || string(body) != "ok" {
		t.Fatalf("health = %d %q", resp.StatusCode, body)
	}
}

func TestParsePreview(t *testing.T) {
	_, st, ts := newTestServer(t)

	resp, body := doJSON(t, ts.Client(), http.MethodPost, ts.URL+"/api/sms/parse",
		map[string]string{"text": "Rs. 1,850.00 debited from A/c XX1234 at Swiggy Foods on 12-Dec"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, body %s", resp.StatusCode, body)
	}

	var tx transactionJSON
	if err := json.Unmarshal(body, &tx); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if tx.Amount != "1850" || tx.Merchant != "Swiggy Foods" || tx.Category != "Food" || tx.Type != "expense" {
		t.Fatalf("unexpected preview: %+v", tx)
	}

	// preview never persists
	items, _ := st.List(context.Background())
	if len(items) != 0 {
		t.Fatalf("preview should not persist, found %d items", len(items))
	}
}

func TestParsePreviewNoMatch(t *testing.T) {
	_, _, ts := newTestServer(t)
	resp, _ := doJSON(t, ts.Client(), http.MethodPost, ts.URL+"/api/sms/parse",
		map[string]string{"text": "Hello, how are you?"})
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", resp.StatusCode)
	}
}

func TestParseAndSave(t *testing.T) {
	_, st, ts := newTestServer(t)
	resp, body := doJSON(t, ts.Client(), http.MethodPost, ts.URL+"/api/sms",
		map[string]string{"text": "INR 500 credited to your A/c by Acme Corp Salary Ref 111"})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d, body %s", resp.StatusCode, body)
	}

	var tx transactionJSON
	if err := json.Unmarshal(body, &tx); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if tx.ID == "" || tx.Type != "income" {
		t.Fatalf("unexpected response: %+v", tx)
	}

	items, _ := st.List(context.Background())
	if len(items) != 1 || items[0].OriginalText == "" {
		t.Fatalf("expected persisted transaction with provenance, got %+v", items)
	}
}

func TestCreateTransactionManual(t *testing.T) {
	_, _, ts := newTestServer(t)

	// category inferred from merchant
	resp, body := doJSON(t, ts.Client(), http.MethodPost, ts.URL+"/api/transactions",
		map[string]string{"amount": "240", "merchant": "Uber India", "type": "expense"})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d, body %s", resp.StatusCode, body)
	}
	var tx transactionJSON
	_ = json.Unmarshal(body, &tx)
	if tx.Category != "Transport" || tx.OriginalText != "" {
		t.Fatalf("unexpected transaction: %+v", tx)
	}

	// income defaults to the Income label
	resp, body = doJSON(t, ts.Client(), http.MethodPost, ts.URL+"/api/transactions",
		map[string]string{"amount": "50000", "merchant": "Acme Corp", "type": "income"})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d, body %s", resp.StatusCode, body)
	}
	_ = json.Unmarshal(body, &tx)
	if tx.Category != "Income" {
		t.Fatalf("income entry category = %q", tx.Category)
	}
}

func TestCreateTransactionRejectsBadInput(t *testing.T) {
	_, _, ts := newTestServer(t)
	cases := []map[string]string{
		{"amount": "0", "merchant": "x", "type": "expense"},
		{"amount": "-5", "merchant": "x", "type": "expense"},
		{"amount": "abc", "merchant": "x", "type": "expense"},
		{"amount": "10", "merchant": "x", "type": "transfer"},
		{"amount": "10", "merchant": "x", "type": "expense", "category": "Snacks"},
	}
	for i, c := range cases {
		resp, _ := doJSON(t, ts.Client(), http.MethodPost, ts.URL+"/api/transactions", c)
		if resp.StatusCode != http.StatusUnprocessableEntity {
			t.Fatalf("case %d: status = %d, want 422", i, resp.StatusCode)
		}
	}
}

func TestListTransactionsTotals(t *testing.T) {
	_, st, ts := newTestServer(t)
	ctx := context.Background()
	seed := func(amount int64, dir core.Direction) {
		_, err := st.Create(ctx, core.Transaction{
			Amount:    decimal.NewFromInt(amount),
			Merchant:  "m",
			Category:  core.CategoryGeneral,
			Direction: dir,
			CreatedAt: time.Now(),
		})
		if err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
	seed(1000, core.Expense)
	seed(250, core.Expense)
	seed(5000, core.Income)

	resp, body := doJSON(t, ts.Client(), http.MethodGet, ts.URL+"/api/transactions", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var out listTransactionsResponse
	if err := json.Unmarshal(body, &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(out.Transactions) != 3 {
		t.Fatalf("expected 3 transactions, got %d", len(out.Transactions))
	}
	if out.TotalExpense != "1250" || out.TotalIncome != "5000" {
		t.Fatalf("totals = %s / %s", out.TotalExpense, out.TotalIncome)
	}
	// newest first
	if out.Transactions[0].Amount != "5000" {
		t.Fatalf("expected newest first, got %+v", out.Transactions[0])
	}
}

func TestDeleteTransaction(t *testing.T) {
	_, st, ts := newTestServer(t)
	id, err := st.Create(context.Background(), core.Transaction{
		Amount:    decimal.NewFromInt(100),
		Merchant:  "m",
		Category:  core.CategoryGeneral,
		Direction: core.Expense,
		CreatedAt: time.Now(),
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}

	resp, _ := doJSON(t, ts.Client(), http.MethodDelete, ts.URL+"/api/transactions/"+id, nil)
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("delete status = %d", resp.StatusCode)
	}
	resp, _ = doJSON(t, ts.Client(), http.MethodDelete, ts.URL+"/api/transactions/"+id, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("repeat delete status = %d, want 404", resp.StatusCode)
	}
}

func TestBudgetReadWrite(t *testing.T) {
	_, _, ts := newTestServer(t)

	resp, body := doJSON(t, ts.Client(), http.MethodGet, ts.URL+"/api/budget", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var cfg budgetJSON
	_ = json.Unmarshal(body, &cfg)
	if cfg.MonthlyLimit != "30000" || cfg.DailyLimit != "0" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}

	resp, body = doJSON(t, ts.Client(), http.MethodPut, ts.URL+"/api/budget",
		budgetJSON{MonthlyLimit: "45000", DailyLimit: "1500"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("put status = %d, body %s", resp.StatusCode, body)
	}
	_ = json.Unmarshal(body, &cfg)
	if cfg.MonthlyLimit != "45000" || cfg.DailyLimit != "1500" {
		t.Fatalf("unexpected stored budget: %+v", cfg)
	}

	resp, _ = doJSON(t, ts.Client(), http.MethodPut, ts.URL+"/api/budget",
		budgetJSON{MonthlyLimit: "-1", DailyLimit: "0"})
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("negative limit status = %d, want 422", resp.StatusCode)
	}
}

func TestInsightsFlow(t *testing.T) {
	_, _, ts := newTestServer(t)
	client := ts.Client()

	// initially on track
	resp, body := doJSON(t, client, http.MethodGet, ts.URL+"/api/insights", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var out insightsResponse
	_ = json.Unmarshal(body, &out)
	if len(out.Insights) != 1 || out.Insights[0].Severity != "success" {
		t.Fatalf("unexpected initial insights: %+v", out.Insights)
	}

	// blow the budget; cache must be invalidated by the write
	resp, _ = doJSON(t, client, http.MethodPost, ts.URL+"/api/transactions",
		map[string]string{"amount": "31000", "merchant": "Swiggy Foods", "type": "expense"})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create status = %d", resp.StatusCode)
	}

	_, body = doJSON(t, client, http.MethodGet, ts.URL+"/api/insights", nil)
	_ = json.Unmarshal(body, &out)
	if len(out.Insights) == 0 || out.Insights[0].Severity != "danger" {
		t.Fatalf("expected danger insight after overrun, got %+v", out.Insights)
	}
	if out.Insights[0].Suggestion == "" {
		t.Fatalf("danger insight should carry a suggestion")
	}
}
