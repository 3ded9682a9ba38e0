package stocksvc_test

import (
	"context"
	"errors"
	"testing"

	"github.com/Vaibhavp809/libsync-sub001/model"
	inventorysvc "github.com/Vaibhavp809/libsync-sub001/service/inventory"
	stocksvc "github.com/Vaibhavp809/libsync-sub001/service/stock"
)

type ledgerMock struct {
	verifyFn func(ctx context.Context, key string, cond model.Condition) error
	calls    []string
}

func (m *ledgerMock) ApplyVerification(ctx context.Context, key string, cond model.Condition) error {
	m.calls = append(m.calls, key)
	return m.verifyFn(ctx, key, cond)
}

func existingOnly(keys ...string) func(ctx context.Context, key string, cond model.Condition) error {
	set := make(map[string]bool, len(keys))
	for _, k := range keys {
		set[k] = true
	}
	return func(ctx context.Context, key string, cond model.Condition) error {
		if !set[key] {
			return inventorysvc.ErrNotFound
		}
		return nil
	}
}

func TestReconcile_PartialSuccess(t *testing.T) {
	m := &ledgerMock{verifyFn: existingOnly("000001", "000002")}
	s := stocksvc.New(m)

	sum, err := s.Reconcile(context.Background(), []model.StockEntryReq{
		{Accession: "1"},
		{Accession: "2"},
		{Accession: "9999999"}, // beyond pad width, normalizes to itself
	})
	if err != nil {
		t.Fatalf("Reconcile: %v", err)
	}
	if sum.Updated != 2 || sum.NotFound != 1 || sum.Errors != 0 {
		t.Fatalf("got updated=%d notFound=%d errors=%d; want 2 1 0", sum.Updated, sum.NotFound, sum.Errors)
	}
	if len(sum.Entries) != 3 {
		t.Fatalf("entries = %d; want 3", len(sum.Entries))
	}
	if sum.Entries[2].AccessionKey != "9999999" || sum.Entries[2].Outcome != model.OutcomeNotFound {
		t.Fatalf("entry 2 = %+v", sum.Entries[2])
	}
	if sum.RunID == "" {
		t.Fatal("run id missing")
	}
}

func TestReconcile_DedupesByCanonicalKey(t *testing.T) {
	m := &ledgerMock{verifyFn: existingOnly("000042")}
	s := stocksvc.New(m)

	// all three rows are the same copy once normalized
	sum, err := s.Reconcile(context.Background(), []model.StockEntryReq{
		{Accession: "42", Status: "damaged"},
		{Accession: "ACC-42", Status: "lost"},
		{Accession: "000042"},
	})
	if err != nil {
		t.Fatalf("Reconcile: %v", err)
	}
	if sum.Updated != 1 || len(sum.Entries) != 1 {
		t.Fatalf("got updated=%d entries=%d; want 1 1", sum.Updated, len(sum.Entries))
	}
	if len(m.calls) != 1 {
		t.Fatalf("ledger called %d times; want 1 (first occurrence wins)", len(m.calls))
	}
	if sum.Entries[0].Condition != model.ConditionDamaged {
		t.Fatalf("condition = %s; want Damaged (from first occurrence)", sum.Entries[0].Condition)
	}
}

func TestReconcile_BadRowDoesNotAbort(t *testing.T) {
	m := &ledgerMock{verifyFn: existingOnly("000001")}
	s := stocksvc.New(m)

	sum, err := s.Reconcile(context.Background(), []model.StockEntryReq{
		{Accession: "---"}, // normalizes to nothing
		{Accession: "1"},
	})
	if err != nil {
		t.Fatalf("Reconcile: %v", err)
	}
	if sum.Errors != 1 || sum.Updated != 1 {
		t.Fatalf("got errors=%d updated=%d; want 1 1", sum.Errors, sum.Updated)
	}
	if sum.Entries[0].Outcome != model.OutcomeError || sum.Entries[0].Reason == "" {
		t.Fatalf("entry 0 = %+v", sum.Entries[0])
	}
}

func TestReconcile_LedgerErrorBucketed(t *testing.T) {
	m := &ledgerMock{verifyFn: func(ctx context.Context, key string, cond model.Condition) error {
		return errors.New("connection reset")
	}}
	s := stocksvc.New(m)

	sum, err := s.Reconcile(context.Background(), []model.StockEntryReq{{Accession: "1"}})
	if err != nil {
		t.Fatalf("Reconcile: %v", err)
	}
	if sum.Errors != 1 || sum.Entries[0].Outcome != model.OutcomeError {
		t.Fatalf("summary = %+v", sum)
	}
}

func TestVerifySingle(t *testing.T) {
	m := &ledgerMock{verifyFn: existingOnly("000042")}
	s := stocksvc.New(m)

	e, err := s.VerifySingle(context.Background(), "acc 42", "water damage")
	if err != nil {
		t.Fatalf("VerifySingle: %v", err)
	}
	if e.Outcome != model.OutcomeUpdated || e.AccessionKey != "000042" || e.Condition != model.ConditionDamaged {
		t.Fatalf("entry = %+v", e)
	}

	e, err = s.VerifySingle(context.Background(), "7", "ok")
	if err != nil {
		t.Fatalf("VerifySingle: %v", err)
	}
	if e.Outcome != model.OutcomeNotFound {
		t.Fatalf("entry = %+v", e)
	}
}
