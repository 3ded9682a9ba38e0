// Package stocksvc batch-applies physical stock-check results against the
// catalog. Best effort: one bad row never sinks the run.
package stocksvc

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/Vaibhavp809/libsync-sub001/model"
	inventorysvc "github.com/Vaibhavp809/libsync-sub001/service/inventory"
	"github.com/Vaibhavp809/libsync-sub001/util/accession"
)

// Ledger is the slice of the inventory service reconciliation needs.
type Ledger interface {
	ApplyVerification(ctx context.Context, accessionKey string, cond model.Condition) error
}

// Summary is the audit artifact of one run: three disjoint buckets plus the
// per-entry trail.
type Summary struct {
	RunID    string                         `json:"run_id"`
	Updated  int                            `json:"updated"`
	NotFound int                            `json:"not_found"`
	Errors   int                            `json:"errors"`
	Entries  []model.StockVerificationEntry `json:"entries"`
}

type Service interface {
	Reconcile(ctx context.Context, entries []model.StockEntryReq) (*Summary, error)
	VerifySingle(ctx context.Context, rawAccession, rawStatus string) (*model.StockVerificationEntry, error)
}

type service struct{ ledger Ledger }

func New(l Ledger) Service { return &service{ledger: l} }

func (s *service) Reconcile(ctx context.Context, entries []model.StockEntryReq) (*Summary, error) {
	sum := &Summary{RunID: uuid.NewString()}
	seen := make(map[string]bool, len(entries))

	for _, in := range entries {
		e := s.apply(ctx, in.Accession, in.Status, seen)
		if e == nil {
			continue // in-batch duplicate, first occurrence won
		}
		sum.Entries = append(sum.Entries, *e)
		switch e.Outcome {
		case model.OutcomeUpdated:
			sum.Updated++
		case model.OutcomeNotFound:
			sum.NotFound++
		default:
			sum.Errors++
		}
	}
	return sum, nil
}

func (s *service) VerifySingle(ctx context.Context, rawAccession, rawStatus string) (*model.StockVerificationEntry, error) {
	return s.apply(ctx, rawAccession, rawStatus, nil), nil
}

// apply runs one entry through normalize -> resolve -> verify and records the
// outcome. A nil return means the key was already handled in this batch.
func (s *service) apply(ctx context.Context, rawAccession, rawStatus string, seen map[string]bool) *model.StockVerificationEntry {
	e := &model.StockVerificationEntry{RawAccession: rawAccession}

	key, err := accession.Normalize(rawAccession)
	if err != nil {
		e.Outcome = model.OutcomeError
		e.Reason = "accession empty after normalization"
		return e
	}
	e.AccessionKey = key

	if seen != nil {
		if seen[key] {
			return nil
		}
		seen[key] = true
	}

	e.Condition = accession.ResolveCondition(rawStatus)

	switch err := s.ledger.ApplyVerification(ctx, key, e.Condition); {
	case err == nil:
		e.Outcome = model.OutcomeUpdated
	case errors.Is(err, inventorysvc.ErrNotFound):
		e.Outcome = model.OutcomeNotFound
		e.Reason = "no copy with this accession"
	default:
		e.Outcome = model.OutcomeError
		e.Reason = err.Error()
	}
	return e
}
