// model/stock.go
package model

type VerifyOutcome string

const (
	OutcomeUpdated  VerifyOutcome = "Updated"
	OutcomeNotFound VerifyOutcome = "NotFound"
	OutcomeError    VerifyOutcome = "Error"
)

// StockVerificationEntry is the per-row audit record of one reconciliation
// attempt. It reports what happened; it never owns book state.
type StockVerificationEntry struct {
	RawAccession string        `json:"raw_accession"`
	AccessionKey string        `json:"accession_key,omitempty"`
	Condition    Condition     `json:"condition,omitempty"`
	Outcome      VerifyOutcome `json:"outcome"`
	Reason       string        `json:"reason,omitempty"`
}

// StockEntryReq is one raw line handed over by the spreadsheet normalizer.
// swagger:model StockEntryReq
type StockEntryReq struct {
	Accession string `json:"accession" validate:"required"`
	Status    string `json:"status"`
}
