package config

import "sync/atomic"

// Policy holds the circulation parameters that operations must read fresh on
// every call. Values are swappable at runtime (admin endpoint), no restart.
type Policy struct {
	loanDurationDays atomic.Int64
	finePerDay       atomic.Int64
	maxActiveLoans   atomic.Int64
}

func NewPolicy(loanDurationDays int, finePerDay int64, maxActiveLoans int) *Policy {
	p := &Policy{}
	p.loanDurationDays.Store(int64(loanDurationDays))
	p.finePerDay.Store(finePerDay)
	p.maxActiveLoans.Store(int64(maxActiveLoans))
	return p
}

func (p *Policy) LoanDurationDays() int { return int(p.loanDurationDays.Load()) }
func (p *Policy) FinePerDay() int64     { return p.finePerDay.Load() }
func (p *Policy) MaxActiveLoans() int   { return int(p.maxActiveLoans.Load()) }

// Update applies the non-nil fields. Partial updates are the norm: the admin
// panel sends only what changed.
func (p *Policy) Update(loanDurationDays *int, finePerDay *int64, maxActiveLoans *int) {
	if loanDurationDays != nil && *loanDurationDays > 0 {
		p.loanDurationDays.Store(int64(*loanDurationDays))
	}
	if finePerDay != nil && *finePerDay >= 0 {
		p.finePerDay.Store(*finePerDay)
	}
	if maxActiveLoans != nil && *maxActiveLoans > 0 {
		p.maxActiveLoans.Store(int64(*maxActiveLoans))
	}
}

// Snapshot is the read shape returned to the admin panel.
type Snapshot struct {
	LoanDurationDays int   `json:"loan_duration_days"`
	FinePerDay       int64 `json:"fine_per_day"`
	MaxActiveLoans   int   `json:"max_active_loans"`
}

func (p *Policy) Snapshot() Snapshot {
	return Snapshot{
		LoanDurationDays: p.LoanDurationDays(),
		FinePerDay:       p.FinePerDay(),
		MaxActiveLoans:   p.MaxActiveLoans(),
	}
}
