package config

import "testing"

func TestPolicy_Defaults(t *testing.T) {
	p := NewPolicy(14, 10, 4)
	if p.LoanDurationDays() != 14 || p.FinePerDay() != 10 || p.MaxActiveLoans() != 4 {
		t.Fatalf("got %+v", p.Snapshot())
	}
}

func TestPolicy_PartialUpdate(t *testing.T) {
	p := NewPolicy(14, 10, 4)

	fine := int64(25)
	p.Update(nil, &fine, nil)

	s := p.Snapshot()
	if s.FinePerDay != 25 {
		t.Fatalf("fine not updated: %+v", s)
	}
	if s.LoanDurationDays != 14 || s.MaxActiveLoans != 4 {
		t.Fatalf("untouched fields changed: %+v", s)
	}
}

func TestPolicy_RejectsNonPositive(t *testing.T) {
	p := NewPolicy(14, 10, 4)

	bad := 0
	p.Update(&bad, nil, &bad)
	if p.LoanDurationDays() != 14 || p.MaxActiveLoans() != 4 {
		t.Fatalf("non-positive values must be ignored: %+v", p.Snapshot())
	}

	// zero fine is allowed: fines can be waived policy-wide
	zero := int64(0)
	p.Update(nil, &zero, nil)
	if p.FinePerDay() != 0 {
		t.Fatalf("zero fine should be accepted")
	}
}
