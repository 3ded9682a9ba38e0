package inventorysvc_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/Vaibhavp809/libsync-sub001/model"
	inventorysvc "github.com/Vaibhavp809/libsync-sub001/service/inventory"
)

type repoMock struct {
	createFn      func(ctx context.Context, key, title, author, category string) (int64, error)
	listFn        func(ctx context.Context) ([]model.Book, error)
	detailFn      func(ctx context.Context, id int64) (*model.Book, error)
	byAccessionFn func(ctx context.Context, key string) (*model.Book, error)
	verifyFn      func(ctx context.Context, key string, cond model.Condition) error
}

func (m *repoMock) Create(ctx context.Context, key, title, author, category string) (int64, error) {
	return m.createFn(ctx, key, title, author, category)
}
func (m *repoMock) List(ctx context.Context) ([]model.Book, error) { return m.listFn(ctx) }
func (m *repoMock) Detail(ctx context.Context, id int64) (*model.Book, error) {
	return m.detailFn(ctx, id)
}
func (m *repoMock) ByAccession(ctx context.Context, key string) (*model.Book, error) {
	return m.byAccessionFn(ctx, key)
}
func (m *repoMock) ApplyVerification(ctx context.Context, key string, cond model.Condition) error {
	return m.verifyFn(ctx, key, cond)
}

func TestCreate_NormalizesAccession(t *testing.T) {
	m := &repoMock{
		createFn: func(ctx context.Context, key, title, author, category string) (int64, error) {
			if key != "000042" {
				return 0, errors.New("bad key " + key)
			}
			return 7, nil
		},
	}
	s := inventorysvc.New(m)

	id, err := s.Create(context.Background(), "ACC-42", "SICP", "Abelson", "CS")
	if err != nil || id != 7 {
		t.Fatalf("got id=%d err=%v; want 7 nil", id, err)
	}
}

func TestCreate_Validation(t *testing.T) {
	s := inventorysvc.New(&repoMock{})
	if _, err := s.Create(context.Background(), "1", "", "Abelson", ""); !errors.Is(err, inventorysvc.ErrBadInput) {
		t.Fatalf("expected ErrBadInput, got %v", err)
	}
	if _, err := s.Create(context.Background(), "---", "SICP", "Abelson", ""); !errors.Is(err, inventorysvc.ErrBadAccession) {
		t.Fatalf("expected ErrBadAccession, got %v", err)
	}
}

func TestApplyVerification_NotFound(t *testing.T) {
	m := &repoMock{
		verifyFn: func(ctx context.Context, key string, cond model.Condition) error {
			return sql.ErrNoRows
		},
	}
	s := inventorysvc.New(m)

	err := s.ApplyVerification(context.Background(), "999999", model.ConditionVerified)
	if !errors.Is(err, inventorysvc.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDeriveStatus(t *testing.T) {
	cases := []struct {
		onLoan, reserved bool
		want             model.BookStatus
	}{
		{false, false, model.StatusAvailable},
		{true, false, model.StatusIssued},
		{false, true, model.StatusReserved},
		{true, true, model.StatusIssued}, // open loan outranks a claim
	}
	for _, c := range cases {
		if got := model.DeriveStatus(c.onLoan, c.reserved); got != c.want {
			t.Fatalf("DeriveStatus(%v,%v) = %s; want %s", c.onLoan, c.reserved, got, c.want)
		}
	}
}
