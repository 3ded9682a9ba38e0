// Package inventorysvc is the ledger side of the engine: catalog entry,
// derived-status reads, and stock-check verification writes.
package inventorysvc

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/Vaibhavp809/libsync-sub001/model"
	"github.com/Vaibhavp809/libsync-sub001/util/accession"
)

var (
	ErrBadInput       = errors.New("invalid payload")
	ErrBadAccession   = errors.New("accession empty after normalization")
	ErrAccessionTaken = errors.New("accession already cataloged")
	ErrNotFound       = errors.New("book not found")
)

type Repo interface {
	Create(ctx context.Context, accessionKey, title, author, category string) (int64, error)
	List(ctx context.Context) ([]model.Book, error)
	Detail(ctx context.Context, id int64) (*model.Book, error)
	ByAccession(ctx context.Context, accessionKey string) (*model.Book, error)
	ApplyVerification(ctx context.Context, accessionKey string, cond model.Condition) error
}

type Service interface {
	// Create catalogs a copy under the canonical form of the given accession.
	Create(ctx context.Context, rawAccession, title, author, category string) (int64, error)
	List(ctx context.Context) ([]model.Book, error)
	Detail(ctx context.Context, id int64) (*model.Book, error)
	ByAccession(ctx context.Context, rawAccession string) (*model.Book, error)

	// ApplyVerification takes an already-canonical key; reconciliation
	// normalizes before calling.
	ApplyVerification(ctx context.Context, accessionKey string, cond model.Condition) error
}

type service struct{ r Repo }

func New(r Repo) Service { return &service{r: r} }

func (s *service) Create(ctx context.Context, rawAccession, title, author, category string) (int64, error) {
	if title == "" || author == "" {
		return 0, ErrBadInput
	}
	key, err := accession.Normalize(rawAccession)
	if err != nil {
		return 0, ErrBadAccession
	}
	id, err := s.r.Create(ctx, key, title, author, category)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, ErrAccessionTaken
		}
		return 0, err
	}
	return id, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		return strings.Contains(strings.ToLower(pgErr.ConstraintName), "accession") ||
			strings.Contains(strings.ToLower(pgErr.Message), "accession")
	}
	return false
}

func (s *service) List(ctx context.Context) ([]model.Book, error) { return s.r.List(ctx) }

func (s *service) Detail(ctx context.Context, id int64) (*model.Book, error) {
	b, err := s.r.Detail(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return b, err
}

func (s *service) ByAccession(ctx context.Context, rawAccession string) (*model.Book, error) {
	key, err := accession.Normalize(rawAccession)
	if err != nil {
		return nil, ErrBadAccession
	}
	b, err := s.r.ByAccession(ctx, key)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return b, err
}

func (s *service) ApplyVerification(ctx context.Context, accessionKey string, cond model.Condition) error {
	err := s.r.ApplyVerification(ctx, accessionKey, cond)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}
