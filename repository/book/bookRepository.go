package bookrepo

import (
	"context"
	"database/sql"

	"github.com/Vaibhavp809/libsync-sub001/model"
)

// Status is derived on every read: a book is Issued while an open loan row
// exists, Reserved while an active reservation row exists, Available
// otherwise. No query ever writes a status column.
const bookColumns = `
	b.id, b.accession_key, b.title, b.author, b.category,
	b.verified, b.condition, b.created_at,
	EXISTS(SELECT 1 FROM loans l WHERE l.book_id = b.id AND l.status = 'Issued')        AS on_loan,
	EXISTS(SELECT 1 FROM reservations r WHERE r.book_id = b.id AND r.status = 'Active') AS reserved`

type Repo interface {
	Create(ctx context.Context, accessionKey, title, author, category string) (int64, error)
	List(ctx context.Context) ([]model.Book, error)
	Detail(ctx context.Context, id int64) (*model.Book, error)
	ByAccession(ctx context.Context, accessionKey string) (*model.Book, error)

	// ApplyVerification marks the copy as seen in a stock check and records
	// its condition. Returns sql.ErrNoRows when no copy has that key.
	ApplyVerification(ctx context.Context, accessionKey string, cond model.Condition) error
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db} }

func (r *repo) Create(ctx context.Context, accessionKey, title, author, category string) (int64, error) {
	const q = `
INSERT INTO books (accession_key, title, author, category)
VALUES ($1,$2,$3,$4)
RETURNING id`
	var id int64
	if err := r.db.QueryRowContext(ctx, q, accessionKey, title, author, category).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

func (r *repo) List(ctx context.Context) ([]model.Book, error) {
	const q = `
SELECT ` + bookColumns + `
FROM books b
ORDER BY b.accession_key`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Book
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *b)
	}
	return out, rows.Err()
}

func (r *repo) Detail(ctx context.Context, id int64) (*model.Book, error) {
	const q = `
SELECT ` + bookColumns + `
FROM books b
WHERE b.id = $1`
	return scanBook(r.db.QueryRowContext(ctx, q, id))
}

func (r *repo) ByAccession(ctx context.Context, accessionKey string) (*model.Book, error) {
	const q = `
SELECT ` + bookColumns + `
FROM books b
WHERE b.accession_key = $1`
	return scanBook(r.db.QueryRowContext(ctx, q, accessionKey))
}

func (r *repo) ApplyVerification(ctx context.Context, accessionKey string, cond model.Condition) error {
	// Idempotent: re-verifying overwrites the condition, no error.
	const q = `
UPDATE books
SET verified = TRUE,
    condition = $2
WHERE accession_key = $1`
	res, err := r.db.ExecContext(ctx, q, accessionKey, string(cond))
	if err != nil {
		return err
	}
	aff, _ := res.RowsAffected()
	if aff == 0 {
		return sql.ErrNoRows
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBook(row rowScanner) (*model.Book, error) {
	var (
		b        model.Book
		cond     sql.NullString
		onLoan   bool
		reserved bool
	)
	if err := row.Scan(
		&b.ID, &b.AccessionKey, &b.Title, &b.Author, &b.Category,
		&b.Verified, &cond, &b.CreatedAt, &onLoan, &reserved,
	); err != nil {
		return nil, err
	}
	if cond.Valid {
		c := model.Condition(cond.String)
		b.Condition = &c
	}
	b.Status = model.DeriveStatus(onLoan, reserved)
	return &b, nil
}
