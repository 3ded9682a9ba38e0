// Student directory capability: identity lookup plus live open-loan count.
// Enrollment itself belongs to the admin panel, not this service.
package studentrepo

import (
	"context"
	"database/sql"

	"github.com/Vaibhavp809/libsync-sub001/model"
)

type Repo interface {
	ByID(ctx context.Context, id int64) (*model.StudentInfo, error)
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db} }

func (r *repo) ByID(ctx context.Context, id int64) (*model.StudentInfo, error) {
	const q = `
		SELECT s.id, s.name, s.department, s.email, s.created_at,
		       (SELECT COUNT(*) FROM loans l
		        WHERE l.student_id = s.id AND l.status = 'Issued') AS active_loans
		FROM students s
		WHERE s.id = $1`
	var si model.StudentInfo
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&si.ID, &si.Name, &si.Department, &si.Email, &si.CreatedAt, &si.ActiveLoans,
	)
	if err != nil {
		return nil, err
	}
	return &si, nil
}
