// repository/circulation/circulationRepository.go
//
// Every mutation here is one transaction: lock the affected rows FOR UPDATE,
// re-check the state-machine guards against the locked rows, write, commit.
// Two concurrent issuance requests for the same book (or for one student's
// last loan slot) serialize on those locks, so both guards hold at commit
// time. Partial unique indexes in schema.sql back the same invariants at the
// storage level.
package circulation

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/Vaibhavp809/libsync-sub001/model"
)

var (
	ErrBookNotFound         = errors.New("book not found")
	ErrBookOnLoan           = errors.New("book already issued")
	ErrBookReserved         = errors.New("book reserved by another student")
	ErrDuplicateClaim       = errors.New("student already holds this book")
	ErrLoanCapReached       = errors.New("student active-loan limit reached")
	ErrStudentNotFound      = errors.New("student not found")
	ErrLoanNotFound         = errors.New("no open loan matches")
	ErrReservationNotFound  = errors.New("reservation not found")
	ErrReservationNotActive = errors.New("reservation not active")
)

type CreateLoanParams struct {
	StudentID int64
	BookID    int64
	IssueDate time.Time
	DueDate   time.Time
	MaxActive int
}

// ReturnResult reports what a close left behind, so the caller can re-derive
// the book status and notify a waiting claimant.
type ReturnResult struct {
	Loan       *model.Loan
	BookStatus model.BookStatus
	ClaimantID *int64
}

type HistoryRow struct {
	LoanID       int64            `json:"loan_id"`
	BookID       int64            `json:"book_id"`
	AccessionKey string           `json:"accession_key"`
	Title        string           `json:"title"`
	Status       model.LoanStatus `json:"status"`
	IssueDate    time.Time        `json:"issue_date"`
	DueDate      time.Time        `json:"due_date"`
	ReturnDate   *time.Time       `json:"return_date,omitempty"`
	Fine         int64            `json:"fine"`
}

type ReminderRow struct {
	LoanID    int64     `json:"loan_id"`
	StudentID int64     `json:"student_id"`
	Title     string    `json:"title"`
	DueDate   time.Time `json:"due_date"`
}

// AnomalyRow is a fulfilled reservation with no issuance behind it. The
// fulfill-and-issue path is a single transaction, so rows here point at
// historical data or out-of-band writes; they are surfaced, never repaired
// silently.
type AnomalyRow struct {
	ReservationID int64     `json:"reservation_id"`
	BookID        int64     `json:"book_id"`
	StudentID     int64     `json:"student_id"`
	ReservedAt    time.Time `json:"reserved_at"`
}

type Repo interface {
	CreateLoan(ctx context.Context, p CreateLoanParams) (*model.Loan, error)
	GetOpenLoanByID(ctx context.Context, loanID int64) (*model.Loan, error)
	GetOpenLoanByAccession(ctx context.Context, accessionKey string) (*model.Loan, error)
	CloseLoan(ctx context.Context, loanID int64, returnedAt time.Time, fine int64) (*ReturnResult, error)

	CreateReservation(ctx context.Context, studentID, bookID int64, reservedAt time.Time) (*model.Reservation, error)
	CancelReservation(ctx context.Context, reservationID int64) (*model.Reservation, error)
	FulfillAndIssue(ctx context.Context, reservationID int64, p CreateLoanParams) (*model.Loan, error)

	ListStudentLoans(ctx context.Context, studentID int64) ([]HistoryRow, error)
	ListDueBy(ctx context.Context, dueBy time.Time) ([]ReminderRow, error)
	ListFulfilledWithoutLoan(ctx context.Context) ([]AnomalyRow, error)
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db: db} }

// row locks, always taken student-then-book to keep lock order consistent

func (r *repo) lockStudent(ctx context.Context, tx *sql.Tx, studentID int64) error {
	const q = `
		SELECT id
		FROM students
		WHERE id = $1
		FOR UPDATE`
	var id int64
	if err := tx.QueryRowContext(ctx, q, studentID).Scan(&id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrStudentNotFound
		}
		return err
	}
	return nil
}

func (r *repo) lockBook(ctx context.Context, tx *sql.Tx, bookID int64) error {
	const q = `
		SELECT id
		FROM books
		WHERE id = $1
		FOR UPDATE`
	var id int64
	if err := tx.QueryRowContext(ctx, q, bookID).Scan(&id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrBookNotFound
		}
		return err
	}
	return nil
}

func (r *repo) openLoanExists(ctx context.Context, tx *sql.Tx, bookID int64) (bool, error) {
	const q = `
		SELECT EXISTS(
			SELECT 1 FROM loans
			WHERE book_id = $1 AND status = 'Issued')`
	var exists bool
	err := tx.QueryRowContext(ctx, q, bookID).Scan(&exists)
	return exists, err
}

func (r *repo) activeReservation(ctx context.Context, tx *sql.Tx, bookID int64) (id, studentID int64, found bool, err error) {
	const q = `
		SELECT id, student_id
		FROM reservations
		WHERE book_id = $1 AND status = 'Active'
		FOR UPDATE`
	err = tx.QueryRowContext(ctx, q, bookID).Scan(&id, &studentID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, 0, false, nil
	}
	if err != nil {
		return 0, 0, false, err
	}
	return id, studentID, true, nil
}

func (r *repo) countOpenLoans(ctx context.Context, tx *sql.Tx, studentID int64) (int, error) {
	const q = `
		SELECT COUNT(*)
		FROM loans
		WHERE student_id = $1 AND status = 'Issued'`
	var n int
	err := tx.QueryRowContext(ctx, q, studentID).Scan(&n)
	return n, err
}

func (r *repo) insertLoan(ctx context.Context, tx *sql.Tx, p CreateLoanParams) (*model.Loan, error) {
	const q = `
		INSERT INTO loans (book_id, student_id, status, issue_date, due_date)
		VALUES ($1, $2, 'Issued', $3, $4)
		RETURNING id`
	l := &model.Loan{
		BookID:    p.BookID,
		StudentID: p.StudentID,
		Status:    model.LoanIssued,
		IssueDate: p.IssueDate,
		DueDate:   p.DueDate,
	}
	if err := tx.QueryRowContext(ctx, q, p.BookID, p.StudentID, p.IssueDate, p.DueDate).Scan(&l.ID); err != nil {
		return nil, err
	}
	return l, nil
}

// guardIssue re-checks every issuance rule against locked rows. When the
// acting student holds the book's active reservation, issuing fulfills it in
// the same transaction.
func (r *repo) guardIssue(ctx context.Context, tx *sql.Tx, p CreateLoanParams) error {
	open, err := r.openLoanExists(ctx, tx, p.BookID)
	if err != nil {
		return err
	}
	if open {
		return ErrBookOnLoan
	}

	resID, claimant, found, err := r.activeReservation(ctx, tx, p.BookID)
	if err != nil {
		return err
	}
	if found {
		if claimant != p.StudentID {
			return ErrBookReserved
		}
		const fulfill = `
			UPDATE reservations
			SET status = 'Fulfilled'
			WHERE id = $1 AND status = 'Active'`
		if _, err := tx.ExecContext(ctx, fulfill, resID); err != nil {
			return err
		}
	}

	n, err := r.countOpenLoans(ctx, tx, p.StudentID)
	if err != nil {
		return err
	}
	if n >= p.MaxActive {
		return ErrLoanCapReached
	}
	return nil
}

func (r *repo) CreateLoan(ctx context.Context, p CreateLoanParams) (loan *model.Loan, err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = r.lockStudent(ctx, tx, p.StudentID); err != nil {
		return nil, err
	}
	if err = r.lockBook(ctx, tx, p.BookID); err != nil {
		return nil, err
	}
	if err = r.guardIssue(ctx, tx, p); err != nil {
		return nil, err
	}
	if loan, err = r.insertLoan(ctx, tx, p); err != nil {
		return nil, err
	}
	if err = tx.Commit(); err != nil {
		return nil, err
	}
	return loan, nil
}

const openLoanColumns = `l.id, l.book_id, l.student_id, l.status, l.issue_date, l.due_date`

func (r *repo) GetOpenLoanByID(ctx context.Context, loanID int64) (*model.Loan, error) {
	const q = `
		SELECT ` + openLoanColumns + `
		FROM loans l
		WHERE l.id = $1 AND l.status = 'Issued'`
	return r.scanOpenLoan(r.db.QueryRowContext(ctx, q, loanID))
}

func (r *repo) GetOpenLoanByAccession(ctx context.Context, accessionKey string) (*model.Loan, error) {
	const q = `
		SELECT ` + openLoanColumns + `
		FROM loans l
		JOIN books b ON b.id = l.book_id
		WHERE b.accession_key = $1 AND l.status = 'Issued'`
	return r.scanOpenLoan(r.db.QueryRowContext(ctx, q, accessionKey))
}

func (r *repo) scanOpenLoan(row *sql.Row) (*model.Loan, error) {
	var l model.Loan
	err := row.Scan(&l.ID, &l.BookID, &l.StudentID, &l.Status, &l.IssueDate, &l.DueDate)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrLoanNotFound
	}
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *repo) CloseLoan(ctx context.Context, loanID int64, returnedAt time.Time, fine int64) (res *ReturnResult, err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const sel = `
		SELECT ` + openLoanColumns + `
		FROM loans l
		WHERE l.id = $1
		FOR UPDATE`
	var l model.Loan
	err = tx.QueryRowContext(ctx, sel, loanID).Scan(&l.ID, &l.BookID, &l.StudentID, &l.Status, &l.IssueDate, &l.DueDate)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrLoanNotFound
	}
	if err != nil {
		return nil, err
	}
	if l.Status != model.LoanIssued {
		return nil, ErrLoanNotFound
	}

	const upd = `
		UPDATE loans
		SET status = 'Returned',
		    return_date = $2,
		    fine = $3
		WHERE id = $1 AND status = 'Issued'`
	aff, err := tx.ExecContext(ctx, upd, loanID, returnedAt, fine)
	if err != nil {
		return nil, err
	}
	if n, _ := aff.RowsAffected(); n == 0 {
		return nil, ErrLoanNotFound
	}
	l.Status = model.LoanReturned
	l.ReturnDate = &returnedAt
	l.Fine = fine

	// A surviving active reservation keeps the book out of general
	// availability and names the student to notify.
	const claim = `
		SELECT student_id
		FROM reservations
		WHERE book_id = $1 AND status = 'Active'`
	var claimant int64
	res = &ReturnResult{Loan: &l, BookStatus: model.StatusAvailable}
	switch err = tx.QueryRowContext(ctx, claim, l.BookID).Scan(&claimant); {
	case err == nil:
		res.BookStatus = model.StatusReserved
		res.ClaimantID = &claimant
	case errors.Is(err, sql.ErrNoRows):
		err = nil
	default:
		return nil, err
	}

	if err = tx.Commit(); err != nil {
		return nil, err
	}
	return res, nil
}

func (r *repo) CreateReservation(ctx context.Context, studentID, bookID int64, reservedAt time.Time) (rv *model.Reservation, err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = r.lockStudent(ctx, tx, studentID); err != nil {
		return nil, err
	}
	if err = r.lockBook(ctx, tx, bookID); err != nil {
		return nil, err
	}

	open, err := r.openLoanExists(ctx, tx, bookID)
	if err != nil {
		return nil, err
	}
	if open {
		// Check first whether it is the student's own loan so the
		// rejection names the right rule.
		const mine = `
			SELECT EXISTS(
				SELECT 1 FROM loans
				WHERE book_id = $1 AND student_id = $2 AND status = 'Issued')`
		var held bool
		if err = tx.QueryRowContext(ctx, mine, bookID, studentID).Scan(&held); err != nil {
			return nil, err
		}
		if held {
			return nil, ErrDuplicateClaim
		}
		return nil, ErrBookOnLoan
	}

	_, claimant, found, err := r.activeReservation(ctx, tx, bookID)
	if err != nil {
		return nil, err
	}
	if found {
		if claimant == studentID {
			return nil, ErrDuplicateClaim
		}
		// first claimant wins
		return nil, ErrBookReserved
	}

	const ins = `
		INSERT INTO reservations (book_id, student_id, status, reserved_at)
		VALUES ($1, $2, 'Active', $3)
		RETURNING id`
	rv = &model.Reservation{
		BookID:     bookID,
		StudentID:  studentID,
		Status:     model.ReservationActive,
		ReservedAt: reservedAt,
	}
	if err = tx.QueryRowContext(ctx, ins, bookID, studentID, reservedAt).Scan(&rv.ID); err != nil {
		return nil, err
	}
	if err = tx.Commit(); err != nil {
		return nil, err
	}
	return rv, nil
}

func (r *repo) CancelReservation(ctx context.Context, reservationID int64) (rv *model.Reservation, err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const sel = `
		SELECT id, book_id, student_id, status, reserved_at
		FROM reservations
		WHERE id = $1
		FOR UPDATE`
	var v model.Reservation
	err = tx.QueryRowContext(ctx, sel, reservationID).Scan(&v.ID, &v.BookID, &v.StudentID, &v.Status, &v.ReservedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrReservationNotFound
	}
	if err != nil {
		return nil, err
	}
	if v.Status != model.ReservationActive {
		return nil, ErrReservationNotActive
	}

	const upd = `
		UPDATE reservations
		SET status = 'Cancelled'
		WHERE id = $1 AND status = 'Active'`
	if _, err = tx.ExecContext(ctx, upd, reservationID); err != nil {
		return nil, err
	}
	v.Status = model.ReservationCancelled

	if err = tx.Commit(); err != nil {
		return nil, err
	}
	return &v, nil
}

// FulfillAndIssue turns a reservation into a loan in one transaction, so the
// fulfilled-but-not-issued gap cannot exist.
func (r *repo) FulfillAndIssue(ctx context.Context, reservationID int64, p CreateLoanParams) (loan *model.Loan, err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const sel = `
		SELECT book_id, student_id, status
		FROM reservations
		WHERE id = $1
		FOR UPDATE`
	var (
		bookID    int64
		studentID int64
		status    model.ReservationStatus
	)
	err = tx.QueryRowContext(ctx, sel, reservationID).Scan(&bookID, &studentID, &status)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrReservationNotFound
	}
	if err != nil {
		return nil, err
	}
	if status != model.ReservationActive {
		return nil, ErrReservationNotActive
	}
	p.BookID = bookID
	p.StudentID = studentID

	if err = r.lockStudent(ctx, tx, studentID); err != nil {
		return nil, err
	}
	if err = r.lockBook(ctx, tx, bookID); err != nil {
		return nil, err
	}

	open, err := r.openLoanExists(ctx, tx, bookID)
	if err != nil {
		return nil, err
	}
	if open {
		return nil, ErrBookOnLoan
	}
	n, err := r.countOpenLoans(ctx, tx, studentID)
	if err != nil {
		return nil, err
	}
	if n >= p.MaxActive {
		return nil, ErrLoanCapReached
	}

	const fulfill = `
		UPDATE reservations
		SET status = 'Fulfilled'
		WHERE id = $1 AND status = 'Active'`
	if _, err = tx.ExecContext(ctx, fulfill, reservationID); err != nil {
		return nil, err
	}
	if loan, err = r.insertLoan(ctx, tx, p); err != nil {
		return nil, err
	}
	if err = tx.Commit(); err != nil {
		return nil, err
	}
	return loan, nil
}

func (r *repo) ListStudentLoans(ctx context.Context, studentID int64) ([]HistoryRow, error) {
	const q = `
		SELECT
			l.id           AS loan_id,
			l.book_id      AS book_id,
			b.accession_key AS accession_key,
			b.title        AS title,
			l.status       AS status,
			l.issue_date   AS issue_date,
			l.due_date     AS due_date,
			l.return_date  AS return_date,
			l.fine         AS fine
		FROM loans l
		JOIN books b ON b.id = l.book_id
		WHERE l.student_id = $1
		ORDER BY l.issue_date DESC, l.id DESC`
	rows, err := r.db.QueryContext(ctx, q, studentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []HistoryRow
	for rows.Next() {
		var h HistoryRow
		if err := rows.Scan(
			&h.LoanID, &h.BookID, &h.AccessionKey, &h.Title,
			&h.Status, &h.IssueDate, &h.DueDate, &h.ReturnDate, &h.Fine,
		); err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

func (r *repo) ListDueBy(ctx context.Context, dueBy time.Time) ([]ReminderRow, error) {
	const q = `
		SELECT l.id, l.student_id, b.title, l.due_date
		FROM loans l
		JOIN books b ON b.id = l.book_id
		WHERE l.status = 'Issued' AND l.due_date <= $1
		ORDER BY l.due_date`
	rows, err := r.db.QueryContext(ctx, q, dueBy)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ReminderRow
	for rows.Next() {
		var m ReminderRow
		if err := rows.Scan(&m.LoanID, &m.StudentID, &m.Title, &m.DueDate); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *repo) ListFulfilledWithoutLoan(ctx context.Context) ([]AnomalyRow, error) {
	const q = `
		SELECT r.id, r.book_id, r.student_id, r.reserved_at
		FROM reservations r
		WHERE r.status = 'Fulfilled'
		  AND NOT EXISTS (
			SELECT 1 FROM loans l
			WHERE l.book_id = r.book_id
			  AND l.student_id = r.student_id
			  AND l.issue_date >= r.reserved_at)
		ORDER BY r.reserved_at`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []AnomalyRow
	for rows.Next() {
		var a AnomalyRow
		if err := rows.Scan(&a.ReservationID, &a.BookID, &a.StudentID, &a.ReservedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
