package circulation

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/Vaibhavp809/libsync-sub001/config"
	"github.com/Vaibhavp809/libsync-sub001/model"
	circrepo "github.com/Vaibhavp809/libsync-sub001/repository/circulation"
	notifyrepo "github.com/Vaibhavp809/libsync-sub001/repository/notify"
	"github.com/Vaibhavp809/libsync-sub001/util/accession"
)

// ReturnOutcome reports the frozen fine and the status the book re-derived to.
type ReturnOutcome struct {
	Loan       *model.Loan      `json:"loan"`
	BookStatus model.BookStatus `json:"book_status"`
}

type Service interface {
	// Issue creates an open loan. A nil due date means now + the configured
	// loan duration. Issuing a book whose active reservation belongs to the
	// same student fulfills that reservation in the same transaction.
	Issue(ctx context.Context, studentID, bookID int64, due *time.Time) (*model.Loan, error)

	// ReturnByLoan / ReturnByAccession close an open loan, freeze its fine
	// and report the re-derived book status.
	ReturnByLoan(ctx context.Context, loanID int64) (*ReturnOutcome, error)
	ReturnByAccession(ctx context.Context, rawAccession string) (*ReturnOutcome, error)

	// CurrentFine evaluates the overdue fine of an open loan against now.
	CurrentFine(ctx context.Context, loanID int64) (int64, error)

	Reserve(ctx context.Context, studentID, bookID int64) (*model.Reservation, error)
	Cancel(ctx context.Context, reservationID int64) (*model.Reservation, error)

	// Fulfill turns an active reservation into a loan atomically.
	Fulfill(ctx context.Context, reservationID int64, due *time.Time) (*model.Loan, error)

	History(ctx context.Context, studentID int64) ([]circrepo.HistoryRow, error)
	Anomalies(ctx context.Context) ([]circrepo.AnomalyRow, error)
}

type service struct {
	r      circrepo.Repo
	notify notifyrepo.Repo
	policy *config.Policy
	log    *slog.Logger
	now    func() time.Time
}

func New(r circrepo.Repo, n notifyrepo.Repo, p *config.Policy, log *slog.Logger) Service {
	return &service{r: r, notify: n, policy: p, log: log, now: time.Now}
}

func (s *service) Issue(ctx context.Context, studentID, bookID int64, due *time.Time) (*model.Loan, error) {
	now := s.now().UTC()
	dueDate, err := s.resolveDue(now, due)
	if err != nil {
		return nil, err
	}

	loan, err := s.r.CreateLoan(ctx, circrepo.CreateLoanParams{
		StudentID: studentID,
		BookID:    bookID,
		IssueDate: now,
		DueDate:   dueDate,
		MaxActive: s.policy.MaxActiveLoans(),
	})
	if err != nil {
		return nil, mapRepoErr(err)
	}
	return loan, nil
}

func (s *service) resolveDue(issue time.Time, due *time.Time) (time.Time, error) {
	if due == nil {
		return issue.AddDate(0, 0, s.policy.LoanDurationDays()), nil
	}
	if due.Before(issue) {
		return time.Time{}, makeErr(KindValidation, ErrBadDueDate, "due date before issue date")
	}
	return due.UTC(), nil
}

func (s *service) ReturnByLoan(ctx context.Context, loanID int64) (*ReturnOutcome, error) {
	loan, err := s.r.GetOpenLoanByID(ctx, loanID)
	if err != nil {
		return nil, mapRepoErr(err)
	}
	return s.closeLoan(ctx, loan)
}

func (s *service) ReturnByAccession(ctx context.Context, rawAccession string) (*ReturnOutcome, error) {
	key, err := accession.Normalize(rawAccession)
	if err != nil {
		return nil, makeErr(KindValidation, ErrBadAccession, "accession empty after normalization")
	}
	loan, err := s.r.GetOpenLoanByAccession(ctx, key)
	if err != nil {
		return nil, mapRepoErr(err)
	}
	return s.closeLoan(ctx, loan)
}

func (s *service) closeLoan(ctx context.Context, loan *model.Loan) (*ReturnOutcome, error) {
	now := s.now().UTC()
	fine := loan.FineAt(now, s.policy.FinePerDay())

	res, err := s.r.CloseLoan(ctx, loan.ID, now, fine)
	if err != nil {
		return nil, mapRepoErr(err)
	}

	// Post-commit, fire-and-forget: a waiting claimant learns the copy is
	// back. Failure is logged and swallowed.
	if res.ClaimantID != nil {
		if nerr := s.notify.Send(ctx, notifyrepo.Notice{
			StudentID: *res.ClaimantID,
			Kind:      notifyrepo.KindReservationReady,
			Message:   "your reserved book has been returned and is ready for pickup",
		}); nerr != nil {
			s.log.Error("reservation-ready notice failed", "student_id", *res.ClaimantID, "err", nerr)
		}
	}
	return &ReturnOutcome{Loan: res.Loan, BookStatus: res.BookStatus}, nil
}

func (s *service) CurrentFine(ctx context.Context, loanID int64) (int64, error) {
	loan, err := s.r.GetOpenLoanByID(ctx, loanID)
	if err != nil {
		return 0, mapRepoErr(err)
	}
	return loan.FineAt(s.now().UTC(), s.policy.FinePerDay()), nil
}

func (s *service) Reserve(ctx context.Context, studentID, bookID int64) (*model.Reservation, error) {
	rv, err := s.r.CreateReservation(ctx, studentID, bookID, s.now().UTC())
	if err != nil {
		return nil, mapRepoErr(err)
	}
	return rv, nil
}

func (s *service) Cancel(ctx context.Context, reservationID int64) (*model.Reservation, error) {
	rv, err := s.r.CancelReservation(ctx, reservationID)
	if err != nil {
		return nil, mapRepoErr(err)
	}
	return rv, nil
}

func (s *service) Fulfill(ctx context.Context, reservationID int64, due *time.Time) (*model.Loan, error) {
	now := s.now().UTC()
	dueDate, err := s.resolveDue(now, due)
	if err != nil {
		return nil, err
	}
	loan, err := s.r.FulfillAndIssue(ctx, reservationID, circrepo.CreateLoanParams{
		IssueDate: now,
		DueDate:   dueDate,
		MaxActive: s.policy.MaxActiveLoans(),
	})
	if err != nil {
		return nil, mapRepoErr(err)
	}
	return loan, nil
}

func (s *service) History(ctx context.Context, studentID int64) ([]circrepo.HistoryRow, error) {
	return s.r.ListStudentLoans(ctx, studentID)
}

func (s *service) Anomalies(ctx context.Context) ([]circrepo.AnomalyRow, error) {
	rows, err := s.r.ListFulfilledWithoutLoan(ctx)
	if err != nil {
		return nil, err
	}
	if len(rows) > 0 {
		// The one inconsistency this engine cannot produce itself; if it
		// shows up, say so loudly.
		s.log.Error("fulfilled reservations with no matching loan", "count", len(rows))
	}
	return rows, nil
}

func mapRepoErr(err error) error {
	switch {
	case errors.Is(err, circrepo.ErrBookOnLoan):
		return makeErr(KindConflict, ErrBookOnLoan, "book already issued")
	case errors.Is(err, circrepo.ErrBookReserved):
		return makeErr(KindConflict, ErrBookReserved, "book reserved by another student")
	case errors.Is(err, circrepo.ErrDuplicateClaim):
		return makeErr(KindConflict, ErrDuplicateClaim, "student already holds a claim on this book")
	case errors.Is(err, circrepo.ErrLoanCapReached):
		return makeErr(KindConflict, ErrLoanCapReached, "student has reached the active-loan limit")
	case errors.Is(err, circrepo.ErrBookNotFound):
		return makeErr(KindNotFound, ErrBookNotFound, "book not found")
	case errors.Is(err, circrepo.ErrStudentNotFound):
		return makeErr(KindNotFound, ErrStudentNotFound, "student not found")
	case errors.Is(err, circrepo.ErrLoanNotFound):
		return makeErr(KindNotFound, ErrLoanNotFound, "no open loan matches")
	case errors.Is(err, circrepo.ErrReservationNotFound):
		return makeErr(KindNotFound, ErrReservationNotFound, "reservation not found")
	case errors.Is(err, circrepo.ErrReservationNotActive):
		return makeErr(KindInvalidState, ErrReservationNotActive, "reservation is not active")
	default:
		return err
	}
}
