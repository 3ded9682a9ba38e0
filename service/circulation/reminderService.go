package circulation

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	circrepo "github.com/Vaibhavp809/libsync-sub001/repository/circulation"
	notifyrepo "github.com/Vaibhavp809/libsync-sub001/repository/notify"
)

// Reminder sweeps open loans coming due and fires loan-reminder notices.
// Triggered by the admin panel or a cron hitting the admin endpoint.
type Reminder interface {
	RemindDueSoon(ctx context.Context, withinDays int) (int, error)
}

type reminder struct {
	r      circrepo.Repo
	notify notifyrepo.Repo
	log    *slog.Logger
	now    func() time.Time
}

func NewReminder(r circrepo.Repo, n notifyrepo.Repo, log *slog.Logger) Reminder {
	return &reminder{r: r, notify: n, log: log, now: time.Now}
}

func (c *reminder) RemindDueSoon(ctx context.Context, withinDays int) (int, error) {
	if withinDays < 0 {
		withinDays = 0
	}
	dueBy := c.now().UTC().AddDate(0, 0, withinDays)
	rows, err := c.r.ListDueBy(ctx, dueBy)
	if err != nil {
		return 0, err
	}

	sent := 0
	for _, row := range rows {
		err := c.notify.Send(ctx, notifyrepo.Notice{
			StudentID: row.StudentID,
			Kind:      notifyrepo.KindLoanReminder,
			Message:   fmt.Sprintf("%q is due on %s", row.Title, row.DueDate.Format("2006-01-02")),
		})
		if err != nil {
			c.log.Error("loan reminder failed", "loan_id", row.LoanID, "student_id", row.StudentID, "err", err)
			continue
		}
		sent++
	}
	return sent, nil
}
