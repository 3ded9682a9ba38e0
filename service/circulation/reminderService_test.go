package circulation

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	circrepo "github.com/Vaibhavp809/libsync-sub001/repository/circulation"
	notifyrepo "github.com/Vaibhavp809/libsync-sub001/repository/notify"

	"github.com/stretchr/testify/require"
)

type reminderRepoMock struct {
	repoMock
	dueByFn func(ctx context.Context, dueBy time.Time) ([]circrepo.ReminderRow, error)
}

func (m *reminderRepoMock) ListDueBy(ctx context.Context, dueBy time.Time) ([]circrepo.ReminderRow, error) {
	return m.dueByFn(ctx, dueBy)
}

func TestRemindDueSoon(t *testing.T) {
	day0 := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	rows := []circrepo.ReminderRow{
		{LoanID: 1, StudentID: 7, Title: "SICP", DueDate: day0.AddDate(0, 0, 1)},
		{LoanID: 2, StudentID: 9, Title: "TAPL", DueDate: day0.AddDate(0, 0, 2)},
	}
	m := &reminderRepoMock{
		dueByFn: func(ctx context.Context, dueBy time.Time) ([]circrepo.ReminderRow, error) {
			require.True(t, dueBy.Equal(day0.AddDate(0, 0, 3)))
			return rows, nil
		},
	}
	n := &notifyMock{}
	c := NewReminder(m, n, slog.Default()).(*reminder)
	c.now = func() time.Time { return day0 }

	sent, err := c.RemindDueSoon(context.Background(), 3)
	require.NoError(t, err)
	require.Equal(t, 2, sent)
	require.Len(t, n.sent, 2)
	require.Equal(t, notifyrepo.KindLoanReminder, n.sent[0].Kind)
}

func TestRemindDueSoon_PartialDeliveryFailure(t *testing.T) {
	rows := []circrepo.ReminderRow{
		{LoanID: 1, StudentID: 7, Title: "SICP"},
		{LoanID: 2, StudentID: 9, Title: "TAPL"},
	}
	m := &reminderRepoMock{
		dueByFn: func(ctx context.Context, dueBy time.Time) ([]circrepo.ReminderRow, error) {
			return rows, nil
		},
	}
	n := &notifyMock{sendFn: func(ctx context.Context, notice notifyrepo.Notice) error {
		if notice.StudentID == 7 {
			return errors.New("unreachable")
		}
		return nil
	}}
	c := NewReminder(m, n, slog.Default()).(*reminder)

	sent, err := c.RemindDueSoon(context.Background(), 0)
	require.NoError(t, err)
	require.Equal(t, 1, sent)
}
