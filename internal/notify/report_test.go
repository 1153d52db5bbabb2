package notify

import (
	"context"
	"testing"
	"time"

	"github.com/abdulwasay100/leadcrm/internal/memstore"
	"github.com/abdulwasay100/leadcrm/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestReporter_DailyOncePerDay(t *testing.T) {
	ctx := context.Background()
	db := memstore.New()
	now := time.Date(2026, time.October, 14, 18, 0, 0, 0, time.UTC)

	db.SetClock(func() time.Time { return now.AddDate(0, 0, -2) })
	require.NoError(t, db.Leads().Create(ctx, &models.Lead{FullName: "Old", LeadStatus: models.LeadStatusConverted}))
	db.SetClock(func() time.Time { return now.Add(-time.Hour) })
	fresh := &models.Lead{FullName: "Fresh", LeadStatus: models.LeadStatusNew}
	require.NoError(t, db.Leads().Create(ctx, fresh))

	due := now.Add(3 * time.Hour)
	require.NoError(t, db.Reminders().Create(ctx, &models.Reminder{LeadID: fresh.LeadID, Type: "Call", DueDate: &due, Status: models.ReminderPending}))

	pub := &recordingPublisher{}
	r := NewReporter(db.Leads(), db.Reminders(), db.Notifications(), zap.NewNop(), pub)
	r.now = func() time.Time { return now }

	sum, err := r.Summarize(ctx)
	require.NoError(t, err)
	assert.Equal(t, &Summary{Date: "2026-10-14", TotalLeads: 2, NewLeads: 1, Converted: 1, RemindersDue: 1}, sum)

	n, err := r.Daily(ctx)
	require.NoError(t, err)
	require.NotNil(t, n)
	assert.Equal(t, models.NotificationReports, n.Type)
	assert.Equal(t, "Daily report 2026-10-14", n.Title)

	again, err := r.Daily(ctx)
	require.NoError(t, err)
	assert.Nil(t, again)
	assert.Len(t, pub.got, 1)

	r.now = func() time.Time { return now.Add(24 * time.Hour) }
	next, err := r.Daily(ctx)
	require.NoError(t, err)
	require.NotNil(t, next)
	assert.Equal(t, "2026-10-15", next.Meta["date"])
}
