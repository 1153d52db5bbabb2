package notify

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/abdulwasay100/leadcrm/internal/memstore"
	"github.com/abdulwasay100/leadcrm/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fixture struct {
	db      *memstore.DB
	scanner *Scanner
	now     time.Time
}

func newFixture(t *testing.T, publishers ...Publisher) *fixture {
	t.Helper()
	db := memstore.New()
	f := &fixture{db: db, now: time.Date(2026, time.October, 14, 9, 0, 0, 0, time.UTC)}
	f.scanner = NewScanner(db.Leads(), db.Reminders(), db.Notifications(), zap.NewNop(), publishers...)
	f.scanner.now = func() time.Time { return f.now }
	return f
}

func (f *fixture) addLeads(t *testing.T, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		require.NoError(t, f.db.Leads().Create(context.Background(), &models.Lead{FullName: "Lead", LeadStatus: models.LeadStatusNew}))
	}
}

func (f *fixture) addReminder(t *testing.T, due time.Time, status models.ReminderStatus) *models.Reminder {
	t.Helper()
	ctx := context.Background()
	lead := &models.Lead{FullName: "Zara Ahmed", LeadStatus: models.LeadStatusNew}
	require.NoError(t, f.db.Leads().Create(ctx, lead))
	r := &models.Reminder{LeadID: lead.LeadID, LeadName: lead.FullName, Type: "Call", DueDate: &due, Status: status}
	require.NoError(t, f.db.Reminders().Create(ctx, r))
	return r
}

func (f *fixture) all(t *testing.T) []*models.Notification {
	t.Helper()
	list, err := f.db.Notifications().List(context.Background(), false, 0)
	require.NoError(t, err)
	return list
}

func counts(ns []*models.Notification) []int {
	var out []int
	for _, n := range ns {
		out = append(out, int(n.Meta["count"].(int)))
	}
	return out
}

func TestScanThresholds_FortyNineToFifty(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addLeads(t, 49)

	first, err := f.scanner.ScanThresholds(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int{5, 10, 20}, counts(first))

	f.addLeads(t, 1)
	second, err := f.scanner.ScanThresholds(ctx)
	require.NoError(t, err)
	require.Len(t, second, 1)
	assert.Equal(t, 50, second[0].Meta["count"])
	assert.Equal(t, models.NotificationLeadCount, second[0].Type)

	third, err := f.scanner.ScanThresholds(ctx)
	require.NoError(t, err)
	assert.Empty(t, third)
}

func TestScanThresholds_OnePerMilestoneEver(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addLeads(t, 50)
	_, err := f.scanner.ScanThresholds(ctx)
	require.NoError(t, err)

	f.addLeads(t, 30)
	_, err = f.scanner.ScanThresholds(ctx)
	require.NoError(t, err)

	fifty := 0
	for _, n := range f.all(t) {
		if n.Type == models.NotificationLeadCount && n.DedupKey == (models.Meta{"count": 50}).Key() {
			fifty++
		}
	}
	assert.Equal(t, 1, fifty)
	assert.Len(t, f.all(t), 4)
}

func tags(ns []*models.Notification) []string {
	var out []string
	for _, n := range ns {
		out = append(out, n.Meta["tag"].(string))
	}
	return out
}

func TestScanDueSoon_ThirtyMinutesHitsBothTags(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	r := f.addReminder(t, f.now.Add(30*time.Minute), models.ReminderPending)

	created, err := f.scanner.ScanDueSoon(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{TagDue1h, TagDue1d}, tags(created))
	for _, n := range created {
		assert.Equal(t, r.ReminderID, n.Meta["reminderId"])
		assert.Contains(t, n.Message, "Zara Ahmed")
	}

	again, err := f.scanner.ScanDueSoon(ctx)
	require.NoError(t, err)
	assert.Empty(t, again)
}

func TestScanDueSoon_DayThenHourAsDeadlineApproaches(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addReminder(t, f.now.Add(20*time.Hour), models.ReminderInProgress)

	first, err := f.scanner.ScanDueSoon(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{TagDue1d}, tags(first))

	f.now = f.now.Add(19*time.Hour + 30*time.Minute)
	second, err := f.scanner.ScanDueSoon(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{TagDue1h}, tags(second))

	third, err := f.scanner.ScanDueSoon(ctx)
	require.NoError(t, err)
	assert.Empty(t, third)
	assert.Len(t, f.all(t), 2)
}

func TestScanDueSoon_IgnoresCompletedOverdueAndFar(t *testing.T) {
	f := newFixture(t)
	f.addReminder(t, f.now.Add(10*time.Minute), models.ReminderCompleted)
	f.addReminder(t, f.now.Add(-10*time.Minute), models.ReminderPending)
	f.addReminder(t, f.now.Add(48*time.Hour), models.ReminderPending)

	created, err := f.scanner.ScanDueSoon(context.Background())
	require.NoError(t, err)
	assert.Empty(t, created)
}

type brokenCounter struct{}

func (brokenCounter) Count(context.Context) (int, error) { return 0, errors.New("count failed") }

func TestScan_FailureIsolation(t *testing.T) {
	f := newFixture(t)
	f.addReminder(t, f.now.Add(30*time.Minute), models.ReminderPending)
	f.scanner.leads = brokenCounter{}

	result, err := f.scanner.Scan(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "count failed")
	assert.Empty(t, result.Threshold)
	assert.Len(t, result.DueSoon, 2)
	assert.Equal(t, 2, result.Created())
}

type recordingPublisher struct {
	got []*models.Notification
	err error
}

func (p *recordingPublisher) Publish(_ context.Context, n *models.Notification) error {
	p.got = append(p.got, n)
	return p.err
}

func TestScan_PublishesOnlyNewAndSwallowsErrors(t *testing.T) {
	pub := &recordingPublisher{err: errors.New("telegram down")}
	f := newFixture(t, pub)
	f.addLeads(t, 5)

	result, err := f.scanner.Scan(context.Background())
	require.NoError(t, err)
	assert.Len(t, result.Threshold, 1)
	assert.Len(t, pub.got, 1)

	_, err = f.scanner.Scan(context.Background())
	require.NoError(t, err)
	assert.Len(t, pub.got, 1)
}
