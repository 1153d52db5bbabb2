package grouping

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

var testNow = time.Date(2026, time.October, 14, 9, 0, 0, 0, time.UTC)

func intPtr(n int) *int { return &n }

func newEngine(db *memstore.DB) *Engine {
	e := NewEngine(db.Leads(), db.Groups(), zap.NewNop())
	e.Deriver.now = func() time.Time { return testNow }
	e.Assigner.now = func() time.Time { return testNow }
	return e
}

func addLead(t *testing.T, db *memstore.DB, lead models.Lead) *models.Lead {
	t.Helper()
	require.NoError(t, db.Leads().Create(context.Background(), &lead))
	return &lead
}

func groupByKey(t *testing.T, db *memstore.DB, gt models.GroupType, criteria string) *models.Group {
	t.Helper()
	groups, err := db.Groups().List(context.Background())
	require.NoError(t, err)
	for _, g := range groups {
		if g.Type == gt && g.Criteria == criteria {
			return g
		}
	}
	t.Fatalf("no group %s/%s", gt, criteria)
	return nil
}

func TestSync_SingleLeadAgeScenario(t *testing.T) {
	db := memstore.New()
	lead := addLead(t, db, models.Lead{FullName: "Hamza", Age: intPtr(10)})

	created, assignment, err := newEngine(db).Sync(context.Background())
	require.NoError(t, err)
	require.Len(t, created, 1)
	assert.Equal(t, models.GroupTypeAge, created[0].Type)
	assert.Equal(t, "9-12", created[0].Criteria)
	assert.Equal(t, "Age 9-12", created[0].Name)
	assert.Equal(t, 1, assignment.Groups)

	g := groupByKey(t, db, models.GroupTypeAge, "9-12")
	assert.Equal(t, []int64{lead.LeadID}, g.LeadIDs)
	assert.Equal(t, 1, g.LeadCount)
}

func TestDerive_AllDimensionsAndNames(t *testing.T) {
	db := memstore.New()
	addLead(t, db, models.Lead{FullName: "A", Age: intPtr(7), InterestedCourse: "Robotics", City: "Lahore", LeadStatus: models.LeadStatusNew})
	addLead(t, db, models.Lead{FullName: "B", Age: intPtr(14), InterestedCourse: "Robotics", City: "Karachi", LeadStatus: models.LeadStatusNew})
	addLead(t, db, models.Lead{FullName: "C", Age: intPtr(30)})

	created, err := newEngine(db).Deriver.Derive(context.Background())
	require.NoError(t, err)

	var names []string
	for _, g := range created {
		names = append(names, g.Name)
	}
	assert.ElementsMatch(t, []string{
		"Age 6-8", "Age 13-16",
		"Robotics Course",
		"Lahore Leads", "Karachi Leads",
		"New Status",
	}, names)
}

func TestDerive_Idempotent(t *testing.T) {
	db := memstore.New()
	addLead(t, db, models.Lead{FullName: "A", Age: intPtr(9), City: "Multan", LeadStatus: models.LeadStatusContacted})
	e := newEngine(db)

	first, err := e.Deriver.Derive(context.Background())
	require.NoError(t, err)
	assert.Len(t, first, 3)

	second, err := e.Deriver.Derive(context.Background())
	require.NoError(t, err)
	assert.Empty(t, second)
}

func TestDerive_SkipsExistingAndMissingValues(t *testing.T) {
	db := memstore.New()
	ctx := context.Background()
	_, err := db.Groups().Insert(ctx, &models.Group{Name: "Lahore city", Type: models.GroupTypeCity, Criteria: "Lahore"})
	require.NoError(t, err)
	addLead(t, db, models.Lead{FullName: "A", City: "Lahore"})
	addLead(t, db, models.Lead{FullName: "B", Age: intPtr(5)})
	addLead(t, db, models.Lead{FullName: "C", Age: intPtr(17)})

	created, err := newEngine(db).Deriver.Derive(ctx)
	require.NoError(t, err)
	assert.Empty(t, created)
}

func TestDerive_UniqueKeys(t *testing.T) {
	db := memstore.New()
	for i := 0; i < 5; i++ {
		addLead(t, db, models.Lead{FullName: "L", Age: intPtr(10 + i%2), InterestedCourse: "Coding", City: "Lahore", LeadStatus: models.LeadStatusNew})
	}
	e := newEngine(db)
	for i := 0; i < 3; i++ {
		_, _, err := e.Sync(context.Background())
		require.NoError(t, err)
	}

	groups, err := db.Groups().List(context.Background())
	require.NoError(t, err)
	seen := map[models.GroupKey]bool{}
	for _, g := range groups {
		assert.False(t, seen[g.Key()], "duplicate key %v", g.Key())
		seen[g.Key()] = true
	}
	assert.Len(t, groups, 4)
}

func TestPlan_DerivesAgeFromDateOfBirth(t *testing.T) {
	dob := time.Date(2019, time.January, 1, 0, 0, 0, 0, time.UTC)
	staged := Plan([]*models.Lead{{LeadID: 1, DateOfBirth: &dob}}, nil, testNow)
	require.Len(t, staged, 1)
	assert.Equal(t, "6-8", staged[0].Criteria)
}

func TestAssign_MatchesPredicate(t *testing.T) {
	db := memstore.New()
	ctx := context.Background()
	old := addLead(t, db, models.Lead{FullName: "Old", Age: intPtr(45), City: "Lahore"})
	young := addLead(t, db, models.Lead{FullName: "Young", Age: intPtr(40), City: "lahore"})
	exact := addLead(t, db, models.Lead{FullName: "Exact", Age: intPtr(12)})

	for _, g := range []*models.Group{
		{Name: "Seniors", Type: models.GroupTypeAge, Criteria: "41+"},
		{Name: "Twelve", Type: models.GroupTypeAge, Criteria: "12"},
		{Name: "Lahore Leads", Type: models.GroupTypeCity, Criteria: "Lahore"},
	} {
		_, err := db.Groups().Insert(ctx, g)
		require.NoError(t, err)
	}

	_, err := newEngine(db).Assigner.Assign(ctx)
	require.NoError(t, err)

	assert.Equal(t, []int64{old.LeadID}, groupByKey(t, db, models.GroupTypeAge, "41+").LeadIDs)
	assert.Equal(t, []int64{exact.LeadID}, groupByKey(t, db, models.GroupTypeAge, "12").LeadIDs)
	// City comparison is case-sensitive.
	city := groupByKey(t, db, models.GroupTypeCity, "Lahore")
	assert.Equal(t, []int64{old.LeadID}, city.LeadIDs)
	assert.NotContains(t, city.LeadIDs, young.LeadID)
}

func TestAssign_IdempotentAndOverwritesToEmpty(t *testing.T) {
	db := memstore.New()
	ctx := context.Background()
	lead := addLead(t, db, models.Lead{FullName: "A", InterestedCourse: "Art", LeadStatus: models.LeadStatusNew})
	e := newEngine(db)

	_, _, err := e.Sync(ctx)
	require.NoError(t, err)
	before := groupByKey(t, db, models.GroupTypeCourse, "Art").LeadIDs

	second, err := e.Assigner.Assign(ctx)
	require.NoError(t, err)
	assert.Zero(t, second.Changed)
	assert.Equal(t, before, groupByKey(t, db, models.GroupTypeCourse, "Art").LeadIDs)

	lead.InterestedCourse = "Music"
	require.NoError(t, db.Leads().Update(ctx, lead))
	third, err := e.Assigner.Assign(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, third.Changed)

	art := groupByKey(t, db, models.GroupTypeCourse, "Art")
	assert.Empty(t, art.LeadIDs)
	assert.Zero(t, art.LeadCount)
}

func TestAssign_InvalidCriteriaClearsGroup(t *testing.T) {
	db := memstore.New()
	ctx := context.Background()
	addLead(t, db, models.Lead{FullName: "A", Age: intPtr(10)})
	bad := &models.Group{Name: "Broken", Type: models.GroupTypeAge, Criteria: "ten"}
	_, err := db.Groups().Insert(ctx, bad)
	require.NoError(t, err)

	result, err := newEngine(db).Assigner.Assign(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int64{bad.GroupID}, result.Invalid)
	assert.Empty(t, groupByKey(t, db, models.GroupTypeAge, "ten").LeadIDs)
}

type failingGroups struct {
	GroupStore
	listErr, writeErr error
}

func (f *failingGroups) List(ctx context.Context) ([]*models.Group, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.GroupStore.List(ctx)
}

func (f *failingGroups) ReplaceMembers(ctx context.Context, members map[int64][]int64) error {
	if f.writeErr != nil {
		return f.writeErr
	}
	return f.GroupStore.ReplaceMembers(ctx, members)
}

func (f *failingGroups) InsertGroups(ctx context.Context, groups []*models.Group) ([]*models.Group, error) {
	if f.writeErr != nil {
		return nil, f.writeErr
	}
	return f.GroupStore.InsertGroups(ctx, groups)
}

// vanishingGroups deletes one group between the read and the write, so the batch
// write fails on its second entry.
type vanishingGroups struct {
	*memstore.GroupRepository
	drop int64
}

func (v *vanishingGroups) ReplaceMembers(ctx context.Context, members map[int64][]int64) error {
	if err := v.GroupRepository.Delete(ctx, v.drop); err != nil {
		return err
	}
	return v.GroupRepository.ReplaceMembers(ctx, members)
}

func TestAssign_StoreFailures(t *testing.T) {
	db := memstore.New()
	ctx := context.Background()
	addLead(t, db, models.Lead{FullName: "A", City: "Quetta"})
	_, err := db.Groups().Insert(ctx, &models.Group{Name: "Quetta Leads", Type: models.GroupTypeCity, Criteria: "Quetta"})
	require.NoError(t, err)

	boom := errors.New("db down")
	a := NewAssigner(db.Leads(), &failingGroups{GroupStore: db.Groups(), listErr: boom}, zap.NewNop())
	_, err = a.Assign(ctx)
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, groupByKey(t, db, models.GroupTypeCity, "Quetta").LeadIDs)

	a = NewAssigner(db.Leads(), &failingGroups{GroupStore: db.Groups(), writeErr: boom}, zap.NewNop())
	_, err = a.Assign(ctx)
	assert.ErrorIs(t, err, boom)

	// A later clean run recovers.
	_, err = NewAssigner(db.Leads(), db.Groups(), zap.NewNop()).Assign(ctx)
	require.NoError(t, err)
	assert.Len(t, groupByKey(t, db, models.GroupTypeCity, "Quetta").LeadIDs, 1)
}

func TestAssign_FailedWriteCommitsNothing(t *testing.T) {
	db := memstore.New()
	ctx := context.Background()
	addLead(t, db, models.Lead{FullName: "A", City: "Lahore", InterestedCourse: "Art"})
	lahore := &models.Group{Name: "Lahore Leads", Type: models.GroupTypeCity, Criteria: "Lahore"}
	art := &models.Group{Name: "Art Course", Type: models.GroupTypeCourse, Criteria: "Art"}
	for _, g := range []*models.Group{lahore, art} {
		_, err := db.Groups().Insert(ctx, g)
		require.NoError(t, err)
	}

	a := NewAssigner(db.Leads(), &vanishingGroups{GroupRepository: db.Groups(), drop: art.GroupID}, zap.NewNop())
	_, err := a.Assign(ctx)
	require.ErrorIs(t, err, models.ErrNotFound)

	assert.Empty(t, groupByKey(t, db, models.GroupTypeCity, "Lahore").LeadIDs)
}

func TestDerive_FailedInsertCommitsNothing(t *testing.T) {
	db := memstore.New()
	ctx := context.Background()
	addLead(t, db, models.Lead{FullName: "A", Age: intPtr(7), City: "Multan"})

	boom := errors.New("db down")
	d := NewDeriver(db.Leads(), &failingGroups{GroupStore: db.Groups(), writeErr: boom}, zap.NewNop())
	created, err := d.Derive(ctx)
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, created)

	groups, err := db.Groups().List(ctx)
	require.NoError(t, err)
	assert.Empty(t, groups)
}
