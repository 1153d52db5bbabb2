package grouping

import (
	"context"
	"fmt"
	"time"

	"github.com/abdulwasay100/leadcrm/internal/models"
	"go.uber.org/zap"
)

// AgeBuckets are the only age ranges groups are derived for.
var AgeBuckets = []models.AgeRange{
	{Min: 6, Max: 8},
	{Min: 9, Max: 12},
	{Min: 13, Max: 16},
}

type Deriver struct {
	leads  LeadLister
	groups GroupStore
	log    *zap.Logger
	now    func() time.Time
}

func NewDeriver(leads LeadLister, groups GroupStore, logger *zap.Logger) *Deriver {
	return &Deriver{leads: leads, groups: groups, log: logger, now: time.Now}
}

// Derive inserts every group implied by lead data that does not exist yet and returns
// the groups it actually created. Running it again on unchanged data creates nothing.
func (d *Deriver) Derive(ctx context.Context) ([]*models.Group, error) {
	leads, err := d.leads.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list leads: %w", err)
	}
	existing, err := d.groups.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}

	staged := Plan(leads, existing, d.now())
	if len(staged) == 0 {
		return nil, nil
	}
	created, err := d.groups.InsertGroups(ctx, staged)
	if err != nil {
		return nil, fmt.Errorf("failed to insert derived groups: %w", err)
	}
	if skipped := len(staged) - len(created); skipped > 0 {
		// Another writer created the same keys in between.
		d.log.Debug("derived groups already exist", zap.Int("skipped", skipped))
	}

	if len(created) > 0 {
		d.log.Info("derived groups", zap.Int("created", len(created)))
	}
	return created, nil
}

// Plan returns the groups that should exist for leads but are missing from existing,
// in a stable order: age buckets first, then course, city and status per lead.
func Plan(leads []*models.Lead, existing []*models.Group, now time.Time) []*models.Group {
	seen := make(map[models.GroupKey]bool, len(existing))
	for _, g := range existing {
		seen[g.Key()] = true
	}

	var staged []*models.Group
	stage := func(t models.GroupType, criteria, name string) {
		key := models.GroupKey{Type: t, Criteria: criteria}
		if seen[key] {
			return
		}
		seen[key] = true
		staged = append(staged, &models.Group{Name: name, Type: t, Criteria: criteria, LeadIDs: []int64{}})
	}

	for _, bucket := range AgeBuckets {
		for _, lead := range leads {
			if age, ok := lead.EffectiveAge(now); ok && bucket.Matches(age) {
				stage(models.GroupTypeAge, bucket.String(), "Age "+bucket.String())
				break
			}
		}
	}

	for _, lead := range leads {
		if v := lead.InterestedCourse; v != "" {
			stage(models.GroupTypeCourse, v, v+" Course")
		}
		if v := lead.City; v != "" {
			stage(models.GroupTypeCity, v, v+" Leads")
		}
		if v := string(lead.LeadStatus); v != "" {
			stage(models.GroupTypeAdmissionStatus, v, v+" Status")
		}
	}
	return staged
}
