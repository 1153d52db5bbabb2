package grouping

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/abdulwasay100/leadcrm/internal/models"
	"go.uber.org/zap"
)

// Assignment summarizes one Assign run.
type Assignment struct {
	Groups  int     `json:"groups"`
	Changed int     `json:"changed"`
	Invalid []int64 `json:"invalid,omitempty"` // groups whose criteria could not be parsed
}

type Assigner struct {
	leads  LeadLister
	groups GroupStore
	log    *zap.Logger
	now    func() time.Time
}

func NewAssigner(leads LeadLister, groups GroupStore, logger *zap.Logger) *Assigner {
	return &Assigner{leads: leads, groups: groups, log: logger, now: time.Now}
}

// Assign recomputes every group's members from scratch and overwrites them, including
// to an empty list, in a single batch so a failed write commits nothing.
func (a *Assigner) Assign(ctx context.Context) (*Assignment, error) {
	leads, err := a.leads.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list leads: %w", err)
	}
	groups, err := a.groups.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}

	now := a.now()
	result := &Assignment{Groups: len(groups)}
	members := make(map[int64][]int64, len(groups))
	for _, g := range groups {
		ids, err := Members(g, leads, now)
		if err != nil {
			a.log.Warn("group criteria does not parse, clearing members",
				zap.Int64("group_id", g.GroupID), zap.String("criteria", g.Criteria), zap.Error(err))
			result.Invalid = append(result.Invalid, g.GroupID)
			ids = []int64{}
		}
		members[g.GroupID] = ids
		if !sameMembers(g.LeadIDs, ids) {
			result.Changed++
		}
	}

	if len(members) == 0 {
		return result, nil
	}
	if err := a.groups.ReplaceMembers(ctx, members); err != nil {
		return nil, fmt.Errorf("failed to overwrite group members: %w", err)
	}
	return result, nil
}

// Members returns the sorted IDs of the leads that match g.
func Members(g *models.Group, leads []*models.Lead, now time.Time) ([]int64, error) {
	match, err := compile(g, now)
	if err != nil {
		return nil, err
	}
	ids := []int64{}
	for _, lead := range leads {
		if match(lead) {
			ids = append(ids, lead.LeadID)
		}
	}
	slices.Sort(ids)
	return ids, nil
}

// sameMembers reports whether a and b hold the same IDs in any order.
func sameMembers(a, b []int64) bool {
	if len(a) != len(b) {
		return false
	}
	x := slices.Clone(a)
	y := slices.Clone(b)
	slices.Sort(x)
	slices.Sort(y)
	return slices.Equal(x, y)
}
