// Package grouping derives segment groups from lead attributes and keeps each group's
// materialized member list equal to the set of leads matching its type and criteria.
package grouping

import (
	"context"
	"time"

	"github.com/abdulwasay100/leadcrm/internal/models"
)

type LeadLister interface {
	List(ctx context.Context) ([]*models.Lead, error)
}

// GroupStore applies each batch atomically: a failed call leaves every group as it was.
type GroupStore interface {
	List(ctx context.Context) ([]*models.Group, error)
	InsertGroups(ctx context.Context, groups []*models.Group) ([]*models.Group, error)
	ReplaceMembers(ctx context.Context, members map[int64][]int64) error
}

// predicate reports whether a lead belongs to a group.
type predicate func(lead *models.Lead) bool

// compile parses the group's criteria once and returns its membership test.
func compile(g *models.Group, now time.Time) (predicate, error) {
	if g.Type == models.GroupTypeAge {
		crit, err := models.ParseAgeCriteria(g.Criteria)
		if err != nil {
			return nil, err
		}
		return func(lead *models.Lead) bool {
			age, ok := lead.EffectiveAge(now)
			return ok && crit.Matches(age)
		}, nil
	}

	t, want := g.Type, g.Criteria
	return func(lead *models.Lead) bool {
		v := lead.Attribute(t)
		return v != "" && v == want
	}, nil
}
