package memstore

import (
	"context"
	"fmt"
	"sort"

	"github.com/abdulwasay100/leadcrm/internal/models"
)

type GroupRepository struct {
	db *DB
}

func cloneGroup(g *models.Group) *models.Group {
	cp := *g
	cp.LeadIDs = append([]int64{}, g.LeadIDs...)
	return &cp
}

// hasKey must be called with mu held.
func (r *GroupRepository) hasKey(key models.GroupKey, exceptID int64) bool {
	for id, g := range r.db.groups {
		if id != exceptID && g.Key() == key {
			return true
		}
	}
	return false
}

func (r *GroupRepository) Insert(_ context.Context, group *models.Group) (bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if r.hasKey(group.Key(), 0) {
		return false, nil
	}
	r.insertLocked(group)
	return true, nil
}

// insertLocked must be called with mu held.
func (r *GroupRepository) insertLocked(group *models.Group) {
	now := r.db.now()
	group.GroupID = r.db.nextID()
	group.LeadIDs = []int64{}
	group.LeadCount = 0
	group.CreatedAt = now
	group.UpdatedAt = now
	r.db.groups[group.GroupID] = cloneGroup(group)
}

func (r *GroupRepository) GetByID(_ context.Context, groupID int64) (*models.Group, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	g, ok := r.db.groups[groupID]
	if !ok {
		return nil, models.ErrNotFound
	}
	return cloneGroup(g), nil
}

func (r *GroupRepository) List(_ context.Context) ([]*models.Group, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	groups := make([]*models.Group, 0, len(r.db.groups))
	for _, g := range r.db.groups {
		groups = append(groups, cloneGroup(g))
	}
	sort.Slice(groups, func(i, j int) bool {
		if groups[i].Type != groups[j].Type {
			return groups[i].Type < groups[j].Type
		}
		return groups[i].Name < groups[j].Name
	})
	return groups, nil
}

func (r *GroupRepository) Update(_ context.Context, group *models.Group) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	existing, ok := r.db.groups[group.GroupID]
	if !ok {
		return models.ErrNotFound
	}
	if r.hasKey(group.Key(), group.GroupID) {
		return models.ErrDuplicateGroup
	}
	existing.Name = group.Name
	existing.Type = group.Type
	existing.Criteria = group.Criteria
	existing.UpdatedAt = r.db.now()
	group.UpdatedAt = existing.UpdatedAt
	return nil
}

// InsertGroups inserts every group whose key is free, under one lock.
func (r *GroupRepository) InsertGroups(_ context.Context, groups []*models.Group) ([]*models.Group, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	var created []*models.Group
	for _, g := range groups {
		if r.hasKey(g.Key(), 0) {
			continue
		}
		r.insertLocked(g)
		created = append(created, g)
	}
	return created, nil
}

// ReplaceMembers applies all member lists or none: unknown groups are checked first.
func (r *GroupRepository) ReplaceMembers(_ context.Context, members map[int64][]int64) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for groupID := range members {
		if _, ok := r.db.groups[groupID]; !ok {
			return fmt.Errorf("group %d: %w", groupID, models.ErrNotFound)
		}
	}
	now := r.db.now()
	for groupID, leadIDs := range members {
		g := r.db.groups[groupID]
		g.LeadIDs = append([]int64{}, leadIDs...)
		g.LeadCount = len(g.LeadIDs)
		g.UpdatedAt = now
	}
	return nil
}

func (r *GroupRepository) Delete(_ context.Context, groupID int64) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if _, ok := r.db.groups[groupID]; !ok {
		return models.ErrNotFound
	}
	delete(r.db.groups, groupID)
	return nil
}
