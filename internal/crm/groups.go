package crm

import (
	"context"
	"fmt"
	"strings"

	"github.com/abdulwasay100/leadcrm/internal/models"
	"go.uber.org/zap"
)

type GroupInput struct {
	Name     string `json:"name" validate:"required,max=200"`
	Type     string `json:"group_type" validate:"required,group_type"`
	Criteria string `json:"criteria" validate:"required,max=200"`
}

func (in *GroupInput) normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.Type = strings.TrimSpace(in.Type)
	in.Criteria = strings.TrimSpace(in.Criteria)
}

func (s *Service) checkGroup(in *GroupInput) error {
	in.normalize()
	if err := s.valid.check(in); err != nil {
		return err
	}
	if models.GroupType(in.Type) == models.GroupTypeAge {
		if _, err := models.ParseAgeCriteria(in.Criteria); err != nil {
			return fieldError("criteria", "criteria must be \"min-max\", \"N+\" or a number for Age groups")
		}
	}
	return nil
}

func (s *Service) ListGroups(ctx context.Context) ([]*models.Group, error) {
	groups, err := s.stores.Groups.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}
	return groups, nil
}

// CreateGroup stores a manually defined group and fills its membership.
func (s *Service) CreateGroup(ctx context.Context, in GroupInput) (*models.Group, error) {
	if err := s.checkGroup(&in); err != nil {
		return nil, err
	}

	group := &models.Group{Name: in.Name, Type: models.GroupType(in.Type), Criteria: in.Criteria}
	inserted, err := s.stores.Groups.Insert(ctx, group)
	if err != nil {
		return nil, fmt.Errorf("failed to create group: %w", err)
	}
	if !inserted {
		return nil, models.ErrDuplicateGroup
	}
	s.log.Info("group created", zap.Int64("group_id", group.GroupID), zap.String("name", group.Name))

	return s.refreshGroup(ctx, group, "group created"), nil
}

func (s *Service) UpdateGroup(ctx context.Context, groupID int64, in GroupInput) (*models.Group, error) {
	if err := s.checkGroup(&in); err != nil {
		return nil, err
	}

	group, err := s.stores.Groups.GetByID(ctx, groupID)
	if err != nil {
		return nil, err
	}
	group.Name = in.Name
	group.Type = models.GroupType(in.Type)
	group.Criteria = in.Criteria
	if err := s.stores.Groups.Update(ctx, group); err != nil {
		return nil, fmt.Errorf("failed to update group %d: %w", groupID, err)
	}

	return s.refreshGroup(ctx, group, "group updated"), nil
}

// DeleteGroup removes a group. A derived group comes back on the next lead write while
// leads still imply it.
func (s *Service) DeleteGroup(ctx context.Context, groupID int64) error {
	if err := s.stores.Groups.Delete(ctx, groupID); err != nil {
		return fmt.Errorf("failed to delete group %d: %w", groupID, err)
	}
	s.log.Info("group deleted", zap.Int64("group_id", groupID))
	return nil
}

// refreshGroup reassigns membership and rereads the group. If either step fails the
// caller still gets the group as written.
func (s *Service) refreshGroup(ctx context.Context, group *models.Group, reason string) *models.Group {
	s.reassign(ctx, reason)
	fresh, err := s.stores.Groups.GetByID(ctx, group.GroupID)
	if err != nil {
		s.log.Warn("failed to reload group", zap.Int64("group_id", group.GroupID), zap.Error(err))
		return group
	}
	return fresh
}

// GroupMembers returns the group with its member leads in member order. Leads removed
// since the last assignment are skipped.
func (s *Service) GroupMembers(ctx context.Context, groupID int64) (*models.Group, []*models.Lead, error) {
	group, err := s.stores.Groups.GetByID(ctx, groupID)
	if err != nil {
		return nil, nil, err
	}
	leads, err := s.stores.Leads.List(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list leads: %w", err)
	}

	byID := make(map[int64]*models.Lead, len(leads))
	for _, l := range leads {
		byID[l.LeadID] = l
	}
	members := make([]*models.Lead, 0, len(group.LeadIDs))
	for _, id := range group.LeadIDs {
		if l, ok := byID[id]; ok {
			members = append(members, l)
		}
	}
	return group, members, nil
}
