package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/abdulwasay100/leadcrm/internal/database"
	"github.com/abdulwasay100/leadcrm/internal/models"
	"github.com/jackc/pgx/v5"
)

const groupColumns = `group_id, name, group_type, criteria, lead_ids, lead_count, created_at, updated_at`

type GroupRepository struct {
	db *database.DB
}

func NewGroupRepository(db *database.DB) *GroupRepository {
	return &GroupRepository{db: db}
}

// Insert stores a group with an empty member list. It reports false, without error,
// when a group with the same type and criteria already exists.
func (r *GroupRepository) Insert(ctx context.Context, group *models.Group) (bool, error) {
	err := r.db.Pool.QueryRow(ctx,
		`INSERT INTO lead_groups (name, group_type, criteria)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (group_type, criteria) DO NOTHING
		 RETURNING group_id, created_at, updated_at`,
		group.Name, group.Type, group.Criteria,
	).Scan(&group.GroupID, &group.CreatedAt, &group.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	group.LeadIDs = []int64{}
	group.LeadCount = 0
	return true, nil
}

func (r *GroupRepository) GetByID(ctx context.Context, groupID int64) (*models.Group, error) {
	row := r.db.Pool.QueryRow(ctx,
		`SELECT `+groupColumns+` FROM lead_groups WHERE group_id = $1`,
		groupID,
	)
	group, err := scanGroup(row)
	if err != nil {
		return nil, notFound(err)
	}
	return group, nil
}

func (r *GroupRepository) List(ctx context.Context) ([]*models.Group, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT `+groupColumns+` FROM lead_groups ORDER BY group_type ASC, name ASC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var groups []*models.Group
	for rows.Next() {
		group, err := scanGroup(rows)
		if err != nil {
			return nil, err
		}
		groups = append(groups, group)
	}
	return groups, rows.Err()
}

// Update changes name, type and criteria. Membership is left to ReplaceMembers.
func (r *GroupRepository) Update(ctx context.Context, group *models.Group) error {
	err := r.db.Pool.QueryRow(ctx,
		`UPDATE lead_groups SET name = $1, group_type = $2, criteria = $3, updated_at = CURRENT_TIMESTAMP
		 WHERE group_id = $4
		 RETURNING updated_at`,
		group.Name, group.Type, group.Criteria, group.GroupID,
	).Scan(&group.UpdatedAt)
	if isUniqueViolation(err) {
		return models.ErrDuplicateGroup
	}
	return notFound(err)
}

// InsertGroups stores groups with empty member lists in one transaction and returns
// those actually inserted. Groups whose type and criteria already exist are skipped.
// Nothing is committed when any insert fails.
func (r *GroupRepository) InsertGroups(ctx context.Context, groups []*models.Group) ([]*models.Group, error) {
	type row struct {
		group     *models.Group
		id        int64
		createdAt time.Time
		updatedAt time.Time
	}
	var rows []row
	err := pgx.BeginFunc(ctx, r.db.Pool, func(tx pgx.Tx) error {
		for _, g := range groups {
			res := row{group: g}
			err := tx.QueryRow(ctx,
				`INSERT INTO lead_groups (name, group_type, criteria)
				 VALUES ($1, $2, $3)
				 ON CONFLICT (group_type, criteria) DO NOTHING
				 RETURNING group_id, created_at, updated_at`,
				g.Name, g.Type, g.Criteria,
			).Scan(&res.id, &res.createdAt, &res.updatedAt)
			if errors.Is(err, pgx.ErrNoRows) {
				continue
			}
			if err != nil {
				return fmt.Errorf("insert group %q: %w", g.Name, err)
			}
			rows = append(rows, res)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	created := make([]*models.Group, 0, len(rows))
	for _, res := range rows {
		g := res.group
		g.GroupID, g.CreatedAt, g.UpdatedAt = res.id, res.createdAt, res.updatedAt
		g.LeadIDs = []int64{}
		g.LeadCount = 0
		created = append(created, g)
	}
	return created, nil
}

// ReplaceMembers overwrites the member list and cached count of every group in members
// in one transaction. An unknown group rolls back the whole batch with ErrNotFound.
func (r *GroupRepository) ReplaceMembers(ctx context.Context, members map[int64][]int64) error {
	return pgx.BeginFunc(ctx, r.db.Pool, func(tx pgx.Tx) error {
		for groupID, leadIDs := range members {
			if leadIDs == nil {
				leadIDs = []int64{}
			}
			tag, err := tx.Exec(ctx,
				`UPDATE lead_groups SET lead_ids = $1, lead_count = $2, updated_at = CURRENT_TIMESTAMP
				 WHERE group_id = $3`,
				leadIDs, len(leadIDs), groupID,
			)
			if err != nil {
				return fmt.Errorf("overwrite members of group %d: %w", groupID, err)
			}
			if tag.RowsAffected() == 0 {
				return fmt.Errorf("group %d: %w", groupID, models.ErrNotFound)
			}
		}
		return nil
	})
}

func (r *GroupRepository) Delete(ctx context.Context, groupID int64) error {
	tag, err := r.db.Pool.Exec(ctx, `DELETE FROM lead_groups WHERE group_id = $1`, groupID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

func scanGroup(row pgx.Row) (*models.Group, error) {
	group := &models.Group{}
	var groupType string
	err := row.Scan(&group.GroupID, &group.Name, &groupType, &group.Criteria,
		&group.LeadIDs, &group.LeadCount, &group.CreatedAt, &group.UpdatedAt)
	if err != nil {
		return nil, err
	}
	group.Type = models.GroupType(groupType)
	if group.LeadIDs == nil {
		group.LeadIDs = []int64{}
	}
	return group, nil
}
