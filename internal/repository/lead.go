package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/abdulwasay100/leadcrm/internal/database"
	"github.com/abdulwasay100/leadcrm/internal/models"
	"github.com/jackc/pgx/v5"
)

const leadColumns = `lead_id, full_name, email, phone, age, date_of_birth, city, country,
	interested_course, inquiry_source, lead_status, notes, reminder_type, reminder_due,
	reminder_notes, created_at, updated_at`

type LeadRepository struct {
	db *database.DB
}

func NewLeadRepository(db *database.DB) *LeadRepository {
	return &LeadRepository{db: db}
}

func (r *LeadRepository) Create(ctx context.Context, lead *models.Lead) error {
	return r.db.Pool.QueryRow(ctx,
		`INSERT INTO leads (full_name, email, phone, age, date_of_birth, city, country,
		 interested_course, inquiry_source, lead_status, notes)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		 RETURNING lead_id, created_at, updated_at`,
		lead.FullName, lead.Email, lead.Phone, lead.Age, lead.DateOfBirth, lead.City, lead.Country,
		lead.InterestedCourse, lead.InquirySource, lead.LeadStatus, lead.Notes,
	).Scan(&lead.LeadID, &lead.CreatedAt, &lead.UpdatedAt)
}

func (r *LeadRepository) GetByID(ctx context.Context, leadID int64) (*models.Lead, error) {
	row := r.db.Pool.QueryRow(ctx,
		`SELECT `+leadColumns+` FROM leads WHERE lead_id = $1`,
		leadID,
	)
	lead, err := scanLead(row)
	if err != nil {
		return nil, notFound(err)
	}
	return lead, nil
}

func (r *LeadRepository) List(ctx context.Context) ([]*models.Lead, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT `+leadColumns+` FROM leads ORDER BY created_at DESC, lead_id DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var leads []*models.Lead
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, err
		}
		leads = append(leads, lead)
	}
	return leads, rows.Err()
}

func (r *LeadRepository) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM leads`).Scan(&n)
	return n, err
}

func (r *LeadRepository) Update(ctx context.Context, lead *models.Lead) error {
	err := r.db.Pool.QueryRow(ctx,
		`UPDATE leads SET full_name = $1, email = $2, phone = $3, age = $4, date_of_birth = $5,
		 city = $6, country = $7, interested_course = $8, inquiry_source = $9, lead_status = $10,
		 notes = $11, updated_at = CURRENT_TIMESTAMP
		 WHERE lead_id = $12
		 RETURNING updated_at`,
		lead.FullName, lead.Email, lead.Phone, lead.Age, lead.DateOfBirth, lead.City, lead.Country,
		lead.InterestedCourse, lead.InquirySource, lead.LeadStatus, lead.Notes, lead.LeadID,
	).Scan(&lead.UpdatedAt)
	return notFound(err)
}

// SetReminderMirror copies the most recent reminder's fields onto the lead row.
func (r *LeadRepository) SetReminderMirror(ctx context.Context, leadID int64, reminderType string, due *time.Time, notes string) error {
	tag, err := r.db.Pool.Exec(ctx,
		`UPDATE leads SET reminder_type = $1, reminder_due = $2, reminder_notes = $3
		 WHERE lead_id = $4`,
		reminderType, due, notes, leadID,
	)
	if err != nil {
		return fmt.Errorf("failed to mirror reminder on lead %d: %w", leadID, err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

// Delete removes the lead; its reminders go with it via ON DELETE CASCADE.
func (r *LeadRepository) Delete(ctx context.Context, leadID int64) error {
	tag, err := r.db.Pool.Exec(ctx, `DELETE FROM leads WHERE lead_id = $1`, leadID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

func scanLead(row pgx.Row) (*models.Lead, error) {
	lead := &models.Lead{}
	var status string
	err := row.Scan(&lead.LeadID, &lead.FullName, &lead.Email, &lead.Phone, &lead.Age, &lead.DateOfBirth,
		&lead.City, &lead.Country, &lead.InterestedCourse, &lead.InquirySource, &status, &lead.Notes,
		&lead.ReminderType, &lead.ReminderDue, &lead.ReminderNotes, &lead.CreatedAt, &lead.UpdatedAt)
	if err != nil {
		return nil, err
	}
	lead.LeadStatus = models.LeadStatus(status)
	return lead, nil
}
