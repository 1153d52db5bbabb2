package repository

import (
	"context"
	"time"

	"github.com/abdulwasay100/leadcrm/internal/database"
	"github.com/abdulwasay100/leadcrm/internal/models"
	"github.com/jackc/pgx/v5"
)

const reminderColumns = `reminder_id, lead_id, lead_name, type, due_date, status, notes, recurrence_rule, created_at`

type ReminderRepository struct {
	db *database.DB
}

func NewReminderRepository(db *database.DB) *ReminderRepository {
	return &ReminderRepository{db: db}
}

func (r *ReminderRepository) Create(ctx context.Context, reminder *models.Reminder) error {
	return r.db.Pool.QueryRow(ctx,
		`INSERT INTO reminders (lead_id, lead_name, type, due_date, status, notes, recurrence_rule)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING reminder_id, created_at`,
		reminder.LeadID, reminder.LeadName, reminder.Type, reminder.DueDate, reminder.Status,
		reminder.Notes, reminder.RecurrenceRule,
	).Scan(&reminder.ReminderID, &reminder.CreatedAt)
}

func (r *ReminderRepository) GetByID(ctx context.Context, reminderID int64) (*models.Reminder, error) {
	row := r.db.Pool.QueryRow(ctx,
		`SELECT `+reminderColumns+` FROM reminders WHERE reminder_id = $1`,
		reminderID,
	)
	reminder, err := scanReminder(row)
	if err != nil {
		return nil, notFound(err)
	}
	return reminder, nil
}

func (r *ReminderRepository) List(ctx context.Context) ([]*models.Reminder, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT `+reminderColumns+` FROM reminders ORDER BY due_date ASC NULLS LAST`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanReminders(rows)
}

func (r *ReminderRepository) ListByLead(ctx context.Context, leadID int64) ([]*models.Reminder, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT `+reminderColumns+` FROM reminders WHERE lead_id = $1 ORDER BY created_at ASC, reminder_id ASC`,
		leadID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanReminders(rows)
}

func (r *ReminderRepository) Update(ctx context.Context, reminder *models.Reminder) error {
	tag, err := r.db.Pool.Exec(ctx,
		`UPDATE reminders SET type = $1, due_date = $2, status = $3, notes = $4, recurrence_rule = $5
		 WHERE reminder_id = $6`,
		reminder.Type, reminder.DueDate, reminder.Status, reminder.Notes, reminder.RecurrenceRule,
		reminder.ReminderID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

// ListActiveDueBefore returns non-completed reminders with a due date at or before until.
func (r *ReminderRepository) ListActiveDueBefore(ctx context.Context, until time.Time) ([]*models.Reminder, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT `+reminderColumns+` FROM reminders
		 WHERE status <> $1 AND due_date IS NOT NULL AND due_date <= $2
		 ORDER BY due_date ASC`,
		models.ReminderCompleted, until,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanReminders(rows)
}

func scanReminders(rows pgx.Rows) ([]*models.Reminder, error) {
	var reminders []*models.Reminder
	for rows.Next() {
		reminder, err := scanReminder(rows)
		if err != nil {
			return nil, err
		}
		reminders = append(reminders, reminder)
	}
	return reminders, rows.Err()
}

func scanReminder(row pgx.Row) (*models.Reminder, error) {
	reminder := &models.Reminder{}
	var status string
	err := row.Scan(&reminder.ReminderID, &reminder.LeadID, &reminder.LeadName, &reminder.Type,
		&reminder.DueDate, &status, &reminder.Notes, &reminder.RecurrenceRule, &reminder.CreatedAt)
	if err != nil {
		return nil, err
	}
	reminder.Status = models.ReminderStatus(status)
	return reminder, nil
}
