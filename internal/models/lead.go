package models

import "time"

type LeadStatus string

const (
	LeadStatusNew           LeadStatus = "New"
	LeadStatusContacted     LeadStatus = "Contacted"
	LeadStatusConverted     LeadStatus = "Converted"
	LeadStatusNotInterested LeadStatus = "Not Interested"
)

func (s LeadStatus) Valid() bool {
	switch s {
	case LeadStatusNew, LeadStatusContacted, LeadStatusConverted, LeadStatusNotInterested:
		return true
	}
	return false
}

type Lead struct {
	LeadID           int64      `json:"id"`
	FullName         string     `json:"full_name"`
	Email            string     `json:"email"`
	Phone            string     `json:"phone"`
	Age              *int       `json:"age"`
	DateOfBirth      *time.Time `json:"date_of_birth"`
	City             string     `json:"city"`
	Country          string     `json:"country"`
	InterestedCourse string     `json:"interested_course"`
	InquirySource    string     `json:"inquiry_source"`
	LeadStatus       LeadStatus `json:"lead_status"`
	Notes            string     `json:"notes"`
	ReminderType     string     `json:"reminder_type"`  // mirrors the most recent reminder
	ReminderDue      *time.Time `json:"reminder_due"`   // mirrors the most recent reminder
	ReminderNotes    string     `json:"reminder_notes"` // mirrors the most recent reminder
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// EffectiveAge returns the stored age, or the age derived from the date of birth at now.
func (l *Lead) EffectiveAge(now time.Time) (int, bool) {
	if l.Age != nil {
		return *l.Age, true
	}
	if l.DateOfBirth == nil {
		return 0, false
	}
	dob := *l.DateOfBirth
	age := now.Year() - dob.Year()
	if now.Month() < dob.Month() || (now.Month() == dob.Month() && now.Day() < dob.Day()) {
		age--
	}
	if age < 0 {
		return 0, false
	}
	return age, true
}

// Attribute returns the lead field that groups of type t compare against.
func (l *Lead) Attribute(t GroupType) string {
	switch t {
	case GroupTypeCourse:
		return l.InterestedCourse
	case GroupTypeCity:
		return l.City
	case GroupTypeAdmissionStatus:
		return string(l.LeadStatus)
	}
	return ""
}
