package models

import "time"

type GroupType string

const (
	GroupTypeAge             GroupType = "Age"
	GroupTypeCourse          GroupType = "Course"
	GroupTypeCity            GroupType = "City"
	GroupTypeAdmissionStatus GroupType = "Admission Status"
)

func (t GroupType) Valid() bool {
	switch t {
	case GroupTypeAge, GroupTypeCourse, GroupTypeCity, GroupTypeAdmissionStatus:
		return true
	}
	return false
}

// GroupKey is unique across all groups.
type GroupKey struct {
	Type     GroupType
	Criteria string
}

type Group struct {
	GroupID   int64     `json:"id"`
	Name      string    `json:"name"`
	Type      GroupType `json:"group_type"`
	Criteria  string    `json:"criteria"`
	LeadIDs   []int64   `json:"lead_ids"`
	LeadCount int       `json:"lead_count"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (g *Group) Key() GroupKey {
	return GroupKey{Type: g.Type, Criteria: g.Criteria}
}
