package crm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/abdulwasay100/leadcrm/internal/models"
	"go.uber.org/zap"
)

// LeadInput is the intake/edit form.
type LeadInput struct {
	FullName         string `json:"full_name" validate:"required,max=200"`
	Email            string `json:"email" validate:"omitempty,email"`
	Phone            string `json:"phone" validate:"omitempty,max=40"`
	Age              *int   `json:"age" validate:"omitempty,min=0,max=120"`
	DateOfBirth      string `json:"date_of_birth" validate:"omitempty,datetime=2006-01-02"`
	City             string `json:"city" validate:"max=100"`
	Country          string `json:"country" validate:"max=100"`
	InterestedCourse string `json:"interested_course" validate:"max=200"`
	InquirySource    string `json:"inquiry_source" validate:"max=100"`
	LeadStatus       string `json:"lead_status" validate:"omitempty,lead_status"`
	Notes            string `json:"notes"`
}

func (in *LeadInput) normalize() {
	in.FullName = strings.TrimSpace(in.FullName)
	in.Email = strings.TrimSpace(in.Email)
	in.Phone = strings.TrimSpace(in.Phone)
	in.City = strings.TrimSpace(in.City)
	in.Country = strings.TrimSpace(in.Country)
	in.InterestedCourse = strings.TrimSpace(in.InterestedCourse)
	in.InquirySource = strings.TrimSpace(in.InquirySource)
	in.LeadStatus = strings.TrimSpace(in.LeadStatus)
	if in.LeadStatus == "" {
		in.LeadStatus = string(models.LeadStatusNew)
	}
}

func (in *LeadInput) apply(lead *models.Lead) {
	lead.FullName = in.FullName
	lead.Email = in.Email
	lead.Phone = in.Phone
	lead.Age = in.Age
	lead.DateOfBirth = nil
	if in.DateOfBirth != "" {
		// Format is checked by the datetime tag.
		if dob, err := time.Parse("2006-01-02", in.DateOfBirth); err == nil {
			lead.DateOfBirth = &dob
		}
	}
	lead.City = in.City
	lead.Country = in.Country
	lead.InterestedCourse = in.InterestedCourse
	lead.InquirySource = in.InquirySource
	lead.LeadStatus = models.LeadStatus(in.LeadStatus)
	lead.Notes = in.Notes
}

func (s *Service) ListLeads(ctx context.Context) ([]*models.Lead, error) {
	leads, err := s.stores.Leads.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list leads: %w", err)
	}
	return leads, nil
}

func (s *Service) GetLead(ctx context.Context, leadID int64) (*models.Lead, error) {
	return s.stores.Leads.GetByID(ctx, leadID)
}

func (s *Service) CreateLead(ctx context.Context, in LeadInput) (*models.Lead, error) {
	in.normalize()
	if err := s.valid.check(&in); err != nil {
		return nil, err
	}

	lead := &models.Lead{}
	in.apply(lead)
	if err := s.stores.Leads.Create(ctx, lead); err != nil {
		return nil, fmt.Errorf("failed to create lead: %w", err)
	}
	s.log.Info("lead created", zap.Int64("lead_id", lead.LeadID))

	s.resync(ctx, "lead created")
	s.poke()
	return lead, nil
}

func (s *Service) UpdateLead(ctx context.Context, leadID int64, in LeadInput) (*models.Lead, error) {
	in.normalize()
	if err := s.valid.check(&in); err != nil {
		return nil, err
	}

	lead, err := s.stores.Leads.GetByID(ctx, leadID)
	if err != nil {
		return nil, err
	}
	in.apply(lead)
	if err := s.stores.Leads.Update(ctx, lead); err != nil {
		return nil, fmt.Errorf("failed to update lead %d: %w", leadID, err)
	}

	s.resync(ctx, "lead updated")
	return lead, nil
}

// ConvertLead moves the lead to Converted.
func (s *Service) ConvertLead(ctx context.Context, leadID int64) (*models.Lead, error) {
	lead, err := s.stores.Leads.GetByID(ctx, leadID)
	if err != nil {
		return nil, err
	}
	if lead.LeadStatus != models.LeadStatusConverted {
		lead.LeadStatus = models.LeadStatusConverted
		if err := s.stores.Leads.Update(ctx, lead); err != nil {
			return nil, fmt.Errorf("failed to convert lead %d: %w", leadID, err)
		}
		s.log.Info("lead converted", zap.Int64("lead_id", leadID))
	}

	s.resync(ctx, "lead converted")
	return lead, nil
}

func (s *Service) DeleteLead(ctx context.Context, leadID int64) error {
	if err := s.stores.Leads.Delete(ctx, leadID); err != nil {
		return fmt.Errorf("failed to delete lead %d: %w", leadID, err)
	}
	s.reassign(ctx, "lead deleted")
	return nil
}
