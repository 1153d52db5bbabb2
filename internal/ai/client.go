// Package ai turns free-text inquiries (a forwarded WhatsApp message, a call note) into
// lead drafts using an OpenAI-compatible chat completion API.
package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
)

type Client struct {
	client *openai.Client
	model  string
	now    func() time.Time
}

func New(apiKey, baseURL, model string) *Client {
	config := openai.DefaultConfig(apiKey)
	config.BaseURL = baseURL

	return &Client{
		client: openai.NewClientWithConfig(config),
		model:  model,
		now:    time.Now,
	}
}

// LeadDraft is a suggested intake form. Nothing is stored until the draft is submitted.
type LeadDraft struct {
	FullName         string  `json:"full_name"`
	Email            string  `json:"email"`
	Phone            string  `json:"phone"`
	Age              *int    `json:"age"`
	DateOfBirth      string  `json:"date_of_birth"`
	City             string  `json:"city"`
	Country          string  `json:"country"`
	InterestedCourse string  `json:"interested_course"`
	InquirySource    string  `json:"inquiry_source"`
	Notes            string  `json:"notes"`
	Confidence       float64 `json:"confidence"`
}

const systemPromptTemplate = `You extract student enquiry details for an education centre's lead CRM.

Today is %s.

Rules:
- full_name is the student's name, not the parent's, when both appear.
- age is the student's age in whole years, or null when not stated. If only a birth date is given, set date_of_birth (YYYY-MM-DD) and leave age null.
- city and country use their common English spelling. Do not guess if not mentioned.
- interested_course is the course or programme name as written, e.g. "Robotics", "Coding".
- inquiry_source is where the enquiry came from if stated (WhatsApp, Facebook, Walk-in, Referral, Website).
- notes holds anything useful that does not fit another field, such as preferred call times.
- Use an empty string for unknown text fields.
- confidence is between 0 and 1.`

func (c *Client) systemPrompt() string {
	return fmt.Sprintf(systemPromptTemplate, c.now().Format("2006-01-02 (Monday)"))
}

// JSON Schema for structured output
var leadSchema = json.RawMessage(`{
	"type": "object",
	"properties": {
		"full_name": {"type": "string"},
		"email": {"type": "string"},
		"phone": {"type": "string"},
		"age": {"type": ["integer", "null"], "minimum": 0, "maximum": 120},
		"date_of_birth": {"type": "string", "description": "YYYY-MM-DD or empty"},
		"city": {"type": "string"},
		"country": {"type": "string"},
		"interested_course": {"type": "string"},
		"inquiry_source": {"type": "string"},
		"notes": {"type": "string"},
		"confidence": {"type": "number", "minimum": 0, "maximum": 1}
	},
	"required": ["full_name", "email", "phone", "age", "date_of_birth", "city", "country", "interested_course", "inquiry_source", "notes", "confidence"],
	"additionalProperties": false
}`)

// ParseLead asks the model for a lead draft of text.
func (c *Client) ParseLead(ctx context.Context, text string) (*LeadDraft, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: c.systemPrompt(),
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: text,
			},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
				Name:   "lead",
				Schema: leadSchema,
				Strict: true,
			},
		},
		Temperature: 0.1,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to call AI API: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no response from AI")
	}

	draft := &LeadDraft{}
	if err := json.Unmarshal([]byte(resp.Choices[0].Message.Content), draft); err != nil {
		return nil, fmt.Errorf("failed to parse AI response: %w", err)
	}
	draft.trim()
	return draft, nil
}

func (d *LeadDraft) trim() {
	for _, f := range []*string{&d.FullName, &d.Email, &d.Phone, &d.DateOfBirth, &d.City,
		&d.Country, &d.InterestedCourse, &d.InquirySource, &d.Notes} {
		*f = strings.TrimSpace(*f)
	}
}
