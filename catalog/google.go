package catalog

import (
	"context"
	"fmt"
	"net/mail"
	"time"

	"github.com/google/uuid"
	"github.com/toolbus-dev/toolbus"
)

// Google returns mock Gmail and Calendar operations.
func Google(cfg Config) Service {
	return Service{
		Name: "google",
		Tools: []toolbus.Tool{
			sendEmailTool(cfg),
			createCalendarEventTool(cfg),
		},
	}
}

type sendEmailInput struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

func sendEmailTool(cfg Config) toolbus.Tool {
	return toolbus.New("send_email", toolbus.Spec[sendEmailInput, map[string]any]{
		Description: "Send an email via Gmail",
		InputSchema: cfg.object(
			toolbus.String("to").Required().Desc("Recipient address"),
			toolbus.String("subject").Required().Desc("Subject line"),
			toolbus.String("body").Required().Desc("Message body"),
		),
		Execute: func(ctx context.Context, in sendEmailInput) (map[string]any, error) {
			if _, err := mail.ParseAddress(in.To); err != nil {
				return nil, fmt.Errorf("invalid recipient %q", in.To)
			}
			return map[string]any{
				"status":     "sent",
				"to":         in.To,
				"subject":    in.Subject,
				"message_id": uuid.NewString(),
			}, nil
		},
	})
}

type createEventInput struct {
	Title     string   `json:"title"`
	StartTime string   `json:"start_time"`
	EndTime   string   `json:"end_time"`
	Attendees []string `json:"attendees"`
}

func createCalendarEventTool(cfg Config) toolbus.Tool {
	return toolbus.New("create_calendar_event", toolbus.Spec[createEventInput, map[string]any]{
		Description: "Create a Google Calendar event",
		InputSchema: cfg.object(
			toolbus.String("title").Required().Desc("Event title"),
			toolbus.String("start_time").Required().Desc("Start time, RFC 3339"),
			toolbus.String("end_time").Required().Desc("End time, RFC 3339"),
			toolbus.Array("attendees", toolbus.String("attendee")).Desc("Attendee email addresses"),
		),
		Execute: func(ctx context.Context, in createEventInput) (map[string]any, error) {
			start, err := time.Parse(time.RFC3339, in.StartTime)
			if err != nil {
				return nil, fmt.Errorf("invalid start_time %q", in.StartTime)
			}
			end, err := time.Parse(time.RFC3339, in.EndTime)
			if err != nil {
				return nil, fmt.Errorf("invalid end_time %q", in.EndTime)
			}
			if !end.After(start) {
				return nil, fmt.Errorf("end_time must be after start_time")
			}
			id := uuid.NewString()
			return map[string]any{
				"status":    "created",
				"event_id":  id,
				"title":     in.Title,
				"attendees": len(in.Attendees),
				"html_link": "https://calendar.example.com/event/" + id,
			}, nil
		},
	})
}
