package leads

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
)

// HTTPSink forwards leads to the portal's public ticket endpoint. The client
// must not retry: one submit is one attempt.
type HTTPSink struct {
	client *resty.Client
	path   string
	now    func() time.Time
}

// NewHTTPSink wraps a configured client. path defaults to the portal's
// ticket collection.
func NewHTTPSink(client *resty.Client, path string) *HTTPSink {
	if client == nil {
		panic("leads: http client required")
	}
	if path == "" {
		path = "/api/v1/tickets/"
	}
	return &HTTPSink{client: client, path: path, now: func() time.Time { return time.Now().UTC() }}
}

// portalTicket is the portal's response shape; ids are integers there.
type portalTicket struct {
	ID          json.RawMessage `json:"id"`
	Status      string          `json:"status"`
	Priority    string          `json:"priority"`
	CreatedDate *time.Time      `json:"created_date"`
}

// Create posts the lead and maps the portal's ticket back.
func (s *HTTPSink) Create(ctx context.Context, req *CreateLeadRequest) (*Lead, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var ticket portalTicket
	resp, err := s.client.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&ticket).
		Post(s.path)
	if err != nil {
		return nil, fmt.Errorf("leads: forward ticket: %w", err)
	}
	if resp.StatusCode() != http.StatusOK && resp.StatusCode() != http.StatusCreated {
		return nil, fmt.Errorf("leads: forward ticket: %w: status %d", ErrSinkRejected, resp.StatusCode())
	}

	createdAt := s.now()
	if ticket.CreatedDate != nil {
		createdAt = *ticket.CreatedDate
	}
	lead := req.toLead(string(bytes.Trim(ticket.ID, `"`)), createdAt)
	if ticket.Status != "" {
		lead.Status = ticket.Status
	}
	if ticket.Priority != "" {
		lead.Priority = ticket.Priority
	}
	return lead, nil
}
