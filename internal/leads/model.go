package leads

import (
	"strings"
	"time"
)

const (
	SourceHomeForm     = "home_form"
	SourceServiceModal = "service_modal"
	SourceContactPage  = "contact_page"

	DefaultCategory = "Inquiry"
)

const (
	StatusNew        = "new"
	StatusInProgress = "in_progress"
	StatusAnswered   = "answered"
	StatusClosed     = "closed"
)

const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

var validStatuses = map[string]bool{
	StatusNew: true, StatusInProgress: true, StatusAnswered: true, StatusClosed: true,
}

var validPriorities = map[string]bool{
	PriorityLow: true, PriorityMedium: true, PriorityHigh: true,
}

// Lead is a stored service request (a portal "ticket").
type Lead struct {
	ID          string     `json:"id"`
	Subject     string     `json:"subject"`
	Message     string     `json:"message"`
	SenderName  string     `json:"sender_name"`
	SenderEmail string     `json:"sender_email"`
	SenderPhone string     `json:"sender_phone"`
	Category    string     `json:"category"`
	ServiceID   string     `json:"service_id"`
	BookingDate *time.Time `json:"booking_date,omitempty"`
	Source      string     `json:"source"`
	Status      string     `json:"status"`
	Priority    string     `json:"priority"`
	AssignedTo  string     `json:"assigned_to,omitempty"`
	Response    string     `json:"response,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// CreateLeadRequest is the submission record produced by the wizard and
// the public ticket endpoint.
type CreateLeadRequest struct {
	Subject     string     `json:"subject"`
	Message     string     `json:"message"`
	SenderName  string     `json:"sender_name"`
	SenderEmail string     `json:"sender_email"`
	SenderPhone string     `json:"sender_phone"`
	Category    string     `json:"category"`
	ServiceID   string     `json:"service_id"`
	BookingDate *time.Time `json:"booking_date"`
	Source      string     `json:"source"`
}

// Normalize trims fields and fills defaults.
func (r *CreateLeadRequest) Normalize() {
	r.Subject = strings.TrimSpace(r.Subject)
	r.Message = strings.TrimSpace(r.Message)
	r.SenderName = strings.TrimSpace(r.SenderName)
	r.SenderEmail = strings.TrimSpace(r.SenderEmail)
	r.SenderPhone = strings.TrimSpace(r.SenderPhone)
	r.Category = strings.TrimSpace(r.Category)
	r.ServiceID = strings.TrimSpace(r.ServiceID)
	r.Source = strings.TrimSpace(r.Source)
	if r.Category == "" {
		r.Category = DefaultCategory
	}
	if r.Source == "" {
		r.Source = SourceHomeForm
	}
}

// Validate validates the create lead request
func (r *CreateLeadRequest) Validate() error {
	if strings.TrimSpace(r.Subject) == "" {
		return ErrInvalidSubject
	}
	return nil
}

func (r *CreateLeadRequest) toLead(id string, createdAt time.Time) *Lead {
	return &Lead{
		ID:          id,
		Subject:     r.Subject,
		Message:     r.Message,
		SenderName:  r.SenderName,
		SenderEmail: r.SenderEmail,
		SenderPhone: r.SenderPhone,
		Category:    r.Category,
		ServiceID:   r.ServiceID,
		BookingDate: r.BookingDate,
		Source:      r.Source,
		Status:      StatusNew,
		Priority:    PriorityMedium,
		CreatedAt:   createdAt,
	}
}

// UpdateLeadRequest carries the operator-editable fields. Nil leaves a
// field unchanged.
type UpdateLeadRequest struct {
	Status     *string `json:"status"`
	Priority   *string `json:"priority"`
	Response   *string `json:"response"`
	AssignedTo *string `json:"assigned_to"`
}

// Validate checks the workflow values.
func (r *UpdateLeadRequest) Validate() error {
	if r.Status != nil && !validStatuses[*r.Status] {
		return ErrInvalidStatus
	}
	if r.Priority != nil && !validPriorities[*r.Priority] {
		return ErrInvalidPriority
	}
	return nil
}

func (r *UpdateLeadRequest) apply(lead *Lead) {
	if r.Status != nil {
		lead.Status = *r.Status
	}
	if r.Priority != nil {
		lead.Priority = *r.Priority
	}
	if r.Response != nil {
		lead.Response = *r.Response
	}
	if r.AssignedTo != nil {
		lead.AssignedTo = *r.AssignedTo
	}
}

// ListLeadsFilter narrows admin listings.
type ListLeadsFilter struct {
	Limit  int
	Offset int
	Status string
	Source string
}

func (f ListLeadsFilter) matches(lead *Lead) bool {
	if f.Status != "" && lead.Status != f.Status {
		return false
	}
	if f.Source != "" && lead.Source != f.Source {
		return false
	}
	return true
}
