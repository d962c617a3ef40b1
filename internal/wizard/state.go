package wizard

import (
	"time"

	"github.com/GiornoGiovanaJoJo/deiw2-sub000/internal/catalog"
	"github.com/GiornoGiovanaJoJo/deiw2-sub000/internal/taxonomy"
)

// Step is the wizard's position in the linear flow.
type Step int

const (
	StepService Step = iota
	StepDate
	StepForm
	StepSuccess
)

func (s Step) String() string {
	switch s {
	case StepService:
		return "SERVICE"
	case StepDate:
		return "DATE"
	case StepForm:
		return "FORM"
	case StepSuccess:
		return "SUCCESS"
	}
	return "UNKNOWN"
}

// State is the persisted form of a wizard. The breadcrumb trail is kept as
// child positions under Root.
type State struct {
	ID           string            `json:"id"`
	Generation   uint64            `json:"generation"`
	Open         bool              `json:"open"`
	Root         *catalog.Category `json:"root,omitempty"`
	Path         []int             `json:"path,omitempty"`
	Step         Step              `json:"step"`
	Leaf         *taxonomy.Option  `json:"leaf,omitempty"`
	SelectedDate *time.Time        `json:"selected_date,omitempty"`
	Month        time.Time         `json:"month"`
	Values       map[string]string `json:"values,omitempty"`
	Errors       map[string]string `json:"errors,omitempty"`
	Submitting   bool              `json:"submitting"`
	LeadID       string            `json:"lead_id,omitempty"`
	LastError    string            `json:"last_error,omitempty"`
	UpdatedAt    time.Time         `json:"updated_at"`
}

// Selection is the booking accumulated so far.
type Selection struct {
	Breadcrumbs  []string
	Leaf         *taxonomy.Option
	SelectedDate *time.Time
	Values       map[string]string
	Step         Step
}

// Ticket identifies one submit attempt. Results carrying a stale ticket are
// dropped.
type Ticket struct {
	Generation uint64 `json:"generation"`
}
