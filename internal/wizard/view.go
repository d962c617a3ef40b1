package wizard

import (
	"github.com/GiornoGiovanaJoJo/deiw2-sub000/internal/calendar"
	"github.com/GiornoGiovanaJoJo/deiw2-sub000/internal/taxonomy"
)

const dateLayout = "2006-01-02"

// View is the JSON shape the host page renders.
type View struct {
	SessionID    string        `json:"session_id"`
	Open         bool          `json:"open"`
	Step         int           `json:"step"`
	StepName     string        `json:"step_name"`
	Category     CategoryView  `json:"category"`
	Breadcrumbs  []string      `json:"breadcrumbs"`
	Options      []OptionView  `json:"options,omitempty"`
	SelectedLeaf *OptionView   `json:"selected_leaf,omitempty"`
	SelectedDate string        `json:"selected_date,omitempty"`
	Calendar     *CalendarView `json:"calendar,omitempty"`
	Form         *FormView     `json:"form,omitempty"`
	Submitting   bool          `json:"submitting"`
	LastError    string        `json:"last_error,omitempty"`
	LeadID       string        `json:"lead_id,omitempty"`
}

// CategoryView is the header panel.
type CategoryView struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// OptionView is one pickable entry.
type OptionView struct {
	Index  int             `json:"index"`
	Name   string          `json:"name"`
	ID     string          `json:"id,omitempty"`
	Source taxonomy.Source `json:"source"`
	Kind   taxonomy.Kind   `json:"kind"`
}

// CalendarView is the date step grid.
type CalendarView struct {
	Month         string    `json:"month"`
	Weekdays      []string  `json:"weekdays"`
	LeadingBlanks int       `json:"leading_blanks"`
	Days          []DayView `json:"days"`
}

// DayView is one calendar cell.
type DayView struct {
	Date       string `json:"date"`
	Day        int    `json:"day"`
	IsToday    bool   `json:"is_today"`
	IsSelected bool   `json:"is_selected"`
	IsPast     bool   `json:"is_past"`
}

// NewView renders the wizard for the host page. Only the active step's
// section is filled in.
func NewView(w *Wizard) View {
	st := w.st
	v := View{
		SessionID:   st.ID,
		Open:        st.Open,
		Step:        int(st.Step),
		StepName:    st.Step.String(),
		Breadcrumbs: w.Breadcrumbs(),
		Submitting:  st.Submitting,
		LastError:   st.LastError,
		LeadID:      st.LeadID,
	}
	if root := w.Root(); root != nil {
		v.Category = CategoryView{Name: root.Name, Description: root.Description}
	}
	if st.Leaf != nil {
		leaf := optionView(w, -1, *st.Leaf)
		v.SelectedLeaf = &leaf
	}
	if st.SelectedDate != nil {
		v.SelectedDate = st.SelectedDate.Format(dateLayout)
	}
	if !st.Open {
		return v
	}

	switch st.Step {
	case StepService:
		opts := w.Options()
		v.Options = make([]OptionView, 0, len(opts))
		for i, opt := range opts {
			v.Options = append(v.Options, optionView(w, i, opt))
		}
	case StepDate:
		v.Calendar = calendarView(w.Calendar())
	case StepForm:
		form := w.Form()
		v.Form = &form
	}
	return v
}

func optionView(w *Wizard, index int, opt taxonomy.Option) OptionView {
	return OptionView{
		Index:  index,
		Name:   opt.Name(),
		ID:     opt.ID(),
		Source: opt.Source,
		Kind:   w.Classify(opt),
	}
}

func calendarView(grid calendar.Grid) *CalendarView {
	cv := &CalendarView{
		Month:         grid.Month.Format("2006-01"),
		Weekdays:      calendar.Weekdays(),
		LeadingBlanks: grid.LeadingBlanks,
		Days:          make([]DayView, 0, len(grid.Days)),
	}
	for _, d := range grid.Days {
		cv.Days = append(cv.Days, DayView{
			Date:       d.Date.Format(dateLayout),
			Day:        d.Day,
			IsToday:    d.IsToday,
			IsSelected: d.IsSelected,
			IsPast:     d.IsPast,
		})
	}
	return cv
}
