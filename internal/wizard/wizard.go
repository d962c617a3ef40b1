// Package wizard implements the booking flow: service selection, date,
// contact form and confirmation, plus the session service and HTTP API that
// drive it.
package wizard

import (
	"errors"
	"fmt"
	"time"

	"github.com/GiornoGiovanaJoJo/deiw2-sub000/internal/calendar"
	"github.com/GiornoGiovanaJoJo/deiw2-sub000/internal/catalog"
	"github.com/GiornoGiovanaJoJo/deiw2-sub000/internal/forms"
	"github.com/GiornoGiovanaJoJo/deiw2-sub000/internal/identity"
	"github.com/GiornoGiovanaJoJo/deiw2-sub000/internal/leads"
	"github.com/GiornoGiovanaJoJo/deiw2-sub000/internal/modalconfig"
	"github.com/GiornoGiovanaJoJo/deiw2-sub000/internal/taxonomy"
)

const (
	defaultFormTitle    = "Your contact details"
	submitFailedMessage = "We could not send your request. Please try again."
)

// Config carries the wizard's collaborators.
type Config struct {
	Navigator *taxonomy.Navigator
	// Location is the business time zone; selected days are midnight here.
	Location *time.Location
	Now      func() time.Time
}

func (c Config) withDefaults() Config {
	if c.Navigator == nil {
		c.Navigator = taxonomy.NewNavigator(nil)
	}
	if c.Location == nil {
		c.Location = time.UTC
	}
	if c.Now == nil {
		c.Now = time.Now
	}
	return c
}

// Wizard is one visitor's booking flow. It is not safe for concurrent use;
// the Service serialises access per session.
type Wizard struct {
	cfg   Config
	st    State
	trail taxonomy.Trail
}

// New returns a closed wizard.
func New(cfg Config) *Wizard {
	return &Wizard{cfg: cfg.withDefaults()}
}

// Restore rebuilds a wizard from persisted state.
func Restore(cfg Config, st State) *Wizard {
	w := &Wizard{cfg: cfg.withDefaults(), st: st}
	w.trail = taxonomy.Resolve(st.Root, st.Path)
	w.st.Path = w.trail.Indices()
	return w
}

// State returns a copy of the persisted form.
func (w *Wizard) State() State {
	st := w.st
	st.Path = append([]int(nil), w.st.Path...)
	st.Values = copyMap(w.st.Values)
	st.Errors = copyMap(w.st.Errors)
	return st
}

// IsOpen reports whether the wizard accepts interaction.
func (w *Wizard) IsOpen() bool { return w.st.Open }

// Step is the current step.
func (w *Wizard) Step() Step { return w.st.Step }

// Generation changes on every open and close.
func (w *Wizard) Generation() uint64 { return w.st.Generation }

// Root is the category the wizard was opened with.
func (w *Wizard) Root() *catalog.Category { return w.trail.Root() }

// Open resets every field and starts at the service step on root. Values
// are pre-filled from who when known.
func (w *Wizard) Open(root *catalog.Category, who identity.Identity) error {
	if root == nil {
		return ErrMissingRoot
	}
	now := w.now()
	w.st = State{
		ID:         w.st.ID,
		Generation: w.st.Generation + 1,
		Open:       true,
		Root:       root,
		Step:       StepService,
		Month:      calendar.StartOfMonth(now),
		Values:     initialValues(who),
		UpdatedAt:  now,
	}
	w.trail = taxonomy.NewTrail(root)
	w.syncPath()
	return nil
}

// Close tears the flow down. State is left as is until the next Open.
func (w *Wizard) Close() {
	if !w.st.Open {
		return
	}
	w.st.Open = false
	w.st.Generation++
	w.touch()
}

// Breadcrumbs lists the trail names from the root.
func (w *Wizard) Breadcrumbs() []string { return w.trail.Names() }

// Options lists what can be picked at the current trail position.
func (w *Wizard) Options() []taxonomy.Option {
	return w.cfg.Navigator.CurrentOptions(w.trail)
}

// Classify exposes the navigator's leaf/branch decision for views.
func (w *Wizard) Classify(opt taxonomy.Option) taxonomy.Kind {
	return w.cfg.Navigator.Classify(opt)
}

// Select picks Options()[index]. A leaf becomes the booking target and
// moves the flow to the date step; a branch is pushed onto the trail.
func (w *Wizard) Select(index int) error {
	if err := w.require(StepService); err != nil {
		return err
	}
	if w.st.Submitting {
		return ErrSubmitInFlight
	}
	step, err := w.cfg.Navigator.Select(w.trail, index)
	if err != nil {
		return err
	}
	if step.Leaf != nil {
		w.st.Leaf = step.Leaf
		w.st.Step = StepDate
	} else {
		w.trail = step.Trail
		w.syncPath()
	}
	w.touch()
	return nil
}

// NavigateToBreadcrumb truncates the trail to index+1 entries.
func (w *Wizard) NavigateToBreadcrumb(index int) error {
	if err := w.require(StepService); err != nil {
		return err
	}
	if w.st.Submitting {
		return ErrSubmitInFlight
	}
	trail, err := w.trail.Truncate(index)
	if err != nil {
		return err
	}
	w.trail = trail
	w.syncPath()
	w.touch()
	return nil
}

// Back moves one step backwards. It reports closed=true when the move
// closed the wizard: back at the root of the service step, or dismissing
// the success step. The form cannot be left while a submission is pending.
func (w *Wizard) Back() (closed bool, err error) {
	if !w.st.Open {
		return false, ErrClosed
	}
	if w.st.Submitting {
		return false, ErrSubmitInFlight
	}
	switch w.st.Step {
	case StepService:
		next, atRoot := w.trail.Back()
		if atRoot {
			w.Close()
			return true, nil
		}
		w.trail = next
		w.syncPath()
	case StepDate:
		w.st.Step = StepService
	case StepForm:
		w.st.Step = StepDate
	case StepSuccess:
		w.Close()
		return true, nil
	}
	w.touch()
	return false, nil
}

// NextMonth shows the following month. The selected day is kept.
func (w *Wizard) NextMonth() error {
	if err := w.require(StepDate); err != nil {
		return err
	}
	w.st.Month = calendar.NewCursor(w.st.Month).Next().Month()
	w.touch()
	return nil
}

// PrevMonth shows the previous month. The selected day is kept.
func (w *Wizard) PrevMonth() error {
	if err := w.require(StepDate); err != nil {
		return err
	}
	w.st.Month = calendar.NewCursor(w.st.Month).Prev().Month()
	w.touch()
	return nil
}

// PickDate selects the calendar day of t. Time of day is dropped.
func (w *Wizard) PickDate(t time.Time) error {
	if err := w.require(StepDate); err != nil {
		return err
	}
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, w.cfg.Location)
	w.st.SelectedDate = &day
	w.st.Month = calendar.StartOfMonth(day)
	w.touch()
	return nil
}

// Continue moves from the date step to the form.
func (w *Wizard) Continue() error {
	if err := w.require(StepDate); err != nil {
		return err
	}
	if w.st.SelectedDate == nil {
		return ErrNoDate
	}
	w.st.Step = StepForm
	w.touch()
	return nil
}

// Calendar renders the displayed month.
func (w *Wizard) Calendar() calendar.Grid {
	return calendar.Build(w.st.Month, w.now(), w.st.SelectedDate)
}

// SetValue records one form input.
func (w *Wizard) SetValue(name, value string) error {
	return w.SetValues(map[string]string{name: value})
}

// SetValues records several form inputs at once.
func (w *Wizard) SetValues(values map[string]string) error {
	if err := w.require(StepForm); err != nil {
		return err
	}
	if w.st.Submitting {
		return ErrSubmitInFlight
	}
	if w.st.Values == nil {
		w.st.Values = map[string]string{}
	}
	for name, value := range values {
		w.st.Values[name] = value
		delete(w.st.Errors, name)
	}
	w.touch()
	return nil
}

// Fields is the effective form schema.
func (w *Wizard) Fields() []forms.Field {
	return forms.Effective(w.formConfig().Fields)
}

// FormView is the rendered form step.
type FormView struct {
	Title     string            `json:"title"`
	Subtitle  string            `json:"subtitle,omitempty"`
	Inputs    []forms.Input     `json:"inputs"`
	CanSubmit bool              `json:"can_submit"`
	Errors    map[string]string `json:"errors,omitempty"`
}

// Form renders the form for the current values.
func (w *Wizard) Form() FormView {
	cfg := w.formConfig()
	fields := forms.Effective(cfg.Fields)
	view := FormView{
		Title:     cfg.FormTitle,
		Subtitle:  cfg.FormSubtitle,
		Inputs:    forms.Render(fields, w.st.Values, w.st.Errors),
		CanSubmit: w.canSubmit(fields),
		Errors:    copyMap(w.st.Errors),
	}
	if view.Title == "" {
		view.Title = defaultFormTitle
	}
	if view.Subtitle == "" && w.st.Leaf != nil {
		view.Subtitle = w.st.Leaf.Name()
	}
	return view
}

// CanSubmit reports whether Submit would be accepted now.
func (w *Wizard) CanSubmit() bool {
	return w.canSubmit(w.Fields())
}

func (w *Wizard) canSubmit(fields []forms.Field) bool {
	return w.st.Open && w.st.Step == StepForm && !w.st.Submitting &&
		w.st.SelectedDate != nil && forms.CanSubmit(fields, w.st.Values)
}

// BeginSubmit validates the form, marks the wizard as submitting and
// returns the record for the sink. The caller hands the result back through
// CompleteSubmit with the returned ticket.
func (w *Wizard) BeginSubmit() (*leads.CreateLeadRequest, Ticket, error) {
	if err := w.require(StepForm); err != nil {
		return nil, Ticket{}, err
	}
	if w.st.Submitting {
		return nil, Ticket{}, ErrSubmitInFlight
	}
	if w.st.SelectedDate == nil {
		return nil, Ticket{}, ErrNoDate
	}
	fields := w.Fields()
	if err := forms.Validate(fields, w.st.Values); err != nil {
		var verr *forms.ValidationError
		if errors.As(err, &verr) {
			w.st.Errors = copyMap(verr.Fields)
		}
		w.touch()
		return nil, Ticket{}, err
	}

	w.st.Submitting = true
	w.st.Errors = nil
	w.st.LastError = ""
	w.touch()
	return w.payload(fields), Ticket{Generation: w.st.Generation}, nil
}

// CompleteSubmit applies the sink's result. It reports false, changing
// nothing, when the wizard was closed or reopened since BeginSubmit or is
// no longer on the form step.
func (w *Wizard) CompleteSubmit(ticket Ticket, lead *leads.Lead, err error) bool {
	if !w.st.Open || w.st.Generation != ticket.Generation || !w.st.Submitting || w.st.Step != StepForm {
		return false
	}
	w.st.Submitting = false
	if err != nil {
		w.st.LastError = submitFailedMessage
	} else {
		w.st.Step = StepSuccess
		if lead != nil {
			w.st.LeadID = lead.ID
		}
	}
	w.touch()
	return true
}

// Selection is the accumulated booking.
func (w *Wizard) Selection() Selection {
	sel := Selection{
		Breadcrumbs: w.trail.Names(),
		Leaf:        w.st.Leaf,
		Values:      copyMap(w.st.Values),
		Step:        w.st.Step,
	}
	if w.st.SelectedDate != nil {
		d := *w.st.SelectedDate
		sel.SelectedDate = &d
	}
	return sel
}

func (w *Wizard) payload(fields []forms.Field) *leads.CreateLeadRequest {
	values := w.st.Values
	leaf := w.st.Leaf
	date := *w.st.SelectedDate

	return &leads.CreateLeadRequest{
		Subject:     fmt.Sprintf("Service request: %s - %s", w.trail.Root().Name, leaf.Name()),
		Message:     forms.ComposeMessage(values[forms.FieldMessage], forms.OrderDetails(fields, values)),
		SenderName:  values[forms.FieldName],
		SenderEmail: values[forms.FieldEmail],
		SenderPhone: values[forms.FieldPhone],
		Category:    w.trail.Path(),
		ServiceID:   leaf.Ref(),
		BookingDate: &date,
		Source:      leads.SourceServiceModal,
	}
}

// formConfig picks the config that describes the form: the chosen catalog
// leaf's own, else the nearest trail node declaring a schema.
func (w *Wizard) formConfig() modalconfig.Config {
	nav := w.cfg.Navigator
	if leaf := w.st.Leaf; leaf != nil && !leaf.IsVirtual() && leaf.Category != nil {
		if cfg := nav.Config(leaf.Category); cfg.HasSchema() {
			return cfg
		}
	}
	for i := len(w.trail) - 1; i >= 0; i-- {
		if cfg := nav.Config(w.trail[i]); cfg.HasSchema() {
			return cfg
		}
	}
	return modalconfig.Config{}
}

func (w *Wizard) require(step Step) error {
	if !w.st.Open {
		return ErrClosed
	}
	if w.st.Step != step {
		return ErrWrongStep
	}
	return nil
}

func (w *Wizard) syncPath() {
	w.st.Path = w.trail.Indices()
}

func (w *Wizard) touch() {
	w.st.UpdatedAt = w.now()
}

func (w *Wizard) now() time.Time {
	return w.cfg.Now().In(w.cfg.Location)
}

func initialValues(who identity.Identity) map[string]string {
	return map[string]string{
		forms.FieldName:    who.Name,
		forms.FieldEmail:   who.Email,
		forms.FieldPhone:   who.Phone,
		forms.FieldMessage: "",
	}
}

func copyMap(m map[string]string) map[string]string {
	if m == nil {
		return nil
	}
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
