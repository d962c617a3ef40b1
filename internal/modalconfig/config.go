// Package modalconfig interprets the per-category modal_config blob that
// content authors attach to catalog nodes.
package modalconfig

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/GiornoGiovanaJoJo/deiw2-sub000/internal/forms"
	"github.com/GiornoGiovanaJoJo/deiw2-sub000/pkg/logging"
)

// VirtualChild is a node declared inline in the config blob. It is always a
// leaf of the taxonomy.
type VirtualChild struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name"`
}

// Config is the typed view of a blob. Fields is nil when the blob declares
// no form schema.
type Config struct {
	VirtualChildren []VirtualChild `json:"virtual_children,omitempty"`
	Fields          []forms.Field  `json:"fields,omitempty"`
	FormTitle       string         `json:"form_title,omitempty"`
	FormSubtitle    string         `json:"form_subtitle,omitempty"`
}

// HasVirtualChildren reports whether the blob overrides catalog children.
func (c Config) HasVirtualChildren() bool {
	return len(c.VirtualChildren) > 0
}

// HasSchema reports whether the blob declares its own form.
func (c Config) HasSchema() bool {
	return c.Fields != nil
}

// rawConfig mirrors the authored JSON. Several spellings are in circulation
// because the builder UI changed key style over time.
type rawConfig struct {
	SubServices      []rawChild      `json:"sub_services"`
	SubServicesCamel []rawChild      `json:"subServices"`
	Children         []rawChild      `json:"children"`
	Fields           []rawField      `json:"fields"`
	FormTitle        string          `json:"form_title"`
	FormTitleCamel   string          `json:"formTitle"`
	FormSubtitle     string          `json:"form_subtitle"`
	FormSubCamel     string          `json:"formSubtitle"`
}

type rawChild struct {
	ID   json.RawMessage `json:"id"`
	Name string          `json:"name"`
}

type rawField struct {
	Name        string   `json:"name"`
	Label       string   `json:"label"`
	Type        string   `json:"type"`
	Required    bool     `json:"required"`
	Placeholder string   `json:"placeholder"`
	Options     []string `json:"options"`
}

// Parse interprets blob without logging. See Interpreter.Parse.
func Parse(blob any) Config {
	cfg, _ := decode(blob)
	return cfg
}

// decode normalises the accepted blob shapes into bytes and converts them.
func decode(blob any) (Config, error) {
	var data []byte
	switch v := blob.(type) {
	case nil:
		return Config{}, nil
	case Config:
		return v, nil
	case *Config:
		if v == nil {
			return Config{}, nil
		}
		return *v, nil
	case string:
		data = []byte(v)
	case []byte:
		data = v
	case json.RawMessage:
		data = v
	default:
		encoded, err := json.Marshal(v)
		if err != nil {
			return Config{}, fmt.Errorf("modalconfig: encode %T: %w", blob, err)
		}
		data = encoded
	}

	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return Config{}, nil
	}

	// A JSON column may hold the config as a string literal that itself
	// contains the JSON document.
	if data[0] == '"' {
		var inner string
		if err := json.Unmarshal(data, &inner); err != nil {
			return Config{}, fmt.Errorf("modalconfig: decode string blob: %w", err)
		}
		return decode(inner)
	}

	var raw rawConfig
	if err := json.Unmarshal(data, &raw); err != nil {
		return Config{}, fmt.Errorf("modalconfig: decode blob: %w", err)
	}
	return raw.convert(), nil
}

func (r rawConfig) convert() Config {
	children := r.SubServices
	if len(children) == 0 {
		children = r.SubServicesCamel
	}
	if len(children) == 0 {
		children = r.Children
	}

	cfg := Config{
		FormTitle:    firstNonEmpty(r.FormTitle, r.FormTitleCamel),
		FormSubtitle: firstNonEmpty(r.FormSubtitle, r.FormSubCamel),
	}
	for _, c := range children {
		name := strings.TrimSpace(c.Name)
		if name == "" {
			continue
		}
		cfg.VirtualChildren = append(cfg.VirtualChildren, VirtualChild{ID: idString(c.ID), Name: name})
	}
	if r.Fields != nil {
		cfg.Fields = make([]forms.Field, 0, len(r.Fields))
		for _, f := range r.Fields {
			if field, ok := f.convert(); ok {
				cfg.Fields = append(cfg.Fields, field)
			}
		}
	}
	return cfg
}

func (f rawField) convert() (forms.Field, bool) {
	name := strings.TrimSpace(f.Name)
	if name == "" {
		return forms.Field{}, false
	}
	field := forms.Field{
		Name:        name,
		Label:       strings.TrimSpace(f.Label),
		Type:        strings.ToLower(strings.TrimSpace(f.Type)),
		Required:    f.Required,
		Placeholder: f.Placeholder,
	}
	if field.Label == "" {
		field.Label = name
	}
	if field.Type == "" {
		field.Type = forms.TypeText
	}
	for _, opt := range f.Options {
		if opt = strings.TrimSpace(opt); opt != "" {
			field.Options = append(field.Options, opt)
		}
	}
	// select needs options; without them the only usable rendering is free text
	if field.Type == forms.TypeSelect && len(field.Options) == 0 {
		field.Type = forms.TypeText
	}
	return field, true
}

// idString accepts string or numeric ids; anything else means "no id".
func idString(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		if i, err := n.Int64(); err == nil {
			return strconv.FormatInt(i, 10)
		}
		return n.String()
	}
	return ""
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

// Interpreter parses blobs, logging malformed ones, and memoises results.
type Interpreter struct {
	logger *logging.Logger
	cache  *memo
}

// NewInterpreter builds an interpreter. A nil logger falls back to the
// default logger.
func NewInterpreter(logger *logging.Logger) *Interpreter {
	if logger == nil {
		logger = logging.Default()
	}
	return &Interpreter{logger: logger, cache: newMemo(256)}
}

// Parse never fails: malformed blobs are logged and read as empty config.
func (i *Interpreter) Parse(blob any) Config {
	cfg, err := decode(blob)
	if err != nil {
		i.log().Warn("modalconfig: ignoring malformed config", "error", err)
		return Config{}
	}
	return cfg
}

// ParseNode memoises by node identity and blob bytes. Config is immutable
// for a node within a session, so the key cannot go stale.
func (i *Interpreter) ParseNode(nodeKey string, blob []byte) Config {
	if i == nil {
		return Parse(blob)
	}
	key := nodeKey + "\x00" + string(blob)
	if cfg, ok := i.cache.get(key); ok {
		return cfg
	}
	cfg := i.Parse(blob)
	i.cache.put(key, cfg)
	return cfg
}

func (i *Interpreter) log() *logging.Logger {
	if i == nil || i.logger == nil {
		return logging.Default()
	}
	return i.logger
}
