package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/mailbuilder/pkg/document"
)

// Dev is a development adapter. Sent messages are written to Dir as HTML,
// text and JSON metadata files instead of being delivered. Saved templates
// are kept in memory.
type Dev struct {
	dir  string
	from string
	now  func() time.Time

	mu        sync.RWMutex
	templates []RemoteTemplate
}

// NewDev builds the adapter. The directory is created on first send.
func NewDev(cfg DevConfig) (*Dev, error) {
	if cfg.Dir == "" {
		return nil, fmt.Errorf("%w: dev: directory is required", ErrInvalidConfig)
	}
	return &Dev{dir: cfg.Dir, from: cfg.FromEmail, now: time.Now, templates: []RemoteTemplate{}}, nil
}

func (d *Dev) Name() string { return "dev" }

// devMessage is the metadata written next to the rendered bodies.
type devMessage struct {
	MessageID string            `json:"message_id"`
	Timestamp string            `json:"timestamp"`
	From      string            `json:"from,omitempty"`
	SendTo    string            `json:"send_to"`
	Subject   string            `json:"subject"`
	Tag       string            `json:"tag,omitempty"`
	Template  string            `json:"template_id,omitempty"`
	Variables map[string]string `json:"variables,omitempty"`
}

// Send writes <timestamp>_<identifier>.html, .txt and .json to the directory.
func (d *Dev) Send(ctx context.Context, tpl document.Template, params SendParams) (SendResult, error) {
	msg, params, err := prepare(tpl, params)
	if err != nil {
		return SendResult{}, err
	}
	if err := ctx.Err(); err != nil {
		return SendResult{}, classify(d.Name(), err)
	}

	if err := os.MkdirAll(d.dir, 0o755); err != nil {
		return SendResult{}, classify(d.Name(), fmt.Errorf("create directory: %w", err))
	}

	now := d.now()
	identifier := params.Tag
	if identifier == "" {
		identifier = msg.Subject
	}
	base := filepath.Join(d.dir, fmt.Sprintf("%s_%s", now.Format("2006_01_02_150405"), devFilename(identifier)))

	meta := devMessage{
		MessageID: uuid.NewString(),
		Timestamp: now.Format(time.RFC3339),
		From:      d.from,
		SendTo:    params.To,
		Subject:   msg.Subject,
		Tag:       params.Tag,
		Template:  tpl.ID,
		Variables: params.Variables,
	}
	metaJSON, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return SendResult{}, classify(d.Name(), fmt.Errorf("marshal metadata: %w", err))
	}

	for ext, data := range map[string][]byte{
		".html": []byte(msg.HTML),
		".txt":  []byte(msg.Text),
		".json": metaJSON,
	} {
		if err := os.WriteFile(base+ext, data, 0o644); err != nil {
			return SendResult{}, classify(d.Name(), fmt.Errorf("write %s file: %w", ext, err))
		}
	}

	return SendResult{Provider: d.Name(), MessageID: meta.MessageID, Message: base}, nil
}

func (d *Dev) ListTemplates(ctx context.Context) ([]RemoteTemplate, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return slices.Clone(d.templates), nil
}

// SaveTemplate records tpl under its editor id, replacing an earlier save.
func (d *Dev) SaveTemplate(ctx context.Context, tpl document.Template) (RemoteTemplate, error) {
	if tpl.ID == "" {
		return RemoteTemplate{}, fmt.Errorf("%w: template id is required", ErrInvalidParams)
	}
	rt := RemoteTemplate{Provider: d.Name(), ID: tpl.ID, Name: tpl.Name, Subject: tpl.EffectiveSubject(), Active: true}

	d.mu.Lock()
	defer d.mu.Unlock()
	if i := slices.IndexFunc(d.templates, func(t RemoteTemplate) bool { return t.ID == tpl.ID }); i >= 0 {
		d.templates[i] = rt
	} else {
		d.templates = append(d.templates, rt)
	}
	return rt, nil
}

func (d *Dev) DeleteTemplate(ctx context.Context, id string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	i := slices.IndexFunc(d.templates, func(t RemoteTemplate) bool { return t.ID == id })
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrTemplateNotFound, id)
	}
	d.templates = slices.Delete(d.templates, i, i+1)
	return nil
}

var devFilenameRegex = regexp.MustCompile(`[^a-zA-Z0-9\-_.]`)

// devFilename keeps letters, digits, dash, underscore and dot.
func devFilename(s string) string {
	s = devFilenameRegex.ReplaceAllString(strings.ReplaceAll(s, " ", "_"), "")
	const maxLength = 100
	if len(s) > maxLength {
		s = s[:maxLength]
	}
	if s == "" {
		s = "email"
	}
	return strings.ToLower(s)
}
