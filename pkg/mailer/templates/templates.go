package templates

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	htmpl "html/template"
	"strings"
	texttpl "text/template"
	"time"
)

//go:embed *.tmpl
var FS embed.FS

// Template names.
const (
	VerificationCode = "verification_code"
	Welcome          = "welcome"
	PasswordReset    = "password_reset"
)

// EmailData holds the fields every template may reference.
type EmailData struct {
	AppName   string     `json:"AppName"`
	Name      string     `json:"Name"`
	Email     string     `json:"Email"`
	Code      string     `json:"Code,omitempty"`
	ResetURL  string     `json:"ResetURL,omitempty"`
	ExpiresAt *time.Time `json:"ExpiresAt,omitempty"`
}

// Option pattern
type Option func(*EmailData)

func WithCode(code string) Option    { return func(d *EmailData) { d.Code = code } }
func WithResetURL(url string) Option { return func(d *EmailData) { d.ResetURL = url } }
func WithExpiresAt(t time.Time) Option {
	return func(d *EmailData) {
		utc := t.UTC()
		d.ExpiresAt = &utc
	}
}

func NewEmailData(appName, name, email string, opts ...Option) EmailData {
	d := EmailData{AppName: appName, Name: name, Email: email}
	for _, o := range opts {
		o(&d)
	}
	return d
}

// ToMap converts EmailData to a map[string]any for EmailJob.Data
func ToMap(d EmailData) map[string]any {
	b, _ := json.Marshal(d)
	var m map[string]any
	_ = json.Unmarshal(b, &m)
	return m
}

func baseFuncs() map[string]any {
	return map[string]any{
		"upper": strings.ToUpper,
		"formatTime": func(v any) string {
			switch t := v.(type) {
			case time.Time:
				return t.Format("02 January 2006, 15:04 MST")
			case *time.Time:
				if t == nil {
					return ""
				}
				return t.Format("02 January 2006, 15:04 MST")
			case string:
				if parsed, err := time.Parse(time.RFC3339, t); err == nil {
					return parsed.Format("02 January 2006, 15:04 MST")
				}
				return t
			default:
				return ""
			}
		},
	}
}

var (
	htmlFuncMap = htmpl.FuncMap(baseFuncs())
	textFuncMap = texttpl.FuncMap(baseFuncs())
)

// renderFile loads and renders a single template file from the embedded FS.
// isHTML indicates whether to use html/template (true) or text/template (false).
func renderFile(filename string, isHTML bool, data any) (string, error) {
	var (
		buf bytes.Buffer
		err error
	)

	if isHTML {
		tpl, e := htmpl.New(filename).Funcs(htmlFuncMap).ParseFS(FS, filename)
		if e != nil {
			return "", fmt.Errorf("parse html %q: %w", filename, e)
		}
		err = tpl.Execute(&buf, data)
	} else {
		tpl, e := texttpl.New(filename).Funcs(textFuncMap).ParseFS(FS, filename)
		if e != nil {
			return "", fmt.Errorf("parse text %q: %w", filename, e)
		}
		err = tpl.Execute(&buf, data)
	}
	if err != nil {
		return "", fmt.Errorf("exec %q: %w", filename, err)
	}
	return buf.String(), nil
}

// Render loads and renders subject, text, and html templates for the given base name.
// Expects: <name>.subject.tmpl, <name>.text.tmpl, <name>.html.tmpl
func Render(name string, data any) (subject string, text string, html string, err error) {
	subject, err = renderFile(name+".subject.tmpl", false, data)
	if err != nil {
		return "", "", "", err
	}
	text, err = renderFile(name+".text.tmpl", false, data)
	if err != nil {
		return "", "", "", err
	}
	html, err = renderFile(name+".html.tmpl", true, data)
	if err != nil {
		return "", "", "", err
	}
	return strings.TrimSpace(subject), text, html, nil
}
