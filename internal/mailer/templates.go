package mailer

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/Masterminds/sprig/v3"
)

const verificationTemplate = `
<p>Hi {{ .Name | title }},</p>
<p>Welcome to Chativo! Please confirm your email address by clicking the link below:</p>
<p><a href="{{ .URL }}">Confirm your email</a></p>
<p>If you did not create an account, you can ignore this message.</p>
`

const resetCodeTemplate = `
<p>Hi {{ .Name | title }},</p>
<p>Your password reset code is:</p>
<h2>{{ .Code }}</h2>
<p>The code expires in {{ .TTLMinutes }} minutes. If you did not request a reset, you can ignore this message.</p>
`

// Templates renders notification emails.
type Templates struct {
	verification *template.Template
	resetCode    *template.Template
}

// NewTemplates parses the built-in notification templates.
func NewTemplates() (*Templates, error) {
	funcs := sprig.FuncMap()

	verification, err := template.New("verification").Funcs(funcs).Parse(verificationTemplate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse verification template: %w", err)
	}

	resetCode, err := template.New("reset-code").Funcs(funcs).Parse(resetCodeTemplate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse reset code template: %w", err)
	}

	return &Templates{
		verification: verification,
		resetCode:    resetCode,
	}, nil
}

// Verification renders the email confirmation message.
func (t *Templates) Verification(name, url string) (string, error) {
	return render(t.verification, map[string]any{
		"Name": name,
		"URL":  url,
	})
}

// ResetCode renders the password reset code message.
func (t *Templates) ResetCode(name, code string, ttlMinutes int) (string, error) {
	return render(t.resetCode, map[string]any{
		"Name":       name,
		"Code":       code,
		"TTLMinutes": ttlMinutes,
	})
}

func render(tmpl *template.Template, data map[string]any) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render template %s: %w", tmpl.Name(), err)
	}
	return buf.String(), nil
}
