package email

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTemplateManager_DefaultsRender(t *testing.T) {
	tm, err := NewTemplateManager()
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{TemplatePasswordReset, TemplatePasswordChanged}, tm.TemplateNames())

	html, err := tm.Render(TemplatePasswordReset, TemplateData{
		"Name":      "owner",
		"ResetURL":  "https://site.example/reset-password?token=abc",
		"ExpiresIn": "10 minutes",
	})
	require.NoError(t, err)
	assert.Contains(t, html, `href="https://site.example/reset-password?token=abc"`)
	assert.Contains(t, html, "10 minutes")
}

func TestTemplateManager_EscapesData(t *testing.T) {
	tm, err := NewTemplateManager()
	require.NoError(t, err)

	html, err := tm.Render(TemplatePasswordChanged, TemplateData{"Name": "<script>"})
	require.NoError(t, err)
	assert.NotContains(t, html, "<script>")
}

func TestTemplateManager_DirectoryOverrides(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "password_changed.html"), []byte("custom {{.Name}}"), 0o600))

	tm, err := NewTemplateManager()
	require.NoError(t, err)
	require.NoError(t, tm.LoadTemplates(dir))

	html, err := tm.Render(TemplatePasswordChanged, TemplateData{"Name": "x"})
	require.NoError(t, err)
	assert.Equal(t, "custom x", html)

	_, err = tm.Render("missing", nil)
	assert.Error(t, err)
}

func TestSMTPProvider_Validate(t *testing.T) {
	assert.Error(t, NewSMTPProvider(&SMTPConfig{Port: 587, FromEmail: "a@b.c"}).Validate())
	assert.Error(t, NewSMTPProvider(&SMTPConfig{Host: "smtp", Port: 0, FromEmail: "a@b.c"}).Validate())
	assert.Error(t, NewSMTPProvider(&SMTPConfig{Host: "smtp", Port: 587}).Validate())
	assert.NoError(t, NewSMTPProvider(&SMTPConfig{Host: "smtp", Port: 587, FromEmail: "a@b.c"}).Validate())
}

func TestSMTPProvider_BuildMessage(t *testing.T) {
	p := NewSMTPProvider(&SMTPConfig{Host: "smtp", Port: 587, FromEmail: "noreply@site.example", FromName: "Portfolio"})
	m := p.buildMessage(&Email{To: []string{"a@b.c"}, Subject: "Hello", HTMLBody: "<p>hi</p>"})

	var buf bytes.Buffer
	_, err := m.WriteTo(&buf)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Subject: Hello")
	assert.Contains(t, buf.String(), "noreply@site.example")
	assert.Contains(t, buf.String(), "text/html")
}

func TestLogProvider_Send(t *testing.T) {
	var buf bytes.Buffer
	p := NewLogProvider(slog.New(slog.NewTextHandler(&buf, nil)))

	require.NoError(t, p.Send(context.Background(), &Email{To: []string{"a@b.c"}, Subject: "Reset"}))
	assert.Contains(t, buf.String(), "subject=Reset")
}
