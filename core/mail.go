package core

import (
	"bytes"
	htmltmpl "html/template"
	"net/mail"
	"strings"
)

// announcementHTML wraps plain text bodies for HTML-capable clients.
var announcementHTML = htmltmpl.Must(htmltmpl.New("email").Parse(
	`<html><body>{{range .Paragraphs}}<p>{{.}}</p>{{end}}<p>-- {{.AppName}}</p></body></html>`,
))

type (
	EmailMessage struct {
		To      []mail.Address
		Cc      []mail.Address
		Bcc     []mail.Address
		Subject string
		BodyStr string // simple text/plain content

		TextContent string
		HTMLContent string
	}

	// EmailService is any service that can send emails
	EmailService interface {
		// SendMessages sends messages concurrently
		SendMessages(messages ...*EmailMessage)
	}
)

// Render fills TextContent and HTMLContent from BodyStr.
func (m *EmailMessage) Render(appName string) error {
	m.TextContent = m.BodyStr
	if m.BodyStr == "" {
		return nil
	}

	var paragraphs []string
	for _, p := range strings.Split(m.BodyStr, "\n\n") {
		if p = strings.TrimSpace(p); p != "" {
			paragraphs = append(paragraphs, p)
		}
	}

	var buff bytes.Buffer
	data := struct {
		AppName    string
		Paragraphs []string
	}{appName, paragraphs}
	if err := announcementHTML.Execute(&buff, data); err != nil {
		return err
	}
	m.HTMLContent = buff.String()
	return nil
}

func (m *EmailMessage) HasRecipients() bool { return len(m.To)+len(m.Cc)+len(m.Bcc) > 0 }
func (m *EmailMessage) HasContent() bool    { return (m.TextContent != "") || (m.HTMLContent != "") }
