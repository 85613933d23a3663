package reminder

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/ncobase/remind/data/repository"
)

// DueDateLayout formats the due date in reminder emails.
const DueDateLayout = "Monday, January 2, 2006 15:04 MST"

// DefaultSubject is used when a Renderer has no subject format.
const DefaultSubject = "Reminder: %s"

var emailTemplate = template.Must(template.New("reminder").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #333;">
  <h2>Reminder: {{.Title}}</h2>
  {{if .Description}}<p>{{.Description}}</p>{{end}}
  <p><strong>Due:</strong> {{.Due}}</p>
  {{if .Steps}}<ul>
    {{range .Steps}}<li>{{if .Completed}}&#10003; {{end}}{{.Title}}</li>
    {{end}}
  </ul>{{end}}
  <p><a href="{{.Link}}">View task</a></p>
</body>
</html>
`))

type emailData struct {
	Title       string
	Description string
	Due         string
	Steps       []repository.Step
	Link        string
}

// Message is a rendered reminder.
type Message struct {
	Subject string
	HTML    string
}

// Renderer renders reminder emails with deep links under LinkBase.
type Renderer struct {
	LinkBase string
	Subject  string
	Location *time.Location
}

// NewRenderer creates a renderer. Due dates are shown in UTC.
func NewRenderer(linkBase, subject string) *Renderer {
	if subject == "" {
		subject = DefaultSubject
	}
	return &Renderer{
		LinkBase: strings.TrimRight(linkBase, "/"),
		Subject:  subject,
		Location: time.UTC,
	}
}

// Link returns the deep link to task.
func (r *Renderer) Link(task *repository.Task) string {
	return r.LinkBase + "/tasks/" + task.ID.Hex()
}

// subject substitutes title for the first %s of Subject, or appends it
// when Subject has none. Other % characters are kept literally.
func (r *Renderer) subject(title string) string {
	if strings.Contains(r.Subject, "%s") {
		return strings.Replace(r.Subject, "%s", title, 1)
	}
	return strings.TrimRight(r.Subject, " :") + ": " + title
}

// Render produces the subject and HTML body for task.
func (r *Renderer) Render(task *repository.Task) (*Message, error) {
	if task == nil || task.DueDate == nil {
		return nil, fmt.Errorf("task has no due date")
	}
	loc := r.Location
	if loc == nil {
		loc = time.UTC
	}

	var buf bytes.Buffer
	err := emailTemplate.Execute(&buf, emailData{
		Title:       task.Title,
		Description: task.Description,
		Due:         task.DueDate.In(loc).Format(DueDateLayout),
		Steps:       task.Steps,
		Link:        r.Link(task),
	})
	if err != nil {
		return nil, fmt.Errorf("render reminder: %w", err)
	}

	return &Message{
		Subject: r.subject(task.Title),
		HTML:    buf.String(),
	}, nil
}
