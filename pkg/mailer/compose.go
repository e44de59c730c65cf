package mailer

import (
	"errors"
	"strings"

	mailtpl "github.com/oksasatya/recruitment-accounts/pkg/mailer/templates"
)

var ErrNoRecipient = errors.New("email job has no recipient")

// Compose resolves a job into subject, text and html. Template jobs are
// rendered; explicit Subject/Text/HTML fields are used as given otherwise.
func Compose(job EmailJob) (subject, text, html string, err error) {
	if strings.TrimSpace(job.To) == "" {
		return "", "", "", ErrNoRecipient
	}
	if job.Template == "" {
		if job.Text == "" && job.HTML == "" {
			return "", "", "", errors.New("email job has no body")
		}
		return job.Subject, job.Text, job.HTML, nil
	}
	data := job.Data
	if data == nil {
		data = map[string]any{}
	}
	if _, ok := data["Email"]; !ok {
		data["Email"] = job.To
	}
	subject, text, html, err = mailtpl.Render(job.Template, data)
	if err != nil {
		return "", "", "", err
	}
	if job.Subject != "" {
		subject = job.Subject
	}
	return subject, text, html, nil
}
