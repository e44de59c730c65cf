package mailer

// EmailJob is the JSON payload put on the RabbitMQ queue for sending email.
// A job either carries a rendered body (Text, HTML) or names a Template
// that the worker renders with Data.
type EmailJob struct {
	To       string         `json:"to"`
	Subject  string         `json:"subject,omitempty"`
	Text     string         `json:"text,omitempty"`
	HTML     string         `json:"html,omitempty"`
	Template string         `json:"template,omitempty"` // "welcome" or "account_deleted"
	Data     map[string]any `json:"data,omitempty"`
}
