package mailer

// EmailJob is the JSON payload put on the RabbitMQ queue for sending email.
// Template selects one of the known templates in pkg/mailer/templates; Data
// supplies its fields. Subject/Text/HTML may be set directly instead.
type EmailJob struct {
	To       string         `json:"to"`
	Subject  string         `json:"subject,omitempty"`
	Text     string         `json:"text,omitempty"`
	HTML     string         `json:"html,omitempty"`
	Template string         `json:"template,omitempty"` // "verify_email", "welcome"
	Data     map[string]any `json:"data,omitempty"`
}
