package mailer

import "embed"

const (
	FromName            = "Tourline"
	maxRetries          = 3
	UserWelcomeTemplate = "user_invitation.tmpl"
	RiskAlertTemplate   = "risk_alert.tmpl"
)

//go:embed "templates"
var FS embed.FS

type Client interface {
	Send(templateFile, username, email string, data any) (int, error)
}
