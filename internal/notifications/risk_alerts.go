package notifications

import (
	"context"
	"errors"
	"fmt"

	"github.com/9ssi7/exponent"

	"tourline/internal/pacing"
	"tourline/internal/store"
)

// SendRiskAlert fans a pacing downgrade out to every device registered
// by members of the show's organization.
func SendRiskAlert(ctx context.Context, push PushSender, storage store.Storage, orgID int64, showID int64, showLabel string, assessment pacing.Assessment) error {
	tokens, err := storage.PushTokens.ListByOrg(ctx, orgID)
	if err != nil {
		return err
	}
	if len(tokens) == 0 {
		return errors.New("no push tokens")
	}

	var title string
	switch assessment.Level {
	case pacing.RiskAtRisk:
		title = "Show at risk 🚨"
	case pacing.RiskNeedsAttention:
		title = "Show needs attention"
	default:
		title = "Pacing update"
	}
	body := fmt.Sprintf("%s: %.0f%% sold with %d days to go", showLabel, assessment.SellThroughPct, assessment.DaysUntilShow)

	msgs := make([]*exponent.Message, 0, len(tokens))
	for _, t := range tokens {
		token := exponent.Token(t)
		msg := &exponent.Message{
			To:    []*exponent.Token{&token},
			Title: title,
			Body:  body,
			Data: map[string]string{
				"type":   "risk-alert",
				"level":  string(assessment.Level),
				"showId": fmt.Sprintf("%d", showID),
				"screen": "show-risk-screen",
			},
		}
		msgs = append(msgs, msg)
	}

	_, err = push.Publish(ctx, msgs)
	return err
}
