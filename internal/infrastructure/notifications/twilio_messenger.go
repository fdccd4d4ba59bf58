package notifications

import (
	"context"
	"fmt"
	"strings"

	"github.com/SyedMHaroon/NamazBot/domain"
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
	"go.uber.org/zap"
)

// MaxBodyRunes is the longest WhatsApp body Twilio accepts
const MaxBodyRunes = 1600

const whatsappPrefix = "whatsapp:"

type messageCreator interface {
	CreateMessage(params *twilioApi.CreateMessageParams) (*twilioApi.ApiV2010Message, error)
}

// TwilioMessenger implements domain.Messenger over Twilio's WhatsApp channel
type TwilioMessenger struct {
	api        messageCreator
	fromNumber string
	logger     *zap.Logger
}

// NewTwilioMessenger creates a new Twilio messenger. With an empty
// fromNumber messages are logged instead of sent.
func NewTwilioMessenger(accountSID, authToken, fromNumber string, logger *zap.Logger) *TwilioMessenger {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSID,
		Password: authToken,
	})

	return &TwilioMessenger{
		api:        client.Api,
		fromNumber: fromNumber,
		logger:     logger,
	}
}

// SendText implements domain.Messenger
func (t *TwilioMessenger) SendText(ctx context.Context, to, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	body = truncateRunes(body, MaxBodyRunes)

	if t.fromNumber == "" {
		t.logger.Info("mock whatsapp send", zap.String("to", to), zap.String("body", body))
		return nil
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetTo(WhatsAppAddress(to))
	params.SetFrom(WhatsAppAddress(t.fromNumber))
	params.SetBody(body)

	msg, err := t.api.CreateMessage(params)
	if err != nil {
		return fmt.Errorf("failed to send whatsapp message: %w", err)
	}
	if msg != nil && msg.Sid != nil {
		t.logger.Debug("whatsapp message queued", zap.String("to", to), zap.String("sid", *msg.Sid))
	}
	return nil
}

// WhatsAppAddress prefixes a phone number with the whatsapp channel
func WhatsAppAddress(number string) string {
	if strings.HasPrefix(number, whatsappPrefix) {
		return number
	}
	return whatsappPrefix + number
}

// UserIDFromAddress strips the channel prefix from an inbound sender
func UserIDFromAddress(from string) string {
	return strings.TrimPrefix(strings.TrimSpace(from), whatsappPrefix)
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

var _ domain.Messenger = (*TwilioMessenger)(nil)
