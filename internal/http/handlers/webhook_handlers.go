package handlers

import (
	"net/http"
	"strings"

	"github.com/SyedMHaroon/NamazBot/domain"
	"github.com/SyedMHaroon/NamazBot/internal/infrastructure/metrics"
	"github.com/SyedMHaroon/NamazBot/internal/infrastructure/notifications"
	"github.com/gin-gonic/gin"
	"github.com/twilio/twilio-go/client"
	"go.uber.org/zap"
)

const (
	signatureHeader = "X-Twilio-Signature"
	emptyTwiML      = "<Response></Response>"
)

// SignatureValidator checks a provider request signature
type SignatureValidator interface {
	Validate(url string, params map[string]string, expectedSignature string) bool
}

// NewTwilioSignatureValidator validates X-Twilio-Signature with the account token
func NewTwilioSignatureValidator(authToken string) SignatureValidator {
	rv := client.NewRequestValidator(authToken)
	return &rv
}

// WebhookHandlers receives inbound WhatsApp messages
type WebhookHandlers struct {
	turns       domain.TurnService
	idempotency domain.IdempotencyRepository
	messenger   domain.Messenger
	validator   SignatureValidator
	webhookURL  string
	logger      *zap.Logger
}

// NewWebhookHandlers creates new webhook handlers. A nil validator skips
// signature checks.
func NewWebhookHandlers(
	turns domain.TurnService,
	idempotency domain.IdempotencyRepository,
	messenger domain.Messenger,
	validator SignatureValidator,
	webhookURL string,
	logger *zap.Logger,
) *WebhookHandlers {
	return &WebhookHandlers{
		turns:       turns,
		idempotency: idempotency,
		messenger:   messenger,
		validator:   validator,
		webhookURL:  webhookURL,
		logger:      logger.Named("webhook"),
	}
}

// Receive handles one Twilio form post. Anything past the signature check is
// acknowledged with 200 so the provider does not redeliver.
func (h *WebhookHandlers) Receive(c *gin.Context) {
	if err := c.Request.ParseForm(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid form body"})
		return
	}

	if h.validator != nil {
		params := make(map[string]string, len(c.Request.PostForm))
		for k := range c.Request.PostForm {
			params[k] = c.Request.PostForm.Get(k)
		}
		if !h.validator.Validate(h.webhookURL, params, c.GetHeader(signatureHeader)) {
			h.logger.Warn("rejected webhook with bad signature")
			c.JSON(http.StatusForbidden, gin.H{"error": "Invalid signature"})
			return
		}
	}

	ctx := c.Request.Context()
	userID := notifications.UserIDFromAddress(c.PostForm("From"))
	text := strings.TrimSpace(c.PostForm("Body"))
	if text == "" {
		text = strings.TrimSpace(c.PostForm("ButtonText"))
	}
	sid := c.PostForm("MessageSid")

	if userID == "" {
		h.logger.Warn("inbound message without sender", zap.String("sid", sid), zap.Error(domain.ErrMissingUserID))
		h.ack(c)
		return
	}
	if text == "" {
		h.logger.Debug("ignoring inbound message without text", zap.String("user_id", userID), zap.String("sid", sid))
		h.ack(c)
		return
	}

	if sid != "" {
		seen, err := h.idempotency.AlreadySeen(ctx, userID, sid)
		switch {
		case err != nil:
			h.logger.Warn("idempotency check failed", zap.String("sid", sid), zap.Error(err))
		case seen:
			metrics.WebhookDuplicates.Inc()
			h.logger.Info("dropping redelivered message", zap.String("user_id", userID), zap.String("sid", sid))
			h.ack(c)
			return
		}
	}

	reply := h.turns.HandleTurn(ctx, userID, text)
	if err := h.messenger.SendText(ctx, userID, reply); err != nil {
		h.logger.Error("failed to send reply", zap.String("user_id", userID), zap.Error(err))
	}
	h.ack(c)
}

func (h *WebhookHandlers) ack(c *gin.Context) {
	c.Data(http.StatusOK, "application/xml; charset=utf-8", []byte(emptyTwiML))
}
