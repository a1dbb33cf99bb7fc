package controllers

import (
	"encoding/json"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/aigatehq/aigate/internal/pkg/activitylog"
	"github.com/aigatehq/aigate/internal/pkg/apperr"
	"github.com/aigatehq/aigate/internal/pkg/billing"
	"github.com/aigatehq/aigate/internal/pkg/env"
)

// HandlePaymentWebhook receives settlement events from the payment
// provider. The raw body is authenticated with an HMAC signature before
// anything is parsed; without a configured secret the endpoint is dead.
func HandlePaymentWebhook(c *fiber.Ctx) error {
	secret := env.GetEnv("PAYMENT_WEBHOOK_SECRET", "")
	body := c.Body()

	if !billing.VerifyWebhookSignature(body, c.Get("X-Signature"), secret) {
		activitylog.Warn("webhook", "payment-webhook", "rejected: bad signature", "billing")
		return apperr.Unauthorized("Invalid webhook signature")
	}

	var ev billing.SettlementEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return apperr.Validation("Invalid request body")
	}

	payment, err := billingService.Settle(ev)
	if err != nil {
		return err
	}

	activitylog.Info("webhook", "payment-webhook",
		fmt.Sprintf("settled payment of %d for user %d", ev.Amount, ev.UserID), "billing")
	return success(c, payment)
}
