package controllers

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/aigatehq/aigate/app/repository"
	"github.com/aigatehq/aigate/internal/pkg/activitylog"
	"github.com/aigatehq/aigate/internal/pkg/apperr"
	"github.com/aigatehq/aigate/internal/pkg/middleware"
)

type topUpRequest struct {
	PlanID uint `json:"plan_id"`
}

// HandleListTopUpPlans returns the purchasable credit bundles
func HandleListTopUpPlans(c *fiber.Ctx) error {
	plans, err := repository.GetGlobalRepositories().TopUp.ListPlans()
	if err != nil {
		return apperr.Internal("failed to list plans", err)
	}
	return success(c, plans)
}

// HandleTopUp credits the caller's account with a bundle. Payment
// capture is stubbed out; the response carries a transaction reference
// for reconciliation.
func HandleTopUp(c *fiber.Ctx) error {
	var req topUpRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if req.PlanID == 0 {
		return apperr.Validation("plan_id is required")
	}

	plans, err := repository.GetGlobalRepositories().TopUp.ListPlans()
	if err != nil {
		return apperr.Internal("failed to list plans", err)
	}
	var credits int64
	found := false
	for _, p := range plans {
		if p.ID == req.PlanID {
			credits = p.Credits
			found = true
			break
		}
	}
	if !found {
		return apperr.NotFound("Top-up plan not found")
	}

	userID := middleware.UserIDFromCtx(c)
	account, err := creditEngine.Credit(userID, credits)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("Account not found")
		}
		return err
	}

	txRef := uuid.NewString()
	activitylog.Info(middleware.ClaimsFromCtx(c).Email, "topup",
		fmt.Sprintf("credited %d (tx %s)", credits, txRef), "topup")

	return success(c, fiber.Map{
		"transaction_ref": txRef,
		"credited":        credits,
		"account":         account,
	})
}
