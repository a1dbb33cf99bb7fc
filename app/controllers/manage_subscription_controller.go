package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/aigatehq/aigate/app/models"
	"github.com/aigatehq/aigate/app/repository"
	"github.com/aigatehq/aigate/internal/pkg/activitylog"
	"github.com/aigatehq/aigate/internal/pkg/apperr"
)

type planRequest struct {
	Name          string `json:"name"`
	MonthlyCost   int64  `json:"monthly_cost"`
	AnnualCost    int64  `json:"annual_cost"`
	MonthlyCredit int64  `json:"monthly_credit"`
}

// HandleAdminCreatePlan creates a subscription plan
func HandleAdminCreatePlan(c *fiber.Ctx) error {
	var req planRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	repos := repository.GetGlobalRepositories()
	if _, err := repos.Subscription.GetByName(req.Name); err == nil {
		return apperr.Conflict("A plan with this name already exists")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.Internal("failed to check plan", err)
	}

	plan := &models.Subscription{
		Name:          req.Name,
		MonthlyCost:   req.MonthlyCost,
		AnnualCost:    req.AnnualCost,
		MonthlyCredit: req.MonthlyCredit,
	}
	if err := plan.Validate(); err != nil {
		return apperr.Validation(err.Error())
	}
	if err := repos.Subscription.Create(plan); err != nil {
		return apperr.Internal("failed to create plan", err)
	}
	activitylog.Info(actorEmail(c), "plan-create", "created plan "+plan.Name, "manage-subscriptions")
	return created(c, plan)
}

// HandleAdminUpdatePlan edits a subscription plan
func HandleAdminUpdatePlan(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	var req planRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	repos := repository.GetGlobalRepositories()
	plan, err := repos.Subscription.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("Plan not found")
		}
		return apperr.Internal("failed to load plan", err)
	}
	if req.Name != "" {
		plan.Name = req.Name
	}
	if req.MonthlyCost >= 0 {
		plan.MonthlyCost = req.MonthlyCost
	}
	if req.AnnualCost >= 0 {
		plan.AnnualCost = req.AnnualCost
	}
	if req.MonthlyCredit >= 0 {
		plan.MonthlyCredit = req.MonthlyCredit
	}
	if err := plan.Validate(); err != nil {
		return apperr.Validation(err.Error())
	}
	if err := repos.Subscription.Update(plan); err != nil {
		return apperr.Internal("failed to update plan", err)
	}
	activitylog.Info(actorEmail(c), "plan-update", "edited plan "+plan.Name, "manage-subscriptions")
	return success(c, plan)
}

// HandleAdminDeletePlan removes a subscription plan. The free plan is
// the registration fallback and cannot be removed.
func HandleAdminDeletePlan(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	repos := repository.GetGlobalRepositories()
	plan, err := repos.Subscription.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("Plan not found")
		}
		return apperr.Internal("failed to load plan", err)
	}
	if plan.Name == models.PLAN_FREE {
		return apperr.Validation("The free plan cannot be deleted")
	}
	if _, err := repos.Subscription.Delete(id); err != nil {
		return apperr.Internal("failed to delete plan", err)
	}
	activitylog.Warn(actorEmail(c), "plan-delete", "deleted plan "+plan.Name, "manage-subscriptions")
	return success(c, plan)
}
