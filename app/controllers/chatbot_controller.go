package controllers

import (
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/aigatehq/aigate/internal/pkg/activitylog"
	"github.com/aigatehq/aigate/internal/pkg/apperr"
	"github.com/aigatehq/aigate/internal/pkg/metrics/counter"
	"github.com/aigatehq/aigate/internal/pkg/middleware"
)

type sendRequest struct {
	Provider string `json:"provider"`
	Model    string `json:"model"`
	Message  string `json:"message"`
}

type sendOwnKeyRequest struct {
	Provider string `json:"provider"`
	Model    string `json:"model"`
	Message  string `json:"message"`
	Cost     int64  `json:"cost"`
}

// HandleGetAllAiModels lists the models of every configured provider
func HandleGetAllAiModels(c *fiber.Ctx) error {
	all, err := chatService.GetAllModelLists(c.Context())
	if err != nil {
		return err
	}
	return success(c, all)
}

// HandleGetAiModel lists one provider's models
func HandleGetAiModel(c *fiber.Ctx) error {
	provider := c.Params("provider")
	if provider == "" {
		return apperr.Validation("provider is required")
	}
	models, err := chatService.GetModelList(c.Context(), provider)
	if err != nil {
		return err
	}
	return success(c, models)
}

// HandleSend runs a metered chat send over the platform's pooled key
func HandleSend(c *fiber.Ctx) error {
	var req sendRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if req.Provider == "" || req.Model == "" {
		return apperr.Validation("provider and model are required")
	}

	userID := middleware.UserIDFromCtx(c)
	reply, err := chatService.SendPooled(c.Context(), userID, req.Provider, req.Model, req.Message)
	if err != nil {
		return err
	}
	if err := counter.AddModelUse(reply.CatalogID); err != nil {
		log.Printf("[Chatbot] usage counter increment failed: %v", err)
	}
	activitylog.Info(middleware.ClaimsFromCtx(c).Email, "chat-send",
		"pooled send via "+reply.Provider+"/"+reply.Model, "chatbot")
	return success(c, reply)
}

// HandleSendWithApiKey runs a chat send over the caller's own key
func HandleSendWithApiKey(c *fiber.Ctx) error {
	var req sendOwnKeyRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if req.Provider == "" || req.Model == "" {
		return apperr.Validation("provider and model are required")
	}

	userID := middleware.UserIDFromCtx(c)
	reply, err := chatService.SendWithOwnKey(c.Context(), userID, req.Provider, req.Model, req.Message, req.Cost)
	if err != nil {
		return err
	}
	activitylog.Info(middleware.ClaimsFromCtx(c).Email, "chat-send",
		"own-key send via "+reply.Provider+"/"+reply.Model, "chatbot")
	return success(c, reply)
}
