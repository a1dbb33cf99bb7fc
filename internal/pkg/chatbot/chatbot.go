// Package chatbot implements the metered chat flow: resolving which
// upstream key applies to a request, checking credits, dispatching to the
// provider, and charging strictly after a successful response.
package chatbot

import (
	"context"
	"errors"
	"log"

	"gorm.io/gorm"

	"github.com/aigatehq/aigate/app/models"
	"github.com/aigatehq/aigate/app/repository"
	"github.com/aigatehq/aigate/internal/pkg/aiproxy"
	"github.com/aigatehq/aigate/internal/pkg/apperr"
	"github.com/aigatehq/aigate/internal/pkg/credits"
)

// ProviderFactory builds a provider adapter for a vendor name and key.
// Swappable so tests can inject fakes without touching the network.
type ProviderFactory func(name, apiKey string) aiproxy.Provider

// Service drives the chat endpoints. Keys resolve fresh from the store on
// every call; a revoked key takes effect immediately.
type Service struct {
	repos    *repository.Repositories
	credits  *credits.Engine
	provider ProviderFactory
}

// NewService creates a chatbot service with the live provider adapters
func NewService(repos *repository.Repositories, engine *credits.Engine) *Service {
	return NewServiceWithFactory(repos, engine, aiproxy.ForProvider)
}

// NewServiceWithFactory creates a chatbot service with a custom provider
// factory.
func NewServiceWithFactory(repos *repository.Repositories, engine *credits.Engine, factory ProviderFactory) *Service {
	return &Service{
		repos:    repos,
		credits:  engine,
		provider: factory,
	}
}

// ProviderModels is one provider's model listing in the aggregate view.
type ProviderModels struct {
	Provider string              `json:"provider"`
	Models   []aiproxy.ModelInfo `json:"models"`
}

// ChatReply is the response shape for a chat send. CatalogID carries the
// matched catalog entry for usage accounting; own-key sends leave it zero.
type ChatReply struct {
	Provider  string `json:"provider"`
	Model     string `json:"model"`
	Reply     string `json:"reply"`
	Charged   int64  `json:"charged"`
	CatalogID uint   `json:"-"`
}

// GetModelList lists the models reachable through the pooled key of one
// provider. Provider errors propagate as-is.
func (s *Service) GetModelList(ctx context.Context, providerName string) ([]aiproxy.ModelInfo, error) {
	key, err := s.repos.PooledKey.GetByProvider(providerName)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("No API key configured for this provider")
		}
		return nil, apperr.Internal("failed to load provider key", err)
	}
	adapter := s.provider(providerName, key.ApiKey)
	if adapter == nil {
		return nil, apperr.NotFound("Unknown provider")
	}
	return adapter.ListModels(ctx)
}

// GetAllModelLists lists the models of every provider that has a pooled
// key. A provider that fails upstream is skipped so one bad key cannot
// blank the whole listing.
func (s *Service) GetAllModelLists(ctx context.Context) ([]ProviderModels, error) {
	keys, err := s.repos.PooledKey.List()
	if err != nil {
		return nil, apperr.Internal("failed to load provider keys", err)
	}
	result := make([]ProviderModels, 0, len(keys))
	for _, key := range keys {
		adapter := s.provider(key.Provider, key.ApiKey)
		if adapter == nil {
			continue
		}
		models, err := adapter.ListModels(ctx)
		if err != nil {
			log.Printf("[Chatbot] listing %s models failed: %v", key.Provider, err)
			continue
		}
		result = append(result, ProviderModels{Provider: key.Provider, Models: models})
	}
	return result, nil
}

// ValidateKey probes a candidate key with a live model listing. Every
// upstream failure collapses to the same validation error so the endpoint
// cannot be used as a key-probing oracle.
func (s *Service) ValidateKey(ctx context.Context, providerName, apiKey string) error {
	adapter := s.provider(providerName, apiKey)
	if adapter == nil {
		return apperr.NotFound("Unknown provider")
	}
	if _, err := adapter.ListModels(ctx); err != nil {
		return apperr.Validation("Invalid API Key")
	}
	return nil
}

// SendPooled runs a metered chat send over the platform's pooled key.
// Order matters: advisory sufficiency first so no upstream call happens
// when credits are plainly short, dispatch next, and the conditional
// debit strictly after a successful response.
func (s *Service) SendPooled(ctx context.Context, userID uint, providerName, modelName, message string) (*ChatReply, error) {
	if message == "" {
		return nil, apperr.Validation("message is required")
	}

	entry, err := s.repos.Catalog.GetWithKey(providerName, modelName)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("Model not available")
		}
		return nil, apperr.Internal("failed to resolve model", err)
	}

	adapter := s.provider(entry.Provider, entry.ApiKey)
	if adapter == nil {
		return nil, apperr.NotFound("Unknown provider")
	}

	sufficient, err := s.credits.HasSufficient(userID, entry.Cost)
	if err != nil {
		return nil, err
	}
	if !sufficient {
		return nil, apperr.Validation("Insufficient credits")
	}

	reply, err := adapter.ChatCompletion(ctx, entry.Name, message, entry.Temperature)
	if err != nil {
		return nil, err
	}

	var charged int64
	if _, err := s.credits.Debit(userID, entry.Cost); err != nil {
		// The reply already exists; a failed debit is an accounting
		// problem, not a user-facing chat failure.
		log.Printf("[Chatbot] debit after send failed for user %d: %v", userID, err)
	} else {
		charged = entry.Cost
	}

	return &ChatReply{
		Provider:  entry.Provider,
		Model:     entry.Name,
		Reply:     reply,
		Charged:   charged,
		CatalogID: entry.ID,
	}, nil
}

// SendWithOwnKey runs a chat send over the caller's own key. Whether the
// send is metered at all is decided up front by the platform toggle; when
// metering is off, sufficiency is never checked and nothing is charged
// regardless of outcome.
func (s *Service) SendWithOwnKey(ctx context.Context, userID uint, providerName, modelName, message string, cost int64) (*ChatReply, error) {
	if message == "" {
		return nil, apperr.Validation("message is required")
	}

	if err := s.ownKeyRouteEnabled(); err != nil {
		return nil, err
	}

	metered, err := s.ownKeyMetered()
	if err != nil {
		return nil, err
	}

	key, err := s.repos.UserKey.GetByUserAndProvider(userID, providerName)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("No API key stored for this provider")
		}
		return nil, apperr.Internal("failed to load user key", err)
	}

	adapter := s.provider(providerName, key.ApiKey)
	if adapter == nil {
		return nil, apperr.NotFound("Unknown provider")
	}

	if metered {
		if cost <= 0 {
			return nil, apperr.Validation("cost must be positive")
		}
		sufficient, err := s.credits.HasSufficient(userID, cost)
		if err != nil {
			return nil, err
		}
		if !sufficient {
			return nil, apperr.Validation("Insufficient credits")
		}
	}

	reply, err := adapter.ChatCompletion(ctx, modelName, message, models.DefaultTemperature)
	if err != nil {
		return nil, err
	}

	var charged int64
	if metered {
		if _, err := s.credits.Debit(userID, cost); err != nil {
			log.Printf("[Chatbot] debit after own-key send failed for user %d: %v", userID, err)
		} else {
			charged = cost
		}
	}

	return &ChatReply{
		Provider: providerName,
		Model:    modelName,
		Reply:    reply,
		Charged:  charged,
	}, nil
}

// ownKeyRouteEnabled checks the platform gate on the own-key route
func (s *Service) ownKeyRouteEnabled() error {
	cfg, err := s.repos.Config.GetByName(models.CONFIG_USER_USE_OWN_API_KEY)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.Forbidden("Own API keys are not enabled")
		}
		return apperr.Internal("failed to read own-key gate", err)
	}
	if !cfg.BoolValue() {
		return apperr.Forbidden("Own API keys are not enabled")
	}
	return nil
}

// ownKeyMetered reads the toggle that decides whether own-key sends are
// charged. The row is seeded at startup; its absence is a broken
// deployment, not a default.
func (s *Service) ownKeyMetered() (bool, error) {
	cfg, err := s.repos.Config.GetByName(models.CONFIG_DEDUCT_OWN_KEY)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, apperr.NotFound("Configuration not found")
		}
		return false, apperr.Internal("failed to read metering toggle", err)
	}
	return cfg.BoolValue(), nil
}
