package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"armario-outfits/logger"
	"armario-outfits/models"
	"armario-outfits/outfit"
	"armario-outfits/repository"
	"armario-outfits/utils"
)

// OutfitService turns HTTP outfit requests into engine calls. It merges
// session memory into the caller's exclusions and enriches the result with
// product variants.
type OutfitService struct {
	engine   *outfit.Engine
	catalog  repository.CatalogRepositoryInterface
	sessions repository.SessionRepositoryInterface
	log      *zap.Logger
}

// NewOutfitService creates a new OutfitService. sessions may be nil, in
// which case shuffle memory lives entirely with the client.
func NewOutfitService(
	engine *outfit.Engine,
	catalog repository.CatalogRepositoryInterface,
	sessions repository.SessionRepositoryInterface,
	log *zap.Logger,
) *OutfitService {
	if log == nil {
		log = zap.NewNop()
	}
	return &OutfitService{
		engine:   engine,
		catalog:  catalog,
		sessions: sessions,
		log:      log,
	}
}

// Ensure OutfitService implements OutfitServiceInterface
var _ OutfitServiceInterface = (*OutfitService)(nil)

// Compose builds one outfit and returns the exclusions the client should
// send on its next shuffle
func (s *OutfitService) Compose(ctx context.Context, req models.OutfitRequest) (*models.OutfitResponse, error) {
	log := logger.With(ctx, s.log)

	mode, err := outfit.ParseMode(req.Policy)
	if err != nil {
		return nil, err
	}

	state := outfit.NewExclusionState(req.ExcludedIDs, req.ExcludedCategories)
	sessionID := s.loadSession(ctx, log, strings.TrimSpace(req.SessionID), mode, state)

	result, err := s.engine.Compose(ctx, outfit.Request{
		BaseProductID: req.BaseProductID,
		Gender:        req.Gender,
		BaseCategory:  req.BaseCategory,
		Vibe:          req.Vibe,
		Mood:          req.Mood,
		Mode:          mode,
	}, state)
	if err != nil {
		return nil, err
	}

	s.enrich(ctx, log, result)

	if sessionID != "" {
		if err := s.sessions.Append(ctx, sessionID, state.IDs()); err != nil {
			log.Warn("⚠️  Failed to save outfit session", zap.String("session_id", sessionID), zap.Error(err))
		}
	}

	return &models.OutfitResponse{
		Outfit:         result,
		UsedProductIDs: state.IDs(),
		UsedCategories: state.Categories(),
		SessionID:      sessionID,
	}, nil
}

// loadSession folds stored ids into state and returns the session id to
// use. Sampled requests without a session get a new one. Returns "" when no
// session store is configured.
func (s *OutfitService) loadSession(ctx context.Context, log *zap.Logger, sessionID string, mode outfit.Mode, state *outfit.ExclusionState) string {
	if s.sessions == nil {
		return ""
	}
	if sessionID == "" {
		if mode != outfit.ModeSampled {
			return ""
		}
		return uuid.NewString()
	}

	ids, err := s.sessions.Load(ctx, sessionID)
	if err != nil {
		log.Warn("⚠️  Failed to load outfit session", zap.String("session_id", sessionID), zap.Error(err))
		return sessionID
	}
	for _, id := range ids {
		state.AddID(id)
	}
	log.Debug("📋 Outfit session loaded", zap.String("session_id", sessionID), zap.Int("ids", len(ids)))
	return sessionID
}

// enrich attaches in-stock variants and a display price to every filled item
func (s *OutfitService) enrich(ctx context.Context, log *zap.Logger, result *models.OutfitResult) {
	ids := result.ProductIDs()
	if len(ids) == 0 {
		return
	}
	variants, err := s.catalog.VariantsByProduct(ctx, ids)
	if err != nil {
		log.Warn("⚠️  Failed to load variants for outfit", zap.Error(err))
		variants = nil
	}
	for i := range result.Items {
		p := result.Items[i].Product
		if p == nil {
			continue
		}
		p.PriceLabel = utils.FormatPrice(p.Price)
		if v, ok := variants[p.ID]; ok {
			p.Variants = v
		}
	}
}
