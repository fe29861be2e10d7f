package controller

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"armario-outfits/logger"
	"armario-outfits/models"
	"armario-outfits/outfit"
	"armario-outfits/service"
)

const maxBodyBytes = 1 << 20

// OutfitController handles HTTP requests for outfits
type OutfitController struct {
	outfits    service.OutfitServiceInterface
	lookboards service.LookboardServiceInterface
	log        *zap.Logger
}

// NewOutfitController creates a new OutfitController
func NewOutfitController(outfits service.OutfitServiceInterface, lookboards service.LookboardServiceInterface, log *zap.Logger) *OutfitController {
	if log == nil {
		log = zap.NewNop()
	}
	return &OutfitController{
		outfits:    outfits,
		lookboards: lookboards,
		log:        log,
	}
}

// Compose handles POST /outfits
// Builds an outfit around the base product and returns the ids to exclude on the next shuffle
func (c *OutfitController) Compose(w http.ResponseWriter, r *http.Request) {
	log := logger.With(r.Context(), c.log)
	log.Debug("📥 Compose: received request", zap.String("path", r.URL.Path))

	var req models.OutfitRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		log.Info("❌ Compose: failed to decode request body", zap.Error(err))
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	log.Debug("📋 Compose: request decoded",
		zap.Int64("base_id", req.BaseProductID),
		zap.String("policy", req.Policy),
		zap.Int("excluded", len(req.ExcludedIDs)),
	)

	resp, err := c.outfits.Compose(r.Context(), req)
	if err != nil {
		c.writeError(w, log, "Compose", err)
		return
	}

	log.Info("✅ Compose: outfit returned",
		zap.Int64("base_id", req.BaseProductID),
		zap.Int("items", len(resp.Outfit.Items)),
	)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		log.Error("❌ Compose: error encoding response", zap.Error(err))
	}
}

// Lookboard handles POST /outfits/lookboard
// Returns a JPEG collage of the given products
func (c *OutfitController) Lookboard(w http.ResponseWriter, r *http.Request) {
	log := logger.With(r.Context(), c.log)

	var req models.LookboardRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		log.Info("❌ Lookboard: failed to decode request body", zap.Error(err))
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	data, err := c.lookboards.Render(r.Context(), req.ProductIDs)
	if err != nil {
		c.writeError(w, log, "Lookboard", err)
		return
	}

	w.Header().Set("Content-Type", "image/jpeg")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		log.Error("❌ Lookboard: error writing image", zap.Error(err))
	}
}

// writeError maps service errors to HTTP status codes
func (c *OutfitController) writeError(w http.ResponseWriter, log *zap.Logger, op string, err error) {
	switch {
	case errors.Is(err, outfit.ErrBaseNotFound), errors.Is(err, outfit.ErrNotFound):
		log.Info("❌ "+op+": not found", zap.Error(err))
		http.Error(w, err.Error(), http.StatusNotFound)
	case outfit.IsInputError(err):
		log.Info("❌ "+op+": invalid input", zap.Error(err))
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		log.Error("❌ "+op+": request failed", zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}
