package outfit

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"armario-outfits/models"
)

var tracer = otel.Tracer("armario-outfits/outfit")

// Config tunes the engine
type Config struct {
	// PoolSize is the candidate query size; the exclusion relaxed stage doubles it
	PoolSize int
	// Timeout bounds the whole cascade of one request
	Timeout time.Duration
}

// DefaultConfig returns the production defaults
func DefaultConfig() Config {
	return Config{PoolSize: 40, Timeout: 3 * time.Second}
}

// Request is one outfit composition call
type Request struct {
	BaseProductID int64
	Gender        string
	BaseCategory  string
	Vibe          string
	Mood          string
	Mode          Mode
}

// Engine composes outfits. It holds no per-request state and is safe for
// concurrent use.
type Engine struct {
	catalog  Catalog
	rules    *RuleBook
	policies map[Mode]Policy
	cfg      Config
	stages   []Stage
	log      *zap.Logger
	metrics  *Metrics
}

// NewEngine creates an Engine. A nil logger logs nothing; nil metrics record nothing.
func NewEngine(catalog Catalog, rules *RuleBook, cfg Config, log *zap.Logger, metrics *Metrics, policies ...Policy) *Engine {
	if rules == nil {
		rules = DefaultRuleBook()
	}
	if cfg.PoolSize <= 0 {
		cfg.PoolSize = DefaultConfig().PoolSize
	}
	if log == nil {
		log = zap.NewNop()
	}
	e := &Engine{
		catalog:  catalog,
		rules:    rules,
		policies: map[Mode]Policy{},
		cfg:      cfg,
		stages:   []Stage{StageStrict, StageMoodRelaxed, StageExclusionRelaxed},
		log:      log,
		metrics:  metrics,
	}
	for _, p := range policies {
		e.policies[p.Mode()] = p
	}
	return e
}

// Rules returns the rule book in use
func (e *Engine) Rules() *RuleBook {
	return e.rules
}

// Compose builds an outfit around the base product. state carries the
// caller's exclusions in and receives this call's picks; it may be nil.
// Only invalid input yields an error: missing plans, empty slots and failed
// slot queries produce a partial or empty result.
func (e *Engine) Compose(ctx context.Context, req Request, state *ExclusionState) (*models.OutfitResult, error) {
	started := time.Now()

	if req.BaseProductID <= 0 {
		return nil, &InputError{Field: "baseProductId", Err: fmt.Errorf("%w: baseProductId is required", ErrInvalidInput)}
	}
	policy, ok := e.policies[req.Mode]
	if !ok {
		return nil, &InputError{Field: "policy", Err: fmt.Errorf("%w: policy %q is not available", ErrInvalidInput, req.Mode)}
	}

	ctx, span := tracer.Start(ctx, "outfit.Compose")
	defer span.End()
	span.SetAttributes(
		attribute.Int64("outfit.base_id", req.BaseProductID),
		attribute.String("outfit.policy", string(req.Mode)),
	)

	base, err := e.catalog.Get(ctx, req.BaseProductID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, &InputError{Field: "baseProductId", Err: fmt.Errorf("%w: id %d", ErrBaseNotFound, req.BaseProductID)}
		}
		return nil, fmt.Errorf("failed to load base product %d: %w", req.BaseProductID, err)
	}

	gender := NormalizeGender(req.Gender)
	if gender == "" {
		gender = NormalizeGender(base.Gender)
	}
	category := strings.TrimSpace(req.BaseCategory)
	if category == "" {
		category = base.Category
	}
	vibe := firstNonEmpty(req.Vibe, req.Mood)
	keywords, _ := lookupFold(e.rules.MoodKeywords, strings.TrimSpace(firstNonEmpty(req.Mood, req.Vibe)))

	c := &composition{
		base:      *base,
		baseRole:  ClassifyRole(category, base.SubCategory, base.Name),
		baseColor: itemColor(*base),
		gender:    gender,
		vibe:      vibe,
		keywords:  keywords,
		policy:    policy,
		seed:      &ExclusionState{},
		picked:    &ExclusionState{},
	}
	if state == nil {
		state = &ExclusionState{}
	}
	c.seed.Merge(state)
	c.picked.AddID(base.ID)
	c.picked.AddCategory(category)

	plan := e.rules.Resolve(req.Mode, gender, category, c.baseRole)
	log := e.log.With(zap.Int64("base_id", base.ID), zap.String("policy", string(req.Mode)), zap.String("plan", plan.Key))
	if plan.Empty() {
		log.Info("📭 No outfit plan for base product", zap.String("gender", gender), zap.String("category", category), zap.String("role", string(c.baseRole)))
		e.metrics.observeCompose(req.Mode, "no_plan", started)
		return emptyResult(req.Mode, *base, noPlanMessage(category)), nil
	}

	if e.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.cfg.Timeout)
		defer cancel()
	}

	limits := policy.Limits()
	roleCounts := map[Role]int{}
	entries := 0
	var fills []slotFill
	for _, s := range plan.Slots {
		limit := limits.PerSlot
		if limits.PerRole > 0 {
			limit = min(limit, limits.PerRole-roleCounts[s.Role])
		}
		if limits.MaxItems > 0 {
			if entries >= limits.MaxItems {
				break
			}
			limit = min(limit, limits.MaxItems-entries)
		}
		if limit <= 0 {
			continue
		}

		fill := e.fillSlot(ctx, c, s, limit)
		e.metrics.observeSlot(req.Mode, string(fill.stage))
		for _, p := range fill.picks {
			c.picked.AddID(p.Item.ID)
			c.picked.AddCategory(p.Item.Category)
		}
		roleCounts[s.Role] += len(fill.picks)
		entries += max(1, len(fill.picks))
		fills = append(fills, fill)
	}

	result := assemble(req.Mode, *base, category, c.baseColor, fills, limits.MaxItems)
	state.Merge(c.picked)

	outcome := "full"
	switch filled := len(result.ProductIDs()); {
	case filled == 0:
		outcome = "empty"
	case filled < len(result.Items):
		outcome = "partial"
	}
	e.metrics.observeCompose(req.Mode, outcome, started)
	log.Info("👗 Outfit composed", zap.String("outcome", outcome), zap.Int("items", len(result.Items)), zap.Duration("took", time.Since(started)))
	return result, nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}
