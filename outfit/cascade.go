package outfit

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"armario-outfits/models"
)

// Stage is one step of the fallback cascade
type Stage string

const (
	StageStrict           Stage = "strict"
	StageMoodRelaxed      Stage = "mood_relaxed"
	StageExclusionRelaxed Stage = "exclusion_relaxed"
	stageUnfilled         Stage = "unfilled"
)

// composition carries the per-request state through the slot loop
type composition struct {
	base      models.CatalogItem
	baseRole  Role
	baseColor string
	gender    string
	vibe      string
	keywords  []string
	policy    Policy

	// seed holds the caller's exclusions, picked holds this outfit's picks
	// (including the base product)
	seed   *ExclusionState
	picked *ExclusionState
}

// slotFill is the outcome of one slot
type slotFill struct {
	slot  Slot
	picks []ScoredCandidate
	stage Stage
}

// filter builds the catalog query for a slot at a stage. The strict stage
// only asks for mood matches. The exclusion relaxed stage drops the caller's
// exclusions, never this outfit's picks.
func (e *Engine) filter(c *composition, s Slot, stage Stage) CatalogFilter {
	f := CatalogFilter{
		Categories:    s.Categories,
		Gender:        c.gender,
		IncludeUnisex: true,
		OnlyAvailable: true,
		Limit:         e.cfg.PoolSize,
	}
	if stage == StageStrict {
		f.Keywords = c.keywords
	}
	excl := []*ExclusionState{c.picked}
	if stage == StageExclusionRelaxed {
		f.Limit = e.cfg.PoolSize * 2
	} else {
		excl = append(excl, c.seed)
	}
	for _, st := range excl {
		f.ExcludeIDs = append(f.ExcludeIDs, st.IDs()...)
		f.ExcludeCategories = append(f.ExcludeCategories, st.Categories()...)
	}
	return f
}

// admissible re-checks what the query should already guarantee and applies
// the rules a catalog cannot express: slot membership and role exclusivity.
func (c *composition) admissible(s Slot, item models.CatalogItem, stage Stage) bool {
	if item.ID == c.base.ID || c.picked.HasID(item.ID) || c.picked.HasCategory(item.Category) {
		return false
	}
	if stage != StageExclusionRelaxed && (c.seed.HasID(item.ID) || c.seed.HasCategory(item.Category)) {
		return false
	}
	if _, ok := s.Accepts(item.Category, item.SubCategory, item.MasterCategory); !ok {
		return false
	}
	if c.baseRole != RoleOther && !s.AllowBaseRole &&
		ClassifyRole(item.Category, item.SubCategory, item.Name) == c.baseRole {
		return false
	}
	return true
}

// preferUnseen moves candidates the caller has not seen ahead of those it
// has, keeping pick order within each group
func (c *composition) preferUnseen(ordered []ScoredCandidate) []ScoredCandidate {
	out := make([]ScoredCandidate, 0, len(ordered))
	var seen []ScoredCandidate
	for _, sc := range ordered {
		if c.seed.HasID(sc.Item.ID) {
			seen = append(seen, sc)
			continue
		}
		out = append(out, sc)
	}
	return append(out, seen...)
}

// fillSlot runs the cascade for one slot and stops at the first stage that
// yields an item. A failed query leaves the slot unfilled.
func (e *Engine) fillSlot(ctx context.Context, c *composition, s Slot, limit int) slotFill {
	ctx, span := tracer.Start(ctx, "outfit.fillSlot")
	defer span.End()
	span.SetAttributes(attribute.String("slot.role", string(s.Role)))

	log := e.log.With(zap.String("role", string(s.Role)), zap.Int64("base_id", c.base.ID))
	mode := c.policy.Mode()

	for _, stage := range e.stages {
		if stage == StageStrict && len(c.keywords) == 0 {
			continue
		}
		pool, err := c.policy.Fetch(ctx, e.catalog, e.filter(c, s, stage))
		if err != nil {
			log.Warn("⚠️  Retrieval failed, leaving slot unfilled", zap.String("stage", string(stage)), zap.Error(err))
			e.metrics.observeRetrievalFailure(mode)
			span.RecordError(err)
			return slotFill{slot: s, stage: stageUnfilled}
		}

		var cands []models.CatalogItem
		for _, it := range pool {
			if !c.admissible(s, it, stage) {
				continue
			}
			if stage == StageStrict && !mentionsAny(it, c.keywords) {
				continue
			}
			cands = append(cands, it)
		}

		ordered := c.policy.Arrange(e.rules.Score(c.baseColor, c.vibe, cands))
		if stage == StageExclusionRelaxed {
			ordered = c.preferUnseen(ordered)
		}
		picks := take(ordered, limit)
		if len(picks) > 0 {
			log.Debug("✓ Slot filled", zap.String("stage", string(stage)), zap.Int("picks", len(picks)), zap.Int("pool", len(pool)))
			span.SetAttributes(attribute.String("slot.stage", string(stage)))
			return slotFill{slot: s, picks: picks, stage: stage}
		}
	}

	log.Debug("🔍 No candidates for slot after all stages")
	return slotFill{slot: s, stage: stageUnfilled}
}

// take walks candidates in pick order and keeps up to limit items with
// distinct ids and categories
func take(ordered []ScoredCandidate, limit int) []ScoredCandidate {
	var out []ScoredCandidate
	seenIDs := map[int64]bool{}
	seenCats := map[string]bool{}
	for _, sc := range ordered {
		if len(out) >= limit {
			break
		}
		cat := normalizeCategory(sc.Item.Category)
		if seenIDs[sc.Item.ID] || (cat != "" && seenCats[cat]) {
			continue
		}
		seenIDs[sc.Item.ID] = true
		seenCats[cat] = true
		out = append(out, sc)
	}
	return out
}
