package outfit

import (
	"sort"
	"strings"

	"armario-outfits/models"
)

// Color harmony scores
const (
	scoreNone      = 0.0
	scoreNeutral   = 2.0
	scoreSameColor = 0.5
	scoreSameTone  = 1.5
	scoreWarmCool  = 0.8
	scoreFallback  = 1.0
)

// ScoredCandidate is a catalog item with its compatibility scores for one request
type ScoredCandidate struct {
	Item        models.CatalogItem
	ColorScore  float64
	StyleWeight int
}

// ColorScore rates how well a candidate color sits next to the base color.
// An empty color on either side scores 0; the function is symmetric.
// Only an empty color counts as unclassified here: a non-empty color outside
// the word lists is scored by its bucket and falls through to the fallback.
func ColorScore(base, candidate string) float64 {
	b, c := NormalizeColor(base), NormalizeColor(candidate)
	if b == "" || c == "" {
		return scoreNone
	}
	bb, cb := ClassifyColor(b), ClassifyColor(c)
	switch {
	case bb == ColorNeutral || cb == ColorNeutral:
		return scoreNeutral
	case b == c:
		return scoreSameColor
	case bb == ColorWarm && cb == ColorWarm, bb == ColorCool && cb == ColorCool:
		return scoreSameTone
	case bb == ColorWarm && cb == ColorCool, bb == ColorCool && cb == ColorWarm:
		return scoreWarmCool
	default:
		return scoreFallback
	}
}

// StyleWeight returns max(0, len(prefs)-index) for the category's position in
// the vibe preference list, or 0 when the vibe or category is not listed.
func (b *RuleBook) StyleWeight(category, vibe string) int {
	vibe = strings.TrimSpace(vibe)
	if vibe == "" {
		return 0
	}
	prefs, ok := lookupFold(b.VibePreferences, vibe)
	if !ok {
		return 0
	}
	for i, p := range prefs {
		if strings.EqualFold(p, strings.TrimSpace(category)) {
			if w := len(prefs) - i; w > 0 {
				return w
			}
			return 0
		}
	}
	return 0
}

// itemColor is the descriptor used for scoring: the name, or the hex when
// the name is missing
func itemColor(item models.CatalogItem) string {
	if strings.TrimSpace(item.ColorName) != "" {
		return item.ColorName
	}
	return item.ColorHex
}

// Score attaches color and style scores to every item
func (b *RuleBook) Score(baseColor, vibe string, items []models.CatalogItem) []ScoredCandidate {
	out := make([]ScoredCandidate, 0, len(items))
	for _, it := range items {
		weight := b.StyleWeight(it.Category, vibe)
		if weight == 0 {
			weight = b.StyleWeight(it.SubCategory, vibe)
		}
		out = append(out, ScoredCandidate{
			Item:        it,
			ColorScore:  ColorScore(baseColor, itemColor(it)),
			StyleWeight: weight,
		})
	}
	return out
}

// rankLess orders by color score desc, style weight desc, price asc,
// rating desc, then id asc
func rankLess(a, b ScoredCandidate) bool {
	if a.ColorScore != b.ColorScore {
		return a.ColorScore > b.ColorScore
	}
	if a.StyleWeight != b.StyleWeight {
		return a.StyleWeight > b.StyleWeight
	}
	if a.Item.Price != b.Item.Price {
		return a.Item.Price < b.Item.Price
	}
	if a.Item.Rating != b.Item.Rating {
		return a.Item.Rating > b.Item.Rating
	}
	return a.Item.ID < b.Item.ID
}

// SortRanked sorts candidates in place by the ranked key
func SortRanked(cands []ScoredCandidate) {
	sort.SliceStable(cands, func(i, j int) bool {
		return rankLess(cands[i], cands[j])
	})
}
