package outfit

import (
	"fmt"
	"sort"
	"strings"

	"armario-outfits/models"
)

// colorHints suggest what to look for next to a base color bucket
var colorHints = map[ColorBucket]string{
	ColorNeutral:      "Any color works with a neutral base",
	ColorWarm:         "Neutrals or warm tones",
	ColorCool:         "Neutrals or cool tones",
	ColorUnclassified: "Neutral tones are the safest match",
}

// assemble turns slot fills into the response. Items are grouped by role
// and capped at maxItems (zero means no cap). When no slot was filled the
// result is empty and carries an explanatory message.
func assemble(mode Mode, base models.CatalogItem, baseCategory, baseColor string, fills []slotFill, maxItems int) *models.OutfitResult {
	hint := colorHints[ClassifyColor(baseColor)]

	var items []models.OutfitItem
	filled := 0
	for _, f := range fills {
		if len(f.picks) == 0 {
			items = append(items, models.OutfitItem{
				Role:              string(f.slot.Role),
				SuggestedCategory: f.slot.Categories[0],
				ColorHint:         hint,
				Reason:            unfilledReason(baseCategory, f.slot),
			})
			continue
		}
		for _, p := range f.picks {
			matched, _ := f.slot.Accepts(p.Item.Category, p.Item.SubCategory, p.Item.MasterCategory)
			items = append(items, models.OutfitItem{
				Role:              string(f.slot.Role),
				SuggestedCategory: matched,
				ColorHint:         hint,
				Reason:            reason(baseCategory, f.slot.Role, matched),
				Product:           models.NewProductProjection(p.Item),
			})
			filled++
		}
	}

	if filled == 0 {
		return emptyResult(mode, base, fmt.Sprintf("We couldn't find items to pair with %s right now", base.Name))
	}

	sort.SliceStable(items, func(i, j int) bool {
		return roleOrder[Role(items[i].Role)] < roleOrder[Role(items[j].Role)]
	})
	if maxItems > 0 && len(items) > maxItems {
		items = items[:maxItems]
	}

	return &models.OutfitResult{
		Title:         fmt.Sprintf("Complete the look: %s", base.Name),
		Policy:        string(mode),
		BaseProductID: base.ID,
		Items:         items,
	}
}

// reason is derived only from the base category, the slot role and the
// matched category so the text is stable for a given outfit
func reason(baseCategory string, role Role, matched string) string {
	return fmt.Sprintf("%s complete your %s as the %s", matched, baseCategory, strings.ToLower(string(role)))
}

func unfilledReason(baseCategory string, s Slot) string {
	return fmt.Sprintf("No %s available right now to pair with your %s", strings.ToLower(string(s.Role)), baseCategory)
}

func noPlanMessage(category string) string {
	if strings.TrimSpace(category) == "" {
		return "Outfit suggestions are not available for this product"
	}
	return fmt.Sprintf("Outfit suggestions are not available for %s", category)
}

func emptyResult(mode Mode, base models.CatalogItem, message string) *models.OutfitResult {
	return &models.OutfitResult{
		Title:         "No outfit available",
		Message:       message,
		Policy:        string(mode),
		BaseProductID: base.ID,
		Items:         []models.OutfitItem{},
	}
}
