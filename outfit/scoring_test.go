package outfit

import (
	"testing"

	"github.com/stretchr/testify/require"

	"armario-outfits/models"
)

func TestStyleWeight(t *testing.T) {
	book := DefaultRuleBook()
	prefs := book.VibePreferences["streetwear"]

	require.Equal(t, len(prefs), book.StyleWeight(prefs[0], "streetwear"))
	require.Equal(t, 1, book.StyleWeight(prefs[len(prefs)-1], "Streetwear"))
	require.Equal(t, 0, book.StyleWeight("Ties", "streetwear"))
	require.Equal(t, 0, book.StyleWeight("Sneakers", ""))
	require.Equal(t, 0, book.StyleWeight("Sneakers", "cottagecore"))
}

func TestSortRankedTieBreaks(t *testing.T) {
	cands := []ScoredCandidate{
		{Item: models.CatalogItem{ID: 1, Price: 100, Rating: 4}, ColorScore: 1.5, StyleWeight: 3},
		{Item: models.CatalogItem{ID: 2, Price: 100, Rating: 4}, ColorScore: 2, StyleWeight: 0},
		{Item: models.CatalogItem{ID: 3, Price: 100, Rating: 4}, ColorScore: 1.5, StyleWeight: 5},
		{Item: models.CatalogItem{ID: 4, Price: 90, Rating: 3}, ColorScore: 1.5, StyleWeight: 3},
		{Item: models.CatalogItem{ID: 5, Price: 100, Rating: 4.5}, ColorScore: 1.5, StyleWeight: 3},
		{Item: models.CatalogItem{ID: 6, Price: 100, Rating: 4}, ColorScore: 1.5, StyleWeight: 3},
	}
	SortRanked(cands)

	var ids []int64
	for _, c := range cands {
		ids = append(ids, c.Item.ID)
	}
	// color desc, style desc, price asc, rating desc, id asc
	require.Equal(t, []int64{2, 3, 4, 5, 1, 6}, ids)
}

func TestScoreFallsBackToHexAndSubCategory(t *testing.T) {
	book := DefaultRuleBook()
	items := []models.CatalogItem{
		{ID: 1, Category: "Joggers-Slim", SubCategory: "Track Pants", ColorHex: "#1e90ff"},
	}
	scored := book.Score("blue", "sporty", items)
	require.Len(t, scored, 1)
	require.Equal(t, 1.5, scored[0].ColorScore)
	require.Equal(t, len(book.VibePreferences["sporty"]), scored[0].StyleWeight)
}
