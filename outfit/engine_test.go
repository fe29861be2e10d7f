package outfit

import (
	"context"
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"armario-outfits/models"
)

func newTestEngine(t *testing.T, catalog Catalog, seed int64) *Engine {
	t.Helper()
	return NewEngine(catalog, DefaultRuleBook(), DefaultConfig(), zaptest.NewLogger(t), NewMetrics(),
		NewRanked(1, 3),
		NewSampled(2, rand.New(rand.NewSource(seed))),
	)
}

// menCatalog has several items per slot of the Men/Shirts and Men/Top plans
func menCatalog() (models.CatalogItem, []models.CatalogItem) {
	base := product(1, "Men", "Shirts", "white", 2499)
	items := []models.CatalogItem{
		base,
		product(10, "Men", "Jeans", "navy blue", 1999),
		product(11, "Men", "Jeans", "black", 2599),
		product(12, "Men", "Trousers", "beige", 2199),
		product(13, "Men", "Shorts", "olive", 999),
		product(14, "Men", "Pants", "grey", 1799),
		product(20, "Men", "Sneakers", "white", 3999),
		product(21, "Men", "Casual Shoes", "brown", 2999),
		product(22, "Men", "Boots", "tan", 4999),
		product(23, "Unisex", "Sandals", "black", 899),
		product(24, "Men", "Loafers", "black", 3499),
		product(30, "Men", "Watches", "silver", 5999),
		product(31, "Men", "Belts", "brown", 799),
		product(32, "Men", "Sunglasses", "black", 1499),
		product(33, "Men", "Caps", "red", 499),
		product(40, "Men", "Tshirts", "red", 799),
		product(41, "Women", "Jeans", "blue", 1599),
	}
	return base, items
}

func requireOutfitInvariants(t *testing.T, base models.CatalogItem, res *models.OutfitResult) {
	t.Helper()
	seen := map[int64]bool{}
	baseRole := ClassifyRole(base.Category, base.SubCategory, base.Name)
	for _, it := range res.Items {
		if it.Product == nil {
			continue
		}
		require.NotEqual(t, base.ID, it.Product.ID, "base product in its own outfit")
		require.False(t, seen[it.Product.ID], "duplicate product %d", it.Product.ID)
		seen[it.Product.ID] = true
		if it.Role != string(RoleAccessory) {
			require.NotEqual(t, baseRole, ClassifyRole(it.Product.Category, "", it.Product.Name))
		}
	}
}

func TestComposeRankedSingleBottomCandidate(t *testing.T) {
	base := product(1, "Men", "Shirts", "white", 2499)
	jeans := product(2, "Men", "Jeans", "navy", 1999)
	catalog := newMemCatalog(base, jeans, product(3, "Men", "Tshirts", "red", 799))
	e := newTestEngine(t, catalog, 1)

	res, err := e.Compose(context.Background(), Request{BaseProductID: 1, Mode: ModeRanked}, nil)
	require.NoError(t, err)

	var bottom *models.OutfitItem
	for i := range res.Items {
		if res.Items[i].Role == string(RoleBottom) {
			bottom = &res.Items[i]
		}
	}
	require.NotNil(t, bottom)
	require.NotNil(t, bottom.Product)
	require.Equal(t, int64(2), bottom.Product.ID)
	require.Equal(t, "Jeans", bottom.SuggestedCategory)
	require.Equal(t, "Jeans complete your Shirts as the bottom", bottom.Reason)
}

func TestComposeNoPlanIsEmptyNotError(t *testing.T) {
	lipstick := product(1, "Women", "Cosmetics", "red", 499)
	catalog := newMemCatalog(lipstick, product(2, "Women", "Jeans", "blue", 999))
	e := newTestEngine(t, catalog, 1)

	for _, mode := range []Mode{ModeRanked, ModeSampled} {
		res, err := e.Compose(context.Background(), Request{BaseProductID: 1, Mode: mode}, nil)
		require.NoError(t, err)
		require.Empty(t, res.Items)
		require.NotEmpty(t, res.Message)
		require.Equal(t, string(mode), res.Policy)
	}
	require.Empty(t, catalog.queries, "no slot retrieval without a plan")
}

func TestComposeRejectsInvalidInput(t *testing.T) {
	e := newTestEngine(t, newMemCatalog(), 1)

	_, err := e.Compose(context.Background(), Request{Mode: ModeRanked}, nil)
	require.ErrorIs(t, err, ErrInvalidInput)
	require.True(t, IsInputError(err))

	_, err = e.Compose(context.Background(), Request{BaseProductID: 99, Mode: ModeRanked}, nil)
	require.ErrorIs(t, err, ErrBaseNotFound)
	require.True(t, IsInputError(err))

	_, err = e.Compose(context.Background(), Request{BaseProductID: 99, Mode: "surprise"}, nil)
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestComposeRankedInvariantsAcrossPlans(t *testing.T) {
	_, items := menCatalog()
	catalog := newMemCatalog(items...)
	e := newTestEngine(t, catalog, 1)

	for _, it := range items {
		if NormalizeGender(it.Gender) != GenderMen {
			continue
		}
		res, err := e.Compose(context.Background(), Request{BaseProductID: it.ID, Mode: ModeRanked}, nil)
		require.NoError(t, err)
		require.LessOrEqual(t, len(res.Items), 3)
		requireOutfitInvariants(t, it, res)
	}
}

func TestComposeRankedIsDeterministic(t *testing.T) {
	_, items := menCatalog()
	e := newTestEngine(t, newMemCatalog(items...), 1)
	req := Request{BaseProductID: 1, Vibe: "casual", Mode: ModeRanked}

	first, err := e.Compose(context.Background(), req, nil)
	require.NoError(t, err)
	second, err := e.Compose(context.Background(), req, nil)
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestComposeRankedPrefersColorThenPrice(t *testing.T) {
	base := product(1, "Men", "Shirts", "red", 2499)
	catalog := newMemCatalog(
		base,
		product(2, "Men", "Jeans", "mustard", 999),   // warm + warm = 1.5
		product(3, "Men", "Trousers", "black", 2999), // neutral = 2
		product(4, "Men", "Pants", "grey", 1999),     // neutral = 2, cheaper
	)
	e := newTestEngine(t, catalog, 1)

	res, err := e.Compose(context.Background(), Request{BaseProductID: 1, Mode: ModeRanked}, nil)
	require.NoError(t, err)
	require.Equal(t, int64(4), res.Items[0].Product.ID)
}

func TestComposeSampledShuffleNeverRepeats(t *testing.T) {
	_, items := menCatalog()
	e := newTestEngine(t, newMemCatalog(items...), 7)
	req := Request{BaseProductID: 1, Mode: ModeSampled}

	first, err := e.Compose(context.Background(), req, nil)
	require.NoError(t, err)
	firstIDs := first.ProductIDs()
	require.NotEmpty(t, firstIDs)

	state := NewExclusionState(firstIDs, nil)
	second, err := e.Compose(context.Background(), req, state)
	require.NoError(t, err)
	for _, id := range second.ProductIDs() {
		require.NotContains(t, firstIDs, id)
	}
	requireOutfitInvariants(t, items[0], second)

	for _, id := range append(firstIDs, second.ProductIDs()...) {
		require.True(t, state.HasID(id), "state should hold %d", id)
	}
}

func TestComposeSampledIsReproducibleWithSeed(t *testing.T) {
	_, items := menCatalog()
	req := Request{BaseProductID: 1, Mode: ModeSampled}

	a, err := newTestEngine(t, newMemCatalog(items...), 42).Compose(context.Background(), req, nil)
	require.NoError(t, err)
	b, err := newTestEngine(t, newMemCatalog(items...), 42).Compose(context.Background(), req, nil)
	require.NoError(t, err)
	require.Equal(t, a.ProductIDs(), b.ProductIDs())
}

func TestComposeSampledCapsPerRoleWithDistinctCategories(t *testing.T) {
	_, items := menCatalog()
	e := newTestEngine(t, newMemCatalog(items...), 3)

	res, err := e.Compose(context.Background(), Request{BaseProductID: 1, Mode: ModeSampled}, nil)
	require.NoError(t, err)

	perRole := map[string]int{}
	cats := map[string]bool{}
	for _, it := range res.Items {
		if it.Product == nil {
			continue
		}
		perRole[it.Role]++
		require.False(t, cats[it.Product.Category], "category %s repeated", it.Product.Category)
		cats[it.Product.Category] = true
	}
	for role, n := range perRole {
		require.LessOrEqual(t, n, 2, "role %s", role)
	}
	require.Equal(t, 2, perRole[string(RoleBottom)])
}

func TestComposeFiltersByGenderKeepingUnisex(t *testing.T) {
	base := product(1, "Men", "Shorts", "white", 999)
	catalog := newMemCatalog(
		base,
		product(2, "Women", "Sandals", "black", 499),
		product(3, "Unisex", "Sandals", "black", 699),
	)
	e := newTestEngine(t, catalog, 1)

	res, err := e.Compose(context.Background(), Request{BaseProductID: 1, Mode: ModeRanked}, nil)
	require.NoError(t, err)
	require.Equal(t, []int64{3}, res.ProductIDs())
}

func TestComposeSkipsUnpublishedAndOutOfStock(t *testing.T) {
	base := product(1, "Men", "Shirts", "white", 999)
	hidden := product(2, "Men", "Jeans", "navy", 999)
	hidden.IsPublished = false
	soldOut := product(3, "Men", "Jeans", "black", 999)
	soldOut.Stock = 0
	e := newTestEngine(t, newMemCatalog(base, hidden, soldOut), 1)

	res, err := e.Compose(context.Background(), Request{BaseProductID: 1, Mode: ModeRanked}, nil)
	require.NoError(t, err)
	require.Empty(t, res.ProductIDs())
	require.Empty(t, res.Items)
	require.NotEmpty(t, res.Message)
}

func TestCascadeMoodRelaxedWhenNoKeywordMatch(t *testing.T) {
	base := product(1, "Men", "Shirts", "white", 999)
	plain := product(2, "Men", "Jeans", "navy", 999)
	catalog := newMemCatalog(base, plain)
	e := newTestEngine(t, catalog, 1)

	res, err := e.Compose(context.Background(), Request{BaseProductID: 1, Vibe: "streetwear", Mode: ModeRanked}, nil)
	require.NoError(t, err)
	require.Equal(t, []int64{2}, res.ProductIDs())
}

func TestCascadeStrictPrefersMoodMatch(t *testing.T) {
	base := product(1, "Men", "Shirts", "white", 999)
	cheap := product(2, "Men", "Jeans", "navy", 499)
	cargo := product(3, "Men", "Pants", "navy", 1999)
	cargo.Name = "Cargo Pants"
	e := newTestEngine(t, newMemCatalog(base, cheap, cargo), 1)

	res, err := e.Compose(context.Background(), Request{BaseProductID: 1, Mood: "streetwear", Mode: ModeRanked}, nil)
	require.NoError(t, err)
	require.Equal(t, []int64{3}, res.ProductIDs())
}

func TestCascadeExclusionRelaxedReusesCallerExclusions(t *testing.T) {
	base := product(1, "Men", "Shirts", "white", 999)
	jeans := product(2, "Men", "Jeans", "navy", 999)
	catalog := newMemCatalog(base, jeans)
	e := newTestEngine(t, catalog, 1)

	state := NewExclusionState([]int64{2}, []string{"jeans"})
	res, err := e.Compose(context.Background(), Request{BaseProductID: 1, Mode: ModeSampled}, state)
	require.NoError(t, err)
	require.Equal(t, []int64{2}, res.ProductIDs())

	// the bottom slot's relaxed query is the first one with the doubled pool
	var relaxed *CatalogFilter
	for i := range catalog.queries {
		if catalog.queries[i].Limit == DefaultConfig().PoolSize*2 {
			relaxed = &catalog.queries[i]
			break
		}
	}
	require.NotNil(t, relaxed)
	require.Contains(t, relaxed.Categories, "Jeans")
	require.Contains(t, relaxed.ExcludeIDs, int64(1), "base product stays excluded")
	require.NotContains(t, relaxed.ExcludeIDs, int64(2))
	require.NotContains(t, relaxed.ExcludeCategories, "jeans")
}

func TestCascadeNeverFillsFewerSlotsThanRelaxedStageAlone(t *testing.T) {
	_, items := menCatalog()
	exclusions := []int64{10, 11, 20, 30}

	for _, mode := range []Mode{ModeRanked, ModeSampled} {
		full := newTestEngine(t, newMemCatalog(items...), 5)
		relaxedOnly := newTestEngine(t, newMemCatalog(items...), 5)
		relaxedOnly.stages = []Stage{StageExclusionRelaxed}

		req := Request{BaseProductID: 1, Vibe: "formal", Mode: mode}
		a, err := full.Compose(context.Background(), req, NewExclusionState(exclusions, nil))
		require.NoError(t, err)
		b, err := relaxedOnly.Compose(context.Background(), req, NewExclusionState(exclusions, nil))
		require.NoError(t, err)

		require.GreaterOrEqual(t, filledSlots(a), filledSlots(b), "mode %s", mode)
	}
}

func filledSlots(res *models.OutfitResult) int {
	roles := map[string]bool{}
	for _, it := range res.Items {
		if it.Product != nil {
			roles[it.Role] = true
		}
	}
	return len(roles)
}

func TestComposeRetrievalFailureLeavesSlotUnfilled(t *testing.T) {
	_, items := menCatalog()
	catalog := newMemCatalog(items...)
	catalog.failOn = func(f CatalogFilter) error {
		for _, c := range f.Categories {
			if c == "Jeans" {
				return errors.New("connection reset")
			}
		}
		return nil
	}
	e := newTestEngine(t, catalog, 1)

	res, err := e.Compose(context.Background(), Request{BaseProductID: 1, Mode: ModeRanked}, nil)
	require.NoError(t, err)
	require.Len(t, res.Items, 3)
	require.Equal(t, string(RoleBottom), res.Items[0].Role)
	require.Nil(t, res.Items[0].Product)
	require.Equal(t, "Jeans", res.Items[0].SuggestedCategory)
	require.NotNil(t, res.Items[1].Product)
	require.NotNil(t, res.Items[2].Product)
}

func TestComposeTimeoutIsNotAFailure(t *testing.T) {
	_, items := menCatalog()
	catalog := newMemCatalog(items...)
	e := NewEngine(catalog, nil, Config{Timeout: time.Nanosecond}, nil, nil, NewRanked(1, 3))

	res, err := e.Compose(context.Background(), Request{BaseProductID: 1, Mode: ModeRanked}, nil)
	require.NoError(t, err)
	require.Empty(t, res.ProductIDs())
	require.NotEmpty(t, res.Message)
}

func TestComposeRoleExclusivity(t *testing.T) {
	base := product(1, "Men", "Shirts", "white", 999)
	// listed under Jeans but the name says it is a shirt
	odd := product(2, "Men", "Denim Shirts", "navy", 499)
	odd.SubCategory = "Jeans"
	e := newTestEngine(t, newMemCatalog(base, odd), 1)

	res, err := e.Compose(context.Background(), Request{BaseProductID: 1, Mode: ModeRanked}, nil)
	require.NoError(t, err)
	require.Empty(t, res.ProductIDs())
}

func TestComposeAccessoryBaseMayGetAccessory(t *testing.T) {
	watch := product(1, "Men", "Watches", "silver", 4999)
	belt := product(2, "Men", "Belts", "brown", 799)
	e := newTestEngine(t, newMemCatalog(watch, belt), 1)

	res, err := e.Compose(context.Background(), Request{BaseProductID: 1, Mode: ModeSampled}, nil)
	require.NoError(t, err)
	require.Equal(t, []int64{2}, res.ProductIDs())
	require.Equal(t, string(RoleAccessory), res.Items[len(res.Items)-1].Role)
}

func TestComposeItemsGroupedByRole(t *testing.T) {
	_, items := menCatalog()
	e := newTestEngine(t, newMemCatalog(items...), 9)

	res, err := e.Compose(context.Background(), Request{BaseProductID: 20, Mode: ModeSampled}, nil)
	require.NoError(t, err)
	prev := -1
	for _, it := range res.Items {
		order := roleOrder[Role(it.Role)]
		require.GreaterOrEqual(t, order, prev)
		prev = order
	}
}

func TestComposeRequestOverridesGenderAndCategory(t *testing.T) {
	base := product(1, "Unisex", "Tees", "white", 999)
	skirt := product(2, "Women", "Skirts", "pink", 999)
	e := newTestEngine(t, newMemCatalog(base, skirt, product(3, "Men", "Jeans", "blue", 999)), 1)

	res, err := e.Compose(context.Background(), Request{BaseProductID: 1, Gender: "women", BaseCategory: "Tops", Mode: ModeRanked}, nil)
	require.NoError(t, err)
	require.Equal(t, []int64{2}, res.ProductIDs())
}
