package models

// OutfitItem is one slot of a composed look. Product is nil when the slot
// could not be filled.
type OutfitItem struct {
	Role              string             `json:"role"`
	SuggestedCategory string             `json:"suggestedCategory"`
	ColorHint         string             `json:"colorHint"`
	Reason            string             `json:"reason"`
	Product           *ProductProjection `json:"product"`
}

// OutfitResult is the composed look for one base product
type OutfitResult struct {
	Title         string       `json:"title"`
	Message       string       `json:"message,omitempty"`
	Policy        string       `json:"policy"`
	BaseProductID int64        `json:"baseProductId"`
	Items         []OutfitItem `json:"items"`
}

// ProductIDs returns the ids of the filled items in order
func (r *OutfitResult) ProductIDs() []int64 {
	var ids []int64
	for _, it := range r.Items {
		if it.Product != nil {
			ids = append(ids, it.Product.ID)
		}
	}
	return ids
}

// OutfitRequest represents the request body for POST /outfits
// Example: {"baseProductId": 42, "gender": "Men", "vibe": "streetwear", "excludedIds": [7, 9], "policy": "sampled", "sessionId": "..."}
type OutfitRequest struct {
	BaseProductID      int64    `json:"baseProductId"`
	Gender             string   `json:"gender,omitempty"`
	BaseCategory       string   `json:"baseCategory,omitempty"`
	Vibe               string   `json:"vibe,omitempty"`
	Mood               string   `json:"mood,omitempty"`
	ExcludedIDs        []int64  `json:"excludedIds,omitempty"`
	ExcludedCategories []string `json:"excludedCategories,omitempty"`
	Policy             string   `json:"policy"` // "ranked" or "sampled"
	SessionID          string   `json:"sessionId,omitempty"`
}

// OutfitResponse represents the response for POST /outfits.
// UsedProductIDs is what the client sends back as excludedIds on the next shuffle.
type OutfitResponse struct {
	Outfit         *OutfitResult `json:"outfit"`
	UsedProductIDs []int64       `json:"usedProductIds"`
	UsedCategories []string      `json:"usedCategories"`
	SessionID      string        `json:"sessionId,omitempty"`
}

// LookboardRequest represents the request body for POST /outfits/lookboard
// Example: {"productIds": [42, 7, 19]}
type LookboardRequest struct {
	ProductIDs []int64 `json:"productIds"`
}
