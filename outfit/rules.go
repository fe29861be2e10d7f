package outfit

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Gender tags used by the catalog
const (
	GenderMen    = "Men"
	GenderWomen  = "Women"
	GenderKids   = "Kids"
	GenderUnisex = "Unisex"
)

// NormalizeGender maps catalog and client spellings onto the four gender tags.
// Unknown values return "".
func NormalizeGender(g string) string {
	switch strings.ToLower(strings.TrimSpace(g)) {
	case "men", "man", "male", "mens", "m":
		return GenderMen
	case "women", "woman", "female", "womens", "w", "f":
		return GenderWomen
	case "kids", "kid", "boys", "girls", "children":
		return GenderKids
	case "unisex", "u":
		return GenderUnisex
	default:
		return ""
	}
}

// RuleBook holds the static tables that drive slot planning and scoring.
// All tables are plain data; adding a category or vibe never changes code.
type RuleBook struct {
	// RolePlans is the coarse table: gender -> base role -> slots
	RolePlans map[string]map[Role][]Slot `json:"rolePlans" yaml:"rolePlans"`
	// CategoryPlans is the fine table: gender -> base category -> slots
	CategoryPlans map[string]map[string][]Slot `json:"categoryPlans" yaml:"categoryPlans"`
	// VibePreferences lists categories in descending preference per vibe
	VibePreferences map[string][]string `json:"vibePreferences" yaml:"vibePreferences"`
	// MoodKeywords are matched against item text in the strict cascade stage
	MoodKeywords map[string][]string `json:"moodKeywords" yaml:"moodKeywords"`
}

var (
	menBottoms    = []string{"Jeans", "Pants", "Trousers", "Shorts"}
	menTops       = []string{"Shirts", "Tshirts", "Sweatshirts", "Jackets"}
	menFootwear   = []string{"Sneakers", "Casual Shoes", "Formal Shoes", "Boots", "Sandals", "Loafers"}
	menAccessory  = []string{"Watches", "Belts", "Caps", "Sunglasses", "Backpacks"}
	womenTops     = []string{"Tops", "Shirts", "Tshirts", "Kurtas", "Jackets"}
	womenBottoms  = []string{"Jeans", "Skirts", "Trousers", "Shorts", "Leggings"}
	womenFootwear = []string{"Heels", "Flats", "Sneakers", "Sandals", "Boots"}
	womenAccess   = []string{"Handbags", "Earrings", "Necklaces", "Watches", "Sunglasses"}
	kidsTops      = []string{"Tshirts", "Shirts", "Sweatshirts", "Tops"}
	kidsBottoms   = []string{"Shorts", "Jeans", "Track Pants", "Skirts"}
	kidsFootwear  = []string{"Sneakers", "Sandals", "Casual Shoes"}
	kidsAccessory = []string{"Caps", "Backpacks", "Hair Accessories", "Watches"}
)

func slot(role Role, categories ...string) Slot {
	return Slot{Role: role, Categories: categories}
}

func rolePlan(tops, bottoms, footwear, accessories []string, extraAccessories []string) map[Role][]Slot {
	return map[Role][]Slot{
		RoleTop:      {slot(RoleBottom, bottoms...), slot(RoleFootwear, footwear...), slot(RoleAccessory, accessories...)},
		RoleBottom:   {slot(RoleTop, tops...), slot(RoleFootwear, footwear...), slot(RoleAccessory, accessories...)},
		RoleFootwear: {slot(RoleTop, tops...), slot(RoleBottom, bottoms...), slot(RoleAccessory, accessories...)},
		RoleAccessory: {
			slot(RoleTop, tops...),
			slot(RoleBottom, bottoms...),
			slot(RoleFootwear, footwear...),
			{Role: RoleAccessory, Categories: extraAccessories, AllowBaseRole: true},
		},
	}
}

// DefaultRuleBook returns the built-in tables
func DefaultRuleBook() *RuleBook {
	return &RuleBook{
		RolePlans: map[string]map[Role][]Slot{
			GenderMen:    rolePlan(menTops, menBottoms, menFootwear, menAccessory, []string{"Belts", "Wallets", "Sunglasses"}),
			GenderWomen:  rolePlan(womenTops, womenBottoms, womenFootwear, womenAccess, []string{"Earrings", "Scarves", "Sunglasses"}),
			GenderKids:   rolePlan(kidsTops, kidsBottoms, kidsFootwear, kidsAccessory, []string{"Caps", "Hair Accessories"}),
			GenderUnisex: rolePlan([]string{"Tshirts", "Sweatshirts", "Shirts"}, []string{"Jeans", "Track Pants", "Shorts"}, []string{"Sneakers", "Sandals"}, []string{"Caps", "Backpacks", "Sunglasses"}, []string{"Backpacks", "Caps"}),
		},
		CategoryPlans: map[string]map[string][]Slot{
			GenderMen: {
				"Shirts":       {slot(RoleBottom, "Jeans", "Pants", "Trousers", "Shorts"), slot(RoleFootwear, "Sneakers", "Casual Shoes", "Loafers", "Boots"), slot(RoleAccessory, "Watches", "Belts", "Sunglasses")},
				"Tshirts":      {slot(RoleBottom, "Jeans", "Shorts", "Track Pants", "Pants"), slot(RoleFootwear, "Sneakers", "Casual Shoes", "Sandals"), slot(RoleAccessory, "Caps", "Watches", "Backpacks")},
				"Sweatshirts":  {slot(RoleBottom, "Jeans", "Track Pants", "Joggers"), slot(RoleFootwear, "Sneakers", "Boots"), slot(RoleAccessory, "Caps", "Backpacks")},
				"Jackets":      {slot(RoleBottom, "Jeans", "Trousers", "Chinos"), slot(RoleFootwear, "Boots", "Sneakers"), slot(RoleAccessory, "Scarves", "Watches")},
				"Blazers":      {slot(RoleBottom, "Trousers", "Chinos"), slot(RoleFootwear, "Formal Shoes", "Loafers"), slot(RoleAccessory, "Ties", "Watches", "Belts")},
				"Jeans":        {slot(RoleTop, "Tshirts", "Shirts", "Sweatshirts", "Jackets"), slot(RoleFootwear, "Sneakers", "Casual Shoes", "Boots"), slot(RoleAccessory, "Belts", "Watches")},
				"Trousers":     {slot(RoleTop, "Shirts", "Blazers", "Sweaters"), slot(RoleFootwear, "Formal Shoes", "Loafers"), slot(RoleAccessory, "Belts", "Ties", "Watches")},
				"Shorts":       {slot(RoleTop, "Tshirts", "Shirts"), slot(RoleFootwear, "Sandals", "Sneakers", "Flip Flops"), slot(RoleAccessory, "Caps", "Sunglasses")},
				"Track Pants":  {slot(RoleTop, "Tshirts", "Sweatshirts"), slot(RoleFootwear, "Sports Shoes", "Sneakers"), slot(RoleAccessory, "Caps", "Backpacks")},
				"Sneakers":     {slot(RoleTop, "Tshirts", "Sweatshirts"), slot(RoleBottom, "Jeans", "Track Pants", "Shorts"), slot(RoleAccessory, "Caps", "Backpacks")},
				"Casual Shoes": {slot(RoleTop, "Shirts", "Tshirts"), slot(RoleBottom, "Jeans", "Chinos"), slot(RoleAccessory, "Watches", "Belts")},
				"Formal Shoes": {slot(RoleTop, "Shirts", "Blazers"), slot(RoleBottom, "Trousers"), slot(RoleAccessory, "Belts", "Ties", "Watches")},
				"Watches":      {slot(RoleTop, "Shirts", "Tshirts"), slot(RoleBottom, "Jeans", "Trousers"), slot(RoleFootwear, "Sneakers", "Formal Shoes")},
			},
			GenderWomen: {
				"Tops":     {slot(RoleBottom, "Jeans", "Skirts", "Trousers", "Shorts"), slot(RoleFootwear, "Heels", "Flats", "Sneakers"), slot(RoleAccessory, "Handbags", "Earrings", "Necklaces")},
				"Shirts":   {slot(RoleBottom, "Trousers", "Jeans", "Skirts"), slot(RoleFootwear, "Flats", "Heels", "Loafers"), slot(RoleAccessory, "Handbags", "Watches")},
				"Tshirts":  {slot(RoleBottom, "Jeans", "Shorts", "Skirts", "Leggings"), slot(RoleFootwear, "Sneakers", "Flats", "Sandals"), slot(RoleAccessory, "Sunglasses", "Handbags", "Caps")},
				"Kurtas":   {slot(RoleBottom, "Leggings", "Salwar", "Palazzos"), slot(RoleFootwear, "Flats", "Sandals"), slot(RoleAccessory, "Earrings", "Dupatta", "Clutches")},
				"Dresses":  {slot(RoleFootwear, "Heels", "Flats", "Sandals"), slot(RoleAccessory, "Handbags", "Clutches"), {Role: RoleAccessory, Categories: []string{"Earrings", "Necklaces", "Sunglasses"}}},
				"Jackets":  {slot(RoleBottom, "Jeans", "Trousers"), slot(RoleFootwear, "Boots", "Sneakers"), slot(RoleAccessory, "Scarves", "Handbags")},
				"Jeans":    {slot(RoleTop, "Tops", "Tshirts", "Shirts", "Jackets"), slot(RoleFootwear, "Sneakers", "Heels", "Flats"), slot(RoleAccessory, "Handbags", "Sunglasses")},
				"Skirts":   {slot(RoleTop, "Tops", "Shirts", "Tshirts"), slot(RoleFootwear, "Heels", "Flats", "Sandals"), slot(RoleAccessory, "Handbags", "Earrings")},
				"Trousers": {slot(RoleTop, "Shirts", "Tops", "Blazers"), slot(RoleFootwear, "Heels", "Loafers", "Flats"), slot(RoleAccessory, "Handbags", "Watches")},
				"Leggings": {slot(RoleTop, "Kurtas", "Tunics", "Tshirts"), slot(RoleFootwear, "Flats", "Sneakers"), slot(RoleAccessory, "Earrings", "Handbags")},
				"Heels":    {slot(RoleTop, "Tops", "Dresses"), slot(RoleBottom, "Jeans", "Skirts", "Trousers"), slot(RoleAccessory, "Clutches", "Earrings")},
				"Flats":    {slot(RoleTop, "Kurtas", "Tops", "Tshirts"), slot(RoleBottom, "Jeans", "Leggings", "Skirts"), slot(RoleAccessory, "Handbags", "Earrings")},
				"Sneakers": {slot(RoleTop, "Tshirts", "Tops", "Sweatshirts"), slot(RoleBottom, "Jeans", "Shorts", "Leggings"), slot(RoleAccessory, "Caps", "Backpacks")},
				"Handbags": {slot(RoleTop, "Tops", "Dresses", "Kurtas"), slot(RoleBottom, "Jeans", "Skirts", "Trousers"), slot(RoleFootwear, "Heels", "Flats")},
			},
			GenderKids: {
				"Tshirts":  {slot(RoleBottom, "Shorts", "Jeans", "Track Pants"), slot(RoleFootwear, "Sneakers", "Sandals"), slot(RoleAccessory, "Caps", "Backpacks")},
				"Shirts":   {slot(RoleBottom, "Jeans", "Shorts"), slot(RoleFootwear, "Casual Shoes", "Sneakers"), slot(RoleAccessory, "Caps", "Watches")},
				"Dresses":  {slot(RoleFootwear, "Flats", "Sandals", "Sneakers"), slot(RoleAccessory, "Hair Accessories", "Backpacks")},
				"Shorts":   {slot(RoleTop, "Tshirts", "Shirts"), slot(RoleFootwear, "Sandals", "Sneakers"), slot(RoleAccessory, "Caps")},
				"Jeans":    {slot(RoleTop, "Tshirts", "Shirts", "Sweatshirts"), slot(RoleFootwear, "Sneakers", "Casual Shoes"), slot(RoleAccessory, "Caps", "Backpacks")},
				"Sneakers": {slot(RoleTop, "Tshirts", "Sweatshirts"), slot(RoleBottom, "Jeans", "Shorts", "Track Pants"), slot(RoleAccessory, "Caps", "Backpacks")},
			},
		},
		VibePreferences: map[string][]string{
			"streetwear": {"Sweatshirts", "Tshirts", "Jackets", "Joggers", "Track Pants", "Jeans", "Sneakers", "Caps", "Backpacks"},
			"formal":     {"Blazers", "Shirts", "Trousers", "Formal Shoes", "Loafers", "Ties", "Belts", "Watches"},
			"casual":     {"Tshirts", "Shirts", "Jeans", "Shorts", "Sneakers", "Casual Shoes", "Sandals", "Caps", "Sunglasses"},
			"ethnic":     {"Kurtas", "Leggings", "Salwar", "Palazzos", "Dupatta", "Flats", "Sandals", "Earrings"},
			"sporty":     {"Track Pants", "Tshirts", "Shorts", "Sports Shoes", "Sneakers", "Caps", "Backpacks"},
			"party":      {"Dresses", "Tops", "Skirts", "Heels", "Clutches", "Earrings", "Necklaces", "Watches"},
		},
		MoodKeywords: map[string][]string{
			"streetwear": {"oversized", "graphic", "cargo", "hoodie", "jogger", "sneaker", "bomber", "denim"},
			"formal":     {"formal", "slim", "tailored", "oxford", "leather", "blazer", "derby"},
			"casual":     {"casual", "cotton", "relaxed", "everyday", "denim"},
			"ethnic":     {"kurta", "ethnic", "embroidered", "printed", "silk", "festive"},
			"sporty":     {"sport", "running", "training", "track", "active", "dry"},
			"party":      {"party", "sequin", "satin", "glitter", "evening", "heel"},
		},
	}
}

// LoadRuleBook reads an override file (.json, .yaml or .yml) and merges it
// over the built-in tables. Entries in the file replace built-in entries with
// the same key.
func LoadRuleBook(path string) (*RuleBook, error) {
	book := DefaultRuleBook()
	if path == "" {
		return book, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rule book: %w", err)
	}

	var override RuleBook
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &override)
	default:
		err = json.Unmarshal(data, &override)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse rule book: %w", err)
	}

	book.merge(&override)
	if err := book.Validate(); err != nil {
		return nil, fmt.Errorf("invalid rule book: %w", err)
	}
	return book, nil
}

func (b *RuleBook) merge(o *RuleBook) {
	for g, plans := range o.RolePlans {
		if b.RolePlans[g] == nil {
			b.RolePlans[g] = map[Role][]Slot{}
		}
		for role, slots := range plans {
			b.RolePlans[g][role] = slots
		}
	}
	for g, plans := range o.CategoryPlans {
		if b.CategoryPlans[g] == nil {
			b.CategoryPlans[g] = map[string][]Slot{}
		}
		for cat, slots := range plans {
			b.CategoryPlans[g][cat] = slots
		}
	}
	for vibe, prefs := range o.VibePreferences {
		b.VibePreferences[vibe] = prefs
	}
	for vibe, kws := range o.MoodKeywords {
		b.MoodKeywords[vibe] = kws
	}
}

// Validate checks that every slot names a fillable role and at least one
// category, and that no two keys of a table differ only by case.
func (b *RuleBook) Validate() error {
	for g, plans := range b.RolePlans {
		if NormalizeGender(g) != g {
			return fmt.Errorf("role plan has unknown gender %q", g)
		}
		for role, slots := range plans {
			if err := validateSlots(fmt.Sprintf("%s/%s", g, role), slots); err != nil {
				return err
			}
		}
	}
	for g, plans := range b.CategoryPlans {
		if NormalizeGender(g) != g {
			return fmt.Errorf("category plan has unknown gender %q", g)
		}
		seen := map[string]string{}
		for cat, slots := range plans {
			folded := strings.ToLower(cat)
			if prev, ok := seen[folded]; ok {
				return fmt.Errorf("category plan %s has keys %q and %q that differ only by case", g, prev, cat)
			}
			seen[folded] = cat
			if err := validateSlots(fmt.Sprintf("%s/%s", g, cat), slots); err != nil {
				return err
			}
		}
	}
	for vibe, prefs := range b.VibePreferences {
		if len(prefs) == 0 {
			return fmt.Errorf("vibe %q has no category preferences", vibe)
		}
	}
	return nil
}

func validateSlots(key string, slots []Slot) error {
	for i, s := range slots {
		switch s.Role {
		case RoleTop, RoleBottom, RoleFootwear, RoleAccessory:
		default:
			return fmt.Errorf("plan %s slot %d has invalid role %q", key, i, s.Role)
		}
		if len(s.Categories) == 0 {
			return fmt.Errorf("plan %s slot %d has no categories", key, i)
		}
	}
	return nil
}

// lookupFold returns m[key] or, failing that, the entry whose key matches
// case-insensitively.
func lookupFold[V any](m map[string]V, key string) (V, bool) {
	if v, ok := m[key]; ok {
		return v, true
	}
	for k, v := range m {
		if strings.EqualFold(k, key) {
			return v, true
		}
	}
	var zero V
	return zero, false
}
