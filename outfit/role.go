package outfit

import "strings"

// Role is the coarse garment function of a catalog item
type Role string

const (
	RoleTop       Role = "Top"
	RoleBottom    Role = "Bottom"
	RoleFootwear  Role = "Footwear"
	RoleAccessory Role = "Accessory"
	RoleOther     Role = "Other"
)

// roleOrder is the display order used when grouping outfit items
var roleOrder = map[Role]int{
	RoleTop:       0,
	RoleBottom:    1,
	RoleFootwear:  2,
	RoleAccessory: 3,
	RoleOther:     4,
}

// ParseRole maps a free-text role name to a Role, case-insensitive
func ParseRole(s string) Role {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "top":
		return RoleTop
	case "bottom":
		return RoleBottom
	case "footwear":
		return RoleFootwear
	case "accessory":
		return RoleAccessory
	default:
		return RoleOther
	}
}

type roleRule struct {
	role     Role
	keywords []string
}

// roleRules are checked in order; footwear must come before tops so that
// "Formal Shoes" or "Sneaker Socks" never land on a garment role.
var roleRules = []roleRule{
	{RoleFootwear, []string{"shoe", "sneaker", "boot", "sandal", "heel", "loafer", "flip flop", "slipper", "flats", "footwear", "trainer", "moccasin", "espadrille"}},
	{RoleTop, []string{"shirt", "tshirt", "t-shirt", "tee", "tops", "topwear", "crop top", "tank top", "blouse", "sweater", "hoodie", "jacket", "blazer", "coat", "kurta", "kurti", "tunic", "cardigan", "dress", "polo", "jumper", "waistcoat"}},
	{RoleBottom, []string{"jean", "pant", "trouser", "short", "skirt", "legging", "jogger", "chino", "bottomwear", "salwar", "palazzo", "capri", "culotte"}},
	{RoleAccessory, []string{"watch", "belt", "bag", "cap", "hat", "sunglass", "wallet", "jewel", "earring", "necklace", "bracelet", "pendant", "scarf", "scarves", "stole", "dupatta", "tie", "sock", "glove", "clutch", "backpack", "accessor", "hair"}},
}

// ClassifyRole maps an item's category, subcategory and name to a Role.
// Fields are tried in that order and the first field matching any rule wins.
func ClassifyRole(category, subCategory, name string) Role {
	for _, field := range []string{category, subCategory, name} {
		text := strings.ToLower(strings.TrimSpace(field))
		if text == "" {
			continue
		}
		for _, rule := range roleRules {
			for _, kw := range rule.keywords {
				if strings.Contains(text, kw) {
					return rule.role
				}
			}
		}
	}
	return RoleOther
}
