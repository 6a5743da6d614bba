// Package taxonomy holds the static wardrobe vocabulary: item categories with
// their subcategories, descriptive tag groups, and gender-style preferences.
//
// All of it is hand-curated, gender-neutral, process-wide constant data.
// The package exposes membership predicates only — there is no mutation, no
// error path, and lookups of unknown names return empty results rather than
// failing.
package taxonomy

// categoryOrder preserves declaration order for Categories(). Go maps do not
// iterate in a stable order, so the order lives in a separate slice.
var categoryOrder = []string{
	"top",
	"bottom",
	"outerwear",
	"footwear",
	"fullbody",
	"accessory",
	"misc",
}

// categories maps each main category to its subcategories.
var categories = map[string][]string{
	"top": {
		"t-shirt",
		"shirt",
		"blouse",
		"sweater",
		"hoodie",
		"tank-top",
		"polo",
		"cardigan",
	},
	"bottom": {
		"jeans",
		"pants",
		"shorts",
		"skirt",
		"leggings",
		"joggers",
		"dress-pants",
	},
	"outerwear": {
		"jacket",
		"coat",
		"blazer",
		"vest",
		"parka",
		"windbreaker",
		"trench-coat",
	},
	"footwear": {
		"sneakers",
		"boots",
		"sandals",
		"heels",
		"flats",
		"loafers",
		"dress-shoes",
	},
	"fullbody": {
		"dress",
		"jumpsuit",
		"romper",
		"overalls",
		"coveralls",
		"suit",
	},
	"accessory": {
		"hat",
		"scarf",
		"belt",
		"bag",
		"sunglasses",
		"jewelry",
		"watch",
		"tie",
	},
	"misc": {
		"underwear",
		"socks",
		"swimwear",
		"sleepwear",
		"other",
	},
}

// tagGroupOrder preserves declaration order for TagGroups().
var tagGroupOrder = []string{
	"colors",
	"patterns",
	"fit",
	"style",
	"material",
	"details",
	"season",
	"occasion",
}

// tagGroups is the controlled tag vocabulary, grouped by what the tag
// describes. Flat tag validation checks membership across the union of all
// groups, not within a specific group.
var tagGroups = map[string][]string{
	"colors": {
		"black", "white", "navy", "red", "blue", "green", "yellow", "pink",
		"purple", "brown", "gray", "grey", "beige", "orange", "cream", "tan",
		"maroon", "burgundy",
	},
	"patterns": {
		"solid", "striped", "floral", "plaid", "polka-dot", "checkered",
		"geometric", "animal-print", "paisley", "tie-dye", "camo",
	},
	"fit": {
		"slim-fit", "regular-fit", "loose-fit", "oversized", "tight",
		"relaxed", "athletic-fit", "tailored",
	},
	"style": {
		"casual", "formal", "sporty", "vintage", "minimalist", "streetwear",
		"bohemian", "preppy", "grunge", "chic", "edgy", "classic",
	},
	"material": {
		"cotton", "denim", "leather", "silk", "wool", "polyester", "linen",
		"cashmere", "suede", "velvet", "satin", "nylon", "spandex", "fleece",
	},
	"details": {
		"v-neck", "crew-neck", "button-down", "zip-up", "sleeveless",
		"long-sleeve", "short-sleeve", "hooded", "pockets", "distressed",
		"ripped", "embroidered", "pleated",
	},
	"season": {
		"summer", "winter", "spring", "fall", "all-season",
	},
	"occasion": {
		"work", "party", "athletic", "casual", "formal", "date-night",
		"lounge", "beach", "wedding", "interview",
	},
}

// genderStyles is the vocabulary for the profile's gender-style preference,
// used when filtering recommendations.
var genderStyles = []string{
	"mens",
	"womens",
	"unisex",
	"all",
}

// allTags is the union of every tag group, built once at init time so that
// AreValidTags is a set lookup rather than a scan per candidate.
var allTags = func() map[string]struct{} {
	set := make(map[string]struct{})
	for _, tags := range tagGroups {
		for _, tag := range tags {
			set[tag] = struct{}{}
		}
	}
	return set
}()

// Categories returns all main category names in declaration order.
func Categories() []string {
	out := make([]string, len(categoryOrder))
	copy(out, categoryOrder)
	return out
}

// Subcategories returns the subcategories of a main category.
// Unknown categories yield an empty slice, not an error.
func Subcategories(category string) []string {
	subs, ok := categories[category]
	if !ok {
		return nil
	}
	out := make([]string, len(subs))
	copy(out, subs)
	return out
}

// IsValidCategory reports whether category is known and, when subcategory is
// non-empty, whether it belongs to that category.
func IsValidCategory(category, subcategory string) bool {
	subs, ok := categories[category]
	if !ok {
		return false
	}
	if subcategory == "" {
		return true
	}
	for _, s := range subs {
		if s == subcategory {
			return true
		}
	}
	return false
}

// TagGroups returns all tag group names in declaration order.
func TagGroups() []string {
	out := make([]string, len(tagGroupOrder))
	copy(out, tagGroupOrder)
	return out
}

// TagsInGroup returns the tags of a single group ("colors", "patterns", ...).
// Unknown groups yield an empty slice.
func TagsInGroup(group string) []string {
	tags, ok := tagGroups[group]
	if !ok {
		return nil
	}
	out := make([]string, len(tags))
	copy(out, tags)
	return out
}

// AllTags returns the union of every tag group as a set. Order is not
// significant. The returned map is a copy; callers may modify it.
func AllTags() map[string]struct{} {
	out := make(map[string]struct{}, len(allTags))
	for tag := range allTags {
		out[tag] = struct{}{}
	}
	return out
}

// AreValidTags reports whether every candidate appears in some tag group.
// An empty input is vacuously valid.
func AreValidTags(candidates []string) bool {
	for _, tag := range candidates {
		if _, ok := allTags[tag]; !ok {
			return false
		}
	}
	return true
}

// GenderStyles returns the gender-style preference vocabulary.
func GenderStyles() []string {
	out := make([]string, len(genderStyles))
	copy(out, genderStyles)
	return out
}

// IsValidGenderStyle reports whether s is a known gender-style preference.
func IsValidGenderStyle(s string) bool {
	for _, g := range genderStyles {
		if g == s {
			return true
		}
	}
	return false
}
