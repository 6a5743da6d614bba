package taxonomy

import (
	"testing"
)

func TestCategoriesOrder(t *testing.T) {
	want := []string{"top", "bottom", "outerwear", "footwear", "fullbody", "accessory", "misc"}

	got := Categories()
	if len(got) != len(want) {
		t.Fatalf("Categories() returned %d categories, want %d", len(got), len(want))
	}
	for i, name := range want {
		if got[i] != name {
			t.Errorf("Categories()[%d] = %q, want %q", i, got[i], name)
		}
	}
}

func TestEveryDeclaredPairIsValid(t *testing.T) {
	// Every category/subcategory pair in the registry must validate.
	for _, category := range Categories() {
		if !IsValidCategory(category, "") {
			t.Errorf("IsValidCategory(%q, \"\") = false, want true", category)
		}
		for _, sub := range Subcategories(category) {
			if !IsValidCategory(category, sub) {
				t.Errorf("IsValidCategory(%q, %q) = false, want true", category, sub)
			}
		}
	}
}

func TestIsValidCategoryRejectsUnknown(t *testing.T) {
	tests := []struct {
		name        string
		category    string
		subcategory string
	}{
		{"unknown category", "headwear", ""},
		{"unknown category with subcategory", "headwear", "hat"},
		{"known category, unknown subcategory", "top", "jeans"},
		{"subcategory of a different category", "bottom", "t-shirt"},
		{"empty category", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if IsValidCategory(tt.category, tt.subcategory) {
				t.Errorf("IsValidCategory(%q, %q) = true, want false", tt.category, tt.subcategory)
			}
		})
	}
}

func TestSubcategoriesUnknownIsEmpty(t *testing.T) {
	if subs := Subcategories("headwear"); len(subs) != 0 {
		t.Errorf("Subcategories(unknown) = %v, want empty", subs)
	}
}

func TestAreValidTags(t *testing.T) {
	tests := []struct {
		name string
		tags []string
		want bool
	}{
		{"empty input is vacuously valid", nil, true},
		{"tags from different groups", []string{"black", "casual"}, true},
		{"full outfit description", []string{"black", "casual", "cotton", "slim-fit"}, true},
		{"unknown tag", []string{"not-a-tag"}, false},
		{"one bad tag spoils the batch", []string{"black", "not-a-tag"}, false},
		{"group names are not tags", []string{"colors"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AreValidTags(tt.tags); got != tt.want {
				t.Errorf("AreValidTags(%v) = %v, want %v", tt.tags, got, tt.want)
			}
		})
	}
}

func TestAllTagsIsTheUnionOfEveryGroup(t *testing.T) {
	all := AllTags()
	total := 0
	for _, group := range TagGroups() {
		for _, tag := range TagsInGroup(group) {
			total++
			if _, ok := all[tag]; !ok {
				t.Errorf("AllTags() is missing %q from group %q", tag, group)
			}
		}
	}
	// "casual" and "formal" appear in both style and occasion, so the set is
	// strictly smaller than the sum of group sizes.
	if len(all) >= total {
		t.Errorf("AllTags() has %d entries, expected deduplication below %d", len(all), total)
	}
}

func TestTagsInGroupUnknownIsEmpty(t *testing.T) {
	if tags := TagsInGroup("moods"); len(tags) != 0 {
		t.Errorf("TagsInGroup(unknown) = %v, want empty", tags)
	}
}

func TestGenderStyles(t *testing.T) {
	for _, s := range []string{"mens", "womens", "unisex", "all"} {
		if !IsValidGenderStyle(s) {
			t.Errorf("IsValidGenderStyle(%q) = false, want true", s)
		}
	}
	if IsValidGenderStyle("other") {
		t.Error("IsValidGenderStyle(\"other\") = true, want false")
	}
	if IsValidGenderStyle("") {
		t.Error("IsValidGenderStyle(\"\") = true, want false")
	}
}

func TestReturnedSlicesAreCopies(t *testing.T) {
	// Mutating a returned slice must not corrupt the registry.
	cats := Categories()
	cats[0] = "corrupted"
	if Categories()[0] != "top" {
		t.Error("Categories() exposes internal state")
	}

	subs := Subcategories("top")
	subs[0] = "corrupted"
	if Subcategories("top")[0] != "t-shirt" {
		t.Error("Subcategories() exposes internal state")
	}
}
