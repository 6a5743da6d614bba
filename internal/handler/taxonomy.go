package handler

import (
	"net/http"

	"github.com/amira/wardrobe-api/internal/apperror"
	"github.com/amira/wardrobe-api/internal/taxonomy"
)

// TaxonomyHandler serves the static wardrobe vocabulary so the frontend can
// build pickers without hardcoding it. Read-only; the data is process-wide
// constant.
type TaxonomyHandler struct{}

func NewTaxonomyHandler() *TaxonomyHandler {
	return &TaxonomyHandler{}
}

// HandleListCategories returns every main category with its subcategories.
//
// HTTP: GET /api/categories
func (h *TaxonomyHandler) HandleListCategories(w http.ResponseWriter, r *http.Request) {
	categories := make([]map[string]any, 0, len(taxonomy.Categories()))
	for _, name := range taxonomy.Categories() {
		categories = append(categories, map[string]any{
			"name":          name,
			"subcategories": taxonomy.Subcategories(name),
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"categories": categories})
}

// HandleGetCategory returns one category's subcategories.
//
// HTTP: GET /api/categories/{category}
func (h *TaxonomyHandler) HandleGetCategory(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("category")
	if !taxonomy.IsValidCategory(name, "") {
		writeError(w, apperror.NotFound("category", name))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"name":          name,
		"subcategories": taxonomy.Subcategories(name),
	})
}

// HandleListTags returns the full tag vocabulary grouped by tag group, plus
// the gender-style preference values.
//
// HTTP: GET /api/tags
func (h *TaxonomyHandler) HandleListTags(w http.ResponseWriter, r *http.Request) {
	groups := make(map[string][]string, len(taxonomy.TagGroups()))
	for _, group := range taxonomy.TagGroups() {
		groups[group] = taxonomy.TagsInGroup(group)
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"groups":        groups,
		"gender_styles": taxonomy.GenderStyles(),
	})
}

// HandleGetTagGroup returns the tags of a single group.
//
// HTTP: GET /api/tags/{group}
func (h *TaxonomyHandler) HandleGetTagGroup(w http.ResponseWriter, r *http.Request) {
	group := r.PathValue("group")
	tags := taxonomy.TagsInGroup(group)
	if len(tags) == 0 {
		writeError(w, apperror.NotFound("tag group", group))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"group": group,
		"tags":  tags,
	})
}
