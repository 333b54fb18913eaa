package handler

import (
	"errors"
	"net/http"

	"github.com/gallerycms/internal/db"
	"github.com/gallerycms/internal/locale"
	"github.com/gallerycms/internal/service"
	"github.com/gin-gonic/gin"
)

type categoryPayload struct {
	Translations []struct {
		Language string `json:"language"`
		Name     string `json:"name"`
	} `json:"translations" binding:"required"`
}

func (p categoryPayload) toInputs() []service.CategoryTranslationInput {
	inputs := make([]service.CategoryTranslationInput, 0, len(p.Translations))
	for _, translation := range p.Translations {
		inputs = append(inputs, service.CategoryTranslationInput{
			Language: translation.Language,
			Name:     translation.Name,
		})
	}
	return inputs
}

func categoryView(category db.Category, language string) gin.H {
	var english, chinese string
	translations := gin.H{}
	for _, translation := range category.Translations {
		translations[translation.Language] = translation.Name
		switch translation.Language {
		case locale.LanguageEnglish:
			english = translation.Name
		case locale.LanguageChinese:
			chinese = translation.Name
		}
	}

	return gin.H{
		"id":           category.ID,
		"name":         locale.Pick(language, english, chinese),
		"translations": translations,
	}
}

// ListCategories returns all categories with locale-resolved names.
func (a *API) ListCategories(c *gin.Context) {
	categories, err := a.categories.List()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to list categories")
		return
	}

	language := requestLanguage(c)
	views := make([]gin.H, 0, len(categories))
	for _, category := range categories {
		views = append(views, categoryView(category, language))
	}

	c.JSON(http.StatusOK, gin.H{"categories": views})
}

// CreateCategory creates a new category.
func (a *API) CreateCategory(c *gin.Context) {
	var payload categoryPayload
	if !bindJSON(c, &payload, "invalid category payload") {
		return
	}

	category, err := a.categories.Create(payload.toInputs())
	if err != nil {
		a.respondCategoryError(c, err, "failed to create category")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "category created", "category": categoryView(*category, requestLanguage(c))})
}

// UpdateCategory replaces the category's translated names.
func (a *API) UpdateCategory(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusUnprocessableEntity, "invalid category id")
		return
	}

	var payload categoryPayload
	if !bindJSON(c, &payload, "invalid category payload") {
		return
	}

	category, err := a.categories.Update(id, payload.toInputs())
	if err != nil {
		a.respondCategoryError(c, err, "failed to update category")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "category updated", "category": categoryView(*category, requestLanguage(c))})
}

// DeleteCategory removes a category and disassociates its items.
func (a *API) DeleteCategory(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusUnprocessableEntity, "invalid category id")
		return
	}

	if err := a.categories.Delete(id); err != nil {
		a.respondCategoryError(c, err, "failed to delete category")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "category deleted"})
}

func (a *API) respondCategoryError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, service.ErrCategoryNotFound):
		respondError(c, http.StatusNotFound, "category not found")
	case errors.Is(err, service.ErrCategoryNameExists):
		respondFieldError(c, http.StatusUnprocessableEntity, "category name already exists", "name")
	case errors.Is(err, service.ErrCategoryNameRequired):
		respondFieldError(c, http.StatusUnprocessableEntity, "category name is required", "name")
	case errors.Is(err, service.ErrCategoryNameTooLong):
		respondFieldError(c, http.StatusUnprocessableEntity, "category name exceeds 20 characters", "name")
	default:
		respondError(c, http.StatusInternalServerError, fallback)
	}
}
