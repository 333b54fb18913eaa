package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gallerycms/internal/db"
	"github.com/gallerycms/internal/locale"
	"github.com/gallerycms/internal/service"
	"github.com/gin-gonic/gin"
)

type itemTranslationPayload struct {
	Language string `json:"language"`
	Name     string `json:"name"`
	Storage  string `json:"storage"`
}

// itemView 以请求语言解析译文并整理响应结构
func itemView(item db.Item, language string) gin.H {
	var english, chinese db.ItemTranslation
	translations := gin.H{}
	for _, translation := range item.Translations {
		translations[translation.Language] = gin.H{
			"name":    translation.Name,
			"storage": translation.Storage,
		}
		switch translation.Language {
		case locale.LanguageEnglish:
			english = translation
		case locale.LanguageChinese:
			chinese = translation
		}
	}

	view := gin.H{
		"id":           item.ID,
		"categoryId":   item.CategoryID,
		"name":         locale.Pick(language, english.Name, chinese.Name),
		"storage":      locale.Pick(language, english.Storage, chinese.Storage),
		"translations": translations,
		"dateAdded":    item.DateAdded,
		"updatedAt":    item.UpdatedAt,
	}

	if item.HasImage() {
		view["image"] = gin.H{
			"url":      item.ImageURL,
			"publicId": item.ImagePublicID,
			"width":    item.ImageWidth,
			"height":   item.ImageHeight,
		}
	} else {
		view["image"] = nil
	}

	return view
}

func itemViews(items []db.Item, language string) []gin.H {
	views := make([]gin.H, 0, len(items))
	for _, item := range items {
		views = append(views, itemView(item, language))
	}
	return views
}

// ListItems serves the public listing in either pagination mode. A non-empty
// nextCursor parameter selects cursor mode; everything else is offset mode.
func (a *API) ListItems(c *gin.Context) {
	order, err := service.ParseOrderBy(c.Query("orderBy"))
	if err != nil {
		respondError(c, http.StatusUnprocessableEntity, "invalid orderBy parameter")
		return
	}

	filter := service.ItemFilter{
		Search:     c.Query("search"),
		Categories: service.ParseCategoryList(c.Query("category")),
	}
	language := requestLanguage(c)

	cursor := strings.TrimSpace(c.Query("nextCursor"))
	pageRaw, hasPage := c.GetQuery("page")
	if cursor != "" && hasPage {
		respondError(c, http.StatusUnprocessableEntity, "page and nextCursor are mutually exclusive")
		return
	}

	if cursor != "" {
		feed, err := a.queries.ListCursor(filter, order, cursor)
		if err != nil {
			if errors.Is(err, service.ErrCursorInvalid) {
				respondError(c, http.StatusUnprocessableEntity, "invalid nextCursor parameter")
				return
			}
			respondError(c, http.StatusInternalServerError, "failed to list items")
			return
		}

		response := gin.H{"items": itemViews(feed.Items, language)}
		if feed.NextCursor != "" {
			response["nextCursor"] = feed.NextCursor
		}
		c.JSON(http.StatusOK, response)
		return
	}

	page, err := service.ParsePage(pageRaw)
	if err != nil {
		respondError(c, http.StatusUnprocessableEntity, "invalid page parameter")
		return
	}

	result, err := a.queries.ListOffset(filter, order, page)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to list items")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"items":      itemViews(result.Items, language),
		"totalCount": result.TotalCount,
		"page":       result.Page,
	})
}

// GetItem returns a single item with all of its translations.
func (a *API) GetItem(c *gin.Context) {
	item, err := a.items.Get(c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrItemNotFound) {
			respondError(c, http.StatusNotFound, "item not found")
			return
		}
		respondError(c, http.StatusInternalServerError, "failed to load item")
		return
	}

	c.JSON(http.StatusOK, gin.H{"item": itemView(*item, requestLanguage(c))})
}

// CreateItem creates a new item from a multipart form with an optional image.
func (a *API) CreateItem(c *gin.Context) {
	input, image, ok := a.bindItemForm(c)
	if !ok {
		return
	}

	item, err := a.items.Create(c.Request.Context(), input, image)
	if err != nil {
		a.respondItemError(c, err, "failed to create item")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "item created", "item": itemView(*item, requestLanguage(c))})
}

// UpdateItem updates metadata and optionally replaces the image.
func (a *API) UpdateItem(c *gin.Context) {
	input, image, ok := a.bindItemForm(c)
	if !ok {
		return
	}

	item, err := a.items.Update(c.Request.Context(), c.Param("id"), input, image)
	if err != nil {
		a.respondItemError(c, err, "failed to update item")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "item updated", "item": itemView(*item, requestLanguage(c))})
}

// DeleteItem removes an item and releases its hosted image.
func (a *API) DeleteItem(c *gin.Context) {
	if err := a.items.Delete(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, service.ErrItemNotFound) {
			respondError(c, http.StatusNotFound, "item not found")
			return
		}
		respondError(c, http.StatusInternalServerError, "failed to delete item")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "item deleted"})
}

func (a *API) respondItemError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, service.ErrItemNotFound):
		respondError(c, http.StatusNotFound, "item not found")
	case errors.Is(err, service.ErrItemIDInvalid):
		respondFieldError(c, http.StatusUnprocessableEntity, "item id must be alphanumeric", "id")
	case errors.Is(err, service.ErrItemExists):
		respondFieldError(c, http.StatusUnprocessableEntity, "item id already exists", "id")
	case errors.Is(err, service.ErrCategoryNotFound):
		respondFieldError(c, http.StatusUnprocessableEntity, "category does not exist", "categoryId")
	case errors.Is(err, service.ErrItemImageInvalid):
		respondFieldError(c, http.StatusUnprocessableEntity, "image could not be decoded", "image")
	default:
		respondError(c, http.StatusInternalServerError, fallback)
	}
}

func (a *API) bindItemForm(c *gin.Context) (service.ItemInput, *service.ImageUpload, bool) {
	input := service.ItemInput{ID: c.PostForm("id")}

	if raw := strings.TrimSpace(c.PostForm("categoryId")); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			respondFieldError(c, http.StatusUnprocessableEntity, "invalid category id", "categoryId")
			return input, nil, false
		}
		id := uint(parsed)
		input.CategoryID = &id
	}

	if raw := strings.TrimSpace(c.PostForm("translations")); raw != "" {
		var payload []itemTranslationPayload
		if err := json.Unmarshal([]byte(raw), &payload); err != nil {
			respondFieldError(c, http.StatusUnprocessableEntity, "invalid translations payload", "translations")
			return input, nil, false
		}
		for _, translation := range payload {
			input.Translations = append(input.Translations, service.ItemTranslationInput{
				Language: translation.Language,
				Name:     translation.Name,
				Storage:  translation.Storage,
			})
		}
	}

	file, err := c.FormFile("image")
	if err != nil {
		return input, nil, true
	}

	contentType := file.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		respondFieldError(c, http.StatusUnprocessableEntity, "only image uploads are allowed", "image")
		return input, nil, false
	}

	opened, err := file.Open()
	if err != nil {
		respondFieldError(c, http.StatusUnprocessableEntity, "image could not be read", "image")
		return input, nil, false
	}
	defer opened.Close()

	data, err := io.ReadAll(opened)
	if err != nil {
		respondFieldError(c, http.StatusUnprocessableEntity, "image could not be read", "image")
		return input, nil, false
	}

	return input, &service.ImageUpload{
		Filename:    file.Filename,
		ContentType: contentType,
		Data:        data,
	}, true
}
