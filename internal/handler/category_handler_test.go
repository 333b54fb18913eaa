package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gallerycms/internal/db"
	"github.com/gin-gonic/gin"
)

func postJSON(t *testing.T, handlerFunc gin.HandlerFunc, target string, payload any, params gin.Params) *httptest.ResponseRecorder {
	t.Helper()

	body, _ := json.Marshal(payload)
	req := httptest.NewRequest(http.MethodPost, target, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = req
	c.Params = params

	handlerFunc(c)
	return w
}

func categoryBody(names map[string]string) map[string]any {
	translations := make([]map[string]string, 0, len(names))
	for language, name := range names {
		translations = append(translations, map[string]string{"language": language, "name": name})
	}
	return map[string]any{"translations": translations}
}

func TestCreateCategoryDuplicateName(t *testing.T) {
	api, cleanup := setupTestDB(t)
	defer cleanup()

	w := postJSON(t, api.CreateCategory, "/api/categories", categoryBody(map[string]string{"en": "Cameras"}), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	w = postJSON(t, api.CreateCategory, "/api/categories", categoryBody(map[string]string{"en": "Cameras"}), nil)
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected status 422, got %d", w.Code)
	}
	response := decodeBody(t, w)
	errBody := response["error"].(map[string]any)
	if errBody["target"] != "name" {
		t.Fatalf("expected target name, got %v", errBody["target"])
	}
}

func TestCreateCategoryNameTooLong(t *testing.T) {
	api, cleanup := setupTestDB(t)
	defer cleanup()

	w := postJSON(t, api.CreateCategory, "/api/categories", categoryBody(map[string]string{"en": "abcdefghijklmnopqrstu"}), nil)
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected status 422, got %d", w.Code)
	}
}

func TestListCategoriesLocaleResolved(t *testing.T) {
	api, cleanup := setupTestDB(t)
	defer cleanup()

	category := db.Category{}
	if err := db.DB.Create(&category).Error; err != nil {
		t.Fatalf("failed to seed category: %v", err)
	}
	for _, translation := range []db.CategoryTranslation{
		{CategoryID: category.ID, Language: "en", Name: "Cameras"},
		{CategoryID: category.ID, Language: "zh", Name: "相机"},
	} {
		if err := db.DB.Create(&translation).Error; err != nil {
			t.Fatalf("failed to seed translation: %v", err)
		}
	}

	w := performGet(t, api.ListCategories, "/api/categories?lang=zh")
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	body := decodeBody(t, w)
	first := body["categories"].([]any)[0].(map[string]any)
	if first["name"] != "相机" {
		t.Fatalf("expected chinese name, got %v", first["name"])
	}
}

func TestUpdateCategoryNotFound(t *testing.T) {
	api, cleanup := setupTestDB(t)
	defer cleanup()

	body, _ := json.Marshal(categoryBody(map[string]string{"en": "Ghost"}))
	req := httptest.NewRequest(http.MethodPut, "/api/categories/999", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = req
	c.Params = gin.Params{gin.Param{Key: "id", Value: "999"}}

	api.UpdateCategory(c)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", w.Code)
	}
}

func TestDeleteCategoryDisassociatesItems(t *testing.T) {
	api, cleanup := setupTestDB(t)
	defer cleanup()

	category := db.Category{}
	if err := db.DB.Create(&category).Error; err != nil {
		t.Fatalf("failed to seed category: %v", err)
	}
	item := db.Item{ID: "camera01", CategoryID: &category.ID}
	if err := db.DB.Create(&item).Error; err != nil {
		t.Fatalf("failed to seed item: %v", err)
	}

	req := httptest.NewRequest(http.MethodDelete, "/api/categories/"+strconv.Itoa(int(category.ID)), nil)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = req
	c.Params = gin.Params{gin.Param{Key: "id", Value: strconv.Itoa(int(category.ID))}}

	api.DeleteCategory(c)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var reloaded db.Item
	if err := db.DB.First(&reloaded, "id = ?", "camera01").Error; err != nil {
		t.Fatalf("item must survive category deletion: %v", err)
	}
	if reloaded.CategoryID != nil {
		t.Fatalf("expected item disassociated, got %v", *reloaded.CategoryID)
	}
}
