package handler

import (
	"github.com/gallerycms/internal/email"
	"github.com/gallerycms/internal/imagehost"
	"github.com/gallerycms/internal/service"
	"gorm.io/gorm"
)

// API bundles shared dependencies for HTTP handlers.
type API struct {
	db         *gorm.DB
	queries    *service.ItemQueryService
	items      *service.ItemService
	categories *service.CategoryService
	auth       *service.AuthService
	baseURL    string
}

// NewAPI constructs a handler set with shared services.
func NewAPI(gdb *gorm.DB, images imagehost.Host, mail email.Sender, baseURL string) *API {
	return &API{
		db:         gdb,
		queries:    service.NewItemQueryService(gdb),
		items:      service.NewItemService(gdb, images),
		categories: service.NewCategoryService(gdb),
		auth:       service.NewAuthService(gdb, mail, baseURL),
		baseURL:    baseURL,
	}
}
