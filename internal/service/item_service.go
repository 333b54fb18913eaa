package service

import (
	"bytes"
	"context"
	"errors"
	"log"
	"regexp"
	"strings"

	"github.com/gallerycms/internal/db"
	"github.com/gallerycms/internal/imagehost"
	"github.com/gallerycms/internal/locale"
	"gorm.io/gorm"
)

var (
	ErrItemNotFound     = errors.New("item not found")
	ErrItemExists       = errors.New("item id already exists")
	ErrItemIDInvalid    = errors.New("item id must be alphanumeric")
	ErrItemImageInvalid = errors.New("item image could not be decoded")
)

var itemIDPattern = regexp.MustCompile(`^[a-zA-Z0-9]+$`)

// ItemService handles item CRUD and the image lifecycle at the image host.
type ItemService struct {
	db     *gorm.DB
	images imagehost.Host
}

// ItemTranslationInput 是单一语言下的藏品译文
type ItemTranslationInput struct {
	Language string
	Name     string
	Storage  string
}

// ItemInput represents fields accepted when creating or updating an item.
type ItemInput struct {
	ID           string
	CategoryID   *uint
	Translations []ItemTranslationInput
}

// ImageUpload carries a raw uploaded image file.
type ImageUpload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// NewItemService creates an ItemService instance.
func NewItemService(gdb *gorm.DB, images imagehost.Host) *ItemService {
	return &ItemService{db: gdb, images: images}
}

// Get fetches an item with its translations by id.
func (s *ItemService) Get(id string) (*db.Item, error) {
	var item db.Item
	if err := s.db.Preload("Translations").First(&item, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, err
	}
	return &item, nil
}

// Create inserts a new item, uploading its image first when one is provided.
// 上传成功但随后的写库失败会在图床留下孤儿对象，这是已知风险，由人工清理。
func (s *ItemService) Create(ctx context.Context, input ItemInput, image *ImageUpload) (*db.Item, error) {
	id := strings.TrimSpace(input.ID)
	if !itemIDPattern.MatchString(id) {
		return nil, ErrItemIDInvalid
	}

	var existing db.Item
	if err := s.db.First(&existing, "id = ?", id).Error; err == nil {
		return nil, ErrItemExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if input.CategoryID != nil {
		if err := s.categoryExists(*input.CategoryID); err != nil {
			return nil, err
		}
	}

	item := db.Item{
		ID:         id,
		CategoryID: input.CategoryID,
	}

	if image != nil {
		uploaded, width, height, err := s.uploadImage(ctx, image)
		if err != nil {
			return nil, err
		}
		item.ImageURL = uploaded.URL
		item.ImagePublicID = uploaded.PublicID
		item.ImageWidth = width
		item.ImageHeight = height
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&item).Error; err != nil {
			return err
		}
		return replaceItemTranslations(tx, item.ID, input.Translations)
	})
	if err != nil {
		return nil, err
	}

	return s.Get(item.ID)
}

// Update modifies an existing item. A replacement image is uploaded before the
// row update; the previous object is destroyed only after both have succeeded.
func (s *ItemService) Update(ctx context.Context, id string, input ItemInput, image *ImageUpload) (*db.Item, error) {
	var item db.Item
	if err := s.db.First(&item, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, err
	}

	if input.CategoryID != nil {
		if err := s.categoryExists(*input.CategoryID); err != nil {
			return nil, err
		}
	}

	previousPublicID := ""
	item.CategoryID = input.CategoryID

	if image != nil {
		uploaded, width, height, err := s.uploadImage(ctx, image)
		if err != nil {
			return nil, err
		}
		previousPublicID = item.ImagePublicID
		item.ImageURL = uploaded.URL
		item.ImagePublicID = uploaded.PublicID
		item.ImageWidth = width
		item.ImageHeight = height
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&item).Error; err != nil {
			return err
		}
		return replaceItemTranslations(tx, item.ID, input.Translations)
	})
	if err != nil {
		return nil, err
	}

	if previousPublicID != "" {
		if err := s.images.Destroy(ctx, previousPublicID); err != nil {
			log.Printf("failed to destroy replaced image %s: %v", previousPublicID, err)
		}
	}

	return s.Get(item.ID)
}

// Delete removes an item and releases its image at the host.
func (s *ItemService) Delete(ctx context.Context, id string) error {
	var item db.Item
	if err := s.db.First(&item, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrItemNotFound
		}
		return err
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("item_id = ?", item.ID).Delete(&db.ItemTranslation{}).Error; err != nil {
			return err
		}
		return tx.Delete(&item).Error
	})
	if err != nil {
		return err
	}

	if item.HasImage() {
		if err := s.images.Destroy(ctx, item.ImagePublicID); err != nil {
			log.Printf("failed to destroy image %s of deleted item %s: %v", item.ImagePublicID, item.ID, err)
		}
	}

	return nil
}

func (s *ItemService) categoryExists(id uint) error {
	var category db.Category
	if err := s.db.First(&category, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCategoryNotFound
		}
		return err
	}
	return nil
}

func (s *ItemService) uploadImage(ctx context.Context, image *ImageUpload) (imagehost.Upload, int, int, error) {
	width, height, err := probeImageSize(image.Data)
	if err != nil {
		return imagehost.Upload{}, 0, 0, err
	}

	uploaded, err := s.images.Upload(ctx, image.Filename, image.ContentType,
		bytes.NewReader(image.Data), int64(len(image.Data)))
	if err != nil {
		return imagehost.Upload{}, 0, 0, err
	}

	return uploaded, width, height, nil
}

func replaceItemTranslations(tx *gorm.DB, itemID string, inputs []ItemTranslationInput) error {
	if err := tx.Where("item_id = ?", itemID).Delete(&db.ItemTranslation{}).Error; err != nil {
		return err
	}

	for _, input := range inputs {
		language := locale.NormalizeLanguage(input.Language)
		if language == "" {
			continue
		}

		name := sanitizeText(input.Name)
		storage := sanitizeText(input.Storage)
		if name == "" && storage == "" {
			continue
		}

		translation := db.ItemTranslation{
			ItemID:   itemID,
			Language: language,
			Name:     name,
			Storage:  storage,
		}
		if err := tx.Create(&translation).Error; err != nil {
			return err
		}
	}

	return nil
}
