package service

import (
	"errors"
	"unicode/utf8"

	"github.com/gallerycms/internal/db"
	"github.com/gallerycms/internal/locale"
	"gorm.io/gorm"
)

var (
	ErrCategoryNotFound     = errors.New("category not found")
	ErrCategoryNameExists   = errors.New("category name already exists")
	ErrCategoryNameRequired = errors.New("category name is required")
	ErrCategoryNameTooLong  = errors.New("category name exceeds 20 characters")
)

// maxCategoryNameLength 是单语言分类名的最大长度
const maxCategoryNameLength = 20

// CategoryService wraps category related operations.
type CategoryService struct {
	db *gorm.DB
}

// CategoryTranslationInput 是单一语言下的分类名称
type CategoryTranslationInput struct {
	Language string
	Name     string
}

// NewCategoryService creates a CategoryService instance.
func NewCategoryService(gdb *gorm.DB) *CategoryService {
	return &CategoryService{db: gdb}
}

// List returns all categories with their translations, oldest first.
func (s *CategoryService) List() ([]db.Category, error) {
	var categories []db.Category
	if err := s.db.Preload("Translations").Order("id asc").Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

// Get fetches a category with its translations by id.
func (s *CategoryService) Get(id uint) (*db.Category, error) {
	var category db.Category
	if err := s.db.Preload("Translations").First(&category, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}
	return &category, nil
}

// Create inserts a new category with per-language unique names.
func (s *CategoryService) Create(inputs []CategoryTranslationInput) (*db.Category, error) {
	translations, err := s.validateTranslations(inputs, 0)
	if err != nil {
		return nil, err
	}

	category := db.Category{}
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&category).Error; err != nil {
			return err
		}
		for _, translation := range translations {
			translation.CategoryID = category.ID
			if err := tx.Create(&translation).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.Get(category.ID)
}

// Update replaces the category's translations while keeping per-language uniqueness.
func (s *CategoryService) Update(id uint, inputs []CategoryTranslationInput) (*db.Category, error) {
	var category db.Category
	if err := s.db.First(&category, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}

	translations, err := s.validateTranslations(inputs, id)
	if err != nil {
		return nil, err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("category_id = ?", id).Delete(&db.CategoryTranslation{}).Error; err != nil {
			return err
		}
		for _, translation := range translations {
			translation.CategoryID = id
			if err := tx.Create(&translation).Error; err != nil {
				return err
			}
		}
		return tx.Model(&category).Update("updated_at", tx.NowFunc()).Error
	})
	if err != nil {
		return nil, err
	}

	return s.Get(id)
}

// Delete removes a category. Referencing items are disassociated, not deleted.
func (s *CategoryService) Delete(id uint) error {
	var category db.Category
	if err := s.db.First(&category, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCategoryNotFound
		}
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&db.Item{}).
			Where("category_id = ?", id).
			Update("category_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Where("category_id = ?", id).Delete(&db.CategoryTranslation{}).Error; err != nil {
			return err
		}
		return tx.Delete(&category).Error
	})
}

// validateTranslations 规范化、查重并返回待写入的译文。excludeID 用于更新时跳过自身。
func (s *CategoryService) validateTranslations(inputs []CategoryTranslationInput, excludeID uint) ([]db.CategoryTranslation, error) {
	translations := make([]db.CategoryTranslation, 0, len(inputs))
	seen := make(map[string]struct{}, len(inputs))

	for _, input := range inputs {
		language := locale.NormalizeLanguage(input.Language)
		if language == "" {
			continue
		}
		if _, ok := seen[language]; ok {
			continue
		}
		seen[language] = struct{}{}

		name := sanitizeText(input.Name)
		if name == "" {
			return nil, ErrCategoryNameRequired
		}
		if utf8.RuneCountInString(name) > maxCategoryNameLength {
			return nil, ErrCategoryNameTooLong
		}

		var existing db.CategoryTranslation
		query := s.db.Where("language = ? AND name = ?", language, name)
		if excludeID != 0 {
			query = query.Where("category_id <> ?", excludeID)
		}
		if err := query.First(&existing).Error; err == nil {
			return nil, ErrCategoryNameExists
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}

		translations = append(translations, db.CategoryTranslation{
			Language: language,
			Name:     name,
		})
	}

	if len(translations) == 0 {
		return nil, ErrCategoryNameRequired
	}

	return translations, nil
}
