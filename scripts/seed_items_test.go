package main

import (
	"testing"

	"github.com/gallerycms/internal/db"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const expectedItemSeedCount = 24

func setupSeedTestDB(t *testing.T) func() {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open("file:item-seed?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}

	if err := gdb.AutoMigrate(&db.Category{}, &db.CategoryTranslation{}, &db.Item{}, &db.ItemTranslation{}); err != nil {
		t.Fatalf("failed to migrate schema: %v", err)
	}

	db.DB = gdb

	return func() {
		sqlDB, err := gdb.DB()
		if err == nil {
			sqlDB.Close()
		}
	}
}

func TestCreateTestItemsSeedsAllCategories(t *testing.T) {
	cleanup := setupSeedTestDB(t)
	defer cleanup()

	createTestCategories()
	createTestItems()

	var categories []db.Category
	if err := db.DB.Preload("Translations").Find(&categories).Error; err != nil {
		t.Fatalf("failed to list categories: %v", err)
	}
	if len(categories) != len(seedCategories) {
		t.Fatalf("expected %d categories, got %d", len(seedCategories), len(categories))
	}
	for _, category := range categories {
		if len(category.Translations) != 2 {
			t.Fatalf("category %d: expected 2 translations, got %d", category.ID, len(category.Translations))
		}
	}

	var items []db.Item
	if err := db.DB.Preload("Translations").Find(&items).Error; err != nil {
		t.Fatalf("failed to list items: %v", err)
	}
	if len(items) != expectedItemSeedCount {
		t.Fatalf("expected %d items, got %d", expectedItemSeedCount, len(items))
	}

	used := map[uint]int{}
	for _, item := range items {
		if item.CategoryID == nil {
			t.Fatalf("item %s: expected a category", item.ID)
		}
		used[*item.CategoryID]++
		if len(item.Translations) != 2 {
			t.Fatalf("item %s: expected 2 translations, got %d", item.ID, len(item.Translations))
		}
		if item.DateAdded.IsZero() {
			t.Fatalf("item %s: expected dateAdded to be set", item.ID)
		}
	}
	if len(used) != len(seedCategories) {
		t.Fatalf("expected items across %d categories, got %d", len(seedCategories), len(used))
	}
}

func TestCreateTestItemsSkipsWhenPresent(t *testing.T) {
	cleanup := setupSeedTestDB(t)
	defer cleanup()

	if err := db.DB.Create(&db.Item{ID: "existing01"}).Error; err != nil {
		t.Fatalf("failed to seed pre-existing item: %v", err)
	}

	createTestItems()

	var count int64
	if err := db.DB.Model(&db.Item{}).Count(&count).Error; err != nil {
		t.Fatalf("failed to count items: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected seeding to be skipped, got %d items", count)
	}
}
