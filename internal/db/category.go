package db

import "time"

// Category 定义藏品分类模型
type Category struct {
	ID           uint `gorm:"primaryKey"`
	Translations []CategoryTranslation `gorm:"foreignKey:CategoryID;constraint:OnDelete:CASCADE"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// CategoryTranslation 按 (category, language) 存储分类名称，名称在同一语言内唯一。
type CategoryTranslation struct {
	CategoryID uint   `gorm:"primaryKey"`
	Language   string `gorm:"primaryKey;size:8;uniqueIndex:idx_category_lang_name"`
	Name       string `gorm:"size:20;not null;uniqueIndex:idx_category_lang_name"`
}
