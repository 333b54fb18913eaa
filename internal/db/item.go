package db

import "time"

// Item 定义画廊藏品模型。ID 由管理员指定，创建后不可变更。
type Item struct {
	ID            string `gorm:"primaryKey;size:191"`
	CategoryID    *uint  `gorm:"index"`
	Category      *Category
	ImageURL      string
	ImagePublicID string
	ImageWidth    int
	ImageHeight   int
	Translations  []ItemTranslation `gorm:"foreignKey:ItemID;constraint:OnDelete:CASCADE"`
	DateAdded     time.Time         `gorm:"autoCreateTime"`
	UpdatedAt     time.Time
}

// HasImage reports whether the item owns an object at the image host.
func (i Item) HasImage() bool {
	return i.ImagePublicID != ""
}

// ItemTranslation 按 (item, language) 存储一条本地化记录，缺行表示该语言无译文。
type ItemTranslation struct {
	ItemID   string `gorm:"primaryKey;size:191"`
	Language string `gorm:"primaryKey;size:8"`
	Name     string
	Storage  string
}
