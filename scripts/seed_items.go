package main

import (
	"fmt"
	"log"
	"time"

	"github.com/gallerycms/internal/config"
	"github.com/gallerycms/internal/db"
)

// 测试数据生成器：写入分类和带双语译文的藏品
func main() {
	cfg := config.Load()
	if err := db.Init(cfg.DatabasePath); err != nil {
		log.Fatal("数据库初始化失败:", err)
	}

	fmt.Println("开始生成测试数据...")

	createTestCategories()
	createTestItems()

	fmt.Println("测试数据生成完成！")
	fmt.Println("分类: 矿物、化石、贝壳")
	fmt.Println("藏品: 24件测试藏品")
}

var seedCategories = []struct {
	english string
	chinese string
}{
	{english: "Minerals", chinese: "矿物"},
	{english: "Fossils", chinese: "化石"},
	{english: "Shells", chinese: "贝壳"},
}

// 创建测试分类
func createTestCategories() {
	var count int64
	db.DB.Model(&db.Category{}).Count(&count)
	if count > 0 {
		fmt.Println("分类已存在，跳过创建")
		return
	}

	for _, data := range seedCategories {
		category := db.Category{
			Translations: []db.CategoryTranslation{
				{Language: "en", Name: data.english},
				{Language: "zh", Name: data.chinese},
			},
		}
		if err := db.DB.Create(&category).Error; err != nil {
			log.Printf("创建分类失败: %v", err)
		}
	}

	fmt.Println("✅ 测试分类创建完成")
}

// 创建测试藏品
func createTestItems() {
	var count int64
	db.DB.Model(&db.Item{}).Count(&count)
	if count > 0 {
		fmt.Println("藏品已存在，跳过创建")
		return
	}

	var categories []db.Category
	if err := db.DB.Order("id").Find(&categories).Error; err != nil || len(categories) == 0 {
		log.Printf("读取分类失败: %v", err)
		return
	}

	specimens := []struct {
		id      string
		english string
		chinese string
		storage string
	}{
		{id: "quartz01", english: "Rose Quartz", chinese: "蔷薇石英", storage: "Drawer A1"},
		{id: "quartz02", english: "Smoky Quartz", chinese: "烟水晶", storage: "Drawer A1"},
		{id: "calcite01", english: "Orange Calcite", chinese: "橙方解石", storage: "Drawer A2"},
		{id: "pyrite01", english: "Pyrite Cube", chinese: "黄铁矿立方体", storage: "Drawer A2"},
		{id: "fluorite01", english: "Green Fluorite", chinese: "绿萤石", storage: "Drawer A3"},
		{id: "amethyst01", english: "Amethyst Cluster", chinese: "紫水晶簇", storage: "Shelf B1"},
		{id: "ammonite01", english: "Ammonite", chinese: "菊石", storage: "Shelf B2"},
		{id: "trilobite01", english: "Trilobite", chinese: "三叶虫", storage: "Shelf B2"},
		{id: "shark01", english: "Shark Tooth", chinese: "鲨鱼牙齿", storage: "Drawer C1"},
		{id: "fern01", english: "Fern Imprint", chinese: "蕨类印痕", storage: "Drawer C1"},
		{id: "conch01", english: "Queen Conch", chinese: "女王凤凰螺", storage: "Shelf D1"},
		{id: "cowrie01", english: "Tiger Cowrie", chinese: "虎斑宝贝", storage: "Shelf D1"},
		{id: "nautilus01", english: "Chambered Nautilus", chinese: "鹦鹉螺", storage: "Shelf D2"},
		{id: "scallop01", english: "Lion's Paw Scallop", chinese: "狮爪海扇蛤", storage: "Shelf D2"},
		{id: "murex01", english: "Venus Comb Murex", chinese: "维纳斯骨螺", storage: "Drawer D3"},
		{id: "agate01", english: "Banded Agate", chinese: "条纹玛瑙", storage: "Drawer A4"},
		{id: "obsidian01", english: "Snowflake Obsidian", chinese: "雪花黑曜石", storage: "Drawer A4"},
		{id: "geode01", english: "Quartz Geode", chinese: "石英晶洞", storage: "Shelf B3"},
		{id: "coral01", english: "Fossil Coral", chinese: "珊瑚化石", storage: "Drawer C2"},
		{id: "amber01", english: "Baltic Amber", chinese: "波罗的海琥珀", storage: "Drawer C3"},
		{id: "malachite01", english: "Malachite", chinese: "孔雀石", storage: "Drawer A5"},
		{id: "turquoise01", english: "Turquoise", chinese: "绿松石", storage: "Drawer A5"},
		{id: "sanddollar01", english: "Sand Dollar", chinese: "海胆饼", storage: "Shelf D3"},
		{id: "starfish01", english: "Dried Starfish", chinese: "海星标本", storage: "Shelf D3"},
	}

	now := time.Now().UTC()
	for idx, data := range specimens {
		categoryID := categories[idx%len(categories)].ID
		item := db.Item{
			ID:         data.id,
			CategoryID: &categoryID,
			DateAdded:  now.Add(-time.Duration(len(specimens)-idx) * 6 * time.Hour),
			Translations: []db.ItemTranslation{
				{Language: "en", Name: data.english, Storage: data.storage},
				{Language: "zh", Name: data.chinese, Storage: data.storage},
			},
		}
		if err := db.DB.Create(&item).Error; err != nil {
			log.Printf("创建藏品失败: %v", err)
		}
	}

	fmt.Println("✅ 测试藏品创建完成")
}
