package main

import (
	"fmt"
	"strings"

	"github.com/paobai-next/internal/config"
	"github.com/paobai-next/internal/constants"
	"github.com/paobai-next/internal/logger"
	"github.com/paobai-next/internal/models"

	"github.com/google/uuid"
)

func main() {
	// 连接数据库
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}

	// 自动迁移
	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	// 默认管理员
	if err := models.InitDefaultAdmin("", ""); err != nil {
		stdLog.Printf("Failed to init default admin: %v", err)
	}

	// 餐厅信息
	var restaurant models.Restaurant
	if err := models.DB.First(&restaurant, constants.DefaultRestaurantID).Error; err != nil {
		restaurant = models.Restaurant{
			ID:           constants.DefaultRestaurantID,
			Name:         "泡百小馆",
			Description:  "扫码点餐示例门店，主打家常川菜与现熬靓汤",
			Address:      "成都市武侯区示例街 88 号",
			Phone:        "028-88888888",
			BusinessHour: "10:30-14:00, 17:00-21:30",
			Status:       "open",
		}
		if err := models.DB.Create(&restaurant).Error; err != nil {
			stdLog.Fatalf("Failed to create restaurant: %v", err)
		}
		stdLog.Printf("Created restaurant: %s", restaurant.Name)
	} else {
		stdLog.Printf("Restaurant already exists: %s", restaurant.Name)
	}

	// 餐桌
	tables := []models.Table{
		{TableNumber: "A01", Name: "大堂 1 号", Capacity: 4, TableType: constants.TableTypeNormal, Location: "大堂靠窗"},
		{TableNumber: "A02", Name: "大堂 2 号", Capacity: 4, TableType: constants.TableTypeNormal, Location: "大堂"},
		{TableNumber: "A03", Name: "大堂 3 号", Capacity: 2, TableType: constants.TableTypeNormal, Location: "大堂"},
		{TableNumber: "B01", Name: "卡座 1 号", Capacity: 6, TableType: constants.TableTypeVIP, Location: "二楼卡座"},
		{TableNumber: "C01", Name: "荷花厅", Capacity: 10, TableType: constants.TableTypePrivate, Location: "二楼包间"},
	}
	for _, table := range tables {
		var existing models.Table
		if err := models.DB.Where("table_number = ?", table.TableNumber).First(&existing).Error; err == nil {
			stdLog.Printf("Table already exists: %s", table.TableNumber)
			continue
		}
		table.RestaurantID = constants.DefaultRestaurantID
		table.Status = constants.TableStatusAvailable
		table.QRCode = "QR" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
		if err := models.DB.Create(&table).Error; err != nil {
			stdLog.Printf("Failed to create table %s: %v", table.TableNumber, err)
			continue
		}
		stdLog.Printf("Created table: %s (qr=%s)", table.TableNumber, table.QRCode)
	}

	// 菜单分类
	categories := []models.Category{
		{Name: "招牌热菜", Description: "门店招牌，口碑之选", SortOrder: 10},
		{Name: "凉菜小吃", Description: "开胃下酒", SortOrder: 20},
		{Name: "汤品", Description: "每日现熬", SortOrder: 30},
		{Name: "主食", Description: "米饭面点", SortOrder: 40},
		{Name: "饮品", Description: "冷热饮", SortOrder: 50},
	}
	categoryIDs := map[string]uint{}
	for _, category := range categories {
		var existing models.Category
		if err := models.DB.Where("restaurant_id = ? AND name = ?", constants.DefaultRestaurantID, category.Name).
			First(&existing).Error; err == nil {
			categoryIDs[category.Name] = existing.ID
			stdLog.Printf("Category already exists: %s", category.Name)
			continue
		}
		category.RestaurantID = constants.DefaultRestaurantID
		category.IsActive = true
		if err := models.DB.Create(&category).Error; err != nil {
			stdLog.Printf("Failed to create category %s: %v", category.Name, err)
			continue
		}
		categoryIDs[category.Name] = category.ID
		stdLog.Printf("Created category: %s", category.Name)
	}

	// 菜品
	type seedItem struct {
		category      string
		name          string
		description   string
		price         string
		originalPrice string
		tags          []string
		recommended   bool
		prepMinutes   int
	}
	items := []seedItem{
		{category: "招牌热菜", name: "水煮牛肉", description: "牛里脊滑嫩，麻辣鲜香", price: "48.00", originalPrice: "58.00", tags: []string{"辣", "招牌"}, recommended: true, prepMinutes: 15},
		{category: "招牌热菜", name: "宫保鸡丁", description: "糊辣荔枝口，花生酥脆", price: "32.00", tags: []string{"微辣"}, recommended: true, prepMinutes: 12},
		{category: "招牌热菜", name: "麻婆豆腐", description: "麻辣烫嫩，下饭神器", price: "22.00", tags: []string{"辣", "素"}, prepMinutes: 10},
		{category: "招牌热菜", name: "回锅肉", description: "二刀肉配蒜苗，肥而不腻", price: "36.00", tags: []string{"辣"}, prepMinutes: 15},
		{category: "凉菜小吃", name: "夫妻肺片", description: "红油香浓，回味悠长", price: "28.00", tags: []string{"辣", "凉菜"}, prepMinutes: 5},
		{category: "凉菜小吃", name: "拍黄瓜", description: "蒜香爽口", price: "12.00", tags: []string{"素", "凉菜"}, prepMinutes: 5},
		{category: "汤品", name: "番茄蛋花汤", description: "酸甜开胃", price: "16.00", tags: []string{"汤"}, prepMinutes: 8},
		{category: "汤品", name: "冬瓜排骨汤", description: "每日限量现熬", price: "38.00", tags: []string{"汤", "限量"}, prepMinutes: 20},
		{category: "主食", name: "米饭", description: "东北五常大米", price: "3.00", tags: nil, prepMinutes: 2},
		{category: "主食", name: "担担面", description: "芽菜肉臊，麻酱香浓", price: "18.00", tags: []string{"辣", "面食"}, prepMinutes: 10},
		{category: "饮品", name: "酸梅汤", description: "冰镇乌梅现熬", price: "10.00", tags: []string{"冰"}, prepMinutes: 2},
		{category: "饮品", name: "豆奶", description: "现磨豆浆", price: "8.00", tags: nil, prepMinutes: 2},
	}
	for _, item := range items {
		categoryID, ok := categoryIDs[item.category]
		if !ok {
			stdLog.Printf("Skip item %s: category %s missing", item.name, item.category)
			continue
		}
		var existing models.MenuItem
		if err := models.DB.Where("restaurant_id = ? AND name = ?", constants.DefaultRestaurantID, item.name).
			First(&existing).Error; err == nil {
			stdLog.Printf("Menu item already exists: %s", item.name)
			continue
		}
		price, err := models.NewMoneyFromString(item.price)
		if err != nil {
			stdLog.Printf("Skip item %s: bad price %s", item.name, item.price)
			continue
		}
		originalPrice := price
		if item.originalPrice != "" {
			if op, err := models.NewMoneyFromString(item.originalPrice); err == nil {
				originalPrice = op
			}
		}
		menuItem := models.MenuItem{
			RestaurantID:    constants.DefaultRestaurantID,
			CategoryID:      categoryID,
			Name:            item.name,
			Description:     item.description,
			Price:           price,
			OriginalPrice:   originalPrice,
			Tags:            models.StringArray(item.tags),
			IsAvailable:     true,
			IsRecommended:   item.recommended,
			PreparationTime: item.prepMinutes,
		}
		if err := models.DB.Create(&menuItem).Error; err != nil {
			stdLog.Printf("Failed to create menu item %s: %v", item.name, err)
			continue
		}
		stdLog.Printf("Created menu item: %s (%s)", item.name, price.String())
	}

	var tableCount, itemCount int64
	models.DB.Model(&models.Table{}).Count(&tableCount)
	models.DB.Model(&models.MenuItem{}).Count(&itemCount)
	fmt.Printf("Seed done: %d tables, %d menu items\n", tableCount, itemCount)
}
