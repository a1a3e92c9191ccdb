package service

import (
	"strings"

	"github.com/paobai-next/internal/constants"
	"github.com/paobai-next/internal/models"
	"github.com/paobai-next/internal/repository"
)

// MenuService 菜单服务（分类 + 菜品）
type MenuService struct {
	categoryRepo repository.CategoryRepository
	menuItemRepo repository.MenuItemRepository
}

// NewMenuService 创建菜单服务
func NewMenuService(categoryRepo repository.CategoryRepository, menuItemRepo repository.MenuItemRepository) *MenuService {
	return &MenuService{
		categoryRepo: categoryRepo,
		menuItemRepo: menuItemRepo,
	}
}

// ListCategories 获取分类列表，onlyActive 时仅返回启用的分类
func (s *MenuService) ListCategories(onlyActive bool) ([]models.Category, error) {
	return s.categoryRepo.List(constants.DefaultRestaurantID, onlyActive)
}

// CreateCategoryInput 创建分类输入
type CreateCategoryInput struct {
	Name        string
	Description string
	Icon        string
	SortOrder   int
}

// CreateCategory 创建分类
func (s *MenuService) CreateCategory(input CreateCategoryInput) (*models.Category, error) {
	category := &models.Category{
		RestaurantID: constants.DefaultRestaurantID,
		Name:         strings.TrimSpace(input.Name),
		Description:  strings.TrimSpace(input.Description),
		Icon:         strings.TrimSpace(input.Icon),
		SortOrder:    input.SortOrder,
		IsActive:     true,
	}
	if err := s.categoryRepo.Create(category); err != nil {
		return nil, err
	}
	return category, nil
}

// UpdateCategory 更新分类部分字段
func (s *MenuService) UpdateCategory(id uint, updates map[string]interface{}) (*models.Category, error) {
	category, err := s.categoryRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, ErrCategoryNotFound
	}
	if name, ok := updates["name"].(string); ok {
		category.Name = strings.TrimSpace(name)
	}
	if description, ok := updates["description"].(string); ok {
		category.Description = strings.TrimSpace(description)
	}
	if icon, ok := updates["icon"].(string); ok {
		category.Icon = strings.TrimSpace(icon)
	}
	if sortOrder, ok := updates["sort_order"].(int); ok {
		category.SortOrder = sortOrder
	}
	if isActive, ok := updates["is_active"].(bool); ok {
		category.IsActive = isActive
	}
	if err := s.categoryRepo.Update(category); err != nil {
		return nil, err
	}
	return category, nil
}

// ListItems 查询菜品列表
func (s *MenuService) ListItems(filter repository.MenuItemListFilter) ([]models.MenuItem, int64, error) {
	filter.RestaurantID = constants.DefaultRestaurantID
	return s.menuItemRepo.List(filter)
}

// GetItem 获取菜品详情
func (s *MenuService) GetItem(id uint) (*models.MenuItem, error) {
	item, err := s.menuItemRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, ErrMenuItemNotFound
	}
	return item, nil
}

// CreateMenuItemInput 创建菜品输入
type CreateMenuItemInput struct {
	CategoryID      uint
	Name            string
	Description     string
	Price           models.Money
	OriginalPrice   models.Money
	ImageURL        string
	Tags            []string
	IsAvailable     bool
	IsRecommended   bool
	SortOrder       int
	PreparationTime int
}

// CreateItem 创建菜品，分类必须存在
func (s *MenuService) CreateItem(input CreateMenuItemInput) (*models.MenuItem, error) {
	category, err := s.categoryRepo.GetByID(input.CategoryID)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, ErrCategoryNotFound
	}
	item := &models.MenuItem{
		RestaurantID:    constants.DefaultRestaurantID,
		CategoryID:      input.CategoryID,
		Name:            strings.TrimSpace(input.Name),
		Description:     strings.TrimSpace(input.Description),
		Price:           input.Price,
		OriginalPrice:   input.OriginalPrice,
		ImageURL:        strings.TrimSpace(input.ImageURL),
		Tags:            models.StringArray(input.Tags),
		IsAvailable:     input.IsAvailable,
		IsRecommended:   input.IsRecommended,
		SortOrder:       input.SortOrder,
		PreparationTime: input.PreparationTime,
	}
	if err := s.menuItemRepo.Create(item); err != nil {
		return nil, err
	}
	return item, nil
}

// UpdateItem 更新菜品部分字段
func (s *MenuService) UpdateItem(id uint, updates map[string]interface{}) (*models.MenuItem, error) {
	item, err := s.menuItemRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, ErrMenuItemNotFound
	}
	if categoryID, ok := updates["category_id"].(uint); ok {
		category, err := s.categoryRepo.GetByID(categoryID)
		if err != nil {
			return nil, err
		}
		if category == nil {
			return nil, ErrCategoryNotFound
		}
	}
	if err := s.menuItemRepo.UpdateFields(id, updates); err != nil {
		return nil, err
	}
	return s.menuItemRepo.GetByID(id)
}

// SetItemAvailable 上下架菜品
func (s *MenuService) SetItemAvailable(id uint, available bool) error {
	item, err := s.menuItemRepo.GetByID(id)
	if err != nil {
		return err
	}
	if item == nil {
		return ErrMenuItemNotFound
	}
	return s.menuItemRepo.UpdateFields(id, map[string]interface{}{"is_available": available})
}

// DeleteItem 删除菜品（软删除）
func (s *MenuService) DeleteItem(id uint) error {
	item, err := s.menuItemRepo.GetByID(id)
	if err != nil {
		return err
	}
	if item == nil {
		return ErrMenuItemNotFound
	}
	return s.menuItemRepo.Delete(id)
}
