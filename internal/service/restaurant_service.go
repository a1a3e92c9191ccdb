package service

import (
	"github.com/paobai-next/internal/constants"
	"github.com/paobai-next/internal/models"
	"github.com/paobai-next/internal/repository"
)

// RestaurantService 餐厅信息服务（单店部署）
type RestaurantService struct {
	restaurantRepo repository.RestaurantRepository
}

// NewRestaurantService 创建餐厅服务
func NewRestaurantService(restaurantRepo repository.RestaurantRepository) *RestaurantService {
	return &RestaurantService{restaurantRepo: restaurantRepo}
}

// GetInfo 获取餐厅信息
func (s *RestaurantService) GetInfo() (*models.Restaurant, error) {
	restaurant, err := s.restaurantRepo.GetByID(constants.DefaultRestaurantID)
	if err != nil {
		return nil, err
	}
	if restaurant == nil {
		return nil, ErrRestaurantNotFound
	}
	return restaurant, nil
}

// UpdateInfo 更新餐厅信息部分字段
func (s *RestaurantService) UpdateInfo(updates map[string]interface{}) (*models.Restaurant, error) {
	restaurant, err := s.restaurantRepo.GetByID(constants.DefaultRestaurantID)
	if err != nil {
		return nil, err
	}
	if restaurant == nil {
		return nil, ErrRestaurantNotFound
	}
	if err := s.restaurantRepo.UpdateFields(restaurant.ID, updates); err != nil {
		return nil, err
	}
	return s.restaurantRepo.GetByID(restaurant.ID)
}
