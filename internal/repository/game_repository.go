package repository

import (
	"pixelpals_backend/internal/model"

	"gorm.io/gorm"
)

type GameRepository struct {
	DB *gorm.DB
}

func NewGameRepository(db *gorm.DB) *GameRepository {
	return &GameRepository{DB: db}
}

func (r *GameRepository) FindByID(id string) (*model.Game, error) {
	var g model.Game
	err := r.DB.First(&g, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &g, nil
}

func (r *GameRepository) FindByNames(names []string) ([]model.Game, error) {
	var games []model.Game
	if len(names) == 0 {
		return games, nil
	}
	err := r.DB.Where("name IN ?", names).Find(&games).Error
	return games, err
}

func (r *GameRepository) List() ([]model.Game, error) {
	var games []model.Game
	err := r.DB.Order("name ASC").Find(&games).Error
	return games, err
}

type PlatformRepository struct {
	DB *gorm.DB
}

func NewPlatformRepository(db *gorm.DB) *PlatformRepository {
	return &PlatformRepository{DB: db}
}

func (r *PlatformRepository) FindByNames(names []string) ([]model.Platform, error) {
	var platforms []model.Platform
	if len(names) == 0 {
		return platforms, nil
	}
	err := r.DB.Where("name IN ?", names).Find(&platforms).Error
	return platforms, err
}

func (r *PlatformRepository) List() ([]model.Platform, error) {
	var platforms []model.Platform
	err := r.DB.Order("name ASC").Find(&platforms).Error
	return platforms, err
}
