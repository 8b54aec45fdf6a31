package repository

import (
	"pixelpals_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserRepository struct {
	DB *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{DB: db}
}

func (r *UserRepository) Create(user *model.User) error {
	return r.DB.Create(user).Error
}

func (r *UserRepository) Save(user *model.User) error {
	return r.DB.Save(user).Error
}

func (r *UserRepository) FindByID(id string) (*model.User, error) {
	var user model.User
	err := r.DB.Preload("PreferredGames").Preload("Platforms").
		First(&user, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) FindByUsername(username string) (*model.User, error) {
	var user model.User
	err := r.DB.Preload("PreferredGames").Preload("Platforms").
		First(&user, "username = ?", username).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) FindByEmail(email string) (*model.User, error) {
	var user model.User
	err := r.DB.First(&user, "email = ?", email).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) FindByIDs(ids []string) ([]model.User, error) {
	var users []model.User
	if len(ids) == 0 {
		return users, nil
	}
	err := r.DB.Where("id IN ?", ids).Find(&users).Error
	return users, err
}

// FindAll loads every user with its game and platform preferences, for
// compatibility scoring.
func (r *UserRepository) FindAll() ([]model.User, error) {
	var users []model.User
	err := r.DB.Preload("PreferredGames").Preload("Platforms").Find(&users).Error
	return users, err
}

func (r *UserRepository) SearchByUsername(query string) ([]model.User, error) {
	var users []model.User
	searchTerm := "%" + query + "%"
	err := r.DB.Where("username LIKE ?", searchTerm).Limit(20).Find(&users).Error
	return users, err
}

func (r *UserRepository) ExistsByUsername(username string) (bool, error) {
	var count int64
	err := r.DB.Model(&model.User{}).Where("username = ?", username).Count(&count).Error
	return count > 0, err
}

func (r *UserRepository) ExistsByEmail(email string) (bool, error) {
	var count int64
	err := r.DB.Model(&model.User{}).Where("email = ?", email).Count(&count).Error
	return count > 0, err
}

func (r *UserRepository) SetOnline(id string, online bool) error {
	result := r.DB.Model(&model.User{}).Where("id = ?", id).Update("online", online)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// RecordMatchPlayed bumps the matches-played counter and recomputes the
// level under a row lock, so two matches closing at once cannot lose an
// increment.
func (r *UserRepository) RecordMatchPlayed(id string) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		var user model.User
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&user, "id = ?", id).Error; err != nil {
			return err
		}
		user.MatchesPlayed++
		user.Level = model.LevelForMatches(user.MatchesPlayed)
		return tx.Model(&model.User{}).Where("id = ?", id).Updates(map[string]interface{}{
			"matches_played": user.MatchesPlayed,
			"level":          user.Level,
		}).Error
	})
}

// AddRating folds a new rating into the user's running average under a row
// lock.
func (r *UserRepository) AddRating(id string, rating float64) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		var user model.User
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&user, "id = ?", id).Error; err != nil {
			return err
		}
		user.TotalRatingPoints += rating
		user.NumberOfRatings++
		user.Rating = user.TotalRatingPoints / float64(user.NumberOfRatings)
		return tx.Model(&model.User{}).Where("id = ?", id).Updates(map[string]interface{}{
			"total_rating_points": user.TotalRatingPoints,
			"number_of_ratings":   user.NumberOfRatings,
			"rating":              user.Rating,
		}).Error
	})
}

func (r *UserRepository) ReplacePreferredGames(user *model.User, games []model.Game) error {
	return r.DB.Model(user).Association("PreferredGames").Replace(games)
}

func (r *UserRepository) ReplacePlatforms(user *model.User, platforms []model.Platform) error {
	return r.DB.Model(user).Association("Platforms").Replace(platforms)
}

func (r *UserRepository) UpdateSkillLevels(id string, skills map[string]model.SkillLevel) error {
	return r.DB.Model(&model.User{}).Where("id = ?", id).Update("skill_levels", skills).Error
}
