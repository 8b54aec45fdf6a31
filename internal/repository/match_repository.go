package repository

import (
	"pixelpals_backend/internal/model"

	"gorm.io/gorm"
)

type MatchRepository struct {
	DB *gorm.DB
}

func NewMatchRepository(db *gorm.DB) *MatchRepository {
	return &MatchRepository{DB: db}
}

func (r *MatchRepository) Create(m *model.Match) error {
	return r.DB.Create(m).Error
}

func (r *MatchRepository) FindByID(id string) (*model.Match, error) {
	var m model.Match
	err := r.DB.First(&m, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// ExistsPendingBetween checks both directions: a pending request from A to
// B for a game conflicts with one from B to A for the same game.
func (r *MatchRepository) ExistsPendingBetween(userAID, userBID, gameID string) (bool, error) {
	var count int64
	err := r.DB.Model(&model.Match{}).
		Where("game_id = ? AND status = ?", gameID, model.MatchPending).
		Where("(user_a_id = ? AND user_b_id = ?) OR (user_a_id = ? AND user_b_id = ?)",
			userAID, userBID, userBID, userAID).
		Count(&count).Error
	return count > 0, err
}

// TransitionStatus applies a guarded lifecycle change keyed by the expected
// prior status. The extra column updates (timestamps, chat room id) only
// land together with the status flip.
func (r *MatchRepository) TransitionStatus(id string, from, to model.MatchStatus, updates map[string]interface{}) (bool, error) {
	set := map[string]interface{}{"status": to}
	for k, v := range updates {
		set[k] = v
	}
	result := r.DB.Model(&model.Match{}).
		Where("id = ? AND status = ?", id, from).
		Updates(set)
	return result.RowsAffected > 0, result.Error
}

func (r *MatchRepository) ListPendingForUser(userID string) ([]model.Match, error) {
	var ms []model.Match
	err := r.DB.Where("user_b_id = ? AND status = ?", userID, model.MatchPending).
		Order("matched_at DESC").Find(&ms).Error
	return ms, err
}

func (r *MatchRepository) ListAcceptedForUser(userID string) ([]model.Match, error) {
	var ms []model.Match
	err := r.DB.Where("(user_a_id = ? OR user_b_id = ?) AND status = ?",
		userID, userID, model.MatchAccepted).
		Order("accepted_at DESC").Find(&ms).Error
	return ms, err
}
