package repository

import (
	"errors"
	"time"

	"pixelpals_backend/internal/model"

	"gorm.io/gorm"
)

type FriendshipRepository struct {
	DB *gorm.DB
}

func NewFriendshipRepository(db *gorm.DB) *FriendshipRepository {
	return &FriendshipRepository{DB: db}
}

func (r *FriendshipRepository) Create(f *model.Friendship) error {
	return r.DB.Create(f).Error
}

func (r *FriendshipRepository) FindByID(id string) (*model.Friendship, error) {
	var f model.Friendship
	err := r.DB.First(&f, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &f, nil
}

// FindByPair returns the single record for an unordered user pair, or nil
// when none exists.
func (r *FriendshipRepository) FindByPair(userAID, userBID string) (*model.Friendship, error) {
	var f model.Friendship
	err := r.DB.First(&f, "pair_key = ?", model.PairKeyFor(userAID, userBID)).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *FriendshipRepository) ListAccepted(userID string) ([]model.Friendship, error) {
	var fs []model.Friendship
	err := r.DB.Where("(sender_id = ? OR receiver_id = ?) AND status = ?",
		userID, userID, model.FriendshipAccepted).Find(&fs).Error
	return fs, err
}

func (r *FriendshipRepository) ListReceivedPending(userID string) ([]model.Friendship, error) {
	var fs []model.Friendship
	err := r.DB.Where("receiver_id = ? AND status = ?", userID, model.FriendshipPending).
		Order("created_at DESC").Find(&fs).Error
	return fs, err
}

func (r *FriendshipRepository) ListSentPending(userID string) ([]model.Friendship, error) {
	var fs []model.Friendship
	err := r.DB.Where("sender_id = ? AND status = ?", userID, model.FriendshipPending).
		Order("created_at DESC").Find(&fs).Error
	return fs, err
}

// TransitionStatus applies a guarded status change: the update only lands
// if the record is still in the expected prior status. Returns false when
// the precondition failed (concurrent transition won).
func (r *FriendshipRepository) TransitionStatus(id string, from, to model.FriendshipStatus, acceptedAt *time.Time) (bool, error) {
	result := r.DB.Model(&model.Friendship{}).
		Where("id = ? AND status = ?", id, from).
		Updates(map[string]interface{}{
			"status":      to,
			"accepted_at": acceptedAt,
		})
	return result.RowsAffected > 0, result.Error
}

// Revive resets a REJECTED record to PENDING with a fresh requester side,
// guarded the same way as TransitionStatus.
func (r *FriendshipRepository) Revive(id, senderID, receiverID string) (bool, error) {
	result := r.DB.Model(&model.Friendship{}).
		Where("id = ? AND status = ?", id, model.FriendshipRejected).
		Updates(map[string]interface{}{
			"status":      model.FriendshipPending,
			"sender_id":   senderID,
			"receiver_id": receiverID,
			"accepted_at": nil,
			"created_at":  time.Now(),
		})
	return result.RowsAffected > 0, result.Error
}

// DeleteAccepted removes an ACCEPTED record; a record in any other state is
// left alone and false is returned. The delete is unscoped: a soft-delete
// tombstone would keep holding the pair_key unique index and block the pair
// from ever requesting again.
func (r *FriendshipRepository) DeleteAccepted(id string) (bool, error) {
	result := r.DB.Unscoped().
		Where("id = ? AND status = ?", id, model.FriendshipAccepted).
		Delete(&model.Friendship{})
	return result.RowsAffected > 0, result.Error
}
