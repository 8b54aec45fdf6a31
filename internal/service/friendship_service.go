package service

import (
	"time"

	"pixelpals_backend/internal/model"
	"pixelpals_backend/internal/util"
)

// FriendshipDTO is the outward shape of a friendship record, with both
// usernames resolved.
type FriendshipDTO struct {
	ID               string                 `json:"id"`
	SenderID         string                 `json:"senderId"`
	SenderUsername   string                 `json:"senderUsername"`
	ReceiverID       string                 `json:"receiverId"`
	ReceiverUsername string                 `json:"receiverUsername"`
	Status           model.FriendshipStatus `json:"status"`
	CreatedAt        time.Time              `json:"createdAt"`
	AcceptedAt       *time.Time             `json:"acceptedAt,omitempty"`
}

// FriendDTO is one entry of a friend list, with live presence.
type FriendDTO struct {
	ID        string  `json:"id"`
	Username  string  `json:"username"`
	Online    bool    `json:"online"`
	AvatarURL string  `json:"avatarUrl"`
	Level     int     `json:"level"`
	Rating    float64 `json:"rating"`
}

// FriendshipEvent is pushed on the match-notifications channel for every
// friendship transition.
type FriendshipEvent struct {
	Type       string        `json:"type"`
	Friendship FriendshipDTO `json:"friendship"`
}

// FriendRemovedEvent is pushed to both sides when an accepted friendship
// is deleted.
type FriendRemovedEvent struct {
	Type        string `json:"type"`
	UserID      string `json:"userId"`
	Username    string `json:"username"`
	OtherID     string `json:"otherUserId"`
	OtherName   string `json:"otherUsername"`
	RemovedByID string `json:"removedById"`
}

// FriendshipService owns the friend-request state machine:
// NONE -request-> PENDING -accept-> ACCEPTED / -reject-> REJECTED,
// REJECTED revivable to PENDING from either side, ACCEPTED deletable.
type FriendshipService struct {
	Friendships FriendshipStore
	Users       UserStore
	Registry    *PresenceRegistry
	Notifier    Notifier
}

func NewFriendshipService(friendships FriendshipStore, users UserStore, registry *PresenceRegistry, notifier Notifier) *FriendshipService {
	return &FriendshipService{
		Friendships: friendships,
		Users:       users,
		Registry:    registry,
		Notifier:    notifier,
	}
}

// SendRequest creates (or revives) the PENDING record for the pair and
// notifies the receiver. A pending request in either direction, or an
// existing friendship, is a conflict; self-requests are invalid.
func (s *FriendshipService) SendRequest(senderID, receiverUsername string) (*FriendshipDTO, error) {
	sender, err := s.Users.FindByID(senderID)
	if err != nil {
		return nil, util.NotFoundf("sender %s", senderID)
	}
	receiver, err := s.Users.FindByUsername(receiverUsername)
	if err != nil {
		return nil, util.NotFoundf("receiver %s", receiverUsername)
	}
	if sender.ID == receiver.ID {
		return nil, util.InvalidOperationf("cannot send a friend request to yourself")
	}

	existing, err := s.Friendships.FindByPair(sender.ID, receiver.ID)
	if err != nil {
		return nil, err
	}

	var record *model.Friendship
	switch {
	case existing == nil:
		record = &model.Friendship{
			SenderID:   sender.ID,
			ReceiverID: receiver.ID,
			PairKey:    model.PairKeyFor(sender.ID, receiver.ID),
			Status:     model.FriendshipPending,
		}
		if err := s.Friendships.Create(record); err != nil {
			return nil, err
		}

	case existing.Status == model.FriendshipPending:
		return nil, util.Conflictf("a pending friend request already exists between these users")

	case existing.Status == model.FriendshipAccepted:
		return nil, util.Conflictf("users are already friends")

	default: // REJECTED: revive in place instead of creating a duplicate
		ok, err := s.Friendships.Revive(existing.ID, sender.ID, receiver.ID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, util.Conflictf("friend request changed concurrently")
		}
		record, err = s.Friendships.FindByID(existing.ID)
		if err != nil {
			return nil, err
		}
	}

	dto := s.toDTO(record, sender.Username, receiver.Username)
	s.Notifier.SendToUser(receiver.Username, ChannelMatchNotifications, FriendshipEvent{
		Type:       EventFriendRequest,
		Friendship: dto,
	})
	return &dto, nil
}

// Accept transitions PENDING to ACCEPTED. Only the receiver may accept.
func (s *FriendshipService) Accept(requestID, actingUsername string) (*FriendshipDTO, error) {
	return s.resolve(requestID, actingUsername, model.FriendshipAccepted, EventFriendAccepted)
}

// Reject transitions PENDING to REJECTED. Only the receiver may reject.
func (s *FriendshipService) Reject(requestID, actingUsername string) (*FriendshipDTO, error) {
	return s.resolve(requestID, actingUsername, model.FriendshipRejected, EventFriendRejected)
}

func (s *FriendshipService) resolve(requestID, actingUsername string, to model.FriendshipStatus, eventType string) (*FriendshipDTO, error) {
	record, err := s.Friendships.FindByID(requestID)
	if err != nil {
		return nil, util.NotFoundf("friend request %s", requestID)
	}
	acting, err := s.Users.FindByUsername(actingUsername)
	if err != nil {
		return nil, util.NotFoundf("user %s", actingUsername)
	}
	if record.ReceiverID != acting.ID {
		return nil, util.Unauthorizedf("only the receiver may resolve this request")
	}

	var acceptedAt *time.Time
	if to == model.FriendshipAccepted {
		now := time.Now()
		acceptedAt = &now
	}
	ok, err := s.Friendships.TransitionStatus(requestID, model.FriendshipPending, to, acceptedAt)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, util.InvalidStatef("friend request %s is not pending", requestID)
	}

	record, err = s.Friendships.FindByID(requestID)
	if err != nil {
		return nil, err
	}
	sender, err := s.Users.FindByID(record.SenderID)
	if err != nil {
		return nil, util.NotFoundf("sender %s", record.SenderID)
	}

	dto := s.toDTO(record, sender.Username, acting.Username)
	event := FriendshipEvent{Type: eventType, Friendship: dto}
	s.Notifier.SendToUser(sender.Username, ChannelMatchNotifications, event)
	s.Notifier.SendToUser(acting.Username, ChannelMatchNotifications, event)
	return &dto, nil
}

// Remove deletes the ACCEPTED record between the acting user and the given
// friend, whichever side initiated it.
func (s *FriendshipService) Remove(friendUserID, actingUsername string) error {
	acting, err := s.Users.FindByUsername(actingUsername)
	if err != nil {
		return util.NotFoundf("user %s", actingUsername)
	}
	friend, err := s.Users.FindByID(friendUserID)
	if err != nil {
		return util.NotFoundf("friend %s", friendUserID)
	}

	record, err := s.Friendships.FindByPair(acting.ID, friend.ID)
	if err != nil {
		return err
	}
	if record == nil || record.Status != model.FriendshipAccepted {
		return util.NotFoundf("no friendship between %s and %s", acting.Username, friend.Username)
	}
	ok, err := s.Friendships.DeleteAccepted(record.ID)
	if err != nil {
		return err
	}
	if !ok {
		return util.NotFoundf("friendship already removed")
	}

	for _, target := range []*model.User{acting, friend} {
		s.Notifier.SendToUser(target.Username, ChannelMatchNotifications, FriendRemovedEvent{
			Type:        EventFriendRemoved,
			UserID:      acting.ID,
			Username:    acting.Username,
			OtherID:     friend.ID,
			OtherName:   friend.Username,
			RemovedByID: acting.ID,
		})
	}
	return nil
}

// ListFriends returns the accepted friends of a user, deduplicated by the
// other side's id, with presence resolved from the live registry.
func (s *FriendshipService) ListFriends(username string) ([]FriendDTO, error) {
	user, err := s.Users.FindByUsername(username)
	if err != nil {
		return nil, util.NotFoundf("user %s", username)
	}
	records, err := s.Friendships.ListAccepted(user.ID)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(records))
	var ids []string
	for _, f := range records {
		other := f.OtherSide(user.ID)
		if !seen[other] {
			seen[other] = true
			ids = append(ids, other)
		}
	}

	friends, err := s.Users.FindByIDs(ids)
	if err != nil {
		return nil, err
	}
	out := make([]FriendDTO, 0, len(friends))
	for _, f := range friends {
		out = append(out, FriendDTO{
			ID:        f.ID,
			Username:  f.Username,
			Online:    s.Registry.IsOnline(f.ID),
			AvatarURL: f.AvatarURL,
			Level:     f.Level,
			Rating:    f.Rating,
		})
	}
	return out, nil
}

// ListPending returns the PENDING requests received by a user.
func (s *FriendshipService) ListPending(username string) ([]FriendshipDTO, error) {
	user, err := s.Users.FindByUsername(username)
	if err != nil {
		return nil, util.NotFoundf("user %s", username)
	}
	records, err := s.Friendships.ListReceivedPending(user.ID)
	if err != nil {
		return nil, err
	}
	return s.toDTOs(records)
}

// ListSent returns the PENDING requests sent by a user.
func (s *FriendshipService) ListSent(username string) ([]FriendshipDTO, error) {
	user, err := s.Users.FindByUsername(username)
	if err != nil {
		return nil, util.NotFoundf("user %s", username)
	}
	records, err := s.Friendships.ListSentPending(user.ID)
	if err != nil {
		return nil, err
	}
	return s.toDTOs(records)
}

// StatusBetween derives the caller-relative relation from the single
// record for the pair.
func (s *FriendshipService) StatusBetween(currentUsername, otherUserID string) (model.RelationStatus, error) {
	user, err := s.Users.FindByUsername(currentUsername)
	if err != nil {
		return "", util.NotFoundf("user %s", currentUsername)
	}
	if user.ID == otherUserID {
		return model.RelationSelf, nil
	}
	record, err := s.Friendships.FindByPair(user.ID, otherUserID)
	if err != nil {
		return "", err
	}
	if record == nil {
		return model.RelationNone, nil
	}
	switch record.Status {
	case model.FriendshipAccepted:
		return model.RelationAccepted, nil
	case model.FriendshipRejected:
		return model.RelationRejected, nil
	default:
		if record.SenderID == user.ID {
			return model.RelationPendingSent, nil
		}
		return model.RelationPendingReceived, nil
	}
}

func (s *FriendshipService) toDTO(f *model.Friendship, senderUsername, receiverUsername string) FriendshipDTO {
	return FriendshipDTO{
		ID:               f.ID,
		SenderID:         f.SenderID,
		SenderUsername:   senderUsername,
		ReceiverID:       f.ReceiverID,
		ReceiverUsername: receiverUsername,
		Status:           f.Status,
		CreatedAt:        f.CreatedAt,
		AcceptedAt:       f.AcceptedAt,
	}
}

func (s *FriendshipService) toDTOs(records []model.Friendship) ([]FriendshipDTO, error) {
	// Resolve all usernames in one read.
	idSet := make(map[string]bool)
	for _, f := range records {
		idSet[f.SenderID] = true
		idSet[f.ReceiverID] = true
	}
	ids := make([]string, 0, len(idSet))
	for id := range idSet {
		ids = append(ids, id)
	}
	users, err := s.Users.FindByIDs(ids)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(users))
	for _, u := range users {
		names[u.ID] = u.Username
	}

	out := make([]FriendshipDTO, 0, len(records))
	for _, f := range records {
		out = append(out, s.toDTO(&f, names[f.SenderID], names[f.ReceiverID]))
	}
	return out, nil
}
