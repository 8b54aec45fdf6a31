package service

import (
	"sort"
	"time"

	"go.uber.org/zap"

	"pixelpals_backend/internal/model"
	"pixelpals_backend/internal/util"
)

const (
	scoreGame     = 50
	scorePlatform = 30
	scoreSkill    = 20
)

// FindMatchesRequest carries the criteria for a compatibility search.
type FindMatchesRequest struct {
	GameName   string `json:"gameName" binding:"required"`
	Platform   string `json:"platform"`
	SkillLevel string `json:"skillLevel"`
	MaxResults int    `json:"maxResults"`
}

// MatchCandidate is one scored entry of a compatibility search result.
type MatchCandidate struct {
	UserID          string           `json:"userId"`
	Username        string           `json:"username"`
	AvatarURL       string           `json:"avatarUrl"`
	Level           int              `json:"level"`
	Rating          float64          `json:"rating"`
	Online          bool             `json:"online"`
	Score           int              `json:"score"`
	CommonGames     []string         `json:"commonGames"`
	CommonPlatforms []string         `json:"commonPlatforms"`
	SkillLevel      model.SkillLevel `json:"skillLevel,omitempty"`
}

// RequestMatchInput identifies the target and game of a match request.
type RequestMatchInput struct {
	ReceiverID string `json:"receiverId" binding:"required"`
	GameID     string `json:"gameId" binding:"required"`
}

// RateMatchInput carries one rating submission for a completed match.
type RateMatchInput struct {
	RatedUserID string  `json:"ratedUserId" binding:"required"`
	Rating      float64 `json:"rating" binding:"required,min=1,max=5"`
	Feedback    string  `json:"feedback"`
}

// MatchEvent is pushed on the match-notifications channel for every match
// lifecycle transition.
type MatchEvent struct {
	Type  string       `json:"type"`
	Match *model.Match `json:"match"`
}

// MatchService computes compatibility candidates and owns the match
// lifecycle: PENDING -> ACCEPTED -> COMPLETED, PENDING -> DECLINED,
// ratings against COMPLETED matches.
type MatchService struct {
	Matches  MatchStore
	Users    UserStore
	Games    GameStore
	Registry *PresenceRegistry
	Notifier Notifier
	Logger   *zap.Logger
}

func NewMatchService(matches MatchStore, users UserStore, games GameStore, registry *PresenceRegistry, notifier Notifier, logger *zap.Logger) *MatchService {
	return &MatchService{
		Matches:  matches,
		Users:    users,
		Games:    games,
		Registry: registry,
		Notifier: notifier,
		Logger:   logger,
	}
}

// FindMatches scores every other user against the request: +50 for the
// requested game in their preferred set, +30 for the platform, +20 for a
// matching declared skill level on that game. Zero-score candidates are
// dropped, the rest sorted by score descending and truncated to
// MaxResults.
func (s *MatchService) FindMatches(userID string, req FindMatchesRequest) ([]MatchCandidate, error) {
	requester, err := s.Users.FindByID(userID)
	if err != nil {
		return nil, util.NotFoundf("user %s", userID)
	}
	var wantedSkill model.SkillLevel
	if req.SkillLevel != "" {
		parsed, ok := model.ParseSkillLevel(req.SkillLevel)
		if !ok {
			return nil, util.InvalidOperationf("unknown skill level %q", req.SkillLevel)
		}
		wantedSkill = parsed
	}
	if req.MaxResults <= 0 {
		req.MaxResults = 10
	}

	candidates, err := s.Users.FindAll()
	if err != nil {
		return nil, err
	}

	results := make([]MatchCandidate, 0, len(candidates))
	for i := range candidates {
		c := &candidates[i]
		if c.ID == requester.ID {
			continue
		}
		score := 0
		if c.PrefersGame(req.GameName) {
			score += scoreGame
		}
		if req.Platform != "" && c.OnPlatform(req.Platform) {
			score += scorePlatform
		}
		if wantedSkill != "" && c.SkillLevels[req.GameName] == wantedSkill {
			score += scoreSkill
		}
		if score == 0 {
			continue
		}
		results = append(results, MatchCandidate{
			UserID:          c.ID,
			Username:        c.Username,
			AvatarURL:       c.AvatarURL,
			Level:           c.Level,
			Rating:          c.Rating,
			Online:          s.Registry.IsOnline(c.ID),
			Score:           score,
			CommonGames:     commonGames(requester, c),
			CommonPlatforms: commonPlatforms(requester, c),
			SkillLevel:      c.SkillLevels[req.GameName],
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if len(results) > req.MaxResults {
		results = results[:req.MaxResults]
	}
	return results, nil
}

// RequestMatch creates a PENDING match and notifies the target. A pending
// match between the pair in either direction for the same game is a
// conflict.
func (s *MatchService) RequestMatch(senderID string, input RequestMatchInput) (*model.Match, error) {
	if senderID == input.ReceiverID {
		return nil, util.InvalidOperationf("cannot request a match with yourself")
	}
	sender, err := s.Users.FindByID(senderID)
	if err != nil {
		return nil, util.NotFoundf("sender %s", senderID)
	}
	receiver, err := s.Users.FindByID(input.ReceiverID)
	if err != nil {
		return nil, util.NotFoundf("receiver %s", input.ReceiverID)
	}
	game, err := s.Games.FindByID(input.GameID)
	if err != nil {
		return nil, util.NotFoundf("game %s", input.GameID)
	}

	exists, err := s.Matches.ExistsPendingBetween(sender.ID, receiver.ID, game.ID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, util.Conflictf("a pending match already exists between these users for %s", game.Name)
	}

	match := &model.Match{
		UserAID:       sender.ID,
		UserAUsername: sender.Username,
		UserBID:       receiver.ID,
		UserBUsername: receiver.Username,
		GameID:        game.ID,
		GameName:      game.Name,
		Status:        model.MatchPending,
		MatchedAt:     time.Now(),
	}
	if err := s.Matches.Create(match); err != nil {
		return nil, err
	}

	s.Notifier.SendToUser(receiver.Username, ChannelMatchNotifications, MatchEvent{
		Type:  EventMatchRequest,
		Match: match,
	})
	return match, nil
}

// Accept transitions PENDING to ACCEPTED and assigns the peer chat room.
// Only the target (userB) may accept.
func (s *MatchService) Accept(userID, matchID string) (*model.Match, error) {
	match, err := s.Matches.FindByID(matchID)
	if err != nil {
		return nil, util.NotFoundf("match %s", matchID)
	}
	if match.UserBID != userID {
		return nil, util.Unauthorizedf("only the requested user may accept this match")
	}

	now := time.Now()
	ok, err := s.Matches.TransitionStatus(matchID, model.MatchPending, model.MatchAccepted, map[string]interface{}{
		"accepted_at":  &now,
		"chat_room_id": ChatRoomID(match.UserAID, match.UserBID),
	})
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, util.InvalidStatef("match %s is not pending", matchID)
	}

	match, err = s.Matches.FindByID(matchID)
	if err != nil {
		return nil, err
	}
	s.notifyBoth(match, EventMatchAccepted)
	return match, nil
}

// Decline transitions PENDING to DECLINED. Only the target may decline.
func (s *MatchService) Decline(userID, matchID string) (*model.Match, error) {
	match, err := s.Matches.FindByID(matchID)
	if err != nil {
		return nil, util.NotFoundf("match %s", matchID)
	}
	if match.UserBID != userID {
		return nil, util.Unauthorizedf("only the requested user may decline this match")
	}

	now := time.Now()
	ok, err := s.Matches.TransitionStatus(matchID, model.MatchPending, model.MatchDeclined, map[string]interface{}{
		"declined_at": &now,
	})
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, util.InvalidStatef("match %s is not pending", matchID)
	}

	match, err = s.Matches.FindByID(matchID)
	if err != nil {
		return nil, err
	}
	s.notifyBoth(match, EventMatchDeclined)
	return match, nil
}

// Close transitions ACCEPTED to COMPLETED, credits a played match to both
// participants, and notifies the participant who did not close.
func (s *MatchService) Close(userID, matchID string) (*model.Match, error) {
	match, err := s.Matches.FindByID(matchID)
	if err != nil {
		return nil, util.NotFoundf("match %s", matchID)
	}
	if !match.HasParticipant(userID) {
		return nil, util.Unauthorizedf("only a participant may close this match")
	}

	now := time.Now()
	ok, err := s.Matches.TransitionStatus(matchID, model.MatchAccepted, model.MatchCompleted, map[string]interface{}{
		"completed_at": &now,
	})
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, util.InvalidStatef("match %s is not accepted", matchID)
	}

	for _, id := range []string{match.UserAID, match.UserBID} {
		if err := s.Users.RecordMatchPlayed(id); err != nil {
			s.Logger.Error("failed to credit played match",
				zap.String("userId", id), zap.String("matchId", matchID), zap.Error(err))
		}
	}

	match, err = s.Matches.FindByID(matchID)
	if err != nil {
		return nil, err
	}
	if other := match.Opponent(userID); other != "" {
		s.Notifier.SendToUser(other, ChannelMatchNotifications, MatchEvent{
			Type:  EventMatchClosed,
			Match: match,
		})
	}
	return match, nil
}

// Rate records one rating against a participant of a COMPLETED match and
// updates their running average.
func (s *MatchService) Rate(userID, matchID string, input RateMatchInput) (*model.Match, error) {
	match, err := s.Matches.FindByID(matchID)
	if err != nil {
		return nil, util.NotFoundf("match %s", matchID)
	}
	if match.Status != model.MatchCompleted {
		return nil, util.InvalidStatef("match %s is not completed", matchID)
	}
	if userID == input.RatedUserID {
		return nil, util.InvalidOperationf("cannot rate yourself")
	}
	if !match.HasParticipant(userID) || !match.HasParticipant(input.RatedUserID) {
		return nil, util.InvalidOperationf("both users must be participants of the match")
	}
	if input.Rating < 1 || input.Rating > 5 {
		return nil, util.InvalidOperationf("rating must be between 1 and 5")
	}

	if err := s.Users.AddRating(input.RatedUserID, input.Rating); err != nil {
		return nil, err
	}
	return match, nil
}

// Get returns one match. Only a participant may read it.
func (s *MatchService) Get(userID, matchID string) (*model.Match, error) {
	match, err := s.Matches.FindByID(matchID)
	if err != nil {
		return nil, util.NotFoundf("match %s", matchID)
	}
	if !match.HasParticipant(userID) {
		return nil, util.Unauthorizedf("only a participant may view this match")
	}
	return match, nil
}

// PendingFor returns the PENDING matches targeting the user.
func (s *MatchService) PendingFor(userID string) ([]model.Match, error) {
	return s.Matches.ListPendingForUser(userID)
}

// AcceptedFor returns the ACCEPTED matches the user participates in.
func (s *MatchService) AcceptedFor(userID string) ([]model.Match, error) {
	return s.Matches.ListAcceptedForUser(userID)
}

func (s *MatchService) notifyBoth(match *model.Match, eventType string) {
	event := MatchEvent{Type: eventType, Match: match}
	s.Notifier.SendToUser(match.UserAUsername, ChannelMatchNotifications, event)
	s.Notifier.SendToUser(match.UserBUsername, ChannelMatchNotifications, event)
}

func commonGames(a, b *model.User) []string {
	names := make([]string, 0)
	for _, g := range a.PreferredGames {
		if b.PrefersGame(g.Name) {
			names = append(names, g.Name)
		}
	}
	return names
}

func commonPlatforms(a, b *model.User) []string {
	names := make([]string, 0)
	for _, p := range a.Platforms {
		if b.OnPlatform(p.Name) {
			names = append(names, p.Name)
		}
	}
	return names
}
