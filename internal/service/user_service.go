package service

import (
	"pixelpals_backend/internal/model"
	"pixelpals_backend/internal/repository"
	"pixelpals_backend/internal/util"
)

type UpdateProfileInput struct {
	Bio       *string `json:"bio"`
	AvatarURL *string `json:"avatarUrl"`
}

// UserService owns the user profile surface: lookups, search, and the
// preference sets used by match scoring.
type UserService struct {
	UserRepo     *repository.UserRepository
	GameRepo     *repository.GameRepository
	PlatformRepo *repository.PlatformRepository
	Registry     *PresenceRegistry
}

func NewUserService(userRepo *repository.UserRepository, gameRepo *repository.GameRepository, platformRepo *repository.PlatformRepository, registry *PresenceRegistry) *UserService {
	return &UserService{
		UserRepo:     userRepo,
		GameRepo:     gameRepo,
		PlatformRepo: platformRepo,
		Registry:     registry,
	}
}

func (s *UserService) GetByID(id string) (*model.User, error) {
	user, err := s.UserRepo.FindByID(id)
	if err != nil {
		return nil, util.NotFoundf("user %s", id)
	}
	user.Online = s.Registry.IsOnline(user.ID)
	return user, nil
}

func (s *UserService) GetByUsername(username string) (*model.User, error) {
	user, err := s.UserRepo.FindByUsername(username)
	if err != nil {
		return nil, util.NotFoundf("user %s", username)
	}
	user.Online = s.Registry.IsOnline(user.ID)
	return user, nil
}

func (s *UserService) Search(query string) ([]model.User, error) {
	users, err := s.UserRepo.SearchByUsername(query)
	if err != nil {
		return nil, err
	}
	for i := range users {
		users[i].Online = s.Registry.IsOnline(users[i].ID)
	}
	return users, nil
}

func (s *UserService) UpdateProfile(userID string, input UpdateProfileInput) (*model.User, error) {
	user, err := s.UserRepo.FindByID(userID)
	if err != nil {
		return nil, util.NotFoundf("user %s", userID)
	}
	if input.Bio != nil {
		user.Bio = *input.Bio
	}
	if input.AvatarURL != nil {
		user.AvatarURL = *input.AvatarURL
	}
	if err := s.UserRepo.Save(user); err != nil {
		return nil, err
	}
	return user, nil
}

// SetPreferredGames replaces the user's preferred-game set. Unknown game
// names are rejected rather than silently dropped.
func (s *UserService) SetPreferredGames(userID string, names []string) (*model.User, error) {
	user, err := s.UserRepo.FindByID(userID)
	if err != nil {
		return nil, util.NotFoundf("user %s", userID)
	}
	games, err := s.GameRepo.FindByNames(names)
	if err != nil {
		return nil, err
	}
	if len(games) != len(names) {
		return nil, util.InvalidOperationf("one or more games are unknown")
	}
	if err := s.UserRepo.ReplacePreferredGames(user, games); err != nil {
		return nil, err
	}
	user.PreferredGames = games
	return user, nil
}

// SetPlatforms replaces the user's platform set.
func (s *UserService) SetPlatforms(userID string, names []string) (*model.User, error) {
	user, err := s.UserRepo.FindByID(userID)
	if err != nil {
		return nil, util.NotFoundf("user %s", userID)
	}
	platforms, err := s.PlatformRepo.FindByNames(names)
	if err != nil {
		return nil, err
	}
	if len(platforms) != len(names) {
		return nil, util.InvalidOperationf("one or more platforms are unknown")
	}
	if err := s.UserRepo.ReplacePlatforms(user, platforms); err != nil {
		return nil, err
	}
	user.Platforms = platforms
	return user, nil
}

// SetSkillLevel declares the user's skill level for one game.
func (s *UserService) SetSkillLevel(userID, gameName, level string) (*model.User, error) {
	skill, ok := model.ParseSkillLevel(level)
	if !ok {
		return nil, util.InvalidOperationf("unknown skill level %q", level)
	}
	user, err := s.UserRepo.FindByID(userID)
	if err != nil {
		return nil, util.NotFoundf("user %s", userID)
	}
	if user.SkillLevels == nil {
		user.SkillLevels = make(map[string]model.SkillLevel)
	}
	user.SkillLevels[gameName] = skill
	if err := s.UserRepo.UpdateSkillLevels(user.ID, user.SkillLevels); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) ListGames() ([]model.Game, error) {
	return s.GameRepo.List()
}

func (s *UserService) ListPlatforms() ([]model.Platform, error) {
	return s.PlatformRepo.List()
}
