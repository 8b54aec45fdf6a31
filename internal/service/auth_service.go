package service

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"pixelpals_backend/internal/config"
	"pixelpals_backend/internal/model"
	"pixelpals_backend/internal/repository"
	"pixelpals_backend/internal/util"
)

type RegisterInput struct {
	Username string `json:"username" binding:"required,min=3,max=30"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

type LoginInput struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type AuthService struct {
	UserRepo *repository.UserRepository
	Cfg      *config.Config
}

func NewAuthService(userRepo *repository.UserRepository, cfg *config.Config) *AuthService {
	return &AuthService{
		UserRepo: userRepo,
		Cfg:      cfg,
	}
}

func (s *AuthService) Register(input RegisterInput) (*model.User, error) {
	taken, err := s.UserRepo.ExistsByUsername(input.Username)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, util.Conflictf("username %s is already taken", input.Username)
	}
	taken, err = s.UserRepo.ExistsByEmail(input.Email)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, util.Conflictf("email %s is already registered", input.Email)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	user := &model.User{
		Username:  input.Username,
		Email:     input.Email,
		Password:  string(hashed),
		Role:      "ROLE_USER",
		LastLogin: time.Now(),
	}
	if err := s.UserRepo.Create(user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *AuthService) Login(input LoginInput) (string, *model.User, error) {
	user, err := s.UserRepo.FindByUsername(input.Username)
	if err != nil {
		return "", nil, util.Unauthorizedf("invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)); err != nil {
		return "", nil, util.Unauthorizedf("invalid credentials")
	}

	user.LastLogin = time.Now()
	if err := s.UserRepo.Save(user); err != nil {
		return "", nil, err
	}

	token, err := util.GenerateJWT(user, s.Cfg.JWT.Secret, s.Cfg.JWT.ExpireTime)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// GetCurrentUser resolves the authenticated user from the request claims.
// A claims subject that no longer exists is NotFound; a store failure is
// surfaced as-is.
func (s *AuthService) GetCurrentUser(c *gin.Context) (*model.User, error) {
	claims := util.GetUserFromContext(c)
	if claims == nil {
		return nil, util.Unauthorizedf("missing authentication claims")
	}
	user, err := s.UserRepo.FindByID(claims.UserID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.NotFoundf("user %s", claims.UserID)
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}
