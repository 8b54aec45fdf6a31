package controller

import (
	"github.com/gin-gonic/gin"

	"pixelpals_backend/internal/service"
	"pixelpals_backend/internal/util"
)

type UserController struct {
	UserService       *service.UserService
	FriendshipService *service.FriendshipService
}

func NewUserController(userService *service.UserService, friendshipService *service.FriendshipService) *UserController {
	return &UserController{
		UserService:       userService,
		FriendshipService: friendshipService,
	}
}

func (c *UserController) GetByID(ctx *gin.Context) {
	user, err := c.UserService.GetByID(ctx.Param("id"))
	if err != nil {
		util.ErrorFromService(ctx, err)
		return
	}
	util.Success(ctx, user)
}

// GetByUsername also reports the caller's relation to the looked-up user,
// so a profile page can render the right friend-request button.
func (c *UserController) GetByUsername(ctx *gin.Context) {
	user, err := c.UserService.GetByUsername(ctx.Param("username"))
	if err != nil {
		util.ErrorFromService(ctx, err)
		return
	}

	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	relation, err := c.FriendshipService.StatusBetween(claims.Username, user.ID)
	if err != nil {
		util.ErrorFromService(ctx, err)
		return
	}

	util.Success(ctx, gin.H{
		"user":             user,
		"friendshipStatus": relation,
	})
}

func (c *UserController) Search(ctx *gin.Context) {
	query := ctx.Query("q")
	if query == "" {
		util.BadRequest(ctx, "query parameter q is required")
		return
	}
	users, err := c.UserService.Search(query)
	if err != nil {
		util.ErrorFromService(ctx, err)
		return
	}
	util.Success(ctx, users)
}

func (c *UserController) UpdateProfile(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.UpdateProfileInput
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	user, err := c.UserService.UpdateProfile(claims.UserID, req)
	if err != nil {
		util.ErrorFromService(ctx, err)
		return
	}
	util.Success(ctx, user)
}

func (c *UserController) SetPreferredGames(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req struct {
		Games []string `json:"games" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	user, err := c.UserService.SetPreferredGames(claims.UserID, req.Games)
	if err != nil {
		util.ErrorFromService(ctx, err)
		return
	}
	util.Success(ctx, user)
}

func (c *UserController) SetPlatforms(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req struct {
		Platforms []string `json:"platforms" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	user, err := c.UserService.SetPlatforms(claims.UserID, req.Platforms)
	if err != nil {
		util.ErrorFromService(ctx, err)
		return
	}
	util.Success(ctx, user)
}

func (c *UserController) SetSkillLevel(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req struct {
		GameName   string `json:"gameName" binding:"required"`
		SkillLevel string `json:"skillLevel" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	user, err := c.UserService.SetSkillLevel(claims.UserID, req.GameName, req.SkillLevel)
	if err != nil {
		util.ErrorFromService(ctx, err)
		return
	}
	util.Success(ctx, user)
}

func (c *UserController) ListGames(ctx *gin.Context) {
	games, err := c.UserService.ListGames()
	if err != nil {
		util.ErrorFromService(ctx, err)
		return
	}
	util.Success(ctx, games)
}

func (c *UserController) ListPlatforms(ctx *gin.Context) {
	platforms, err := c.UserService.ListPlatforms()
	if err != nil {
		util.ErrorFromService(ctx, err)
		return
	}
	util.Success(ctx, platforms)
}
