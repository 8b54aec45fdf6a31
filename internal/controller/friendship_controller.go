package controller

import (
	"github.com/gin-gonic/gin"

	"pixelpals_backend/internal/service"
	"pixelpals_backend/internal/util"
)

type FriendshipController struct {
	FriendshipService *service.FriendshipService
}

func NewFriendshipController(friendshipService *service.FriendshipService) *FriendshipController {
	return &FriendshipController{FriendshipService: friendshipService}
}

func (c *FriendshipController) SendRequest(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req struct {
		Username string `json:"username" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	dto, err := c.FriendshipService.SendRequest(claims.UserID, req.Username)
	if err != nil {
		util.ErrorFromService(ctx, err)
		return
	}
	util.Created(ctx, dto)
}

func (c *FriendshipController) Accept(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	dto, err := c.FriendshipService.Accept(ctx.Param("id"), claims.Username)
	if err != nil {
		util.ErrorFromService(ctx, err)
		return
	}
	util.Success(ctx, dto)
}

func (c *FriendshipController) Reject(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	dto, err := c.FriendshipService.Reject(ctx.Param("id"), claims.Username)
	if err != nil {
		util.ErrorFromService(ctx, err)
		return
	}
	util.Success(ctx, dto)
}

func (c *FriendshipController) Remove(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	if err := c.FriendshipService.Remove(ctx.Param("userId"), claims.Username); err != nil {
		util.ErrorFromService(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"removed": true})
}

func (c *FriendshipController) ListFriends(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	friends, err := c.FriendshipService.ListFriends(claims.Username)
	if err != nil {
		util.ErrorFromService(ctx, err)
		return
	}
	util.Success(ctx, friends)
}

func (c *FriendshipController) ListPending(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	requests, err := c.FriendshipService.ListPending(claims.Username)
	if err != nil {
		util.ErrorFromService(ctx, err)
		return
	}
	util.Success(ctx, requests)
}

func (c *FriendshipController) ListSent(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	requests, err := c.FriendshipService.ListSent(claims.Username)
	if err != nil {
		util.ErrorFromService(ctx, err)
		return
	}
	util.Success(ctx, requests)
}

func (c *FriendshipController) StatusWith(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	relation, err := c.FriendshipService.StatusBetween(claims.Username, ctx.Param("userId"))
	if err != nil {
		util.ErrorFromService(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"status": relation})
}
