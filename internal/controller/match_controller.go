package controller

import (
	"github.com/gin-gonic/gin"

	"pixelpals_backend/internal/service"
	"pixelpals_backend/internal/util"
)

type MatchController struct {
	MatchService *service.MatchService
}

func NewMatchController(matchService *service.MatchService) *MatchController {
	return &MatchController{MatchService: matchService}
}

func (c *MatchController) FindMatches(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.FindMatchesRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	candidates, err := c.MatchService.FindMatches(claims.UserID, req)
	if err != nil {
		util.ErrorFromService(ctx, err)
		return
	}
	util.Success(ctx, candidates)
}

func (c *MatchController) RequestMatch(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.RequestMatchInput
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	match, err := c.MatchService.RequestMatch(claims.UserID, req)
	if err != nil {
		util.ErrorFromService(ctx, err)
		return
	}
	util.Created(ctx, match)
}

func (c *MatchController) Accept(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	match, err := c.MatchService.Accept(claims.UserID, ctx.Param("id"))
	if err != nil {
		util.ErrorFromService(ctx, err)
		return
	}
	util.Success(ctx, match)
}

func (c *MatchController) Decline(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	match, err := c.MatchService.Decline(claims.UserID, ctx.Param("id"))
	if err != nil {
		util.ErrorFromService(ctx, err)
		return
	}
	util.Success(ctx, match)
}

func (c *MatchController) Close(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	match, err := c.MatchService.Close(claims.UserID, ctx.Param("id"))
	if err != nil {
		util.ErrorFromService(ctx, err)
		return
	}
	util.Success(ctx, match)
}

func (c *MatchController) Rate(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.RateMatchInput
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	match, err := c.MatchService.Rate(claims.UserID, ctx.Param("id"), req)
	if err != nil {
		util.ErrorFromService(ctx, err)
		return
	}
	util.Success(ctx, match)
}

func (c *MatchController) Get(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	match, err := c.MatchService.Get(claims.UserID, ctx.Param("id"))
	if err != nil {
		util.ErrorFromService(ctx, err)
		return
	}
	util.Success(ctx, match)
}

func (c *MatchController) ListPending(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	matches, err := c.MatchService.PendingFor(claims.UserID)
	if err != nil {
		util.ErrorFromService(ctx, err)
		return
	}
	util.Success(ctx, matches)
}

func (c *MatchController) ListAccepted(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	matches, err := c.MatchService.AcceptedFor(claims.UserID)
	if err != nil {
		util.ErrorFromService(ctx, err)
		return
	}
	util.Success(ctx, matches)
}
