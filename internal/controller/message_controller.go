package controller

import (
	"github.com/gin-gonic/gin"

	"pixelpals_backend/internal/service"
	"pixelpals_backend/internal/util"
)

type MessageController struct {
	MessageService *service.MessageService
}

func NewMessageController(messageService *service.MessageService) *MessageController {
	return &MessageController{MessageService: messageService}
}

func (c *MessageController) Send(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req struct {
		ReceiverID string `json:"receiverId" binding:"required"`
		Content    string `json:"content" binding:"required"`
		ChatRoomID string `json:"chatRoomId"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	msg, err := c.MessageService.Send(claims.UserID, req.ReceiverID, req.Content, req.ChatRoomID)
	if err != nil {
		util.ErrorFromService(ctx, err)
		return
	}
	util.Created(ctx, msg)
}

func (c *MessageController) History(ctx *gin.Context) {
	messages, err := c.MessageService.History(ctx.Param("roomId"))
	if err != nil {
		util.ErrorFromService(ctx, err)
		return
	}
	util.Success(ctx, messages)
}

func (c *MessageController) MarkRead(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	if err := c.MessageService.MarkRead(claims.UserID, ctx.Param("roomId")); err != nil {
		util.ErrorFromService(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"read": true})
}

func (c *MessageController) UnreadCounts(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	total, err := c.MessageService.TotalUnread(claims.UserID)
	if err != nil {
		util.ErrorFromService(ctx, err)
		return
	}
	perRoom, err := c.MessageService.UnreadPerRoom(claims.UserID)
	if err != nil {
		util.ErrorFromService(ctx, err)
		return
	}

	util.Success(ctx, gin.H{
		"total":   total,
		"perRoom": perRoom,
	})
}

// RoomWith returns the deterministic peer-chat room id between the caller
// and another user.
func (c *MessageController) RoomWith(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	util.Success(ctx, gin.H{
		"chatRoomId": service.ChatRoomID(claims.UserID, ctx.Param("userId")),
	})
}
