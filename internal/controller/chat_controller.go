package controller

import (
	"github.com/gin-gonic/gin"

	"pixelpals_backend/internal/service"
	"pixelpals_backend/internal/util"
)

// ChatController upgrades authenticated clients to the websocket hub.
type ChatController struct {
	Hub *service.Hub
}

func NewChatController(hub *service.Hub) *ChatController {
	return &ChatController{Hub: hub}
}

// Connect upgrades the request to a websocket session. Authentication has
// already happened in middleware (Bearer header or ?token= for browser
// websocket clients).
func (c *ChatController) Connect(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	service.ServeWs(c.Hub, ctx.Writer, ctx.Request, claims.UserID, claims.Username)
}

// OnlineUsers reports the ids of users with at least one open session.
func (c *ChatController) OnlineUsers(ctx *gin.Context) {
	util.Success(ctx, gin.H{
		"userIds": c.Hub.Presence.Registry.OnlineUserIDs(),
	})
}
