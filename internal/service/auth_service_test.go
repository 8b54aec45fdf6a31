package service

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"pixelpals_backend/internal/util"
)

func TestAuth_GetCurrentUserWithoutClaims(t *testing.T) {
	req := require.New(t)
	svc := NewAuthService(nil, nil)

	ctx, _ := gin.CreateTestContext(httptest.NewRecorder())
	_, err := svc.GetCurrentUser(ctx)
	req.ErrorIs(err, util.ErrUnauthorized)
}
