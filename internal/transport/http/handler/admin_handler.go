package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"wishcircle-api/internal/apperr"
	"wishcircle-api/internal/domain"
	"wishcircle-api/internal/service"
	"wishcircle-api/internal/transport/http/ez"
)

type AdminHandler struct {
	svc *service.AdminService
	log *zap.Logger
}

func NewAdminHandler(svc *service.AdminService, l *zap.Logger) *AdminHandler {
	if l == nil {
		l = zap.NewNop()
	}
	return &AdminHandler{svc: svc, log: l}
}

type usersQ struct {
	Q     string `form:"q"` // 按 email/name 模糊搜
	Limit int    `form:"limit"`
}

type topQ struct {
	Limit int `form:"limit,default=10"`
}

type itemsOut[T any] struct {
	Items []T `json:"items"`
}

type purgeOut struct {
	Deleted int64 `json:"deleted"`
}

// MountAdmin 分组已走 AuthJWT("admin")
func (h *AdminHandler) MountAdmin(admin *gin.RouterGroup) {
	e := ez.New(admin, h.log)

	// --- GET /admin/v1/users  用户列表 ---
	ez.RegisterAction(e, ez.Action[usersQ, itemsOut[domain.UserSummary]]{
		Method: http.MethodGet,
		Path:   "/users",
		Binder: ez.BindQuery,
		Auth:   true,
		Handler: func(c *gin.Context, in *usersQ) (itemsOut[domain.UserSummary], error) {
			rows, err := h.svc.ListUsers(c.Request.Context(), in.Q, in.Limit)
			if err != nil {
				return itemsOut[domain.UserSummary]{}, err
			}
			return itemsOut[domain.UserSummary]{Items: rows}, nil
		},
	})

	// --- GET /admin/v1/scores/top  排行榜 ---
	ez.RegisterAction(e, ez.Action[topQ, itemsOut[domain.Score]]{
		Method: http.MethodGet,
		Path:   "/scores/top",
		Binder: ez.BindQuery,
		Auth:   true,
		Handler: func(c *gin.Context, in *topQ) (itemsOut[domain.Score], error) {
			rows, err := h.svc.TopScores(c.Request.Context(), in.Limit)
			if err != nil {
				return itemsOut[domain.Score]{}, err
			}
			return itemsOut[domain.Score]{Items: rows}, nil
		},
	})

	// --- DELETE /admin/v1/users/:id/notifications  清理通知 ---
	ez.RegisterAction(e, ez.Action[struct{}, purgeOut]{
		Method: http.MethodDelete,
		Path:   "/users/:id/notifications",
		Binder: ez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) (purgeOut, error) {
			id := c.Param("id")
			if id == "" {
				return purgeOut{}, apperr.BadRequest("missing id")
			}
			n, err := h.svc.PurgeNotifications(c.Request.Context(), id)
			if err != nil {
				return purgeOut{}, err
			}
			return purgeOut{Deleted: n}, nil
		},
	})
}
