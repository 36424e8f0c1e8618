package handler

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"wishcircle-api/internal/core/auth"
	"wishcircle-api/internal/domain"
	"wishcircle-api/internal/transport/http/ez"
	mdw "wishcircle-api/internal/transport/http/middleware"
)

// ContentHandler 当前用户自己的心愿单 / 帖子（只读）
type ContentHandler struct {
	db  *gorm.DB
	jwt *auth.JWTer
}

func NewContentHandler(db *gorm.DB, jwter *auth.JWTer) *ContentHandler {
	return &ContentHandler{db: db, jwt: jwter}
}

func (h *ContentHandler) Priority() int { return 20 }

func (h *ContentHandler) MountAPI(api *gin.RouterGroup) {
	authUser := api.Group("", mdw.AuthJWT(h.jwt, ""))

	ez.ReadOnly(ez.ReadConfig[domain.WishlistItem]{
		DB:    h.db,
		Group: authUser,
		Path:  "/wishlist",
		New:   func() *domain.WishlistItem { return &domain.WishlistItem{} },
	})

	ez.ReadOnly(ez.ReadConfig[domain.Post]{
		DB:    h.db,
		Group: authUser,
		Path:  "/posts",
		New:   func() *domain.Post { return &domain.Post{} },
	})
}
