package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"wishcircle-api/internal/apperr"
	"wishcircle-api/internal/core/auth"
	"wishcircle-api/internal/domain"
	"wishcircle-api/internal/service"
	"wishcircle-api/internal/transport/http/ez"
	mdw "wishcircle-api/internal/transport/http/middleware"
	resp "wishcircle-api/internal/transport/http/response"
)

// 成功提示语
const (
	MsgFriendAdded   = "Friend added successfully!"
	MsgWishlistAdded = "Added to wishlist successfully!"
	MsgPostAdded     = "Post added successfully!"
)

// 上传文件字段名
const imageField = "image"

type SocialHandler struct {
	svc           *service.SocialService
	jwt           *auth.JWTer
	maxImageBytes int64
	log           *zap.Logger
}

func NewSocialHandler(svc *service.SocialService, jwter *auth.JWTer, maxImageMB int64, l *zap.Logger) *SocialHandler {
	if maxImageMB <= 0 {
		maxImageMB = 5
	}
	if l == nil {
		l = zap.NewNop()
	}
	return &SocialHandler{svc: svc, jwt: jwter, maxImageBytes: maxImageMB << 20, log: l}
}

func (h *SocialHandler) Priority() int { return 10 }

type signupIn struct {
	Name     string `json:"name"     form:"name"     binding:"required"`
	Email    string `json:"email"    form:"email"    binding:"required,email"`
	Password string `json:"password" form:"password" binding:"required,min=6"`
}

// loginIn 只校验必填；格式 / 长度不对一律走凭证校验，返回同一个 403
type loginIn struct {
	Email    string `json:"email"    form:"email"    binding:"required"`
	Password string `json:"password" form:"password" binding:"required"`
}

type addFriendIn struct {
	UserID      string `json:"userId"      form:"userId"      binding:"required"`
	FriendEmail string `json:"friendEmail" form:"friendEmail" binding:"required,email"`
}

type wishlistIn struct {
	UserID       string `json:"userId"       form:"userId"       binding:"required"`
	ProductName  string `json:"productName"  form:"productName"  binding:"required"`
	ProductPrice string `json:"productPrice" form:"productPrice" binding:"required"`
}

type addPostIn struct {
	UserID string `json:"userId" form:"userId" binding:"required"`
	Theme  string `json:"theme"  form:"theme"  binding:"required"`
}

type voteIn struct {
	UserID string `json:"userId" form:"userId" binding:"required"`
}

type notificationsOut struct {
	Notifications []domain.Notification `json:"notifications"`
}

type postOut struct {
	Message string `json:"message"`
	Image   string `json:"image"`
	Theme   string `json:"theme"`
	UserID  string `json:"userId"`
}

type scoreOut struct {
	Score int64 `json:"score"`
}

// MountAPI 挂在 /api/v1/auth 下
func (h *SocialHandler) MountAPI(api *gin.RouterGroup) {
	e := ez.New(api, h.log).Group("/auth")
	identity := []gin.HandlerFunc{mdw.HeaderIdentity(h.jwt)}

	ez.RegisterAction(e, ez.Action[signupIn, *service.AuthResult]{
		Method: http.MethodPost,
		Path:   "/signup",
		Binder: ez.BindJSON,
		Status: http.StatusCreated,
		Handler: func(c *gin.Context, in *signupIn) (*service.AuthResult, error) {
			return h.svc.Signup(c.Request.Context(), service.SignupInput{
				Name: in.Name, Email: in.Email, Password: in.Password,
			})
		},
	})

	ez.RegisterAction(e, ez.Action[loginIn, *service.AuthResult]{
		Method: http.MethodPost,
		Path:   "/login",
		Binder: ez.BindJSON,
		Handler: func(c *gin.Context, in *loginIn) (*service.AuthResult, error) {
			return h.svc.Login(c.Request.Context(), service.LoginInput{Email: in.Email, Password: in.Password})
		},
	})

	ez.RegisterAction(e, ez.Action[addFriendIn, resp.Message]{
		Method: http.MethodPost,
		Path:   "/add-friend",
		Binder: ez.BindJSON,
		Handler: func(c *gin.Context, in *addFriendIn) (resp.Message, error) {
			if err := h.svc.AddFriend(c.Request.Context(), in.UserID, in.FriendEmail); err != nil {
				return resp.Message{}, err
			}
			return resp.Msg(MsgFriendAdded), nil
		},
	})

	ez.RegisterAction(e, ez.Action[wishlistIn, resp.Message]{
		Method: http.MethodPost,
		Path:   "/add-to-wishlist",
		Binder: ez.BindJSON,
		Handler: func(c *gin.Context, in *wishlistIn) (resp.Message, error) {
			_, err := h.svc.AddToWishlist(c.Request.Context(), service.WishlistInput{
				UserID:       in.UserID,
				ProductName:  in.ProductName,
				ProductPrice: in.ProductPrice,
			})
			if err != nil {
				return resp.Message{}, err
			}
			return resp.Msg(MsgWishlistAdded), nil
		},
	})

	ez.RegisterAction(e, ez.Action[struct{}, notificationsOut]{
		Method:     http.MethodGet,
		Path:       "/get-notifications",
		Binder:     ez.BindNone,
		Auth:       true,
		Middleware: identity,
		Handler: func(c *gin.Context, _ *struct{}) (notificationsOut, error) {
			list, err := h.svc.Notifications(c.Request.Context(), c.GetString(mdw.KeyUserID))
			if err != nil {
				return notificationsOut{}, err
			}
			return notificationsOut{Notifications: list}, nil
		},
	})

	// JSON 或 multipart 均可；图片走 multipart 的 image 字段
	ez.RegisterAction(e, ez.Action[addPostIn, postOut]{
		Method: http.MethodPost,
		Path:   "/add-post",
		Binder: ez.BindForm,
		Handler: func(c *gin.Context, in *addPostIn) (postOut, error) {
			file, err := h.readImage(c)
			if err != nil {
				return postOut{}, err
			}
			p, err := h.svc.AddPost(c.Request.Context(), service.PostInput{
				UserID: in.UserID, Theme: in.Theme, File: file,
			})
			if err != nil {
				return postOut{}, err
			}
			return postOut{Message: MsgPostAdded, Image: p.Image, Theme: p.Theme, UserID: p.UserID}, nil
		},
	})

	ez.RegisterAction(e, ez.Action[struct{}, scoreOut]{
		Method:     http.MethodGet,
		Path:       "/get-score",
		Binder:     ez.BindNone,
		Auth:       true,
		Middleware: identity,
		Handler: func(c *gin.Context, _ *struct{}) (scoreOut, error) {
			score, err := h.svc.Score(c.Request.Context(), c.GetString(mdw.KeyUserID))
			if err != nil {
				return scoreOut{}, err
			}
			return scoreOut{Score: score}, nil
		},
	})

	ez.RegisterAction(e, ez.Action[voteIn, scoreOut]{
		Method: http.MethodPost,
		Path:   "/give-vote",
		Binder: ez.BindJSON,
		Handler: func(c *gin.Context, in *voteIn) (scoreOut, error) {
			score, err := h.svc.GiveVote(c.Request.Context(), in.UserID)
			if err != nil {
				return scoreOut{}, err
			}
			return scoreOut{Score: score}, nil
		},
	})
}

// readImage 无附件 / 非 multipart 时返回 nil
func (h *SocialHandler) readImage(c *gin.Context) (*service.Attachment, error) {
	fh, err := c.FormFile(imageField)
	switch {
	case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
		return nil, nil
	case err != nil:
		return nil, apperr.BadRequest(err.Error())
	}
	if fh.Size > h.maxImageBytes {
		return nil, apperr.TooLarge(fmt.Sprintf("image exceeds %d bytes", h.maxImageBytes))
	}

	f, err := fh.Open()
	if err != nil {
		return nil, apperr.Internal(service.MsgAddPostFailed, err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, h.maxImageBytes+1))
	if err != nil {
		return nil, apperr.Internal(service.MsgAddPostFailed, err)
	}
	if int64(len(data)) > h.maxImageBytes {
		return nil, apperr.TooLarge(fmt.Sprintf("image exceeds %d bytes", h.maxImageBytes))
	}
	return &service.Attachment{Filename: fh.Filename, Data: data}, nil
}
