package ez

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"wishcircle-api/internal/apperr"
	mdw "wishcircle-api/internal/transport/http/middleware"
	resp "wishcircle-api/internal/transport/http/response"
)

// MsgInvalidInput 校验失败统一提示
const MsgInvalidInput = "Invalid inputs passed, please check your data."

type EZ struct {
	g   *gin.RouterGroup
	log *zap.Logger
}

func New(g *gin.RouterGroup, l *zap.Logger) EZ {
	if l == nil {
		l = zap.NewNop()
	}
	return EZ{g: g, log: l}
}

// Group 派生子分组，沿用同一个 logger
func (e EZ) Group(path string, mw ...gin.HandlerFunc) EZ {
	return EZ{g: e.g.Group(path, mw...), log: e.log}
}

// 绑定方式
type Binder string

const (
	BindJSON  Binder = "json"  // 从 JSON 绑定
	BindQuery Binder = "query" // 从 URL ?a=b 绑定
	BindForm  Binder = "form"  // 按 Content-Type 自动选择（JSON / multipart / urlencoded）
	BindNone  Binder = "none"  // 不绑定，自己从 c.Param / c.FormFile 取
)

// 动作定义：I 入参，O 出参
type Action[I any, O any] struct {
	Method     string            // "GET" | "POST" | "PUT" | "DELETE"
	Path       string            // 例："/signup"
	Binder     Binder            // 绑定方式
	Auth       bool              // 是否要求 ctx 中已有 userId（由中间件写入）
	Status     int               // 成功状态码，默认 200
	Middleware []gin.HandlerFunc // 路由级中间件
	Handler    func(c *gin.Context, in *I) (O, error)
}

func RegisterAction[I any, O any](e EZ, a Action[I, O]) {
	status := a.Status
	if status == 0 {
		status = http.StatusOK
	}

	h := func(c *gin.Context) {
		// 1) 鉴权
		if a.Auth && c.GetString(mdw.KeyUserID) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, resp.Error(http.StatusUnauthorized, ""))
			return
		}

		// 2) 绑定入参
		var in I
		var bindErr error
		switch a.Binder {
		case BindJSON:
			bindErr = c.ShouldBindJSON(&in)
		case BindQuery:
			bindErr = c.ShouldBindQuery(&in)
		case BindForm:
			bindErr = c.ShouldBind(&in)
		default: // BindNone
		}
		if bindErr != nil {
			e.failBind(c, bindErr)
			return
		}

		// 3) 执行 + 统一错误映射
		out, err := a.Handler(c, &in)
		if err != nil {
			e.Fail(c, err)
			return
		}
		c.JSON(status, out)
	}

	method := strings.ToUpper(a.Method)
	if method == "" {
		method = http.MethodPost
	}
	handlers := append(append([]gin.HandlerFunc{}, a.Middleware...), h)
	e.g.Handle(method, a.Path, handlers...)
}

// Fail 渲染 {message}；5xx 记录底层原因
func (e EZ) Fail(c *gin.Context, err error) {
	var ae *apperr.Error
	if !errors.As(err, &ae) {
		ae = &apperr.Error{Status: http.StatusInternalServerError, Err: err}
	}
	if ae.Status >= http.StatusInternalServerError {
		e.log.Error("request failed",
			zap.String("rid", c.GetString(mdw.KeyRequestID)),
			zap.String("path", c.FullPath()),
			zap.String("msg", ae.Msg),
			zap.Error(ae.Err),
		)
	}
	c.AbortWithStatusJSON(ae.Status, resp.Error(ae.Status, ae.Msg))
}

func (e EZ) failBind(c *gin.Context, err error) {
	var tooLarge *http.MaxBytesError
	var verrs validator.ValidationErrors
	switch {
	case errors.As(err, &tooLarge):
		c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, resp.Error(http.StatusRequestEntityTooLarge, ""))
	case errors.As(err, &verrs):
		c.AbortWithStatusJSON(http.StatusUnprocessableEntity, resp.Error(http.StatusUnprocessableEntity, MsgInvalidInput))
	default:
		c.AbortWithStatusJSON(http.StatusBadRequest, resp.Error(http.StatusBadRequest, err.Error()))
	}
}
