package ez

import (
	"errors"
	"net/http"
	"reflect"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	mdw "wishcircle-api/internal/transport/http/middleware"
	resp "wishcircle-api/internal/transport/http/response"
)

// ReadConfig 只读、按属主过滤的列表 + 详情（模型无需实现任何接口）
type ReadConfig[T any] struct {
	DB    *gorm.DB
	Group *gin.RouterGroup // 已鉴权分组（能拿 userId）
	Path  string
	New   func() *T

	IDField    string // 默认 "ID"
	OwnerField string // 默认优先 "UserID"，其次 "OwnerID"/"UID"
	OrderBy    string // 默认 "created_at DESC"
	Limit      int    // 单次最多返回条数，默认 100

	AfterGet func(c *gin.Context, m *T)
}

type listOut[T any] struct {
	Items []T `json:"items"`
}

func (c *ReadConfig[T]) idFieldCandidates() []string {
	if c.IDField != "" {
		return []string{c.IDField, "ID", "Id"}
	}
	return []string{"ID", "Id"}
}

func (c *ReadConfig[T]) ownerFieldCandidates() []string {
	if c.OwnerField != "" {
		return []string{c.OwnerField, "UserID", "OwnerID", "UID"}
	}
	return []string{"UserID", "OwnerID", "UID"}
}

func getStringFieldPtr(obj any, candidates []string) (*string, bool) {
	v := reflect.ValueOf(obj)
	if v.Kind() != reflect.Ptr {
		return nil, false
	}
	v = v.Elem()
	if v.Kind() != reflect.Struct {
		return nil, false
	}
	t := v.Type()
	for _, cand := range candidates {
		f, ok := t.FieldByName(cand)
		if !ok || !f.IsExported() {
			continue
		}
		fv := v.FieldByIndex(f.Index)
		if fv.Kind() == reflect.String && fv.CanSet() {
			return fv.Addr().Interface().(*string), true
		}
	}
	return nil, false
}

func writeStringField(obj any, candidates []string, val string) bool {
	p, ok := getStringFieldPtr(obj, candidates)
	if !ok {
		return false
	}
	*p = val
	return true
}

func ReadOnly[T any](cfg ReadConfig[T]) {
	if cfg.OrderBy == "" {
		cfg.OrderBy = "created_at DESC"
	}
	if cfg.Limit <= 0 {
		cfg.Limit = 100
	}
	idFields := cfg.idFieldCandidates()
	ownerFields := cfg.ownerFieldCandidates()

	// List（我的）
	cfg.Group.GET(cfg.Path, func(c *gin.Context) {
		uid := c.GetString(mdw.KeyUserID)
		if uid == "" {
			c.JSON(http.StatusUnauthorized, resp.Error(http.StatusUnauthorized, ""))
			return
		}
		// 用结构体 Where 自动映射列名，避免手写 user_id
		filter := cfg.New()
		if !writeStringField(filter, ownerFields, uid) {
			c.JSON(http.StatusInternalServerError, resp.Error(http.StatusInternalServerError, "owner field not found"))
			return
		}

		items := make([]T, 0)
		err := cfg.DB.WithContext(c.Request.Context()).Model(cfg.New()).Where(filter).
			Order(cfg.OrderBy).Limit(cfg.Limit).Find(&items).Error
		if err != nil {
			c.JSON(http.StatusInternalServerError, resp.Error(http.StatusInternalServerError, ""))
			return
		}
		if cfg.AfterGet != nil {
			for i := range items {
				cfg.AfterGet(c, &items[i])
			}
		}
		c.JSON(http.StatusOK, listOut[T]{Items: items})
	})

	// Get
	cfg.Group.GET(cfg.Path+"/:id", func(c *gin.Context) {
		uid := c.GetString(mdw.KeyUserID)
		if uid == "" {
			c.JSON(http.StatusUnauthorized, resp.Error(http.StatusUnauthorized, ""))
			return
		}
		filter := cfg.New()
		_ = writeStringField(filter, idFields, c.Param("id"))
		_ = writeStringField(filter, ownerFields, uid)

		m := cfg.New()
		err := cfg.DB.WithContext(c.Request.Context()).Where(filter).First(m).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			c.JSON(http.StatusNotFound, resp.Error(http.StatusNotFound, ""))
			return
		case err != nil:
			c.JSON(http.StatusInternalServerError, resp.Error(http.StatusInternalServerError, ""))
			return
		}
		if cfg.AfterGet != nil {
			cfg.AfterGet(c, m)
		}
		c.JSON(http.StatusOK, m)
	})
}
