package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"wishcircle-api/internal/core/auth"
)

func init() { gin.SetMode(gin.TestMode) }

var testJWT = &auth.JWTer{Secret: []byte("k"), Issuer: "wishcircle", TTL: time.Hour}

func echoUser(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"userId": c.GetString(KeyUserID), "role": c.GetString(KeyRole)})
}

func do(r http.Handler, method, path string, hdr map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for k, v := range hdr {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]string {
	t.Helper()
	out := map[string]string{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestRequestID_GeneratesAndEchoes(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(KeyRequestID)) })

	w := do(r, http.MethodGet, "/", nil)
	assert.NotEmpty(t, w.Header().Get(KeyRequestID))
	assert.Equal(t, w.Header().Get(KeyRequestID), w.Body.String())

	w = do(r, http.MethodGet, "/", map[string]string{KeyRequestID: "abc"})
	assert.Equal(t, "abc", w.Header().Get(KeyRequestID))
}

func TestHeaderIdentity(t *testing.T) {
	r := gin.New()
	r.GET("/", HeaderIdentity(testJWT), echoUser)

	w := do(r, http.MethodGet, "/", map[string]string{"Authorization": "user-1"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "user-1", decode(t, w)["userId"])

	tok, err := testJWT.Issue("user-2", "b@x.com", "user")
	require.NoError(t, err)
	w = do(r, http.MethodGet, "/", map[string]string{"Authorization": "Bearer " + tok})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "user-2", decode(t, w)["userId"])

	w = do(r, http.MethodGet, "/", map[string]string{"Authorization": "Bearer garbage"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(r, http.MethodGet, "/", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "missing authorization header", decode(t, w)["message"])
}

func TestAuthJWT_Roles(t *testing.T) {
	r := gin.New()
	r.GET("/any", AuthJWT(testJWT, ""), echoUser)
	r.GET("/admin", AuthJWT(testJWT, "admin"), echoUser)

	userTok, err := testJWT.Issue("u1", "a@x.com", "user")
	require.NoError(t, err)
	adminTok, err := testJWT.Issue("a1", "root@x.com", "admin")
	require.NoError(t, err)

	assert.Equal(t, http.StatusUnauthorized, do(r, http.MethodGet, "/any", map[string]string{"Authorization": "u1"}).Code)

	w := do(r, http.MethodGet, "/any", map[string]string{"Authorization": "Bearer " + userTok})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "u1", decode(t, w)["userId"])

	assert.Equal(t, http.StatusForbidden, do(r, http.MethodGet, "/admin", map[string]string{"Authorization": "Bearer " + userTok}).Code)

	w = do(r, http.MethodGet, "/admin", map[string]string{"Authorization": "Bearer " + adminTok})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "admin", decode(t, w)["role"])
}

func TestConcurrencyLimit_RejectsWhenFull(t *testing.T) {
	release := make(chan struct{})
	entered := make(chan struct{})
	r := gin.New()
	r.Use(ConcurrencyLimit(1))
	r.GET("/slow", func(c *gin.Context) {
		close(entered)
		<-release
		c.Status(http.StatusOK)
	})
	r.GET("/fast", func(c *gin.Context) { c.Status(http.StatusOK) })

	done := make(chan int)
	go func() { done <- do(r, http.MethodGet, "/slow", nil).Code }()
	<-entered

	assert.Equal(t, http.StatusServiceUnavailable, do(r, http.MethodGet, "/fast", nil).Code)
	close(release)
	assert.Equal(t, http.StatusOK, <-done)
	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/fast", nil).Code)
}

func TestTimeout_WritesGatewayTimeout(t *testing.T) {
	r := gin.New()
	r.Use(Timeout(10 * time.Millisecond))
	r.GET("/", func(c *gin.Context) { <-c.Request.Context().Done() })

	w := do(r, http.MethodGet, "/", nil)
	assert.Equal(t, http.StatusGatewayTimeout, w.Code)
}

func TestRecovery_ReturnsMessage(t *testing.T) {
	r := gin.New()
	r.Use(Recovery(zap.NewNop()))
	r.GET("/", func(c *gin.Context) { panic("boom") })

	w := do(r, http.MethodGet, "/", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Internal Server Error", decode(t, w)["message"])
}

func TestMaskQuery(t *testing.T) {
	out := maskQuery(map[string][]string{"Password": {"x"}, "q": {"lamp"}})
	assert.Equal(t, []string{"****"}, out["Password"])
	assert.Equal(t, []string{"lamp"}, out["q"])
}
