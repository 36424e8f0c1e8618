package middleware

// gin.Context 里的键
const (
	KeyRequestID = "X-Request-ID"
	KeyUserID    = "userId"
	KeyRole      = "role"
	KeyClaims    = "claims"
)
