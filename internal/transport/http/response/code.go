package response

import "net/http"

// CodeMsgMap 各状态码的默认提示（未传自定义 msg 时使用）
var CodeMsgMap = map[int]string{
	http.StatusBadRequest:            "Bad Request",
	http.StatusUnauthorized:          "Unauthorized",
	http.StatusForbidden:             "Forbidden",
	http.StatusNotFound:              "Not Found",
	http.StatusRequestEntityTooLarge: "Request body too large",
	http.StatusUnprocessableEntity:   "Unprocessable Entity",
	http.StatusInternalServerError:   "Internal Server Error",
	http.StatusServiceUnavailable:    "Server busy, please try again later",
	http.StatusGatewayTimeout:        "Request timed out",
}
