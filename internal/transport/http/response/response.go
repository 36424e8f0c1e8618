package response

import "net/http"

// Message 错误体 / 纯消息体：{"message": "..."}
type Message struct {
	Message string `json:"message"`
}

func Msg(msg string) Message { return Message{Message: msg} }

// Error 失败响应（customMsg 为空时按状态码取默认文案）
func Error(status int, customMsg string) Message {
	msg := customMsg
	if msg == "" {
		msg = CodeMsgMap[status]
	}
	if msg == "" {
		msg = http.StatusText(status)
	}
	return Message{Message: msg}
}
