package response

import "github.com/gin-gonic/gin"

// Resp is the body of every error response. Successful responses are the bare resource.
type Resp struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
}

// Error builds an error body; an empty msg falls back to the code's default text.
func Error(code int, customMsg string) Resp {
	msg := CodeMsgMap[code]
	if customMsg != "" {
		msg = customMsg
	}
	return Resp{Code: code, Msg: msg}
}

// Abort writes an error body with status == code and stops the handler chain.
func Abort(c *gin.Context, code int, msg string) {
	c.AbortWithStatusJSON(code, Error(code, msg))
}
