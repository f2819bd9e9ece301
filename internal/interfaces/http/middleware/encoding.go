package middleware

import (
	"bytes"
	"io"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/transform"

	"github.com/tasklive/backend/internal/infrastructure/log"
)

// maxBodyBytes 请求体上限，任务接口只接收短文本
const maxBodyBytes = 1 << 20

// EnsureUTF8Body 把非 UTF-8 的请求体按 GB18030（兼容 GBK）转为 UTF-8
// Windows 中文终端下的 curl 会以本地代码页发送任务描述
func EnsureUTF8Body() gin.HandlerFunc {
	logger := log.NewModuleLogger("http", "encoding")

	return func(c *gin.Context) {
		if c.Request.Body == nil || c.Request.ContentLength == 0 {
			c.Next()
			return
		}

		body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxBodyBytes+1))
		c.Request.Body.Close()
		if err != nil || len(body) > maxBodyBytes || utf8.Valid(body) {
			// 读取失败或超限时交给 handler 的绑定逻辑报错
			restoreBody(c, body)
			c.Next()
			return
		}

		converted, err := decodeGB18030(body)
		if err != nil || !utf8.Valid(converted) {
			restoreBody(c, body)
			c.Next()
			return
		}

		log.FromContext(c.Request.Context(), logger).Debug("request body converted to UTF-8",
			"path", c.Request.URL.Path,
			"bytes", len(body),
		)
		restoreBody(c, converted)
		c.Next()
	}
}

// restoreBody 用已读取的内容替换请求体
func restoreBody(c *gin.Context, body []byte) {
	c.Request.Body = io.NopCloser(bytes.NewReader(body))
	c.Request.ContentLength = int64(len(body))
}

// decodeGB18030 GB18030 是 GBK 的超集，可直接解码 GBK 字节
func decodeGB18030(raw []byte) ([]byte, error) {
	reader := transform.NewReader(bytes.NewReader(raw), simplifiedchinese.GB18030.NewDecoder())
	return io.ReadAll(reader)
}
