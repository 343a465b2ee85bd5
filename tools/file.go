package tools

import (
	"fmt"
	"net/url"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
)

const (
	ExcelContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// SendExcel 将 excelize 文件直接写入响应体，displayName 为下载时的文件名
func SendExcel(c *gin.Context, f *excelize.File, displayName string) error {
	escaped := url.QueryEscape(displayName)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return err
	}

	c.Header(
		"Content-Disposition",
		fmt.Sprintf(`attachment; filename="%s"; filename*=UTF-8''%s`, escaped, escaped),
	)
	c.Data(200, ExcelContentType, buf.Bytes())
	return nil
}
