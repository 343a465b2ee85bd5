package tools

import (
	"math"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// GetPage 获取分页参数 可变参数依次是 defaultOffset, defaultPageSize, maxPageSize
func GetPage(c *gin.Context, defaults ...uint) (offset, limit int) {
	defaultOffset, defaultPageSize, maxPageSize := 0, 30, 300
	if len(defaults) > 0 && defaults[0] <= math.MaxInt {
		defaultOffset = int(defaults[0])
	}
	if len(defaults) > 1 && defaults[1] <= math.MaxInt {
		defaultPageSize = int(defaults[1])
	}
	if len(defaults) > 2 && defaults[2] <= math.MaxInt {
		maxPageSize = int(defaults[2])
	}

	limit, err := strconv.Atoi(c.Query("page_size"))
	if err != nil {
		limit = defaultPageSize
	}
	page, err := strconv.Atoi(c.Query("page"))
	if err != nil {
		page = 0
	}

	if limit < 1 {
		limit = defaultPageSize
	} else if limit > maxPageSize {
		limit = maxPageSize
	}
	if page < 1 {
		offset = defaultOffset
	} else {
		offset = (page - 1) * limit
		if offset < 0 {
			offset = defaultOffset
		}
	}
	return
}

// GetTime 获取请求指定的评估时间戳（秒），未指定时取当前时间
// 列表接口用它决定“现在”，以便前端或测试回放任意时间点的目录视图
func GetTime(c *gin.Context) int64 {
	if ts := c.Query("time"); ts != "" {
		if ti, err := strconv.ParseInt(ts, 10, 64); err == nil && ti > 0 {
			return ti
		}
	}
	return time.Now().Unix()
}
