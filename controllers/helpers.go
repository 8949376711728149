package controllers

import (
	"strconv"

	"propman/response"
	"propman/services/logger"

	"github.com/gin-gonic/gin"
)

// paramID đọc tham số đường dẫn kiểu số, trả về false và ghi 400 nếu sai
func paramID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		response.BadRequest(c, "ID không hợp lệ")
		return 0, false
	}
	return uint(id), true
}

func bindJSON(c *gin.Context, v interface{}) bool {
	if err := c.ShouldBindJSON(v); err != nil {
		response.BadRequest(c, "Dữ liệu không hợp lệ")
		return false
	}
	return true
}

func bindQuery(c *gin.Context, v interface{}) bool {
	if err := c.ShouldBindQuery(v); err != nil {
		response.BadRequest(c, "Tham số truy vấn không hợp lệ")
		return false
	}
	return true
}

// reply ghi kết quả service; err khác nil thì ánh xạ sang HTTP status
func reply(c *gin.Context, log logger.Logger, data interface{}, err error) {
	if err != nil {
		response.FromError(c, log, err)
		return
	}
	response.Success(c, data)
}

func replyCreated(c *gin.Context, log logger.Logger, data interface{}, err error) {
	if err != nil {
		response.FromError(c, log, err)
		return
	}
	response.Created(c, data)
}
