package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"kitten-game/game"
	"kitten-game/repository"
	"kitten-game/service"
)

// respondError 按错误类型映射 HTTP 状态码，规则错误附带 code 方便前端区分
func respondError(c *gin.Context, err error) {
	var rv *game.RuleViolation
	var pe game.PreconditionError
	switch {
	case errors.As(err, &rv):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"status_code": http.StatusUnprocessableEntity,
			"msg":         rv.Error(),
			"code":        rv.Code,
		})
	case errors.Is(err, repository.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"status_code": http.StatusNotFound, "msg": err.Error()})
	case errors.As(err, &pe):
		status := http.StatusConflict
		if pe == game.ErrNotHost {
			status = http.StatusForbidden
		}
		c.JSON(status, gin.H{"status_code": status, "msg": pe.Error()})
	case errors.Is(err, repository.ErrStaleRevision):
		c.JSON(http.StatusConflict, gin.H{"status_code": http.StatusConflict, "msg": "对局已被其他请求修改，请重试"})
	case errors.Is(err, service.ErrInvalidRequest):
		c.JSON(http.StatusBadRequest, gin.H{"status_code": http.StatusBadRequest, "msg": err.Error()})
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"status_code": http.StatusInternalServerError, "msg": "服务器内部错误"})
	}
}

func respondOK(c *gin.Context, msg string, data interface{}) {
	c.JSON(http.StatusOK, gin.H{
		"status_code": http.StatusOK,
		"msg":         msg,
		"data":        data,
	})
}
