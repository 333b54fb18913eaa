package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gallerycms/internal/locale"
	"github.com/gin-gonic/gin"
)

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": gin.H{"message": message}})
}

// respondFieldError 附带 target 字段，便于前端把错误挂到对应的表单输入上。
func respondFieldError(c *gin.Context, status int, message, target string) {
	c.JSON(status, gin.H{"error": gin.H{"message": message, "target": target}})
}

func bindJSON(c *gin.Context, dst interface{}, message string) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		respondError(c, http.StatusUnprocessableEntity, message)
		return false
	}
	return true
}

func parseUintParam(c *gin.Context, key string) (uint, error) {
	raw := c.Param(key)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return uint(id), nil
}

// requestLanguage 依次尝试 lang 查询参数与 Accept-Language 头，均无则用默认语言。
func requestLanguage(c *gin.Context) string {
	if language := locale.NormalizeLanguage(c.Query("lang")); language != "" {
		return language
	}
	if language := locale.LanguageFromAcceptLanguage(c.GetHeader("Accept-Language")); language != "" {
		return language
	}
	return locale.Default
}
