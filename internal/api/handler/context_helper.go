package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/rhazelina/TA-12-sub000/internal/dto"
	"github.com/rhazelina/TA-12-sub000/pkg/response"
)

// MustGetUserID 从 Gin 上下文中安全提取 user_id。
// 如果 JWT 中间件未正确注入 user_id，返回 false 并写入 401 响应。
// 调用方应在 ok=false 时直接 return。
func MustGetUserID(c *gin.Context) (string, bool) {
	return mustGetString(c, "user_id")
}

// MustGetRole 从 Gin 上下文中安全提取 role。
func MustGetRole(c *gin.Context) (string, bool) {
	return mustGetString(c, "role")
}

// MustGetActor 提取调用者身份，供业务操作显式传入
func MustGetActor(c *gin.Context) (dto.Actor, bool) {
	id, ok := MustGetUserID(c)
	if !ok {
		return dto.Actor{}, false
	}
	role, ok := MustGetRole(c)
	if !ok {
		return dto.Actor{}, false
	}
	return dto.Actor{ID: id, Role: role}, true
}

// MustGetPathID 读取路径中的 UUID 参数，返回规范化形式；格式不合法时写入 400 响应
func MustGetPathID(c *gin.Context, key string) (string, bool) {
	u, err := uuid.Parse(c.Param(key))
	if err != nil {
		response.BadRequest(c, CodeBadRequest, "ID tidak valid")
		return "", false
	}
	return u.String(), true
}

func mustGetString(c *gin.Context, key string) (string, bool) {
	v, exists := c.Get(key)
	if !exists {
		response.Unauthorized(c, CodeUnauthorized, "Belum terautentikasi")
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		response.Unauthorized(c, CodeUnauthorized, "Belum terautentikasi")
		return "", false
	}
	return s, true
}
