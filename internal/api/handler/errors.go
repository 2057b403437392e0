package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	pkgerrors "github.com/rhazelina/TA-12-sub000/pkg/errors"
	"github.com/rhazelina/TA-12-sub000/pkg/response"
)

// 业务错误码
const (
	CodeBadRequest   = 10001
	CodeUnauthorized = 10002
	CodeBodyTooLarge = 10005

	CodeValidation    = 40001
	CodeAuthorization = 40301
	CodeNotFound      = 40401
	CodeConflict      = 40901
	CodeState         = 40902
)

// respondError 按错误类别写入响应
//
//	Validation → 400, Authorization → 403, NotFound → 404,
//	Conflict / State → 409；冲突学生 ID 写入 details
//
// 无法归类的错误记入 c.Errors（由日志中间件输出）并返回 500
func respondError(c *gin.Context, err error) {
	var sc *pkgerrors.StudentConflictError
	if errors.As(err, &sc) {
		response.ConflictWithDetails(c, CodeConflict, err.Error(), sc.StudentID)
		return
	}
	var pi *pkgerrors.PendingInvitationsError
	if errors.As(err, &pi) {
		response.ConflictWithDetails(c, CodeConflict, err.Error(), strings.Join(pi.StudentIDs, ","))
		return
	}

	switch pkgerrors.Kind(err) {
	case pkgerrors.ErrValidation:
		response.BadRequest(c, CodeValidation, err.Error())
	case pkgerrors.ErrAuthorization:
		response.Forbidden(c, CodeAuthorization, err.Error())
	case pkgerrors.ErrNotFound:
		response.NotFound(c, CodeNotFound, err.Error())
	case pkgerrors.ErrConflict:
		response.Conflict(c, CodeConflict, err.Error())
	case pkgerrors.ErrState:
		response.Conflict(c, CodeState, err.Error())
	default:
		_ = c.Error(err)
		response.InternalError(c)
	}
}

// respondBindError 请求绑定 / 参数校验失败
func respondBindError(c *gin.Context, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		response.Error(c, http.StatusRequestEntityTooLarge, CodeBodyTooLarge, "Ukuran request terlalu besar")
		return
	}

	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		fields := make([]string, 0, len(ve))
		for _, fe := range ve {
			fields = append(fields, fe.Field()+": "+fe.Tag())
		}
		response.ErrorWithDetails(c, http.StatusBadRequest, CodeBadRequest, "Validasi gagal", strings.Join(fields, "; "))
		return
	}

	response.BadRequest(c, CodeBadRequest, "Format request tidak valid")
}
