package errors

import (
	"errors"
	"fmt"
	"strings"
)

// ── 错误分类 ──
// 业务错误统一包装以下五类之一，Handler 层按类别映射 HTTP 状态码

var (
	// ErrValidation 输入不合法：日期区间错误、驳回理由为空、引用了不存在或停用的实体
	ErrValidation = errors.New("data tidak valid")
	// ErrConflict 违反不变量：重复待审申请、学生已有生效岗位、重复调动申请
	ErrConflict = errors.New("terjadi konflik data")
	// ErrAuthorization 操作者缺少所需角色或所有权
	ErrAuthorization = errors.New("tidak memiliki akses")
	// ErrState 当前状态不允许该流转（含重复审批、重复决策）
	ErrState = errors.New("status tidak mengizinkan aksi ini")
	// ErrNotFound 目标记录不存在
	ErrNotFound = errors.New("data tidak ditemukan")
)

// ErrOptimisticLock 乐观锁冲突：记录已被其他操作修改
var ErrOptimisticLock = fmt.Errorf("%w: data telah diubah oleh proses lain, muat ulang lalu coba lagi", ErrState)

// Kind 返回错误所属类别；无法归类时返回 nil
func Kind(err error) error {
	for _, k := range []error{ErrValidation, ErrConflict, ErrAuthorization, ErrState, ErrNotFound} {
		if errors.Is(err, k) {
			return k
		}
	}
	return nil
}

// StudentConflictError 批量流转中某个学生违反不变量（如已有生效岗位）
// 携带冲突学生 ID，便于调用方提示
type StudentConflictError struct {
	StudentID string
	Reason    string
}

func (e *StudentConflictError) Error() string {
	return fmt.Sprintf("%s: siswa %s %s", ErrConflict.Error(), e.StudentID, e.Reason)
}

// Unwrap 归类为 ErrConflict
func (e *StudentConflictError) Unwrap() error { return ErrConflict }

// PendingInvitationsError 小组仍有未答复的邀请
type PendingInvitationsError struct {
	StudentIDs []string
}

func (e *PendingInvitationsError) Error() string {
	return fmt.Sprintf("%s: anggota belum menjawab undangan [%s]", ErrConflict.Error(), strings.Join(e.StudentIDs, ", "))
}

// Unwrap 归类为 ErrConflict
func (e *PendingInvitationsError) Unwrap() error { return ErrConflict }
