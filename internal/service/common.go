package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/rhazelina/TA-12-sub000/internal/dto"
	"github.com/rhazelina/TA-12-sub000/internal/model"
	"github.com/rhazelina/TA-12-sub000/internal/repository"
	pkgerrors "github.com/rhazelina/TA-12-sub000/pkg/errors"
)

// ── 通用业务错误 ──

var (
	ErrStudentOnly        = fmt.Errorf("%w: hanya siswa yang dapat melakukan aksi ini", pkgerrors.ErrAuthorization)
	ErrUnknownStudent     = fmt.Errorf("%w: siswa tidak terdaftar", pkgerrors.ErrValidation)
	ErrUnknownIndustry    = fmt.Errorf("%w: industri tidak terdaftar", pkgerrors.ErrValidation)
	ErrInactiveIndustry   = fmt.Errorf("%w: industri tidak aktif", pkgerrors.ErrValidation)
	ErrUnknownTeacher     = fmt.Errorf("%w: guru pembimbing tidak terdaftar", pkgerrors.ErrValidation)
	ErrInvalidDate        = fmt.Errorf("%w: format tanggal harus YYYY-MM-DD", pkgerrors.ErrValidation)
	ErrInvalidDateRange   = fmt.Errorf("%w: tanggal mulai tidak boleh setelah tanggal selesai", pkgerrors.ErrValidation)
	ErrInvalidStatus      = fmt.Errorf("%w: status tidak dikenal", pkgerrors.ErrValidation)
	ErrStudentPlaced      = fmt.Errorf("%w: siswa sudah memiliki penempatan aktif", pkgerrors.ErrConflict)
	ErrIndustryNotActive  = fmt.Errorf("%w: industri tidak aktif", pkgerrors.ErrConflict)
	ErrNotificationAbsent = fmt.Errorf("%w: notifikasi tidak ditemukan", pkgerrors.ErrNotFound)
	ErrNotOwnRecord       = fmt.Errorf("%w: data ini milik siswa lain", pkgerrors.ErrAuthorization)
)

const placedReason = "sudah memiliki penempatan aktif"

// ── 参考数据查询 ──
// 参考数据不存在属于调用方输入错误，统一转换为 ValidationError

func lookupStudent(ctx context.Context, repo *repository.Repository, id string) (*model.Student, error) {
	st, err := repo.Reference.GetStudent(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w (%s)", ErrUnknownStudent, id)
		}
		return nil, err
	}
	return st, nil
}

func lookupIndustry(ctx context.Context, repo *repository.Repository, id string) (*model.Industry, error) {
	ind, err := repo.Reference.GetIndustry(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUnknownIndustry
		}
		return nil, err
	}
	return ind, nil
}

func lookupTeacher(ctx context.Context, repo *repository.Repository, id string) (*model.Teacher, error) {
	t, err := repo.Reference.GetTeacher(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUnknownTeacher
		}
		return nil, err
	}
	return t, nil
}

// lookupStudents 批量校验学生存在，返回与 ids 同序的结果
func lookupStudents(ctx context.Context, repo *repository.Repository, ids []string) ([]model.Student, error) {
	list, err := repo.Reference.ListStudentsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]model.Student, len(list))
	for _, st := range list {
		byID[st.StudentID] = st
	}
	out := make([]model.Student, 0, len(ids))
	for _, id := range ids {
		st, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("%w (%s)", ErrUnknownStudent, id)
		}
		out = append(out, st)
	}
	return out, nil
}

// ── 日期 ──

func parseDate(s string) (time.Time, error) {
	t, err := time.Parse(dto.DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return model.DateOnly(t), nil
}

func parseDatePtr(s *string) (*time.Time, error) {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil, nil
	}
	t, err := parseDate(*s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func checkDateRange(start, end time.Time) error {
	if start.After(end) {
		return ErrInvalidDateRange
	}
	return nil
}

func now() time.Time { return time.Now().UTC() }

// ── 格式化 ──

func formatTime(t time.Time) string { return t.Format(dto.TimeLayout) }

func formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := formatTime(*t)
	return &s
}

func formatDate(t time.Time) string { return t.Format(dto.DateLayout) }

func formatDatePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := formatDate(*t)
	return &s
}

func strPtr(s string) *string { return &s }

func boolPtr(b bool) *bool { return &b }

func studentBrief(st *model.Student) *dto.StudentBrief {
	if st == nil {
		return nil
	}
	b := &dto.StudentBrief{ID: st.StudentID, FullName: st.FullName, NISN: st.NISN}
	if st.Class != nil {
		b.ClassName = st.Class.Name
	}
	return b
}

func industryBrief(ind *model.Industry) *dto.IndustryBrief {
	if ind == nil {
		return nil
	}
	return &dto.IndustryBrief{ID: ind.IndustryID, Name: ind.Name, Address: ind.Address}
}

func teacherBrief(t *model.Teacher) *dto.TeacherBrief {
	if t == nil {
		return nil
	}
	return &dto.TeacherBrief{ID: t.TeacherID, FullName: t.FullName, NIP: t.NIP}
}

// ── 通知 ──

func newNotification(recipientID, typ, title, content, relatedType, relatedID string) model.Notification {
	return model.Notification{
		RecipientID: recipientID,
		Type:        typ,
		Title:       title,
		Content:     content,
		RelatedType: strPtr(relatedType),
		RelatedID:   strPtr(relatedID),
	}
}

func isBlank(s string) bool { return strings.TrimSpace(s) == "" }

// dedupe 去重并保持原顺序，同时剔除 except
func dedupe(ids []string, except string) []string {
	seen := map[string]bool{except: true}
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
