package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/rhazelina/TA-12-sub000/internal/dto"
	"github.com/rhazelina/TA-12-sub000/internal/model"
	"github.com/rhazelina/TA-12-sub000/internal/repository"
	pkgerrors "github.com/rhazelina/TA-12-sub000/pkg/errors"
)

// ── 安置模块业务错误 ──

var (
	ErrNotApproved       = fmt.Errorf("%w: data penempatan hanya tersedia setelah pengajuan disetujui", pkgerrors.ErrState)
	ErrUnknownTargetType = fmt.Errorf("%w: jenis pengajuan tidak dikenal", pkgerrors.ErrValidation)
)

// PlacementService 安置查询与派遣函数据快照接口
type PlacementService interface {
	// GetApprovedPlacement 返回已审批申请 / 小组的安置快照，供外部派遣函渲染
	// 学生仅可读取包含本人的快照
	GetApprovedPlacement(ctx context.Context, targetType, id string, actor dto.Actor) (*dto.ApprovedPlacementResponse, error)
	ListMine(ctx context.Context, actor dto.Actor) ([]dto.PlacementResponse, error)
	List(ctx context.Context, req *dto.PlacementListRequest) ([]dto.PlacementResponse, int64, error)
}

type placementService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewPlacementService 创建 PlacementService 实例
func NewPlacementService(repo *repository.Repository, logger *zap.Logger) PlacementService {
	return &placementService{repo: repo, logger: logger}
}

// ════════════════════════════════════════════════════════════
// GetApprovedPlacement
// ════════════════════════════════════════════════════════════

func (s *placementService) GetApprovedPlacement(ctx context.Context, targetType, id string, actor dto.Actor) (*dto.ApprovedPlacementResponse, error) {
	var (
		source    model.PlacementSource
		decidedBy *string
		decidedAt string
	)

	switch targetType {
	case dto.TargetApplication:
		app, err := s.repo.Application.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrApplicationNotFound
			}
			s.logger.Error("查询申请失败", zap.String("application_id", id), zap.Error(err))
			return nil, err
		}
		if app.Status != model.ApplicationApproved {
			return nil, ErrNotApproved
		}
		source, decidedBy = model.SourceApplication, app.DecidedBy
		if app.DecidedAt != nil {
			decidedAt = formatTime(*app.DecidedAt)
		}
	case dto.TargetGroup:
		g, err := s.repo.Group.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrGroupNotFound
			}
			s.logger.Error("查询小组失败", zap.String("group_id", id), zap.Error(err))
			return nil, err
		}
		if g.Status != model.GroupApproved {
			return nil, ErrNotApproved
		}
		source, decidedBy = model.SourceGroup, g.DecidedBy
		if g.DecidedAt != nil {
			decidedAt = formatTime(*g.DecidedAt)
		}
	default:
		return nil, ErrUnknownTargetType
	}

	placements, err := s.repo.Placement.ListBySource(ctx, source, id)
	if err != nil {
		s.logger.Error("查询审批生成的安置失败", zap.String("source_id", id), zap.Error(err))
		return nil, err
	}
	if len(placements) == 0 {
		s.logger.Error("已审批记录缺少安置", zap.String("source_id", id))
		return nil, ErrNotApproved
	}
	if !actor.IsStaff() && !containsStudent(placements, actor.ID) {
		return nil, ErrNotOwnRecord
	}

	first := placements[0]
	resp := &dto.ApprovedPlacementResponse{
		TargetType: targetType,
		TargetID:   id,
		Students:   make([]dto.StudentBrief, 0, len(placements)),
		StartDate:  formatDate(first.StartDate),
		EndDate:    formatDate(first.EndDate),
		DecidedAt:  decidedAt,
	}
	if decidedBy != nil {
		resp.DecidedBy = *decidedBy
	}
	if b := industryBrief(first.Industry); b != nil {
		resp.Industry = *b
	}
	if b := teacherBrief(first.Supervisor); b != nil {
		resp.Supervisor = *b
	}
	for i := range placements {
		if b := studentBrief(placements[i].Student); b != nil {
			resp.Students = append(resp.Students, *b)
		}
	}

	profile, err := s.repo.Reference.GetSchoolProfile(ctx)
	switch {
	case err == nil:
		resp.School = &dto.SchoolBrief{
			Name:          profile.Name,
			Address:       profile.Address,
			Headmaster:    profile.Headmaster,
			HeadmasterNIP: profile.HeadmasterNIP,
		}
	case !errors.Is(err, gorm.ErrRecordNotFound):
		s.logger.Error("查询学校信息失败", zap.Error(err))
		return nil, err
	}

	return resp, nil
}

// ════════════════════════════════════════════════════════════
// 查询
// ════════════════════════════════════════════════════════════

func (s *placementService) ListMine(ctx context.Context, actor dto.Actor) ([]dto.PlacementResponse, error) {
	if !actor.IsStudent() {
		return nil, ErrStudentOnly
	}
	list, err := s.repo.Placement.ListByStudent(ctx, actor.ID)
	if err != nil {
		s.logger.Error("查询我的安置失败", zap.String("student_id", actor.ID), zap.Error(err))
		return nil, err
	}
	out := make([]dto.PlacementResponse, 0, len(list))
	for i := range list {
		out = append(out, toPlacementResponse(&list[i]))
	}
	return out, nil
}

func (s *placementService) List(ctx context.Context, req *dto.PlacementListRequest) ([]dto.PlacementResponse, int64, error) {
	q, err := toPlacementQuery(req.PlacementFilter)
	if err != nil {
		return nil, 0, err
	}
	rows, total, err := s.repo.Placement.ListViews(ctx, q, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("查询安置列表失败", zap.Error(err))
		return nil, 0, err
	}
	out := make([]dto.PlacementResponse, 0, len(rows))
	for i := range rows {
		out = append(out, placementViewResponse(&rows[i]))
	}
	return out, total, nil
}

// ── 辅助函数 ──

func toPlacementQuery(f dto.PlacementFilter) (repository.PlacementQuery, error) {
	q := repository.PlacementQuery{IndustryID: f.IndustryID, SupervisorID: f.SupervisorID}
	if strings.TrimSpace(f.Status) != "" {
		st, err := model.ParsePlacementStatus(f.Status)
		if err != nil {
			return q, fmt.Errorf("%w: %s", ErrInvalidStatus, f.Status)
		}
		q.Status = st
	}
	return q, nil
}

func toPlacementResponse(p *model.Placement) dto.PlacementResponse {
	return dto.PlacementResponse{
		ID:                  p.PlacementID,
		StudentID:           p.StudentID,
		Student:             studentBrief(p.Student),
		IndustryID:          p.IndustryID,
		Industry:            industryBrief(p.Industry),
		SupervisorID:        p.SupervisorID,
		Supervisor:          teacherBrief(p.Supervisor),
		StartDate:           formatDate(p.StartDate),
		EndDate:             formatDate(p.EndDate),
		Status:              string(p.Status),
		StatusLabel:         p.Status.Label(),
		SourceType:          string(p.SourceType),
		SourceID:            p.SourceID,
		PreviousPlacementID: p.PreviousPlacementID,
		DecidedAt:           formatTimePtr(p.DecidedAt),
	}
}

func placementViewResponse(v *model.PlacementView) dto.PlacementResponse {
	return dto.PlacementResponse{
		ID:           v.PlacementID,
		StudentID:    v.StudentID,
		Student:      &dto.StudentBrief{ID: v.StudentID, FullName: v.StudentName, NISN: v.NISN, ClassName: v.ClassName},
		IndustryID:   v.IndustryID,
		Industry:     &dto.IndustryBrief{ID: v.IndustryID, Name: v.IndustryName, Address: v.IndustryAddr},
		SupervisorID: v.SupervisorID,
		Supervisor:   &dto.TeacherBrief{ID: v.SupervisorID, FullName: v.SupervisorName},
		StartDate:    formatDate(v.StartDate),
		EndDate:      formatDate(v.EndDate),
		Status:       string(v.Status),
		StatusLabel:  v.Status.Label(),
		SourceType:   string(v.SourceType),
	}
}

func containsStudent(placements []model.Placement, studentID string) bool {
	for _, p := range placements {
		if p.StudentID == studentID {
			return true
		}
	}
	return false
}
