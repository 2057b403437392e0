package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/rhazelina/TA-12-sub000/config"
	"github.com/rhazelina/TA-12-sub000/internal/dto"
	"github.com/rhazelina/TA-12-sub000/internal/model"
	"github.com/rhazelina/TA-12-sub000/internal/repository"
	pkgerrors "github.com/rhazelina/TA-12-sub000/pkg/errors"
)

// ── 审批模块业务错误 ──

var (
	ErrApproverRoleRequired = fmt.Errorf("%w: peran Anda tidak berwenang memutuskan pengajuan", pkgerrors.ErrAuthorization)
	ErrAlreadyDecided       = fmt.Errorf("%w: pengajuan sudah diputuskan", pkgerrors.ErrState)
	ErrGroupNotSubmitted    = fmt.Errorf("%w: kelompok belum diajukan", pkgerrors.ErrState)
	ErrRejectNoteRequired   = fmt.Errorf("%w: alasan penolakan wajib diisi", pkgerrors.ErrValidation)
	ErrDateRangeRequired    = fmt.Errorf("%w: tanggal mulai dan selesai wajib diisi", pkgerrors.ErrValidation)
)

// ApprovalService 审批业务接口
// 审批通过时在同一事务内为每名学生生成生效安置；任一学生冲突则整体回滚
type ApprovalService interface {
	ApproveApplication(ctx context.Context, id string, actor dto.Actor, req *dto.ApproveRequest) (*dto.ApplicationResponse, error)
	RejectApplication(ctx context.Context, id string, actor dto.Actor, note string) (*dto.ApplicationResponse, error)
	ApproveGroup(ctx context.Context, id string, actor dto.Actor, req *dto.ApproveRequest) (*dto.GroupResponse, error)
	RejectGroup(ctx context.Context, id string, actor dto.Actor, note string) (*dto.GroupResponse, error)
}

type approvalService struct {
	repo   *repository.Repository
	wf     *config.WorkflowConfig
	logger *zap.Logger
}

// NewApprovalService 创建 ApprovalService 实例
func NewApprovalService(repo *repository.Repository, wf *config.WorkflowConfig, logger *zap.Logger) ApprovalService {
	return &approvalService{repo: repo, wf: wf, logger: logger}
}

// placementPlan 一次审批要生成的安置参数
type placementPlan struct {
	source     model.PlacementSource
	sourceID   string
	industryID string
	supervisor string
	start, end time.Time
	decidedBy  string
	decidedAt  time.Time
}

// ════════════════════════════════════════════════════════════
// 个人申请
// ════════════════════════════════════════════════════════════

func (s *approvalService) ApproveApplication(ctx context.Context, id string, actor dto.Actor, req *dto.ApproveRequest) (*dto.ApplicationResponse, error) {
	if !s.wf.CanApprove(actor.Role) {
		return nil, ErrApproverRoleRequired
	}
	app, err := s.getApplication(ctx, id)
	if err != nil {
		return nil, err
	}
	if app.Status != model.ApplicationPending {
		return nil, ErrAlreadyDecided
	}

	if req.StartDate == nil || req.EndDate == nil {
		return nil, ErrDateRangeRequired
	}
	start, end, err := resolveRange(req.StartDate, req.EndDate, nil, nil)
	if err != nil {
		return nil, err
	}
	if _, err := lookupTeacher(ctx, s.repo, req.SupervisorID); err != nil {
		return nil, err
	}
	if err := s.ensureIndustryActive(ctx, app.IndustryID); err != nil {
		return nil, err
	}

	at := now()
	app.Status = model.ApplicationApproved
	app.DecisionNote = strings.TrimSpace(req.Note)
	app.DecidedAt = &at
	app.DecidedBy = strPtr(actor.ID)

	plan := placementPlan{
		source:     model.SourceApplication,
		sourceID:   app.ApplicationID,
		industryID: app.IndustryID,
		supervisor: req.SupervisorID,
		start:      start,
		end:        end,
		decidedBy:  actor.ID,
		decidedAt:  at,
	}

	err = s.repo.Transaction(ctx, func(txRepo *repository.Repository) error {
		applied, err := txRepo.Application.UpdateIfStatus(ctx, app, model.ApplicationPending)
		if err != nil {
			return err
		}
		if !applied {
			return ErrAlreadyDecided
		}
		if err := createPlacements(ctx, txRepo, plan, []string{app.StudentID}); err != nil {
			return err
		}
		return txRepo.Notification.BatchCreate(ctx, []model.Notification{newNotification(
			app.StudentID, model.NotifyApplicationDecided,
			"Pengajuan PKL disetujui",
			"Pengajuan PKL Anda telah disetujui. Silakan cek detail penempatan.",
			"application", app.ApplicationID,
		)})
	})
	if err != nil {
		s.logDecisionError("审批申请失败", id, err)
		return nil, err
	}

	s.logger.Info("申请已审批通过",
		zap.String("application_id", id),
		zap.String("reviewer_id", actor.ID),
		zap.String("supervisor_id", req.SupervisorID),
	)
	return s.applicationResponse(ctx, id)
}

func (s *approvalService) RejectApplication(ctx context.Context, id string, actor dto.Actor, note string) (*dto.ApplicationResponse, error) {
	if !s.wf.CanApprove(actor.Role) {
		return nil, ErrApproverRoleRequired
	}
	if isBlank(note) {
		return nil, ErrRejectNoteRequired
	}
	app, err := s.getApplication(ctx, id)
	if err != nil {
		return nil, err
	}
	if app.Status != model.ApplicationPending {
		return nil, ErrAlreadyDecided
	}

	at := now()
	app.Status = model.ApplicationRejected
	app.DecisionNote = strings.TrimSpace(note)
	app.DecidedAt = &at
	app.DecidedBy = strPtr(actor.ID)

	err = s.repo.Transaction(ctx, func(txRepo *repository.Repository) error {
		applied, err := txRepo.Application.UpdateIfStatus(ctx, app, model.ApplicationPending)
		if err != nil {
			return err
		}
		if !applied {
			return ErrAlreadyDecided
		}
		return txRepo.Notification.BatchCreate(ctx, []model.Notification{newNotification(
			app.StudentID, model.NotifyApplicationDecided,
			"Pengajuan PKL ditolak",
			"Pengajuan PKL Anda ditolak. Alasan: "+app.DecisionNote,
			"application", app.ApplicationID,
		)})
	})
	if err != nil {
		s.logDecisionError("驳回申请失败", id, err)
		return nil, err
	}

	s.logger.Info("申请已驳回", zap.String("application_id", id), zap.String("reviewer_id", actor.ID))
	return s.applicationResponse(ctx, id)
}

// ════════════════════════════════════════════════════════════
// 小组申请
// ════════════════════════════════════════════════════════════

func (s *approvalService) ApproveGroup(ctx context.Context, id string, actor dto.Actor, req *dto.ApproveRequest) (*dto.GroupResponse, error) {
	if !s.wf.CanApprove(actor.Role) {
		return nil, ErrApproverRoleRequired
	}
	group, err := s.getGroup(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := groupDecidable(group); err != nil {
		return nil, err
	}

	start, end, err := resolveRange(req.StartDate, req.EndDate, group.StartDate, group.EndDate)
	if err != nil {
		return nil, err
	}
	if _, err := lookupTeacher(ctx, s.repo, req.SupervisorID); err != nil {
		return nil, err
	}
	if group.IndustryID == nil {
		return nil, ErrUnknownIndustry
	}
	if err := s.ensureIndustryActive(ctx, *group.IndustryID); err != nil {
		return nil, err
	}

	var studentIDs []string
	for _, m := range group.Members {
		if m.Status == model.MemberAccepted {
			studentIDs = append(studentIDs, m.StudentID)
		}
	}

	at := now()
	group.Status = model.GroupApproved
	group.StartDate = &start
	group.EndDate = &end
	group.ApprovedAt = &at
	group.DecidedAt = &at
	group.DecidedBy = strPtr(actor.ID)
	group.DecisionNote = strings.TrimSpace(req.Note)

	plan := placementPlan{
		source:     model.SourceGroup,
		sourceID:   group.GroupID,
		industryID: *group.IndustryID,
		supervisor: req.SupervisorID,
		start:      start,
		end:        end,
		decidedBy:  actor.ID,
		decidedAt:  at,
	}

	err = s.repo.Transaction(ctx, func(txRepo *repository.Repository) error {
		applied, err := txRepo.Group.UpdateIfStatus(ctx, group, model.GroupSubmitted)
		if err != nil {
			return err
		}
		if !applied {
			return ErrAlreadyDecided
		}
		if err := createPlacements(ctx, txRepo, plan, studentIDs); err != nil {
			return err
		}
		return txRepo.Notification.BatchCreate(ctx, groupDecisionNotices(group.GroupID, studentIDs,
			"Pengajuan kelompok PKL disetujui",
			"Pengajuan kelompok PKL Anda telah disetujui. Silakan cek detail penempatan."))
	})
	if err != nil {
		s.logDecisionError("审批小组失败", id, err)
		return nil, err
	}

	s.logger.Info("小组已审批通过",
		zap.String("group_id", id),
		zap.String("reviewer_id", actor.ID),
		zap.Int("placements", len(studentIDs)),
	)
	return s.groupResponse(ctx, id)
}

func (s *approvalService) RejectGroup(ctx context.Context, id string, actor dto.Actor, note string) (*dto.GroupResponse, error) {
	if !s.wf.CanApprove(actor.Role) {
		return nil, ErrApproverRoleRequired
	}
	if isBlank(note) {
		return nil, ErrRejectNoteRequired
	}
	group, err := s.getGroup(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := groupDecidable(group); err != nil {
		return nil, err
	}

	var recipients []string
	for _, m := range group.Members {
		if m.Status != model.MemberRejected {
			recipients = append(recipients, m.StudentID)
		}
	}

	at := now()
	group.Status = model.GroupRejected
	group.DecidedAt = &at
	group.DecidedBy = strPtr(actor.ID)
	group.DecisionNote = strings.TrimSpace(note)

	err = s.repo.Transaction(ctx, func(txRepo *repository.Repository) error {
		applied, err := txRepo.Group.UpdateIfStatus(ctx, group, model.GroupSubmitted)
		if err != nil {
			return err
		}
		if !applied {
			return ErrAlreadyDecided
		}
		return txRepo.Notification.BatchCreate(ctx, groupDecisionNotices(group.GroupID, recipients,
			"Pengajuan kelompok PKL ditolak",
			"Pengajuan kelompok PKL Anda ditolak. Alasan: "+group.DecisionNote))
	})
	if err != nil {
		s.logDecisionError("驳回小组失败", id, err)
		return nil, err
	}

	s.logger.Info("小组已驳回", zap.String("group_id", id), zap.String("reviewer_id", actor.ID))
	return s.groupResponse(ctx, id)
}

// ════════════════════════════════════════════════════════════
// 安置生成
// ════════════════════════════════════════════════════════════

// createPlacements 在调用方事务内为每名学生插入生效安置
// 先对学生现有生效安置加行锁，再逐条插入；唯一索引冲突同样归为该学生的冲突
func createPlacements(ctx context.Context, txRepo *repository.Repository, plan placementPlan, studentIDs []string) error {
	locked, err := txRepo.Placement.LockActiveByStudents(ctx, studentIDs)
	if err != nil {
		return err
	}
	if len(locked) > 0 {
		return &pkgerrors.StudentConflictError{StudentID: locked[0].StudentID, Reason: placedReason}
	}

	for _, sid := range studentIDs {
		p := &model.Placement{
			StudentID:    sid,
			IndustryID:   plan.industryID,
			SupervisorID: plan.supervisor,
			StartDate:    plan.start,
			EndDate:      plan.end,
			Status:       model.PlacementActive,
			SourceType:   plan.source,
			SourceID:     plan.sourceID,
			DecidedBy:    strPtr(plan.decidedBy),
			DecidedAt:    &plan.decidedAt,
		}
		if err := txRepo.Placement.Create(ctx, p); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return &pkgerrors.StudentConflictError{StudentID: sid, Reason: placedReason}
			}
			return err
		}
	}
	return nil
}

// ── 辅助函数 ──

// resolveRange 解析日期区间；缺省时回落到 fallback
func resolveRange(start, end *string, fallbackStart, fallbackEnd *time.Time) (time.Time, time.Time, error) {
	s, err := parseDatePtr(start)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	e, err := parseDatePtr(end)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if s == nil {
		s = fallbackStart
	}
	if e == nil {
		e = fallbackEnd
	}
	if s == nil || e == nil {
		return time.Time{}, time.Time{}, ErrDateRangeRequired
	}
	if err := checkDateRange(*s, *e); err != nil {
		return time.Time{}, time.Time{}, err
	}
	return model.DateOnly(*s), model.DateOnly(*e), nil
}

func groupDecidable(g *model.Group) error {
	switch {
	case g.Status == model.GroupSubmitted:
		return nil
	case g.Status == model.GroupDraft:
		return ErrGroupNotSubmitted
	default:
		return ErrAlreadyDecided
	}
}

func (s *approvalService) ensureIndustryActive(ctx context.Context, industryID string) error {
	ind, err := lookupIndustry(ctx, s.repo, industryID)
	if err != nil {
		return err
	}
	if !ind.IsActive {
		return ErrIndustryNotActive
	}
	return nil
}

func (s *approvalService) getApplication(ctx context.Context, id string) (*model.Application, error) {
	app, err := s.repo.Application.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrApplicationNotFound
		}
		s.logger.Error("查询申请失败", zap.String("application_id", id), zap.Error(err))
		return nil, err
	}
	return app, nil
}

func (s *approvalService) getGroup(ctx context.Context, id string) (*model.Group, error) {
	g, err := s.repo.Group.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGroupNotFound
		}
		s.logger.Error("查询小组失败", zap.String("group_id", id), zap.Error(err))
		return nil, err
	}
	return g, nil
}

func (s *approvalService) applicationResponse(ctx context.Context, id string) (*dto.ApplicationResponse, error) {
	app, err := s.getApplication(ctx, id)
	if err != nil {
		return nil, err
	}
	return toApplicationResponse(app, s.logger), nil
}

func (s *approvalService) groupResponse(ctx context.Context, id string) (*dto.GroupResponse, error) {
	g, err := s.getGroup(ctx, id)
	if err != nil {
		return nil, err
	}
	return toGroupResponse(g), nil
}

// logDecisionError 业务错误由调用方处理，仅记录非预期错误
func (s *approvalService) logDecisionError(msg, id string, err error) {
	if pkgerrors.Kind(err) != nil {
		s.logger.Warn(msg, zap.String("id", id), zap.Error(err))
		return
	}
	s.logger.Error(msg, zap.String("id", id), zap.Error(err))
}

func groupDecisionNotices(groupID string, studentIDs []string, title, content string) []model.Notification {
	list := make([]model.Notification, 0, len(studentIDs))
	for _, id := range studentIDs {
		list = append(list, newNotification(id, model.NotifyGroupDecided, title, content, "group", groupID))
	}
	return list
}
