package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/rhazelina/TA-12-sub000/config"
	"github.com/rhazelina/TA-12-sub000/internal/dto"
	"github.com/rhazelina/TA-12-sub000/internal/model"
	"github.com/rhazelina/TA-12-sub000/internal/repository"
	pkgerrors "github.com/rhazelina/TA-12-sub000/pkg/errors"
)

// ── 调动模块业务错误 ──

var (
	ErrPlacementNotFound        = fmt.Errorf("%w: penempatan tidak ditemukan", pkgerrors.ErrNotFound)
	ErrTransferNotFound         = fmt.Errorf("%w: pengajuan pindah tidak ditemukan", pkgerrors.ErrNotFound)
	ErrNotPlacementOwner        = fmt.Errorf("%w: penempatan bukan milik siswa ini", pkgerrors.ErrAuthorization)
	ErrTransferCoordinatorRole  = fmt.Errorf("%w: hanya koordinator yang dapat memutuskan tahap ini", pkgerrors.ErrAuthorization)
	ErrNotPlacementSupervisor   = fmt.Errorf("%w: hanya guru pembimbing penempatan ini yang dapat memutuskan", pkgerrors.ErrAuthorization)
	ErrPlacementNotActive       = fmt.Errorf("%w: penempatan tidak aktif", pkgerrors.ErrConflict)
	ErrTransferOpenExists       = fmt.Errorf("%w: masih ada pengajuan pindah yang berjalan untuk penempatan ini", pkgerrors.ErrConflict)
	ErrSameIndustry             = fmt.Errorf("%w: industri tujuan sama dengan industri saat ini", pkgerrors.ErrValidation)
	ErrTransferReasonRequired   = fmt.Errorf("%w: alasan pindah wajib diisi", pkgerrors.ErrValidation)
	ErrTransferNotAtCoordinator = fmt.Errorf("%w: pengajuan pindah tidak menunggu keputusan koordinator", pkgerrors.ErrState)
	ErrTransferNotAtSupervisor  = fmt.Errorf("%w: pengajuan pindah tidak menunggu keputusan pembimbing", pkgerrors.ErrState)
)

// TransferService 调动（pindah）业务接口
// 流程：pending_coordinator → pending_supervisor → approved；任一方拒绝即 rejected
type TransferService interface {
	Request(ctx context.Context, placementID string, actor dto.Actor, req *dto.CreateTransferRequest) (*dto.TransferResponse, error)
	DecideAsCoordinator(ctx context.Context, id string, actor dto.Actor, approve bool, note string) (*dto.TransferResponse, error)
	DecideAsSupervisor(ctx context.Context, id string, actor dto.Actor, approve bool, note string) (*dto.TransferResponse, error)
	Get(ctx context.Context, id string, actor dto.Actor) (*dto.TransferResponse, error)
	ListForPlacement(ctx context.Context, placementID string, actor dto.Actor) ([]dto.TransferResponse, error)
	List(ctx context.Context, req *dto.TransferListRequest) ([]dto.TransferResponse, int64, error)
	ListForSupervisor(ctx context.Context, actor dto.Actor, status string) ([]dto.TransferResponse, error)
}

type transferService struct {
	repo   *repository.Repository
	wf     *config.WorkflowConfig
	logger *zap.Logger
}

// NewTransferService 创建 TransferService 实例
func NewTransferService(repo *repository.Repository, wf *config.WorkflowConfig, logger *zap.Logger) TransferService {
	return &transferService{repo: repo, wf: wf, logger: logger}
}

// ════════════════════════════════════════════════════════════
// Request
// ════════════════════════════════════════════════════════════

func (s *transferService) Request(ctx context.Context, placementID string, actor dto.Actor, req *dto.CreateTransferRequest) (*dto.TransferResponse, error) {
	placement, err := s.getPlacement(ctx, placementID)
	if err != nil {
		return nil, err
	}
	if !actor.IsStudent() || placement.StudentID != actor.ID {
		return nil, ErrNotPlacementOwner
	}
	if placement.Status != model.PlacementActive {
		return nil, ErrPlacementNotActive
	}

	open, err := s.repo.Transfer.HasOpen(ctx, placementID)
	if err != nil {
		s.logger.Error("查询进行中调动失败", zap.String("placement_id", placementID), zap.Error(err))
		return nil, err
	}
	if open {
		return nil, ErrTransferOpenExists
	}

	industry, err := lookupIndustry(ctx, s.repo, req.NewIndustryID)
	if err != nil {
		return nil, err
	}
	if !industry.IsActive {
		return nil, ErrInactiveIndustry
	}
	if industry.IndustryID == placement.IndustryID {
		return nil, ErrSameIndustry
	}
	if isBlank(req.Reason) {
		return nil, ErrTransferReasonRequired
	}

	newEnd, err := parseDatePtr(req.NewEndDate)
	if err != nil {
		return nil, err
	}
	if newEnd != nil {
		if err := checkDateRange(placement.StartDate, *newEnd); err != nil {
			return nil, err
		}
	}

	t := &model.TransferRequest{
		PlacementID:   placement.PlacementID,
		StudentID:     placement.StudentID,
		OldIndustryID: placement.IndustryID,
		NewIndustryID: industry.IndustryID,
		Reason:        strings.TrimSpace(req.Reason),
		Status:        model.TransferPendingCoordinator,
		NewEndDate:    newEnd,
	}
	if err := s.repo.Transfer.Create(ctx, t); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrTransferOpenExists
		}
		s.logger.Error("创建调动申请失败", zap.String("placement_id", placementID), zap.Error(err))
		return nil, err
	}

	s.logger.Info("调动申请已提交",
		zap.String("transfer_id", t.TransferID),
		zap.String("placement_id", placementID),
		zap.String("new_industry_id", industry.IndustryID),
	)
	return toTransferResponse(t), nil
}

// ════════════════════════════════════════════════════════════
// DecideAsCoordinator
// ════════════════════════════════════════════════════════════

func (s *transferService) DecideAsCoordinator(ctx context.Context, id string, actor dto.Actor, approve bool, note string) (*dto.TransferResponse, error) {
	if !s.wf.CanDecideTransfer(actor.Role) {
		return nil, ErrTransferCoordinatorRole
	}
	t, err := s.getTransfer(ctx, id)
	if err != nil {
		return nil, err
	}
	if t.Status != model.TransferPendingCoordinator {
		return nil, ErrTransferNotAtCoordinator
	}

	at := now()
	t.CoordinatorID = strPtr(actor.ID)
	t.CoordinatorApproved = boolPtr(approve)
	t.CoordinatorNote = strings.TrimSpace(note)
	t.CoordinatorDecidedAt = &at
	t.Status = model.TransferPendingSupervisor
	if !approve {
		t.Status = model.TransferRejected
		t.DecidedAt = &at
	}

	err = s.repo.Transaction(ctx, func(txRepo *repository.Repository) error {
		applied, err := txRepo.Transfer.UpdateIfStatus(ctx, t, model.TransferPendingCoordinator)
		if err != nil {
			return err
		}
		if !applied {
			return ErrTransferNotAtCoordinator
		}
		if approve {
			return nil
		}
		return txRepo.Notification.BatchCreate(ctx, []model.Notification{transferNotice(t,
			"Pengajuan pindah ditolak koordinator", "Pengajuan pindah PKL Anda ditolak oleh koordinator.")})
	})
	if err != nil {
		s.logTransferError("协调员决策失败", id, err)
		return nil, err
	}

	s.logger.Info("协调员已决策", zap.String("transfer_id", id), zap.Bool("approve", approve))
	return toTransferResponse(t), nil
}

// ════════════════════════════════════════════════════════════
// DecideAsSupervisor
// ════════════════════════════════════════════════════════════

func (s *transferService) DecideAsSupervisor(ctx context.Context, id string, actor dto.Actor, approve bool, note string) (*dto.TransferResponse, error) {
	t, err := s.getTransfer(ctx, id)
	if err != nil {
		return nil, err
	}
	if t.Status != model.TransferPendingSupervisor {
		return nil, ErrTransferNotAtSupervisor
	}
	placement, err := s.getPlacement(ctx, t.PlacementID)
	if err != nil {
		return nil, err
	}
	if actor.IsStudent() || placement.SupervisorID != actor.ID {
		return nil, ErrNotPlacementSupervisor
	}

	at := now()
	t.SupervisorID = strPtr(actor.ID)
	t.SupervisorApproved = boolPtr(approve)
	t.SupervisorNote = strings.TrimSpace(note)
	t.SupervisorDecidedAt = &at
	t.DecidedAt = &at

	if !approve {
		t.Status = model.TransferRejected
		err = s.repo.Transaction(ctx, func(txRepo *repository.Repository) error {
			applied, err := txRepo.Transfer.UpdateIfStatus(ctx, t, model.TransferPendingSupervisor)
			if err != nil {
				return err
			}
			if !applied {
				return ErrTransferNotAtSupervisor
			}
			return txRepo.Notification.BatchCreate(ctx, []model.Notification{transferNotice(t,
				"Pengajuan pindah ditolak pembimbing", "Pengajuan pindah PKL Anda ditolak oleh guru pembimbing.")})
		})
		if err != nil {
			s.logTransferError("指导教师驳回失败", id, err)
			return nil, err
		}
		s.logger.Info("调动申请被指导教师驳回", zap.String("transfer_id", id))
		return toTransferResponse(t), nil
	}

	industry, err := lookupIndustry(ctx, s.repo, t.NewIndustryID)
	if err != nil {
		return nil, err
	}
	if !industry.IsActive {
		return nil, ErrIndustryNotActive
	}

	end := placement.EndDate
	if t.NewEndDate != nil {
		end = *t.NewEndDate
	}
	if err := checkDateRange(placement.StartDate, end); err != nil {
		return nil, err
	}

	err = s.repo.Transaction(ctx, func(txRepo *repository.Repository) error {
		old := *placement
		old.Status = model.PlacementSuperseded
		applied, err := txRepo.Placement.UpdateIfStatus(ctx, &old, model.PlacementActive)
		if err != nil {
			return err
		}
		if !applied {
			return ErrPlacementNotActive
		}

		next := &model.Placement{
			StudentID:           placement.StudentID,
			IndustryID:          t.NewIndustryID,
			SupervisorID:        placement.SupervisorID,
			StartDate:           placement.StartDate,
			EndDate:             end,
			Status:              model.PlacementActive,
			SourceType:          model.SourceTransfer,
			SourceID:            t.TransferID,
			PreviousPlacementID: strPtr(placement.PlacementID),
			DecidedBy:           strPtr(actor.ID),
			DecidedAt:           &at,
		}
		if err := txRepo.Placement.Create(ctx, next); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return &pkgerrors.StudentConflictError{StudentID: placement.StudentID, Reason: placedReason}
			}
			return err
		}

		t.Status = model.TransferApproved
		t.NewPlacementID = strPtr(next.PlacementID)
		applied, err = txRepo.Transfer.UpdateIfStatus(ctx, t, model.TransferPendingSupervisor)
		if err != nil {
			return err
		}
		if !applied {
			return ErrTransferNotAtSupervisor
		}
		return txRepo.Notification.BatchCreate(ctx, []model.Notification{transferNotice(t,
			"Pengajuan pindah disetujui", "Pengajuan pindah PKL Anda disetujui. Penempatan baru telah aktif.")})
	})
	if err != nil {
		// 事务回滚后内存中的对象不再可信
		t.Status = model.TransferPendingSupervisor
		t.NewPlacementID = nil
		s.logTransferError("调动审批失败", id, err)
		return nil, err
	}

	s.logger.Info("调动申请已通过",
		zap.String("transfer_id", id),
		zap.String("old_placement_id", placement.PlacementID),
		zap.Stringp("new_placement_id", t.NewPlacementID),
	)
	return toTransferResponse(t), nil
}

// ════════════════════════════════════════════════════════════
// 查询
// ════════════════════════════════════════════════════════════

func (s *transferService) Get(ctx context.Context, id string, actor dto.Actor) (*dto.TransferResponse, error) {
	t, err := s.getTransfer(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.IsStaff() && t.StudentID != actor.ID {
		return nil, ErrNotOwnRecord
	}
	return toTransferResponse(t), nil
}

func (s *transferService) ListForPlacement(ctx context.Context, placementID string, actor dto.Actor) ([]dto.TransferResponse, error) {
	placement, err := s.getPlacement(ctx, placementID)
	if err != nil {
		return nil, err
	}
	if !actor.IsStaff() && placement.StudentID != actor.ID {
		return nil, ErrNotOwnRecord
	}
	list, err := s.repo.Transfer.ListByPlacement(ctx, placementID)
	if err != nil {
		s.logger.Error("查询安置调动记录失败", zap.String("placement_id", placementID), zap.Error(err))
		return nil, err
	}
	return toTransferResponses(list), nil
}

func (s *transferService) List(ctx context.Context, req *dto.TransferListRequest) ([]dto.TransferResponse, int64, error) {
	status, err := parseTransferFilter(req.Status)
	if err != nil {
		return nil, 0, err
	}
	list, total, err := s.repo.Transfer.List(ctx, status, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("查询调动列表失败", zap.Error(err))
		return nil, 0, err
	}
	return toTransferResponses(list), total, nil
}

func (s *transferService) ListForSupervisor(ctx context.Context, actor dto.Actor, status string) ([]dto.TransferResponse, error) {
	if actor.IsStudent() {
		return nil, ErrNotPlacementSupervisor
	}
	st, err := parseTransferFilter(status)
	if err != nil {
		return nil, err
	}
	list, err := s.repo.Transfer.ListBySupervisor(ctx, actor.ID, st)
	if err != nil {
		s.logger.Error("查询指导教师调动队列失败", zap.String("teacher_id", actor.ID), zap.Error(err))
		return nil, err
	}
	return toTransferResponses(list), nil
}

// ── 辅助函数 ──

func (s *transferService) getTransfer(ctx context.Context, id string) (*model.TransferRequest, error) {
	t, err := s.repo.Transfer.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTransferNotFound
		}
		s.logger.Error("查询调动申请失败", zap.String("transfer_id", id), zap.Error(err))
		return nil, err
	}
	return t, nil
}

func (s *transferService) getPlacement(ctx context.Context, id string) (*model.Placement, error) {
	p, err := s.repo.Placement.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPlacementNotFound
		}
		s.logger.Error("查询安置失败", zap.String("placement_id", id), zap.Error(err))
		return nil, err
	}
	return p, nil
}

func (s *transferService) logTransferError(msg, id string, err error) {
	if pkgerrors.Kind(err) != nil {
		s.logger.Warn(msg, zap.String("transfer_id", id), zap.Error(err))
		return
	}
	s.logger.Error(msg, zap.String("transfer_id", id), zap.Error(err))
}

func parseTransferFilter(raw string) (model.TransferStatus, error) {
	if strings.TrimSpace(raw) == "" {
		return "", nil
	}
	st, err := model.ParseTransferStatus(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrInvalidStatus, raw)
	}
	return st, nil
}

func transferNotice(t *model.TransferRequest, title, content string) model.Notification {
	return newNotification(t.StudentID, model.NotifyTransferDecided, title, content, "transfer", t.TransferID)
}

func toTransferResponses(list []model.TransferRequest) []dto.TransferResponse {
	out := make([]dto.TransferResponse, 0, len(list))
	for i := range list {
		out = append(out, *toTransferResponse(&list[i]))
	}
	return out
}

func toTransferResponse(t *model.TransferRequest) *dto.TransferResponse {
	return &dto.TransferResponse{
		ID:                   t.TransferID,
		PlacementID:          t.PlacementID,
		StudentID:            t.StudentID,
		OldIndustryID:        t.OldIndustryID,
		NewIndustryID:        t.NewIndustryID,
		Reason:               t.Reason,
		Status:               string(t.Status),
		StatusLabel:          t.Status.Label(),
		CoordinatorID:        t.CoordinatorID,
		CoordinatorApproved:  t.CoordinatorApproved,
		CoordinatorNote:      t.CoordinatorNote,
		CoordinatorDecidedAt: formatTimePtr(t.CoordinatorDecidedAt),
		SupervisorID:         t.SupervisorID,
		SupervisorApproved:   t.SupervisorApproved,
		SupervisorNote:       t.SupervisorNote,
		SupervisorDecidedAt:  formatTimePtr(t.SupervisorDecidedAt),
		NewEndDate:           formatDatePtr(t.NewEndDate),
		NewPlacementID:       t.NewPlacementID,
		DecidedAt:            formatTimePtr(t.DecidedAt),
		CreatedAt:            formatTime(t.CreatedAt),
	}
}
