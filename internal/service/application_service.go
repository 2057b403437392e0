package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"iter"
	"strings"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/rhazelina/TA-12-sub000/config"
	"github.com/rhazelina/TA-12-sub000/internal/dto"
	"github.com/rhazelina/TA-12-sub000/internal/model"
	"github.com/rhazelina/TA-12-sub000/internal/repository"
	pkgerrors "github.com/rhazelina/TA-12-sub000/pkg/errors"
)

// ── 个人申请模块业务错误 ──

var (
	ErrApplicationNotFound      = fmt.Errorf("%w: pengajuan tidak ditemukan", pkgerrors.ErrNotFound)
	ErrApplicationPendingExists = fmt.Errorf("%w: siswa masih memiliki pengajuan yang menunggu keputusan", pkgerrors.ErrConflict)
	ErrNotApplicationOwner      = fmt.Errorf("%w: pengajuan bukan milik siswa ini", pkgerrors.ErrAuthorization)
)

const withdrawNote = "Ditarik oleh siswa"

// ApplicationService 个人申请业务接口
type ApplicationService interface {
	// 提交申请
	Submit(ctx context.Context, actor dto.Actor, req *dto.SubmitApplicationRequest) (*dto.ApplicationResponse, error)
	// 惰性遍历申请投影；每次 range 从第一页重新读取
	Applications(ctx context.Context, filter dto.ApplicationFilter) iter.Seq2[dto.ApplicationViewResponse, error]
	// 分页列表
	List(ctx context.Context, req *dto.ApplicationListRequest) ([]dto.ApplicationViewResponse, int64, error)
	// 我的申请
	ListMine(ctx context.Context, actor dto.Actor) ([]dto.ApplicationResponse, error)
	// 详情（学生仅限本人）
	Get(ctx context.Context, id string, actor dto.Actor) (*dto.ApplicationResponse, error)
	// 撤回（仅本人、仅待审；已终结时原样返回）
	Withdraw(ctx context.Context, id string, actor dto.Actor) (*dto.ApplicationResponse, error)
}

type applicationService struct {
	repo      *repository.Repository
	batchSize int
	logger    *zap.Logger
}

// NewApplicationService 创建 ApplicationService 实例
func NewApplicationService(repo *repository.Repository, wf *config.WorkflowConfig, logger *zap.Logger) ApplicationService {
	batch := wf.ListBatchSize
	if batch <= 0 {
		batch = 100
	}
	return &applicationService{repo: repo, batchSize: batch, logger: logger}
}

// ════════════════════════════════════════════════════════════
// Submit
// ════════════════════════════════════════════════════════════

func (s *applicationService) Submit(ctx context.Context, actor dto.Actor, req *dto.SubmitApplicationRequest) (*dto.ApplicationResponse, error) {
	if !actor.IsStudent() {
		return nil, ErrStudentOnly
	}

	student, err := lookupStudent(ctx, s.repo, actor.ID)
	if err != nil {
		return nil, err
	}
	industry, err := lookupIndustry(ctx, s.repo, req.IndustryID)
	if err != nil {
		return nil, err
	}
	if !industry.IsActive {
		return nil, ErrInactiveIndustry
	}

	pending, err := s.repo.Application.HasPending(ctx, student.StudentID)
	if err != nil {
		s.logger.Error("查询待审申请失败", zap.String("student_id", student.StudentID), zap.Error(err))
		return nil, err
	}
	if pending {
		return nil, ErrApplicationPendingExists
	}

	placed, err := s.repo.Placement.HasActive(ctx, student.StudentID)
	if err != nil {
		s.logger.Error("查询生效安置失败", zap.String("student_id", student.StudentID), zap.Error(err))
		return nil, err
	}
	if placed {
		return nil, ErrStudentPlaced
	}

	docs, err := encodeDocuments(req.Documents)
	if err != nil {
		return nil, err
	}

	app := &model.Application{
		StudentID:   student.StudentID,
		IndustryID:  industry.IndustryID,
		Status:      model.ApplicationPending,
		SubmittedAt: now(),
		Note:        strings.TrimSpace(req.Note),
		Documents:   docs,
	}
	if err := s.repo.Application.Create(ctx, app); err != nil {
		// 并发提交由部分唯一索引兜底
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrApplicationPendingExists
		}
		s.logger.Error("创建申请失败", zap.String("student_id", student.StudentID), zap.Error(err))
		return nil, err
	}

	app.Student = student
	app.Industry = industry
	s.logger.Info("申请已提交",
		zap.String("application_id", app.ApplicationID),
		zap.String("student_id", student.StudentID),
		zap.String("industry_id", industry.IndustryID),
	)
	return toApplicationResponse(app, s.logger), nil
}

// ════════════════════════════════════════════════════════════
// Applications / List
// ════════════════════════════════════════════════════════════

func (s *applicationService) Applications(ctx context.Context, filter dto.ApplicationFilter) iter.Seq2[dto.ApplicationViewResponse, error] {
	return func(yield func(dto.ApplicationViewResponse, error) bool) {
		q, err := toApplicationQuery(filter)
		if err != nil {
			yield(dto.ApplicationViewResponse{}, err)
			return
		}

		var cursor *repository.ApplicationCursor
		for {
			rows, err := s.repo.Application.ListViewsAfter(ctx, q, cursor, s.batchSize)
			if err != nil {
				s.logger.Error("分批读取申请失败", zap.Error(err))
				yield(dto.ApplicationViewResponse{}, err)
				return
			}
			for i := range rows {
				if !yield(toApplicationView(&rows[i]), nil) {
					return
				}
			}
			if len(rows) < s.batchSize {
				return
			}
			last := rows[len(rows)-1]
			cursor = &repository.ApplicationCursor{SubmittedAt: last.SubmittedAt, ID: last.ApplicationID}
		}
	}
}

func (s *applicationService) List(ctx context.Context, req *dto.ApplicationListRequest) ([]dto.ApplicationViewResponse, int64, error) {
	q, err := toApplicationQuery(req.ApplicationFilter)
	if err != nil {
		return nil, 0, err
	}
	rows, total, err := s.repo.Application.ListViews(ctx, q, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("查询申请列表失败", zap.Error(err))
		return nil, 0, err
	}

	list := make([]dto.ApplicationViewResponse, 0, len(rows))
	for i := range rows {
		list = append(list, toApplicationView(&rows[i]))
	}
	return list, total, nil
}

func (s *applicationService) ListMine(ctx context.Context, actor dto.Actor) ([]dto.ApplicationResponse, error) {
	if !actor.IsStudent() {
		return nil, ErrStudentOnly
	}
	apps, err := s.repo.Application.ListByStudent(ctx, actor.ID)
	if err != nil {
		s.logger.Error("查询我的申请失败", zap.String("student_id", actor.ID), zap.Error(err))
		return nil, err
	}

	list := make([]dto.ApplicationResponse, 0, len(apps))
	for i := range apps {
		list = append(list, *toApplicationResponse(&apps[i], s.logger))
	}
	return list, nil
}

func (s *applicationService) Get(ctx context.Context, id string, actor dto.Actor) (*dto.ApplicationResponse, error) {
	app, err := s.getApplication(ctx, s.repo, id)
	if err != nil {
		return nil, err
	}
	if !actor.IsStaff() && app.StudentID != actor.ID {
		return nil, ErrNotOwnRecord
	}
	return toApplicationResponse(app, s.logger), nil
}

// ════════════════════════════════════════════════════════════
// Withdraw
// ════════════════════════════════════════════════════════════

func (s *applicationService) Withdraw(ctx context.Context, id string, actor dto.Actor) (*dto.ApplicationResponse, error) {
	app, err := s.getApplication(ctx, s.repo, id)
	if err != nil {
		return nil, err
	}
	if !actor.IsStudent() || app.StudentID != actor.ID {
		return nil, ErrNotApplicationOwner
	}
	if app.Status.Terminal() {
		return toApplicationResponse(app, s.logger), nil
	}

	at := now()
	app.Status = model.ApplicationRejected
	app.DecisionNote = withdrawNote
	app.Withdrawn = true
	app.DecidedAt = &at
	app.DecidedBy = strPtr(actor.ID)

	applied, err := s.repo.Application.UpdateIfStatus(ctx, app, model.ApplicationPending)
	if err != nil {
		s.logger.Error("撤回申请失败", zap.String("application_id", id), zap.Error(err))
		return nil, err
	}
	if !applied {
		// 并发审批已先一步终结该申请，撤回视为无操作
		return s.Get(ctx, id, actor)
	}

	s.logger.Info("申请已撤回", zap.String("application_id", id), zap.String("student_id", actor.ID))
	return toApplicationResponse(app, s.logger), nil
}

// ── 辅助函数 ──

func (s *applicationService) getApplication(ctx context.Context, repo *repository.Repository, id string) (*model.Application, error) {
	app, err := repo.Application.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrApplicationNotFound
		}
		s.logger.Error("查询申请失败", zap.String("application_id", id), zap.Error(err))
		return nil, err
	}
	return app, nil
}

func toApplicationQuery(f dto.ApplicationFilter) (repository.ApplicationQuery, error) {
	q := repository.ApplicationQuery{
		Search:     strings.TrimSpace(f.Search),
		StudentID:  f.StudentID,
		IndustryID: f.IndustryID,
	}
	if strings.TrimSpace(f.Status) != "" {
		st, err := model.ParseApplicationStatus(f.Status)
		if err != nil {
			return q, fmt.Errorf("%w: %s", ErrInvalidStatus, f.Status)
		}
		q.Status = st
	}
	return q, nil
}

func encodeDocuments(docs []dto.DocumentRef) (datatypes.JSON, error) {
	if docs == nil {
		docs = []dto.DocumentRef{}
	}
	raw, err := json.Marshal(docs)
	if err != nil {
		return nil, fmt.Errorf("%w: lampiran tidak valid", pkgerrors.ErrValidation)
	}
	return datatypes.JSON(raw), nil
}

// decodeDocuments 损坏的附件 JSON 记录告警并按无附件返回
func decodeDocuments(raw datatypes.JSON, applicationID string, logger *zap.Logger) []dto.DocumentRef {
	docs := []dto.DocumentRef{}
	if len(raw) == 0 {
		return docs
	}
	if err := json.Unmarshal(raw, &docs); err != nil {
		logger.Warn("申请附件 JSON 解析失败", zap.String("application_id", applicationID), zap.Error(err))
		return []dto.DocumentRef{}
	}
	return docs
}

func toApplicationResponse(app *model.Application, logger *zap.Logger) *dto.ApplicationResponse {
	return &dto.ApplicationResponse{
		ID:           app.ApplicationID,
		StudentID:    app.StudentID,
		Student:      studentBrief(app.Student),
		IndustryID:   app.IndustryID,
		Industry:     industryBrief(app.Industry),
		Status:       string(app.Status),
		StatusLabel:  app.Status.Label(),
		Note:         app.Note,
		DecisionNote: app.DecisionNote,
		Documents:    decodeDocuments(app.Documents, app.ApplicationID, logger),
		Withdrawn:    app.Withdrawn,
		SubmittedAt:  formatTime(app.SubmittedAt),
		DecidedAt:    formatTimePtr(app.DecidedAt),
		DecidedBy:    app.DecidedBy,
	}
}

func toApplicationView(row *model.ApplicationView) dto.ApplicationViewResponse {
	return dto.ApplicationViewResponse{
		ID:           row.ApplicationID,
		StudentID:    row.StudentID,
		StudentName:  row.StudentName,
		NISN:         row.NISN,
		ClassName:    row.ClassName,
		IndustryID:   row.IndustryID,
		IndustryName: row.IndustryName,
		Status:       string(row.Status),
		StatusLabel:  row.Status.Label(),
		Note:         row.Note,
		DecisionNote: row.DecisionNote,
		Withdrawn:    row.Withdrawn,
		SubmittedAt:  formatTime(row.SubmittedAt),
		DecidedAt:    formatTimePtr(row.DecidedAt),
	}
}
