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

// ── 小组模块业务错误 ──

var (
	ErrGroupNotFound         = fmt.Errorf("%w: kelompok tidak ditemukan", pkgerrors.ErrNotFound)
	ErrMembershipNotFound    = fmt.Errorf("%w: undangan tidak ditemukan", pkgerrors.ErrNotFound)
	ErrNotGroupLeader        = fmt.Errorf("%w: hanya ketua kelompok yang dapat melakukan aksi ini", pkgerrors.ErrAuthorization)
	ErrNotInvitee            = fmt.Errorf("%w: undangan bukan milik siswa ini", pkgerrors.ErrAuthorization)
	ErrGroupNotDraft         = fmt.Errorf("%w: kelompok tidak lagi berstatus draf", pkgerrors.ErrState)
	ErrGroupDecided          = fmt.Errorf("%w: kelompok sudah diputuskan", pkgerrors.ErrState)
	ErrInvitationAnswered    = fmt.Errorf("%w: undangan sudah dijawab", pkgerrors.ErrState)
	ErrMemberAlreadyPlaced   = fmt.Errorf("%w: anggota sudah memiliki penempatan aktif", pkgerrors.ErrValidation)
	ErrCannotRemoveLeader    = fmt.Errorf("%w: ketua kelompok tidak dapat dikeluarkan", pkgerrors.ErrValidation)
	ErrAlreadyInActiveGroup  = fmt.Errorf("%w: siswa sudah tergabung dalam kelompok lain yang masih berjalan", pkgerrors.ErrConflict)
	ErrGroupIndustryInactive = fmt.Errorf("%w: industri tujuan kelompok tidak aktif", pkgerrors.ErrConflict)
)

// GroupService 小组业务接口
type GroupService interface {
	// 创建小组（调用者为组长）
	Create(ctx context.Context, actor dto.Actor, req *dto.CreateGroupRequest) (*dto.GroupResponse, error)
	// 追加邀请
	InviteMembers(ctx context.Context, groupID string, actor dto.Actor, req *dto.InviteMembersRequest) (*dto.GroupResponse, error)
	// 移除成员
	RemoveMember(ctx context.Context, groupID string, actor dto.Actor, studentID string) (*dto.GroupResponse, error)
	// 草稿编辑
	UpdateDraft(ctx context.Context, groupID string, actor dto.Actor, req *dto.UpdateGroupDraftRequest) (*dto.GroupResponse, error)
	// 答复邀请
	RespondToInvitation(ctx context.Context, memberID string, actor dto.Actor, accept bool) (*dto.GroupMemberResponse, error)
	// 提交小组申请
	Submit(ctx context.Context, groupID string, actor dto.Actor, req *dto.SubmitGroupRequest) (*dto.GroupResponse, error)
	// 撤回小组申请（Submitted → Draft）
	Withdraw(ctx context.Context, groupID string, actor dto.Actor) (*dto.GroupResponse, error)
	// 删除草稿小组
	Delete(ctx context.Context, groupID string, actor dto.Actor) error
	// 详情（学生仅限组长与成员，含待答复的受邀者）
	Get(ctx context.Context, groupID string, actor dto.Actor) (*dto.GroupResponse, error)
	ListMine(ctx context.Context, actor dto.Actor) ([]dto.GroupResponse, error)
	ListInvitations(ctx context.Context, actor dto.Actor) ([]dto.InvitationResponse, error)
	List(ctx context.Context, req *dto.GroupListRequest) ([]dto.GroupResponse, int64, error)
}

type groupService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewGroupService 创建 GroupService 实例
func NewGroupService(repo *repository.Repository, logger *zap.Logger) GroupService {
	return &groupService{repo: repo, logger: logger}
}

// ════════════════════════════════════════════════════════════
// Create / InviteMembers / RemoveMember
// ════════════════════════════════════════════════════════════

func (s *groupService) Create(ctx context.Context, actor dto.Actor, req *dto.CreateGroupRequest) (*dto.GroupResponse, error) {
	if !actor.IsStudent() {
		return nil, ErrStudentOnly
	}
	leader, err := lookupStudent(ctx, s.repo, actor.ID)
	if err != nil {
		return nil, err
	}

	memberIDs := dedupe(req.MemberIDs, leader.StudentID)
	invitees, err := lookupStudents(ctx, s.repo, memberIDs)
	if err != nil {
		return nil, err
	}
	if err := s.ensureNotPlaced(ctx, append([]string{leader.StudentID}, memberIDs...)); err != nil {
		return nil, err
	}

	group := &model.Group{
		LeaderID: leader.StudentID,
		Status:   model.GroupDraft,
	}
	err = s.repo.Transaction(ctx, func(txRepo *repository.Repository) error {
		if err := s.ensureFreeToJoin(ctx, txRepo, leader.StudentID, ""); err != nil {
			return err
		}
		if err := txRepo.Group.Create(ctx, group); err != nil {
			return err
		}
		at := now()
		members := []model.GroupMember{{
			GroupID:     group.GroupID,
			StudentID:   leader.StudentID,
			Status:      model.MemberAccepted,
			IsLeader:    true,
			RespondedAt: &at,
		}}
		for _, st := range invitees {
			members = append(members, model.GroupMember{
				GroupID:   group.GroupID,
				StudentID: st.StudentID,
				Status:    model.MemberPending,
			})
		}
		if err := txRepo.Group.CreateMembers(ctx, members); err != nil {
			return err
		}
		return txRepo.Notification.BatchCreate(ctx, invitationNotices(group.GroupID, leader.FullName, memberIDs))
	})
	if err != nil {
		if pkgerrors.Kind(err) == nil {
			s.logger.Error("创建小组失败", zap.String("leader_id", leader.StudentID), zap.Error(err))
		}
		return nil, err
	}

	s.logger.Info("小组已创建",
		zap.String("group_id", group.GroupID),
		zap.String("leader_id", leader.StudentID),
		zap.Int("invited", len(memberIDs)),
	)
	return s.view(ctx, group.GroupID)
}

func (s *groupService) InviteMembers(ctx context.Context, groupID string, actor dto.Actor, req *dto.InviteMembersRequest) (*dto.GroupResponse, error) {
	group, err := s.leaderDraft(ctx, groupID, actor)
	if err != nil {
		return nil, err
	}

	existing := make(map[string]bool, len(group.Members))
	for _, m := range group.Members {
		existing[m.StudentID] = true
	}
	var fresh []string
	for _, id := range dedupe(req.MemberIDs, group.LeaderID) {
		if !existing[id] {
			fresh = append(fresh, id)
		}
	}
	if len(fresh) == 0 {
		return toGroupResponse(group), nil
	}

	if _, err := lookupStudents(ctx, s.repo, fresh); err != nil {
		return nil, err
	}
	if err := s.ensureNotPlaced(ctx, fresh); err != nil {
		return nil, err
	}

	leaderName := ""
	if group.Leader != nil {
		leaderName = group.Leader.FullName
	}
	err = s.repo.Transaction(ctx, func(txRepo *repository.Repository) error {
		if _, err := s.lockDraftRow(ctx, txRepo, groupID); err != nil {
			return err
		}
		members := make([]model.GroupMember, 0, len(fresh))
		for _, id := range fresh {
			members = append(members, model.GroupMember{GroupID: groupID, StudentID: id, Status: model.MemberPending})
		}
		if err := txRepo.Group.CreateMembers(ctx, members); err != nil {
			return err
		}
		return txRepo.Notification.BatchCreate(ctx, invitationNotices(groupID, leaderName, fresh))
	})
	if err != nil {
		if pkgerrors.Kind(err) == nil {
			s.logger.Error("追加邀请失败", zap.String("group_id", groupID), zap.Error(err))
		}
		return nil, err
	}
	return s.view(ctx, groupID)
}

func (s *groupService) RemoveMember(ctx context.Context, groupID string, actor dto.Actor, studentID string) (*dto.GroupResponse, error) {
	group, err := s.leaderDraft(ctx, groupID, actor)
	if err != nil {
		return nil, err
	}
	if studentID == group.LeaderID {
		return nil, ErrCannotRemoveLeader
	}

	err = s.repo.Transaction(ctx, func(txRepo *repository.Repository) error {
		if _, err := s.lockDraftRow(ctx, txRepo, groupID); err != nil {
			return err
		}
		removed, err := txRepo.Group.DeleteMember(ctx, groupID, studentID)
		if err != nil {
			return err
		}
		if !removed {
			return ErrMembershipNotFound
		}
		return nil
	})
	if err != nil {
		if pkgerrors.Kind(err) == nil {
			s.logger.Error("移除成员失败", zap.String("group_id", groupID), zap.Error(err))
		}
		return nil, err
	}
	return s.view(ctx, groupID)
}

// ════════════════════════════════════════════════════════════
// UpdateDraft
// ════════════════════════════════════════════════════════════

func (s *groupService) UpdateDraft(ctx context.Context, groupID string, actor dto.Actor, req *dto.UpdateGroupDraftRequest) (*dto.GroupResponse, error) {
	if _, err := s.leaderDraft(ctx, groupID, actor); err != nil {
		return nil, err
	}

	var industryID *string
	if req.IndustryID != nil {
		ind, err := lookupIndustry(ctx, s.repo, *req.IndustryID)
		if err != nil {
			return nil, err
		}
		if !ind.IsActive {
			return nil, ErrInactiveIndustry
		}
		industryID = &ind.IndustryID
	}
	start, err := parseDatePtr(req.StartDate)
	if err != nil {
		return nil, err
	}
	end, err := parseDatePtr(req.EndDate)
	if err != nil {
		return nil, err
	}

	// 在锁定的行上合并修改，避免覆盖并发写入的字段
	err = s.repo.Transaction(ctx, func(txRepo *repository.Repository) error {
		group, err := s.lockDraftRow(ctx, txRepo, groupID)
		if err != nil {
			return err
		}
		if industryID != nil {
			group.IndustryID = industryID
		}
		if req.StartDate != nil {
			group.StartDate = start
		}
		if req.EndDate != nil {
			group.EndDate = end
		}
		if group.StartDate != nil && group.EndDate != nil {
			if err := checkDateRange(*group.StartDate, *group.EndDate); err != nil {
				return err
			}
		}
		if req.Note != nil {
			group.Note = strings.TrimSpace(*req.Note)
		}
		return s.lockDraft(ctx, txRepo, group)
	})
	if err != nil {
		if pkgerrors.Kind(err) == nil {
			s.logger.Error("更新小组草稿失败", zap.String("group_id", groupID), zap.Error(err))
		}
		return nil, err
	}
	return s.view(ctx, groupID)
}

// ════════════════════════════════════════════════════════════
// RespondToInvitation
// ════════════════════════════════════════════════════════════

func (s *groupService) RespondToInvitation(ctx context.Context, memberID string, actor dto.Actor, accept bool) (*dto.GroupMemberResponse, error) {
	member, err := s.repo.Group.GetMember(ctx, memberID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMembershipNotFound
		}
		s.logger.Error("查询邀请失败", zap.String("member_id", memberID), zap.Error(err))
		return nil, err
	}
	if !actor.IsStudent() || member.StudentID != actor.ID {
		return nil, ErrNotInvitee
	}
	if member.Status != model.MemberPending {
		return nil, ErrInvitationAnswered
	}
	if member.Group == nil || member.Group.Status != model.GroupDraft {
		return nil, ErrGroupNotDraft
	}

	at := now()
	member.RespondedAt = &at
	member.Status = model.MemberRejected
	verb := "menolak"
	if accept {
		member.Status = model.MemberAccepted
		verb = "menerima"
	}

	// 加锁顺序：学生行先于小组行
	err = s.repo.Transaction(ctx, func(txRepo *repository.Repository) error {
		if accept {
			if err := s.ensureFreeToJoin(ctx, txRepo, actor.ID, member.GroupID); err != nil {
				return err
			}
		}
		if _, err := s.lockDraftRow(ctx, txRepo, member.GroupID); err != nil {
			return err
		}
		applied, err := txRepo.Group.UpdateMemberIfStatus(ctx, member, model.MemberPending)
		if err != nil {
			return err
		}
		if !applied {
			return ErrInvitationAnswered
		}
		return txRepo.Notification.BatchCreate(ctx, []model.Notification{newNotification(
			member.Group.LeaderID, model.NotifyInvitationAnswered,
			"Jawaban undangan kelompok",
			fmt.Sprintf("Seorang anggota %s undangan kelompok PKL Anda.", verb),
			"group", member.GroupID,
		)})
	})
	if err != nil {
		if pkgerrors.Kind(err) == nil {
			s.logger.Error("答复邀请失败", zap.String("member_id", memberID), zap.Error(err))
		}
		return nil, err
	}

	s.logger.Info("邀请已答复", zap.String("member_id", memberID), zap.Bool("accept", accept))
	resp := toGroupMemberResponse(member)
	return &resp, nil
}

// ════════════════════════════════════════════════════════════
// Submit / Withdraw / Delete
// ════════════════════════════════════════════════════════════

func (s *groupService) Submit(ctx context.Context, groupID string, actor dto.Actor, req *dto.SubmitGroupRequest) (*dto.GroupResponse, error) {
	if _, err := s.leaderDraft(ctx, groupID, actor); err != nil {
		return nil, err
	}

	start, err := parseDate(req.StartDate)
	if err != nil {
		return nil, err
	}
	end, err := parseDate(req.EndDate)
	if err != nil {
		return nil, err
	}
	if err := checkDateRange(start, end); err != nil {
		return nil, err
	}

	industry, err := lookupIndustry(ctx, s.repo, req.IndustryID)
	if err != nil {
		return nil, err
	}
	if !industry.IsActive {
		return nil, ErrGroupIndustryInactive
	}

	// 成员清单在小组行锁内读取，追加邀请与答复须等待本事务结束
	err = s.repo.Transaction(ctx, func(txRepo *repository.Repository) error {
		group, err := s.lockDraftRow(ctx, txRepo, groupID)
		if err != nil {
			return err
		}
		members, err := txRepo.Group.ListMembers(ctx, groupID)
		if err != nil {
			return err
		}
		// 已拒绝的成员不计入；其余必须全部接受
		var pending []string
		for _, m := range members {
			if m.Status == model.MemberPending {
				pending = append(pending, m.StudentID)
			}
		}
		if len(pending) > 0 {
			return &pkgerrors.PendingInvitationsError{StudentIDs: pending}
		}

		at := now()
		group.IndustryID = &industry.IndustryID
		group.StartDate = &start
		group.EndDate = &end
		group.Note = strings.TrimSpace(req.Note)
		group.Status = model.GroupSubmitted
		group.SubmittedAt = &at
		return s.lockDraft(ctx, txRepo, group)
	})
	if err != nil {
		if pkgerrors.Kind(err) == nil {
			s.logger.Error("提交小组申请失败", zap.String("group_id", groupID), zap.Error(err))
		}
		return nil, err
	}

	s.logger.Info("小组申请已提交", zap.String("group_id", groupID), zap.String("industry_id", industry.IndustryID))
	return s.view(ctx, groupID)
}

func (s *groupService) Withdraw(ctx context.Context, groupID string, actor dto.Actor) (*dto.GroupResponse, error) {
	group, err := s.getGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if group.LeaderID != actor.ID {
		return nil, ErrNotGroupLeader
	}
	switch {
	case group.Status == model.GroupDraft:
		return toGroupResponse(group), nil
	case group.Status.Terminal():
		return nil, ErrGroupDecided
	}

	group.Status = model.GroupDraft
	group.SubmittedAt = nil
	applied, err := s.repo.Group.UpdateIfStatus(ctx, group, model.GroupSubmitted)
	if err != nil {
		s.logger.Error("撤回小组申请失败", zap.String("group_id", groupID), zap.Error(err))
		return nil, err
	}
	if !applied {
		current, err := s.getGroup(ctx, groupID)
		if err != nil {
			return nil, err
		}
		if current.Status == model.GroupDraft {
			return toGroupResponse(current), nil
		}
		return nil, ErrGroupDecided
	}

	s.logger.Info("小组申请已撤回", zap.String("group_id", groupID))
	return s.view(ctx, groupID)
}

func (s *groupService) Delete(ctx context.Context, groupID string, actor dto.Actor) error {
	if _, err := s.leaderDraft(ctx, groupID, actor); err != nil {
		return err
	}
	deleted, err := s.repo.Group.DeleteIfStatus(ctx, groupID, model.GroupDraft)
	if err != nil {
		s.logger.Error("删除小组失败", zap.String("group_id", groupID), zap.Error(err))
		return err
	}
	if !deleted {
		return ErrGroupNotDraft
	}
	s.logger.Info("小组已删除", zap.String("group_id", groupID))
	return nil
}

// ════════════════════════════════════════════════════════════
// 查询
// ════════════════════════════════════════════════════════════

func (s *groupService) Get(ctx context.Context, groupID string, actor dto.Actor) (*dto.GroupResponse, error) {
	group, err := s.getGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if !actor.IsStaff() && !involvesStudent(group, actor.ID) {
		return nil, ErrNotOwnRecord
	}
	return toGroupResponse(group), nil
}

// view 写操作完成后重新读取小组
func (s *groupService) view(ctx context.Context, groupID string) (*dto.GroupResponse, error) {
	group, err := s.getGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	return toGroupResponse(group), nil
}

func (s *groupService) ListMine(ctx context.Context, actor dto.Actor) ([]dto.GroupResponse, error) {
	if !actor.IsStudent() {
		return nil, ErrStudentOnly
	}
	groups, err := s.repo.Group.ListByMember(ctx, actor.ID)
	if err != nil {
		s.logger.Error("查询我的小组失败", zap.String("student_id", actor.ID), zap.Error(err))
		return nil, err
	}
	list := make([]dto.GroupResponse, 0, len(groups))
	for i := range groups {
		list = append(list, *toGroupResponse(&groups[i]))
	}
	return list, nil
}

func (s *groupService) ListInvitations(ctx context.Context, actor dto.Actor) ([]dto.InvitationResponse, error) {
	if !actor.IsStudent() {
		return nil, ErrStudentOnly
	}
	members, err := s.repo.Group.ListPendingInvitations(ctx, actor.ID)
	if err != nil {
		s.logger.Error("查询待答复邀请失败", zap.String("student_id", actor.ID), zap.Error(err))
		return nil, err
	}
	list := make([]dto.InvitationResponse, 0, len(members))
	for _, m := range members {
		inv := dto.InvitationResponse{
			MemberID:  m.MemberID,
			GroupID:   m.GroupID,
			InvitedAt: formatTime(m.CreatedAt),
		}
		if m.Group != nil {
			inv.GroupStatus = string(m.Group.Status)
			inv.Leader = studentBrief(m.Group.Leader)
		}
		list = append(list, inv)
	}
	return list, nil
}

func (s *groupService) List(ctx context.Context, req *dto.GroupListRequest) ([]dto.GroupResponse, int64, error) {
	var status model.GroupStatus
	if strings.TrimSpace(req.Status) != "" {
		st, err := model.ParseGroupStatus(req.Status)
		if err != nil {
			return nil, 0, fmt.Errorf("%w: %s", ErrInvalidStatus, req.Status)
		}
		status = st
	}
	groups, total, err := s.repo.Group.List(ctx, status, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("查询小组列表失败", zap.Error(err))
		return nil, 0, err
	}
	list := make([]dto.GroupResponse, 0, len(groups))
	for i := range groups {
		list = append(list, *toGroupResponse(&groups[i]))
	}
	return list, total, nil
}

// ── 辅助函数 ──

func (s *groupService) getGroup(ctx context.Context, id string) (*model.Group, error) {
	group, err := s.repo.Group.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGroupNotFound
		}
		s.logger.Error("查询小组失败", zap.String("group_id", id), zap.Error(err))
		return nil, err
	}
	return group, nil
}

// leaderDraft 读取小组并校验调用者为组长且小组处于草稿状态
func (s *groupService) leaderDraft(ctx context.Context, groupID string, actor dto.Actor) (*model.Group, error) {
	group, err := s.getGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if !actor.IsStudent() || group.LeaderID != actor.ID {
		return nil, ErrNotGroupLeader
	}
	if group.Status != model.GroupDraft {
		return nil, ErrGroupNotDraft
	}
	return group, nil
}

// lockDraft 以 draft 为前置状态写回小组；期间状态被改动则返回 StateError
func (s *groupService) lockDraft(ctx context.Context, repo *repository.Repository, group *model.Group) error {
	applied, err := repo.Group.UpdateIfStatus(ctx, group, model.GroupDraft)
	if err != nil {
		s.logger.Error("更新小组失败", zap.String("group_id", group.GroupID), zap.Error(err))
		return err
	}
	if !applied {
		return ErrGroupNotDraft
	}
	return nil
}

// lockDraftRow 在事务内锁定小组行并校验仍为草稿
func (s *groupService) lockDraftRow(ctx context.Context, txRepo *repository.Repository, groupID string) (*model.Group, error) {
	group, err := txRepo.Group.LockByID(ctx, groupID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGroupNotFound
		}
		return nil, err
	}
	if group.Status != model.GroupDraft {
		return nil, ErrGroupNotDraft
	}
	return group, nil
}

// ensureFreeToJoin 锁定学生行后确认其不在其他未终结小组中且没有生效安置
func (s *groupService) ensureFreeToJoin(ctx context.Context, txRepo *repository.Repository, studentID, excludeGroupID string) error {
	if err := txRepo.Group.LockStudent(ctx, studentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w (%s)", ErrUnknownStudent, studentID)
		}
		return err
	}
	busy, err := txRepo.Group.HasActiveMembership(ctx, studentID, excludeGroupID)
	if err != nil {
		return err
	}
	if busy {
		return ErrAlreadyInActiveGroup
	}
	placed, err := txRepo.Placement.HasActive(ctx, studentID)
	if err != nil {
		return err
	}
	if placed {
		return ErrStudentPlaced
	}
	return nil
}

// ensureNotPlaced 任一学生已有生效安置即返回 ValidationError
func (s *groupService) ensureNotPlaced(ctx context.Context, studentIDs []string) error {
	for _, id := range studentIDs {
		placed, err := s.repo.Placement.HasActive(ctx, id)
		if err != nil {
			s.logger.Error("查询生效安置失败", zap.String("student_id", id), zap.Error(err))
			return err
		}
		if placed {
			return fmt.Errorf("%w (%s)", ErrMemberAlreadyPlaced, id)
		}
	}
	return nil
}

func involvesStudent(g *model.Group, studentID string) bool {
	if g.LeaderID == studentID {
		return true
	}
	for _, m := range g.Members {
		if m.StudentID == studentID {
			return true
		}
	}
	return false
}

func invitationNotices(groupID, leaderName string, studentIDs []string) []model.Notification {
	list := make([]model.Notification, 0, len(studentIDs))
	for _, id := range studentIDs {
		list = append(list, newNotification(
			id, model.NotifyInvitationReceived,
			"Undangan kelompok PKL",
			fmt.Sprintf("%s mengundang Anda bergabung ke kelompok PKL.", nameOr(leaderName, "Ketua kelompok")),
			"group", groupID,
		))
	}
	return list
}

func nameOr(name, fallback string) string {
	if strings.TrimSpace(name) == "" {
		return fallback
	}
	return name
}

func toGroupResponse(g *model.Group) *dto.GroupResponse {
	resp := &dto.GroupResponse{
		ID:           g.GroupID,
		LeaderID:     g.LeaderID,
		Leader:       studentBrief(g.Leader),
		IndustryID:   g.IndustryID,
		Industry:     industryBrief(g.Industry),
		Status:       string(g.Status),
		StatusLabel:  g.Status.Label(),
		StartDate:    formatDatePtr(g.StartDate),
		EndDate:      formatDatePtr(g.EndDate),
		Note:         g.Note,
		DecisionNote: g.DecisionNote,
		SubmittedAt:  formatTimePtr(g.SubmittedAt),
		ApprovedAt:   formatTimePtr(g.ApprovedAt),
		DecidedAt:    formatTimePtr(g.DecidedAt),
		DecidedBy:    g.DecidedBy,
		Members:      make([]dto.GroupMemberResponse, 0, len(g.Members)),
		CreatedAt:    formatTime(g.CreatedAt),
	}
	for i := range g.Members {
		resp.Members = append(resp.Members, toGroupMemberResponse(&g.Members[i]))
	}
	return resp
}

func toGroupMemberResponse(m *model.GroupMember) dto.GroupMemberResponse {
	return dto.GroupMemberResponse{
		ID:          m.MemberID,
		GroupID:     m.GroupID,
		StudentID:   m.StudentID,
		Student:     studentBrief(m.Student),
		Status:      string(m.Status),
		StatusLabel: m.Status.Label(),
		IsLeader:    m.IsLeader,
		RespondedAt: formatTimePtr(m.RespondedAt),
	}
}
