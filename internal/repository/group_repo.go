package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/rhazelina/TA-12-sub000/internal/model"
)

// GroupRepository 小组与成员数据访问接口
type GroupRepository interface {
	Create(ctx context.Context, group *model.Group) error
	GetByID(ctx context.Context, id string) (*model.Group, error)
	// LockByID 对小组行加锁（SELECT ... FOR UPDATE），不预加载关联；须在事务内调用
	LockByID(ctx context.Context, id string) (*model.Group, error)
	// UpdateIfStatus 仅当当前状态为 from 时写入小组字段；返回是否生效
	UpdateIfStatus(ctx context.Context, group *model.Group, from model.GroupStatus) (bool, error)
	// DeleteIfStatus 仅当当前状态为 from 时删除小组及其成员
	DeleteIfStatus(ctx context.Context, id string, from model.GroupStatus) (bool, error)
	ListByMember(ctx context.Context, studentID string) ([]model.Group, error)
	List(ctx context.Context, status model.GroupStatus, offset, limit int) ([]model.Group, int64, error)

	// ── 成员 ──
	CreateMembers(ctx context.Context, members []model.GroupMember) error
	GetMember(ctx context.Context, id string) (*model.GroupMember, error)
	ListMembers(ctx context.Context, groupID string) ([]model.GroupMember, error)
	ListPendingInvitations(ctx context.Context, studentID string) ([]model.GroupMember, error)
	UpdateMemberIfStatus(ctx context.Context, member *model.GroupMember, from model.MemberStatus) (bool, error)
	DeleteMember(ctx context.Context, groupID, studentID string) (bool, error)
	// HasActiveMembership 学生是否已在其他未终结（draft/submitted）小组中接受邀请
	HasActiveMembership(ctx context.Context, studentID, excludeGroupID string) (bool, error)
	// LockStudent 对学生行加锁，串行化同一学生的入组操作；须在事务内调用
	LockStudent(ctx context.Context, studentID string) error
}

type groupRepo struct {
	db *gorm.DB
}

func NewGroupRepo(db *gorm.DB) GroupRepository {
	return &groupRepo{db: db}
}

func (r *groupRepo) Create(ctx context.Context, group *model.Group) error {
	return r.db.WithContext(ctx).Omit("Leader", "Industry", "Members").Create(group).Error
}

func (r *groupRepo) GetByID(ctx context.Context, id string) (*model.Group, error) {
	var g model.Group
	err := r.db.WithContext(ctx).
		Preload("Leader").
		Preload("Industry").
		Preload("Members", func(db *gorm.DB) *gorm.DB {
			return db.Order("is_leader DESC, created_at ASC")
		}).
		Preload("Members.Student").Preload("Members.Student.Class").
		Where("group_id = ?", id).
		First(&g).Error
	if err != nil {
		return nil, err
	}
	return &g, nil
}

func (r *groupRepo) LockByID(ctx context.Context, id string) (*model.Group, error) {
	var g model.Group
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("group_id = ?", id).
		First(&g).Error
	if err != nil {
		return nil, err
	}
	return &g, nil
}

func (r *groupRepo) UpdateIfStatus(ctx context.Context, group *model.Group, from model.GroupStatus) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&model.Group{}).
		Where("group_id = ? AND status = ?", group.GroupID, from).
		Updates(map[string]interface{}{
			"status":        group.Status,
			"industry_id":   group.IndustryID,
			"start_date":    group.StartDate,
			"end_date":      group.EndDate,
			"note":          group.Note,
			"submitted_at":  group.SubmittedAt,
			"approved_at":   group.ApprovedAt,
			"decided_at":    group.DecidedAt,
			"decided_by":    group.DecidedBy,
			"decision_note": group.DecisionNote,
			"version":       gorm.Expr("version + 1"),
		})
	if result.Error != nil {
		return false, result.Error
	}
	if result.RowsAffected == 0 {
		return false, nil
	}
	group.Version++
	return true, nil
}

func (r *groupRepo) DeleteIfStatus(ctx context.Context, id string, from model.GroupStatus) (bool, error) {
	// group_members 上的外键为 ON DELETE CASCADE
	result := r.db.WithContext(ctx).
		Where("group_id = ? AND status = ?", id, from).
		Delete(&model.Group{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *groupRepo) ListByMember(ctx context.Context, studentID string) ([]model.Group, error) {
	var list []model.Group
	err := r.db.WithContext(ctx).
		Preload("Leader").
		Preload("Industry").
		Preload("Members").Preload("Members.Student").
		Where("group_id IN (?)", r.db.Model(&model.GroupMember{}).
			Select("group_id").
			Where("student_id = ? AND status <> ?", studentID, model.MemberRejected)).
		Order("created_at DESC").
		Find(&list).Error
	return list, err
}

func (r *groupRepo) List(ctx context.Context, status model.GroupStatus, offset, limit int) ([]model.Group, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.Group{})
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var list []model.Group
	err := query.
		Preload("Leader").
		Preload("Industry").
		Preload("Members").Preload("Members.Student").
		Order("COALESCE(submitted_at, created_at) ASC").
		Scopes(paginate(offset, limit)).
		Find(&list).Error
	return list, total, err
}

// ── 成员 ──

func (r *groupRepo) CreateMembers(ctx context.Context, members []model.GroupMember) error {
	if len(members) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Omit("Student", "Group").Create(&members).Error
}

func (r *groupRepo) GetMember(ctx context.Context, id string) (*model.GroupMember, error) {
	var m model.GroupMember
	err := r.db.WithContext(ctx).
		Preload("Group").
		Where("member_id = ?", id).
		First(&m).Error
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *groupRepo) ListMembers(ctx context.Context, groupID string) ([]model.GroupMember, error) {
	var list []model.GroupMember
	err := r.db.WithContext(ctx).
		Where("group_id = ?", groupID).
		Order("is_leader DESC, created_at ASC").
		Find(&list).Error
	return list, err
}

func (r *groupRepo) ListPendingInvitations(ctx context.Context, studentID string) ([]model.GroupMember, error) {
	var list []model.GroupMember
	err := r.db.WithContext(ctx).
		Preload("Group").Preload("Group.Leader").
		Joins("JOIN pkl_groups ON pkl_groups.group_id = group_members.group_id").
		Where("group_members.student_id = ? AND group_members.status = ? AND pkl_groups.status = ?",
			studentID, model.MemberPending, model.GroupDraft).
		Order("group_members.created_at DESC").
		Find(&list).Error
	return list, err
}

func (r *groupRepo) UpdateMemberIfStatus(ctx context.Context, member *model.GroupMember, from model.MemberStatus) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&model.GroupMember{}).
		Where("member_id = ? AND status = ?", member.MemberID, from).
		Updates(map[string]interface{}{
			"status":       member.Status,
			"responded_at": member.RespondedAt,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *groupRepo) DeleteMember(ctx context.Context, groupID, studentID string) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("group_id = ? AND student_id = ? AND is_leader = ?", groupID, studentID, false).
		Delete(&model.GroupMember{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *groupRepo) HasActiveMembership(ctx context.Context, studentID, excludeGroupID string) (bool, error) {
	query := r.db.WithContext(ctx).
		Model(&model.GroupMember{}).
		Joins("JOIN pkl_groups ON pkl_groups.group_id = group_members.group_id").
		Where("group_members.student_id = ? AND group_members.status = ?", studentID, model.MemberAccepted).
		Where("pkl_groups.status IN ?", []model.GroupStatus{model.GroupDraft, model.GroupSubmitted})
	if excludeGroupID != "" {
		query = query.Where("group_members.group_id <> ?", excludeGroupID)
	}

	var count int64
	err := query.Count(&count).Error
	return count > 0, err
}

func (r *groupRepo) LockStudent(ctx context.Context, studentID string) error {
	var st model.Student
	return r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Select("student_id").
		Where("student_id = ?", studentID).
		Take(&st).Error
}
