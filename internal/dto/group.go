package dto

// ── 小组模块 DTO ──

// CreateGroupRequest 创建小组请求（组长为当前学生）
type CreateGroupRequest struct {
	MemberIDs []string `json:"member_ids" binding:"omitempty,max=20,dive,uuid"`
}

// InviteMembersRequest 追加邀请成员请求
type InviteMembersRequest struct {
	MemberIDs []string `json:"member_ids" binding:"required,min=1,max=20,dive,uuid"`
}

// UpdateGroupDraftRequest 草稿状态下修改企业、日期与备注
type UpdateGroupDraftRequest struct {
	IndustryID *string `json:"industry_id" binding:"omitempty,uuid"`
	StartDate  *string `json:"start_date"  binding:"omitempty,datestr"`
	EndDate    *string `json:"end_date"    binding:"omitempty,datestr"`
	Note       *string `json:"note"        binding:"omitempty,max=2000"`
}

// RespondInvitationRequest 答复邀请请求
type RespondInvitationRequest struct {
	Accept *bool `json:"accept" binding:"required"`
}

// SubmitGroupRequest 提交小组申请请求
type SubmitGroupRequest struct {
	IndustryID string `json:"industry_id" binding:"required,uuid"`
	StartDate  string `json:"start_date"  binding:"required,datestr"`
	EndDate    string `json:"end_date"    binding:"required,datestr"`
	Note       string `json:"note"        binding:"max=2000"`
}

// GroupListRequest 小组列表查询参数
type GroupListRequest struct {
	Status string `form:"status"`
	PaginationRequest
}

// ── 响应 ──

// GroupResponse 小组详情
type GroupResponse struct {
	ID           string                `json:"id"`
	LeaderID     string                `json:"leader_id"`
	Leader       *StudentBrief         `json:"leader,omitempty"`
	IndustryID   *string               `json:"industry_id,omitempty"`
	Industry     *IndustryBrief        `json:"industry,omitempty"`
	Status       string                `json:"status"`
	StatusLabel  string                `json:"status_label"`
	StartDate    *string               `json:"start_date,omitempty"`
	EndDate      *string               `json:"end_date,omitempty"`
	Note         string                `json:"note,omitempty"`
	DecisionNote string                `json:"decision_note,omitempty"`
	SubmittedAt  *string               `json:"submitted_at,omitempty"`
	ApprovedAt   *string               `json:"approved_at,omitempty"`
	DecidedAt    *string               `json:"decided_at,omitempty"`
	DecidedBy    *string               `json:"decided_by,omitempty"`
	Members      []GroupMemberResponse `json:"members"`
	CreatedAt    string                `json:"created_at"`
}

// GroupMemberResponse 小组成员（邀请）信息
type GroupMemberResponse struct {
	ID          string        `json:"id"`
	GroupID     string        `json:"group_id"`
	StudentID   string        `json:"student_id"`
	Student     *StudentBrief `json:"student,omitempty"`
	Status      string        `json:"status"`
	StatusLabel string        `json:"status_label"`
	IsLeader    bool          `json:"is_leader"`
	RespondedAt *string       `json:"responded_at,omitempty"`
}

// InvitationResponse 待答复邀请
type InvitationResponse struct {
	MemberID    string        `json:"member_id"`
	GroupID     string        `json:"group_id"`
	Leader      *StudentBrief `json:"leader,omitempty"`
	GroupStatus string        `json:"group_status"`
	InvitedAt   string        `json:"invited_at"`
}
