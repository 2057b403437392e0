package dto

// ── 安置模块 DTO ──

// PlacementFilter 安置查询条件
type PlacementFilter struct {
	Status       string `form:"status"`
	IndustryID   string `form:"industry_id"   binding:"omitempty,uuid"`
	SupervisorID string `form:"supervisor_id" binding:"omitempty,uuid"`
}

// PlacementListRequest 安置分页列表查询参数
type PlacementListRequest struct {
	PlacementFilter
	PaginationRequest
}

// PlacementResponse 安置信息
type PlacementResponse struct {
	ID                  string         `json:"id"`
	StudentID           string         `json:"student_id"`
	Student             *StudentBrief  `json:"student,omitempty"`
	IndustryID          string         `json:"industry_id"`
	Industry            *IndustryBrief `json:"industry,omitempty"`
	SupervisorID        string         `json:"supervisor_id"`
	Supervisor          *TeacherBrief  `json:"supervisor,omitempty"`
	StartDate           string         `json:"start_date"`
	EndDate             string         `json:"end_date"`
	Status              string         `json:"status"`
	StatusLabel         string         `json:"status_label"`
	SourceType          string         `json:"source_type"`
	SourceID            string         `json:"source_id,omitempty"`
	PreviousPlacementID *string        `json:"previous_placement_id,omitempty"`
	DecidedAt           *string        `json:"decided_at,omitempty"`
}

// ── 派遣函数据快照 ──

// 派遣函目标类型
const (
	TargetApplication = "application"
	TargetGroup       = "group"
)

// SchoolBrief 学校信息
type SchoolBrief struct {
	Name          string `json:"name"`
	Address       string `json:"address"`
	Headmaster    string `json:"headmaster"`
	HeadmasterNIP string `json:"headmaster_nip,omitempty"`
}

// ApprovedPlacementResponse 已审批安置快照，供外部派遣函渲染使用
type ApprovedPlacementResponse struct {
	TargetType string         `json:"target_type"`
	TargetID   string         `json:"target_id"`
	Students   []StudentBrief `json:"students"`
	Industry   IndustryBrief  `json:"industry"`
	Supervisor TeacherBrief   `json:"supervisor"`
	StartDate  string         `json:"start_date"`
	EndDate    string         `json:"end_date"`
	DecidedBy  string         `json:"decided_by"`
	DecidedAt  string         `json:"decided_at"`
	School     *SchoolBrief   `json:"school,omitempty"`
}
