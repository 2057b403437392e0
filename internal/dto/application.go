package dto

// ── 个人申请模块 DTO ──

// DocumentRef 申请附件引用（文件存储由外部服务负责）
type DocumentRef struct {
	Name string `json:"name" binding:"required,notblank,max=200"`
	URL  string `json:"url"  binding:"required,url"`
}

// SubmitApplicationRequest 提交个人申请请求
type SubmitApplicationRequest struct {
	IndustryID string        `json:"industry_id" binding:"required,uuid"`
	Note       string        `json:"note"        binding:"max=2000"`
	Documents  []DocumentRef `json:"documents"   binding:"omitempty,max=10,dive"`
}

// ApplicationFilter 申请查询条件（状态兼容印尼语写法）
type ApplicationFilter struct {
	Status     string `form:"status"`
	Search     string `form:"search"      binding:"max=100"`
	StudentID  string `form:"student_id"  binding:"omitempty,uuid"`
	IndustryID string `form:"industry_id" binding:"omitempty,uuid"`
}

// ApplicationListRequest 申请分页列表查询参数
type ApplicationListRequest struct {
	ApplicationFilter
	PaginationRequest
}

// ── 响应 ──

// ApplicationResponse 申请详情
type ApplicationResponse struct {
	ID           string         `json:"id"`
	StudentID    string         `json:"student_id"`
	Student      *StudentBrief  `json:"student,omitempty"`
	IndustryID   string         `json:"industry_id"`
	Industry     *IndustryBrief `json:"industry,omitempty"`
	Status       string         `json:"status"`
	StatusLabel  string         `json:"status_label"`
	Note         string         `json:"note,omitempty"`
	DecisionNote string         `json:"decision_note,omitempty"`
	Documents    []DocumentRef  `json:"documents"`
	Withdrawn    bool           `json:"withdrawn"`
	SubmittedAt  string         `json:"submitted_at"`
	DecidedAt    *string        `json:"decided_at,omitempty"`
	DecidedBy    *string        `json:"decided_by,omitempty"`
}

// ApplicationViewResponse 申请列表行（含学生与企业展示字段）
type ApplicationViewResponse struct {
	ID           string  `json:"id"`
	StudentID    string  `json:"student_id"`
	StudentName  string  `json:"student_name"`
	NISN         string  `json:"nisn"`
	ClassName    string  `json:"class_name"`
	IndustryID   string  `json:"industry_id"`
	IndustryName string  `json:"industry_name"`
	Status       string  `json:"status"`
	StatusLabel  string  `json:"status_label"`
	Note         string  `json:"note,omitempty"`
	DecisionNote string  `json:"decision_note,omitempty"`
	Withdrawn    bool    `json:"withdrawn"`
	SubmittedAt  string  `json:"submitted_at"`
	DecidedAt    *string `json:"decided_at,omitempty"`
}
