package dto

// ── 审批模块 DTO ──

// ApproveRequest 审批通过请求
// 小组审批时日期可省略，默认取小组期望日期
type ApproveRequest struct {
	SupervisorID string  `json:"supervisor_id" binding:"required,uuid"`
	StartDate    *string `json:"start_date"    binding:"omitempty,datestr"`
	EndDate      *string `json:"end_date"      binding:"omitempty,datestr"`
	Note         string  `json:"note"          binding:"max=2000"`
}

// RejectRequest 驳回请求
// 理由非空由业务层校验，以保证先校验角色
type RejectRequest struct {
	Note string `json:"note" binding:"max=2000"`
}
