package dto

// ── 调动（pindah）模块 DTO ──

// CreateTransferRequest 发起调动请求
type CreateTransferRequest struct {
	NewIndustryID string  `json:"new_industry_id" binding:"required,uuid"`
	Reason        string  `json:"reason"          binding:"required,notblank,max=2000"`
	NewEndDate    *string `json:"new_end_date"    binding:"omitempty,datestr"`
}

// TransferDecisionRequest 协调员 / 指导教师决策请求
type TransferDecisionRequest struct {
	Approve *bool  `json:"approve" binding:"required"`
	Note    string `json:"note"    binding:"max=2000"`
}

// TransferListRequest 调动申请列表查询参数
type TransferListRequest struct {
	Status string `form:"status"`
	PaginationRequest
}

// ── 响应 ──

// TransferResponse 调动申请详情
type TransferResponse struct {
	ID                   string  `json:"id"`
	PlacementID          string  `json:"placement_id"`
	StudentID            string  `json:"student_id"`
	OldIndustryID        string  `json:"old_industry_id"`
	NewIndustryID        string  `json:"new_industry_id"`
	Reason               string  `json:"reason"`
	Status               string  `json:"status"`
	StatusLabel          string  `json:"status_label"`
	CoordinatorID        *string `json:"coordinator_id,omitempty"`
	CoordinatorApproved  *bool   `json:"coordinator_approved,omitempty"`
	CoordinatorNote      string  `json:"coordinator_note,omitempty"`
	CoordinatorDecidedAt *string `json:"coordinator_decided_at,omitempty"`
	SupervisorID         *string `json:"supervisor_id,omitempty"`
	SupervisorApproved   *bool   `json:"supervisor_approved,omitempty"`
	SupervisorNote       string  `json:"supervisor_note,omitempty"`
	SupervisorDecidedAt  *string `json:"supervisor_decided_at,omitempty"`
	NewEndDate           *string `json:"new_end_date,omitempty"`
	NewPlacementID       *string `json:"new_placement_id,omitempty"`
	DecidedAt            *string `json:"decided_at,omitempty"`
	CreatedAt            string  `json:"created_at"`
}
