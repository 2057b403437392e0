package model

import "time"

// TransferRequest 调动（pindah）申请表，对应 transfer_requests
// 需协调员与指导教师先后同意；任一拒绝即终止
type TransferRequest struct {
	TransferID           string         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"          json:"transfer_id"`
	PlacementID          string         `gorm:"type:uuid;not null"                                      json:"placement_id"`
	StudentID            string         `gorm:"type:uuid;not null"                                      json:"student_id"`
	OldIndustryID        string         `gorm:"type:uuid;not null"                                      json:"old_industry_id"`
	NewIndustryID        string         `gorm:"type:uuid;not null"                                      json:"new_industry_id"`
	Reason               string         `gorm:"type:text;not null;default:''"                           json:"reason"`
	Status               TransferStatus `gorm:"type:varchar(30);not null;default:'pending_coordinator'" json:"status"`
	CoordinatorID        *string        `gorm:"type:uuid"                                               json:"coordinator_id,omitempty"`
	CoordinatorApproved  *bool          `json:"coordinator_approved,omitempty"`
	CoordinatorNote      string         `gorm:"type:text;not null;default:''"                           json:"coordinator_note,omitempty"`
	CoordinatorDecidedAt *time.Time     `json:"coordinator_decided_at,omitempty"`
	SupervisorID         *string        `gorm:"type:uuid"                                               json:"supervisor_id,omitempty"`
	SupervisorApproved   *bool          `json:"supervisor_approved,omitempty"`
	SupervisorNote       string         `gorm:"type:text;not null;default:''"                           json:"supervisor_note,omitempty"`
	SupervisorDecidedAt  *time.Time     `json:"supervisor_decided_at,omitempty"`
	NewEndDate           *time.Time     `gorm:"type:date"                                               json:"new_end_date,omitempty"`
	NewPlacementID       *string        `gorm:"type:uuid"                                               json:"new_placement_id,omitempty"`
	DecidedAt            *time.Time     `json:"decided_at,omitempty"`
	VersionedModel

	// 关联
	Placement *Placement `gorm:"foreignKey:PlacementID;references:PlacementID" json:"placement,omitempty"`
}

// TableName 指定表名
func (TransferRequest) TableName() string { return "transfer_requests" }
