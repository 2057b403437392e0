package model

import (
	"time"

	"gorm.io/datatypes"
)

// Application 个人实习申请表，对应 applications
type Application struct {
	ApplicationID string            `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"application_id"`
	StudentID     string            `gorm:"type:uuid;not null"                             json:"student_id"`
	IndustryID    string            `gorm:"type:uuid;not null"                             json:"industry_id"`
	Status        ApplicationStatus `gorm:"type:varchar(20);not null;default:'pending'"    json:"status"`
	SubmittedAt   time.Time         `gorm:"not null"                                       json:"submitted_at"`
	Note          string            `gorm:"type:text;not null;default:''"                  json:"note,omitempty"`
	DecisionNote  string            `gorm:"type:text;not null;default:''"                  json:"decision_note,omitempty"`
	Documents     datatypes.JSON    `gorm:"type:jsonb;not null;default:'[]'"               json:"documents"`
	Withdrawn     bool              `gorm:"not null;default:false"                         json:"withdrawn"` // 学生撤回导致的驳回
	DecidedAt     *time.Time        `json:"decided_at,omitempty"`
	DecidedBy     *string           `gorm:"type:uuid"                                      json:"decided_by,omitempty"`
	VersionedModel

	// 关联
	Student  *Student  `gorm:"foreignKey:StudentID;references:StudentID"    json:"student,omitempty"`
	Industry *Industry `gorm:"foreignKey:IndustryID;references:IndustryID" json:"industry,omitempty"`
}

// TableName 指定表名
func (Application) TableName() string { return "applications" }

// ApplicationView 申请列表投影（含学生与企业展示字段）
type ApplicationView struct {
	ApplicationID string
	StudentID     string
	StudentName   string
	NISN          string `gorm:"column:nisn"`
	ClassName     string
	IndustryID    string
	IndustryName  string
	Status        ApplicationStatus
	Note          string
	DecisionNote  string
	Withdrawn     bool
	SubmittedAt   time.Time
	DecidedAt     *time.Time
}
