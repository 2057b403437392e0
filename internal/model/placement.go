package model

import "time"

// PlacementSource 安置来源
type PlacementSource string

const (
	SourceApplication PlacementSource = "application"
	SourceGroup       PlacementSource = "group"
	SourceTransfer    PlacementSource = "transfer"
)

// Placement 实习安置表，对应 placements
type Placement struct {
	PlacementID         string          `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"placement_id"`
	StudentID           string          `gorm:"type:uuid;not null"                             json:"student_id"`
	IndustryID          string          `gorm:"type:uuid;not null"                             json:"industry_id"`
	SupervisorID        string          `gorm:"type:uuid;not null"                             json:"supervisor_id"`
	StartDate           time.Time       `gorm:"type:date;not null"                             json:"start_date"`
	EndDate             time.Time       `gorm:"type:date;not null"                             json:"end_date"`
	Status              PlacementStatus `gorm:"type:varchar(20);not null;default:'active'"     json:"status"`
	SourceType          PlacementSource `gorm:"type:varchar(20);not null"                      json:"source_type"`
	SourceID            string          `gorm:"type:uuid;not null"                             json:"source_id"`
	PreviousPlacementID *string         `gorm:"type:uuid"                                      json:"previous_placement_id,omitempty"`
	DecidedBy           *string         `gorm:"type:uuid"                                      json:"decided_by,omitempty"`
	DecidedAt           *time.Time      `json:"decided_at,omitempty"`
	VersionedModel

	// 关联
	Student    *Student  `gorm:"foreignKey:StudentID;references:StudentID"    json:"student,omitempty"`
	Industry   *Industry `gorm:"foreignKey:IndustryID;references:IndustryID" json:"industry,omitempty"`
	Supervisor *Teacher  `gorm:"foreignKey:SupervisorID;references:TeacherID" json:"supervisor,omitempty"`
}

// TableName 指定表名
func (Placement) TableName() string { return "placements" }

// PlacementView 安置列表 / 导出投影
type PlacementView struct {
	PlacementID    string
	StudentID      string
	StudentName    string
	NISN           string `gorm:"column:nisn"`
	ClassName      string
	IndustryID     string
	IndustryName   string
	IndustryAddr   string
	SupervisorID   string
	SupervisorName string
	StartDate      time.Time
	EndDate        time.Time
	Status         PlacementStatus
	SourceType     PlacementSource
}
