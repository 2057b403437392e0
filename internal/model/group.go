package model

import "time"

// Group 实习小组表，对应 pkl_groups
type Group struct {
	GroupID      string      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"group_id"`
	LeaderID     string      `gorm:"type:uuid;not null"                             json:"leader_id"`
	IndustryID   *string     `gorm:"type:uuid"                                      json:"industry_id,omitempty"`
	Status       GroupStatus `gorm:"type:varchar(20);not null;default:'draft'"      json:"status"`
	StartDate    *time.Time  `gorm:"type:date"                                      json:"start_date,omitempty"`
	EndDate      *time.Time  `gorm:"type:date"                                      json:"end_date,omitempty"`
	Note         string      `gorm:"type:text;not null;default:''"                  json:"note,omitempty"`
	SubmittedAt  *time.Time  `json:"submitted_at,omitempty"`
	ApprovedAt   *time.Time  `json:"approved_at,omitempty"`
	DecidedAt    *time.Time  `json:"decided_at,omitempty"`
	DecidedBy    *string     `gorm:"type:uuid"                                      json:"decided_by,omitempty"`
	DecisionNote string      `gorm:"type:text;not null;default:''"                  json:"decision_note,omitempty"`
	VersionedModel

	// 关联
	Leader   *Student      `gorm:"foreignKey:LeaderID;references:StudentID"    json:"leader,omitempty"`
	Industry *Industry     `gorm:"foreignKey:IndustryID;references:IndustryID" json:"industry,omitempty"`
	Members  []GroupMember `gorm:"foreignKey:GroupID;references:GroupID"       json:"members,omitempty"`
}

// TableName 指定表名
func (Group) TableName() string { return "pkl_groups" }

// GroupMember 小组成员（邀请）表，对应 group_members
type GroupMember struct {
	MemberID    string       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"member_id"`
	GroupID     string       `gorm:"type:uuid;not null"                             json:"group_id"`
	StudentID   string       `gorm:"type:uuid;not null"                             json:"student_id"`
	Status      MemberStatus `gorm:"type:varchar(20);not null;default:'pending'"    json:"status"`
	IsLeader    bool         `gorm:"not null;default:false"                         json:"is_leader"`
	RespondedAt *time.Time   `json:"responded_at,omitempty"`
	BaseModel

	// 关联
	Student *Student `gorm:"foreignKey:StudentID;references:StudentID" json:"student,omitempty"`
	Group   *Group   `gorm:"foreignKey:GroupID;references:GroupID"     json:"group,omitempty"`
}

// TableName 指定表名
func (GroupMember) TableName() string { return "group_members" }
