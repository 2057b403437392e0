package model

// 通知类型
const (
	NotifyInvitationReceived = "invitation_received"
	NotifyInvitationAnswered = "invitation_answered"
	NotifyApplicationDecided = "application_decided"
	NotifyGroupDecided       = "group_decided"
	NotifyTransferDecided    = "transfer_decided"
)

// Notification 通知消息表，对应 notifications
type Notification struct {
	NotificationID string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"notification_id"`
	RecipientID    string  `gorm:"type:uuid;not null"                             json:"recipient_id"`
	Type           string  `gorm:"type:varchar(50);not null"                      json:"type"`
	Title          string  `gorm:"type:varchar(200);not null"                     json:"title"`
	Content        string  `gorm:"type:text;not null"                             json:"content"`
	IsRead         bool    `gorm:"not null;default:false"                         json:"is_read"`
	RelatedType    *string `gorm:"type:varchar(20)"                               json:"related_type,omitempty"` // application | group | transfer
	RelatedID      *string `gorm:"type:uuid"                                      json:"related_id,omitempty"`
	BaseModel
}

// TableName 指定表名
func (Notification) TableName() string { return "notifications" }
