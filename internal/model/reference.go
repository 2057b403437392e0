package model

// 参考数据由学校行政系统维护，本服务只读。

// SchoolClass 班级表，对应 school_classes
type SchoolClass struct {
	ClassID    string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"class_id"`
	Name       string `gorm:"type:varchar(100);not null"                     json:"name"`
	Department string `gorm:"type:varchar(100);not null"                     json:"department"` // 专业（jurusan）
	BaseModel
}

// TableName 指定表名
func (SchoolClass) TableName() string { return "school_classes" }

// Student 学生表，对应 students
type Student struct {
	StudentID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"student_id"`
	FullName  string `gorm:"type:varchar(150);not null"                     json:"full_name"`
	NISN      string `gorm:"column:nisn;type:char(10);not null;uniqueIndex" json:"nisn"`
	ClassID   string `gorm:"type:uuid;not null"                             json:"class_id"`
	BaseModel

	// 关联
	Class *SchoolClass `gorm:"foreignKey:ClassID;references:ClassID" json:"class,omitempty"`
}

// TableName 指定表名
func (Student) TableName() string { return "students" }

// Teacher 教师表，对应 teachers
type Teacher struct {
	TeacherID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"teacher_id"`
	FullName  string `gorm:"type:varchar(150);not null"                     json:"full_name"`
	NIP       string `gorm:"column:nip;type:varchar(30)"                    json:"nip,omitempty"`
	BaseModel
}

// TableName 指定表名
func (Teacher) TableName() string { return "teachers" }

// Industry 实习企业表，对应 industries
type Industry struct {
	IndustryID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"industry_id"`
	Name       string `gorm:"type:varchar(200);not null"                     json:"name"`
	Address    string `gorm:"type:text;not null;default:''"                  json:"address"`
	IsActive   bool   `gorm:"not null;default:true"                          json:"is_active"`
	Department string `gorm:"type:varchar(100);not null;default:''"          json:"department"`
	BaseModel
}

// TableName 指定表名
func (Industry) TableName() string { return "industries" }

// SchoolProfile 学校信息（单行），对应 school_profiles
type SchoolProfile struct {
	ProfileID     string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"profile_id"`
	Name          string `gorm:"type:varchar(200);not null"                     json:"name"`
	Address       string `gorm:"type:text;not null;default:''"                  json:"address"`
	Headmaster    string `gorm:"type:varchar(150);not null;default:''"          json:"headmaster"`
	HeadmasterNIP string `gorm:"column:headmaster_nip;type:varchar(30)"         json:"headmaster_nip"`
	BaseModel
}

// TableName 指定表名
func (SchoolProfile) TableName() string { return "school_profiles" }
