package dto

// 日期与时间戳格式
const (
	DateLayout = "2006-01-02"
	TimeLayout = "2006-01-02T15:04:05Z07:00"
)

// ── 分页请求 ──

// PaginationRequest 通用分页参数
type PaginationRequest struct {
	Page     int `form:"page"      binding:"omitempty,min=1"`
	PageSize int `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// GetPage 获取页码（含默认值）
func (p *PaginationRequest) GetPage() int {
	if p.Page <= 0 {
		return 1
	}
	return p.Page
}

// GetPageSize 获取每页数量（含默认值）
func (p *PaginationRequest) GetPageSize() int {
	if p.PageSize <= 0 {
		return 20
	}
	return p.PageSize
}

// GetOffset 计算偏移量
func (p *PaginationRequest) GetOffset() int {
	return (p.GetPage() - 1) * p.GetPageSize()
}

// ── 参考数据简要信息 ──

// StudentBrief 学生简要信息
type StudentBrief struct {
	ID        string `json:"id"`
	FullName  string `json:"full_name"`
	NISN      string `json:"nisn"`
	ClassName string `json:"class_name,omitempty"`
}

// IndustryBrief 企业简要信息
type IndustryBrief struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address,omitempty"`
}

// TeacherBrief 教师简要信息
type TeacherBrief struct {
	ID       string `json:"id"`
	FullName string `json:"full_name"`
	NIP      string `json:"nip,omitempty"`
}
