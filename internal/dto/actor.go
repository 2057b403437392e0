package dto

import "strings"

// 角色
const (
	RoleStudent     = "student"
	RoleTeacher     = "teacher"
	RoleCoordinator = "coordinator"
	RoleKaprog      = "kaprog" // 专业负责人（kepala program）
	RoleAdmin       = "admin"
)

// Actor 调用者身份，由 Handler 从 Token 中取出后显式传入各业务操作
// 学生的 ID 为 student_id，教职工的 ID 为 teacher_id
type Actor struct {
	ID   string
	Role string
}

// IsStudent 是否学生
func (a Actor) IsStudent() bool { return strings.EqualFold(a.Role, RoleStudent) }

// IsStaff 是否教职工（非学生）
func (a Actor) IsStaff() bool { return a.Role != "" && !a.IsStudent() }
