package model

import (
	"fmt"
	"strings"
)

// 状态枚举统一以小写英文存储；印尼语标签只在展示层生成。
// Parse* 兼容历史数据中的中英/印尼混用写法（"disetujui"、"Approved" 等）。

// ════════════════════════════════════════
// 申请状态
// ════════════════════════════════════════

type ApplicationStatus string

const (
	ApplicationPending  ApplicationStatus = "pending"
	ApplicationApproved ApplicationStatus = "approved"
	ApplicationRejected ApplicationStatus = "rejected"
)

// Terminal 已审批或已驳回
func (s ApplicationStatus) Terminal() bool {
	return s == ApplicationApproved || s == ApplicationRejected
}

// Label 印尼语展示标签
func (s ApplicationStatus) Label() string {
	switch s {
	case ApplicationPending:
		return "Menunggu"
	case ApplicationApproved:
		return "Disetujui"
	case ApplicationRejected:
		return "Ditolak"
	}
	return string(s)
}

var applicationAliases = map[string]ApplicationStatus{
	"pending": ApplicationPending, "menunggu": ApplicationPending, "diajukan": ApplicationPending,
	"approved": ApplicationApproved, "disetujui": ApplicationApproved, "diterima": ApplicationApproved,
	"rejected": ApplicationRejected, "ditolak": ApplicationRejected,
}

// ParseApplicationStatus 宽松解析申请状态
func ParseApplicationStatus(raw string) (ApplicationStatus, error) {
	if s, ok := applicationAliases[normalize(raw)]; ok {
		return s, nil
	}
	return "", fmt.Errorf("status pengajuan tidak dikenal: %q", raw)
}

// ════════════════════════════════════════
// 小组状态
// ════════════════════════════════════════

type GroupStatus string

const (
	GroupDraft     GroupStatus = "draft"
	GroupSubmitted GroupStatus = "submitted"
	GroupApproved  GroupStatus = "approved"
	GroupRejected  GroupStatus = "rejected"
)

// Terminal 已审批或已驳回
func (s GroupStatus) Terminal() bool {
	return s == GroupApproved || s == GroupRejected
}

func (s GroupStatus) Label() string {
	switch s {
	case GroupDraft:
		return "Draf"
	case GroupSubmitted:
		return "Diajukan"
	case GroupApproved:
		return "Disetujui"
	case GroupRejected:
		return "Ditolak"
	}
	return string(s)
}

var groupAliases = map[string]GroupStatus{
	"draft": GroupDraft, "draf": GroupDraft,
	"submitted": GroupSubmitted, "diajukan": GroupSubmitted, "pending": GroupSubmitted, "menunggu": GroupSubmitted,
	"approved": GroupApproved, "disetujui": GroupApproved,
	"rejected": GroupRejected, "ditolak": GroupRejected,
}

// ParseGroupStatus 宽松解析小组状态
func ParseGroupStatus(raw string) (GroupStatus, error) {
	if s, ok := groupAliases[normalize(raw)]; ok {
		return s, nil
	}
	return "", fmt.Errorf("status kelompok tidak dikenal: %q", raw)
}

// ════════════════════════════════════════
// 邀请（成员）状态
// ════════════════════════════════════════

type MemberStatus string

const (
	MemberPending  MemberStatus = "pending"
	MemberAccepted MemberStatus = "accepted"
	MemberRejected MemberStatus = "rejected"
)

func (s MemberStatus) Label() string {
	switch s {
	case MemberPending:
		return "Menunggu"
	case MemberAccepted:
		return "Diterima"
	case MemberRejected:
		return "Ditolak"
	}
	return string(s)
}

var memberAliases = map[string]MemberStatus{
	"pending": MemberPending, "menunggu": MemberPending,
	"accepted": MemberAccepted, "diterima": MemberAccepted, "approved": MemberAccepted, "disetujui": MemberAccepted,
	"rejected": MemberRejected, "ditolak": MemberRejected, "declined": MemberRejected,
}

// ParseMemberStatus 宽松解析邀请状态
func ParseMemberStatus(raw string) (MemberStatus, error) {
	if s, ok := memberAliases[normalize(raw)]; ok {
		return s, nil
	}
	return "", fmt.Errorf("status undangan tidak dikenal: %q", raw)
}

// ════════════════════════════════════════
// 安置状态
// ════════════════════════════════════════

type PlacementStatus string

const (
	PlacementActive     PlacementStatus = "active"
	PlacementCompleted  PlacementStatus = "completed"
	PlacementSuperseded PlacementStatus = "superseded"
)

func (s PlacementStatus) Label() string {
	switch s {
	case PlacementActive:
		return "Aktif"
	case PlacementCompleted:
		return "Selesai"
	case PlacementSuperseded:
		return "Dipindahkan"
	}
	return string(s)
}

var placementAliases = map[string]PlacementStatus{
	"active": PlacementActive, "aktif": PlacementActive, "berjalan": PlacementActive,
	"completed": PlacementCompleted, "selesai": PlacementCompleted,
	"superseded": PlacementSuperseded, "dipindahkan": PlacementSuperseded, "pindah": PlacementSuperseded,
}

// ParsePlacementStatus 宽松解析安置状态
func ParsePlacementStatus(raw string) (PlacementStatus, error) {
	if s, ok := placementAliases[normalize(raw)]; ok {
		return s, nil
	}
	return "", fmt.Errorf("status penempatan tidak dikenal: %q", raw)
}

// ════════════════════════════════════════
// 调动申请状态
// ════════════════════════════════════════

type TransferStatus string

const (
	TransferPendingCoordinator TransferStatus = "pending_coordinator"
	TransferPendingSupervisor  TransferStatus = "pending_supervisor"
	TransferApproved           TransferStatus = "approved"
	TransferRejected           TransferStatus = "rejected"
)

// Open 仍在等待决策
func (s TransferStatus) Open() bool {
	return s == TransferPendingCoordinator || s == TransferPendingSupervisor
}

func (s TransferStatus) Label() string {
	switch s {
	case TransferPendingCoordinator:
		return "Menunggu Koordinator"
	case TransferPendingSupervisor:
		return "Menunggu Pembimbing"
	case TransferApproved:
		return "Disetujui"
	case TransferRejected:
		return "Ditolak"
	}
	return string(s)
}

var transferAliases = map[string]TransferStatus{
	"pending_coordinator": TransferPendingCoordinator, "pending": TransferPendingCoordinator, "menunggu": TransferPendingCoordinator,
	"menunggu_koordinator": TransferPendingCoordinator,
	"pending_supervisor":   TransferPendingSupervisor, "menunggu_pembimbing": TransferPendingSupervisor,
	"approved": TransferApproved, "disetujui": TransferApproved,
	"rejected": TransferRejected, "ditolak": TransferRejected,
}

// ParseTransferStatus 宽松解析调动申请状态
func ParseTransferStatus(raw string) (TransferStatus, error) {
	if s, ok := transferAliases[normalize(raw)]; ok {
		return s, nil
	}
	return "", fmt.Errorf("status pindah tidak dikenal: %q", raw)
}

// normalize 小写、去空白，空格与连字符统一为下划线
func normalize(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	return strings.NewReplacer(" ", "_", "-", "_").Replace(s)
}
