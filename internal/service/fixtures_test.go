package service

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/rhazelina/TA-12-sub000/config"
	"github.com/rhazelina/TA-12-sub000/internal/dto"
	"github.com/rhazelina/TA-12-sub000/internal/model"
	"github.com/rhazelina/TA-12-sub000/internal/repository"
)

// ── 测试数据 ──

const (
	stuAni   = "stu-ani"
	stuBudi  = "stu-budi"
	stuCitra = "stu-citra"
	stuDedi  = "stu-dedi"
	stuEka   = "stu-eka"

	indMaju    = "ind-maju"
	indSentosa = "ind-sentosa"
	indTutup   = "ind-tutup" // 已停用

	tchRina  = "tch-rina"
	tchJoko  = "tch-joko"
	coordID  = "tch-koordinator"
	kaprogID = "tch-kaprog"
)

var (
	coordinator = dto.Actor{ID: coordID, Role: dto.RoleCoordinator}
	kaprog      = dto.Actor{ID: kaprogID, Role: dto.RoleKaprog}
	rina        = dto.Actor{ID: tchRina, Role: dto.RoleTeacher}
	joko        = dto.Actor{ID: tchJoko, Role: dto.RoleTeacher}
)

func student(id string) dto.Actor { return dto.Actor{ID: id, Role: dto.RoleStudent} }

// testEnv 绑定同一份内存数据的全部服务
type testEnv struct {
	store *memStore
	repo  *repository.Repository
	wf    *config.WorkflowConfig

	app       ApplicationService
	group     GroupService
	approval  ApprovalService
	transfer  TransferService
	placement PlacementService
	notice    NotificationService
	export    ExportService
	calendar  CalendarService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	store := newMemStore()
	seedReference(store)

	repo := store.repository()
	wf := &config.WorkflowConfig{
		ApproverRoles:            []string{dto.RoleCoordinator, dto.RoleKaprog},
		TransferCoordinatorRoles: []string{dto.RoleCoordinator},
		ListBatchSize:            2,
	}
	logger := zap.NewNop()
	return &testEnv{
		store:     store,
		repo:      repo,
		wf:        wf,
		app:       NewApplicationService(repo, wf, logger),
		group:     NewGroupService(repo, logger),
		approval:  NewApprovalService(repo, wf, logger),
		transfer:  NewTransferService(repo, wf, logger),
		placement: NewPlacementService(repo, logger),
		notice:    NewNotificationService(repo, logger),
		export:    NewExportService(repo, logger),
		calendar:  NewCalendarService(repo, "https://pkl.smkn1.sch.id", logger),
	}
}

func seedReference(m *memStore) {
	m.classes["cls-rpl"] = model.SchoolClass{ClassID: "cls-rpl", Name: "XII RPL 1", Department: "RPL"}
	m.classes["cls-tkj"] = model.SchoolClass{ClassID: "cls-tkj", Name: "XII TKJ 2", Department: "TKJ"}

	for _, st := range []model.Student{
		{StudentID: stuAni, FullName: "Ani Lestari", NISN: "0051234501", ClassID: "cls-rpl"},
		{StudentID: stuBudi, FullName: "Budi Santoso", NISN: "0051234502", ClassID: "cls-rpl"},
		{StudentID: stuCitra, FullName: "Citra Dewi", NISN: "0051234503", ClassID: "cls-tkj"},
		{StudentID: stuDedi, FullName: "Dedi Pratama", NISN: "0051234504", ClassID: "cls-tkj"},
		{StudentID: stuEka, FullName: "Eka Putri", NISN: "0051234505", ClassID: "cls-rpl"},
	} {
		m.students[st.StudentID] = st
	}

	for _, ind := range []model.Industry{
		{IndustryID: indMaju, Name: "PT Maju Jaya", Address: "Jl. Merdeka 1, Bandung", IsActive: true},
		{IndustryID: indSentosa, Name: "CV Sentosa Abadi", Address: "Jl. Asia Afrika 9, Bandung", IsActive: true},
		{IndustryID: indTutup, Name: "PT Sudah Tutup", IsActive: false},
	} {
		m.industries[ind.IndustryID] = ind
	}

	for _, tc := range []model.Teacher{
		{TeacherID: tchRina, FullName: "Rina Marlina, S.Kom", NIP: "198001012005012001"},
		{TeacherID: tchJoko, FullName: "Joko Widodo, S.T"},
		{TeacherID: coordID, FullName: "Koordinator PKL"},
		{TeacherID: kaprogID, FullName: "Kaprog RPL"},
	} {
		m.teachers[tc.TeacherID] = tc
	}

	m.school = &model.SchoolProfile{
		ProfileID:     "school-1",
		Name:          "SMK Negeri 1 Bandung",
		Address:       "Jl. Wastukancana 3, Bandung",
		Headmaster:    "Drs. Ahmad Fauzi",
		HeadmasterNIP: "196805051993031004",
	}
}

// ── 便捷流程 ──

func approveReq(supervisor, start, end string) *dto.ApproveRequest {
	return &dto.ApproveRequest{SupervisorID: supervisor, StartDate: &start, EndDate: &end}
}

// submitApp 提交一份个人申请并返回其 ID
func (e *testEnv) submitApp(t *testing.T, studentID, industryID string) string {
	t.Helper()
	resp, err := e.app.Submit(context.Background(), student(studentID), &dto.SubmitApplicationRequest{IndustryID: industryID})
	if err != nil {
		t.Fatalf("提交申请失败: %v", err)
	}
	return resp.ID
}

// placeStudent 通过个人申请 + 审批为学生生成一条生效安置，返回安置 ID
func (e *testEnv) placeStudent(t *testing.T, studentID, industryID, supervisor string) string {
	t.Helper()
	ctx := context.Background()
	appID := e.submitApp(t, studentID, industryID)
	if _, err := e.approval.ApproveApplication(ctx, appID, coordinator, approveReq(supervisor, "2025-01-06", "2025-04-30")); err != nil {
		t.Fatalf("审批申请失败: %v", err)
	}
	list, err := e.repo.Placement.ListBySource(ctx, model.SourceApplication, appID)
	if err != nil || len(list) != 1 {
		t.Fatalf("期望生成 1 条安置，实际 %d, err=%v", len(list), err)
	}
	return list[0].PlacementID
}

// submittedGroup 组长 leader 邀请 members，全部接受后提交，返回小组 ID
func (e *testEnv) submittedGroup(t *testing.T, leader string, members ...string) string {
	t.Helper()
	ctx := context.Background()
	g, err := e.group.Create(ctx, student(leader), &dto.CreateGroupRequest{MemberIDs: members})
	if err != nil {
		t.Fatalf("创建小组失败: %v", err)
	}
	for _, m := range g.Members {
		if m.IsLeader {
			continue
		}
		if _, err := e.group.RespondToInvitation(ctx, m.ID, student(m.StudentID), true); err != nil {
			t.Fatalf("接受邀请失败: %v", err)
		}
	}
	if _, err := e.group.Submit(ctx, g.ID, student(leader), &dto.SubmitGroupRequest{
		IndustryID: indMaju,
		StartDate:  "2025-02-03",
		EndDate:    "2025-05-30",
	}); err != nil {
		t.Fatalf("提交小组失败: %v", err)
	}
	return g.ID
}

// activePlacements 统计学生的生效安置数
func (e *testEnv) activePlacements(studentID string) int {
	e.store.mu.Lock()
	defer e.store.mu.Unlock()
	n := 0
	for _, p := range e.store.placements {
		if p.StudentID == studentID && p.Status == model.PlacementActive {
			n++
		}
	}
	return n
}

// notificationsFor 统计某收件人的某类通知数
func (e *testEnv) notificationsFor(recipientID, typ string) int {
	e.store.mu.Lock()
	defer e.store.mu.Unlock()
	n := 0
	for _, item := range e.store.notifications {
		if item.RecipientID == recipientID && item.Type == typ {
			n++
		}
	}
	return n
}

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse(dto.DateLayout, s)
	if err != nil {
		t.Fatalf("解析日期失败: %v", err)
	}
	return d
}
