package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/rhazelina/TA-12-sub000/internal/dto"
	"github.com/rhazelina/TA-12-sub000/internal/model"
	pkgerrors "github.com/rhazelina/TA-12-sub000/pkg/errors"
)

func (e *testEnv) setIndustryActive(id string, active bool) {
	e.store.mu.Lock()
	defer e.store.mu.Unlock()
	ind := e.store.industries[id]
	ind.IsActive = active
	e.store.industries[id] = ind
}

// ── ApproveApplication ──

func TestApprovalService_ApproveApplication(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	id := env.submitApp(t, stuAni, indMaju)

	resp, err := env.approval.ApproveApplication(ctx, id, kaprog, &dto.ApproveRequest{
		SupervisorID: tchRina,
		StartDate:    strPtr("2025-01-06"),
		EndDate:      strPtr("2025-04-30"),
		Note:         "Selamat",
	})
	if err != nil {
		t.Fatalf("审批失败: %v", err)
	}
	if resp.Status != string(model.ApplicationApproved) || resp.DecidedBy == nil || *resp.DecidedBy != kaprogID {
		t.Errorf("期望 approved 且记录审批人，实际 %+v", resp)
	}

	list, _ := env.repo.Placement.ListBySource(ctx, model.SourceApplication, id)
	if len(list) != 1 {
		t.Fatalf("期望生成 1 条安置，实际 %d", len(list))
	}
	p := list[0]
	if p.StudentID != stuAni || p.IndustryID != indMaju || p.SupervisorID != tchRina || p.Status != model.PlacementActive {
		t.Errorf("安置字段不符: %+v", p)
	}
	if !p.StartDate.Equal(mustDate(t, "2025-01-06")) || !p.EndDate.Equal(mustDate(t, "2025-04-30")) {
		t.Errorf("安置日期不符: %s ~ %s", p.StartDate, p.EndDate)
	}
	if n := env.notificationsFor(stuAni, model.NotifyApplicationDecided); n != 1 {
		t.Errorf("学生应收到 1 条审批通知，实际 %d", n)
	}
}

func TestApprovalService_ApproveApplication_Errors(t *testing.T) {
	tests := []struct {
		name  string
		actor dto.Actor
		req   *dto.ApproveRequest
		want  error
	}{
		{"普通教师无审批权", rina, approveReq(tchRina, "2025-01-06", "2025-04-30"), ErrApproverRoleRequired},
		{"学生无审批权", student(stuBudi), approveReq(tchRina, "2025-01-06", "2025-04-30"), pkgerrors.ErrAuthorization},
		{"缺少日期", coordinator, &dto.ApproveRequest{SupervisorID: tchRina}, ErrDateRangeRequired},
		{"日期颠倒", coordinator, approveReq(tchRina, "2025-04-30", "2025-01-06"), ErrInvalidDateRange},
		{"未知指导教师", coordinator, approveReq("tch-ghost", "2025-01-06", "2025-04-30"), ErrUnknownTeacher},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			id := env.submitApp(t, stuAni, indMaju)
			if _, err := env.approval.ApproveApplication(context.Background(), id, tt.actor, tt.req); !errors.Is(err, tt.want) {
				t.Errorf("期望 %v，实际: %v", tt.want, err)
			}
			if env.activePlacements(stuAni) != 0 {
				t.Error("失败的审批不应生成安置")
			}
		})
	}
}

func TestApprovalService_ApproveApplication_IndustryDeactivated(t *testing.T) {
	env := newTestEnv(t)
	id := env.submitApp(t, stuAni, indMaju)
	env.setIndustryActive(indMaju, false)

	_, err := env.approval.ApproveApplication(context.Background(), id, coordinator, approveReq(tchRina, "2025-01-06", "2025-04-30"))
	if !errors.Is(err, ErrIndustryNotActive) || !errors.Is(err, pkgerrors.ErrConflict) {
		t.Errorf("企业已停用应返回 ConflictError，实际: %v", err)
	}
}

func TestApprovalService_ApproveApplication_Twice(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	id := env.submitApp(t, stuAni, indMaju)
	req := approveReq(tchRina, "2025-01-06", "2025-04-30")
	if _, err := env.approval.ApproveApplication(ctx, id, coordinator, req); err != nil {
		t.Fatalf("首次审批失败: %v", err)
	}

	_, err := env.approval.ApproveApplication(ctx, id, coordinator, req)
	if !errors.Is(err, ErrAlreadyDecided) || !errors.Is(err, pkgerrors.ErrState) {
		t.Errorf("重复审批应返回 StateError，实际: %v", err)
	}
	if n := env.activePlacements(stuAni); n != 1 {
		t.Errorf("重复审批不应生成新的安置，实际 %d", n)
	}
}

func TestApprovalService_ApproveApplication_Concurrent(t *testing.T) {
	env := newTestEnv(t)
	id := env.submitApp(t, stuAni, indMaju)

	var wg sync.WaitGroup
	errs := make([]error, 6)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = env.approval.ApproveApplication(context.Background(), id, coordinator, approveReq(tchRina, "2025-01-06", "2025-04-30"))
		}(i)
	}
	wg.Wait()

	ok := 0
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case !errors.Is(err, pkgerrors.ErrState):
			t.Errorf("落败方应得到 StateError，实际: %v", err)
		}
	}
	if ok != 1 {
		t.Errorf("并发审批应只有 1 次成功，实际 %d", ok)
	}
	if n := env.activePlacements(stuAni); n != 1 {
		t.Errorf("期望恰好 1 条生效安置，实际 %d", n)
	}
}

func TestApprovalService_ApproveApplication_StudentPlacedMeanwhile(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	gid := env.submittedGroup(t, stuBudi, stuAni)
	appID := env.submitApp(t, stuAni, indSentosa)
	if _, err := env.approval.ApproveGroup(ctx, gid, coordinator, &dto.ApproveRequest{SupervisorID: tchJoko}); err != nil {
		t.Fatalf("小组审批失败: %v", err)
	}

	_, err := env.approval.ApproveApplication(ctx, appID, coordinator, approveReq(tchRina, "2025-01-06", "2025-04-30"))
	var conflict *pkgerrors.StudentConflictError
	if !errors.As(err, &conflict) || conflict.StudentID != stuAni {
		t.Fatalf("期望 StudentConflictError{%s}，实际: %v", stuAni, err)
	}
	app, _ := env.app.Get(ctx, appID, coordinator)
	if app.Status != string(model.ApplicationPending) {
		t.Errorf("冲突回滚后申请应保持 pending，实际 %s", app.Status)
	}
	if n := env.activePlacements(stuAni); n != 1 {
		t.Errorf("学生仍应只有 1 条生效安置，实际 %d", n)
	}
}

func TestApprovalService_ApproveApplication_RollbackOnNotifyFailure(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	id := env.submitApp(t, stuAni, indMaju)
	boom := errors.New("notifikasi gagal")
	env.store.failWith("Notification.BatchCreate", boom)

	if _, err := env.approval.ApproveApplication(ctx, id, coordinator, approveReq(tchRina, "2025-01-06", "2025-04-30")); !errors.Is(err, boom) {
		t.Fatalf("期望透传通知写入错误，实际: %v", err)
	}
	app, _ := env.app.Get(ctx, id, coordinator)
	if app.Status != string(model.ApplicationPending) {
		t.Errorf("事务失败后申请应保持 pending，实际 %s", app.Status)
	}
	if env.activePlacements(stuAni) != 0 {
		t.Error("事务失败后不应留下安置")
	}
}

// ── RejectApplication ──

func TestApprovalService_RejectApplication(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	id := env.submitApp(t, stuAni, indMaju)

	if _, err := env.approval.RejectApplication(ctx, id, rina, "   "); !errors.Is(err, ErrApproverRoleRequired) {
		t.Errorf("无权角色应先返回 AuthorizationError，实际: %v", err)
	}
	if _, err := env.approval.RejectApplication(ctx, id, coordinator, "  \t "); !errors.Is(err, ErrRejectNoteRequired) {
		t.Errorf("空白理由应返回 ErrRejectNoteRequired，实际: %v", err)
	}

	resp, err := env.approval.RejectApplication(ctx, id, coordinator, " Kuota industri penuh ")
	if err != nil {
		t.Fatalf("驳回失败: %v", err)
	}
	if resp.Status != string(model.ApplicationRejected) || resp.DecisionNote != "Kuota industri penuh" || resp.Withdrawn {
		t.Errorf("驳回结果不符: %+v", resp)
	}
	if n := env.notificationsFor(stuAni, model.NotifyApplicationDecided); n != 1 {
		t.Errorf("学生应收到 1 条驳回通知，实际 %d", n)
	}

	if _, err := env.approval.ApproveApplication(ctx, id, coordinator, approveReq(tchRina, "2025-01-06", "2025-04-30")); !errors.Is(err, ErrAlreadyDecided) {
		t.Errorf("驳回后审批应返回 StateError，实际: %v", err)
	}
}

// ── ApproveGroup ──

func TestApprovalService_ApproveGroup(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	g, _ := env.group.Create(ctx, student(stuAni), &dto.CreateGroupRequest{MemberIDs: []string{stuBudi, stuCitra}})
	env.group.RespondToInvitation(ctx, memberOf(t, g, stuBudi).ID, student(stuBudi), true)
	env.group.RespondToInvitation(ctx, memberOf(t, g, stuCitra).ID, student(stuCitra), false)
	if _, err := env.group.Submit(ctx, g.ID, student(stuAni), &dto.SubmitGroupRequest{
		IndustryID: indMaju, StartDate: "2025-02-03", EndDate: "2025-05-30",
	}); err != nil {
		t.Fatalf("提交失败: %v", err)
	}

	resp, err := env.approval.ApproveGroup(ctx, g.ID, coordinator, &dto.ApproveRequest{SupervisorID: tchJoko})
	if err != nil {
		t.Fatalf("小组审批失败: %v", err)
	}
	if resp.Status != string(model.GroupApproved) || resp.ApprovedAt == nil {
		t.Errorf("期望 approved 且记录审批时间，实际 %s", resp.Status)
	}

	list, _ := env.repo.Placement.ListBySource(ctx, model.SourceGroup, g.ID)
	if len(list) != 2 {
		t.Fatalf("期望为组长与已接受成员生成 2 条安置，实际 %d", len(list))
	}
	for _, p := range list {
		if p.StudentID == stuCitra {
			t.Error("拒绝邀请的成员不应生成安置")
		}
		if !p.StartDate.Equal(mustDate(t, "2025-02-03")) || !p.EndDate.Equal(mustDate(t, "2025-05-30")) {
			t.Errorf("未指定日期时应沿用小组期望日期，实际 %s ~ %s", p.StartDate, p.EndDate)
		}
	}
	for _, st := range []string{stuAni, stuBudi} {
		if n := env.notificationsFor(st, model.NotifyGroupDecided); n != 1 {
			t.Errorf("%s 应收到 1 条小组审批通知，实际 %d", st, n)
		}
	}
}

func TestApprovalService_ApproveGroup_OverrideDates(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	id := env.submittedGroup(t, stuAni, stuBudi)

	if _, err := env.approval.ApproveGroup(ctx, id, coordinator, approveReq(tchJoko, "2025-02-10", "2025-06-06")); err != nil {
		t.Fatalf("小组审批失败: %v", err)
	}
	g, _ := env.group.Get(ctx, id, coordinator)
	if *g.StartDate != "2025-02-10" || *g.EndDate != "2025-06-06" {
		t.Errorf("小组日期应更新为审批日期，实际 %s ~ %s", *g.StartDate, *g.EndDate)
	}
}

func TestApprovalService_ApproveGroup_MemberConflictRollsBack(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	gid := env.submittedGroup(t, stuAni, stuBudi, stuCitra)
	// 小组提交后，成员 Budi 通过个人申请先获得安置
	env.placeStudent(t, stuBudi, indSentosa, tchRina)

	_, err := env.approval.ApproveGroup(ctx, gid, coordinator, &dto.ApproveRequest{SupervisorID: tchJoko})
	var conflict *pkgerrors.StudentConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("期望 StudentConflictError，实际: %v", err)
	}
	if conflict.StudentID != stuBudi {
		t.Errorf("冲突学生应为 %s，实际 %s", stuBudi, conflict.StudentID)
	}

	g, _ := env.group.Get(ctx, gid, coordinator)
	if g.Status != string(model.GroupSubmitted) {
		t.Errorf("回滚后小组应保持 submitted，实际 %s", g.Status)
	}
	for _, st := range []string{stuAni, stuCitra} {
		if n := env.activePlacements(st); n != 0 {
			t.Errorf("回滚后 %s 不应有安置，实际 %d", st, n)
		}
	}
	if n := env.notificationsFor(stuAni, model.NotifyGroupDecided); n != 0 {
		t.Errorf("回滚后不应留下通知，实际 %d", n)
	}
}

func TestApprovalService_ApproveGroup_ConcurrentOverlap(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	first := env.submittedGroup(t, stuAni, stuBudi)
	second := env.submittedGroup(t, stuCitra, stuDedi)
	// 历史数据中 Budi 同时出现在两个已提交小组
	env.store.mu.Lock()
	env.store.members["mem-budi-dup"] = model.GroupMember{
		MemberID: "mem-budi-dup", GroupID: second, StudentID: stuBudi,
		Status: model.MemberAccepted, BaseModel: model.BaseModel{CreatedAt: env.store.tick()},
	}
	env.store.mu.Unlock()

	ids := []string{first, second}
	errs := make([]error, len(ids))
	var wg sync.WaitGroup
	for i, id := range ids {
		wg.Add(1)
		go func(i int, id string) {
			defer wg.Done()
			_, errs[i] = env.approval.ApproveGroup(ctx, id, coordinator, &dto.ApproveRequest{SupervisorID: tchJoko})
		}(i, id)
	}
	wg.Wait()

	ok := 0
	for i, err := range errs {
		if err == nil {
			ok++
			continue
		}
		var conflict *pkgerrors.StudentConflictError
		if !errors.As(err, &conflict) || conflict.StudentID != stuBudi {
			t.Errorf("落败方应得到 StudentConflictError{%s}，实际: %v", stuBudi, err)
		}
		g, _ := env.repo.Group.GetByID(ctx, ids[i])
		if g.Status != model.GroupSubmitted {
			t.Errorf("落败小组应保持 submitted，实际 %s", g.Status)
		}
	}
	if ok != 1 {
		t.Fatalf("重叠成员的两个小组应只有 1 个审批成功，实际 %d", ok)
	}
	if n := env.activePlacements(stuBudi); n != 1 {
		t.Errorf("%s 期望恰好 1 条生效安置，实际 %d", stuBudi, n)
	}
	for _, st := range []string{stuAni, stuCitra, stuDedi} {
		if n := env.activePlacements(st); n > 1 {
			t.Errorf("%s 至多 1 条生效安置，实际 %d", st, n)
		}
	}
}

func TestApprovalService_ApproveGroup_States(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	draft, _ := env.group.Create(ctx, student(stuEka), &dto.CreateGroupRequest{})
	if _, err := env.approval.ApproveGroup(ctx, draft.ID, coordinator, approveReq(tchJoko, "2025-02-03", "2025-05-30")); !errors.Is(err, ErrGroupNotSubmitted) {
		t.Errorf("草稿小组审批应返回 ErrGroupNotSubmitted，实际: %v", err)
	}

	id := env.submittedGroup(t, stuAni, stuBudi)
	if _, err := env.approval.ApproveGroup(ctx, id, coordinator, &dto.ApproveRequest{SupervisorID: tchJoko}); err != nil {
		t.Fatalf("审批失败: %v", err)
	}
	if _, err := env.approval.ApproveGroup(ctx, id, coordinator, &dto.ApproveRequest{SupervisorID: tchJoko}); !errors.Is(err, ErrAlreadyDecided) {
		t.Errorf("重复审批应返回 ErrAlreadyDecided，实际: %v", err)
	}
	if n := env.activePlacements(stuAni); n != 1 {
		t.Errorf("重复审批后仍应只有 1 条安置，实际 %d", n)
	}
	if _, err := env.approval.ApproveGroup(ctx, "grp-ghost", coordinator, &dto.ApproveRequest{SupervisorID: tchJoko}); !errors.Is(err, ErrGroupNotFound) {
		t.Errorf("未知小组应返回 ErrGroupNotFound，实际: %v", err)
	}
}

// ── RejectGroup ──

func TestApprovalService_RejectGroup(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	id := env.submittedGroup(t, stuAni, stuBudi)

	if _, err := env.approval.RejectGroup(ctx, id, coordinator, ""); !errors.Is(err, ErrRejectNoteRequired) {
		t.Errorf("空理由应返回 ErrRejectNoteRequired，实际: %v", err)
	}
	resp, err := env.approval.RejectGroup(ctx, id, coordinator, "Industri tidak menerima kelompok")
	if err != nil {
		t.Fatalf("驳回失败: %v", err)
	}
	if resp.Status != string(model.GroupRejected) || resp.DecisionNote == "" {
		t.Errorf("驳回结果不符: %+v", resp)
	}
	for _, st := range []string{stuAni, stuBudi} {
		if n := env.notificationsFor(st, model.NotifyGroupDecided); n != 1 {
			t.Errorf("%s 应收到 1 条驳回通知，实际 %d", st, n)
		}
	}
	// 小组终结后成员可重新组队
	if _, err := env.group.Create(ctx, student(stuAni), &dto.CreateGroupRequest{}); err != nil {
		t.Errorf("小组被驳回后组长应可重新建组，实际: %v", err)
	}
}
