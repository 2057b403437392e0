package service

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rhazelina/TA-12-sub000/internal/model"
	"github.com/rhazelina/TA-12-sub000/internal/repository"
)

// ════════════════════════════════════════════════════════════
// memStore 内存数据集
// ════════════════════════════════════════════════════════════
//
// 所有 mock repo 共享同一个 memStore：
//   - 记录以值保存，读出时返回副本并按需补齐关联
//   - 部分唯一索引（一条待审申请 / 一条生效安置 / 一条进行中调动）以 gorm.ErrDuplicatedKey 模拟
//   - 事务串行执行，fn 返回错误时恢复到事务开始前的快照

type memStore struct {
	txMu sync.Mutex // 串行化事务
	mu   sync.Mutex // 保护以下数据
	seq  int

	classes       map[string]model.SchoolClass
	students      map[string]model.Student
	teachers      map[string]model.Teacher
	industries    map[string]model.Industry
	school        *model.SchoolProfile
	applications  map[string]model.Application
	groups        map[string]model.Group
	members       map[string]model.GroupMember
	placements    map[string]model.Placement
	transfers     map[string]model.TransferRequest
	notifications map[string]model.Notification

	// 故障注入：按操作名返回错误
	failures map[string]error
	// 一次性钩子：操作执行时触发，用于在事务中途插入并发调用
	hooks map[string]func()
	// 统计
	listViewsAfterCalls int
}

func newMemStore() *memStore {
	return &memStore{
		classes:       make(map[string]model.SchoolClass),
		students:      make(map[string]model.Student),
		teachers:      make(map[string]model.Teacher),
		industries:    make(map[string]model.Industry),
		applications:  make(map[string]model.Application),
		groups:        make(map[string]model.Group),
		members:       make(map[string]model.GroupMember),
		placements:    make(map[string]model.Placement),
		transfers:     make(map[string]model.TransferRequest),
		notifications: make(map[string]model.Notification),
		failures:      make(map[string]error),
		hooks:         make(map[string]func()),
	}
}

// repository 组装绑定到 memStore 的 Repository 聚合
func (m *memStore) repository() *repository.Repository {
	r := m.bind(false)
	r.Transactor = &mockTransactor{m}
	return r
}

func (m *memStore) bind(inTx bool) *repository.Repository {
	b := mockBase{m: m, inTx: inTx}
	return &repository.Repository{
		Reference:    &mockReferenceRepo{b},
		Application:  &mockApplicationRepo{b},
		Group:        &mockGroupRepo{b},
		Placement:    &mockPlacementRepo{b},
		Transfer:     &mockTransferRepo{b},
		Notification: &mockNotificationRepo{b},
	}
}

// mockBase 事务外的调用同样持有 txMu，等价于自动提交的单语句事务
type mockBase struct {
	m    *memStore
	inTx bool
}

func (b mockBase) lock() func() {
	if !b.inTx {
		b.m.txMu.Lock()
	}
	b.m.mu.Lock()
	return func() {
		b.m.mu.Unlock()
		if !b.inTx {
			b.m.txMu.Unlock()
		}
	}
}

// tick 生成单调递增的时间戳，保证 created_at 排序稳定
func (m *memStore) tick() time.Time {
	m.seq++
	return time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(m.seq) * time.Millisecond)
}

func (m *memStore) fail(op string) error {
	return m.failures[op]
}

func (m *memStore) failWith(op string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failures[op] = err
}

// onCall 注册一次性钩子；钩子在持有 mu 时触发，只应启动 goroutine
func (m *memStore) onCall(op string, fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hooks[op] = fn
}

func (m *memStore) fire(op string) {
	if fn, ok := m.hooks[op]; ok {
		delete(m.hooks, op)
		fn()
	}
}

// ── 快照 ──

type memSnapshot struct {
	applications  map[string]model.Application
	groups        map[string]model.Group
	members       map[string]model.GroupMember
	placements    map[string]model.Placement
	transfers     map[string]model.TransferRequest
	notifications map[string]model.Notification
}

func copyMap[K comparable, V any](src map[K]V) map[K]V {
	dst := make(map[K]V, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

func (m *memStore) snapshot() memSnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return memSnapshot{
		applications:  copyMap(m.applications),
		groups:        copyMap(m.groups),
		members:       copyMap(m.members),
		placements:    copyMap(m.placements),
		transfers:     copyMap(m.transfers),
		notifications: copyMap(m.notifications),
	}
}

func (m *memStore) restore(s memSnapshot) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.applications = s.applications
	m.groups = s.groups
	m.members = s.members
	m.placements = s.placements
	m.transfers = s.transfers
	m.notifications = s.notifications
}

// ── Mock Transactor ──

type mockTransactor struct{ m *memStore }

func (t *mockTransactor) Transaction(_ context.Context, fn func(txRepo *repository.Repository) error) error {
	t.m.txMu.Lock()
	defer t.m.txMu.Unlock()

	snap := t.m.snapshot()
	txRepo := t.m.bind(true)
	if err := fn(txRepo); err != nil {
		t.m.restore(snap)
		return err
	}
	return nil
}

// ── 关联补齐（调用方须持有 mu）──

func (m *memStore) studentRef(id string) *model.Student {
	st, ok := m.students[id]
	if !ok {
		return nil
	}
	if c, ok := m.classes[st.ClassID]; ok {
		st.Class = &c
	}
	return &st
}

func (m *memStore) industryRef(id string) *model.Industry {
	ind, ok := m.industries[id]
	if !ok {
		return nil
	}
	return &ind
}

func (m *memStore) teacherRef(id string) *model.Teacher {
	t, ok := m.teachers[id]
	if !ok {
		return nil
	}
	return &t
}

func (m *memStore) hydrateApplication(a model.Application) model.Application {
	a.Student = m.studentRef(a.StudentID)
	a.Industry = m.industryRef(a.IndustryID)
	return a
}

func (m *memStore) groupMembers(groupID string) []model.GroupMember {
	var list []model.GroupMember
	for _, mem := range m.members {
		if mem.GroupID == groupID {
			mem.Student = m.studentRef(mem.StudentID)
			list = append(list, mem)
		}
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].IsLeader != list[j].IsLeader {
			return list[i].IsLeader
		}
		return list[i].CreatedAt.Before(list[j].CreatedAt)
	})
	return list
}

func (m *memStore) hydrateGroup(g model.Group) model.Group {
	g.Leader = m.studentRef(g.LeaderID)
	if g.IndustryID != nil {
		g.Industry = m.industryRef(*g.IndustryID)
	}
	g.Members = m.groupMembers(g.GroupID)
	return g
}

func (m *memStore) hydratePlacement(p model.Placement) model.Placement {
	p.Student = m.studentRef(p.StudentID)
	p.Industry = m.industryRef(p.IndustryID)
	p.Supervisor = m.teacherRef(p.SupervisorID)
	return p
}

// ════════════════════════════════════════════════════════════
// Mock ReferenceRepository
// ════════════════════════════════════════════════════════════

type mockReferenceRepo struct{ mockBase }

func (r *mockReferenceRepo) GetStudent(_ context.Context, id string) (*model.Student, error) {
	defer r.lock()()
	if st := r.m.studentRef(id); st != nil {
		return st, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *mockReferenceRepo) ListStudentsByIDs(_ context.Context, ids []string) ([]model.Student, error) {
	defer r.lock()()
	var list []model.Student
	for _, id := range ids {
		if st := r.m.studentRef(id); st != nil {
			list = append(list, *st)
		}
	}
	return list, nil
}

func (r *mockReferenceRepo) GetTeacher(_ context.Context, id string) (*model.Teacher, error) {
	defer r.lock()()
	if t := r.m.teacherRef(id); t != nil {
		return t, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *mockReferenceRepo) GetClass(_ context.Context, id string) (*model.SchoolClass, error) {
	defer r.lock()()
	if c, ok := r.m.classes[id]; ok {
		return &c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *mockReferenceRepo) GetIndustry(_ context.Context, id string) (*model.Industry, error) {
	defer r.lock()()
	if ind := r.m.industryRef(id); ind != nil {
		return ind, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *mockReferenceRepo) GetSchoolProfile(_ context.Context) (*model.SchoolProfile, error) {
	defer r.lock()()
	if r.m.school == nil {
		return nil, gorm.ErrRecordNotFound
	}
	p := *r.m.school
	return &p, nil
}

// ════════════════════════════════════════════════════════════
// Mock ApplicationRepository
// ════════════════════════════════════════════════════════════

type mockApplicationRepo struct{ mockBase }

func (r *mockApplicationRepo) Create(_ context.Context, app *model.Application) error {
	defer r.lock()()
	if err := r.m.fail("Application.Create"); err != nil {
		return err
	}
	if app.Status == model.ApplicationPending {
		for _, a := range r.m.applications {
			if a.StudentID == app.StudentID && a.Status == model.ApplicationPending {
				return gorm.ErrDuplicatedKey
			}
		}
	}
	if app.ApplicationID == "" {
		app.ApplicationID = uuid.NewString()
	}
	at := r.m.tick()
	app.CreatedAt, app.UpdatedAt, app.Version = at, at, 1
	stored := *app
	stored.Student, stored.Industry = nil, nil
	r.m.applications[app.ApplicationID] = stored
	return nil
}

func (r *mockApplicationRepo) GetByID(_ context.Context, id string) (*model.Application, error) {
	defer r.lock()()
	a, ok := r.m.applications[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	a = r.m.hydrateApplication(a)
	return &a, nil
}

func (r *mockApplicationRepo) HasPending(_ context.Context, studentID string) (bool, error) {
	defer r.lock()()
	for _, a := range r.m.applications {
		if a.StudentID == studentID && a.Status == model.ApplicationPending {
			return true, nil
		}
	}
	return false, nil
}

func (r *mockApplicationRepo) ListByStudent(_ context.Context, studentID string) ([]model.Application, error) {
	defer r.lock()()
	var list []model.Application
	for _, a := range r.m.applications {
		if a.StudentID == studentID {
			a.Industry = r.m.industryRef(a.IndustryID)
			list = append(list, a)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].SubmittedAt.After(list[j].SubmittedAt) })
	return list, nil
}

// views 过滤并按 (submitted_at, application_id) 升序排列（调用方须持有 mu）
func (r *mockApplicationRepo) views(q repository.ApplicationQuery) []model.ApplicationView {
	var rows []model.ApplicationView
	for _, a := range r.m.applications {
		st := r.m.studentRef(a.StudentID)
		ind := r.m.industryRef(a.IndustryID)
		if st == nil || ind == nil {
			continue
		}
		if q.Status != "" && a.Status != q.Status {
			continue
		}
		if q.StudentID != "" && a.StudentID != q.StudentID {
			continue
		}
		if q.IndustryID != "" && a.IndustryID != q.IndustryID {
			continue
		}
		if q.Search != "" {
			needle := strings.ToLower(q.Search)
			if !strings.Contains(strings.ToLower(st.FullName), needle) &&
				!strings.Contains(st.NISN, needle) &&
				!strings.Contains(strings.ToLower(ind.Name), needle) {
				continue
			}
		}
		row := model.ApplicationView{
			ApplicationID: a.ApplicationID,
			StudentID:     a.StudentID,
			StudentName:   st.FullName,
			NISN:          st.NISN,
			IndustryID:    a.IndustryID,
			IndustryName:  ind.Name,
			Status:        a.Status,
			Note:          a.Note,
			DecisionNote:  a.DecisionNote,
			Withdrawn:     a.Withdrawn,
			SubmittedAt:   a.SubmittedAt,
			DecidedAt:     a.DecidedAt,
		}
		if st.Class != nil {
			row.ClassName = st.Class.Name
		}
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool {
		if !rows[i].SubmittedAt.Equal(rows[j].SubmittedAt) {
			return rows[i].SubmittedAt.Before(rows[j].SubmittedAt)
		}
		return rows[i].ApplicationID < rows[j].ApplicationID
	})
	return rows
}

func (r *mockApplicationRepo) ListViewsAfter(_ context.Context, q repository.ApplicationQuery, after *repository.ApplicationCursor, limit int) ([]model.ApplicationView, error) {
	defer r.lock()()
	r.m.listViewsAfterCalls++
	if err := r.m.fail("Application.ListViewsAfter"); err != nil {
		return nil, err
	}
	var out []model.ApplicationView
	for _, row := range r.views(q) {
		if after != nil {
			if row.SubmittedAt.Before(after.SubmittedAt) {
				continue
			}
			if row.SubmittedAt.Equal(after.SubmittedAt) && row.ApplicationID <= after.ID {
				continue
			}
		}
		out = append(out, row)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (r *mockApplicationRepo) ListViews(_ context.Context, q repository.ApplicationQuery, offset, limit int) ([]model.ApplicationView, int64, error) {
	defer r.lock()()
	rows := r.views(q)
	return pageOf(rows, offset, limit), int64(len(rows)), nil
}

func (r *mockApplicationRepo) UpdateIfStatus(_ context.Context, app *model.Application, from model.ApplicationStatus) (bool, error) {
	defer r.lock()()
	if err := r.m.fail("Application.UpdateIfStatus"); err != nil {
		return false, err
	}
	cur, ok := r.m.applications[app.ApplicationID]
	if !ok || cur.Status != from {
		return false, nil
	}
	cur.Status = app.Status
	cur.DecisionNote = app.DecisionNote
	cur.Withdrawn = app.Withdrawn
	cur.DecidedAt = app.DecidedAt
	cur.DecidedBy = app.DecidedBy
	cur.Version++
	cur.UpdatedAt = r.m.tick()
	r.m.applications[app.ApplicationID] = cur
	app.Version++
	return true, nil
}

// ════════════════════════════════════════════════════════════
// Mock GroupRepository
// ════════════════════════════════════════════════════════════

type mockGroupRepo struct{ mockBase }

func (r *mockGroupRepo) Create(_ context.Context, group *model.Group) error {
	defer r.lock()()
	if group.GroupID == "" {
		group.GroupID = uuid.NewString()
	}
	at := r.m.tick()
	group.CreatedAt, group.UpdatedAt, group.Version = at, at, 1
	stored := *group
	stored.Leader, stored.Industry, stored.Members = nil, nil, nil
	r.m.groups[group.GroupID] = stored
	return nil
}

func (r *mockGroupRepo) GetByID(_ context.Context, id string) (*model.Group, error) {
	defer r.lock()()
	g, ok := r.m.groups[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	g = r.m.hydrateGroup(g)
	return &g, nil
}

func (r *mockGroupRepo) LockByID(_ context.Context, id string) (*model.Group, error) {
	defer r.lock()()
	g, ok := r.m.groups[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &g, nil
}

func (r *mockGroupRepo) UpdateIfStatus(_ context.Context, group *model.Group, from model.GroupStatus) (bool, error) {
	defer r.lock()()
	if err := r.m.fail("Group.UpdateIfStatus"); err != nil {
		return false, err
	}
	cur, ok := r.m.groups[group.GroupID]
	if !ok || cur.Status != from {
		return false, nil
	}
	next := *group
	next.Leader, next.Industry, next.Members = nil, nil, nil
	next.CreatedAt = cur.CreatedAt
	next.UpdatedAt = r.m.tick()
	next.Version = cur.Version + 1
	r.m.groups[group.GroupID] = next
	group.Version++
	return true, nil
}

func (r *mockGroupRepo) DeleteIfStatus(_ context.Context, id string, from model.GroupStatus) (bool, error) {
	defer r.lock()()
	cur, ok := r.m.groups[id]
	if !ok || cur.Status != from {
		return false, nil
	}
	delete(r.m.groups, id)
	for mid, mem := range r.m.members {
		if mem.GroupID == id {
			delete(r.m.members, mid)
		}
	}
	return true, nil
}

func (r *mockGroupRepo) ListByMember(_ context.Context, studentID string) ([]model.Group, error) {
	defer r.lock()()
	seen := make(map[string]bool)
	var list []model.Group
	for _, mem := range r.m.members {
		if mem.StudentID != studentID || mem.Status == model.MemberRejected || seen[mem.GroupID] {
			continue
		}
		if g, ok := r.m.groups[mem.GroupID]; ok {
			seen[mem.GroupID] = true
			list = append(list, r.m.hydrateGroup(g))
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	return list, nil
}

func (r *mockGroupRepo) List(_ context.Context, status model.GroupStatus, offset, limit int) ([]model.Group, int64, error) {
	defer r.lock()()
	var list []model.Group
	for _, g := range r.m.groups {
		if status == "" || g.Status == status {
			list = append(list, r.m.hydrateGroup(g))
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.Before(list[j].CreatedAt) })
	return pageOf(list, offset, limit), int64(len(list)), nil
}

func (r *mockGroupRepo) CreateMembers(_ context.Context, members []model.GroupMember) error {
	defer r.lock()()
	for i := range members {
		for _, mem := range r.m.members {
			if mem.GroupID == members[i].GroupID && mem.StudentID == members[i].StudentID {
				return gorm.ErrDuplicatedKey
			}
		}
		if members[i].MemberID == "" {
			members[i].MemberID = uuid.NewString()
		}
		at := r.m.tick()
		members[i].CreatedAt, members[i].UpdatedAt = at, at
		stored := members[i]
		stored.Student, stored.Group = nil, nil
		r.m.members[stored.MemberID] = stored
	}
	return nil
}

func (r *mockGroupRepo) GetMember(_ context.Context, id string) (*model.GroupMember, error) {
	defer r.lock()()
	mem, ok := r.m.members[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	if g, ok := r.m.groups[mem.GroupID]; ok {
		mem.Group = &g
	}
	return &mem, nil
}

func (r *mockGroupRepo) ListMembers(_ context.Context, groupID string) ([]model.GroupMember, error) {
	defer r.lock()()
	r.m.fire("Group.ListMembers")
	return r.m.groupMembers(groupID), nil
}

func (r *mockGroupRepo) ListPendingInvitations(_ context.Context, studentID string) ([]model.GroupMember, error) {
	defer r.lock()()
	var list []model.GroupMember
	for _, mem := range r.m.members {
		if mem.StudentID != studentID || mem.Status != model.MemberPending {
			continue
		}
		g, ok := r.m.groups[mem.GroupID]
		if !ok || g.Status != model.GroupDraft {
			continue
		}
		g.Leader = r.m.studentRef(g.LeaderID)
		mem.Group = &g
		list = append(list, mem)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	return list, nil
}

func (r *mockGroupRepo) UpdateMemberIfStatus(_ context.Context, member *model.GroupMember, from model.MemberStatus) (bool, error) {
	defer r.lock()()
	cur, ok := r.m.members[member.MemberID]
	if !ok || cur.Status != from {
		return false, nil
	}
	cur.Status = member.Status
	cur.RespondedAt = member.RespondedAt
	cur.UpdatedAt = r.m.tick()
	r.m.members[member.MemberID] = cur
	return true, nil
}

func (r *mockGroupRepo) DeleteMember(_ context.Context, groupID, studentID string) (bool, error) {
	defer r.lock()()
	for id, mem := range r.m.members {
		if mem.GroupID == groupID && mem.StudentID == studentID && !mem.IsLeader {
			delete(r.m.members, id)
			return true, nil
		}
	}
	return false, nil
}

func (r *mockGroupRepo) HasActiveMembership(_ context.Context, studentID, excludeGroupID string) (bool, error) {
	defer r.lock()()
	r.m.fire("Group.HasActiveMembership")
	for _, mem := range r.m.members {
		if mem.StudentID != studentID || mem.Status != model.MemberAccepted || mem.GroupID == excludeGroupID {
			continue
		}
		if g, ok := r.m.groups[mem.GroupID]; ok && !g.Status.Terminal() {
			return true, nil
		}
	}
	return false, nil
}

// LockStudent 事务已由 txMu 串行化，这里只校验学生存在
func (r *mockGroupRepo) LockStudent(_ context.Context, studentID string) error {
	defer r.lock()()
	if _, ok := r.m.students[studentID]; !ok {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ════════════════════════════════════════════════════════════
// Mock PlacementRepository
// ════════════════════════════════════════════════════════════

type mockPlacementRepo struct{ mockBase }

func (r *mockPlacementRepo) Create(_ context.Context, p *model.Placement) error {
	defer r.lock()()
	if err := r.m.fail("Placement.Create"); err != nil {
		return err
	}
	if p.Status == model.PlacementActive {
		for _, cur := range r.m.placements {
			if cur.StudentID == p.StudentID && cur.Status == model.PlacementActive {
				return gorm.ErrDuplicatedKey
			}
		}
	}
	if p.PlacementID == "" {
		p.PlacementID = uuid.NewString()
	}
	at := r.m.tick()
	p.CreatedAt, p.UpdatedAt, p.Version = at, at, 1
	stored := *p
	stored.Student, stored.Industry, stored.Supervisor = nil, nil, nil
	r.m.placements[p.PlacementID] = stored
	return nil
}

func (r *mockPlacementRepo) GetByID(_ context.Context, id string) (*model.Placement, error) {
	defer r.lock()()
	p, ok := r.m.placements[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	p = r.m.hydratePlacement(p)
	return &p, nil
}

func (r *mockPlacementRepo) LockActiveByStudents(_ context.Context, studentIDs []string) ([]model.Placement, error) {
	defer r.lock()()
	want := make(map[string]bool, len(studentIDs))
	for _, id := range studentIDs {
		want[id] = true
	}
	var list []model.Placement
	for _, p := range r.m.placements {
		if want[p.StudentID] && p.Status == model.PlacementActive {
			list = append(list, p)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].StudentID < list[j].StudentID })
	return list, nil
}

func (r *mockPlacementRepo) HasActive(_ context.Context, studentID string) (bool, error) {
	defer r.lock()()
	for _, p := range r.m.placements {
		if p.StudentID == studentID && p.Status == model.PlacementActive {
			return true, nil
		}
	}
	return false, nil
}

func (r *mockPlacementRepo) ListByStudent(_ context.Context, studentID string) ([]model.Placement, error) {
	defer r.lock()()
	var list []model.Placement
	for _, p := range r.m.placements {
		if p.StudentID == studentID {
			list = append(list, r.m.hydratePlacement(p))
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	return list, nil
}

func (r *mockPlacementRepo) ListBySource(_ context.Context, source model.PlacementSource, sourceID string) ([]model.Placement, error) {
	defer r.lock()()
	var list []model.Placement
	for _, p := range r.m.placements {
		if p.SourceType == source && p.SourceID == sourceID {
			list = append(list, r.m.hydratePlacement(p))
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.Before(list[j].CreatedAt) })
	return list, nil
}

func (r *mockPlacementRepo) ListViews(_ context.Context, q repository.PlacementQuery, offset, limit int) ([]model.PlacementView, int64, error) {
	defer r.lock()()
	var rows []model.PlacementView
	for _, p := range r.m.placements {
		if q.Status != "" && p.Status != q.Status {
			continue
		}
		if q.StudentID != "" && p.StudentID != q.StudentID {
			continue
		}
		if q.IndustryID != "" && p.IndustryID != q.IndustryID {
			continue
		}
		if q.SupervisorID != "" && p.SupervisorID != q.SupervisorID {
			continue
		}
		h := r.m.hydratePlacement(p)
		if h.Student == nil || h.Industry == nil || h.Supervisor == nil {
			continue
		}
		row := model.PlacementView{
			PlacementID:    p.PlacementID,
			StudentID:      p.StudentID,
			StudentName:    h.Student.FullName,
			NISN:           h.Student.NISN,
			IndustryID:     p.IndustryID,
			IndustryName:   h.Industry.Name,
			IndustryAddr:   h.Industry.Address,
			SupervisorID:   p.SupervisorID,
			SupervisorName: h.Supervisor.FullName,
			StartDate:      p.StartDate,
			EndDate:        p.EndDate,
			Status:         p.Status,
			SourceType:     p.SourceType,
		}
		if h.Student.Class != nil {
			row.ClassName = h.Student.Class.Name
		}
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].ClassName != rows[j].ClassName {
			return rows[i].ClassName < rows[j].ClassName
		}
		if rows[i].StudentName != rows[j].StudentName {
			return rows[i].StudentName < rows[j].StudentName
		}
		return rows[i].StartDate.Before(rows[j].StartDate)
	})
	return pageOf(rows, offset, limit), int64(len(rows)), nil
}

func (r *mockPlacementRepo) UpdateIfStatus(_ context.Context, p *model.Placement, from model.PlacementStatus) (bool, error) {
	defer r.lock()()
	cur, ok := r.m.placements[p.PlacementID]
	if !ok || cur.Status != from {
		return false, nil
	}
	cur.Status = p.Status
	cur.EndDate = p.EndDate
	cur.Version++
	cur.UpdatedAt = r.m.tick()
	r.m.placements[p.PlacementID] = cur
	p.Version++
	return true, nil
}

// ════════════════════════════════════════════════════════════
// Mock TransferRepository
// ════════════════════════════════════════════════════════════

type mockTransferRepo struct{ mockBase }

func (r *mockTransferRepo) Create(_ context.Context, t *model.TransferRequest) error {
	defer r.lock()()
	for _, cur := range r.m.transfers {
		if cur.PlacementID == t.PlacementID && cur.Status.Open() {
			return gorm.ErrDuplicatedKey
		}
	}
	if t.TransferID == "" {
		t.TransferID = uuid.NewString()
	}
	at := r.m.tick()
	t.CreatedAt, t.UpdatedAt, t.Version = at, at, 1
	stored := *t
	stored.Placement = nil
	r.m.transfers[t.TransferID] = stored
	return nil
}

func (r *mockTransferRepo) GetByID(_ context.Context, id string) (*model.TransferRequest, error) {
	defer r.lock()()
	t, ok := r.m.transfers[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	if p, ok := r.m.placements[t.PlacementID]; ok {
		t.Placement = &p
	}
	return &t, nil
}

func (r *mockTransferRepo) HasOpen(_ context.Context, placementID string) (bool, error) {
	defer r.lock()()
	for _, t := range r.m.transfers {
		if t.PlacementID == placementID && t.Status.Open() {
			return true, nil
		}
	}
	return false, nil
}

func (r *mockTransferRepo) ListByPlacement(_ context.Context, placementID string) ([]model.TransferRequest, error) {
	defer r.lock()()
	var list []model.TransferRequest
	for _, t := range r.m.transfers {
		if t.PlacementID == placementID {
			list = append(list, t)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	return list, nil
}

func (r *mockTransferRepo) List(_ context.Context, status model.TransferStatus, offset, limit int) ([]model.TransferRequest, int64, error) {
	defer r.lock()()
	var list []model.TransferRequest
	for _, t := range r.m.transfers {
		if status == "" || t.Status == status {
			list = append(list, t)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.Before(list[j].CreatedAt) })
	return pageOf(list, offset, limit), int64(len(list)), nil
}

func (r *mockTransferRepo) ListBySupervisor(_ context.Context, supervisorID string, status model.TransferStatus) ([]model.TransferRequest, error) {
	defer r.lock()()
	var list []model.TransferRequest
	for _, t := range r.m.transfers {
		p, ok := r.m.placements[t.PlacementID]
		if !ok || p.SupervisorID != supervisorID {
			continue
		}
		if status == "" || t.Status == status {
			list = append(list, t)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.Before(list[j].CreatedAt) })
	return list, nil
}

func (r *mockTransferRepo) UpdateIfStatus(_ context.Context, t *model.TransferRequest, from model.TransferStatus) (bool, error) {
	defer r.lock()()
	cur, ok := r.m.transfers[t.TransferID]
	if !ok || cur.Status != from {
		return false, nil
	}
	next := *t
	next.Placement = nil
	next.CreatedAt = cur.CreatedAt
	next.UpdatedAt = r.m.tick()
	next.Version = cur.Version + 1
	r.m.transfers[t.TransferID] = next
	t.Version++
	return true, nil
}

// ════════════════════════════════════════════════════════════
// Mock NotificationRepository
// ════════════════════════════════════════════════════════════

type mockNotificationRepo struct{ mockBase }

func (r *mockNotificationRepo) BatchCreate(_ context.Context, list []model.Notification) error {
	defer r.lock()()
	if err := r.m.fail("Notification.BatchCreate"); err != nil {
		return err
	}
	for i := range list {
		if list[i].NotificationID == "" {
			list[i].NotificationID = uuid.NewString()
		}
		at := r.m.tick()
		list[i].CreatedAt, list[i].UpdatedAt = at, at
		r.m.notifications[list[i].NotificationID] = list[i]
	}
	return nil
}

func (r *mockNotificationRepo) ListByRecipient(_ context.Context, recipientID string, unreadOnly bool, offset, limit int) ([]model.Notification, int64, error) {
	defer r.lock()()
	var list []model.Notification
	for _, n := range r.m.notifications {
		if n.RecipientID != recipientID || (unreadOnly && n.IsRead) {
			continue
		}
		list = append(list, n)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	return pageOf(list, offset, limit), int64(len(list)), nil
}

func (r *mockNotificationRepo) MarkRead(_ context.Context, id, recipientID string) (bool, error) {
	defer r.lock()()
	n, ok := r.m.notifications[id]
	if !ok || n.RecipientID != recipientID {
		return false, nil
	}
	n.IsRead = true
	r.m.notifications[id] = n
	return true, nil
}

func (r *mockNotificationRepo) MarkAllRead(_ context.Context, recipientID string) (int64, error) {
	defer r.lock()()
	var count int64
	for id, n := range r.m.notifications {
		if n.RecipientID == recipientID && !n.IsRead {
			n.IsRead = true
			r.m.notifications[id] = n
			count++
		}
	}
	return count, nil
}

// ── 分页辅助 ──

func pageOf[T any](list []T, offset, limit int) []T {
	if limit <= 0 {
		return list
	}
	if offset >= len(list) {
		return nil
	}
	end := offset + limit
	if end > len(list) {
		end = len(list)
	}
	return list[offset:end]
}
