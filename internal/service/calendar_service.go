package service

import (
	"context"
	"fmt"
	"net/url"
	"time"

	ics "github.com/arran4/golang-ical"
	"go.uber.org/zap"

	"github.com/rhazelina/TA-12-sub000/internal/dto"
	"github.com/rhazelina/TA-12-sub000/internal/model"
	"github.com/rhazelina/TA-12-sub000/internal/repository"
)

// CalendarService 将安置导出为 iCalendar 订阅
//
// 学生：自己的生效 / 已完成安置
// 教师：自己指导的生效安置
type CalendarService interface {
	ExportCalendar(ctx context.Context, actor dto.Actor) (string, string, error)
}

type calendarService struct {
	repo   *repository.Repository
	host   string
	logger *zap.Logger
}

// NewCalendarService 创建 CalendarService 实例；baseURL 的主机名用作事件 UID 后缀
func NewCalendarService(repo *repository.Repository, baseURL string, logger *zap.Logger) CalendarService {
	host := "sipkl"
	if u, err := url.Parse(baseURL); err == nil && u.Hostname() != "" {
		host = u.Hostname()
	}
	return &calendarService{repo: repo, host: host, logger: logger}
}

// calendarEntry 单个日历事件所需字段
type calendarEntry struct {
	id         string
	summary    string
	location   string
	desc       string
	start, end time.Time
}

func (s *calendarService) ExportCalendar(ctx context.Context, actor dto.Actor) (string, string, error) {
	var entries []calendarEntry

	if actor.IsStudent() {
		list, err := s.repo.Placement.ListByStudent(ctx, actor.ID)
		if err != nil {
			s.logger.Error("查询学生安置失败", zap.String("student_id", actor.ID), zap.Error(err))
			return "", "", err
		}
		for i := range list {
			p := &list[i]
			if p.Status == model.PlacementSuperseded {
				continue
			}
			e := calendarEntry{id: p.PlacementID, start: p.StartDate, end: p.EndDate, summary: "PKL"}
			if p.Industry != nil {
				e.summary = "PKL - " + p.Industry.Name
				e.location = p.Industry.Address
			}
			if p.Supervisor != nil {
				e.desc = "Pembimbing: " + p.Supervisor.FullName
			}
			entries = append(entries, e)
		}
	} else {
		rows, _, err := s.repo.Placement.ListViews(ctx, repository.PlacementQuery{
			Status:       model.PlacementActive,
			SupervisorID: actor.ID,
		}, 0, 0)
		if err != nil {
			s.logger.Error("查询指导安置失败", zap.String("supervisor_id", actor.ID), zap.Error(err))
			return "", "", err
		}
		for i := range rows {
			v := &rows[i]
			entries = append(entries, calendarEntry{
				id:       v.PlacementID,
				summary:  fmt.Sprintf("PKL %s - %s", v.StudentName, v.IndustryName),
				location: v.IndustryAddr,
				desc:     fmt.Sprintf("Siswa: %s (%s)", v.StudentName, v.ClassName),
				start:    v.StartDate,
				end:      v.EndDate,
			})
		}
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//SIPKL//Penempatan PKL//ID")
	cal.SetXWRCalName("Jadwal PKL")
	stamp := now()
	for _, e := range entries {
		evt := cal.AddEvent(fmt.Sprintf("%s@%s", e.id, s.host))
		evt.SetDtStampTime(stamp)
		evt.SetSummary(e.summary)
		// 全天事件的 DTEND 为结束日次日（不含）
		evt.SetAllDayStartAt(e.start)
		evt.SetAllDayEndAt(e.end.AddDate(0, 0, 1))
		if e.location != "" {
			evt.SetLocation(e.location)
		}
		if e.desc != "" {
			evt.SetDescription(e.desc)
		}
	}

	return cal.Serialize(), "jadwal_pkl.ics", nil
}
