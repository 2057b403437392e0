package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/rhazelina/TA-12-sub000/internal/dto"
	"github.com/rhazelina/TA-12-sub000/internal/repository"
	pkgerrors "github.com/rhazelina/TA-12-sub000/pkg/errors"
)

// ── 导出模块业务错误 ──

var (
	ErrExportNoPlacements = fmt.Errorf("%w: tidak ada data penempatan untuk diekspor", pkgerrors.ErrNotFound)
	ErrExportGenerateFail = errors.New("gagal membuat berkas Excel")
)

// ExportService 导出业务接口
//
// 设计说明：
//   - 导出安置汇总表为 Excel (.xlsx)，供协调员线下归档
//   - 导出以 bytes.Buffer 返回，由 Handler 层设置 HTTP 响应头后写入 Response
//   - 行按 班级 → 学生姓名 → 开始日期 排序，与列表接口一致
type ExportService interface {
	// ExportPlacements 按筛选条件导出安置汇总表
	ExportPlacements(ctx context.Context, filter dto.PlacementFilter) (*bytes.Buffer, string, error)
}

type exportService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewExportService 创建 ExportService 实例
func NewExportService(repo *repository.Repository, logger *zap.Logger) ExportService {
	return &exportService{repo: repo, logger: logger}
}

// 表头（印尼语）
var placementHeaders = []string{"No", "NISN", "Nama", "Kelas", "Industri", "Alamat", "Pembimbing", "Mulai", "Selesai", "Status"}

var placementColWidths = []float64{6, 14, 28, 14, 30, 36, 26, 12, 12, 14}

// ═══════════════════════════════════════════════════════════
// ExportPlacements 导出安置汇总表
// ═══════════════════════════════════════════════════════════
//
// 输出格式：
//   - Sheet "Rekap PKL"
//   - 第 1 行为合并标题，第 2 行为表头，第 3 行起为数据
//
// 返回值：buf（Excel 内容）, filename（建议文件名）, error

func (s *exportService) ExportPlacements(ctx context.Context, filter dto.PlacementFilter) (*bytes.Buffer, string, error) {
	// 1. 解析筛选条件
	q, err := toPlacementQuery(filter)
	if err != nil {
		return nil, "", err
	}

	// 2. 全量查询（limit 0 表示不分页）
	rows, _, err := s.repo.Placement.ListViews(ctx, q, 0, 0)
	if err != nil {
		s.logger.Error("查询导出安置失败", zap.Error(err))
		return nil, "", err
	}
	if len(rows) == 0 {
		return nil, "", ErrExportNoPlacements
	}

	// 3. 生成 Excel
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Rekap PKL"
	idx, _ := f.NewSheet(sheetName)
	f.SetActiveSheet(idx)
	// 删除默认 Sheet1
	f.DeleteSheet("Sheet1")

	for i, w := range placementColWidths {
		col := colName(i)
		f.SetColWidth(sheetName, col, col, w)
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	titleStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 13},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})

	// 标题行
	lastCol := colName(len(placementHeaders) - 1)
	f.SetCellValue(sheetName, "A1", "Rekap Penempatan PKL")
	f.MergeCell(sheetName, "A1", cell(lastCol, 1))
	f.SetCellStyle(sheetName, "A1", "A1", titleStyle)

	// 表头
	for i, h := range placementHeaders {
		f.SetCellValue(sheetName, cell(colName(i), 2), h)
	}
	f.SetCellStyle(sheetName, "A2", cell(lastCol, 2), headerStyle)

	// 数据行
	row := 3
	for i, v := range rows {
		values := []interface{}{
			i + 1,
			v.NISN,
			v.StudentName,
			v.ClassName,
			v.IndustryName,
			v.IndustryAddr,
			v.SupervisorName,
			formatDate(v.StartDate),
			formatDate(v.EndDate),
			v.Status.Label(),
		}
		for c, val := range values {
			f.SetCellValue(sheetName, cell(colName(c), row), val)
		}
		row++
	}

	// 写入 buffer
	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("写入 Excel 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	s.logger.Info("导出安置汇总表", zap.Int("rows", len(rows)))
	filename := fmt.Sprintf("rekap_pkl_%s.xlsx", now().Format("20060102"))
	return buf, filename, nil
}

// ── 辅助函数 ──

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
