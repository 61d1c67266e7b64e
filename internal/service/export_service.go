package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"skilltree/backend/internal/repository"
)

// ── 导出模块业务错误 ──

var (
	ErrExportNoAssignments = errors.New("该测试尚未分配给任何学生")
	ErrExportGenerateFail  = errors.New("生成 Excel 文件失败")
)

// ExportService 导出业务接口
//
// 设计说明：
//   - 导出某个测试的全部学生成绩为 Excel (.xlsx)
//   - 导出以 bytes.Buffer 返回，由 Handler 层设置 HTTP 响应头后写入 Response
type ExportService interface {
	// ExportTestResults 导出测试成绩表
	ExportTestResults(ctx context.Context, testID string) (*bytes.Buffer, string, error)
}

type exportService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewExportService 创建 ExportService 实例
func NewExportService(repo *repository.Repository, logger *zap.Logger) ExportService {
	return &exportService{repo: repo, logger: logger}
}

func (s *exportService) ExportTestResults(ctx context.Context, testID string) (*bytes.Buffer, string, error) {
	test, err := s.repo.Test.GetByID(ctx, testID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrTestNotFound
		}
		s.logger.Error("查询测试失败", zap.Error(err))
		return nil, "", err
	}

	assignments, err := s.repo.Assignment.ListByTest(ctx, testID)
	if err != nil {
		s.logger.Error("查询测试分配失败", zap.Error(err))
		return nil, "", err
	}
	if len(assignments) == 0 {
		return nil, "", ErrExportNoAssignments
	}

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "成绩表"
	idx, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, "", ErrExportGenerateFail
	}
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	f.SetColWidth(sheetName, "A", "A", 6)
	f.SetColWidth(sheetName, "B", "C", 22)
	f.SetColWidth(sheetName, "D", "G", 14)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	// 标题行
	f.SetCellValue(sheetName, "A1", fmt.Sprintf("%s 成绩表", test.Name))
	f.MergeCell(sheetName, "A1", "G1")

	// 表头
	headers := []string{"#", "学生姓名", "邮箱", "年级", "状态", "分数", "提交时间"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 2)
		f.SetCellValue(sheetName, cell, h)
	}
	f.SetCellStyle(sheetName, "A2", "G2", headerStyle)

	// 数据行
	for i := range assignments {
		a := &assignments[i]
		row := i + 3
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), i+1)
		if a.Student != nil {
			f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), a.Student.StudentName)
			f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), a.Student.Email)
			f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), a.Student.Grade)
		}
		status := "未提交"
		if a.Completed {
			status = "已提交"
		}
		f.SetCellValue(sheetName, fmt.Sprintf("E%d", row), status)
		if a.Score != nil {
			f.SetCellValue(sheetName, fmt.Sprintf("F%d", row), fmt.Sprintf("%.1f", *a.Score))
		}
		if a.CompletedAt != nil {
			f.SetCellValue(sheetName, fmt.Sprintf("G%d", row), a.CompletedAt.Format("2006-01-02 15:04"))
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		s.logger.Error("写入 Excel 缓冲失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("test_results_%s.xlsx", time.Now().Format("20060102"))
	return buf, filename, nil
}
