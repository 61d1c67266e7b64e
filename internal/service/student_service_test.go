package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"skilltree/backend/internal/dto"
	"skilltree/backend/internal/model"
)

func setupTestStudentService(t *testing.T) (StudentService, *mockRepos) {
	t.Helper()
	repo, mocks := newMockRepository()
	return NewStudentService(repo, zap.NewNop()), mocks
}

func TestListStudents_SearchAndFilter(t *testing.T) {
	svc, mocks := setupTestStudentService(t)
	seedStudent(t, mocks, "aarav")
	diya := seedStudent(t, mocks, "diya")
	diya.Grade = 9

	grade := 9
	list, total, err := svc.List(context.Background(), &dto.StudentListRequest{Grade: &grade})
	if err != nil {
		t.Fatalf("List 失败: %v", err)
	}
	if total != 1 || len(list) != 1 || list[0].StudentName != "diya" {
		t.Errorf("期望仅命中 diya，实际 total=%d list=%+v", total, list)
	}

	list, total, err = svc.List(context.Background(), &dto.StudentListRequest{Search: "aarav"})
	if err != nil {
		t.Fatalf("List 失败: %v", err)
	}
	if total != 1 || list[0].StudentName != "aarav" {
		t.Errorf("期望搜索命中 aarav，实际 total=%d", total)
	}
}

func TestUpdateStudent(t *testing.T) {
	svc, mocks := setupTestStudentService(t)
	student := seedStudent(t, mocks, "aarav")

	grade := 8
	name := "Aarav S"
	resp, err := svc.Update(context.Background(), student.StudentID, &dto.UpdateStudentRequest{
		StudentName: &name,
		Grade:       &grade,
	})
	if err != nil {
		t.Fatalf("Update 失败: %v", err)
	}
	if resp.StudentName != name || resp.Grade != 8 {
		t.Errorf("更新未生效: %+v", resp)
	}

	if _, err := svc.Update(context.Background(), "ghost", &dto.UpdateStudentRequest{Grade: &grade}); !errors.Is(err, ErrStudentNotFound) {
		t.Errorf("期望 ErrStudentNotFound，实际: %v", err)
	}
}

func TestDeleteStudent(t *testing.T) {
	svc, mocks := setupTestStudentService(t)
	student := seedStudent(t, mocks, "aarav")

	if err := svc.Delete(context.Background(), student.StudentID); err != nil {
		t.Fatalf("Delete 失败: %v", err)
	}
	if _, err := svc.Get(context.Background(), student.StudentID); !errors.Is(err, ErrStudentNotFound) {
		t.Errorf("期望 ErrStudentNotFound，实际: %v", err)
	}
}

func TestDashboard_SplitsPracticeTests(t *testing.T) {
	svc, mocks := setupTestStudentService(t)
	student := seedStudent(t, mocks, "aarav")

	regular := seedScoringTest(t, mocks)
	practice := &model.Test{
		Name:       "口算练习",
		Subject:    "Math",
		IsPractice: true,
		Questions: []model.Question{
			{
				QuestionText: "5 + 5 = ?",
				Points:       1,
				Options: []model.Option{
					{OptionText: "10", IsCorrect: true},
					{OptionText: "25", IsCorrect: false},
				},
			},
		},
	}
	if err := mocks.test.CreateWithQuestions(context.Background(), practice); err != nil {
		t.Fatalf("创建练习失败: %v", err)
	}

	for _, testID := range []string{regular.TestID, practice.TestID} {
		if err := mocks.assignment.Create(context.Background(), &model.AssignedTest{
			TestID:    testID,
			StudentID: student.StudentID,
		}); err != nil {
			t.Fatalf("分配失败: %v", err)
		}
	}

	// 资料与日程各一条
	material := &model.StudyMaterial{FileLink: "https://files.example.com/a.pdf", Subject: "Maths"}
	if err := mocks.material.Create(context.Background(), material); err != nil {
		t.Fatalf("创建资料失败: %v", err)
	}
	if err := mocks.material.Assign(context.Background(), &model.StudentMaterial{
		StudentID:  student.StudentID,
		MaterialID: material.MaterialID,
		ValidUntil: "2099-01-01",
	}); err != nil {
		t.Fatalf("分配资料失败: %v", err)
	}
	if err := mocks.event.Create(context.Background(), &model.StudentEvent{
		StudentID: student.StudentID,
		Title:     "复习课",
		EventDate: "2026-03-10",
	}); err != nil {
		t.Fatalf("创建日程失败: %v", err)
	}

	dash, err := svc.Dashboard(context.Background(), student.StudentID)
	if err != nil {
		t.Fatalf("Dashboard 失败: %v", err)
	}
	if dash.Student.ID != student.StudentID {
		t.Errorf("期望学生 %s，实际=%s", student.StudentID, dash.Student.ID)
	}
	if len(dash.Materials) != 1 || len(dash.Events) != 1 {
		t.Errorf("期望资料 1 条、日程 1 条，实际 materials=%d events=%d",
			len(dash.Materials), len(dash.Events))
	}
	if len(dash.AssignedTests) != 1 || len(dash.PracticeTests) != 1 {
		t.Errorf("期望正式测试与练习各 1 条，实际 assigned=%d practice=%d",
			len(dash.AssignedTests), len(dash.PracticeTests))
	}
	if dash.PracticeTests[0].Name != "口算练习" {
		t.Errorf("练习分组错误: %+v", dash.PracticeTests[0])
	}
}

func TestDashboard_StudentNotFound(t *testing.T) {
	svc, _ := setupTestStudentService(t)

	if _, err := svc.Dashboard(context.Background(), "ghost"); !errors.Is(err, ErrStudentNotFound) {
		t.Errorf("期望 ErrStudentNotFound，实际: %v", err)
	}
}
