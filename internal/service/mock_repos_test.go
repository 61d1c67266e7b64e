package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"skilltree/backend/internal/model"
	"skilltree/backend/internal/repository"
)

// ── Mock AdminRepository ──

type mockAdminRepo struct {
	admins map[string]*model.AdminUser
}

func newMockAdminRepo() *mockAdminRepo {
	return &mockAdminRepo{admins: make(map[string]*model.AdminUser)}
}

func (m *mockAdminRepo) Create(_ context.Context, admin *model.AdminUser) error {
	if admin.AdminID == "" {
		admin.AdminID = "admin-" + admin.Email
	}
	m.admins[admin.AdminID] = admin
	return nil
}

func (m *mockAdminRepo) GetByID(_ context.Context, id string) (*model.AdminUser, error) {
	if a, ok := m.admins[id]; ok {
		return a, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAdminRepo) GetByEmail(_ context.Context, email string) (*model.AdminUser, error) {
	for _, a := range m.admins {
		if a.Email == email {
			return a, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

// ── Mock StudentRepository ──

type mockStudentRepo struct {
	students map[string]*model.Student
	seq      int
}

func newMockStudentRepo() *mockStudentRepo {
	return &mockStudentRepo{students: make(map[string]*model.Student)}
}

func (m *mockStudentRepo) Create(_ context.Context, student *model.Student) error {
	for _, s := range m.students {
		if s.Email == student.Email {
			return gorm.ErrDuplicatedKey
		}
	}
	if student.StudentID == "" {
		m.seq++
		student.StudentID = fmt.Sprintf("student-%d", m.seq)
	}
	student.CreatedAt = time.Now()
	m.students[student.StudentID] = student
	return nil
}

func (m *mockStudentRepo) GetByID(_ context.Context, id string) (*model.Student, error) {
	if s, ok := m.students[id]; ok {
		return s, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockStudentRepo) GetByEmail(_ context.Context, email string) (*model.Student, error) {
	for _, s := range m.students {
		if s.Email == email {
			return s, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockStudentRepo) Update(_ context.Context, student *model.Student) error {
	m.students[student.StudentID] = student
	return nil
}

func (m *mockStudentRepo) Delete(_ context.Context, id string) error {
	delete(m.students, id)
	return nil
}

func (m *mockStudentRepo) List(_ context.Context, filter repository.StudentFilter, offset, limit int) ([]model.Student, int64, error) {
	var all []model.Student
	for _, s := range m.students {
		if filter.Grade != nil && s.Grade != *filter.Grade {
			continue
		}
		if filter.Verified != nil && s.IsVerified != *filter.Verified {
			continue
		}
		if filter.Search != "" &&
			!strings.Contains(s.StudentName, filter.Search) &&
			!strings.Contains(s.ParentName, filter.Search) &&
			!strings.Contains(s.Email, filter.Search) {
			continue
		}
		all = append(all, *s)
	}
	total := int64(len(all))
	if offset > len(all) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (m *mockStudentRepo) ListByGrade(_ context.Context, grade int) ([]model.Student, error) {
	var result []model.Student
	for _, s := range m.students {
		if s.Grade == grade {
			result = append(result, *s)
		}
	}
	return result, nil
}

// ── Mock PendingSignupRepository ──

type mockPendingSignupRepo struct {
	signups map[string]*model.PendingSignup
	seq     int
}

func newMockPendingSignupRepo() *mockPendingSignupRepo {
	return &mockPendingSignupRepo{signups: make(map[string]*model.PendingSignup)}
}

func (m *mockPendingSignupRepo) Create(_ context.Context, signup *model.PendingSignup) error {
	if signup.Token == "" {
		m.seq++
		signup.Token = fmt.Sprintf("pending-%d", m.seq)
	}
	m.signups[signup.Token] = signup
	return nil
}

func (m *mockPendingSignupRepo) GetByToken(_ context.Context, token string) (*model.PendingSignup, error) {
	if p, ok := m.signups[token]; ok {
		return p, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockPendingSignupRepo) Delete(_ context.Context, token string) error {
	delete(m.signups, token)
	return nil
}

func (m *mockPendingSignupRepo) DeleteByEmail(_ context.Context, email string) error {
	for token, p := range m.signups {
		if p.Email == email {
			delete(m.signups, token)
		}
	}
	return nil
}

func (m *mockPendingSignupRepo) DeleteExpired(_ context.Context, before time.Time) (int64, error) {
	var n int64
	for token, p := range m.signups {
		if p.ExpiresAt.Before(before) {
			delete(m.signups, token)
			n++
		}
	}
	return n, nil
}

// ── Mock BookingRepository ──

type mockBookingRepo struct {
	bookings map[string]*model.DemoBooking
	seq      int
}

func newMockBookingRepo() *mockBookingRepo {
	return &mockBookingRepo{bookings: make(map[string]*model.DemoBooking)}
}

func (m *mockBookingRepo) Create(_ context.Context, booking *model.DemoBooking) error {
	// 模拟 (booking_date, booking_time, timezone) 唯一约束
	for _, b := range m.bookings {
		if b.BookingDate == booking.BookingDate &&
			b.BookingTime == booking.BookingTime &&
			b.Timezone == booking.Timezone {
			return gorm.ErrDuplicatedKey
		}
	}
	if booking.BookingID == "" {
		m.seq++
		booking.BookingID = fmt.Sprintf("booking-%d", m.seq)
	}
	booking.CreatedAt = time.Now()
	m.bookings[booking.BookingID] = booking
	return nil
}

func (m *mockBookingRepo) GetByID(_ context.Context, id string) (*model.DemoBooking, error) {
	if b, ok := m.bookings[id]; ok {
		return b, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockBookingRepo) ListByDate(_ context.Context, date string) ([]model.DemoBooking, error) {
	var result []model.DemoBooking
	for _, b := range m.bookings {
		if b.BookingDate == date {
			result = append(result, *b)
		}
	}
	return result, nil
}

func (m *mockBookingRepo) List(_ context.Context, filter repository.BookingFilter, offset, limit int) ([]model.DemoBooking, int64, error) {
	var all []model.DemoBooking
	for _, b := range m.bookings {
		if filter.Date != "" && b.BookingDate != filter.Date {
			continue
		}
		if filter.Confirmed != nil && b.IsConfirmed != *filter.Confirmed {
			continue
		}
		all = append(all, *b)
	}
	total := int64(len(all))
	if offset > len(all) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (m *mockBookingRepo) Confirm(_ context.Context, id string) error {
	if b, ok := m.bookings[id]; ok {
		b.IsConfirmed = true
		return nil
	}
	return gorm.ErrRecordNotFound
}

// ── Mock MaterialRepository ──

type mockMaterialRepo struct {
	materials   map[string]*model.StudyMaterial
	assignments map[string]*model.StudentMaterial
	seq         int
}

func newMockMaterialRepo() *mockMaterialRepo {
	return &mockMaterialRepo{
		materials:   make(map[string]*model.StudyMaterial),
		assignments: make(map[string]*model.StudentMaterial),
	}
}

func (m *mockMaterialRepo) Create(_ context.Context, material *model.StudyMaterial) error {
	if material.MaterialID == "" {
		m.seq++
		material.MaterialID = fmt.Sprintf("material-%d", m.seq)
	}
	material.CreatedAt = time.Now()
	m.materials[material.MaterialID] = material
	return nil
}

func (m *mockMaterialRepo) GetByID(_ context.Context, id string) (*model.StudyMaterial, error) {
	if mat, ok := m.materials[id]; ok {
		return mat, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockMaterialRepo) Update(_ context.Context, material *model.StudyMaterial) error {
	m.materials[material.MaterialID] = material
	return nil
}

func (m *mockMaterialRepo) Delete(_ context.Context, id string) error {
	delete(m.materials, id)
	return nil
}

func (m *mockMaterialRepo) List(_ context.Context, filter repository.MaterialFilter, offset, limit int) ([]model.StudyMaterial, int64, error) {
	var all []model.StudyMaterial
	for _, mat := range m.materials {
		if filter.Subject != "" && mat.Subject != filter.Subject {
			continue
		}
		if filter.Grade != nil && !mat.Grades.Contains(*filter.Grade) {
			continue
		}
		if filter.Topic != "" && !strings.Contains(mat.Topic, filter.Topic) {
			continue
		}
		all = append(all, *mat)
	}
	total := int64(len(all))
	if offset > len(all) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (m *mockMaterialRepo) ListTopics(_ context.Context, subject string) ([]repository.TopicPair, error) {
	seen := make(map[string]bool)
	var pairs []repository.TopicPair
	for _, mat := range m.materials {
		if subject != "" && mat.Subject != subject {
			continue
		}
		key := mat.Topic + "|" + mat.SubTopic
		if seen[key] {
			continue
		}
		seen[key] = true
		pairs = append(pairs, repository.TopicPair{Topic: mat.Topic, SubTopic: mat.SubTopic})
	}
	return pairs, nil
}

func (m *mockMaterialRepo) Assign(_ context.Context, assignment *model.StudentMaterial) error {
	// 模拟 (student_id, material_id) 唯一约束
	for _, a := range m.assignments {
		if a.StudentID == assignment.StudentID && a.MaterialID == assignment.MaterialID {
			return gorm.ErrDuplicatedKey
		}
	}
	if assignment.StudentMaterialID == "" {
		m.seq++
		assignment.StudentMaterialID = fmt.Sprintf("sm-%d", m.seq)
	}
	assignment.AssignedAt = time.Now()
	m.assignments[assignment.StudentMaterialID] = assignment
	return nil
}

func (m *mockMaterialRepo) GetAssignment(_ context.Context, studentID, materialID string) (*model.StudentMaterial, error) {
	for _, a := range m.assignments {
		if a.StudentID == studentID && a.MaterialID == materialID {
			return a, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockMaterialRepo) ListByStudent(_ context.Context, studentID string) ([]model.StudentMaterial, error) {
	var result []model.StudentMaterial
	for _, a := range m.assignments {
		if a.StudentID == studentID {
			item := *a
			if mat, ok := m.materials[a.MaterialID]; ok {
				item.Material = mat
			}
			result = append(result, item)
		}
	}
	return result, nil
}

func (m *mockMaterialRepo) RemoveAssignment(_ context.Context, id string) error {
	delete(m.assignments, id)
	return nil
}

func (m *mockMaterialRepo) UpdateAssignment(_ context.Context, assignment *model.StudentMaterial) error {
	m.assignments[assignment.StudentMaterialID] = assignment
	return nil
}

// ── Mock EventRepository ──

type mockEventRepo struct {
	events map[string]*model.StudentEvent
	seq    int
}

func newMockEventRepo() *mockEventRepo {
	return &mockEventRepo{events: make(map[string]*model.StudentEvent)}
}

func (m *mockEventRepo) Create(_ context.Context, event *model.StudentEvent) error {
	if event.EventID == "" {
		m.seq++
		event.EventID = fmt.Sprintf("event-%d", m.seq)
	}
	event.CreatedAt = time.Now()
	m.events[event.EventID] = event
	return nil
}

func (m *mockEventRepo) GetByID(_ context.Context, id string) (*model.StudentEvent, error) {
	if e, ok := m.events[id]; ok {
		return e, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockEventRepo) Update(_ context.Context, event *model.StudentEvent) error {
	m.events[event.EventID] = event
	return nil
}

func (m *mockEventRepo) Delete(_ context.Context, id string) error {
	delete(m.events, id)
	return nil
}

func (m *mockEventRepo) ListByStudent(_ context.Context, studentID string) ([]model.StudentEvent, error) {
	var result []model.StudentEvent
	for _, e := range m.events {
		if e.StudentID == studentID {
			result = append(result, *e)
		}
	}
	return result, nil
}

func (m *mockEventRepo) ListByStudentMonth(_ context.Context, studentID string, year, month int) ([]model.StudentEvent, error) {
	prefix := fmt.Sprintf("%04d-%02d", year, month)
	var result []model.StudentEvent
	for _, e := range m.events {
		if e.StudentID == studentID && strings.HasPrefix(e.EventDateIST, prefix) {
			result = append(result, *e)
		}
	}
	return result, nil
}

// ── Mock TestRepository ──

type mockTestRepo struct {
	tests map[string]*model.Test
	seq   int
}

func newMockTestRepo() *mockTestRepo {
	return &mockTestRepo{tests: make(map[string]*model.Test)}
}

func (m *mockTestRepo) assignIDs(test *model.Test) {
	for qi := range test.Questions {
		q := &test.Questions[qi]
		if q.QuestionID == "" {
			m.seq++
			q.QuestionID = fmt.Sprintf("q-%d", m.seq)
		}
		q.TestID = test.TestID
		for oi := range q.Options {
			o := &q.Options[oi]
			if o.OptionID == "" {
				m.seq++
				o.OptionID = fmt.Sprintf("opt-%d", m.seq)
			}
			o.QuestionID = q.QuestionID
		}
	}
}

func (m *mockTestRepo) CreateWithQuestions(_ context.Context, test *model.Test) error {
	if test.TestID == "" {
		m.seq++
		test.TestID = fmt.Sprintf("test-%d", m.seq)
	}
	test.CreatedAt = time.Now()
	m.assignIDs(test)
	m.tests[test.TestID] = test
	return nil
}

func (m *mockTestRepo) GetByID(_ context.Context, id string) (*model.Test, error) {
	if t, ok := m.tests[id]; ok {
		return t, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockTestRepo) GetWithQuestions(_ context.Context, id string) (*model.Test, error) {
	if t, ok := m.tests[id]; ok {
		return t, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockTestRepo) Update(_ context.Context, test *model.Test) error {
	if existing, ok := m.tests[test.TestID]; ok {
		test.Questions = existing.Questions
	}
	m.tests[test.TestID] = test
	return nil
}

func (m *mockTestRepo) ReplaceQuestions(_ context.Context, testID string, questions []model.Question) error {
	t, ok := m.tests[testID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	t.Questions = questions
	m.assignIDs(t)
	return nil
}

func (m *mockTestRepo) Delete(_ context.Context, id string) error {
	delete(m.tests, id)
	return nil
}

func (m *mockTestRepo) List(_ context.Context, filter repository.TestFilter, offset, limit int) ([]model.Test, int64, error) {
	var all []model.Test
	for _, t := range m.tests {
		if filter.Subject != "" && t.Subject != filter.Subject {
			continue
		}
		if filter.Grade != nil && (t.Grade == nil || *t.Grade != *filter.Grade) {
			continue
		}
		if filter.Search != "" && !strings.Contains(t.Name, filter.Search) {
			continue
		}
		all = append(all, *t)
	}
	total := int64(len(all))
	if offset > len(all) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

// ── Mock AssignmentRepository ──

type mockAssignmentRepo struct {
	assignments map[string]*model.AssignedTest
	answers     map[string][]model.StudentAnswer
	tests       *mockTestRepo
	students    *mockStudentRepo
	seq         int
}

func newMockAssignmentRepo(tests *mockTestRepo, students *mockStudentRepo) *mockAssignmentRepo {
	return &mockAssignmentRepo{
		assignments: make(map[string]*model.AssignedTest),
		answers:     make(map[string][]model.StudentAnswer),
		tests:       tests,
		students:    students,
	}
}

func (m *mockAssignmentRepo) Create(_ context.Context, assignment *model.AssignedTest) error {
	// 模拟 (test_id, student_id) 唯一约束
	for _, a := range m.assignments {
		if a.TestID == assignment.TestID && a.StudentID == assignment.StudentID {
			return gorm.ErrDuplicatedKey
		}
	}
	if assignment.AssignmentID == "" {
		m.seq++
		assignment.AssignmentID = fmt.Sprintf("assign-%d", m.seq)
	}
	assignment.AssignedAt = time.Now()
	m.assignments[assignment.AssignmentID] = assignment
	return nil
}

func (m *mockAssignmentRepo) withAssociations(a *model.AssignedTest) *model.AssignedTest {
	item := *a
	if m.tests != nil {
		if t, ok := m.tests.tests[a.TestID]; ok {
			item.Test = t
		}
	}
	if m.students != nil {
		if s, ok := m.students.students[a.StudentID]; ok {
			item.Student = s
		}
	}
	return &item
}

func (m *mockAssignmentRepo) GetByID(_ context.Context, id string) (*model.AssignedTest, error) {
	if a, ok := m.assignments[id]; ok {
		return m.withAssociations(a), nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAssignmentRepo) GetByTestAndStudent(_ context.Context, testID, studentID string) (*model.AssignedTest, error) {
	for _, a := range m.assignments {
		if a.TestID == testID && a.StudentID == studentID {
			return m.withAssociations(a), nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAssignmentRepo) ListByStudent(_ context.Context, studentID string) ([]model.AssignedTest, error) {
	var result []model.AssignedTest
	for _, a := range m.assignments {
		if a.StudentID == studentID {
			result = append(result, *m.withAssociations(a))
		}
	}
	return result, nil
}

func (m *mockAssignmentRepo) ListByTest(_ context.Context, testID string) ([]model.AssignedTest, error) {
	var result []model.AssignedTest
	for _, a := range m.assignments {
		if a.TestID == testID {
			result = append(result, *m.withAssociations(a))
		}
	}
	return result, nil
}

func (m *mockAssignmentRepo) ListStudentIDsByTest(_ context.Context, testID string) ([]string, error) {
	var ids []string
	for _, a := range m.assignments {
		if a.TestID == testID {
			ids = append(ids, a.StudentID)
		}
	}
	return ids, nil
}

func (m *mockAssignmentRepo) UpdateValidUntil(_ context.Context, id string, validUntil string) error {
	if a, ok := m.assignments[id]; ok {
		a.ValidUntil = &validUntil
		return nil
	}
	return gorm.ErrRecordNotFound
}

func (m *mockAssignmentRepo) Delete(_ context.Context, id string) error {
	delete(m.assignments, id)
	delete(m.answers, id)
	return nil
}

func (m *mockAssignmentRepo) SubmitResult(_ context.Context, assignment *model.AssignedTest, answers []model.StudentAnswer) error {
	stored, ok := m.assignments[assignment.AssignmentID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	now := time.Now()
	stored.Completed = true
	stored.CompletedAt = &now
	stored.Score = assignment.Score
	stored.StudentFeedback = assignment.StudentFeedback
	m.answers[assignment.AssignmentID] = answers
	return nil
}

func (m *mockAssignmentRepo) ListAnswers(_ context.Context, assignmentID string) ([]model.StudentAnswer, error) {
	return m.answers[assignmentID], nil
}

// ── 聚合辅助 ──

type mockRepos struct {
	admin         *mockAdminRepo
	student       *mockStudentRepo
	pendingSignup *mockPendingSignupRepo
	booking       *mockBookingRepo
	material      *mockMaterialRepo
	event         *mockEventRepo
	test          *mockTestRepo
	assignment    *mockAssignmentRepo
}

func newMockRepository() (*repository.Repository, *mockRepos) {
	mocks := &mockRepos{
		admin:         newMockAdminRepo(),
		student:       newMockStudentRepo(),
		pendingSignup: newMockPendingSignupRepo(),
		booking:       newMockBookingRepo(),
		material:      newMockMaterialRepo(),
		event:         newMockEventRepo(),
		test:          newMockTestRepo(),
	}
	mocks.assignment = newMockAssignmentRepo(mocks.test, mocks.student)

	repo := &repository.Repository{
		Admin:         mocks.admin,
		Student:       mocks.student,
		PendingSignup: mocks.pendingSignup,
		Booking:       mocks.booking,
		Material:      mocks.material,
		Event:         mocks.event,
		Test:          mocks.test,
		Assignment:    mocks.assignment,
	}
	return repo, mocks
}
