package services

import (
	"context"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/edustack/lms-service/internal/models"
	"github.com/edustack/lms-service/internal/repositories"
)

// mockRepository is a hand-rolled Repository for service tests. Only the
// sub-repositories a test populates are usable; the rest stay nil.
type mockRepository struct {
	user         *fakeUserRepo
	course       *fakeCourseRepo
	enrollment   *fakeEnrollmentRepo
	assignment   *fakeAssignmentRepo
	quiz         *fakeQuizRepo
	notification *fakeNotificationRepo
	analytics    *fakeAnalyticsRepo

	inTx bool
}

func newMockRepository() *mockRepository {
	m := &mockRepository{
		user:         &fakeUserRepo{users: map[string]*models.User{}},
		course:       &fakeCourseRepo{courses: map[uint]*models.Course{}},
		enrollment:   &fakeEnrollmentRepo{byCourse: map[uint][]*models.Enrollment{}, byStudent: map[string][]*models.Enrollment{}},
		assignment:   &fakeAssignmentRepo{},
		quiz:         &fakeQuizRepo{},
		notification: &fakeNotificationRepo{},
		analytics:    &fakeAnalyticsRepo{},
	}
	m.quiz.repo = m
	return m
}

func (m *mockRepository) User() repositories.UserRepository                 { return m.user }
func (m *mockRepository) Course() repositories.CourseRepository             { return m.course }
func (m *mockRepository) Enrollment() repositories.EnrollmentRepository     { return m.enrollment }
func (m *mockRepository) Assignment() repositories.AssignmentRepository     { return m.assignment }
func (m *mockRepository) Submission() repositories.SubmissionRepository     { return nil }
func (m *mockRepository) Quiz() repositories.QuizRepository                 { return m.quiz }
func (m *mockRepository) Attendance() repositories.AttendanceRepository     { return nil }
func (m *mockRepository) Announcement() repositories.AnnouncementRepository { return nil }
func (m *mockRepository) Discussion() repositories.DiscussionRepository     { return nil }
func (m *mockRepository) Notification() repositories.NotificationRepository { return m.notification }
func (m *mockRepository) Analytics() repositories.AnalyticsRepository       { return m.analytics }
func (m *mockRepository) WithTransaction(ctx context.Context, fn func(repositories.Repository) error) error {
	m.inTx = true
	defer func() { m.inTx = false }()
	return fn(m)
}
func (m *mockRepository) Ping(ctx context.Context) error { return nil }
func (m *mockRepository) Close() error                   { return nil }

// ===== ENTITY FAKES =====

type fakeUserRepo struct {
	users map[string]*models.User
}

func (f *fakeUserRepo) Create(_ context.Context, user *models.User) error {
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id string) (*models.User, error) {
	if u, ok := f.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

type fakeCourseRepo struct {
	courses map[uint]*models.Course
}

func (f *fakeCourseRepo) Create(_ context.Context, course *models.Course) error {
	for _, c := range f.courses {
		if c.Code == course.Code {
			return gorm.ErrDuplicatedKey
		}
	}
	if course.ID == 0 {
		course.ID = uint(len(f.courses) + 1)
	}
	f.courses[course.ID] = course
	return nil
}

func (f *fakeCourseRepo) GetByID(_ context.Context, id uint) (*models.Course, error) {
	if c, ok := f.courses[id]; ok {
		return c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeCourseRepo) GetByCode(_ context.Context, code string) (*models.Course, error) {
	for _, c := range f.courses {
		if c.Code == code {
			return c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeCourseRepo) List(_ context.Context, filters repositories.CourseFilters) ([]*models.Course, error) {
	var out []*models.Course
	for _, c := range f.courses {
		if filters.TeacherID != nil && c.TeacherID != *filters.TeacherID {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

type fakeEnrollmentRepo struct {
	byCourse  map[uint][]*models.Enrollment
	byStudent map[string][]*models.Enrollment
}

func (f *fakeEnrollmentRepo) add(e *models.Enrollment) {
	f.byCourse[e.CourseID] = append(f.byCourse[e.CourseID], e)
	f.byStudent[e.UserID] = append(f.byStudent[e.UserID], e)
}

func (f *fakeEnrollmentRepo) Create(_ context.Context, enrollment *models.Enrollment) error {
	for _, e := range f.byCourse[enrollment.CourseID] {
		if e.UserID == enrollment.UserID {
			return gorm.ErrDuplicatedKey
		}
	}
	f.add(enrollment)
	return nil
}

func (f *fakeEnrollmentRepo) GetByUserAndCourse(_ context.Context, userID string, courseID uint) (*models.Enrollment, error) {
	for _, e := range f.byCourse[courseID] {
		if e.UserID == userID {
			return e, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeEnrollmentRepo) ListActiveByCourse(_ context.Context, courseID uint) ([]*models.Enrollment, error) {
	var out []*models.Enrollment
	for _, e := range f.byCourse[courseID] {
		if e.Status == models.EnrollmentActive {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeEnrollmentRepo) ListActiveByStudent(_ context.Context, studentID string) ([]*models.Enrollment, error) {
	var out []*models.Enrollment
	for _, e := range f.byStudent[studentID] {
		if e.Status == models.EnrollmentActive {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeEnrollmentRepo) CountActiveByCourse(ctx context.Context, courseID uint) (int64, error) {
	active, _ := f.ListActiveByCourse(ctx, courseID)
	return int64(len(active)), nil
}

type fakeAssignmentRepo struct {
	created []*models.Assignment
}

func (f *fakeAssignmentRepo) Create(_ context.Context, a *models.Assignment) error {
	if a.ID == 0 {
		a.ID = uint(len(f.created) + 1)
	}
	f.created = append(f.created, a)
	return nil
}

func (f *fakeAssignmentRepo) GetByID(_ context.Context, id uint) (*models.Assignment, error) {
	for _, a := range f.created {
		if a.ID == id {
			return a, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeAssignmentRepo) List(_ context.Context, filters repositories.AssignmentFilters) ([]*models.Assignment, error) {
	var out []*models.Assignment
	for _, a := range f.created {
		if filters.CourseID != nil && a.CourseID != *filters.CourseID {
			continue
		}
		if filters.TeacherID != nil && a.TeacherID != *filters.TeacherID {
			continue
		}
		if filters.IsPublished != nil && a.IsPublished != *filters.IsPublished {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

// fakeQuizRepo records whether Create ran inside WithTransaction via the
// owning mockRepository's inTx flag.
type fakeQuizRepo struct {
	repo        *mockRepository
	created     []*models.Quiz
	createdInTx bool
}

func (f *fakeQuizRepo) Create(_ context.Context, q *models.Quiz) error {
	f.createdInTx = f.repo.inTx
	if q.ID == 0 {
		q.ID = uint(len(f.created) + 1)
	}
	f.created = append(f.created, q)
	return nil
}

func (f *fakeQuizRepo) GetByID(_ context.Context, id uint) (*models.Quiz, error) {
	for _, q := range f.created {
		if q.ID == id {
			return q, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeQuizRepo) List(_ context.Context, filters repositories.QuizFilters) ([]*models.Quiz, error) {
	var out []*models.Quiz
	for _, q := range f.created {
		if filters.CourseID != nil && q.CourseID != *filters.CourseID {
			continue
		}
		if filters.TeacherID != nil && q.TeacherID != *filters.TeacherID {
			continue
		}
		if filters.IsPublished != nil && q.IsPublished != *filters.IsPublished {
			continue
		}
		out = append(out, q)
	}
	return out, nil
}

func (f *fakeQuizRepo) CreateAttempt(_ context.Context, _ *models.QuizAttempt) error { return nil }

// fakeNotificationRepo is safe for concurrent use: publish fan-out runs on
// its own goroutine, so tests read through snapshot.
type fakeNotificationRepo struct {
	mu          sync.Mutex
	created     []*models.Notification
	markReadErr error
}

func (f *fakeNotificationRepo) Create(_ context.Context, n *models.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, n)
	return nil
}

func (f *fakeNotificationRepo) CreateBatch(_ context.Context, ns []*models.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, ns...)
	return nil
}

func (f *fakeNotificationRepo) ListByUser(_ context.Context, userID string, _ repositories.NotificationFilters) ([]*models.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.Notification
	for _, n := range f.created {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out, nil
}

func (f *fakeNotificationRepo) MarkRead(_ context.Context, id uint, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.markReadErr != nil {
		return f.markReadErr
	}
	for _, n := range f.created {
		if n.ID == id && n.UserID == userID {
			n.IsRead = true
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (f *fakeNotificationRepo) snapshot() []*models.Notification {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*models.Notification, len(f.created))
	copy(out, f.created)
	return out
}

// fakeAnalyticsRepo serves canned entity slices. Per-student maps are keyed
// by student id; tests use a single course so the course id is not part of
// the key.
type fakeAnalyticsRepo struct {
	coursesByTeacher     []*models.Course
	assignmentsByTeacher []*models.Assignment
	gradesByTeacher      []*models.Grade
	submissionsByTeacher []*models.Submission
	announcements        []*models.Announcement

	submissionsByStudent map[string][]*models.Submission
	gradesByStudent      map[string][]*models.Grade
	attemptsByStudent    map[string][]*models.QuizAttempt
	attendanceByStudent  map[string][]*models.Attendance
	discussionPosts      []*models.DiscussionPost

	assignmentsByCourse []*models.Assignment
	submissionsByCourse []*models.Submission
	attemptsByCourse    []*models.QuizAttempt
	attendanceByCourse  []*models.Attendance
}

func (f *fakeAnalyticsRepo) CoursesByTeacher(_ context.Context, _ string) ([]*models.Course, error) {
	return f.coursesByTeacher, nil
}

func (f *fakeAnalyticsRepo) AssignmentsByTeacher(_ context.Context, _ string) ([]*models.Assignment, error) {
	return f.assignmentsByTeacher, nil
}

func (f *fakeAnalyticsRepo) GradesByTeacherSince(_ context.Context, _ string, since time.Time) ([]*models.Grade, error) {
	var out []*models.Grade
	for _, g := range f.gradesByTeacher {
		if !g.GradedAt.Before(since) {
			out = append(out, g)
		}
	}
	return out, nil
}

func (f *fakeAnalyticsRepo) SubmissionsByTeacher(_ context.Context, _ string) ([]*models.Submission, error) {
	return f.submissionsByTeacher, nil
}

func (f *fakeAnalyticsRepo) AnnouncementsByAuthorSince(_ context.Context, _ string, since time.Time) ([]*models.Announcement, error) {
	var out []*models.Announcement
	for _, a := range f.announcements {
		if !a.CreatedAt.Before(since) {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeAnalyticsRepo) SubmissionsByStudent(_ context.Context, studentID string) ([]*models.Submission, error) {
	return f.submissionsByStudent[studentID], nil
}

func (f *fakeAnalyticsRepo) GradesByStudentSince(_ context.Context, studentID string, since time.Time) ([]*models.Grade, error) {
	var out []*models.Grade
	for _, g := range f.gradesByStudent[studentID] {
		if !g.GradedAt.Before(since) {
			out = append(out, g)
		}
	}
	return out, nil
}

func (f *fakeAnalyticsRepo) GradesByStudent(_ context.Context, studentID string) ([]*models.Grade, error) {
	return f.gradesByStudent[studentID], nil
}

func (f *fakeAnalyticsRepo) QuizAttemptsByStudent(_ context.Context, studentID string) ([]*models.QuizAttempt, error) {
	return f.attemptsByStudent[studentID], nil
}

func (f *fakeAnalyticsRepo) AttendanceByStudent(_ context.Context, studentID string) ([]*models.Attendance, error) {
	return f.attendanceByStudent[studentID], nil
}

func (f *fakeAnalyticsRepo) DiscussionPostsByAuthorSince(_ context.Context, _ string, since time.Time) ([]*models.DiscussionPost, error) {
	var out []*models.DiscussionPost
	for _, p := range f.discussionPosts {
		if !p.CreatedAt.Before(since) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeAnalyticsRepo) AssignmentsByCourse(_ context.Context, _ uint) ([]*models.Assignment, error) {
	return f.assignmentsByCourse, nil
}

func (f *fakeAnalyticsRepo) SubmissionsByCourse(_ context.Context, _ uint) ([]*models.Submission, error) {
	return f.submissionsByCourse, nil
}

func (f *fakeAnalyticsRepo) QuizAttemptsByCourse(_ context.Context, _ uint) ([]*models.QuizAttempt, error) {
	return f.attemptsByCourse, nil
}

func (f *fakeAnalyticsRepo) AttendanceByCourse(_ context.Context, _ uint) ([]*models.Attendance, error) {
	return f.attendanceByCourse, nil
}

func (f *fakeAnalyticsRepo) SubmissionsByStudentAndCourse(_ context.Context, studentID string, _ uint) ([]*models.Submission, error) {
	return f.submissionsByStudent[studentID], nil
}

func (f *fakeAnalyticsRepo) QuizAttemptsByStudentAndCourse(_ context.Context, studentID string, _ uint) ([]*models.QuizAttempt, error) {
	return f.attemptsByStudent[studentID], nil
}

func (f *fakeAnalyticsRepo) AttendanceByStudentAndCourse(_ context.Context, studentID string, _ uint) ([]*models.Attendance, error) {
	return f.attendanceByStudent[studentID], nil
}

// ===== FIXTURE HELPERS =====

func floatPtr(v float64) *float64 { return &v }

func gradedSubmission(percentage float64) *models.Submission {
	return &models.Submission{
		Status: models.SubmissionGraded,
		Grade:  &models.Grade{Percentage: percentage, GradedAt: time.Now()},
	}
}

func completedAttempt(score *float64, maxScore float64) *models.QuizAttempt {
	return &models.QuizAttempt{
		Status:    models.AttemptCompleted,
		Score:     score,
		MaxScore:  maxScore,
		StartedAt: time.Now(),
	}
}

func attendanceRecord(status models.AttendanceStatus) *models.Attendance {
	return &models.Attendance{Status: status, Date: time.Now()}
}
