package services

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/SAP-F-2025/course-service/internal/auth"
	"github.com/SAP-F-2025/course-service/internal/config"
	"github.com/SAP-F-2025/course-service/internal/events"
	"github.com/SAP-F-2025/course-service/internal/models"
	"github.com/SAP-F-2025/course-service/internal/repositories"
	"github.com/SAP-F-2025/course-service/internal/validator"
)

// fakeRepository is an in-memory Repository used by the service tests. It
// reproduces the two storage behaviors the services depend on: not-found and
// duplicate-key errors, and rollback of everything written inside a failed
// WithTransaction.
type fakeRepository struct {
	mu   sync.Mutex
	txMu sync.Mutex

	users       map[uint]*models.User
	teachers    map[uint]*models.Teacher
	students    map[uint]*models.Student
	courses     map[uint]*models.Course
	enrollments map[uint]*models.Enrollment
	activities  map[uint]*models.ActivityLog

	nextID uint
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{
		users:       make(map[uint]*models.User),
		teachers:    make(map[uint]*models.Teacher),
		students:    make(map[uint]*models.Student),
		courses:     make(map[uint]*models.Course),
		enrollments: make(map[uint]*models.Enrollment),
		activities:  make(map[uint]*models.ActivityLog),
	}
}

func (f *fakeRepository) id() uint {
	f.nextID++
	return f.nextID
}

func (f *fakeRepository) User() repositories.UserRepository             { return &fakeUserRepo{f} }
func (f *fakeRepository) Teacher() repositories.TeacherRepository       { return &fakeTeacherRepo{f} }
func (f *fakeRepository) Student() repositories.StudentRepository       { return &fakeStudentRepo{f} }
func (f *fakeRepository) Course() repositories.CourseRepository         { return &fakeCourseRepo{f} }
func (f *fakeRepository) Enrollment() repositories.EnrollmentRepository { return &fakeEnrollmentRepo{f} }
func (f *fakeRepository) Activity() repositories.ActivityRepository     { return &fakeActivityRepo{f} }

func (f *fakeRepository) Ping(ctx context.Context) error { return nil }
func (f *fakeRepository) Close() error                   { return nil }

// WithTransaction serializes transactions and restores the pre-transaction
// state when fn fails, mirroring a database rollback.
func (f *fakeRepository) WithTransaction(ctx context.Context, fn func(repositories.Repository) error) error {
	f.txMu.Lock()
	defer f.txMu.Unlock()

	snapshot := f.snapshot()
	if err := fn(f); err != nil {
		f.restore(snapshot)
		return err
	}
	return nil
}

type fakeState struct {
	users       map[uint]*models.User
	teachers    map[uint]*models.Teacher
	students    map[uint]*models.Student
	courses     map[uint]*models.Course
	enrollments map[uint]*models.Enrollment
	activities  map[uint]*models.ActivityLog
	nextID      uint
}

func (f *fakeRepository) snapshot() fakeState {
	f.mu.Lock()
	defer f.mu.Unlock()

	s := fakeState{
		users:       make(map[uint]*models.User, len(f.users)),
		teachers:    make(map[uint]*models.Teacher, len(f.teachers)),
		students:    make(map[uint]*models.Student, len(f.students)),
		courses:     make(map[uint]*models.Course, len(f.courses)),
		enrollments: make(map[uint]*models.Enrollment, len(f.enrollments)),
		activities:  make(map[uint]*models.ActivityLog, len(f.activities)),
		nextID:      f.nextID,
	}
	for k, v := range f.users {
		c := *v
		s.users[k] = &c
	}
	for k, v := range f.teachers {
		c := *v
		s.teachers[k] = &c
	}
	for k, v := range f.students {
		c := *v
		s.students[k] = &c
	}
	for k, v := range f.courses {
		c := *v
		s.courses[k] = &c
	}
	for k, v := range f.enrollments {
		c := *v
		s.enrollments[k] = &c
	}
	for k, v := range f.activities {
		c := *v
		s.activities[k] = &c
	}
	return s
}

func (f *fakeRepository) restore(s fakeState) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users = s.users
	f.teachers = s.teachers
	f.students = s.students
	f.courses = s.courses
	f.enrollments = s.enrollments
	f.activities = s.activities
	f.nextID = s.nextID
}

// ===== USER =====

type fakeUserRepo struct{ f *fakeRepository }

func (r *fakeUserRepo) Create(ctx context.Context, tx *gorm.DB, user *models.User) error {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	for _, u := range r.f.users {
		if u.Email == user.Email {
			return gorm.ErrDuplicatedKey
		}
		if user.Username != nil && u.Username != nil && *u.Username == *user.Username {
			return gorm.ErrDuplicatedKey
		}
	}
	user.ID = r.f.id()
	c := *user
	r.f.users[user.ID] = &c
	return nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.User, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	if u, ok := r.f.users[id]; ok {
		c := *u
		return &c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, tx *gorm.DB, email string) (*models.User, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	for _, u := range r.f.users {
		if u.Email == email {
			c := *u
			return &c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) Update(ctx context.Context, tx *gorm.DB, user *models.User) error {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	if _, ok := r.f.users[user.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	c := *user
	r.f.users[user.ID] = &c
	return nil
}

func (r *fakeUserRepo) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	delete(r.f.users, id)
	return nil
}

func (r *fakeUserRepo) ExistsByEmail(ctx context.Context, tx *gorm.DB, email string) (bool, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	for _, u := range r.f.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeUserRepo) ExistsByUsername(ctx context.Context, tx *gorm.DB, username string) (bool, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	for _, u := range r.f.users {
		if u.Username != nil && *u.Username == username {
			return true, nil
		}
	}
	return false, nil
}

// ===== TEACHER =====

type fakeTeacherRepo struct{ f *fakeRepository }

func (r *fakeTeacherRepo) Create(ctx context.Context, tx *gorm.DB, teacher *models.Teacher) error {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	teacher.ID = r.f.id()
	c := *teacher
	r.f.teachers[teacher.ID] = &c
	return nil
}

func (r *fakeTeacherRepo) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Teacher, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	if t, ok := r.f.teachers[id]; ok {
		c := *t
		return &c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeTeacherRepo) GetByUserID(ctx context.Context, tx *gorm.DB, userID uint) (*models.Teacher, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	for _, t := range r.f.teachers {
		if t.UserID == userID {
			c := *t
			return &c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeTeacherRepo) Update(ctx context.Context, tx *gorm.DB, teacher *models.Teacher) error {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	if _, ok := r.f.teachers[teacher.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	c := *teacher
	r.f.teachers[teacher.ID] = &c
	return nil
}

func (r *fakeTeacherRepo) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	delete(r.f.teachers, id)
	return nil
}

// ===== STUDENT =====

type fakeStudentRepo struct{ f *fakeRepository }

func (r *fakeStudentRepo) Create(ctx context.Context, tx *gorm.DB, student *models.Student) error {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	student.ID = r.f.id()
	c := *student
	r.f.students[student.ID] = &c
	return nil
}

func (r *fakeStudentRepo) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Student, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	if s, ok := r.f.students[id]; ok {
		c := *s
		return &c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeStudentRepo) GetByUserID(ctx context.Context, tx *gorm.DB, userID uint) (*models.Student, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	for _, s := range r.f.students {
		if s.UserID == userID {
			c := *s
			return &c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeStudentRepo) Update(ctx context.Context, tx *gorm.DB, student *models.Student) error {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	if _, ok := r.f.students[student.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	c := *student
	r.f.students[student.ID] = &c
	return nil
}

func (r *fakeStudentRepo) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	delete(r.f.students, id)
	return nil
}

// ===== COURSE =====

type fakeCourseRepo struct{ f *fakeRepository }

func (r *fakeCourseRepo) Create(ctx context.Context, tx *gorm.DB, course *models.Course) error {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	course.ID = r.f.id()
	c := *course
	r.f.courses[course.ID] = &c
	return nil
}

func (r *fakeCourseRepo) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Course, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	if c, ok := r.f.courses[id]; ok {
		cc := *c
		return &cc, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeCourseRepo) Update(ctx context.Context, tx *gorm.DB, course *models.Course) error {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	if _, ok := r.f.courses[course.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	c := *course
	r.f.courses[course.ID] = &c
	return nil
}

func (r *fakeCourseRepo) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	delete(r.f.courses, id)
	return nil
}

func (r *fakeCourseRepo) List(ctx context.Context, tx *gorm.DB, filters repositories.CourseFilters) ([]*models.Course, int64, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	var out []*models.Course
	for _, c := range r.f.courses {
		if filters.TeacherID != nil && c.TeacherID != *filters.TeacherID {
			continue
		}
		if filters.Query != "" &&
			!strings.Contains(strings.ToLower(c.Name), strings.ToLower(filters.Query)) &&
			!strings.Contains(strings.ToLower(c.Code), strings.ToLower(filters.Query)) {
			continue
		}
		cc := *c
		out = append(out, &cc)
	}
	return out, int64(len(out)), nil
}

func (r *fakeCourseRepo) ListByTeacher(ctx context.Context, tx *gorm.DB, teacherID uint) ([]*models.Course, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	var out []*models.Course
	for _, c := range r.f.courses {
		if c.TeacherID == teacherID {
			cc := *c
			out = append(out, &cc)
		}
	}
	return out, nil
}

func (r *fakeCourseRepo) ListAvailableForStudent(ctx context.Context, tx *gorm.DB, studentID uint) ([]*models.Course, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	enrolled := make(map[uint]bool)
	for _, e := range r.f.enrollments {
		if e.StudentID == studentID {
			enrolled[e.CourseID] = true
		}
	}
	var out []*models.Course
	for _, c := range r.f.courses {
		if !enrolled[c.ID] {
			cc := *c
			out = append(out, &cc)
		}
	}
	return out, nil
}

func (r *fakeCourseRepo) ListEnrolledByStudent(ctx context.Context, tx *gorm.DB, studentID uint) ([]*models.Course, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	var out []*models.Course
	for _, e := range r.f.enrollments {
		if e.StudentID == studentID {
			if c, ok := r.f.courses[e.CourseID]; ok {
				cc := *c
				out = append(out, &cc)
			}
		}
	}
	return out, nil
}

// ===== ENROLLMENT =====

type fakeEnrollmentRepo struct{ f *fakeRepository }

func (r *fakeEnrollmentRepo) Create(ctx context.Context, tx *gorm.DB, enrollment *models.Enrollment) error {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	for _, e := range r.f.enrollments {
		if e.StudentID == enrollment.StudentID && e.CourseID == enrollment.CourseID {
			return gorm.ErrDuplicatedKey
		}
	}
	enrollment.ID = r.f.id()
	c := *enrollment
	r.f.enrollments[enrollment.ID] = &c
	return nil
}

func (r *fakeEnrollmentRepo) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	if _, ok := r.f.enrollments[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.f.enrollments, id)
	return nil
}

func (r *fakeEnrollmentRepo) GetByStudentAndCourse(ctx context.Context, tx *gorm.DB, studentID, courseID uint) (*models.Enrollment, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	for _, e := range r.f.enrollments {
		if e.StudentID == studentID && e.CourseID == courseID {
			c := *e
			return &c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeEnrollmentRepo) ListByStudent(ctx context.Context, tx *gorm.DB, studentID uint) ([]*models.Enrollment, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	var out []*models.Enrollment
	for _, e := range r.f.enrollments {
		if e.StudentID == studentID {
			c := *e
			out = append(out, &c)
		}
	}
	return out, nil
}

func (r *fakeEnrollmentRepo) ListStudentsByCourse(ctx context.Context, tx *gorm.DB, courseID uint) ([]*models.Student, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	var out []*models.Student
	for _, e := range r.f.enrollments {
		if e.CourseID != courseID {
			continue
		}
		if s, ok := r.f.students[e.StudentID]; ok {
			c := *s
			if u, ok := r.f.users[c.UserID]; ok {
				c.User = *u
			}
			out = append(out, &c)
		}
	}
	return out, nil
}

func (r *fakeEnrollmentRepo) CountByCourse(ctx context.Context, tx *gorm.DB, courseID uint) (int64, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	var n int64
	for _, e := range r.f.enrollments {
		if e.CourseID == courseID {
			n++
		}
	}
	return n, nil
}

func (r *fakeEnrollmentRepo) DeleteByCourse(ctx context.Context, tx *gorm.DB, courseID uint) error {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	for id, e := range r.f.enrollments {
		if e.CourseID == courseID {
			delete(r.f.enrollments, id)
		}
	}
	return nil
}

func (r *fakeEnrollmentRepo) DeleteByStudent(ctx context.Context, tx *gorm.DB, studentID uint) error {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	for id, e := range r.f.enrollments {
		if e.StudentID == studentID {
			delete(r.f.enrollments, id)
		}
	}
	return nil
}

// ===== ACTIVITY =====

type fakeActivityRepo struct{ f *fakeRepository }

func (r *fakeActivityRepo) Create(ctx context.Context, tx *gorm.DB, entry *models.ActivityLog) error {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	entry.ID = r.f.id()
	c := *entry
	r.f.activities[entry.ID] = &c
	return nil
}

func (r *fakeActivityRepo) ListByUser(ctx context.Context, tx *gorm.DB, userID uint, filters repositories.ActivityFilters) ([]*models.ActivityLog, int64, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	var out []*models.ActivityLog
	for _, a := range r.f.activities {
		if a.UserID != userID {
			continue
		}
		if filters.Action != nil && a.Action != *filters.Action {
			continue
		}
		c := *a
		out = append(out, &c)
	}
	return out, int64(len(out)), nil
}

// ===== TEST ENVIRONMENT =====

type testEnv struct {
	repo      *fakeRepository
	publisher *events.MockEventPublisher
	validator *validator.Validator
	logger    *slog.Logger

	auth       AuthService
	profile    ProfileService
	course     CourseService
	enrollment EnrollmentService
}

func newTestEnv() *testEnv {
	repo := newFakeRepository()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	v := validator.New()
	publisher := events.NewMockEventPublisher(logger)
	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:    "test-secret",
		Issuer:    "course-service-test",
		AccessTTL: time.Hour,
	})
	revocation := auth.NewRevocationStore(nil)

	return &testEnv{
		repo:       repo,
		publisher:  publisher,
		validator:  v,
		logger:     logger,
		auth:       NewAuthService(repo, logger, v, jwtService, revocation, publisher),
		profile:    NewProfileService(repo, logger, v),
		course:     NewCourseService(repo, logger, v, publisher),
		enrollment: NewEnrollmentService(repo, logger, publisher),
	}
}

// seedTeacher registers a teacher account directly against the fake store and
// returns the actor plus profile ID.
func (env *testEnv) seedTeacher(email, name string) (models.Actor, uint) {
	user := &models.User{Email: email, PasswordHash: "x", Role: models.RoleTeacher, Name: name}
	_ = env.repo.User().Create(context.Background(), nil, user)
	teacher := &models.Teacher{UserID: user.ID}
	_ = env.repo.Teacher().Create(context.Background(), nil, teacher)
	return models.Actor{UserID: user.ID, Role: models.RoleTeacher}, teacher.ID
}

func (env *testEnv) seedStudent(email, name string) (models.Actor, uint) {
	user := &models.User{Email: email, PasswordHash: "x", Role: models.RoleStudent, Name: name}
	_ = env.repo.User().Create(context.Background(), nil, user)
	student := &models.Student{UserID: user.ID}
	_ = env.repo.Student().Create(context.Background(), nil, student)
	return models.Actor{UserID: user.ID, Role: models.RoleStudent}, student.ID
}

func (env *testEnv) seedCourse(teacherID uint, name, code string) *models.Course {
	course := &models.Course{Name: name, Code: code, Description: name + " description", TeacherID: teacherID}
	_ = env.repo.Course().Create(context.Background(), nil, course)
	return course
}
