package repositories

import "context"

// Repository aggregates all entity repositories behind one handle. It is
// constructed once at process start and passed into every service; nothing
// reaches for a global connection.
type Repository interface {
	// Identity domain
	User() UserRepository
	Teacher() TeacherRepository
	Student() StudentRepository

	// Catalog domain
	Course() CourseRepository

	// Enrollment ledger
	Enrollment() EnrollmentRepository

	// Activity trail
	Activity() ActivityRepository

	// WithTransaction runs fn against a repository bound to one database
	// transaction. Every multi-row write goes through here.
	WithTransaction(ctx context.Context, fn func(Repository) error) error

	// Health check
	Ping(ctx context.Context) error

	// Close connections
	Close() error
}

// RepositoryManager interface for managing repository lifecycle
type RepositoryManager interface {
	Initialize() error
	GetRepository() Repository
	HealthCheck(ctx context.Context) error
	Shutdown(ctx context.Context) error
}
