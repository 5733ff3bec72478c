package repository

import "github.com/alexanderramin/curricula/internal/db"

// Set bundles the repositories a use case needs, all bound to one DBTX.
type Set struct {
	Topics      TopicRepo
	Courses     CourseRepo
	Paths       LearningPathRepo
	Enrollments EnrollmentRepo
	Audit       AuditRepo
}

// NewSQLiteSet binds every repository to conn, typically the tx handed out by
// a UnitOfWork.
func NewSQLiteSet(conn db.DBTX) Set {
	return Set{
		Topics:      NewSQLiteTopicRepo(conn),
		Courses:     NewSQLiteCourseRepo(conn),
		Paths:       NewSQLiteLearningPathRepo(conn),
		Enrollments: NewSQLiteEnrollmentRepo(conn),
		Audit:       NewSQLiteAuditRepo(conn),
	}
}
