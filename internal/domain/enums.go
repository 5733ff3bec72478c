package domain

type TimeUnit string

const (
	TimeUnitHours TimeUnit = "hours"
	TimeUnitDays  TimeUnit = "days"
)

// ValidTimeUnits is the canonical set of accepted time unit strings.
var ValidTimeUnits = map[string]bool{
	"hours": true, "days": true,
}

type EntityType string

const (
	EntityTopic        EntityType = "topic"
	EntityCourse       EntityType = "course"
	EntityLearningPath EntityType = "learning_path"
	EntityEnrollment   EntityType = "enrollment"
)

type AuditAction string

const (
	ActionScheduleRecalculated AuditAction = "schedule_recalculated"
	ActionDurationCascade      AuditAction = "duration_cascade"
	ActionDurationChanged      AuditAction = "duration_changed"
	ActionCatalogImported      AuditAction = "catalog_imported"
)

type EnrollmentStatus string

const (
	EnrollmentActive    EnrollmentStatus = "active"
	EnrollmentCompleted EnrollmentStatus = "completed"
	EnrollmentWithdrawn EnrollmentStatus = "withdrawn"
)

// ValidEnrollmentStatuses is the canonical set of accepted enrollment statuses.
var ValidEnrollmentStatuses = map[string]bool{
	"active": true, "completed": true, "withdrawn": true,
}
