package contract

import "github.com/alexanderramin/curricula/internal/app"

const SystemActor = app.SystemActor

type ScheduleCourseRequest = app.ScheduleCourseRequest

func NewScheduleCourseRequest(courseID string) ScheduleCourseRequest {
	return app.NewScheduleCourseRequest(courseID)
}

type TopicScheduleView = app.TopicScheduleView

type CourseScheduleResponse = app.CourseScheduleResponse

type ScheduleLearningPathRequest = app.ScheduleLearningPathRequest

func NewScheduleLearningPathRequest(pathID string) ScheduleLearningPathRequest {
	return app.NewScheduleLearningPathRequest(pathID)
}

type LearningPathScheduleResponse = app.LearningPathScheduleResponse

type ImportResult = app.ImportResult
