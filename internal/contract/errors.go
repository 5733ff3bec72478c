package contract

import "github.com/alexanderramin/curricula/internal/app"

type ScheduleErrorCode = app.ScheduleErrorCode

const (
	ErrBadRequest       ScheduleErrorCode = app.ErrBadRequest
	ErrExternalService  ScheduleErrorCode = app.ErrExternalService
	ErrCyclicDependency ScheduleErrorCode = app.ErrCyclicDependency
	ErrNotFound         ScheduleErrorCode = app.ErrNotFound
)

type ScheduleError = app.ScheduleError

func CodeOf(err error) (ScheduleErrorCode, bool) {
	return app.CodeOf(err)
}
