package cli

import (
	"github.com/alexanderramin/curricula/internal/calendar"
	"github.com/alexanderramin/curricula/internal/contract"
	"github.com/alexanderramin/curricula/internal/service"
	"github.com/spf13/cobra"
)

// App holds references to all service interfaces used by CLI commands.
type App struct {
	Topics      service.TopicService
	Courses     service.CourseService
	Paths       service.LearningPathService
	Enrollments service.EnrollmentService
	Schedule    service.ScheduleService
	Audit       service.AuditService
	Import      service.ImportService
	Calendar    *calendar.Calendar

	// Actor is recorded on audit entries written by this process.
	Actor string

	// Strict makes every schedule command reject prerequisite cycles.
	Strict bool

	// IsInteractive reports whether stdin is a terminal. Forms and the
	// schedule browser only run when it returns true.
	IsInteractive func() bool
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

func (a *App) actor() string {
	if a.Actor == "" {
		return contract.SystemActor
	}
	return a.Actor
}

// NewRootCmd creates the top-level "curricula" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:          "curricula",
		Short:        "Training catalog and working-day course scheduler",
		SilenceUsage: true,
	}

	root.AddCommand(
		newTopicCmd(app),
		newCourseCmd(app),
		newPathCmd(app),
		newEnrollmentCmd(app),
		newScheduleCmd(app),
		newCalendarCmd(app),
		newImportCmd(app),
		newAuditCmd(app),
	)

	return root
}
