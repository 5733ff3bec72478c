package scheduler

import (
	"fmt"
	"strings"
)

// CyclicDependencyError is returned when RejectCycles is set and some groups
// could only be placed by the fallback pass.
type CyclicDependencyError struct {
	TopicIDs []string
}

func (e *CyclicDependencyError) Error() string {
	return fmt.Sprintf("cyclic prerequisites among topics: %s", strings.Join(e.TopicIDs, ", "))
}
