package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/curricula/internal/cli/formatter"
	"github.com/alexanderramin/curricula/internal/domain"
	"github.com/spf13/pflag"
)

var (
	_ pflag.Value = (*dateValue)(nil)
	_ pflag.Value = (*unitValue)(nil)
	_ pflag.Value = (*relationsValue)(nil)
)

// dateValue is an optional YYYY-MM-DD day. It stays nil until the flag is set.
type dateValue struct {
	t *time.Time
}

func (d *dateValue) String() string {
	if d.t == nil {
		return ""
	}
	return d.t.Format(formatter.DateLayout)
}

func (d *dateValue) Set(s string) error {
	t, err := parseDate(s)
	if err != nil {
		return err
	}
	d.t = &t
	return nil
}

func (d *dateValue) Type() string { return "date" }

func (d *dateValue) Time() *time.Time { return d.t }

func parseDate(s string) (time.Time, error) {
	t, err := time.Parse(formatter.DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: use YYYY-MM-DD format", s)
	}
	return t, nil
}

// unitValue is a topic time unit.
type unitValue struct {
	unit domain.TimeUnit
}

func newUnitValue(def domain.TimeUnit) *unitValue {
	return &unitValue{unit: def}
}

func (u *unitValue) String() string { return string(u.unit) }

func (u *unitValue) Set(s string) error {
	s = strings.ToLower(strings.TrimSpace(s))
	if !domain.ValidTimeUnits[s] {
		return fmt.Errorf("invalid unit %q: must be one of hours, days", s)
	}
	u.unit = domain.TimeUnit(s)
	return nil
}

func (u *unitValue) Type() string { return "unit" }

// relationsValue collects repeated "topic:dep1,dep2" flags into a relation
// map. "topic:" records an explicit empty list.
type relationsValue struct {
	m map[string][]string
}

func (r *relationsValue) String() string {
	if len(r.m) == 0 {
		return ""
	}
	parts := make([]string, 0, len(r.m))
	for k, v := range r.m {
		parts = append(parts, k+":"+strings.Join(v, ","))
	}
	return strings.Join(parts, " ")
}

func (r *relationsValue) Set(s string) error {
	topic, deps, ok := strings.Cut(s, ":")
	topic = strings.TrimSpace(topic)
	if !ok || topic == "" {
		return fmt.Errorf("invalid relation %q: use TOPIC:DEP1,DEP2", s)
	}
	if r.m == nil {
		r.m = map[string][]string{}
	}
	list, seen := r.m[topic]
	if !seen {
		list = []string{}
	}
	for _, d := range strings.Split(deps, ",") {
		if d = strings.TrimSpace(d); d != "" {
			list = append(list, d)
		}
	}
	r.m[topic] = list
	return nil
}

func (r *relationsValue) Type() string { return "relation" }

func (r *relationsValue) Map() map[string][]string { return r.m }
