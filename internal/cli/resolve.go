package cli

import (
	"context"
	"fmt"
	"strings"
)

// matchID resolves input against ids: an exact match wins, otherwise the
// input must be a prefix of exactly one id.
func matchID(kind, input string, ids []string) (string, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", fmt.Errorf("%s ID is required", kind)
	}
	for _, id := range ids {
		if id == input {
			return id, nil
		}
	}

	var matches []string
	for _, id := range ids {
		if strings.HasPrefix(id, input) {
			matches = append(matches, id)
		}
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("%s not found: %q", kind, input)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("%s ID prefix %q is ambiguous (%d matches)", kind, input, len(matches))
	}
}

func matchIDs(kind string, inputs []string, ids []string) ([]string, error) {
	out := make([]string, 0, len(inputs))
	for _, in := range inputs {
		id, err := matchID(kind, in, ids)
		if err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, nil
}

func topicIDs(ctx context.Context, app *App) ([]string, error) {
	topics, err := app.Topics.List(ctx)
	if err != nil {
		return nil, err
	}
	ids := make([]string, len(topics))
	for i, t := range topics {
		ids[i] = t.ID
	}
	return ids, nil
}

func courseIDs(ctx context.Context, app *App) ([]string, error) {
	courses, err := app.Courses.List(ctx)
	if err != nil {
		return nil, err
	}
	ids := make([]string, len(courses))
	for i, c := range courses {
		ids[i] = c.ID
	}
	return ids, nil
}

func pathIDs(ctx context.Context, app *App) ([]string, error) {
	paths, err := app.Paths.List(ctx)
	if err != nil {
		return nil, err
	}
	ids := make([]string, len(paths))
	for i, p := range paths {
		ids[i] = p.ID
	}
	return ids, nil
}

func resolveTopicID(ctx context.Context, app *App, input string) (string, error) {
	ids, err := topicIDs(ctx, app)
	if err != nil {
		return "", err
	}
	return matchID("topic", input, ids)
}

func resolveCourseID(ctx context.Context, app *App, input string) (string, error) {
	ids, err := courseIDs(ctx, app)
	if err != nil {
		return "", err
	}
	return matchID("course", input, ids)
}

func resolvePathID(ctx context.Context, app *App, input string) (string, error) {
	ids, err := pathIDs(ctx, app)
	if err != nil {
		return "", err
	}
	return matchID("learning path", input, ids)
}

// resolveRelations resolves both sides of a relation map against the
// course's topic ids.
func resolveRelations(m map[string][]string, ids []string) (map[string][]string, error) {
	if m == nil {
		return nil, nil
	}
	out := make(map[string][]string, len(m))
	for k, deps := range m {
		key, err := matchID("topic", k, ids)
		if err != nil {
			return nil, err
		}
		resolved, err := matchIDs("topic", deps, ids)
		if err != nil {
			return nil, err
		}
		if existing, ok := out[key]; ok {
			resolved = append(existing, resolved...)
		}
		out[key] = resolved
	}
	return out, nil
}
