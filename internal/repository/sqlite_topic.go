package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/curricula/internal/db"
	"github.com/alexanderramin/curricula/internal/domain"
)

type SQLiteTopicRepo struct {
	db db.DBTX
}

func NewSQLiteTopicRepo(conn db.DBTX) *SQLiteTopicRepo {
	return &SQLiteTopicRepo{db: conn}
}

const topicColumns = `id, title, time_allocated, time_unit, prerequisites, corequisites, start_date, end_date, created_at, updated_at`

func (r *SQLiteTopicRepo) Create(ctx context.Context, t *domain.Topic) error {
	prereqs, err := encodeIDs(t.Prerequisites)
	if err != nil {
		return err
	}
	coreqs, err := encodeIDs(t.Corequisites)
	if err != nil {
		return err
	}
	query := `INSERT INTO topics (` + topicColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = r.db.ExecContext(ctx, query,
		t.ID,
		t.Title,
		t.TimeAllocated,
		string(t.TimeUnit),
		prereqs,
		coreqs,
		nullableTimeToString(t.StartDate, dateLayout),
		nullableTimeToString(t.EndDate, dateLayout),
		t.CreatedAt.UTC().Format(time.RFC3339),
		t.UpdatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting topic: %w", err)
	}
	return nil
}

func (r *SQLiteTopicRepo) GetByID(ctx context.Context, id string) (*domain.Topic, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+topicColumns+` FROM topics WHERE id = ?`, id)
	t, err := scanTopic(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("topic %s: %w", id, ErrNotFound)
	}
	return t, err
}

func (r *SQLiteTopicRepo) ListByIDs(ctx context.Context, ids []string) ([]*domain.Topic, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	marks, args := inPlaceholders(ids)
	topics, err := r.query(ctx, `SELECT `+topicColumns+` FROM topics WHERE id IN (`+marks+`)`, args...)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]*domain.Topic, len(topics))
	for _, t := range topics {
		byID[t.ID] = t
	}
	out := make([]*domain.Topic, 0, len(topics))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if t, ok := byID[id]; ok && !seen[id] {
			seen[id] = true
			out = append(out, t)
		}
	}
	return out, nil
}

func (r *SQLiteTopicRepo) List(ctx context.Context) ([]*domain.Topic, error) {
	return r.query(ctx, `SELECT `+topicColumns+` FROM topics ORDER BY created_at, title`)
}

func (r *SQLiteTopicRepo) Update(ctx context.Context, t *domain.Topic) error {
	query := `UPDATE topics SET title = ?, time_allocated = ?, time_unit = ?, updated_at = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		t.Title,
		t.TimeAllocated,
		string(t.TimeUnit),
		t.UpdatedAt.UTC().Format(time.RFC3339),
		t.ID,
	)
	if err != nil {
		return fmt.Errorf("updating topic: %w", err)
	}
	return requireAffected(res, "topic", t.ID)
}

func (r *SQLiteTopicRepo) UpdateSchedule(ctx context.Context, id string, s domain.TopicSchedule) error {
	prereqs, err := encodeIDs(s.Prerequisites)
	if err != nil {
		return err
	}
	coreqs, err := encodeIDs(s.Corequisites)
	if err != nil {
		return err
	}
	query := `UPDATE topics SET start_date = ?, end_date = ?, prerequisites = ?, corequisites = ?, updated_at = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		nullableTimeToString(s.StartDate, dateLayout),
		nullableTimeToString(s.EndDate, dateLayout),
		prereqs,
		coreqs,
		nowUTC(),
		id,
	)
	if err != nil {
		return fmt.Errorf("updating topic schedule: %w", err)
	}
	return requireAffected(res, "topic", id)
}

func (r *SQLiteTopicRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM topics WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting topic: %w", err)
	}
	return nil
}

func (r *SQLiteTopicRepo) query(ctx context.Context, query string, args ...any) ([]*domain.Topic, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing topics: %w", err)
	}
	defer rows.Close()

	var topics []*domain.Topic
	for rows.Next() {
		t, err := scanTopic(rows)
		if err != nil {
			return nil, err
		}
		topics = append(topics, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating topics: %w", err)
	}
	return topics, nil
}

func scanTopic(s rowScanner) (*domain.Topic, error) {
	var t domain.Topic
	var unit, prereqs, coreqs, createdAt, updatedAt string
	var startDate, endDate sql.NullString

	err := s.Scan(
		&t.ID, &t.Title, &t.TimeAllocated, &unit,
		&prereqs, &coreqs,
		&startDate, &endDate,
		&createdAt, &updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning topic: %w", err)
	}

	t.TimeUnit = domain.TimeUnit(unit)
	if t.Prerequisites, err = decodeIDs(prereqs); err != nil {
		return nil, fmt.Errorf("topic %s prerequisites: %w", t.ID, err)
	}
	if t.Corequisites, err = decodeIDs(coreqs); err != nil {
		return nil, fmt.Errorf("topic %s corequisites: %w", t.ID, err)
	}
	t.StartDate = parseNullableTime(startDate, dateLayout)
	t.EndDate = parseNullableTime(endDate, dateLayout)
	if t.CreatedAt, t.UpdatedAt, err = parseTimestamps(createdAt, updatedAt); err != nil {
		return nil, err
	}
	return &t, nil
}
