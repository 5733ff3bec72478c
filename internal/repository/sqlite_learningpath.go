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

type SQLiteLearningPathRepo struct {
	db db.DBTX
}

func NewSQLiteLearningPathRepo(conn db.DBTX) *SQLiteLearningPathRepo {
	return &SQLiteLearningPathRepo{db: conn}
}

const pathColumns = `id, title, course_ids, total_hours, total_days, start_at, end_at, created_at, updated_at`

func (r *SQLiteLearningPathRepo) Create(ctx context.Context, p *domain.LearningPath) error {
	ids, err := encodeIDs(p.CourseIDs)
	if err != nil {
		return err
	}
	query := `INSERT INTO learning_paths (` + pathColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = r.db.ExecContext(ctx, query,
		p.ID,
		p.Title,
		ids,
		p.TotalHours,
		p.TotalDays,
		nullableTimeToString(p.StartAt, dateLayout),
		nullableTimeToString(p.EndAt, dateLayout),
		p.CreatedAt.UTC().Format(time.RFC3339),
		p.UpdatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting learning path: %w", err)
	}
	return nil
}

func (r *SQLiteLearningPathRepo) GetByID(ctx context.Context, id string) (*domain.LearningPath, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+pathColumns+` FROM learning_paths WHERE id = ?`, id)
	p, err := scanLearningPath(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("learning path %s: %w", id, ErrNotFound)
	}
	return p, err
}

func (r *SQLiteLearningPathRepo) List(ctx context.Context) ([]*domain.LearningPath, error) {
	return r.query(ctx, `SELECT `+pathColumns+` FROM learning_paths ORDER BY created_at, title`)
}

func (r *SQLiteLearningPathRepo) ListContainingCourse(ctx context.Context, courseID string) ([]*domain.LearningPath, error) {
	query := `SELECT ` + pathColumns + ` FROM learning_paths
		WHERE EXISTS (SELECT 1 FROM json_each(learning_paths.course_ids) WHERE json_each.value = ?)
		ORDER BY created_at, id`
	return r.query(ctx, query, courseID)
}

func (r *SQLiteLearningPathRepo) Update(ctx context.Context, p *domain.LearningPath) error {
	ids, err := encodeIDs(p.CourseIDs)
	if err != nil {
		return err
	}
	query := `UPDATE learning_paths SET title = ?, course_ids = ?, start_at = ?, updated_at = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		p.Title,
		ids,
		nullableTimeToString(p.StartAt, dateLayout),
		p.UpdatedAt.UTC().Format(time.RFC3339),
		p.ID,
	)
	if err != nil {
		return fmt.Errorf("updating learning path: %w", err)
	}
	return requireAffected(res, "learning path", p.ID)
}

func (r *SQLiteLearningPathRepo) UpdateSchedule(ctx context.Context, id string, s domain.ScheduleTotals) error {
	query := `UPDATE learning_paths SET start_at = ?, end_at = ?, total_hours = ?, total_days = ?, updated_at = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		nullableTimeToString(s.StartAt, dateLayout),
		nullableTimeToString(s.EndAt, dateLayout),
		s.TotalHours,
		s.TotalDays,
		nowUTC(),
		id,
	)
	if err != nil {
		return fmt.Errorf("updating learning path schedule: %w", err)
	}
	return requireAffected(res, "learning path", id)
}

func (r *SQLiteLearningPathRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM learning_paths WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting learning path: %w", err)
	}
	return nil
}

func (r *SQLiteLearningPathRepo) query(ctx context.Context, query string, args ...any) ([]*domain.LearningPath, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing learning paths: %w", err)
	}
	defer rows.Close()

	var paths []*domain.LearningPath
	for rows.Next() {
		p, err := scanLearningPath(rows)
		if err != nil {
			return nil, err
		}
		paths = append(paths, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating learning paths: %w", err)
	}
	return paths, nil
}

func scanLearningPath(s rowScanner) (*domain.LearningPath, error) {
	var p domain.LearningPath
	var ids, createdAt, updatedAt string
	var startAt, endAt sql.NullString

	err := s.Scan(
		&p.ID, &p.Title, &ids,
		&p.TotalHours, &p.TotalDays,
		&startAt, &endAt,
		&createdAt, &updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning learning path: %w", err)
	}

	if p.CourseIDs, err = decodeIDs(ids); err != nil {
		return nil, fmt.Errorf("learning path %s course ids: %w", p.ID, err)
	}
	p.StartAt = parseNullableTime(startAt, dateLayout)
	p.EndAt = parseNullableTime(endAt, dateLayout)
	if p.CreatedAt, p.UpdatedAt, err = parseTimestamps(createdAt, updatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}
