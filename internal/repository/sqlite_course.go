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

type SQLiteCourseRepo struct {
	db db.DBTX
}

func NewSQLiteCourseRepo(conn db.DBTX) *SQLiteCourseRepo {
	return &SQLiteCourseRepo{db: conn}
}

const courseColumns = `id, title, topic_ids, topic_prerequisites, topic_corequisites, total_hours, total_days, start_at, end_at, created_at, updated_at`

func (r *SQLiteCourseRepo) Create(ctx context.Context, c *domain.Course) error {
	ids, prereqs, coreqs, err := encodeCourseLists(c)
	if err != nil {
		return err
	}
	query := `INSERT INTO courses (` + courseColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = r.db.ExecContext(ctx, query,
		c.ID,
		c.Title,
		ids,
		prereqs,
		coreqs,
		c.TotalHours,
		c.TotalDays,
		nullableTimeToString(c.StartAt, dateLayout),
		nullableTimeToString(c.EndAt, dateLayout),
		c.CreatedAt.UTC().Format(time.RFC3339),
		c.UpdatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting course: %w", err)
	}
	return nil
}

func (r *SQLiteCourseRepo) GetByID(ctx context.Context, id string) (*domain.Course, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+courseColumns+` FROM courses WHERE id = ?`, id)
	c, err := scanCourse(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("course %s: %w", id, ErrNotFound)
	}
	return c, err
}

func (r *SQLiteCourseRepo) List(ctx context.Context) ([]*domain.Course, error) {
	return r.query(ctx, `SELECT `+courseColumns+` FROM courses ORDER BY created_at, title`)
}

func (r *SQLiteCourseRepo) ListContainingTopic(ctx context.Context, topicID string) ([]*domain.Course, error) {
	query := `SELECT ` + courseColumns + ` FROM courses
		WHERE EXISTS (SELECT 1 FROM json_each(courses.topic_ids) WHERE json_each.value = ?)
		ORDER BY created_at, id`
	return r.query(ctx, query, topicID)
}

func (r *SQLiteCourseRepo) Update(ctx context.Context, c *domain.Course) error {
	ids, prereqs, coreqs, err := encodeCourseLists(c)
	if err != nil {
		return err
	}
	query := `UPDATE courses SET title = ?, topic_ids = ?, topic_prerequisites = ?, topic_corequisites = ?, start_at = ?, updated_at = ?
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		c.Title,
		ids,
		prereqs,
		coreqs,
		nullableTimeToString(c.StartAt, dateLayout),
		c.UpdatedAt.UTC().Format(time.RFC3339),
		c.ID,
	)
	if err != nil {
		return fmt.Errorf("updating course: %w", err)
	}
	return requireAffected(res, "course", c.ID)
}

func (r *SQLiteCourseRepo) UpdateSchedule(ctx context.Context, id string, s domain.ScheduleTotals) error {
	query := `UPDATE courses SET start_at = ?, end_at = ?, total_hours = ?, total_days = ?, updated_at = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		nullableTimeToString(s.StartAt, dateLayout),
		nullableTimeToString(s.EndAt, dateLayout),
		s.TotalHours,
		s.TotalDays,
		nowUTC(),
		id,
	)
	if err != nil {
		return fmt.Errorf("updating course schedule: %w", err)
	}
	return requireAffected(res, "course", id)
}

func (r *SQLiteCourseRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM courses WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting course: %w", err)
	}
	return nil
}

func (r *SQLiteCourseRepo) query(ctx context.Context, query string, args ...any) ([]*domain.Course, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing courses: %w", err)
	}
	defer rows.Close()

	var courses []*domain.Course
	for rows.Next() {
		c, err := scanCourse(rows)
		if err != nil {
			return nil, err
		}
		courses = append(courses, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating courses: %w", err)
	}
	return courses, nil
}

func encodeCourseLists(c *domain.Course) (ids, prereqs, coreqs string, err error) {
	if ids, err = encodeIDs(c.TopicIDs); err != nil {
		return
	}
	if prereqs, err = encodeRelations(c.TopicPrerequisites); err != nil {
		return
	}
	coreqs, err = encodeRelations(c.TopicCorequisites)
	return
}

func scanCourse(s rowScanner) (*domain.Course, error) {
	var c domain.Course
	var ids, prereqs, coreqs, createdAt, updatedAt string
	var startAt, endAt sql.NullString

	err := s.Scan(
		&c.ID, &c.Title, &ids, &prereqs, &coreqs,
		&c.TotalHours, &c.TotalDays,
		&startAt, &endAt,
		&createdAt, &updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning course: %w", err)
	}

	if c.TopicIDs, err = decodeIDs(ids); err != nil {
		return nil, fmt.Errorf("course %s topic ids: %w", c.ID, err)
	}
	if c.TopicPrerequisites, err = decodeRelations(prereqs); err != nil {
		return nil, fmt.Errorf("course %s prerequisites: %w", c.ID, err)
	}
	if c.TopicCorequisites, err = decodeRelations(coreqs); err != nil {
		return nil, fmt.Errorf("course %s corequisites: %w", c.ID, err)
	}
	c.StartAt = parseNullableTime(startAt, dateLayout)
	c.EndAt = parseNullableTime(endAt, dateLayout)
	if c.CreatedAt, c.UpdatedAt, err = parseTimestamps(createdAt, updatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}
