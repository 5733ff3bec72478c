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

type SQLiteEnrollmentRepo struct {
	db db.DBTX
}

func NewSQLiteEnrollmentRepo(conn db.DBTX) *SQLiteEnrollmentRepo {
	return &SQLiteEnrollmentRepo{db: conn}
}

const enrollmentColumns = `id, learning_path_id, user_id, status, start_date, end_date, created_at, updated_at`

func (r *SQLiteEnrollmentRepo) Create(ctx context.Context, e *domain.Enrollment) error {
	query := `INSERT INTO enrollments (` + enrollmentColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		e.ID,
		e.LearningPathID,
		e.UserID,
		string(e.Status),
		nullableTimeToString(e.StartDate, dateLayout),
		nullableTimeToString(e.EndDate, dateLayout),
		e.CreatedAt.UTC().Format(time.RFC3339),
		e.UpdatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting enrollment: %w", err)
	}
	return nil
}

func (r *SQLiteEnrollmentRepo) GetByID(ctx context.Context, id string) (*domain.Enrollment, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+enrollmentColumns+` FROM enrollments WHERE id = ?`, id)
	e, err := scanEnrollment(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("enrollment %s: %w", id, ErrNotFound)
	}
	return e, err
}

func (r *SQLiteEnrollmentRepo) ListByLearningPath(ctx context.Context, learningPathID string) ([]*domain.Enrollment, error) {
	return r.query(ctx, `SELECT `+enrollmentColumns+` FROM enrollments WHERE learning_path_id = ? ORDER BY created_at, id`, learningPathID)
}

func (r *SQLiteEnrollmentRepo) ListByUser(ctx context.Context, userID string) ([]*domain.Enrollment, error) {
	return r.query(ctx, `SELECT `+enrollmentColumns+` FROM enrollments WHERE user_id = ? ORDER BY created_at, id`, userID)
}

func (r *SQLiteEnrollmentRepo) Update(ctx context.Context, e *domain.Enrollment) error {
	query := `UPDATE enrollments SET status = ?, start_date = ?, end_date = ?, updated_at = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		string(e.Status),
		nullableTimeToString(e.StartDate, dateLayout),
		nullableTimeToString(e.EndDate, dateLayout),
		e.UpdatedAt.UTC().Format(time.RFC3339),
		e.ID,
	)
	if err != nil {
		return fmt.Errorf("updating enrollment: %w", err)
	}
	return requireAffected(res, "enrollment", e.ID)
}

func (r *SQLiteEnrollmentRepo) UpdateEndDate(ctx context.Context, id string, end *time.Time) error {
	res, err := r.db.ExecContext(ctx, `UPDATE enrollments SET end_date = ?, updated_at = ? WHERE id = ?`,
		nullableTimeToString(end, dateLayout), nowUTC(), id)
	if err != nil {
		return fmt.Errorf("updating enrollment end date: %w", err)
	}
	return requireAffected(res, "enrollment", id)
}

func (r *SQLiteEnrollmentRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM enrollments WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting enrollment: %w", err)
	}
	return nil
}

func (r *SQLiteEnrollmentRepo) query(ctx context.Context, query string, args ...any) ([]*domain.Enrollment, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing enrollments: %w", err)
	}
	defer rows.Close()

	var out []*domain.Enrollment
	for rows.Next() {
		e, err := scanEnrollment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating enrollments: %w", err)
	}
	return out, nil
}

func scanEnrollment(s rowScanner) (*domain.Enrollment, error) {
	var e domain.Enrollment
	var status, createdAt, updatedAt string
	var startDate, endDate sql.NullString

	err := s.Scan(&e.ID, &e.LearningPathID, &e.UserID, &status, &startDate, &endDate, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning enrollment: %w", err)
	}
	e.Status = domain.EnrollmentStatus(status)
	e.StartDate = parseNullableTime(startDate, dateLayout)
	e.EndDate = parseNullableTime(endDate, dateLayout)
	if e.CreatedAt, e.UpdatedAt, err = parseTimestamps(createdAt, updatedAt); err != nil {
		return nil, err
	}
	return &e, nil
}
