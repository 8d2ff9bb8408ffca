package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"daytrack/internal/model"
)

type CourseRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewCourseRepository(db *pgxpool.Pool, logger *zap.Logger) *CourseRepository {
	return &CourseRepository{db: db, logger: logger}
}

func (r *CourseRepository) Insert(ctx context.Context, c *model.Course) error {
	r.logger.Debug("Inserting course", zap.Int("user_id", c.UserID), zap.String("title", c.Title))

	query := `
        INSERT INTO courses (user_id, title, code, instructor, term, archived, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, FALSE, NOW(), NOW())
        RETURNING id, created_at, updated_at
    `
	err := r.db.QueryRow(ctx, query,
		c.UserID,
		c.Title,
		c.Code,
		c.Instructor,
		c.Term,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)

	if err != nil {
		r.logger.Error("Failed to insert course", zap.Int("user_id", c.UserID), zap.Error(err))
		return err
	}

	r.logger.Info("Course inserted", zap.Int64("course_id", c.ID), zap.Int("user_id", c.UserID))
	return nil
}

func (r *CourseRepository) GetByID(ctx context.Context, id int64) (*model.Course, error) {
	query := `
        SELECT id, user_id, title, code, instructor, term, archived, created_at, updated_at
        FROM courses
        WHERE id = $1
    `
	var c model.Course
	err := r.db.QueryRow(ctx, query, id).Scan(
		&c.ID, &c.UserID, &c.Title, &c.Code, &c.Instructor, &c.Term, &c.Archived, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error("Failed to get course", zap.Int64("course_id", id), zap.Error(err))
		return nil, err
	}
	return &c, nil
}

func (r *CourseRepository) ListByUser(ctx context.Context, userID int, includeArchived bool) ([]model.Course, error) {
	query := `
        SELECT id, user_id, title, code, instructor, term, archived, created_at, updated_at
        FROM courses
        WHERE user_id = $1 AND (archived = FALSE OR $2)
        ORDER BY created_at ASC
    `

	rows, err := r.db.Query(ctx, query, userID, includeArchived)
	if err != nil {
		r.logger.Error("Failed to list courses", zap.Int("user_id", userID), zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	courses := []model.Course{}
	for rows.Next() {
		var c model.Course
		if err := rows.Scan(&c.ID, &c.UserID, &c.Title, &c.Code, &c.Instructor, &c.Term, &c.Archived, &c.CreatedAt, &c.UpdatedAt); err != nil {
			r.logger.Error("Failed to scan course", zap.Error(err))
			return nil, err
		}
		courses = append(courses, c)
	}

	return courses, rows.Err()
}

func (r *CourseRepository) Update(ctx context.Context, c *model.Course) error {
	query := `
        UPDATE courses
        SET title = $1, code = $2, instructor = $3, term = $4, updated_at = NOW()
        WHERE id = $5 AND user_id = $6
    `
	tag, err := r.db.Exec(ctx, query, c.Title, c.Code, c.Instructor, c.Term, c.ID, c.UserID)
	if err != nil {
		r.logger.Error("Failed to update course", zap.Int64("course_id", c.ID), zap.Error(err))
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("course %d not found", c.ID)
	}
	return nil
}

func (r *CourseRepository) SetArchived(ctx context.Context, id int64, userID int, archived bool) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE courses SET archived = $1, updated_at = NOW() WHERE id = $2 AND user_id = $3`,
		archived, id, userID,
	)
	if err != nil {
		r.logger.Error("Failed to set course archived", zap.Int64("course_id", id), zap.Error(err))
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("course %d not found", id)
	}
	return nil
}
