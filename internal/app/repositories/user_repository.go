package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/alumnihub/internal/app/models"
)

// IUserRepository defines the user lookups the relationship core needs
type IUserRepository interface {
	FindByID(ctx context.Context, id int64) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByIDs(ctx context.Context, ids []int64) (map[int64]*models.User, error)
	LatestEducation(ctx context.Context, userIDs []int64) (map[int64]*models.Education, error)
	CurrentWork(ctx context.Context, userIDs []int64) (map[int64]*models.WorkExperience, error)
}

// ISchoolAdminRepository looks up administrator accounts
type ISchoolAdminRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.SchoolAdmin, error)
}

// UserRepository reads the users table and the profile fragments hanging off it
type UserRepository struct {
	db *pgxpool.Pool
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

var userColumns = []string{
	"user_id", "email", "password_hash", "first_name", "last_name",
	"profile_picture", "graduation_year", "role", "school_id", "is_active",
	"created_at", "updated_at",
}

func scanUser(row pgx.Row) (*models.User, error) {
	var u models.User
	var role string
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.FirstName, &u.LastName,
		&u.ProfilePicture, &u.GraduationYear, &role, &u.SchoolID, &u.IsActive,
		&u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	u.Role = models.Role(role)
	return &u, nil
}

func (r *UserRepository) findOne(ctx context.Context, where squirrel.Sqlizer) (*models.User, error) {
	sql, args, err := psql.Select(userColumns...).From("users").Where(where).Limit(1).ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	u, err := scanUser(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	return u, nil
}

// FindByID returns the user or nil when absent
func (r *UserRepository) FindByID(ctx context.Context, id int64) (*models.User, error) {
	return r.findOne(ctx, squirrel.Eq{"user_id": id})
}

// FindByEmail returns the user or nil when absent, matching case-insensitively
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findOne(ctx, squirrel.Expr("LOWER(email) = ?", strings.ToLower(strings.TrimSpace(email))))
}

// FindByIDs loads many users at once, keyed by id
func (r *UserRepository) FindByIDs(ctx context.Context, ids []int64) (map[int64]*models.User, error) {
	out := make(map[int64]*models.User, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	rows, err := queryBuilder(ctx, r.db, psql.Select(userColumns...).From("users").Where(squirrel.Eq{"user_id": ids}))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		out[u.ID] = u
	}
	return out, rows.Err()
}

func latestEducationQuery(userIDs []int64) squirrel.SelectBuilder {
	return psql.Select("education_id", "user_id", "institution_name",
		"COALESCE(degree, '')", "COALESCE(field_of_study, '')", "end_year").
		Options("DISTINCT ON (user_id)").
		From("education").
		Where(squirrel.Eq{"user_id": userIDs}).
		OrderBy("user_id", "end_year DESC NULLS FIRST", "education_id DESC")
}

// LatestEducation returns the most recent education row per user
func (r *UserRepository) LatestEducation(ctx context.Context, userIDs []int64) (map[int64]*models.Education, error) {
	out := make(map[int64]*models.Education, len(userIDs))
	if len(userIDs) == 0 {
		return out, nil
	}

	rows, err := queryBuilder(ctx, r.db, latestEducationQuery(userIDs))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var e models.Education
		if err := rows.Scan(&e.ID, &e.UserID, &e.InstitutionName, &e.Degree, &e.FieldOfStudy, &e.EndYear); err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		out[e.UserID] = &e
	}
	return out, rows.Err()
}

func currentWorkQuery(userIDs []int64) squirrel.SelectBuilder {
	return psql.Select("experience_id", "user_id", "company_name", "position", "is_current").
		Options("DISTINCT ON (user_id)").
		From("work_experience").
		Where(squirrel.Eq{"user_id": userIDs}).
		OrderBy("user_id", "is_current DESC", "start_date DESC NULLS LAST", "experience_id DESC")
}

// CurrentWork returns the current (or most recent) work row per user
func (r *UserRepository) CurrentWork(ctx context.Context, userIDs []int64) (map[int64]*models.WorkExperience, error) {
	out := make(map[int64]*models.WorkExperience, len(userIDs))
	if len(userIDs) == 0 {
		return out, nil
	}

	rows, err := queryBuilder(ctx, r.db, currentWorkQuery(userIDs))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var w models.WorkExperience
		if err := rows.Scan(&w.ID, &w.UserID, &w.CompanyName, &w.Position, &w.IsCurrent); err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		out[w.UserID] = &w
	}
	return out, rows.Err()
}

// SchoolAdminRepository reads the school_admins table
type SchoolAdminRepository struct {
	db *pgxpool.Pool
}

// NewSchoolAdminRepository creates a new SchoolAdminRepository
func NewSchoolAdminRepository(db *pgxpool.Pool) *SchoolAdminRepository {
	return &SchoolAdminRepository{db: db}
}

// FindByEmail returns the administrator or nil when absent
func (r *SchoolAdminRepository) FindByEmail(ctx context.Context, email string) (*models.SchoolAdmin, error) {
	var a models.SchoolAdmin
	err := queryRowBuilder(ctx, r.db, psql.Select(
		"admin_id", "school_id", "email", "password_hash", "first_name", "last_name", "is_active", "created_at",
	).From("school_admins").Where("LOWER(email) = ?", strings.ToLower(strings.TrimSpace(email))).Limit(1),
		&a.ID, &a.SchoolID, &a.Email, &a.PasswordHash, &a.FirstName, &a.LastName, &a.IsActive, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	return &a, nil
}
