package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/skillswap24/skillswap-backend/internal/domain"
	"github.com/skillswap24/skillswap-backend/internal/repository"
)

type userRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) repository.UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) GetByID(ctx context.Context, id int) (*domain.User, error) {
	var user domain.User
	query := `
		SELECT id, display_name, wanted_skills, location, rating, completed_swaps, created_at
		FROM users WHERE id = $1
	`
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&user.ID, &user.DisplayName, pq.Array(&user.WantedSkills),
		&user.Location, &user.Rating, &user.CompletedSwaps, &user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}

	if err := r.loadTaughtSkills(ctx, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) SearchUsers(ctx context.Context, filter repository.UserFilter) ([]*domain.User, error) {
	query := `
		SELECT id, display_name, wanted_skills, location, rating, completed_swaps, created_at
		FROM users WHERE 1=1
	`
	args := []interface{}{}
	argCount := 1

	if filter.Location != nil && *filter.Location != "" {
		query += fmt.Sprintf(" AND location = $%d", argCount)
		args = append(args, *filter.Location)
		argCount++
	}

	if filter.WantSkill != nil && *filter.WantSkill != "" {
		query += fmt.Sprintf(" AND $%d ILIKE ANY(wanted_skills)", argCount)
		args = append(args, *filter.WantSkill)
		argCount++
	}

	if filter.TeachSkill != nil && *filter.TeachSkill != "" {
		query += fmt.Sprintf(" AND id IN (SELECT user_id FROM user_taught_skills WHERE name ILIKE $%d)", argCount)
		args = append(args, *filter.TeachSkill)
		argCount++
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	query += fmt.Sprintf(" ORDER BY rating DESC, created_at DESC LIMIT $%d OFFSET $%d", argCount, argCount+1)
	args = append(args, limit, filter.Offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*domain.User
	for rows.Next() {
		var user domain.User
		if err := rows.Scan(
			&user.ID, &user.DisplayName, pq.Array(&user.WantedSkills),
			&user.Location, &user.Rating, &user.CompletedSwaps, &user.CreatedAt,
		); err != nil {
			return nil, err
		}
		users = append(users, &user)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, user := range users {
		if err := r.loadTaughtSkills(ctx, user); err != nil {
			return nil, err
		}
	}
	return users, nil
}

func (r *userRepository) loadTaughtSkills(ctx context.Context, user *domain.User) error {
	query := `SELECT name, level FROM user_taught_skills WHERE user_id = $1 ORDER BY name`
	rows, err := r.db.QueryContext(ctx, query, user.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	user.TaughtSkills = user.TaughtSkills[:0]
	for rows.Next() {
		var skill domain.TaughtSkill
		if err := rows.Scan(&skill.Name, &skill.Level); err != nil {
			return err
		}
		user.TaughtSkills = append(user.TaughtSkills, skill)
	}
	return rows.Err()
}
