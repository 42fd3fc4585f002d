package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/anup-shanbhag/TrelloQuora/internal/models"
)

const userColumns = `u.id, u.uuid, u.firstname, u.lastname, u.username, u.email, u.password, u.salt,
	u.country, u.aboutme, u.dob, u.role, u.contactnumber`

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	const query = `
		INSERT INTO users (
			uuid, firstname, lastname, username, email, password, salt, country, aboutme, dob, role, contactnumber
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12
		)
		RETURNING id
	`

	err := r.pool.QueryRow(ctx, query,
		user.UUID,
		user.FirstName,
		user.LastName,
		user.UserName,
		user.Email,
		user.Password,
		user.Salt,
		user.Country,
		user.AboutMe,
		user.DOB,
		user.Role,
		user.ContactNumber,
	).Scan(&user.ID)
	if err != nil {
		return classifyUserConflict(err)
	}
	return nil
}

func (r *UserRepository) GetByUUID(ctx context.Context, uuid string) (models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users u WHERE u.uuid = $1`
	return r.getOne(ctx, query, uuid)
}

// FindByUserNameOrEmail resolves the sign-in identifier, which may be either.
func (r *UserRepository) FindByUserNameOrEmail(ctx context.Context, identifier string) (models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users u WHERE u.username = $1 OR u.email = $1 LIMIT 1`
	return r.getOne(ctx, query, identifier)
}

func (r *UserRepository) getOne(ctx context.Context, query string, arg string) (models.User, error) {
	user, err := scanUser(r.pool.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.User{}, ErrUserNotFound
		}
		return models.User{}, err
	}
	return user, nil
}

// Delete removes the user; sessions, questions and answers go with it through
// ON DELETE CASCADE.
func (r *UserRepository) Delete(ctx context.Context, uuid string) error {
	const query = `DELETE FROM users WHERE uuid = $1`
	cmd, err := r.pool.Exec(ctx, query, uuid)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

func scanUser(row pgx.Row, extra ...any) (models.User, error) {
	var user models.User
	var role string
	dest := []any{
		&user.ID,
		&user.UUID,
		&user.FirstName,
		&user.LastName,
		&user.UserName,
		&user.Email,
		&user.Password,
		&user.Salt,
		&user.Country,
		&user.AboutMe,
		&user.DOB,
		&role,
		&user.ContactNumber,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return models.User{}, err
	}
	user.Role = models.UserRole(role)
	return user, nil
}
