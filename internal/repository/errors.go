package repository

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrUserNotFound     = errors.New("user not found")
	ErrSessionNotFound  = errors.New("session not found")
	ErrQuestionNotFound = errors.New("question not found")
	ErrAnswerNotFound   = errors.New("answer not found")

	ErrDuplicateUserName = errors.New("username already taken")
	ErrDuplicateEmail    = errors.New("email already registered")
)

const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
)

// classifyUserConflict maps a unique violation on the users table to the
// matching duplicate-identity sentinel.
func classifyUserConflict(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != uniqueViolation {
		return err
	}
	if strings.Contains(strings.ToLower(pgErr.ConstraintName), "username") {
		return ErrDuplicateUserName
	}
	if strings.Contains(strings.ToLower(pgErr.ConstraintName), "email") {
		return ErrDuplicateEmail
	}
	return err
}

// missingParent maps a foreign key violation (the parent row vanished between
// lookup and insert) to notFound.
func missingParent(err error, notFound error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolation {
		return notFound
	}
	return err
}
