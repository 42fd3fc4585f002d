package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/anup-shanbhag/TrelloQuora/internal/models"
)

const sessionSelect = `
	SELECT ` + userColumns + `, a.id, a.uuid, a.access_token, a.login_at, a.expires_at, a.logout_at
	FROM user_auth a
	JOIN users u ON u.id = a.user_id
`

type SessionRepository struct {
	pool *pgxpool.Pool
}

func NewSessionRepository(pool *pgxpool.Pool) *SessionRepository {
	return &SessionRepository{pool: pool}
}

func (r *SessionRepository) Create(ctx context.Context, session *models.Session) error {
	const query = `
		INSERT INTO user_auth (
			uuid, user_id, access_token, login_at, expires_at, logout_at
		) VALUES (
			$1, $2, $3, $4, $5, $6
		)
		RETURNING id
	`

	return r.pool.QueryRow(ctx, query,
		session.UUID,
		session.User.ID,
		session.AccessToken,
		session.LoginAt,
		session.ExpiresAt,
		session.LogoutAt,
	).Scan(&session.ID)
}

func (r *SessionRepository) FindByToken(ctx context.Context, token string) (models.Session, error) {
	query := sessionSelect + ` WHERE a.access_token = $1`

	session, err := scanSession(r.pool.QueryRow(ctx, query, token))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Session{}, ErrSessionNotFound
		}
		return models.Session{}, err
	}
	return session, nil
}

// Update persists the validity window of an existing session.
func (r *SessionRepository) Update(ctx context.Context, session models.Session) error {
	const query = `
		UPDATE user_auth
		SET expires_at = $2,
		    logout_at = $3
		WHERE uuid = $1
	`
	cmd, err := r.pool.Exec(ctx, query, session.UUID, session.ExpiresAt, session.LogoutAt)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrSessionNotFound
	}
	return nil
}

func (r *SessionRepository) ListByUser(ctx context.Context, userUUID string) ([]models.Session, error) {
	query := sessionSelect + ` WHERE u.uuid = $1 ORDER BY a.login_at DESC, a.id DESC`

	rows, err := r.pool.Query(ctx, query, userUUID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sessions := make([]models.Session, 0)
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, session)
	}
	return sessions, rows.Err()
}

func scanSession(row pgx.Row) (models.Session, error) {
	var session models.Session
	user, err := scanUser(row,
		&session.ID,
		&session.UUID,
		&session.AccessToken,
		&session.LoginAt,
		&session.ExpiresAt,
		&session.LogoutAt,
	)
	if err != nil {
		return models.Session{}, err
	}
	session.User = user
	return session, nil
}
