package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/anup-shanbhag/TrelloQuora/internal/models"
)

const questionSelect = `
	SELECT ` + userColumns + `, q.id, q.uuid, q.content, q.date
	FROM question q
	JOIN users u ON u.id = q.user_id
`

type QuestionRepository struct {
	pool *pgxpool.Pool
}

func NewQuestionRepository(pool *pgxpool.Pool) *QuestionRepository {
	return &QuestionRepository{pool: pool}
}

func (r *QuestionRepository) Create(ctx context.Context, question *models.Question) error {
	const query = `
		INSERT INTO question (uuid, content, date, user_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	err := r.pool.QueryRow(ctx, query,
		question.UUID,
		question.Content,
		question.Date,
		question.User.ID,
	).Scan(&question.ID)
	if err != nil {
		return missingParent(err, ErrUserNotFound)
	}
	return nil
}

func (r *QuestionRepository) GetByUUID(ctx context.Context, uuid string) (models.Question, error) {
	query := questionSelect + ` WHERE q.uuid = $1`

	question, err := scanQuestion(r.pool.QueryRow(ctx, query, uuid))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Question{}, ErrQuestionNotFound
		}
		return models.Question{}, err
	}
	return question, nil
}

func (r *QuestionRepository) List(ctx context.Context) ([]models.Question, error) {
	return r.list(ctx, questionSelect+` ORDER BY q.id`)
}

func (r *QuestionRepository) ListByUser(ctx context.Context, userUUID string) ([]models.Question, error) {
	return r.list(ctx, questionSelect+` WHERE u.uuid = $1 ORDER BY q.id`, userUUID)
}

func (r *QuestionRepository) list(ctx context.Context, query string, args ...any) ([]models.Question, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	questions := make([]models.Question, 0)
	for rows.Next() {
		question, err := scanQuestion(rows)
		if err != nil {
			return nil, err
		}
		questions = append(questions, question)
	}
	return questions, rows.Err()
}

func (r *QuestionRepository) UpdateContent(ctx context.Context, uuid string, content string) error {
	const query = `UPDATE question SET content = $2 WHERE uuid = $1`
	cmd, err := r.pool.Exec(ctx, query, uuid, content)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrQuestionNotFound
	}
	return nil
}

func (r *QuestionRepository) Delete(ctx context.Context, uuid string) error {
	const query = `DELETE FROM question WHERE uuid = $1`
	cmd, err := r.pool.Exec(ctx, query, uuid)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrQuestionNotFound
	}
	return nil
}

func scanQuestion(row pgx.Row) (models.Question, error) {
	var question models.Question
	user, err := scanUser(row,
		&question.ID,
		&question.UUID,
		&question.Content,
		&question.Date,
	)
	if err != nil {
		return models.Question{}, err
	}
	question.User = user
	return question, nil
}
