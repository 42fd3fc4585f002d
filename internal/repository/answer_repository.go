package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/anup-shanbhag/TrelloQuora/internal/models"
)

// The question owner is not joined; Answer.Question.User stays zero.
const answerSelect = `
	SELECT ` + userColumns + `, a.id, a.uuid, a.ans, a.date, q.id, q.uuid, q.content, q.date
	FROM answer a
	JOIN users u ON u.id = a.user_id
	JOIN question q ON q.id = a.question_id
`

type AnswerRepository struct {
	pool *pgxpool.Pool
}

func NewAnswerRepository(pool *pgxpool.Pool) *AnswerRepository {
	return &AnswerRepository{pool: pool}
}

func (r *AnswerRepository) Create(ctx context.Context, answer *models.Answer) error {
	const query = `
		INSERT INTO answer (uuid, ans, date, user_id, question_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	err := r.pool.QueryRow(ctx, query,
		answer.UUID,
		answer.Content,
		answer.Date,
		answer.User.ID,
		answer.Question.ID,
	).Scan(&answer.ID)
	if err != nil {
		return missingParent(err, ErrQuestionNotFound)
	}
	return nil
}

func (r *AnswerRepository) GetByUUID(ctx context.Context, uuid string) (models.Answer, error) {
	query := answerSelect + ` WHERE a.uuid = $1`

	answer, err := scanAnswer(r.pool.QueryRow(ctx, query, uuid))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Answer{}, ErrAnswerNotFound
		}
		return models.Answer{}, err
	}
	return answer, nil
}

func (r *AnswerRepository) ListByQuestion(ctx context.Context, questionUUID string) ([]models.Answer, error) {
	return r.list(ctx, answerSelect+` WHERE q.uuid = $1 ORDER BY a.id`, questionUUID)
}

func (r *AnswerRepository) ListByUser(ctx context.Context, userUUID string) ([]models.Answer, error) {
	return r.list(ctx, answerSelect+` WHERE u.uuid = $1 ORDER BY a.id`, userUUID)
}

func (r *AnswerRepository) list(ctx context.Context, query string, args ...any) ([]models.Answer, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	answers := make([]models.Answer, 0)
	for rows.Next() {
		answer, err := scanAnswer(rows)
		if err != nil {
			return nil, err
		}
		answers = append(answers, answer)
	}
	return answers, rows.Err()
}

func (r *AnswerRepository) UpdateContent(ctx context.Context, uuid string, content string) error {
	const query = `UPDATE answer SET ans = $2 WHERE uuid = $1`
	cmd, err := r.pool.Exec(ctx, query, uuid, content)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrAnswerNotFound
	}
	return nil
}

func (r *AnswerRepository) Delete(ctx context.Context, uuid string) error {
	const query = `DELETE FROM answer WHERE uuid = $1`
	cmd, err := r.pool.Exec(ctx, query, uuid)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrAnswerNotFound
	}
	return nil
}

func scanAnswer(row pgx.Row) (models.Answer, error) {
	var answer models.Answer
	user, err := scanUser(row,
		&answer.ID,
		&answer.UUID,
		&answer.Content,
		&answer.Date,
		&answer.Question.ID,
		&answer.Question.UUID,
		&answer.Question.Content,
		&answer.Question.Date,
	)
	if err != nil {
		return models.Answer{}, err
	}
	answer.User = user
	return answer, nil
}
