package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/anup-shanbhag/TrelloQuora/internal/models"
	"github.com/anup-shanbhag/TrelloQuora/internal/storage"
)

type ArchiveWriter interface {
	PutArchive(ctx context.Context, key string, body []byte) error
}

type questionsByUser interface {
	ListByUser(ctx context.Context, userUUID string) ([]models.Question, error)
}

type answersByUser interface {
	ListByUser(ctx context.Context, userUUID string) ([]models.Answer, error)
}

// Archiver snapshots a user and their content before the user is deleted.
type Archiver struct {
	store     ArchiveWriter
	questions questionsByUser
	answers   answersByUser
	now       func() time.Time
}

func NewArchiver(store ArchiveWriter, questions questionsByUser, answers answersByUser) *Archiver {
	return &Archiver{
		store:     store,
		questions: questions,
		answers:   answers,
		now:       time.Now,
	}
}

type UserArchive struct {
	ArchivedAt time.Time         `json:"archivedAt"`
	User       ArchivedUser      `json:"user"`
	Questions  []ArchivedContent `json:"questions"`
	Answers    []ArchivedContent `json:"answers"`
}

// ArchivedUser omits credential material.
type ArchivedUser struct {
	UUID          string `json:"uuid"`
	FirstName     string `json:"firstName"`
	LastName      string `json:"lastName"`
	UserName      string `json:"userName"`
	Email         string `json:"emailAddress"`
	Country       string `json:"country"`
	AboutMe       string `json:"aboutMe"`
	DOB           string `json:"dob"`
	Role          string `json:"role"`
	ContactNumber string `json:"contactNumber"`
}

type ArchivedContent struct {
	UUID         string    `json:"uuid"`
	Content      string    `json:"content"`
	Date         time.Time `json:"date"`
	QuestionUUID string    `json:"questionId,omitempty"`
}

func (a *Archiver) Store(ctx context.Context, user models.User) error {
	questions, err := a.questions.ListByUser(ctx, user.UUID)
	if err != nil {
		return fmt.Errorf("list questions: %w", err)
	}
	answers, err := a.answers.ListByUser(ctx, user.UUID)
	if err != nil {
		return fmt.Errorf("list answers: %w", err)
	}

	now := a.now().UTC()
	snapshot := UserArchive{
		ArchivedAt: now,
		User: ArchivedUser{
			UUID:          user.UUID,
			FirstName:     user.FirstName,
			LastName:      user.LastName,
			UserName:      user.UserName,
			Email:         user.Email,
			Country:       user.Country,
			AboutMe:       user.AboutMe,
			DOB:           user.DOB,
			Role:          string(user.Role),
			ContactNumber: user.ContactNumber,
		},
		Questions: make([]ArchivedContent, 0, len(questions)),
		Answers:   make([]ArchivedContent, 0, len(answers)),
	}
	for _, q := range questions {
		snapshot.Questions = append(snapshot.Questions, ArchivedContent{UUID: q.UUID, Content: q.Content, Date: q.Date})
	}
	for _, ans := range answers {
		snapshot.Answers = append(snapshot.Answers, ArchivedContent{
			UUID:         ans.UUID,
			Content:      ans.Content,
			Date:         ans.Date,
			QuestionUUID: ans.Question.UUID,
		})
	}

	body, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("encode archive: %w", err)
	}
	return a.store.PutArchive(ctx, storage.ArchiveKey(user.UUID, now), body)
}
