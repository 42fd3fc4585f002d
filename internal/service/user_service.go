package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/anup-shanbhag/TrelloQuora/internal/apperr"
	"github.com/anup-shanbhag/TrelloQuora/internal/events"
	"github.com/anup-shanbhag/TrelloQuora/internal/ids"
	"github.com/anup-shanbhag/TrelloQuora/internal/models"
	"github.com/anup-shanbhag/TrelloQuora/internal/policy"
	"github.com/anup-shanbhag/TrelloQuora/internal/repository"
	"github.com/anup-shanbhag/TrelloQuora/internal/security"
)

type CredentialHasher interface {
	Hash(password string) (salt string, digest string, err error)
	Verify(password string, salt string, digest string) bool
}

type UserService struct {
	users    UserStore
	sessions SessionAuthority
	hasher   CredentialHasher
	archive  *Archiver
	notify   notifier
	log      zerolog.Logger
}

// NewUserService wires the user operations. archive may be nil, in which case
// users are deleted without an audit copy.
func NewUserService(
	users UserStore,
	sessions SessionAuthority,
	hasher CredentialHasher,
	archive *Archiver,
	publisher EventPublisher,
	log zerolog.Logger,
) *UserService {
	return &UserService{
		users:    users,
		sessions: sessions,
		hasher:   hasher,
		archive:  archive,
		notify:   notifier{events: publisher, log: log},
		log:      log,
	}
}

type SignupInput struct {
	FirstName     string
	LastName      string
	UserName      string
	Email         string
	Password      string
	Country       string
	AboutMe       string
	DOB           string
	ContactNumber string
}

// Signup registers a regular (non-admin) user.
func (s *UserService) Signup(ctx context.Context, input SignupInput) (models.User, error) {
	user, err := s.register(ctx, input, models.UserRoleNonAdmin)
	if err != nil {
		return models.User{}, err
	}

	s.log.Info().Str("user_id", user.UUID).Msg("user registered")
	s.notify.publish(ctx, events.TypeUserRegistered, user, user.UUID)
	return user, nil
}

// EnsureAdmin creates an admin account unless the username or email is
// already registered. It is used once at startup to bootstrap a deployment.
func (s *UserService) EnsureAdmin(ctx context.Context, input SignupInput) (models.User, bool, error) {
	if existing, err := s.users.FindByUserNameOrEmail(ctx, input.UserName); err == nil {
		return existing, false, nil
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return models.User{}, false, apperr.Unexpected(fmt.Errorf("find user: %w", err))
	}

	user, err := s.register(ctx, input, models.UserRoleAdmin)
	if err != nil {
		if apperr.IsKind(err, apperr.KindDuplicateIdentity) {
			return models.User{}, false, nil
		}
		return models.User{}, false, err
	}

	s.log.Info().Str("user_id", user.UUID).Msg("admin account created")
	return user, true, nil
}

func (s *UserService) register(ctx context.Context, input SignupInput, role models.UserRole) (models.User, error) {
	salt, digest, err := s.hasher.Hash(input.Password)
	if err != nil {
		return models.User{}, apperr.Unexpected(err)
	}

	user := models.User{
		UUID:          ids.NewExternal(),
		FirstName:     input.FirstName,
		LastName:      input.LastName,
		UserName:      input.UserName,
		Email:         input.Email,
		Password:      digest,
		Salt:          salt,
		Country:       input.Country,
		AboutMe:       input.AboutMe,
		DOB:           input.DOB,
		Role:          role,
		ContactNumber: input.ContactNumber,
	}

	if err := s.users.Create(ctx, &user); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicateUserName):
			return models.User{}, apperr.New(apperr.UserNameTaken)
		case errors.Is(err, repository.ErrDuplicateEmail):
			return models.User{}, apperr.New(apperr.EmailTaken)
		default:
			return models.User{}, apperr.Unexpected(fmt.Errorf("create user: %w", err))
		}
	}
	return user, nil
}

// Signin checks a base64 "username password" envelope and opens a session.
// The identifier may be a username or an email address.
func (s *UserService) Signin(ctx context.Context, envelope string) (models.Session, error) {
	identifier, password, err := security.DecodeBasicCredentials(envelope)
	if err != nil {
		return models.Session{}, apperr.Wrap(apperr.MalformedCredentials, err)
	}

	user, err := s.users.FindByUserNameOrEmail(ctx, identifier)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return models.Session{}, apperr.New(apperr.UserNameNotFound)
		}
		return models.Session{}, apperr.Unexpected(fmt.Errorf("find user: %w", err))
	}

	if !s.hasher.Verify(password, user.Salt, user.Password) {
		return models.Session{}, apperr.New(apperr.WrongPassword)
	}

	session, err := s.sessions.Issue(ctx, user)
	if err != nil {
		return models.Session{}, err
	}

	s.notify.publish(ctx, events.TypeSignedIn, user, session.UUID)
	return session, nil
}

func (s *UserService) Signout(ctx context.Context, token string) (models.User, error) {
	user, err := s.sessions.Invalidate(ctx, token)
	if err != nil {
		return models.User{}, apperr.Recode(err, apperr.SignoutNotSignedIn)
	}

	s.notify.publish(ctx, events.TypeSignedOut, user, user.UUID)
	return user, nil
}

// Profile returns any user's profile to a signed-in caller.
func (s *UserService) Profile(ctx context.Context, token string, userUUID string) (models.User, error) {
	if _, err := resolve(ctx, s.sessions, token, apperr.ProfileSignedOut); err != nil {
		return models.User{}, err
	}

	user, err := s.users.GetByUUID(ctx, userUUID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return models.User{}, apperr.New(apperr.UserNotFound)
		}
		return models.User{}, apperr.Unexpected(fmt.Errorf("get user: %w", err))
	}
	return user, nil
}

// Sessions lists the caller's own active sessions, newest first.
func (s *UserService) Sessions(ctx context.Context, token string) ([]models.Session, error) {
	user, err := resolve(ctx, s.sessions, token, apperr.SessionsSignedOut)
	if err != nil {
		return nil, err
	}
	return s.sessions.ListActive(ctx, user)
}

// Delete removes a user and everything they own. Only admins may call it, and
// the role check happens before the target is looked up.
func (s *UserService) Delete(ctx context.Context, token string, userUUID string) (models.User, error) {
	acting, err := resolve(ctx, s.sessions, token, apperr.UserDeleteSignedOut)
	if err != nil {
		return models.User{}, err
	}

	if decision := policy.CanDeleteUser(acting); !decision.Allowed {
		return models.User{}, apperr.New(apperr.UserDeleteUnauthorized)
	}

	target, err := s.users.GetByUUID(ctx, userUUID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return models.User{}, apperr.New(apperr.UserDeleteNotFound)
		}
		return models.User{}, apperr.Unexpected(fmt.Errorf("get user: %w", err))
	}

	if s.archive != nil {
		if err := s.archive.Store(ctx, target); err != nil {
			return models.User{}, apperr.Unexpected(fmt.Errorf("archive user: %w", err))
		}
	}

	if err := s.users.Delete(ctx, target.UUID); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return models.User{}, apperr.New(apperr.UserDeleteNotFound)
		}
		return models.User{}, apperr.Unexpected(fmt.Errorf("delete user: %w", err))
	}

	s.sessions.Forget(ctx, target)

	s.log.Info().
		Str("user_id", target.UUID).
		Str("deleted_by", acting.UUID).
		Msg("user deleted")
	s.notify.publish(ctx, events.TypeUserDeleted, acting, target.UUID)
	return target, nil
}
