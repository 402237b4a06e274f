package application

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/kopidesk/identity-service/internal/domain/entity"
	repo "github.com/kopidesk/identity-service/internal/domain/repository"
	"github.com/kopidesk/identity-service/pkg/helpers"
	"github.com/kopidesk/identity-service/pkg/mailer"
	tpl "github.com/kopidesk/identity-service/pkg/mailer/templates"
)

var (
	// ErrInvalidCredentials covers bad logins, bad tokens and bad
	// verification codes. "No such user" and "wrong secret" are deliberately
	// indistinguishable to avoid account enumeration.
	ErrInvalidCredentials     = errors.New("invalid credentials")
	ErrUserNotFound           = errors.New("user not found")
	ErrDuplicateEmail         = errors.New("email already registered")
	ErrInsufficientPermission = errors.New("not enough permissions")
	ErrCannotChangeOwnRole    = errors.New("cannot change own role")
)

const (
	defaultListLimit = 100
	viewCacheTTL     = 5 * time.Minute
)

// Service implements the identity use cases. Redis and Pub are optional
// collaborators; a nil value disables caching or email delivery.
type Service struct {
	Repo        repo.UserRepository
	JWT         *helpers.JWTManager
	Redis       *redis.Client
	Logger      *logrus.Logger
	Pub         *helpers.RabbitPublisher
	MailEnabled bool
}

func NewService(repo repo.UserRepository, jwt *helpers.JWTManager, rdb *redis.Client, logger *logrus.Logger, pub *helpers.RabbitPublisher, mailEnabled bool) *Service {
	return &Service{
		Repo:        repo,
		JWT:         jwt,
		Redis:       rdb,
		Logger:      logger,
		Pub:         pub,
		MailEnabled: mailEnabled,
	}
}

// UserView is the sanitized record exposed to callers: the password hash
// and the verification code never leave the service.
type UserView struct {
	ID         string      `json:"id"`
	Email      string      `json:"email"`
	FullName   string      `json:"full_name"`
	Role       entity.Role `json:"role"`
	IsVerified bool        `json:"is_verified"`
	CreatedAt  time.Time   `json:"created_at"`
}

func ViewOf(u *entity.User) *UserView {
	return &UserView{
		ID:         u.ID,
		Email:      u.Email,
		FullName:   u.FullName,
		Role:       u.Role,
		IsVerified: u.IsVerified,
		CreatedAt:  u.CreatedAt,
	}
}

type TokenPair struct {
	AccessToken        string
	AccessTokenExpiry  time.Time
	RefreshToken       string
	RefreshTokenExpiry time.Time
}

// UpdateUserInput is the change set for UpdateUser. Nil fields are left
// untouched.
type UpdateUserInput struct {
	FullName *string
	Role     *entity.Role
}

// NormalizeEmail lower-cases and trims an address. Uniqueness and lookups
// are effectively case-insensitive because every email passes through here.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func viewCacheKey(id string) string {
	return "user:view:" + id
}

// Signup registers a new unverified user and hands the verification code to
// the notification queue.
func (s *Service) Signup(ctx context.Context, email, fullName, password string) (*UserView, error) {
	email = NormalizeEmail(email)

	code, err := helpers.GenVerificationCode()
	if err != nil {
		return nil, err
	}
	hash, err := helpers.HashPassword(password)
	if err != nil {
		return nil, err
	}

	u := &entity.User{
		Email:            email,
		FullName:         fullName,
		PasswordHash:     hash,
		Role:             entity.RoleUser,
		IsVerified:       false,
		VerificationCode: code,
	}
	if err := s.Repo.Create(ctx, u); err != nil {
		if errors.Is(err, repo.ErrDuplicateEmail) {
			return nil, ErrDuplicateEmail
		}
		return nil, err
	}

	s.sendVerificationCode(ctx, u)
	return ViewOf(u), nil
}

func (s *Service) sendVerificationCode(ctx context.Context, u *entity.User) {
	if s.Pub == nil || !s.MailEnabled {
		if s.Logger != nil {
			s.Logger.WithFields(logrus.Fields{"email": u.Email, "code": u.VerificationCode}).
				Debug("mail delivery disabled; verification code not sent")
		}
		return
	}
	job := mailer.EmailJob{
		To:       u.Email,
		Template: tpl.VerifyEmail,
		Data:     map[string]any{"Name": u.FullName, "Code": u.VerificationCode},
	}
	if err := s.Pub.PublishJSON(ctx, job); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("email", u.Email).Warn("failed to enqueue verification email")
	}
}

// Authenticate validates email/password and returns the user without
// issuing tokens. Absent user and wrong password fail identically.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*entity.User, error) {
	u, err := s.Repo.GetByEmail(ctx, NormalizeEmail(email))
	if err != nil || u == nil {
		return nil, ErrInvalidCredentials
	}
	if !helpers.CheckPassword(u.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

// Login authenticates and issues an access/refresh token pair.
func (s *Service) Login(ctx context.Context, email, password string) (*UserView, TokenPair, error) {
	u, err := s.Authenticate(ctx, email, password)
	if err != nil {
		return nil, TokenPair{}, err
	}
	pair, err := s.issueTokens(u)
	if err != nil {
		return nil, TokenPair{}, err
	}
	return ViewOf(u), pair, nil
}

func (s *Service) issueTokens(u *entity.User) (TokenPair, error) {
	access, aexp, err := s.JWT.GenerateAccessToken(u.Email)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID).Error("generate access token failed")
		}
		return TokenPair{}, err
	}
	refresh, rexp, err := s.JWT.GenerateRefreshToken(u.Email)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID).Error("generate refresh token failed")
		}
		return TokenPair{}, err
	}
	return TokenPair{AccessToken: access, AccessTokenExpiry: aexp, RefreshToken: refresh, RefreshTokenExpiry: rexp}, nil
}

// Refresh mints a new access token from a valid refresh token. Expired and
// malformed tokens surface as their typed failures; an access token
// presented here fails like any other wrong credential.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (string, time.Time, error) {
	claims, err := s.JWT.Parse(refreshToken)
	if err != nil {
		return "", time.Time{}, err
	}
	if !claims.IsRefresh() {
		return "", time.Time{}, ErrInvalidCredentials
	}
	u, err := s.Repo.GetByEmail(ctx, claims.Subject)
	if err != nil || u == nil {
		return "", time.Time{}, ErrInvalidCredentials
	}
	return s.JWT.GenerateAccessToken(u.Email)
}

// VerifyEmail consumes the one-time code. Absent user, wrong code and an
// already-consumed code all fail the same way.
func (s *Service) VerifyEmail(ctx context.Context, email, code string) error {
	email = NormalizeEmail(email)
	consumed, err := s.Repo.ConsumeVerificationCode(ctx, email, code)
	if err != nil {
		return err
	}
	if !consumed {
		return ErrInvalidCredentials
	}

	u, err := s.Repo.GetByEmail(ctx, email)
	if err == nil && u != nil {
		s.invalidateView(ctx, u.ID)
		s.sendWelcome(ctx, u)
	}
	return nil
}

func (s *Service) sendWelcome(ctx context.Context, u *entity.User) {
	if s.Pub == nil || !s.MailEnabled {
		return
	}
	job := mailer.EmailJob{
		To:       u.Email,
		Template: tpl.Welcome,
		Data:     map[string]any{"Name": u.FullName},
	}
	if err := s.Pub.PublishJSON(ctx, job); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("email", u.Email).Warn("failed to enqueue welcome email")
	}
}

// ResolveSubject turns a token subject into the caller identity. Used by
// the auth middleware; an unknown subject is an invalid credential.
func (s *Service) ResolveSubject(ctx context.Context, email string) (*entity.User, error) {
	u, err := s.Repo.GetByEmail(ctx, email)
	if err != nil || u == nil {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

// GetSelf returns the caller's own record view.
func (s *Service) GetSelf(caller *entity.User) *UserView {
	return ViewOf(caller)
}

// ListUsers returns a page of user views. Admin only.
func (s *Service) ListUsers(ctx context.Context, caller *entity.User, skip, limit int) ([]*UserView, error) {
	if err := CanAdminister(caller); err != nil {
		return nil, err
	}
	if skip < 0 {
		skip = 0
	}
	if limit <= 0 {
		limit = defaultListLimit
	}
	users, err := s.Repo.List(ctx, skip, limit)
	if err != nil {
		return nil, err
	}
	views := make([]*UserView, 0, len(users))
	for _, u := range users {
		views = append(views, ViewOf(u))
	}
	return views, nil
}

// GetUser returns a single user view by id. Admin only.
func (s *Service) GetUser(ctx context.Context, caller *entity.User, targetID string) (*UserView, error) {
	if err := CanAdminister(caller); err != nil {
		return nil, err
	}

	if s.Redis != nil {
		var cached UserView
		if ok, err := helpers.RedisGetJSON(ctx, s.Redis, viewCacheKey(targetID), &cached); err == nil && ok {
			return &cached, nil
		}
	}

	u, err := s.Repo.GetByID(ctx, targetID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	view := ViewOf(u)
	s.cacheView(ctx, view)
	return view, nil
}

// UpdateUser applies a change set to the target. The target is resolved
// before any permission decision, so a missing target reads as not-found
// even to callers who would have been denied.
func (s *Service) UpdateUser(ctx context.Context, caller *entity.User, targetID string, in UpdateUserInput) (*UserView, error) {
	target, err := s.Repo.GetByID(ctx, targetID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	mode, err := CanUpdate(caller, target.ID)
	if err != nil {
		return nil, err
	}
	if err := CheckUpdateFields(mode, in); err != nil {
		return nil, err
	}

	if in.FullName != nil {
		target.FullName = *in.FullName
	}
	if in.Role != nil {
		target.Role = *in.Role
	}

	if err := s.Repo.Update(ctx, target); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	s.invalidateView(ctx, target.ID)
	return ViewOf(target), nil
}

// DeleteUser removes the target user. Admin only; the target is resolved
// through the delete itself.
func (s *Service) DeleteUser(ctx context.Context, caller *entity.User, targetID string) error {
	if err := CanAdminister(caller); err != nil {
		return err
	}
	if err := s.Repo.Delete(ctx, targetID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	s.invalidateView(ctx, targetID)
	return nil
}

func (s *Service) cacheView(ctx context.Context, view *UserView) {
	if s.Redis == nil {
		return
	}
	if err := helpers.RedisSetJSON(ctx, s.Redis, viewCacheKey(view.ID), view, viewCacheTTL); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("user_id", view.ID).Warn("user view cache write failed")
	}
}

func (s *Service) invalidateView(ctx context.Context, id string) {
	if s.Redis == nil {
		return
	}
	if err := helpers.RedisDel(ctx, s.Redis, viewCacheKey(id)); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("user_id", id).Warn("user view cache invalidation failed")
	}
}
