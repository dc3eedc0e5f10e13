package service

import (
	"context"
	"errors"
	"strings"

	dom "github.com/nicolaskelepuris/refactor-rails-app/internal/domain"
	"github.com/nicolaskelepuris/refactor-rails-app/internal/dto"
	"github.com/nicolaskelepuris/refactor-rails-app/internal/repo"
	"github.com/nicolaskelepuris/refactor-rails-app/internal/usecase"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Success tags produced by registration.
const (
	TypePasswordValidated usecase.Type = "password_validated"
	TypeUserCreated       usecase.Type = "user_created"
	TypeWelcomeEmailSent  usecase.Type = "welcome_email_sent"
)

// Notifier hands user events to delivery. SendWelcome must not block on
// delivery and its failures never reach the caller.
type Notifier interface {
	SendWelcome(ctx context.Context, u dom.User)
}

type RegisterUserInput struct {
	Name                 string
	Email                string
	Password             string
	PasswordConfirmation string
}

func (in RegisterUserInput) Normalize() (RegisterUserInput, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	in.Password = strings.TrimSpace(in.Password)
	in.PasswordConfirmation = strings.TrimSpace(in.PasswordConfirmation)
	return in, nil
}

// registration is the state threaded through the registration pipeline.
type registration struct {
	in   RegisterUserInput
	user dom.User
}

// UserService handles user registration and lookup.
type UserService struct {
	repo     repo.UserRepo
	notifier Notifier
	validate *validator.Validate
	hashCost int
	pipeline *usecase.Pipeline[registration]
}

// NewUserService returns a new UserService. notifier may be nil.
func NewUserService(r repo.UserRepo, notifier Notifier) *UserService {
	s := &UserService{
		repo:     r,
		notifier: notifier,
		validate: validator.New(),
		hashCost: bcrypt.DefaultCost,
	}
	s.pipeline = usecase.NewPipeline[registration](
		usecase.Func[registration, registration](s.validatePassword),
		usecase.Func[registration, registration](s.createUser),
		usecase.Func[registration, registration](s.sendWelcome),
	)
	return s
}

// WithHashCost sets the bcrypt cost used for new passwords.
func (s *UserService) WithHashCost(cost int) *UserService {
	s.hashCost = cost
	return s
}

// Register validates the password, creates the user, queues the welcome
// email and yields the public view with the token.
func (s *UserService) Register(ctx context.Context, in RegisterUserInput) (usecase.Result[dto.UserResponse], error) {
	r, err := s.pipeline.Call(ctx, registration{in: in})
	return usecase.Then[registration, dto.UserResponse](ctx, r, err, usecase.Func[registration, dto.UserResponse](
		func(_ context.Context, st registration) (usecase.Result[dto.UserResponse], error) {
			return usecase.Success(TypeUserCreated, dto.NewUserResponse(st.user)), nil
		}))
}

// FindByToken resolves a bearer token. ok is false when no user holds it.
func (s *UserService) FindByToken(ctx context.Context, token string) (u dom.User, ok bool, err error) {
	if usecase.Blank(token) {
		return dom.User{}, false, nil
	}
	u, err = s.repo.GetByToken(ctx, token)
	if errors.Is(err, repo.ErrNotFound) {
		return dom.User{}, false, nil
	}
	if err != nil {
		return dom.User{}, false, err
	}
	return u, true, nil
}

func (s *UserService) validatePassword(_ context.Context, st registration) (usecase.Result[registration], error) {
	errs := usecase.Errors{}
	errs.RequirePresent("password", st.in.Password)
	errs.RequirePresent("password_confirmation", st.in.PasswordConfirmation)
	if errs.Any() {
		return usecase.Unprocessable[registration](errs), nil
	}
	// Equality is only compared once both values are present.
	if !errs.Check(st.in.Password == st.in.PasswordConfirmation, "password_confirmation", usecase.MsgNoMatch) {
		return usecase.Unprocessable[registration](errs), nil
	}
	return usecase.Success(TypePasswordValidated, st), nil
}

func (s *UserService) createUser(ctx context.Context, st registration) (usecase.Result[registration], error) {
	errs := usecase.Errors{}
	errs.RequirePresent("name", st.in.Name)
	if !errs.RequirePresent("email", st.in.Email) {
		errs.Add("email", usecase.MsgInvalid)
	} else {
		errs.Check(s.validate.Var(st.in.Email, "email") == nil, "email", usecase.MsgInvalid)
	}
	if errs.Any() {
		return usecase.Unprocessable[registration](errs), nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(st.in.Password), s.hashCost)
	if err != nil {
		return usecase.Result[registration]{}, err
	}
	u, err := s.repo.Create(ctx, dom.User{
		Name:         st.in.Name,
		Email:        st.in.Email,
		Token:        uuid.NewString(),
		PasswordHash: string(hash),
	})
	if errors.Is(err, repo.ErrEmailTaken) {
		errs.Add("email", usecase.MsgTaken)
		return usecase.Unprocessable[registration](errs), nil
	}
	if err != nil {
		return usecase.Result[registration]{}, err
	}
	st.user = u
	return usecase.Success(TypeUserCreated, st), nil
}

// sendWelcome runs after the user row is committed. Delivery happens
// asynchronously and cannot turn the registration into a failure.
func (s *UserService) sendWelcome(ctx context.Context, st registration) (usecase.Result[registration], error) {
	if s.notifier != nil {
		s.notifier.SendWelcome(context.WithoutCancel(ctx), st.user)
	}
	return usecase.Success(TypeWelcomeEmailSent, st), nil
}
