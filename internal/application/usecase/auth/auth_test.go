package auth

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/spendwise/backend/internal/application/adapter"
	"github.com/spendwise/backend/internal/domain/entity"
	domainerror "github.com/spendwise/backend/internal/domain/error"
)

type fakeUserRepository struct {
	mu        sync.Mutex
	users     map[string]*entity.User
	createErr error
	existsErr error
}

func newFakeUserRepository() *fakeUserRepository {
	return &fakeUserRepository{users: map[string]*entity.User{}}
}

func (r *fakeUserRepository) Create(_ context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	r.users[user.Email] = user
	return nil
}

func (r *fakeUserRepository) FindByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, domainerror.ErrUserNotFound
}

func (r *fakeUserRepository) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[email]; ok {
		return u, nil
	}
	return nil, domainerror.ErrUserNotFound
}

func (r *fakeUserRepository) ExistsByEmail(_ context.Context, email string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.existsErr != nil {
		return false, r.existsErr
	}
	_, ok := r.users[email]
	return ok, nil
}

// fakePasswordService "hashes" by prefixing, keeping tests fast.
type fakePasswordService struct{}

func (fakePasswordService) HashPassword(password string) (string, error) {
	return "hashed:" + password, nil
}

func (fakePasswordService) VerifyPassword(hashedPassword, password string) error {
	if hashedPassword != "hashed:"+password {
		return errors.New("mismatch")
	}
	return nil
}

func (fakePasswordService) ValidatePasswordStrength(password string) error {
	if len(password) < 8 {
		return errors.New("too short")
	}
	return nil
}

type fakeTokenService struct{}

func (fakeTokenService) GenerateAccessToken(_ context.Context, userID uuid.UUID, _ string) (string, error) {
	return "token-" + userID.String(), nil
}

func (fakeTokenService) ValidateAccessToken(_ context.Context, token string) (*adapter.TokenClaims, error) {
	id, err := uuid.Parse(strings.TrimPrefix(token, "token-"))
	if err != nil {
		return nil, domainerror.ErrInvalidToken
	}
	return &adapter.TokenClaims{UserID: id, ExpiresAt: time.Now().Add(time.Hour)}, nil
}

func expectAuthCode(t *testing.T, err error, code domainerror.AuthErrorCode) {
	t.Helper()
	var authErr *domainerror.AuthError
	if !errors.As(err, &authErr) {
		t.Fatalf("expected *AuthError with code %s, got %v", code, err)
	}
	if authErr.Code != code {
		t.Errorf("expected code %s, got %s", code, authErr.Code)
	}
}

func TestSignupUseCase_Execute(t *testing.T) {
	tests := []struct {
		name     string
		input    SignupInput
		seed     bool
		wantCode domainerror.AuthErrorCode
	}{
		{name: "valid", input: SignupInput{Name: "Asha", Email: "asha@example.com", Password: "password123"}},
		{name: "missing name", input: SignupInput{Email: "asha@example.com", Password: "password123"}, wantCode: domainerror.ErrCodeMissingFields},
		{name: "blank password", input: SignupInput{Name: "Asha", Email: "asha@example.com", Password: "   "}, wantCode: domainerror.ErrCodeMissingFields},
		{name: "invalid email", input: SignupInput{Name: "Asha", Email: "not-an-email", Password: "password123"}, wantCode: domainerror.ErrCodeInvalidEmail},
		{name: "short password", input: SignupInput{Name: "Asha", Email: "asha@example.com", Password: "short"}, wantCode: domainerror.ErrCodeWeakPassword},
		{name: "duplicate email differs in case", input: SignupInput{Name: "Asha", Email: "  ASHA@Example.com ", Password: "password123"}, seed: true, wantCode: domainerror.ErrCodeEmailExists},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newFakeUserRepository()
			if tt.seed {
				repo.users["asha@example.com"] = entity.NewUser("Asha", "asha@example.com", "hashed:x")
			}
			uc := NewSignupUseCase(repo, fakePasswordService{}, fakeTokenService{})

			out, err := uc.Execute(context.Background(), tt.input)
			if tt.wantCode != "" {
				expectAuthCode(t, err, tt.wantCode)
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if out.Token != "token-"+out.User.ID.String() {
				t.Errorf("unexpected token %q", out.Token)
			}
			if out.User.PasswordHash != "hashed:password123" {
				t.Errorf("password not hashed: %q", out.User.PasswordHash)
			}
		})
	}
}

func TestSignupUseCase_NormalizesEmail(t *testing.T) {
	repo := newFakeUserRepository()
	uc := NewSignupUseCase(repo, fakePasswordService{}, fakeTokenService{})

	out, err := uc.Execute(context.Background(), SignupInput{Name: " Ravi ", Email: "  Ravi@Example.COM ", Password: "password123"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.User.Email != "ravi@example.com" {
		t.Errorf("expected normalized email, got %q", out.User.Email)
	}
	if out.User.Name != "Ravi" {
		t.Errorf("expected trimmed name, got %q", out.User.Name)
	}
}

func TestSignupUseCase_UniqueIndexRace(t *testing.T) {
	repo := newFakeUserRepository()
	repo.createErr = domainerror.ErrEmailAlreadyExists
	uc := NewSignupUseCase(repo, fakePasswordService{}, fakeTokenService{})

	_, err := uc.Execute(context.Background(), SignupInput{Name: "Asha", Email: "asha@example.com", Password: "password123"})
	expectAuthCode(t, err, domainerror.ErrCodeEmailExists)
}

func TestSignupUseCase_RepositoryFailure(t *testing.T) {
	repo := newFakeUserRepository()
	repo.existsErr = errors.New("db down")
	uc := NewSignupUseCase(repo, fakePasswordService{}, fakeTokenService{})

	_, err := uc.Execute(context.Background(), SignupInput{Name: "Asha", Email: "asha@example.com", Password: "password123"})
	if err == nil {
		t.Fatal("expected error")
	}
	var authErr *domainerror.AuthError
	if errors.As(err, &authErr) {
		t.Errorf("infrastructure failure should not be an AuthError, got %s", authErr.Code)
	}
}

func TestLoginUseCase_Execute(t *testing.T) {
	repo := newFakeUserRepository()
	user := entity.NewUser("Asha", "asha@example.com", "hashed:password123")
	repo.users[user.Email] = user
	uc := NewLoginUseCase(repo, fakePasswordService{}, fakeTokenService{})

	tests := []struct {
		name    string
		input   LoginInput
		wantErr bool
	}{
		{name: "valid", input: LoginInput{Email: "asha@example.com", Password: "password123"}},
		{name: "email case and spaces ignored", input: LoginInput{Email: " ASHA@example.com", Password: "password123"}},
		{name: "wrong password", input: LoginInput{Email: "asha@example.com", Password: "wrong-pass"}, wantErr: true},
		{name: "unknown email", input: LoginInput{Email: "nobody@example.com", Password: "password123"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := uc.Execute(context.Background(), tt.input)
			if tt.wantErr {
				expectAuthCode(t, err, domainerror.ErrCodeInvalidCredentials)
				if !strings.Contains(err.Error(), "invalid email or password") {
					t.Errorf("expected generic message, got %q", err.Error())
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if out.User.ID != user.ID {
				t.Errorf("expected user %s, got %s", user.ID, out.User.ID)
			}
		})
	}
}
