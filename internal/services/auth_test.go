package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"ingresso-platform/internal/models"
)

type fakeUserStore struct {
	users  map[int]*models.User
	nextID int
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[int]*models.User), nextID: 1}
}

func (f *fakeUserStore) Create(ctx context.Context, user *models.User) error {
	for _, existing := range f.users {
		if existing.Email == user.Email || existing.TaxID == user.TaxID {
			return models.ErrDuplicateEntry
		}
	}
	user.ID = f.nextID
	f.nextID++
	copied := *user
	f.users[user.ID] = &copied
	return nil
}

func (f *fakeUserStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, user := range f.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, models.ErrUserNotFound
}

func (f *fakeUserStore) GetByID(ctx context.Context, id int) (*models.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, models.ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

func newAuthService(store *fakeUserStore) *AuthService {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return NewAuthService(store, "test-secret", time.Hour, logger)
}

func validRegistration() *models.UserCreateRequest {
	return &models.UserCreateRequest{
		Name:     "Maria Silva",
		TaxID:    "529.982.247-25",
		Email:    "maria@example.com",
		Password: "a-strong-password",
	}
}

func TestRegisterAndParseToken(t *testing.T) {
	store := newFakeUserStore()
	svc := newAuthService(store)

	resp, err := svc.Register(context.Background(), validRegistration())
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	if resp.User.TaxID != "52998224725" {
		t.Errorf("tax id = %q, want normalized digits", resp.User.TaxID)
	}
	if resp.User.PasswordHash == "a-strong-password" {
		t.Error("password stored in plain text")
	}

	claims, err := svc.ParseToken(resp.Token)
	if err != nil {
		t.Fatalf("ParseToken() error = %v", err)
	}
	if claims.UserID != resp.User.ID {
		t.Errorf("claims user id = %d, want %d", claims.UserID, resp.User.ID)
	}
	if claims.TaxID != "52998224725" {
		t.Errorf("claims tax id = %q, want normalized digits", claims.TaxID)
	}
}

func TestRegisterDuplicate(t *testing.T) {
	store := newFakeUserStore()
	svc := newAuthService(store)

	if _, err := svc.Register(context.Background(), validRegistration()); err != nil {
		t.Fatalf("first Register() error = %v", err)
	}

	_, err := svc.Register(context.Background(), validRegistration())
	if !errors.Is(err, models.ErrInvalidRequest) {
		t.Errorf("error = %v, want ErrInvalidRequest for duplicate registration", err)
	}
}

func TestRegisterValidation(t *testing.T) {
	svc := newAuthService(newFakeUserStore())

	tests := []struct {
		name   string
		mutate func(*models.UserCreateRequest)
	}{
		{"missing name", func(r *models.UserCreateRequest) { r.Name = "" }},
		{"bad tax id", func(r *models.UserCreateRequest) { r.TaxID = "123" }},
		{"bad email", func(r *models.UserCreateRequest) { r.Email = "not-an-email" }},
		{"short password", func(r *models.UserCreateRequest) { r.Password = "short" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRegistration()
			tt.mutate(req)
			_, err := svc.Register(context.Background(), req)
			if !errors.Is(err, models.ErrInvalidRequest) {
				t.Errorf("error = %v, want ErrInvalidRequest", err)
			}
		})
	}
}

func TestLogin(t *testing.T) {
	store := newFakeUserStore()
	svc := newAuthService(store)

	if _, err := svc.Register(context.Background(), validRegistration()); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	resp, err := svc.Login(context.Background(), &LoginRequest{
		Email:    "maria@example.com",
		Password: "a-strong-password",
	})
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if resp.Token == "" {
		t.Error("expected a token")
	}
}

func TestLoginBadCredentials(t *testing.T) {
	store := newFakeUserStore()
	svc := newAuthService(store)

	if _, err := svc.Register(context.Background(), validRegistration()); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	// Wrong password and unknown email must be indistinguishable.
	_, wrongPass := svc.Login(context.Background(), &LoginRequest{
		Email:    "maria@example.com",
		Password: "not-the-password",
	})
	_, unknownEmail := svc.Login(context.Background(), &LoginRequest{
		Email:    "nobody@example.com",
		Password: "a-strong-password",
	})

	if !errors.Is(wrongPass, models.ErrUnauthenticated) {
		t.Errorf("wrong password error = %v, want ErrUnauthenticated", wrongPass)
	}
	if !errors.Is(unknownEmail, models.ErrUnauthenticated) {
		t.Errorf("unknown email error = %v, want ErrUnauthenticated", unknownEmail)
	}
}

func TestParseTokenRejectsTampering(t *testing.T) {
	store := newFakeUserStore()
	svc := newAuthService(store)

	resp, err := svc.Register(context.Background(), validRegistration())
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	other := NewAuthService(store, "different-secret", time.Hour, nil)
	if _, err := other.ParseToken(resp.Token); !errors.Is(err, models.ErrUnauthenticated) {
		t.Errorf("error = %v, want ErrUnauthenticated for wrong secret", err)
	}

	if _, err := svc.ParseToken("garbage.token.here"); !errors.Is(err, models.ErrUnauthenticated) {
		t.Errorf("error = %v, want ErrUnauthenticated for garbage token", err)
	}
}

func TestParseTokenExpired(t *testing.T) {
	store := newFakeUserStore()
	expired := NewAuthService(store, "test-secret", -time.Minute, nil)

	resp, err := expired.Register(context.Background(), validRegistration())
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	if _, err := expired.ParseToken(resp.Token); !errors.Is(err, models.ErrUnauthenticated) {
		t.Errorf("error = %v, want ErrUnauthenticated for expired token", err)
	}
}
