package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"server/internal/adapter/repo/repotest"
	"server/internal/auth"
	"server/internal/domain"
)

const testSecret = "test-secret"

func newUserService() *UserService {
	return NewUserService(repotest.NewUserRepo(), testSecret, time.Hour)
}

func TestRegisterIssuesToken(t *testing.T) {
	svc := newUserService()
	user, token, err := svc.Register(context.Background(), RegisterInput{
		Name:     "Hope Shelter",
		Email:    "Hope@Example.com",
		Password: "secret1",
		Role:     domain.RoleNonprofit,
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if user.Email != "hope@example.com" {
		t.Fatalf("email not normalized: %q", user.Email)
	}

	claims, err := auth.VerifyToken(testSecret, token)
	if err != nil {
		t.Fatalf("VerifyToken: %v", err)
	}
	if claims.UserID != user.ID || claims.Role != domain.RoleNonprofit {
		t.Fatalf("claims = %+v, want user %s role NONPROFIT", claims, user.ID)
	}
}

func TestRegisterDefaultsToDonor(t *testing.T) {
	svc := newUserService()
	user, _, err := svc.Register(context.Background(), RegisterInput{
		Name: "Dana", Email: "dana@example.com", Password: "secret1",
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if user.Role != domain.RoleDonor {
		t.Fatalf("role = %s, want DONOR", user.Role)
	}
}

func TestRegisterValidation(t *testing.T) {
	svc := newUserService()
	tests := []struct {
		name string
		in   RegisterInput
		want error
	}{
		{"missing name", RegisterInput{Email: "a@b.c", Password: "secret1"}, domain.ErrInvalidInput},
		{"missing email", RegisterInput{Name: "A", Password: "secret1"}, domain.ErrInvalidInput},
		{"short password", RegisterInput{Name: "A", Email: "a@b.c", Password: "12345"}, domain.ErrInvalidInput},
		{"unknown role", RegisterInput{Name: "A", Email: "a@b.c", Password: "secret1", Role: "ADMIN"}, domain.ErrInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := svc.Register(context.Background(), tt.in); !errors.Is(err, tt.want) {
				t.Fatalf("Register() err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestRegisterDuplicateEmailConflicts(t *testing.T) {
	svc := newUserService()
	in := RegisterInput{Name: "Dana", Email: "dana@example.com", Password: "secret1"}
	if _, _, err := svc.Register(context.Background(), in); err != nil {
		t.Fatalf("first Register: %v", err)
	}
	if _, _, err := svc.Register(context.Background(), in); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("second Register err = %v, want ErrConflict", err)
	}
}

func TestLogin(t *testing.T) {
	svc := newUserService()
	registered, _, err := svc.Register(context.Background(), RegisterInput{
		Name: "Dana", Email: "dana@example.com", Password: "secret1",
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	user, token, err := svc.Login(context.Background(), "dana@example.com", "secret1")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if user.ID != registered.ID || token == "" {
		t.Fatalf("Login returned user %s with token %q", user.ID, token)
	}

	if _, _, err := svc.Login(context.Background(), "dana@example.com", "wrong"); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("wrong password err = %v, want ErrUnauthenticated", err)
	}
	if _, _, err := svc.Login(context.Background(), "nobody@example.com", "secret1"); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("unknown email err = %v, want ErrUnauthenticated", err)
	}
}
