package app_test

import (
	"context"
	"errors"
	"testing"

	"villa_mare/internal/app"
	"villa_mare/internal/domain"
)

func TestLogin(t *testing.T) {
	admins := &fakeAdmins{
		users: map[string]domain.AdminUser{
			"owner@villamare.example": {ID: "u1", Email: "owner@villamare.example", PasswordHash: "segreto"},
			"guest@villamare.example": {ID: "u2", Email: "guest@villamare.example", PasswordHash: "segreto"},
		},
		roles: map[string]bool{"u1": true},
	}
	svc := app.NewAuthService(admins, fakeAuth{})

	cases := []struct {
		name    string
		req     app.LoginRequest
		want    string
		wantErr error
	}{
		{"ok, email normalized", app.LoginRequest{Email: " Owner@VillaMare.example ", Password: "segreto"}, "token-u1", nil},
		{"wrong password", app.LoginRequest{Email: "owner@villamare.example", Password: "x"}, "", domain.ErrUnauthorized},
		{"unknown user", app.LoginRequest{Email: "nobody@villamare.example", Password: "segreto"}, "", domain.ErrUnauthorized},
		{"no admin role", app.LoginRequest{Email: "guest@villamare.example", Password: "segreto"}, "", domain.ErrForbidden},
		{"missing password", app.LoginRequest{Email: "owner@villamare.example"}, "", domain.ErrInvalidInput},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tok, err := svc.Login(context.Background(), tc.req)
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("expected %v, got %v", tc.wantErr, err)
				}
				return
			}
			if err != nil || tok != tc.want {
				t.Fatalf("got %q, %v", tok, err)
			}
		})
	}
}
