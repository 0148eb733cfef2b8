package services

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/alumnihub/internal/app/models"
	"github.com/yigit/alumnihub/internal/app/models/dto"
	"github.com/yigit/alumnihub/internal/pkg/apperrors"
	"github.com/yigit/alumnihub/internal/pkg/auth"
)

func newLoginService(t *testing.T) (*AuthService, *auth.JWTService) {
	t.Helper()

	hash, err := auth.HashPassword("correct horse")
	require.NoError(t, err)

	store := newMemStore()
	store.addUser(1, "ada", models.RoleAlumni).PasswordHash = hash
	disabled := store.addUser(2, "grace", models.RoleAlumni)
	disabled.PasswordHash = hash
	disabled.IsActive = false
	store.admins["dean@school.test"] = &models.SchoolAdmin{
		ID: 5, SchoolID: 3, Email: "dean@school.test", PasswordHash: hash, FirstName: "Dean", IsActive: true,
	}

	jwtService := auth.NewJWTService(auth.JWTConfig{SecretKey: "test-secret", AccessTokenExp: time.Hour, TokenIssuer: "test"})
	return NewAuthService(fakeUserRepo{store}, fakeAdminRepo{store}, jwtService, zerolog.Nop()), jwtService
}

func TestLoginAlumni(t *testing.T) {
	t.Parallel()

	svc, jwtService := newLoginService(t)
	resp, err := svc.Login(context.Background(), &dto.LoginRequest{Email: "  ADA@alumni.test ", Password: "correct horse"})
	require.NoError(t, err)

	assert.Equal(t, "Bearer", resp.Token.TokenType)
	assert.EqualValues(t, 3600, resp.Token.ExpiresIn)
	assert.Equal(t, "alumni", resp.User.Role)

	claims, err := jwtService.ValidateAndExtractClaims(resp.Token.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, models.Principal{ID: 1, Role: models.RoleAlumni}, claims.Principal())
}

func TestLoginSchoolAdmin(t *testing.T) {
	t.Parallel()

	svc, jwtService := newLoginService(t)
	resp, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email: "dean@school.test", Password: "correct horse", AccountType: AccountTypeSchoolAdmin,
	})
	require.NoError(t, err)

	claims, err := jwtService.ValidateAndExtractClaims(resp.Token.AccessToken)
	require.NoError(t, err)
	p := claims.Principal()
	assert.Equal(t, models.RoleSchoolAdmin, p.Role)
	require.NotNil(t, p.SchoolID)
	assert.Equal(t, int64(3), *p.SchoolID)
}

func TestLoginFailures(t *testing.T) {
	t.Parallel()

	svc, _ := newLoginService(t)
	cases := []struct {
		name string
		req  dto.LoginRequest
		want error
	}{
		{"wrong password", dto.LoginRequest{Email: "ada@alumni.test", Password: "nope"}, apperrors.ErrInvalidCredentials},
		{"unknown email", dto.LoginRequest{Email: "who@alumni.test", Password: "correct horse"}, apperrors.ErrInvalidCredentials},
		{"wrong account type", dto.LoginRequest{Email: "ada@alumni.test", Password: "correct horse", AccountType: AccountTypeSchoolAdmin}, apperrors.ErrInvalidCredentials},
		{"disabled account", dto.LoginRequest{Email: "grace@alumni.test", Password: "correct horse"}, apperrors.ErrAccountDisabled},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Login(context.Background(), &tc.req)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}
