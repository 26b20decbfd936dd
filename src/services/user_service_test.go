package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theleywin/vibora/src/lib"
	"github.com/theleywin/vibora/src/models"
)

func TestSignupAndLogin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	user, token, err := f.svc.Users.Signup(ctx, models.SignupRequest{
		FirstName: "  Ana ",
		LastName:  "Lopez",
		EmailId:   " Ana@Example.COM ",
		Password:  testPassword,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, "Ana", user.FirstName)
	assert.Equal(t, "ana@example.com", user.EmailId)
	assert.NotEqual(t, testPassword, user.Password)

	logged, _, err := f.svc.Users.Login(ctx, models.LoginRequest{EmailId: "ANA@example.com", Password: testPassword})
	require.NoError(t, err)
	assert.Equal(t, user.Id, logged.Id)

	_, _, err = f.svc.Users.Login(ctx, models.LoginRequest{EmailId: "ana@example.com", Password: "Wrong0ne!"})
	assert.ErrorIs(t, err, lib.ErrUnauthorized)
	_, _, err = f.svc.Users.Login(ctx, models.LoginRequest{EmailId: "nobody@example.com", Password: testPassword})
	assert.EqualError(t, err, "Invalid credentials")

	authed, err := f.svc.Users.Authenticate(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, user.Id, authed.Id)
}

func TestSignupRejectsDuplicateEmail(t *testing.T) {
	f := newFixture(t)
	f.user(t, "Ana")

	_, _, err := f.svc.Users.Signup(context.Background(), models.SignupRequest{
		FirstName: "Other",
		LastName:  "Ana",
		EmailId:   "ANA@example.com",
		Password:  testPassword,
	})

	var conflict *lib.ConflictError
	require.True(t, errors.As(err, &conflict))
	assert.Equal(t, lib.ReasonEmailTaken, conflict.Reason)
}

func TestSignupValidation(t *testing.T) {
	f := newFixture(t)

	_, _, err := f.svc.Users.Signup(context.Background(), models.SignupRequest{
		FirstName: "Ana",
		LastName:  "Lopez",
		EmailId:   "ana@example.com",
		Password:  "password",
	})
	var invalid *lib.ValidationError
	require.True(t, errors.As(err, &invalid))
	assert.Equal(t, "password", invalid.Field)
	assert.Equal(t, "Password is not strong enough", invalid.Message)
}

func TestAuthenticateFailures(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Users.Authenticate(ctx, "")
	assert.EqualError(t, err, "Unauthorized - No Token Provided")

	_, err = f.svc.Users.Authenticate(ctx, "not-a-jwt")
	assert.EqualError(t, err, "Unauthorized - Invalid Token")

	foreign, err := lib.NewTokenIssuer("test-secret", time.Minute).GenerateJWT("64b7f0c2e1a2b3c4d5e6f708")
	require.NoError(t, err)
	_, err = f.svc.Users.Authenticate(ctx, foreign)
	assert.EqualError(t, err, "User not found")
}

func TestProfileHidesEmailFromOthers(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ana, bob := f.user(t, "Ana"), f.user(t, "Bob")

	own, err := f.svc.Users.Profile(ctx, ana, ana)
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", own.EmailId)

	public, err := f.svc.Users.Profile(ctx, bob, ana)
	require.NoError(t, err)
	assert.Empty(t, public.EmailId)
	assert.Equal(t, "Ana", public.FirstName)
}

func TestUpdateProfile(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ana := f.user(t, "Ana")
	f.user(t, "Bob")

	updated, err := f.svc.Users.UpdateProfile(ctx, ana, []byte(`{"about":"hiking","age":31}`))
	require.NoError(t, err)
	assert.Equal(t, "hiking", updated.About)
	assert.Equal(t, 31, updated.Age)
	assert.Equal(t, "Ana", updated.FirstName)

	_, err = f.svc.Users.UpdateProfile(ctx, ana, []byte(`{"password":"x"}`))
	var invalid *lib.ValidationError
	require.True(t, errors.As(err, &invalid))
	assert.Equal(t, "password", invalid.Field)
	assert.Equal(t, "Invalid edit request", invalid.Message)

	_, err = f.svc.Users.UpdateProfile(ctx, ana, []byte(`{}`))
	assert.EqualError(t, err, "Nothing to update")

	_, err = f.svc.Users.UpdateProfile(ctx, ana, []byte(`{"emailId":"BOB@example.com"}`))
	assert.ErrorIs(t, err, lib.ErrConflict)

	// the password hash survives profile edits
	_, _, err = f.svc.Users.Login(ctx, models.LoginRequest{EmailId: "ana@example.com", Password: testPassword})
	assert.NoError(t, err)
}

func TestChangePassword(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ana := f.user(t, "Ana")

	err := f.svc.Users.ChangePassword(ctx, ana, models.PasswordChangeRequest{OldPassword: "Wrong0ne!", NewPassword: "N3w-secret"})
	assert.EqualError(t, err, "Current password is incorrect")

	err = f.svc.Users.ChangePassword(ctx, ana, models.PasswordChangeRequest{OldPassword: testPassword, NewPassword: testPassword})
	assert.ErrorIs(t, err, lib.ErrValidation)

	require.NoError(t, f.svc.Users.ChangePassword(ctx, ana, models.PasswordChangeRequest{OldPassword: testPassword, NewPassword: "N3w-secret"}))

	_, _, err = f.svc.Users.Login(ctx, models.LoginRequest{EmailId: "ana@example.com", Password: "N3w-secret"})
	assert.NoError(t, err)
}

func TestDeleteAccountDeactivates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ana, bob := f.user(t, "Ana"), f.user(t, "Bob")

	_, token, err := f.svc.Users.Login(ctx, models.LoginRequest{EmailId: "ana@example.com", Password: testPassword})
	require.NoError(t, err)

	assert.ErrorIs(t, f.svc.Users.DeleteAccount(ctx, ana, models.DeleteAccountRequest{}), lib.ErrValidation)
	assert.EqualError(t, f.svc.Users.DeleteAccount(ctx, ana, models.DeleteAccountRequest{Password: "Wrong0ne!"}), "Incorrect password")
	require.NoError(t, f.svc.Users.DeleteAccount(ctx, ana, models.DeleteAccountRequest{Password: testPassword}))

	_, err = f.svc.Users.Authenticate(ctx, token)
	assert.EqualError(t, err, "Account is deactivated")

	_, _, err = f.svc.Users.Login(ctx, models.LoginRequest{EmailId: "ana@example.com", Password: testPassword})
	assert.ErrorIs(t, err, lib.ErrUnauthorized)

	_, err = f.svc.Users.Profile(ctx, bob, ana)
	assert.ErrorIs(t, err, lib.ErrNotFound)

	_, err = f.svc.Connections.Request(ctx, bob, ana)
	assert.ErrorIs(t, err, lib.ErrNotFound)
}
