package lib

import (
	"errors"
	"fmt"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

func TestDomainErrorsMatchTheirKind(t *testing.T) {
	assert.ErrorIs(t, NotFound("User not found"), ErrNotFound)
	assert.ErrorIs(t, Forbidden("nope"), ErrForbidden)
	assert.ErrorIs(t, SelfRequest("self"), ErrSelfRequest)
	assert.ErrorIs(t, Unauthorized("who"), ErrUnauthorized)
	assert.ErrorIs(t, NewConflict(ReasonBlocked, "blocked"), ErrConflict)
	assert.ErrorIs(t, NewValidation("email", "bad"), ErrValidation)

	assert.Equal(t, "User not found", NotFound("User not found").Error())
}

func TestConflictSurvivesWrapping(t *testing.T) {
	err := fmt.Errorf("request: %w", NewConflict(ReasonAlreadySent, "already sent"))

	var conflict *ConflictError
	if assert.True(t, errors.As(err, &conflict)) {
		assert.Equal(t, ReasonAlreadySent, conflict.Reason)
	}
	assert.ErrorIs(t, err, ErrConflict)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{SelfRequest("self"), fiber.StatusBadRequest},
		{NewValidation("", "bad"), fiber.StatusBadRequest},
		{NewConflict(ReasonAlreadyFriends, "friends"), fiber.StatusBadRequest},
		{Unauthorized("who"), fiber.StatusUnauthorized},
		{Forbidden("nope"), fiber.StatusForbidden},
		{NotFound("gone"), fiber.StatusNotFound},
		{fiber.ErrMethodNotAllowed, fiber.StatusMethodNotAllowed},
		{errors.New("boom"), fiber.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, StatusFor(tt.err), tt.err.Error())
	}
}
