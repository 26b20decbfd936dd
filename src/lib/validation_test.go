package lib

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsStrongPassword(t *testing.T) {
	assert.True(t, IsStrongPassword("Passw0rd!"))

	assert.False(t, IsStrongPassword("Pa0!"), "too short")
	assert.False(t, IsStrongPassword("password0!"), "no uppercase")
	assert.False(t, IsStrongPassword("PASSWORD0!"), "no lowercase")
	assert.False(t, IsStrongPassword("Password!!"), "no digit")
	assert.False(t, IsStrongPassword("Password00"), "no symbol")
}

type sample struct {
	Email  string   `json:"emailId" validate:"required,email"`
	Images []string `json:"images" validate:"omitempty,max=2,dive,imageurl"`
	Media  string   `json:"mediaUrl" validate:"omitempty,mediaurl"`
	Tag    string   `json:"tag" validate:"omitempty,objectid"`
}

func TestValidateReportsJSONFieldNames(t *testing.T) {
	err := Validate(sample{})

	var invalid *ValidationError
	if assert.True(t, errors.As(err, &invalid)) {
		assert.Equal(t, "emailId", invalid.Field)
		assert.Equal(t, "emailId is required", invalid.Message)
	}
}

func TestValidateCustomTags(t *testing.T) {
	ok := sample{
		Email:  "a@b.co",
		Images: []string{"https://cdn.example.com/a.png", "http://example.com/b.JPG?x=1"},
		Media:  "https://example.com/clip.mp4",
		Tag:    "0123456789abcdef01234567",
	}
	assert.NoError(t, Validate(ok))

	bad := ok
	bad.Images = []string{"https://example.com/a.pdf"}
	assert.ErrorIs(t, Validate(bad), ErrValidation)

	bad = ok
	bad.Images = []string{"https://a.com/1.png", "https://a.com/2.png", "https://a.com/3.png"}
	err := Validate(bad)
	assert.EqualError(t, err, "images can have at most 2 items")

	bad = ok
	bad.Media = "ftp://example.com/clip.mp4"
	assert.EqualError(t, Validate(bad), "Invalid media URL")

	bad = ok
	bad.Tag = "not-an-id"
	assert.EqualError(t, Validate(bad), "tag must be a valid id")
}
