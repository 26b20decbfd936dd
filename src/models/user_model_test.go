package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestPublicDtoHidesEmail(t *testing.T) {
	u := User{Id: primitive.NewObjectID(), FirstName: "Ada", LastName: "Lovelace", EmailId: "ada@example.com"}

	assert.Equal(t, "ada@example.com", u.Dto().EmailId)
	assert.Empty(t, u.PublicDto().EmailId)
	assert.Equal(t, u.Id, u.PublicDto().ID)
}

func TestProfileUpdateApplyOnlySetFields(t *testing.T) {
	u := User{FirstName: "Ada", LastName: "Lovelace", Age: 30}
	about := "analyst"
	age := 36

	ProfileUpdate{About: &about, Age: &age}.Apply(&u)

	assert.Equal(t, "Ada", u.FirstName)
	assert.Equal(t, "Lovelace", u.LastName)
	assert.Equal(t, "analyst", u.About)
	assert.Equal(t, 36, u.Age)
}
