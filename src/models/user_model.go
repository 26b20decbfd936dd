package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type User struct {
	Id        primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	FirstName string             `json:"firstName" bson:"firstName"`
	LastName  string             `json:"lastName" bson:"lastName"`
	EmailId   string             `json:"emailId" bson:"emailId"`
	Password  string             `json:"-" bson:"password"`
	Age       int                `json:"age,omitempty" bson:"age,omitempty"`
	Gender    string             `json:"gender,omitempty" bson:"gender,omitempty"`
	About     string             `json:"about,omitempty" bson:"about,omitempty"`
	PhotoUrl  string             `json:"photoUrl,omitempty" bson:"photoUrl,omitempty"`
	IsActive  bool               `json:"isActive" bson:"isActive"`
	DeletedAt *time.Time         `json:"-" bson:"deletedAt,omitempty"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// UserDto is the public projection of a user embedded in other responses
type UserDto struct {
	ID        primitive.ObjectID `json:"_id"`
	FirstName string             `json:"firstName"`
	LastName  string             `json:"lastName"`
	EmailId   string             `json:"emailId,omitempty"`
	Age       int                `json:"age,omitempty"`
	Gender    string             `json:"gender,omitempty"`
	About     string             `json:"about,omitempty"`
	PhotoUrl  string             `json:"photoUrl,omitempty"`
}

func (u User) Dto() UserDto {
	return UserDto{
		ID:        u.Id,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		EmailId:   u.EmailId,
		Age:       u.Age,
		Gender:    u.Gender,
		About:     u.About,
		PhotoUrl:  u.PhotoUrl,
	}
}

// PublicDto hides the email address for profiles viewed by other users
func (u User) PublicDto() UserDto {
	dto := u.Dto()
	dto.EmailId = ""
	return dto
}

// ProfileUpdate holds the editable profile fields. Nil means unchanged.
type ProfileUpdate struct {
	FirstName *string `json:"firstName" validate:"omitempty,min=1,max=50"`
	LastName  *string `json:"lastName" validate:"omitempty,min=1,max=50"`
	EmailId   *string `json:"emailId" validate:"omitempty,email"`
	Age       *int    `json:"age" validate:"omitempty,gte=18,lte=120"`
	About     *string `json:"about" validate:"omitempty,max=500"`
	Gender    *string `json:"gender" validate:"omitempty,oneof=male female other"`
	PhotoUrl  *string `json:"photoUrl" validate:"omitempty,url"`
}

// EditableProfileFields are the only keys accepted by the profile edit endpoint
var EditableProfileFields = []string{"firstName", "lastName", "emailId", "age", "about", "gender", "photoUrl"}

// Apply copies the set fields onto the user
func (p ProfileUpdate) Apply(u *User) {
	if p.FirstName != nil {
		u.FirstName = *p.FirstName
	}
	if p.LastName != nil {
		u.LastName = *p.LastName
	}
	if p.EmailId != nil {
		u.EmailId = *p.EmailId
	}
	if p.Age != nil {
		u.Age = *p.Age
	}
	if p.About != nil {
		u.About = *p.About
	}
	if p.Gender != nil {
		u.Gender = *p.Gender
	}
	if p.PhotoUrl != nil {
		u.PhotoUrl = *p.PhotoUrl
	}
}

type SignupRequest struct {
	FirstName string `json:"firstName" validate:"required,max=50"`
	LastName  string `json:"lastName" validate:"required,max=50"`
	EmailId   string `json:"emailId" validate:"required,email"`
	Password  string `json:"password" validate:"required,strongpassword"`
}

type LoginRequest struct {
	EmailId  string `json:"emailId" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type PasswordChangeRequest struct {
	OldPassword string `json:"oldPassword" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,strongpassword"`
}

type DeleteAccountRequest struct {
	Password string `json:"password"`
}
