package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Post struct {
	Id          primitive.ObjectID   `json:"_id" bson:"_id,omitempty"`
	UserId      primitive.ObjectID   `json:"userId" bson:"userId"`
	Content     string               `json:"content" bson:"content"`
	Images      []string             `json:"images" bson:"images"`
	Videos      []string             `json:"videos" bson:"videos"`
	TaggedUsers []primitive.ObjectID `json:"taggedUsers" bson:"taggedUsers"`
	Likes       []Like               `json:"likes" bson:"likes"`
	Comments    []Comment            `json:"comments" bson:"comments"`
	IsActive    bool                 `json:"isActive" bson:"isActive"`
	CreatedAt   time.Time            `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time            `json:"updatedAt" bson:"updatedAt"`
}

type Like struct {
	UserId  primitive.ObjectID `json:"userId" bson:"userId"`
	LikedAt time.Time          `json:"likedAt" bson:"likedAt"`
}

type Comment struct {
	Id          primitive.ObjectID `json:"_id" bson:"_id"`
	UserId      primitive.ObjectID `json:"userId" bson:"userId"`
	Comment     string             `json:"comment" bson:"comment"`
	CommentedAt time.Time          `json:"commentedAt" bson:"commentedAt"`
}

// LikedBy reports whether userID already likes the post
func (p Post) LikedBy(userID primitive.ObjectID) bool {
	for _, like := range p.Likes {
		if like.UserId == userID {
			return true
		}
	}
	return false
}

type PostDto struct {
	ID          primitive.ObjectID `json:"_id"`
	Author      UserDto            `json:"author"`
	Content     string             `json:"content"`
	Images      []string           `json:"images"`
	Videos      []string           `json:"videos"`
	TaggedUsers []UserDto          `json:"taggedUsers"`
	Likes       []LikeDto          `json:"likes"`
	Comments    []CommentDto       `json:"comments"`
	CreatedAt   time.Time          `json:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt"`
}

type LikeDto struct {
	User    UserDto   `json:"user"`
	LikedAt time.Time `json:"likedAt"`
}

type CommentDto struct {
	ID          primitive.ObjectID `json:"_id"`
	Comment     string             `json:"comment"`
	User        UserDto            `json:"user"`
	CommentedAt time.Time          `json:"commentedAt"`
}

type PostRequest struct {
	Content     string   `json:"content" validate:"required,max=1000"`
	Images      []string `json:"images" validate:"omitempty,max=10,dive,imageurl"`
	Videos      []string `json:"videos" validate:"omitempty,max=5,dive,videourl"`
	TaggedUsers []string `json:"taggedUsers" validate:"omitempty,dive,objectid"`
}

type CommentRequest struct {
	Comment string `json:"comment" validate:"required,max=500"`
}

// LikeResult reports the like state after a toggle
type LikeResult struct {
	Liked bool `json:"liked"`
	Count int  `json:"count"`
}
