package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Message struct {
	Id          primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	SenderId    primitive.ObjectID `json:"senderId" bson:"senderId"`
	ReceiverId  primitive.ObjectID `json:"receiverId" bson:"receiverId"`
	Message     string             `json:"message" bson:"message"`
	MessageType MessageType        `json:"messageType" bson:"messageType"`
	MediaUrl    string             `json:"mediaUrl,omitempty" bson:"mediaUrl,omitempty"`
	IsRead      bool               `json:"isRead" bson:"isRead"`
	ReadAt      *time.Time         `json:"readAt,omitempty" bson:"readAt,omitempty"`
	CreatedAt   time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt" bson:"updatedAt"`
}

type MessageType string

const (
	MessageTypeText  MessageType = "text"
	MessageTypeImage MessageType = "image"
	MessageTypeVideo MessageType = "video"
)

type MessageRequest struct {
	Message     string `json:"message" validate:"required,max=1000"`
	MessageType string `json:"messageType" validate:"omitempty,oneof=text image video"`
	MediaUrl    string `json:"mediaUrl" validate:"omitempty,mediaurl"`
}

// Conversation is the latest message exchanged with one partner
type Conversation struct {
	PartnerId   primitive.ObjectID `json:"partnerId" bson:"_id"`
	Partner     *UserDto           `json:"partner,omitempty" bson:"-"`
	LastMessage Message            `json:"lastMessage" bson:"lastMessage"`
	UnreadCount int64              `json:"unreadCount" bson:"unreadCount"`
}
