package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ConnectionRequest struct {
	Id         primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	FromUserId primitive.ObjectID `json:"fromUserId" bson:"fromUserId"`
	ToUserId   primitive.ObjectID `json:"toUserId" bson:"toUserId"`
	PairKey    string             `json:"-" bson:"pairKey"` // unique per unordered pair
	Status     ConnectionStatus   `json:"status" bson:"status"`
	CreatedAt  time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt  time.Time          `json:"updatedAt" bson:"updatedAt"`
}

type ConnectionStatus string

const (
	ConnectionStatusPending  ConnectionStatus = "pending"
	ConnectionStatusAccepted ConnectionStatus = "accepted"
	ConnectionStatusRejected ConnectionStatus = "rejected"
	ConnectionStatusBlocked  ConnectionStatus = "blocked"
)

// PairKey returns the same key for (a, b) and (b, a): the smaller hex id first.
func PairKey(a, b primitive.ObjectID) string {
	x, y := a.Hex(), b.Hex()
	if x > y {
		x, y = y, x
	}
	return x + ":" + y
}

// NewConnectionRequest builds a directed row with its pair key filled in
func NewConnectionRequest(from, to primitive.ObjectID, status ConnectionStatus) *ConnectionRequest {
	return &ConnectionRequest{
		FromUserId: from,
		ToUserId:   to,
		PairKey:    PairKey(from, to),
		Status:     status,
	}
}

// Peer returns the endpoint that is not userID
func (c ConnectionRequest) Peer(userID primitive.ObjectID) primitive.ObjectID {
	if c.FromUserId == userID {
		return c.ToUserId
	}
	return c.FromUserId
}

// Friend is one entry of the friends list
type Friend struct {
	ConnectionId primitive.ObjectID `json:"connectionId"`
	Friend       UserDto            `json:"friend"`
	ConnectedAt  time.Time          `json:"connectedAt"`
}

// ConnectionRequestView is a pending request with the other party populated
type ConnectionRequestView struct {
	Id         primitive.ObjectID `json:"_id"`
	FromUserId primitive.ObjectID `json:"fromUserId"`
	ToUserId   primitive.ObjectID `json:"toUserId"`
	Status     ConnectionStatus   `json:"status"`
	User       *UserDto           `json:"user,omitempty"`
	CreatedAt  time.Time          `json:"createdAt"`
	UpdatedAt  time.Time          `json:"updatedAt"`
}

type ConnectionStats struct {
	TotalFriends    int64 `json:"totalFriends"`
	PendingReceived int64 `json:"pendingReceived"`
	PendingSent     int64 `json:"pendingSent"`
	Rejected        int64 `json:"rejected"`
	Blocked         int64 `json:"blocked"`
}

// RelationshipState is how a pair looks from one side
type RelationshipState string

const (
	RelationshipNone     RelationshipState = "none"
	RelationshipFriends  RelationshipState = "friends"
	RelationshipSent     RelationshipState = "sent"
	RelationshipReceived RelationshipState = "received"
	RelationshipRejected RelationshipState = "rejected"
	RelationshipBlocked  RelationshipState = "blocked"
)
