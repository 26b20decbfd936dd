package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestPairKeyIsOrderIndependent(t *testing.T) {
	a, b := primitive.NewObjectID(), primitive.NewObjectID()

	assert.Equal(t, PairKey(a, b), PairKey(b, a))
	assert.NotEqual(t, PairKey(a, b), PairKey(a, primitive.NewObjectID()))
}

func TestPairKeyPutsSmallerIdFirst(t *testing.T) {
	lo, _ := primitive.ObjectIDFromHex("000000000000000000000001")
	hi, _ := primitive.ObjectIDFromHex("ffffffffffffffffffffffff")

	assert.Equal(t, "000000000000000000000001:ffffffffffffffffffffffff", PairKey(hi, lo))
}

func TestNewConnectionRequest(t *testing.T) {
	from, to := primitive.NewObjectID(), primitive.NewObjectID()
	conn := NewConnectionRequest(from, to, ConnectionStatusPending)

	assert.Equal(t, from, conn.FromUserId)
	assert.Equal(t, to, conn.ToUserId)
	assert.Equal(t, ConnectionStatusPending, conn.Status)
	assert.Equal(t, PairKey(from, to), conn.PairKey)
}

func TestPeer(t *testing.T) {
	from, to := primitive.NewObjectID(), primitive.NewObjectID()
	conn := NewConnectionRequest(from, to, ConnectionStatusAccepted)

	assert.Equal(t, to, conn.Peer(from))
	assert.Equal(t, from, conn.Peer(to))
}
