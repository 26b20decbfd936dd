package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/theleywin/vibora/src/lib"
	"github.com/theleywin/vibora/src/models"
)

func requireConflict(t *testing.T, err error, reason lib.ConflictReason) {
	t.Helper()

	var conflict *lib.ConflictError
	require.True(t, errors.As(err, &conflict), "expected a conflict, got %v", err)
	assert.Equal(t, reason, conflict.Reason)
}

func TestRequestToSelf(t *testing.T) {
	f := newFixture(t)
	ana := f.user(t, "Ana")

	_, err := f.svc.Connections.Request(context.Background(), ana, ana)
	assert.ErrorIs(t, err, lib.ErrSelfRequest)

	_, err = f.svc.Connections.Block(context.Background(), ana, ana)
	assert.ErrorIs(t, err, lib.ErrSelfRequest)

	_, _, err = f.svc.Connections.Status(context.Background(), ana, ana)
	assert.ErrorIs(t, err, lib.ErrSelfRequest)
}

func TestRequestToUnknownUser(t *testing.T) {
	f := newFixture(t)
	ana := f.user(t, "Ana")

	_, err := f.svc.Connections.Request(context.Background(), ana, primitive.NewObjectID())
	assert.ErrorIs(t, err, lib.ErrNotFound)
}

func TestRequestConflicts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ana, bob := f.user(t, "Ana"), f.user(t, "Bob")

	conn, err := f.svc.Connections.Request(ctx, ana, bob)
	require.NoError(t, err)
	assert.Equal(t, models.ConnectionStatusPending, conn.Status)

	_, err = f.svc.Connections.Request(ctx, ana, bob)
	requireConflict(t, err, lib.ReasonAlreadySent)

	_, err = f.svc.Connections.Request(ctx, bob, ana)
	requireConflict(t, err, lib.ReasonAlreadyReceived)

	state, row, err := f.svc.Connections.Status(ctx, bob, ana)
	require.NoError(t, err)
	assert.Equal(t, models.RelationshipReceived, state)
	assert.Equal(t, conn.Id, row.Id)
}

func TestOnlyRecipientCanAccept(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ana, bob := f.user(t, "Ana"), f.user(t, "Bob")

	_, err := f.svc.Connections.Request(ctx, ana, bob)
	require.NoError(t, err)

	_, err = f.svc.Connections.Accept(ctx, ana, bob)
	assert.ErrorIs(t, err, lib.ErrNotFound)

	accepted, err := f.svc.Connections.Accept(ctx, bob, ana)
	require.NoError(t, err)
	assert.Equal(t, models.ConnectionStatusAccepted, accepted.Status)

	_, err = f.svc.Connections.Accept(ctx, bob, ana)
	assert.ErrorIs(t, err, lib.ErrNotFound, "accepting twice finds no pending request")

	_, err = f.svc.Connections.Request(ctx, bob, ana)
	requireConflict(t, err, lib.ReasonAlreadyFriends)
}

func TestOnlyRecipientCanReject(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ana, bob := f.user(t, "Ana"), f.user(t, "Bob")

	_, err := f.svc.Connections.Request(ctx, ana, bob)
	require.NoError(t, err)

	_, err = f.svc.Connections.Reject(ctx, ana, bob)
	assert.ErrorIs(t, err, lib.ErrNotFound)

	state, _, err := f.svc.Connections.Status(ctx, ana, bob)
	require.NoError(t, err)
	assert.Equal(t, models.RelationshipSent, state, "a refused reject leaves the request pending")

	rejected, err := f.svc.Connections.Reject(ctx, bob, ana)
	require.NoError(t, err)
	assert.Equal(t, models.ConnectionStatusRejected, rejected.Status)
}

func TestFriendshipIsSymmetric(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ana, bob, cat := f.user(t, "Ana"), f.user(t, "Bob"), f.user(t, "Cat")
	f.connect(t, ana, bob)

	for _, pair := range [][2]primitive.ObjectID{{ana, bob}, {bob, ana}} {
		ok, err := f.svc.Connections.AreConnected(ctx, pair[0], pair[1])
		require.NoError(t, err)
		assert.True(t, ok)
	}
	ok, err := f.svc.Connections.AreConnected(ctx, ana, cat)
	require.NoError(t, err)
	assert.False(t, ok)

	page := models.NewPageRequest(1, 0, DefaultFriendsLimit)
	anaFriends, meta, err := f.svc.Connections.Friends(ctx, ana, page)
	require.NoError(t, err)
	require.Len(t, anaFriends, 1)
	assert.Equal(t, bob, anaFriends[0].Friend.ID)
	assert.Empty(t, anaFriends[0].Friend.EmailId)
	assert.EqualValues(t, 1, meta.Total)

	bobFriends, _, err := f.svc.Connections.Friends(ctx, bob, page)
	require.NoError(t, err)
	require.Len(t, bobFriends, 1)
	assert.Equal(t, ana, bobFriends[0].Friend.ID)
}

func TestRejectedPairCannotBeRequestedAgain(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ana, bob := f.user(t, "Ana"), f.user(t, "Bob")

	_, err := f.svc.Connections.Request(ctx, ana, bob)
	require.NoError(t, err)
	rejected, err := f.svc.Connections.Reject(ctx, bob, ana)
	require.NoError(t, err)
	assert.Equal(t, models.ConnectionStatusRejected, rejected.Status)

	_, err = f.svc.Connections.Request(ctx, ana, bob)
	requireConflict(t, err, lib.ReasonRejected)
	_, err = f.svc.Connections.Request(ctx, bob, ana)
	requireConflict(t, err, lib.ReasonRejected)
}

func TestRemoveThenRequestAgain(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ana, bob := f.user(t, "Ana"), f.user(t, "Bob")
	f.connect(t, ana, bob)

	require.NoError(t, f.svc.Connections.Remove(ctx, bob, ana))
	assert.ErrorIs(t, f.svc.Connections.Remove(ctx, bob, ana), lib.ErrNotFound)

	state, _, err := f.svc.Connections.Status(ctx, ana, bob)
	require.NoError(t, err)
	assert.Equal(t, models.RelationshipNone, state)

	_, err = f.svc.Connections.Request(ctx, bob, ana)
	assert.NoError(t, err)
}

func TestRemoveRequiresAcceptedConnection(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ana, bob := f.user(t, "Ana"), f.user(t, "Bob")

	_, err := f.svc.Connections.Request(ctx, ana, bob)
	require.NoError(t, err)

	assert.ErrorIs(t, f.svc.Connections.Remove(ctx, ana, bob), lib.ErrNotFound)
}

func TestCancelOnlyBySender(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ana, bob := f.user(t, "Ana"), f.user(t, "Bob")

	_, err := f.svc.Connections.Request(ctx, ana, bob)
	require.NoError(t, err)

	assert.ErrorIs(t, f.svc.Connections.Cancel(ctx, bob, ana), lib.ErrNotFound)
	require.NoError(t, f.svc.Connections.Cancel(ctx, ana, bob))

	sent, err := f.svc.Connections.Sent(ctx, ana)
	require.NoError(t, err)
	assert.Empty(t, sent)
}

func TestCancelAcceptedConnection(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ana, bob := f.user(t, "Ana"), f.user(t, "Bob")
	f.connect(t, ana, bob)

	assert.ErrorIs(t, f.svc.Connections.Cancel(ctx, ana, bob), lib.ErrNotFound)

	connected, err := f.svc.Connections.AreConnected(ctx, ana, bob)
	require.NoError(t, err)
	assert.True(t, connected)
}

func TestBlockUnknownUser(t *testing.T) {
	f := newFixture(t)
	ana := f.user(t, "Ana")

	_, err := f.svc.Connections.Block(context.Background(), ana, primitive.NewObjectID())
	assert.ErrorIs(t, err, lib.ErrNotFound)
}

func TestBlockWithoutExistingRow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ana, bob := f.user(t, "Ana"), f.user(t, "Bob")

	blocked, err := f.svc.Connections.Block(ctx, ana, bob)
	require.NoError(t, err)
	assert.Equal(t, models.ConnectionStatusBlocked, blocked.Status)

	_, err = f.svc.Connections.Request(ctx, bob, ana)
	requireConflict(t, err, lib.ReasonBlocked)

	state, _, err := f.svc.Connections.Status(ctx, bob, ana)
	require.NoError(t, err)
	assert.Equal(t, models.RelationshipBlocked, state)
}

func TestBlockOverridesFriendship(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ana, bob := f.user(t, "Ana"), f.user(t, "Bob")
	f.connect(t, ana, bob)

	blocked, err := f.svc.Connections.Block(ctx, bob, ana)
	require.NoError(t, err)
	assert.Equal(t, models.ConnectionStatusBlocked, blocked.Status)

	ok, err := f.svc.Connections.AreConnected(ctx, ana, bob)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStatsAreConsistent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	me := f.user(t, "Me")
	friend, asked, asker, rejecter, blocked := f.user(t, "Friend"), f.user(t, "Asked"), f.user(t, "Asker"), f.user(t, "Rejecter"), f.user(t, "Blocked")

	f.connect(t, me, friend)
	_, err := f.svc.Connections.Request(ctx, me, asked)
	require.NoError(t, err)
	_, err = f.svc.Connections.Request(ctx, asker, me)
	require.NoError(t, err)
	_, err = f.svc.Connections.Request(ctx, me, rejecter)
	require.NoError(t, err)
	_, err = f.svc.Connections.Reject(ctx, rejecter, me)
	require.NoError(t, err)
	_, err = f.svc.Connections.Block(ctx, me, blocked)
	require.NoError(t, err)

	stats, err := f.svc.Connections.Stats(ctx, me)
	require.NoError(t, err)
	assert.Equal(t, models.ConnectionStats{
		TotalFriends:    1,
		PendingReceived: 1,
		PendingSent:     1,
		Rejected:        1,
		Blocked:         1,
	}, stats)

	received, err := f.svc.Connections.Received(ctx, me)
	require.NoError(t, err)
	require.Len(t, received, 1)
	assert.Equal(t, asker, received[0].User.ID)

	sent, err := f.svc.Connections.Sent(ctx, me)
	require.NoError(t, err)
	require.Len(t, sent, 1)
	assert.Equal(t, asked, sent[0].User.ID)
}

func TestConcurrentOppositeRequestsLeaveOneRow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ana, bob := f.user(t, "Ana"), f.user(t, "Bob")

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, pair := range [][2]primitive.ObjectID{{ana, bob}, {bob, ana}} {
		wg.Add(1)
		go func(i int, from, to primitive.ObjectID) {
			defer wg.Done()
			_, errs[i] = f.svc.Connections.Request(ctx, from, to)
		}(i, pair[0], pair[1])
	}
	wg.Wait()

	var ok, conflicts int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, lib.ErrConflict):
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, 1, conflicts)

	related, err := f.store.Connections.PeerIDs(ctx, ana)
	require.NoError(t, err)
	assert.Equal(t, []primitive.ObjectID{bob}, related)
}

func TestTransitionsNotify(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ana, bob := f.user(t, "Ana"), f.user(t, "Bob")
	f.connect(t, ana, bob)

	bobInbox, err := f.svc.Notifications.List(ctx, bob)
	require.NoError(t, err)
	require.Len(t, bobInbox, 1)
	assert.Equal(t, models.NotificationTypeConnectionRequest, bobInbox[0].Type)
	require.NotNil(t, bobInbox[0].RelatedUserDto)
	assert.Equal(t, "Ana", bobInbox[0].RelatedUserDto.FirstName)

	anaInbox, err := f.svc.Notifications.List(ctx, ana)
	require.NoError(t, err)
	require.Len(t, anaInbox, 1)
	assert.Equal(t, models.NotificationTypeConnectionAccepted, anaInbox[0].Type)

	_, err = f.svc.Notifications.MarkRead(ctx, anaInbox[0].Id, bob)
	assert.ErrorIs(t, err, lib.ErrNotFound)
	read, err := f.svc.Notifications.MarkRead(ctx, anaInbox[0].Id, ana)
	require.NoError(t, err)
	assert.True(t, read.Read)

	require.NoError(t, f.svc.Notifications.Delete(ctx, anaInbox[0].Id, ana))
	anaInbox, err = f.svc.Notifications.List(ctx, ana)
	require.NoError(t, err)
	assert.Empty(t, anaInbox)
}
