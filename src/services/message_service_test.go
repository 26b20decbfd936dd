package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theleywin/vibora/src/lib"
	"github.com/theleywin/vibora/src/models"
)

func TestSendRequiresConnection(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ana, eve := f.user(t, "Ana"), f.user(t, "Eve")

	_, err := f.svc.Messages.Send(ctx, ana, ana, models.MessageRequest{Message: "me"})
	assert.ErrorIs(t, err, lib.ErrSelfRequest)

	_, err = f.svc.Messages.Send(ctx, ana, eve, models.MessageRequest{Message: "hi"})
	assert.EqualError(t, err, "You can only message your connections")
}

func TestConversationFlow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ana, bob := f.user(t, "Ana"), f.user(t, "Bob")
	f.connect(t, ana, bob)

	first, err := f.svc.Messages.Send(ctx, ana, bob, models.MessageRequest{Message: " hi bob "})
	require.NoError(t, err)
	assert.Equal(t, models.MessageTypeText, first.MessageType)
	assert.Equal(t, "hi bob", first.Message)
	_, err = f.svc.Messages.Send(ctx, ana, bob, models.MessageRequest{Message: "look", MessageType: "image", MediaUrl: "https://x.io/p.png"})
	require.NoError(t, err)

	_, err = f.svc.Messages.Send(ctx, ana, bob, models.MessageRequest{Message: "bad", MessageType: "audio"})
	assert.ErrorIs(t, err, lib.ErrValidation)

	unread, err := f.svc.Messages.UnreadCount(ctx, bob)
	require.NoError(t, err)
	assert.EqualValues(t, 2, unread)

	convs, err := f.svc.Messages.Conversations(ctx, bob)
	require.NoError(t, err)
	require.Len(t, convs, 1)
	assert.Equal(t, ana, convs[0].PartnerId)
	assert.Equal(t, "Ana", convs[0].Partner.FirstName)
	assert.EqualValues(t, 2, convs[0].UnreadCount)

	msgs, page, err := f.svc.Messages.Conversation(ctx, bob, ana, models.NewPageRequest(1, 0, DefaultMessagesLimit))
	require.NoError(t, err)
	assert.EqualValues(t, 2, page.Total)
	require.Len(t, msgs, 2)
	assert.Equal(t, "hi bob", msgs[0].Message)
	assert.Equal(t, "look", msgs[1].Message)

	unread, err = f.svc.Messages.UnreadCount(ctx, bob)
	require.NoError(t, err)
	assert.Zero(t, unread)
}

func TestMarkReadAndDelete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ana, bob := f.user(t, "Ana"), f.user(t, "Bob")
	f.connect(t, ana, bob)

	msg, err := f.svc.Messages.Send(ctx, ana, bob, models.MessageRequest{Message: "ping"})
	require.NoError(t, err)

	n, err := f.svc.Messages.MarkRead(ctx, bob, ana)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	assert.ErrorIs(t, f.svc.Messages.Delete(ctx, bob, msg.Id), lib.ErrNotFound)
	require.NoError(t, f.svc.Messages.Delete(ctx, ana, msg.Id))
	assert.EqualError(t, f.svc.Messages.Delete(ctx, ana, msg.Id), "Message not found")
}
