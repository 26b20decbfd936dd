package services

import (
	"context"
	"slices"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/theleywin/vibora/src/lib"
	"github.com/theleywin/vibora/src/models"
	"github.com/theleywin/vibora/src/repository"
)

const DefaultMessagesLimit = 50

// MessageService handles direct messages between connected users
type MessageService struct {
	messages    repository.MessageRepository
	users       repository.UserRepository
	connections *ConnectionService
}

func NewMessageService(store *repository.Store, connections *ConnectionService) *MessageService {
	return &MessageService{messages: store.Messages, users: store.Users, connections: connections}
}

func (s *MessageService) requireConnection(ctx context.Context, actor, other primitive.ObjectID) error {
	if _, err := activeUser(ctx, s.users, other); err != nil {
		return err
	}
	connected, err := s.connections.AreConnected(ctx, actor, other)
	if err != nil {
		return err
	}
	if !connected {
		return lib.Forbidden("You can only message your connections")
	}
	return nil
}

func (s *MessageService) Send(ctx context.Context, actor, receiver primitive.ObjectID, req models.MessageRequest) (*models.Message, error) {
	if actor == receiver {
		return nil, lib.SelfRequest("You can't send a message to yourself")
	}
	req.Message = strings.TrimSpace(req.Message)
	if err := lib.Validate(req); err != nil {
		return nil, err
	}
	if err := s.requireConnection(ctx, actor, receiver); err != nil {
		return nil, err
	}

	msgType := models.MessageType(req.MessageType)
	if msgType == "" {
		msgType = models.MessageTypeText
	}
	msg := &models.Message{
		SenderId:    actor,
		ReceiverId:  receiver,
		Message:     req.Message,
		MessageType: msgType,
		MediaUrl:    req.MediaUrl,
	}
	if err := s.messages.Create(ctx, msg); err != nil {
		return nil, storeErr("create message", err)
	}
	return msg, nil
}

// Conversation returns one page of the exchange with friend in chronological order and
// marks friend's messages to actor as read.
func (s *MessageService) Conversation(ctx context.Context, actor, friend primitive.ObjectID, page models.PageRequest) ([]models.Message, models.Pagination, error) {
	if err := s.requireConnection(ctx, actor, friend); err != nil {
		return nil, models.Pagination{}, err
	}

	msgs, total, err := s.messages.Conversation(ctx, actor, friend, page)
	if err != nil {
		return nil, models.Pagination{}, storeErr("load conversation", err)
	}
	slices.Reverse(msgs)

	if _, err := s.messages.MarkRead(ctx, friend, actor); err != nil {
		return nil, models.Pagination{}, storeErr("mark read", err)
	}
	return msgs, page.Result(total), nil
}

// Conversations lists one entry per partner with the last message and the unread count
func (s *MessageService) Conversations(ctx context.Context, actor primitive.ObjectID) ([]models.Conversation, error) {
	convs, err := s.messages.Conversations(ctx, actor)
	if err != nil {
		return nil, storeErr("list conversations", err)
	}

	partners := make([]primitive.ObjectID, len(convs))
	for i, c := range convs {
		partners[i] = c.PartnerId
	}
	index, err := userIndex(ctx, s.users, partners)
	if err != nil {
		return nil, err
	}
	for i := range convs {
		dto := publicDto(index, convs[i].PartnerId)
		convs[i].Partner = &dto
	}
	return convs, nil
}

func (s *MessageService) UnreadCount(ctx context.Context, actor primitive.ObjectID) (int64, error) {
	n, err := s.messages.UnreadCount(ctx, actor)
	if err != nil {
		return 0, storeErr("count unread", err)
	}
	return n, nil
}

// MarkRead marks every message from friend to actor as read
func (s *MessageService) MarkRead(ctx context.Context, actor, friend primitive.ObjectID) (int64, error) {
	n, err := s.messages.MarkRead(ctx, friend, actor)
	if err != nil {
		return 0, storeErr("mark read", err)
	}
	return n, nil
}

// Delete removes a message actor sent
func (s *MessageService) Delete(ctx context.Context, actor, messageID primitive.ObjectID) error {
	return storeErr("delete message", s.messages.DeleteOwned(ctx, messageID, actor))
}
