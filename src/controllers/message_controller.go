package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/theleywin/vibora/src/lib"
	"github.com/theleywin/vibora/src/middleware"
	"github.com/theleywin/vibora/src/models"
	"github.com/theleywin/vibora/src/services"
)

type MessageController struct {
	messages *services.MessageService
}

func NewMessageController(messages *services.MessageService) *MessageController {
	return &MessageController{messages: messages}
}

func (mc *MessageController) SendMessage(c *fiber.Ctx) error {
	receiverID, err := idParam(c, "receiverId", "receiver")
	if err != nil {
		return err
	}
	var req models.MessageRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	user := middleware.CurrentUser(c)
	msg, err := mc.messages.Send(c.UserContext(), user.Id, receiverID, req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(lib.DataResponse("Message sent successfully", msg))
}

func (mc *MessageController) GetConversation(c *fiber.Ctx) error {
	friendID, err := idParam(c, "friendId", "friend")
	if err != nil {
		return err
	}

	user := middleware.CurrentUser(c)
	msgs, page, err := mc.messages.Conversation(c.UserContext(), user.Id, friendID, pageQuery(c, services.DefaultMessagesLimit))
	if err != nil {
		return err
	}
	return c.JSON(lib.PageResponse("Conversation fetched successfully", msgs, page))
}

func (mc *MessageController) GetConversations(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	convs, err := mc.messages.Conversations(c.UserContext(), user.Id)
	if err != nil {
		return err
	}
	return c.JSON(lib.DataResponse("Conversations fetched successfully", convs))
}

func (mc *MessageController) GetUnreadCount(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	n, err := mc.messages.UnreadCount(c.UserContext(), user.Id)
	if err != nil {
		return err
	}
	return c.JSON(lib.DataResponse("Unread count fetched successfully", fiber.Map{"unreadCount": n}))
}

func (mc *MessageController) MarkAsRead(c *fiber.Ctx) error {
	friendID, err := idParam(c, "friendId", "friend")
	if err != nil {
		return err
	}

	user := middleware.CurrentUser(c)
	n, err := mc.messages.MarkRead(c.UserContext(), user.Id, friendID)
	if err != nil {
		return err
	}
	return c.JSON(lib.DataResponse("Messages marked as read", fiber.Map{"modifiedCount": n}))
}

func (mc *MessageController) DeleteMessage(c *fiber.Ctx) error {
	messageID, err := idParam(c, "messageId", "message")
	if err != nil {
		return err
	}

	user := middleware.CurrentUser(c)
	if err := mc.messages.Delete(c.UserContext(), user.Id, messageID); err != nil {
		return err
	}
	return c.JSON(lib.MessageResponse("Message deleted successfully"))
}
