package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/theleywin/vibora/src/lib"
	"github.com/theleywin/vibora/src/middleware"
	"github.com/theleywin/vibora/src/services"
)

type ConnectionController struct {
	connections *services.ConnectionService
}

func NewConnectionController(connections *services.ConnectionService) *ConnectionController {
	return &ConnectionController{connections: connections}
}

// SendConnectionRequest sends a connection request from the authenticated user to another user
func (cc *ConnectionController) SendConnectionRequest(c *fiber.Ctx) error {
	targetID, err := idParam(c, "userId", "user")
	if err != nil {
		return err
	}

	user := middleware.CurrentUser(c)
	request, err := cc.connections.Request(c.UserContext(), user.Id, targetID)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(lib.DataResponse("Connection request sent successfully", request))
}

// AcceptConnectionRequest accepts the pending request the given user sent
func (cc *ConnectionController) AcceptConnectionRequest(c *fiber.Ctx) error {
	fromID, err := idParam(c, "userId", "user")
	if err != nil {
		return err
	}

	user := middleware.CurrentUser(c)
	request, err := cc.connections.Accept(c.UserContext(), user.Id, fromID)
	if err != nil {
		return err
	}

	return c.JSON(lib.DataResponse("Connection request accepted", request))
}

// RejectConnectionRequest rejects the pending request the given user sent
func (cc *ConnectionController) RejectConnectionRequest(c *fiber.Ctx) error {
	fromID, err := idParam(c, "userId", "user")
	if err != nil {
		return err
	}

	user := middleware.CurrentUser(c)
	request, err := cc.connections.Reject(c.UserContext(), user.Id, fromID)
	if err != nil {
		return err
	}

	return c.JSON(lib.DataResponse("Connection request rejected", request))
}

// CancelConnectionRequest withdraws a pending request the authenticated user sent
func (cc *ConnectionController) CancelConnectionRequest(c *fiber.Ctx) error {
	targetID, err := idParam(c, "userId", "user")
	if err != nil {
		return err
	}

	user := middleware.CurrentUser(c)
	if err := cc.connections.Cancel(c.UserContext(), user.Id, targetID); err != nil {
		return err
	}

	return c.JSON(lib.MessageResponse("Connection request cancelled"))
}

// RemoveConnection removes an accepted connection
func (cc *ConnectionController) RemoveConnection(c *fiber.Ctx) error {
	friendID, err := idParam(c, "friendId", "friend")
	if err != nil {
		return err
	}

	user := middleware.CurrentUser(c)
	if err := cc.connections.Remove(c.UserContext(), user.Id, friendID); err != nil {
		return err
	}

	return c.JSON(lib.MessageResponse("Connection removed successfully"))
}

// BlockUser blocks another user whatever the current relationship
func (cc *ConnectionController) BlockUser(c *fiber.Ctx) error {
	targetID, err := idParam(c, "userId", "user")
	if err != nil {
		return err
	}

	user := middleware.CurrentUser(c)
	request, err := cc.connections.Block(c.UserContext(), user.Id, targetID)
	if err != nil {
		return err
	}

	return c.JSON(lib.DataResponse("User blocked successfully", request))
}

// GetReceivedRequests lists pending requests sent to the authenticated user
func (cc *ConnectionController) GetReceivedRequests(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	requests, err := cc.connections.Received(c.UserContext(), user.Id)
	if err != nil {
		return err
	}
	return c.JSON(lib.DataResponse("Received requests fetched successfully", requests))
}

// GetSentRequests lists pending requests the authenticated user sent
func (cc *ConnectionController) GetSentRequests(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	requests, err := cc.connections.Sent(c.UserContext(), user.Id)
	if err != nil {
		return err
	}
	return c.JSON(lib.DataResponse("Sent requests fetched successfully", requests))
}

// GetFriends lists the authenticated user's connections
func (cc *ConnectionController) GetFriends(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	friends, page, err := cc.connections.Friends(c.UserContext(), user.Id, pageQuery(c, services.DefaultFriendsLimit))
	if err != nil {
		return err
	}
	return c.JSON(lib.PageResponse("Friends fetched successfully", friends, page))
}

// GetConnectionStats counts the authenticated user's relationships by state
func (cc *ConnectionController) GetConnectionStats(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	stats, err := cc.connections.Stats(c.UserContext(), user.Id)
	if err != nil {
		return err
	}
	return c.JSON(lib.DataResponse("Connection stats fetched successfully", stats))
}

// GetConnectionStatus reports the relationship with another user
func (cc *ConnectionController) GetConnectionStatus(c *fiber.Ctx) error {
	targetID, err := idParam(c, "userId", "user")
	if err != nil {
		return err
	}

	user := middleware.CurrentUser(c)
	state, request, err := cc.connections.Status(c.UserContext(), user.Id, targetID)
	if err != nil {
		return err
	}

	data := fiber.Map{"status": state}
	if request != nil {
		data["requestId"] = request.Id
	}
	return c.JSON(lib.DataResponse("Connection status fetched successfully", data))
}
