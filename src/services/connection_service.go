package services

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/theleywin/vibora/src/lib"
	"github.com/theleywin/vibora/src/models"
	"github.com/theleywin/vibora/src/repository"
)

const DefaultFriendsLimit = 20

// ConnectionService owns the connection request lifecycle between two users.
//
// There is at most one row per unordered pair. Request and Block rely on the store's unique
// pair index, so a concurrent insert from the other side surfaces as a Conflict instead
// of a second row.
type ConnectionService struct {
	users         repository.UserRepository
	conns         repository.ConnectionRepository
	notifications *NotificationService
}

func NewConnectionService(store *repository.Store, notifications *NotificationService) *ConnectionService {
	return &ConnectionService{
		users:         store.Users,
		conns:         store.Connections,
		notifications: notifications,
	}
}

// Request sends a pending request from actor to target
func (s *ConnectionService) Request(ctx context.Context, actor, target primitive.ObjectID) (conn *models.ConnectionRequest, err error) {
	defer func() { lib.RecordTransition("request", err) }()

	if actor == target {
		return nil, lib.SelfRequest("You can't send a connection request to yourself")
	}
	if _, err := activeUser(ctx, s.users, target); err != nil {
		return nil, err
	}

	existing, err := s.conns.GetByPair(ctx, actor, target)
	switch {
	case err == nil:
		return nil, conflictFor(actor, existing)
	case !errors.Is(err, lib.ErrNotFound):
		return nil, storeErr("find connection", err)
	}

	conn = models.NewConnectionRequest(actor, target, models.ConnectionStatusPending)
	if err := s.conns.Create(ctx, conn); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, s.conflictAfterRace(ctx, actor, target)
		}
		return nil, storeErr("create connection request", err)
	}

	s.notifications.Notify(ctx, models.Notification{
		Recipient:   target,
		Type:        models.NotificationTypeConnectionRequest,
		RelatedUser: actor,
	})
	return conn, nil
}

// conflictAfterRace reports the row another writer inserted first
func (s *ConnectionService) conflictAfterRace(ctx context.Context, actor, target primitive.ObjectID) error {
	winner, err := s.conns.GetByPair(ctx, actor, target)
	if err != nil {
		return storeErr("reload connection", err)
	}
	return conflictFor(actor, winner)
}

// conflictFor explains why actor cannot request the peer of an existing row
func conflictFor(actor primitive.ObjectID, row *models.ConnectionRequest) error {
	switch row.Status {
	case models.ConnectionStatusAccepted:
		return lib.NewConflict(lib.ReasonAlreadyFriends, "You are already connected with this user")
	case models.ConnectionStatusPending:
		if row.FromUserId == actor {
			return lib.NewConflict(lib.ReasonAlreadySent, "Connection request already sent")
		}
		return lib.NewConflict(lib.ReasonAlreadyReceived, "This user has already sent you a connection request")
	case models.ConnectionStatusBlocked:
		return lib.NewConflict(lib.ReasonBlocked, "This connection is blocked")
	default:
		return lib.NewConflict(lib.ReasonRejected, "This connection request was rejected")
	}
}

// Accept accepts the pending request sent by from to actor
func (s *ConnectionService) Accept(ctx context.Context, actor, from primitive.ObjectID) (conn *models.ConnectionRequest, err error) {
	defer func() { lib.RecordTransition("accept", err) }()

	conn, err = s.respond(ctx, actor, from, models.ConnectionStatusAccepted)
	if err != nil {
		return nil, err
	}

	s.notifications.Notify(ctx, models.Notification{
		Recipient:   from,
		Type:        models.NotificationTypeConnectionAccepted,
		RelatedUser: actor,
	})
	return conn, nil
}

// Reject rejects the pending request sent by from to actor. The row stays as rejected.
func (s *ConnectionService) Reject(ctx context.Context, actor, from primitive.ObjectID) (conn *models.ConnectionRequest, err error) {
	defer func() { lib.RecordTransition("reject", err) }()
	return s.respond(ctx, actor, from, models.ConnectionStatusRejected)
}

// respond is only allowed to the receiving side
func (s *ConnectionService) respond(ctx context.Context, actor, from primitive.ObjectID, next models.ConnectionStatus) (*models.ConnectionRequest, error) {
	row, err := s.conns.GetDirected(ctx, from, actor, models.ConnectionStatusPending)
	if err != nil {
		return nil, storeErr("find pending request", err)
	}

	updated, err := s.conns.UpdateStatus(ctx, row.Id, next, models.ConnectionStatusPending)
	if err != nil {
		return nil, storeErr("update connection", err)
	}
	return updated, nil
}

// Cancel withdraws actor's pending request to target
func (s *ConnectionService) Cancel(ctx context.Context, actor, target primitive.ObjectID) (err error) {
	defer func() { lib.RecordTransition("cancel", err) }()

	row, err := s.conns.GetDirected(ctx, actor, target, models.ConnectionStatusPending)
	if err != nil {
		return storeErr("find pending request", err)
	}
	return storeErr("delete connection", s.conns.Delete(ctx, row.Id, models.ConnectionStatusPending))
}

// Remove ends an accepted connection from either side
func (s *ConnectionService) Remove(ctx context.Context, actor, peer primitive.ObjectID) (err error) {
	defer func() { lib.RecordTransition("remove", err) }()

	row, err := s.conns.GetByPair(ctx, actor, peer)
	if err != nil {
		return storeErr("find connection", err)
	}
	if row.Status != models.ConnectionStatusAccepted {
		return lib.NotFound("Connection not found")
	}
	return storeErr("delete connection", s.conns.Delete(ctx, row.Id, models.ConnectionStatusAccepted))
}

// Block marks the pair as blocked, creating the row when there is none
func (s *ConnectionService) Block(ctx context.Context, actor, target primitive.ObjectID) (conn *models.ConnectionRequest, err error) {
	defer func() { lib.RecordTransition("block", err) }()

	if actor == target {
		return nil, lib.SelfRequest("You can't block yourself")
	}
	if _, err := s.users.GetByID(ctx, target); err != nil {
		return nil, storeErr("get user", err)
	}

	existing, err := s.conns.GetByPair(ctx, actor, target)
	switch {
	case err == nil:
		return s.markBlocked(ctx, existing.Id)
	case !errors.Is(err, lib.ErrNotFound):
		return nil, storeErr("find connection", err)
	}

	conn = models.NewConnectionRequest(actor, target, models.ConnectionStatusBlocked)
	err = s.conns.Create(ctx, conn)
	if errors.Is(err, repository.ErrDuplicate) {
		winner, gerr := s.conns.GetByPair(ctx, actor, target)
		if gerr != nil {
			return nil, storeErr("reload connection", gerr)
		}
		return s.markBlocked(ctx, winner.Id)
	}
	if err != nil {
		return nil, storeErr("create connection", err)
	}
	return conn, nil
}

func (s *ConnectionService) markBlocked(ctx context.Context, id primitive.ObjectID) (*models.ConnectionRequest, error) {
	conn, err := s.conns.UpdateStatus(ctx, id, models.ConnectionStatusBlocked)
	if err != nil {
		return nil, storeErr("block connection", err)
	}
	return conn, nil
}

// Friends lists the accepted connections of userID, most recently connected first
func (s *ConnectionService) Friends(ctx context.Context, userID primitive.ObjectID, page models.PageRequest) ([]models.Friend, models.Pagination, error) {
	rows, total, err := s.conns.ListFriends(ctx, userID, page)
	if err != nil {
		return nil, models.Pagination{}, storeErr("list friends", err)
	}

	peers := make([]primitive.ObjectID, len(rows))
	for i, row := range rows {
		peers[i] = row.Peer(userID)
	}
	index, err := userIndex(ctx, s.users, peers)
	if err != nil {
		return nil, models.Pagination{}, err
	}

	friends := make([]models.Friend, len(rows))
	for i, row := range rows {
		friends[i] = models.Friend{
			ConnectionId: row.Id,
			Friend:       publicDto(index, peers[i]),
			ConnectedAt:  row.UpdatedAt,
		}
	}
	return friends, page.Result(total), nil
}

// Received lists pending requests sent to userID, with the sender populated
func (s *ConnectionService) Received(ctx context.Context, userID primitive.ObjectID) ([]models.ConnectionRequestView, error) {
	rows, err := s.conns.ListReceived(ctx, userID, models.ConnectionStatusPending)
	if err != nil {
		return nil, storeErr("list received requests", err)
	}
	return s.views(ctx, userID, rows)
}

// Sent lists pending requests sent by userID, with the recipient populated
func (s *ConnectionService) Sent(ctx context.Context, userID primitive.ObjectID) ([]models.ConnectionRequestView, error) {
	rows, err := s.conns.ListSent(ctx, userID, models.ConnectionStatusPending)
	if err != nil {
		return nil, storeErr("list sent requests", err)
	}
	return s.views(ctx, userID, rows)
}

func (s *ConnectionService) views(ctx context.Context, userID primitive.ObjectID, rows []models.ConnectionRequest) ([]models.ConnectionRequestView, error) {
	peers := make([]primitive.ObjectID, len(rows))
	for i, row := range rows {
		peers[i] = row.Peer(userID)
	}
	index, err := userIndex(ctx, s.users, peers)
	if err != nil {
		return nil, err
	}

	views := make([]models.ConnectionRequestView, len(rows))
	for i, row := range rows {
		dto := publicDto(index, peers[i])
		views[i] = models.ConnectionRequestView{
			Id:         row.Id,
			FromUserId: row.FromUserId,
			ToUserId:   row.ToUserId,
			Status:     row.Status,
			User:       &dto,
			CreatedAt:  row.CreatedAt,
			UpdatedAt:  row.UpdatedAt,
		}
	}
	return views, nil
}

// Stats counts every row touching userID. Missing statuses are reported as zero.
func (s *ConnectionService) Stats(ctx context.Context, userID primitive.ObjectID) (models.ConnectionStats, error) {
	counts, err := s.conns.CountByStatus(ctx, userID)
	if err != nil {
		return models.ConnectionStats{}, storeErr("count connections", err)
	}
	received, err := s.conns.CountReceived(ctx, userID, models.ConnectionStatusPending)
	if err != nil {
		return models.ConnectionStats{}, storeErr("count received", err)
	}
	sent, err := s.conns.CountSent(ctx, userID, models.ConnectionStatusPending)
	if err != nil {
		return models.ConnectionStats{}, storeErr("count sent", err)
	}

	return models.ConnectionStats{
		TotalFriends:    counts[models.ConnectionStatusAccepted],
		PendingReceived: received,
		PendingSent:     sent,
		Rejected:        counts[models.ConnectionStatusRejected],
		Blocked:         counts[models.ConnectionStatusBlocked],
	}, nil
}

// Status describes the pair {actor, other} from actor's side
func (s *ConnectionService) Status(ctx context.Context, actor, other primitive.ObjectID) (models.RelationshipState, *models.ConnectionRequest, error) {
	if actor == other {
		return "", nil, lib.SelfRequest("Cannot check connection status with yourself")
	}

	row, err := s.conns.GetByPair(ctx, actor, other)
	if errors.Is(err, lib.ErrNotFound) {
		return models.RelationshipNone, nil, nil
	}
	if err != nil {
		return "", nil, storeErr("find connection", err)
	}

	switch row.Status {
	case models.ConnectionStatusAccepted:
		return models.RelationshipFriends, row, nil
	case models.ConnectionStatusPending:
		if row.FromUserId == actor {
			return models.RelationshipSent, row, nil
		}
		return models.RelationshipReceived, row, nil
	case models.ConnectionStatusBlocked:
		return models.RelationshipBlocked, row, nil
	default:
		return models.RelationshipRejected, row, nil
	}
}

// AreConnected reports whether a and b share an accepted row. A user is connected to itself.
func (s *ConnectionService) AreConnected(ctx context.Context, a, b primitive.ObjectID) (bool, error) {
	if a == b {
		return true, nil
	}
	ok, err := s.conns.ExistsAccepted(ctx, a, b)
	if err != nil {
		return false, storeErr("check connection", err)
	}
	return ok, nil
}

// FriendIDs lists the ids of userID's accepted connections
func (s *ConnectionService) FriendIDs(ctx context.Context, userID primitive.ObjectID) ([]primitive.ObjectID, error) {
	ids, err := s.conns.PeerIDs(ctx, userID, models.ConnectionStatusAccepted)
	if err != nil {
		return nil, storeErr("list friend ids", err)
	}
	return ids, nil
}

// RelatedIDs lists everyone sharing a row with userID, whatever its status
func (s *ConnectionService) RelatedIDs(ctx context.Context, userID primitive.ObjectID) ([]primitive.ObjectID, error) {
	ids, err := s.conns.PeerIDs(ctx, userID)
	if err != nil {
		return nil, storeErr("list related ids", err)
	}
	return ids, nil
}
