package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/theleywin/vibora/src/models"
)

const connectionNotFound = "Connection request not found"

type mongoConnectionRepository struct {
	coll *mongo.Collection
}

func (r *mongoConnectionRepository) Create(ctx context.Context, conn *models.ConnectionRequest) error {
	now := time.Now()
	conn.Id = primitive.NewObjectID()
	conn.PairKey = models.PairKey(conn.FromUserId, conn.ToUserId)
	conn.CreatedAt = now
	conn.UpdatedAt = now

	_, err := r.coll.InsertOne(ctx, conn)
	return mongoErr(err, "")
}

func (r *mongoConnectionRepository) GetByPair(ctx context.Context, a, b primitive.ObjectID) (*models.ConnectionRequest, error) {
	return r.findOne(ctx, pairFilter(a, b))
}

func (r *mongoConnectionRepository) GetDirected(ctx context.Context, from, to primitive.ObjectID, status models.ConnectionStatus) (*models.ConnectionRequest, error) {
	return r.findOne(ctx, bson.M{"fromUserId": from, "toUserId": to, "status": status})
}

func (r *mongoConnectionRepository) findOne(ctx context.Context, filter bson.M) (*models.ConnectionRequest, error) {
	var conn models.ConnectionRequest
	if err := r.coll.FindOne(ctx, filter).Decode(&conn); err != nil {
		return nil, mongoErr(err, connectionNotFound)
	}
	return &conn, nil
}

func (r *mongoConnectionRepository) UpdateStatus(ctx context.Context, id primitive.ObjectID, next models.ConnectionStatus, expected ...models.ConnectionStatus) (*models.ConnectionRequest, error) {
	filter := bson.M{"_id": id}
	if len(expected) > 0 {
		filter["status"] = bson.M{"$in": expected}
	}
	update := bson.M{"$set": bson.M{"status": next, "updatedAt": time.Now()}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var conn models.ConnectionRequest
	if err := r.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&conn); err != nil {
		return nil, mongoErr(err, connectionNotFound)
	}
	return &conn, nil
}

func (r *mongoConnectionRepository) Delete(ctx context.Context, id primitive.ObjectID, expected models.ConnectionStatus) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id, "status": expected})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return mongoErr(mongo.ErrNoDocuments, connectionNotFound)
	}
	return nil
}

func (r *mongoConnectionRepository) ListFriends(ctx context.Context, userID primitive.ObjectID, page models.PageRequest) ([]models.ConnectionRequest, int64, error) {
	filter := bson.M{"status": models.ConnectionStatusAccepted, "$or": touching(userID)}

	total, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "updatedAt", Value: -1}}).
		SetSkip(int64(page.Skip())).
		SetLimit(int64(page.Limit))
	rows, err := r.find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

func (r *mongoConnectionRepository) ListReceived(ctx context.Context, userID primitive.ObjectID, status models.ConnectionStatus) ([]models.ConnectionRequest, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	return r.find(ctx, bson.M{"toUserId": userID, "status": status}, opts)
}

func (r *mongoConnectionRepository) ListSent(ctx context.Context, userID primitive.ObjectID, status models.ConnectionStatus) ([]models.ConnectionRequest, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	return r.find(ctx, bson.M{"fromUserId": userID, "status": status}, opts)
}

func (r *mongoConnectionRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.ConnectionRequest, error) {
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	rows := []models.ConnectionRequest{}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *mongoConnectionRepository) CountByStatus(ctx context.Context, userID primitive.ObjectID) (map[models.ConnectionStatus]int64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"$or": touching(userID)}}},
		{{Key: "$group", Value: bson.M{"_id": "$status", "count": bson.M{"$sum": 1}}}},
	}

	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}

	var groups []struct {
		Status models.ConnectionStatus `bson:"_id"`
		Count  int64                   `bson:"count"`
	}
	if err := cursor.All(ctx, &groups); err != nil {
		return nil, err
	}

	counts := make(map[models.ConnectionStatus]int64, len(groups))
	for _, g := range groups {
		counts[g.Status] = g.Count
	}
	return counts, nil
}

func (r *mongoConnectionRepository) CountReceived(ctx context.Context, userID primitive.ObjectID, status models.ConnectionStatus) (int64, error) {
	return r.coll.CountDocuments(ctx, bson.M{"toUserId": userID, "status": status})
}

func (r *mongoConnectionRepository) CountSent(ctx context.Context, userID primitive.ObjectID, status models.ConnectionStatus) (int64, error) {
	return r.coll.CountDocuments(ctx, bson.M{"fromUserId": userID, "status": status})
}

func (r *mongoConnectionRepository) ExistsAccepted(ctx context.Context, a, b primitive.ObjectID) (bool, error) {
	n, err := r.coll.CountDocuments(ctx, bson.M{
		"pairKey": models.PairKey(a, b),
		"status":  models.ConnectionStatusAccepted,
	}, options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *mongoConnectionRepository) PeerIDs(ctx context.Context, userID primitive.ObjectID, statuses ...models.ConnectionStatus) ([]primitive.ObjectID, error) {
	filter := bson.M{"$or": touching(userID)}
	if len(statuses) > 0 {
		filter["status"] = bson.M{"$in": statuses}
	}

	opts := options.Find().SetProjection(bson.M{"fromUserId": 1, "toUserId": 1})
	rows, err := r.find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}

	ids := make([]primitive.ObjectID, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.Peer(userID))
	}
	return ids, nil
}
