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

const notificationNotFound = "Notification not found"

type mongoNotificationRepository struct {
	coll *mongo.Collection
}

func (r *mongoNotificationRepository) Create(ctx context.Context, n *models.Notification) error {
	now := time.Now()
	n.Id = primitive.NewObjectID()
	n.CreatedAt = now
	n.UpdatedAt = now

	_, err := r.coll.InsertOne(ctx, n)
	return mongoErr(err, "")
}

func (r *mongoNotificationRepository) ListByRecipient(ctx context.Context, recipient primitive.ObjectID) ([]models.Notification, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.coll.Find(ctx, bson.M{"recipient": recipient}, opts)
	if err != nil {
		return nil, err
	}

	notifications := []models.Notification{}
	if err := cursor.All(ctx, &notifications); err != nil {
		return nil, err
	}
	return notifications, nil
}

func (r *mongoNotificationRepository) MarkRead(ctx context.Context, id, recipient primitive.ObjectID) (*models.Notification, error) {
	update := bson.M{"$set": bson.M{"read": true, "updatedAt": time.Now()}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var n models.Notification
	err := r.coll.FindOneAndUpdate(ctx, bson.M{"_id": id, "recipient": recipient}, update, opts).Decode(&n)
	if err != nil {
		return nil, mongoErr(err, notificationNotFound)
	}
	return &n, nil
}

func (r *mongoNotificationRepository) Delete(ctx context.Context, id, recipient primitive.ObjectID) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id, "recipient": recipient})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return mongoErr(mongo.ErrNoDocuments, notificationNotFound)
	}
	return nil
}
