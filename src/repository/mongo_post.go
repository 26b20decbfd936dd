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

const postNotFound = "Post not found"

type mongoPostRepository struct {
	coll *mongo.Collection
}

func (r *mongoPostRepository) Create(ctx context.Context, post *models.Post) error {
	now := time.Now()
	post.Id = primitive.NewObjectID()
	post.IsActive = true
	post.CreatedAt = now
	post.UpdatedAt = now
	if post.Likes == nil {
		post.Likes = []models.Like{}
	}
	if post.Comments == nil {
		post.Comments = []models.Comment{}
	}

	_, err := r.coll.InsertOne(ctx, post)
	return mongoErr(err, "")
}

func (r *mongoPostRepository) GetActive(ctx context.Context, id primitive.ObjectID) (*models.Post, error) {
	var post models.Post
	if err := r.coll.FindOne(ctx, bson.M{"_id": id, "isActive": true}).Decode(&post); err != nil {
		return nil, mongoErr(err, postNotFound)
	}
	return &post, nil
}

func (r *mongoPostRepository) Update(ctx context.Context, post *models.Post) error {
	post.UpdatedAt = time.Now()
	update := bson.M{"$set": bson.M{
		"content":     post.Content,
		"images":      post.Images,
		"videos":      post.Videos,
		"taggedUsers": post.TaggedUsers,
		"updatedAt":   post.UpdatedAt,
	}}
	return r.updateOne(ctx, bson.M{"_id": post.Id, "userId": post.UserId, "isActive": true}, update)
}

func (r *mongoPostRepository) SoftDelete(ctx context.Context, id, owner primitive.ObjectID) error {
	update := bson.M{"$set": bson.M{"isActive": false, "updatedAt": time.Now()}}
	return r.updateOne(ctx, bson.M{"_id": id, "userId": owner, "isActive": true}, update)
}

func (r *mongoPostRepository) ListByAuthors(ctx context.Context, authors []primitive.ObjectID, page models.PageRequest) ([]models.Post, int64, error) {
	filter := bson.M{"userId": bson.M{"$in": authors}, "isActive": true}

	total, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(int64(page.Skip())).
		SetLimit(int64(page.Limit))
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}

	posts := []models.Post{}
	if err := cursor.All(ctx, &posts); err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

// AddLike pushes the like unless the user already has one on the post
func (r *mongoPostRepository) AddLike(ctx context.Context, postID primitive.ObjectID, like models.Like) error {
	filter := bson.M{"_id": postID, "isActive": true, "likes.userId": bson.M{"$ne": like.UserId}}
	update := bson.M{"$push": bson.M{"likes": like}}
	_, err := r.coll.UpdateOne(ctx, filter, update)
	return err
}

func (r *mongoPostRepository) RemoveLike(ctx context.Context, postID, userID primitive.ObjectID) error {
	update := bson.M{"$pull": bson.M{"likes": bson.M{"userId": userID}}}
	_, err := r.coll.UpdateOne(ctx, bson.M{"_id": postID, "isActive": true}, update)
	return err
}

func (r *mongoPostRepository) AddComment(ctx context.Context, postID primitive.ObjectID, comment models.Comment) error {
	update := bson.M{"$push": bson.M{"comments": comment}}
	return r.updateOne(ctx, bson.M{"_id": postID, "isActive": true}, update)
}

func (r *mongoPostRepository) updateOne(ctx context.Context, filter, update bson.M) error {
	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongoErr(mongo.ErrNoDocuments, postNotFound)
	}
	return nil
}
