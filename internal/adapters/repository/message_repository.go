package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/fatihhtaskesenn/arora-backend/internal/models"
)

type MessageRepository interface {
	CreateMessage(ctx context.Context, message models.Message) (models.Message, error)
	ListMessages(ctx context.Context, limit, skip int) ([]models.Message, int64, error)
	MarkRead(ctx context.Context, id primitive.ObjectID) error
}

type MongoMessageRepository struct {
	DB *mongo.Database
}

func NewMessageRepository(db *mongo.Database) MessageRepository {
	return &MongoMessageRepository{DB: db}
}

func (r *MongoMessageRepository) CreateMessage(ctx context.Context, message models.Message) (models.Message, error) {
	message.CreatedAt = time.Now()
	res, err := r.DB.Collection("messages").InsertOne(ctx, message)
	if err != nil {
		return models.Message{}, err
	}
	message.ID = res.InsertedID.(primitive.ObjectID)
	return message, nil
}

func (r *MongoMessageRepository) ListMessages(ctx context.Context, limit, skip int) ([]models.Message, int64, error) {
	collection := r.DB.Collection("messages")
	opts := options.Find().
		SetSkip(int64(skip)).
		SetLimit(int64(limit)).
		SetSort(bson.M{"createdAt": -1})

	cursor, err := collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	messages := []models.Message{}
	if err := cursor.All(ctx, &messages); err != nil {
		return nil, 0, err
	}

	total, err := collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, 0, err
	}
	return messages, total, nil
}

func (r *MongoMessageRepository) MarkRead(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.DB.Collection("messages").UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"read": true}})
	return err
}
