package repository

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/fatihhtaskesenn/arora-backend/internal/models"
	"github.com/fatihhtaskesenn/arora-backend/internal/services/classification"
)

type ProductRepository interface {
	FetchProductsPublic(ctx context.Context, filter bson.M, limit, skip int) ([]models.Product, int64, error)
	GetProduct(ctx context.Context, filter bson.M) (models.Product, error)
	CreateProduct(ctx context.Context, product models.Product) (models.Product, error)
	UpdateProduct(ctx context.Context, id primitive.ObjectID, input models.UpdateProductInput) (bool, error)
	DeleteProduct(ctx context.Context, id primitive.ObjectID) error
	ListAll(ctx context.Context) ([]models.Product, error)
	Count(ctx context.Context, filter bson.M) (int64, error)
	WriteAssignment(ctx context.Context, a classification.Assignment) error
}

type MongoProductRepository struct {
	DB *mongo.Database
}

func NewProductRepository(db *mongo.Database) ProductRepository {
	return &MongoProductRepository{DB: db}
}

func (r *MongoProductRepository) FetchProductsPublic(ctx context.Context, filter bson.M, limit, skip int) ([]models.Product, int64, error) {
	collection := r.DB.Collection("products")
	opts := options.Find().
		SetSkip(int64(skip)).
		SetLimit(int64(limit)).
		SetSort(bson.M{"createdAt": -1})

	cursor, err := collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var products []models.Product
	if err := cursor.All(ctx, &products); err != nil {
		return nil, 0, err
	}

	total, err := collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	return products, total, nil
}

func (r *MongoProductRepository) GetProduct(ctx context.Context, filter bson.M) (models.Product, error) {
	collection := r.DB.Collection("products")
	var product models.Product
	if err := collection.FindOne(ctx, filter).Decode(&product); err != nil {
		return models.Product{}, err
	}
	return product, nil
}

func (r *MongoProductRepository) CreateProduct(ctx context.Context, product models.Product) (models.Product, error) {
	collection := r.DB.Collection("products")
	res, err := collection.InsertOne(ctx, product)
	if err != nil {
		return models.Product{}, fmt.Errorf("failed to create product: %w", err)
	}
	product.ID = res.InsertedID.(primitive.ObjectID)
	return product, nil
}

func (r *MongoProductRepository) UpdateProduct(ctx context.Context, id primitive.ObjectID, input models.UpdateProductInput) (bool, error) {
	collection := r.DB.Collection("products")
	input.UpdatedAt = time.Now()
	update := bson.M{"$set": input}

	result, err := collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return false, err
	}
	return result.MatchedCount > 0, nil
}

func (r *MongoProductRepository) DeleteProduct(ctx context.Context, id primitive.ObjectID) error {
	collection := r.DB.Collection("products")
	res, err := collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("product not found")
	}
	return nil
}

// ListAll returns the full product set for a classification run.
func (r *MongoProductRepository) ListAll(ctx context.Context) ([]models.Product, error) {
	collection := r.DB.Collection("products")
	cursor, err := collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var products []models.Product
	if err := cursor.All(ctx, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (r *MongoProductRepository) Count(ctx context.Context, filter bson.M) (int64, error) {
	return r.DB.Collection("products").CountDocuments(ctx, filter)
}

// WriteAssignment persists one classification result. The update is keyed by
// product id and self-contained, so a crash mid-batch leaves prior writes
// intact; writing the same assignment twice is a no-op.
func (r *MongoProductRepository) WriteAssignment(ctx context.Context, a classification.Assignment) error {
	collection := r.DB.Collection("products")
	update := bson.M{"$set": bson.M{
		"categoryId":    a.CategoryID,
		"subcategoryId": a.SubcategoryID,
		"updatedAt":     time.Now(),
	}}

	result, err := collection.UpdateOne(ctx, bson.M{"_id": a.ProductID}, update)
	if err != nil {
		return fmt.Errorf("failed to write assignment for product %s: %w", a.ProductID.Hex(), err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("product %s not found", a.ProductID.Hex())
	}
	return nil
}
