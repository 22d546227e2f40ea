package main

import (
	"context"
	"log"
	"os"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Run this script once to create database indexes
// Usage: go run scripts/create_indexes.go
func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	mongoURI := os.Getenv("MONGO_URI")
	if mongoURI == "" {
		mongoURI = "mongodb://localhost:27017"
	}
	clientOptions := options.Client().ApplyURI(mongoURI).SetServerSelectionTimeout(30 * time.Second)

	log.Println("🔄 Connecting to MongoDB...")
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		log.Fatalf("❌ Failed to create client: %v", err)
	}
	defer client.Disconnect(ctx)

	if err := client.Ping(ctx, nil); err != nil {
		log.Fatalf("❌ Failed to connect to MongoDB: %v", err)
	}
	log.Println("✅ Connected to MongoDB successfully!")

	dbName := os.Getenv("MONGO_DATABASE")
	if dbName == "" {
		dbName = "arora"
	}
	db := client.Database(dbName)

	// ========================================
	// CATEGORIES COLLECTION INDEXES
	// ========================================
	categories := db.Collection("categories")

	// Slug is the upsert key and must be globally unique.
	_, err = categories.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "slug", Value: 1}},
		Options: options.Index().SetName("idx_category_slug").SetUnique(true),
	})
	if err != nil {
		log.Printf("Failed to create category slug index: %v", err)
	} else {
		log.Println("✅ Created unique index: idx_category_slug on categories.slug")
	}

	// ========================================
	// SUBCATEGORIES COLLECTION INDEXES
	// ========================================
	subcategories := db.Collection("subcategories")

	// Slug is unique within the owning category, hence the compound key.
	_, err = subcategories.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "categoryId", Value: 1},
			{Key: "slug", Value: 1},
		},
		Options: options.Index().SetName("idx_subcategory_category_slug").SetUnique(true),
	})
	if err != nil {
		log.Printf("Failed to create subcategory compound index: %v", err)
	} else {
		log.Println("✅ Created unique index: idx_subcategory_category_slug")
	}

	_, err = subcategories.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "parentId", Value: 1}},
		Options: options.Index().SetName("idx_subcategory_parent"),
	})
	if err != nil {
		log.Printf("Failed to create subcategory parent index: %v", err)
	} else {
		log.Println("✅ Created index: idx_subcategory_parent on subcategories.parentId")
	}

	// ========================================
	// PRODUCTS COLLECTION INDEXES
	// ========================================
	products := db.Collection("products")

	// Compound index for the storefront listing (filter + newest first).
	_, err = products.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "categoryId", Value: 1},
			{Key: "createdAt", Value: -1},
		},
		Options: options.Index().SetName("idx_product_category_date"),
	})
	if err != nil {
		log.Printf("Failed to create product category_date index: %v", err)
	} else {
		log.Println("✅ Created compound index: idx_product_category_date")
	}

	_, err = products.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "subcategoryId", Value: 1}},
		Options: options.Index().SetName("idx_product_subcategory"),
	})
	if err != nil {
		log.Printf("Failed to create product subcategory index: %v", err)
	} else {
		log.Println("✅ Created index: idx_product_subcategory on products.subcategoryId")
	}

	// ========================================
	// MESSAGES COLLECTION INDEXES
	// ========================================
	messages := db.Collection("messages")

	_, err = messages.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "createdAt", Value: -1}},
		Options: options.Index().SetName("idx_message_date"),
	})
	if err != nil {
		log.Printf("Failed to create message date index: %v", err)
	} else {
		log.Println("✅ Created index: idx_message_date on messages.createdAt")
	}

	// ========================================
	// USERS COLLECTION INDEXES
	// ========================================
	users := db.Collection("users")

	_, err = users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetName("idx_user_email").SetUnique(true),
	})
	if err != nil {
		log.Printf("Failed to create user email index: %v", err)
	} else {
		log.Println("✅ Created unique index: idx_user_email on users.email")
	}

	log.Println("\n🎉 All indexes created successfully!")
}
