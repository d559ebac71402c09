package repository

import (
	"context"
	"errors"
	"fmt"

	"storefront-service/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

const productsCollection = "products"

// MongoCatalogRepository stores the product catalog in a Mongo collection
// keyed by product id, with a secondary, non-unique index on category.
type MongoCatalogRepository struct {
	collection *mongo.Collection
	log        *zap.Logger
}

func NewMongoCatalogRepository(db *mongo.Database, log *zap.Logger) *MongoCatalogRepository {
	return &MongoCatalogRepository{
		collection: db.Collection(productsCollection),
		log:        log,
	}
}

// EnsureIndexes creates the category index. Safe to call on every startup;
// Mongo treats an existing identical index as a no-op.
func (r *MongoCatalogRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "category", Value: 1}},
	})
	if err != nil {
		return fmt.Errorf("create category index: %w", err)
	}
	return nil
}

func (r *MongoCatalogRepository) GetAll(ctx context.Context) ([]models.Product, error) {
	cursor, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var products []models.Product
	if err = cursor.All(ctx, &products); err != nil {
		return nil, err
	}
	if products == nil {
		products = []models.Product{}
	}
	return products, nil
}

func (r *MongoCatalogRepository) GetByID(ctx context.Context, id string) (*models.Product, error) {
	var product models.Product
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&product)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *MongoCatalogRepository) GetByCategory(ctx context.Context, category string) ([]models.Product, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"category": category})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var products []models.Product
	if err = cursor.All(ctx, &products); err != nil {
		return nil, err
	}
	if products == nil {
		products = []models.Product{}
	}
	return products, nil
}

// ReplaceAll clears the collection and bulk-inserts the given products.
// The insert is unordered: a bad document is counted and logged, the rest
// still land. Partial success beats losing the whole catalog write.
func (r *MongoCatalogRepository) ReplaceAll(ctx context.Context, products []models.Product) error {
	if _, err := r.collection.DeleteMany(ctx, bson.M{}); err != nil {
		return fmt.Errorf("clear products: %w", err)
	}
	if len(products) == 0 {
		return nil
	}

	docs := make([]interface{}, len(products))
	for i, p := range products {
		docs[i] = p
	}

	_, err := r.collection.InsertMany(ctx, docs, options.InsertMany().SetOrdered(false))
	if err != nil {
		var bwe mongo.BulkWriteException
		if errors.As(err, &bwe) {
			r.log.Warn("some products failed to insert",
				zap.Int("failed", len(bwe.WriteErrors)),
				zap.Int("total", len(products)),
			)
			return nil
		}
		return fmt.Errorf("insert products: %w", err)
	}
	return nil
}
