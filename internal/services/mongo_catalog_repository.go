package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/nepx/backend/internal/models"
)

const productCounterID = "products"

type MongoCatalogRepository struct {
	productsColl *mongo.Collection
	countersColl *mongo.Collection
}

type mongoProductDoc struct {
	ID               string `bson:"_id"`
	Seq              int64  `bson:"seq"`
	Name             string `bson:"name"`
	Brand            string `bson:"brand"`
	Image            string `bson:"image"`
	LowestAsk        int64  `bson:"lowest_ask"`
	LastSalePrice    *int64 `bson:"last_sale_price,omitempty"`
	RetailPrice      int64  `bson:"retail_price"`
	Category         string `bson:"category"`
	IsXpressShipping bool   `bson:"is_xpress_shipping"`
}

type mongoCounterDoc struct {
	ID    string `bson:"_id"`
	Value int64  `bson:"value"`
}

// NewMongoCatalogRepository uses the products collection of db, inserting
// seed when the collection is empty.
func NewMongoCatalogRepository(ctx context.Context, db *mongo.Database, seed []models.Product) (*MongoCatalogRepository, error) {
	repo := &MongoCatalogRepository{
		productsColl: db.Collection("products"),
		countersColl: db.Collection("counters"),
	}

	// Best-effort indexes.
	_, _ = repo.productsColl.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "seq", Value: 1}}},
		{Keys: bson.D{{Key: "category", Value: 1}, {Key: "seq", Value: 1}}},
	})

	if err := repo.seed(ctx, seed); err != nil {
		return nil, err
	}
	return repo, nil
}

func (r *MongoCatalogRepository) seed(ctx context.Context, seed []models.Product) error {
	n, err := r.productsColl.CountDocuments(ctx, bson.M{})
	if err != nil {
		return fmt.Errorf("count products: %w", err)
	}
	if n > 0 || len(seed) == 0 {
		return nil
	}

	docs := make([]interface{}, 0, len(seed))
	// The counter must end above both the last seq and every numeric id so
	// generated ids never collide with seeded ones.
	high := int64(len(seed))
	for i, p := range seed {
		if id, err := strconv.ParseInt(p.ID, 10, 64); err == nil && id > high {
			high = id
		}
		docs = append(docs, productToDoc(p, int64(i+1)))
	}

	if _, err := r.productsColl.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("seed products: %w", err)
	}

	_, err = r.countersColl.UpdateOne(ctx,
		bson.M{"_id": productCounterID},
		bson.M{"$max": bson.M{"value": high}},
		options.Update().SetUpsert(true),
	)
	return err
}

func productToDoc(p models.Product, seq int64) mongoProductDoc {
	return mongoProductDoc{
		ID:               p.ID,
		Seq:              seq,
		Name:             p.Name,
		Brand:            p.Brand,
		Image:            p.Image,
		LowestAsk:        p.LowestAsk,
		LastSalePrice:    p.LastSalePrice,
		RetailPrice:      p.RetailPrice,
		Category:         p.Category,
		IsXpressShipping: p.IsXpressShipping,
	}
}

func productDocToModel(d mongoProductDoc) models.Product {
	return models.Product{
		ID:               d.ID,
		Name:             d.Name,
		Brand:            d.Brand,
		Image:            d.Image,
		LowestAsk:        d.LowestAsk,
		LastSalePrice:    d.LastSalePrice,
		RetailPrice:      d.RetailPrice,
		Category:         d.Category,
		IsXpressShipping: d.IsXpressShipping,
	}
}

func (r *MongoCatalogRepository) List(ctx context.Context) ([]models.Product, error) {
	return r.find(ctx, bson.M{})
}

func (r *MongoCatalogRepository) ListByCategory(ctx context.Context, category string) ([]models.Product, error) {
	return r.find(ctx, bson.M{"category": category})
}

func (r *MongoCatalogRepository) find(ctx context.Context, filter bson.M) ([]models.Product, error) {
	ctx, cancel := opContext(ctx)
	defer cancel()

	cur, err := r.productsColl.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "seq", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := make([]models.Product, 0)
	for cur.Next(ctx) {
		var doc mongoProductDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, productDocToModel(doc))
	}
	return out, cur.Err()
}

func (r *MongoCatalogRepository) GetByID(ctx context.Context, id string) (*models.Product, error) {
	ctx, cancel := opContext(ctx)
	defer cancel()

	var doc mongoProductDoc
	if err := r.productsColl.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	p := productDocToModel(doc)
	return &p, nil
}

func (r *MongoCatalogRepository) Create(ctx context.Context, product *models.Product) error {
	ctx, cancel := opContext(ctx)
	defer cancel()

	seq, err := r.nextSeq(ctx)
	if err != nil {
		return fmt.Errorf("allocate product id: %w", err)
	}
	if product.ID == "" {
		product.ID = strconv.FormatInt(seq, 10)
	}

	if _, err := r.productsColl.InsertOne(ctx, productToDoc(*product, seq)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrProductExists
		}
		return err
	}
	return nil
}

func (r *MongoCatalogRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := opContext(ctx)
	defer cancel()

	res, err := r.productsColl.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrProductNotFound
	}
	return nil
}

func (r *MongoCatalogRepository) nextSeq(ctx context.Context) (int64, error) {
	var counter mongoCounterDoc
	err := r.countersColl.FindOneAndUpdate(ctx,
		bson.M{"_id": productCounterID},
		bson.M{"$inc": bson.M{"value": 1}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&counter)
	if err != nil {
		return 0, err
	}
	return counter.Value, nil
}
