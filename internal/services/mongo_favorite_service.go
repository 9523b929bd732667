package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/nepx/backend/internal/models"
)

type MongoFavoriteService struct {
	favoritesCol *mongo.Collection
	catalog      CatalogRepository
}

type mongoFavoriteDoc struct {
	ID        string    `bson:"_id"`
	UserID    string    `bson:"user_id"`
	ProductID string    `bson:"product_id"`
	CreatedAt time.Time `bson:"created_at"`
}

func NewMongoFavoriteService(ctx context.Context, db *mongo.Database, catalog CatalogRepository) *MongoFavoriteService {
	favs := db.Collection("favorites")

	// Best-effort indexes.
	_, _ = favs.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "product_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}}},
	})

	return &MongoFavoriteService{
		favoritesCol: favs,
		catalog:      catalog,
	}
}

func (s *MongoFavoriteService) AddFavorite(ctx context.Context, userID, productID string) (*models.Favorite, error) {
	if userID == "" || productID == "" {
		return nil, ErrFavoriteBadInput
	}

	// Ensure the product exists so favorites never point at garbage ids.
	if _, err := s.catalog.GetByID(ctx, productID); err != nil {
		if errors.Is(err, ErrProductNotFound) {
			return nil, ErrFavoriteProductGone
		}
		return nil, err
	}

	ctx, cancel := opContext(ctx)
	defer cancel()

	doc := mongoFavoriteDoc{
		ID:        uuid.New().String(),
		UserID:    userID,
		ProductID: productID,
		CreatedAt: time.Now().UTC(),
	}
	if _, err := s.favoritesCol.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrAlreadyFavorited
		}
		return nil, err
	}

	return favoriteDocToModel(doc), nil
}

func (s *MongoFavoriteService) RemoveFavorite(ctx context.Context, userID, productID string) error {
	if userID == "" || productID == "" {
		return ErrFavoriteBadInput
	}

	deleted, err := s.deleteOne(ctx, userID, productID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrFavoriteNotFound
	}
	return nil
}

func (s *MongoFavoriteService) Toggle(ctx context.Context, userID, productID string) (bool, error) {
	if userID == "" || productID == "" {
		return false, ErrFavoriteBadInput
	}

	deleted, err := s.deleteOne(ctx, userID, productID)
	if err != nil {
		return false, err
	}
	if deleted {
		return false, nil
	}

	if _, err := s.AddFavorite(ctx, userID, productID); err != nil {
		// Lost a race with a concurrent add; the product is favorited either way.
		if errors.Is(err, ErrAlreadyFavorited) {
			return true, nil
		}
		return false, err
	}
	return true, nil
}

func (s *MongoFavoriteService) IsFavorited(ctx context.Context, userID, productID string) (bool, error) {
	ctx, cancel := opContext(ctx)
	defer cancel()

	n, err := s.favoritesCol.CountDocuments(ctx, bson.M{
		"user_id":    userID,
		"product_id": productID,
	}, options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *MongoFavoriteService) ListUserFavorites(ctx context.Context, userID string) ([]*models.Favorite, error) {
	if userID == "" {
		return nil, ErrFavoriteBadInput
	}

	ctx, cancel := opContext(ctx)
	defer cancel()

	cur, err := s.favoritesCol.Find(ctx,
		bson.M{"user_id": userID},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}),
	)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := make([]*models.Favorite, 0)
	for cur.Next(ctx) {
		var doc mongoFavoriteDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, favoriteDocToModel(doc))
	}
	return out, cur.Err()
}

func (s *MongoFavoriteService) ListUserFavoriteProducts(ctx context.Context, userID string) ([]models.Product, error) {
	favs, err := s.ListUserFavorites(ctx, userID)
	if err != nil {
		return nil, err
	}
	return resolveFavoriteProducts(ctx, s.catalog, favs)
}

func (s *MongoFavoriteService) DeleteUserFavorites(ctx context.Context, userID string) (int, error) {
	if userID == "" {
		return 0, ErrFavoriteBadInput
	}

	ctx, cancel := opContext(ctx)
	defer cancel()

	res, err := s.favoritesCol.DeleteMany(ctx, bson.M{"user_id": userID})
	if err != nil {
		return 0, err
	}
	return int(res.DeletedCount), nil
}

func (s *MongoFavoriteService) deleteOne(ctx context.Context, userID, productID string) (bool, error) {
	ctx, cancel := opContext(ctx)
	defer cancel()

	res, err := s.favoritesCol.DeleteOne(ctx, bson.M{
		"user_id":    userID,
		"product_id": productID,
	})
	if err != nil {
		return false, err
	}
	return res.DeletedCount > 0, nil
}

func favoriteDocToModel(d mongoFavoriteDoc) *models.Favorite {
	return &models.Favorite{
		ID:        d.ID,
		UserID:    d.UserID,
		ProductID: d.ProductID,
		CreatedAt: d.CreatedAt,
	}
}
