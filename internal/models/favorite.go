package models

import (
	"time"
)

type Favorite struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	ProductID string    `json:"product_id"`
	CreatedAt time.Time `json:"created_at"`
}

type FavoriteState struct {
	ProductID string `json:"product_id"`
	Favorited bool   `json:"favorited"`
}
