package evegateway

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go-recruiter/pkg/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CharacterTokensCollection holds SSO tokens written by the login flow.
const CharacterTokensCollection = "character_tokens"

type tokenDocument struct {
	CharacterID int32     `bson:"character_id"`
	AccessToken string    `bson:"access_token"`
	ExpiresAt   time.Time `bson:"expires_at"`
}

// MongoTokenStore reads access tokens from MongoDB.
type MongoTokenStore struct {
	collection *mongo.Collection
}

func NewMongoTokenStore(db *database.MongoDB) *MongoTokenStore {
	return &MongoTokenStore{collection: db.Collection(CharacterTokensCollection)}
}

func (s *MongoTokenStore) Token(ctx context.Context, characterID int32) (*Token, error) {
	var doc tokenDocument
	err := s.collection.FindOne(ctx, bson.M{"character_id": characterID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrTokenNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find token: %w", err)
	}
	return &Token{CharacterID: doc.CharacterID, AccessToken: doc.AccessToken, ExpiresAt: doc.ExpiresAt}, nil
}

// EnsureIndexes creates the unique character index.
func (s *MongoTokenStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "character_id", Value: 1}},
		Options: options.Index().SetName("idx_character_id").SetUnique(true),
	})
	return err
}
