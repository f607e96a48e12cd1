package sde

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go-recruiter/pkg/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	TypesCollection  = "sde_types"
	GroupsCollection = "sde_groups"
)

type typeDocument struct {
	Type      `bson:",inline"`
	NameLower string `bson:"name_lower"`
}

// MongoStore keeps the reference dataset in MongoDB so that entries learned from
// the remote API survive restarts and are shared between instances.
type MongoStore struct {
	types  *mongo.Collection
	groups *mongo.Collection
}

func NewMongoStore(db *database.MongoDB) *MongoStore {
	return &MongoStore{
		types:  db.Collection(TypesCollection),
		groups: db.Collection(GroupsCollection),
	}
}

func (s *MongoStore) TypeByID(ctx context.Context, typeID int32) (*Type, error) {
	var doc typeDocument
	if err := findOne(ctx, s.types, bson.M{"_id": typeID}, &doc); err != nil {
		return nil, fmt.Errorf("type %d: %w", typeID, err)
	}
	return &doc.Type, nil
}

func (s *MongoStore) TypeByName(ctx context.Context, name string) (*Type, error) {
	var doc typeDocument
	if err := findOne(ctx, s.types, bson.M{"name_lower": strings.ToLower(strings.TrimSpace(name))}, &doc); err != nil {
		return nil, fmt.Errorf("type %q: %w", name, err)
	}
	return &doc.Type, nil
}

func (s *MongoStore) GroupByID(ctx context.Context, groupID int32) (*Group, error) {
	var g Group
	if err := findOne(ctx, s.groups, bson.M{"_id": groupID}, &g); err != nil {
		return nil, fmt.Errorf("group %d: %w", groupID, err)
	}
	return &g, nil
}

func (s *MongoStore) UpsertType(ctx context.Context, t *Type) error {
	doc := typeDocument{Type: *t, NameLower: strings.ToLower(t.EnglishName())}
	_, err := s.types.ReplaceOne(ctx, bson.M{"_id": t.TypeID}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to upsert type %d: %w", t.TypeID, err)
	}
	return nil
}

func (s *MongoStore) UpsertGroup(ctx context.Context, g *Group) error {
	_, err := s.groups.ReplaceOne(ctx, bson.M{"_id": g.GroupID}, g, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to upsert group %d: %w", g.GroupID, err)
	}
	return nil
}

// Stats counts the stored documents.
func (s *MongoStore) Stats(ctx context.Context) (Stats, error) {
	types, err := s.types.EstimatedDocumentCount(ctx)
	if err != nil {
		return Stats{}, err
	}
	groups, err := s.groups.EstimatedDocumentCount(ctx)
	if err != nil {
		return Stats{}, err
	}
	return Stats{Backend: "mongo", Loaded: types > 0, Types: int(types), Groups: int(groups)}, nil
}

// EnsureIndexes creates the name lookup index.
func (s *MongoStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.types.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "name_lower", Value: 1}},
		Options: options.Index().SetName("idx_name_lower"),
	})
	return err
}

// Import copies every entry of a file backed service into the store.
func (s *MongoStore) Import(ctx context.Context, src *Service) (int, error) {
	if err := src.ensureLoaded(); err != nil {
		return 0, err
	}
	src.mu.RLock()
	types := make([]*Type, 0, len(src.types))
	for _, t := range src.types {
		types = append(types, t)
	}
	groups := make([]*Group, 0, len(src.groups))
	for _, g := range src.groups {
		groups = append(groups, g)
	}
	src.mu.RUnlock()

	for _, g := range groups {
		if err := s.UpsertGroup(ctx, g); err != nil {
			return 0, err
		}
	}
	for _, t := range types {
		if err := s.UpsertType(ctx, t); err != nil {
			return 0, err
		}
	}
	return len(types) + len(groups), nil
}

func findOne(ctx context.Context, c *mongo.Collection, filter bson.M, dest any) error {
	err := c.FindOne(ctx, filter).Decode(dest)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	return err
}
