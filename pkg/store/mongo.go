package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoStore persists bindings in MongoDB for the service deployment.
// Three collections mirror the file backend's maps: bindings (one doc per
// parent+user), parents, and muted (presence of a doc means muted).
type MongoStore struct {
	client   *mongo.Client
	bindings *mongo.Collection
	parents  *mongo.Collection
	muted    *mongo.Collection
}

type bindingDoc struct {
	ParentID string `bson:"parent_id"`
	Binding  `bson:",inline"`
}

// NewMongoStore connects to uri and uses the given database name.
func NewMongoStore(ctx context.Context, uri, database string) (*MongoStore, error) {
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	db := client.Database(database)
	return &MongoStore{
		client:   client,
		bindings: db.Collection("bindings"),
		parents:  db.Collection("parents"),
		muted:    db.Collection("muted"),
	}, nil
}

func (s *MongoStore) Binding(ctx context.Context, parentID, userID string) (*Binding, error) {
	var doc bindingDoc
	err := s.bindings.FindOne(ctx, bson.M{"parent_id": parentID, "user_id": userID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find binding: %w", err)
	}
	return &doc.Binding, nil
}

func (s *MongoStore) Bindings(ctx context.Context, parentID string) ([]Binding, error) {
	cursor, err := s.bindings.Find(ctx, bson.M{"parent_id": parentID})
	if err != nil {
		return nil, fmt.Errorf("find bindings: %w", err)
	}
	defer cursor.Close(ctx)

	var out []Binding
	for cursor.Next(ctx) {
		var doc bindingDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode binding: %w", err)
		}
		out = append(out, doc.Binding)
	}
	return out, cursor.Err()
}

func (s *MongoStore) SetBinding(ctx context.Context, parentID string, b Binding) error {
	_, err := s.bindings.UpdateOne(ctx,
		bson.M{"parent_id": parentID, "user_id": b.UserID},
		bson.M{"$set": bindingDoc{ParentID: parentID, Binding: b}},
		options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("upsert binding: %w", err)
	}
	return nil
}

func (s *MongoStore) RemoveBinding(ctx context.Context, parentID, userID string) error {
	_, err := s.bindings.DeleteOne(ctx, bson.M{"parent_id": parentID, "user_id": userID})
	if err != nil {
		return fmt.Errorf("delete binding: %w", err)
	}
	return nil
}

func (s *MongoStore) Parent(ctx context.Context, parentID string) (*Parent, error) {
	var p Parent
	err := s.parents.FindOne(ctx, bson.M{"id": parentID}).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find parent: %w", err)
	}
	return &p, nil
}

func (s *MongoStore) SetParent(ctx context.Context, p Parent) error {
	_, err := s.parents.UpdateOne(ctx,
		bson.M{"id": p.ID},
		bson.M{"$set": p},
		options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("upsert parent: %w", err)
	}
	return nil
}

func (s *MongoStore) Muted(ctx context.Context, parentID string) (bool, error) {
	err := s.muted.FindOne(ctx, bson.M{"id": parentID}).Err()
	if errors.Is(err, mongo.ErrNoDocuments) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("find muted: %w", err)
	}
	return true, nil
}

func (s *MongoStore) SetMuted(ctx context.Context, parentID string, muted bool) error {
	var err error
	if muted {
		_, err = s.muted.UpdateOne(ctx,
			bson.M{"id": parentID},
			bson.M{"$set": bson.M{"id": parentID}},
			options.Update().SetUpsert(true))
	} else {
		_, err = s.muted.DeleteOne(ctx, bson.M{"id": parentID})
	}
	if err != nil {
		return fmt.Errorf("update muted: %w", err)
	}
	return nil
}

func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

var _ Store = (*MongoStore)(nil)
