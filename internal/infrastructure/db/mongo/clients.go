package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/travelguard/backoffice/internal/core/domain"
	"github.com/travelguard/backoffice/internal/core/ports"
)

var _ ports.ClientRepository = (*ClientRepository)(nil)

type ClientRepository struct {
	col        *mongo.Collection
	insurances *mongo.Collection
}

func (r *ClientRepository) Create(ctx context.Context, c *domain.Client) (*domain.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.InsertOne(ctx, c); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrEmailInUse
		}
		return nil, fmt.Errorf("insert client: %w", err)
	}
	created := *c
	return &created, nil
}

func (r *ClientRepository) FindByID(ctx context.Context, id string) (*domain.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var c domain.Client
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&c); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("find client: %w", err)
	}
	return &c, nil
}

func (r *ClientRepository) List(ctx context.Context, f ports.ClientFilter) ([]*domain.Client, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := clientFilter(f)
	total, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count clients: %w", err)
	}

	cur, err := r.col.Find(ctx, filter, pageOptions(f.Page))
	if err != nil {
		return nil, 0, fmt.Errorf("list clients: %w", err)
	}
	var out []*domain.Client
	if err := cur.All(ctx, &out); err != nil {
		return nil, 0, fmt.Errorf("decode clients: %w", err)
	}
	return out, total, nil
}

// clientUpdate builds the update document. Clearing an optional field
// unsets it so the sparse email index ignores the document.
func clientUpdate(patch ports.ClientPatch, now time.Time) bson.M {
	set := bson.M{"updated_at": now}
	unset := bson.M{}
	if patch.Name != nil {
		set["name"] = *patch.Name
	}
	for field, v := range map[string]*string{"email": patch.Email, "phone": patch.Phone} {
		switch {
		case v == nil:
		case *v == "":
			unset[field] = ""
		default:
			set[field] = *v
		}
	}
	update := bson.M{"$set": set}
	if len(unset) > 0 {
		update["$unset"] = unset
	}
	return update
}

func (r *ClientRepository) Update(ctx context.Context, id string, patch ports.ClientPatch) (*domain.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var c domain.Client
	err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": id}, clientUpdate(patch, time.Now().UTC()),
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&c)
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		return nil, domain.ErrClientNotFound
	case mongo.IsDuplicateKeyError(err):
		return nil, domain.ErrEmailInUse
	case err != nil:
		return nil, fmt.Errorf("update client: %w", err)
	}
	return &c, nil
}

// Delete removes the client and then every insurance referencing it.
func (r *ClientRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete client: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrClientNotFound
	}
	if _, err := r.insurances.DeleteMany(ctx, bson.M{"client_id": id}); err != nil {
		return fmt.Errorf("delete client insurances: %w", err)
	}
	return nil
}

func (r *ClientRepository) ExistsByID(ctx context.Context, id string) (bool, error) {
	return exists(ctx, r.col, bson.M{"_id": id})
}

func (r *ClientRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return exists(ctx, r.col, bson.M{"email": email})
}
