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

var _ ports.InsuranceRepository = (*InsuranceRepository)(nil)

type InsuranceRepository struct {
	col *mongo.Collection
}

func (r *InsuranceRepository) Create(ctx context.Context, i *domain.Insurance) (*domain.Insurance, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.InsertOne(ctx, i); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrPolicyNumberInUse
		}
		return nil, fmt.Errorf("insert insurance: %w", err)
	}
	created := *i
	return &created, nil
}

func (r *InsuranceRepository) findOne(ctx context.Context, filter bson.M) (*domain.Insurance, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var i domain.Insurance
	if err := r.col.FindOne(ctx, filter).Decode(&i); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("find insurance: %w", err)
	}
	return &i, nil
}

func (r *InsuranceRepository) FindByID(ctx context.Context, id string) (*domain.Insurance, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *InsuranceRepository) FindByPolicyNumber(ctx context.Context, policyNumber string) (*domain.Insurance, error) {
	return r.findOne(ctx, bson.M{"policy_number": policyNumber})
}

func (r *InsuranceRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*domain.Insurance, error) {
	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("list insurances: %w", err)
	}
	var out []*domain.Insurance
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode insurances: %w", err)
	}
	return out, nil
}

func (r *InsuranceRepository) FindByClientID(ctx context.Context, clientID string) ([]*domain.Insurance, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	return r.find(ctx, bson.M{"client_id": clientID}, options.Find().SetSort(newestFirst))
}

func (r *InsuranceRepository) List(ctx context.Context, f ports.InsuranceFilter) ([]*domain.Insurance, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := insuranceFilter(f)
	total, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count insurances: %w", err)
	}
	items, err := r.find(ctx, filter, pageOptions(f.Page))
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *InsuranceRepository) update(ctx context.Context, id string, set bson.M) (*domain.Insurance, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	set["updated_at"] = time.Now().UTC()
	var i domain.Insurance
	err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&i)
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		return nil, domain.ErrInsuranceNotFound
	case mongo.IsDuplicateKeyError(err):
		return nil, domain.ErrPolicyNumberInUse
	case err != nil:
		return nil, fmt.Errorf("update insurance: %w", err)
	}
	return &i, nil
}

func (r *InsuranceRepository) Update(ctx context.Context, id string, patch ports.InsurancePatch) (*domain.Insurance, error) {
	set := bson.M{}
	if patch.ClientID != nil {
		set["client_id"] = *patch.ClientID
	}
	if patch.PolicyNumber != nil {
		set["policy_number"] = *patch.PolicyNumber
	}
	if patch.Coverage != nil {
		set["coverage"] = *patch.Coverage
	}
	if patch.StartDate != nil {
		set["start_date"] = *patch.StartDate
	}
	if patch.EndDate != nil {
		set["end_date"] = *patch.EndDate
	}
	if patch.Status != nil {
		set["status"] = *patch.Status
	}
	return r.update(ctx, id, set)
}

func (r *InsuranceRepository) UpdateStatus(ctx context.Context, id string, status domain.InsuranceStatus) (*domain.Insurance, error) {
	return r.update(ctx, id, bson.M{"status": status})
}

func (r *InsuranceRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete insurance: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrInsuranceNotFound
	}
	return nil
}

func (r *InsuranceRepository) ExistsByID(ctx context.Context, id string) (bool, error) {
	return exists(ctx, r.col, bson.M{"_id": id})
}

func (r *InsuranceRepository) ExistsByPolicyNumber(ctx context.Context, policyNumber string) (bool, error) {
	return exists(ctx, r.col, bson.M{"policy_number": policyNumber})
}
