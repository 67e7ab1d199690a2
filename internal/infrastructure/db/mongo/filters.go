package mongo

import (
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/travelguard/backoffice/internal/core/domain"
	"github.com/travelguard/backoffice/internal/core/ports"
)

// contains matches s anywhere in the field, ignoring case.
func contains(s string) bson.M {
	return bson.M{"$regex": regexp.QuoteMeta(s), "$options": "i"}
}

// dateRange builds a $gte/$lte predicate; nil when both bounds are zero.
func dateRange(from, to time.Time) bson.M {
	r := bson.M{}
	if !from.IsZero() {
		r["$gte"] = from
	}
	if !to.IsZero() {
		r["$lte"] = to
	}
	if len(r) == 0 {
		return nil
	}
	return r
}

func userFilter(f ports.UserFilter) bson.M {
	filter := bson.M{}
	if f.Email != "" {
		filter["email"] = contains(f.Email)
	}
	if f.Role != "" {
		filter["role"] = f.Role
	}
	return filter
}

func clientFilter(f ports.ClientFilter) bson.M {
	filter := bson.M{}
	if f.Search != "" {
		filter["$or"] = bson.A{
			bson.M{"name": contains(f.Search)},
			bson.M{"email": contains(f.Search)},
			bson.M{"phone": contains(f.Search)},
		}
	}
	if f.Name != "" {
		filter["name"] = contains(f.Name)
	}
	if f.Email != "" {
		filter["email"] = contains(f.Email)
	}
	if f.Phone != "" {
		filter["phone"] = contains(f.Phone)
	}
	return filter
}

func insuranceFilter(f ports.InsuranceFilter) bson.M {
	filter := bson.M{}
	if f.ClientID != "" {
		filter["client_id"] = f.ClientID
	}
	if f.PolicyNumber != "" {
		filter["policy_number"] = contains(f.PolicyNumber)
	}
	if f.Coverage != "" {
		filter["coverage"] = contains(f.Coverage)
	}
	if r := dateRange(f.StartFrom, f.StartTo); r != nil {
		filter["start_date"] = r
	}
	if r := dateRange(f.EndFrom, f.EndTo); r != nil {
		filter["end_date"] = r
	}
	if f.Status != "" {
		if f.Now.IsZero() {
			filter["status"] = f.Status
		} else {
			filter["$and"] = bson.A{statusFilter(f.Status, f.Now)}
		}
	}
	return filter
}

// statusFilter matches the status a policy reads as at now.
func statusFilter(status domain.InsuranceStatus, now time.Time) bson.M {
	switch status {
	case domain.InsuranceActive:
		return bson.M{"status": status, "end_date": bson.M{"$gte": now}}
	case domain.InsuranceExpired:
		return bson.M{"$or": bson.A{
			bson.M{"status": domain.InsuranceExpired},
			bson.M{"status": domain.InsuranceActive, "end_date": bson.M{"$lt": now}},
		}}
	}
	return bson.M{"status": status}
}

// newestFirst is the ordering of every list.
var newestFirst = bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}

func pageOptions(p ports.Page) *options.FindOptions {
	p = p.Normalize()
	return options.Find().
		SetSort(newestFirst).
		SetSkip(int64(p.Offset())).
		SetLimit(int64(p.Limit))
}
