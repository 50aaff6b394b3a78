package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/campusfolio/portfolio-api/internal/core/domain"
)

const requestsCollection = "institution_requests"

// InstitutionRequestRepository persists pending institution proposals.
type InstitutionRequestRepository struct {
	coll *mongo.Collection
}

func NewInstitutionRequestRepository(db *mongo.Database) *InstitutionRequestRepository {
	return &InstitutionRequestRepository{coll: db.Collection(requestsCollection)}
}

type mongoRequest struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Name        string             `bson:"name"`
	City        string             `bson:"city,omitempty"`
	Country     string             `bson:"country,omitempty"`
	Domain      string             `bson:"domain"`
	RequestedBy string             `bson:"requested_by,omitempty"`
	Status      string             `bson:"status"`
	CreatedAt   int64              `bson:"created_at"`
	DecidedAt   *time.Time         `bson:"decided_at,omitempty"`
}

func (r *InstitutionRequestRepository) Create(ctx context.Context, req *domain.InstitutionRequest) (*domain.InstitutionRequest, error) {
	doc := mongoRequest{
		Name:        req.Name,
		City:        req.City,
		Country:     req.Country,
		Domain:      req.Domain,
		RequestedBy: req.RequestedBy,
		Status:      string(req.Status),
		CreatedAt:   req.CreatedAt.Unix(),
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert institution request: %w", err)
	}

	created := *req
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		created.ID = oid.Hex()
	}
	return &created, nil
}

func (r *InstitutionRequestRepository) FindByID(ctx context.Context, id string) (*domain.InstitutionRequest, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrRequestNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *InstitutionRequestRepository) FindPendingByDomain(ctx context.Context, emailDomain string) (*domain.InstitutionRequest, error) {
	return r.findOne(ctx, bson.M{"domain": emailDomain, "status": string(domain.RequestPending)})
}

func (r *InstitutionRequestRepository) ListPending(ctx context.Context) ([]domain.InstitutionRequest, error) {
	cur, err := r.coll.Find(ctx, bson.M{"status": string(domain.RequestPending)})
	if err != nil {
		return nil, fmt.Errorf("list pending requests: %w", err)
	}
	defer cur.Close(ctx)

	var out []domain.InstitutionRequest
	for cur.Next(ctx) {
		var mr mongoRequest
		if err := cur.Decode(&mr); err != nil {
			return nil, fmt.Errorf("decode request: %w", err)
		}
		out = append(out, *toRequest(&mr))
	}
	return out, cur.Err()
}

// UpdateStatus moves a pending request to its terminal state. The filter
// includes the pending status so a decided request is never overwritten.
func (r *InstitutionRequestRepository) UpdateStatus(ctx context.Context, id string, status domain.RequestStatus) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrRequestNotFound
	}

	now := time.Now().UTC()
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": oid, "status": string(domain.RequestPending)},
		bson.M{"$set": bson.M{"status": string(status), "decided_at": now}},
	)
	if err != nil {
		return fmt.Errorf("update request status: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrRequestDecided
	}
	return nil
}

func (r *InstitutionRequestRepository) findOne(ctx context.Context, filter bson.M) (*domain.InstitutionRequest, error) {
	var mr mongoRequest
	if err := r.coll.FindOne(ctx, filter).Decode(&mr); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrRequestNotFound
		}
		return nil, fmt.Errorf("find institution request: %w", err)
	}
	return toRequest(&mr), nil
}

func toRequest(mr *mongoRequest) *domain.InstitutionRequest {
	return &domain.InstitutionRequest{
		ID:          mr.ID.Hex(),
		Name:        mr.Name,
		City:        mr.City,
		Country:     mr.Country,
		Domain:      mr.Domain,
		RequestedBy: mr.RequestedBy,
		Status:      domain.RequestStatus(mr.Status),
		CreatedAt:   time.Unix(mr.CreatedAt, 0).UTC(),
		DecidedAt:   mr.DecidedAt,
	}
}
