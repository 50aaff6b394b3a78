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

const institutionsCollection = "institutions"

// InstitutionRepository persists institutions. The collection carries a
// unique index on domain.
type InstitutionRepository struct {
	coll *mongo.Collection
}

func NewInstitutionRepository(db *mongo.Database) *InstitutionRepository {
	return &InstitutionRepository{coll: db.Collection(institutionsCollection)}
}

type mongoInstitution struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Name      string             `bson:"name"`
	City      string             `bson:"city,omitempty"`
	Country   string             `bson:"country,omitempty"`
	Domain    string             `bson:"domain"`
	CreatedAt int64              `bson:"created_at"`
}

func (r *InstitutionRepository) Create(ctx context.Context, inst *domain.Institution) (*domain.Institution, error) {
	doc := mongoInstitution{
		Name:      inst.Name,
		City:      inst.City,
		Country:   inst.Country,
		Domain:    inst.Domain,
		CreatedAt: inst.CreatedAt.Unix(),
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrDomainTaken
		}
		return nil, fmt.Errorf("insert institution: %w", err)
	}

	created := *inst
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		created.ID = oid.Hex()
	}
	return &created, nil
}

func (r *InstitutionRepository) FindByDomain(ctx context.Context, emailDomain string) (*domain.Institution, error) {
	return r.findOne(ctx, bson.M{"domain": emailDomain})
}

func (r *InstitutionRepository) FindByID(ctx context.Context, id string) (*domain.Institution, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrInstitutionNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *InstitutionRepository) List(ctx context.Context) ([]domain.Institution, error) {
	cur, err := r.coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("list institutions: %w", err)
	}
	defer cur.Close(ctx)

	var out []domain.Institution
	for cur.Next(ctx) {
		var mi mongoInstitution
		if err := cur.Decode(&mi); err != nil {
			return nil, fmt.Errorf("decode institution: %w", err)
		}
		out = append(out, *toInstitution(&mi))
	}
	return out, cur.Err()
}

func (r *InstitutionRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrInstitutionNotFound
	}

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete institution: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrInstitutionNotFound
	}
	return nil
}

func (r *InstitutionRepository) findOne(ctx context.Context, filter bson.M) (*domain.Institution, error) {
	var mi mongoInstitution
	if err := r.coll.FindOne(ctx, filter).Decode(&mi); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrInstitutionNotFound
		}
		return nil, fmt.Errorf("find institution: %w", err)
	}
	return toInstitution(&mi), nil
}

func toInstitution(mi *mongoInstitution) *domain.Institution {
	return &domain.Institution{
		ID:        mi.ID.Hex(),
		Name:      mi.Name,
		City:      mi.City,
		Country:   mi.Country,
		Domain:    mi.Domain,
		CreatedAt: time.Unix(mi.CreatedAt, 0).UTC(),
	}
}
