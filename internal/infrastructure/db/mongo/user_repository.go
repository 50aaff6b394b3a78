package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/campusfolio/portfolio-api/internal/core/domain"
	"github.com/campusfolio/portfolio-api/internal/core/ports"
)

const usersCollection = "users"

// UserRepository persists identity records. The collection carries unique
// indexes on email and index_code.
type UserRepository struct {
	coll *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{coll: db.Collection(usersCollection)}
}

type mongoUser struct {
	ID               primitive.ObjectID `bson:"_id,omitempty"`
	Email            string             `bson:"email"`
	PasswordHash     string             `bson:"password_hash"`
	Name             string             `bson:"name"`
	IndexCode        string             `bson:"index_code"`
	RegistrationCode string             `bson:"registration_code,omitempty"`
	InstitutionID    string             `bson:"institution_id"`
	Role             string             `bson:"role"`
	Avatar           string             `bson:"avatar,omitempty"`
	Banned           bool               `bson:"banned"`
	BannedAt         *time.Time         `bson:"banned_at,omitempty"`
	BanReason        string             `bson:"ban_reason,omitempty"`
	CreatedAt        int64              `bson:"created_at"`
	UpdatedAt        int64              `bson:"updated_at"`
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	doc := mongoUser{
		Email:            user.Email,
		PasswordHash:     user.PasswordHash,
		Name:             user.Name,
		IndexCode:        user.IndexCode,
		RegistrationCode: user.RegistrationCode,
		InstitutionID:    user.InstitutionID,
		Role:             user.Role,
		Avatar:           user.Avatar,
		CreatedAt:        user.CreatedAt.Unix(),
		UpdatedAt:        user.UpdatedAt.Unix(),
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrUserExists
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}

	created := *user
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		created.ID = oid.Hex()
	}
	return &created, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *UserRepository) FindByEmailAndIndexCode(ctx context.Context, email, indexCode string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"email": email, "index_code": indexCode})
}

func (r *UserRepository) UpdatePasswordHash(ctx context.Context, id, hash string) error {
	return r.setFields(ctx, id, bson.M{"password_hash": hash})
}

// UpdateBanStatus writes the whole ban field-set in one update so the flag,
// timestamp and reason never diverge.
func (r *UserRepository) UpdateBanStatus(ctx context.Context, id string, upd ports.BanUpdate) error {
	fields := bson.M{
		"banned":     upd.Banned,
		"banned_at":  upd.BannedAt,
		"ban_reason": upd.Reason,
	}
	if !upd.Banned {
		fields["banned_at"] = nil
		fields["ban_reason"] = ""
	}
	return r.setFields(ctx, id, fields)
}

func (r *UserRepository) UpdateRole(ctx context.Context, id, role string) error {
	return r.setFields(ctx, id, bson.M{"role": role})
}

func (r *UserRepository) UpdateProfileFields(ctx context.Context, id string, upd ports.ProfileUpdate) error {
	fields := bson.M{}
	if upd.Name != nil {
		fields["name"] = *upd.Name
	}
	if upd.Avatar != nil {
		fields["avatar"] = *upd.Avatar
	}
	if len(fields) == 0 {
		return nil
	}
	return r.setFields(ctx, id, fields)
}

func (r *UserRepository) CountByInstitution(ctx context.Context, institutionID string) (int64, error) {
	n, err := r.coll.CountDocuments(ctx, bson.M{"institution_id": institutionID})
	if err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return n, nil
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	var mu mongoUser
	if err := r.coll.FindOne(ctx, filter).Decode(&mu); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	return &domain.User{
		ID:               mu.ID.Hex(),
		Email:            mu.Email,
		PasswordHash:     mu.PasswordHash,
		Name:             mu.Name,
		IndexCode:        mu.IndexCode,
		RegistrationCode: mu.RegistrationCode,
		InstitutionID:    mu.InstitutionID,
		Role:             mu.Role,
		Avatar:           mu.Avatar,
		Banned:           mu.Banned,
		BannedAt:         mu.BannedAt,
		BanReason:        mu.BanReason,
		CreatedAt:        unixToTime(mu.CreatedAt),
		UpdatedAt:        unixToTime(mu.UpdatedAt),
	}, nil
}

func (r *UserRepository) setFields(ctx context.Context, id string, fields bson.M) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrUserNotFound
	}

	fields["updated_at"] = time.Now().UTC().Unix()
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": fields})
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func unixToTime(ts int64) time.Time {
	if ts == 0 {
		return time.Time{}
	}
	return time.Unix(ts, 0).UTC()
}
