package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/vbforge/product-catalog/internal/core/domain"
)

const tagCollection = "tags"

type MongoTagRepository struct {
	coll *mongo.Collection
}

func NewTagRepository(db *mongo.Database) *MongoTagRepository {
	return &MongoTagRepository{coll: db.Collection(tagCollection)}
}

type mongoTag struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Name      string             `bson:"name"`
	CreatedAt int64              `bson:"created_at"`
	UpdatedAt int64              `bson:"updated_at"`
}

func (mt mongoTag) toDomain() domain.Tag {
	return domain.Tag{
		ID:        mt.ID.Hex(),
		Name:      mt.Name,
		CreatedAt: unixToTime(mt.CreatedAt),
		UpdatedAt: unixToTime(mt.UpdatedAt),
	}
}

func (r *MongoTagRepository) Create(ctx context.Context, tag *domain.Tag) (*domain.Tag, error) {
	doc := mongoTag{
		Name:      tag.Name,
		CreatedAt: tag.CreatedAt.Unix(),
		UpdatedAt: tag.UpdatedAt.Unix(),
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrDuplicateName
		}
		return nil, fmt.Errorf("insert tag: %w", err)
	}

	id, _ := res.InsertedID.(primitive.ObjectID)
	return r.FindByID(ctx, id.Hex())
}

func (r *MongoTagRepository) FindByID(ctx context.Context, id string) (*domain.Tag, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrTagNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *MongoTagRepository) FindByName(ctx context.Context, name string) (*domain.Tag, error) {
	return r.findOne(ctx, bson.M{"name": name})
}

func (r *MongoTagRepository) FindAll(ctx context.Context) ([]domain.Tag, error) {
	cursor, err := r.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("find tags: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []mongoTag
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode tags: %w", err)
	}

	tags := make([]domain.Tag, 0, len(docs))
	for _, mt := range docs {
		tags = append(tags, mt.toDomain())
	}
	return tags, nil
}

func (r *MongoTagRepository) Update(ctx context.Context, tag *domain.Tag) (*domain.Tag, error) {
	oid, err := primitive.ObjectIDFromHex(tag.ID)
	if err != nil {
		return nil, domain.ErrTagNotFound
	}

	update := bson.M{"$set": bson.M{
		"name":       tag.Name,
		"updated_at": tag.UpdatedAt.Unix(),
	}}
	res, err := r.coll.UpdateByID(ctx, oid, update)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrDuplicateName
		}
		return nil, fmt.Errorf("update tag: %w", err)
	}
	if res.MatchedCount == 0 {
		return nil, domain.ErrTagNotFound
	}

	return r.FindByID(ctx, tag.ID)
}

func (r *MongoTagRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrTagNotFound
	}

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete tag: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrTagNotFound
	}
	return nil
}

func (r *MongoTagRepository) Count(ctx context.Context) (int64, error) {
	n, err := r.coll.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("count tags: %w", err)
	}
	return n, nil
}

func (r *MongoTagRepository) findOne(ctx context.Context, filter bson.M) (*domain.Tag, error) {
	var mt mongoTag
	if err := r.coll.FindOne(ctx, filter).Decode(&mt); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrTagNotFound
		}
		return nil, fmt.Errorf("find tag: %w", err)
	}
	tag := mt.toDomain()
	return &tag, nil
}
