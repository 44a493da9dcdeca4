package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/iliyamo/files-manager/internal/model"
)

// fileDoc is the document layout of the `files` collection.  Root nodes
// store a null parentId.
type fileDoc struct {
	ID        primitive.ObjectID  `bson:"_id"`
	UserID    primitive.ObjectID  `bson:"userId"`
	Name      string              `bson:"name"`
	Type      string              `bson:"type"`
	IsPublic  bool                `bson:"isPublic"`
	ParentID  *primitive.ObjectID `bson:"parentId"`
	LocalPath string              `bson:"localPath,omitempty"`
	CreatedAt time.Time           `bson:"createdAt"`
}

func (d *fileDoc) toModel() *model.FileNode {
	n := &model.FileNode{
		ID:        d.ID.Hex(),
		OwnerID:   d.UserID.Hex(),
		Name:      d.Name,
		Kind:      model.FileKind(d.Type),
		IsPublic:  d.IsPublic,
		BlobKey:   d.LocalPath,
		CreatedAt: d.CreatedAt,
	}
	if d.ParentID != nil {
		p := d.ParentID.Hex()
		n.ParentID = &p
	}
	return n
}

// MongoFileRepo stores file nodes in the `files` collection.
type MongoFileRepo struct {
	db *mongo.Database
	c  *mongo.Collection
}

func NewMongoFileRepo(db *mongo.Database) *MongoFileRepo {
	return &MongoFileRepo{db: db, c: db.Collection("files")}
}

// EnsureIndexes creates the listing index (owner, parent, insertion order).
func (r *MongoFileRepo) EnsureIndexes(ctx context.Context) error {
	_, err := r.c.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "parentId", Value: 1}, {Key: "_id", Value: 1}},
		Options: options.Index().SetName("idx_files_user_parent"),
	})
	return err
}

func (r *MongoFileRepo) Insert(ctx context.Context, n *model.FileNode) (string, error) {
	owner, err := primitive.ObjectIDFromHex(n.OwnerID)
	if err != nil {
		return "", ErrInvalidID
	}
	var parent *primitive.ObjectID
	if n.ParentID != nil {
		p, err := primitive.ObjectIDFromHex(*n.ParentID)
		if err != nil {
			return "", ErrInvalidID
		}
		parent = &p
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now().UTC()
	}
	doc := fileDoc{
		ID:        primitive.NewObjectID(),
		UserID:    owner,
		Name:      n.Name,
		Type:      string(n.Kind),
		IsPublic:  n.IsPublic,
		ParentID:  parent,
		LocalPath: n.BlobKey,
		CreatedAt: n.CreatedAt,
	}
	if _, err := r.c.InsertOne(ctx, doc); err != nil {
		return "", err
	}
	n.ID = doc.ID.Hex()
	return n.ID, nil
}

func (r *MongoFileRepo) FindByID(ctx context.Context, id string) (*model.FileNode, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrInvalidID
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *MongoFileRepo) FindByIDForOwner(ctx context.Context, id, ownerID string) (*model.FileNode, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrInvalidID
	}
	owner, err := primitive.ObjectIDFromHex(ownerID)
	if err != nil {
		return nil, ErrFileNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid, "userId": owner})
}

func (r *MongoFileRepo) List(ctx context.Context, ownerID string, parentID *string, page int) ([]*model.FileNode, error) {
	out := []*model.FileNode{}
	if page < 0 || int64(page) > MaxPage {
		return out, nil
	}
	owner, err := primitive.ObjectIDFromHex(ownerID)
	if err != nil {
		return out, nil
	}
	filter := bson.M{"userId": owner, "parentId": nil}
	if parentID != nil {
		p, err := primitive.ObjectIDFromHex(*parentID)
		if err != nil {
			return out, nil
		}
		filter["parentId"] = p
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "_id", Value: 1}}).
		SetSkip(int64(page) * PageSize).
		SetLimit(PageSize)
	cursor, err := r.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []fileDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	for i := range docs {
		out = append(out, docs[i].toModel())
	}
	return out, nil
}

func (r *MongoFileRepo) SetPublic(ctx context.Context, id, ownerID string, value bool) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil
	}
	owner, err := primitive.ObjectIDFromHex(ownerID)
	if err != nil {
		return nil
	}
	_, err = r.c.UpdateOne(ctx,
		bson.M{"_id": oid, "userId": owner},
		bson.M{"$set": bson.M{"isPublic": value}})
	return err
}

func (r *MongoFileRepo) Count(ctx context.Context) (int64, error) {
	return r.c.CountDocuments(ctx, bson.M{})
}

func (r *MongoFileRepo) Ping(ctx context.Context) error {
	return r.db.Client().Ping(ctx, nil)
}

func (r *MongoFileRepo) findOne(ctx context.Context, filter bson.M) (*model.FileNode, error) {
	var d fileDoc
	if err := r.c.FindOne(ctx, filter).Decode(&d); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrFileNotFound
		}
		return nil, err
	}
	return d.toModel(), nil
}
