package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/openquill/inkwell/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// PostRepository defines the interface for post data operations
type PostRepository interface {
	CreatePost(ctx context.Context, post *models.Post) error
	GetPostByID(ctx context.Context, id string) (*models.Post, error)
	GetPostsByAuthor(ctx context.Context, authorID uint, includeUnpublished bool) ([]models.Post, error)
	GetPublishedPosts(ctx context.Context) ([]models.Post, error)
	UpdatePost(ctx context.Context, id string, post *models.Post) error
	SetPublished(ctx context.Context, id string, published bool) error
	DeletePost(ctx context.Context, id string) error
	IncrementViewCount(ctx context.Context, id string) error
}

// MongoPostRepository implements PostRepository for MongoDB
type MongoPostRepository struct {
	collection *mongo.Collection
}

// NewMongoPostRepository creates a new MongoPostRepository
func NewMongoPostRepository(db *mongo.Database) *MongoPostRepository {
	return &MongoPostRepository{collection: db.Collection("posts")}
}

// CreatePost creates a new post in MongoDB
func (r *MongoPostRepository) CreatePost(ctx context.Context, post *models.Post) error {
	post.ID = primitive.NewObjectID()
	post.CreatedAt = time.Now()
	post.UpdatedAt = time.Now()
	_, err := r.collection.InsertOne(ctx, post)
	return err
}

// GetPostByID retrieves a post by ID from MongoDB
func (r *MongoPostRepository) GetPostByID(ctx context.Context, id string) (*models.Post, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid post ID format: %w", err)
	}

	var post models.Post
	err = r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&post)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &post, nil
}

// GetPostsByAuthor retrieves posts written by a specific author, most recent
// first. Unpublished drafts are included only when requested (author dashboard).
func (r *MongoPostRepository) GetPostsByAuthor(ctx context.Context, authorID uint, includeUnpublished bool) ([]models.Post, error) {
	filter := bson.M{"author_id": authorID}
	if !includeUnpublished {
		filter["published"] = true
	}

	var posts []models.Post
	findOptions := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// GetPublishedPosts retrieves every published post, most recent first. This is
// the raw candidate set the discovery pipeline filters and ranks.
func (r *MongoPostRepository) GetPublishedPosts(ctx context.Context) ([]models.Post, error) {
	var posts []models.Post
	findOptions := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"published": true}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// UpdatePost updates an existing post in MongoDB
func (r *MongoPostRepository) UpdatePost(ctx context.Context, id string, post *models.Post) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid post ID format: %w", err)
	}

	post.UpdatedAt = time.Now()
	update := bson.M{
		"$set": bson.M{
			"title":              post.Title,
			"content":            post.Content,
			"excerpt":            post.Excerpt,
			"featured_image_url": post.FeaturedImageURL,
			"tags":               post.Tags,
			"published":          post.Published,
			"is_featured":        post.IsFeatured,
			"updated_at":         post.UpdatedAt,
		},
	}
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": objID}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// SetPublished flips the publication flag. Flipping it false removes the post
// from discovery on the next fetch; no hard delete happens here.
func (r *MongoPostRepository) SetPublished(ctx context.Context, id string, published bool) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid post ID format: %w", err)
	}
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": objID},
		bson.M{"$set": bson.M{"published": published, "updated_at": time.Now()}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// DeletePost deletes a post by ID from MongoDB
func (r *MongoPostRepository) DeletePost(ctx context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid post ID format: %w", err)
	}

	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// IncrementViewCount bumps the view counter by exactly one. The counter is
// monotonic; callers are responsible for triggering this at most once per visit.
func (r *MongoPostRepository) IncrementViewCount(ctx context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid post ID format: %w", err)
	}
	_, err = r.collection.UpdateOne(ctx, bson.M{"_id": objID}, bson.M{"$inc": bson.M{"view_count": 1}})
	return err
}
