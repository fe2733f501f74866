// Package storage provides MongoDB storage for TokenPulse.
package storage

import (
	"context"
	"time"

	"github.com/lurelabs/tokenpulse/internal/models"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store provides access to all MongoDB collections.
type Store struct {
	client *mongo.Client
	db     *mongo.Database
	tokens *mongo.Collection
	posts  *mongo.Collection
}

// NewStore creates a new storage connection.
func NewStore(ctx context.Context, uri, dbName string) (*Store, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, err
	}

	db := client.Database(dbName)
	log.Info().Str("db", dbName).Msg("Connected to MongoDB")

	store := &Store{
		client: client,
		db:     db,
		tokens: db.Collection("lureTokens"),
		posts:  db.Collection("processedPosts"),
	}

	if err := store.createIndexes(ctx); err != nil {
		log.Warn().Err(err).Msg("Failed to create some indexes")
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// createIndexes creates necessary indexes for efficient queries.
func (s *Store) createIndexes(ctx context.Context) error {
	tokenIndexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "timestamp", Value: -1}}},
		{Keys: bson.D{{Key: "token_symbol", Value: 1}}},
	}
	if _, err := s.tokens.Indexes().CreateMany(ctx, tokenIndexes); err != nil {
		log.Warn().Err(err).Msg("Failed to create token indexes")
	}

	postIndexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "token_symbol", Value: 1}}},
		{Keys: bson.D{{Key: "posted", Value: 1}}},
	}
	if _, err := s.posts.Indexes().CreateMany(ctx, postIndexes); err != nil {
		log.Warn().Err(err).Msg("Failed to create post indexes")
	}

	return nil
}

// ============================================================================
// TOKEN OPERATIONS
// ============================================================================

// GetLatestTokens returns collected token snapshots, newest first. An empty
// collection yields an empty slice, not an error.
func (s *Store) GetLatestTokens(ctx context.Context, limit int) ([]models.TokenRecord, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := s.tokens.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var tokens []models.TokenRecord
	if err := cursor.All(ctx, &tokens); err != nil {
		return nil, err
	}
	return tokens, nil
}

// GetTokenBySymbol returns the latest snapshot for a symbol.
func (s *Store) GetTokenBySymbol(ctx context.Context, symbol string) (*models.TokenRecord, error) {
	var token models.TokenRecord
	opts := options.FindOne().SetSort(bson.D{{Key: "timestamp", Value: -1}})
	err := s.tokens.FindOne(ctx, bson.M{"token_symbol": symbol}, opts).Decode(&token)
	if err != nil {
		return nil, err
	}
	return &token, nil
}

// SaveToken stores a collected token snapshot.
func (s *Store) SaveToken(ctx context.Context, token *models.TokenRecord) error {
	if token.Timestamp.IsZero() {
		token.Timestamp = time.Now()
	}
	_, err := s.tokens.InsertOne(ctx, token)
	return err
}

// ============================================================================
// PROCESSED POST OPERATIONS
// ============================================================================

// SaveProcessed stores one generation + dispatch record.
func (s *Store) SaveProcessed(ctx context.Context, post *models.ProcessedPost) error {
	post.CreatedAt = time.Now()

	result, err := s.posts.InsertOne(ctx, post)
	if err != nil {
		return err
	}
	if id, ok := result.InsertedID.(primitive.ObjectID); ok {
		post.ID = id
	}
	return nil
}

// MarkPosted flags a processed record as delivered.
func (s *Store) MarkPosted(ctx context.Context, id primitive.ObjectID) error {
	filter := bson.M{"_id": id}
	update := bson.M{"$set": bson.M{"posted": true}}
	_, err := s.posts.UpdateOne(ctx, filter, update)
	return err
}

// GetUnposted returns processed records not yet delivered anywhere.
func (s *Store) GetUnposted(ctx context.Context, limit int) ([]models.ProcessedPost, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit))

	filter := bson.M{"posted": false}
	return s.findPosts(ctx, filter, opts)
}

// GetRecentProcessed returns the most recent processed records.
func (s *Store) GetRecentProcessed(ctx context.Context, limit int) ([]models.ProcessedPost, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit))

	return s.findPosts(ctx, bson.M{}, opts)
}

func (s *Store) findPosts(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.ProcessedPost, error) {
	cursor, err := s.posts.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var posts []models.ProcessedPost
	if err := cursor.All(ctx, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// ============================================================================
// STATS OPERATIONS
// ============================================================================

// Stats holds general statistics.
type Stats struct {
	TotalTokens    int64 `json:"total_tokens"`
	TotalProcessed int64 `json:"total_processed"`
	TotalPosted    int64 `json:"total_posted"`
	TodayProcessed int64 `json:"today_processed"`
}

// GetStats returns general statistics.
func (s *Store) GetStats(ctx context.Context) (*Stats, error) {
	stats := &Stats{}

	var err error
	stats.TotalTokens, err = s.tokens.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, err
	}

	stats.TotalProcessed, err = s.posts.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, err
	}

	stats.TotalPosted, err = s.posts.CountDocuments(ctx, bson.M{"posted": true})
	if err != nil {
		return nil, err
	}

	today := time.Now().Truncate(24 * time.Hour)
	stats.TodayProcessed, err = s.posts.CountDocuments(ctx, bson.M{
		"created_at": bson.M{"$gte": today},
	})
	if err != nil {
		return nil, err
	}

	return stats, nil
}
