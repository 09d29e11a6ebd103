package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mamadbah2/traders/internal/domain/models"
)

// Repository defines the interface for summary archival.
type Repository interface {
	SaveMonthlySummaries(ctx context.Context, summaries []models.MonthlySummary) error
}

// summaryDocument is the stored shape of a monthly summary. Amounts are kept as
// decimal strings so no precision is lost.
type summaryDocument struct {
	YearMonth      string    `bson:"year_month"`
	TotalUnitsSold int       `bson:"total_units_sold"`
	TotalBill      string    `bson:"total_bill"`
	TotalProfit    string    `bson:"total_profit"`
	UpdatedAt      time.Time `bson:"updated_at"`
}

// MongoDBRepository implements the Repository interface for MongoDB.
type MongoDBRepository struct {
	client   *mongo.Client
	dbName   string
	collName string
	now      func() time.Time
}

// NewMongoDBRepository creates a new MongoDB repository.
func NewMongoDBRepository(ctx context.Context, uri string, dbName string) (*MongoDBRepository, error) {
	clientOptions := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return &MongoDBRepository{
		client:   client,
		dbName:   dbName,
		collName: "monthly_summaries",
		now:      time.Now,
	}, nil
}

// SaveMonthlySummaries upserts one document per year-month, so republishing a
// month replaces its previous snapshot.
func (r *MongoDBRepository) SaveMonthlySummaries(ctx context.Context, summaries []models.MonthlySummary) error {
	if len(summaries) == 0 {
		return nil
	}

	collection := r.client.Database(r.dbName).Collection(r.collName)
	writes := make([]mongo.WriteModel, 0, len(summaries))
	for _, s := range summaries {
		doc := toDocument(s, r.now().UTC())
		writes = append(writes, mongo.NewReplaceOneModel().
			SetFilter(bson.M{"year_month": doc.YearMonth}).
			SetReplacement(doc).
			SetUpsert(true))
	}

	if _, err := collection.BulkWrite(ctx, writes, options.BulkWrite().SetOrdered(false)); err != nil {
		return fmt.Errorf("failed to upsert monthly summaries: %w", err)
	}
	return nil
}

// Close closes the MongoDB connection.
func (r *MongoDBRepository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}

func toDocument(s models.MonthlySummary, updatedAt time.Time) summaryDocument {
	return summaryDocument{
		YearMonth:      s.YearMonth,
		TotalUnitsSold: s.TotalUnitsSold,
		TotalBill:      s.TotalBill.String(),
		TotalProfit:    s.TotalProfit.String(),
		UpdatedAt:      updatedAt,
	}
}
