package mongo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"fintrack/internal/core"
)

const (
	usersCollection        = "users"
	transactionsCollection = "transactions"
	connectTimeout         = 10 * time.Second
)

type userDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Email     string             `bson:"email"`
	Password  string             `bson:"password"`
	CreatedAt time.Time          `bson:"createdAt"`
}

type transactionDoc struct {
	ID       primitive.ObjectID `bson:"_id,omitempty"`
	UserID   primitive.ObjectID `bson:"userId"`
	Type     string             `bson:"type"`
	Amount   float64            `bson:"amount"`
	Category string             `bson:"category"`
	Note     string             `bson:"note"`
	Date     time.Time          `bson:"date"`
}

type categoryRow struct {
	Category string  `bson:"_id"`
	Amount   float64 `bson:"amount"`
}

type monthRow struct {
	Month         string  `bson:"_id"`
	TotalIncome   float64 `bson:"totalIncome"`
	TotalExpenses float64 `bson:"totalExpenses"`
}

// Repository stores users and transactions in MongoDB.
type Repository struct {
	client *mongo.Client
	users  *mongo.Collection
	txns   *mongo.Collection
	now    func() time.Time
}

// Connect dials uri, verifies the connection and ensures indexes exist.
func Connect(ctx context.Context, uri, database string) (*Repository, error) {
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	db := client.Database(database)
	r := &Repository{
		client: client,
		users:  db.Collection(usersCollection),
		txns:   db.Collection(transactionsCollection),
		now:    time.Now,
	}
	if err := r.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	slog.InfoContext(ctx, "Connected to MongoDB", "database", database)
	return r, nil
}

func (r *Repository) ensureIndexes(ctx context.Context) error {
	_, err := r.users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "email", Value: 1}},
	})
	if err != nil {
		return fmt.Errorf("create users index: %w", err)
	}
	_, err = r.txns.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "userId", Value: 1}, {Key: "date", Value: -1}},
	})
	if err != nil {
		return fmt.Errorf("create transactions index: %w", err)
	}
	return nil
}

func (r *Repository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}

// Ping reports whether the primary is reachable.
func (r *Repository) Ping(ctx context.Context) error {
	return r.client.Ping(ctx, nil)
}

func (r *Repository) CreateUser(ctx context.Context, u core.User) (string, error) {
	doc := userDoc{
		Email:     u.Email,
		Password:  u.PasswordHash,
		CreatedAt: u.CreatedAt,
	}
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = r.now().UTC()
	}

	res, err := r.users.InsertOne(ctx, doc)
	if err != nil {
		return "", core.Persistence("create user", err)
	}
	id, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", core.Persistence("create user", fmt.Errorf("unexpected inserted id %T", res.InsertedID))
	}
	return id.Hex(), nil
}

func (r *Repository) FindUserByEmail(ctx context.Context, email string) (*core.User, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "_id", Value: 1}})
	return r.findUser(ctx, bson.M{"email": email}, opts, "find user by email")
}

func (r *Repository) FindUserByID(ctx context.Context, id string) (*core.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}
	return r.findUser(ctx, bson.M{"_id": oid}, options.FindOne(), "find user by id")
}

func (r *Repository) findUser(ctx context.Context, filter bson.M, opts *options.FindOneOptions, op string) (*core.User, error) {
	var doc userDoc
	if err := r.users.FindOne(ctx, filter, opts).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, core.Persistence(op, err)
	}
	return &core.User{
		ID:           doc.ID.Hex(),
		Email:        doc.Email,
		PasswordHash: doc.Password,
		CreatedAt:    doc.CreatedAt,
	}, nil
}

func (r *Repository) CreateTransaction(ctx context.Context, t core.Transaction) (string, error) {
	if err := t.Validate(); err != nil {
		return "", err
	}
	uid, err := primitive.ObjectIDFromHex(t.UserID)
	if err != nil {
		return "", &core.ValidationError{Field: "userId", Err: core.ErrMissingUser}
	}

	res, err := r.txns.InsertOne(ctx, transactionDoc{
		UserID:   uid,
		Type:     string(t.Type),
		Amount:   t.Amount,
		Category: t.Category,
		Note:     t.Note,
		Date:     t.Date.UTC(),
	})
	if err != nil {
		return "", core.Persistence("create transaction", err)
	}
	id, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", core.Persistence("create transaction", fmt.Errorf("unexpected inserted id %T", res.InsertedID))
	}

	slog.InfoContext(ctx, "Transaction saved to MongoDB",
		"transaction_id", id.Hex(),
		"transaction_type", t.Type,
		"category", t.Category)
	return id.Hex(), nil
}

func (r *Repository) ListTransactions(ctx context.Context, userID string, start, end time.Time) ([]core.Transaction, error) {
	out := make([]core.Transaction, 0)
	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return out, nil
	}

	filter := bson.M{
		"userId": uid,
		"date":   bson.M{"$gte": start.UTC(), "$lte": end.UTC()},
	}
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}, {Key: "_id", Value: -1}})

	cur, err := r.txns.Find(ctx, filter, opts)
	if err != nil {
		return nil, core.Persistence("list transactions", err)
	}
	defer cur.Close(ctx)

	for cur.Next(ctx) {
		var doc transactionDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, core.Persistence("decode transaction", err)
		}
		out = append(out, core.Transaction{
			ID:       doc.ID.Hex(),
			UserID:   doc.UserID.Hex(),
			Type:     core.TransactionType(doc.Type),
			Amount:   doc.Amount,
			Category: doc.Category,
			Note:     doc.Note,
			Date:     core.CalendarDate(doc.Date),
		})
	}
	if err := cur.Err(); err != nil {
		return nil, core.Persistence("list transactions", err)
	}
	return out, nil
}

func (r *Repository) SumExpensesByCategory(ctx context.Context, userID string, start, endExclusive time.Time) ([]core.CategoryAmount, error) {
	out := make([]core.CategoryAmount, 0)
	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return out, nil
	}

	var rows []categoryRow
	if err := r.aggregate(ctx, categoryPipeline(uid, start, endExclusive), &rows, "sum expenses by category"); err != nil {
		return nil, err
	}
	for _, row := range rows {
		out = append(out, core.CategoryAmount{Category: row.Category, Amount: row.Amount})
	}
	return out, nil
}

func (r *Repository) MonthlyTotals(ctx context.Context, userID string) ([]core.MonthTotals, error) {
	out := make([]core.MonthTotals, 0)
	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return out, nil
	}

	var rows []monthRow
	if err := r.aggregate(ctx, monthlyPipeline(uid), &rows, "monthly totals"); err != nil {
		return nil, err
	}
	for _, row := range rows {
		out = append(out, core.MonthTotals{
			Month:         row.Month,
			TotalIncome:   row.TotalIncome,
			TotalExpenses: row.TotalExpenses,
		})
	}
	return out, nil
}

// categoryPipeline sums a user's expenses by category over [start, endExclusive).
func categoryPipeline(uid primitive.ObjectID, start, endExclusive time.Time) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"userId": uid,
			"type":   string(core.Expense),
			"date":   bson.M{"$gte": start.UTC(), "$lt": endExclusive.UTC()},
		}}},
		{{Key: "$group", Value: bson.M{
			"_id":    "$category",
			"amount": bson.M{"$sum": bson.M{"$toDouble": "$amount"}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "_id", Value: 1}}}},
	}
}

// monthlyPipeline totals income and expenses per YYYY-MM, newest month first.
func monthlyPipeline(uid primitive.ObjectID) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"userId": uid}}},
		{{Key: "$group", Value: bson.M{
			"_id":           bson.M{"$dateToString": bson.M{"format": "%Y-%m", "date": "$date"}},
			"totalIncome":   sumByType(core.Income),
			"totalExpenses": sumByType(core.Expense),
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "_id", Value: -1}}}},
	}
}

func sumByType(kind core.TransactionType) bson.M {
	return bson.M{"$sum": bson.M{"$cond": bson.A{
		bson.M{"$eq": bson.A{"$type", string(kind)}},
		bson.M{"$toDouble": "$amount"},
		0,
	}}}
}

func (r *Repository) aggregate(ctx context.Context, pipeline mongo.Pipeline, results any, op string) error {
	cur, err := r.txns.Aggregate(ctx, pipeline)
	if err != nil {
		return core.Persistence(op, err)
	}
	defer cur.Close(ctx)
	if err := cur.All(ctx, results); err != nil {
		return core.Persistence(op, err)
	}
	return nil
}
