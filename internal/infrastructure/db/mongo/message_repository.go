package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/chatapp/realtime-chat/internal/core/domain"
)

const collectionMessages = "messages"

type MessageRepository struct {
	col *mongo.Collection
}

func NewMessageRepository(db *mongo.Database) *MessageRepository {
	return &MessageRepository{col: db.Collection(collectionMessages)}
}

type mongoMessage struct {
	ID         primitive.ObjectID `bson:"_id,omitempty"`
	SenderID   primitive.ObjectID `bson:"sender_id"`
	ReceiverID primitive.ObjectID `bson:"receiver_id"`
	Text       string             `bson:"text,omitempty"`
	ImageURL   string             `bson:"image_url,omitempty"`
	CreatedAt  time.Time          `bson:"created_at"`
	UpdatedAt  time.Time          `bson:"updated_at"`
}

func (m mongoMessage) toDomain() domain.Message {
	return domain.Message{
		ID:         m.ID.Hex(),
		SenderID:   m.SenderID.Hex(),
		ReceiverID: m.ReceiverID.Hex(),
		Text:       m.Text,
		ImageURL:   m.ImageURL,
		CreatedAt:  m.CreatedAt.UTC(),
		UpdatedAt:  m.UpdatedAt.UTC(),
	}
}

func (r *MessageRepository) Create(ctx context.Context, msg *domain.Message) (*domain.Message, error) {
	sender, receiver, err := parsePair(msg.SenderID, msg.ReceiverID)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := mongoMessage{
		ID:         primitive.NewObjectID(),
		SenderID:   sender,
		ReceiverID: receiver,
		Text:       msg.Text,
		ImageURL:   msg.ImageURL,
		CreatedAt:  msg.CreatedAt,
		UpdatedAt:  msg.UpdatedAt,
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("insert message: %w", err)
	}

	out := doc.toDomain()
	return &out, nil
}

// FindThread matches both directions of the conversation with a single $or
// query, oldest message first.
func (r *MessageRepository) FindThread(ctx context.Context, a, b string) ([]domain.Message, error) {
	idA, idB, err := parsePair(a, b)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{"$or": bson.A{
		bson.M{"sender_id": idA, "receiver_id": idB},
		bson.M{"sender_id": idB, "receiver_id": idA},
	}}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})

	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find thread: %w", err)
	}
	defer cur.Close(ctx)

	var docs []mongoMessage
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode thread: %w", err)
	}

	out := make([]domain.Message, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}

// EnsureIndexes creates the compound index backing FindThread.
func (r *MessageRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "sender_id", Value: 1}, {Key: "receiver_id", Value: 1}, {Key: "created_at", Value: 1}}},
	})
	return err
}

func parsePair(a, b string) (primitive.ObjectID, primitive.ObjectID, error) {
	idA, err := primitive.ObjectIDFromHex(a)
	if err != nil {
		return primitive.NilObjectID, primitive.NilObjectID, domain.ErrInvalidID
	}
	idB, err := primitive.ObjectIDFromHex(b)
	if err != nil {
		return primitive.NilObjectID, primitive.NilObjectID, domain.ErrInvalidID
	}
	return idA, idB, nil
}
