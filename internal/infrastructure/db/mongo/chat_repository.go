package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/orderdesk/order-system/internal/core/domain"
)

const messageCollection = "messages"

type MongoChatRepository struct {
	rooms    *mongo.Collection
	messages *mongo.Collection
	orders   *mongo.Collection
	client   *mongo.Client
}

func NewChatRepository(db *mongo.Database) *MongoChatRepository {
	return &MongoChatRepository{
		rooms:    db.Collection(roomCollection),
		messages: db.Collection(messageCollection),
		orders:   db.Collection(orderCollection),
		client:   db.Client(),
	}
}

type roomDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	OrderID   string             `bson:"order_id"`
	IsOpen    bool               `bson:"is_open"`
	Summary   string             `bson:"summary,omitempty"`
	ClosedAt  *time.Time         `bson:"closed_at,omitempty"`
	CreatedAt time.Time          `bson:"created_at"`
}

func (d roomDoc) toDomain() *domain.ChatRoom {
	return &domain.ChatRoom{
		ID:        d.ID.Hex(),
		OrderID:   d.OrderID,
		IsOpen:    d.IsOpen,
		Summary:   d.Summary,
		ClosedAt:  d.ClosedAt,
		CreatedAt: d.CreatedAt,
	}
}

type messageDoc struct {
	ID         primitive.ObjectID `bson:"_id,omitempty"`
	ChatRoomID string             `bson:"chat_room_id"`
	UserID     string             `bson:"user_id"`
	UserEmail  string             `bson:"user_email"`
	UserRole   string             `bson:"user_role"`
	Content    string             `bson:"content"`
	CreatedAt  time.Time          `bson:"created_at"`
}

func (d messageDoc) toDomain() *domain.Message {
	return &domain.Message{
		ID:         d.ID.Hex(),
		ChatRoomID: d.ChatRoomID,
		UserID:     d.UserID,
		UserEmail:  d.UserEmail,
		UserRole:   d.UserRole,
		Content:    d.Content,
		CreatedAt:  d.CreatedAt,
	}
}

func (r *MongoChatRepository) FindRoomByID(ctx context.Context, id string) (*domain.ChatRoom, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrRoomNotFound
	}

	var doc roomDoc
	if err := r.rooms.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrRoomNotFound
		}
		return nil, fmt.Errorf("find room: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *MongoChatRepository) FindRoomByOrderID(ctx context.Context, orderID string) (*domain.ChatRoom, error) {
	var doc roomDoc
	if err := r.rooms.FindOne(ctx, bson.M{"order_id": orderID}).Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrRoomNotFound
		}
		return nil, fmt.Errorf("find room by order: %w", err)
	}
	return doc.toDomain(), nil
}

// CloseRoom marks the room closed and advances its order to PROCESSING in
// one transaction. The room is re-read inside the transaction so a
// concurrent close aborts with ErrRoomClosed instead of double-applying.
func (r *MongoChatRepository) CloseRoom(ctx context.Context, roomID, summary string, closedAt time.Time) (*domain.ChatRoom, error) {
	oid, err := primitive.ObjectIDFromHex(roomID)
	if err != nil {
		return nil, domain.ErrRoomNotFound
	}

	session, err := r.client.StartSession()
	if err != nil {
		return nil, fmt.Errorf("start session: %w", err)
	}
	defer session.EndSession(ctx)

	var closed roomDoc
	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		var current roomDoc
		if err := r.rooms.FindOne(sc, bson.M{"_id": oid}).Decode(&current); err != nil {
			if err == mongo.ErrNoDocuments {
				return nil, domain.ErrRoomNotFound
			}
			return nil, fmt.Errorf("find room: %w", err)
		}
		if !current.IsOpen {
			return nil, domain.ErrRoomClosed
		}

		err := r.rooms.FindOneAndUpdate(sc,
			bson.M{"_id": oid},
			bson.M{"$set": bson.M{"is_open": false, "summary": summary, "closed_at": closedAt}},
			options.FindOneAndUpdate().SetReturnDocument(options.After),
		).Decode(&closed)
		if err != nil {
			return nil, fmt.Errorf("close room: %w", err)
		}

		orderOID, err := primitive.ObjectIDFromHex(current.OrderID)
		if err != nil {
			return nil, domain.ErrOrderNotFound
		}
		res, err := r.orders.UpdateOne(sc,
			bson.M{"_id": orderOID},
			bson.M{"$set": bson.M{"status": string(domain.StatusProcessing), "updated_at": closedAt}},
		)
		if err != nil {
			return nil, fmt.Errorf("transition order: %w", err)
		}
		if res.MatchedCount == 0 {
			// Aborts the transaction; the room stays open.
			return nil, domain.ErrOrderNotFound
		}
		return nil, nil
	})
	if err != nil {
		return nil, err
	}

	return closed.toDomain(), nil
}

func (r *MongoChatRepository) CreateMessage(ctx context.Context, msg *domain.Message) (*domain.Message, error) {
	doc := messageDoc{
		ChatRoomID: msg.ChatRoomID,
		UserID:     msg.UserID,
		UserEmail:  msg.UserEmail,
		UserRole:   msg.UserRole,
		Content:    msg.Content,
		CreatedAt:  msg.CreatedAt,
	}

	res, err := r.messages.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert message: %w", err)
	}
	doc.ID = res.InsertedID.(primitive.ObjectID)
	return doc.toDomain(), nil
}

func (r *MongoChatRepository) ListMessages(ctx context.Context, roomID string) ([]domain.Message, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cur, err := r.messages.Find(ctx, bson.M{"chat_room_id": roomID}, opts)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	defer cur.Close(ctx)

	var msgs []domain.Message
	for cur.Next(ctx) {
		var doc messageDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode message: %w", err)
		}
		msgs = append(msgs, *doc.toDomain())
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("iterate messages: %w", err)
	}
	return msgs, nil
}
