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
	"github.com/orderdesk/order-system/internal/core/ports"
)

const (
	orderCollection = "orders"
	roomCollection  = "chat_rooms"
)

type MongoOrderRepository struct {
	orders *mongo.Collection
	rooms  *mongo.Collection
	client *mongo.Client
}

func NewOrderRepository(db *mongo.Database) *MongoOrderRepository {
	return &MongoOrderRepository{
		orders: db.Collection(orderCollection),
		rooms:  db.Collection(roomCollection),
		client: db.Client(),
	}
}

type orderDoc struct {
	ID             primitive.ObjectID `bson:"_id,omitempty"`
	Description    string             `bson:"description"`
	Specifications map[string]any     `bson:"specifications"`
	Quantity       int                `bson:"quantity"`
	Metadata       map[string]any     `bson:"metadata,omitempty"`
	Status         string             `bson:"status"`
	UserID         string             `bson:"user_id"`
	CreatedAt      time.Time          `bson:"created_at"`
	UpdatedAt      time.Time          `bson:"updated_at"`
}

func (d orderDoc) toDomain() *domain.Order {
	return &domain.Order{
		ID:             d.ID.Hex(),
		Description:    d.Description,
		Specifications: d.Specifications,
		Quantity:       d.Quantity,
		Metadata:       d.Metadata,
		Status:         domain.OrderStatus(d.Status),
		UserID:         d.UserID,
		CreatedAt:      d.CreatedAt,
		UpdatedAt:      d.UpdatedAt,
	}
}

// CreateWithRoom inserts the order and opens its chat room inside a single
// multi-document transaction. Requires a replica-set deployment, as all
// mongo transactions do.
func (r *MongoOrderRepository) CreateWithRoom(ctx context.Context, order *domain.Order) (*domain.Order, *domain.ChatRoom, error) {
	session, err := r.client.StartSession()
	if err != nil {
		return nil, nil, fmt.Errorf("start session: %w", err)
	}
	defer session.EndSession(ctx)

	doc := orderDoc{
		Description:    order.Description,
		Specifications: order.Specifications,
		Quantity:       order.Quantity,
		Metadata:       order.Metadata,
		Status:         string(order.Status),
		UserID:         order.UserID,
		CreatedAt:      order.CreatedAt,
		UpdatedAt:      order.UpdatedAt,
	}

	var room roomDoc
	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		res, err := r.orders.InsertOne(sc, doc)
		if err != nil {
			return nil, fmt.Errorf("insert order: %w", err)
		}
		doc.ID = res.InsertedID.(primitive.ObjectID)

		room = roomDoc{
			OrderID:   doc.ID.Hex(),
			IsOpen:    true,
			CreatedAt: order.CreatedAt,
		}
		roomRes, err := r.rooms.InsertOne(sc, room)
		if err != nil {
			return nil, fmt.Errorf("insert chat room: %w", err)
		}
		room.ID = roomRes.InsertedID.(primitive.ObjectID)
		return nil, nil
	})
	if err != nil {
		return nil, nil, err
	}

	return doc.toDomain(), room.toDomain(), nil
}

func (r *MongoOrderRepository) FindByID(ctx context.Context, id string) (*domain.Order, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrOrderNotFound
	}

	var doc orderDoc
	if err := r.orders.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrOrderNotFound
		}
		return nil, fmt.Errorf("find order: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *MongoOrderRepository) List(ctx context.Context, in ports.ListOrdersInput) ([]domain.Order, int64, error) {
	page, limit := in.Page, in.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	filter := bson.M{}
	if in.OwnerID != "" {
		filter["user_id"] = in.OwnerID
	}

	total, err := r.orders.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count orders: %w", err)
	}

	opts := options.Find().
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit)).
		SetSort(bson.D{{Key: "created_at", Value: -1}})

	cur, err := r.orders.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("list orders: %w", err)
	}
	defer cur.Close(ctx)

	var orders []domain.Order
	for cur.Next(ctx) {
		var doc orderDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, 0, fmt.Errorf("decode order: %w", err)
		}
		orders = append(orders, *doc.toDomain())
	}
	if err := cur.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate orders: %w", err)
	}
	return orders, total, nil
}

func (r *MongoOrderRepository) Update(ctx context.Context, id string, update ports.OrderUpdate) (*domain.Order, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrOrderNotFound
	}

	set := bson.M{"updated_at": time.Now().UTC()}
	if update.Description != nil {
		set["description"] = *update.Description
	}
	if update.Specifications != nil {
		set["specifications"] = update.Specifications
	}
	if update.Quantity != nil {
		set["quantity"] = *update.Quantity
	}
	if update.Metadata != nil {
		set["metadata"] = update.Metadata
	}

	var doc orderDoc
	err = r.orders.FindOneAndUpdate(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrOrderNotFound
		}
		return nil, fmt.Errorf("update order: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *MongoOrderRepository) UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) (*domain.Order, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrOrderNotFound
	}

	var doc orderDoc
	err = r.orders.FindOneAndUpdate(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": bson.M{"status": string(status), "updated_at": time.Now().UTC()}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrOrderNotFound
		}
		return nil, fmt.Errorf("update order status: %w", err)
	}
	return doc.toDomain(), nil
}
