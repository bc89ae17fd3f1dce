package repository

import (
	"context"
	"time"

	"movibanca/internal/model"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const movimientosCollection = "movimientos"

// MovimientoRepository persiste los apuntes del libro mayor en Mongo.
// Las búsquedas devuelven siempre slices vacíos, nunca nil.
type MovimientoRepository interface {
	FindAll(ctx context.Context) ([]model.Movimiento, error)
	FindByGuid(ctx context.Context, guid string) (*model.Movimiento, error)
	FindByClienteGuid(ctx context.Context, clienteGuid string) ([]model.Movimiento, error)
	FindByClienteGuidYTipo(ctx context.Context, clienteGuid string, tipo model.TipoMovimiento) ([]model.Movimiento, error)
	// Create asigna únicamente el _id; el resto del documento es del llamante.
	Create(ctx context.Context, m *model.Movimiento) error
	// Update reemplaza el documento completo. mongo.ErrNoDocuments si no existe.
	Update(ctx context.Context, m *model.Movimiento) (*model.Movimiento, error)
	// Delete marca is_deleted=true (revocación suave, nunca borrado físico).
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type movimientoRepo struct{ col *mongo.Collection }

func NewMovimientoRepository(db *mongo.Database) MovimientoRepository {
	r := &movimientoRepo{col: db.Collection(movimientosCollection)}
	r.ensureIndexes()
	return r
}

func (r *movimientoRepo) ensureIndexes() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := r.col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "guid", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "cliente_guid", Value: 1}}},
		{Keys: bson.D{{Key: "cliente_guid", Value: 1}, {Key: "tipo", Value: 1}}},
	})
	if err != nil {
		log.Warn().Err(err).Msg("movimientos: no se pudieron crear los indices")
	}
}

func (r *movimientoRepo) find(ctx context.Context, filter bson.M) ([]model.Movimiento, error) {
	cur, err := r.col.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	movimientos := make([]model.Movimiento, 0)
	if err := cur.All(ctx, &movimientos); err != nil {
		return nil, err
	}
	return movimientos, nil
}

func (r *movimientoRepo) FindAll(ctx context.Context) ([]model.Movimiento, error) {
	return r.find(ctx, bson.M{})
}

func (r *movimientoRepo) FindByGuid(ctx context.Context, guid string) (*model.Movimiento, error) {
	var m model.Movimiento
	if err := r.col.FindOne(ctx, bson.M{"guid": guid}).Decode(&m); err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *movimientoRepo) FindByClienteGuid(ctx context.Context, clienteGuid string) ([]model.Movimiento, error) {
	return r.find(ctx, bson.M{"cliente_guid": clienteGuid})
}

func (r *movimientoRepo) FindByClienteGuidYTipo(ctx context.Context, clienteGuid string, tipo model.TipoMovimiento) ([]model.Movimiento, error) {
	return r.find(ctx, bson.M{"cliente_guid": clienteGuid, "tipo": tipo})
}

func (r *movimientoRepo) Create(ctx context.Context, m *model.Movimiento) error {
	res, err := r.col.InsertOne(ctx, m)
	if err != nil {
		return err
	}
	m.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *movimientoRepo) Update(ctx context.Context, m *model.Movimiento) (*model.Movimiento, error) {
	m.UpdatedAt = time.Now()
	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": m.ID}, m)
	if err != nil {
		return nil, err
	}
	if res.MatchedCount == 0 {
		return nil, mongo.ErrNoDocuments
	}
	return m, nil
}

func (r *movimientoRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"is_deleted": true,
		"updated_at": time.Now(),
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}
