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

const domiciliacionesCollection = "domiciliaciones"

// DomiciliacionRepository persiste las autorizaciones de cobro periódico.
// Mismo contrato que MovimientoRepository: slices vacíos, nunca nil.
type DomiciliacionRepository interface {
	FindAll(ctx context.Context) ([]model.Domiciliacion, error)
	FindActivas(ctx context.Context) ([]model.Domiciliacion, error)
	FindByGuid(ctx context.Context, guid string) (*model.Domiciliacion, error)
	FindByClienteGuid(ctx context.Context, clienteGuid string) ([]model.Domiciliacion, error)
	FindActivasByClienteGuid(ctx context.Context, clienteGuid string) ([]model.Domiciliacion, error)
	Create(ctx context.Context, d *model.Domiciliacion) error
	Update(ctx context.Context, d *model.Domiciliacion) (*model.Domiciliacion, error)
	// Delete desactiva la domiciliación; nunca hay borrado físico.
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type domiciliacionRepo struct{ col *mongo.Collection }

func NewDomiciliacionRepository(db *mongo.Database) DomiciliacionRepository {
	r := &domiciliacionRepo{col: db.Collection(domiciliacionesCollection)}
	r.ensureIndexes()
	return r
}

func (r *domiciliacionRepo) ensureIndexes() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := r.col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "guid", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "cliente_guid", Value: 1}, {Key: "activa", Value: 1}}},
		{Keys: bson.D{{Key: "activa", Value: 1}}},
	})
	if err != nil {
		log.Warn().Err(err).Msg("domiciliaciones: no se pudieron crear los indices")
	}
}

func (r *domiciliacionRepo) find(ctx context.Context, filter bson.M) ([]model.Domiciliacion, error) {
	cur, err := r.col.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	domiciliaciones := make([]model.Domiciliacion, 0)
	if err := cur.All(ctx, &domiciliaciones); err != nil {
		return nil, err
	}
	return domiciliaciones, nil
}

func (r *domiciliacionRepo) FindAll(ctx context.Context) ([]model.Domiciliacion, error) {
	return r.find(ctx, bson.M{})
}

func (r *domiciliacionRepo) FindActivas(ctx context.Context) ([]model.Domiciliacion, error) {
	return r.find(ctx, bson.M{"activa": true})
}

func (r *domiciliacionRepo) FindByGuid(ctx context.Context, guid string) (*model.Domiciliacion, error) {
	var d model.Domiciliacion
	if err := r.col.FindOne(ctx, bson.M{"guid": guid}).Decode(&d); err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *domiciliacionRepo) FindByClienteGuid(ctx context.Context, clienteGuid string) ([]model.Domiciliacion, error) {
	return r.find(ctx, bson.M{"cliente_guid": clienteGuid})
}

func (r *domiciliacionRepo) FindActivasByClienteGuid(ctx context.Context, clienteGuid string) ([]model.Domiciliacion, error) {
	return r.find(ctx, bson.M{"cliente_guid": clienteGuid, "activa": true})
}

func (r *domiciliacionRepo) Create(ctx context.Context, d *model.Domiciliacion) error {
	res, err := r.col.InsertOne(ctx, d)
	if err != nil {
		return err
	}
	d.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *domiciliacionRepo) Update(ctx context.Context, d *model.Domiciliacion) (*model.Domiciliacion, error) {
	d.UpdatedAt = time.Now()
	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": d.ID}, d)
	if err != nil {
		return nil, err
	}
	if res.MatchedCount == 0 {
		return nil, mongo.ErrNoDocuments
	}
	return d, nil
}

func (r *domiciliacionRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"activa":     false,
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
