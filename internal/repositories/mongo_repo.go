package repositories

import (
	"context"
	"errors"
	"time"

	"garagepro/internal/common"
	"garagepro/internal/models"
	"garagepro/pkg/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// mapMongoError turns driver errors into the common error kinds.
// mongo.ErrNoDocuments is left to the caller, which knows the resource name.
func mapMongoError(op string, err error) error {
	if mongo.IsDuplicateKeyError(err) {
		return &common.ConflictError{Message: op + ": record already exists", Err: common.ErrDuplicateKey}
	}
	return common.NewPersistenceError(op, err)
}

func byID(id string) bson.D {
	return bson.D{{Key: "id", Value: id}}
}

func decodeAll[T any](ctx context.Context, cursor *mongo.Cursor, op string) ([]*T, error) {
	defer cursor.Close(ctx)
	out := make([]*T, 0)
	for cursor.Next(ctx) {
		item := new(T)
		if err := cursor.Decode(item); err != nil {
			return nil, mapMongoError(op, err)
		}
		out = append(out, item)
	}
	if err := cursor.Err(); err != nil {
		return nil, mapMongoError(op, err)
	}
	return out, nil
}

type mongoCustomerRepo struct {
	coll *mongo.Collection
}

func NewMongoCustomerRepo(db *mongo.Database) CustomerRepository {
	return &mongoCustomerRepo{coll: db.Collection(database.CustomersCollection)}
}

func (r *mongoCustomerRepo) Create(ctx context.Context, customer *models.Customer) error {
	if _, err := r.coll.InsertOne(ctx, customer); err != nil {
		return mapMongoError("insert customer", err)
	}
	return nil
}

func (r *mongoCustomerRepo) GetByID(ctx context.Context, id string) (*models.Customer, error) {
	var customer models.Customer
	err := r.coll.FindOne(ctx, byID(id)).Decode(&customer)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, common.NewNotFoundError("Customer")
	}
	if err != nil {
		return nil, mapMongoError("find customer", err)
	}
	return &customer, nil
}

func (r *mongoCustomerRepo) Update(ctx context.Context, customer *models.Customer) error {
	update := bson.D{{Key: "$set", Value: bson.D{
		{Key: "name", Value: customer.Name},
		{Key: "email", Value: customer.Email},
		{Key: "phone", Value: customer.Phone},
		{Key: "address", Value: customer.Address},
		{Key: "updatedAt", Value: customer.UpdatedAt},
	}}}
	res, err := r.coll.UpdateOne(ctx, byID(customer.ID), update)
	if err != nil {
		return mapMongoError("update customer", err)
	}
	if res.MatchedCount == 0 {
		return common.NewNotFoundError("Customer")
	}
	return nil
}

func (r *mongoCustomerRepo) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.coll.DeleteOne(ctx, byID(id))
	if err != nil {
		return false, mapMongoError("delete customer", err)
	}
	return res.DeletedCount > 0, nil
}

func (r *mongoCustomerRepo) List(ctx context.Context) ([]*models.Customer, error) {
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cursor, err := r.coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, mapMongoError("list customers", err)
	}
	return decodeAll[models.Customer](ctx, cursor, "list customers")
}

type mongoVehicleRepo struct {
	coll *mongo.Collection
}

func NewMongoVehicleRepo(db *mongo.Database) VehicleRepository {
	return &mongoVehicleRepo{coll: db.Collection(database.VehiclesCollection)}
}

func (r *mongoVehicleRepo) Create(ctx context.Context, vehicle *models.Vehicle) error {
	if _, err := r.coll.InsertOne(ctx, vehicle); err != nil {
		return mapMongoError("insert vehicle", err)
	}
	return nil
}

func (r *mongoVehicleRepo) GetByID(ctx context.Context, id string) (*models.Vehicle, error) {
	var vehicle models.Vehicle
	err := r.coll.FindOne(ctx, byID(id)).Decode(&vehicle)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, common.NewNotFoundError("Vehicle")
	}
	if err != nil {
		return nil, mapMongoError("find vehicle", err)
	}
	return &vehicle, nil
}

func (r *mongoVehicleRepo) Update(ctx context.Context, vehicle *models.Vehicle) error {
	update := bson.D{{Key: "$set", Value: bson.D{
		{Key: "customerId", Value: vehicle.CustomerID},
		{Key: "make", Value: vehicle.Make},
		{Key: "model", Value: vehicle.Model},
		{Key: "year", Value: vehicle.Year},
		{Key: "licensePlate", Value: vehicle.LicensePlate},
		{Key: "updatedAt", Value: vehicle.UpdatedAt},
	}}}
	res, err := r.coll.UpdateOne(ctx, byID(vehicle.ID), update)
	if err != nil {
		return mapMongoError("update vehicle", err)
	}
	if res.MatchedCount == 0 {
		return common.NewNotFoundError("Vehicle")
	}
	return nil
}

func (r *mongoVehicleRepo) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.coll.DeleteOne(ctx, byID(id))
	if err != nil {
		return false, mapMongoError("delete vehicle", err)
	}
	return res.DeletedCount > 0, nil
}

func (r *mongoVehicleRepo) List(ctx context.Context) ([]*models.Vehicle, error) {
	return r.find(ctx, bson.D{})
}

func (r *mongoVehicleRepo) ListByCustomer(ctx context.Context, customerID string) ([]*models.Vehicle, error) {
	return r.find(ctx, bson.D{{Key: "customerId", Value: customerID}})
}

func (r *mongoVehicleRepo) find(ctx context.Context, filter bson.D) ([]*models.Vehicle, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, mapMongoError("list vehicles", err)
	}
	return decodeAll[models.Vehicle](ctx, cursor, "list vehicles")
}

type mongoInvoiceRepo struct {
	coll *mongo.Collection
}

func NewMongoInvoiceRepo(db *mongo.Database) InvoiceRepository {
	return &mongoInvoiceRepo{coll: db.Collection(database.InvoicesCollection)}
}

func (r *mongoInvoiceRepo) Create(ctx context.Context, invoice *models.Invoice) error {
	if _, err := r.coll.InsertOne(ctx, invoice); err != nil {
		return mapMongoError("insert invoice", err)
	}
	return nil
}

func (r *mongoInvoiceRepo) GetByID(ctx context.Context, id string) (*models.Invoice, error) {
	var invoice models.Invoice
	err := r.coll.FindOne(ctx, byID(id)).Decode(&invoice)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, common.NewNotFoundError("Invoice")
	}
	if err != nil {
		return nil, mapMongoError("find invoice", err)
	}
	return &invoice, nil
}

func (r *mongoInvoiceRepo) Update(ctx context.Context, invoice *models.Invoice, expectedVersion *int) error {
	filter := byID(invoice.ID)
	if expectedVersion != nil {
		filter = append(filter, bson.E{Key: "version", Value: *expectedVersion})
	}
	set := bson.D{
		{Key: "date", Value: invoice.Date},
		{Key: "dueDate", Value: invoice.DueDate},
		{Key: "status", Value: invoice.Status},
		{Key: "customer", Value: invoice.Customer},
		{Key: "vehicle", Value: invoice.Vehicle},
		{Key: "items", Value: invoice.Items},
		{Key: "subtotal", Value: invoice.Subtotal},
		{Key: "taxRate", Value: invoice.TaxRate},
		{Key: "tax", Value: invoice.Tax},
		{Key: "total", Value: invoice.Total},
		{Key: "updatedAt", Value: invoice.UpdatedAt},
	}
	if invoice.Notes != nil {
		set = append(set, bson.E{Key: "notes", Value: *invoice.Notes})
	}
	update := bson.D{{Key: "$set", Value: set}, {Key: "$inc", Value: bson.D{{Key: "version", Value: 1}}}}
	if invoice.Notes == nil {
		update = append(update, bson.E{Key: "$unset", Value: bson.D{{Key: "notes", Value: ""}}})
	}

	opts := options.FindOneAndUpdate().
		SetReturnDocument(options.After).
		SetProjection(bson.D{{Key: "version", Value: 1}})
	var updated struct {
		Version int `bson:"version"`
	}
	err := r.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&updated)
	if errors.Is(err, mongo.ErrNoDocuments) {
		if expectedVersion != nil {
			return &common.ConflictError{Message: "invoice was modified by another request"}
		}
		return common.NewNotFoundError("Invoice")
	}
	if err != nil {
		return mapMongoError("update invoice", err)
	}
	invoice.Version = updated.Version
	return nil
}

func (r *mongoInvoiceRepo) UpdateStatus(ctx context.Context, id string, status models.InvoiceStatus, updatedAt time.Time) (*models.Invoice, error) {
	update := bson.D{
		{Key: "$set", Value: bson.D{{Key: "status", Value: status}, {Key: "updatedAt", Value: updatedAt}}},
		{Key: "$inc", Value: bson.D{{Key: "version", Value: 1}}},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var invoice models.Invoice
	err := r.coll.FindOneAndUpdate(ctx, byID(id), update, opts).Decode(&invoice)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, common.NewNotFoundError("Invoice")
	}
	if err != nil {
		return nil, mapMongoError("update invoice status", err)
	}
	return &invoice, nil
}

func (r *mongoInvoiceRepo) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.coll.DeleteOne(ctx, byID(id))
	if err != nil {
		return false, mapMongoError("delete invoice", err)
	}
	return res.DeletedCount > 0, nil
}

func (r *mongoInvoiceRepo) List(ctx context.Context) ([]*models.Invoice, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, mapMongoError("list invoices", err)
	}
	return decodeAll[models.Invoice](ctx, cursor, "list invoices")
}

func (r *mongoInvoiceRepo) StatusTotals(ctx context.Context) ([]models.StatusTotal, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$status"},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
			{Key: "total", Value: bson.D{{Key: "$sum", Value: "$total"}}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "_id", Value: 1}}}},
	}
	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, mapMongoError("sum invoices by status", err)
	}
	defer cursor.Close(ctx)

	totals := make([]models.StatusTotal, 0, len(models.InvoiceStatuses))
	if err := cursor.All(ctx, &totals); err != nil {
		return nil, mapMongoError("sum invoices by status", err)
	}
	return totals, nil
}
