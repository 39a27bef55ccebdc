package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"catalog-orders/internal/apperrors"
	"catalog-orders/internal/models"
	"catalog-orders/internal/pagination"
)

const (
	writeTimeout = 5 * time.Second
	readTimeout  = 3 * time.Second
	listTimeout  = 10 * time.Second

	// MaxSearchResults limita el endpoint de búsqueda
	MaxSearchResults = 50
)

type ProductRepository struct {
	collection *mongo.Collection
	logger     *zap.Logger
	now        func() time.Time
}

func NewProductRepository(collection *mongo.Collection, logger *zap.Logger) *ProductRepository {
	return &ProductRepository{
		collection: collection,
		logger:     logger,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// Create crea un nuevo producto
func (r *ProductRepository) Create(ctx context.Context, product *models.Product) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	now := r.now()
	product.ID = primitive.NewObjectID()
	product.CreatedAt = now
	product.UpdatedAt = &now

	if _, err := r.collection.InsertOne(ctx, product); err != nil {
		return r.internal(err, "product.create", "failed to create product")
	}
	return nil
}

// Get obtiene un producto por ID
func (r *ProductRepository) Get(ctx context.Context, id string) (*models.Product, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperrors.Invalid("product.get", "invalid product ID")
	}

	ctx, cancel := context.WithTimeout(ctx, readTimeout)
	defer cancel()

	var product models.Product
	err = r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&product)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.NotFound("product.get", "product", id)
		}
		return nil, r.internal(err, "product.get", "failed to get product")
	}
	return &product, nil
}

// List lista productos filtrados. total es el conteo antes de paginar.
func (r *ProductRepository) List(ctx context.Context, filter models.ProductFilter, window pagination.Window) ([]models.Product, int64, error) {
	sort, err := BuildProductSort(filter)
	if err != nil {
		return nil, 0, err
	}
	query := BuildProductQuery(filter)

	ctx, cancel := context.WithTimeout(ctx, listTimeout)
	defer cancel()

	// Contar total en paralelo
	totalCh := make(chan int64, 1)
	errCh := make(chan error, 1)
	go func() {
		total, err := r.collection.CountDocuments(ctx, query)
		if err != nil {
			errCh <- err
			return
		}
		totalCh <- total
	}()

	cursor, err := r.collection.Find(ctx, query, findOptions(sort, window))
	if err != nil {
		return nil, 0, r.internal(err, "product.list", "failed to list products")
	}
	defer cursor.Close(ctx)

	products := make([]models.Product, 0)
	if err := cursor.All(ctx, &products); err != nil {
		return nil, 0, r.internal(err, "product.list", "failed to decode products")
	}

	// Esperar el conteo
	select {
	case total := <-totalCh:
		return products, total, nil
	case err := <-errCh:
		return nil, 0, r.internal(err, "product.list", "failed to count products")
	case <-ctx.Done():
		return nil, 0, r.internal(ctx.Err(), "product.list", "failed to count products")
	}
}

// Search busca por nombre, descripción o tag exacto
func (r *ProductRepository) Search(ctx context.Context, term string, limit int) ([]models.Product, error) {
	if limit <= 0 || limit > MaxSearchResults {
		limit = MaxSearchResults
	}
	filter := models.ProductFilter{Search: term}
	sort, err := BuildProductSort(filter)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, readTimeout)
	defer cancel()

	// sin CountDocuments: la búsqueda no informa total
	cursor, err := r.collection.Find(ctx, BuildProductQuery(filter), findOptions(sort, pagination.Window{Limit: int64(limit)}))
	if err != nil {
		return nil, r.internal(err, "product.search", "failed to search products")
	}
	defer cursor.Close(ctx)

	products := make([]models.Product, 0)
	if err := cursor.All(ctx, &products); err != nil {
		return nil, r.internal(err, "product.search", "failed to decode products")
	}
	return products, nil
}

// Update aplica solo los campos presentes y refresca updated_at
func (r *ProductRepository) Update(ctx context.Context, id string, update models.ProductUpdate) (*models.Product, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperrors.Invalid("product.update", "invalid product ID")
	}

	fields := update.Fields()
	if len(fields) == 0 {
		return nil, apperrors.Invalid("product.update", "no valid fields to update")
	}
	fields["updated_at"] = r.now()

	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	var product models.Product
	err = r.collection.FindOneAndUpdate(
		ctx,
		bson.M{"_id": objID},
		bson.M{"$set": fields},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&product)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.NotFound("product.update", "product", id)
		}
		return nil, r.internal(err, "product.update", "failed to update product")
	}
	return &product, nil
}

// Delete elimina el producto. Devuelve false si no existía.
func (r *ProductRepository) Delete(ctx context.Context, id string) (bool, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return false, apperrors.Invalid("product.delete", "invalid product ID")
	}

	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		return false, r.internal(err, "product.delete", "failed to delete product")
	}
	return result.DeletedCount > 0, nil
}

// CheckExist resuelve un lote de IDs en una sola consulta. Los IDs con formato
// inválido se reportan como faltantes, sin error.
func (r *ProductRepository) CheckExist(ctx context.Context, ids []string) ([]models.Product, []string, error) {
	requested := distinct(ids)

	objIDs := make([]primitive.ObjectID, 0, len(requested))
	for _, id := range requested {
		if objID, err := primitive.ObjectIDFromHex(id); err == nil {
			objIDs = append(objIDs, objID)
		}
	}

	found := make([]models.Product, 0, len(objIDs))
	if len(objIDs) > 0 {
		ctx, cancel := context.WithTimeout(ctx, readTimeout)
		defer cancel()

		cursor, err := r.collection.Find(ctx, bson.M{"_id": bson.M{"$in": objIDs}})
		if err != nil {
			return nil, nil, r.internal(err, "product.check_exist", "failed to resolve products")
		}
		defer cursor.Close(ctx)

		if err := cursor.All(ctx, &found); err != nil {
			return nil, nil, r.internal(err, "product.check_exist", "failed to decode products")
		}
	}

	return found, missingIDs(requested, found), nil
}

func (r *ProductRepository) internal(err error, op, message string) error {
	r.logger.Error(message, zap.String("op", op), zap.Error(err))
	return apperrors.Internal(err, op, message)
}

func distinct(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// missingIDs conserva el orden en que se pidieron
func missingIDs(requested []string, found []models.Product) []string {
	foundSet := make(map[string]struct{}, len(found))
	for _, p := range found {
		foundSet[p.ID.Hex()] = struct{}{}
	}
	missing := make([]string, 0)
	for _, id := range requested {
		if _, ok := foundSet[strings.ToLower(id)]; !ok {
			missing = append(missing, id)
		}
	}
	return missing
}
