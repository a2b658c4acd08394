package database

import (
	"context"
	"fmt"
	"sort"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/PancyStudios/PancyGuard/pkg/logger"
)

// DataManagerOptions contains configuration for a DataManager
type DataManagerOptions struct {
	MaxCacheSize int
}

// DefaultDataManagerOptions returns default options for DataManager
func DefaultDataManagerOptions() DataManagerOptions {
	return DataManagerOptions{
		MaxCacheSize: 1000,
	}
}

// DataManager provides cached access to a MongoDB collection. Writes made
// while the database is offline are queued and applied on reconnect; the
// cache keeps serving them in the meantime.
type DataManager[T any] struct {
	name       string
	dbInstance *Database
	cache      *lru.Cache[string, *T]
	options    DataManagerOptions
}

// NewDataManager creates a new DataManager for a collection
func NewDataManager[T any](collectionName string, db *Database, opts ...DataManagerOptions) *DataManager[T] {
	dmOptions := DefaultDataManagerOptions()
	if len(opts) > 0 {
		dmOptions = opts[0]
	}
	if dmOptions.MaxCacheSize <= 0 {
		dmOptions.MaxCacheSize = DefaultDataManagerOptions().MaxCacheSize
	}

	cache, _ := lru.New[string, *T](dmOptions.MaxCacheSize)
	return &DataManager[T]{
		name:       collectionName,
		dbInstance: db,
		cache:      cache,
		options:    dmOptions,
	}
}

// collection resolves the collection lazily so managers created while
// offline start working after the first successful connection.
func (dm *DataManager[T]) collection() *mongo.Collection {
	if !dm.dbInstance.Connected() {
		return nil
	}
	return dm.dbInstance.GetCollection(dm.name)
}

// generateCacheKey creates a unique, deterministic key from a query.
// Keys are sorted so map iteration order does not matter.
func (dm *DataManager[T]) generateCacheKey(query bson.M) string {
	keys := make([]string, 0, len(query))
	for k := range query {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, query[k]))
	}
	return fmt.Sprintf("%s:{%s}", dm.name, strings.Join(parts, ","))
}

// Get retrieves a document from cache or database. A missing document
// returns nil with a nil error.
func (dm *DataManager[T]) Get(ctx context.Context, query bson.M) (*T, error) {
	cacheKey := dm.generateCacheKey(query)
	if v, ok := dm.cache.Get(cacheKey); ok {
		return v, nil
	}

	col := dm.collection()
	if col == nil {
		return nil, ErrOffline
	}

	var result T
	err := col.FindOne(ctx, query).Decode(&result)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		logger.Warn(fmt.Sprintf("Fallo al leer de la DB (%s): %v", dm.name, err), "DataManager")
		dm.dbInstance.ConnectionLost(err)
		return nil, err
	}

	dm.cache.Add(cacheKey, &result)
	return &result, nil
}

// GetAll retrieves all documents matching a query and primes the cache
// using keyOf to rebuild each document's lookup query.
func (dm *DataManager[T]) GetAll(ctx context.Context, query bson.M, keyOf func(*T) bson.M) ([]*T, error) {
	col := dm.collection()
	if col == nil {
		return nil, ErrOffline
	}

	cursor, err := col.Find(ctx, query)
	if err != nil {
		dm.dbInstance.ConnectionLost(err)
		return nil, err
	}
	defer func() { _ = cursor.Close(ctx) }()

	var results []*T
	for cursor.Next(ctx) {
		var doc T
		if err := cursor.Decode(&doc); err != nil {
			continue
		}
		results = append(results, &doc)
		if keyOf != nil {
			dm.cache.Add(dm.generateCacheKey(keyOf(&doc)), &doc)
		}
	}

	return results, cursor.Err()
}

// Set upserts a document. While offline the write is queued and cached.
func (dm *DataManager[T]) Set(ctx context.Context, query bson.M, data *T) (*T, error) {
	cacheKey := dm.generateCacheKey(query)

	col := dm.collection()
	if col == nil {
		logger.Warn(fmt.Sprintf("DB offline. Encolando escritura para '%s'", dm.name), "DataManager")
		dm.dbInstance.AddToWriteQueue(QueuedOperation{
			CollectionName: dm.name,
			Query:          query,
			Operation:      "set",
			Data:           data,
		})
		dm.cache.Add(cacheKey, data)
		return data, nil
	}

	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var result T
	err := col.FindOneAndUpdate(ctx, query, bson.M{"$set": data}, opts).Decode(&result)
	if err != nil {
		logger.Error(fmt.Sprintf("Error en 'set' sobre '%s' con DB conectada. Encolando por seguridad: %v", dm.name, err), "DataManager")
		dm.dbInstance.AddToWriteQueue(QueuedOperation{
			CollectionName: dm.name,
			Query:          query,
			Operation:      "set",
			Data:           data,
		})
		dm.cache.Add(cacheKey, data)
		dm.dbInstance.ConnectionLost(err)
		return data, err
	}

	dm.cache.Add(cacheKey, &result)
	return &result, nil
}

// Delete removes a document from the database and cache
func (dm *DataManager[T]) Delete(ctx context.Context, query bson.M) error {
	cacheKey := dm.generateCacheKey(query)
	dm.cache.Remove(cacheKey)

	col := dm.collection()
	if col == nil {
		logger.Warn(fmt.Sprintf("DB offline. Encolando eliminación para '%s'", dm.name), "DataManager")
		// a nil entry remembers the deletion until the queue is flushed
		dm.cache.Add(cacheKey, nil)
		dm.dbInstance.AddToWriteQueue(QueuedOperation{
			CollectionName: dm.name,
			Query:          query,
			Operation:      "delete",
		})
		return nil
	}

	if _, err := col.DeleteOne(ctx, query); err != nil {
		logger.Error(fmt.Sprintf("Error en 'delete' sobre '%s' con DB conectada. Encolando por seguridad: %v", dm.name, err), "DataManager")
		dm.dbInstance.AddToWriteQueue(QueuedOperation{
			CollectionName: dm.name,
			Query:          query,
			Operation:      "delete",
		})
		dm.dbInstance.ConnectionLost(err)
		return err
	}
	return nil
}

// ClearCache clears the manager's cache
func (dm *DataManager[T]) ClearCache() {
	dm.cache.Purge()
}

// CacheSize returns the current cache size
func (dm *DataManager[T]) CacheSize() int {
	return dm.cache.Len()
}

// PrimeCache logs that the cache is ready (caches are filled on demand)
func (dm *DataManager[T]) PrimeCache() {
	logger.System(fmt.Sprintf("Caché para '%s' preparada (tamaño máx: %d). Se llenará bajo demanda.", dm.name, dm.options.MaxCacheSize), "DataManager")
}
