package query

/*
	Package `query` wraps https://github.com/mongodb/mongo-go-driver for the
	marketplace collections. See https://godoc.org/go.mongodb.org/mongo-driver/mongo
	for driver details and the integration tests for usage of each method.
*/

import (
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/lovawin/sosh-test-sub004/base/ctx"
	"github.com/lovawin/sosh-test-sub004/domain"
)

var (
	// ErrNotFound is mongo document not found error
	ErrNotFound = fmt.Errorf("document not found")

	// ErrDuplicateKey is an error when violating unique index
	ErrDuplicateKey = fmt.Errorf("duplicate key")

	// ErrCollScan is error for unindexed query
	ErrCollScan = fmt.Errorf("COLLSCAN is not allowed")
)

// Index describes one index of a collection.
type Index = mongo.IndexModel

// Mongo abstract the mongo layer.
type Mongo interface {
	// Insert inserts a new document to the table
	// Return ErrDuplicateKey if a unique index is violated
	Insert(context ctx.Ctx, table domain.Table, insert interface{}) error

	// FindOne get data from the table
	FindOne(context ctx.Ctx, table domain.Table, query, result interface{}) error

	// Count return counting for matched entry in the table
	Count(context ctx.Ctx, table domain.Table, selector interface{}) (n int, err error)

	// Replace replaces the document matching selector.
	// Return ErrNotFound if selector does not match any documents,
	// ErrDuplicateKey if the replacement violates a unique index.
	Replace(context ctx.Ctx, table domain.Table, selector, replacement interface{}) error

	// Search sorts by `sort` (ex "createdAt" ascending, or "-createdAt" descending)
	// if `sort` is "", MongoDB does not guarantee the order of query results.
	Search(context ctx.Ctx, table domain.Table, offset, limit int, sort string, query, results interface{}) error

	// SearchNSorts sort with multiple fields, mind the compound index key order.
	SearchNSorts(context ctx.Ctx, table domain.Table, offset, limit int, sortFields []string, query, results interface{}) error

	// IncrementMany increases fields and returns the updated document.
	// If entry not exist, insert with set statement.
	IncrementMany(context ctx.Ctx, table domain.Table, query interface{}, fieldAndValues bson.M, set bson.M, result interface{}) error

	// CreateIndexes creates the indexes if they do not exist yet.
	CreateIndexes(context ctx.Ctx, table domain.Table, indexes []Index) error
}
