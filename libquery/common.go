package libquery

import (
	"errors"
)

var ErrUnknownEntityKind = errors.New("unknown entity kind")
var ErrUnknownFilterField = errors.New("unknown filter field")
var ErrInvalidFilterValue = errors.New("invalid filter value, membership filter requires a list")
var ErrUnknownSortField = errors.New("unknown sort field")
var ErrInvalidPagination = errors.New("invalid pagination, skip and take must be within bounds")
var ErrUnknownRelation = errors.New("unknown relation for entity kind")
var ErrAggregatesNotSupported = errors.New("aggregates are not supported for this entity kind")
var ErrBuildingQueryFailed = errors.New("building the query failed")
var ErrQueryExecutionFailed = errors.New("query execution failed")
var ErrScanningDBRowFailed = errors.New("scanning the database row failed")
var ErrNilDatabaseConnection = errors.New("database connection must not be nil")
var ErrInvalidTakeBounds = errors.New("default take must be positive and not exceed the max take")
