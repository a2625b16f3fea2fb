package postgresengine

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"

	"github.com/bibliofile/library-query-go/libquery"
	"github.com/bibliofile/library-query-go/libquery/postgresengine/internal/adapters"
)

const (
	logMsgBuildSelectQueryFailed   = "failed to build select query"
	logMsgBuildRelationQueryFailed = "failed to build relation query"
	logMsgDBQueryFailed            = "database query execution failed"
	logMsgCloseRowsFailed          = "failed to close database rows"
	logMsgScanRowFailed            = "failed to scan database row"
	logMsgBeginTxFailed            = "failed to begin read transaction"
	logMsgCommitTxFailed           = "failed to commit read transaction"
	logMsgRollbackTxFailed         = "failed to roll back read transaction"
	logMsgFetchCompleted           = "fetch completed"
	logMsgSQLExecuted              = "executed sql for: fetch"
	logMsgOperation                = "query store operation: "
	logAttrError                   = "error"
	logAttrQuery                   = "query"
	logAttrEntityKind              = "entity_kind"
	logAttrFetchID                 = "fetch_id"
	logAttrRowCount                = "row_count"
	logAttrDurationMS              = "duration_ms"

	metricFetchDuration = "libquery_fetch_duration"
	metricFetchErrors   = "libquery_fetch_errors"
	labelEntityKind     = "entity_kind"
)

type (
	sqlQueryString = string
)

// QueryStore composes and executes library queries against Postgres.
// It leverages a database adapter and supports customizable logging,
// metrics collection and pagination bounds.
type QueryStore struct {
	db          adapters.DBAdapter
	logger      Logger
	metrics     MetricsCollector
	defaultTake uint
	maxTake     uint
}

// NewQueryStoreFromPGXPool creates a new QueryStore using a pgx Pool with optional configuration.
func NewQueryStoreFromPGXPool(db *pgxpool.Pool, options ...Option) (QueryStore, error) {
	if db == nil {
		return QueryStore{}, libquery.ErrNilDatabaseConnection
	}

	return newQueryStore(adapters.NewPGXAdapter(db), options...)
}

// NewQueryStoreFromPGXPoolWithReplica creates a new QueryStore that sends all
// read transactions to the replica pool while keeping the primary pool around
// as the configured write side of the application.
func NewQueryStoreFromPGXPoolWithReplica(db *pgxpool.Pool, replica *pgxpool.Pool, options ...Option) (QueryStore, error) {
	if db == nil || replica == nil {
		return QueryStore{}, libquery.ErrNilDatabaseConnection
	}

	return newQueryStore(adapters.NewPGXAdapterWithReplica(db, replica), options...)
}

// NewQueryStoreFromSQLDB creates a new QueryStore using a sql.DB with optional configuration.
func NewQueryStoreFromSQLDB(db *sql.DB, options ...Option) (QueryStore, error) {
	if db == nil {
		return QueryStore{}, libquery.ErrNilDatabaseConnection
	}

	return newQueryStore(adapters.NewSQLAdapter(db), options...)
}

// NewQueryStoreFromSQLX creates a new QueryStore using a sqlx.DB with optional configuration.
func NewQueryStoreFromSQLX(db *sqlx.DB, options ...Option) (QueryStore, error) {
	if db == nil {
		return QueryStore{}, libquery.ErrNilDatabaseConnection
	}

	return newQueryStore(adapters.NewSQLXAdapter(db), options...)
}

func newQueryStore(db adapters.DBAdapter, options ...Option) (QueryStore, error) {
	if err := libquery.ValidateFieldMappings(); err != nil {
		return QueryStore{}, err
	}

	qs := QueryStore{
		db:          db,
		defaultTake: libquery.DefaultTake,
		maxTake:     libquery.MaxTake,
	}

	for _, option := range options {
		if err := option(&qs); err != nil {
			return QueryStore{}, err
		}
	}

	if qs.defaultTake > qs.maxTake {
		return QueryStore{}, libquery.ErrInvalidTakeBounds
	}

	return qs, nil
}

// FetchUsers executes a User query and returns the matching users with their
// requested relations populated.
func (qs QueryStore) FetchUsers(ctx context.Context, query libquery.Query) ([]libquery.User, error) {
	if err := requireKind(query, libquery.KindUser); err != nil {
		return nil, err
	}

	var users []libquery.User

	txErr := qs.withReadTx(ctx, query, func(tx adapters.DBTx) (int, error) {
		sqlQuery, buildErr := qs.buildPrimaryQuery(query)
		if buildErr != nil {
			return 0, buildErr
		}

		var queryErr error
		users, queryErr = qs.queryUsers(ctx, tx, sqlQuery)
		if queryErr != nil {
			return 0, queryErr
		}

		return len(users), qs.loadUserRelations(ctx, tx, query, users)
	})
	if txErr != nil {
		return nil, txErr
	}

	return users, nil
}

// FetchBooks executes a Book query and returns the matching books with their
// requested relations and aggregates populated.
func (qs QueryStore) FetchBooks(ctx context.Context, query libquery.Query) ([]libquery.Book, error) {
	if err := requireKind(query, libquery.KindBook); err != nil {
		return nil, err
	}

	var books []libquery.Book

	txErr := qs.withReadTx(ctx, query, func(tx adapters.DBTx) (int, error) {
		sqlQuery, buildErr := qs.buildPrimaryQuery(query)
		if buildErr != nil {
			return 0, buildErr
		}

		var queryErr error
		books, queryErr = qs.queryBooks(ctx, tx, sqlQuery, query.WithAggregates())
		if queryErr != nil {
			return 0, queryErr
		}

		return len(books), qs.loadBookRelations(ctx, tx, query, books)
	})
	if txErr != nil {
		return nil, txErr
	}

	return books, nil
}

// FetchBorrowRecords executes a BorrowRecord query, optionally resolving the
// referenced User and Book rows.
func (qs QueryStore) FetchBorrowRecords(ctx context.Context, query libquery.Query) ([]libquery.BorrowRecord, error) {
	if err := requireKind(query, libquery.KindBorrowRecord); err != nil {
		return nil, err
	}

	var records []libquery.BorrowRecord

	txErr := qs.withReadTx(ctx, query, func(tx adapters.DBTx) (int, error) {
		sqlQuery, buildErr := qs.buildPrimaryQuery(query)
		if buildErr != nil {
			return 0, buildErr
		}

		var queryErr error
		records, queryErr = qs.queryBorrowRecords(ctx, tx, sqlQuery)
		if queryErr != nil {
			return 0, queryErr
		}

		return len(records), qs.loadBorrowRecordRelations(ctx, tx, query, records)
	})
	if txErr != nil {
		return nil, txErr
	}

	return records, nil
}

// FetchReviews executes a Review query, optionally resolving the referenced
// User and Book rows.
func (qs QueryStore) FetchReviews(ctx context.Context, query libquery.Query) ([]libquery.Review, error) {
	if err := requireKind(query, libquery.KindReview); err != nil {
		return nil, err
	}

	var reviews []libquery.Review

	txErr := qs.withReadTx(ctx, query, func(tx adapters.DBTx) (int, error) {
		sqlQuery, buildErr := qs.buildPrimaryQuery(query)
		if buildErr != nil {
			return 0, buildErr
		}

		var queryErr error
		reviews, queryErr = qs.queryReviews(ctx, tx, sqlQuery)
		if queryErr != nil {
			return 0, queryErr
		}

		return len(reviews), qs.loadReviewRelations(ctx, tx, query, reviews)
	})
	if txErr != nil {
		return nil, txErr
	}

	return reviews, nil
}

// withReadTx runs one fetch inside a single request-scoped read transaction:
// acquire, validate, execute, commit on success. Every other exit path rolls
// back via the deferred cleanup, so no connection leaks.
func (qs QueryStore) withReadTx(
	ctx context.Context,
	query libquery.Query,
	do func(tx adapters.DBTx) (int, error),
) error {

	fetchID := uuid.NewString()
	start := time.Now()

	tx, beginErr := qs.db.BeginReadTx(ctx)
	if beginErr != nil {
		if qs.logger != nil {
			qs.logger.Error(logMsgBeginTxFailed, logAttrError, beginErr.Error())
		}
		qs.incrementErrorCounter(query.Kind())

		return errors.Join(libquery.ErrQueryExecutionFailed, beginErr)
	}

	committed := false
	defer func() {
		if committed {
			return
		}

		if rollbackErr := tx.Rollback(ctx); rollbackErr != nil {
			if qs.logger != nil {
				qs.logger.Warn(logMsgRollbackTxFailed, logAttrError, rollbackErr.Error())
			}
		}
	}()

	if validateErr := query.Validate(qs.maxTake); validateErr != nil {
		return validateErr
	}

	rowCount, doErr := do(tx)
	if doErr != nil {
		qs.incrementErrorCounter(query.Kind())

		return doErr
	}

	if commitErr := tx.Commit(ctx); commitErr != nil {
		if qs.logger != nil {
			qs.logger.Error(logMsgCommitTxFailed, logAttrError, commitErr.Error())
		}
		qs.incrementErrorCounter(query.Kind())

		return errors.Join(libquery.ErrQueryExecutionFailed, commitErr)
	}
	committed = true

	duration := time.Since(start)

	qs.logOperation(
		logMsgFetchCompleted,
		logAttrFetchID, fetchID,
		logAttrEntityKind, string(query.Kind()),
		logAttrRowCount, rowCount,
		logAttrDurationMS, qs.durationToMilliseconds(duration))

	if qs.metrics != nil {
		qs.metrics.RecordDuration(metricFetchDuration, duration, map[string]string{labelEntityKind: string(query.Kind())})
	}

	return nil
}

func (qs QueryStore) buildPrimaryQuery(query libquery.Query) (sqlQueryString, error) {
	sqlQuery, buildErr := buildSelectQuery(query, qs.defaultTake, qs.maxTake)
	if buildErr != nil {
		if qs.logger != nil {
			qs.logger.Error(logMsgBuildSelectQueryFailed, logAttrError, buildErr.Error())
		}

		return "", buildErr
	}

	return sqlQuery, nil
}

// executeQuery executes one SQL statement on the transaction handle and logs
// it with timing information.
func (qs QueryStore) executeQuery(ctx context.Context, tx adapters.DBTx, sqlQuery sqlQueryString) (adapters.DBRows, error) {
	start := time.Now()
	rows, queryErr := tx.Query(ctx, sqlQuery)
	duration := time.Since(start)

	if qs.logger != nil {
		qs.logger.Debug(logMsgSQLExecuted, logAttrDurationMS, qs.durationToMilliseconds(duration), logAttrQuery, sqlQuery)
	}

	if queryErr != nil {
		if qs.logger != nil {
			qs.logger.Error(logMsgDBQueryFailed, logAttrError, queryErr.Error(), logAttrQuery, sqlQuery)
		}

		return nil, errors.Join(libquery.ErrQueryExecutionFailed, queryErr)
	}

	return rows, nil
}

// closeRows safely closes database rows and logs any errors.
func (qs QueryStore) closeRows(rows adapters.DBRows) {
	if closeErr := rows.Close(); closeErr != nil {
		if qs.logger != nil {
			qs.logger.Warn(logMsgCloseRowsFailed, logAttrError, closeErr.Error())
		}
	}
}

func (qs QueryStore) queryUsers(ctx context.Context, tx adapters.DBTx, sqlQuery sqlQueryString) ([]libquery.User, error) {
	rows, queryErr := qs.executeQuery(ctx, tx, sqlQuery)
	if queryErr != nil {
		return nil, queryErr
	}
	defer qs.closeRows(rows)

	users := make([]libquery.User, 0)

	for rows.Next() {
		var user libquery.User

		scanErr := rows.Scan(
			&user.ID, &user.Email, &user.HashedPassword,
			&user.FirstName, &user.LastName, &user.BirthDate, &user.IsActive)
		if scanErr != nil {
			return nil, qs.scanRowFailed(scanErr)
		}

		users = append(users, user)
	}

	if iterErr := rows.Err(); iterErr != nil {
		return nil, errors.Join(libquery.ErrQueryExecutionFailed, iterErr)
	}

	return users, nil
}

func (qs QueryStore) queryBooks(
	ctx context.Context,
	tx adapters.DBTx,
	sqlQuery sqlQueryString,
	withAggregates bool,
) ([]libquery.Book, error) {

	rows, queryErr := qs.executeQuery(ctx, tx, sqlQuery)
	if queryErr != nil {
		return nil, queryErr
	}
	defer qs.closeRows(rows)

	books := make([]libquery.Book, 0)

	for rows.Next() {
		var book libquery.Book

		dest := []any{
			&book.ID, &book.Title, &book.Author, &book.SerialNumber,
			&book.DatePublished, &book.Pages, &book.Publisher,
		}

		var aggregates libquery.BookAggregates
		if withAggregates {
			dest = append(dest, &aggregates.ReadersAvgRating, &aggregates.AverageBorrowedDays)
		}

		if scanErr := rows.Scan(dest...); scanErr != nil {
			return nil, qs.scanRowFailed(scanErr)
		}

		if withAggregates {
			book.Aggregates = &aggregates
		}

		books = append(books, book)
	}

	if iterErr := rows.Err(); iterErr != nil {
		return nil, errors.Join(libquery.ErrQueryExecutionFailed, iterErr)
	}

	return books, nil
}

func (qs QueryStore) queryBorrowRecords(ctx context.Context, tx adapters.DBTx, sqlQuery sqlQueryString) ([]libquery.BorrowRecord, error) {
	rows, queryErr := qs.executeQuery(ctx, tx, sqlQuery)
	if queryErr != nil {
		return nil, queryErr
	}
	defer qs.closeRows(rows)

	records := make([]libquery.BorrowRecord, 0)

	for rows.Next() {
		var record libquery.BorrowRecord
		var returnDate sql.NullTime

		scanErr := rows.Scan(
			&record.ID, &record.BorrowNote, &record.DueDate,
			&returnDate, &record.CreatedAt, &record.UserID, &record.BookID)
		if scanErr != nil {
			return nil, qs.scanRowFailed(scanErr)
		}

		if returnDate.Valid {
			record.ReturnDate = &returnDate.Time
		}

		records = append(records, record)
	}

	if iterErr := rows.Err(); iterErr != nil {
		return nil, errors.Join(libquery.ErrQueryExecutionFailed, iterErr)
	}

	return records, nil
}

func (qs QueryStore) queryReviews(ctx context.Context, tx adapters.DBTx, sqlQuery sqlQueryString) ([]libquery.Review, error) {
	rows, queryErr := qs.executeQuery(ctx, tx, sqlQuery)
	if queryErr != nil {
		return nil, queryErr
	}
	defer qs.closeRows(rows)

	reviews := make([]libquery.Review, 0)

	for rows.Next() {
		var review libquery.Review

		scanErr := rows.Scan(&review.ID, &review.Rating, &review.Comment, &review.UserID, &review.BookID)
		if scanErr != nil {
			return nil, qs.scanRowFailed(scanErr)
		}

		reviews = append(reviews, review)
	}

	if iterErr := rows.Err(); iterErr != nil {
		return nil, errors.Join(libquery.ErrQueryExecutionFailed, iterErr)
	}

	return reviews, nil
}

// loadUserRelations eager loads the requested relations for a page of users:
// one batched query per relation, regardless of how many users the page holds.
func (qs QueryStore) loadUserRelations(
	ctx context.Context,
	tx adapters.DBTx,
	query libquery.Query,
	users []libquery.User,
) error {

	if len(users) == 0 || len(query.Relations()) == 0 {
		return nil
	}

	ids := make([]int64, 0, len(users))
	index := make(map[int64]*libquery.User, len(users))
	for i := range users {
		ids = append(ids, users[i].ID)
		index[users[i].ID] = &users[i]
	}

	for _, relation := range query.Relations() {
		switch relation {
		case libquery.RelationBorrowRecords:
			records, loadErr := qs.queryRelatedBorrowRecords(ctx, tx, libquery.KindUser, relation, ids)
			if loadErr != nil {
				return loadErr
			}

			for _, record := range records {
				if owner, ok := index[record.UserID]; ok {
					owner.BorrowRecords = append(owner.BorrowRecords, record)
				}
			}

		case libquery.RelationReviews:
			reviews, loadErr := qs.queryRelatedReviews(ctx, tx, libquery.KindUser, relation, ids)
			if loadErr != nil {
				return loadErr
			}

			for _, review := range reviews {
				if owner, ok := index[review.UserID]; ok {
					owner.Reviews = append(owner.Reviews, review)
				}
			}
		}
	}

	return nil
}

// loadBookRelations eager loads the requested relations for a page of books.
func (qs QueryStore) loadBookRelations(
	ctx context.Context,
	tx adapters.DBTx,
	query libquery.Query,
	books []libquery.Book,
) error {

	if len(books) == 0 || len(query.Relations()) == 0 {
		return nil
	}

	ids := make([]int64, 0, len(books))
	index := make(map[int64]*libquery.Book, len(books))
	for i := range books {
		ids = append(ids, books[i].ID)
		index[books[i].ID] = &books[i]
	}

	for _, relation := range query.Relations() {
		switch relation {
		case libquery.RelationBorrowRecords:
			records, loadErr := qs.queryRelatedBorrowRecords(ctx, tx, libquery.KindBook, relation, ids)
			if loadErr != nil {
				return loadErr
			}

			for _, record := range records {
				if owner, ok := index[record.BookID]; ok {
					owner.BorrowRecords = append(owner.BorrowRecords, record)
				}
			}

		case libquery.RelationReviews:
			reviews, loadErr := qs.queryRelatedReviews(ctx, tx, libquery.KindBook, relation, ids)
			if loadErr != nil {
				return loadErr
			}

			for _, review := range reviews {
				if owner, ok := index[review.BookID]; ok {
					owner.Reviews = append(owner.Reviews, review)
				}
			}
		}
	}

	return nil
}

// loadBorrowRecordRelations resolves the referenced User and/or Book rows for
// a page of borrow records with one batched query per relation.
func (qs QueryStore) loadBorrowRecordRelations(
	ctx context.Context,
	tx adapters.DBTx,
	query libquery.Query,
	records []libquery.BorrowRecord,
) error {

	if len(records) == 0 || len(query.Relations()) == 0 {
		return nil
	}

	for _, relation := range query.Relations() {
		switch relation {
		case libquery.RelationUser:
			userIDs := make([]int64, 0, len(records))
			for i := range records {
				userIDs = append(userIDs, records[i].UserID)
			}

			users, loadErr := qs.queryRelatedUsers(ctx, tx, libquery.KindBorrowRecord, relation, userIDs)
			if loadErr != nil {
				return loadErr
			}

			for i := range records {
				if user, ok := users[records[i].UserID]; ok {
					parent := user
					records[i].User = &parent
				}
			}

		case libquery.RelationBook:
			bookIDs := make([]int64, 0, len(records))
			for i := range records {
				bookIDs = append(bookIDs, records[i].BookID)
			}

			books, loadErr := qs.queryRelatedBooks(ctx, tx, libquery.KindBorrowRecord, relation, bookIDs)
			if loadErr != nil {
				return loadErr
			}

			for i := range records {
				if book, ok := books[records[i].BookID]; ok {
					parent := book
					records[i].Book = &parent
				}
			}
		}
	}

	return nil
}

// loadReviewRelations resolves the referenced User and/or Book rows for a
// page of reviews with one batched query per relation.
func (qs QueryStore) loadReviewRelations(
	ctx context.Context,
	tx adapters.DBTx,
	query libquery.Query,
	reviews []libquery.Review,
) error {

	if len(reviews) == 0 || len(query.Relations()) == 0 {
		return nil
	}

	for _, relation := range query.Relations() {
		switch relation {
		case libquery.RelationUser:
			userIDs := make([]int64, 0, len(reviews))
			for i := range reviews {
				userIDs = append(userIDs, reviews[i].UserID)
			}

			users, loadErr := qs.queryRelatedUsers(ctx, tx, libquery.KindReview, relation, userIDs)
			if loadErr != nil {
				return loadErr
			}

			for i := range reviews {
				if user, ok := users[reviews[i].UserID]; ok {
					parent := user
					reviews[i].User = &parent
				}
			}

		case libquery.RelationBook:
			bookIDs := make([]int64, 0, len(reviews))
			for i := range reviews {
				bookIDs = append(bookIDs, reviews[i].BookID)
			}

			books, loadErr := qs.queryRelatedBooks(ctx, tx, libquery.KindReview, relation, bookIDs)
			if loadErr != nil {
				return loadErr
			}

			for i := range reviews {
				if book, ok := books[reviews[i].BookID]; ok {
					parent := book
					reviews[i].Book = &parent
				}
			}
		}
	}

	return nil
}

func (qs QueryStore) queryRelatedBorrowRecords(
	ctx context.Context,
	tx adapters.DBTx,
	parentKind libquery.EntityKind,
	relation libquery.Relation,
	parentIDs []int64,
) ([]libquery.BorrowRecord, error) {

	sqlQuery, buildErr := qs.buildRelationSQL(parentKind, relation, parentIDs)
	if buildErr != nil {
		return nil, buildErr
	}

	return qs.queryBorrowRecords(ctx, tx, sqlQuery)
}

func (qs QueryStore) queryRelatedReviews(
	ctx context.Context,
	tx adapters.DBTx,
	parentKind libquery.EntityKind,
	relation libquery.Relation,
	parentIDs []int64,
) ([]libquery.Review, error) {

	sqlQuery, buildErr := qs.buildRelationSQL(parentKind, relation, parentIDs)
	if buildErr != nil {
		return nil, buildErr
	}

	return qs.queryReviews(ctx, tx, sqlQuery)
}

func (qs QueryStore) queryRelatedUsers(
	ctx context.Context,
	tx adapters.DBTx,
	parentKind libquery.EntityKind,
	relation libquery.Relation,
	ids []int64,
) (map[int64]libquery.User, error) {

	sqlQuery, buildErr := qs.buildRelationSQL(parentKind, relation, ids)
	if buildErr != nil {
		return nil, buildErr
	}

	users, queryErr := qs.queryUsers(ctx, tx, sqlQuery)
	if queryErr != nil {
		return nil, queryErr
	}

	byID := make(map[int64]libquery.User, len(users))
	for _, user := range users {
		byID[user.ID] = user
	}

	return byID, nil
}

func (qs QueryStore) queryRelatedBooks(
	ctx context.Context,
	tx adapters.DBTx,
	parentKind libquery.EntityKind,
	relation libquery.Relation,
	ids []int64,
) (map[int64]libquery.Book, error) {

	sqlQuery, buildErr := qs.buildRelationSQL(parentKind, relation, ids)
	if buildErr != nil {
		return nil, buildErr
	}

	books, queryErr := qs.queryBooks(ctx, tx, sqlQuery, false)
	if queryErr != nil {
		return nil, queryErr
	}

	byID := make(map[int64]libquery.Book, len(books))
	for _, book := range books {
		byID[book.ID] = book
	}

	return byID, nil
}

func (qs QueryStore) buildRelationSQL(
	parentKind libquery.EntityKind,
	relation libquery.Relation,
	ids []int64,
) (sqlQueryString, error) {

	parentSchema, schemaErr := libquery.SchemaFor(parentKind)
	if schemaErr != nil {
		return "", schemaErr
	}

	relSchema, ok := parentSchema.Relations[relation]
	if !ok {
		return "", errors.Join(
			libquery.ErrUnknownRelation,
			fmt.Errorf("relation %q is not defined for entity kind %q", relation, parentKind))
	}

	sqlQuery, buildErr := buildRelationQuery(relSchema, ids)
	if buildErr != nil {
		if qs.logger != nil {
			qs.logger.Error(logMsgBuildRelationQueryFailed, logAttrError, buildErr.Error())
		}

		return "", buildErr
	}

	return sqlQuery, nil
}

func requireKind(query libquery.Query, kind libquery.EntityKind) error {
	if query.Kind() != kind {
		return errors.Join(
			libquery.ErrUnknownEntityKind,
			fmt.Errorf("expected entity kind %q, got %q", kind, query.Kind()))
	}

	return nil
}

func (qs QueryStore) scanRowFailed(scanErr error) error {
	if qs.logger != nil {
		qs.logger.Error(logMsgScanRowFailed, logAttrError, scanErr.Error())
	}

	return errors.Join(libquery.ErrScanningDBRowFailed, scanErr)
}

func (qs QueryStore) incrementErrorCounter(kind libquery.EntityKind) {
	if qs.metrics != nil {
		qs.metrics.IncrementCounter(metricFetchErrors, map[string]string{labelEntityKind: string(kind)})
	}
}

// logOperation logs operational information at info level if the logger is configured.
func (qs QueryStore) logOperation(action string, args ...any) {
	if qs.logger != nil {
		qs.logger.Info(logMsgOperation+action, args...)
	}
}

// durationToMilliseconds converts a time.Duration to float64 milliseconds with 3 decimal places.
func (qs QueryStore) durationToMilliseconds(d time.Duration) float64 {
	return math.Round(float64(d.Nanoseconds())/1e6*1000) / 1000
}
