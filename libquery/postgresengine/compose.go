package postgresengine

import (
	"errors"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // dialect import
	"github.com/doug-martin/goqu/v9/exp"

	"github.com/bibliofile/library-query-go/libquery"
)

const (
	dialectPostgres = "postgres"

	colBookID     = "book_id"
	colRating     = "rating"
	colReturnDate = "return_date"

	aliasReviewStats         = "review_stats"
	aliasBorrowStats         = "borrow_stats"
	aliasAvgRating           = "avg_rating"
	aliasBorrowedDays        = "borrowed_days"
	aliasReadersAvgRating    = "readers_avg_rating"
	aliasAverageBorrowedTime = "average_borrowed_time"

	// return_date is a DATE but created_at is a timestamptz, so it gets cast
	// before subtracting: date minus date yields whole days as an integer.
	// An unreturned record contributes 0 instead of NULL so the sum stays
	// meaningful.
	exprBorrowedDays = "CASE WHEN return_date IS NULL THEN 0 ELSE return_date - created_at::date END"

	// Compiled from a membership predicate with an empty member list:
	// matches zero rows by definition, without tripping up the SQL parser.
	exprMatchNothing = "FALSE"
)

// buildSelectQuery composes the primary SQL statement for a query: base
// selection (plus aggregate columns for Book queries that ask for them),
// WHERE conjunction, ORDER BY with a primary-key tiebreaker, and
// OFFSET/LIMIT. The query must have been validated before.
func buildSelectQuery(query libquery.Query, defaultTake uint, maxTake uint) (sqlQueryString, error) {
	schema, schemaErr := libquery.SchemaFor(query.Kind())
	if schemaErr != nil {
		return "", schemaErr
	}

	predicates, predicatesErr := libquery.BuildPredicates(query.Kind(), query.Filters())
	if predicatesErr != nil {
		return "", predicatesErr
	}

	selectStmt := goqu.Dialect(dialectPostgres).
		From(schema.Table).
		Select(baseColumns(schema)...)

	if query.WithAggregates() {
		selectStmt = addAggregateStage(selectStmt, schema)
	}

	selectStmt = addWhereClause(selectStmt, schema, predicates)

	orderStmt, orderErr := addOrderClause(selectStmt, schema, query.OrderBy())
	if orderErr != nil {
		return "", orderErr
	}

	orderStmt = orderStmt.Limit(query.Limit(defaultTake, maxTake))
	if query.Skip() > 0 {
		orderStmt = orderStmt.Offset(uint(query.Skip()))
	}

	sqlQuery, _, toSQLErr := orderStmt.ToSQL()
	if toSQLErr != nil {
		return "", errors.Join(libquery.ErrBuildingQueryFailed, toSQLErr)
	}

	return sqlQuery, nil
}

// buildRelationQuery composes the single batched follow-up statement that
// eager loads one relation for a page of parent rows. For child relations the
// member list holds the parents' primary keys matched against the child's
// foreign key; for parent relations it holds the collected foreign key values
// matched against the related table's primary key.
func buildRelationQuery(
	relSchema libquery.RelationSchema,
	parentIDs []int64,
) (sqlQueryString, error) {

	related, relatedErr := libquery.SchemaFor(relSchema.Kind)
	if relatedErr != nil {
		return "", relatedErr
	}

	matchColumn := relSchema.ForeignKey
	if relSchema.ToParent {
		matchColumn = related.PrimaryKey
	}

	selectStmt := goqu.Dialect(dialectPostgres).
		From(related.Table).
		Select(baseColumns(related)...).
		Where(goqu.I(related.QualifiedColumn(matchColumn)).In(parentIDs)).
		Order(goqu.I(related.QualifiedColumn(related.PrimaryKey)).Asc())

	sqlQuery, _, toSQLErr := selectStmt.ToSQL()
	if toSQLErr != nil {
		return "", errors.Join(libquery.ErrBuildingQueryFailed, toSQLErr)
	}

	return sqlQuery, nil
}

// baseColumns returns the entity's scalar columns qualified with the table
// name, so they stay unambiguous once aggregate joins are added.
func baseColumns(schema libquery.EntitySchema) []any {
	columns := make([]any, 0, len(schema.Columns))
	for _, column := range schema.Columns {
		columns = append(columns, goqu.I(schema.QualifiedColumn(column)))
	}

	return columns
}

// addWhereClause ANDs all predicates into the statement. Equality predicates
// compare the column to a single value, membership predicates test the column
// against the member list. An empty member list matches nothing.
func addWhereClause(
	selectStmt *goqu.SelectDataset,
	schema libquery.EntitySchema,
	predicates []libquery.Predicate,
) *goqu.SelectDataset {

	expressions := make([]goqu.Expression, 0, len(predicates))

	for _, predicate := range predicates {
		qualified := schema.QualifiedColumn(predicate.Column())

		switch predicate.Op() {
		case libquery.OpIn:
			if len(predicate.Values()) == 0 {
				expressions = append(expressions, goqu.L(exprMatchNothing))
				continue
			}

			expressions = append(expressions, goqu.I(qualified).In(predicate.Values()...))

		default:
			expressions = append(expressions, goqu.Ex{qualified: predicate.Value()})
		}
	}

	if len(expressions) == 0 {
		return selectStmt
	}

	return selectStmt.Where(goqu.And(expressions...))
}

// addOrderClause applies the sort key (descending when prefixed with "-") and
// always appends the primary key ascending as tiebreaker, so repeated
// paginated queries return stable pages.
func addOrderClause(
	selectStmt *goqu.SelectDataset,
	schema libquery.EntitySchema,
	orderBy string,
) (*goqu.SelectDataset, error) {

	pkOrder := goqu.I(schema.QualifiedColumn(schema.PrimaryKey)).Asc()

	if orderBy == "" {
		return selectStmt.Order(pkOrder), nil
	}

	column, descending, sortErr := libquery.ResolveSortKey(schema.Kind, orderBy)
	if sortErr != nil {
		return nil, sortErr
	}

	var ordered exp.OrderedExpression
	if descending {
		ordered = goqu.I(schema.QualifiedColumn(column)).Desc()
	} else {
		ordered = goqu.I(schema.QualifiedColumn(column)).Asc()
	}

	if column == schema.PrimaryKey {
		return selectStmt.Order(ordered), nil
	}

	return selectStmt.Order(ordered, pkOrder), nil
}

// addAggregateStage attaches the derived per-book metrics to the selection:
// readers_avg_rating and average_borrowed_time, both null-coalesced to 0.
//
// Each metric comes from its own grouped subquery (at most one row per
// book_id), left-joined independently. A book with reviews but no borrow
// records keeps its rating average, and neither join can fan out the base
// rows - which a single GROUP BY over two direct outer joins would do.
func addAggregateStage(selectStmt *goqu.SelectDataset, schema libquery.EntitySchema) *goqu.SelectDataset {
	builder := goqu.Dialect(dialectPostgres)

	reviewStats := builder.
		From(libquery.TableReviews).
		Select(goqu.C(colBookID), goqu.AVG(colRating).As(aliasAvgRating)).
		GroupBy(goqu.C(colBookID)).
		As(aliasReviewStats)

	borrowStats := builder.
		From(libquery.TableBorrowRecords).
		Select(goqu.C(colBookID), goqu.SUM(goqu.L(exprBorrowedDays)).As(aliasBorrowedDays)).
		GroupBy(goqu.C(colBookID)).
		As(aliasBorrowStats)

	primaryKey := goqu.I(schema.QualifiedColumn(schema.PrimaryKey))

	return selectStmt.
		SelectAppend(
			goqu.COALESCE(goqu.I(qualify(aliasReviewStats, aliasAvgRating)), 0).As(aliasReadersAvgRating),
			goqu.COALESCE(goqu.I(qualify(aliasBorrowStats, aliasBorrowedDays)), 0).As(aliasAverageBorrowedTime),
		).
		LeftJoin(reviewStats, goqu.On(goqu.I(qualify(aliasReviewStats, colBookID)).Eq(primaryKey))).
		LeftJoin(borrowStats, goqu.On(goqu.I(qualify(aliasBorrowStats, colBookID)).Eq(primaryKey)))
}

func qualify(alias string, column string) string {
	return fmt.Sprintf("%s.%s", alias, column)
}
