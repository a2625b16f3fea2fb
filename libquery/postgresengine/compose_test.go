package postgresengine

import (
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bibliofile/library-query-go/libquery"
)

func Test_BuildSelectQuery_ExampleScenario(t *testing.T) {
	// active users with id in {1,2,5}, last name descending, first page of 10
	query := libquery.BuildQuery(libquery.KindUser).
		WithFilter("is_active", true).
		WithFilter("id_in", []int64{1, 2, 5}).
		OrderBy("-last_name").
		Skip(0).
		Take(10).
		Finalize()

	sqlQuery, err := buildSelectQuery(query, libquery.DefaultTake, libquery.MaxTake)

	require.NoError(t, err)
	assert.Contains(t, sqlQuery, `FROM "users"`)
	assert.Contains(t, sqlQuery, `"users"."id" IN (1, 2, 5)`)
	assert.Contains(t, sqlQuery, `"users"."is_active" IS TRUE`)
	assert.Contains(t, sqlQuery, `ORDER BY "users"."last_name" DESC, "users"."id" ASC`)
	assert.Contains(t, sqlQuery, `LIMIT 10`)
	assert.NotContains(t, sqlQuery, `OFFSET`)
}

func Test_BuildSelectQuery_SelectsAllScalarColumnsQualified(t *testing.T) {
	query := libquery.BuildQuery(libquery.KindUser).Finalize()

	sqlQuery, err := buildSelectQuery(query, libquery.DefaultTake, libquery.MaxTake)

	require.NoError(t, err)
	for _, column := range []string{"id", "email", "hashed_password", "first_name", "last_name", "birth_date", "is_active"} {
		assert.Contains(t, sqlQuery, `"users"."`+column+`"`)
	}
}

func Test_BuildSelectQuery_DefaultOrderAndLimit(t *testing.T) {
	query := libquery.BuildQuery(libquery.KindBook).Finalize()

	sqlQuery, err := buildSelectQuery(query, libquery.DefaultTake, libquery.MaxTake)

	require.NoError(t, err)
	assert.Contains(t, sqlQuery, `ORDER BY "books"."id" ASC`)
	assert.Contains(t, sqlQuery, `LIMIT 50`)
}

func Test_BuildSelectQuery_IsDeterministicForTheSameQuery(t *testing.T) {
	query := libquery.BuildQuery(libquery.KindUser).
		WithFilter("is_active", true).
		WithFilter("id_in", []int64{1, 2, 5}).
		OrderBy("-last_name").
		Skip(10).
		Take(10).
		Finalize()

	first, err := buildSelectQuery(query, libquery.DefaultTake, libquery.MaxTake)
	require.NoError(t, err)

	second, err := buildSelectQuery(query, libquery.DefaultTake, libquery.MaxTake)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func Test_BuildSelectQuery_Pagination(t *testing.T) {
	tests := []struct {
		name        string
		query       libquery.Query
		wantLimit   string
		wantOffset  string
		noOffset    bool
		defaultTake uint
	}{
		{
			name:        "skip_and_take",
			query:       libquery.BuildQuery(libquery.KindUser).Skip(20).Take(10).Finalize(),
			wantLimit:   "LIMIT 10",
			wantOffset:  "OFFSET 20",
			defaultTake: libquery.DefaultTake,
		},
		{
			name:        "take_unset_uses_configured_default",
			query:       libquery.BuildQuery(libquery.KindUser).Finalize(),
			wantLimit:   "LIMIT 5",
			noOffset:    true,
			defaultTake: 5,
		},
		{
			name:        "explicit_zero_take_is_bounded_by_hard_cap",
			query:       libquery.BuildQuery(libquery.KindUser).Skip(20).Take(0).Finalize(),
			wantLimit:   "LIMIT 500",
			wantOffset:  "OFFSET 20",
			defaultTake: libquery.DefaultTake,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			sqlQuery, err := buildSelectQuery(tc.query, tc.defaultTake, libquery.MaxTake)

			require.NoError(t, err)
			assert.Contains(t, sqlQuery, tc.wantLimit)

			if tc.noOffset {
				assert.NotContains(t, sqlQuery, "OFFSET")
			} else {
				assert.Contains(t, sqlQuery, tc.wantOffset)
			}
		})
	}
}

func Test_BuildSelectQuery_EmptyMemberListMatchesNothing(t *testing.T) {
	query := libquery.BuildQuery(libquery.KindUser).
		WithFilter("id_in", []int64{}).
		Finalize()

	sqlQuery, err := buildSelectQuery(query, libquery.DefaultTake, libquery.MaxTake)

	require.NoError(t, err)
	assert.Contains(t, sqlQuery, "FALSE")
}

func Test_BuildSelectQuery_SortingByPrimaryKeyAddsNoDuplicateTiebreaker(t *testing.T) {
	query := libquery.BuildQuery(libquery.KindUser).OrderBy("-id").Finalize()

	sqlQuery, err := buildSelectQuery(query, libquery.DefaultTake, libquery.MaxTake)

	require.NoError(t, err)
	assert.Contains(t, sqlQuery, `ORDER BY "users"."id" DESC`)
	assert.NotContains(t, sqlQuery, `"users"."id" DESC, "users"."id" ASC`)
}

func Test_BuildSelectQuery_ValidationErrorsSurfaceBeforeSQLExists(t *testing.T) {
	tests := []struct {
		name    string
		query   libquery.Query
		wantErr error
	}{
		{
			name:    "unknown_filter_field",
			query:   libquery.BuildQuery(libquery.KindUser).WithFilter("karma", 1).Finalize(),
			wantErr: libquery.ErrUnknownFilterField,
		},
		{
			name:    "membership_filter_with_scalar",
			query:   libquery.BuildQuery(libquery.KindBook).WithFilter("id_in", 7).Finalize(),
			wantErr: libquery.ErrInvalidFilterValue,
		},
		{
			name:    "unknown_sort_field",
			query:   libquery.BuildQuery(libquery.KindBook).OrderBy("karma").Finalize(),
			wantErr: libquery.ErrUnknownSortField,
		},
		{
			name:    "unknown_entity_kind",
			query:   libquery.BuildQuery("magazine").Finalize(),
			wantErr: libquery.ErrUnknownEntityKind,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			sqlQuery, err := buildSelectQuery(tc.query, libquery.DefaultTake, libquery.MaxTake)

			assert.ErrorIs(t, err, tc.wantErr)
			assert.Empty(t, sqlQuery)
		})
	}
}

func Test_BuildSelectQuery_AggregateStage(t *testing.T) {
	query := libquery.BuildQuery(libquery.KindBook).
		WithBookAggregates().
		Finalize()

	sqlQuery, err := buildSelectQuery(query, libquery.DefaultTake, libquery.MaxTake)

	require.NoError(t, err)

	// both metrics are null-coalesced and aliased for scanning
	assert.Contains(t, sqlQuery, `COALESCE("review_stats"."avg_rating", 0) AS "readers_avg_rating"`)
	assert.Contains(t, sqlQuery, `COALESCE("borrow_stats"."borrowed_days", 0) AS "average_borrowed_time"`)

	// independent grouped subqueries, outer-joined on the book's primary key
	assert.Contains(t, sqlQuery, `AVG("rating")`)
	assert.Contains(t, sqlQuery, `GROUP BY "book_id"`)
	assert.Contains(t, sqlQuery, `LEFT JOIN`)
	assert.Contains(t, sqlQuery, `"review_stats"."book_id" = "books"."id"`)
	assert.Contains(t, sqlQuery, `"borrow_stats"."book_id" = "books"."id"`)

	// an unreturned record contributes 0 instead of NULL, and created_at is
	// cast so both CASE branches resolve to integer days
	assert.Contains(t, sqlQuery, "CASE WHEN return_date IS NULL THEN 0 ELSE return_date - created_at::date END")
}

func Test_BuildSelectQuery_AggregatesCombineWithFiltersAndPagination(t *testing.T) {
	query := libquery.BuildQuery(libquery.KindBook).
		WithFilter("author", "Vlad Khononov").
		OrderBy("title").
		Take(25).
		WithBookAggregates().
		Finalize()

	sqlQuery, err := buildSelectQuery(query, libquery.DefaultTake, libquery.MaxTake)

	require.NoError(t, err)
	assert.Contains(t, sqlQuery, `"books"."author" = 'Vlad Khononov'`)
	assert.Contains(t, sqlQuery, `ORDER BY "books"."title" ASC, "books"."id" ASC`)
	assert.Contains(t, sqlQuery, `LIMIT 25`)
	assert.Contains(t, sqlQuery, `AS "readers_avg_rating"`)
}

func Test_BuildSelectQuery_WithoutAggregatesNoJoins(t *testing.T) {
	query := libquery.BuildQuery(libquery.KindBook).Finalize()

	sqlQuery, err := buildSelectQuery(query, libquery.DefaultTake, libquery.MaxTake)

	require.NoError(t, err)
	assert.NotContains(t, sqlQuery, "JOIN")
	assert.NotContains(t, sqlQuery, "readers_avg_rating")
}

func Test_BuildRelationQuery(t *testing.T) {
	tests := []struct {
		name       string
		parentKind libquery.EntityKind
		relation   libquery.Relation
		ids        []int64
		wantFrom   string
		wantWhere  string
	}{
		{
			name:       "users_to_borrow_records",
			parentKind: libquery.KindUser,
			relation:   libquery.RelationBorrowRecords,
			ids:        []int64{1, 2},
			wantFrom:   `FROM "borrow_records"`,
			wantWhere:  `"borrow_records"."user_id" IN (1, 2)`,
		},
		{
			name:       "users_to_reviews",
			parentKind: libquery.KindUser,
			relation:   libquery.RelationReviews,
			ids:        []int64{1, 2},
			wantFrom:   `FROM "reviews"`,
			wantWhere:  `"reviews"."user_id" IN (1, 2)`,
		},
		{
			name:       "books_to_reviews",
			parentKind: libquery.KindBook,
			relation:   libquery.RelationReviews,
			ids:        []int64{7},
			wantFrom:   `FROM "reviews"`,
			wantWhere:  `"reviews"."book_id" IN (7)`,
		},
		{
			name:       "borrow_records_to_user",
			parentKind: libquery.KindBorrowRecord,
			relation:   libquery.RelationUser,
			ids:        []int64{3, 4},
			wantFrom:   `FROM "users"`,
			wantWhere:  `"users"."id" IN (3, 4)`,
		},
		{
			name:       "reviews_to_book",
			parentKind: libquery.KindReview,
			relation:   libquery.RelationBook,
			ids:        []int64{11},
			wantFrom:   `FROM "books"`,
			wantWhere:  `"books"."id" IN (11)`,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			parentSchema, schemaErr := libquery.SchemaFor(tc.parentKind)
			require.NoError(t, schemaErr)

			relSchema, ok := parentSchema.Relations[tc.relation]
			require.True(t, ok)

			sqlQuery, err := buildRelationQuery(relSchema, tc.ids)

			require.NoError(t, err)
			assert.Contains(t, sqlQuery, tc.wantFrom)
			assert.Contains(t, sqlQuery, tc.wantWhere)
			assert.NotContains(t, sqlQuery, "LIMIT")
		})
	}
}

// The borrowed days expression subtracts raw column values, so its CASE
// branches only type-check when both operands resolve to dates. This pins the
// expression against the fixture DDL: if the schema's column types drift, the
// mismatch fails here instead of at execution time.
func Test_BorrowedDaysExpression_TypeCompatibleWithFixtureSchema(t *testing.T) {
	ddl, err := os.ReadFile(filepath.Join("..", "..", "test", "fixtures", "schema.sql"))
	require.NoError(t, err)

	returnDateType := fixtureColumnType(t, string(ddl), "borrow_records", "return_date")
	createdAtType := fixtureColumnType(t, string(ddl), "borrow_records", "created_at")

	require.Equal(t, "DATE", returnDateType)

	if createdAtType != "DATE" {
		assert.Contains(t, exprBorrowedDays, "created_at::date",
			"created_at is %s in the fixture schema, the borrowed days expression must cast it to date", createdAtType)
	}

	ratingType := fixtureColumnType(t, string(ddl), "reviews", "rating")
	assert.Equal(t, "INTEGER", ratingType)
}

func fixtureColumnType(t *testing.T, ddl string, table string, column string) string {
	t.Helper()

	tableRe := regexp.MustCompile(`(?s)CREATE TABLE IF NOT EXISTS ` + table + `\s*\((.*?)\);`)
	tableMatch := tableRe.FindStringSubmatch(ddl)
	require.NotNil(t, tableMatch, "table %q not found in fixture schema", table)

	columnRe := regexp.MustCompile(`(?m)^\s*` + column + `\s+([A-Z]+)`)
	columnMatch := columnRe.FindStringSubmatch(tableMatch[1])
	require.NotNil(t, columnMatch, "column %q not found in fixture schema for table %q", column, table)

	return columnMatch[1]
}
