package libquery_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bibliofile/library-query-go/libquery"
)

func Test_QueryBuilder_AssemblesAllParts(t *testing.T) {
	query := libquery.BuildQuery(libquery.KindUser).
		WithFilter("is_active", true).
		WithFilter("id_in", []int64{1, 2, 5}).
		OrderBy("-last_name").
		Skip(0).
		Take(10).
		Including(libquery.RelationReviews, libquery.RelationBorrowRecords).
		Finalize()

	assert.Equal(t, libquery.KindUser, query.Kind())
	assert.Equal(t, map[string]any{"is_active": true, "id_in": []int64{1, 2, 5}}, query.Filters())
	assert.Equal(t, "-last_name", query.OrderBy())
	assert.Equal(t, 0, query.Skip())

	take, takeSet := query.Take()
	assert.Equal(t, 10, take)
	assert.True(t, takeSet)

	assert.Equal(t, []libquery.Relation{libquery.RelationReviews, libquery.RelationBorrowRecords}, query.Relations())
	assert.False(t, query.WithAggregates())
}

func Test_QueryBuilder_IncludingDropsDuplicates(t *testing.T) {
	query := libquery.BuildQuery(libquery.KindBook).
		Including(libquery.RelationReviews).
		Including(libquery.RelationReviews, libquery.RelationBorrowRecords).
		Finalize()

	assert.Equal(t, []libquery.Relation{libquery.RelationReviews, libquery.RelationBorrowRecords}, query.Relations())
}

func Test_QueryBuilder_IsImmutableAcrossChains(t *testing.T) {
	base := libquery.BuildQuery(libquery.KindUser).WithFilter("is_active", true)

	withEmail := base.WithFilter("email", "ada@example.com").Finalize()
	plain := base.Finalize()

	assert.Len(t, withEmail.Filters(), 2)
	assert.Len(t, plain.Filters(), 1)
}

func Test_Query_Validate(t *testing.T) {
	tests := []struct {
		name    string
		query   libquery.Query
		wantErr error
	}{
		{
			name: "valid_full_query",
			query: libquery.BuildQuery(libquery.KindUser).
				WithFilter("is_active", true).
				WithFilter("id_in", []int64{1, 2, 5}).
				OrderBy("-last_name").
				Skip(0).
				Take(10).
				Including(libquery.RelationReviews, libquery.RelationBorrowRecords).
				Finalize(),
		},
		{
			name:  "valid_without_anything_optional",
			query: libquery.BuildQuery(libquery.KindBook).Finalize(),
		},
		{
			name:  "valid_book_aggregates",
			query: libquery.BuildQuery(libquery.KindBook).WithBookAggregates().Finalize(),
		},
		{
			name:    "unknown_entity_kind",
			query:   libquery.BuildQuery("magazine").Finalize(),
			wantErr: libquery.ErrUnknownEntityKind,
		},
		{
			name:    "unknown_filter_field",
			query:   libquery.BuildQuery(libquery.KindUser).WithFilter("karma", 42).Finalize(),
			wantErr: libquery.ErrUnknownFilterField,
		},
		{
			name:    "membership_filter_with_scalar_value",
			query:   libquery.BuildQuery(libquery.KindUser).WithFilter("id_in", 7).Finalize(),
			wantErr: libquery.ErrInvalidFilterValue,
		},
		{
			name:    "unknown_sort_field",
			query:   libquery.BuildQuery(libquery.KindUser).OrderBy("-height").Finalize(),
			wantErr: libquery.ErrUnknownSortField,
		},
		{
			name:    "negative_skip",
			query:   libquery.BuildQuery(libquery.KindUser).Skip(-1).Finalize(),
			wantErr: libquery.ErrInvalidPagination,
		},
		{
			name:    "negative_take",
			query:   libquery.BuildQuery(libquery.KindUser).Take(-10).Finalize(),
			wantErr: libquery.ErrInvalidPagination,
		},
		{
			name:    "take_exceeding_hard_cap",
			query:   libquery.BuildQuery(libquery.KindUser).Take(libquery.MaxTake + 1).Finalize(),
			wantErr: libquery.ErrInvalidPagination,
		},
		{
			name:    "unknown_relation_for_kind",
			query:   libquery.BuildQuery(libquery.KindUser).Including(libquery.RelationBook).Finalize(),
			wantErr: libquery.ErrUnknownRelation,
		},
		{
			name:    "aggregates_on_non_book_kind",
			query:   libquery.BuildQuery(libquery.KindUser).WithBookAggregates().Finalize(),
			wantErr: libquery.ErrAggregatesNotSupported,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.query.Validate(libquery.MaxTake)

			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				return
			}

			assert.NoError(t, err)
		})
	}
}

func Test_Query_Limit(t *testing.T) {
	tests := []struct {
		name  string
		query libquery.Query
		want  uint
	}{
		{
			name:  "unset_take_falls_back_to_default",
			query: libquery.BuildQuery(libquery.KindUser).Finalize(),
			want:  50,
		},
		{
			name:  "explicit_take",
			query: libquery.BuildQuery(libquery.KindUser).Take(10).Finalize(),
			want:  10,
		},
		{
			name:  "explicit_zero_take_means_rest_of_result_set_bounded_by_cap",
			query: libquery.BuildQuery(libquery.KindUser).Skip(20).Take(0).Finalize(),
			want:  500,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.query.Limit(50, 500))
		})
	}
}
