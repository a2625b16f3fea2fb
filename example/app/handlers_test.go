package app

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bibliofile/library-query-go/libquery"
)

type stubFetcher struct {
	lastQuery libquery.Query
	users     []libquery.User
	books     []libquery.Book
	err       error
}

func (s *stubFetcher) FetchUsers(_ context.Context, query libquery.Query) ([]libquery.User, error) {
	s.lastQuery = query
	return s.users, s.err
}

func (s *stubFetcher) FetchBooks(_ context.Context, query libquery.Query) ([]libquery.Book, error) {
	s.lastQuery = query
	return s.books, s.err
}

func (s *stubFetcher) FetchBorrowRecords(_ context.Context, query libquery.Query) ([]libquery.BorrowRecord, error) {
	s.lastQuery = query
	return nil, s.err
}

func (s *stubFetcher) FetchReviews(_ context.Context, query libquery.Query) ([]libquery.Review, error) {
	s.lastQuery = query
	return nil, s.err
}

func setupRouter(store Fetcher) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	RegisterRoutes(router, store)

	return router
}

func performRequest(router *gin.Engine, target string) *httptest.ResponseRecorder {
	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodGet, target, nil)
	router.ServeHTTP(recorder, request)

	return recorder
}

func Test_ListUsers_TranslatesQueryParams(t *testing.T) {
	stub := &stubFetcher{users: []libquery.User{{ID: 1, FirstName: "Ada"}}}
	router := setupRouter(stub)

	recorder := performRequest(router,
		"/users?is_active=true&id_in=1,2,5&order=-last_name&skip=10&take=10&include=borrow_records,reviews")

	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `"count":1`)

	query := stub.lastQuery
	assert.Equal(t, libquery.KindUser, query.Kind())
	assert.Equal(t, map[string]any{"is_active": true, "id_in": []int64{1, 2, 5}}, query.Filters())
	assert.Equal(t, "-last_name", query.OrderBy())
	assert.Equal(t, 10, query.Skip())

	take, takeSet := query.Take()
	assert.Equal(t, 10, take)
	assert.True(t, takeSet)

	assert.Equal(t, []libquery.Relation{libquery.RelationBorrowRecords, libquery.RelationReviews}, query.Relations())
}

func Test_ListUsers_MalformedParams(t *testing.T) {
	tests := []struct {
		name   string
		target string
	}{
		{name: "non_boolean_is_active", target: "/users?is_active=maybe"},
		{name: "non_numeric_id_list", target: "/users?id_in=1,two"},
		{name: "non_numeric_skip", target: "/users?skip=x"},
		{name: "non_numeric_take", target: "/users?take=x"},
		{name: "non_numeric_id", target: "/users?id=abc"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			router := setupRouter(&stubFetcher{})

			recorder := performRequest(router, tc.target)

			assert.Equal(t, http.StatusBadRequest, recorder.Code)
		})
	}
}

func Test_ListUsers_ValidationErrorsMapToBadRequest(t *testing.T) {
	stub := &stubFetcher{err: errors.Join(libquery.ErrUnknownSortField, errors.New(`field "karma" is not sortable`))}
	router := setupRouter(stub)

	recorder := performRequest(router, "/users?order=karma")

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	// the rejected field must be named so the caller can correct the request
	assert.Contains(t, recorder.Body.String(), "karma")
}

func Test_ListUsers_ExecutionErrorsMapToInternalServerError(t *testing.T) {
	stub := &stubFetcher{err: errors.Join(libquery.ErrQueryExecutionFailed, errors.New("connection reset"))}
	router := setupRouter(stub)

	recorder := performRequest(router, "/users")

	assert.Equal(t, http.StatusInternalServerError, recorder.Code)

	// store internals stay out of the response body
	assert.Contains(t, recorder.Body.String(), "internal error")
	assert.NotContains(t, recorder.Body.String(), "connection reset")
	assert.NotContains(t, recorder.Body.String(), libquery.ErrQueryExecutionFailed.Error())
}

func Test_ListBooks_AggregatesFlag(t *testing.T) {
	stub := &stubFetcher{}
	router := setupRouter(stub)

	recorder := performRequest(router, "/books?aggregates=true&author=Vlad+Khononov")

	require.Equal(t, http.StatusOK, recorder.Code)
	assert.True(t, stub.lastQuery.WithAggregates())
	assert.Equal(t, map[string]any{"author": "Vlad Khononov"}, stub.lastQuery.Filters())
}

func Test_ListBorrowRecords_MembershipFilters(t *testing.T) {
	stub := &stubFetcher{}
	router := setupRouter(stub)

	recorder := performRequest(router, "/borrow-records?user_id_in=3&book_id_in=7,9&include=user,book")

	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, map[string]any{"user_id_in": []int64{3}, "book_id_in": []int64{7, 9}}, stub.lastQuery.Filters())
	assert.Equal(t, []libquery.Relation{libquery.RelationUser, libquery.RelationBook}, stub.lastQuery.Relations())
}

func Test_ListReviews_RatingFilter(t *testing.T) {
	stub := &stubFetcher{}
	router := setupRouter(stub)

	recorder := performRequest(router, "/reviews?rating=8")

	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, map[string]any{"rating": 8}, stub.lastQuery.Filters())
}

func Test_ToHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, toHTTPStatus(libquery.ErrInvalidPagination))
	assert.Equal(t, http.StatusBadRequest, toHTTPStatus(errors.Join(libquery.ErrUnknownFilterField, errors.New("karma"))))
	assert.Equal(t, http.StatusInternalServerError, toHTTPStatus(errors.New("boom")))
}
