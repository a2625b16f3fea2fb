package app

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	jsoniter "github.com/json-iterator/go"

	"github.com/bibliofile/library-query-go/libquery"
)

// Fetcher is the slice of the query store the HTTP surface depends on.
type Fetcher interface {
	FetchUsers(ctx context.Context, query libquery.Query) ([]libquery.User, error)
	FetchBooks(ctx context.Context, query libquery.Query) ([]libquery.Book, error)
	FetchBorrowRecords(ctx context.Context, query libquery.Query) ([]libquery.BorrowRecord, error)
	FetchReviews(ctx context.Context, query libquery.Query) ([]libquery.Review, error)
}

type Handler struct {
	store Fetcher
}

// RegisterRoutes mounts the read endpoints on the given router group.
func RegisterRoutes(r gin.IRoutes, store Fetcher) {
	h := &Handler{store: store}

	r.GET("/users", h.ListUsers)
	r.GET("/books", h.ListBooks)
	r.GET("/borrow-records", h.ListBorrowRecords)
	r.GET("/reviews", h.ListReviews)
}

// GET /users
func (h *Handler) ListUsers(c *gin.Context) {
	builder := libquery.BuildQuery(libquery.KindUser)

	if v := c.Query("is_active"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, errorBody("is_active must be a boolean"))
			return
		}
		builder = builder.WithFilter("is_active", b)
	}

	for _, field := range []string{"first_name", "last_name", "email"} {
		if v := c.Query(field); v != "" {
			builder = builder.WithFilter(field, v)
		}
	}

	if v := c.Query("id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, errorBody("id must be an integer"))
			return
		}
		builder = builder.WithFilter("id", id)
	}

	builder, ok := h.applyIDListFilters(c, builder, "id_in")
	if !ok {
		return
	}

	query, ok := h.applyCommonParams(c, builder)
	if !ok {
		return
	}

	users, err := h.store.FetchUsers(c.Request.Context(), query)
	if err != nil {
		respondError(c, err)
		return
	}

	renderJSON(c, http.StatusOK, listResponse[libquery.User]{Items: users, Count: len(users)})
}

// GET /books
func (h *Handler) ListBooks(c *gin.Context) {
	builder := libquery.BuildQuery(libquery.KindBook)

	for _, field := range []string{"author", "title"} {
		if v := c.Query(field); v != "" {
			builder = builder.WithFilter(field, v)
		}
	}

	builder, ok := h.applyIDListFilters(c, builder, "id_in")
	if !ok {
		return
	}

	if v := c.Query("aggregates"); v == "true" || v == "1" {
		builder = builder.WithBookAggregates()
	}

	query, ok := h.applyCommonParams(c, builder)
	if !ok {
		return
	}

	books, err := h.store.FetchBooks(c.Request.Context(), query)
	if err != nil {
		respondError(c, err)
		return
	}

	renderJSON(c, http.StatusOK, listResponse[libquery.Book]{Items: books, Count: len(books)})
}

// GET /borrow-records
func (h *Handler) ListBorrowRecords(c *gin.Context) {
	builder, ok := h.applyIDListFilters(c, libquery.BuildQuery(libquery.KindBorrowRecord), "user_id_in", "book_id_in")
	if !ok {
		return
	}

	query, ok := h.applyCommonParams(c, builder)
	if !ok {
		return
	}

	records, err := h.store.FetchBorrowRecords(c.Request.Context(), query)
	if err != nil {
		respondError(c, err)
		return
	}

	renderJSON(c, http.StatusOK, listResponse[libquery.BorrowRecord]{Items: records, Count: len(records)})
}

// GET /reviews
func (h *Handler) ListReviews(c *gin.Context) {
	builder := libquery.BuildQuery(libquery.KindReview)

	if v := c.Query("rating"); v != "" {
		rating, err := strconv.Atoi(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, errorBody("rating must be an integer"))
			return
		}
		builder = builder.WithFilter("rating", rating)
	}

	builder, ok := h.applyIDListFilters(c, builder, "user_id_in", "book_id_in")
	if !ok {
		return
	}

	query, ok := h.applyCommonParams(c, builder)
	if !ok {
		return
	}

	reviews, err := h.store.FetchReviews(c.Request.Context(), query)
	if err != nil {
		respondError(c, err)
		return
	}

	renderJSON(c, http.StatusOK, listResponse[libquery.Review]{Items: reviews, Count: len(reviews)})
}

// ---------- shared query param handling ----------

// applyIDListFilters parses comma separated id list params into membership filters.
func (h *Handler) applyIDListFilters(
	c *gin.Context,
	builder libquery.QueryBuilder,
	params ...string,
) (libquery.QueryBuilder, bool) {

	for _, param := range params {
		v := c.Query(param)
		if v == "" {
			continue
		}

		ids, err := parseIDList(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, errorBody(param+" must be a comma separated list of integers"))
			return builder, false
		}

		builder = builder.WithFilter(param, ids)
	}

	return builder, true
}

// applyCommonParams handles order, skip, take and include, then finalizes.
func (h *Handler) applyCommonParams(c *gin.Context, builder libquery.QueryBuilder) (libquery.Query, bool) {
	if v := c.Query("order"); v != "" {
		builder = builder.OrderBy(v)
	}

	if v := c.Query("skip"); v != "" {
		skip, err := strconv.Atoi(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, errorBody("skip must be an integer"))
			return libquery.Query{}, false
		}
		builder = builder.Skip(skip)
	}

	if v := c.Query("take"); v != "" {
		take, err := strconv.Atoi(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, errorBody("take must be an integer"))
			return libquery.Query{}, false
		}
		builder = builder.Take(take)
	}

	if v := c.Query("include"); v != "" {
		for _, name := range strings.Split(v, ",") {
			builder = builder.Including(libquery.Relation(strings.TrimSpace(name)))
		}
	}

	return builder.Finalize(), true
}

func parseIDList(raw string) ([]int64, error) {
	parts := strings.Split(raw, ",")
	ids := make([]int64, 0, len(parts))

	for _, part := range parts {
		id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
		if err != nil {
			return nil, err
		}

		ids = append(ids, id)
	}

	return ids, nil
}

// ---------- responses ----------

type listResponse[T any] struct {
	Items []T `json:"items"`
	Count int `json:"count"`
}

type errorDTO struct {
	Error string `json:"error"`
}

func errorBody(msg string) errorDTO {
	return errorDTO{Error: msg}
}

// respondError maps validation failures to 400 with the detailed message
// (the caller needs to know which field was rejected) and everything else to
// a generic 500, store internals stay out of the response body.
func respondError(c *gin.Context, err error) {
	status := toHTTPStatus(err)

	if status == http.StatusInternalServerError {
		c.JSON(status, errorBody("internal error"))
		return
	}

	c.JSON(status, errorBody(err.Error()))
}

func toHTTPStatus(err error) int {
	clientErrors := []error{
		libquery.ErrUnknownEntityKind,
		libquery.ErrUnknownFilterField,
		libquery.ErrInvalidFilterValue,
		libquery.ErrUnknownSortField,
		libquery.ErrInvalidPagination,
		libquery.ErrUnknownRelation,
		libquery.ErrAggregatesNotSupported,
	}

	for _, sentinel := range clientErrors {
		if errors.Is(err, sentinel) {
			return http.StatusBadRequest
		}
	}

	return http.StatusInternalServerError
}

func renderJSON(c *gin.Context, status int, v any) {
	payload, err := jsoniter.ConfigFastest.Marshal(v)
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorBody("encoding response failed"))
		return
	}

	c.Data(status, "application/json; charset=utf-8", payload)
}
