package libquery

import (
	"errors"
	"fmt"
	"net/mail"
)

// EntityKind selects one of the fixed set of entities the engine can query.
type EntityKind string

const (
	KindUser         EntityKind = "user"
	KindBook         EntityKind = "book"
	KindBorrowRecord EntityKind = "borrow_record"
	KindReview       EntityKind = "review"
)

// Relation names a relationship that can be eager loaded alongside a query result.
type Relation string

const (
	RelationBorrowRecords Relation = "borrow_records"
	RelationReviews       Relation = "reviews"
	RelationUser          Relation = "user"
	RelationBook          Relation = "book"
)

// Table names.
const (
	TableUsers         = "users"
	TableBooks         = "books"
	TableBorrowRecords = "borrow_records"
	TableReviews       = "reviews"
)

// RelationSchema describes how one relation is reached from its owning entity.
// For child relations (user -> borrow_records) ForeignKey is the column on the
// related table pointing back at the owner's primary key. For parent relations
// (borrow_record -> user) ForeignKey is the column on the owning table holding
// the related row's primary key.
type RelationSchema struct {
	Kind       EntityKind
	ForeignKey string
	ToParent   bool
}

// EntitySchema is the read-only description of one entity's table: columns,
// primary key, foreign keys and reachable relations. The attribute mapper
// whitelists are validated against these at startup.
type EntitySchema struct {
	Kind        EntityKind
	Table       string
	PrimaryKey  string
	Columns     []string
	ForeignKeys map[string]string // column -> referenced table
	Relations   map[Relation]RelationSchema
}

var userSchema = EntitySchema{
	Kind:       KindUser,
	Table:      TableUsers,
	PrimaryKey: "id",
	Columns:    []string{"id", "email", "hashed_password", "first_name", "last_name", "birth_date", "is_active"},
	Relations: map[Relation]RelationSchema{
		RelationBorrowRecords: {Kind: KindBorrowRecord, ForeignKey: "user_id"},
		RelationReviews:       {Kind: KindReview, ForeignKey: "user_id"},
	},
}

var bookSchema = EntitySchema{
	Kind:       KindBook,
	Table:      TableBooks,
	PrimaryKey: "id",
	Columns:    []string{"id", "title", "author", "serial_number", "date_published", "pages", "publisher"},
	Relations: map[Relation]RelationSchema{
		RelationBorrowRecords: {Kind: KindBorrowRecord, ForeignKey: "book_id"},
		RelationReviews:       {Kind: KindReview, ForeignKey: "book_id"},
	},
}

var borrowRecordSchema = EntitySchema{
	Kind:       KindBorrowRecord,
	Table:      TableBorrowRecords,
	PrimaryKey: "id",
	Columns:    []string{"id", "borrow_note", "due_date", "return_date", "created_at", "user_id", "book_id"},
	ForeignKeys: map[string]string{
		"user_id": TableUsers,
		"book_id": TableBooks,
	},
	Relations: map[Relation]RelationSchema{
		RelationUser: {Kind: KindUser, ForeignKey: "user_id", ToParent: true},
		RelationBook: {Kind: KindBook, ForeignKey: "book_id", ToParent: true},
	},
}

var reviewSchema = EntitySchema{
	Kind:       KindReview,
	Table:      TableReviews,
	PrimaryKey: "id",
	Columns:    []string{"id", "rating", "comment", "user_id", "book_id"},
	ForeignKeys: map[string]string{
		"user_id": TableUsers,
		"book_id": TableBooks,
	},
	Relations: map[Relation]RelationSchema{
		RelationUser: {Kind: KindUser, ForeignKey: "user_id", ToParent: true},
		RelationBook: {Kind: KindBook, ForeignKey: "book_id", ToParent: true},
	},
}

// SchemaFor returns the schema metadata for the given entity kind.
func SchemaFor(kind EntityKind) (EntitySchema, error) {
	switch kind {
	case KindUser:
		return userSchema, nil
	case KindBook:
		return bookSchema, nil
	case KindBorrowRecord:
		return borrowRecordSchema, nil
	case KindReview:
		return reviewSchema, nil
	default:
		return EntitySchema{}, errors.Join(ErrUnknownEntityKind, fmt.Errorf("entity kind: %q", kind))
	}
}

// AllKinds lists every queryable entity kind.
func AllKinds() []EntityKind {
	return []EntityKind{KindUser, KindBook, KindBorrowRecord, KindReview}
}

// HasColumn reports whether the schema contains the given column.
func (s EntitySchema) HasColumn(column string) bool {
	for _, col := range s.Columns {
		if col == column {
			return true
		}
	}

	return false
}

// QualifiedColumn returns the column reference prefixed with the table name,
// so that queries stay unambiguous once joins come into play.
func (s EntitySchema) QualifiedColumn(column string) string {
	return s.Table + "." + column
}

// Rating bounds enforced by the reviews table check constraints.
const (
	RatingMin = 1
	RatingMax = 10
)

// ValidateEmail checks the syntactic shape of an email address.
// The engine never writes users, but fixture generation does.
func ValidateEmail(address string) error {
	if _, err := mail.ParseAddress(address); err != nil {
		return fmt.Errorf("invalid email %q: %w", address, err)
	}

	return nil
}
