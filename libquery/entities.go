package libquery

import (
	"time"
)

// User is a library member. BorrowRecords and Reviews are only populated when
// the corresponding relations were requested on the query.
type User struct {
	ID             int64     `json:"id"`
	Email          string    `json:"email"`
	HashedPassword string    `json:"-"`
	FirstName      string    `json:"first_name"`
	LastName       string    `json:"last_name"`
	BirthDate      time.Time `json:"birth_date"`
	IsActive       bool      `json:"is_active"`

	BorrowRecords []BorrowRecord `json:"borrow_records,omitempty"`
	Reviews       []Review       `json:"reviews,omitempty"`
}

// BookAggregates carries the derived per-book metrics computed by the
// aggregation stage. Both values are null-coalesced to 0 in the query itself,
// a book without reviews or borrow records reports zeroes, never null.
type BookAggregates struct {
	ReadersAvgRating    float64 `json:"readers_avg_rating"`
	AverageBorrowedDays int64   `json:"average_borrowed_time"`
}

// Book is a catalog entry. Aggregates is non-nil only when the query asked
// for the aggregation stage.
type Book struct {
	ID            int64     `json:"id"`
	Title         string    `json:"title"`
	Author        string    `json:"author"`
	SerialNumber  string    `json:"serial_number"`
	DatePublished time.Time `json:"date_published"`
	Pages         string    `json:"pages"`
	Publisher     string    `json:"publisher"`

	Aggregates    *BookAggregates `json:"aggregates,omitempty"`
	BorrowRecords []BorrowRecord  `json:"borrow_records,omitempty"`
	Reviews       []Review        `json:"reviews,omitempty"`
}

// BorrowRecord links a User to a Book they borrowed. ReturnDate is nil while
// the book is still out. User and Book are only populated when requested.
type BorrowRecord struct {
	ID         int64      `json:"id"`
	BorrowNote string     `json:"borrow_note"`
	DueDate    time.Time  `json:"due_date"`
	ReturnDate *time.Time `json:"return_date"`
	CreatedAt  time.Time  `json:"created_at"`
	UserID     int64      `json:"user_id"`
	BookID     int64      `json:"book_id"`

	User *User `json:"user,omitempty"`
	Book *Book `json:"book,omitempty"`
}

// Review is a User's rating of a Book, constrained to [RatingMin, RatingMax].
type Review struct {
	ID      int64  `json:"id"`
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
	UserID  int64  `json:"user_id"`
	BookID  int64  `json:"book_id"`

	User *User `json:"user,omitempty"`
	Book *Book `json:"book,omitempty"`
}
