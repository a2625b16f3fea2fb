// Generates SQL fixture data for the library schema: users with bcrypt
// password hashes, books with ULID serial numbers, and randomized borrow
// records and reviews referencing them. The output can be piped into psql
// after applying test/fixtures/schema.sql.
package main

import (
	"flag"
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"golang.org/x/crypto/bcrypt"

	"github.com/bibliofile/library-query-go/libquery"
)

const (
	outputDir  = "test/fixtures"
	outputFile = "seed.sql"

	// every generated user shares this password, hashed per user
	seedPassword = "library-demo"
)

var firstNames = []string{
	"Ada", "Grace", "Alan", "Edsger", "Barbara", "Donald", "Margaret", "Dennis", "Ken", "Leslie",
}

var lastNames = []string{
	"Lovelace", "Hopper", "Turing", "Dijkstra", "Liskov", "Knuth", "Hamilton", "Ritchie", "Thompson", "Lamport",
}

var titleWords = []string{
	"Patterns", "Systems", "Design", "Concurrency", "Streams", "Queries", "Domain", "Data", "Pragmatic", "Distributed",
}

var publishers = []string{
	"Addison-Wesley", "O'Reilly Media", "Manning", "Pragmatic Bookshelf", "No Starch Press",
}

var borrowNotes = []string{
	"picked up at front desk", "extended once", "requested via catalog", "interlibrary loan", "",
}

var comments = []string{
	"well worth a second read", "dense but rewarding", "good introduction", "skimmed the later chapters", "excellent examples",
}

func main() {
	numUsers := flag.Int("users", 100, "number of users to generate")
	numBooks := flag.Int("books", 100, "number of books to generate")
	numBorrowRecords := flag.Int("borrowrecords", 100, "number of borrow records to generate")
	numReviews := flag.Int("reviews", 100, "number of reviews to generate")
	clear := flag.Bool("clear", false, "truncate tables and reset sequences before inserting")
	flag.Parse()

	if err := generateSeedSQL(*numUsers, *numBooks, *numBorrowRecords, *numReviews, *clear); err != nil {
		panic(fmt.Sprintf("Error generating seed data: %v\n", err))
	}
}

func generateSeedSQL(numUsers, numBooks, numBorrowRecords, numReviews int, clear bool) error {
	projectRoot, err := findProjectRoot()
	if err != nil {
		return fmt.Errorf("failed to find project root: %w", err)
	}

	var sb strings.Builder

	if clear {
		sb.WriteString("TRUNCATE TABLE reviews, borrow_records, books, users CASCADE;\n")
		sb.WriteString("ALTER SEQUENCE users_id_seq RESTART WITH 1;\n")
		sb.WriteString("ALTER SEQUENCE books_id_seq RESTART WITH 1;\n")
		sb.WriteString("ALTER SEQUENCE borrow_records_id_seq RESTART WITH 1;\n")
		sb.WriteString("ALTER SEQUENCE reviews_id_seq RESTART WITH 1;\n\n")
	}

	fakeClock := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	if err = writeUsers(&sb, numUsers); err != nil {
		return err
	}

	writeBooks(&sb, numBooks, fakeClock)
	writeBorrowRecords(&sb, numBorrowRecords, numUsers, numBooks, fakeClock)
	writeReviews(&sb, numReviews, numUsers, numBooks)

	outputPath := filepath.Join(projectRoot, outputDir, outputFile)
	if err = os.MkdirAll(filepath.Dir(outputPath), 0o750); err != nil {
		return fmt.Errorf("failed to create output dir: %w", err)
	}

	return os.WriteFile(outputPath, []byte(sb.String()), 0o600)
}

func writeUsers(sb *strings.Builder, numUsers int) error {
	sb.WriteString("INSERT INTO users (email, hashed_password, first_name, last_name, birth_date, is_active) VALUES\n")

	for i := 0; i < numUsers; i++ {
		firstName := firstNames[rand.IntN(len(firstNames))]
		lastName := lastNames[rand.IntN(len(lastNames))]

		email := fmt.Sprintf("%s.%s.%d@example.com", strings.ToLower(firstName), strings.ToLower(lastName), i)
		if err := libquery.ValidateEmail(email); err != nil {
			return fmt.Errorf("generated an invalid email %q: %w", email, err)
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(seedPassword), bcrypt.MinCost)
		if err != nil {
			return fmt.Errorf("hashing password failed: %w", err)
		}

		birthDate := time.Date(1930+rand.IntN(72), time.Month(1+rand.IntN(12)), 1+rand.IntN(28), 0, 0, 0, 0, time.UTC)

		sb.WriteString(fmt.Sprintf("('%s', '%s', '%s', '%s', '%s', %t)%s\n",
			email, string(hash), firstName, lastName,
			birthDate.Format(time.DateOnly), rand.IntN(4) > 0, rowSeparator(i, numUsers)))
	}

	sb.WriteString("\n")

	return nil
}

func writeBooks(sb *strings.Builder, numBooks int, fakeClock time.Time) {
	sb.WriteString("INSERT INTO books (title, author, serial_number, date_published, pages, publisher) VALUES\n")

	for i := 0; i < numBooks; i++ {
		title := fmt.Sprintf("%s %s %s",
			titleWords[rand.IntN(len(titleWords))],
			titleWords[rand.IntN(len(titleWords))],
			titleWords[rand.IntN(len(titleWords))])
		author := fmt.Sprintf("%s %s",
			firstNames[rand.IntN(len(firstNames))],
			lastNames[rand.IntN(len(lastNames))])
		publisher := strings.ReplaceAll(publishers[rand.IntN(len(publishers))], "'", "''")
		datePublished := fakeClock.AddDate(-rand.IntN(30), 0, -rand.IntN(365))

		sb.WriteString(fmt.Sprintf("('%s', '%s', '%s', '%s', '%d', '%s')%s\n",
			title, author, ulid.Make().String(),
			datePublished.Format(time.DateOnly), 100+rand.IntN(900), publisher,
			rowSeparator(i, numBooks)))
	}

	sb.WriteString("\n")
}

func writeBorrowRecords(sb *strings.Builder, numRecords, numUsers, numBooks int, fakeClock time.Time) {
	sb.WriteString("INSERT INTO borrow_records (borrow_note, due_date, return_date, created_at, user_id, book_id) VALUES\n")

	for i := 0; i < numRecords; i++ {
		createdAt := fakeClock.AddDate(0, 0, -rand.IntN(90))
		dueDate := createdAt.AddDate(0, 0, 30)

		// roughly a quarter of all records are returned
		returnDate := "NULL"
		if rand.IntN(4) == 0 {
			returnDate = fmt.Sprintf("'%s'", createdAt.AddDate(0, 0, 1+rand.IntN(29)).Format(time.DateOnly))
		}

		sb.WriteString(fmt.Sprintf("('%s', '%s', %s, '%s', %d, %d)%s\n",
			borrowNotes[rand.IntN(len(borrowNotes))],
			dueDate.Format(time.DateOnly), returnDate, createdAt.Format(time.RFC3339),
			1+rand.IntN(numUsers), 1+rand.IntN(numBooks),
			rowSeparator(i, numRecords)))
	}

	sb.WriteString("\n")
}

func writeReviews(sb *strings.Builder, numReviews, numUsers, numBooks int) {
	sb.WriteString("INSERT INTO reviews (rating, comment, user_id, book_id) VALUES\n")

	for i := 0; i < numReviews; i++ {
		rating := libquery.RatingMin + rand.IntN(libquery.RatingMax-libquery.RatingMin+1)

		sb.WriteString(fmt.Sprintf("(%d, '%s', %d, %d)%s\n",
			rating, comments[rand.IntN(len(comments))],
			1+rand.IntN(numUsers), 1+rand.IntN(numBooks),
			rowSeparator(i, numReviews)))
	}

	sb.WriteString("\n")
}

func rowSeparator(i, total int) string {
	if i == total-1 {
		return ";"
	}

	return ","
}

func findProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		if _, statErr := os.Stat(filepath.Join(dir, "go.mod")); statErr == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", fmt.Errorf("could not find project root (no go.mod found)")
}
