package mysql

import (
	"testing"
	"time"

	"digilib-backend/internal/domain/book"
	"digilib-backend/internal/domain/borrower"
	domain "digilib-backend/internal/domain/loanrequest"
	"digilib-backend/pkg/id"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// --- SQLite-friendly schema only for tests (no ENUM) ---

type loanRequestSQLite struct {
	ID                  uint64     `gorm:"primaryKey;column:id"`
	RequestCode         string     `gorm:"size:40;uniqueIndex;column:request_code"`
	BookID              uint64     `gorm:"column:book_id"`
	EmployeeCode        string     `gorm:"size:32;column:employee_code"`
	BorrowerName        string     `gorm:"column:borrower_name"`
	BorrowerEmail       string     `gorm:"column:borrower_email"`
	BorrowerPhone       string     `gorm:"column:borrower_phone"`
	RequestDate         time.Time  `gorm:"column:request_date"`
	RequestedReturnDate *time.Time `gorm:"column:requested_return_date"`
	ApprovalDate        *time.Time `gorm:"column:approval_date"`
	LoanDate            *time.Time `gorm:"column:loan_date"`
	DueDate             *time.Time `gorm:"column:due_date"`
	ReturnDate          *time.Time `gorm:"column:return_date"`
	Status              string     `gorm:"type:text;column:status"` // ← no enum
	ApprovedBy          *uint64    `gorm:"column:approved_by"`
	ApprovalNotes       string     `gorm:"column:approval_notes"`
	ReturnNotes         string     `gorm:"column:return_notes"`
	Reason              string     `gorm:"column:reason"`
	CreatedAt           time.Time  `gorm:"column:created_at"`
	UpdatedAt           time.Time  `gorm:"column:updated_at"`
}

func (loanRequestSQLite) TableName() string { return "loan_requests" }

type historySQLite struct {
	ID            uint64    `gorm:"primaryKey;column:id"`
	LoanRequestID uint64    `gorm:"column:loan_request_id;index"`
	Action        string    `gorm:"type:text;column:action"`
	ActorID       *uint64   `gorm:"column:actor_id"`
	Notes         string    `gorm:"column:notes"`
	OldStatus     *string   `gorm:"column:old_status"`
	NewStatus     string    `gorm:"column:new_status"`
	CreatedAt     time.Time `gorm:"column:created_at"`
}

func (historySQLite) TableName() string { return "loan_histories" }

type employeeSQLite struct {
	ID           uint64    `gorm:"primaryKey;column:id"`
	EmployeeCode string    `gorm:"size:32;uniqueIndex;column:employee_code"`
	Name         string    `gorm:"column:name"`
	Email        string    `gorm:"column:email"`
	Phone        string    `gorm:"column:phone"`
	Department   string    `gorm:"column:department"`
	Position     string    `gorm:"column:position"`
	Status       string    `gorm:"type:text;column:status"`
	UserID       *uint64   `gorm:"column:user_id"`
	CreatedAt    time.Time `gorm:"column:created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at"`
}

func (employeeSQLite) TableName() string { return "employees" }

// openTestDB creates an in-memory sqlite DB and migrates ONLY the sqlite-safe schema.
// A single connection keeps every query on the same in-memory database.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	// IMPORTANT: migrate the sqlite-safe models, NOT the enum-bearing domain models.
	if err := db.AutoMigrate(
		&loanRequestSQLite{},
		&historySQLite{},
		&employeeSQLite{},
		&book.Book{},
		&borrower.Staff{},
	); err != nil {
		t.Fatalf("auto-migrate: %v", err)
	}
	return db
}

func seedBook(t *testing.T, db *gorm.DB, title string, available bool) *book.Book {
	t.Helper()
	b := &book.Book{Title: title, ISBN: "978-" + title, Author: "Author of " + title}
	if err := db.Create(b).Error; err != nil {
		t.Fatalf("seed book: %v", err)
	}
	// available has a column default, so a zero value is never inserted
	if !available {
		if err := db.Model(b).Update("available", book.Unavailable).Error; err != nil {
			t.Fatalf("seed book availability: %v", err)
		}
		b.Available = book.Unavailable
	}
	return b
}

func seedEmployee(t *testing.T, db *gorm.DB, code, name string, userID *uint64) *borrower.Employee {
	t.Helper()
	e := &borrower.Employee{
		EmployeeCode: code,
		Name:         name,
		Email:        code + "@library.test",
		Department:   "Research",
		Status:       borrower.StatusActive,
		UserID:       userID,
	}
	if err := db.Create(e).Error; err != nil {
		t.Fatalf("seed employee: %v", err)
	}
	return e
}

func makeRequest(bookID uint64, employeeCode string, status domain.Status, requestedAt time.Time) *domain.LoanRequest {
	return &domain.LoanRequest{
		RequestCode:  id.PlaceholderCode(),
		BookID:       bookID,
		EmployeeCode: employeeCode,
		BorrowerName: "Borrower " + employeeCode,
		RequestDate:  requestedAt.UTC(),
		Status:       status,
	}
}

func seedRequest(t *testing.T, db *gorm.DB, lr *domain.LoanRequest) *domain.LoanRequest {
	t.Helper()
	if err := db.Create(lr).Error; err != nil {
		t.Fatalf("seed loan request: %v", err)
	}
	return lr
}

func uint64Ptr(v uint64) *uint64 { return &v }
