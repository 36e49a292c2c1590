package book

import (
	"errors"
	"time"
)

var ErrNotFound = errors.New("book not found")

const (
	Unavailable int8 = 0
	Available   int8 = 1
)

// Table: books (owned by the catalog; this service only reads it and toggles availability)
type Book struct {
	ID        uint64    `gorm:"primaryKey;column:id" json:"id"`
	Title     string    `gorm:"column:title;size:255;not null" json:"title"`
	ISBN      string    `gorm:"column:isbn;size:32" json:"isbn"`
	Author    string    `gorm:"column:author;size:255" json:"author"`
	Available int8      `gorm:"column:available;not null;default:1" json:"available"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Book) TableName() string { return "books" }

func (b Book) IsAvailable() bool { return b.Available == Available }
