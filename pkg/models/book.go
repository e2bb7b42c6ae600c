package models

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/uptrace/bun"
)

const (
	PageProgressionLTR = "ltr"
	PageProgressionRTL = "rtl"
)

type Book struct {
	bun.BaseModel `bun:"table:books,alias:b"`

	ID              string    `bun:",pk" json:"id"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
	Filepath        string    `bun:",notnull" json:"filepath"`
	Title           string    `bun:",notnull" json:"title"`
	SortTitle       string    `bun:",notnull" json:"sort_title"`
	Language        *string   `json:"language"`
	PageCount       int       `bun:",notnull" json:"page_count"`
	PageProgression string    `bun:",notnull" json:"page_progression"`
	HasMediaOverlay bool      `bun:",notnull" json:"has_media_overlay"`
}

// BookIDFromFilepath derives a book ID from the file name without its
// extension, e.g. "/library/Moby Dick.epub" becomes "Moby Dick".
func BookIDFromFilepath(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func (b *Book) IsRTL() bool {
	return b.PageProgression == PageProgressionRTL
}
