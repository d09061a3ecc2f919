// Package model holds the library's persisted records and the typed inputs
// produced from request payloads
package model

type Book struct {
	ID        int64  `json:"id" db:"id"`
	Title     string `json:"title" db:"title"`
	Author    string `json:"author" db:"author"`
	Available bool   `json:"available" db:"available"`
}

type Member struct {
	ID    int64  `json:"id" db:"id"`
	Name  string `json:"name" db:"name"`
	Email string `json:"email" db:"email"`
}

// BookInput is a validated create-book payload
type BookInput struct {
	Title     string
	Author    string
	Available bool
}

// BookPatch is a validated update-book payload; nil fields are left unchanged
type BookPatch struct {
	Title     *string
	Author    *string
	Available *bool
}

// Apply returns b with every non-nil patch field written over it
func (p BookPatch) Apply(b Book) Book {
	if p.Title != nil {
		b.Title = *p.Title
	}
	if p.Author != nil {
		b.Author = *p.Author
	}
	if p.Available != nil {
		b.Available = *p.Available
	}
	return b
}

// Empty reports whether the patch changes nothing
func (p BookPatch) Empty() bool {
	return p.Title == nil && p.Author == nil && p.Available == nil
}

// MemberInput is a create-member payload
type MemberInput struct {
	Name  string
	Email string
}

// BookQuery filters books by case-insensitive substring; empty fields match everything
type BookQuery struct {
	Title  string
	Author string
}

// Pagination addresses one page of a result set, pages start at 1
type Pagination struct {
	Page    int `json:"page"`
	PerPage int `json:"per_page"`
}

// Offset is the number of rows preceding the page. Only meaningful when
// PastEnd is false for the result set.
func (p Pagination) Offset() int {
	return (p.Page - 1) * p.PerPage
}

// PastEnd reports whether the page starts at or beyond the last of total rows.
// It does not multiply, so any positive Page is safe.
func (p Pagination) PastEnd(total int64) bool {
	if p.PerPage < 1 || total <= 0 {
		return true
	}
	return int64(p.Page-1) >= pageCount(total, p.PerPage)
}

func pageCount(total int64, perPage int) int64 {
	pages := total / int64(perPage)
	if total%int64(perPage) != 0 {
		pages++
	}
	return pages
}

// BookPage is one page of the book list together with its position in the whole set
type BookPage struct {
	TotalBooks  int64  `json:"total_books"`
	TotalPages  int64  `json:"total_pages"`
	CurrentPage int    `json:"current_page"`
	PerPage     int    `json:"per_page"`
	HasNext     bool   `json:"has_next"`
	HasPrev     bool   `json:"has_prev"`
	Books       []Book `json:"books"`
}

// NewBookPage computes page metadata for total rows split by p
func NewBookPage(p Pagination, total int64, books []Book) BookPage {
	var pages int64
	if total > 0 && p.PerPage > 0 {
		pages = pageCount(total, p.PerPage)
	}
	if books == nil {
		books = []Book{}
	}
	return BookPage{
		TotalBooks:  total,
		TotalPages:  pages,
		CurrentPage: p.Page,
		PerPage:     p.PerPage,
		HasNext:     int64(p.Page) < pages,
		HasPrev:     p.Page > 1,
		Books:       books,
	}
}
