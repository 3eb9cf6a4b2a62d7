package app

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/sgaunet/s3browse/pkg/dto"
)

const (
	// DefaultPerPage is the number of entries of a listing page when per_page is absent.
	DefaultPerPage = 100
	// MaxPerPage caps the per_page parameter.
	MaxPerPage = 1000
)

var (
	// ErrInvalidPageFormat is returned when the page parameter cannot be parsed as a number.
	ErrInvalidPageFormat = errors.New("invalid page parameter: must be a number")

	// ErrInvalidPageValue is returned when the page parameter is less than 1.
	ErrInvalidPageValue = errors.New("invalid page parameter: must be >= 1")

	// ErrInvalidPerPage is returned when per_page is not a number between 1 and MaxPerPage.
	ErrInvalidPerPage = fmt.Errorf("invalid per_page parameter: must be between 1 and %d", MaxPerPage)
)

// ParsePaginationParams extracts the page number (1-indexed) and the page
// size from the query. Missing or empty parameters take their defaults.
func ParsePaginationParams(r *http.Request) (int, int, error) {
	page := 1
	perPage := DefaultPerPage

	if pageStr := r.URL.Query().Get("page"); pageStr != "" {
		p, err := strconv.Atoi(pageStr)
		if err != nil {
			return 0, 0, fmt.Errorf("%w: %w", ErrInvalidPageFormat, err)
		}
		if p < 1 {
			return 0, 0, ErrInvalidPageValue
		}
		page = p
	}

	if perPageStr := r.URL.Query().Get("per_page"); perPageStr != "" {
		n, err := strconv.Atoi(perPageStr)
		if err != nil || n < 1 || n > MaxPerPage {
			return 0, 0, ErrInvalidPerPage
		}
		perPage = n
	}

	return page, perPage, nil
}

// ValidatePageNumber returns page, or 1 when page is outside [1, maxPages].
func ValidatePageNumber(page, maxPages int) int {
	if page < 1 || page > maxPages {
		return 1
	}
	return page
}

// TotalPages returns the number of pages needed for total entries.
// An empty listing still has one page.
func TotalPages(total, perPage int) int {
	if total <= 0 || perPage <= 0 {
		return 1
	}
	return (total + perPage - 1) / perPage
}

// PageOfListing returns the entries of page. Folders come before files, as
// in the listing order, so a page may hold both. Out of range pages fall
// back to the first one; the returned int is the page actually served.
func PageOfListing(l dto.Listing, page, perPage int) (dto.Listing, int, int) {
	total := len(l.Folders) + len(l.Files)
	pages := TotalPages(total, perPage)
	page = ValidatePageNumber(page, pages)

	start := (page - 1) * perPage
	end := min(start+perPage, total)

	out := dto.Listing{Bucket: l.Bucket, Prefix: l.Prefix}
	nFolders := len(l.Folders)
	if start < nFolders {
		out.Folders = l.Folders[start:min(end, nFolders)]
	}
	if end > nFolders {
		out.Files = l.Files[max(start-nFolders, 0) : end-nFolders]
	}
	return out, page, pages
}
