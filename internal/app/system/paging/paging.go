// internal/app/system/paging/paging.go
package paging

import (
	"net/http"
	"strconv"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/query"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// PageSize is the default number of rows in a keyset page (members list).
const PageSize = 25

// MaxPageSize caps the "limit" query parameter.
const MaxPageSize = 100

// ParseLimit reads the optional "limit" query parameter.
// Returns PageSize if absent or invalid, and clamps to MaxPageSize.
func ParseLimit(r *http.Request) int {
	s := query.Get(r, "limit")
	if s == "" {
		return PageSize
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return PageSize
	}
	if n > MaxPageSize {
		return MaxPageSize
	}
	return n
}

// Direction indicates the pagination direction.
type Direction int

const (
	Forward  Direction = iota // Default: sort ascending, use "gt" for cursor
	Backward                  // Sort descending, use "lt" for cursor
)

// Keyset holds the result of configuring keyset pagination.
type Keyset struct {
	Direction Direction
	SortOrder int // 1 for ascending, -1 for descending
	Cursor    *wafflemongo.Cursor
	Size      int

	before, after string
}

// ConfigureKeyset determines pagination direction and decodes the cursor.
// An undecodable cursor is treated as absent (first page).
func ConfigureKeyset(before, after string, size int) Keyset {
	if size < 1 {
		size = PageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}
	ks := Keyset{Direction: Forward, SortOrder: 1, Size: size, before: before, after: after}

	if before != "" {
		ks.Direction = Backward
		ks.SortOrder = -1
		if c, ok := wafflemongo.DecodeCursor(before); ok {
			ks.Cursor = &c
		}
	} else if after != "" {
		if c, ok := wafflemongo.DecodeCursor(after); ok {
			ks.Cursor = &c
		}
	}
	return ks
}

// LimitPlusOne returns Size+1 for look-ahead pagination
// (fetch one extra document to detect another page).
func (ks Keyset) LimitPlusOne() int64 { return int64(ks.Size + 1) }

// ApplyToFind configures FindOptions with sort and limit.
func (ks Keyset) ApplyToFind(find *options.FindOptions, sortField string) {
	find.SetSort(bson.D{
		{Key: sortField, Value: ks.SortOrder},
		{Key: "_id", Value: ks.SortOrder},
	}).SetLimit(ks.LimitPlusOne())
}

// KeysetWindow returns the cursor condition for the query filter.
// Returns nil if no cursor is set.
func (ks Keyset) KeysetWindow(sortField string) bson.M {
	if ks.Cursor == nil {
		return nil
	}
	dir := "gt"
	if ks.Direction == Backward {
		dir = "lt"
	}
	return wafflemongo.KeysetWindow(sortField, dir, ks.Cursor.CI, ks.Cursor.ID)
}

// Result holds the output of TrimPage for keyset pagination.
type Result struct {
	HasPrev bool
	HasNext bool
}

// TrimPage trims a fetched slice for keyset pagination.
// Call this after fetching Size+1 rows.
//
// When going backwards:
//   - If len > Size, trim the first element (older page exists)
//   - HasNext is always true (we came from somewhere)
//
// When going forwards or on first page:
//   - If len > Size, trim to Size (next page exists)
//   - HasPrev is true only if an "after" cursor was given
func TrimPage[T any](rows *[]T, ks Keyset) Result {
	orig := len(*rows)
	var res Result

	if ks.before != "" {
		if orig > ks.Size {
			*rows = (*rows)[1:]
			res.HasPrev = true
		}
		res.HasNext = true
	} else {
		if orig > ks.Size {
			*rows = (*rows)[:ks.Size]
			res.HasNext = true
		}
		res.HasPrev = ks.after != ""
	}
	return res
}

// Reverse reverses a slice in place. Use this after fetching results
// when paging backwards to restore the correct display order, before
// TrimPage.
func Reverse[T any](rows []T) {
	for i, j := 0, len(rows)-1; i < j; i, j = i+1, j-1 {
		rows[i], rows[j] = rows[j], rows[i]
	}
}

// BuildCursors creates prev/next cursor strings from the first and last elements.
func BuildCursors[T any](rows []T, keyFn func(T) string, idFn func(T) primitive.ObjectID) (prev, next string) {
	if len(rows) == 0 {
		return "", ""
	}
	first := rows[0]
	last := rows[len(rows)-1]
	prev = wafflemongo.EncodeCursor(keyFn(first), idFn(first))
	next = wafflemongo.EncodeCursor(keyFn(last), idFn(last))
	return prev, next
}

// Page is the pagination block returned alongside a list.
type Page struct {
	HasPrev bool   `json:"hasPrev"`
	HasNext bool   `json:"hasNext"`
	Prev    string `json:"prev,omitempty"`
	Next    string `json:"next,omitempty"`
}

// Finish trims, restores display order and builds cursors in one call.
// rows must be the Size+1 look-ahead fetch.
func Finish[T any](rows []T, ks Keyset, keyFn func(T) string, idFn func(T) primitive.ObjectID) ([]T, Page) {
	if ks.Direction == Backward {
		Reverse(rows)
	}
	res := TrimPage(&rows, ks)
	prev, next := BuildCursors(rows, keyFn, idFn)
	p := Page{HasPrev: res.HasPrev, HasNext: res.HasNext}
	if p.HasPrev {
		p.Prev = prev
	}
	if p.HasNext {
		p.Next = next
	}
	return rows, p
}
