package paging

import (
	"net/http/httptest"
	"testing"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestParseLimit(t *testing.T) {
	tests := []struct {
		url  string
		want int
	}{
		{"/members", PageSize},
		{"/members?limit=10", 10},
		{"/members?limit=0", PageSize},
		{"/members?limit=abc", PageSize},
		{"/members?limit=1000", MaxPageSize},
	}
	for _, tt := range tests {
		r := httptest.NewRequest("GET", tt.url, nil)
		if got := ParseLimit(r); got != tt.want {
			t.Errorf("ParseLimit(%q) = %d, want %d", tt.url, got, tt.want)
		}
	}
}

func TestConfigureKeyset(t *testing.T) {
	tests := []struct {
		name      string
		before    string
		after     string
		size      int
		wantDir   Direction
		wantOrder int
		wantSize  int
	}{
		{"no cursors (first page)", "", "", 0, Forward, 1, PageSize},
		{"after cursor (forward)", "", "somecursor", 10, Forward, 1, 10},
		{"before cursor (backward)", "somecursor", "", 10, Backward, -1, 10},
		{"both cursors (before takes precedence)", "b", "a", 10, Backward, -1, 10},
		{"oversized", "", "", 500, Forward, 1, MaxPageSize},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ConfigureKeyset(tt.before, tt.after, tt.size)
			if got.Direction != tt.wantDir {
				t.Errorf("Direction = %v, want %v", got.Direction, tt.wantDir)
			}
			if got.SortOrder != tt.wantOrder {
				t.Errorf("SortOrder = %v, want %v", got.SortOrder, tt.wantOrder)
			}
			if got.Size != tt.wantSize {
				t.Errorf("Size = %v, want %v", got.Size, tt.wantSize)
			}
			if got.LimitPlusOne() != int64(tt.wantSize+1) {
				t.Errorf("LimitPlusOne = %d", got.LimitPlusOne())
			}
		})
	}
}

func TestConfigureKeyset_DecodesCursor(t *testing.T) {
	id := primitive.NewObjectID()
	cur := wafflemongo.EncodeCursor("alice", id)

	ks := ConfigureKeyset("", cur, 5)
	if ks.Cursor == nil {
		t.Fatal("expected decoded cursor")
	}
	if ks.Cursor.ID != id {
		t.Errorf("cursor id = %v, want %v", ks.Cursor.ID, id)
	}
	if ks.KeysetWindow("username") == nil {
		t.Error("expected a keyset window")
	}

	if ConfigureKeyset("", "", 5).KeysetWindow("username") != nil {
		t.Error("first page should have no window")
	}
}

func TestTrimPage(t *testing.T) {
	tests := []struct {
		name       string
		rows       int
		before     string
		after      string
		wantRows   int
		wantResult Result
	}{
		{"first page with no extra", 3, "", "", 3, Result{}},
		{"first page with extra (has next)", 6, "", "", 5, Result{HasNext: true}},
		{"forward page with extra", 6, "", "c", 5, Result{HasPrev: true, HasNext: true}},
		{"forward page without extra", 3, "", "c", 3, Result{HasPrev: true}},
		{"backward page with extra", 6, "c", "", 5, Result{HasPrev: true, HasNext: true}},
		{"backward page without extra", 3, "c", "", 3, Result{HasNext: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows := make([]int, tt.rows)
			for i := range rows {
				rows[i] = i
			}
			ks := ConfigureKeyset(tt.before, tt.after, 5)
			got := TrimPage(&rows, ks)
			if len(rows) != tt.wantRows {
				t.Errorf("len(rows) = %d, want %d", len(rows), tt.wantRows)
			}
			if got != tt.wantResult {
				t.Errorf("TrimPage() = %+v, want %+v", got, tt.wantResult)
			}
			if tt.before != "" && tt.rows > 5 && rows[0] != 1 {
				t.Errorf("backward trim should drop the first row, got %v", rows)
			}
		})
	}
}

func TestReverse(t *testing.T) {
	tests := []struct {
		name  string
		input []int
		want  []int
	}{
		{"empty", []int{}, []int{}},
		{"single", []int{1}, []int{1}},
		{"two", []int{1, 2}, []int{2, 1}},
		{"three", []int{1, 2, 3}, []int{3, 2, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows := append([]int(nil), tt.input...)
			Reverse(rows)
			for i, v := range rows {
				if v != tt.want[i] {
					t.Errorf("Reverse() got %v, want %v", rows, tt.want)
					break
				}
			}
		})
	}
}

type item struct {
	Key string
	ID  primitive.ObjectID
}

func itemKey(i item) string            { return i.Key }
func itemID(i item) primitive.ObjectID { return i.ID }

func TestBuildCursors(t *testing.T) {
	prev, next := BuildCursors([]item{}, itemKey, itemID)
	if prev != "" || next != "" {
		t.Errorf("BuildCursors(empty) = (%q, %q)", prev, next)
	}

	one := []item{{Key: "a", ID: primitive.NewObjectID()}}
	prev, next = BuildCursors(one, itemKey, itemID)
	if prev == "" || prev != next {
		t.Errorf("single row cursors should be equal and non-empty: %q %q", prev, next)
	}
}

func TestFinish(t *testing.T) {
	rows := make([]item, 0, 4)
	for _, k := range []string{"a", "b", "c", "d"} {
		rows = append(rows, item{Key: k, ID: primitive.NewObjectID()})
	}

	// First page of 3 with one look-ahead row.
	out, page := Finish(rows, ConfigureKeyset("", "", 3), itemKey, itemID)
	if len(out) != 3 || out[2].Key != "c" {
		t.Fatalf("unexpected rows %+v", out)
	}
	if !page.HasNext || page.HasPrev || page.Next == "" || page.Prev != "" {
		t.Errorf("unexpected page %+v", page)
	}

	// Backward fetch arrives in descending order and is restored.
	desc := []item{rows[2], rows[1], rows[0]}
	out, page = Finish(desc, ConfigureKeyset(page.Next, "", 3), itemKey, itemID)
	if out[0].Key != "a" || out[2].Key != "c" {
		t.Errorf("backward page not restored to ascending: %+v", out)
	}
	if !page.HasNext || page.HasPrev {
		t.Errorf("unexpected page %+v", page)
	}

	// A backward look-ahead row is the oldest one and is dropped.
	desc = []item{rows[3], rows[2], rows[1], rows[0]}
	out, page = Finish(desc, ConfigureKeyset("x", "", 3), itemKey, itemID)
	if len(out) != 3 || out[0].Key != "b" || out[2].Key != "d" {
		t.Errorf("unexpected backward rows %+v", out)
	}
	if !page.HasPrev || page.Prev == "" {
		t.Errorf("unexpected page %+v", page)
	}
}
