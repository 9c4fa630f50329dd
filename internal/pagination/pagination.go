// Package pagination implements the latest-first cursor policy shared by
// every listing: rows are ordered by id descending and a cursor is the id of
// the last row the client has seen.
package pagination

import "strings"

// DefaultLimit is the page size used when the client sends none.
const DefaultLimit = 10

// endSentinel is the lowest id a table can hand out. Reaching it means the
// oldest row has been served.
const endSentinel = 1

// Plan is the fetch plan derived from a limit and a cursor.
type Plan struct {
	// Limit is the page size returned to the client.
	Limit int
	// Cursor is the last seen id, 0 on the first page.
	Cursor uint
	// Take is the number of rows to fetch. With a cursor it includes the
	// cursor row itself, which Collect discards.
	Take int
}

// NewPlan builds the plan for limit and cursor. A non positive limit falls
// back to DefaultLimit and a non positive cursor means the first page.
func NewPlan(limit int, cursor int64) Plan {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if cursor <= 0 {
		return Plan{Limit: limit, Take: limit}
	}
	return Plan{Limit: limit, Cursor: uint(cursor), Take: limit + 1}
}

// HasCursor reports whether the storage read must be restricted to
// id <= Cursor.
func (p Plan) HasCursor() bool {
	return p.Cursor > 0
}

// Page is one window of a listing.
type Page[T any] struct {
	Items      []T
	Total      int64
	NextCursor *uint
	Limit      int
}

// HasNextCursor reports whether the client can ask for another page.
func (p Page[T]) HasNextCursor() bool {
	return p.NextCursor != nil
}

// Collect turns the rows fetched for plan into a page. With a cursor the
// leading cursor row is dropped; rows beyond the limit are cut.
func Collect[T any](plan Plan, rows []T, total int64, idOf func(T) uint) Page[T] {
	return collect(plan, rows, total, idOf, true)
}

// CollectAnchored is Collect for listings ordered by something other than
// id, where the cursor only anchors the window and id 1 marks nothing.
func CollectAnchored[T any](plan Plan, rows []T, total int64, idOf func(T) uint) Page[T] {
	return collect(plan, rows, total, idOf, false)
}

func collect[T any](plan Plan, rows []T, total int64, idOf func(T) uint, sentinel bool) Page[T] {
	if plan.HasCursor() && len(rows) > 0 && idOf(rows[0]) == plan.Cursor {
		rows = rows[1:]
	}
	if len(rows) > plan.Limit {
		rows = rows[:plan.Limit]
	}
	if rows == nil {
		rows = []T{}
	}

	page := Page[T]{Items: rows, Total: total, Limit: plan.Limit}
	if len(rows) == 0 || len(rows) < plan.Limit {
		return page
	}
	last := idOf(rows[len(rows)-1])
	if sentinel && last == endSentinel {
		return page
	}
	page.NextCursor = &last
	return page
}

// Map converts the items of a page, keeping its cursor state.
func Map[T, U any](p Page[T], fn func(T) U) Page[U] {
	items := make([]U, len(p.Items))
	for i, item := range p.Items {
		items[i] = fn(item)
	}
	return Page[U]{Items: items, Total: p.Total, NextCursor: p.NextCursor, Limit: p.Limit}
}

// Keys names the envelope fields of one endpoint.
type Keys struct {
	Items   string
	Total   string
	PerPage string
	// OmitHasNext drops hasNextCursor for endpoints that never had it.
	OmitHasNext bool
}

// KeysFor derives the conventional keys for a plural noun such as "events":
// events, totalEvents, eventsPerPage.
func KeysFor(noun string) Keys {
	if noun == "" {
		return Keys{Items: "items", Total: "total", PerPage: "perPage"}
	}
	title := strings.ToUpper(noun[:1]) + noun[1:]
	return Keys{Items: noun, Total: "total" + title, PerPage: noun + "PerPage"}
}

// Envelope renders the page in the JSON shape shared by all listings.
func (p Page[T]) Envelope(k Keys) map[string]any {
	env := map[string]any{
		k.Items:      p.Items,
		k.Total:      p.Total,
		"nextCursor": p.NextCursor,
		k.PerPage:    p.Limit,
	}
	if !k.OmitHasNext {
		env["hasNextCursor"] = p.HasNextCursor()
	}
	return env
}
