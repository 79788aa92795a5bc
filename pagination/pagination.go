// Package pagination tracks the current page of a catalog query and the
// ceiling reported by the last response.
package pagination

import "sync"

// MaxPages is the upstream ceiling for page numbers, regardless of the
// total it reports.
const MaxPages = 500

// DefaultWindow is the number of page links shown at once.
const DefaultWindow = 5

// Controller owns the page state of a single query stream. It is safe for
// concurrent use.
type Controller struct {
	mu         sync.RWMutex
	page       int
	totalPages int
}

// New returns a controller on page 1 with no known total.
func New() *Controller {
	return &Controller{page: 1}
}

// SetQuery resets the controller for a new query. The previous total is
// dropped until the new query resolves.
func (c *Controller) SetQuery() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.page = 1
	c.totalPages = 0
}

// SetTotalPages records the total reported by a successful response and
// pulls the current page back into range.
func (c *Controller) SetTotalPages(total int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.totalPages = max(total, 0)
	if limit := c.limitLocked(); limit > 0 && c.page > limit {
		c.page = limit
	}
}

// GoTo moves to page n clamped into [1, Limit()]. It returns the resulting
// page and false when the controller is inert because no total is known yet.
func (c *Controller) GoTo(n int) (int, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.goToLocked(n)
}

// Next advances one page.
func (c *Controller) Next() (int, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.goToLocked(c.page + 1)
}

// Prev goes back one page.
func (c *Controller) Prev() (int, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.goToLocked(c.page - 1)
}

func (c *Controller) goToLocked(n int) (int, bool) {
	limit := c.limitLocked()
	if limit == 0 {
		return c.page, false
	}
	c.page = Clamp(n, limit)
	return c.page, true
}

// Page returns the current page, always >= 1.
func (c *Controller) Page() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.page
}

// TotalPages returns the total reported by the last response, 0 if unknown.
func (c *Controller) TotalPages() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.totalPages
}

// Limit returns the last reachable page, min(TotalPages, MaxPages).
func (c *Controller) Limit() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.limitLocked()
}

// HasNext reports whether Next would move.
func (c *Controller) HasNext() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.page < c.limitLocked()
}

// HasPrev reports whether Prev would move.
func (c *Controller) HasPrev() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.page > 1 && c.limitLocked() > 0
}

// Window returns up to size consecutive page numbers around the current
// page, shifted so it never leaves [1, Limit()].
func (c *Controller) Window(size int) []int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return Window(c.page, c.limitLocked(), size)
}

func (c *Controller) limitLocked() int {
	return min(c.totalPages, MaxPages)
}

// Clamp constrains n into [1, limit]. A limit below 1 yields 1.
func Clamp(n, limit int) int {
	return max(1, min(n, limit))
}

// Window computes the visible page numbers for page within [1, limit].
func Window(page, limit, size int) []int {
	if limit <= 0 || size <= 0 {
		return []int{}
	}
	size = min(size, limit)
	page = Clamp(page, limit)

	start := max(1, page-size/2)
	end := start + size - 1
	if end > limit {
		end = limit
		start = end - size + 1
	}

	pages := make([]int, 0, size)
	for p := start; p <= end; p++ {
		pages = append(pages, p)
	}
	return pages
}
