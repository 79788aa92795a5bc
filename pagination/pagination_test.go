package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGoToClamps(t *testing.T) {
	tests := []struct {
		name  string
		total int
		n     int
		want  int
	}{
		{"below range", 10, -3, 1},
		{"zero", 10, 0, 1},
		{"in range", 10, 4, 4},
		{"above total", 10, 11, 10},
		{"above hard cap", 12000, 900, MaxPages},
		{"at hard cap", 12000, MaxPages, MaxPages},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New()
			c.SetTotalPages(tt.total)
			got, ok := c.GoTo(tt.n)
			assert.True(t, ok)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.want, c.Page())
		})
	}
}

func TestGoToRangeProperty(t *testing.T) {
	for _, total := range []int{1, 2, 7, 499, 500, 501, 40000} {
		c := New()
		c.SetTotalPages(total)
		for n := -5; n <= 1000; n += 7 {
			got, ok := c.GoTo(n)
			assert.True(t, ok)
			assert.GreaterOrEqual(t, got, 1)
			assert.LessOrEqual(t, got, min(total, MaxPages))
		}
	}
}

func TestInertWithoutTotal(t *testing.T) {
	c := New()

	page, ok := c.GoTo(7)
	assert.False(t, ok)
	assert.Equal(t, 1, page)

	_, ok = c.Next()
	assert.False(t, ok)
	assert.False(t, c.HasNext())
	assert.False(t, c.HasPrev())
	assert.Empty(t, c.Window(DefaultWindow))
}

func TestSetQueryResets(t *testing.T) {
	c := New()
	c.SetTotalPages(30)
	c.GoTo(12)

	c.SetQuery()

	assert.Equal(t, 1, c.Page())
	assert.Zero(t, c.TotalPages())
	_, ok := c.GoTo(2)
	assert.False(t, ok)
}

func TestSetTotalPagesPullsPageBack(t *testing.T) {
	c := New()
	c.SetTotalPages(30)
	c.GoTo(25)

	c.SetTotalPages(8)
	assert.Equal(t, 8, c.Page())
}

func TestNextPrev(t *testing.T) {
	c := New()
	c.SetTotalPages(3)

	assert.True(t, c.HasNext())
	assert.False(t, c.HasPrev())

	page, _ := c.Next()
	assert.Equal(t, 2, page)
	page, _ = c.Next()
	assert.Equal(t, 3, page)
	page, _ = c.Next()
	assert.Equal(t, 3, page)
	assert.False(t, c.HasNext())

	page, _ = c.Prev()
	assert.Equal(t, 2, page)
	assert.True(t, c.HasPrev())
}

func TestWindow(t *testing.T) {
	tests := []struct {
		name  string
		page  int
		limit int
		size  int
		want  []int
	}{
		{"fewer pages than size", 2, 3, 5, []int{1, 2, 3}},
		{"start edge", 1, 20, 5, []int{1, 2, 3, 4, 5}},
		{"near start", 3, 20, 5, []int{1, 2, 3, 4, 5}},
		{"middle", 10, 20, 5, []int{8, 9, 10, 11, 12}},
		{"near end", 19, 20, 5, []int{16, 17, 18, 19, 20}},
		{"end edge", 20, 20, 5, []int{16, 17, 18, 19, 20}},
		{"no pages", 1, 0, 5, []int{}},
		{"zero size", 4, 20, 0, []int{}},
		{"page out of range", 99, 20, 5, []int{16, 17, 18, 19, 20}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Window(tt.page, tt.limit, tt.size))
		})
	}
}

func TestControllerWindowUsesHardCap(t *testing.T) {
	c := New()
	c.SetTotalPages(1000)
	c.GoTo(1000)

	assert.Equal(t, []int{496, 497, 498, 499, 500}, c.Window(DefaultWindow))
}
