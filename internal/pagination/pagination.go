// Package pagination turns page numbers into offset/limit windows and
// server-reported totals into page indexes.
package pagination

// Page sizes follow the viewport class measured once at mount.
const (
	DesktopPageSize = 5
	MobilePageSize  = 10
)

// Policy maps a viewport width to a page size.
type Policy struct {
	Breakpoint int // widths strictly above this are desktop
	Desktop    int
	Mobile     int
}

// BrowserPolicy measures width in pixels.
var BrowserPolicy = Policy{Breakpoint: 720, Desktop: DesktopPageSize, Mobile: MobilePageSize}

// TerminalPolicy measures width in terminal columns.
var TerminalPolicy = Policy{Breakpoint: 100, Desktop: DesktopPageSize, Mobile: MobilePageSize}

// PageSize returns the page size for width. It is meant to be called once
// per session; resizing never changes the pagination math mid-session.
func (p Policy) PageSize(width int) int {
	if width > p.Breakpoint {
		return p.Desktop
	}
	return p.Mobile
}

// Offset returns the index of the first record of page. Pages below 1 are
// treated as page 1.
func Offset(page, pageSize int) int {
	if page < 1 {
		page = 1
	}
	return (page - 1) * pageSize
}

// TotalPages returns ceil(total/pageSize), or 0 when either is not positive.
func TotalPages(total, pageSize int) int {
	if total <= 0 || pageSize <= 0 {
		return 0
	}
	return (total + pageSize - 1) / pageSize
}

// Sequence returns [1..TotalPages(total, pageSize)]. It is empty when the
// total is zero or not yet known (negative).
func Sequence(total, pageSize int) []int {
	n := TotalPages(total, pageSize)
	pages := make([]int, n)
	for i := range pages {
		pages[i] = i + 1
	}
	return pages
}
