// Package pagination clamps page numbers and builds navigation links that
// keep every other query parameter intact.
package pagination

import (
	"net/url"
	"strconv"
)

// Page describes one page of a result set.
type Page struct {
	Number     int
	Size       int
	Total      int64
	TotalPages int
}

// New resolves the requested page against a result of total items. A missing
// or non-numeric request means page 1, anything below 1 clamps to 1 and
// anything past the end clamps to the last page. An empty result still has
// one (empty) page.
func New(requested string, total int64, size int) Page {
	if size < 1 {
		size = 1
	}
	pages := int((total + int64(size) - 1) / int64(size))
	if pages < 1 {
		pages = 1
	}

	number, err := strconv.Atoi(requested)
	if err != nil || number < 1 {
		number = 1
	}
	if number > pages {
		number = pages
	}

	return Page{Number: number, Size: size, Total: total, TotalPages: pages}
}

// Offset is the index of the first item on the page.
func (p Page) Offset() int {
	return (p.Number - 1) * p.Size
}

func (p Page) HasPrevious() bool {
	return p.Number > 1
}

func (p Page) HasNext() bool {
	return p.Number < p.TotalPages
}

// StartIndex is the 1-based position of the first item shown, 0 when empty.
func (p Page) StartIndex() int64 {
	if p.Total == 0 {
		return 0
	}
	return int64(p.Offset()) + 1
}

// EndIndex is the 1-based position of the last item shown.
func (p Page) EndIndex() int64 {
	end := int64(p.Offset() + p.Size)
	if end > p.Total {
		return p.Total
	}
	return end
}

// Links holds the navigation URLs; a link is empty when that page does not exist.
type Links struct {
	First    string
	Previous string
	Next     string
	Last     string
}

// NewLinks builds links from u that only differ from it in param.
func NewLinks(u *url.URL, p Page, param string) Links {
	var links Links
	if p.HasPrevious() {
		links.First = pageURL(u, param, 1)
		links.Previous = pageURL(u, param, p.Number-1)
	}
	if p.HasNext() {
		links.Next = pageURL(u, param, p.Number+1)
		links.Last = pageURL(u, param, p.TotalPages)
	}
	return links
}

func pageURL(u *url.URL, param string, number int) string {
	query := u.Query()
	query.Set(param, strconv.Itoa(number))
	out := *u
	out.RawQuery = query.Encode()
	out.Fragment = ""
	return out.String()
}
