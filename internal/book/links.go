package book

import (
	"fmt"
	"net/url"
)

// PurchaseLinks are retailer links derived from a book's ISBN.
type PurchaseLinks struct {
	Amazon   string `json:"amazon" yaml:"amazon"`
	Bookshop string `json:"bookshop" yaml:"bookshop"`
}

// BuildPurchaseLinks builds links from the record's ISBN-13, falling back to
// ISBN-10. Returns nil when the record has no ISBN.
func BuildPurchaseLinks(r *Record, affiliateTag string) *PurchaseLinks {
	if r == nil {
		return nil
	}

	var isbn string
	switch {
	case r.ISBN13 != nil:
		isbn = *r.ISBN13
	case r.ISBN10 != nil:
		isbn = *r.ISBN10
	default:
		return nil
	}
	isbn = url.PathEscape(isbn)

	links := &PurchaseLinks{
		Amazon:   fmt.Sprintf("https://www.amazon.com/dp/%s", isbn),
		Bookshop: fmt.Sprintf("https://bookshop.org/book/%s", isbn),
	}
	if affiliateTag != "" {
		tag := url.QueryEscape(affiliateTag)
		links.Amazon += "?tag=" + tag
		links.Bookshop = fmt.Sprintf("https://bookshop.org/a/%s/%s", url.PathEscape(affiliateTag), isbn)
	}
	return links
}
