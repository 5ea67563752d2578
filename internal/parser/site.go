package parser

import (
	"github.com/PuerkitoBio/goquery"

	"github.com/Beigelman/house-crawler/internal/models"
)

// Site bundles the per-site heuristics of one classifieds source.
type Site interface {
	// Name is the human readable source name used in logs.
	Name() string
	// Domain is the registered domain every detail link must belong to.
	Domain() string
	// ListURL builds the search-results address for params.
	ListURL(params models.SearchParams) string
	// CollectLinks returns the unique, same-domain detail addresses found on a listing page.
	CollectLinks(doc *goquery.Document) []string
	// ExtractRecord derives a Property from a detail page. It does not modify doc.
	ExtractRecord(doc *goquery.Document, link string) models.Property
	// HasListing reports whether doc still shows a listing: the site's own
	// title element has text or its price element holds a price.
	HasListing(doc *goquery.Document) bool
}

// Sites returns both supported sources.
func Sites() []Site {
	return []Site{NewDFImoveis(), NewWimoveis()}
}

// SiteFor picks the site that owns link, or nil.
func SiteFor(sites []Site, link string) Site {
	for _, s := range sites {
		if IsSameDomain(link, s.Domain()) {
			return s
		}
	}
	return nil
}
