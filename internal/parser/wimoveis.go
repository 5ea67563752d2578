package parser

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/Beigelman/house-crawler/internal/models"
)

const (
	wimoveisBaseURL = "https://www.wimoveis.com.br"
	wimoveisDomain  = "wimoveis.com.br"

	postingCardSelector = "div.postingCardLayout-module__posting-card-layout"
	postingAttr         = "data-to-posting"

	currencyMarker = "R$"
	saleLabel      = "venda"
)

// wimoveisZones maps neighborhood slugs to the site's location zone ids.
var wimoveisZones = map[string]string{
	"asa-sul":   "42705",
	"asa-norte": "42704",
	"octogonal": "42703",
}

// Wimoveis implements Site for www.wimoveis.com.br.
type Wimoveis struct {
	base *url.URL
}

// NewWimoveis returns the Wimoveis site.
func NewWimoveis() *Wimoveis {
	return &Wimoveis{base: mustParseBase(wimoveisBaseURL)}
}

func (s *Wimoveis) Name() string   { return "Wimoveis" }
func (s *Wimoveis) Domain() string { return wimoveisDomain }

// ListURL builds the search address. Unknown neighborhoods are dropped from
// the zone list.
func (s *Wimoveis) ListURL(p models.SearchParams) string {
	minRoom, maxRoom := 0, 0
	for i, r := range p.NumberOfRooms {
		if i == 0 || r < minRoom {
			minRoom = r
		}
		if i == 0 || r > maxRoom {
			maxRoom = r
		}
	}

	var zones []string
	for _, n := range p.Neighborhoods {
		if z, ok := wimoveisZones[n]; ok {
			zones = append(zones, z)
		}
	}

	elevator := ""
	if p.HasElevator {
		elevator = "areac-elevador"
	}
	garage := "0"
	if p.HasParking {
		garage = "1"
	}

	return fmt.Sprintf(
		"%s/venda/apartamentos/brasil/desde-%d-ate-%d-quartos/%s?areaUnit=1&bathroom=%d&coveredArea=%d,%d&garage=%s&loc=Z:%s&price=%d,%d",
		wimoveisBaseURL, minRoom, maxRoom, elevator,
		p.NumberOfSuites, p.MinArea, p.MaxArea, garage,
		strings.Join(zones, ","), p.MinPrice, p.MaxPrice,
	)
}

// isPropertyURL accepts references that look like detail pages.
func isPropertyURL(href string) bool {
	if href == "" {
		return false
	}
	u := strings.ToLower(href)
	return strings.Contains(u, "/propriedades") ||
		strings.Contains(u, "/apartamento") ||
		strings.Contains(u, "/imovel") ||
		(strings.Contains(u, "/imoveis") && strings.Contains(u, "-venda"))
}

// CollectLinks reads the posting reference straight from each posting card.
func (s *Wimoveis) CollectLinks(doc *goquery.Document) []string {
	links := linkSet{}
	doc.Find(postingCardSelector).Each(func(_ int, card *goquery.Selection) {
		href, ok := card.Attr(postingAttr)
		if !ok || !isPropertyURL(href) {
			return
		}
		if link, ok := resolveLink(s.base, wimoveisDomain, href); ok {
			links.add(link)
		}
	})
	return links.sorted()
}

// ExtractRecord reads h1.title-property and the price-value spans. A missing
// title stays nil.
func (s *Wimoveis) ExtractRecord(doc *goquery.Document, link string) models.Property {
	record := models.Property{Link: link}
	if title, ok := propertyTitle(doc); ok {
		record.Title = models.StringPtr(title)
	}
	if price, ok := priceValue(doc); ok {
		record.Price = price
	}
	return record
}

// HasListing requires a non-blank title or a price in the price spans.
func (s *Wimoveis) HasListing(doc *goquery.Document) bool {
	if title, ok := propertyTitle(doc); ok && strings.TrimSpace(title) != "" {
		return true
	}
	price, _ := priceValue(doc)
	return IsPriceText(price)
}

func propertyTitle(doc *goquery.Document) (string, bool) {
	h1 := doc.Find("h1.title-property").First()
	if h1.Length() == 0 {
		return "", false
	}
	return flatten(h1, ""), true
}

// priceValue returns the first span under div.price-value holding "R$",
// with the inline "venda" label removed.
func priceValue(doc *goquery.Document) (string, bool) {
	container := doc.Find("div.price-value").First()
	if container.Length() == 0 {
		return "", false
	}

	var price string
	found := false
	container.Find("span").EachWithBreak(func(_ int, span *goquery.Selection) bool {
		text := flatten(span, "")
		if !strings.Contains(text, currencyMarker) {
			return true
		}
		price = strings.TrimSpace(strings.ReplaceAll(text, saleLabel, ""))
		found = true
		return false
	})
	return price, found
}
