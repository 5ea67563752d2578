package parser

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/Beigelman/house-crawler/internal/models"
)

const (
	dfImoveisBaseURL = "https://www.dfimoveis.com.br"
	dfImoveisDomain  = "dfimoveis.com.br"

	// detail pages live under this path segment
	dfImoveisDetailMarker = "/imovel/"

	descriptionMarker = "descri"
	descriptionBudget = 1200
	summaryLimit      = 2000
)

// DFImoveis implements Site for www.dfimoveis.com.br.
type DFImoveis struct {
	base *url.URL
}

// NewDFImoveis returns the DF Imóveis site.
func NewDFImoveis() *DFImoveis {
	return &DFImoveis{base: mustParseBase(dfImoveisBaseURL)}
}

func (s *DFImoveis) Name() string   { return "DF Imóveis" }
func (s *DFImoveis) Domain() string { return dfImoveisDomain }

// ListURL builds the search address, e.g.
// /venda/df/brasilia/asa-norte,asa-sul/imoveis/3,4-quartos?suites=1&vagasdegaragem=1&...
func (s *DFImoveis) ListURL(p models.SearchParams) string {
	rooms := make([]string, len(p.NumberOfRooms))
	for i, r := range p.NumberOfRooms {
		rooms[i] = fmt.Sprint(r)
	}
	parking := "0"
	if p.HasParking {
		parking = "1"
	}
	return fmt.Sprintf(
		"%s/venda/df/brasilia/%s/imoveis/%s-quartos?suites=%d&vagasdegaragem=%s&valorinicial=%d&valorfinal=%d&areainicial=%d&areafinal=%d",
		dfImoveisBaseURL,
		strings.Join(p.Neighborhoods, ","),
		strings.Join(rooms, ","),
		p.NumberOfSuites, parking, p.MinPrice, p.MaxPrice, p.MinArea, p.MaxArea,
	)
}

// CollectLinks scans every anchor whose href contains the detail path marker.
func (s *DFImoveis) CollectLinks(doc *goquery.Document) []string {
	links := linkSet{}
	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		if !strings.Contains(href, dfImoveisDetailMarker) {
			return
		}
		if link, ok := resolveLink(s.base, dfImoveisDomain, href); ok {
			links.add(link)
		}
	})
	return links.sorted()
}

// ExtractRecord reads the description and the sale price.
func (s *DFImoveis) ExtractRecord(doc *goquery.Document, link string) models.Property {
	title, _ := firstOf(doc, titleHeadline, descriptionSection, pageSummary)

	price := ""
	if p, ok := salePrice(doc); ok {
		price = p
	}

	return models.Property{
		Title: models.StringPtr(title),
		Price: price,
		Link:  link,
	}
}

// HasListing ignores the description and summary fallbacks, which succeed on
// any page with text.
func (s *DFImoveis) HasListing(doc *goquery.Document) bool {
	if _, ok := titleHeadline(doc); ok {
		return true
	}
	price, _ := salePrice(doc)
	return IsPriceText(price)
}

// titleHeadline takes the first h2 inside the first div.imovel-title.
func titleHeadline(doc *goquery.Document) (string, bool) {
	h2 := doc.Find("div.imovel-title").First().Find("h2").First()
	if h2.Length() == 0 {
		return "", false
	}
	text := flatten(h2, " ")
	return text, text != ""
}

func isSectionHeading(n *html.Node) bool {
	if n.Type != html.ElementNode {
		return false
	}
	switch n.Data {
	case "h2", "h3", "h4":
		return true
	}
	return false
}

// descriptionSection finds the first h2-h4 mentioning "descri" and joins the
// text of its following siblings up to the next heading or the character budget.
func descriptionSection(doc *goquery.Document) (string, bool) {
	var heading *html.Node
	doc.Find("h2, h3, h4").EachWithBreak(func(_ int, h *goquery.Selection) bool {
		if strings.Contains(strings.ToLower(flatten(h, "")), descriptionMarker) {
			heading = h.Nodes[0]
			return false
		}
		return true
	})
	if heading == nil {
		return "", false
	}

	var texts []string
	for sib := heading.NextSibling; sib != nil; sib = sib.NextSibling {
		if isSectionHeading(sib) {
			break
		}
		if sib.Type != html.ElementNode && sib.Type != html.TextNode {
			continue
		}
		if txt := nodeText(sib, ""); txt != "" {
			texts = append(texts, txt)
		}
		if runeLen(strings.Join(texts, " ")) > descriptionBudget {
			break
		}
	}
	if len(texts) == 0 {
		return "", false
	}
	return strings.Join(texts, " "), true
}

// pageSummary is the last resort: first h1/h2, first h3/p and the main region
// (or the whole page when main is absent or empty), collapsed and cut to
// summaryLimit characters.
func pageSummary(doc *goquery.Document) (string, bool) {
	var pieces []string
	if title := doc.Find("h1, h2").First(); title.Length() > 0 {
		pieces = append(pieces, flatten(title, " "))
	}
	if sub := doc.Find("h3, p").First(); sub.Length() > 0 {
		pieces = append(pieces, flatten(sub, " "))
	}
	chunk := flatten(doc.Find("main").First(), " ")
	if chunk == "" {
		chunk = flatten(doc.Selection, " ")
	}
	if chunk != "" {
		pieces = append(pieces, chunk)
	}

	flat := collapseWhitespace(strings.Join(pieces, " "))
	return truncateRunes(flat, summaryLimit), true
}

// salePrice returns the text of h4.precoAntigoSalao verbatim, empty included.
func salePrice(doc *goquery.Document) (string, bool) {
	h4 := doc.Find("h4.precoAntigoSalao").First()
	if h4.Length() == 0 {
		return "", false
	}
	return flatten(h4, " "), true
}
