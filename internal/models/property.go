package models

// Property is one listing extracted from a detail page.
//
// Title is nil when the site's title chain found nothing; an empty string
// means the title element exists but holds no text.
type Property struct {
	Title *string `json:"titulo"`
	Price string  `json:"valor"`
	Link  string  `json:"link"`
}

// TitleText returns the title or "" when absent.
func (p Property) TitleText() string {
	if p.Title == nil {
		return ""
	}
	return *p.Title
}

// StringPtr returns a pointer to a copy of s.
func StringPtr(s string) *string {
	return &s
}
