package view

import (
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Locale formats dates and numbers for one language.
type Locale struct {
	Tag        language.Tag
	DateLayout string
	printer    *message.Printer
}

var supported = []language.Tag{
	language.AmericanEnglish,
	language.BritishEnglish,
	language.German,
	language.French,
	language.Chinese,
	language.Japanese,
}

// index-aligned with supported
var dateLayouts = []string{
	"1/2/2006",
	"02/01/2006",
	"2.1.2006",
	"02/01/2006",
	"2006/1/2",
	"2006/01/02",
}

var matcher = language.NewMatcher(supported)

// DefaultLocale is used when nothing better matches.
func DefaultLocale() Locale {
	return newLocale(0)
}

// MatchLocale picks the closest supported locale for an Accept-Language header value.
func MatchLocale(acceptLanguage string) Locale {
	if acceptLanguage == "" {
		return DefaultLocale()
	}
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return DefaultLocale()
	}
	_, idx, conf := matcher.Match(tags...)
	if conf == language.No {
		return DefaultLocale()
	}
	return newLocale(idx)
}

func newLocale(idx int) Locale {
	tag := supported[idx]
	return Locale{
		Tag:        tag,
		DateLayout: dateLayouts[idx],
		printer:    message.NewPrinter(tag),
	}
}

// Date formats t as a calendar date in t's own location.
func (l Locale) Date(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	layout := l.DateLayout
	if layout == "" {
		layout = dateLayouts[0]
	}
	return t.Format(layout)
}

// Integer formats n with the locale's digit grouping.
func (l Locale) Integer(n int) string {
	p := l.printer
	if p == nil {
		p = message.NewPrinter(language.AmericanEnglish)
	}
	return p.Sprintf("%d", n)
}
