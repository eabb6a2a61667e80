// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package translate formats user visible messages for the host locale.
package translate

import (
	"log"

	"github.com/jeandeaual/go-locale"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Fallback is the language used when the host reports no locale.
var Fallback = language.AmericanEnglish

var printer *message.Printer

func init() {
	printer = message.NewPrinter(Match(hostLocales()...))
}

// hostLocales returns the BCP 47 locale names of the host, in order of preference.
func hostLocales() (locales []string) {
	locales, err := locale.GetLocales()
	if err != nil {
		log.Printf("translate: locale: %v", err)
	}

	return
}

// Match selects the best supported language for the locale names.
func Match(locales ...string) (tag language.Tag) {
	if len(locales) == 0 {
		return Fallback
	}

	tag = message.MatchLanguage(locales...)
	if tag == language.Und {
		tag = Fallback
	}

	return
}

// From an en-US Sprintf() format, translate to string.
func From(key message.Reference, args ...any) string {
	return printer.Sprintf(key, args...)
}
