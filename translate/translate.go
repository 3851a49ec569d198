// Package translate formats user-facing messages for the em6502 packages.
package translate

import (
	"log"
	"sync"

	"github.com/jeandeaual/go-locale"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var (
	once    sync.Once
	printer *message.Printer
)

// printerFor returns the message printer, choosing the language from the
// user locale on first use.
func printerFor() *message.Printer {
	once.Do(func() {
		locales, err := locale.GetLocales()
		if err != nil {
			log.Printf("em6502: locale: %v", err)
		}

		if len(locales) == 0 {
			locales = []string{"en-US"}
		}

		printer = message.NewPrinter(message.MatchLanguage(locales...))
	})

	return printer
}

// SetLanguage forces the message language, overriding the user locale.
func SetLanguage(tag language.Tag) {
	printerFor()
	printer = message.NewPrinter(tag)
}

// From an en-US Sprintf() format, translate to string.
func From(key message.Reference, args ...any) string {
	return printerFor().Sprintf(key, args...)
}
