package translate

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"golang.org/x/text/language"
)

func TestFrom(t *testing.T) {
	assert := assert.New(t)

	SetLanguage(language.AmericanEnglish)

	assert.Equal("stack overflow", From("stack overflow"))
	assert.Equal("line 3 'LDA' bad", From("line %d '%v' %v", 3, "LDA", "bad"))
	assert.Equal("$0200", From("$%04X", 0x200))
}
