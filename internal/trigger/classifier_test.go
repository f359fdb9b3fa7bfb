package trigger

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify_Bugfix(t *testing.T) {
	c := New(nil)
	assert.Equal(t, "bugfix", c.Classify("Fehler im Checkout beheben"))
}

func TestClassify_CustomerReport(t *testing.T) {
	c := New(nil)
	assert.Equal(t, "kundenmeldung", c.Classify("Support-Ticket zu Login-Problemen bearbeiten"))
}

func TestClassify_NoMatch(t *testing.T) {
	c := New(nil)
	assert.Equal(t, "", c.Classify("API-Routen testen und validieren"))
}

func TestClassify_CustomKeywords(t *testing.T) {
	c := New(&Config{
		Keywords: map[string][]string{
			"deployment": {"deploy", "release"},
		},
	})
	assert.Equal(t, "deployment", c.Classify("Release 2.4 auf Produktion deployen"))
}

func TestClassify_Deterministic(t *testing.T) {
	c := New(nil)
	description := "Kundenticket: Fehler nach Update"
	first := c.Classify(description)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, c.Classify(description))
	}
}
