package logging

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew_InfoByDefault(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, Options{NoColor: true})

	log.Debug().Msg("hidden")
	log.Info().Str("path", "report.xml").Msg("loaded")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "loaded")
	assert.Contains(t, out, "path=report.xml")
}

func TestNew_VerboseEnablesDebug(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, Options{Verbose: true, NoColor: true})

	log.Debug().Msg("visible")

	assert.Contains(t, buf.String(), "visible")
}
