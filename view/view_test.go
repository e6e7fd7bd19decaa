package view

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatDate(t *testing.T) {
	assert.Equal(t, "02/03/2025", FormatDate("2025-03-02"))
	assert.Equal(t, "N/A", FormatDate(""))
	assert.Equal(t, "N/A", FormatDate("02/03/2025"))
}

func TestFormatTime(t *testing.T) {
	assert.Equal(t, "31/12/2024", FormatTime(time.Date(2024, 12, 31, 23, 0, 0, 0, time.UTC)))
}

func TestTemplatesParse(t *testing.T) {
	once.Do(parse)
	require.NoError(t, tplErr)
	for _, name := range []string{"invoice.html", "receipt.html", "letterhead", "footer", "signature"} {
		assert.NotNil(t, tpl.Lookup(name), name)
	}
}

func TestExecuteUnknownTemplate(t *testing.T) {
	_, err := Execute("quote.html", nil)
	assert.Error(t, err)
}
