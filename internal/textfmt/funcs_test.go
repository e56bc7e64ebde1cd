package textfmt

import (
	"strings"
	"testing"
	"text/template"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTruncate(t *testing.T) {
	assert.Equal(t, "héll", Truncate(4, "héllo"))
	assert.Equal(t, "llo", Truncate(-3, "héllo"))
	assert.Equal(t, "héllo", Truncate(10, "héllo"))
	assert.Equal(t, "", Truncate(0, "héllo"))

	cut := Truncate(60, strings.Repeat("a", 59)+"üü")
	assert.True(t, utf8.ValidString(cut))
	assert.Equal(t, 60, utf8.RuneCountInString(cut))
}

func TestFuncMapKeepsSprig(t *testing.T) {
	tmpl, err := template.New("t").Funcs(FuncMap()).Parse(`{{ "ééé" | truncate 2 }}|{{ list "a" "b" | join "," }}`)
	require.NoError(t, err)

	var out strings.Builder
	require.NoError(t, tmpl.Execute(&out, nil))
	assert.Equal(t, "éé|a,b", out.String())
}
