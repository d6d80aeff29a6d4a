package manual

import (
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/dmview/internal/core/preview"
)

func TestIsDecorativeLine(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"empty string", "", true},
		{"only spaces", "   ", true},
		{"horizontal rule dashes", "────────", true},
		{"horizontal rule equals", "=======", true},
		{"text content", "Remove wheel", false},
		{"rule with text", "── Steps ──", false},
		{"ansi codes around rule", "\x1b[0m────\x1b[0m", true},
		{"ansi codes around text", "\x1b[31mhello\x1b[0m", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isDecorativeLine(tt.input))
		})
	}
}

func TestStripDecorative(t *testing.T) {
	assert.Equal(t, "hello", stripLeadingDecorative("\n────\nhello"))
	assert.Equal(t, "hello", stripTrailingDecorative("hello\n────\n"))
	assert.Equal(t, "hello\nworld", stripLeadingDecorative("hello\nworld"))
	assert.Equal(t, "", stripTrailingDecorative("────\n───"))
}

func TestMarkdown(t *testing.T) {
	out, err := Markdown("## Steps\n\n1. Remove wheel\n", 60)
	require.NoError(t, err)

	plain := ansi.Strip(out)
	assert.Contains(t, plain, "Steps")
	assert.Contains(t, plain, "Remove wheel")
}

func TestDocument(t *testing.T) {
	m, err := preview.Decode([]byte(`{"kind":"procedure","dmCode":"DMC-BIKE-001","steps":["Remove wheel","Fit tyre"]}`))
	require.NoError(t, err)

	plain := ansi.Strip(Document(m, preview.NewRenderer(), nil, 0))
	assert.Contains(t, plain, "DMC-BIKE-001")
	assert.Contains(t, plain, "Remove wheel")
	assert.Contains(t, plain, "Fit tyre")
}

func TestDocument_NothingSelected(t *testing.T) {
	plain := ansi.Strip(Document(nil, preview.NewRenderer(), nil, 40))
	assert.Contains(t, plain, preview.MsgNothingSelected)
}
