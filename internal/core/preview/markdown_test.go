package preview

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMarkdown_Header(t *testing.T) {
	m := mustDecode(t, `{"kind":"procedure","dmCode":"DMC-X_1","dmTitle":"Wheel","steps":["s"]}`)

	md := Markdown(m, Render(m), nil)
	assert.Contains(t, md, `# DMC-X\_1`)
	assert.Contains(t, md, "_Wheel_")
	assert.Contains(t, md, "Type: **Procedure**")
	assert.Contains(t, md, "1. s")
}

func TestMarkdown_NothingSelected(t *testing.T) {
	assert.Equal(t, "_"+MsgNothingSelected+"_\n", Markdown(nil, Render(nil), nil))
}

func TestMarkdown_UnknownKind(t *testing.T) {
	m := mustDecode(t, `{"kind":"Schedule"}`)
	md := Markdown(m, Render(m), nil)
	assert.Contains(t, md, MsgNoRenderer)
	assert.Contains(t, md, "`schedule`")
}

func TestMarkdown_UnknownKindWithBackticks(t *testing.T) {
	m := mustDecode(t, "{\"kind\":\"a`b\"}")
	md := Markdown(m, Render(m), nil)
	assert.Contains(t, md, "Kind: ``a`b``")
}

func TestCodeSpan(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"schedule", "`schedule`"},
		{"a`b", "``a`b``"},
		{"a``b`c", "```a``b`c```"},
		{"`x", "`` `x ``"},
		{"x`", "`` x` ``"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, codeSpan(tt.in), tt.in)
	}
}

func TestMarkdown_FigureMedia(t *testing.T) {
	m := mustDecode(t, `{"kind":"description","blocks":[
		{"type":"paragraph","text":"Before"},
		{"type":"figure","title":"Pump","urn":"ICN-PUMP"},
		{"type":"paragraph","text":"After"}
	]}`)
	v := NewRenderer(WithResourceBase("http://csdb")).Render(m)

	tests := []struct {
		name    string
		media   Media
		want    string
		notWant string
	}{
		{
			name:  "loaded",
			media: Media{State: MediaLoaded, Size: 2048, ContentType: "image/png"},
			want:  "![Pump](http://csdb/icn?urn=ICN-PUMP) (image/png, 2.0 kB)",
		},
		{
			name:  "pending",
			media: Media{State: MediaPending},
			want:  "Loading image",
		},
		{
			name:    "failed keeps caption and text",
			media:   Media{State: MediaFailed, Err: errors.New("415")},
			want:    MsgFigureUnavailable,
			notWant: "![Pump]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			md := Markdown(m, v, func(string) (Media, bool) { return tt.media, true })

			assert.Contains(t, md, tt.want)
			assert.Contains(t, md, "**Pump**")
			assert.Contains(t, md, "`ICN-PUMP`")
			assert.Contains(t, md, "Before")
			assert.Contains(t, md, "After")
			if tt.notWant != "" {
				assert.NotContains(t, md, tt.notWant)
			}
		})
	}

	t.Run("no lookup shows the link", func(t *testing.T) {
		md := Markdown(m, v, nil)
		assert.Contains(t, md, "![Pump](http://csdb/icn?urn=ICN-PUMP)")
	})
}

func TestMarkdown_BREXCapNotice(t *testing.T) {
	m := mustDecode(t, brexDoc(201))
	md := Markdown(m, Render(m), nil)
	assert.Contains(t, md, "Showing first 200 of 201 context rules.")
	assert.Contains(t, md, "## Context rules (201)")
}
