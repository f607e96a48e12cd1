package evehtml

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToPlain(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"line breaks", "first<br>second", "first\nsecond"},
		{"font tags", `<font size="12" color="#bfffffff">Welcome</font> aboard`, "Welcome aboard"},
		{"entities", "Fish &amp; Chips", "Fish & Chips"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ToPlain(tt.in))
		})
	}
}

func TestToMarkdown(t *testing.T) {
	got := ToMarkdown(`<b>Hi</b> <a href="showinfo:1376//90000001">Alice</a>`)

	assert.Contains(t, got, "**Hi**")
	assert.Contains(t, got, "[Alice](https://zkillboard.com/character/90000001/)")
}

func TestRewriteLink(t *testing.T) {
	tests := []struct {
		href string
		want string
	}{
		{"showinfo:2//98000001", "https://zkillboard.com/corporation/98000001/"},
		{"showinfo:16159//99000001", "https://zkillboard.com/alliance/99000001/"},
		{"showinfo:587//1234", "#"},
		{"killreport:123:abc", "#"},
		{"fitting:587:2048;1::", "#"},
		{"https://example.com/", "https://example.com/"},
	}
	for _, tt := range tests {
		t.Run(tt.href, func(t *testing.T) {
			assert.Equal(t, tt.want, rewriteLink(tt.href))
		})
	}
}
