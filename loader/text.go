package loader

import (
	"bytes"
	"context"
	"strings"
	"unicode/utf8"

	"github.com/viant/sovereign/document"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

func loadText(_ context.Context, _ string, data []byte) (*document.Source, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	text := string(data)
	if !utf8.ValidString(text) {
		text = strings.ToValidUTF8(text, "�")
	}
	return &document.Source{Text: text}, nil
}
