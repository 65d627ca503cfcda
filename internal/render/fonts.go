package render

import (
	"fmt"

	"github.com/gogpu/gg/text"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

type fontSet struct {
	bold    *text.FontSource
	regular *text.FontSource
}

func loadFonts() (*fontSet, error) {
	bold, err := text.NewFontSource(gobold.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse bold font: %w", err)
	}
	regular, err := text.NewFontSource(goregular.TTF)
	if err != nil {
		_ = bold.Close()
		return nil, fmt.Errorf("parse regular font: %w", err)
	}
	return &fontSet{bold: bold, regular: regular}, nil
}

func (f *fontSet) Close() error {
	if err := f.bold.Close(); err != nil {
		return err
	}
	return f.regular.Close()
}
