package render

import (
	"fmt"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// FontLabels measures labels with the Go fonts.
type FontLabels struct {
	regular *opentype.Font
	bold    *opentype.Font

	mu    sync.Mutex
	faces map[Font]font.Face
}

// NewFontLabels parses the embedded Go regular and bold faces.
func NewFontLabels() (*FontLabels, error) {
	regular, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("failed to parse regular font: %w", err)
	}
	bold, err := opentype.Parse(gobold.TTF)
	if err != nil {
		return nil, fmt.Errorf("failed to parse bold font: %w", err)
	}
	return &FontLabels{regular: regular, bold: bold, faces: make(map[Font]font.Face)}, nil
}

// RenderLabel implements LabelRenderer. An empty text renders as a single
// space so the label always has a height.
func (fl *FontLabels) RenderLabel(text string, f Font) Label {
	if text == "" {
		text = " "
	}
	face, err := fl.face(f)
	if err != nil {
		return MonoLabels{}.RenderLabel(text, f)
	}
	m := face.Metrics()
	return Label{
		Text:   text,
		Font:   f,
		Width:  float64(font.MeasureString(face, text).Ceil()),
		Height: float64((m.Ascent + m.Descent).Ceil()),
	}
}

func (fl *FontLabels) face(f Font) (font.Face, error) {
	fl.mu.Lock()
	defer fl.mu.Unlock()

	if face, ok := fl.faces[f]; ok {
		return face, nil
	}
	src := fl.regular
	if f.Bold {
		src = fl.bold
	}
	face, err := opentype.NewFace(src, &opentype.FaceOptions{
		Size:    f.Size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create face %s %.0f: %w", f.Name, f.Size, err)
	}
	fl.faces[f] = face
	return face, nil
}
