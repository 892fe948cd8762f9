package entity

// Token is one word (or merged line) of text with its bounding box on a page, in points.
type Token struct {
	Text   string
	Page   int
	Block  int
	Line   int // line sequence number, words sharing it were printed on one line
	Word   int
	Left   float64
	Top    float64
	Width  float64
	Height float64
}

func (t Token) Right() float64  { return t.Left + t.Width }
func (t Token) Bottom() float64 { return t.Top + t.Height }

// Region is an axis-aligned rectangle on a page, bounds exclusive.
type Region struct {
	MinX, MaxX float64
	MinY, MaxY float64
}

// ContainsOrigin reports whether the token's top-left corner lies strictly inside r.
func (r Region) ContainsOrigin(t Token) bool {
	return t.Left > r.MinX && t.Left < r.MaxX && t.Top > r.MinY && t.Top < r.MaxY
}

// RGB is one rendered pixel.
type RGB struct {
	R, G, B uint8
}

// PixelSample is a small raster region rendered from one page, row-major.
type PixelSample struct {
	Width  int
	Height int
	Pixels []RGB
}

// Every reports whether pred holds for every pixel; an empty sample never matches.
func (p PixelSample) Every(pred func(RGB) bool) bool {
	if len(p.Pixels) == 0 {
		return false
	}
	for _, px := range p.Pixels {
		if !pred(px) {
			return false
		}
	}
	return true
}
