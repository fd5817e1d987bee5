package schemas

import "time"

// Rect is an axis-aligned rectangle in viewport coordinates.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Edges holds the four sizes of a padding, border or margin.
type Edges struct {
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
	Left   float64 `json:"left"`
}

// ElementGeometry describes the border box of a rendered element.
type ElementGeometry struct {
	// Vertices of the border box, clockwise from the top-left corner, as
	// x1, y1, ..., x4, y4.
	Vertices []float64 `json:"vertices"`
	Width    int64     `json:"width"`
	Height   int64     `json:"height"`
	// TagName is upper case, as the DOM reports it (e.g., "DIV").
	TagName string `json:"tagName"`
	// Type is the layout box type (e.g., "block", "inline-block").
	Type string `json:"type,omitempty"`
}

// BoxReport is the serialised form of a layout box and its descendants.
// The flow cursor used during layout is never part of it.
type BoxReport struct {
	Type      string       `json:"type"`
	Element   string       `json:"element"`
	XPath     string       `json:"xpath,omitempty"`
	Content   Rect         `json:"content"`
	Padding   Edges        `json:"padding"`
	Border    Edges        `json:"border"`
	Margin    Edges        `json:"margin"`
	BorderBox Rect         `json:"border_box"`
	Children  []*BoxReport `json:"children,omitempty"`
}

// PaintCommand is one solid rectangle of a display list.
type PaintCommand struct {
	// Color as normalized RGBA channels.
	Color [4]float64 `json:"color"`
	Rect  Rect       `json:"rect"`
}

// RenderReport is the outcome of rendering one document.
type RenderReport struct {
	JobID       string         `json:"job_id"`
	Name        string         `json:"name"`
	Viewport    Rect           `json:"viewport"`
	RenderedAt  time.Time      `json:"rendered_at"`
	DurationMS  float64        `json:"duration_ms"`
	Layout      *BoxReport     `json:"layout,omitempty"`
	DisplayList []PaintCommand `json:"display_list,omitempty"`
}

// RenderLog is the top-level document written by the JSON reporter.
type RenderLog struct {
	Tool        string          `json:"tool"`
	Version     string          `json:"version"`
	GeneratedAt time.Time       `json:"generated_at"`
	Reports     []*RenderReport `json:"reports"`
}
