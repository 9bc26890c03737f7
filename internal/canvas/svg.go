package canvas

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

const defaultIconSize = 24

var (
	ErrNoSVGRoot = errors.New("markup has no <svg> root element")

	lengthRegex = regexp.MustCompile(`^\s*([0-9]*\.?[0-9]+)\s*(px)?\s*$`)
	rgbRegex    = regexp.MustCompile(`^rgba?\(\s*(\d{1,3})\s*,\s*(\d{1,3})\s*,\s*(\d{1,3})\s*(?:,\s*[0-9.]+\s*)?\)$`)

	namedColors = map[string]string{
		"black":  "#000000",
		"white":  "#ffffff",
		"red":    "#ff0000",
		"green":  "#008000",
		"blue":   "#0000ff",
		"gray":   "#808080",
		"grey":   "#808080",
		"yellow": "#ffff00",
		"orange": "#ffa500",
	}

	shapeTags = map[string]bool{
		"path":     true,
		"rect":     true,
		"circle":   true,
		"ellipse":  true,
		"polygon":  true,
		"polyline": true,
		"line":     true,
	}
)

// paintSpec is the inherited fill or stroke value of an element.
type paintSpec struct {
	value   string
	opacity string
}

type frame struct {
	element *Element
	fill    paintSpec
	stroke  paintSpec
}

// ParseSVG builds a node tree from SVG markup. The root is sized from its
// width and height attributes, falling back to the viewBox.
func ParseSVG(markup string) (*Element, error) {
	decoder := xml.NewDecoder(strings.NewReader(markup))
	decoder.Strict = false
	decoder.AutoClose = xml.HTMLAutoClose
	decoder.Entity = xml.HTMLEntity

	var root *Element
	var stack []frame

	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse svg: %w", err)
		}

		switch t := token.(type) {
		case xml.StartElement:
			attrs := attributes(t)
			tag := strings.ToLower(t.Name.Local)

			if root == nil {
				if tag != "svg" {
					return nil, ErrNoSVGRoot
				}
				width, height := rootSize(attrs)
				root = NewElement("svg", width, height)
				root.fills = explicitPaints(attrs, "fill")
				root.strokes = explicitPaints(attrs, "stroke")
				stack = append(stack, frame{
					element: root,
					fill:    inherit(paintSpec{value: "black"}, attrs, "fill"),
					stroke:  inherit(paintSpec{value: "none"}, attrs, "stroke"),
				})
				continue
			}

			if len(stack) == 0 {
				continue
			}
			parent := stack[len(stack)-1]
			element := NewElement(tag, length(attrs["width"]), length(attrs["height"]))
			element.x, element.y = length(attrs["x"]), length(attrs["y"])
			if id := attrs["id"]; id != "" {
				element.name = id
			}

			fill := inherit(parent.fill, attrs, "fill")
			stroke := inherit(parent.stroke, attrs, "stroke")
			if shapeTags[tag] {
				element.fills = paintsFor(fill)
				element.strokes = paintsFor(stroke)
			} else {
				element.fills = explicitPaints(attrs, "fill")
				element.strokes = explicitPaints(attrs, "stroke")
			}

			parent.element.AppendChild(element)
			stack = append(stack, frame{element: element, fill: fill, stroke: stroke})

		case xml.EndElement:
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		}
	}

	if root == nil {
		return nil, ErrNoSVGRoot
	}
	return root, nil
}

// ParseColor accepts #rgb, #rrggbb, rgb(r, g, b) and a few colour names.
func ParseColor(value string) (colorful.Color, error) {
	value = strings.ToLower(strings.TrimSpace(value))
	if hex, ok := namedColors[value]; ok {
		value = hex
	}
	if value == "currentcolor" {
		value = "#000000"
	}

	if matches := rgbRegex.FindStringSubmatch(value); matches != nil {
		var channels [3]uint8
		for i := range channels {
			n, err := strconv.Atoi(matches[i+1])
			if err != nil || n > 255 {
				return colorful.Color{}, fmt.Errorf("invalid colour %q", value)
			}
			channels[i] = uint8(n)
		}
		return colorful.Color{
			R: float64(channels[0]) / 255,
			G: float64(channels[1]) / 255,
			B: float64(channels[2]) / 255,
		}, nil
	}

	if strings.HasPrefix(value, "#") {
		color, err := colorful.Hex(value)
		if err != nil {
			return colorful.Color{}, fmt.Errorf("invalid colour %q: %w", value, err)
		}
		return color, nil
	}
	return colorful.Color{}, fmt.Errorf("unsupported colour %q", value)
}

func attributes(start xml.StartElement) map[string]string {
	attrs := make(map[string]string, len(start.Attr))
	for _, attr := range start.Attr {
		attrs[strings.ToLower(attr.Name.Local)] = strings.TrimSpace(attr.Value)
	}
	for _, declaration := range strings.Split(attrs["style"], ";") {
		key, value, found := strings.Cut(declaration, ":")
		if !found {
			continue
		}
		attrs[strings.ToLower(strings.TrimSpace(key))] = strings.TrimSpace(value)
	}
	return attrs
}

func inherit(parent paintSpec, attrs map[string]string, property string) paintSpec {
	spec := parent
	if value, ok := attrs[property]; ok && value != "" && value != "inherit" {
		spec.value = value
	}
	if opacity, ok := attrs[property+"-opacity"]; ok {
		spec.opacity = opacity
	}
	return spec
}

func explicitPaints(attrs map[string]string, property string) []Paint {
	value, ok := attrs[property]
	if !ok {
		return nil
	}
	return paintsFor(paintSpec{value: value, opacity: attrs[property+"-opacity"]})
}

func paintsFor(spec paintSpec) []Paint {
	value := strings.TrimSpace(spec.value)
	switch {
	case value == "" || strings.EqualFold(value, "none") || strings.EqualFold(value, "transparent"):
		return nil
	case strings.HasPrefix(strings.ToLower(value), "url("):
		return []Paint{{Type: "GRADIENT", Opacity: opacity(spec.opacity), Visible: true}}
	}

	color, err := ParseColor(value)
	if err != nil {
		return nil
	}
	paint := SolidPaint(color)
	paint.Opacity = opacity(spec.opacity)
	return []Paint{paint}
}

func opacity(value string) float64 {
	if value == "" {
		return 1
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil || parsed < 0 || parsed > 1 {
		return 1
	}
	return parsed
}

func rootSize(attrs map[string]string) (float64, float64) {
	width, height := length(attrs["width"]), length(attrs["height"])
	if width > 0 && height > 0 {
		return width, height
	}

	fields := strings.FieldsFunc(attrs["viewbox"], func(r rune) bool { return r == ' ' || r == ',' })
	if len(fields) == 4 {
		vbWidth, errW := strconv.ParseFloat(fields[2], 64)
		vbHeight, errH := strconv.ParseFloat(fields[3], 64)
		if errW == nil && errH == nil && vbWidth > 0 && vbHeight > 0 {
			switch {
			case width > 0:
				return width, width * vbHeight / vbWidth
			case height > 0:
				return height * vbWidth / vbHeight, height
			default:
				return vbWidth, vbHeight
			}
		}
	}

	if width > 0 {
		return width, width
	}
	if height > 0 {
		return height, height
	}
	return defaultIconSize, defaultIconSize
}

func length(value string) float64 {
	matches := lengthRegex.FindStringSubmatch(value)
	if matches == nil {
		return 0
	}
	parsed, err := strconv.ParseFloat(matches[1], 64)
	if err != nil {
		return 0
	}
	return parsed
}
