package canvas

import (
	"sync"

	"github.com/google/uuid"
)

type container interface {
	Container
	removeChild(node Node)
}

// Element is a node of the in-memory document. Child positions are relative
// to the parent.
type Element struct {
	id       string
	tag      string
	name     string
	x, y     float64
	width    float64
	height   float64
	fills    []Paint
	strokes  []Paint
	props    Properties
	data     map[string]string
	children []Node
	parent   container
}

func NewElement(tag string, width, height float64) *Element {
	return &Element{
		id:     uuid.NewString(),
		tag:    tag,
		name:   tag,
		width:  width,
		height: height,
		props:  DefaultProperties(),
		data:   make(map[string]string),
	}
}

func (e *Element) ID() string          { return e.id }
func (e *Element) Tag() string         { return e.tag }
func (e *Element) Name() string        { return e.name }
func (e *Element) SetName(name string) { e.name = name }
func (e *Element) X() float64          { return e.x }
func (e *Element) Y() float64          { return e.y }
func (e *Element) Width() float64      { return e.width }
func (e *Element) Height() float64     { return e.height }

func (e *Element) SetPosition(x, y float64) {
	e.x, e.y = x, y
}

func (e *Element) Rescale(factor float64) {
	if factor <= 0 {
		return
	}
	e.width *= factor
	e.height *= factor
	for _, child := range e.children {
		child.SetPosition(child.X()*factor, child.Y()*factor)
		child.Rescale(factor)
	}
}

func (e *Element) Fills() []Paint            { return append([]Paint(nil), e.fills...) }
func (e *Element) SetFills(paints []Paint)   { e.fills = append([]Paint(nil), paints...) }
func (e *Element) Strokes() []Paint          { return append([]Paint(nil), e.strokes...) }
func (e *Element) SetStrokes(paints []Paint) { e.strokes = append([]Paint(nil), paints...) }

func (e *Element) Properties() Properties         { return e.props }
func (e *Element) SetProperties(props Properties) { e.props = props }

func (e *Element) PluginData(key string) string {
	return e.data[key]
}

func (e *Element) SetPluginData(key, value string) {
	if value == "" {
		delete(e.data, key)
		return
	}
	e.data[key] = value
}

func (e *Element) Children() []Node {
	return append([]Node(nil), e.children...)
}

func (e *Element) Parent() Container {
	if e.parent == nil {
		return nil
	}
	return e.parent
}

func (e *Element) Remove() {
	if e.parent != nil {
		e.parent.removeChild(e)
	}
}

func (e *Element) AppendChild(node Node) {
	e.InsertChild(len(e.children), node)
}

func (e *Element) InsertChild(index int, node Node) {
	e.children = insertNode(e, index, node)
}

func (e *Element) removeChild(node Node) {
	e.children = removeNode(e.children, node)
}

// Page is the top-level container of a Memory document.
type Page struct {
	mu       sync.Mutex
	children []Node
}

func (p *Page) Children() []Node {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]Node(nil), p.children...)
}

func (p *Page) AppendChild(node Node) {
	p.mu.Lock()
	index := len(p.children)
	p.mu.Unlock()
	p.InsertChild(index, node)
}

func (p *Page) InsertChild(index int, node Node) {
	detach(node)
	p.mu.Lock()
	defer p.mu.Unlock()
	p.children = insertAt(p.children, index, node)
	if element, ok := node.(*Element); ok {
		element.parent = p
	}
}

func (p *Page) removeChild(node Node) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.children = removeNode(p.children, node)
}

// Memory is a Document kept entirely in memory. The CLI and the TUI place
// icons into it and the tests inspect it.
type Memory struct {
	mu        sync.Mutex
	page      *Page
	selection []Node
	centerX   float64
	centerY   float64
	notices   []string
	onNotify  func(string)
}

func NewMemory() *Memory {
	return &Memory{page: &Page{}}
}

func (m *Memory) CreateNodeFromSVG(markup string) (Node, error) {
	root, err := ParseSVG(markup)
	if err != nil {
		return nil, err
	}
	m.page.AppendChild(root)
	return root, nil
}

func (m *Memory) CurrentPage() Container {
	return m.page
}

func (m *Memory) Selection() []Node {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Node(nil), m.selection...)
}

func (m *Memory) SetSelection(nodes []Node) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.selection = append([]Node(nil), nodes...)
}

func (m *Memory) ViewportCenter() (float64, float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.centerX, m.centerY
}

func (m *Memory) SetViewportCenter(x, y float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.centerX, m.centerY = x, y
}

func (m *Memory) Notify(message string) {
	m.mu.Lock()
	m.notices = append(m.notices, message)
	hook := m.onNotify
	m.mu.Unlock()
	if hook != nil {
		hook(message)
	}
}

// OnNotify registers a callback invoked for every notice.
func (m *Memory) OnNotify(hook func(message string)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onNotify = hook
}

func (m *Memory) Notices() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.notices...)
}

// Find returns the page-level node with the given id.
func (m *Memory) Find(id string) (Node, bool) {
	for _, node := range m.page.Children() {
		if node.ID() == id {
			return node, true
		}
	}
	return nil, false
}

func detach(node Node) {
	if element, ok := node.(*Element); ok && element.parent != nil {
		element.parent.removeChild(element)
		element.parent = nil
	}
}

func insertNode(parent *Element, index int, node Node) []Node {
	detach(node)
	if element, ok := node.(*Element); ok {
		element.parent = parent
	}
	return insertAt(parent.children, index, node)
}

func insertAt(children []Node, index int, node Node) []Node {
	if index < 0 {
		index = 0
	}
	if index > len(children) {
		index = len(children)
	}
	children = append(children, nil)
	copy(children[index+1:], children[index:])
	children[index] = node
	return children
}

func removeNode(children []Node, node Node) []Node {
	for i, child := range children {
		if child.ID() == node.ID() {
			if element, ok := child.(*Element); ok {
				element.parent = nil
			}
			return append(children[:i], children[i+1:]...)
		}
	}
	return children
}
