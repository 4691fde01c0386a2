package editor

// Listener receives selection and layout notifications. Selection events
// carry external ids.
//
// OnAutomaticLayout may be called from a timer goroutine.
type Listener interface {
	OnVertexSelected(id string)
	OnEdgeSelected(id string)
	OnTabSelected(index int)
	OnAutomaticLayout(enabled bool)
}

// NopListener ignores every event.
type NopListener struct{}

func (NopListener) OnVertexSelected(string) {}
func (NopListener) OnEdgeSelected(string)   {}
func (NopListener) OnTabSelected(int)       {}
func (NopListener) OnAutomaticLayout(bool)  {}

// ListenerFuncs adapts plain functions to Listener. Nil fields are skipped.
type ListenerFuncs struct {
	VertexSelected  func(id string)
	EdgeSelected    func(id string)
	TabSelected     func(index int)
	AutomaticLayout func(enabled bool)
}

func (f ListenerFuncs) OnVertexSelected(id string) {
	if f.VertexSelected != nil {
		f.VertexSelected(id)
	}
}

func (f ListenerFuncs) OnEdgeSelected(id string) {
	if f.EdgeSelected != nil {
		f.EdgeSelected(id)
	}
}

func (f ListenerFuncs) OnTabSelected(index int) {
	if f.TabSelected != nil {
		f.TabSelected(index)
	}
}

func (f ListenerFuncs) OnAutomaticLayout(enabled bool) {
	if f.AutomaticLayout != nil {
		f.AutomaticLayout(enabled)
	}
}

// SetListener replaces the listener. Nil installs NopListener.
func (e *Editor) SetListener(l Listener) {
	if l == nil {
		l = NopListener{}
	}
	e.listenerMu.Lock()
	e.listener = l
	e.listenerMu.Unlock()
}

func (e *Editor) currentListener() Listener {
	e.listenerMu.RLock()
	defer e.listenerMu.RUnlock()
	return e.listener
}

// SelectVertex selects a node and notifies the listener. Unknown ids are
// ignored.
func (e *Editor) SelectVertex(id string) bool {
	if _, ok := e.model.GetNode(id); !ok {
		return false
	}
	e.selVertex, e.selEdge = id, ""
	e.currentListener().OnVertexSelected(id)
	return true
}

// SelectEdge selects an edge and notifies the listener. Unknown ids are
// ignored.
func (e *Editor) SelectEdge(id string) bool {
	if _, ok := e.model.GetEdge(id); !ok {
		return false
	}
	e.selVertex, e.selEdge = "", id
	e.currentListener().OnEdgeSelected(id)
	return true
}

// SelectTab forwards a tab switch in the host view to the listener.
func (e *Editor) SelectTab(index int) {
	e.currentListener().OnTabSelected(index)
}

// Selection returns the selected node and edge ids; at most one is set.
func (e *Editor) Selection() (vertexID, edgeID string) { return e.selVertex, e.selEdge }

// ClearSelection deselects everything without notifying.
func (e *Editor) ClearSelection() { e.selVertex, e.selEdge = "", "" }

// DeleteSelected deletes the selected node. Returns false if no node is
// selected.
func (e *Editor) DeleteSelected() bool {
	if e.selVertex == "" {
		return false
	}
	return e.Delete(e.selVertex)
}
