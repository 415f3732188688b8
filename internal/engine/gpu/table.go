package gpu

import "github.com/Faultbox/meshview/internal/engine/pipeline"

// ResourceKind returns the binding target each pipeline resource is sampled
// with.
func ResourceKind(r pipeline.Resource) Kind {
	switch r {
	case pipeline.ResSpecular, pipeline.ResDiffuse, pipeline.ResWeightedSpecular:
		return KindCube
	default:
		return Kind2D
	}
}

// Table maps pipeline resources to the textures currently bound to them.
type Table struct {
	textures map[pipeline.Resource]Texture
}

// NewTable creates an empty table.
func NewTable() *Table {
	return &Table{textures: make(map[pipeline.Resource]Texture)}
}

// Set binds t to r and returns the texture it replaces, if any.
func (t *Table) Set(r pipeline.Resource, tex Texture) (prev Texture, replaced bool) {
	prev, replaced = t.textures[r]
	t.textures[r] = tex
	return prev, replaced && prev.ID != tex.ID
}

// Get returns the texture bound to r.
func (t *Table) Get(r pipeline.Resource) (Texture, bool) {
	tex, ok := t.textures[r]
	return tex, ok && tex.Valid()
}

// Drain empties the table and returns what it held.
func (t *Table) Drain() []Texture {
	out := make([]Texture, 0, len(t.textures))
	for r, tex := range t.textures {
		out = append(out, tex)
		delete(t.textures, r)
	}
	return out
}

// Len returns the number of bound resources.
func (t *Table) Len() int {
	return len(t.textures)
}
