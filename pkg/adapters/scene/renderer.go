// Package scene renders gizmos into a glTF scene that any 3D viewer can open.
//
// Each view (matched, unmatched, space) becomes a parent node; every pose is
// a child node carrying the gizmo mesh of its color, placed with the pose's
// translation and look rotation. The source matrix is kept in the node extras.
package scene

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/aretw0/posematch/pkg/domain"
	"github.com/aretw0/posematch/pkg/gizmo"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

// Renderer implements ports.CategoryRenderer on a glTF document.
// It is not safe for concurrent use.
type Renderer struct {
	doc     *gltf.Document
	parent  *uint32
	meshes  map[domain.Color]uint32
	counter map[domain.Category]int
	current domain.Category
}

// NewRenderer creates a renderer with an empty scene.
func NewRenderer() *Renderer {
	return &Renderer{
		doc:     gltf.NewDocument(),
		meshes:  make(map[domain.Color]uint32),
		counter: make(map[domain.Category]int),
	}
}

// Document exposes the scene built so far.
func (r *Renderer) Document() *gltf.Document {
	return r.doc
}

// BeginCategory opens a parent node for the view.
func (r *Renderer) BeginCategory(ctx context.Context, category domain.Category) error {
	idx := r.addNode(&gltf.Node{
		Name:     string(category),
		Rotation: [4]float32{0, 0, 0, 1},
		Scale:    [3]float32{1, 1, 1},
	}, nil)
	r.parent = gltf.Index(idx)
	r.current = category
	return nil
}

// DrawPose adds one gizmo node.
func (r *Renderer) DrawPose(ctx context.Context, t domain.Transform, c domain.Color) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	pose := gizmo.PoseOf(t)
	q := pose.Rotation()
	name := fmt.Sprintf("pose-%d", r.counter[r.current])
	if r.current != "" {
		name = fmt.Sprintf("%s-%d", r.current, r.counter[r.current])
	}
	r.counter[r.current]++

	r.addNode(&gltf.Node{
		Name:        name,
		Mesh:        gltf.Index(r.meshFor(c)),
		Translation: [3]float32(pose.Position),
		Rotation:    [4]float32{q.V[0], q.V[1], q.V[2], q.W},
		Scale:       [3]float32{1, 1, 1},
		Extras:      map[string]any{"matrix": t.Rows()},
	}, r.parent)
	return nil
}

// Encode writes the scene as JSON glTF, or as GLB when binary is set.
func (r *Renderer) Encode(w io.Writer, binary bool) error {
	encoder := gltf.NewEncoder(w)
	encoder.AsBinary = binary
	if err := encoder.Encode(r.doc); err != nil {
		return fmt.Errorf("failed to encode gltf: %w", err)
	}
	return nil
}

// Save writes the scene to path; a .glb extension selects the binary container.
func (r *Renderer) Save(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("%w: %v", domain.ErrWrite, err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrWrite, err)
	}
	if err := r.Encode(f, filepath.Ext(path) == ".glb"); err != nil {
		_ = f.Close()
		return fmt.Errorf("%w: %v", domain.ErrWrite, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrWrite, err)
	}
	return nil
}

func (r *Renderer) addNode(node *gltf.Node, parent *uint32) uint32 {
	idx := uint32(len(r.doc.Nodes))
	r.doc.Nodes = append(r.doc.Nodes, node)
	if parent == nil {
		r.doc.Scenes[0].Nodes = append(r.doc.Scenes[0].Nodes, idx)
	} else {
		p := r.doc.Nodes[*parent]
		p.Children = append(p.Children, idx)
	}
	return idx
}

// meshFor returns the line mesh for a color, creating it on first use.
func (r *Renderer) meshFor(c domain.Color) uint32 {
	if idx, ok := r.meshes[c]; ok {
		return idx
	}

	color := new([4]float32)
	*color = [4]float32(c)
	material := uint32(len(r.doc.Materials))
	r.doc.Materials = append(r.doc.Materials, &gltf.Material{
		Name:        "gizmo-" + c.Hex(),
		DoubleSided: true,
		PBRMetallicRoughness: &gltf.PBRMetallicRoughness{
			BaseColorFactor: color,
		},
	})

	positions, indices := gizmoLines()
	primitive := &gltf.Primitive{
		Mode:       gltf.PrimitiveLines,
		Attributes: map[string]uint32{gltf.POSITION: modeler.WritePosition(r.doc, positions)},
		Indices:    gltf.Index(modeler.WriteIndices(r.doc, indices)),
		Material:   gltf.Index(material),
	}

	idx := uint32(len(r.doc.Meshes))
	r.doc.Meshes = append(r.doc.Meshes, &gltf.Mesh{
		Name:       "gizmo-" + c.Hex(),
		Primitives: []*gltf.Primitive{primitive},
	})
	r.meshes[c] = idx
	return idx
}

// gizmoLines tessellates the gizmo of an identity pose. Nodes carry the
// pose's TRS, so the mesh stays in local space (+X right, +Y up, +Z forward).
func gizmoLines() ([][3]float32, []uint16) {
	lines := gizmo.Lines(gizmo.Shapes(domain.Identity(), domain.Color{}))
	positions := make([][3]float32, 0, 2*len(lines))
	indices := make([]uint16, 0, 2*len(lines))
	for _, l := range lines {
		indices = append(indices, uint16(len(positions)), uint16(len(positions)+1))
		positions = append(positions, [3]float32(l.From), [3]float32(l.To))
	}
	return positions, indices
}
