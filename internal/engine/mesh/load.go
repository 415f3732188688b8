package mesh

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/Faultbox/meshview/pkg/formats"
)

// SpherePath is the pseudo-path that loads the built-in sphere.
const SpherePath = ".null"

// Extensions lists the file extensions Load accepts.
var Extensions = []string{".ply", ".obj", ".gltf", ".glb"}

// Supported reports whether Load recognizes the extension of path.
func Supported(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ply", ".obj", ".gltf", ".glb", SpherePath:
		return true
	}
	return false
}

// Load reads a mesh file, dispatching on its extension.
func Load(path string) (*Mesh, error) {
	var (
		data *formats.MeshData
		err  error
	)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case SpherePath:
		return Sphere(SphereStacks, SphereSlices), nil
	case ".ply":
		data, err = formats.ParsePLYFile(path)
	case ".obj":
		data, err = formats.ParseOBJFile(path)
	case ".gltf", ".glb":
		data, err = readGLTF(path)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	m, err := FromData(data)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	return m, nil
}

// readGLTF merges the triangle primitives of every mesh in a glTF document.
// Node transforms are not applied. Texture coordinates and normals are kept
// only when every primitive provides them.
func readGLTF(path string) (*formats.MeshData, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gltf: %w", err)
	}

	out := &formats.MeshData{}
	allNormals, allUVs := true, true
	var normals, uvs []float32
	for _, mesh := range doc.Meshes {
		for _, prim := range mesh.Primitives {
			if prim.Mode != gltf.PrimitiveTriangles {
				continue
			}
			posIdx, ok := prim.Attributes[gltf.POSITION]
			if !ok {
				return nil, fmt.Errorf("primitive of %q has no POSITION attribute", mesh.Name)
			}
			positions, err := modeler.ReadPosition(doc, doc.Accessors[posIdx], nil)
			if err != nil {
				return nil, fmt.Errorf("read positions: %w", err)
			}
			base := uint32(len(out.Positions) / 3)
			for _, p := range positions {
				out.Positions = append(out.Positions, p[0], p[1], p[2])
			}

			if idx, ok := prim.Attributes[gltf.NORMAL]; ok && allNormals {
				n, err := modeler.ReadNormal(doc, doc.Accessors[idx], nil)
				if err != nil {
					return nil, fmt.Errorf("read normals: %w", err)
				}
				for _, v := range n {
					normals = append(normals, v[0], v[1], v[2])
				}
			} else {
				allNormals = false
			}

			if idx, ok := prim.Attributes[gltf.TEXCOORD_0]; ok && allUVs {
				t, err := modeler.ReadTextureCoord(doc, doc.Accessors[idx], nil)
				if err != nil {
					return nil, fmt.Errorf("read texcoords: %w", err)
				}
				for _, v := range t {
					uvs = append(uvs, v[0], v[1])
				}
			} else {
				allUVs = false
			}

			if prim.Indices == nil {
				for i := range positions {
					out.Indices = append(out.Indices, base+uint32(i))
				}
				continue
			}
			indices, err := modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], nil)
			if err != nil {
				return nil, fmt.Errorf("read indices: %w", err)
			}
			for _, i := range indices {
				out.Indices = append(out.Indices, base+i)
			}
		}
	}

	if allNormals && len(normals) == len(out.Positions) {
		out.Normals = normals
	}
	if allUVs && len(uvs) == len(out.Positions)/3*2 {
		out.TexCoords = uvs
	}
	return out, nil
}
