package formats

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// OBJ format errors.
var (
	ErrInvalidOBJLine  = errors.New("invalid OBJ line")
	ErrInvalidOBJIndex = errors.New("OBJ index out of range")
)

type objCorner struct {
	v, vt, vn int // Zero-based; -1 when absent
}

// ParseOBJ parses a Wavefront OBJ file from raw bytes. Only geometry is read
// (v, vt, vn, f); groups, materials and smoothing statements are ignored.
// Each distinct position/texcoord/normal triple becomes one output vertex.
func ParseOBJ(data []byte) (*MeshData, error) {
	var (
		positions [][3]float32
		texcoords [][2]float32
		normals   [][3]float32
	)
	mesh := &MeshData{}
	corners := make(map[objCorner]uint32)
	var order []objCorner
	polygon := make([]uint32, 0, 4)

	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	line := 0
	for sc.Scan() {
		line++
		text := sc.Text()
		if i := strings.IndexByte(text, '#'); i >= 0 {
			text = text[:i]
		}
		fields := strings.Fields(text)
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "v":
			v, err := parseFloats(fields[1:], 3)
			if err != nil {
				return nil, fmt.Errorf("%w %d: %v", ErrInvalidOBJLine, line, err)
			}
			positions = append(positions, [3]float32{v[0], v[1], v[2]})
		case "vt":
			v, err := parseFloats(fields[1:], 2)
			if err != nil {
				return nil, fmt.Errorf("%w %d: %v", ErrInvalidOBJLine, line, err)
			}
			texcoords = append(texcoords, [2]float32{v[0], v[1]})
		case "vn":
			v, err := parseFloats(fields[1:], 3)
			if err != nil {
				return nil, fmt.Errorf("%w %d: %v", ErrInvalidOBJLine, line, err)
			}
			normals = append(normals, [3]float32{v[0], v[1], v[2]})
		case "f":
			if len(fields) < 4 {
				return nil, fmt.Errorf("%w %d: face needs 3 vertices", ErrInvalidOBJLine, line)
			}
			polygon = polygon[:0]
			for _, f := range fields[1:] {
				c, err := parseCorner(f, len(positions), len(texcoords), len(normals))
				if err != nil {
					return nil, fmt.Errorf("line %d: %w", line, err)
				}
				idx, ok := corners[c]
				if !ok {
					idx = uint32(len(order))
					corners[c] = idx
					order = append(order, c)
				}
				polygon = append(polygon, idx)
			}
			mesh.Indices = fan(mesh.Indices, polygon)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}

	hasUV, hasNormal := len(order) > 0, len(order) > 0
	for _, c := range order {
		hasUV = hasUV && c.vt >= 0
		hasNormal = hasNormal && c.vn >= 0
	}

	mesh.Positions = make([]float32, 0, len(order)*3)
	for _, c := range order {
		p := positions[c.v]
		mesh.Positions = append(mesh.Positions, p[0], p[1], p[2])
		if hasUV {
			t := texcoords[c.vt]
			mesh.TexCoords = append(mesh.TexCoords, t[0], t[1])
		}
		if hasNormal {
			n := normals[c.vn]
			mesh.Normals = append(mesh.Normals, n[0], n[1], n[2])
		}
	}
	return mesh, nil
}

// ParseOBJFile parses an OBJ file from disk.
func ParseOBJFile(path string) (*MeshData, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading OBJ file: %w", err)
	}
	return ParseOBJ(data)
}

func parseFloats(fields []string, n int) ([]float32, error) {
	if len(fields) < n {
		return nil, fmt.Errorf("expected %d values, got %d", n, len(fields))
	}
	out := make([]float32, n)
	for i := 0; i < n; i++ {
		v, err := strconv.ParseFloat(fields[i], 32)
		if err != nil {
			return nil, err
		}
		out[i] = float32(v)
	}
	return out, nil
}

// parseCorner parses v, v/vt, v//vn or v/vt/vn. Negative indices count back
// from the end of the lists read so far.
func parseCorner(s string, nv, nvt, nvn int) (objCorner, error) {
	parts := strings.Split(s, "/")
	c := objCorner{v: -1, vt: -1, vn: -1}
	targets := []*int{&c.v, &c.vt, &c.vn}
	sizes := []int{nv, nvt, nvn}
	if len(parts) > 3 {
		return c, fmt.Errorf("%w: bad face vertex %q", ErrInvalidOBJLine, s)
	}
	for i, p := range parts {
		if p == "" {
			if i == 0 {
				return c, fmt.Errorf("%w: face vertex %q has no position", ErrInvalidOBJLine, s)
			}
			continue
		}
		idx, err := strconv.Atoi(p)
		if err != nil {
			return c, fmt.Errorf("%w: bad face vertex %q", ErrInvalidOBJLine, s)
		}
		switch {
		case idx > 0:
			idx--
		case idx < 0:
			idx += sizes[i]
		default:
			return c, fmt.Errorf("%w: zero index in %q", ErrInvalidOBJIndex, s)
		}
		if idx < 0 || idx >= sizes[i] {
			return c, fmt.Errorf("%w: %q", ErrInvalidOBJIndex, s)
		}
		*targets[i] = idx
	}
	return c, nil
}
