package formats

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
)

// PLY format errors.
var (
	ErrInvalidPLYMagic     = errors.New("invalid PLY magic: expected 'ply'")
	ErrInvalidPLYHeader    = errors.New("invalid PLY header")
	ErrUnsupportedPLYType  = errors.New("unsupported PLY property type")
	ErrTruncatedPLYData    = errors.New("truncated PLY data")
	ErrInvalidPLYFaceIndex = errors.New("PLY face index out of range")
)

// PLYFormat is the body encoding of a PLY file.
type PLYFormat int

const (
	PLYASCII PLYFormat = iota
	PLYBinaryLittleEndian
	PLYBinaryBigEndian
)

func (f PLYFormat) String() string {
	switch f {
	case PLYASCII:
		return "ascii"
	case PLYBinaryLittleEndian:
		return "binary_little_endian"
	case PLYBinaryBigEndian:
		return "binary_big_endian"
	default:
		return fmt.Sprintf("PLYFormat(%d)", int(f))
	}
}

type plyType int

const (
	plyInt8 plyType = iota
	plyUint8
	plyInt16
	plyUint16
	plyInt32
	plyUint32
	plyFloat32
	plyFloat64
)

var plyTypes = map[string]plyType{
	"char": plyInt8, "int8": plyInt8,
	"uchar": plyUint8, "uint8": plyUint8,
	"short": plyInt16, "int16": plyInt16,
	"ushort": plyUint16, "uint16": plyUint16,
	"int": plyInt32, "int32": plyInt32,
	"uint": plyUint32, "uint32": plyUint32,
	"float": plyFloat32, "float32": plyFloat32,
	"double": plyFloat64, "float64": plyFloat64,
}

func (t plyType) size() int {
	switch t {
	case plyInt8, plyUint8:
		return 1
	case plyInt16, plyUint16:
		return 2
	case plyFloat64:
		return 8
	default:
		return 4
	}
}

type plyProperty struct {
	name      string
	typ       plyType
	list      bool
	countType plyType
}

type plyElement struct {
	name  string
	count int
	props []plyProperty
}

// PLYHeader is the parsed header of a PLY file.
type PLYHeader struct {
	Format   PLYFormat
	Comments []string
	elements []plyElement
}

// ParsePLY parses an ASCII or binary PLY file from raw bytes. Polygons are
// triangulated as fans.
func ParsePLY(data []byte) (*MeshData, error) {
	hdr, body, err := parsePLYHeader(data)
	if err != nil {
		return nil, err
	}

	var src plyValues
	if hdr.Format == PLYASCII {
		src = &plyText{fields: strings.Fields(string(body))}
	} else {
		order := binary.ByteOrder(binary.LittleEndian)
		if hdr.Format == PLYBinaryBigEndian {
			order = binary.BigEndian
		}
		src = &plyBinary{data: body, order: order}
	}

	mesh := &MeshData{}
	vertices := 0
	for _, el := range hdr.elements {
		switch el.name {
		case "vertex":
			if err := readPLYVertices(src, el, mesh); err != nil {
				return nil, err
			}
			vertices = el.count
		case "face":
			if err := readPLYFaces(src, el, mesh, vertices); err != nil {
				return nil, err
			}
		default:
			if err := skipPLYElement(src, el); err != nil {
				return nil, err
			}
		}
	}
	return mesh, nil
}

// ParsePLYFile parses a PLY file from disk.
func ParsePLYFile(path string) (*MeshData, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading PLY file: %w", err)
	}
	return ParsePLY(data)
}

func parsePLYHeader(data []byte) (*PLYHeader, []byte, error) {
	end := bytes.Index(data, []byte("end_header"))
	if !bytes.HasPrefix(data, []byte("ply")) {
		return nil, nil, ErrInvalidPLYMagic
	}
	if end < 0 {
		return nil, nil, fmt.Errorf("%w: missing end_header", ErrInvalidPLYHeader)
	}
	body := data[end+len("end_header"):]
	// The body starts after the line terminator.
	if i := bytes.IndexByte(body, '\n'); i >= 0 {
		body = body[i+1:]
	} else {
		body = nil
	}

	hdr := &PLYHeader{Format: -1}
	sc := bufio.NewScanner(bytes.NewReader(data[:end]))
	sc.Scan() // magic
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "format":
			if len(fields) < 2 {
				return nil, nil, fmt.Errorf("%w: bad format line", ErrInvalidPLYHeader)
			}
			switch fields[1] {
			case "ascii":
				hdr.Format = PLYASCII
			case "binary_little_endian":
				hdr.Format = PLYBinaryLittleEndian
			case "binary_big_endian":
				hdr.Format = PLYBinaryBigEndian
			default:
				return nil, nil, fmt.Errorf("%w: unknown format %q", ErrInvalidPLYHeader, fields[1])
			}
		case "comment", "obj_info":
			hdr.Comments = append(hdr.Comments, strings.TrimSpace(strings.TrimPrefix(sc.Text(), fields[0])))
		case "element":
			if len(fields) != 3 {
				return nil, nil, fmt.Errorf("%w: bad element line %q", ErrInvalidPLYHeader, sc.Text())
			}
			n, err := strconv.Atoi(fields[2])
			if err != nil || n < 0 {
				return nil, nil, fmt.Errorf("%w: bad element count %q", ErrInvalidPLYHeader, fields[2])
			}
			hdr.elements = append(hdr.elements, plyElement{name: fields[1], count: n})
		case "property":
			if len(hdr.elements) == 0 {
				return nil, nil, fmt.Errorf("%w: property before element", ErrInvalidPLYHeader)
			}
			prop, err := parsePLYProperty(fields)
			if err != nil {
				return nil, nil, err
			}
			el := &hdr.elements[len(hdr.elements)-1]
			el.props = append(el.props, prop)
		default:
			return nil, nil, fmt.Errorf("%w: unknown keyword %q", ErrInvalidPLYHeader, fields[0])
		}
	}
	if hdr.Format < 0 {
		return nil, nil, fmt.Errorf("%w: missing format", ErrInvalidPLYHeader)
	}
	return hdr, body, nil
}

func parsePLYProperty(fields []string) (plyProperty, error) {
	if len(fields) >= 5 && fields[1] == "list" {
		count, ok1 := plyTypes[fields[2]]
		typ, ok2 := plyTypes[fields[3]]
		if !ok1 || !ok2 {
			return plyProperty{}, fmt.Errorf("%w: %s %s", ErrUnsupportedPLYType, fields[2], fields[3])
		}
		return plyProperty{name: fields[4], typ: typ, list: true, countType: count}, nil
	}
	if len(fields) != 3 {
		return plyProperty{}, fmt.Errorf("%w: bad property line", ErrInvalidPLYHeader)
	}
	typ, ok := plyTypes[fields[1]]
	if !ok {
		return plyProperty{}, fmt.Errorf("%w: %s", ErrUnsupportedPLYType, fields[1])
	}
	return plyProperty{name: fields[2], typ: typ}, nil
}

// plyValues yields the scalars of a PLY body in order.
type plyValues interface {
	next(t plyType) (float64, error)
}

type plyText struct {
	fields []string
	pos    int
}

func (p *plyText) next(plyType) (float64, error) {
	if p.pos >= len(p.fields) {
		return 0, ErrTruncatedPLYData
	}
	v, err := strconv.ParseFloat(p.fields[p.pos], 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", ErrTruncatedPLYData, p.fields[p.pos])
	}
	p.pos++
	return v, nil
}

type plyBinary struct {
	data  []byte
	pos   int
	order binary.ByteOrder
}

func (p *plyBinary) next(t plyType) (float64, error) {
	n := t.size()
	if p.pos+n > len(p.data) {
		return 0, ErrTruncatedPLYData
	}
	b := p.data[p.pos : p.pos+n]
	p.pos += n
	switch t {
	case plyInt8:
		return float64(int8(b[0])), nil
	case plyUint8:
		return float64(b[0]), nil
	case plyInt16:
		return float64(int16(p.order.Uint16(b))), nil
	case plyUint16:
		return float64(p.order.Uint16(b)), nil
	case plyInt32:
		return float64(int32(p.order.Uint32(b))), nil
	case plyUint32:
		return float64(p.order.Uint32(b)), nil
	case plyFloat32:
		return float64(math.Float32frombits(p.order.Uint32(b))), nil
	default:
		return math.Float64frombits(p.order.Uint64(b)), nil
	}
}

func readPLYVertices(src plyValues, el plyElement, mesh *MeshData) error {
	slots := make(map[string]int, len(el.props))
	for i, p := range el.props {
		slots[p.name] = i
	}
	_, hasNormals := slots["nx"]
	uName, vName := "", ""
	for _, pair := range [][2]string{{"u", "v"}, {"s", "t"}, {"texture_u", "texture_v"}} {
		if _, ok := slots[pair[0]]; ok {
			uName, vName = pair[0], pair[1]
			break
		}
	}

	mesh.Positions = make([]float32, 0, el.count*3)
	if hasNormals {
		mesh.Normals = make([]float32, 0, el.count*3)
	}
	if uName != "" {
		mesh.TexCoords = make([]float32, 0, el.count*2)
	}

	values := make(map[string]float32, len(el.props))
	for i := 0; i < el.count; i++ {
		for _, p := range el.props {
			if p.list {
				if err := skipPLYList(src, p); err != nil {
					return fmt.Errorf("vertex %d: %w", i, err)
				}
				continue
			}
			v, err := src.next(p.typ)
			if err != nil {
				return fmt.Errorf("vertex %d: %w", i, err)
			}
			values[p.name] = float32(v)
		}
		mesh.Positions = append(mesh.Positions, values["x"], values["y"], values["z"])
		if hasNormals {
			mesh.Normals = append(mesh.Normals, values["nx"], values["ny"], values["nz"])
		}
		if uName != "" {
			mesh.TexCoords = append(mesh.TexCoords, values[uName], values[vName])
		}
	}
	return nil
}

func readPLYFaces(src plyValues, el plyElement, mesh *MeshData, vertices int) error {
	polygon := make([]uint32, 0, 4)
	for i := 0; i < el.count; i++ {
		for _, p := range el.props {
			if !p.list || (p.name != "vertex_indices" && p.name != "vertex_index") {
				if err := skipPLYProperty(src, p); err != nil {
					return fmt.Errorf("face %d: %w", i, err)
				}
				continue
			}
			n, err := src.next(p.countType)
			if err != nil {
				return fmt.Errorf("face %d: %w", i, err)
			}
			polygon = polygon[:0]
			for j := 0; j < int(n); j++ {
				v, err := src.next(p.typ)
				if err != nil {
					return fmt.Errorf("face %d: %w", i, err)
				}
				if v < 0 || int(v) >= vertices {
					return fmt.Errorf("%w: face %d references vertex %d of %d", ErrInvalidPLYFaceIndex, i, int(v), vertices)
				}
				polygon = append(polygon, uint32(v))
			}
			mesh.Indices = fan(mesh.Indices, polygon)
		}
	}
	return nil
}

func skipPLYElement(src plyValues, el plyElement) error {
	for i := 0; i < el.count; i++ {
		for _, p := range el.props {
			if err := skipPLYProperty(src, p); err != nil {
				return fmt.Errorf("%s %d: %w", el.name, i, err)
			}
		}
	}
	return nil
}

func skipPLYProperty(src plyValues, p plyProperty) error {
	if p.list {
		return skipPLYList(src, p)
	}
	_, err := src.next(p.typ)
	return err
}

func skipPLYList(src plyValues, p plyProperty) error {
	n, err := src.next(p.countType)
	if err != nil {
		return err
	}
	for j := 0; j < int(n); j++ {
		if _, err := src.next(p.typ); err != nil {
			return err
		}
	}
	return nil
}
