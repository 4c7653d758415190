package gpu

import (
	"encoding/binary"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Packer serializes values into a little-endian byte buffer following WGSL alignment.
// Callers are responsible for inserting the padding their struct layout needs.
type Packer struct {
	buf []byte
}

// NewPacker creates a Packer with capacity for size bytes.
func NewPacker(size int) *Packer {
	return &Packer{buf: make([]byte, 0, size)}
}

// Bytes returns the packed bytes.
func (p *Packer) Bytes() []byte {
	return p.buf
}

// Len returns the number of packed bytes.
func (p *Packer) Len() int {
	return len(p.buf)
}

// Float32 appends a float.
func (p *Packer) Float32(v float32) *Packer {
	p.buf = binary.LittleEndian.AppendUint32(p.buf, math.Float32bits(v))
	return p
}

// Uint32 appends an unsigned integer.
func (p *Packer) Uint32(v uint32) *Packer {
	p.buf = binary.LittleEndian.AppendUint32(p.buf, v)
	return p
}

// Bool appends a boolean as a 32-bit integer.
func (p *Packer) Bool(v bool) *Packer {
	if v {
		return p.Uint32(1)
	}
	return p.Uint32(0)
}

// Vec3 appends a 3-vector without padding.
func (p *Packer) Vec3(v mgl32.Vec3) *Packer {
	return p.Float32(v[0]).Float32(v[1]).Float32(v[2])
}

// Vec4 appends a 4-vector.
func (p *Packer) Vec4(v mgl32.Vec4) *Packer {
	return p.Float32(v[0]).Float32(v[1]).Float32(v[2]).Float32(v[3])
}

// Mat4 appends a column-major 4x4 matrix.
func (p *Packer) Mat4(m mgl32.Mat4) *Packer {
	for _, v := range m {
		p.Float32(v)
	}
	return p
}

// Pad appends n zero bytes.
func (p *Packer) Pad(n int) *Packer {
	for i := 0; i < n; i++ {
		p.buf = append(p.buf, 0)
	}
	return p
}
