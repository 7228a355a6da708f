package camera

import (
	"encoding/binary"
	"math"
	"unsafe"
)

// GPUCameraUniformSource is the canonical WGSL definition of the CameraUniform and FrustumPlane structs.
// Matches the GPUCameraUniform and GPUFrustumPlane layouts exactly.
const GPUCameraUniformSource = `struct CameraUniform {
    view_proj: mat4x4<f32>,
    camera_position: vec3<f32>,
    _pad: f32,
};

struct FrustumPlane {
    normal: vec3<f32>,
    distance: f32,
};
`

// GPUCameraUniform is the GPU-aligned representation of the camera uniform buffer.
// Matches the WGSL CameraUniform struct layout exactly (see GPUCameraUniformSource).
// Size: 80 bytes (std430 / WGSL aligned).
type GPUCameraUniform struct {
	ViewProj       [16]float32 // offset  0: combined view-projection matrix (mat4x4<f32>)
	CameraPosition [3]float32  // offset 64: world-space eye position (vec3<f32>)
	_pad           float32     // offset 76: padding to 80 bytes
}

// Size returns the size of the GPUCameraUniform struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (80)
func (g *GPUCameraUniform) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUCameraUniform struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: the serialized byte buffer
func (g *GPUCameraUniform) Marshal() []byte {
	buf := make([]byte, g.Size())
	for i := range 16 {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(g.ViewProj[i]))
	}
	for i := range 3 {
		binary.LittleEndian.PutUint32(buf[64+i*4:], math.Float32bits(g.CameraPosition[i]))
	}
	binary.LittleEndian.PutUint32(buf[76:], 0) // _pad
	return buf
}

// GPUFrustumPlane is one boundary plane in GPU layout, used by compute culling passes.
// Size: 16 bytes.
type GPUFrustumPlane struct {
	Normal   [3]float32 // offset  0: inward unit normal (vec3<f32>)
	Distance float32    // offset 12: plane offset, dot(normal, p) + distance >= 0 inside
}

// MarshalFrustumPlanes serializes planes back to back into a byte buffer suitable for a storage buffer.
//
// Parameters:
//   - planes: the planes to serialize
//
// Returns:
//   - []byte: the serialized byte buffer, 16 bytes per plane
func MarshalFrustumPlanes(planes []GPUFrustumPlane) []byte {
	buf := make([]byte, 16*len(planes))
	for i, p := range planes {
		off := i * 16
		for j := range 3 {
			binary.LittleEndian.PutUint32(buf[off+j*4:], math.Float32bits(p.Normal[j]))
		}
		binary.LittleEndian.PutUint32(buf[off+12:], math.Float32bits(p.Distance))
	}
	return buf
}

func (v *viewportImpl) Uniform() GPUCameraUniform {
	v.mu.Lock()
	defer v.mu.Unlock()
	pos := v.eye.WorldPosition()
	return GPUCameraUniform{
		ViewProj:       v.viewProjectionMatrix(),
		CameraPosition: [3]float32{pos[0], pos[1], pos[2]},
	}
}

func (v *viewportImpl) FrustumPlanesUniform() []GPUFrustumPlane {
	v.mu.Lock()
	defer v.mu.Unlock()
	planes := v.currentPlanes()
	out := make([]GPUFrustumPlane, len(planes))
	for i, p := range planes {
		out[i] = GPUFrustumPlane{Normal: [3]float32(p.Normal), Distance: p.Distance}
	}
	return out
}
