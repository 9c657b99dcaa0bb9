package kidito

import (
	"image"

	"github.com/gogpu/kidito/geo"
	intImage "github.com/gogpu/kidito/internal/image"
)

// ProgramID identifies a shader program owned by a GPU. Zero means none.
type ProgramID uint64

// TextureID identifies a texture owned by a GPU. Zero means none.
type TextureID uint64

// BufferID identifies a vertex buffer owned by a GPU. Zero means none.
type BufferID uint64

// ShaderSource is the text of one shader stage and the file it came from.
// Code may alias reload arena memory and must not be retained.
type ShaderSource struct {
	Path string
	Code []byte
}

// GPU is the graphics collaborator a Reloader creates resources with.
//
// Uploads copy their input; a GPU must not keep references to the slices
// or images it is given. Errors from CompileProgram should be
// *ShaderError so the failing file can be reported.
//
// A GPU may also implement SetLogger(*slog.Logger) to receive the kidito
// logger.
type GPU interface {
	CompileProgram(vert, frag ShaderSource) (ProgramID, error)
	UploadTexture(img *image.RGBA) (TextureID, error)
	UploadVertices(vs []geo.Vertex) (BufferID, error)

	DeleteProgram(id ProgramID)
	DeleteTexture(id TextureID)
	DeleteBuffer(id BufferID)
}

// Allocator supplies scratch memory that lives until the end of the
// current reload.
type Allocator interface {
	Alloc(size int) ([]byte, error)
}

// ImageDecoder decodes texture files. Pixel storage should come from
// scratch.
type ImageDecoder interface {
	DecodeImage(path string, scratch Allocator) (*image.RGBA, error)
}

// fileDecoder decodes PNG, JPEG, GIF, BMP, TIFF and WebP files.
type fileDecoder struct{}

func (fileDecoder) DecodeImage(path string, scratch Allocator) (*image.RGBA, error) {
	return intImage.Load(path, scratch)
}
