package kidito

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/gogpu/kidito/conf"
	"github.com/gogpu/kidito/geo"
	"github.com/gogpu/kidito/internal/arena"
	"github.com/gogpu/kidito/mesh"
)

// Severity classifies a Diagnostic.
type Severity int

const (
	SeverityWarning Severity = iota
	SeverityError
)

func (s Severity) String() string {
	if s == SeverityError {
		return "ERROR"
	}
	return "WARNING"
}

// Diagnostic is one message produced by a reload. Its strings are heap
// owned and stay valid after the arena is reset.
type Diagnostic struct {
	Severity Severity
	Path     string
	Line     int
	Message  string
}

func (d Diagnostic) String() string {
	if d.Line > 0 {
		return fmt.Sprintf("%s:%d: %s: %s", d.Path, d.Line, d.Severity, d.Message)
	}
	return fmt.Sprintf("%s: %s: %s", d.Path, d.Severity, d.Message)
}

// Reloader loads a scene and installs it into a State.
//
// A Reloader owns the arena that hosts every transient allocation of a
// reload. It is not safe for concurrent use; call Reload from the thread
// that renders.
type Reloader struct {
	gpu     GPU
	decoder ImageDecoder
	arena   *arena.Arena

	configPath  string
	requireMesh bool
	background  geo.RGBA
	failure     geo.RGBA

	diags    []Diagnostic
	lastUsed int
}

// NewReloader creates a reloader that builds GPU resources with gpu.
func NewReloader(gpu GPU, opts ...Option) *Reloader {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	propagateLogger(gpu, Logger())

	return &Reloader{
		gpu:         gpu,
		decoder:     o.decoder,
		arena:       arena.New(o.arenaCapacity),
		configPath:  o.configPath,
		requireMesh: o.requireMesh,
		background:  o.background,
		failure:     o.failure,
	}
}

// ConfigPath returns the scene file the reloader reads.
func (r *Reloader) ConfigPath() string { return r.configPath }

// ArenaUsage returns the bytes in use and the capacity of the reload arena.
// Outside of Reload the usage is always zero.
func (r *Reloader) ArenaUsage() (used, capacity int) {
	return r.arena.Used(), r.arena.Cap()
}

// LastArenaUsage returns the bytes the most recent Reload had allocated
// when it finished.
func (r *Reloader) LastArenaUsage() int { return r.lastUsed }

// Diagnostics returns the warnings and the error, if any, recorded by the
// most recent Reload.
func (r *Reloader) Diagnostics() []Diagnostic {
	return append([]Diagnostic(nil), r.diags...)
}

// resources are the GPU objects created by one reload attempt.
type resources struct {
	program     ProgramID
	texture     TextureID
	vertices    BufferID
	vertexCount int
}

func (res *resources) release(gpu GPU) {
	if res.vertices != 0 {
		gpu.DeleteBuffer(res.vertices)
	}
	if res.texture != 0 {
		gpu.DeleteTexture(res.texture)
	}
	if res.program != 0 {
		gpu.DeleteProgram(res.program)
	}
	*res = resources{}
}

// Reload reads the scene file and everything it names, then installs the
// new GPU resources into st.
//
// st is marked Failed before any work starts. Loading stops at the first
// failing step; resources created earlier in the same attempt are released
// and st keeps its previous resources. On success the previous resources
// are released only after their replacements exist. The arena is reset
// before Reload returns in every case.
//
// The returned error is a *StepError.
func (r *Reloader) Reload(st *State) (err error) {
	st.Status = StatusFailed
	st.ClearColor = r.failure
	r.diags = nil

	var fresh resources
	defer func() {
		if err != nil {
			fresh.release(r.gpu)
			r.reportError(err)
		}
		r.lastUsed = r.arena.Used()
		r.arena.Reset()
	}()

	scene, err := r.loadConfig()
	if err != nil {
		return err
	}
	if fresh.program, err = r.loadProgram(scene); err != nil {
		return err
	}
	if fresh.texture, err = r.loadTexture(scene); err != nil {
		return err
	}
	if fresh.vertices, fresh.vertexCount, err = r.loadMesh(scene); err != nil {
		return err
	}

	used := r.arena.Used()

	old := resources{
		program:  st.Program,
		texture:  st.Texture,
		vertices: st.Vertices,
	}
	old.release(r.gpu)

	st.Program = fresh.program
	st.Texture = fresh.texture
	st.Vertices = fresh.vertices
	st.VertexCount = fresh.vertexCount
	st.Status = StatusValid
	st.ClearColor = r.background

	Logger().Info("successfully reloaded scene",
		"config", r.configPath,
		"vertices", fresh.vertexCount,
		"memory", fmt.Sprintf("%d/%d bytes", used, r.arena.Cap()))
	return nil
}

func (r *Reloader) loadConfig() (*conf.Scene, error) {
	scene, warnings, err := conf.Load(r.arena, r.configPath, conf.Options{RequireMesh: r.requireMesh})
	r.warn(warnings)
	if err != nil {
		kind := ErrParse
		switch {
		case IsOutOfMemory(err):
			kind = ErrOutOfMemory
		case isIOError(err):
			kind = ErrIO
		}
		return nil, &StepError{Step: StepConfig, Source: r.configPath, Path: r.configPath, Kind: kind, Err: err}
	}
	Logger().Debug("scene config parsed", "config", r.configPath, "arena", r.arena.Used())
	return scene, nil
}

// readEntry reads the file named by a scene entry into the arena. The
// returned path is a heap copy of the entry path.
func (r *Reloader) readEntry(step Step, e conf.Entry) (string, []byte, error) {
	path := strings.Clone(e.Path)
	data, err := r.arena.ReadText(path)
	if err != nil {
		return path, nil, r.stepError(step, e, path, classifyRead(err), err)
	}
	return path, data, nil
}

func (r *Reloader) loadProgram(scene *conf.Scene) (ProgramID, error) {
	vertPath, vert, err := r.readEntry(StepShader, scene.VertShader)
	if err != nil {
		return 0, err
	}
	fragPath, frag, err := r.readEntry(StepShader, scene.FragShader)
	if err != nil {
		return 0, err
	}

	id, err := r.gpu.CompileProgram(
		ShaderSource{Path: vertPath, Code: vert},
		ShaderSource{Path: fragPath, Code: frag},
	)
	if err != nil {
		kind := ErrShaderCompile
		if errors.Is(err, ErrShaderLink) {
			kind = ErrShaderLink
		}
		entry, path := scene.VertShader, vertPath
		var se *ShaderError
		if errors.As(err, &se) && se.Path == fragPath {
			entry, path = scene.FragShader, fragPath
		}
		return 0, r.stepError(StepShader, entry, path, kind, err)
	}
	Logger().Debug("shaders compiled", "vert", vertPath, "frag", fragPath)
	return id, nil
}

func (r *Reloader) loadTexture(scene *conf.Scene) (TextureID, error) {
	path := strings.Clone(scene.Texture.Path)
	img, err := r.decoder.DecodeImage(path, r.arena)
	if err != nil {
		kind := ErrImageDecode
		switch {
		case IsOutOfMemory(err):
			kind = ErrOutOfMemory
		case isIOError(err):
			kind = ErrIO
		}
		return 0, r.stepError(StepTexture, scene.Texture, path, kind, err)
	}

	id, err := r.gpu.UploadTexture(img)
	if err != nil {
		return 0, r.stepError(StepTexture, scene.Texture, path, ErrGPU, err)
	}
	Logger().Debug("texture uploaded", "path", path,
		"width", img.Rect.Dx(), "height", img.Rect.Dy())
	return id, nil
}

func (r *Reloader) loadMesh(scene *conf.Scene) (BufferID, int, error) {
	var (
		vertices []geo.Vertex
		path     string
	)
	if scene.Mesh.IsSet() {
		path = strings.Clone(scene.Mesh.Path)
		m, warnings, err := mesh.Load(r.arena, path)
		r.warn(warnings)
		if err != nil {
			return 0, 0, r.stepError(StepMesh, scene.Mesh, path, classifyRead(err), err)
		}
		if vertices, err = m.Vertices(r.arena); err != nil {
			return 0, 0, r.stepError(StepMesh, scene.Mesh, path, ErrOutOfMemory, err)
		}
		if len(vertices) == 0 {
			return 0, 0, r.stepError(StepMesh, scene.Mesh, path, ErrParse,
				fmt.Errorf("%w: mesh has no vertices", ErrParse))
		}
	} else {
		cube := geo.CubeMesh()
		vertices = geo.Flatten(cube[:])
	}

	id, err := r.gpu.UploadVertices(vertices)
	if err != nil {
		return 0, 0, r.stepError(StepMesh, scene.Mesh, path, ErrGPU, err)
	}
	Logger().Debug("vertices uploaded", "mesh", path, "count", len(vertices))
	return id, len(vertices), nil
}

func (r *Reloader) stepError(step Step, e conf.Entry, path string, kind, err error) *StepError {
	return &StepError{
		Step:   step,
		Source: r.configPath,
		Line:   e.Line,
		Path:   path,
		Kind:   kind,
		Err:    err,
	}
}

func (r *Reloader) warn(warnings []conf.Warning) {
	for _, w := range warnings {
		d := Diagnostic{
			Severity: SeverityWarning,
			Path:     strings.Clone(w.Path),
			Line:     w.Line,
			Message:  w.Message,
		}
		r.diags = append(r.diags, d)
		Logger().Warn(d.Message, "path", d.Path, "line", d.Line)
	}
}

func (r *Reloader) reportError(err error) {
	d := Diagnostic{Severity: SeverityError, Path: r.configPath, Message: err.Error()}
	var se *StepError
	if errors.As(err, &se) {
		d.Path = se.Source
		d.Line = se.Line
		d.Message = se.Detail()
	}
	r.diags = append(r.diags, d)
	Logger().Error("reload failed", "err", err, "out_of_memory", IsOutOfMemory(err))
}

func isIOError(err error) bool {
	var pe *fs.PathError
	return errors.As(err, &pe)
}

func classifyRead(err error) error {
	if IsOutOfMemory(err) {
		return ErrOutOfMemory
	}
	return ErrIO
}
