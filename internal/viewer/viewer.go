package viewer

import (
	"fmt"
	"math"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Sondro/pepr3d/internal/logger"
	"github.com/Sondro/pepr3d/pkg/geometry"
	"github.com/Sondro/pepr3d/pkg/paint"
	"github.com/Sondro/pepr3d/pkg/pick"
)

// Tools carries the painting setup driven by mouse clicks.
type Tools struct {
	Palette           []mgl32.Vec3
	ActiveColor       int
	BrushRadius       float64
	CircleMinVertices int

	// NewCriterion builds the bucket stopping criterion for a click on
	// the given face. Evaluated per click so color capture is fresh.
	NewCriterion func(m *geometry.Mesh, startFace int) paint.Criterion
}

// Viewer renders the painted mesh with an orbit camera. Left click bucket
// fills the picked face, holding shift strokes the sphere brush instead.
// Right drag orbits, the wheel zooms, number keys select the color.
type Viewer struct {
	win   *Window
	mesh  *geometry.Mesh
	tools Tools

	program     uint32
	vao, vbo    uint32
	vertexCount int32
	mvpLoc      int32
	lightLoc    int32

	yaw, pitch, dist float64
}

// Run opens the window and blocks until the user quits.
func Run(m *geometry.Mesh, winCfg WindowConfig, tools Tools) error {
	win, err := NewWindow(winCfg)
	if err != nil {
		return err
	}
	defer win.Close()

	if err := gl.Init(); err != nil {
		return fmt.Errorf("initializing OpenGL: %w", err)
	}
	logger.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
	)

	v := &Viewer{
		win:   win,
		mesh:  m,
		tools: tools,
		yaw:   0.8,
		pitch: 0.5,
		dist:  meshViewDistance(m),
	}
	if err := v.setupGL(); err != nil {
		return err
	}
	defer v.teardownGL()

	v.upload()
	v.loop()
	return nil
}

func (v *Viewer) setupGL() error {
	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.ClearColor(0.12, 0.12, 0.15, 1.0)

	program, err := compileProgram(vertexShaderSrc, fragmentShaderSrc)
	if err != nil {
		return fmt.Errorf("compiling shaders: %w", err)
	}
	v.program = program
	v.mvpLoc = uniform(program, "uMVP")
	v.lightLoc = uniform(program, "uLightDir")

	gl.GenVertexArrays(1, &v.vao)
	gl.GenBuffers(1, &v.vbo)
	return nil
}

func (v *Viewer) teardownGL() {
	if v.vao != 0 {
		gl.DeleteVertexArrays(1, &v.vao)
	}
	if v.vbo != 0 {
		gl.DeleteBuffers(1, &v.vbo)
	}
	if v.program != 0 {
		gl.DeleteProgram(v.program)
	}
}

// upload rebuilds the interleaved vertex buffer from the painted mesh.
// Called after every paint operation.
func (v *Viewer) upload() {
	b := v.mesh.BuildRenderBuffers(v.tools.Palette)
	n := b.VertexCount()

	interleaved := make([]float32, 0, n*9)
	for i := 0; i < n; i++ {
		interleaved = append(interleaved,
			b.Positions[i*3], b.Positions[i*3+1], b.Positions[i*3+2],
			b.Normals[i*3], b.Normals[i*3+1], b.Normals[i*3+2],
			b.Colors[i*3], b.Colors[i*3+1], b.Colors[i*3+2],
		)
	}

	gl.BindVertexArray(v.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, v.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(interleaved)*4, unsafe.Pointer(&interleaved[0]), gl.DYNAMIC_DRAW)

	stride := int32(9 * 4)
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, stride, nil)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(1, 3, gl.FLOAT, false, stride, unsafe.Pointer(uintptr(3*4)))
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointer(2, 3, gl.FLOAT, false, stride, unsafe.Pointer(uintptr(6*4)))
	gl.EnableVertexAttribArray(2)

	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindVertexArray(0)
	v.vertexCount = int32(n)
}

func (v *Viewer) loop() {
	running := true
	for running {
		for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
			switch e := event.(type) {
			case *sdl.QuitEvent:
				running = false
			case *sdl.KeyboardEvent:
				if e.Type != sdl.KEYDOWN {
					break
				}
				if e.Keysym.Sym == sdl.K_ESCAPE {
					running = false
					break
				}
				if e.Keysym.Sym >= sdl.K_1 && e.Keysym.Sym <= sdl.K_9 {
					idx := int(e.Keysym.Sym - sdl.K_1)
					if idx < len(v.tools.Palette) {
						v.tools.ActiveColor = idx
						logger.Debug("color selected", zap.Int("color", idx))
					}
				}
			case *sdl.MouseWheelEvent:
				v.dist *= math.Pow(0.9, float64(e.Y))
			case *sdl.MouseMotionEvent:
				if e.State&sdl.ButtonRMask() != 0 {
					v.yaw += float64(e.XRel) * 0.01
					v.pitch += float64(e.YRel) * 0.01
					v.pitch = math.Max(-1.5, math.Min(1.5, v.pitch))
				}
			case *sdl.MouseButtonEvent:
				if e.Type == sdl.MOUSEBUTTONDOWN && e.Button == sdl.BUTTON_LEFT {
					brush := sdl.GetModState()&sdl.KMOD_SHIFT != 0
					v.paintAt(int(e.X), int(e.Y), brush)
				}
			}
		}

		v.draw()
		v.win.SwapBuffers()
	}
}

func (v *Viewer) eye() mgl64.Vec3 {
	return mgl64.Vec3{
		v.dist * math.Cos(v.pitch) * math.Cos(v.yaw),
		v.dist * math.Cos(v.pitch) * math.Sin(v.yaw),
		v.dist * math.Sin(v.pitch),
	}
}

func (v *Viewer) draw() {
	w, h := v.win.Size()
	gl.Viewport(0, 0, int32(w), int32(h))
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

	eye := v.eye()
	view := mgl32.LookAtV(
		mgl32.Vec3{float32(eye[0]), float32(eye[1]), float32(eye[2])},
		mgl32.Vec3{0, 0, 0},
		mgl32.Vec3{0, 0, 1},
	)
	proj := mgl32.Perspective(mgl32.DegToRad(45), float32(w)/float32(h), 0.01, 100)
	mvp := proj.Mul4(view)

	light := mgl32.Vec3{float32(-eye[0]), float32(-eye[1]), float32(-eye[2])}.Normalize()

	gl.UseProgram(v.program)
	gl.UniformMatrix4fv(v.mvpLoc, 1, false, &mvp[0])
	gl.Uniform3fv(v.lightLoc, 1, &light[0])
	gl.BindVertexArray(v.vao)
	gl.DrawArrays(gl.TRIANGLES, 0, v.vertexCount)
	gl.BindVertexArray(0)
}

// paintAt picks the face under the cursor and applies the active tool.
func (v *Viewer) paintAt(x, y int, brush bool) {
	w, h := v.win.Size()
	ray := v.mouseRay(x, y, w, h)

	face, hit, ok := pick.PickFace(v.mesh, ray)
	if !ok {
		return
	}

	if brush {
		s := geometry.Sphere{Center: hit, Radius: v.tools.BrushRadius}
		n := paint.PaintSphere(v.mesh, s, v.tools.CircleMinVertices, v.tools.ActiveColor)
		logger.Debug("brush stroke",
			zap.Int("face", face),
			zap.Int("touched", n),
			zap.Int("color", v.tools.ActiveColor),
		)
	} else {
		n := paint.Fill(v.mesh, face, v.tools.ActiveColor, v.tools.NewCriterion(v.mesh, face))
		logger.Debug("bucket fill",
			zap.Int("start", face),
			zap.Int("filled", n),
			zap.Int("color", v.tools.ActiveColor),
		)
	}
	v.upload()
}

// mouseRay unprojects a window coordinate through the current camera.
func (v *Viewer) mouseRay(x, y, w, h int) pick.Ray {
	eye := v.eye()
	view := mgl64.LookAtV(eye, mgl64.Vec3{0, 0, 0}, mgl64.Vec3{0, 0, 1})
	proj := mgl64.Perspective(mgl64.DegToRad(45), float64(w)/float64(h), 0.01, 100)
	inv := proj.Mul4(view).Inv()

	ndcX := 2*float64(x)/float64(w) - 1
	ndcY := 1 - 2*float64(y)/float64(h)

	near := inv.Mul4x1(mgl64.Vec4{ndcX, ndcY, -1, 1})
	far := inv.Mul4x1(mgl64.Vec4{ndcX, ndcY, 1, 1})
	nearP := near.Vec3().Mul(1 / near.W())
	farP := far.Vec3().Mul(1 / far.W())

	return pick.NewRay(nearP, farP.Sub(nearP))
}

// meshViewDistance places the camera so the whole mesh fits the view.
func meshViewDistance(m *geometry.Mesh) float64 {
	maxLen := 1.0
	for _, p := range m.Vertices() {
		if l := p.Len(); l > maxLen {
			maxLen = l
		}
	}
	return maxLen * 3
}
