package systems

import (
	"image"
	"math"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/decker502/embers/pkg/components"
)

// maxBatchQuads keeps one DrawTriangles call under the uint16 index limit.
const maxBatchQuads = 65535 / 4

// TextureResolver maps a texture handle and atlas frame to an image.
// unitSize is the particle scale at which the image is drawn 1:1.
type TextureResolver interface {
	Resolve(id components.TextureID, frame int) (img *ebiten.Image, unitSize float64)
}

// ParticleRenderSystem 粒子渲染系统
//
// 渲染流程：
//  1. 按图片把 ParticleInstance 分组（保留首次出现的顺序）
//  2. 每个粒子生成 4 个顶点、6 个索引（2 个三角形组成矩形）
//  3. 顶点在世界坐标中旋转、缩放、平移，再经过 view 变换到屏幕
//  4. 同一图片的粒子一次 DrawTriangles 绘制
//
// 顶点和索引数组跨帧复用，避免每帧分配。
type ParticleRenderSystem struct {
	Textures TextureResolver
	// Additive 使用加法混合（发光效果）
	Additive bool

	vertices []ebiten.Vertex
	indices  []uint16

	batches map[*ebiten.Image]*renderBatch
	order   []*ebiten.Image
}

type renderBatch struct {
	unitSize  float64
	instances []int
}

// NewParticleRenderSystem 创建粒子渲染系统
func NewParticleRenderSystem(textures TextureResolver) *ParticleRenderSystem {
	return &ParticleRenderSystem{
		Textures: textures,
		vertices: make([]ebiten.Vertex, 0, 4*1024),
		indices:  make([]uint16, 0, 6*1024),
		batches:  make(map[*ebiten.Image]*renderBatch),
	}
}

// Draw 绘制粒子实例
//
// 参数:
//   - screen: 绘制目标
//   - instances: ParticleSystem.Instances() 的结果
//   - view: 世界坐标到屏幕坐标的变换（例如 Y 轴翻转 + 平移到屏幕中心）
func (s *ParticleRenderSystem) Draw(screen *ebiten.Image, instances []components.ParticleInstance, view ebiten.GeoM) {
	if len(instances) == 0 || s.Textures == nil {
		return
	}

	for _, b := range s.batches {
		b.instances = b.instances[:0]
	}
	s.order = s.order[:0]

	for i := range instances {
		inst := &instances[i]
		img, unit := s.Textures.Resolve(inst.Texture, inst.Frame)
		if img == nil {
			continue
		}
		b, ok := s.batches[img]
		if !ok {
			b = &renderBatch{}
			s.batches[img] = b
		}
		if len(b.instances) == 0 {
			s.order = append(s.order, img)
		}
		b.unitSize = unit
		b.instances = append(b.instances, i)
	}

	op := &ebiten.DrawTrianglesOptions{}
	if s.Additive {
		op.Blend = ebiten.BlendLighter
	}

	for _, img := range s.order {
		b := s.batches[img]
		bounds := img.Bounds()
		for start := 0; start < len(b.instances); start += maxBatchQuads {
			end := min(start+maxBatchQuads, len(b.instances))
			s.vertices = s.vertices[:0]
			s.indices = s.indices[:0]
			for _, idx := range b.instances[start:end] {
				s.vertices, s.indices = appendQuad(s.vertices, s.indices, &instances[idx], bounds, b.unitSize, view)
			}
			screen.DrawTriangles(s.vertices, s.indices, img, op)
		}
	}

	// 已经没有粒子使用的图片不再保留引用
	for img, b := range s.batches {
		if len(b.instances) == 0 {
			delete(s.batches, img)
		}
	}
}

// appendQuad 追加一个粒子的 4 个顶点和 6 个索引
//
// 矩形以粒子位置为中心，尺寸为图片尺寸 × Scale / unitSize，
// 按 Roll 逆时针旋转（世界坐标 Y 轴向上）。
func appendQuad(vs []ebiten.Vertex, is []uint16, inst *components.ParticleInstance, src image.Rectangle, unitSize float64, view ebiten.GeoM) ([]ebiten.Vertex, []uint16) {
	if !(unitSize > 0) {
		unitSize = 1
	}
	scale := float64(inst.Scale) / unitSize
	hw := float64(src.Dx()) / 2 * scale
	hh := float64(src.Dy()) / 2 * scale

	sin, cos := math.Sincos(float64(inst.Roll))
	px, py := float64(inst.Position[0]), float64(inst.Position[1])

	// 左上、右上、左下、右下（图片坐标），世界坐标中上方为 +Y
	corners := [4][2]float64{{-hw, hh}, {hw, hh}, {-hw, -hh}, {hw, -hh}}
	srcs := [4][2]int{
		{src.Min.X, src.Min.Y},
		{src.Max.X, src.Min.Y},
		{src.Min.X, src.Max.Y},
		{src.Max.X, src.Max.Y},
	}

	c := inst.Color
	base := uint16(len(vs))
	for i, corner := range corners {
		wx := px + corner[0]*cos - corner[1]*sin
		wy := py + corner[0]*sin + corner[1]*cos
		dx, dy := view.Apply(wx, wy)
		vs = append(vs, ebiten.Vertex{
			DstX:   float32(dx),
			DstY:   float32(dy),
			SrcX:   float32(srcs[i][0]),
			SrcY:   float32(srcs[i][1]),
			ColorR: c.R,
			ColorG: c.G,
			ColorB: c.B,
			ColorA: c.A,
		})
	}
	is = append(is,
		base+0, base+1, base+2, // 第一个三角形
		base+1, base+3, base+2, // 第二个三角形
	)
	return vs, is
}
