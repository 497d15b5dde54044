package task

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
)

// initOutput 初始化输出目录
// 功能：按需创建相机帧输出目录
func (ctx *Context) initOutput() {
	out := ctx.runtimeConfig.All.Output
	if out.FrameDumpDir == "" {
		return
	}
	if err := os.MkdirAll(out.FrameDumpDir, 0o755); err != nil {
		log.Panicf("task: frame dump dir create err: %v", err)
	}
}

// dumpFrame 相机帧输出
// 功能：按配置间隔将本步相机帧编码为PNG写入输出目录
// 说明：替代原有的屏上驾驶员视角面板，供离线调试可视化
func (ctx *Context) dumpFrame() {
	out := ctx.runtimeConfig.All.Output
	if out.FrameDumpDir == "" || ctx.clock.InternalStep%out.FrameDumpInterval != 0 {
		return
	}
	frame := ctx.driver.Frame()
	if frame == nil {
		return
	}
	img := image.NewNRGBA(image.Rect(0, 0, frame.Width, frame.Height))
	for row := 0; row < frame.Height; row++ {
		for col := 0; col < frame.Width; col++ {
			px := frame.At(col, row)
			img.SetNRGBA(col, row, color.NRGBA{R: px.R, G: px.G, B: px.B, A: 255})
		}
	}
	path := filepath.Join(out.FrameDumpDir, fmt.Sprintf("frame_%06d.png", ctx.clock.InternalStep))
	f, err := os.Create(path)
	if err != nil {
		log.Errorf("task: frame dump create err: %v", err)
		return
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		log.Errorf("task: frame dump encode err: %v", err)
	}
}
