//go:generate glslc -o ../../assets/vert.spv ../../assets/shader.vert
//go:generate glslc -o ../../assets/frag.spv ../../assets/shader.frag

//Command diesel opens a window and spins a textured model until the window
//is closed or the frame budget runs out.
package main

import (
	"flag"
	"os"
	"runtime"

	"github.com/andewx/dieselvk/config"
	"github.com/andewx/dieselvk/dieselvk"
	"github.com/andewx/dieselvk/gfx"
	"github.com/andewx/dieselvk/renderer"
	"github.com/andewx/dieselvk/resource"
	"github.com/pkg/errors"
	"github.com/xlab/closer"
)

func init() {
	//glfw and the Vulkan queue must stay on the main thread
	runtime.LockOSThread()
}

func main() {
	dir := flag.String("dir", "assets", "asset directory, resource names resolve inside it")
	opts, use, err := config.Parse(flag.CommandLine, os.Args[1:])
	if err != nil {
		dieselvk.Fatal(err)
	}

	if *dir != "" {
		if err := os.Chdir(*dir); err != nil {
			dieselvk.Fatal(errors.Wrap(err, "asset directory"))
		}
	}

	logs, err := gfx.OpenLogs(opts.LogFile)
	if err != nil {
		dieselvk.Fatal(err)
	}
	logs.Info.Printf("diesel: options\n%s", use.Dump())

	app := &app{opts: opts, logs: logs}
	closer.Bind(app.cleanup)
	if err := app.run(); err != nil {
		dieselvk.Fatal(err, app.cleanup)
	}
	closer.Close()
}

type app struct {
	opts config.Options
	logs *gfx.Logs

	ctx       *gfx.Context
	resources *resource.Manager
	shader    *resource.Handle[*resource.Shader]
	scene     *renderer.Renderer
	done      bool
}

func (a *app) run() error {
	a.ctx = gfx.NewContext(a.opts, a.logs)
	api, err := a.ctx.Initialize()
	if err != nil {
		return err
	}

	a.resources = resource.NewManager(api, resource.WithLogs(a.logs))
	if a.shader, err = a.resources.ObtainShader(a.opts.Shader); err != nil {
		return err
	}
	model, err := a.resources.ObtainModel(a.opts.Model)
	if err != nil {
		return err
	}

	a.scene = renderer.New(api)
	a.scene.Add(renderer.NewRenderable(model))

	window := api.Window()
	for !window.ShouldClose() {
		window.ProcessMessages()
		if err := a.scene.Render(); err != nil {
			return errors.Wrapf(err, "frame %d", a.scene.Frames())
		}
		if a.opts.Frames > 0 && a.scene.Frames() >= uint64(a.opts.Frames) {
			break
		}
	}
	a.logs.Info.Printf("diesel: rendered %d frames", a.scene.Frames())
	return nil
}

//cleanup releases everything in reverse creation order, it runs at most once
func (a *app) cleanup() {
	if a.done {
		return
	}
	a.done = true
	if a.scene != nil {
		a.scene.Destroy()
	}
	if a.shader != nil {
		a.shader.Release()
	}
	if a.resources != nil {
		for _, leak := range a.resources.Leaks() {
			a.logs.Warn.Printf("diesel: resource %s still referenced at shutdown", leak)
		}
	}
	if a.ctx != nil {
		a.ctx.Destroy()
	}
	a.logs.Close()
}
