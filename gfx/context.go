package gfx

import (
	"fmt"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/andewx/dieselvk/config"
	"github.com/pkg/errors"
)

//Constructor builds an uninitialized API for the given options
type Constructor func(opts config.Options, logs *Logs) API

var (
	constructorsMu sync.Mutex
	constructors   = make(map[string]Constructor)

	//one API may be alive in the process, the window system and the
	//Vulkan loader are process wide
	active atomic.Bool
)

//Register makes a graphics API available under kind. It panics when called
//twice for the same kind or with a nil constructor.
func Register(kind string, ctor Constructor) {
	constructorsMu.Lock()
	defer constructorsMu.Unlock()
	if ctor == nil {
		panic("gfx: Register constructor is nil")
	}
	if _, dup := constructors[kind]; dup {
		panic("gfx: Register called twice for API " + kind)
	}
	constructors[kind] = ctor
}

//APIs lists the registered API kinds
func APIs() []string {
	constructorsMu.Lock()
	defer constructorsMu.Unlock()
	kinds := make([]string, 0, len(constructors))
	for k := range constructors {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}

//Context owns the single active graphics API. The application creates it,
//passes it to every component that needs the API and destroys it last.
type Context struct {
	opts config.Options
	logs *Logs
	api  API
}

func NewContext(opts config.Options, logs *Logs) *Context {
	if logs == nil {
		logs = Discard()
	}
	return &Context{opts: opts, logs: logs}
}

//Initialize creates and initializes the API selected by the options. An
//unregistered or invalid kind is returned as config.ErrUnknownAPI. Calling it
//while another API is alive anywhere in the process panics.
func (c *Context) Initialize() (API, error) {
	if err := c.opts.Validate(); err != nil {
		return nil, errors.Wrap(err, "graphics options")
	}
	constructorsMu.Lock()
	ctor, ok := constructors[c.opts.API]
	constructorsMu.Unlock()
	if !ok {
		return nil, errors.Wrapf(config.ErrUnknownAPI, "%q is not registered", c.opts.API)
	}
	if !active.CompareAndSwap(false, true) {
		panic(fmt.Sprintf("gfx: cannot initialize %s, a graphics API is already active", c.opts.API))
	}

	api := ctor(c.opts, c.logs)
	if err := api.Initialize(c.opts.Width, c.opts.Height); err != nil {
		api.Destroy()
		active.Store(false)
		return nil, errors.Wrapf(err, "initialize %s", c.opts.API)
	}
	c.logs.Info.Printf("gfx: %s initialized at %dx%d", c.opts.API, c.opts.Width, c.opts.Height)
	c.api = api
	return api, nil
}

//API returns the active API, it panics before Initialize
func (c *Context) API() API {
	if c.api == nil {
		panic("gfx: API used before Initialize")
	}
	return c.api
}

func (c *Context) Logs() *Logs {
	return c.logs
}

func (c *Context) Options() config.Options {
	return c.opts
}

//Destroy tears the API down and frees the process wide slot. It is a no-op
//when nothing was initialized.
func (c *Context) Destroy() {
	if c.api == nil {
		return
	}
	c.api.Destroy()
	c.api = nil
	active.Store(false)
	c.logs.Info.Printf("gfx: %s destroyed", c.opts.API)
}
