package config

import (
	"flag"

	"github.com/pkg/errors"
)

//Graphics API kinds understood by the engine
const (
	APIVulkan = "vulkan"
	APINull   = "null"
)

//Property keys used by FromUsage
const (
	KeyWidth           = "Width"
	KeyHeight          = "Height"
	KeyAPI             = "API"
	KeyValidation      = "Validation"
	KeyAllowIntegrated = "AllowIntegrated"
	KeyVertexShader    = "VertexShader"
	KeyFragmentShader  = "FragmentShader"
	KeyShader          = "Shader"
	KeyModel           = "Model"
	KeyLogFile         = "LogFile"
	KeyFrames          = "Frames"
)

var ErrUnknownAPI = errors.New("unknown graphics API")

//Options holds every engine-wide setting. It is resolved once at startup and
//passed explicitly to the components that need it.
type Options struct {
	Width  int
	Height int

	//API selects the graphics backend, APIVulkan or APINull
	API string

	//Vulkan specific
	Validation      bool
	AllowIntegrated bool
	VertexShader    string
	FragmentShader  string

	//Scene assets
	Shader string
	Model  string

	//LogFile redirects engine logs, empty means stderr
	LogFile string

	//Frames stops the main loop after n frames, 0 runs until the window closes
	Frames int
}

//Default returns the stock options: a 1080p Vulkan window with validation
//layers enabled unless the binary was built with the release tag.
func Default() Options {
	return Options{
		Width:          1920,
		Height:         1080,
		API:            APIVulkan,
		Validation:     defaultValidation,
		VertexShader:   "vert.spv",
		FragmentShader: "frag.spv",
		Shader:         "default.shader",
		Model:          "cube.model",
	}
}

//DefaultUsage exposes Default as a property bag, the root of any override chain
func DefaultUsage() *Usage {
	o := Default()
	use := NewUsage("Default", 8)
	use.Int_props[KeyWidth] = o.Width
	use.Int_props[KeyHeight] = o.Height
	use.Int_props[KeyFrames] = o.Frames
	use.String_props[KeyAPI] = o.API
	use.String_props[KeyVertexShader] = o.VertexShader
	use.String_props[KeyFragmentShader] = o.FragmentShader
	use.String_props[KeyShader] = o.Shader
	use.String_props[KeyModel] = o.Model
	use.String_props[KeyLogFile] = o.LogFile
	use.Bool_props[KeyValidation] = o.Validation
	use.Bool_props[KeyAllowIntegrated] = o.AllowIntegrated
	return use
}

//FromUsage resolves options from a usage chain, keys missing from the whole
//chain keep their Default value.
func FromUsage(u *Usage) (Options, error) {
	o := Default()
	if u == nil {
		return o, nil
	}
	if v, ok := u.Int(KeyWidth); ok {
		o.Width = v
	}
	if v, ok := u.Int(KeyHeight); ok {
		o.Height = v
	}
	if v, ok := u.Int(KeyFrames); ok {
		o.Frames = v
	}
	if v, ok := u.String(KeyAPI); ok {
		o.API = v
	}
	if v, ok := u.String(KeyVertexShader); ok {
		o.VertexShader = v
	}
	if v, ok := u.String(KeyFragmentShader); ok {
		o.FragmentShader = v
	}
	if v, ok := u.String(KeyShader); ok {
		o.Shader = v
	}
	if v, ok := u.String(KeyModel); ok {
		o.Model = v
	}
	if v, ok := u.String(KeyLogFile); ok {
		o.LogFile = v
	}
	if v, ok := u.Bool(KeyValidation); ok {
		o.Validation = v
	}
	if v, ok := u.Bool(KeyAllowIntegrated); ok {
		o.AllowIntegrated = v
	}
	return o, o.Validate()
}

//Bind registers command line flags that override the receiver
func (o *Options) Bind(fs *flag.FlagSet) {
	fs.IntVar(&o.Width, "width", o.Width, "window width in pixels")
	fs.IntVar(&o.Height, "height", o.Height, "window height in pixels")
	fs.StringVar(&o.API, "api", o.API, "graphics API: vulkan or null")
	fs.BoolVar(&o.Validation, "validation", o.Validation, "enable Vulkan validation layers")
	fs.BoolVar(&o.AllowIntegrated, "integrated", o.AllowIntegrated, "accept non-discrete GPUs")
	fs.StringVar(&o.VertexShader, "vert", o.VertexShader, "default vertex SPIR-V binary")
	fs.StringVar(&o.FragmentShader, "frag", o.FragmentShader, "default fragment SPIR-V binary")
	fs.StringVar(&o.Shader, "shader", o.Shader, "shader descriptor file")
	fs.StringVar(&o.Model, "model", o.Model, "model descriptor file")
	fs.StringVar(&o.LogFile, "log", o.LogFile, "log file, stderr when empty")
	fs.IntVar(&o.Frames, "frames", o.Frames, "stop after n frames, 0 runs until the window closes")
}

//flagKeys maps the flags registered by Bind to their usage keys
var flagKeys = map[string]string{
	"width":      KeyWidth,
	"height":     KeyHeight,
	"api":        KeyAPI,
	"validation": KeyValidation,
	"integrated": KeyAllowIntegrated,
	"vert":       KeyVertexShader,
	"frag":       KeyFragmentShader,
	"shader":     KeyShader,
	"model":      KeyModel,
	"log":        KeyLogFile,
	"frames":     KeyFrames,
}

//Parse registers the option flags on fs and parses args. The options are
//resolved through a usage chain holding the flags that were set, linked to
//DefaultUsage. The chain is returned for reporting.
func Parse(fs *flag.FlagSet, args []string) (Options, *Usage, error) {
	o := Default()
	o.Bind(fs)
	if err := fs.Parse(args); err != nil {
		return Options{}, nil, errors.Wrap(err, "parse flags")
	}

	use := NewUsage("Flags", uint(len(flagKeys)))
	use.Linked_usage = DefaultUsage()
	fs.Visit(func(f *flag.Flag) {
		key, ok := flagKeys[f.Name]
		if !ok {
			return
		}
		getter, ok := f.Value.(flag.Getter)
		if !ok {
			return
		}
		switch v := getter.Get().(type) {
		case int:
			use.Int_props[key] = v
		case bool:
			use.Bool_props[key] = v
		case string:
			use.String_props[key] = v
		}
	})

	opts, err := FromUsage(use)
	if err != nil {
		return Options{}, use, err
	}
	return opts, use, nil
}

//Validate rejects options no backend can start with
func (o Options) Validate() error {
	if o.Width <= 0 || o.Height <= 0 {
		return errors.Errorf("invalid window size %dx%d", o.Width, o.Height)
	}
	switch o.API {
	case APIVulkan, APINull:
	default:
		return errors.Wrapf(ErrUnknownAPI, "%q", o.API)
	}
	if o.Frames < 0 {
		return errors.Errorf("invalid frame budget %d", o.Frames)
	}
	return nil
}
