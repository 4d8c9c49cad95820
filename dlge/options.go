package dlge

import (
	"hmlt/cipher"
	"hmlt/common"
	"hmlt/registry"
)

// DefaultLocale is used when options do not name one.
const DefaultLocale = "en"

// Options drive both Convert and Rebuild.
type Options struct {
	Version common.Version
	// comma separated locale list replacing built-in table
	LangMap string
	// locale whose references are stored as WavFile defaults
	DefaultLocale string
	// keep exact random weights as hex strings
	HexPrecision bool
	// legacy subtitle cipher, h2016 only
	Symmetric bool
	// nil means built-in names
	Names *registry.Registry
}

func (o *Options) names() *registry.Registry {
	if o.Names == nil {
		return registry.Default()
	}
	return o.Names
}

func (o *Options) defaultLocale() string {
	if len(o.DefaultLocale) == 0 {
		return DefaultLocale
	}
	return o.DefaultLocale
}

func (o *Options) scheme(symmetric bool) cipher.Scheme {
	return cipher.Select(o.Version, o.Symmetric || symmetric)
}
