package state

import (
	"hmlt/clng"
	"hmlt/config"
	"hmlt/ditl"
	"hmlt/dlge"
	"hmlt/locr"
)

func (e *LocalEnv) codec() config.CodecConfig {
	if e.Cfg == nil {
		return config.CodecConfig{DefaultLocale: dlge.DefaultLocale}
	}
	return e.Cfg.Codec
}

// DLGEOptions returns dialogue event codec options for current configuration.
func (e *LocalEnv) DLGEOptions() *dlge.Options {
	c := e.codec()
	return &dlge.Options{
		Version:       c.Game,
		LangMap:       c.LangMap,
		DefaultLocale: c.DefaultLocale,
		HexPrecision:  c.HexPrecision,
		Symmetric:     c.Symmetric,
		Names:         e.Names,
	}
}

func (e *LocalEnv) LOCROptions() *locr.Options {
	c := e.codec()
	return &locr.Options{Version: c.Game, LangMap: c.LangMap, Symmetric: c.Symmetric}
}

func (e *LocalEnv) DITLOptions() *ditl.Options {
	return &ditl.Options{Names: e.Names}
}

func (e *LocalEnv) CLNGOptions() *clng.Options {
	c := e.codec()
	return &clng.Options{Version: c.Game, LangMap: c.LangMap}
}
