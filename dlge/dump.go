package dlge

import (
	"strings"

	"hmlt/utils/debug"
)

// Dump renders document as indented tree.
func Dump(doc *Document) string {
	tw := debug.NewTreeWriter()
	tw.Line(0, "DLGE %s", doc.Hash)
	tw.Line(1, "DITL %s", doc.DITL)
	tw.Line(1, "CLNG %s", doc.CLNG)
	if len(doc.LangMap) > 0 {
		tw.Line(1, "langmap %s", doc.LangMap)
	}
	if doc.Symmetric {
		tw.Line(1, "symmetric cipher")
	}
	dumpContainer(tw, 1, doc.Root, "")
	return tw.String()
}

func dumpContainer(tw *debug.TreeWriter, depth int, c Container, prefix string) {
	switch c := c.(type) {
	case *WavFile:
		tw.Line(depth, "%sWavFile soundtag=%s wavName=%s", prefix, c.SoundTag, c.WavName)
		if c.HasDefault() {
			tw.Line(depth+1, "default wav=%s ffx=%s", c.DefaultWav, c.DefaultFfx)
		}
		for code, loc := range c.Languages.All() {
			if loc.HasRefs() {
				tw.Line(depth+1, "%s wav=%s ffx=%s", code, loc.Wav, loc.Ffx)
				if len(loc.Subtitle) > 0 {
					tw.TextBlock(depth+2, "subtitle", loc.Subtitle)
				}
				continue
			}
			tw.TextBlock(depth+1, code, loc.Subtitle)
		}
	case *Random:
		tw.Line(depth, "%sRandom [%d]", prefix, len(c.Entries))
		for _, e := range c.Entries {
			dumpContainer(tw, depth+1, e.Wav, "weight="+e.Weight.String()+" ")
		}
	case *Switch:
		tw.Line(depth, "%sSwitch key=%s default=%s [%d]", prefix, c.SwitchKey, c.Default, len(c.Cases))
		for _, sc := range c.Cases {
			dumpContainer(tw, depth+1, sc.Child, "cases=["+strings.Join(sc.Cases, ",")+"] ")
		}
	case *Sequence:
		tw.Line(depth, "%sSequence [%d]", prefix, len(c.Children))
		for _, child := range c.Children {
			dumpContainer(tw, depth+1, child, "")
		}
	default:
		tw.Line(depth, "%s<nil>", prefix)
	}
}
