package dlge

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"hmlt/resource"
)

// SchemaURL identifies editable dialogue event documents.
const SchemaURL = "https://tonytools.win/schemas/dlge.schema.json"

// Document is editable representation of dialogue event resource.
type Document struct {
	Hash      string
	DITL      string
	CLNG      string
	LangMap   string
	Symmetric bool
	Root      Container
}

type documentJSON struct {
	Schema    string          `json:"$schema"`
	Hash      string          `json:"hash"`
	DITL      string          `json:"DITL"`
	CLNG      string          `json:"CLNG"`
	LangMap   string          `json:"langmap,omitempty"`
	Symmetric bool            `json:"symmetric,omitempty"`
	Root      json.RawMessage `json:"rootContainer"`
}

func (d *Document) MarshalJSON() ([]byte, error) {
	if isNil(d.Root) {
		return nil, resource.Document("rootContainer", "missing root container")
	}
	root, err := resource.MarshalJSON(node(d.Root, nil, nil))
	if err != nil {
		return nil, err
	}
	return resource.MarshalJSON(documentJSON{
		Schema:    SchemaURL,
		Hash:      d.Hash,
		DITL:      d.DITL,
		CLNG:      d.CLNG,
		LangMap:   d.LangMap,
		Symmetric: d.Symmetric,
		Root:      root,
	})
}

// Output nodes, field order follows established document layout.
type (
	wavNode struct {
		Type       string                       `json:"type"`
		WavName    string                       `json:"wavName"`
		Cases      *[]string                    `json:"cases,omitempty"`
		Weight     *Weight                      `json:"weight,omitempty"`
		SoundTag   string                       `json:"soundtag"`
		DefaultWav *string                      `json:"defaultWav"`
		DefaultFfx *string                      `json:"defaultFfx"`
		Languages  *resource.OrderedMap[Locale] `json:"languages"`
	}
	randomNode struct {
		Type       string    `json:"type"`
		Cases      *[]string `json:"cases,omitempty"`
		Containers []any     `json:"containers"`
	}
	switchNode struct {
		Type       string `json:"type"`
		SwitchKey  string `json:"switchKey"`
		Default    string `json:"default"`
		Containers []any  `json:"containers"`
	}
	sequenceNode struct {
		Type       string `json:"type"`
		Containers []any  `json:"containers"`
	}
)

func optional(s string) *string {
	if len(s) == 0 {
		return nil
	}
	return &s
}

// node prepares container for marshalling, weight and cases come from parent.
func node(c Container, weight *Weight, cases []string) any {
	var pcases *[]string
	if cases != nil {
		pcases = &cases
	}
	switch c := c.(type) {
	case *WavFile:
		langs := c.Languages
		if langs == nil {
			langs = resource.NewOrderedMap[Locale]()
		}
		return wavNode{
			Type:       KindWavFile.String(),
			WavName:    c.WavName,
			Cases:      pcases,
			Weight:     weight,
			SoundTag:   c.SoundTag,
			DefaultWav: optional(c.DefaultWav),
			DefaultFfx: optional(c.DefaultFfx),
			Languages:  langs,
		}
	case *Random:
		n := randomNode{Type: KindRandom.String(), Cases: pcases, Containers: make([]any, 0, len(c.Entries))}
		for _, e := range c.Entries {
			w := e.Weight
			n.Containers = append(n.Containers, node(e.Wav, &w, nil))
		}
		return n
	case *Switch:
		n := switchNode{Type: KindSwitch.String(), SwitchKey: c.SwitchKey, Default: c.Default, Containers: make([]any, 0, len(c.Cases))}
		for _, sc := range c.Cases {
			cs := sc.Cases
			if cs == nil {
				cs = []string{}
			}
			n.Containers = append(n.Containers, node(sc.Child, nil, cs))
		}
		return n
	case *Sequence:
		n := sequenceNode{Type: KindSequence.String(), Containers: make([]any, 0, len(c.Children))}
		for _, child := range c.Children {
			n.Containers = append(n.Containers, node(child, nil, nil))
		}
		return n
	}
	return nil
}

func (l Locale) MarshalJSON() ([]byte, error) {
	if !l.HasRefs() {
		return resource.MarshalJSON(l.Subtitle)
	}
	return resource.MarshalJSON(struct {
		Wav      string `json:"wav"`
		Ffx      string `json:"ffx"`
		Subtitle string `json:"subtitle,omitempty"`
	}{l.Wav, l.Ffx, l.Subtitle})
}

func (w Weight) MarshalJSON() ([]byte, error) {
	if len(w.Hex) > 0 {
		return resource.MarshalJSON(w.Hex)
	}
	return resource.MarshalJSON(w.Value)
}

// Input side is parsed by hand to report exact location of problems.

type containerJSON struct {
	Type       *string                               `json:"type"`
	WavName    *string                               `json:"wavName"`
	SoundTag   *string                               `json:"soundtag"`
	DefaultWav *string                               `json:"defaultWav"`
	DefaultFfx *string                               `json:"defaultFfx"`
	Languages  *resource.OrderedMap[json.RawMessage] `json:"languages"`
	Weight     json.RawMessage                       `json:"weight"`
	Cases      *[]string                             `json:"cases"`
	SwitchKey  *string                               `json:"switchKey"`
	Default    *string                               `json:"default"`
	Containers []json.RawMessage                     `json:"containers"`
}

// parsed container with attributes which belong to its parent.
type parsed struct {
	c      Container
	weight json.RawMessage
	cases  *[]string
}

func (d *Document) UnmarshalJSON(data []byte) error {
	var src documentJSON
	if err := json.Unmarshal(data, &src); err != nil {
		return resource.Document("", "%w", err)
	}
	for _, f := range []struct{ name, value string }{{"hash", src.Hash}, {"DITL", src.DITL}, {"CLNG", src.CLNG}} {
		if len(f.value) == 0 {
			return resource.Document(f.name, "required property is missing or empty")
		}
	}
	if len(src.Root) == 0 || bytes.Equal(src.Root, []byte("null")) {
		return resource.Document("rootContainer", "missing root container")
	}
	p, err := parseContainer(src.Root, "rootContainer")
	if err != nil {
		return err
	}
	*d = Document{
		Hash:      src.Hash,
		DITL:      src.DITL,
		CLNG:      src.CLNG,
		LangMap:   src.LangMap,
		Symmetric: src.Symmetric,
		Root:      p.c,
	}
	return nil
}

func required(v *string, path string) (string, error) {
	if v == nil {
		return "", resource.Document(path, "required property is missing")
	}
	return *v, nil
}

func parseContainer(data json.RawMessage, path string) (*parsed, error) {
	var src containerJSON
	if err := json.Unmarshal(data, &src); err != nil {
		return nil, resource.Document(path, "%w", err)
	}
	typ, err := required(src.Type, path+".type")
	if err != nil {
		return nil, err
	}
	kind, ok := ParseKind(typ)
	if !ok {
		return nil, resource.Document(path+".type", "unknown container type %q", typ)
	}
	p := &parsed{weight: src.Weight, cases: src.Cases}
	switch kind {
	case KindWavFile:
		p.c, err = parseWavFile(&src, path)
	case KindRandom:
		p.c, err = parseRandom(&src, path)
	case KindSwitch:
		p.c, err = parseSwitch(&src, path)
	case KindSequence:
		p.c, err = parseSequence(&src, path)
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func parseWavFile(src *containerJSON, path string) (*WavFile, error) {
	wavName, err := required(src.WavName, path+".wavName")
	if err != nil {
		return nil, err
	}
	soundTag, err := required(src.SoundTag, path+".soundtag")
	if err != nil {
		return nil, err
	}
	w := NewWavFile(soundTag, wavName)
	if src.DefaultWav != nil {
		w.DefaultWav = *src.DefaultWav
	}
	if src.DefaultFfx != nil {
		w.DefaultFfx = *src.DefaultFfx
	}
	if src.Languages == nil {
		return nil, resource.Document(path+".languages", "required property is missing")
	}
	for code, raw := range src.Languages.All() {
		loc, err := parseLocale(raw, path+".languages."+code)
		if err != nil {
			return nil, err
		}
		w.Languages.Set(code, loc)
	}
	return w, nil
}

func parseLocale(raw json.RawMessage, path string) (Locale, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) > 0 && raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return Locale{}, resource.Document(path, "%w", err)
		}
		return Locale{Subtitle: s}, nil
	}
	if len(raw) == 0 || raw[0] != '{' {
		return Locale{}, resource.Document(path, "expected subtitle string or object with wav and ffx")
	}
	var obj struct {
		Wav      *string `json:"wav"`
		Ffx      *string `json:"ffx"`
		Subtitle *string `json:"subtitle"`
	}
	if err := json.Unmarshal(raw, &obj); err != nil {
		return Locale{}, resource.Document(path, "%w", err)
	}
	if obj.Wav == nil || obj.Ffx == nil || len(*obj.Wav) == 0 || len(*obj.Ffx) == 0 {
		return Locale{}, resource.Document(path, "both wav and ffx are required")
	}
	loc := Locale{Wav: *obj.Wav, Ffx: *obj.Ffx}
	if obj.Subtitle != nil {
		loc.Subtitle = *obj.Subtitle
	}
	return loc, nil
}

func parseWeight(raw json.RawMessage, path string) (Weight, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return Weight{}, resource.Document(path, "required property is missing")
	}
	var w Weight
	if raw[0] == '"' {
		if err := json.Unmarshal(raw, &w.Hex); err != nil {
			return Weight{}, resource.Document(path, "%w", err)
		}
		if len(w.Hex) == 0 {
			return Weight{}, resource.Document(path, "empty weight")
		}
	} else {
		v, err := strconv.ParseFloat(string(raw), 64)
		if err != nil {
			return Weight{}, resource.Document(path, "weight must be a number or hex string: %w", err)
		}
		w.Value = v
	}
	if _, err := w.Raw(); err != nil {
		return Weight{}, resource.Document(path, "%w", err)
	}
	return w, nil
}

func parseChildren(src *containerJSON, path string) ([]*parsed, error) {
	if src.Containers == nil {
		return nil, resource.Document(path+".containers", "required property is missing")
	}
	out := make([]*parsed, 0, len(src.Containers))
	for i, raw := range src.Containers {
		p, err := parseContainer(raw, fmt.Sprintf("%s.containers[%d]", path, i))
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

func parseRandom(src *containerJSON, path string) (*Random, error) {
	children, err := parseChildren(src, path)
	if err != nil {
		return nil, err
	}
	c := &Random{Entries: make([]RandomEntry, 0, len(children))}
	for i, p := range children {
		cp := fmt.Sprintf("%s.containers[%d]", path, i)
		wav, ok := p.c.(*WavFile)
		if !ok {
			return nil, resource.Document(cp, "Random container accepts only WavFile, got %s", p.c.Kind())
		}
		w, err := parseWeight(p.weight, cp+".weight")
		if err != nil {
			return nil, err
		}
		c.Entries = append(c.Entries, RandomEntry{Wav: wav, Weight: w})
	}
	return c, nil
}

func parseSwitch(src *containerJSON, path string) (*Switch, error) {
	key, err := required(src.SwitchKey, path+".switchKey")
	if err != nil {
		return nil, err
	}
	def, err := required(src.Default, path+".default")
	if err != nil {
		return nil, err
	}
	children, err := parseChildren(src, path)
	if err != nil {
		return nil, err
	}
	c := &Switch{SwitchKey: key, Default: def, Cases: make([]SwitchCase, 0, len(children))}
	for i, p := range children {
		cp := fmt.Sprintf("%s.containers[%d]", path, i)
		child, ok := p.c.(SwitchChild)
		if !ok {
			return nil, resource.Document(cp, "Switch container accepts only WavFile and Random, got %s", p.c.Kind())
		}
		if p.cases == nil {
			return nil, resource.Document(cp+".cases", "required property is missing")
		}
		c.Cases = append(c.Cases, SwitchCase{Child: child, Cases: *p.cases})
	}
	return c, nil
}

func parseSequence(src *containerJSON, path string) (*Sequence, error) {
	children, err := parseChildren(src, path)
	if err != nil {
		return nil, err
	}
	c := &Sequence{Children: make([]SequenceChild, 0, len(children))}
	for i, p := range children {
		child, ok := p.c.(SequenceChild)
		if !ok {
			return nil, resource.Document(fmt.Sprintf("%s.containers[%d]", path, i),
				"Sequence container cannot contain %s", p.c.Kind())
		}
		c.Children = append(c.Children, child)
	}
	return c, nil
}
