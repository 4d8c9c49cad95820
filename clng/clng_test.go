package clng

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"hmlt/common"
	"hmlt/resource"
)

func TestRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		data []byte
		want string
	}{
		{"h3", Options{Version: common.VersionH3}, []byte{0, 1, 1, 0}, `{"xx":false,"en":true,"fr":true,"it":false}`},
		{"h2016 uses full h2 table", Options{Version: common.VersionH2016}, bytes.Repeat([]byte{1}, 13), ""},
		{"lang map", Options{Version: common.VersionH3, LangMap: "en,,jp"}, []byte{1, 0}, `{"en":true,"jp":false}`},
		{"empty", Options{Version: common.VersionH2}, []byte{}, `{}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			meta := &resource.Meta{HashValue: "00123456789ABCDE"}
			doc, err := Convert(tt.data, meta, &tt.opts)
			if err != nil {
				t.Fatalf("Convert() error = %v", err)
			}
			if len(tt.want) > 0 {
				got, _ := json.Marshal(doc.Languages)
				if string(got) != tt.want {
					t.Errorf("languages = %s, want %s", got, tt.want)
				}
			}
			rebuilt, err := Rebuild(doc)
			if err != nil {
				t.Fatalf("Rebuild() error = %v", err)
			}
			if !bytes.Equal(rebuilt.File, tt.data) {
				t.Errorf("Rebuild() = % X, want % X", rebuilt.File, tt.data)
			}
			if rebuilt.Meta.HashValue != "00123456789ABCDE" || rebuilt.Meta.HashResourceType != "CLNG" {
				t.Errorf("meta = %+v", rebuilt.Meta)
			}
		})
	}
}

func TestConvert_TooManyLanguages(t *testing.T) {
	_, err := Convert(make([]byte, 11), &resource.Meta{HashValue: "x"}, &Options{Version: common.VersionH3})
	if !errors.Is(err, resource.ErrMalformedBinary) {
		t.Errorf("Convert() error = %v, want malformed binary", err)
	}
}

func TestDocument_JSON(t *testing.T) {
	const input = `{"$schema":"https://tonytools.win/schemas/clng.schema.json","hash":"00123456789ABCDE","languages":{"xx":false,"en":true}}`
	var d Document
	if err := json.Unmarshal([]byte(input), &d); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	out, err := json.Marshal(&d)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if string(out) != input {
		t.Errorf("Marshal() = %s, want %s", out, input)
	}
	if err := d.UnmarshalJSON([]byte(`{"hash":"x"}`)); !errors.Is(err, resource.ErrMalformedDocument) {
		t.Errorf("UnmarshalJSON() error = %v", err)
	}
}
