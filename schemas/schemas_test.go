package schemas

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"hmlt/common"
	"hmlt/resource"
)

const wavFile = `{"type":"WavFile","wavName":"DEADBEEF","soundtag":"Test_tag","defaultWav":null,"defaultFfx":null,"languages":{"en":"Hello","fr":{"wav":"00AAAAAAAAAAAAA1","ffx":"00AAAAAAAAAAAAA2"}}}`

func dlge(root string) string {
	return `{"$schema":"https://tonytools.win/schemas/dlge.schema.json","hash":"00CC75A2DE3FBF62","DITL":"00AAAAAAAAAAAAA3","CLNG":"00AAAAAAAAAAAAA4","rootContainer":` + root + `}`
}

func TestSchemasCompile(t *testing.T) {
	for _, rt := range []common.ResourceType{common.ResourceTypeDLGE, common.ResourceTypeLOCR, common.ResourceTypeDITL, common.ResourceTypeCLNG} {
		t.Run(rt.String(), func(t *testing.T) {
			data, err := Bytes(rt)
			if err != nil {
				t.Fatalf("Bytes() error = %v", err)
			}
			if !json.Valid(data) {
				t.Fatal("schema is not valid JSON")
			}
			if _, err := compiled[rt](); err != nil {
				t.Fatalf("compile error = %v", err)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name  string
		rt    common.ResourceType
		doc   string
		valid bool
	}{
		{"wav root", common.ResourceTypeDLGE, dlge(wavFile), true},
		{"random", common.ResourceTypeDLGE, dlge(`{"type":"Random","containers":[` +
			strings.Replace(wavFile, `"soundtag"`, `"weight":0.5,"soundtag"`, 1) + `,` +
			strings.Replace(wavFile, `"soundtag"`, `"weight":"7FFFFF","soundtag"`, 1) + `]}`), true},
		{"sequence of switch", common.ResourceTypeDLGE, dlge(`{"type":"Sequence","containers":[{"type":"Switch","switchKey":"AI_NPC_ID","default":"DIALOGUE_NPC_MENDOLA","containers":[` +
			strings.Replace(wavFile, `"soundtag"`, `"cases":["DIALOGUE_NPC_MENDOLA"],"soundtag"`, 1) + `]}]}`), true},
		{"unknown container type", common.ResourceTypeDLGE, dlge(`{"type":"Blah","containers":[]}`), false},
		{"missing CLNG", common.ResourceTypeDLGE, `{"hash":"x","DITL":"y","rootContainer":` + wavFile + `}`, false},
		{"random weight out of range", common.ResourceTypeDLGE, dlge(`{"type":"Random","containers":[` +
			strings.Replace(wavFile, `"soundtag"`, `"weight":2,"soundtag"`, 1) + `]}`), false},
		{"random without weight", common.ResourceTypeDLGE, dlge(`{"type":"Random","containers":[` + wavFile + `]}`), false},
		{"switch case without cases", common.ResourceTypeDLGE, dlge(`{"type":"Switch","switchKey":"a","default":"b","containers":[` + wavFile + `]}`), false},
		{"switch of sequence", common.ResourceTypeDLGE, dlge(`{"type":"Switch","switchKey":"a","default":"b","containers":[{"type":"Sequence","cases":[],"containers":[]}]}`), false},
		{"half locale", common.ResourceTypeDLGE, dlge(strings.Replace(wavFile, `"ffx":"00AAAAAAAAAAAAA2"`, `"subtitle":"x"`, 1)), false},
		{"locr", common.ResourceTypeLOCR, `{"hash":"x","symmetric":true,"languages":{"en":{"1":"a"}}}`, true},
		{"locr number text", common.ResourceTypeLOCR, `{"hash":"x","languages":{"en":{"1":2}}}`, false},
		{"ditl", common.ResourceTypeDITL, `{"hash":"x","soundtags":{"Test_tag":"00AAAAAAAAAAAAA1"}}`, true},
		{"ditl empty id", common.ResourceTypeDITL, `{"hash":"x","soundtags":{"Test_tag":""}}`, false},
		{"clng", common.ResourceTypeCLNG, `{"hash":"x","languages":{"en":true}}`, true},
		{"clng string flag", common.ResourceTypeCLNG, `{"hash":"x","languages":{"en":"yes"}}`, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.rt, []byte(tt.doc))
			if tt.valid {
				if err != nil {
					t.Errorf("Validate() error = %v", err)
				}
				return
			}
			if !errors.Is(err, resource.ErrMalformedDocument) {
				t.Errorf("Validate() error = %v, want malformed document", err)
			}
		})
	}
}

func TestValidate_Path(t *testing.T) {
	err := Validate(common.ResourceTypeCLNG, []byte(`{"hash":"x","languages":{"en":1}}`))
	var e *resource.Error
	if !errors.As(err, &e) || e.Path != "languages.en" {
		t.Errorf("Validate() error = %v, want error at languages.en", err)
	}
	err = Validate(common.ResourceTypeCLNG, []byte(`{"languages":{}}`))
	if !errors.As(err, &e) || e.Path != "" {
		t.Errorf("Validate() error = %v, want error at document root", err)
	}
}

func TestValidate_NotJSON(t *testing.T) {
	if err := Validate(common.ResourceTypeDITL, []byte(`{`)); !errors.Is(err, resource.ErrMalformedDocument) {
		t.Errorf("Validate() error = %v", err)
	}
}
