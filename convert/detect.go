package convert

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/h2non/filetype"
	"github.com/tidwall/gjson"

	"hmlt/common"
	"hmlt/resource"
)

// enough to recognize any archive format known to filetype
const headerSize = 262

// isArchiveFile checks file content rather than extension.
func isArchiveFile(path string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer f.Close()

	head := make([]byte, headerSize)
	n, err := io.ReadFull(f, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return false, err
	}
	return filetype.Is(head[:n], "zip"), nil
}

// resourceType recognizes resource file by its extension, sidecars and
// editable documents are never resources.
func resourceType(path string) (common.ResourceType, bool) {
	if strings.HasSuffix(strings.ToLower(path), resource.MetaSuffix) {
		return 0, false
	}
	rt, err := common.ResourceTypeFromExt(filepath.Ext(path))
	if err != nil {
		return 0, false
	}
	return rt, true
}

// isDocumentFile selects editable documents when walking directories.
func isDocumentFile(path string) bool {
	lower := strings.ToLower(path)
	return strings.HasSuffix(lower, ".json") && !strings.HasSuffix(lower, resource.MetaSuffix)
}

// sniffType detects kind of editable document without decoding it: "$schema"
// is checked first, then the shape of the document.
func sniffType(data []byte) (common.ResourceType, error) {
	if !gjson.ValidBytes(data) {
		return 0, resource.Document("", "not a valid JSON document")
	}
	doc := gjson.ParseBytes(data)
	if !doc.IsObject() {
		return 0, resource.Document("", "document must be an object")
	}

	if schema := doc.Get("$schema"); schema.Type == gjson.String {
		name := strings.ToLower(schema.String())
		for _, rt := range []common.ResourceType{common.ResourceTypeDLGE, common.ResourceTypeLOCR, common.ResourceTypeDITL, common.ResourceTypeCLNG} {
			if strings.HasSuffix(name, "/"+strings.ToLower(rt.String())+".schema.json") {
				return rt, nil
			}
		}
	}

	switch {
	case doc.Get("rootContainer").Exists():
		return common.ResourceTypeDLGE, nil
	case doc.Get("soundtags").Exists():
		return common.ResourceTypeDITL, nil
	case doc.Get("languages").IsObject():
		var first gjson.Result
		doc.Get("languages").ForEach(func(_, v gjson.Result) bool {
			first = v
			return false
		})
		switch {
		case first.IsObject():
			return common.ResourceTypeLOCR, nil
		case first.IsBool():
			return common.ResourceTypeCLNG, nil
		}
	}
	return 0, resource.Document("", "unable to recognize document type")
}
