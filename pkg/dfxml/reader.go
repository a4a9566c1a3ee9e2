package dfxml

import (
	"encoding/xml"
	"errors"
	"io"
)

// ReadFileObjects returns every <fileobject> element of the document read
// from r, skipping the rest.
func ReadFileObjects(r io.Reader) ([]FileObject, error) {
	dec := xml.NewDecoder(r)

	var objs []FileObject
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			return objs, nil
		}
		if err != nil {
			return nil, err
		}

		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Local != "fileobject" {
			continue
		}

		var obj FileObject
		if err := dec.DecodeElement(&obj, &start); err != nil {
			return nil, err
		}
		objs = append(objs, obj)
	}
}
