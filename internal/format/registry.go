// Copyright (c) 2025 Stefano Scafiti
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.
package format

import (
	"github.com/ostafen/mediadecoder/pkg/table"
)

type FileRegistry struct {
	table *table.PrefixTable[FileHeader]
}

func NewFileRegistry() *FileRegistry {
	return &FileRegistry{
		table: table.New[FileHeader](),
	}
}

func BuildFileRegistry(headers ...FileHeader) *FileRegistry {
	r := NewFileRegistry()
	for _, hdr := range headers {
		r.Add(hdr)
	}
	return r
}

func (r *FileRegistry) Add(hdr FileHeader) {
	for _, sig := range hdr.Signatures {
		r.table.Insert(sig, hdr)
	}
}

// Signatures returns the number of registered signatures.
func (r *FileRegistry) Signatures() int {
	return r.table.Size()
}

// Detect returns the header whose signature is the longest prefix of data.
func (r *FileRegistry) Detect(data []byte) (FileHeader, bool) {
	var (
		found FileHeader
		ok    bool
	)
	r.table.Walk(data, func(hdr FileHeader) bool {
		found, ok = hdr, true
		return false // keep walking: a longer signature may still match
	})
	return found, ok
}

var defaultRegistry = BuildFileRegistry(DefaultHeaders...)

// Detect identifies the format of data from its leading bytes.
func Detect(data []byte) (Format, error) {
	hdr, ok := defaultRegistry.Detect(data)
	if !ok {
		return Unknown, ErrUnknownFormat
	}
	return hdr.Format, nil
}
