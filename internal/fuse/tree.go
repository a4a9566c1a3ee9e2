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
package fuse

import (
	"bytes"
	"fmt"
	"io"
	"path"
	"sort"
	"strings"
)

// Node is a file or directory of a Tree. Files are backed by a byte range of
// an io.ReaderAt, directories by their children.
type Node struct {
	Name string

	r        io.ReaderAt
	size     int64
	children map[string]*Node
}

func (n *Node) IsDir() bool {
	return n.children != nil
}

func (n *Node) Size() int64 {
	return n.size
}

// ReadAt reads from the byte range backing a file node.
func (n *Node) ReadAt(p []byte, off int64) (int, error) {
	if n.IsDir() {
		return 0, fmt.Errorf("%s is a directory", n.Name)
	}
	return io.NewSectionReader(n.r, 0, n.size).ReadAt(p, off)
}

// Children returns the entries of a directory sorted by name.
func (n *Node) Children() []*Node {
	out := make([]*Node, 0, len(n.children))
	for _, c := range n.children {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Name < out[j].Name
	})
	return out
}

func (n *Node) Child(name string) (*Node, bool) {
	c, ok := n.children[name]
	return c, ok
}

// Tree is the read-only file hierarchy exposed by a mount.
type Tree struct {
	root *Node
}

func NewTree() *Tree {
	return &Tree{root: newDir("")}
}

func newDir(name string) *Node {
	return &Node{Name: name, children: make(map[string]*Node)}
}

func (t *Tree) Root() *Node {
	return t.root
}

// AddFile exposes size bytes of r, starting at off, under the slash
// separated path p. Missing parent directories are created.
func (t *Tree) AddFile(p string, r io.ReaderAt, off, size int64) error {
	dir, name, err := t.parent(p)
	if err != nil {
		return err
	}
	if _, exists := dir.children[name]; exists {
		return fmt.Errorf("duplicate entry %q", p)
	}

	dir.children[name] = &Node{
		Name: name,
		r:    io.NewSectionReader(r, off, size),
		size: size,
	}
	return nil
}

func (t *Tree) AddBytes(p string, data []byte) error {
	return t.AddFile(p, bytes.NewReader(data), 0, int64(len(data)))
}

// Lookup resolves a slash separated path.
func (t *Tree) Lookup(p string) (*Node, bool) {
	n := t.root
	for _, name := range splitPath(p) {
		c, ok := n.Child(name)
		if !ok {
			return nil, false
		}
		n = c
	}
	return n, true
}

func (t *Tree) parent(p string) (*Node, string, error) {
	parts := splitPath(p)
	if len(parts) == 0 {
		return nil, "", fmt.Errorf("invalid path %q", p)
	}

	dir := t.root
	for _, name := range parts[:len(parts)-1] {
		c, ok := dir.children[name]
		if !ok {
			c = newDir(name)
			dir.children[name] = c
		}
		if !c.IsDir() {
			return nil, "", fmt.Errorf("%q is not a directory", name)
		}
		dir = c
	}
	return dir, parts[len(parts)-1], nil
}

func splitPath(p string) []string {
	p = strings.Trim(path.Clean("/"+p), "/")
	if p == "" {
		return nil
	}
	return strings.Split(p, "/")
}
