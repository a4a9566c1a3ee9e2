//go:build linux
// +build linux

package fuse

import (
	"context"
	"io"
	"os"
	"time"

	"bazil.org/fuse"
	"bazil.org/fuse/fs"
)

// ImageFS serves a Tree through bazil.org/fuse.
type ImageFS struct {
	tree    *Tree
	mounted time.Time
}

func (ifs *ImageFS) Root() (fs.Node, error) {
	return &Dir{fs: ifs, n: ifs.tree.Root()}, nil
}

// Dir implements both fs.Node and fs.HandleReadDirAller
type Dir struct {
	fs *ImageFS
	n  *Node
}

func (d *Dir) Attr(ctx context.Context, a *fuse.Attr) error {
	a.Mode = os.ModeDir | 0555
	a.Mtime = d.fs.mounted
	return nil
}

func (d *Dir) Lookup(ctx context.Context, name string) (fs.Node, error) {
	c, ok := d.n.Child(name)
	if !ok {
		return nil, fuse.ENOENT
	}
	if c.IsDir() {
		return &Dir{fs: d.fs, n: c}, nil
	}
	return &File{fs: d.fs, n: c}, nil
}

func (d *Dir) ReadDirAll(ctx context.Context) ([]fuse.Dirent, error) {
	children := d.n.Children()

	dirEntries := make([]fuse.Dirent, len(children))
	for i, c := range children {
		typ := fuse.DT_File
		if c.IsDir() {
			typ = fuse.DT_Dir
		}
		dirEntries[i] = fuse.Dirent{
			Inode: uint64(i + 1),
			Name:  c.Name,
			Type:  typ,
		}
	}
	return dirEntries, nil
}

// File implements both fs.Node and fs.HandleReader
type File struct {
	fs *ImageFS
	n  *Node
}

func (f *File) Attr(ctx context.Context, a *fuse.Attr) error {
	a.Mode = 0444
	a.Size = uint64(f.n.Size())
	a.Mtime = f.fs.mounted
	return nil
}

func (f *File) Read(ctx context.Context, req *fuse.ReadRequest, resp *fuse.ReadResponse) error {
	size := f.n.Size()
	if req.Offset >= size {
		resp.Data = []byte{}
		return nil
	}

	buf := make([]byte, min(int64(req.Size), size-req.Offset))

	n, err := f.n.ReadAt(buf, req.Offset)
	if err != nil && err != io.EOF {
		return err
	}
	resp.Data = buf[:n]
	return nil
}
