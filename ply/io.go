// Copyright 2026 go-gsply Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
package ply

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ajroetker/go-gsply/gs"
	"github.com/edsrzf/mmap-go"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// CompressedSuffix is the conventional file name suffix of compressed files.
const CompressedSuffix = ".compressed.ply"

// Read decodes a PLY file of either layout from r.
func Read(r io.Reader, opts ...Option) (*gs.GSData, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "ply: read")
	}
	return decode(data, newOptions(opts))
}

// ReadFile decodes the PLY file at path. The file is memory-mapped read-only for the
// duration of the call; the result does not reference the mapping.
func ReadFile(path string, opts ...Option) (*gs.GSData, error) {
	o := newOptions(opts)

	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "ply: open")
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return nil, errors.Wrap(err, "ply: stat")
	}
	if fi.Size() == 0 {
		return nil, errors.Wrapf(gs.ErrTruncatedFile, "ply: %s is empty", path)
	}

	contents, err := mmap.MapRegion(f, int(fi.Size()), mmap.RDONLY, 0, 0)
	if err != nil {
		return nil, errors.Wrap(err, "ply: mmap")
	}
	defer contents.Unmap()

	o.logger.WithFields(logrus.Fields{"path": path, "bytes": fi.Size()}).Debug("mapped ply file")
	d, err := decode(contents, o)
	if err != nil {
		return nil, errors.Wrapf(err, "ply: %s", path)
	}
	return d, nil
}

func decode(data []byte, o *options) (*gs.GSData, error) {
	h, info, err := parseInfo(data)
	if err != nil {
		return nil, err
	}
	body := data[h.Len():]
	if !info.Compressed {
		return readUncompressedBody(body, info, o)
	}
	c, err := parseCompressedBody(body, info, o)
	if err != nil {
		return nil, err
	}
	return c.decompress(o)
}

// Write encodes d to w, uncompressed unless WithCompression(true) is given.
func Write(w io.Writer, d *gs.GSData, opts ...Option) error {
	o := newOptions(opts)
	if !o.compressed {
		return WriteUncompressed(w, d)
	}
	c, err := CompressToArrays(d, opts...)
	if err != nil {
		return err
	}
	_, err = c.WriteTo(w)
	return err
}

// WriteFile encodes d to the file at path, replacing it. The data is written to a
// temporary file in the same directory which is renamed over path once complete.
func WriteFile(path string, d *gs.GSData, opts ...Option) error {
	o := newOptions(opts)

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return errors.Wrap(err, "ply: create")
	}
	defer os.Remove(tmp.Name())

	if err := Write(tmp, d, opts...); err != nil {
		tmp.Close()
		return errors.Wrapf(err, "ply: %s", path)
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(err, "ply: close")
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return errors.Wrap(err, "ply: rename")
	}
	o.logger.WithFields(logrus.Fields{
		"path":       path,
		"gaussians":  d.Len(),
		"compressed": o.compressed,
	}).Debug("wrote ply file")
	return nil
}

// CompressedPath returns the conventional name of the compressed sibling of path:
// "scene.ply" becomes "scene.compressed.ply". Paths that already carry the suffix are
// returned unchanged.
func CompressedPath(path string) string {
	if strings.HasSuffix(path, CompressedSuffix) {
		return path
	}
	return strings.TrimSuffix(path, ".ply") + CompressedSuffix
}

// ReadBytes decodes a PLY file of either layout held in memory.
func ReadBytes(data []byte, opts ...Option) (*gs.GSData, error) {
	return decode(data, newOptions(opts))
}
