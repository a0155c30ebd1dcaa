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
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/ajroetker/go-gsply/gs"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUncompressedRoundTrip(t *testing.T) {
	for d := gs.Degree0; d <= gs.Degree3; d++ {
		for _, orig := range []*gs.GSData{scene(t, 5000, d, 1), scene(t, 5000, d, 1).Consolidate()} {
			var buf bytes.Buffer
			require.NoError(t, Write(&buf, orig))

			got, err := Read(&buf)
			require.NoError(t, err)
			require.True(t, got.IsConsolidated())
			assert.Equal(t, orig.Consolidate().Base(), got.Base(), "uncompressed files are lossless")
		}
	}
}

func TestUncompressedSize(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteUncompressed(&buf, scene(t, 10, gs.Degree1, 2)))
	h := mustHeader(t, buf.Bytes())
	assert.Equal(t, h.Len()+10*23*4, buf.Len())
}

func TestWriteNormalizesFormat(t *testing.T) {
	orig := scene(t, 20, gs.Degree0, 3)
	linear := orig.Clone().Denormalize()

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, linear))
	assert.Equal(t, gs.LinearFormat(), linear.Format())

	got, err := ReadUncompressed(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, gs.PLYFormat(), got.Format())
	assert.InDeltaSlice(t, orig.Scales().Dense(), got.Scales().Dense(), 1e-4)
	assert.InDeltaSlice(t, orig.Opacities().Dense(), got.Opacities().Dense(), 1e-3)
}

func TestReadEitherLayout(t *testing.T) {
	orig := scene(t, 400, gs.Degree1, 4)

	var plain, packed bytes.Buffer
	require.NoError(t, Write(&plain, orig))
	require.NoError(t, Write(&packed, orig, WithCompression(true)))
	assert.Less(t, packed.Len(), plain.Len()/3)

	a, err := ReadBytes(plain.Bytes())
	require.NoError(t, err)
	b, err := ReadBytes(packed.Bytes())
	require.NoError(t, err)
	assert.Equal(t, a.Len(), b.Len())
	assert.InDeltaSlice(t, a.Means().Dense(), b.Means().Dense(), 0.02)

	_, err = ReadUncompressed(packed.Bytes())
	assert.True(t, errors.Is(err, gs.ErrFormat), "err = %v", err)
}

func TestFiles(t *testing.T) {
	dir := t.TempDir()
	orig := scene(t, 1000, gs.Degree2, 5)

	plain := filepath.Join(dir, "scene.ply")
	packed := CompressedPath(plain)
	require.NoError(t, WriteFile(plain, orig))
	require.NoError(t, WriteFile(packed, orig, WithCompression(true)))

	info, err := DetectFormat(plain)
	require.NoError(t, err)
	assert.Equal(t, Info{SHDegree: gs.Degree2, NumGaussians: 1000}, info)

	info, err = DetectFormat(packed)
	require.NoError(t, err)
	assert.Equal(t, Info{Compressed: true, SHDegree: gs.Degree2, NumGaussians: 1000, NumChunks: 4}, info)

	got, err := ReadFile(plain)
	require.NoError(t, err)
	assert.Equal(t, orig.Consolidate().Base(), got.Base())

	got, err = ReadFile(packed)
	require.NoError(t, err)
	assert.Equal(t, 1000, got.Len())

	// No temporary files are left behind.
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestReadFileErrors(t *testing.T) {
	dir := t.TempDir()

	empty := filepath.Join(dir, "empty.ply")
	require.NoError(t, os.WriteFile(empty, nil, 0o644))
	_, err := ReadFile(empty)
	assert.True(t, errors.Is(err, gs.ErrTruncatedFile), "err = %v", err)

	_, err = ReadFile(filepath.Join(dir, "missing.ply"))
	assert.True(t, errors.Is(err, os.ErrNotExist), "err = %v", err)

	var buf bytes.Buffer
	require.NoError(t, WriteUncompressed(&buf, scene(t, 3, gs.Degree0, 6)))
	cut := filepath.Join(dir, "cut.ply")
	require.NoError(t, os.WriteFile(cut, buf.Bytes()[:buf.Len()-4], 0o644))
	_, err = ReadFile(cut)
	assert.True(t, errors.Is(err, gs.ErrTruncatedFile), "err = %v", err)

	_, err = DetectFormat(filepath.Join(dir, "missing.ply"))
	assert.Error(t, err)
}

func TestReadHugeDeclaredCounts(t *testing.T) {
	tests := []struct {
		name   string
		header *Header
	}{
		{"compressed", compressedHeader(1<<59+1<<58, gs.Degree0)},
		{"uncompressed", uncompressedHeader(1<<58, gs.Degree0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			_, err := tt.header.WriteTo(&buf)
			require.NoError(t, err)
			require.NotPanics(t, func() {
				_, err = ReadBytes(buf.Bytes())
			})
			assert.ErrorIs(t, err, gs.ErrTruncatedFile)
		})
	}
}

func TestCompressedPath(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"scene.ply", "scene.compressed.ply"},
		{"dir/scene.ply", "dir/scene.compressed.ply"},
		{"scene.compressed.ply", "scene.compressed.ply"},
		{"scene", "scene.compressed.ply"},
	}
	for _, tt := range tests {
		if got := CompressedPath(tt.in); got != tt.want {
			t.Errorf("CompressedPath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestLogging(t *testing.T) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)

	data, err := CompressToBytes(scene(t, 300, gs.Degree0, 7), WithLogger(logger))
	require.NoError(t, err)
	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, "compressed gaussians", entry.Message)
	assert.Equal(t, 300, entry.Data["gaussians"])
	assert.Equal(t, 2, entry.Data["chunks"])

	hook.Reset()
	_, err = DecompressFromBytes(data, WithLogger(logger))
	require.NoError(t, err)
	require.Len(t, hook.AllEntries(), 1)
	assert.Equal(t, "decompressed gaussians", hook.LastEntry().Message)
}
