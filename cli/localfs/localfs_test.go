//
// Copyright (c) 2025 the esp32-micropython authors
// All rights reserved
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
//
package localfs_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/esp32-micropython/esp32/cli/localfs"
	"github.com/esp32-micropython/esp32/cli/transfer"
)

func TestKind(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.py"), []byte("pass\n"), 0644))

	var lfs localfs.FS
	ctx := context.Background()

	kind, err := lfs.Kind(ctx, filepath.ToSlash(filepath.Join(dir, "a.py")))
	require.NoError(t, err)
	assert.Equal(t, transfer.KindFile, kind)

	kind, err = lfs.Kind(ctx, filepath.ToSlash(dir))
	require.NoError(t, err)
	assert.Equal(t, transfer.KindDir, kind)

	kind, err = lfs.Kind(ctx, filepath.ToSlash(filepath.Join(dir, "nope")))
	require.NoError(t, err)
	assert.Equal(t, transfer.KindMissing, kind)
}

func TestListRecursive(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "sub", "deep"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "top.py"), nil, 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sub", "deep", "leaf.py"), nil, 0644))

	var lfs localfs.FS
	entries, err := lfs.ListRecursive(context.Background(), filepath.ToSlash(dir))
	require.NoError(t, err)

	got := map[string]bool{}
	for _, e := range entries {
		got[e.Rel] = e.Dir
	}
	assert.Equal(t, map[string]bool{
		"top.py":           false,
		"sub":              true,
		"sub/deep":         true,
		"sub/deep/leaf.py": false,
	}, got)
}

func TestMkdirAllIdempotent(t *testing.T) {
	dir := t.TempDir()
	target := filepath.ToSlash(filepath.Join(dir, "a", "b", "c"))

	var lfs localfs.FS
	ctx := context.Background()
	require.NoError(t, lfs.MkdirAll(ctx, target))
	require.NoError(t, lfs.MkdirAll(ctx, target))

	kind, err := lfs.Kind(ctx, target)
	require.NoError(t, err)
	assert.Equal(t, transfer.KindDir, kind)
}
