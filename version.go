// Copyright ©2019 The Gonum Authors. All rights reserved.
// Copyright ©2024 The GUDA Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ndwrap

import (
	"fmt"
	"runtime/debug"
)

const root = "github.com/LynnColeArt/ndwrap"

// Version returns the version of ndwrap and its checksum. The returned
// values are only valid in binaries built with module support.
//
// The exact version format returned by Version may change in future.
func Version() (version, sum string) {
	b, ok := debug.ReadBuildInfo()
	if !ok {
		return "", ""
	}
	return moduleVersion(b)
}

// moduleVersion finds ndwrap in b, either as the main module (ndcheck
// built from this repository) or as a dependency, possibly replaced.
func moduleVersion(b *debug.BuildInfo) (version, sum string) {
	if b.Main.Path == root {
		return b.Main.Version, b.Main.Sum
	}
	for _, m := range b.Deps {
		if m.Path != root {
			continue
		}
		r := m.Replace
		switch {
		case r == nil:
			return m.Version, m.Sum
		case r.Version != "" && r.Path != "":
			return fmt.Sprintf("%s=>%s %s", m.Version, r.Path, r.Version), r.Sum
		case r.Version != "":
			return fmt.Sprintf("%s=>%s", m.Version, r.Version), r.Sum
		case r.Path != "":
			return fmt.Sprintf("%s=>%s", m.Version, r.Path), r.Sum
		default:
			return m.Version + "*", m.Sum + "*"
		}
	}
	return "", ""
}
