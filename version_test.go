package ndwrap

import (
	"runtime/debug"
	"testing"
)

func TestModuleVersion(t *testing.T) {
	other := &debug.Module{Path: "gonum.org/v1/gonum", Version: "v0.16.0", Sum: "h1:gonum"}
	dep := func(replace *debug.Module) *debug.Module {
		return &debug.Module{Path: root, Version: "v1.2.0", Sum: "h1:dep", Replace: replace}
	}

	tests := []struct {
		name    string
		info    debug.BuildInfo
		version string
		sum     string
	}{
		{
			name:    "main module",
			info:    debug.BuildInfo{Main: debug.Module{Path: root, Version: "(devel)"}},
			version: "(devel)",
		},
		{
			name:    "dependency",
			info:    debug.BuildInfo{Deps: []*debug.Module{other, dep(nil)}},
			version: "v1.2.0",
			sum:     "h1:dep",
		},
		{
			name:    "replaced by module version",
			info:    debug.BuildInfo{Deps: []*debug.Module{dep(&debug.Module{Path: "example.com/fork", Version: "v1.3.0", Sum: "h1:fork"})}},
			version: "v1.2.0=>example.com/fork v1.3.0",
			sum:     "h1:fork",
		},
		{
			name:    "replaced by version",
			info:    debug.BuildInfo{Deps: []*debug.Module{dep(&debug.Module{Version: "v1.1.0", Sum: "h1:old"})}},
			version: "v1.2.0=>v1.1.0",
			sum:     "h1:old",
		},
		{
			name:    "replaced by directory",
			info:    debug.BuildInfo{Deps: []*debug.Module{dep(&debug.Module{Path: "../ndwrap"})}},
			version: "v1.2.0=>../ndwrap",
		},
		{
			name:    "empty replacement",
			info:    debug.BuildInfo{Deps: []*debug.Module{dep(&debug.Module{})}},
			version: "v1.2.0*",
			sum:     "h1:dep*",
		},
		{
			name: "absent",
			info: debug.BuildInfo{Main: debug.Module{Path: "example.com/app"}, Deps: []*debug.Module{other}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			version, sum := moduleVersion(&tt.info)
			if version != tt.version || sum != tt.sum {
				t.Errorf("moduleVersion() = (%q, %q), want (%q, %q)", version, sum, tt.version, tt.sum)
			}
		})
	}
}
