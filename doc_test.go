// Copyright 2024 The gmc500 Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gmc500

import (
	"runtime/debug"
	"testing"
)

func TestVersionOf(t *testing.T) {
	for _, tc := range []struct {
		name    string
		info    *debug.BuildInfo
		version string
		sum     string
	}{
		{
			name: "nil-info",
		},
		{
			name: "no-deps",
			info: &debug.BuildInfo{},
		},
		{
			name: "regular-dep",
			info: &debug.BuildInfo{
				Deps: []*debug.Module{
					{
						Path:    "github.com/martinheinrich2/gmc500",
						Version: "v0.1.0",
						Sum:     "h1:deadbeef",
					},
				},
			},
			version: "v0.1.0",
			sum:     "h1:deadbeef",
		},
		{
			name: "replaced-dep",
			info: &debug.BuildInfo{
				Deps: []*debug.Module{
					{
						Path:    "github.com/martinheinrich2/gmc500",
						Version: "v0.1.0",
						Replace: &debug.Module{},
					},
				},
			},
			version: "v0.1.0*",
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			version, sum := versionOf(tc.info)
			if got, want := version, tc.version; got != want {
				t.Errorf("invalid version: got=%q, want=%q", got, want)
			}
			if got, want := sum, tc.sum; got != want {
				t.Errorf("invalid sum: got=%q, want=%q", got, want)
			}
		})
	}
}
