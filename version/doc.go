// Package version exposes build metadata set through ldflags:
//
//	go build -ldflags "-X github.com/ncobase/remind/version.Version=1.2.0 \
//	  -X github.com/ncobase/remind/version.Revision=$(git rev-parse --short HEAD)"
//
// Unset values fall back to the VCS stamp recorded by the Go toolchain.
package version
