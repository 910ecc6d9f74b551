// Package version reports the build version of svcreg binaries.
//
// Version, git commit, branch and build time are set at compile time
// via -ldflags, falling back to the module build info:
//
//	go build -ldflags "-X github.com/kbukum/svcreg/version.Version=1.0.0" ./cmd/svcreg
package version
