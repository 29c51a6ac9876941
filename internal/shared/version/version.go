// # internal/shared/version/version.go
package version

// Version is overridden at build time with
// -ldflags "-X astral/internal/shared/version.Version=v1.2.3".
var Version = "dev"
