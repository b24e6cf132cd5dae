package version

// Version is overridden at build time with -ldflags "-X github.com/bnema/diva/internal/version.Version=...".
var Version = "dev"
