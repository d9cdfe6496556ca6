package version

// Build information set by ldflags
var (
	Version = "dev"     // -X github.com/citizenwiki/locmerge/internal/version.Version={{.Version}}
	Commit  = "unknown" // -X github.com/citizenwiki/locmerge/internal/version.Commit={{.Commit}}
	Date    = "unknown" // -X github.com/citizenwiki/locmerge/internal/version.Date={{.Date}}
)
