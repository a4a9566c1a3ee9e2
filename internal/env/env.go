package env

// Set at build time through -ldflags "-X".
var (
	AppName    = "mediadecoder"
	Version    = "dev"
	CommitHash = "unknown"
	BuildTime  = "unknown"
)
