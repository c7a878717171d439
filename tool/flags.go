package tool

import "flag"

// Flags holds runtime overrides from CLI flags.
type Flags struct {
	Log              string
	UseConfigPath    string
	UseControlPort   int
	UseAlias         string
	UseMulticastAddr string
	UseMulticastPort int
	SkipAnnounce     bool
	SharePaths       []string // share these paths immediately at startup
}

// SetFlags parses CLI flags and returns the override config.
// Positional arguments are treated as paths to share at startup.
func SetFlags() Flags {
	var cfg Flags
	flag.StringVar(&cfg.Log, "log", "", "log mode: dev|prod|none")
	flag.StringVar(&cfg.UseConfigPath, "useConfigPath", "", "override config file path")
	flag.IntVar(&cfg.UseControlPort, "useControlPort", 0, "override control API port")
	flag.StringVar(&cfg.UseAlias, "useAlias", "", "specify alias for this device")
	flag.StringVar(&cfg.UseMulticastAddr, "useMulticastAddress", "", "override multicast announce address")
	flag.IntVar(&cfg.UseMulticastPort, "useMulticastPort", 0, "override multicast announce port")
	flag.BoolVar(&cfg.SkipAnnounce, "skipAnnounce", false, "do not announce active shares over multicast")
	flag.Parse()
	cfg.SharePaths = flag.Args()
	return cfg
}
