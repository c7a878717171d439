package types

// AppConfig represents the application configuration loaded from the config file.
type AppConfig struct {
	Alias            string `yaml:"alias"`
	ControlPort      int    `yaml:"controlPort"`
	Announce         bool   `yaml:"announce"`
	MulticastAddress string `yaml:"multicastAddress"`
	MulticastPort    int    `yaml:"multicastPort"`
	DrainSeconds     int    `yaml:"drainSeconds"` // how long stop waits for in-flight downloads
	LogMode          string `yaml:"logMode"`      // dev|prod|none
}
