package config

// Backend configures the task backend CLI.
type Backend struct {
	Binary     string `yaml:"binary"`
	StatsLines int    `yaml:"stats_lines"`
}

// Host configures how the controller talks to the agent runtime.
type Host struct {
	Kind    string `yaml:"kind"`
	URL     string `yaml:"url"`
	Service string `yaml:"service"`
}

// Notify configures the desktop notification fired on completion.
type Notify struct {
	Enabled bool   `yaml:"enabled"`
	Title   string `yaml:"title"`
}

// Log configures local diagnostics.
type Log struct {
	Level string `yaml:"level"`
}

// Config represents the .opencode/openspec-loop.yaml file.
type Config struct {
	Backend Backend `yaml:"backend"`
	Host    Host    `yaml:"host"`
	Notify  Notify  `yaml:"notify"`
	Log     Log     `yaml:"log"`
}

// Host kinds.
const (
	HostOpenCode = "opencode"
	HostHook     = "hook"
)
