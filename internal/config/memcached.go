package config

// MemcachedConfig lists the nodes the report cache talks to.
type MemcachedConfig struct {
	CacheHosts []string `yaml:"hosts"`
}

func (s *MemcachedConfig) Hosts() []string {
	return s.CacheHosts
}
