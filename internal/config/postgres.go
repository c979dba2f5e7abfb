package config

// PostgresConfig points the optional postgres storage backend at its
// database.
type PostgresConfig struct {
	Addr string `yaml:"host"`
	Name string `yaml:"db"`
	User string `yaml:"username"`
	Pass string `yaml:"password"`
}

func (s *PostgresConfig) Host() string {
	return s.Addr
}

func (s *PostgresConfig) Database() string {
	return s.Name
}

func (s *PostgresConfig) Username() string {
	return s.User
}

func (s *PostgresConfig) Password() string {
	return s.Pass
}
