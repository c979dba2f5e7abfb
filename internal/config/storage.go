package config

const (
	BackendFile     = "file"
	BackendPostgres = "postgres"
)

type StorageConfig struct {
	BackendName string `yaml:"backend"`
	DataFile    string `yaml:"file"`
}

func (s *StorageConfig) Backend() string {
	if s.BackendName == "" {
		return BackendFile
	}
	return s.BackendName
}

func (s *StorageConfig) FilePath() string {
	if s.DataFile == "" {
		return "data/expenses.json"
	}
	return s.DataFile
}
