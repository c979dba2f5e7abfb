package config

const defaultTopCount = 3

type AppConfig struct {
	TopCount int `yaml:"top-expenses-count"`
}

// TopExpensesCount is the ranking size used by the /top command when the
// user does not ask for a specific one.
func (s *AppConfig) TopExpensesCount() int {
	if s.TopCount <= 0 {
		return defaultTopCount
	}
	return s.TopCount
}
