package config

type MailConfig struct {
	MailEndpoint string `yaml:"endpoint"`
	MailApiKey   string `yaml:"api-key"`
	ToAddress    string `yaml:"to"`
}

func (m *MailConfig) Endpoint() string {
	return m.MailEndpoint
}

func (m *MailConfig) ApiKey() string {
	return m.MailApiKey
}

func (m *MailConfig) To() string {
	return m.ToAddress
}
