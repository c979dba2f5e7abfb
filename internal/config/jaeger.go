package config

type JaegerConfig struct {
	Agent string `yaml:"agent-host-port"`
}

func (j *JaegerConfig) AgentHostPort() string {
	return j.Agent
}
