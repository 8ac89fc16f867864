package config

import (
	"fmt"
	"os"

	gaconfig "github.com/JaimeStill/go-agents/pkg/config"
)

const (
	EnvAgentProviderName = "INKWELL_AGENT_PROVIDER_NAME"
	EnvAgentBaseURL      = "INKWELL_AGENT_BASE_URL"
	EnvAgentToken        = "INKWELL_AGENT_TOKEN"
	EnvAgentDeployment   = "INKWELL_AGENT_DEPLOYMENT"
	EnvAgentAPIVersion   = "INKWELL_AGENT_API_VERSION"
	EnvAgentAuthType     = "INKWELL_AGENT_AUTH_TYPE"
	EnvAgentModelName    = "INKWELL_AGENT_MODEL_NAME"
)

// FinalizeAgent applies the service's three-phase finalize pattern to a
// go-agents AgentConfig: defaults from go-agents DefaultAgentConfig,
// environment variable overrides, and validation. The provider and model
// live under the agent's transport configuration.
func FinalizeAgent(c *gaconfig.AgentConfig) error {
	loadAgentDefaults(c)
	loadAgentEnv(c)
	return validateAgent(c)
}

func loadAgentDefaults(c *gaconfig.AgentConfig) {
	defaults := gaconfig.DefaultAgentConfig()
	defaults.Merge(c)
	*c = defaults
}

func loadAgentEnv(c *gaconfig.AgentConfig) {
	if c.Transport == nil {
		c.Transport = gaconfig.DefaultTransportConfig()
	}
	if c.Transport.Provider == nil {
		c.Transport.Provider = gaconfig.DefaultProviderConfig()
	}

	provider := c.Transport.Provider
	if provider.Options == nil {
		provider.Options = make(map[string]any)
	}
	if provider.Model == nil {
		provider.Model = gaconfig.DefaultModelConfig()
	}

	if v := os.Getenv(EnvAgentProviderName); v != "" {
		provider.Name = v
	}
	if v := os.Getenv(EnvAgentBaseURL); v != "" {
		provider.BaseURL = v
	}
	if v := os.Getenv(EnvAgentModelName); v != "" {
		provider.Model.Name = v
	}

	setOption := func(envVar, key string) {
		if v := os.Getenv(envVar); v != "" {
			provider.Options[key] = v
		}
	}

	setOption(EnvAgentToken, "token")
	setOption(EnvAgentDeployment, "deployment")
	setOption(EnvAgentAPIVersion, "api_version")
	setOption(EnvAgentAuthType, "auth_type")
}

func validateAgent(c *gaconfig.AgentConfig) error {
	if c.Name == "" {
		return fmt.Errorf("name required")
	}
	if c.Transport == nil {
		return fmt.Errorf("transport required")
	}
	if c.Transport.Provider == nil {
		return fmt.Errorf("provider required")
	}
	if c.Transport.Provider.Name == "" {
		return fmt.Errorf("provider name required")
	}
	if c.Transport.Provider.Model == nil {
		return fmt.Errorf("model required")
	}
	return nil
}
