package file

import "strings"

// EnvPrefix prefixes every environment override.
const EnvPrefix = "CONTENT_AUTOMATION_"

// providerKeyEnv maps the providers' own variables onto the API key.
var providerKeyEnv = map[string]string{
	"ANTHROPIC_API_KEY": "anthropic",
	"OPENAI_API_KEY":    "openai",
}

// ApplyEnv applies environment overrides to the store. Variables look like
// CONTENT_AUTOMATION_LLM_PROVIDER; the first underscore after the prefix
// separates the section from the key, so that one maps to llm.provider.
// ANTHROPIC_API_KEY and OPENAI_API_KEY fill llm.api_key when it is empty
// and the matching provider is selected.
//
// It returns the config keys that were overridden.
func ApplyEnv(store *ConfigStore, environ []string) []string {
	var applied []string
	providerKeys := make(map[string]string)

	for _, kv := range environ {
		name, value, ok := strings.Cut(kv, "=")
		if !ok || value == "" {
			continue
		}
		if provider, isKey := providerKeyEnv[name]; isKey {
			providerKeys[provider] = value
			continue
		}
		key, ok := envKey(name)
		if !ok {
			continue
		}
		store.SetOverride(key, value)
		applied = append(applied, key)
	}

	if store.GetString("llm.api_key") == "" {
		if apiKey, ok := providerKeys[store.GetString("llm.provider")]; ok {
			store.SetOverride("llm.api_key", apiKey)
			applied = append(applied, "llm.api_key")
		}
	}
	return applied
}

// envKey converts CONTENT_AUTOMATION_SESSION_SWEEP_INTERVAL to session.sweep_interval.
func envKey(name string) (string, bool) {
	rest, ok := strings.CutPrefix(name, EnvPrefix)
	if !ok || rest == "" {
		return "", false
	}
	section, key, ok := strings.Cut(strings.ToLower(rest), "_")
	if !ok || section == "" || key == "" {
		return "", false
	}
	return section + "." + key, true
}
