package config

// User represents a user with their public key and language grants.
type User struct {
	Name       string          `yaml:"name"`
	PublicKeys []string        `yaml:"public_keys"`
	Admin      bool            `yaml:"admin"`
	Languages []LanguageGrant `yaml:"languages"`
}

// LanguageGrant grants an access level to languages matching a pattern.
// Patterns use glob syntax against language tags, e.g. "eng", "n*", "*".
type LanguageGrant struct {
	Pattern string `yaml:"pattern"`
	Level   string `yaml:"level"`
}

// PublicLanguage defines a language grant that applies to all
// authenticated users.
type PublicLanguage struct {
	Pattern string `yaml:"pattern"`
	Level   string `yaml:"level"`
}
