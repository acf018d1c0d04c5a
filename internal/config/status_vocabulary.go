package config

import (
	_ "embed"
	"fmt"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/xavierca1/ligue-leads/internal/entity"
)

//go:embed status_vocabulary.yaml
var defaultVocabulary []byte

type vocabularyFile struct {
	Roles map[string][]string `yaml:"roles"`
}

// LoadStatusVocabulary returns the embedded vocabulary, or the one at path
// when path is set.
func LoadStatusVocabulary(path string) (entity.StatusVocabulary, error) {
	data := defaultVocabulary
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read status vocabulary: %w", err)
		}
		data = b
	}
	return ParseStatusVocabulary(data)
}

func ParseStatusVocabulary(data []byte) (entity.StatusVocabulary, error) {
	var f vocabularyFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse status vocabulary: %w", err)
	}

	for name := range f.Roles {
		if !slices.Contains(entity.Roles, entity.StatusRole(name)) {
			return nil, fmt.Errorf("parse status vocabulary: unknown role %q", name)
		}
	}

	vocab := entity.StatusVocabulary{}
	owner := map[string]entity.StatusRole{}
	for _, role := range entity.Roles {
		aliases, ok := f.Roles[string(role)]
		if !ok {
			continue
		}
		if len(aliases) == 0 {
			return nil, fmt.Errorf("parse status vocabulary: role %q has no labels", role)
		}
		for _, alias := range aliases {
			key := entity.FoldLabel(alias)
			if prev, taken := owner[key]; taken && prev != role {
				return nil, fmt.Errorf("parse status vocabulary: label %q is listed under both %q and %q", alias, prev, role)
			}
			owner[key] = role
		}
		vocab[role] = aliases
	}
	return vocab, nil
}
