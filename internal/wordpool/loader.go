package wordpool

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ReadListFile reads custom word lists from a YAML file of the form
//
//	street:
//	  beginner: [grip, hood, real]
//	love:
//	  advanced: [devotion, enamored]
//
// Only the listed pairs are returned; combine with Pool.With.
func ReadListFile(filename string) (map[Theme]map[Difficulty][]string, error) {
	content, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read word list file: %w", err)
	}

	return ParseLists(content)
}

// ParseLists decodes YAML word lists
func ParseLists(content []byte) (map[Theme]map[Difficulty][]string, error) {
	var raw map[string]map[string][]string
	if err := yaml.Unmarshal(content, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse word list: %w", err)
	}

	lists := make(map[Theme]map[Difficulty][]string, len(raw))
	for themeName, byDifficulty := range raw {
		theme, err := ParseTheme(themeName)
		if err != nil {
			return nil, err
		}
		if lists[theme] == nil {
			lists[theme] = make(map[Difficulty][]string, len(byDifficulty))
		}
		for difficultyName, words := range byDifficulty {
			difficulty, err := ParseDifficulty(difficultyName)
			if err != nil {
				return nil, err
			}
			lists[theme][difficulty] = words
		}
	}

	return lists, nil
}

// Load returns the bundled pool, replaced by the lists in filename when
// it is not empty. The resulting pool must cover every pair.
func Load(filename string) (*Pool, error) {
	pool := Default()
	if filename == "" {
		return pool, nil
	}

	lists, err := ReadListFile(filename)
	if err != nil {
		return nil, err
	}

	pool, err = pool.With(lists)
	if err != nil {
		return nil, err
	}

	if err := pool.Validate(); err != nil {
		return nil, fmt.Errorf("invalid word list file %s: %w", filename, err)
	}

	return pool, nil
}
