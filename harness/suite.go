package harness

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"redfin-harness/models"
	"redfin-harness/utils"
)

//go:embed suites/redfin.yaml
var defaultSuite []byte

// Suite is a named list of scrape cases.
type Suite struct {
	Name  string `yaml:"name"`
	Cases []Case `yaml:"cases"`
}

// Case is one scrape invocation and its expectations.
type Case struct {
	Name string      `yaml:"name"`
	Mode models.Mode `yaml:"mode"`
	URLs []string    `yaml:"urls"`
	// MinCount raises the mode's minimum batch size. It never lowers it.
	MinCount int `yaml:"min_count,omitempty"`
}

func (c Case) minCount() int {
	return max(c.MinCount, c.Mode.MinCount())
}

// LoadSuite reads and validates a suite file.
func LoadSuite(path string) (*Suite, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read suite: %w", err)
	}
	s, err := ParseSuite(data)
	if err != nil {
		return nil, fmt.Errorf("suite %s: %w", path, err)
	}
	return s, nil
}

// ParseSuite decodes and validates suite YAML.
func ParseSuite(data []byte) (*Suite, error) {
	var s Suite
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// DefaultSuite returns the built-in Seattle sale, rent and search cases.
func DefaultSuite() *Suite {
	s, err := ParseSuite(defaultSuite)
	if err != nil {
		panic(fmt.Sprintf("harness: embedded suite is invalid: %v", err))
	}
	return s
}

// Validate normalizes case modes and checks names, URLs and counts.
func (s *Suite) Validate() error {
	if len(s.Cases) == 0 {
		return errors.New("suite has no cases")
	}

	var errs []error
	names := make(map[string]struct{}, len(s.Cases))
	for i := range s.Cases {
		c := &s.Cases[i]

		if c.Name == "" {
			errs = append(errs, fmt.Errorf("case %d: name is required", i))
		} else if _, dup := names[c.Name]; dup {
			errs = append(errs, fmt.Errorf("case %q: duplicate name", c.Name))
		}
		names[c.Name] = struct{}{}

		mode, err := models.ParseMode(string(c.Mode))
		if err != nil {
			errs = append(errs, fmt.Errorf("case %q: %w", c.Name, err))
			continue
		}
		c.Mode = mode

		if err := checkInput(c.Mode, c.URLs); err != nil {
			errs = append(errs, fmt.Errorf("case %q: %w", c.Name, err))
		}

		seen := utils.NewURLSet()
		for _, u := range c.URLs {
			if seen.Contains(u) {
				errs = append(errs, fmt.Errorf("case %q: duplicate url %s", c.Name, u))
				continue
			}
			seen.Add(u)
		}

		if c.MinCount < 0 {
			errs = append(errs, fmt.Errorf("case %q: min_count must not be negative", c.Name))
		} else if c.MinCount > 0 && c.MinCount < c.Mode.MinCount() {
			errs = append(errs, fmt.Errorf("case %q: min_count %d is below the %s minimum of %d",
				c.Name, c.MinCount, c.Mode, c.Mode.MinCount()))
		}
	}
	return errors.Join(errs...)
}

// Case returns the case with the given name.
func (s *Suite) Case(name string) (Case, bool) {
	for _, c := range s.Cases {
		if c.Name == name {
			return c, true
		}
	}
	return Case{}, false
}
