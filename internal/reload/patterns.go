package reload

import "fmt"

// PatternList accepts either a single pattern string or an ordered list of
// patterns when decoded from YAML.
type PatternList []string

// UnmarshalYAML implements yaml.Unmarshaler.
func (p *PatternList) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var single string
	if err := unmarshal(&single); err == nil {
		*p = PatternList{single}
		return nil
	}

	var many []string
	if err := unmarshal(&many); err != nil {
		return fmt.Errorf("patterns must be a string or a list of strings: %w", err)
	}
	*p = PatternList(many)
	return nil
}
