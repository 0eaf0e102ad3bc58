package services

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Bucket is one band of a scheme: it starts at Lower (inclusive) and runs up
// to the next band's lower bound (exclusive). The last band is open-ended.
type Bucket struct {
	Lower float64 `yaml:"lower"`
	Label string  `yaml:"label"`
}

// BucketScheme is an ordered partition of a numeric domain. Band tables are
// configuration data: new schemes plug in without touching aggregation code.
type BucketScheme struct {
	Name    string   `yaml:"name"`
	Buckets []Bucket `yaml:"buckets"`
}

// Index returns the band v falls into, or -1 when v lies below the first
// lower bound. A value exactly on a boundary falls into the band starting
// there.
func (s BucketScheme) Index(v float64) int {
	for i := len(s.Buckets) - 1; i >= 0; i-- {
		if v >= s.Buckets[i].Lower {
			return i
		}
	}
	return -1
}

func (s BucketScheme) validate() error {
	if len(s.Buckets) == 0 {
		return fmt.Errorf("buckets: scheme %q has no bands", s.Name)
	}
	for i := 1; i < len(s.Buckets); i++ {
		if s.Buckets[i].Lower <= s.Buckets[i-1].Lower {
			return fmt.Errorf("buckets: scheme %q: bounds must be strictly ascending", s.Name)
		}
	}
	return nil
}

// BucketSchemes groups the two schemes the report uses.
type BucketSchemes struct {
	Spending BucketScheme
	Age      BucketScheme
}

// DefaultSchemes returns the built-in price and age bands.
func DefaultSchemes() BucketSchemes {
	return BucketSchemes{
		Spending: BucketScheme{
			Name: "spending",
			Buckets: []Bucket{
				{Lower: 0, Label: "Fino a € 24,99"},
				{Lower: 25, Label: "Da € 25,00 a € 49,99"},
				{Lower: 50, Label: "Da € 50,00 a € 74,99"},
				{Lower: 75, Label: "Da € 75,00 a € 99,99"},
				{Lower: 100, Label: "Oltre € 100,00"},
			},
		},
		Age: BucketScheme{
			Name: "age",
			Buckets: []Bucket{
				{Lower: 0, Label: "Fino a 17 anni"},
				{Lower: 18, Label: "Da 18 a 24 anni"},
				{Lower: 25, Label: "Da 25 a 34 anni"},
				{Lower: 35, Label: "Da 35 a 44 anni"},
				{Lower: 45, Label: "Da 45 a 54 anni"},
				{Lower: 55, Label: "Da 55 a 64 anni"},
				{Lower: 65, Label: "Oltre i 65 anni"},
			},
		},
	}
}

type bucketsFile struct {
	Schemes []BucketScheme `yaml:"schemes"`
}

// LoadSchemes reads scheme overrides from a YAML file. Schemes named
// "spending" or "age" replace the built-in ones; any other name is rejected.
// An empty path returns the defaults.
func LoadSchemes(path string) (BucketSchemes, error) {
	schemes := DefaultSchemes()
	if path == "" {
		return schemes, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return schemes, fmt.Errorf("buckets: read %s: %w", path, err)
	}

	var file bucketsFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return schemes, fmt.Errorf("buckets: parse %s: %w", path, err)
	}

	for _, s := range file.Schemes {
		if err := s.validate(); err != nil {
			return schemes, err
		}
		switch s.Name {
		case "spending":
			schemes.Spending = s
		case "age":
			schemes.Age = s
		default:
			return schemes, fmt.Errorf("buckets: unknown scheme %q in %s", s.Name, path)
		}
	}

	return schemes, nil
}
