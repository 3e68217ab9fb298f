package content

import (
	"fmt"
	"maps"
	"os"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	domain "github.com/bryanwahyu/image-evaluator/internal/domain/evaluation"
)

// Recommendations holds the two texts the generator chooses from.
type Recommendations struct {
	Praise  string `yaml:"praise"`
	Improve string `yaml:"improve"`
}

// Catalog is the static narrative attached to every record.
// It implements domain.ContentProvider.
type Catalog struct {
	Recommendations    Recommendations                          `yaml:"recommendations"`
	RealTimeAnalysis   string                                   `yaml:"realTimeAnalysis"`
	HistoricalAnalysis string                                   `yaml:"historicalAnalysis"`
	Regions            map[domain.Region]domain.RegionalInsight `yaml:"regions"`
	Metadata           map[string]string                        `yaml:"metadata"`
}

// yaml mirror of RegionalInsight, the domain type only carries json tags
type regionYAML struct {
	AudiencePerception string `yaml:"audiencePerception"`
	Geopol             string `yaml:"geopol"`
}

type catalogYAML struct {
	Recommendations    Recommendations       `yaml:"recommendations"`
	RealTimeAnalysis   string                `yaml:"realTimeAnalysis"`
	HistoricalAnalysis string                `yaml:"historicalAnalysis"`
	Regions            map[string]regionYAML `yaml:"regions"`
	Metadata           map[string]string     `yaml:"metadata"`
}

const noGeopolFlags = "No Geopol Flags identified"

// Default returns the built-in fox-photo narrative.
func Default() *Catalog {
	return &Catalog{
		Recommendations: Recommendations{
			Praise:  "Image quality is excellent",
			Improve: "Consider improving clarity and lighting",
		},
		RealTimeAnalysis:   "Research shows foxes are equally curious about human food sources regardless of whether they live in rural or urban settings.",
		HistoricalAnalysis: "Foxes are present in mythologies and folklores of various cultures, often associated with cunning, adaptability, and transformation.",
		Regions: map[domain.Region]domain.RegionalInsight{
			domain.RegionUnitedStates: {
				AudiencePerception: "Viewers will likely perceive the image as endearing, evoking positive emotional responses.",
				Geopol:             noGeopolFlags,
			},
			domain.RegionEurope: {
				AudiencePerception: "European viewers may associate the fox with folklore and cunning traits.",
				Geopol:             noGeopolFlags,
			},
			domain.RegionAsia: {
				AudiencePerception: "Asian viewers may link the fox to kitsune legends in Japanese culture.",
				Geopol:             noGeopolFlags,
			},
		},
		Metadata: map[string]string{
			"objects":              "two young foxes, mound of dirt, green plants",
			"foreground":           "two young foxes",
			"background":           "blurred vegetation, distant hillside",
			"resonatingObject":     "two young foxes",
			"colors":               "light brown, tan, cream, green",
			"dominant":             "green",
			"scene":                "wildlife in natural habitat",
			"context":              "nature",
			"theme":                "animals",
			"mood":                 "peaceful, natural",
			"action":               "standing together on a mound",
			"location":             "outdoor, wild area, possibly a forest edge or field",
			"season":               "spring or summer",
			"timeOfDay":            "daytime, likely morning or late afternoon",
			"geographicIndicators": "N/A",
		},
	}
}

// Load reads a YAML catalog and lays it over the defaults.
// An empty path returns the defaults.
func Load(path string) (*Catalog, error) {
	c := Default()
	if path == "" {
		return c, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	if err := c.Merge(data); err != nil {
		return nil, err
	}
	return c, nil
}

// Merge applies a YAML document on top of c. Empty values keep the current text.
func (c *Catalog) Merge(data []byte) error {
	var in catalogYAML
	if err := yaml.Unmarshal(data, &in); err != nil {
		return fmt.Errorf("parse catalog: %w", err)
	}

	setIf(&c.Recommendations.Praise, in.Recommendations.Praise)
	setIf(&c.Recommendations.Improve, in.Recommendations.Improve)
	setIf(&c.RealTimeAnalysis, in.RealTimeAnalysis)
	setIf(&c.HistoricalAnalysis, in.HistoricalAnalysis)

	if c.Regions == nil {
		c.Regions = map[domain.Region]domain.RegionalInsight{}
	}
	for name, r := range in.Regions {
		key := domain.Region(name)
		cur := c.Regions[key]
		setIf(&cur.AudiencePerception, r.AudiencePerception)
		setIf(&cur.Geopol, r.Geopol)
		c.Regions[key] = cur
	}

	if c.Metadata == nil {
		c.Metadata = map[string]string{}
	}
	for k, v := range in.Metadata {
		if strings.TrimSpace(v) != "" {
			c.Metadata[k] = v
		}
	}
	return c.Validate()
}

// Validate enforces the fixed region set and the fixed metadata key set.
func (c *Catalog) Validate() error {
	if len(c.Regions) != len(domain.Regions) {
		return fmt.Errorf("%w: catalog must describe exactly %d regions, got %d", domain.ErrInvalidArgument, len(domain.Regions), len(c.Regions))
	}
	for _, r := range domain.Regions {
		if _, ok := c.Regions[r]; !ok {
			return fmt.Errorf("%w: catalog is missing region %q", domain.ErrInvalidArgument, r)
		}
	}
	for k := range c.Metadata {
		if !slices.Contains(domain.MetadataKeys, k) {
			return fmt.Errorf("%w: unknown metadata attribute %q", domain.ErrInvalidArgument, k)
		}
	}
	for _, k := range domain.MetadataKeys {
		if _, ok := c.Metadata[k]; !ok {
			return fmt.Errorf("%w: catalog is missing metadata attribute %q", domain.ErrInvalidArgument, k)
		}
	}
	return nil
}

// Narrate implements domain.ContentProvider. The image is not inspected.
func (c *Catalog) Narrate(domain.ImageDescriptor) domain.Narrative {
	return domain.Narrative{
		Praise:             c.Recommendations.Praise,
		Improve:            c.Recommendations.Improve,
		RealTimeAnalysis:   c.RealTimeAnalysis,
		HistoricalAnalysis: c.HistoricalAnalysis,
		RegionalAnalysis:   maps.Clone(c.Regions),
		Metadata:           maps.Clone(c.Metadata),
	}
}

// YAML renders the catalog in the same shape Load reads.
func (c *Catalog) YAML() ([]byte, error) {
	out := catalogYAML{
		Recommendations:    c.Recommendations,
		RealTimeAnalysis:   c.RealTimeAnalysis,
		HistoricalAnalysis: c.HistoricalAnalysis,
		Regions:            make(map[string]regionYAML, len(c.Regions)),
		Metadata:           c.Metadata,
	}
	for k, v := range c.Regions {
		out.Regions[string(k)] = regionYAML{AudiencePerception: v.AudiencePerception, Geopol: v.Geopol}
	}
	return yaml.Marshal(out)
}

func setIf(dst *string, v string) {
	if strings.TrimSpace(v) != "" {
		*dst = v
	}
}
