// Package config centralizes defaults and user-tunable settings for the
// dataset preparation commands: accepted aspect ratios with their canonical
// target resolutions, sizing constraints, processing behavior, captioning
// defaults and upload destinations.
package config

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// Shape is a canonical target resolution for an aspect-ratio label.
type Shape struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// Aspect returns the shape's width/height ratio.
func (s Shape) Aspect() float64 {
	return float64(s.Width) / float64(s.Height)
}

// Constraints holds optional min/max dimension bounds applied before
// cropping or letterboxing. Zero means unset here; the CLI converts these to
// the geometry package's optional fields.
type Constraints struct {
	MinWidth     int  `yaml:"min_width"`
	MinHeight    int  `yaml:"min_height"`
	MaxWidth     int  `yaml:"max_width"`
	MaxHeight    int  `yaml:"max_height"`
	AllowUpscale bool `yaml:"allow_upscale"`
}

// Behavior holds processing toggles shared by the batch commands.
type Behavior struct {
	Overwrite   bool   `yaml:"overwrite"`
	DryRun      bool   `yaml:"dry_run"`
	Letterbox   bool   `yaml:"letterbox"`
	Resample    string `yaml:"resample"`
	JPEGQuality int    `yaml:"jpeg_quality"`
	WebPQuality int    `yaml:"webp_quality"`
}

// Caption holds defaults for automated captioning via a vision model.
type Caption struct {
	Host         string `yaml:"host"`
	Model        string `yaml:"model"`
	MaxTokens    int    `yaml:"max_tokens"`
	SystemPrompt string `yaml:"system_prompt"`
	UserPrompt   string `yaml:"user_prompt"`
}

// Upload holds defaults for pushing prepared datasets to remote storage.
type Upload struct {
	Bucket   string `yaml:"bucket"`
	Region   string `yaml:"region"`
	Endpoint string `yaml:"endpoint"`
	Prefix   string `yaml:"prefix"`
}

// Config is the top-level configuration container.
type Config struct {
	Shapes      map[string]Shape `yaml:"shapes"`
	Constraints Constraints      `yaml:"constraints"`
	Behavior    Behavior         `yaml:"behavior"`
	Caption     Caption          `yaml:"caption"`
	Upload      Upload           `yaml:"upload"`
}

// Default returns a configuration with default values. Shape resolutions are
// multiples of 64 aligned with common Stable Diffusion LoRA training presets.
func Default() *Config {
	return &Config{
		Shapes: map[string]Shape{
			"1:1": {1024, 1024},
			// Portraits
			"3:4":  {896, 1152},
			"5:8":  {832, 1216},
			"9:16": {768, 1344},
			"9:21": {640, 1536},
			// Landscapes (reverse orientations)
			"4:3":  {1152, 896},
			"8:5":  {1216, 832},
			"16:9": {1344, 768},
			"21:9": {1536, 640},
		},
		Constraints: Constraints{AllowUpscale: true},
		Behavior: Behavior{
			Resample:    "lanczos",
			JPEGQuality: 95,
			WebPQuality: 95,
		},
		Caption: Caption{
			Host:      "http://127.0.0.1:11434",
			Model:     "qwen2.5vl",
			MaxTokens: 1024,
			SystemPrompt: "You are an expert image captioner for training datasets. " +
				"Write a detailed, natural-language description of the visible content " +
				"as one continuous line. Do not include labels or sections such as " +
				"'Subject:' or 'Style:', and do not use lists or headings. Avoid opinions, " +
				"names, or private data. Do not output any newline or tab characters.",
			UserPrompt: "Describe this image as one detailed natural-language caption. " +
				"Weave visual attributes (subject, setting, lighting, style, composition) " +
				"into the caption without using labels or lists. Do not output newlines or tabs.",
		},
		Upload: Upload{
			Region: "auto",
			Prefix: "datasets/",
		},
	}
}

// Load reads a YAML configuration file on top of the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration to a YAML file.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Validate checks if the configuration is usable.
func (c *Config) Validate() error {
	if len(c.Shapes) == 0 {
		return fmt.Errorf("shapes cannot be empty")
	}
	for label, shape := range c.Shapes {
		if shape.Width <= 0 || shape.Height <= 0 {
			return fmt.Errorf("shape %q has non-positive dimensions %dx%d", label, shape.Width, shape.Height)
		}
	}
	for name, v := range map[string]int{
		"constraints.min_width":  c.Constraints.MinWidth,
		"constraints.min_height": c.Constraints.MinHeight,
		"constraints.max_width":  c.Constraints.MaxWidth,
		"constraints.max_height": c.Constraints.MaxHeight,
	} {
		if v < 0 {
			return fmt.Errorf("%s must not be negative", name)
		}
	}
	if q := c.Behavior.JPEGQuality; q < 1 || q > 100 {
		return fmt.Errorf("behavior.jpeg_quality must be between 1 and 100")
	}
	if q := c.Behavior.WebPQuality; q < 1 || q > 100 {
		return fmt.Errorf("behavior.webp_quality must be between 1 and 100")
	}
	if c.Caption.MaxTokens < 1 {
		return fmt.Errorf("caption.max_tokens must be positive")
	}
	return nil
}

// ResolveShape looks up a shape label such as "1:1" or "16:9".
func (c *Config) ResolveShape(label string) (Shape, error) {
	shape, ok := c.Shapes[label]
	if !ok {
		return Shape{}, fmt.Errorf("unknown shape %q, choose from: %v", label, c.ShapeLabels())
	}
	return shape, nil
}

// ShapeLabels returns the accepted shape labels in sorted order.
func (c *Config) ShapeLabels() []string {
	labels := make([]string, 0, len(c.Shapes))
	for label := range c.Shapes {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	return labels
}
