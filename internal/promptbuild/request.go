package promptbuild

// Request is the file/flag form of a Selection. Numeric levels use the values
// shown to the user (stylize 500, chaos 25), not radio indices.
type Request struct {
	Text         string   `yaml:"text,omitempty" json:"text,omitempty"`
	Style        string   `yaml:"style,omitempty" json:"style,omitempty"`
	NoPeople     bool     `yaml:"no_people,omitempty" json:"no_people,omitempty"`
	TShirtVector bool     `yaml:"tshirt_vector,omitempty" json:"tshirt_vector,omitempty"`
	LogoVector   bool     `yaml:"logo_vector,omitempty" json:"logo_vector,omitempty"`
	Draft        bool     `yaml:"draft,omitempty" json:"draft,omitempty"`
	Mode         string   `yaml:"mode,omitempty" json:"mode,omitempty"`
	Stylize      *int     `yaml:"stylize,omitempty" json:"stylize,omitempty"`
	Chaos        *int     `yaml:"chaos,omitempty" json:"chaos,omitempty"`
	Repeat       string   `yaml:"repeat,omitempty" json:"repeat,omitempty"`
	Advanced     Advanced `yaml:"advanced,omitempty" json:"advanced,omitempty"`
}
