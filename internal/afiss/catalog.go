package afiss

import (
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// ErrUnknownFactor indicates a factor code missing from the catalog.
var ErrUnknownFactor = eris.New("afiss: unknown factor code")

// RiskFactor is a single catalogued site risk condition.
type RiskFactor struct {
	Code           string  `yaml:"code" json:"code"`
	Name           string  `yaml:"name" json:"name"`
	Domain         Domain  `yaml:"domain" json:"domain"`
	BasePercentage float64 `yaml:"base_percentage" json:"base_percentage"`
	Description    string  `yaml:"description,omitempty" json:"description,omitempty"`
}

// Catalog holds the risk factor library keyed by factor code.
type Catalog struct {
	factors map[string]RiskFactor
}

// catalogFile is the on-disk YAML layout.
type catalogFile struct {
	Factors []RiskFactor `yaml:"factors"`
}

// LoadCatalog reads a factor catalog from a YAML file.
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "afiss: read catalog %s", path)
	}
	return ParseCatalog(data)
}

// ParseCatalog parses a factor catalog from YAML bytes.
func ParseCatalog(data []byte) (*Catalog, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, eris.Wrap(err, "afiss: parse catalog")
	}

	validDomains := map[Domain]bool{}
	for _, d := range Domains() {
		validDomains[d] = true
	}

	factors := make(map[string]RiskFactor, len(file.Factors))
	for _, f := range file.Factors {
		code := strings.ToUpper(strings.TrimSpace(f.Code))
		if code == "" {
			return nil, eris.Wrap(ErrConfig, "catalog factor with empty code")
		}
		if !validDomains[f.Domain] {
			return nil, eris.Wrapf(ErrConfig, "catalog factor %s has unknown domain %q", code, f.Domain)
		}
		if f.BasePercentage < 0 || f.BasePercentage > 100 {
			return nil, eris.Wrapf(ErrConfig, "catalog factor %s percentage %.2f not in [0, 100]", code, f.BasePercentage)
		}
		if _, dup := factors[code]; dup {
			return nil, eris.Wrapf(ErrConfig, "catalog factor %s defined twice", code)
		}
		f.Code = code
		factors[code] = f
	}

	return &Catalog{factors: factors}, nil
}

// Len returns the number of catalogued factors.
func (c *Catalog) Len() int {
	return len(c.factors)
}

// Factor looks up a factor by code.
func (c *Catalog) Factor(code string) (RiskFactor, bool) {
	f, ok := c.factors[strings.ToUpper(strings.TrimSpace(code))]
	return f, ok
}

// DomainScores sums the base percentages of the given triggered factor
// codes per domain. Stacked factors saturate at 100 within a domain.
func (c *Catalog) DomainScores(codes []string) (DomainScores, error) {
	sums := map[Domain]float64{}
	for _, code := range codes {
		f, ok := c.Factor(code)
		if !ok {
			return DomainScores{}, eris.Wrapf(ErrUnknownFactor, "%s", code)
		}
		sums[f.Domain] += f.BasePercentage
	}

	cap100 := func(v float64) float64 {
		if v > 100 {
			return 100
		}
		return v
	}

	return DomainScores{
		Access:         cap100(sums[DomainAccess]),
		FallZone:       cap100(sums[DomainFallZone]),
		Interference:   cap100(sums[DomainInterference]),
		Severity:       cap100(sums[DomainSeverity]),
		SiteConditions: cap100(sums[DomainSiteConditions]),
	}, nil
}
