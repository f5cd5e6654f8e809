package catalogs

// ProviderID is the stable, lowercase slug identifying a provider.
type ProviderID string

// String returns the string representation of a ProviderID.
func (pid ProviderID) String() string {
	return string(pid)
}

// Provider describes an external source of catalog items.
type Provider struct {
	ID        ProviderID `json:"id" yaml:"id"`               // Unique provider slug
	Name      string     `json:"name" yaml:"name"`           // Display name
	Region    string     `json:"region" yaml:"region"`       // Serving region, e.g. "Global"
	SourceURL string     `json:"sourceUrl" yaml:"sourceUrl"` // Provider homepage
}
