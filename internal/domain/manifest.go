package domain

// Manifest is the static application metadata shown in the header and
// reported by --version.
type Manifest struct {
	Name        string
	ShortName   string
	Version     string
	Description string
	ThemeColor  string
	Background  string
}

// AppManifest describes coinboard
var AppManifest = Manifest{
	Name:        "Crypto Prices",
	ShortName:   "coinboard",
	Version:     "0.1.0",
	Description: "Track cryptocurrency prices",
	ThemeColor:  "#FACC15",
	Background:  "#FFFFFF",
}

// UserAgent identifies the app to the market API
func (m Manifest) UserAgent() string {
	return m.ShortName + "/" + m.Version
}
