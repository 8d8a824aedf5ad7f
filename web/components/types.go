package components

// Links are the two shareable URLs built from one configuration.
type Links struct {
	Edit string `json:"edit"`
	View string `json:"view"`
}
