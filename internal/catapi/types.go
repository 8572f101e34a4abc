package catapi

// Image mirrors one element of the /v1/images/search payload.
type Image struct {
	ID     string  `json:"id"`
	URL    string  `json:"url"`
	Width  int     `json:"width"`
	Height int     `json:"height"`
	Breeds []Breed `json:"breeds,omitempty"`
}

// Breed mirrors an element of /v1/breeds/search.
type Breed struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Temperament string `json:"temperament"`
	Origin      string `json:"origin"`
	Description string `json:"description"`
}

// SearchQuery configures /v1/images/search requests.
type SearchQuery struct {
	Limit     int
	MimeTypes string // comma-separated, e.g. "jpg,png"
	BreedIDs  string
	Size      string // "small", "med", "full"
}
