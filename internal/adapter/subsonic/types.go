package subsonic

// envelope is the top-level wrapper of every JSON response.
type envelope struct {
	Response *response `json:"subsonic-response"`
}

type response struct {
	Status        string         `json:"status"`
	Version       string         `json:"version"`
	Error         *apiError      `json:"error,omitempty"`
	Artists       *artistIndex   `json:"artists,omitempty"`
	Artist        *artistDetail  `json:"artist,omitempty"`
	Album         *albumDetail   `json:"album,omitempty"`
	SearchResult3 *searchResult3 `json:"searchResult3,omitempty"`
}

type apiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type artistIndex struct {
	Index []indexEntry `json:"index"`
}

type indexEntry struct {
	Name   string       `json:"name"`
	Artist []artistJSON `json:"artist"`
}

type artistJSON struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type artistDetail struct {
	ID    string      `json:"id"`
	Name  string      `json:"name"`
	Album []albumJSON `json:"album"`
}

type albumJSON struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Artist   string `json:"artist"`
	ArtistID string `json:"artistId"`
}

type albumDetail struct {
	ID       string     `json:"id"`
	Name     string     `json:"name"`
	Artist   string     `json:"artist"`
	ArtistID string     `json:"artistId"`
	Song     []songJSON `json:"song"`
}

type songJSON struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Artist   string `json:"artist"`
	Album    string `json:"album"`
	AlbumID  string `json:"albumId"`
	Duration int64  `json:"duration"` // seconds
}

type searchResult3 struct {
	Artist []artistJSON `json:"artist"`
	Album  []albumJSON  `json:"album"`
	Song   []songJSON   `json:"song"`
}
