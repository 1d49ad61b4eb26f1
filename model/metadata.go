package model

// SongMetadata is the catalog record looked up by audio filename. Used to
// fill simfile header tags when the file itself has none.
type SongMetadata struct {
	Title   string
	Artist  string
	Release string
	Year    uint
}
