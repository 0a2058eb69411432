package models

// ReviewSource tells local (user-authored, persisted here) apart from remote
// (fetched from TMDB, never persisted).
type ReviewSource string

const (
	ReviewSourceLocal  ReviewSource = "local"
	ReviewSourceRemote ReviewSource = "remote"
)

// Review is a single review in the merged view. Remote ratings may use a
// different scale or be absent; local reviews always carry a 1-10 rating.
type Review struct {
	ID        string       `json:"id"`
	Author    string       `json:"author"`
	Avatar    *string      `json:"avatar"`
	Content   string       `json:"content"`
	Rating    *float64     `json:"rating"`
	CreatedAt string       `json:"createdAt"`
	Source    ReviewSource `json:"source"`
}
