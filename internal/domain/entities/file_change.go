package entities

// FileChange is a rewritten requirement file ready to be persisted.
type FileChange struct {
	Path        string
	Content     string
	PreviousSHA string
}
