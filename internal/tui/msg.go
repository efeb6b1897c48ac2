package tui

// MsgExternalChange is sent when the project file was changed on disk by
// something other than this editor.
type MsgExternalChange struct {
	Path    string
	Removed bool
}
