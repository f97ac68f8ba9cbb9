package ui

import "github.com/lepinkainen/takeoutdate/media"

// TUI message types sent by the batch observer

type DiscoveredMsg struct {
	Total int
}

type FileDoneMsg struct {
	Done    int
	Total   int
	Outcome media.Outcome
}

// RunFinishedMsg ends the program once the batch has returned.
type RunFinishedMsg struct {
	Err error
}
