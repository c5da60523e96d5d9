package ports

import "os/exec"

// EditorOpener opens files in an external editor
type EditorOpener interface {
	// OpenFile opens the file in the user's preferred editor,
	// using $EDITOR and falling back to common editors
	OpenFile(path string) error

	// Command returns an exec.Cmd for opening a file in the editor,
	// for use with bubbletea's ExecProcess
	Command(path string) (*exec.Cmd, error)
}

// URLOpener opens a resource URI in the system browser
type URLOpener interface {
	OpenURL(uri string) error
}
