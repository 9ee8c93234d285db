package types

// SelectionKind distinguishes what kind of target is selected, if any.
type SelectionKind int

const (
	// SelectNone means no target is selected
	SelectNone SelectionKind = iota
	// SelectFile means a single file is selected
	SelectFile
	// SelectFolder means a whole folder is selected
	SelectFolder
)

// Selection holds the current dispatch target. At most one of file or
// folder can be selected; assigning a new Selection value replaces the
// previous one wholesale, so the exclusive-or holds by construction.
type Selection struct {
	Kind SelectionKind
	Path string
}

// FileSelection returns a Selection targeting a single file
func FileSelection(path string) Selection {
	return Selection{Kind: SelectFile, Path: path}
}

// FolderSelection returns a Selection targeting a whole folder
func FolderSelection(path string) Selection {
	return Selection{Kind: SelectFolder, Path: path}
}

// IsNone reports whether nothing is selected
func (s Selection) IsNone() bool {
	return s.Kind == SelectNone
}
