package lines

// FileInfo is the input used to seed a Version: a file name and its lines.
type FileInfo struct {
	Name  string
	Lines []string
}

// NewFileInfo creates a FileInfo.
func NewFileInfo(name string, lines []string) FileInfo {
	return FileInfo{Name: name, Lines: lines}
}

// Len returns the number of lines.
func (fi FileInfo) Len() int {
	return len(fi.Lines)
}
