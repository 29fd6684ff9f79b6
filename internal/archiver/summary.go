package archiver

import "sort"

// Move records one archived file.
type Move struct {
	Source  string
	Dest    string
	Matcher string
	Size    int64
}

// Summary accumulates the outcome of a run.
type Summary struct {
	Visited   int
	Moved     int
	Unmatched int
	Skipped   int // Matched but left in place: already at its destination, or the name was taken under ConflictSkip.
	Bytes     int64
	Moves     []Move
	Folders   map[string]int // Files moved per year-month folder.
}

func (s *Summary) recordMove(folder string, m Move) {
	if s.Folders == nil {
		s.Folders = make(map[string]int)
	}
	s.Moved++
	s.Bytes += m.Size
	s.Folders[folder]++
	s.Moves = append(s.Moves, m)
}

// FolderNames returns the destination folders in sorted order.
func (s Summary) FolderNames() []string {
	names := make([]string, 0, len(s.Folders))
	for name := range s.Folders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
