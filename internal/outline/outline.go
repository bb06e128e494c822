package outline

import (
	"fmt"
	"sort"
)

// Entry is one titled structural unit of a manuscript: a chapter or
// section heading, the half-open byte range [Start, End) of text it
// covers, and the logical page it begins on.
type Entry struct {
	Title string `json:"title"`
	Level int    `json:"level"` // Heading depth; 0 = top-level.
	Start int    `json:"start"`
	End   int    `json:"end"`
	Page  int    `json:"page"`
}

// Contains reports whether the byte offset falls inside the entry's range.
func (e Entry) Contains(off int) bool {
	return off >= e.Start && off < e.End
}

// Locate returns the index of the entry whose range contains off, or -1 if
// no entry contains it. Entries must be ordered by Start with
// non-overlapping ranges; lookup is a binary search over End.
func Locate(entries []Entry, off int) int {
	i := sort.Search(len(entries), func(i int) bool {
		return entries[i].End > off
	})
	if i < len(entries) && entries[i].Contains(off) {
		return i
	}
	return -1
}

// Validate checks the ordering invariant for an entry sequence: ranges are
// well-formed, non-overlapping, and non-decreasing in Start; levels and
// pages are in range.
func Validate(entries []Entry) error {
	prevEnd := 0
	prevStart := -1
	for i, e := range entries {
		if e.Start > e.End {
			return fmt.Errorf("entry %d (%q): inverted range [%d, %d)", i, e.Title, e.Start, e.End)
		}
		if e.Start < prevStart {
			return fmt.Errorf("entry %d (%q): start %d precedes previous start %d", i, e.Title, e.Start, prevStart)
		}
		if e.Start < prevEnd {
			return fmt.Errorf("entry %d (%q): range overlaps previous entry", i, e.Title)
		}
		if e.Level < 0 {
			return fmt.Errorf("entry %d (%q): negative level", i, e.Title)
		}
		if e.Page < 1 {
			return fmt.Errorf("entry %d (%q): page %d, must be >= 1", i, e.Title, e.Page)
		}
		prevStart = e.Start
		prevEnd = e.End
	}
	return nil
}
