package domain

import (
	"fmt"
	"sort"
	"time"
)

// Photoshoot is a run of time-adjacent files. Files are appended in
// ascending timestamp order during segmentation.
type Photoshoot struct {
	Files []FileEntry
}

func (p *Photoshoot) Add(file FileEntry) {
	p.Files = append(p.Files, file)
}

func (p Photoshoot) Len() int {
	return len(p.Files)
}

// MinTimestamp scans all files, so it stays correct even if the order was
// disturbed. It panics on an empty shoot; segmentation never produces one.
func (p Photoshoot) MinTimestamp() time.Time {
	if len(p.Files) == 0 {
		panic("photoshoot should have at least 1 file")
	}
	min := p.Files[0].Timestamp
	for _, f := range p.Files[1:] {
		if f.Timestamp.Before(min) {
			min = f.Timestamp
		}
	}
	return min
}

// MaxTimestamp panics on an empty shoot.
func (p Photoshoot) MaxTimestamp() time.Time {
	if len(p.Files) == 0 {
		panic("photoshoot should have at least 1 file")
	}
	max := p.Files[0].Timestamp
	for _, f := range p.Files[1:] {
		if f.Timestamp.After(max) {
			max = f.Timestamp
		}
	}
	return max
}

// CountByExt counts files with the given extension, ignoring case.
func (p Photoshoot) CountByExt(ext string) int {
	want := NormalizeExt(ext)
	count := 0
	for _, f := range p.Files {
		if f.Ext() == want {
			count++
		}
	}
	return count
}

// Extensions returns the distinct normalized extensions in the shoot, sorted.
func (p Photoshoot) Extensions() []string {
	seen := map[string]bool{}
	var exts []string
	for _, f := range p.Files {
		ext := f.Ext()
		if seen[ext] {
			continue
		}
		seen[ext] = true
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// FolderName names the shoot's destination folder after its first capture,
// to the minute, plus the 1-based shoot index to keep colliding minutes apart.
func (p Photoshoot) FolderName(index int) string {
	return fmt.Sprintf("%s_project_%d", p.MinTimestamp().Format("2006-01-02_15_04"), index)
}
