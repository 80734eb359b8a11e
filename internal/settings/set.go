package settings

// mapZipSet implements ZipSet using a map for O(1) lookups.
type mapZipSet struct {
	zips map[string]struct{}
}

// NewMapZipSet creates a new map-based ZIP code set.
func NewMapZipSet(capacity int) ZipSet {
	return &mapZipSet{
		zips: make(map[string]struct{}, capacity),
	}
}

// Contains checks if a ZIP code exists in the set.
func (s *mapZipSet) Contains(zip string) bool {
	_, exists := s.zips[zip]
	return exists
}

// Size returns the number of ZIP codes in the set.
func (s *mapZipSet) Size() int {
	return len(s.zips)
}

// Add adds a ZIP code to the set.
func (s *mapZipSet) Add(zip string) {
	s.zips[zip] = struct{}{}
}
