package types

// Snapshot is the result of scanning the main directory and every auxiliary
// directory at one point in time.
//
// A Snapshot is a value: the pipeline builds a new one after each mutating
// stage and never edits an existing one.
type Snapshot struct {
	Main      string
	Auxiliary []string
	Files     map[string][]FileRecord
}

// NewSnapshot creates an empty snapshot for the given roots
func NewSnapshot(main string, auxiliary []string) *Snapshot {
	aux := make([]string, len(auxiliary))
	copy(aux, auxiliary)
	return &Snapshot{
		Main:      main,
		Auxiliary: aux,
		Files:     make(map[string][]FileRecord),
	}
}

// Roots returns the main root followed by the auxiliary roots in order
func (s *Snapshot) Roots() []string {
	roots := make([]string, 0, len(s.Auxiliary)+1)
	roots = append(roots, s.Main)
	return append(roots, s.Auxiliary...)
}

// Set stores the records found under root
func (s *Snapshot) Set(root string, records []FileRecord) {
	s.Files[root] = records
}

// RootFiles returns the records of one root
func (s *Snapshot) RootFiles(root string) []FileRecord {
	return s.Files[root]
}

// Union materializes all records across roots, main root first. The
// returned slice is a fresh copy the caller may keep for a stage.
func (s *Snapshot) Union() []FileRecord {
	union := make([]FileRecord, 0, s.Len())
	for _, root := range s.Roots() {
		union = append(union, s.RootFiles(root)...)
	}
	return union
}

// AuxiliaryFiles returns the records of every auxiliary root in order
func (s *Snapshot) AuxiliaryFiles() []FileRecord {
	var files []FileRecord
	for _, root := range s.Auxiliary {
		files = append(files, s.RootFiles(root)...)
	}
	return files
}

// Len returns the total number of records
func (s *Snapshot) Len() int {
	n := 0
	for _, records := range s.Files {
		n += len(records)
	}
	return n
}

// RootRank orders roots: 0 for main, 1.. for auxiliaries, len+1 for unknown
func (s *Snapshot) RootRank(root string) int {
	if root == s.Main {
		return 0
	}
	for i, aux := range s.Auxiliary {
		if aux == root {
			return i + 1
		}
	}
	return len(s.Auxiliary) + 1
}
