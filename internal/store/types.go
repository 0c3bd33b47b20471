package store

// Extraction domain types

type File struct {
	ID       int64
	Path     string
	Language string
	Mtime    int64
	Size     int64
	Hash     string
}

type Symbol struct {
	ID        int64
	FileID    int64
	Name      string
	Kind      string
	Line      int
	Signature string
}

// SymbolInfo is a symbol joined with its owning file path, as returned by
// the query methods. Identity for query purposes is (File, Line, Name);
// names are not globally unique.
type SymbolInfo struct {
	ID        int64
	Name      string
	Kind      string
	File      string
	Line      int
	Signature string
}

// Reference is a textual occurrence of a name, not a resolved pointer to a
// symbol. Usage queries are a name-equality join.
type Reference struct {
	ID      int64
	FileID  int64
	Name    string
	Line    int
	Context string
}

type ReferenceInfo struct {
	Name    string
	File    string
	Line    int
	Context string
}

// UsageGroup aggregates references to one name within one file.
type UsageGroup struct {
	Name      string
	File      string
	Count     int
	FirstLine int
}

// InheritanceEdge links a child symbol to an unresolved parent name. The
// parent is matched to a symbol by name at query time.
type InheritanceEdge struct {
	ID         int64
	ChildID    int64
	ParentName string
	Kind       string
}

// ParentLink is one edge from a named child symbol, as returned by ParentsOf.
type ParentLink struct {
	ParentName string
	Kind       string
}

// Module domain types

type Module struct {
	ID         int64
	Name       string
	Path       string
	Descriptor string
}

type ModuleDep struct {
	ID       int64
	ModuleID int64
	DepName  string
	Kind     string
}

// TransitiveDep is one row of the precomputed reachability cache over
// module_deps. Path is the hop chain, e.g. "app -> core -> network".
type TransitiveDep struct {
	ModuleID int64
	DepName  string
	Depth    int
	Path     string
}

// Platform usage tables

type XMLUsage struct {
	ID        int64
	FileID    int64
	ClassName string
	Line      int
}

type Resource struct {
	ID      int64
	FileID  int64
	ResType string
	Name    string
}

type ResourceUsage struct {
	ID      int64
	FileID  int64
	ResType string
	Name    string
	Line    int
}

// Stats holds per-table row counts for the stats command.
type Stats struct {
	Files          int64
	Symbols        int64
	Refs           int64
	Modules        int64
	ModuleDeps     int64
	TransitiveDeps int64
	XMLUsages      int64
	Resources      int64
	ResourceUsages int64
}
