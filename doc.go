// Package astindex builds and queries a persistent index of source code
// symbols, textual references, inheritance edges and module dependency
// graphs for mixed Kotlin, Java, Swift and Go repositories.
//
// The index lives in a SQLite database and is maintained by an Engine:
// Rebuild re-extracts everything from scratch, Update re-extracts only the
// files whose metadata changed. Queries run through a QueryBuilder and never
// touch source files except for call-tree caller resolution.
//
// The reference graph is name-keyed rather than resolved: a reference row
// records that a name occurred at a line, and usage queries join on name
// equality. That trades precision for extraction speed and makes the whole
// pipeline embarrassingly parallel.
package astindex
