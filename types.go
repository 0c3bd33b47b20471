package astindex

import "github.com/tmoore/astindex/internal/store"

// Public type aliases for internal store types used in the Engine and
// QueryBuilder APIs. These are Go type aliases (=), identical to the
// internal types at compile time.

type Store = store.Store
type File = store.File
type Symbol = store.Symbol
type SymbolInfo = store.SymbolInfo
type Reference = store.Reference
type ReferenceInfo = store.ReferenceInfo
type UsageGroup = store.UsageGroup
type ParentLink = store.ParentLink
type Module = store.Module
type ModuleDep = store.ModuleDep
type TransitiveDep = store.TransitiveDep
type DepInfo = store.DepInfo
type Stats = store.Stats
type RawResult = store.RawResult
