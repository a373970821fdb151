// symbols/symbol_table.go - Main symbol table entry point
//
// The table is split into focused files:
// - symbol_table_core.go: Symbol kinds, the Table struct, basic accessors
// - symbol_table_init.go: Built-in class hierarchy
// - symbol_table_operations.go: Defining classes, modules, mixins and methods
// - symbol_table_resolution.go: Ancestry, method lookup, typesystem.Context
// - symbol_table_types.go: Helpers building types that name table classes
//
// A Table is mutable while it is being built and read-only after Freeze.
// Only a frozen table may be shared between goroutines.

package symbols
