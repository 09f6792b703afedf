// Package descriptor classifies the ids of a SPIR-V module and merges the
// descriptor variables of one or more stage modules into a set/binding
// table.
//
// An IDTable is scratch sized to a module's id bound. Build walks the
// module once and records, per id, the descriptor kind its type implies
// together with Binding, DescriptorSet and name decorations:
//
//	ids := descriptor.NewIDTable(int(module.Bound()))
//	if err := ids.Build(module); err != nil {
//		return err
//	}
//	table := descriptor.NewTable(descriptor.DefaultMaxSets, descriptor.DefaultMaxBindingsPerSet)
//	warnings, err := descriptor.Aggregate(ids, table, ids.Stage())
//
// Separate modules may be built concurrently with separate IDTables. A Table
// collects all stages of one pipeline and must be aggregated into serially.
//
// Classification looks only at the first member of a struct: a struct whose
// first member is a storage buffer (a runtime array, typically) or that is
// decorated BufferBlock is a storage buffer, every other struct a uniform
// buffer.
package descriptor
