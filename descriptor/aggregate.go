package descriptor

import (
	"fmt"

	"github.com/gogpu/spvreflect/internal/logger"
)

// Aggregate merges the descriptor variables of a built IDTable into table
// under stage. It is called once per stage module of a pipeline.
//
// Every coordinate is validated before the first write, so an
// ErrCapacityExceeded error leaves the table as it was. A slot that is
// already populated with the same kind gains the stage bit; one populated
// with a different kind keeps its first kind and yields an
// ErrConflictingDescriptorType warning. Warnings never stop aggregation.
func Aggregate(ids *IDTable, table *Table, stage Stage) (warnings []*Error, err error) {
	if stage.Mask() == 0 {
		return nil, NewError(ErrUnsupportedStage,
			fmt.Sprintf("cannot aggregate for stage %s", stage))
	}

	for id := range ids.bound {
		r := &ids.records[id]
		if !r.IsDescriptorVariable || r.Kind == KindNone {
			continue
		}
		if !table.contains(r.Set, r.Binding) {
			return nil, &Error{
				Kind:    ErrCapacityExceeded,
				Set:     r.Set,
				Binding: r.Binding,
				Message: fmt.Sprintf("set %d binding %d outside a %dx%d table",
					r.Set, r.Binding, table.maxSets, table.maxBindings),
			}
		}
	}

	log := logger.Get()
	for id := range ids.bound {
		r := &ids.records[id]
		if !r.IsDescriptorVariable {
			continue
		}
		if r.Kind == KindNone {
			log.Debug("spvreflect: skipping descriptor variable of unknown kind",
				"id", id, "set", r.Set, "binding", r.Binding)
			continue
		}

		d := table.slot(r.Set, r.Binding)
		switch {
		case d.Empty():
			*d = Descriptor{
				Kind:         r.Kind,
				Set:          r.Set,
				Binding:      r.Binding,
				Stages:       stage.Mask(),
				Name:         ids.Name(id),
				ReadOnly:     r.ReadOnly,
				WriteOnly:    r.WriteOnly,
				Count:        r.Count,
				Dim:          r.Dim,
				Arrayed:      r.Arrayed,
				Depth:        r.Depth,
				Multisampled: r.Multisampled,
				StorageImage: r.StorageImage,
				Format:       r.Format,
			}
		case d.Kind == r.Kind:
			d.Stages |= stage.Mask()
			d.ReadOnly = d.ReadOnly && r.ReadOnly
			d.WriteOnly = d.WriteOnly && r.WriteOnly
		default:
			w := &Error{
				Kind:    ErrConflictingDescriptorType,
				Set:     r.Set,
				Binding: r.Binding,
				Message: fmt.Sprintf("set %d binding %d is %s in %s but %s in %s; keeping %s",
					r.Set, r.Binding, d.Kind, d.Stages, r.Kind, stage, d.Kind),
			}
			log.Warn("spvreflect: conflicting descriptor kinds",
				"set", r.Set, "binding", r.Binding, "kept", d.Kind.String(), "ignored", r.Kind.String(),
				"stage", stage.String())
			warnings = append(warnings, w)
		}
	}
	return warnings, nil
}
