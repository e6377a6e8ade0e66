package reconciler

import (
	"fmt"
	"reflect"

	"github.com/go-didact/didact/pkg/element"
	"github.com/go-didact/didact/pkg/host"
)

// FiberSnapshot is a serializable view of one committed fiber, used by
// the debug server and the test harness. Props are stringified and
// handlers reduced to a placeholder, so the type holds only concrete
// encodable values.
type FiberSnapshot struct {
	Kind      string            `json:"kind"`
	Tag       string            `json:"tag,omitempty"`
	Component string            `json:"component,omitempty"`
	Effect    string            `json:"effect,omitempty"`
	Props     map[string]string `json:"props,omitempty"`
	Children  []*FiberSnapshot  `json:"children,omitempty"`
}

// TreeSnapshot captures the committed fiber tree, or nil before the
// first commit.
func (r *Renderer) TreeSnapshot() *FiberSnapshot {
	if r.currentRoot == nil {
		return nil
	}
	return snapshotFiber(r.currentRoot)
}

func snapshotFiber(f *Fiber) *FiberSnapshot {
	s := &FiberSnapshot{
		Kind:   f.kind.String(),
		Effect: f.effect.String(),
	}
	switch f.kind {
	case element.KindComponent:
		s.Component = componentName(f.fn)
	default:
		s.Tag = f.tag
	}
	if len(f.props) > 0 {
		s.Props = make(map[string]string, len(f.props))
		for k, v := range f.props {
			s.Props[k] = snapshotValue(k, v)
		}
	}
	for child := f.child; child != nil; child = child.sibling {
		s.Children = append(s.Children, snapshotFiber(child))
	}
	return s
}

func snapshotValue(key string, v any) string {
	if host.IsEvent(key) || reflect.ValueOf(v).Kind() == reflect.Func {
		return "<handler>"
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}
