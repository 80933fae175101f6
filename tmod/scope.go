package tmod

// Scope resolves dotted paths. Resolution always starts at the unit root,
// never at the lexical position of the reference: a name declared inside a
// module is reachable from anywhere in the unit, but only through its full
// path.
type Scope struct {
	root    *Module
	imports map[string]*Module

	// enter is called on every module a walk reaches, before its children
	// are consulted. The resolver uses it to bind aliases lazily.
	enter func(*Module) error
	// used records which imports a walk started from.
	used map[string]bool
}

// NewScope returns a scope rooted at root. imports maps local names bound
// by require declarations to the required units' surfaces; names declared
// in root take precedence.
func NewScope(root *Module, imports map[string]*Module) *Scope {
	return &Scope{root: root, imports: imports}
}

func (s *Scope) lookupFirst(name string) (Node, bool) {
	if n, ok := s.root.Child(name); ok {
		return n, true
	}
	if m, ok := s.imports[name]; ok {
		if s.used != nil {
			s.used[name] = true
		}
		return m, true
	}
	return nil, false
}

// Resolve walks path from the root. Every segment but the last must name a
// module (else UnknownModule); the last may name a binding or a module
// (else UnknownType).
func (s *Scope) Resolve(path Path) (Node, error) {
	return s.walk(path, false)
}

func (s *Scope) walk(path Path, wantModule bool) (Node, error) {
	if len(path) == 0 {
		return nil, &Error{Kind: ErrorMalformedDeclaration, Unit: s.root.unit, Detail: "empty path"}
	}

	var cur Node
	for i, seg := range path {
		last := i == len(path)-1

		var next Node
		var ok bool
		if i == 0 {
			next, ok = s.lookupFirst(seg)
		} else {
			next, ok = cur.(*Module).Child(seg)
		}
		if !ok {
			kind := ErrorUnknownModule
			if last && !wantModule {
				kind = ErrorUnknownType
			}
			return nil, &Error{Kind: kind, Unit: s.root.unit, Path: path, Segment: seg}
		}

		mod, isModule := next.(*Module)
		if isModule && s.enter != nil {
			if err := s.enter(mod); err != nil {
				return nil, err
			}
		}
		if !last && !isModule {
			return nil, &Error{Kind: ErrorUnknownModule, Unit: s.root.unit, Path: path, Segment: seg,
				Detail: seg + " is a type, not a module"}
		}
		cur = next
	}
	return cur, nil
}

// ResolveModule resolves path and requires the result to be a module.
// A missing last segment is reported as UnknownModule.
func (s *Scope) ResolveModule(path Path) (*Module, error) {
	n, err := s.walk(path, true)
	if err != nil {
		return nil, err
	}
	m, ok := n.(*Module)
	if !ok {
		return nil, &Error{Kind: ErrorExpectedModuleGotType, Unit: s.root.unit, Path: path, Segment: path.Last()}
	}
	return m, nil
}

// ResolveBinding resolves path and requires the result to be a binding.
func (s *Scope) ResolveBinding(path Path) (*Binding, error) {
	n, err := s.Resolve(path)
	if err != nil {
		return nil, err
	}
	b, ok := n.(*Binding)
	if !ok {
		return nil, &Error{Kind: ErrorExpectedTypeGotModule, Unit: s.root.unit, Path: path, Segment: path.Last()}
	}
	return b, nil
}
