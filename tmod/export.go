package tmod

// Exportable reports whether m recursively contains at least one exported
// binding. An alias is exportable exactly when its target is. Frozen modules
// answer from the value computed at freeze time; unfrozen modules are
// evaluated on demand.
func (m *Module) Exportable() bool {
	if m.frozen {
		return m.exportable
	}
	return computeExportable(m)
}

func computeExportable(m *Module) bool {
	if m.frozen {
		return m.exportable
	}
	if m.alias {
		target := m.content()
		return target != m && computeExportable(target)
	}
	for _, n := range m.All() {
		switch n := n.(type) {
		case *Binding:
			if n.exported {
				return true
			}
		case *Module:
			if computeExportable(n) {
				return true
			}
		}
	}
	return false
}

// ExportedView returns the projection of m that is visible outside its
// unit: every exported binding, and the view of every exportable sub-module
// under the same name. A module with nothing to export yields an empty view.
//
// The view of a view is the view itself. Views of frozen modules are
// computed once and shared.
func (m *Module) ExportedView() *Module {
	if m.exportedView != nil {
		return m.exportedView
	}
	v := buildView(m)
	if m.frozen {
		m.exportedView = v
	}
	return v
}

func buildView(m *Module) *Module {
	v := &Module{
		name:     m.name,
		unit:     m.unit,
		path:     m.path,
		pos:      m.pos,
		root:     m.root,
		view:     true,
		alias:    m.alias,
		children: make(map[string]Node),
	}
	if m.alias {
		v.aliasPath = m.aliasPath
	}
	for _, n := range m.All() {
		switch n := n.(type) {
		case *Binding:
			if n.exported {
				v.add(n)
			}
		case *Module:
			if n.Exportable() {
				v.add(n.ExportedView())
			}
		}
	}
	v.frozen = true
	v.exportable = len(v.order) > 0
	v.exportedView = v
	return v
}

// freeze marks m and its declared descendants read-only, computing
// exportability bottom-up and memoizing every exported view. Aliases are
// frozen with their container; their targets are either declared modules
// of the same tree or already frozen views.
func (m *Module) freeze() {
	freezeExportable(m)
	freezeViews(m)
}

func freezeExportable(m *Module) bool {
	if m.frozen {
		return m.exportable
	}
	if m.alias {
		m.frozen = true
		target := m.content()
		m.exportable = target != m && freezeExportable(target)
		return m.exportable
	}
	exportable := false
	for _, name := range m.order {
		switch n := m.children[name].(type) {
		case *Binding:
			if n.exported {
				exportable = true
			}
		case *Module:
			if freezeExportable(n) {
				exportable = true
			}
		}
	}
	m.frozen = true
	m.exportable = exportable
	return exportable
}

func freezeViews(m *Module) {
	m.ExportedView()
	if m.alias {
		return
	}
	for _, name := range m.order {
		if sub, ok := m.children[name].(*Module); ok {
			freezeViews(sub)
		}
	}
}
