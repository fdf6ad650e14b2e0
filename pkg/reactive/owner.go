package reactive

// Owner is a disposal scope. Effects created while an Owner is current
// belong to it, and disposing the Owner disposes them together with every
// child Owner and registered cleanup.
//
// Owners form a hierarchy: a child is disposed with its parent.
type Owner struct {
	rt       *Runtime
	parent   *Owner
	children []*Owner
	effects  []*Effect
	cleanups []func()
	disposed bool
}

// NewOwner creates an Owner. A non-nil parent disposes it; the parent must
// belong to the same runtime.
func (rt *Runtime) NewOwner(parent *Owner) *Owner {
	if parent != nil && parent.rt != rt {
		panic(ErrForeignNode)
	}
	o := &Owner{rt: rt, parent: parent}
	if parent != nil {
		parent.addChild(o)
	}
	return o
}

// WithOwner runs fn with o as the current owner.
//
// Example:
//
//	scope := rt.NewOwner(nil)
//	rt.WithOwner(scope, func() {
//	    rt.Effect(logTemperature)
//	    rt.Effect(logMessage)
//	})
//	scope.Dispose() // disposes both effects
func (rt *Runtime) WithOwner(o *Owner, fn func()) {
	old := rt.owner
	rt.owner = o
	defer func() { rt.owner = old }()
	fn()
}

// CurrentOwner returns the owner new effects are registered with, or nil.
func (rt *Runtime) CurrentOwner() *Owner {
	return rt.owner
}

// Parent returns the parent Owner, or nil for a root.
func (o *Owner) Parent() *Owner {
	return o.parent
}

// IsDisposed reports whether Dispose has been called.
func (o *Owner) IsDisposed() bool {
	return o.disposed
}

// OnCleanup registers fn to run when the owner is disposed. On a disposed
// owner fn runs immediately.
func (o *Owner) OnCleanup(fn func()) {
	if o.disposed {
		fn()
		return
	}
	o.cleanups = append(o.cleanups, fn)
}

func (o *Owner) addChild(child *Owner) {
	if o.disposed {
		child.Dispose()
		return
	}
	o.children = append(o.children, child)
}

func (o *Owner) removeChild(child *Owner) {
	for i, c := range o.children {
		if c == child {
			o.children = append(o.children[:i], o.children[i+1:]...)
			return
		}
	}
}

func (o *Owner) registerEffect(e *Effect) {
	if o.disposed {
		// The effect still runs once; it is simply not owned.
		e.owner = nil
		return
	}
	o.effects = append(o.effects, e)
}

func (o *Owner) unregisterEffect(e *Effect) {
	for i, existing := range o.effects {
		if existing == e {
			o.effects = append(o.effects[:i], o.effects[i+1:]...)
			return
		}
	}
}

// Dispose disposes children in reverse creation order, then owned
// effects, then runs cleanups in reverse registration order.
func (o *Owner) Dispose() {
	if o.disposed {
		return
	}
	o.disposed = true

	if o.parent != nil {
		o.parent.removeChild(o)
	}

	children := o.children
	o.children = nil
	for i := len(children) - 1; i >= 0; i-- {
		children[i].Dispose()
	}

	effects := o.effects
	o.effects = nil
	for _, e := range effects {
		e.owner = nil
		e.Dispose()
	}

	cleanups := o.cleanups
	o.cleanups = nil
	for i := len(cleanups) - 1; i >= 0; i-- {
		cleanups[i]()
	}
}
