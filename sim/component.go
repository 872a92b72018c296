package sim

// A Named object is an object that has a name.
type Named interface {
	Name() string
}

// NamedHookable represents something that has a name and accepts hooks.
type NamedHookable interface {
	Named
	Hookable
	InvokeHook(ctx HookCtx)
}

// ComponentBase provides the name and hook support that every fabric node
// shares.
type ComponentBase struct {
	HookableBase
	name string
}

// NewComponentBase creates a new ComponentBase
func NewComponentBase(name string) *ComponentBase {
	nameMustBeValid(name)

	c := new(ComponentBase)
	c.name = name

	return c
}

// Name returns the name of the component.
func (c *ComponentBase) Name() string {
	return c.name
}

func nameMustBeValid(name string) {
	if name == "" {
		panic("component name must not be empty")
	}
}
