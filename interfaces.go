package compmeta

// Component is implemented by every type embedding *Block. It is the
// uniform dispatch surface for events: callers that hold a component of
// unknown concrete type can still register handlers by event name.
//
//	func wireAll(c compmeta.Component, fn compmeta.HandlerFunc) error {
//	    for _, event := range c.Class().AllEvents() {
//	        if _, err := c.On(event, fn); err != nil {
//	            return err
//	        }
//	    }
//	    return nil
//	}
type Component interface {
	Class() *Class
	On(event string, fn HandlerFunc, opts ...ListenOption) (*Dependency, error)
	Dependencies() []*Dependency
}

// Postprocessor is implemented by components that convert their value for
// output. Block implements it by delegating to the class's wrapped method.
type Postprocessor interface {
	Postprocess(value any) (any, error)
}

var (
	_ Component     = (*Block)(nil)
	_ Postprocessor = (*Block)(nil)
	_ Postprocessor = (*Class)(nil)
)
