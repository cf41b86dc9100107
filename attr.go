package mosaic

// AttrEvent describes a change to a shared plot attribute. Listeners
// receive the attribute name along with the previous and new values.
type AttrEvent struct {
	Name  string
	Value any
	Prev  any
}

// AttrListener is notified synchronously when an attribute it subscribed
// to changes.
type AttrListener func(AttrEvent)

// Attributes is the shared plot-attribute store. Sibling marks on the same
// plot read scale configuration from it and publish computed scale domains
// back so coordinated encodings stay aligned.
//
// Attributes is written for the single-threaded, event-driven model used by
// the rendering pipeline: Set notifies listeners synchronously on the
// calling goroutine, and no locking is performed. Last writer wins; the
// fixed/transient flags on a shared Domain arbitrate whose write is honored
// across rasterization passes.
type Attributes struct {
	values    map[string]any
	listeners map[string][]AttrListener
}

// NewAttributes creates an empty attribute store.
func NewAttributes() *Attributes {
	return &Attributes{
		values:    make(map[string]any),
		listeners: make(map[string][]AttrListener),
	}
}

// Get returns the current value of the named attribute, or nil when unset.
func (a *Attributes) Get(name string) any {
	return a.values[name]
}

// Has reports whether the named attribute has been set.
func (a *Attributes) Has(name string) bool {
	_, ok := a.values[name]
	return ok
}

// Set stores a value and synchronously notifies listeners registered for
// the attribute name. Setting an attribute to the value it already holds
// still notifies; callers that need idempotence should compare first.
func (a *Attributes) Set(name string, value any) {
	prev := a.values[name]
	a.values[name] = value
	for _, fn := range a.listeners[name] {
		fn(AttrEvent{Name: name, Value: value, Prev: prev})
	}
}

// Delete removes the named attribute without notifying listeners.
func (a *Attributes) Delete(name string) {
	delete(a.values, name)
}

// Listen registers a listener for changes to the named attribute.
// Listeners run in registration order on the goroutine that calls Set.
func (a *Attributes) Listen(name string, fn AttrListener) {
	a.listeners[name] = append(a.listeners[name], fn)
}

// GetString returns a string attribute, or def when unset or of another type.
func (a *Attributes) GetString(name, def string) string {
	if v, ok := a.values[name].(string); ok {
		return v
	}
	return def
}

// GetBool returns a bool attribute, or def when unset or of another type.
func (a *Attributes) GetBool(name string, def bool) bool {
	if v, ok := a.values[name].(bool); ok {
		return v
	}
	return def
}

// GetFloat returns a numeric attribute, or def when unset. Integer values
// are widened so configuration code can pass untyped constants.
func (a *Attributes) GetFloat(name string, def float64) float64 {
	switch v := a.values[name].(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	}
	return def
}

// GetInt returns an integer attribute, or def when unset.
func (a *Attributes) GetInt(name string, def int) int {
	switch v := a.values[name].(type) {
	case int:
		return v
	case float64:
		return int(v)
	}
	return def
}

// GetFloats returns a float-slice attribute, or nil when unset.
func (a *Attributes) GetFloats(name string) []float64 {
	if v, ok := a.values[name].([]float64); ok {
		return v
	}
	return nil
}

// GetStrings returns a string-slice attribute, or nil when unset.
func (a *Attributes) GetStrings(name string) []string {
	if v, ok := a.values[name].([]string); ok {
		return v
	}
	return nil
}

// GetDomain returns a shared Domain attribute, or nil when unset or not a
// Domain.
func (a *Attributes) GetDomain(name string) *Domain {
	if v, ok := a.values[name].(*Domain); ok {
		return v
	}
	return nil
}
