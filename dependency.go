package compmeta

// Dependency is the record created when a handler is registered for an
// event. It is what other registrations reference in WithCancels.
type Dependency struct {
	ID     string
	Event  string
	Fn     HandlerFunc
	Config ListenConfig
}

// CancelIDs returns the IDs of the registrations this one cancels.
func (d *Dependency) CancelIDs() []string {
	ids := make([]string, 0, len(d.Config.Cancels))
	for _, c := range d.Config.Cancels {
		if c != nil {
			ids = append(ids, c.ID)
		}
	}
	return ids
}

// Queued reports whether the registration runs on the queue, given the
// application's queue setting.
func (d *Dependency) Queued(appDefault bool) bool {
	if d.Config.Queue == nil {
		return appDefault
	}
	return *d.Config.Queue
}

// Exposed reports whether the registration appears in the API docs.
func (d *Dependency) Exposed() bool {
	return !d.Config.HideAPI
}
