package checkout

// Notifier surfaces a transient user-facing message such as a guard
// rejection or an input warning.  It abstracts the
// original inline alert so the core stays independent of any
// presentation mechanism.
type Notifier interface {
	Notify(message string)
}

// NotifierFunc adapts a plain function to the Notifier interface.
type NotifierFunc func(string)

// Notify calls the wrapped function.
func (f NotifierFunc) Notify(message string) { f(message) }

// nopNotifier discards every message.  Used when no sink is injected.
type nopNotifier struct{}

func (nopNotifier) Notify(string) {}
