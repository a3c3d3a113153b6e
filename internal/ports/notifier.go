package ports

// Notifier surfaces short fire-and-forget messages to the user.
type Notifier interface {
	ShowMessage(text string)
}

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func(text string)

func (f NotifierFunc) ShowMessage(text string) { f(text) }
