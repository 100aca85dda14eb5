package views

// lifecycle lets the app attach work to a page becoming visible or hidden.
type lifecycle struct {
	onStart func()
	onStop  func()
}

// SetOnStart sets the callback run each time the page is shown.
func (l *lifecycle) SetOnStart(fn func()) { l.onStart = fn }

// SetOnStop sets the callback run each time the page is left.
func (l *lifecycle) SetOnStop(fn func()) { l.onStop = fn }

// Init implements Component.
func (l *lifecycle) Init() {}

// Start implements Component.
func (l *lifecycle) Start() {
	if l.onStart != nil {
		l.onStart()
	}
}

// Stop implements Component.
func (l *lifecycle) Stop() {
	if l.onStop != nil {
		l.onStop()
	}
}
