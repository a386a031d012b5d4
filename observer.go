package simplefsm

// Observer is notified of dispatch outcomes and settled transitions. Labels are the
// identifier labels, so implementations need no knowledge of the owner's types.
type Observer interface {
	// EventDispatched is called once per Dispatch
	EventDispatched(owner, state, event string, result Result)
	// Transitioned is called after the machine settles; steps counts the enter calls
	// the chain needed. Self transitions report from == to.
	Transitioned(owner, from, to string, steps int)
}

type nopObserver struct{}

func (nopObserver) EventDispatched(string, string, string, Result) {}
func (nopObserver) Transitioned(string, string, string, int)       {}

// Observers fans notifications out to several observers
type Observers []Observer

func (obs Observers) EventDispatched(owner, state, event string, result Result) {
	for _, o := range obs {
		o.EventDispatched(owner, state, event, result)
	}
}

func (obs Observers) Transitioned(owner, from, to string, steps int) {
	for _, o := range obs {
		o.Transitioned(owner, from, to, steps)
	}
}
