package host

// MaxPending is the number of input events a Pending queue holds.
const MaxPending = 64

// Pending queues input events that arrived while nobody was waiting for
// one. When full, the oldest event is dropped.
type Pending struct {
	events []any
}

func (p *Pending) Push(e any) {
	if len(p.events) == MaxPending {
		copy(p.events, p.events[1:])
		p.events = p.events[:MaxPending-1]
	}
	p.events = append(p.events, e)
}

// Pop removes and returns the oldest event.
func (p *Pending) Pop() (any, bool) {
	if len(p.events) == 0 {
		return nil, false
	}
	e := p.events[0]
	p.events[0] = nil
	p.events = p.events[1:]
	return e, true
}

func (p *Pending) Len() int { return len(p.events) }
