package server

// Broker fans a reload notification out to every open live reload socket.
// Subscribe and Unsubscribe return once the running broker has registered
// the change, so a Publish issued afterwards always sees it.
type Broker struct {
	stopCh    chan struct{}
	publishCh chan struct{}
	subCh     chan chan struct{}
	unsubCh   chan chan struct{}
}

func newBroker() *Broker {
	return &Broker{
		stopCh:    make(chan struct{}),
		publishCh: make(chan struct{}, 1),
		subCh:     make(chan chan struct{}),
		unsubCh:   make(chan chan struct{}),
	}
}

func (b *Broker) Start() {
	subs := map[chan struct{}]struct{}{}
	for {
		select {
		case <-b.stopCh:
			for ch := range subs {
				close(ch)
			}
			return
		case ch := <-b.subCh:
			subs[ch] = struct{}{}
		case ch := <-b.unsubCh:
			delete(subs, ch)
		case msg := <-b.publishCh:
			for ch := range subs {
				select {
				case ch <- msg:
				default:
				}
			}
		}
	}
}

func (b *Broker) Stop() {
	close(b.stopCh)
}

func (b *Broker) Subscribe() chan struct{} {
	ch := make(chan struct{}, 1)
	select {
	case b.subCh <- ch:
	case <-b.stopCh:
		close(ch)
	}
	return ch
}

func (b *Broker) Unsubscribe(ch chan struct{}) {
	select {
	case b.unsubCh <- ch:
	case <-b.stopCh:
	}
}

func (b *Broker) Publish(msg struct{}) {
	select {
	case b.publishCh <- msg:
	case <-b.stopCh:
	}
}
