// Package broadcast fans typed values out to in-process subscribers.
//
//	b := broadcast.NewMemory[Change](16)
//	defer b.Close()
//
//	sub := b.Subscribe(ctx)
//	defer sub.Close()
//
//	_ = b.Broadcast(ctx, change)
//
//	for c := range sub.C() {
//		fmt.Println(c)
//	}
//
// Broadcast never blocks. A subscriber whose buffer is full is closed and
// removed, so its channel closes and the consumer can resubscribe. A
// subscriber also goes away when its context is done or the broadcaster is
// closed.
package broadcast
