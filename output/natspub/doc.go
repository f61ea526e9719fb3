// Package natspub publishes scan pipeline events to NATS.
//
// Completed scans go to scan.decoded.<platform> as ScanEvent envelopes
// carrying a uuid session ID, timestamps, the raw and display strings,
// and the full validated GS1 breakdown. Rejected scans (length or decode
// failures) go to scan.rejected.<platform> as RejectEvent.
//
// The Publisher is asynchronous: PublishScan and PublishRejected enqueue
// onto a bounded queue drained by a single worker goroutine, so the
// keystroke path never blocks on the broker. When the queue is full the
// event is dropped and counted rather than stalling a scan in progress.
//
//	pub, err := natspub.New("station1", client, registry,
//	    natspub.WithLogger(logger))
//	if err != nil {
//	    return err
//	}
//	if err := pub.Start(ctx); err != nil {
//	    return err
//	}
//	defer pub.Stop(5 * time.Second)
//
//	id, err := pub.PublishScan("feed", raw, display, parsed)
package natspub
