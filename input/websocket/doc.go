// Package websocket provides the WebSocket key-event feed server.
//
// # Overview
//
// Scanner stations run a thin client (a kiosk page or wedge shim) that opens
// a WebSocket to this server and forwards every keystroke as a JSON key
// event. The server maintains one scan session per connection, reconstructs
// the scan with package scanbox, decodes and validates it with package gs1,
// hands the result to an EventSink for NATS publication, and pushes live
// feedback frames back down the socket so the station UI can mirror the
// scan in progress.
//
// # Key Features
//
//   - One scan session (scanbox.Box) per connection
//   - Live feedback: scanning, complete, error and clear frames
//   - Authentication: optional bearer token from environment
//   - Per-connection key-event rate limiting
//   - Prometheus metrics per component plus core scan counters
//
// # Wire Protocol
//
// All frames are JSON envelopes:
//
//	{"type": "...", "id": "...", "timestamp": 1718000000000, "payload": {...}}
//
// Client to server:
//
//	key    {"key":"7","code":"Digit7","charCode":55,"ctrl":false,...}
//	clear  (no payload; clears the current scan buffer)
//	ping   (no payload)
//
// Server to client:
//
//	scanning  {"display":"700"}
//	complete  {"id":"<uuid>","raw":"...","display":"...","data":{...}}
//	error     {"message":"scan too short: 3 characters, minimum 5"}
//	clear     {"reason":"timeout"}
//	pong      (no payload)
//
// # Usage
//
//	feed, err := websocket.NewFeed(cfg.Feed, cfg.Scan, publisher, registry, logger)
//	if err != nil {
//	    return err
//	}
//	if err := feed.Start(ctx); err != nil {
//	    return err
//	}
//	defer feed.Stop(5 * time.Second)
package websocket
