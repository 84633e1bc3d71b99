// Package server exposes word generation, rhymes, speech analytics and
// per-browser practice sessions over HTTP using gin.
//
// Every browser gets a session cookie. A session owns one scheduler and
// one beat deck; its snapshots can be polled or streamed as server-sent
// events. Sessions idle for longer than the configured timeout are closed.
package server
