// Package protocol defines the JSON frames exchanged between the browser
// client and the tooltip host over a WebSocket connection.
//
// Events flow from client to server; patches flow from server to client.
//
// # Frames
//
// Every WebSocket text message is one Frame:
//
//	{"t":"event","event":{"target":"help","type":"mouseenter",
//	                      "boxes":{"help":{"top":10,"left":20,"width":40,"height":16}}}}
//	{"t":"patches","seq":7,"patches":[{"op":"insert","id":"tt-3","html":"<div ...>"}]}
//	{"t":"error","error":{"code":"invalid_event","message":"..."}}
//	{"t":"ping"} / {"t":"pong"}
//
// The client reports the bounding boxes of the event target and of its
// ancestors that carry an id, so the server can position panels without a
// layout engine of its own.
package protocol
