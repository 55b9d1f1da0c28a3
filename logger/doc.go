// Package logger provides the leveled logging sink consumed by the unit tree.
//
// Every message carries the identity of the emitting unit (see Sink.Named)
// and one of six kinds: info, success, warning, failed, system and object.
// The default implementation writes through zerolog, either as a colored
// console stream or as JSON lines.
package logger
