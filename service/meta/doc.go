// Package meta loads configuration and manifest documents from any afs
// supported location (file, mem, embed, cloud storage) and decodes them by
// extension. ${env.KEY} expressions are expanded before decoding.
package meta
