// Package bin is a compact binary encoding of document trees.
//
// A document is the magic "BSBD", a version byte, and one node. A node is
// a tag byte, the uvarint length of everything after it, an optional
// comment, and the payload:
//
//	tag      low 4 bits: kind; 0x80: a comment follows the length
//	comment  uvarint length, bytes
//	null, false, true   empty
//	int      8 bytes, little endian two's complement
//	float    8 bytes, little endian IEEE-754 bits
//	string   bytes
//	array    uvarint count, nodes
//	object   uvarint count, (uvarint key length, key, node)*
//
// Floats are stored as bits so values come back exactly.
package bin
