// Package hash provides the CRC32-Castagnoli checksums used to protect
// persisted Gram matrices and object-store uploads.
//
// One-shot:
//
//	sum := hash.CRC32C(data)
//
// Streaming:
//
//	h := hash.NewCRC32C()
//	h.Write(header)
//	h.Write(payload)
//	sum := h.Sum32()
package hash
