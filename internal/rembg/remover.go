// Package rembg talks to an external background-segmentation service.
// The service is a black box: PNG bytes in, PNG bytes with a transparent
// background out. Implementations are swappable behind Remover so the
// pipeline never learns which model sits on the other side.
package rembg

import "context"

type Remover interface {
	Remove(ctx context.Context, encoded []byte) ([]byte, error)
}
